package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/johnae/whynot-go/model"
)

func TestExtractBodyMixed(t *testing.T) {
	parts := []model.BodyPart{
		{ContentType: "text/plain", Kind: model.ContentText, Text: "plain"},
		{ContentType: "text/html", Kind: model.ContentText, Text: "<p>html</p>"},
	}
	body := ExtractBody(parts)
	require.Equal(t, ModeMixed, body.Mode)
	require.Equal(t, "plain", body.PlainText)
	require.Equal(t, "<p>html</p>", body.HTML)
}

func TestExtractBodyPlainTextSynthesizesHTML(t *testing.T) {
	parts := []model.BodyPart{
		{ContentType: "text/plain", Kind: model.ContentText, Text: "a\nb"},
	}
	body := ExtractBody(parts)
	require.Equal(t, ModePlainText, body.Mode)
	require.Equal(t, "a<br>b<br>", body.HTML)
}

func TestExtractBodySkipsAttachments(t *testing.T) {
	parts := []model.BodyPart{
		{ContentType: "text/plain", Disposition: "attachment", Kind: model.ContentText, Text: "ignored"},
	}
	body := ExtractBody(parts)
	require.Equal(t, ModeEmpty, body.Mode)
}

func TestExtractBodyRecursesMultipart(t *testing.T) {
	parts := []model.BodyPart{
		{
			ContentType: "multipart/alternative",
			Kind:        model.ContentMultipart,
			Parts: []model.BodyPart{
				{ContentType: "text/html", Kind: model.ContentText, Text: "<b>hi</b>"},
			},
		},
	}
	body := ExtractBody(parts)
	require.Equal(t, ModeHTML, body.Mode)
	require.Equal(t, "<b>hi</b>", body.HTML)
}

func TestSanitizeRemovesScriptAndDangerousStyle(t *testing.T) {
	input := `<div style="position: fixed; color: red">X</div><script>alert(1)</script>`
	out := Sanitize(input, SanitizeOptions{})

	require.NotContains(t, out, "<script")
	require.NotContains(t, out, "position")
	require.NotContains(t, out, `style="position`)
	require.Contains(t, out, "X")
}

func TestSanitizeKeepsSafeStyleDeclarations(t *testing.T) {
	input := `<p style="color: red; font-weight: bold">hi</p>`
	out := Sanitize(input, SanitizeOptions{})
	require.Contains(t, out, "color: red")
	require.Contains(t, out, "font-weight: bold")
}

func TestSanitizeDropsJavascriptHref(t *testing.T) {
	out := Sanitize(`<a href="javascript:alert(1)">click</a>`, SanitizeOptions{})
	require.NotContains(t, out, "javascript:")
}

func TestSanitizeDropsDataURLImage(t *testing.T) {
	out := Sanitize(`<img src="data:text/html,hi">`, SanitizeOptions{})
	require.NotContains(t, out, "data:")
}

func TestSanitizeRewritesLinksAndForcesTargetRel(t *testing.T) {
	out := Sanitize(`<a href="http://example.com/x">link</a>`, SanitizeOptions{RewriteLinks: true})
	require.Contains(t, out, "/redirect?url=")
	require.Contains(t, out, `target="_blank"`)
	require.Contains(t, out, `rel="noopener noreferrer"`)
}

func TestSanitizeRewritesImageProxyWithBlocked(t *testing.T) {
	out := Sanitize(`<img src="http://example.com/a.jpg">`, SanitizeOptions{RewriteLinks: true, ShowImages: false})
	require.Contains(t, out, "/image_proxy?url=")
	require.Contains(t, out, "blocked=true")
}

func TestSanitizeImageProxyOmitsBlockedWhenShowingImages(t *testing.T) {
	out := Sanitize(`<img src="http://example.com/a.jpg">`, SanitizeOptions{RewriteLinks: true, ShowImages: true})
	require.Contains(t, out, "/image_proxy?url=")
	require.NotContains(t, out, "blocked=true")
}

func TestSanitizeKeepsMailtoLinksUnrewritten(t *testing.T) {
	out := Sanitize(`<a href="mailto:a@b.c">mail</a>`, SanitizeOptions{RewriteLinks: true})
	require.Contains(t, out, `href="mailto:a@b.c"`)
	require.NotContains(t, out, "/redirect")
}

func TestSanitizeUnwrapsDisallowedTagButKeepsChildren(t *testing.T) {
	out := Sanitize(`<marquee>hi</marquee>`, SanitizeOptions{})
	require.NotContains(t, out, "marquee")
	require.Contains(t, out, "hi")
}

func TestSanitizeKeepsAllowlistedTableTags(t *testing.T) {
	out := Sanitize(`<table><tbody><tr><td>cell</td></tr></tbody></table>`, SanitizeOptions{})
	require.Contains(t, out, "<table>")
	require.Contains(t, out, "<td>cell</td>")
}

func TestBuildFrameDocumentDarkTheme(t *testing.T) {
	doc := BuildFrameDocument("<p>hi</p>", ThemeDark)
	require.Contains(t, doc, `data-theme="dark"`)
	require.Contains(t, doc, "--bg-primary: #0d1117")
	require.Contains(t, doc, "background-color: var(--bg-primary)")
}

func TestBuildFrameDocumentLightTheme(t *testing.T) {
	doc := BuildFrameDocument("<p>hi</p>", ThemeLight)
	require.Contains(t, doc, `data-theme="light"`)
	require.Contains(t, doc, "--bg-primary: #ffffff")
}

func TestSafeFilenameStripsUnsafeCharacters(t *testing.T) {
	require.Equal(t, "report.pdf", SafeFilename("report.pdf"))
	require.Equal(t, "report.pdf", SafeFilename("../../etc/report.pdf"))
	require.Equal(t, "file", SafeFilename("a/b/../file"))
	require.Equal(t, "attachment", SafeFilename("!!!"))
}

func TestBlockedImageSVGHasExpectedShape(t *testing.T) {
	require.True(t, strings.HasPrefix(BlockedImageSVG, "<svg"))
}

func TestCacheMissThenHit(t *testing.T) {
	c := NewCache(2)
	key := CacheKey{ThreadID: "t1", MessageIndex: 0, Theme: ThemeDark, ShowImages: true}

	_, ok := c.Get(key)
	require.False(t, ok)

	c.Put(key, "<html>rendered</html>")
	doc, ok := c.Get(key)
	require.True(t, ok)
	require.Equal(t, "<html>rendered</html>", doc)
}

func TestCacheEvictsWhenFull(t *testing.T) {
	c := NewCache(1)
	k1 := CacheKey{ThreadID: "t1", MessageIndex: 0, Theme: ThemeLight, ShowImages: true}
	k2 := CacheKey{ThreadID: "t2", MessageIndex: 0, Theme: ThemeLight, ShowImages: true}

	c.Put(k1, "one")
	c.Put(k2, "two")

	_, k2ok := c.Get(k2)
	require.True(t, k2ok)
	require.LessOrEqual(t, len(c.entries), 1)
}
