// Package render implements the sanitization pipeline of spec.md §4.F: body
// extraction from the MIME part tree, an allowlist HTML sanitizer with URL
// rewriting, and the iframe document the web package serves sanitized
// bodies inside.
package render

import (
	"html"
	"strings"

	"github.com/johnae/whynot-go/model"
)

// Mode selects which rendering the extracted body supports.
type Mode int

const (
	// ModeEmpty means the message has no readable content.
	ModeEmpty Mode = iota
	// ModeHTML means only HTML content was found.
	ModeHTML
	// ModePlainText means only plaintext content was found (an HTML form
	// is synthesized for the frame).
	ModePlainText
	// ModeMixed means both HTML and plaintext content were found.
	ModeMixed
)

// ExtractedBody is the result of walking a message's body tree.
type ExtractedBody struct {
	HTML      string
	PlainText string
	Mode      Mode
}

// ExtractBody walks parts depth-first collecting the first text/html and
// first text/plain leaf, recursing into multipart containers and skipping
// attachments, per spec.md §4.F. If only plaintext was found, HTML is
// synthesized from it.
func ExtractBody(parts []model.BodyPart) ExtractedBody {
	htmlText, foundHTML := firstLeaf(parts, "text/html")
	plainText, foundPlain := firstLeaf(parts, "text/plain")

	switch {
	case foundHTML && foundPlain:
		return ExtractedBody{HTML: htmlText, PlainText: plainText, Mode: ModeMixed}
	case foundHTML:
		return ExtractedBody{HTML: htmlText, Mode: ModeHTML}
	case foundPlain:
		return ExtractedBody{HTML: SynthesizeHTML(plainText), PlainText: plainText, Mode: ModePlainText}
	default:
		return ExtractedBody{Mode: ModeEmpty}
	}
}

func firstLeaf(parts []model.BodyPart, contentTypePrefix string) (string, bool) {
	for _, p := range parts {
		if p.IsAttachment() {
			continue
		}
		if p.Kind == model.ContentText && strings.HasPrefix(strings.ToLower(p.ContentType), contentTypePrefix) {
			return p.Text, true
		}
	}
	for _, p := range parts {
		if p.IsAttachment() {
			continue
		}
		if p.IsMultipart() {
			if text, ok := firstLeaf(p.Parts, contentTypePrefix); ok {
				return text, true
			}
		}
	}
	return "", false
}

// SynthesizeHTML escapes plaintext and replaces each line with text
// followed by <br>, preserving blank-line spacing.
func SynthesizeHTML(text string) string {
	var b strings.Builder
	for _, line := range strings.Split(text, "\n") {
		b.WriteString(html.EscapeString(line))
		b.WriteString("<br>")
	}
	return b.String()
}
