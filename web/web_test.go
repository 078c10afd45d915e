package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/johnae/whynot-go/config"
	"github.com/johnae/whynot-go/indexer"
	"github.com/johnae/whynot-go/sender"
	"github.com/johnae/whynot-go/wlog"
)

type fakeExecutor struct {
	responses map[string][]byte
	err       error
	calls     [][]string
	stdins    [][]byte
}

func key(argv []string) string {
	s := ""
	for _, a := range argv {
		s += a + "\x00"
	}
	return s
}

func (f *fakeExecutor) Run(_ context.Context, argv []string) ([]byte, error) {
	f.calls = append(f.calls, argv)
	if f.err != nil {
		return nil, f.err
	}
	return f.responses[key(argv)], nil
}

func (f *fakeExecutor) RunText(ctx context.Context, argv []string) (string, error) {
	b, err := f.Run(ctx, argv)
	return string(b), err
}

func (f *fakeExecutor) RunWithStdin(ctx context.Context, argv []string, input []byte) ([]byte, error) {
	f.stdins = append(f.stdins, input)
	return f.Run(ctx, argv)
}

func testLogger() wlog.Logger {
	return wlog.Logger{Out: wlog.NopOutput{}}
}

func threadJSON(msgID, subject, from string) []byte {
	return []byte(`[[[{
		"id": "` + msgID + `",
		"match": true,
		"excluded": false,
		"filename": ["/mail/cur/1"],
		"timestamp": 1700000000,
		"date_relative": "yesterday",
		"tags": ["inbox"],
		"headers": {"From": "` + from + `", "To": "me@example.com", "Subject": "` + subject + `"},
		"body": [{"id": 1, "content-type": "text/html", "content": "<p>hi <script>alert(1)</script></p>"}]
	}, []]]]`)
}

func searchJSON() []byte {
	return []byte(`[{
		"thread": "0000000000000001",
		"timestamp": 1700000000,
		"date_relative": "yesterday",
		"matched": 1,
		"total": 1,
		"authors": "Alice",
		"subject": "Hello",
		"tags": ["inbox"],
		"query": [null, null]
	}]`)
}

func newTestServer(t *testing.T, exec *fakeExecutor, snd *sender.Sender) *Server {
	t.Helper()
	idx := indexer.New(exec, testLogger())
	cfg := config.Defaults()
	cfg.User.Email = "me@example.com"
	cfg.Web.InitialPageSize = 10
	cfg.Web.PaginationSize = 10
	return New(idx, snd, cfg, testLogger())
}

func TestInboxListsSearchResults(t *testing.T) {
	exec := &fakeExecutor{responses: map[string][]byte{
		key([]string{"search", "--format=json", "--offset=0", "--limit=10", "tag:inbox"}): searchJSON(),
		key([]string{"count", "tag:inbox"}):                                               []byte("1\n"),
	}}
	s := newTestServer(t, exec, nil)

	req := httptest.NewRequest(http.MethodGet, "/inbox", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Hello")
	require.Contains(t, rec.Body.String(), "/thread/0000000000000001")
}

func TestSearchComposesQueryFromParams(t *testing.T) {
	wantQuery := "urgent and tag:work"
	exec := &fakeExecutor{responses: map[string][]byte{
		key([]string{"search", "--format=json", "--offset=0", "--limit=10", wantQuery}): []byte(`[]`),
		key([]string{"count", wantQuery}):                                              []byte("0\n"),
	}}
	s := newTestServer(t, exec, nil)

	req := httptest.NewRequest(http.MethodGet, "/search?q=urgent&tag=work", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestThreadViewRendersMessagesAndActions(t *testing.T) {
	exec := &fakeExecutor{responses: map[string][]byte{
		key([]string{"show", "--format=json", "--include-html", "--entire-thread", "thread:abc"}): threadJSON("<m1@x>", "Hello", "alice@example.com"),
	}}
	s := newTestServer(t, exec, nil)

	req := httptest.NewRequest(http.MethodGet, "/thread/abc", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Hello")
	require.Contains(t, rec.Body.String(), "/email-frame/abc/0")
	require.Contains(t, rec.Body.String(), "/thread/abc/reply")
}

func TestEmailFrameSanitizesAndSetsSecurityHeaders(t *testing.T) {
	exec := &fakeExecutor{responses: map[string][]byte{
		key([]string{"show", "--format=json", "--include-html", "--entire-thread", "thread:abc"}): threadJSON("<m1@x>", "Hello", "alice@example.com"),
	}}
	s := newTestServer(t, exec, nil)

	req := httptest.NewRequest(http.MethodGet, "/email-frame/abc/0?theme=dark", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "SAMEORIGIN", rec.Header().Get("X-Frame-Options"))
	require.Contains(t, rec.Header().Get("Content-Security-Policy"), "script-src 'none'")
	require.NotContains(t, rec.Body.String(), "<script>")
	require.Contains(t, rec.Body.String(), `data-theme="dark"`)
}

func TestEmailFrameUnknownMessageIndexReturns404(t *testing.T) {
	exec := &fakeExecutor{responses: map[string][]byte{
		key([]string{"show", "--format=json", "--include-html", "--entire-thread", "thread:abc"}): threadJSON("<m1@x>", "Hello", "alice@example.com"),
	}}
	s := newTestServer(t, exec, nil)

	req := httptest.NewRequest(http.MethodGet, "/email-frame/abc/7", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestThreadViewUnknownThreadReturns404(t *testing.T) {
	exec := &fakeExecutor{responses: map[string][]byte{
		key([]string{"show", "--format=json", "--include-html", "--entire-thread", "thread:missing"}): []byte(`[]`),
	}}
	s := newTestServer(t, exec, nil)

	req := httptest.NewRequest(http.MethodGet, "/thread/missing/reply?msg=0", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEmailFrameServesFromCacheOnSecondRequest(t *testing.T) {
	exec := &fakeExecutor{responses: map[string][]byte{
		key([]string{"show", "--format=json", "--include-html", "--entire-thread", "thread:abc"}): threadJSON("<m1@x>", "Hello", "alice@example.com"),
	}}
	s := newTestServer(t, exec, nil)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/email-frame/abc/0?theme=light", nil)
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	showCalls := 0
	for _, c := range exec.calls {
		if len(c) > 0 && c[0] == "show" {
			showCalls++
		}
	}
	require.Equal(t, 1, showCalls)
}

func TestImageProxyBlockedReturnsPlaceholderSVG(t *testing.T) {
	s := newTestServer(t, &fakeExecutor{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/image_proxy?url=http://example.com/a.jpg&blocked=true", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	require.Equal(t, "true", rec.Header().Get("X-Image-Blocked"))
	require.True(t, strings.HasPrefix(rec.Body.String(), "<svg"))
}

func TestImageProxyRejectsNonHTTPScheme(t *testing.T) {
	s := newTestServer(t, &fakeExecutor{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/image_proxy?"+url.Values{"url": {"file:///etc/passwd"}}.Encode(), nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRedirectAllowlistedDomainRedirectsDirectly(t *testing.T) {
	s := newTestServer(t, &fakeExecutor{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/redirect?url=https://github.com/foo", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "https://github.com/foo", rec.Header().Get("Location"))
}

func TestRedirectUnknownDomainShowsWarningPage(t *testing.T) {
	s := newTestServer(t, &fakeExecutor{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/redirect?url=https://paypal-verify.example.net/login", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "paypal-verify.example.net")
	require.Contains(t, rec.Body.String(), "suspicious pattern")
}

func TestAttachmentStreamsBytesWithSafeFilenameAndHeaders(t *testing.T) {
	thread := []byte(`[[[{
		"id": "<m1@x>", "match": true, "excluded": false, "filename": ["/mail/cur/1"],
		"timestamp": 1700000000, "date_relative": "now", "tags": [],
		"headers": {"From": "a@x", "To": "b@x", "Subject": "s"},
		"body": [{"id": 2, "content-type": "application/pdf", "content-disposition": "attachment", "filename": "../../report.pdf"}]
	}, []]]]`)
	exec := &fakeExecutor{responses: map[string][]byte{
		key([]string{"show", "--format=json", "--include-html", "--entire-thread", "thread:abc"}):   thread,
		key([]string{"show", "--format=raw", "--part=2", "<m1@x>"}): []byte("%PDF-1.4 fake"),
	}}
	s := newTestServer(t, exec, nil)

	req := httptest.NewRequest(http.MethodGet, "/attachment/abc/0/2", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, `attachment; filename="report.pdf"`, rec.Header().Get("Content-Disposition"))
	require.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	require.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	require.Equal(t, "%PDF-1.4 fake", rec.Body.String())
}

func TestTagsReturnsJSONList(t *testing.T) {
	exec := &fakeExecutor{responses: map[string][]byte{
		key([]string{"search", "--output=tags", "--format=json", "*"}): []byte(`["inbox", "work"]`),
	}}
	s := newTestServer(t, exec, nil)

	req := httptest.NewRequest(http.MethodGet, "/tags", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `["inbox", "work"]`, rec.Body.String())
}

func TestSetThemeCookieRedirectsToReferer(t *testing.T) {
	s := newTestServer(t, &fakeExecutor{}, nil)

	form := url.Values{"theme": {"dark"}}
	req := httptest.NewRequest(http.MethodPost, "/settings/theme", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Referer", "/thread/abc")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/thread/abc", rec.Header().Get("Location"))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, "theme", cookies[0].Name)
	require.Equal(t, "dark", cookies[0].Value)
	require.Equal(t, oneYearSeconds, cookies[0].MaxAge)
}

func TestComposeSubmitWithoutSenderDegradesGracefully(t *testing.T) {
	s := newTestServer(t, &fakeExecutor{}, nil)

	form := url.Values{"to": {"a@x.com"}, "subject": {"hi"}, "body": {"hello"}}
	req := httptest.NewRequest(http.MethodPost, "/compose", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "no sender configured")
}

func TestComposeSubmitSendsAndRedirects(t *testing.T) {
	exec := &fakeExecutor{}
	snd := sender.New(exec, "", testLogger())
	s := newTestServer(t, exec, snd)

	form := url.Values{"to": {"a@x.com"}, "subject": {"hi"}, "body": {"hello"}}
	req := httptest.NewRequest(http.MethodPost, "/compose", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/inbox", rec.Header().Get("Location"))
	require.Len(t, exec.calls, 1)
	require.Contains(t, exec.calls[0], "a@x.com")
}

func TestReplyFormPrefillsSubjectAndRecipient(t *testing.T) {
	exec := &fakeExecutor{responses: map[string][]byte{
		key([]string{"show", "--format=json", "--include-html", "--entire-thread", "thread:abc"}): threadJSON("<m1@x>", "Hello", "alice@example.com"),
	}}
	s := newTestServer(t, exec, nil)

	req := httptest.NewRequest(http.MethodGet, "/thread/abc/reply", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `value="Re: Hello"`)
	require.Contains(t, rec.Body.String(), "alice@example.com")
}

func TestComposeSubmitAppendsSignature(t *testing.T) {
	exec := &fakeExecutor{}
	snd := sender.New(exec, "", testLogger())
	s := newTestServer(t, exec, snd)
	s.cfg.User.Signature = "Alice"

	form := url.Values{"to": {"a@x.com"}, "subject": {"hi"}, "body": {"hello"}}
	req := httptest.NewRequest(http.MethodPost, "/compose", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Len(t, exec.stdins, 1)
	require.Contains(t, string(exec.stdins[0]), "hello\n\n--\nAlice")
}
