package web

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/johnae/whynot-go/metrics"
	"github.com/johnae/whynot-go/render"
)

var imageProxyUserAgent = "whynot-web/1.0"

// handleImageProxy serves GET /image_proxy?url&blocked, spec.md §4.G.
func (s *Server) handleImageProxy(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("url")
	target, err := url.Parse(raw)
	if err != nil || (target.Scheme != "http" && target.Scheme != "https") {
		metrics.ObserveImageProxy("bad_scheme")
		http.Error(w, "unsupported scheme", http.StatusBadRequest)
		return
	}

	if r.URL.Query().Get("blocked") == "true" {
		metrics.ObserveImageProxy("blocked")
		w.Header().Set("Content-Type", "image/svg+xml")
		w.Header().Set("Cache-Control", "no-store")
		w.Header().Set("X-Image-Blocked", "true")
		_, _ = io.WriteString(w, render.BlockedImageSVG)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), imageProxyTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		metrics.ObserveImageProxy("upstream_error")
		http.Error(w, "bad gateway", http.StatusBadGateway)
		return
	}
	req.Header.Set("User-Agent", imageProxyUserAgent)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		metrics.ObserveImageProxy("upstream_error")
		http.Error(w, "bad gateway", http.StatusBadGateway)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.ObserveImageProxy("upstream_error")
		http.Error(w, "bad gateway", http.StatusBadGateway)
		return
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		metrics.ObserveImageProxy("bad_content_type")
		http.Error(w, "not an image", http.StatusBadRequest)
		return
	}

	metrics.ObserveImageProxy("served")
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	_, _ = io.Copy(w, resp.Body)
}

var allowedRedirectDomains = map[string]bool{
	"github.com": true, "google.com": true, "wikipedia.org": true,
}

var suspiciousSubstrings = []string{"paypal-verify", "amazon-security"}

type redirectView struct {
	Domain     string
	URL        string
	Suspicious bool
}

// handleRedirect serves GET /redirect?url, spec.md §4.G.
func (s *Server) handleRedirect(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("url")
	target, err := url.Parse(raw)
	if err != nil || (target.Scheme != "http" && target.Scheme != "https") {
		http.Error(w, "unsupported scheme", http.StatusBadRequest)
		return
	}

	domain := target.Hostname()
	if allowedRedirectDomains[domain] {
		http.Redirect(w, r, raw, http.StatusFound)
		return
	}

	suspicious := false
	lower := strings.ToLower(raw)
	for _, substr := range suspiciousSubstrings {
		if strings.Contains(lower, substr) {
			suspicious = true
			break
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = redirectWarningTemplate.Execute(w, redirectView{Domain: domain, URL: raw, Suspicious: suspicious})
}

// handleAttachment serves GET /attachment/{thread}/{msg}/{part}, spec.md §4.G.
func (s *Server) handleAttachment(w http.ResponseWriter, r *http.Request) {
	threadID := r.PathValue("thread")
	msgIdx := r.PathValue("msg")
	partIdx := r.PathValue("part")

	messages, err := s.loadMessages(r.Context(), threadID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	msg, err := messageAt(messages, msgIdx)
	if err != nil {
		s.writeError(w, err)
		return
	}

	partID, err := parseMsgIndex(partIdx)
	if err != nil {
		http.Error(w, "invalid part id", http.StatusBadRequest)
		return
	}

	part, ok := findPart(msg.Body, partID)
	if !ok {
		http.NotFound(w, r)
		return
	}

	data, err := s.idx.Part(r.Context(), msg.ID, partID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	filename := render.SafeFilename(part.Filename)
	w.Header().Set("Content-Type", part.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("X-Frame-Options", "DENY")
	_, _ = w.Write(data)
}
