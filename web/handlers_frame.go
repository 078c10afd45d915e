package web

import (
	"net/http"
	"strconv"

	"github.com/johnae/whynot-go/render"
)

// handleEmailFrame serves GET /email-frame/{thread}/{msg}?show_images&theme,
// the sandboxed HTML document embedding one message's sanitized body
// (spec.md §4.G).
func (s *Server) handleEmailFrame(w http.ResponseWriter, r *http.Request) {
	threadID := r.PathValue("thread")
	msgIdx := r.PathValue("msg")

	showImages := r.URL.Query().Get("show_images") == "true"
	theme := render.Theme(r.URL.Query().Get("theme"))
	if theme != render.ThemeDark {
		theme = render.ThemeLight
	}

	cacheKey := render.CacheKey{ThreadID: threadID, Theme: theme, ShowImages: showImages}
	if i, err := parseMsgIndex(msgIdx); err == nil {
		cacheKey.MessageIndex = i
	}

	if doc, ok := s.cache.Get(cacheKey); ok {
		writeFrameHeaders(w)
		_, _ = w.Write([]byte(doc))
		return
	}

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

	body := render.ExtractBody(msg.Body)
	sanitized := render.Sanitize(body.HTML, render.SanitizeOptions{RewriteLinks: true, ShowImages: showImages})
	doc := render.BuildFrameDocument(sanitized, theme)

	s.cache.Put(cacheKey, doc)

	writeFrameHeaders(w)
	_, _ = w.Write([]byte(doc))
}

func writeFrameHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Security-Policy",
		"script-src 'none'; img-src 'self' data:; style-src 'unsafe-inline'; frame-ancestors 'self'")
	w.Header().Set("X-Frame-Options", "SAMEORIGIN")
}

func parseMsgIndex(s string) (int, error) {
	return strconv.Atoi(s)
}
