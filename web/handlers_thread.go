package web

import (
	"net/http"

	"github.com/johnae/whynot-go/model"
)

type threadView struct {
	Theme      string
	ThreadID   string
	Subject    string
	ShowImages bool
	Messages   []model.Message
}

// handleThread serves GET /thread/{id}.
func (s *Server) handleThread(w http.ResponseWriter, r *http.Request) {
	threadID := r.PathValue("id")

	messages, err := s.loadMessages(r.Context(), threadID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	subject := ""
	if len(messages) > 0 {
		subject = messages[0].Headers.Subject
	}

	view := threadView{
		Theme:      s.themeFromRequest(r),
		ThreadID:   threadID,
		Subject:    subject,
		ShowImages: r.URL.Query().Get("show_images") == "true",
		Messages:   messages,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = threadTemplate.Execute(w, view)
}

// handleTags serves GET /tags, a JSON list of every known tag.
func (s *Server) handleTags(w http.ResponseWriter, r *http.Request) {
	tags, err := s.idx.ListTags(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, tags)
}
