package web

import (
	"net/http"
	"strings"

	"github.com/johnae/whynot-go/compose"
)

type composeFormView struct {
	To, Cc, Bcc, Subject, Body string
	InReplyTo, References      string
	Status                     string
}

// handleComposeForm serves GET /compose, an empty new-message form.
func (s *Server) handleComposeForm(w http.ResponseWriter, r *http.Request) {
	writeComposeForm(w, composeFormView{})
}

// handleComposeSubmit serves POST /compose.
func (s *Server) handleComposeSubmit(w http.ResponseWriter, r *http.Request) {
	view, msg, err := s.buildFromForm(r)
	if err != nil {
		view.Status = err.Error()
		writeComposeForm(w, view)
		return
	}
	s.send(w, r, view, msg)
}

// handleReplyForm serves GET /thread/{id}/reply?msg&all, pre-populating the
// form via compose.DeriveReply (spec.md §4.I's composition hooks).
func (s *Server) handleReplyForm(w http.ResponseWriter, r *http.Request) {
	threadID := r.PathValue("id")
	messages, err := s.loadMessages(r.Context(), threadID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	msgIdx := r.URL.Query().Get("msg")
	if msgIdx == "" {
		msgIdx = "0"
	}
	source, err := messageAt(messages, msgIdx)
	if err != nil {
		s.writeError(w, err)
		return
	}

	replyAll := r.URL.Query().Get("all") == "true"
	built, err := compose.DeriveReply(source, replyAll, s.cfg.User.Email).From(s.cfg.User.Email).Build()
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeComposeForm(w, viewFromMessage(built))
}

// handleReplySubmit serves POST /thread/{id}/reply.
func (s *Server) handleReplySubmit(w http.ResponseWriter, r *http.Request) {
	view, msg, err := s.buildFromForm(r)
	if err != nil {
		view.Status = err.Error()
		writeComposeForm(w, view)
		return
	}
	s.send(w, r, view, msg)
}

// handleForwardForm serves GET /thread/{id}/forward?msg.
func (s *Server) handleForwardForm(w http.ResponseWriter, r *http.Request) {
	threadID := r.PathValue("id")
	messages, err := s.loadMessages(r.Context(), threadID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	msgIdx := r.URL.Query().Get("msg")
	if msgIdx == "" {
		msgIdx = "0"
	}
	source, err := messageAt(messages, msgIdx)
	if err != nil {
		s.writeError(w, err)
		return
	}

	built, err := compose.DeriveForward(source).From(s.cfg.User.Email).Build()
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeComposeForm(w, viewFromMessage(built))
}

// handleForwardSubmit serves POST /thread/{id}/forward.
func (s *Server) handleForwardSubmit(w http.ResponseWriter, r *http.Request) {
	view, msg, err := s.buildFromForm(r)
	if err != nil {
		view.Status = err.Error()
		writeComposeForm(w, view)
		return
	}
	s.send(w, r, view, msg)
}

func viewFromMessage(msg *compose.ComposableMessage) composeFormView {
	return composeFormView{
		To:         strings.Join(msg.To, ", "),
		Cc:         strings.Join(msg.Cc, ", "),
		Bcc:        strings.Join(msg.Bcc, ", "),
		Subject:    msg.Subject,
		Body:       msg.Body,
		InReplyTo:  msg.InReplyTo,
		References: strings.Join(msg.References, " "),
	}
}

// buildFromForm parses the posted form fields — possibly edited by the user
// from what a reply/forward derivation pre-filled — into a ComposableMessage,
// per spec.md §4.J. The web compose form appends the configured signature
// after a "\n\n--\n" separator, unlike the TUI (spec.md §9's open question, resolved here in the web
// handler's favor since a web user expects a visible signature by default).
func (s *Server) buildFromForm(r *http.Request) (composeFormView, *compose.ComposableMessage, error) {
	if err := r.ParseForm(); err != nil {
		return composeFormView{}, nil, err
	}

	view := composeFormView{
		To:         r.FormValue("to"),
		Cc:         r.FormValue("cc"),
		Bcc:        r.FormValue("bcc"),
		Subject:    r.FormValue("subject"),
		Body:       r.FormValue("body"),
		InReplyTo:  r.FormValue("in_reply_to"),
		References: r.FormValue("references"),
	}

	body := view.Body
	if s.cfg.User.Signature != "" {
		body += "\n\n--\n" + s.cfg.User.Signature
	}

	b := compose.NewBuilder().
		From(s.cfg.User.Email).
		To(splitAddressList(view.To)...).
		Cc(splitAddressList(view.Cc)...).
		Bcc(splitAddressList(view.Bcc)...).
		Subject(view.Subject).
		Body(body)

	if view.InReplyTo != "" {
		b.InReplyTo(view.InReplyTo)
	}
	if view.References != "" {
		b.References(strings.Fields(view.References)...)
	}

	msg, err := b.Build()
	return view, msg, err
}

// send delivers msg via s.snd, degrading gracefully (spec.md §4.I) when no
// sender is configured.
func (s *Server) send(w http.ResponseWriter, r *http.Request, view composeFormView, msg *compose.ComposableMessage) {
	if s.snd == nil {
		view.Status = "no sender configured"
		writeComposeForm(w, view)
		return
	}

	if err := s.snd.Send(r.Context(), msg); err != nil {
		view.Status = err.Error()
		writeComposeForm(w, view)
		return
	}

	http.Redirect(w, r, "/inbox", http.StatusSeeOther)
}

func writeComposeForm(w http.ResponseWriter, view composeFormView) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = composeTemplate.Execute(w, view)
}

// splitAddressList comma-splits a raw recipient field, trimming whitespace
// and dropping empty entries — the same shape as orchestrator.splitAddresses.
func splitAddressList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
