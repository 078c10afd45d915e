package web

import (
	"errors"
	"net/http"

	"github.com/johnae/whynot-go/werrors"
)

// writeError renders the friendly error template spec.md §7 requires for
// HTTP, choosing a status code from err's werrors kind.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusForError(err)
	s.log.Error("request failed", err)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = errorTemplate.Execute(w, map[string]string{"Message": userFacingMessage(err)})
}

func statusForError(err error) int {
	var notFound *notFoundError
	if errors.As(err, &notFound) {
		return http.StatusNotFound
	}

	var cfg *werrors.ConfigError
	if errors.As(err, &cfg) {
		return http.StatusInternalServerError
	}

	var parse *werrors.ParseError
	if errors.As(err, &parse) {
		return http.StatusBadGateway
	}

	var cmd *werrors.CommandFailed
	if errors.As(err, &cmd) {
		return http.StatusBadGateway
	}

	var invalid *werrors.InvalidInput
	if errors.As(err, &invalid) {
		return http.StatusBadRequest
	}

	return http.StatusInternalServerError
}

// userFacingMessage never leaks a stack trace; the indexer's/sender's own
// stderr text is acceptable to show since it is their diagnostic, not ours
// (spec.md §7).
func userFacingMessage(err error) string {
	var notFound *notFoundError
	if errors.As(err, &notFound) {
		return "not found"
	}
	var cmd *werrors.CommandFailed
	if errors.As(err, &cmd) {
		return cmd.Error()
	}
	var mail *werrors.MailSendError
	if errors.As(err, &mail) {
		return mail.Error()
	}
	return "an internal error occurred"
}
