package web

import (
	"context"
	"fmt"
	"strconv"

	"github.com/johnae/whynot-go/model"
)

// notFoundError marks an unknown thread/message/part identifier, mapped to
// HTTP 404 by statusForError per spec.md §7 ("unknown thread/message/part
// identifiers to 404") — distinct from werrors.InvalidInput, which spec.md
// §7 reserves for builder-invariant violations (400).
type notFoundError struct {
	reason string
}

func (e *notFoundError) Error() string { return e.reason }

// loadMessages fetches threadID and returns its pre-order flattened
// messages, the representation every handler navigating by message index
// works from (mirrors orchestrator.loadThread).
func (s *Server) loadMessages(ctx context.Context, threadID string) ([]model.Message, error) {
	thread, err := s.idx.Show(ctx, "thread:"+threadID)
	if err != nil {
		return nil, err
	}
	return thread.Flatten(), nil
}

// messageAt parses idxStr and returns messages[idx], or a notFoundError if
// idxStr isn't a valid index into messages — also the path an unknown
// thread ID takes, since loadMessages returns an empty slice rather than an
// error for a thread query with no matches.
func messageAt(messages []model.Message, idxStr string) (model.Message, error) {
	i, err := strconv.Atoi(idxStr)
	if err != nil || i < 0 || i >= len(messages) {
		return model.Message{}, &notFoundError{reason: fmt.Sprintf("no message at index %q", idxStr)}
	}
	return messages[i], nil
}

// findPart searches a message's body tree, depth-first, for the part
// carrying partID.
func findPart(parts []model.BodyPart, partID int) (model.BodyPart, bool) {
	for _, p := range parts {
		if p.PartID == partID {
			return p, true
		}
		if p.IsMultipart() {
			if found, ok := findPart(p.Parts, partID); ok {
				return found, true
			}
		}
	}
	return model.BodyPart{}, false
}
