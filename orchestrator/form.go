package orchestrator

import (
	"strings"

	"github.com/johnae/whynot-go/compose"
)

// Compose form fields, in tab order.
const (
	FieldTo = iota
	FieldCc
	FieldBcc
	FieldSubject
	FieldBody
	numComposeFields
)

// ComposeForm is the orchestrator's held compose state: mode, the thread it
// replies to or forwards from (if any), per-field text, and the current
// field cursor, per spec.md §4.I.
type ComposeForm struct {
	Mode       ComposeMode
	ThreadID   string
	InReplyTo  string
	References []string

	To      string
	Cc      string
	Bcc     string
	Subject string
	Body    string

	Field int
}

func newComposeForm(mode ComposeMode, threadID string) *ComposeForm {
	return &ComposeForm{Mode: mode, ThreadID: threadID}
}

// formFromMessage pre-populates a ComposeForm's fields from a derived
// ComposableMessage (reply/forward), per spec.md §4.I's "Composition hooks".
func formFromMessage(mode ComposeMode, threadID string, msg *compose.ComposableMessage) *ComposeForm {
	return &ComposeForm{
		Mode:       mode,
		ThreadID:   threadID,
		InReplyTo:  msg.InReplyTo,
		References: msg.References,
		To:         strings.Join(msg.To, ", "),
		Cc:         strings.Join(msg.Cc, ", "),
		Bcc:        strings.Join(msg.Bcc, ", "),
		Subject:    msg.Subject,
		Body:       msg.Body,
	}
}

// InsertText appends s to whichever field currently has the cursor.
func (f *ComposeForm) InsertText(s string) {
	switch f.Field {
	case FieldTo:
		f.To += s
	case FieldCc:
		f.Cc += s
	case FieldBcc:
		f.Bcc += s
	case FieldSubject:
		f.Subject += s
	case FieldBody:
		f.Body += s
	}
}

// Backspace removes the last rune of the field with the cursor.
func (f *ComposeForm) Backspace() {
	switch f.Field {
	case FieldTo:
		f.To = trimLastRune(f.To)
	case FieldCc:
		f.Cc = trimLastRune(f.Cc)
	case FieldBcc:
		f.Bcc = trimLastRune(f.Bcc)
	case FieldSubject:
		f.Subject = trimLastRune(f.Subject)
	case FieldBody:
		f.Body = trimLastRune(f.Body)
	}
}

func trimLastRune(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	return string(r[:len(r)-1])
}

// NextField and PrevField move the cursor, wrapping around.
func (f *ComposeForm) NextField() { f.Field = (f.Field + 1) % numComposeFields }
func (f *ComposeForm) PrevField() { f.Field = (f.Field - 1 + numComposeFields) % numComposeFields }

// build assembles a ComposableMessage from the form's current field text,
// threading in InReplyTo/References when this form derives from a reply.
func (f *ComposeForm) build(from string) (*compose.ComposableMessage, error) {
	b := compose.NewBuilder().
		From(from).
		To(splitAddresses(f.To)...).
		Cc(splitAddresses(f.Cc)...).
		Bcc(splitAddresses(f.Bcc)...).
		Subject(f.Subject).
		Body(f.Body)

	if f.InReplyTo != "" {
		b = b.InReplyTo(f.InReplyTo)
	}
	if len(f.References) > 0 {
		b = b.References(f.References...)
	}

	return b.Build()
}

func splitAddresses(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
