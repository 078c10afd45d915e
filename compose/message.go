// Package compose implements RFC-822 message assembly: an accumulating
// Builder, a deterministic-order serializer, and the reply/forward
// derivation rules of spec.md §4.D.
package compose

import (
	"time"

	"github.com/emersion/go-message/textproto"
	"github.com/google/uuid"

	"github.com/johnae/whynot-go/werrors"
)

// Attachment is a single file attached to an outgoing message.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ComposableMessage is a fully-built message ready for serialization. It is
// produced only by Builder.Build and is never mutated afterward.
type ComposableMessage struct {
	From       string
	To         []string
	Cc         []string
	Bcc        []string
	Subject    string
	MessageID  string
	Date       time.Time
	InReplyTo  string
	References []string

	// Additional carries extra headers in insertion order, emitted after
	// the fixed header block.
	Additional textproto.Header

	Body        string
	HTML        string
	Attachments []Attachment
}

// Builder accumulates fields for a ComposableMessage. The zero value is
// ready to use.
type Builder struct {
	from       string
	to         []string
	cc         []string
	bcc        []string
	subject    string
	messageID  string
	date       time.Time
	inReplyTo  string
	references []string
	additional textproto.Header
	body       string
	html       string
	attachment []Attachment
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{additional: textproto.Header{}}
}

func (b *Builder) From(addr string) *Builder   { b.from = addr; return b }
func (b *Builder) To(addrs ...string) *Builder { b.to = append(b.to, addrs...); return b }
func (b *Builder) Cc(addrs ...string) *Builder { b.cc = append(b.cc, addrs...); return b }
func (b *Builder) Bcc(addrs ...string) *Builder { b.bcc = append(b.bcc, addrs...); return b }
func (b *Builder) Subject(s string) *Builder    { b.subject = s; return b }
func (b *Builder) MessageID(id string) *Builder { b.messageID = id; return b }
func (b *Builder) Date(t time.Time) *Builder    { b.date = t; return b }
func (b *Builder) InReplyTo(id string) *Builder { b.inReplyTo = id; return b }
func (b *Builder) References(ids ...string) *Builder {
	b.references = append(b.references, ids...)
	return b
}
func (b *Builder) Body(text string) *Builder { b.body = text; return b }
func (b *Builder) HTML(html string) *Builder { b.html = html; return b }
func (b *Builder) Attach(a Attachment) *Builder {
	b.attachment = append(b.attachment, a)
	return b
}
func (b *Builder) Header(name, value string) *Builder {
	b.additional.Add(name, value)
	return b
}

// SetRecipients replaces To/Cc, de-duplicating self (case-insensitive)
// out of both lists — the resolution spec.md §9 leaves open, chosen here
// so the combined To+Cc never contains the sending user's own address.
func (b *Builder) SetRecipients(to, cc []string, self string) *Builder {
	b.to = dedupeAddresses(to, self)
	b.cc = dedupeAddresses(cc, self)
	return b
}

// Build validates and finalizes the message. Recipients (the union of
// To/Cc/Bcc) must be non-empty.
func (b *Builder) Build() (*ComposableMessage, error) {
	if len(b.to) == 0 && len(b.cc) == 0 && len(b.bcc) == 0 {
		return nil, &werrors.InvalidInput{Reason: "message has no recipients"}
	}

	msg := &ComposableMessage{
		From:       b.from,
		To:         b.to,
		Cc:         b.cc,
		Bcc:        b.bcc,
		Subject:    b.subject,
		MessageID:  b.messageID,
		Date:       b.date,
		InReplyTo:  b.inReplyTo,
		References: b.references,
		Additional: b.additional,
		Body:       b.body,
		HTML:       b.html,
		Attachments: b.attachment,
	}

	if msg.MessageID == "" {
		msg.MessageID = "<" + uuid.NewString() + "@whynot>"
	}
	if msg.Date.IsZero() {
		msg.Date = time.Now()
	}

	return msg, nil
}

// dedupeAddresses drops blank entries and any address equal to self
// (case-insensitive, trimmed), preserving input order otherwise.
func dedupeAddresses(addrs []string, self string) []string {
	out := make([]string, 0, len(addrs))
	for _, a := range addrs {
		if a == "" || equalAddress(a, self) {
			continue
		}
		out = append(out, a)
	}
	return out
}
