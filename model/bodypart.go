// Package model implements typed decoding of the indexer's JSON output:
// search results, the recursive thread/message forest, polymorphic body
// parts, and headers. Nothing in this package is ever mutated after decode.
package model

import (
	"bytes"
	"encoding/json"

	"github.com/johnae/whynot-go/werrors"
)

// BodyContentKind discriminates the three shapes the indexer's body part
// "content" field may take.
type BodyContentKind int

const (
	// ContentEmpty means the indexer omitted inline content: the part is
	// either an attachment or non-decoded binary, fetched out-of-band via
	// Client.Part.
	ContentEmpty BodyContentKind = iota
	// ContentText means the part is a leaf carrying decoded text.
	ContentText
	// ContentMultipart means the part is a container of child BodyParts.
	ContentMultipart
)

// BodyPart is a node in a message's MIME body tree.
//
// Content is polymorphic: exactly one of Text/Parts is meaningful,
// determined by Kind. A part is considered an attachment iff Disposition is
// "attachment" or "inline". A part whose ContentType is "multipart/*"
// carries ContentMultipart content.
type BodyPart struct {
	PartID           int
	ContentType      string
	Disposition      string // "", "attachment", "inline"
	ContentID        string
	Filename         string
	TransferEncoding string
	Length           *int64

	Kind  BodyContentKind
	Text  string
	Parts []BodyPart
}

// IsAttachment reports whether this part is a file attachment or inline
// object, per spec.md §3's BodyPart invariant.
func (p BodyPart) IsAttachment() bool {
	return p.Disposition == "attachment" || p.Disposition == "inline"
}

// IsMultipart reports whether this part is a container.
func (p BodyPart) IsMultipart() bool {
	return p.Kind == ContentMultipart
}

type bodyPartWire struct {
	ID              int             `json:"id"`
	ContentType     string          `json:"content-type"`
	ContentDispo    string          `json:"content-disposition,omitempty"`
	ContentID       string          `json:"content-id,omitempty"`
	Filename        string          `json:"filename,omitempty"`
	ContentEncoding string          `json:"content-transfer-encoding,omitempty"`
	ContentLength   *int64          `json:"content-length,omitempty"`
	Content         json.RawMessage `json:"content,omitempty"`
}

// UnmarshalJSON decodes a single body part, dispatching on the shape of the
// "content" field: absent/null → Empty, JSON string → Text, JSON array →
// Multipart (recursively decoded as []BodyPart). Any other shape is treated
// as Empty rather than failing the whole decode, per spec.md §4.A.
func (p *BodyPart) UnmarshalJSON(data []byte) error {
	var wire bodyPartWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return &werrors.ParseError{Context: "body part", Err: err}
	}

	*p = BodyPart{
		PartID:           wire.ID,
		ContentType:      wire.ContentType,
		Disposition:      wire.ContentDispo,
		ContentID:        wire.ContentID,
		Filename:         wire.Filename,
		TransferEncoding: wire.ContentEncoding,
		Length:           wire.ContentLength,
	}

	content := bytes.TrimSpace(wire.Content)
	switch {
	case len(content) == 0 || bytes.Equal(content, []byte("null")):
		p.Kind = ContentEmpty
	case len(content) > 0 && content[0] == '"':
		var s string
		if err := json.Unmarshal(content, &s); err != nil {
			return &werrors.ParseError{Context: "body part content (text)", Err: err}
		}
		p.Kind = ContentText
		p.Text = s
	case len(content) > 0 && content[0] == '[':
		var parts []BodyPart
		if err := json.Unmarshal(content, &parts); err != nil {
			return &werrors.ParseError{Context: "body part content (multipart)", Err: err}
		}
		p.Kind = ContentMultipart
		p.Parts = parts
	default:
		p.Kind = ContentEmpty
	}

	return nil
}

// MarshalJSON re-encodes a BodyPart back to the indexer's wire shape, used
// by tests asserting JSON round-trip equality (spec.md §8, invariant 2 for
// SearchItem extends naturally to BodyPart fixtures).
func (p BodyPart) MarshalJSON() ([]byte, error) {
	wire := bodyPartWire{
		ID:              p.PartID,
		ContentType:     p.ContentType,
		ContentDispo:    p.Disposition,
		ContentID:       p.ContentID,
		Filename:        p.Filename,
		ContentEncoding: p.TransferEncoding,
		ContentLength:   p.Length,
	}

	switch p.Kind {
	case ContentText:
		b, err := json.Marshal(p.Text)
		if err != nil {
			return nil, err
		}
		wire.Content = b
	case ContentMultipart:
		b, err := json.Marshal(p.Parts)
		if err != nil {
			return nil, err
		}
		wire.Content = b
	case ContentEmpty:
		wire.Content = nil
	}

	return json.Marshal(wire)
}
