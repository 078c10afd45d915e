package model

import (
	"encoding/json"
	"strings"

	"github.com/emersion/go-message/textproto"

	"github.com/johnae/whynot-go/werrors"
)

// Headers carries a message's required headers plus an extensible map of
// everything else the indexer reports, keyed case-insensitively.
//
// ReplyTo is the only optional header spec.md names explicitly; it is nil
// when the indexer didn't report one. Subject/From/To/Date are always
// present as free-form strings exactly as the indexer emits them — no
// further RFC-822 parsing happens here (that's the indexer's job, per
// spec.md's Non-goals).
type Headers struct {
	Subject string
	From    string
	To      string
	Date    string
	ReplyTo *string

	// Additional holds every other header the indexer reported (Cc,
	// References, the raw Message-Id, X-* headers, ...), case-insensitive
	// per github.com/emersion/go-message/textproto.Header's canonicalization.
	Additional textproto.Header
}

// UnmarshalJSON decodes the indexer's flat header object. Unknown header
// names are preserved in Additional rather than discarded.
func (h *Headers) UnmarshalJSON(data []byte) error {
	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return &werrors.ParseError{Context: "headers", Err: err}
	}

	*h = Headers{Additional: textproto.Header{}}

	for key, val := range raw {
		lower := strings.ToLower(key)
		switch lower {
		case "subject":
			h.Subject = val
		case "from":
			h.From = val
		case "to":
			h.To = val
		case "date":
			h.Date = val
		case "reply-to":
			v := val
			h.ReplyTo = &v
		default:
			h.Additional.Add(key, val)
		}
	}

	return nil
}

// MarshalJSON re-flattens Headers back to the indexer's wire shape.
func (h Headers) MarshalJSON() ([]byte, error) {
	out := make(map[string]string, 8)
	out["Subject"] = h.Subject
	out["From"] = h.From
	out["To"] = h.To
	out["Date"] = h.Date
	if h.ReplyTo != nil {
		out["Reply-To"] = *h.ReplyTo
	}

	fields := h.Additional.Fields()
	for fields.Next() {
		out[fields.Key()] = fields.Value()
	}

	return json.Marshal(out)
}

// Get returns a header value by case-insensitive name, checking the
// required fields first and falling back to Additional.
func (h Headers) Get(name string) string {
	switch strings.ToLower(name) {
	case "subject":
		return h.Subject
	case "from":
		return h.From
	case "to":
		return h.To
	case "date":
		return h.Date
	case "reply-to":
		if h.ReplyTo != nil {
			return *h.ReplyTo
		}
		return ""
	default:
		return h.Additional.Get(name)
	}
}
