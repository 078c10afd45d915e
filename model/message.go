package model

import "encoding/json"

// Message is a single mail message as decoded from the indexer's "show"
// output. It is treated as immutable once constructed.
type Message struct {
	ID             string
	Match          bool
	Excluded       bool
	Filenames      []string
	Timestamp      int64
	DateRelative   string
	Tags           []string
	DuplicateCount int
	Body           []BodyPart
	CryptoInfo     map[string]interface{}
	Headers        Headers
}

type messageWire struct {
	ID           string                 `json:"id"`
	Match        bool                   `json:"match"`
	Excluded     bool                   `json:"excluded"`
	Filenames    []string               `json:"filename"`
	Timestamp    int64                  `json:"timestamp"`
	DateRelative string                 `json:"date_relative"`
	Tags         []string               `json:"tags"`
	Crypto       map[string]interface{} `json:"crypto,omitempty"`
	Headers      Headers                `json:"headers"`
	Body         []BodyPart             `json:"body"`
}

// UnmarshalJSON decodes a message, preserving duplicate filenames (one per
// on-disk copy) as the DuplicateCount, per spec.md §3's Message invariant.
func (m *Message) UnmarshalJSON(data []byte) error {
	var wire messageWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	*m = Message{
		ID:             wire.ID,
		Match:          wire.Match,
		Excluded:       wire.Excluded,
		Filenames:      wire.Filenames,
		Timestamp:      wire.Timestamp,
		DateRelative:   wire.DateRelative,
		Tags:           dedupeTags(wire.Tags),
		DuplicateCount: len(wire.Filenames),
		Body:           wire.Body,
		CryptoInfo:     wire.Crypto,
		Headers:        wire.Headers,
	}
	return nil
}

// MarshalJSON re-encodes a Message back to the indexer's wire shape.
func (m Message) MarshalJSON() ([]byte, error) {
	return json.Marshal(messageWire{
		ID:           m.ID,
		Match:        m.Match,
		Excluded:     m.Excluded,
		Filenames:    m.Filenames,
		Timestamp:    m.Timestamp,
		DateRelative: m.DateRelative,
		Tags:         m.Tags,
		Crypto:       m.CryptoInfo,
		Headers:      m.Headers,
		Body:         m.Body,
	})
}

func dedupeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
