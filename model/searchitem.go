package model

import "encoding/json"

// SearchItem is one row of a search result. Constructed fresh on every
// search and never mutated afterwards.
type SearchItem struct {
	ThreadID     string
	Timestamp    int64
	DateRelative string
	Matched      int
	Total        int
	Authors      string
	Subject      string
	Tags         []string

	// Query mirrors the indexer's "query" field: a pair of optional query
	// fragments. Either position may be absent (nil) — notably the second
	// is routinely null.
	Query [2]*string
}

type searchItemWire struct {
	Thread       string            `json:"thread"`
	Timestamp    int64             `json:"timestamp"`
	DateRelative string            `json:"date_relative"`
	Matched      int               `json:"matched"`
	Total        int               `json:"total"`
	Authors      string            `json:"authors"`
	Subject      string            `json:"subject"`
	Tags         []string          `json:"tags"`
	Query        [2]*string        `json:"query"`
}

// UnmarshalJSON decodes one search result row.
func (s *SearchItem) UnmarshalJSON(data []byte) error {
	var wire searchItemWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*s = SearchItem{
		ThreadID:     wire.Thread,
		Timestamp:    wire.Timestamp,
		DateRelative: wire.DateRelative,
		Matched:      wire.Matched,
		Total:        wire.Total,
		Authors:      wire.Authors,
		Subject:      wire.Subject,
		Tags:         dedupeTags(wire.Tags),
		Query:        wire.Query,
	}
	return nil
}

// MarshalJSON re-encodes a SearchItem back to the indexer's wire shape.
func (s SearchItem) MarshalJSON() ([]byte, error) {
	return json.Marshal(searchItemWire{
		Thread:       s.ThreadID,
		Timestamp:    s.Timestamp,
		DateRelative: s.DateRelative,
		Matched:      s.Matched,
		Total:        s.Total,
		Authors:      s.Authors,
		Subject:      s.Subject,
		Tags:         s.Tags,
		Query:        s.Query,
	})
}
