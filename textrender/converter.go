// Package textrender converts HTML email bodies to plaintext, spec.md
// §4.H: a built-in tokenizer-based converter and an adapter for an
// external tool (lynx/w3m/html2text/pandoc), selected by a small factory.
package textrender

import "context"

// Span is a run of text carrying ratatui-style display attributes, for
// callers that want rich terminal rendering rather than bare plaintext.
type Span struct {
	Text      string
	Bold      bool
	Italic    bool
	Underline bool
	Reverse   bool
	Color     string
}

// Result is a converter's output: flat plaintext plus, for the built-in
// converter, the styled spans it was assembled from (external-tool output
// carries no style information, so Spans is nil there).
type Result struct {
	PlainText string
	Spans     []Span
}

// Converter renders HTML to plaintext.
type Converter interface {
	Convert(ctx context.Context, htmlSrc string) (Result, error)
}
