package textrender

import (
	"context"
	stdhtml "html"
	"strings"

	xhtml "golang.org/x/net/html"
)

var blockTags = map[string]bool{
	"p": true, "div": true, "blockquote": true, "li": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

// BuiltinConverter is the dependency-free HTML→plaintext converter:
// strips <style>/<script> content, decodes entities, breaks lines on
// block-level close tags and <br>, bullets <li>, and tracks a small set of
// terminal display attributes per spec.md §4.H.
type BuiltinConverter struct{}

var _ Converter = BuiltinConverter{}

func (BuiltinConverter) Convert(_ context.Context, htmlSrc string) (Result, error) {
	z := xhtml.NewTokenizer(strings.NewReader(htmlSrc))

	var spans []Span
	var plain strings.Builder
	var stack []string
	skipTag := ""
	skipDepth := 0

	emit := func(text string) {
		if text == "" {
			return
		}
		plain.WriteString(text)
		spans = append(spans, styledSpan(text, stack))
	}

	for {
		tt := z.Next()
		if tt == xhtml.ErrorToken {
			break
		}
		tok := z.Token()

		switch tok.Type {
		case xhtml.TextToken:
			if skipTag == "" {
				emit(stdhtml.UnescapeString(tok.Data))
			}

		case xhtml.StartTagToken, xhtml.SelfClosingTagToken:
			name := strings.ToLower(tok.Data)
			if skipTag != "" {
				if name == skipTag && tok.Type == xhtml.StartTagToken {
					skipDepth++
				}
				continue
			}
			if name == "style" || name == "script" {
				if tok.Type != xhtml.SelfClosingTagToken {
					skipTag = name
					skipDepth = 1
				}
				continue
			}
			if name == "br" {
				emit("\n")
				continue
			}
			if name == "li" {
				emit("• ")
			}
			if tok.Type == xhtml.StartTagToken {
				stack = append(stack, name)
			}

		case xhtml.EndTagToken:
			name := strings.ToLower(tok.Data)
			if skipTag != "" {
				if name == skipTag {
					skipDepth--
					if skipDepth == 0 {
						skipTag = ""
					}
				}
				continue
			}
			stack = popTag(stack, name)
			if blockTags[name] {
				emit("\n")
			}
		}
	}

	return Result{PlainText: plain.String(), Spans: mergeAdjacent(spans)}, nil
}

func popTag(stack []string, name string) []string {
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == name {
			return append(stack[:i], stack[i+1:]...)
		}
	}
	return stack
}

func styledSpan(text string, stack []string) Span {
	s := Span{Text: text}
	for _, tag := range stack {
		switch tag {
		case "b", "strong", "h1", "h2", "h3", "h4", "h5", "h6":
			s.Bold = true
		case "i", "em":
			s.Italic = true
		case "u":
			s.Underline = true
		case "a":
			s.Underline = true
			s.Color = "blue"
		case "code", "pre":
			s.Reverse = true
		case "blockquote":
			s.Italic = true
			s.Color = "gray"
		}
	}
	return s
}

// mergeAdjacent folds consecutive spans with identical attributes into one,
// avoiding a Span per text token for runs of plain text.
func mergeAdjacent(spans []Span) []Span {
	if len(spans) == 0 {
		return nil
	}
	out := spans[:1]
	for _, s := range spans[1:] {
		last := &out[len(out)-1]
		if sameStyle(*last, s) {
			last.Text += s.Text
			continue
		}
		out = append(out, s)
	}
	return out
}

func sameStyle(a, b Span) bool {
	return a.Bold == b.Bold && a.Italic == b.Italic && a.Underline == b.Underline &&
		a.Reverse == b.Reverse && a.Color == b.Color
}
