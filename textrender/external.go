package textrender

import (
	"context"
	"regexp"
	"strings"

	"github.com/johnae/whynot-go/executor"
)

// ExternalConverter spawns a configured external tool (lynx/w3m/html2text/
// pandoc), writing HTML to stdin and collecting stdout, per spec.md §4.H.
// It reuses executor.Executor rather than a bespoke os/exec call — the same
// local-process idiom the indexer/sender use.
type ExternalConverter struct {
	exec      executor.Executor
	args      []string
	wrapWidth int
}

var _ Converter = (*ExternalConverter)(nil)

// NewExternal builds an adapter that runs exec's bound binary (e.g.
// "lynx") with the fixed flags in args (e.g. {"-dump", "-stdin"}).
// wrapWidth, if non-zero, re-wraps the output to that column width.
func NewExternal(exec executor.Executor, args []string, wrapWidth int) *ExternalConverter {
	return &ExternalConverter{exec: exec, args: args, wrapWidth: wrapWidth}
}

func (e *ExternalConverter) Convert(ctx context.Context, htmlSrc string) (Result, error) {
	out, err := e.exec.RunWithStdin(ctx, e.args, []byte(htmlSrc))
	if err != nil {
		return Result{}, err
	}

	text := string(out)
	if e.wrapWidth > 0 {
		text = rewrap(text, e.wrapWidth)
	}
	text = collapseBlankLines(text)

	return Result{PlainText: text}, nil
}

// Available probes the bound binary with --version then --help, per
// spec.md §4.H.
func (e *ExternalConverter) Available(ctx context.Context) bool {
	for _, probe := range [][]string{{"--version"}, {"--help"}} {
		if _, err := e.exec.Run(ctx, probe); err == nil {
			return true
		}
	}
	return false
}

var runsOfBlankLines = regexp.MustCompile(`\n{3,}`)

// collapseBlankLines collapses runs of 3+ consecutive newlines to exactly 2.
func collapseBlankLines(text string) string {
	return runsOfBlankLines.ReplaceAllString(text, "\n\n")
}

// rewrap re-wraps text to width columns, preserving existing paragraph
// breaks (blank lines) but re-flowing within each paragraph.
func rewrap(text string, width int) string {
	paragraphs := strings.Split(text, "\n\n")
	for i, para := range paragraphs {
		paragraphs[i] = wrapParagraph(para, width)
	}
	return strings.Join(paragraphs, "\n\n")
}

func wrapParagraph(para string, width int) string {
	words := strings.Fields(para)
	if len(words) == 0 {
		return para
	}

	var b strings.Builder
	lineLen := 0
	for i, w := range words {
		if i > 0 {
			if lineLen+1+len(w) > width {
				b.WriteString("\n")
				lineLen = 0
			} else {
				b.WriteString(" ")
				lineLen++
			}
		}
		b.WriteString(w)
		lineLen += len(w)
	}
	return b.String()
}
