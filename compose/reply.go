package compose

import (
	"context"
	"fmt"
	"strings"

	"github.com/johnae/whynot-go/model"
	"github.com/johnae/whynot-go/textrender"
)

// DeriveReply builds a reply Builder from source per spec.md §4.D: threading
// headers, idempotent "Re: " subject prefix, recipient routing, and a
// quoted attribution body. The caller still must set From and Send the
// result; self is used only to drop the sender's own address from a
// reply-all's To/Cc (spec.md §9).
func DeriveReply(source model.Message, replyAll bool, self string) *Builder {
	b := NewBuilder()

	b.InReplyTo(source.ID)
	b.References(append(splitReferences(source.Headers.Get("References")), source.ID)...)
	b.Subject("Re: " + trimSubjectPrefix(source.Headers.Subject, "Re: "))

	to := []string{source.Headers.From}
	var cc []string
	if replyAll {
		to = append(to, splitAddressList(source.Headers.To)...)
		cc = append(cc, splitAddressList(source.Headers.Get("Cc"))...)
	}
	b.SetRecipients(to, cc, self)

	attribution := fmt.Sprintf("On %s, %s wrote:", source.DateRelative, source.Headers.From)
	b.Body(attribution + "\n" + quoteLines(ExtractPlaintext(source.Body)))

	return b
}

// DeriveForward builds a forward Builder from source per spec.md §4.D. The
// caller supplies the new recipients; this only pre-populates subject and
// body.
func DeriveForward(source model.Message) *Builder {
	b := NewBuilder()

	b.Subject("Fwd: " + trimSubjectPrefix(source.Headers.Subject, "Fwd: "))

	var block strings.Builder
	block.WriteString("---------- Forwarded message ----------\n")
	block.WriteString("From: " + source.Headers.From + "\n")
	block.WriteString("Date: " + source.Headers.Date + "\n")
	block.WriteString("Subject: " + source.Headers.Subject + "\n")
	block.WriteString("To: " + source.Headers.To + "\n")
	block.WriteString("\n")
	block.WriteString(ExtractPlaintext(source.Body))

	b.Body(block.String())
	return b
}

// ExtractPlaintext walks a message's body tree depth-first, returning the
// first text/plain leaf's text, else the first text/html leaf converted to
// plaintext via textrender's built-in converter, else recursing into
// multipart children, else empty (spec.md §4.D).
func ExtractPlaintext(parts []model.BodyPart) string {
	if text, ok := firstByPrefix(parts, "text/plain"); ok {
		return text
	}
	if html, ok := firstByPrefix(parts, "text/html"); ok {
		return htmlToPlaintext(html)
	}
	for _, p := range parts {
		if p.IsMultipart() {
			if text := ExtractPlaintext(p.Parts); text != "" {
				return text
			}
		}
	}
	return ""
}

// htmlToPlaintext converts an HTML-only leaf's markup to plain text for
// quoting, rather than embedding raw tags in a reply/forward body.
// BuiltinConverter never blocks on ctx (it's a pure in-memory tokenizer and
// never errors), so a background context is fine here.
func htmlToPlaintext(html string) string {
	result, err := (textrender.BuiltinConverter{}).Convert(context.Background(), html)
	if err != nil {
		return html
	}
	return strings.TrimSpace(result.PlainText)
}

func firstByPrefix(parts []model.BodyPart, prefix string) (string, bool) {
	for _, p := range parts {
		if p.Kind == model.ContentText && strings.HasPrefix(strings.ToLower(p.ContentType), prefix) {
			return p.Text, true
		}
	}
	return "", false
}

// trimSubjectPrefix strips one leading occurrence of prefix from subject,
// matched case-insensitively, and returns subject unchanged when it does not
// start with prefix. Callers prepend the prefix to the result, so an already
// prefixed subject does not gain a second copy (spec.md invariant 6).
func trimSubjectPrefix(subject, prefix string) string {
	if strings.HasPrefix(strings.ToLower(subject), strings.ToLower(prefix)) {
		return subject[len(prefix):]
	}
	return subject
}

func splitReferences(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	return strings.Fields(raw)
}

func splitAddressList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func quoteLines(text string) string {
	if text == "" {
		return "> "
	}
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = "> " + l
	}
	return strings.Join(lines, "\n")
}

// equalAddress compares two email addresses case-insensitively after
// trimming whitespace.
func equalAddress(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
