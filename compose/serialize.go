package compose

import (
	"encoding/base64"
	"fmt"
	"mime/quotedprintable"
	"strings"

	"github.com/google/uuid"
)

const crlf = "\r\n"

// Serialize renders msg as RFC-822 bytes with CRLF line endings throughout.
// Header order is fixed: From, To, Cc, Bcc, Subject, Message-ID, Date,
// In-Reply-To, References, then Additional in insertion order, then the
// content structure (spec.md §4.D).
func Serialize(msg *ComposableMessage) []byte {
	var b strings.Builder

	writeHeader(&b, "From", msg.From)
	writeAddressHeader(&b, "To", msg.To)
	writeAddressHeader(&b, "Cc", msg.Cc)
	writeAddressHeader(&b, "Bcc", msg.Bcc)
	writeHeader(&b, "Subject", msg.Subject)
	writeHeader(&b, "Message-ID", msg.MessageID)
	writeHeader(&b, "Date", msg.Date.Format("Mon, 2 Jan 2006 15:04:05 -0700"))
	writeHeader(&b, "In-Reply-To", msg.InReplyTo)
	if len(msg.References) > 0 {
		writeHeader(&b, "References", strings.Join(msg.References, " "))
	}

	fields := msg.Additional.Fields()
	for fields.Next() {
		writeHeader(&b, fields.Key(), fields.Value())
	}

	needsMultipart := msg.HTML != "" || len(msg.Attachments) > 0
	if !needsMultipart {
		b.WriteString("Content-Type: text/plain; charset=utf-8" + crlf)
		b.WriteString(crlf)
		b.WriteString(msg.Body)
		return []byte(b.String())
	}

	boundary := "boundary_" + uuid.NewString()
	b.WriteString(fmt.Sprintf(`Content-Type: multipart/mixed; boundary="%s"`, boundary) + crlf)
	b.WriteString(crlf)

	writeBoundary(&b, boundary)
	b.WriteString("Content-Type: text/plain; charset=utf-8" + crlf)
	b.WriteString("Content-Transfer-Encoding: quoted-printable" + crlf)
	b.WriteString(crlf)
	b.WriteString(quotedPrintable(msg.Body))
	b.WriteString(crlf)

	if msg.HTML != "" {
		writeBoundary(&b, boundary)
		b.WriteString("Content-Type: text/html; charset=utf-8" + crlf)
		b.WriteString("Content-Transfer-Encoding: quoted-printable" + crlf)
		b.WriteString(crlf)
		b.WriteString(quotedPrintable(msg.HTML))
		b.WriteString(crlf)
	}

	for _, a := range msg.Attachments {
		writeBoundary(&b, boundary)
		b.WriteString(fmt.Sprintf("Content-Type: %s", a.ContentType) + crlf)
		b.WriteString(fmt.Sprintf(`Content-Disposition: attachment; filename="%s"`, a.Filename) + crlf)
		b.WriteString("Content-Transfer-Encoding: base64" + crlf)
		b.WriteString(crlf)
		b.WriteString(base64Wrapped(a.Data))
		b.WriteString(crlf)
	}

	b.WriteString("--" + boundary + "--" + crlf)

	return []byte(b.String())
}

func writeHeader(b *strings.Builder, name, value string) {
	if value == "" {
		return
	}
	b.WriteString(name + ": " + value + crlf)
}

func writeAddressHeader(b *strings.Builder, name string, addrs []string) {
	if len(addrs) == 0 {
		return
	}
	writeHeader(b, name, strings.Join(addrs, ", "))
}

func writeBoundary(b *strings.Builder, boundary string) {
	b.WriteString("--" + boundary + crlf)
}

// quotedPrintable renders body as genuine quoted-printable, matching
// spec.md §4.D's guidance to produce real QP rather than the body verbatim
// when 8-bit bytes may appear.
func quotedPrintable(body string) string {
	var out strings.Builder
	w := quotedprintable.NewWriter(&out)
	_, _ = w.Write([]byte(body))
	_ = w.Close()
	return out.String()
}

func base64Wrapped(data []byte) string {
	encoded := base64.StdEncoding.EncodeToString(data)
	var out strings.Builder
	for i := 0; i < len(encoded); i += 76 {
		end := i + 76
		if end > len(encoded) {
			end = len(encoded)
		}
		out.WriteString(encoded[i:end])
		out.WriteString(crlf)
	}
	return strings.TrimSuffix(out.String(), crlf)
}
