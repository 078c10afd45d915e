package render

import (
	"net/url"
	"strings"

	xhtml "golang.org/x/net/html"
)

// SanitizeOptions controls URL rewriting during sanitization.
type SanitizeOptions struct {
	// RewriteLinks, when true, rewrites http(s) hrefs to /redirect?url=…
	// and http(s) img srcs to /image_proxy?url=…, forcing target/rel on
	// rewritten links.
	RewriteLinks bool
	// ShowImages, when false (and RewriteLinks is true), appends
	// &blocked=true to rewritten image-proxy URLs.
	ShowImages bool
}

var allowedTags = map[string]bool{
	"a": true, "abbr": true, "b": true, "blockquote": true, "br": true,
	"code": true, "dd": true, "del": true, "div": true, "dl": true, "dt": true,
	"em": true, "h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"hr": true, "i": true, "img": true, "ins": true, "li": true, "ol": true,
	"p": true, "pre": true, "q": true, "s": true, "small": true, "span": true,
	"strong": true, "sub": true, "sup": true, "table": true, "tbody": true,
	"td": true, "tfoot": true, "th": true, "thead": true, "tr": true, "u": true,
	"ul": true, "center": true,
}

var genericAttrs = map[string]bool{
	"style": true, "class": true, "align": true, "valign": true,
	"bgcolor": true, "width": true, "height": true, "cellpadding": true,
	"cellspacing": true, "border": true, "target": true,
}

// dropEntirely tags are removed along with their entire subtree (not
// unwrapped) — scripting, styling, and embedding vectors invariant 4 names.
var dropEntirely = map[string]bool{
	"script": true, "style": true, "head": true, "title": true, "meta": true,
	"link": true, "iframe": true, "object": true, "embed": true, "form": true,
	"input": true, "button": true, "noscript": true, "svg": true, "base": true,
}

// Sanitize parses src as an HTML fragment and re-serializes it through the
// tag/attribute allowlist and URL-rewriting rules of spec.md §4.F. Tags
// outside the allowlist but not in dropEntirely are unwrapped (their
// children survive, the tag itself does not); dropEntirely tags lose their
// whole subtree.
func Sanitize(src string, opts SanitizeOptions) string {
	z := xhtml.NewTokenizer(strings.NewReader(src))

	var out strings.Builder
	skipTag := ""
	skipDepth := 0

	for {
		tt := z.Next()
		if tt == xhtml.ErrorToken {
			break
		}

		tok := z.Token()

		switch tok.Type {
		case xhtml.CommentToken, xhtml.DoctypeToken:
			continue

		case xhtml.TextToken:
			if skipTag == "" {
				out.WriteString(tok.String())
			}

		case xhtml.StartTagToken, xhtml.SelfClosingTagToken:
			name := strings.ToLower(tok.Data)
			if skipTag != "" {
				if name == skipTag && tok.Type == xhtml.StartTagToken {
					skipDepth++
				}
				continue
			}
			if dropEntirely[name] {
				if tok.Type != xhtml.SelfClosingTagToken {
					skipTag = name
					skipDepth = 1
				}
				continue
			}
			if !allowedTags[name] {
				continue
			}
			filterAttrs(&tok, opts)
			out.WriteString(tok.String())

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
			if !allowedTags[name] {
				continue
			}
			out.WriteString(tok.String())
		}
	}

	return out.String()
}

func filterAttrs(tok *xhtml.Token, opts SanitizeOptions) {
	tag := strings.ToLower(tok.Data)
	kept := make([]xhtml.Attribute, 0, len(tok.Attr))
	forceTarget, forceRel := "", ""

	for _, a := range tok.Attr {
		key := strings.ToLower(a.Key)

		switch key {
		case "href":
			if tag != "a" {
				continue
			}
			scheme, ok := urlScheme(a.Val)
			if !ok {
				continue
			}
			switch scheme {
			case "mailto":
				kept = append(kept, a)
			case "http", "https":
				if opts.RewriteLinks {
					kept = append(kept, xhtml.Attribute{Key: "href", Val: "/redirect?url=" + url.QueryEscape(a.Val)})
					forceTarget, forceRel = "_blank", "noopener noreferrer"
				} else {
					kept = append(kept, a)
				}
			}

		case "src":
			if tag != "img" {
				continue
			}
			scheme, ok := urlScheme(a.Val)
			if !ok || (scheme != "http" && scheme != "https") {
				continue
			}
			if opts.RewriteLinks {
				rewritten := "/image_proxy?url=" + url.QueryEscape(a.Val)
				if !opts.ShowImages {
					rewritten += "&blocked=true"
				}
				kept = append(kept, xhtml.Attribute{Key: "src", Val: rewritten})
			} else {
				kept = append(kept, a)
			}

		case "style":
			if filtered, ok := filterStyle(a.Val); ok {
				kept = append(kept, xhtml.Attribute{Key: "style", Val: filtered})
			}

		case "target":
			if tag == "a" && opts.RewriteLinks {
				continue // overridden below if href was rewritten
			}
			if genericAttrs[key] {
				kept = append(kept, a)
			}

		default:
			if genericAttrs[key] {
				kept = append(kept, a)
			}
		}
	}

	if forceTarget != "" {
		kept = append(kept, xhtml.Attribute{Key: "target", Val: forceTarget})
		kept = append(kept, xhtml.Attribute{Key: "rel", Val: forceRel})
	}

	tok.Attr = kept
}

// urlScheme returns the lowercased scheme of raw, or ok=false if raw
// doesn't parse or has no scheme at all (relative URLs are rejected by the
// default-deny policy, per spec.md §4.F's fixed scheme allowlist).
func urlScheme(raw string) (string, bool) {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" {
		return "", false
	}
	return strings.ToLower(u.Scheme), true
}
