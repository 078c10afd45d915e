package render

import "strings"

// dangerousStyleTokens reject a style attribute's entire value when any is
// present as a case-insensitive substring (spec.md §4.F).
var dangerousStyleTokens = []string{
	"position: fixed",
	"position:fixed",
	"position: absolute",
	"position:absolute",
	"position: sticky",
	"position:sticky",
	"z-index:",
	"javascript:",
	"expression(",
	"url(javascript",
	"url(data:text/html",
	"@import",
	"behavior:",
	"binding:",
	"-moz-binding",
}

// safePropertyPrefixes are lowercased property-name prefixes kept by
// filterStyle. top/right/bottom/left and position:relative are handled as
// special cases alongside this list.
var safePropertyPrefixes = []string{
	"color", "background", "font-", "text-", "padding", "margin", "border",
	"width", "height", "max-width", "min-width", "max-height", "min-height",
	"display", "flex", "align", "justify", "gap", "wrap", "content",
	"table-layout", "border-collapse", "border-spacing", "vertical-align",
	"line-height", "letter-spacing", "word-spacing", "white-space",
	"text-shadow", "opacity", "box-shadow", "transform", "transition",
	"object-fit", "object-position", "grid-template", "grid-gap",
	"grid-column", "grid-row", "overflow",
	"-webkit-", "-moz-", "-ms-", "mso-",
}

// filterStyle implements the style-attribute rules of spec.md §4.F: reject
// the whole value on any dangerous token, else keep only declarations
// matching the safe-properties prefix set (default-deny). Returns ok=false
// when the value should be dropped entirely (either a dangerous token was
// found, or no declaration survived filtering).
func filterStyle(value string) (string, bool) {
	lower := strings.ToLower(value)
	for _, tok := range dangerousStyleTokens {
		if strings.Contains(lower, tok) {
			return "", false
		}
	}

	var kept []string
	for _, decl := range strings.Split(value, ";") {
		decl = strings.TrimSpace(decl)
		if decl == "" {
			continue
		}
		prop, val, found := strings.Cut(decl, ":")
		if !found {
			continue
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		val = strings.ToLower(strings.TrimSpace(val))

		if isSafeDeclaration(prop, val) {
			kept = append(kept, decl)
		}
	}

	if len(kept) == 0 {
		return "", false
	}
	return strings.Join(kept, "; "), true
}

func isSafeDeclaration(prop, val string) bool {
	switch prop {
	case "position":
		return val == "relative"
	case "top", "right", "bottom", "left":
		return true
	}
	for _, prefix := range safePropertyPrefixes {
		if strings.HasPrefix(prop, prefix) {
			return true
		}
	}
	return false
}
