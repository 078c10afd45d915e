package render

import (
	"path/filepath"
	"strings"
)

// SafeFilename returns the basename of name with every character outside
// [A-Za-z0-9._-] stripped, per spec.md §4.G's attachment endpoint rule.
func SafeFilename(name string) string {
	base := filepath.Base(name)
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "attachment"
	}
	return b.String()
}
