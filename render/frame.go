package render

import (
	"fmt"
	"strings"
)

// Theme selects the iframe document's color scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// themeVariables are the CSS custom properties set per theme, read by the
// frame document's stylesheet (spec.md §4.G).
var themeVariables = map[Theme]map[string]string{
	ThemeLight: {
		"--bg-primary":   "#ffffff",
		"--text-primary": "#1a1a1a",
		"--link-color":   "#0969da",
	},
	ThemeDark: {
		"--bg-primary":   "#0d1117",
		"--text-primary": "#c9d1d9",
		"--link-color":   "#58a6ff",
	},
}

// darkModeOverrides force near-black foreground colors (found verbatim in
// real-world newsletter CSS) to the theme's text color in dark mode,
// per spec.md §9.
var darkModeOverrides = []string{
	"#191919", "#292929", "#333333",
	"rgb(25,25,25)", "rgb(41,41,41)", "rgb(51,51,50)",
	"#000", "#000000", "rgb(0,0,0)",
}

// BuildFrameDocument renders the minimal HTML document served at
// /email-frame/<thread>/<msg_index>, embedding the already-sanitized body.
func BuildFrameDocument(sanitizedHTML string, theme Theme) string {
	vars := themeVariables[theme]
	if vars == nil {
		vars = themeVariables[ThemeLight]
		theme = ThemeLight
	}

	var varDecls strings.Builder
	for _, name := range []string{"--bg-primary", "--text-primary", "--link-color"} {
		varDecls.WriteString(fmt.Sprintf("%s: %s;\n", name, vars[name]))
	}

	var darkOverrides strings.Builder
	if theme == ThemeDark {
		for _, color := range darkModeOverrides {
			darkOverrides.WriteString(fmt.Sprintf(
				`[data-theme="dark"] *[style*="color: %s"] { color: var(--text-primary) !important; }`+"\n", color))
		}
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html data-theme="%s">
<head>
<meta charset="utf-8">
<style>
:root {
%s}
body {
  background-color: var(--bg-primary);
  color: var(--text-primary);
  margin: 0;
  padding: 1rem;
  font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", sans-serif;
}
a { color: var(--link-color); }
img { max-width: 100%%; height: auto; }
%s</style>
</head>
<body>
%s</body>
</html>
`, theme, varDecls.String(), darkOverrides.String(), sanitizedHTML)
}
