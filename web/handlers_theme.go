package web

import (
	"net/http"
)

const oneYearSeconds = 365 * 24 * 60 * 60

// handleSetTheme serves POST /settings/theme, toggling the theme cookie
// per spec.md §6: "theme=light|dark; Path=/; Max-Age=31536000".
func (s *Server) handleSetTheme(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	theme := r.FormValue("theme")
	if theme != "light" && theme != "dark" {
		http.Error(w, "theme must be light or dark", http.StatusBadRequest)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:   "theme",
		Value:  theme,
		Path:   "/",
		MaxAge: oneYearSeconds,
	})

	referer := r.Header.Get("Referer")
	if referer == "" {
		referer = "/inbox"
	}
	http.Redirect(w, r, referer, http.StatusSeeOther)
}
