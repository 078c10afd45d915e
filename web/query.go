package web

import (
	"net/http"
	"strings"
)

// composeQuery AND-composes the q, tag, and tags[] request parameters into
// a single indexer query string, per spec.md §4.J's "GET /search?q&tag&tags[]
// (AND-composed query)".
func composeQuery(r *http.Request) string {
	var parts []string

	if q := r.URL.Query().Get("q"); q != "" {
		parts = append(parts, q)
	}
	if tag := r.URL.Query().Get("tag"); tag != "" {
		parts = append(parts, "tag:"+tag)
	}
	for _, t := range r.URL.Query()["tags[]"] {
		if t != "" {
			parts = append(parts, "tag:"+t)
		}
	}

	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, " and ")
}
