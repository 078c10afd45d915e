package web

import (
	"net/http"
	"strconv"

	"github.com/johnae/whynot-go/model"
)

type listView struct {
	Theme      string
	Query      string
	Items      []model.SearchItem
	HasMore    bool
	NextOffset int
}

// handleInbox serves GET /inbox, spec.md §4.J: "list with tag:inbox".
func (s *Server) handleInbox(w http.ResponseWriter, r *http.Request) {
	s.serveList(w, r, "tag:inbox", 0)
}

// handleSearch serves GET /search?q&tag&tags[].
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	s.serveList(w, r, composeQuery(r), 0)
}

func (s *Server) serveList(w http.ResponseWriter, r *http.Request, query string, offset int) {
	limit := s.cfg.Web.InitialPageSize
	if limit <= 0 {
		limit = s.cfg.Web.ItemsPerPage
	}

	result, err := s.idx.SearchPaginated(r.Context(), query, offset, limit)
	if err != nil {
		s.writeError(w, err)
		return
	}

	view := listView{
		Theme:      s.themeFromRequest(r),
		Query:      query,
		Items:      result.Items,
		HasMore:    len(result.Items) == limit,
		NextOffset: offset + limit,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = listTemplate.Execute(w, view)
}

// handleLoadMore serves GET /api/load-more?q&offset, returning an HTML
// fragment of additional result rows (SPEC_FULL.md §4.O).
func (s *Server) handleLoadMore(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	limit := s.cfg.Web.PaginationSize
	if limit <= 0 {
		limit = s.cfg.Web.ItemsPerPage
	}

	result, err := s.idx.SearchPaginated(r.Context(), query, offset, limit)
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = resultsFragmentTemplate.Execute(w, listView{Items: result.Items})
}

// handleRefreshQuery serves GET /api/refresh-query?q, re-running the
// current query from the start for polling-based auto-refresh.
func (s *Server) handleRefreshQuery(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	limit := s.cfg.Web.InitialPageSize
	if limit <= 0 {
		limit = s.cfg.Web.ItemsPerPage
	}

	result, err := s.idx.SearchPaginated(r.Context(), query, 0, limit)
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = resultsFragmentTemplate.Execute(w, listView{Items: result.Items})
}

func (s *Server) themeFromRequest(r *http.Request) string {
	if c, err := r.Cookie("theme"); err == nil && (c.Value == "light" || c.Value == "dark") {
		return c.Value
	}
	if s.cfg.Web.DefaultTheme != "" {
		return s.cfg.Web.DefaultTheme
	}
	return "light"
}
