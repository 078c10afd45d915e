// Package web implements the HTTP surface of spec.md §4.J: message
// listing, thread viewing, the sandboxed iframe host and its proxies, and
// compose/reply/forward forms, backed by the same indexer.Client and
// sender.Sender the TUI orchestrator uses.
package web

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/johnae/whynot-go/config"
	"github.com/johnae/whynot-go/indexer"
	"github.com/johnae/whynot-go/render"
	"github.com/johnae/whynot-go/sender"
	"github.com/johnae/whynot-go/wlog"
)

// Server holds the dependencies every handler needs: an indexer client, an
// optional sender (absence degrades compose/reply/forward gracefully, the
// same contract the orchestrator honors), the resolved configuration, and a
// rendered-body cache.
type Server struct {
	idx *indexer.Client
	snd *sender.Sender
	cfg config.Config
	log wlog.Logger

	cache *render.Cache

	mux  *http.ServeMux
	serv http.Server

	listenerWg sync.WaitGroup
}

// New builds a Server and registers every route named in spec.md §4.J. snd
// may be nil.
func New(idx *indexer.Client, snd *sender.Sender, cfg config.Config, log wlog.Logger) *Server {
	s := &Server{
		idx:   idx,
		snd:   snd,
		cfg:   cfg,
		log:   log.Named("web"),
		cache: render.NewCache(256),
	}

	s.mux = http.NewServeMux()
	s.routes()
	s.serv.Handler = s.mux

	return s
}

func (s *Server) routes() {
	s.handle("GET /inbox", s.handleInbox)
	s.handle("GET /search", s.handleSearch)
	s.handle("GET /thread/{id}", s.handleThread)
	s.handle("GET /attachment/{thread}/{msg}/{part}", s.handleAttachment)
	s.handle("GET /email-frame/{thread}/{msg}", s.handleEmailFrame)
	s.handle("GET /image_proxy", s.handleImageProxy)
	s.handle("GET /redirect", s.handleRedirect)
	s.handle("GET /tags", s.handleTags)
	s.handle("GET /compose", s.handleComposeForm)
	s.handle("POST /compose", s.handleComposeSubmit)
	s.handle("GET /thread/{id}/reply", s.handleReplyForm)
	s.handle("POST /thread/{id}/reply", s.handleReplySubmit)
	s.handle("GET /thread/{id}/forward", s.handleForwardForm)
	s.handle("POST /thread/{id}/forward", s.handleForwardSubmit)
	s.handle("POST /settings/theme", s.handleSetTheme)
	s.handle("GET /api/refresh-query", s.handleRefreshQuery)
	s.handle("GET /api/load-more", s.handleLoadMore)
	s.mux.Handle("/metrics", metricsHandler())
}

// handle registers h under pattern, wrapped with the metrics middleware
// (spec.md §4.N), which labels observations with the full pattern, method
// prefix included.
func (s *Server) handle(pattern string, h http.HandlerFunc) {
	s.mux.Handle(pattern, withMetrics(pattern, h))
}

// ListenAndServe binds cfg.Web.Bind and serves until ctx is cancelled,
// mirroring the teacher's openmetrics endpoint: a single net.Listen plus a
// goroutine running Serve, with Close triggered by context cancellation.
func (s *Server) ListenAndServe(ctx context.Context) error {
	l, err := net.Listen("tcp", s.cfg.Web.Bind)
	if err != nil {
		return err
	}

	s.listenerWg.Add(1)
	go func() {
		defer s.listenerWg.Done()
		<-ctx.Done()
		_ = s.serv.Close()
	}()

	s.log.Printf("listening on %s", s.cfg.Web.Bind)
	err = s.serv.Serve(l)
	if errors.Is(err, http.ErrServerClosed) {
		err = nil
	}
	s.listenerWg.Wait()
	return err
}

// Close shuts the server down immediately, for use outside the
// ListenAndServe/ctx-cancellation path (e.g. tests).
func (s *Server) Close() error {
	return s.serv.Close()
}

// Handler exposes the underlying mux for tests driving requests directly
// via httptest, without binding a real listener.
func (s *Server) Handler() http.Handler {
	return s.mux
}

const imageProxyTimeout = 10 * time.Second
