// Package server serves the status page, the telemetry WebSocket and the
// status API.
package server

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
	"go.uber.org/zap"

	"github.com/soar/gyromouse/internal/hub"
	"github.com/soar/gyromouse/internal/telemetry"
)

// StatusProvider returns the latest snapshot of every controller.
type StatusProvider interface {
	Status() []telemetry.Snapshot
}

type Server struct {
	hub         *hub.Hub
	broadcaster *hub.Broadcaster
	status      StatusProvider
	page        []byte
	addr        string
	httpServer  *http.Server
	logger      *zap.SugaredLogger
}

// New builds a server for addr. page is the status page HTML, served
// minified.
func New(
	h *hub.Hub,
	b *hub.Broadcaster,
	status StatusProvider,
	page []byte,
	addr string,
	logger *zap.SugaredLogger,
) (*Server, error) {
	minified, err := minifyPage(page)
	if err != nil {
		return nil, err
	}
	return &Server{
		hub:         h,
		broadcaster: b,
		status:      status,
		page:        minified,
		addr:        addr,
		logger:      logger,
	}, nil
}

func minifyPage(page []byte) ([]byte, error) {
	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	m.AddFunc("text/html", html.Minify)
	m.AddFunc("application/javascript", js.Minify)
	out, err := m.Bytes("text/html", page)
	if err != nil {
		return nil, errors.Wrap(err, "minify status page")
	}
	return out, nil
}

// Handler returns the routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/", s.handlePage)
	return mux
}

func (s *Server) ListenAndServe() error {
	s.httpServer = &http.Server{
		Addr:    s.addr,
		Handler: s.Handler(),
	}

	s.logger.Infow("HTTP server listening", "addr", s.addr)
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		s.logger.Info("shutting down HTTP server")
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
