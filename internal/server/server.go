package server

import (
	"context"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/turboplaylist/turboplaylist/internal/config"
	"github.com/turboplaylist/turboplaylist/internal/download"
	"github.com/turboplaylist/turboplaylist/internal/model"
	"github.com/turboplaylist/turboplaylist/internal/session"
)

// Prober resolves collection metadata and per-item format catalogs.
// Satisfied by *ytdlp.Probe.
type Prober interface {
	CollectionInfo(ctx context.Context, url string) ([]model.Item, error)
	Formats(ctx context.Context, itemID string) ([]model.Variant, error)
}

// Server wires the engine's components behind the HTTP surface.
type Server struct {
	cfg      *config.Settings
	probe    Prober
	store    *session.Store
	orch     *download.Orchestrator
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// New assembles a server over the given collaborators.
func New(cfg *config.Settings, probe Prober, store *session.Store, orch *download.Orchestrator, logger *zap.Logger) *Server {
	return &Server{
		cfg:   cfg,
		probe: probe,
		store: store,
		orch:  orch,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// The frontend is served from a different origin.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		logger: logger,
	}
}

// Handler returns the routed and middleware-wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /info", s.handleInfo)
	mux.HandleFunc("GET /formats/{id}", s.handleFormats)
	mux.HandleFunc("GET /download/{id}", s.handleDownload)
	mux.HandleFunc("GET /health-transcoder", s.handleTranscoderHealth)
	mux.HandleFunc("GET /ws", s.handleWS)

	var h http.Handler = mux
	h = Recovery(s.logger)(h)
	h = Logging(s.logger)(h)
	h = CORS(h)
	return h
}
