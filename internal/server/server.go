package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"sonicwave/internal/config"
	"sonicwave/internal/logging"
	"sonicwave/internal/pipeline"
)

// Server serves static assets and the conversion API.
type Server struct {
	cfg      *config.Config
	logger   *slog.Logger
	batch    *pipeline.Batch
	validate *validator.Validate

	// engineMu serializes conversion requests: the engine workspace behind
	// the batch has no per-call isolation.
	engineMu sync.Mutex
}

// New constructs a server around an existing batch pipeline.
func New(cfg *config.Config, batch *pipeline.Batch, logger *slog.Logger) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("config required")
	}
	if batch == nil {
		return nil, errors.New("batch pipeline required")
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Server{
		cfg:      cfg,
		logger:   logger,
		batch:    batch,
		validate: newOptionsValidator(),
	}, nil
}

// Handler builds the full route tree.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Route("/api", func(r chi.Router) {
		r.Get("/formats", s.handleFormats)
		r.Post("/convert", s.handleConvert)
	})

	static := http.FileServer(http.Dir(s.cfg.Server.StaticDir))
	r.NotFound(s.withIsolationHeaders(s.withCacheControl(static)).ServeHTTP)

	return r
}

// Start runs the HTTP server until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Bind,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening",
			"bind", s.cfg.Server.Bind,
			"static_dir", s.cfg.Server.StaticDir,
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
