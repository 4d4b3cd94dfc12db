// Package gateway serves the chat webhook over HTTP.
package gateway

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/xqm32/guyubot/pkg/commands"
	"github.com/xqm32/guyubot/pkg/config"
	"github.com/xqm32/guyubot/pkg/logger"
	"github.com/xqm32/guyubot/pkg/ratelimit"
)

const (
	pruneInterval = 5 * time.Minute
	maxFormBytes  = 1 << 20
)

// Server is the webhook HTTP server.
type Server struct {
	cfg        config.GatewayConfig
	dispatcher commands.Dispatching
	limiter    *ratelimit.Limiter
	server     *http.Server
	stopPrune  context.CancelFunc
}

func NewServer(cfg config.GatewayConfig, dispatcher commands.Dispatching) *Server {
	return &Server{
		cfg:        cfg,
		dispatcher: dispatcher,
		limiter: ratelimit.New(ratelimit.Config{
			RequestsPerMinute: cfg.RequestsPerMinute,
			Burst:             cfg.Burst,
		}),
	}
}

// Handler returns the routed handler with the full middleware chain.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(requestID)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(bearerAuth(s.cfg.Token, []string{"/healthz"}))
	r.Use(rateLimit(s.limiter))

	r.Get("/healthz", handleHealth)
	r.Post("/", s.handleWebhook)
	return r
}

// Start listens on the configured address and serves in the background.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.cfg.ResolvedAddr())
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve serves on ln in the background.
func (s *Server) Serve(ln net.Listener) error {
	s.server = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       60 * time.Second,
	}

	if s.limiter.Enabled() {
		ctx, cancel := context.WithCancel(context.Background())
		s.stopPrune = cancel
		go s.pruneLoop(ctx)
	}

	go func() {
		logger.InfoCF("gateway", "HTTP server starting", map[string]any{"addr": ln.Addr().String()})
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.ErrorCF("gateway", "HTTP server error", map[string]any{"error": err.Error()})
		}
	}()
	return nil
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	if s.stopPrune != nil {
		s.stopPrune()
	}
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) pruneLoop(ctx context.Context) {
	ticker := time.NewTicker(pruneInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.limiter.Prune(pruneInterval); n > 0 {
				logger.DebugCF("gateway", "Pruned idle rate limit buckets", map[string]any{"count": n})
			}
		}
	}
}
