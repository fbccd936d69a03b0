package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/kbukum/voicenote/logger"
	"github.com/kbukum/voicenote/server/endpoint"
	"github.com/kbukum/voicenote/server/middleware"
)

// TranscriptionsPath is the route host editors post recordings to.
const TranscriptionsPath = "/v1/transcriptions"

const shutdownTimeout = 5 * time.Second

// Server is the voicenote HTTP daemon: a Gin engine mounted on a ServeMux
// and served over HTTP/1.1 and cleartext HTTP/2.
type Server struct {
	cfg    Config
	log    *logger.Logger
	engine *gin.Engine
	mux    *http.ServeMux
	h2     *http2.Server
	srv    *http.Server

	mu sync.Mutex
	ln net.Listener
}

// New builds a Server with bare routing. ApplyDefaults adds the middleware
// stack and probe routes.
func New(cfg Config, log *logger.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	if zerolog.GlobalLevel() <= zerolog.DebugLevel {
		gin.SetMode(gin.DebugMode)
	}

	s := &Server{
		cfg:    cfg,
		log:    log.WithComponent("server"),
		engine: gin.New(),
		mux:    http.NewServeMux(),
		h2:     &http2.Server{MaxConcurrentStreams: 250, IdleTimeout: 2 * time.Minute},
	}
	s.mux.Handle("/", s.engine)
	s.srv = &http.Server{
		Addr:         cfg.Addr(),
		Handler:      h2c.NewHandler(s.mux, s.h2),
		ReadTimeout:  seconds(cfg.ReadTimeout),
		WriteTimeout: seconds(cfg.WriteTimeout),
		IdleTimeout:  seconds(cfg.IdleTimeout),
	}
	return s
}

// Handler returns the root handler, middleware included.
func (s *Server) Handler() http.Handler { return s.srv.Handler }

// ApplyDefaults installs recovery, request ID, CORS, the body limit and
// request logging, then registers /health, /alive and /version.
func (s *Server) ApplyDefaults(serviceName string, checker endpoint.HealthChecker) {
	stack := middleware.Chain(
		middleware.Recovery(s.log),
		middleware.RequestID(),
		middleware.CORS(&s.cfg.CORS),
		middleware.BodySizeLimit(s.cfg.MaxBodySize),
		middleware.RequestLogger(s.log),
	)
	s.srv.Handler = h2c.NewHandler(stack(s.mux), s.h2)

	s.engine.GET("/health", endpoint.Health(serviceName, checker))
	s.engine.GET("/alive", endpoint.Liveness(serviceName))
	s.engine.GET("/version", endpoint.Version())
}

// RegisterTranscriptions mounts h at POST /v1/transcriptions.
func (s *Server) RegisterTranscriptions(h *TranscriptionHandler) {
	s.engine.POST(TranscriptionsPath, h.Handle)
}

// Start binds the address and serves in the background. It returns once the
// port is bound.
func (s *Server) Start(_ context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("server: bind %s: %w", s.srv.Addr, err)
	}
	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()

	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("serve failed", logger.Fields(logger.FieldError, err.Error()))
		}
	}()
	s.log.Info("listening", logger.Fields("addr", ln.Addr().String()))
	return nil
}

// Stop drains in-flight requests for up to five seconds.
func (s *Server) Stop(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := s.srv.Shutdown(ctx); err != nil {
		s.log.Error("shutdown failed", logger.Fields(logger.FieldError, err.Error()))
		return fmt.Errorf("server: shutdown: %w", err)
	}
	s.log.Info("stopped")
	return nil
}

// Addr returns the bound address once started, else the configured one.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return s.srv.Addr
	}
	return s.ln.Addr().String()
}
