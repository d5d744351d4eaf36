package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"folio/internal/config"
	"folio/internal/handlers"
	"folio/internal/middleware"
)

// HTTPServer serves the JSON api under /api and prometheus metrics on /metrics.
type HTTPServer struct {
	engine *gin.Engine
	server *http.Server
	log    zerolog.Logger
}

func NewHTTPServer(cfg *config.AppConfig, log zerolog.Logger, handlerSet handlers.HandlerSet) *HTTPServer {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := newEngine(cfg, log)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	handlerSet.Register(engine.Group("/api"))

	return &HTTPServer{
		engine: engine,
		server: &http.Server{
			Addr:         net.JoinHostPort(cfg.HTTP.Host, fmt.Sprint(cfg.HTTP.Port)),
			Handler:      engine,
			ReadTimeout:  cfg.HTTP.ReadTimeout,
			WriteTimeout: cfg.HTTP.WriteTimeout,
			IdleTimeout:  cfg.HTTP.IdleTimeout,
		},
		log: log,
	}
}

// newEngine builds the gin engine with the global middleware chain. Request
// ids are assigned first so every later log line can carry one.
func newEngine(cfg *config.AppConfig, log zerolog.Logger) *gin.Engine {
	engine := gin.New()
	engine.RedirectTrailingSlash = true
	engine.HandleMethodNotAllowed = true
	engine.MaxMultipartMemory = cfg.Storage.MaxUploadBytes

	engine.Use(
		middleware.RequestID(),
		middleware.Logger(log),
		middleware.Recovery(log),
		middleware.Metrics(),
		middleware.CORS(cfg.AllowCORSOrigins),
	)
	engine.NoRoute(jsonStatus(http.StatusNotFound, "not found"))
	engine.NoMethod(jsonStatus(http.StatusMethodNotAllowed, "method not allowed"))
	return engine
}

func jsonStatus(status int, msg string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(status, gin.H{"error": msg})
	}
}

func (s *HTTPServer) Handler() http.Handler {
	return s.engine
}

// Start listens on the configured address and blocks until Shutdown.
func (s *HTTPServer) Start() error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.server.Addr, err)
	}
	s.log.Info().Str("addr", ln.Addr().String()).Msg("http server listening")

	if err := s.server.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("http server shutting down")
	return s.server.Shutdown(ctx)
}
