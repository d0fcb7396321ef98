package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"voxtral-server/internal/api/middleware"
	"voxtral-server/internal/app/service"
	"voxtral-server/internal/config"
)

// Server is the HTTP gateway in front of the TranscriptionService.
type Server struct {
	config     *config.ServerConfig
	router     *gin.Engine
	httpServer *http.Server
	service    *service.TranscriptionService
	logger     *zap.Logger
}

// NewServer creates the gateway with routes and middleware wired up.
func NewServer(cfg *config.ServerConfig, svc *service.TranscriptionService, logger *zap.Logger) *Server {
	if cfg.Reload {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.StructuredLogging(logger))
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))

	s := &Server{
		config:  cfg,
		router:  router,
		service: svc,
		logger:  logger,
		httpServer: &http.Server{
			Addr:         cfg.Addr(),
			Handler:      router,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
	}

	router.GET("/", s.handleRoot)
	router.GET("/health", s.handleHealth)
	router.POST("/transcribe", s.handleTranscribe)
	router.POST("/transcribe-json", s.handleTranscribeJSON)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return s
}

// Start begins serving in a background goroutine.
func (s *Server) Start() <-chan error {
	errCh := make(chan error, 1)

	s.logger.Info("starting HTTP server", zap.String("addr", s.httpServer.Addr))

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	return errCh
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

// Router returns the gin router, useful for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}
