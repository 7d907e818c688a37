// Package server assembles the optional control plane: a gin HTTP
// server exposing the namespace REST API, the provider tools, metrics,
// and the WebSocket event stream over one shell session.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	apihttp "github.com/GriffinCanCode/AgentShell/internal/api/http"
	"github.com/GriffinCanCode/AgentShell/internal/api/middleware"
	"github.com/GriffinCanCode/AgentShell/internal/infrastructure/config"
	"github.com/GriffinCanCode/AgentShell/internal/infrastructure/logging"
	"github.com/GriffinCanCode/AgentShell/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/AgentShell/internal/shell"
	"github.com/GriffinCanCode/AgentShell/internal/ws"
)

// Server wraps the HTTP control plane over one shell session.
type Server struct {
	router  *gin.Engine
	http    *http.Server
	session *shell.Session
	stream  *ws.Handler
	metrics *monitoring.Metrics
	log     *logging.Logger
	cfg     *config.Config

	unobserve func()
}

// New builds the control plane. The session is owned by the caller;
// the server only borrows it.
func New(cfg *config.Config, session *shell.Session, log *logging.Logger) *Server {
	metrics := monitoring.NewMetrics()
	unobserve := monitoring.Observe(metrics, session.Bus)
	if session.Boot != nil {
		metrics.RecordBoot(session.Boot.Shortcuts, session.Boot.Properties, len(session.Boot.Skipped))
	}

	stream := ws.NewHandler(session.Bus, metrics, log)

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit))
	}

	handlers := apihttp.NewHandlers(session)

	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)
	router.GET("/status", handlers.Status)

	// Namespace
	router.GET("/namespace", handlers.ListNamespace)
	router.GET("/namespace/:key", handlers.GetProperty)
	router.PUT("/namespace/:key", handlers.PutProperty)
	router.DELETE("/namespace/:key", handlers.DeleteProperty)

	// Shortcuts
	router.GET("/shortcuts", handlers.ListShortcuts)
	router.PUT("/shortcuts/:name", handlers.PutShortcut)
	router.DELETE("/shortcuts/:name", handlers.DeleteShortcut)

	// Script modules
	router.GET("/modules", handlers.ListModules)
	router.PUT("/modules/:name", handlers.PutModule)
	router.POST("/modules/:name/load", handlers.LoadModule)
	router.DELETE("/modules/:name", handlers.DeleteModule)

	// Evaluation and providers
	router.POST("/eval", handlers.Eval)
	router.GET("/services", handlers.ListServices)
	router.POST("/services/discover", handlers.DiscoverServices)
	router.POST("/services/execute", handlers.ExecuteService)
	router.GET("/history", handlers.History)

	// Event stream and metrics
	router.GET("/stream", stream.HandleConnection)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(
		metrics.Registry(), promhttp.HandlerOpts{})))

	return &Server{
		router:    router,
		session:   session,
		stream:    stream,
		metrics:   metrics,
		log:       log.Component("server"),
		cfg:       cfg,
		unobserve: unobserve,
	}
}

// Stream exposes the WebSocket handler, so its client count can feed
// the ui provider.
func (s *Server) Stream() *ws.Handler {
	return s.stream
}

// Router exposes the gin engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Run serves until the listener fails or Shutdown is called.
func (s *Server) Run() error {
	s.http = &http.Server{Addr: s.cfg.Server.Addr, Handler: s.router}
	s.log.Info("starting control plane", zap.String("addr", s.cfg.Server.Addr))
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and detaches from the bus.
func (s *Server) Shutdown(ctx context.Context) error {
	s.unobserve()
	if s.http == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.http.Shutdown(ctx)
}
