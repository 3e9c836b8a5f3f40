package server

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	mdwlog "github.com/msto63/pratt/foundation/core/log"
	pkggrpc "github.com/msto63/pratt/pkg/core/grpc"
	"github.com/msto63/pratt/pkg/core/health"
	"github.com/msto63/pratt/pkg/core/version"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server exposes a Service over HTTP, websocket and gRPC
type Server struct {
	httpServer *http.Server
	grpcServer *pkggrpc.Server
	service    *Service
	health     *health.Registry
	logger     *mdwlog.Logger
	config     Config
}

// Config holds server configuration
type Config struct {
	Host         string
	HTTPPort     int
	GRPCPort     int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Version      string

	// Gatherer backs /metrics; nil means the default registry
	Gatherer prometheus.Gatherer

	Logger *mdwlog.Logger
}

// DefaultConfig returns default server configuration
func DefaultConfig() Config {
	return Config{
		Host:         "0.0.0.0",
		HTTPPort:     8080,
		GRPCPort:     9090,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		Version:      version.Server,
	}
}

// New creates the HTTP and gRPC servers for svc
func New(cfg Config, svc *Service) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = mdwlog.GetDefault()
	}
	if cfg.Version == "" {
		cfg.Version = version.Server
	}
	gatherer := cfg.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	s := &Server{
		service: svc,
		health:  health.NewRegistry("pratt", cfg.Version),
		logger:  logger.WithField("component", "server"),
		config:  cfg,
	}

	s.health.Register(health.SelfTestCheck("engine", svc.SelfTest))
	if store := svc.History(); store != nil {
		s.health.Register(health.PingCheck("history", store))
	}
	if _, ok := svc.CacheStats(); ok {
		s.health.Register(health.StatsCheck("cache", func() map[string]interface{} {
			st, _ := svc.CacheStats()
			return map[string]interface{}{
				"hits":     st.Hits,
				"misses":   st.Misses,
				"size":     st.Size,
				"hit_rate": st.HitRate,
			}
		}))
	}

	h := &handler{service: svc, health: s.health, version: cfg.Version, logger: s.logger}
	ws := &wsHandler{service: svc, logger: s.logger.WithField("component", "websocket")}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.handleRoot)
	mux.HandleFunc("POST /v1/evaluate", h.handleEvaluate)
	mux.HandleFunc("GET /health", h.handleHealth)
	mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	mux.Handle("GET /v1/ws", ws)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.HTTPPort),
		Handler:      requestIDMiddleware(loggingMiddleware(s.logger, mux)),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	grpcCfg := pkggrpc.DefaultServerConfig()
	grpcCfg.Host = cfg.Host
	grpcCfg.Port = cfg.GRPCPort
	grpcCfg.Logger = logger
	s.grpcServer = pkggrpc.NewServer(grpcCfg)
	RegisterEvaluator(s.grpcServer.GRPCServer(), svc)
	s.grpcServer.SetServingStatus(EvaluatorService, true)

	return s
}

// requestIDMiddleware takes X-Request-ID from the request or assigns one
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(pkggrpc.WithRequestID(r.Context(), id)))
	})
}

// loggingMiddleware adds request logging
func loggingMiddleware(logger *mdwlog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Wrap response writer to capture status code
		wrapper := &responseWrapper{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapper, r)

		logger.WithRequestID(pkggrpc.GetRequestID(r.Context())).Info("HTTP request", mdwlog.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      wrapper.statusCode,
			"duration_ms": time.Since(start).Milliseconds(),
		})
	})
}

// responseWrapper wraps http.ResponseWriter to capture status code
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (w *responseWrapper) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}

// Hijack lets the websocket upgrade take over the connection
func (w *responseWrapper) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	return hijacker.Hijack()
}

func (w *responseWrapper) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// Handler returns the HTTP handler with all middleware applied
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start serves gRPC in the background and HTTP in the foreground
func (s *Server) Start() error {
	if err := s.grpcServer.StartAsync(); err != nil {
		return err
	}
	s.logger.Info("Starting pratt server", mdwlog.Fields{
		"http": s.HTTPAddress(),
		"grpc": s.GRPCAddress(),
	})
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop gracefully stops both servers
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping pratt server")

	s.grpcServer.SetServingStatus(EvaluatorService, false)
	s.grpcServer.StopWithTimeout(ctx)

	return s.httpServer.Shutdown(ctx)
}

// HTTPAddress returns the HTTP listen address
func (s *Server) HTTPAddress() string {
	return s.httpServer.Addr
}

// GRPCAddress returns the gRPC listen address
func (s *Server) GRPCAddress() string {
	return s.grpcServer.Address()
}

// HealthRegistry returns the health check registry
func (s *Server) HealthRegistry() *health.Registry {
	return s.health
}

// GRPC returns the gRPC server
func (s *Server) GRPC() *pkggrpc.Server {
	return s.grpcServer
}
