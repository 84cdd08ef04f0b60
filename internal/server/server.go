package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/osse101/cosmetics/internal/handler"
	"github.com/osse101/cosmetics/internal/logger"
	"github.com/osse101/cosmetics/internal/metrics"
	"github.com/osse101/cosmetics/internal/sse"
)

// Players is what the routes need from the player registry.
// *player.Registry satisfies it.
type Players interface {
	handler.PlayerServices
	handler.PlayerCache
}

// Options carries the collaborators and settings of a Server
type Options struct {
	Port           int
	APIKey         string
	TrustedProxies []string
	// Reported by /version
	ServiceName string
	Version     string
	Environment string
	// RateLimit zero values fall back to DefaultDetectorConfig
	RateLimit DetectorConfig
	// Storage answers /readyz; nil for backends without a connection
	Storage handler.Pinger
	Catalog handler.CatalogReader
	Players Players
	// Events serves the admin event log; nil leaves the route out
	Events handler.EventReader
	// Stream serves live change notifications; nil leaves the route out
	Stream *sse.Hub
}

type Server struct {
	httpServer *http.Server
}

// NewServer creates a new Server instance
func NewServer(opts Options) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", opts.Port),
			Handler:           NewRouter(opts),
			ReadHeaderTimeout: ReadHeaderTimeout,
		},
	}
}

// NewRouter builds the middleware stack and every route
func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	// Chi middleware executes in order defined (outermost to innermost)
	detector := NewSuspiciousActivityDetector(opts.RateLimit)

	r.Use(SecurityHeadersMiddleware())
	r.Use(AuthMiddleware(opts.APIKey, opts.TrustedProxies, detector))
	r.Use(SecurityLoggingMiddleware(opts.TrustedProxies, detector))
	r.Use(RequestSizeLimitMiddleware(MaxRequestBytes))
	r.Use(metrics.Middleware)
	r.Use(loggingMiddleware)

	// Health check routes (unversioned)
	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(opts.Storage))

	// Version endpoint (public, for deployment verification)
	r.Get("/version", handler.HandleVersion(opts.ServiceName, opts.Version, opts.Environment))

	// Metrics endpoint (public, for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/catalog/{category}", handler.HandleGetCatalog(opts.Catalog))
		if opts.Stream != nil {
			r.Get("/events/stream", sse.Handler(opts.Stream))
		}

		r.Route("/players/{playerID}", func(r chi.Router) {
			r.Get("/profile", handler.HandleGetProfile(opts.Players))
			r.Put("/name", handler.HandleUpdateUserName(opts.Players))

			r.Route("/{category}", func(r chi.Router) {
				r.Get("/", handler.HandleGetItems(opts.Players))
				r.Post("/select", handler.HandleSelect(opts.Players))
				r.Post("/unlock", handler.HandleUnlock(opts.Players))
				r.Post("/unlock-and-select", handler.HandleUnlockAndSelect(opts.Players))
			})
		})

		adminCacheHandler := handler.NewAdminCacheHandler(opts.Players)
		r.Route("/admin", func(r chi.Router) {
			r.Route("/players/{playerID}", func(r chi.Router) {
				r.Post("/{category}/grant", handler.HandleGrant(opts.Players))
				r.Post("/{category}/revoke", handler.HandleRevoke(opts.Players))
				if opts.Events != nil {
					r.Get("/events", handler.HandleGetPlayerEvents(opts.Events))
				}
			})

			r.Route("/cache", func(r chi.Router) {
				r.Get("/stats", adminCacheHandler.HandleGetCacheStats)
				r.Delete("/players/{playerID}", adminCacheHandler.HandleEvictPlayer)
			})
		})
	})

	return r
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK, // default status
	}
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if !rw.written {
		rw.statusCode = statusCode
		rw.written = true
		rw.ResponseWriter.WriteHeader(statusCode)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

// Unwrap lets http.ResponseController reach the underlying Flusher
func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Probes and scrapes are not worth a log line
		if strings.HasPrefix(r.URL.Path, "/healthz") ||
			strings.HasPrefix(r.URL.Path, "/readyz") ||
			strings.HasPrefix(r.URL.Path, "/metrics") {
			next.ServeHTTP(w, r)
			return
		}

		requestID := r.Header.Get(HeaderRequestID)
		if requestID == "" {
			requestID = logger.GenerateRequestID()
		}
		ctx := logger.WithRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)
		w.Header().Set(HeaderRequestID, requestID)

		log := logger.FromContext(ctx)
		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength,
			"user_agent", r.UserAgent())

		sanitizedHeaders := make(http.Header)
		for k, v := range r.Header {
			if strings.EqualFold(k, HeaderAPIKey) || strings.EqualFold(k, HeaderAuthorization) {
				sanitizedHeaders[k] = []string{RedactedValue}
			} else {
				sanitizedHeaders[k] = v
			}
		}
		log.Debug(LogMsgRequestHeaders, "headers", sanitizedHeaders)

		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		log.Info(LogMsgRequestCompleted,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds())
	})
}

// Start starts the server
func (s *Server) Start() error {
	slog.Default().Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
