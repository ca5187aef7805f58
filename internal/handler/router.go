package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/efreitasn/tradeledger/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

// RouterConfig holds the router settings that come from configuration.
type RouterConfig struct {
	CORSOrigin    string
	SeedBatchSize int
}

// NewRouter creates a chi router with all routes registered, request ids,
// request logging, panic recovery and CORS.
func NewRouter(
	tradeSvc *service.TradeService,
	seedSvc *service.SeedService,
	cfg RouterConfig,
	log logrus.FieldLogger,
) chi.Router {
	r := chi.NewRouter()

	// Global middleware.
	r.Use(requestID)
	r.Use(requestLogging(log))
	r.Use(middleware.Recoverer)
	r.Use(cors(cfg.CORSOrigin))

	tradeH := NewTradeHandler(tradeSvc, log)
	seedH := NewSeedHandler(seedSvc, cfg.SeedBatchSize, log)

	// Health check.
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Trade routes.
	r.Get("/trades", tradeH.List)
	r.Get("/trades/", tradeH.List)
	r.Get("/trades/{trade_id}", tradeH.Get)

	// Seed route.
	r.Get("/generate_10_random_trades/", seedH.Generate)

	return r
}

type ctxKey int

const requestIDKey ctxKey = iota

// requestID reuses an incoming X-Request-ID or assigns a new one, and echoes
// it on the response.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

// requestLogger returns log annotated with the request id, if any.
func requestLogger(r *http.Request, log logrus.FieldLogger) logrus.FieldLogger {
	if id, ok := r.Context().Value(requestIDKey).(string); ok {
		return log.WithField("request_id", id)
	}
	return log
}

// requestLogging returns middleware that logs each request's method, path,
// status code, and duration.
func requestLogging(log logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)
			requestLogger(r, log).WithFields(logrus.Fields{
				"method":   r.Method,
				"path":     r.URL.Path,
				"query":    r.URL.RawQuery,
				"status":   ww.status,
				"duration": time.Since(start).String(),
			}).Info("request")
		})
	}
}

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

// cors allows cross-origin reads from origin ("*" for any). Preflight
// requests are answered directly.
func cors(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("Vary", "Origin")
			h.Set("Access-Control-Allow-Methods", "GET, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, "+RequestIDHeader)
			switch reqOrigin := r.Header.Get("Origin"); {
			case origin == "*":
				h.Set("Access-Control-Allow-Origin", "*")
			case reqOrigin != "" && reqOrigin == origin:
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Access-Control-Allow-Credentials", "true")
			}
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
