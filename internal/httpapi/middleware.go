package httpapi

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/BrandonDHaskell/cornerstone/internal/metrics"
	"github.com/BrandonDHaskell/cornerstone/internal/requestctx"
)

// loggingMiddleware logs one line per request and counts it by route
// pattern.
func loggingMiddleware(logger *zap.Logger, m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			route := r.URL.Path
			if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
				route = rc.RoutePattern()
			}
			m.IncrementHTTPRequest(r.Method, route, strconv.Itoa(status))

			logger.Debug("http request",
				zap.String("method", r.Method),
				zap.String("route", route),
				zap.Int("status", status),
				zap.String("remote", r.RemoteAddr),
				zap.String("request_id", chimw.GetReqID(r.Context())),
				zap.String("caller", requestctx.Caller(r.Context())),
				zap.Duration("dur", time.Since(start)),
			)
		})
	}
}

// requestIDMiddleware keeps an incoming X-Request-ID or assigns a new
// uuid, and stores it where chi's GetReqID finds it.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(chimw.RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(chimw.RequestIDHeader, id)
		ctx := context.WithValue(r.Context(), chimw.RequestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// callerMiddleware copies the caller header into the request context.
func callerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c := r.Header.Get(requestctx.CallerHeader); c != "" {
			r = r.WithContext(requestctx.WithCaller(r.Context(), c))
		}
		next.ServeHTTP(w, r)
	})
}

// requireCaller rejects mutating requests that carry no caller identity.
func requireCaller(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requestctx.Caller(r.Context()) == "" {
			writeError(w, r, http.StatusUnauthorized, "missing-caller", requestctx.CallerHeader+" header is required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// rateLimitMiddleware applies one shared token bucket to every request it
// wraps.  A nil limiter lets everything through.
func rateLimitMiddleware(l *rate.Limiter, m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if l == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.Allow() {
				m.IncrementRateLimited()
				w.Header().Set("Retry-After", "1")
				writeError(w, r, http.StatusTooManyRequests, "rate-limited", "too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
