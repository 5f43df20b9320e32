package httpserver

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/cors"
	"github.com/veriluxe/certificate-registry/api"
	"github.com/veriluxe/certificate-registry/auth"
	"golang.org/x/time/rate"
)

// SecurityHeaders adds security-related headers to all responses
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

// CORS allows browser clients from origins. An empty list allows any origin.
func CORS(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id", auth.SignatureHeader, auth.TimestampHeader},
		ExposedHeaders: []string{"X-Request-Id", "X-Max-Request-Size"},
		MaxAge:         300,
	})
}

// RateLimit limits requests per second across all clients. If
// requestsPerSecond <= 0, rate limiting is disabled.
func RateLimit(requestsPerSecond float64, burst int, log *slog.Logger) func(http.Handler) http.Handler {
	if requestsPerSecond <= 0 {
		return func(next http.Handler) http.Handler {
			return next
		}
	}
	if burst < 1 {
		burst = 1
	}

	limiter := rate.NewLimiter(rate.Limit(requestsPerSecond), burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				log.Warn("Rate limit exceeded",
					slog.String("component", "RateLimit"),
					slog.String("remote_addr", r.RemoteAddr))

				w.Header().Set("Retry-After", "1")
				api.WriteError(w, log, api.ErrRateLimited)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequestSizeLimit rejects request bodies over maxBytes with 413. Requests
// announcing a larger Content-Length are rejected before the body is read.
// A non-positive maxBytes disables the limit.
func RequestSizeLimit(maxBytes int64, log *slog.Logger) func(http.Handler) http.Handler {
	if maxBytes <= 0 {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Max-Request-Size", strconv.FormatInt(maxBytes, 10))

			if r.ContentLength > maxBytes {
				api.WriteError(w, log, &http.MaxBytesError{Limit: maxBytes})
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
