package rest

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	"github.com/rs/cors"
	"golang.org/x/time/rate"
)

// HeaderRequestID carries the request id in both directions
const HeaderRequestID = "X-Request-ID"

type requestIDKey struct{}

// RequestID returns the id assigned by RequestIDMiddleware, if any
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// RequestIDMiddleware propagates the caller's X-Request-ID or assigns a new one
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(HeaderRequestID))
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(HeaderRequestID, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

// LoggingMiddleware writes one log line per request
func LoggingMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			level := slog.LevelInfo
			if rec.status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			logger.LogAttrs(r.Context(), level, "http request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", rec.status),
				slog.Duration("duration", time.Since(start)),
				slog.String("client_ip", ClientIP(r)),
				slog.String("request_id", RequestID(r.Context())),
			)
		})
	}
}

type zstdResponseWriter struct {
	http.ResponseWriter
	encoder *zstd.Encoder
}

func (w *zstdResponseWriter) Write(b []byte) (int, error) {
	return w.encoder.Write(b)
}

// ZstdMiddleware compresses responses for clients that accept zstd
func ZstdMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Accept-Encoding")

		if !acceptsEncoding(r.Header.Values("Accept-Encoding"), "zstd") {
			next.ServeHTTP(w, r)
			return
		}

		encoder, err := zstd.NewWriter(w)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: err.Error()})
			return
		}
		defer encoder.Close()

		w.Header().Set("Content-Encoding", "zstd")
		w.Header().Del("Content-Length")

		next.ServeHTTP(&zstdResponseWriter{ResponseWriter: w, encoder: encoder}, r)
	})
}

// acceptsEncoding reports whether an Accept-Encoding header allows coding.
// An explicit entry wins over "*"; q=0 refuses.
func acceptsEncoding(headers []string, coding string) bool {
	wildcard := false
	for _, header := range headers {
		for _, entry := range strings.Split(header, ",") {
			name, params, _ := strings.Cut(entry, ";")
			name = strings.TrimSpace(name)

			accepted := qualityOf(params) > 0
			switch {
			case strings.EqualFold(name, coding):
				return accepted
			case name == "*":
				wildcard = accepted
			}
		}
	}
	return wildcard
}

// qualityOf reads q from "q=0.5"-style parameters; a missing or
// unparsable value counts as 1
func qualityOf(params string) float64 {
	for _, param := range strings.Split(params, ";") {
		key, value, ok := strings.Cut(strings.TrimSpace(param), "=")
		if !ok || !strings.EqualFold(strings.TrimSpace(key), "q") {
			continue
		}
		q, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return 1
		}
		return q
	}
	return 1
}

// CORSMiddleware lets browsers call the API from the given origins
func CORSMiddleware(origins []string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{HeaderRequestID, "Retry-After"},
		MaxAge:         600,
	})
	return c.Handler
}

// ClientIP resolves the caller address, preferring proxy headers
func ClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		return realIP
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// staleAfter is how long an idle client keeps its bucket
const staleAfter = 3 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter enforces a per-client token bucket of requestsPerMinute
type RateLimiter struct {
	mu                sync.Mutex
	clients           map[string]*clientLimiter
	requestsPerMinute int
	limit             rate.Limit
	burst             int
	lastSweep         time.Time
	now               func() time.Time
}

// NewRateLimiter creates a limiter allowing requestsPerMinute per client.
// A burst below one defaults to requestsPerMinute.
func NewRateLimiter(requestsPerMinute, burst int) *RateLimiter {
	if burst < 1 {
		burst = requestsPerMinute
	}
	return &RateLimiter{
		clients:           make(map[string]*clientLimiter),
		requestsPerMinute: requestsPerMinute,
		limit:             rate.Limit(float64(requestsPerMinute) / 60),
		burst:             burst,
		now:               time.Now,
	}
}

// Reserve consumes a token for key. It returns zero when the request may
// proceed, otherwise how long the client should wait.
func (l *RateLimiter) Reserve(key string) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	c, ok := l.clients[key]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[key] = c
	}
	c.lastSeen = now

	res := c.limiter.ReserveN(now, 1)
	if !res.OK() {
		return time.Minute
	}
	delay := res.DelayFrom(now)
	if delay > 0 {
		res.CancelAt(now)
		return delay
	}
	return 0
}

func (l *RateLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < time.Minute {
		return
	}
	l.lastSweep = now
	for key, c := range l.clients {
		if now.Sub(c.lastSeen) > staleAfter {
			delete(l.clients, key)
		}
	}
}

// Middleware rejects requests over the limit with 429 and Retry-After
func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		wait := l.Reserve(ClientIP(r))
		if wait > 0 {
			seconds := int(math.Ceil(wait.Seconds()))
			w.Header().Set("Retry-After", strconv.Itoa(seconds))
			writeJSON(w, http.StatusTooManyRequests, errorResponse{
				Detail: fmt.Sprintf("rate limit exceeded: at most %d requests per minute", l.requestsPerMinute),
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}
