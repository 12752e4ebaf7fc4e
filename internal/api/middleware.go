package api

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"sharekit/internal/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const requestIDHeader = "X-Request-Id"

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *HTTPServer) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

func (s *HTTPServer) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("request_id", recorder.Header().Get(requestIDHeader)).
			Int("status", recorder.status).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}

func (s *HTTPServer) metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		endpoint := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			endpoint = rctx.RoutePattern()
		}
		metrics.IncHTTP(endpoint, strconv.Itoa(recorder.status))
	})
}

// anonLimiters ограничивает запросы без заголовка пользователя по IP.
var anonLimiters sync.Map // map[string]*rate.Limiter

func (s *HTTPServer) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.rateCfg.Requests <= 0 {
			next.ServeHTTP(w, r)
			return
		}

		if userID, err := strconv.ParseInt(r.Header.Get(sharerHeader), 10, 64); err == nil && s.rateLimit != nil {
			window := time.Duration(s.rateCfg.Window) * time.Second
			allowed, err := s.rateLimit.CheckRateLimit(r.Context(), userID, s.rateCfg.Requests, window)
			if err != nil {
				s.log.Error().Err(err).Int64("user_id", userID).Msg("rate limit check failed")
			} else if !allowed {
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
			return
		}

		if !s.anonLimiter(r).Allow() {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *HTTPServer) anonLimiter(r *http.Request) *rate.Limiter {
	key := "unknown"
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		key = host
	}

	if v, ok := anonLimiters.Load(key); ok {
		return v.(*rate.Limiter)
	}

	window := s.rateCfg.Window
	if window <= 0 {
		window = 1
	}
	rps := float64(s.rateCfg.Requests) / float64(window)
	lim := rate.NewLimiter(rate.Limit(rps), s.rateCfg.Requests)
	actual, loaded := anonLimiters.LoadOrStore(key, lim)
	if loaded {
		return actual.(*rate.Limiter)
	}
	return lim
}
