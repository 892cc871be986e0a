package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"fintrack/internal/log"
)

// withRequestLogging logs one line per request with status and timing,
// and installs a request-scoped logger for the handlers downstream.
func (s *Server) withRequestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		requestID := middleware.GetReqID(r.Context())
		reqLogger := s.logger.With(log.FieldRequestID, requestID)
		r = r.WithContext(log.NewContext(r.Context(), reqLogger))

		next.ServeHTTP(ww, r)

		reqLogger.Info("Request completed",
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldStatusCode, ww.Status(),
			log.FieldDuration, time.Since(start).Milliseconds(),
			log.FieldClientIP, r.RemoteAddr)
	})
}

func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

// withRateLimit throttles mutating requests per client IP.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodDelete:
			if !s.limiter.allow(r.RemoteAddr) {
				s.logger.WarnContext(r.Context(), "Rate limit exceeded",
					log.FieldClientIP, r.RemoteAddr,
					log.FieldMethod, r.Method,
					log.FieldPath, r.URL.Path)
				w.Header().Set("Retry-After", "60")
				writeMessage(w, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
