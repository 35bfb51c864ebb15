package http

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/larsmarsfars/chatsite"
)

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// withObservability tags each request with an ID, recovers panics into a
// JSON 500, and records logs and metrics on completion.
func (s *Server) withObservability(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		begin := time.Now()
		requestID := uuid.NewString()
		w.Header().Set("X-Request-Id", requestID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		defer func() {
			if p := recover(); p != nil {
				s.Logger.Error("panic recovered",
					"request_id", requestID,
					"method", r.Method,
					"path", r.URL.Path,
					"panic", p,
				)
				s.Error(rec, r, chatsite.Errorf(chatsite.EINTERNAL, "internal error"))
			}

			s.Metrics.ObserveHTTPRequest(r.Method, r.URL.Path, rec.status, time.Since(begin).Seconds())
			s.Logger.Info("request",
				"request_id", requestID,
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration", time.Since(begin),
			)
		}()

		next.ServeHTTP(rec, r)
	})
}
