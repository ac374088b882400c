package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/vibecoding/devlog/internal/logger"
)

const requestIDHeader = "X-Request-ID"

// requestID tags each request with an identifier, honoring one supplied
// by the client
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the status code written downstream
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// requestLogger logs one line per request with method, path, status,
// and duration
func requestLogger(next http.Handler) http.Handler {
	log := logger.HTTP()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.WithFields(map[string]interface{}{
			"request_id": w.Header().Get(requestIDHeader),
			"status":     rec.status,
			"duration":   time.Since(start).String(),
		}).Info("%s %s", r.Method, r.URL.Path)
	})
}

// recoverer turns a downstream panic into a 500 instead of killing
// the connection
func recoverer(next http.Handler) http.Handler {
	log := logger.HTTP()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error("panic serving %s %s: %v", r.Method, r.URL.Path, rec)
				writeJSON(w, http.StatusInternalServerError, errorBody{
					Error:  "internal server error",
					Status: http.StatusInternalServerError,
				})
			}
		}()
		next.ServeHTTP(w, r)
	})
}
