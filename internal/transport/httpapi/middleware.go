package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/sandevgo/recall/pkg/log"
)

type learnerHandler func(w http.ResponseWriter, r *http.Request, learnerID string)

// withLearner rejects requests without a learner id. Authentication is left
// to whatever sits in front of the API.
func (s *Server) withLearner(next learnerHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(learnerHeader))
		if id == "" {
			writeError(w, http.StatusBadRequest, "MissingLearner", "the "+learnerHeader+" header is required")
			return
		}
		next(w, r.WithContext(log.WithLearner(r.Context(), id)), id)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		log.FromCtx(r.Context()).Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("took", time.Since(start)).
			Msg("http request")
	})
}
