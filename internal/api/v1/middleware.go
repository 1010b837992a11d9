package v1

import "net/http"

// requireBus wraps a handler and returns 503 if the event bus is not configured.
func (s *Server) requireBus(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.deps.Bus == nil {
			writeError(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Event bus not configured")
			return
		}
		next(w, r)
	}
}
