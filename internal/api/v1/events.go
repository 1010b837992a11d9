package v1

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// eventBuffer is the per-client backlog before events are dropped for a
// slow reader.
const eventBuffer = 64

// streamEvents relays bus events to the client as server-sent events until
// the client disconnects or the bus closes.
func (s *Server) streamEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "STREAMING_UNSUPPORTED", "Streaming not supported")
		return
	}

	ch := s.deps.Bus.SubscribeAll(eventBuffer)
	defer s.deps.Bus.Unsubscribe(ch)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-ch:
			if !ok {
				return
			}
			data, err := json.Marshal(e)
			if err != nil {
				s.log.Warn("event marshal failed", "type", e.EventType(), "error", err)
				continue
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", e.EventType(), data); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
