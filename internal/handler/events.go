package handler

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Akshatcodegenics/Issue-tracker/internal/events"
)

// EventsHandler serves the long-lived /events stream.
type EventsHandler struct {
	broadcaster *events.Broadcaster
	keepAlive   time.Duration
}

// NewEventsHandler creates a new EventsHandler with the given keep-alive
// interval for idle-connection pings.
func NewEventsHandler(broadcaster *events.Broadcaster, keepAlive time.Duration) *EventsHandler {
	return &EventsHandler{broadcaster: broadcaster, keepAlive: keepAlive}
}

// Stream handles GET /events. It pushes a connected event once, a ping on
// every keep-alive tick, and issue events as they are broadcast. The stream
// ends when the client disconnects, when a write fails, or when the
// subscriber is dropped for falling behind; the keep-alive ticker is scoped
// to this handler, so it cannot outlive the connection.
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		WriteJSON(w, http.StatusInternalServerError, errorBody{Error: "streaming unsupported"})
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := h.broadcaster.Subscribe()
	defer h.broadcaster.Unsubscribe(ch)

	if err := writeFrame(w, "connected", []byte(`{}`)); err != nil {
		return
	}
	flusher.Flush()

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			if err := writeFrame(w, "ping", []byte(`{}`)); err != nil {
				return
			}
			flusher.Flush()
		case msg, open := <-ch:
			if !open {
				return
			}
			if err := writeFrame(w, string(msg.Kind), msg.Data); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

// writeFrame emits one SSE frame with a named event and a JSON data line.
func writeFrame(w io.Writer, event string, data []byte) error {
	_, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
	return err
}
