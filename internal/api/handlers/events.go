package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/randytsao24/bizi/internal/stations"
)

const keepaliveInterval = 30 * time.Second

type EventsHandler struct {
	ctrl *stations.Controller
}

func NewEventsHandler(ctrl *stations.Controller) *EventsHandler {
	return &EventsHandler{ctrl: ctrl}
}

// Stream pushes a state event every time the controller publishes
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	updates, cancel := h.ctrl.Subscribe()
	defer cancel()

	keepalive := time.NewTicker(keepaliveInterval)
	defer keepalive.Stop()

	var id int64
	for {
		select {
		case <-r.Context().Done():
			return

		case st, ok := <-updates:
			if !ok {
				return
			}
			id++
			if err := writeStateEvent(w, id, st); err != nil {
				slog.Debug("SSE write failed", "error", err)
				return
			}
			flusher.Flush()

		case <-keepalive.C:
			if _, err := fmt.Fprint(w, ": keepalive\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func writeStateEvent(w http.ResponseWriter, id int64, st stations.State) error {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encoding state: %w", err)
	}
	_, err = fmt.Fprintf(w, "id: %d\nevent: state\ndata: %s\n\n", id, data)
	return err
}
