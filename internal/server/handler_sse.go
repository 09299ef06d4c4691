package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/me/cpusim/internal/logging"
	"github.com/me/cpusim/internal/replay"
	"github.com/me/cpusim/internal/runner"
	"github.com/me/cpusim/pkg/model"
)

// handleSSESimulation replays a stored run via Server-Sent Events: one "tick"
// event per frame, then "done" with the report.
// GET /api/v1/sse/simulations/{id}?interval=500ms
func (s *Server) handleSSESimulation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	reqID := RequestIDFromContext(r.Context())
	annotate(r.Context(), "run_id", id)

	interval := s.config.ReplayInterval
	if v := r.URL.Query().Get("interval"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			respondError(w, reqID, http.StatusBadRequest, model.NewValidationError("invalid query",
				model.FieldError{Field: "interval", Message: err.Error()}))
			return
		}
		interval = d
	}

	run, err := s.store.GetRun(r.Context(), id)
	if err != nil {
		respondFailure(w, reqID, err)
		return
	}
	if run == nil {
		respondError(w, reqID, http.StatusNotFound, model.NewNotFoundError("simulation", id))
		return
	}
	frames, _, err := runner.Frames(run.Scenario, run.Trace)
	if err != nil {
		respondFailure(w, reqID, err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "SSE not supported", http.StatusInternalServerError)
		return
	}

	// Set headers for SSE.
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	logger := logging.ForRun(s.logger, run.ID, string(run.Report.Policy))
	player := replay.Player{Interval: interval, Logger: logger}
	err = player.Play(r.Context(), frames, func(f replay.Frame) error {
		return sendSSEEvent(w, flusher, "tick", f)
	})
	if err != nil {
		logger.Debug("sse replay stopped", "error", err)
		return
	}
	if err := sendSSEEvent(w, flusher, "done", run.Report); err != nil {
		logger.Debug("sse client disconnected", "error", err)
	}
}

func sendSSEEvent(w http.ResponseWriter, flusher http.Flusher, event string, data any) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, jsonData)
	if err != nil {
		return err
	}

	flusher.Flush()
	return nil
}
