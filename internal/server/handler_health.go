package server

import (
	"net/http"
	"runtime"
	"time"

	"github.com/me/cpusim/pkg/model"
)

// Version is reported by the health endpoint.
const Version = "0.1.0"

type healthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime"`
	Runs      int    `json:"runs"`
	Telemetry string `json:"telemetry"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	_, runs, err := s.store.ListRuns(r.Context(), model.ListOptions{Limit: 1})
	if err != nil {
		respondFailure(w, reqID, err)
		return
	}
	telemetry := "disabled"
	if s.config.Telemetry.Enabled() {
		telemetry = "otlp"
	}
	respondOK(w, reqID, healthResponse{
		Status:    "healthy",
		Version:   Version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(s.startTime).Round(time.Second).String(),
		Runs:      runs,
		Telemetry: telemetry,
	})
}
