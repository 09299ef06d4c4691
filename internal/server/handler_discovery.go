package server

import (
	"net/http"

	"github.com/me/cpusim/pkg/model"
)

type endpointInfo struct {
	Path        string   `json:"path"`
	Methods     []string `json:"methods"`
	Description string   `json:"description"`
}

// scenarioDefaults are the values applied to settings a posted scenario omits.
type scenarioDefaults struct {
	Policy         string `json:"policy"`
	Quantum        int    `json:"quantum"`
	Overhead       int    `json:"overhead"`
	MemoryCapacity int    `json:"memory_capacity"`
	MemoryPolicy   string `json:"memory_policy"`
}

type discoveryResponse struct {
	Name             string               `json:"name"`
	Version          string               `json:"version"`
	Description      string               `json:"description"`
	Policies         []model.PolicyName   `json:"policies"`
	MemoryPolicies   []model.MemoryPolicy `json:"memory_policies"`
	ScenarioDefaults scenarioDefaults     `json:"scenario_defaults"`
	Endpoints        []endpointInfo       `json:"endpoints"`
}

func (s *Server) handleDiscovery(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	respondOK(w, reqID, discoveryResponse{
		Name:           "cpusim API",
		Version:        "v1",
		Description:    "Single-CPU scheduling and page residency simulator",
		Policies:       model.AllPolicies,
		MemoryPolicies: []model.MemoryPolicy{model.MemoryFIFO, model.MemoryLRU},
		ScenarioDefaults: scenarioDefaults{
			Policy:         s.defaults.Policy,
			Quantum:        s.defaults.Quantum,
			Overhead:       s.defaults.Overhead,
			MemoryCapacity: s.defaults.MemoryCapacity,
			MemoryPolicy:   s.defaults.MemoryPolicy,
		},
		Endpoints: []endpointInfo{
			{"/api/v1/simulations", []string{"GET", "POST"}, "Run a scenario or list stored runs (?policy= filters). POST accepts ?dry_run=true for validation only"},
			{"/api/v1/simulations/{id}", []string{"GET", "DELETE"}, "Full run with trace, report and final frame table"},
			{"/api/v1/simulations/compare", []string{"POST"}, "Run one scenario under several policies"},
			{"/api/v1/sse/simulations/{id}", []string{"GET"}, "Replay a stored run tick by tick. ?interval=500ms sets the cadence"},
			{"/api/v1/health", []string{"GET"}, "Server health and version"},
		},
	})
}
