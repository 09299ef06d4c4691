package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/me/cpusim/internal/logging"
	"github.com/me/cpusim/internal/runner"
	"github.com/me/cpusim/internal/workload"
	"github.com/me/cpusim/pkg/model"
)

// decodeBody reads a JSON body into v, rejecting unknown fields.
func decodeBody(w http.ResponseWriter, r *http.Request, reqID string, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		respondError(w, reqID, http.StatusBadRequest, &model.APIError{
			Code:    model.ErrValidation,
			Message: "Invalid JSON body: " + err.Error(),
		})
		return false
	}
	return true
}

type dryRunResponse struct {
	Valid     bool             `json:"valid"`
	Policy    model.PolicyName `json:"policy"`
	Processes int              `json:"processes"`
}

func (s *Server) handleCreateSimulation(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	var sc model.Scenario
	if !decodeBody(w, r, reqID, &sc) {
		return
	}
	workload.ApplyDefaults(&sc, s.defaults)
	annotate(r.Context(), "policy", sc.Policy, "processes", len(sc.Processes))

	if r.URL.Query().Get("dry_run") == "true" {
		if err := runner.Validate(sc); err != nil {
			respondFailure(w, reqID, err)
			return
		}
		policy, _ := sc.SchedulingPolicy()
		respondOK(w, reqID, dryRunResponse{Valid: true, Policy: policy.Name(), Processes: len(sc.Processes)})
		return
	}

	run, err := s.runner.Execute(r.Context(), sc)
	if err != nil {
		s.logger.Warn("simulation failed", "error", err, "request_id", reqID)
		respondFailure(w, reqID, err)
		return
	}
	if err := s.store.CreateRun(r.Context(), run); err != nil {
		respondFailure(w, reqID, err)
		return
	}

	annotate(r.Context(), "run_id", run.ID)
	logging.ForRun(s.logger, run.ID, string(run.Report.Policy)).Info("simulation created", "ticks", run.Report.Ticks)
	respondCreated(w, reqID, run.Summary())
}

func (s *Server) handleListSimulations(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	q := r.URL.Query()
	opts := model.DefaultListOptions()
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			respondError(w, reqID, http.StatusBadRequest, model.NewValidationError("invalid query",
				model.FieldError{Field: "limit", Message: "must be an integer"}))
			return
		}
		opts.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			respondError(w, reqID, http.StatusBadRequest, model.NewValidationError("invalid query",
				model.FieldError{Field: "offset", Message: "must be an integer"}))
			return
		}
		opts.Offset = n
	}
	opts.Policy = q.Get("policy")
	opts.Clamp()

	runs, total, err := s.store.ListRuns(r.Context(), opts)
	if err != nil {
		respondFailure(w, reqID, err)
		return
	}

	summaries := make([]model.RunSummary, len(runs))
	for i, run := range runs {
		summaries[i] = run.Summary()
	}
	respondList(w, reqID, summaries, opts.Page(total))
}

func (s *Server) handleGetSimulation(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	id := chi.URLParam(r, "id")
	annotate(r.Context(), "run_id", id)

	run, err := s.store.GetRun(r.Context(), id)
	if err != nil {
		respondFailure(w, reqID, err)
		return
	}
	if run == nil {
		respondError(w, reqID, http.StatusNotFound, model.NewNotFoundError("simulation", id))
		return
	}
	respondOK(w, reqID, run)
}

func (s *Server) handleDeleteSimulation(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	id := chi.URLParam(r, "id")
	annotate(r.Context(), "run_id", id)

	if err := s.store.DeleteRun(r.Context(), id); err != nil {
		respondFailure(w, reqID, err)
		return
	}
	logging.ForRun(s.logger, id, "").Info("simulation deleted")
	respondOK(w, reqID, map[string]string{"id": id, "status": "deleted"})
}

type compareRequest struct {
	model.Scenario
	Policies []string `json:"policies,omitempty"`
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	var req compareRequest
	if !decodeBody(w, r, reqID, &req) {
		return
	}
	workload.ApplyDefaults(&req.Scenario, s.defaults)
	annotate(r.Context(), "policies", len(req.Policies), "processes", len(req.Scenario.Processes))

	var policies []model.PolicyName
	var details []model.FieldError
	for i, p := range req.Policies {
		name, err := model.NormalizePolicyName(p)
		if err != nil {
			details = append(details, model.FieldError{Field: "policies[" + strconv.Itoa(i) + "]", Message: err.Error()})
			continue
		}
		policies = append(policies, name)
	}
	if len(details) > 0 {
		respondError(w, reqID, http.StatusBadRequest, model.NewValidationError("invalid policies", details...))
		return
	}

	results, err := s.runner.Compare(r.Context(), req.Scenario, policies)
	if err != nil {
		respondFailure(w, reqID, err)
		return
	}
	respondOK(w, reqID, results)
}
