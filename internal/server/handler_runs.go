package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/me/goshop/internal/loader"
	"github.com/me/goshop/internal/rules"
	"github.com/me/goshop/pkg/jobshop"
	"github.com/me/goshop/pkg/model"
)

type solveRequest struct {
	// Rule names a built-in dispatching rule. Expression, when set,
	// overrides Rule with a JavaScript scoring expression.
	Rule       string `json:"rule"`
	Expression string `json:"expression,omitempty"`
}

func (s *Server) handleSolveInstance(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	id := chi.URLParam(r, "id")

	stored, err := s.store.GetInstance(r.Context(), id)
	if err != nil {
		respondError(w, reqID, http.StatusInternalServerError, model.NewInternalError(err))
		return
	}
	if stored == nil {
		respondError(w, reqID, http.StatusNotFound, model.NewNotFoundError("instance", id))
		return
	}

	var req solveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, reqID, http.StatusBadRequest, model.NewValidationError("invalid JSON body: %v", err))
		return
	}

	rule, err := s.resolveRule(req)
	if err != nil {
		respondError(w, reqID, http.StatusBadRequest, model.NewValidationError("%v", err))
		return
	}

	instance, err := loader.DecodeJSON([]byte(stored.Document))
	if err != nil {
		respondError(w, reqID, http.StatusInternalServerError, model.NewInternalError(err))
		return
	}

	sched, result, err := rules.NewSolver(rule, s.logger).Solve(instance)
	if err != nil {
		respondError(w, reqID, http.StatusInternalServerError, model.NewInternalError(err))
		return
	}

	scheduleJSON, err := json.Marshal(scheduleEntries(sched))
	if err != nil {
		respondError(w, reqID, http.StatusInternalServerError, model.NewInternalError(err))
		return
	}

	run := &model.Run{
		ID:         "run_" + uuid.New().String()[:8],
		InstanceID: stored.ID,
		Rule:       result.Rule,
		Makespan:   result.Makespan,
		Steps:      result.Steps,
		Schedule:   string(scheduleJSON),
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.store.CreateRun(r.Context(), run); err != nil {
		respondError(w, reqID, http.StatusInternalServerError, model.NewInternalError(err))
		return
	}

	s.logger.Info("run created", "id", run.ID, "instance", stored.ID,
		"rule", run.Rule, "makespan", run.Makespan)
	respondCreated(w, reqID, run)
}

func (s *Server) resolveRule(req solveRequest) (rules.Rule, error) {
	if req.Expression != "" {
		return rules.NewExprRule("expression", req.Expression)
	}
	if req.Rule == "" {
		return nil, errors.New("either rule or expression is required")
	}
	return rules.ByName(req.Rule)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	id := chi.URLParam(r, "id")

	run, err := s.store.GetRun(r.Context(), id)
	if err != nil {
		respondError(w, reqID, http.StatusInternalServerError, model.NewInternalError(err))
		return
	}
	if run == nil {
		respondError(w, reqID, http.StatusNotFound, model.NewNotFoundError("run", id))
		return
	}
	respondOK(w, reqID, run)
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	id := chi.URLParam(r, "id")

	runs, err := s.store.ListRunsByInstance(r.Context(), id)
	if err != nil {
		respondError(w, reqID, http.StatusInternalServerError, model.NewInternalError(err))
		return
	}
	respondOK(w, reqID, runs)
}

func scheduleEntries(sched *jobshop.Schedule) []model.ScheduleEntry {
	all := sched.All()
	out := make([]model.ScheduleEntry, 0, len(all))
	for _, so := range all {
		out = append(out, model.ScheduleEntry{
			OperationID: so.Operation.OperationID,
			JobID:       so.Operation.JobID,
			Position:    so.Operation.PositionInJob,
			MachineID:   so.MachineID,
			StartTime:   so.StartTime,
			EndTime:     so.EndTime(),
		})
	}
	return out
}
