package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/chahwansong/dms/pkg/metrics"
	"github.com/chahwansong/dms/pkg/orchestrator"
	"github.com/chahwansong/dms/pkg/types"
	"github.com/go-chi/chi/v5"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req types.SyncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid JSON body")
		return
	}

	progress, err := s.orchestrator.SubmitRequest(r.Context(), req)
	switch {
	case errors.Is(err, orchestrator.ErrDuplicateRequest):
		writeError(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	metrics.RequestsTotal.WithLabelValues("accepted").Inc()
	writeJSON(w, http.StatusAccepted, progress)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	progress, ok := s.orchestrator.QueryProgress(id)
	if !ok {
		writeError(w, http.StatusNotFound, "request not found")
		return
	}
	writeJSON(w, http.StatusOK, progress)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.orchestrator.ListRequests())
}

func (s *Server) handleForget(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.orchestrator.ForgetRequest(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleReassign(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var body struct {
		WorkerID string `json:"worker_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid JSON body")
		return
	}

	err := s.orchestrator.ReassignRequest(r.Context(), id, body.WorkerID)
	switch {
	case errors.Is(err, orchestrator.ErrRequestNotFound),
		errors.Is(err, orchestrator.ErrInvalidReassignState),
		errors.Is(err, orchestrator.ErrWorkerNotRegistered),
		errors.Is(err, orchestrator.ErrWorkerCannotReachSource):
		writeError(w, http.StatusBadRequest, err.Error())
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
	default:
		metrics.RequestsReassignedTotal.Inc()
		writeJSON(w, http.StatusOK, map[string]string{
			"status":     "requeued",
			"request_id": id,
			"worker_id":  body.WorkerID,
		})
	}
}

func (s *Server) handleHeartbeat(w http.ResponseWriter, r *http.Request) {
	var hb types.WorkerHeartbeat
	if err := json.NewDecoder(r.Body).Decode(&hb); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid JSON body")
		return
	}
	if err := s.orchestrator.WorkerHeartbeat(r.Context(), hb); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	metrics.WorkerHeartbeatsTotal.WithLabelValues(hb.WorkerID).Inc()
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleNextAssignment(w http.ResponseWriter, r *http.Request) {
	workerID := chi.URLParam(r, "id")

	var body struct {
		TimeoutMS int `json:"timeout_ms"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)

	timeout := orchestrator.DefaultAssignmentTimeout
	if body.TimeoutMS > 0 {
		timeout = durationFromMS(body.TimeoutMS)
	}

	assignment, err := s.orchestrator.NextAssignment(r.Context(), workerID, timeout)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if assignment == nil {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	metrics.AssignmentsDispatchedTotal.Inc()
	writeJSON(w, http.StatusOK, assignment)
}

func (s *Server) handleResult(w http.ResponseWriter, r *http.Request) {
	var res types.SyncResult
	if err := json.NewDecoder(r.Body).Decode(&res); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid JSON body")
		return
	}
	if err := s.orchestrator.ReportResult(r.Context(), res); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	metrics.ResultsReportedTotal.WithLabelValues(successLabel(res.Success)).Inc()
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleListForWorker(w http.ResponseWriter, r *http.Request) {
	workerID := chi.URLParam(r, "id")
	writeJSON(w, http.StatusOK, s.orchestrator.ListRequestsForWorker(workerID))
}

// handleHealthz checks the metadata store's live reachability, records the
// result against the metadata_store health component, and reports readiness
// accordingly: 200 when the store answers, 503 when it doesn't.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if err := s.store.HealthCheck(r.Context()); err != nil {
		metrics.UpdateComponent("metadata_store", false, err.Error())
	} else {
		metrics.UpdateComponent("metadata_store", true, "ready")
	}
	metrics.ReadyHandler()(w, r)
}

func successLabel(success bool) string {
	if success {
		return "true"
	}
	return "false"
}
