package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/resume-optimizer/internal/agent"
	"github.com/jonathan/resume-optimizer/internal/db"
)

// OptimizeRequest is the payload for POST /optimize.
type OptimizeRequest struct {
	Resume         string  `json:"resume" validate:"required,min=50"`
	JobDescription string  `json:"job_description" validate:"required,min=50"`
	MaxIterations  int     `json:"max_iterations" validate:"omitempty,min=1,max=10"`
	MinScore       float64 `json:"min_score" validate:"omitempty,gte=0,lte=100"`
}

// OptimizeResponse acknowledges an accepted job.
type OptimizeResponse struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleOptimize validates the request, records a queued job, and runs the
// optimization loop in the background. Responds 202 with the job ID.
func (s *Server) handleOptimize(w http.ResponseWriter, r *http.Request) {
	var req OptimizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	jobID, err := s.store.CreateJob(r.Context(), req.Resume, req.JobDescription)
	if err != nil {
		errorResponse(w, http.StatusInternalServerError, "failed to create job")
		return
	}

	go s.runJob(jobID, req)

	jsonResponse(w, http.StatusAccepted, OptimizeResponse{
		JobID:  jobID.String(),
		Status: db.StatusQueued,
	})
}

// runJob executes one optimization in the background. It owns the job's
// lifecycle transitions from RUNNING to COMPLETED or FAILED.
func (s *Server) runJob(jobID uuid.UUID, req OptimizeRequest) {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.JobTimeout)
	defer cancel()

	if err := s.store.StartJob(ctx, jobID); err != nil {
		log.Printf("job %s: failed to mark running: %v", jobID, err)
	}

	maxIterations := req.MaxIterations
	if maxIterations == 0 {
		maxIterations = s.cfg.MaxIterations
	}
	minScore := req.MinScore
	if minScore == 0 {
		minScore = s.cfg.MinScore
	}

	result, err := s.optimizer.Run(ctx, agent.RunOptions{
		JobID:          jobID.String(),
		Resume:         req.Resume,
		JobDescription: req.JobDescription,
		MaxIterations:  maxIterations,
		MinScore:       minScore,
	})
	if err != nil {
		log.Printf("job %s: optimization failed: %v", jobID, err)
		if ferr := s.store.FailJob(ctx, jobID, err); ferr != nil {
			log.Printf("job %s: failed to record failure: %v", jobID, ferr)
		}
		return
	}

	if err := s.store.CompleteJob(ctx, jobID, result); err != nil {
		log.Printf("job %s: failed to record completion: %v", jobID, err)
	}
}

// handleStatus returns the job record for GET /status/{id}.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	jobID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		errorResponse(w, http.StatusBadRequest, "invalid job ID")
		return
	}

	job, err := s.store.GetJob(r.Context(), jobID)
	if err != nil {
		errorResponse(w, http.StatusInternalServerError, "failed to load job")
		return
	}
	if job == nil {
		errorResponse(w, http.StatusNotFound, "job not found")
		return
	}

	jsonResponse(w, http.StatusOK, job)
}

// handleResult returns the final optimization result for GET /result/{id}.
// A job that exists but has not completed yields 409.
func (s *Server) handleResult(w http.ResponseWriter, r *http.Request) {
	jobID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		errorResponse(w, http.StatusBadRequest, "invalid job ID")
		return
	}

	job, err := s.store.GetJob(r.Context(), jobID)
	if err != nil {
		errorResponse(w, http.StatusInternalServerError, "failed to load job")
		return
	}
	if job == nil {
		errorResponse(w, http.StatusNotFound, "job not found")
		return
	}
	if job.Status != db.StatusCompleted {
		errorResponse(w, http.StatusConflict, "job has not completed")
		return
	}

	result, err := s.store.GetResult(r.Context(), jobID)
	if err != nil {
		errorResponse(w, http.StatusInternalServerError, "failed to load result")
		return
	}
	if result == nil {
		errorResponse(w, http.StatusNotFound, "result not found")
		return
	}

	jsonResponse(w, http.StatusOK, result)
}

// jsonResponse writes v as a JSON body with the given status.
func jsonResponse(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

// errorResponse writes a JSON error body with the given status.
func errorResponse(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}
