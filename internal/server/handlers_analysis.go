package server

import (
	"net/http"
	"time"
)

type startAnalysisRequest struct {
	URL string `json:"url" validate:"required"`
}

type startAnalysisResponse struct {
	JobID  string `json:"jobId"`
	Status string `json:"status"`
	// TimeoutSeconds is how long a client should wait before treating a
	// still-running job as failed.
	TimeoutSeconds int `json:"timeoutSeconds"`
}

func (s *Server) handleStartAnalysis(w http.ResponseWriter, r *http.Request) {
	var req startAnalysisRequest
	if err := s.decode(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}
	id, err := s.deps.Tracker.Start(r.Context(), req.URL)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusAccepted, startAnalysisResponse{
		JobID:          id,
		Status:         "PROCESSING",
		TimeoutSeconds: int(s.analysisTimeout / time.Second),
	})
}

func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	job, err := s.deps.Tracker.Poll(r.Context(), r.PathValue("id"))
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, job)
}

// handleAnalysisEvents streams progress until the job reaches a terminal
// state, the client disconnects or the analysis timeout passes.
func (s *Server) handleAnalysisEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")
	job, err := s.deps.Tracker.Poll(ctx, id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	deadline := time.Now().Add(s.analysisTimeout)
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	lastPct := -1
	for {
		if job.Progress.Percentage != lastPct {
			if err := sse.WriteEvent("progress", job.Progress); err != nil {
				return
			}
			lastPct = job.Progress.Percentage
		}
		if job.Status.Terminal() {
			sse.WriteComplete(job)
			return
		}
		if time.Now().After(deadline) {
			sse.WriteError("analysis did not finish in time")
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		if job, err = s.deps.Tracker.Poll(ctx, id); err != nil {
			sse.WriteError(err.Error())
			return
		}
	}
}
