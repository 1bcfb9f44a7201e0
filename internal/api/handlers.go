package api

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"visa-predictor/internal/common/errors"
	"visa-predictor/internal/visa"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error   string   `json:"error"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "Visa decision service is running"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.readiness != nil {
		if err := s.readiness.Ready(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not_ready",
				"error":  err.Error(),
			})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ready",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqID := middleware.GetReqID(ctx)

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil || !json.Valid(body) {
		if err == nil {
			err = errInvalidJSON
		}
		s.writeError(w, reqID, errors.NewInputParsingFailedError(err))
		return
	}

	details, err := s.validator.Validate(body)
	if err != nil {
		s.writeError(w, reqID, errors.NewInputParsingFailedError(err))
		return
	}
	if len(details) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error:   string(errors.ErrCodeValidationFailed),
			Message: "Input validation failed",
			Details: details,
		})
		return
	}

	var profile visa.Profile
	if err := json.Unmarshal(body, &profile); err != nil {
		s.writeError(w, reqID, errors.NewInputParsingFailedError(err))
		return
	}

	result, err := s.engine.Decide(ctx, profile)
	if err != nil {
		s.writeError(w, reqID, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) writeError(w http.ResponseWriter, reqID string, err error) {
	stdErr := errors.AsStandardError(err)
	status := errors.HTTPStatus(stdErr.Code)

	fields := map[string]interface{}{
		"requestId": reqID,
		"errorCode": string(stdErr.Code),
		"details":   stdErr.Details,
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("Prediction failed", fields)
	} else {
		s.logger.Warn("Prediction rejected", fields)
	}

	writeJSON(w, status, errorResponse{
		Error:   string(stdErr.Code),
		Message: stdErr.Message,
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
