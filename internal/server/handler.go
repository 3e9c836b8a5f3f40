package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	mdwerror "github.com/msto63/pratt/foundation/core/error"
	mdwlog "github.com/msto63/pratt/foundation/core/log"
	"github.com/msto63/pratt/pkg/core/health"
)

// maxBodyBytes bounds request bodies independently of MaxInputLength
const maxBodyBytes = 1 << 20

// ErrorResponse is the body of a rejected HTTP request
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}

type handler struct {
	service *Service
	health  *health.Registry
	version string
	logger  *mdwlog.Logger
}

func (h *handler) handleRoot(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"service": "pratt",
		"version": h.version,
		"grammar": h.service.Grammar().Name,
		"endpoints": []string{
			"POST /v1/evaluate",
			"GET /v1/ws",
			"GET /health",
			"GET /metrics",
		},
	})
}

// handleEvaluate answers 200 on success, 422 when the expression fails
// to parse or evaluate and 400 for malformed requests
func (h *handler) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req Request
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, string(mdwerror.CodeInvalidInput), "Invalid JSON body", err.Error())
		return
	}

	resp, err := h.service.Evaluate(r.Context(), req)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, string(mdwerror.GetCode(err)), errorMessage(err), "")
		return
	}

	status := http.StatusOK
	if resp.Error != nil {
		status = http.StatusUnprocessableEntity
	}
	h.writeJSON(w, status, resp)
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	report := h.health.Check(ctx)
	h.writeJSON(w, report.HTTPStatus(), report)
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.WarnWithErr("Failed to write response", err)
	}
}

func (h *handler) writeError(w http.ResponseWriter, status int, code, message, details string) {
	h.writeJSON(w, status, ErrorResponse{
		Error:   message,
		Code:    code,
		Details: details,
	})
}

// errorMessage drops the cause chain of coded errors
func errorMessage(err error) string {
	var coded *mdwerror.Error
	if errors.As(err, &coded) {
		return coded.Message()
	}
	return err.Error()
}
