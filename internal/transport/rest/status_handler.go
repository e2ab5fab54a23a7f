package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"knightd/internal/domain"
)

type StatusHandler struct {
	svc domain.StatusService
}

func NewStatusHandler(svc domain.StatusService) *StatusHandler {
	return &StatusHandler{svc: svc}
}

type deliverRequest struct {
	Channel string `json:"channel" validate:"required"`
}

// Show produces a fresh report and returns it as JSON together with the
// rendered text. The request suspends for the CPU sampling window.
func (h *StatusHandler) Show(w http.ResponseWriter, r *http.Request) {
	report := h.svc.Report(r.Context())

	JSONSuccess(w, http.StatusOK, APIResponse{
		Data: map[string]any{
			"report":   report,
			"rendered": report.Render(),
		},
	})
}

// Deliver produces a report and pushes the rendered text to the requested
// channel's subscribers.
func (h *StatusHandler) Deliver(w http.ResponseWriter, r *http.Request) {
	var req deliverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if validationErrors := ValidateStruct(req); len(validationErrors) > 0 {
		JSONValidationError(w, validationErrors)
		return
	}

	if err := h.svc.Deliver(r.Context(), req.Channel); err != nil {
		if errors.Is(err, domain.ErrNoSubscribers) {
			JSONError(w, http.StatusNotFound, "No subscribers on channel")
			return
		}

		JSONError(w, http.StatusBadGateway, "Report delivery failed")
		return
	}

	JSONSuccess(w, http.StatusOK, APIResponse{
		Message: "Status report delivered.",
	})
}
