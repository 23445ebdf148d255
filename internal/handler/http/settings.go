package http

import (
	"encoding/json"
	"net/http"

	"github.com/hrsuite/hr-backend-go/internal/domain/attendance"
	"github.com/hrsuite/hr-backend-go/internal/handler/http/response"
)

type SettingsHandler interface {
	GetValidationCondition(w http.ResponseWriter, r *http.Request)
	CreateValidationCondition(w http.ResponseWriter, r *http.Request)
}

type settingsHandlerImpl struct {
	conditionService attendance.ConditionService
}

func NewSettingsHandler(conditionService attendance.ConditionService) SettingsHandler {
	return &settingsHandlerImpl{
		conditionService: conditionService,
	}
}

// GetValidationCondition implements SettingsHandler.
func (h *settingsHandlerImpl) GetValidationCondition(w http.ResponseWriter, r *http.Request) {
	result, err := h.conditionService.GetCondition(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if result == nil {
		response.NotFound(w, "No validation condition configured")
		return
	}

	response.Success(w, result)
}

// CreateValidationCondition implements SettingsHandler.
func (h *settingsHandlerImpl) CreateValidationCondition(w http.ResponseWriter, r *http.Request) {
	var req attendance.CreateConditionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.conditionService.CreateCondition(r.Context(), &req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Validation condition created", result)
}
