package http

import (
	"encoding/json"
	"net/http"

	"github.com/hrsuite/hr-backend-go/internal/domain/device"
	"github.com/hrsuite/hr-backend-go/internal/handler/http/response"
)

type DeviceHandler interface {
	IngestAttendanceRecords(w http.ResponseWriter, r *http.Request)
}

type deviceHandlerImpl struct {
	deviceService device.Service
}

func NewDeviceHandler(deviceService device.Service) DeviceHandler {
	return &deviceHandlerImpl{
		deviceService: deviceService,
	}
}

// IngestAttendanceRecords implements DeviceHandler. Readers retry on
// non-200, so bad records are reported in the summary, never as an error
// status.
func (h *deviceHandlerImpl) IngestAttendanceRecords(w http.ResponseWriter, r *http.Request) {
	var req device.EventBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	summary, err := h.deviceService.ProcessEvents(r.Context(), &req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance records processed", map[string]interface{}{
		"summary": summary,
	})
}
