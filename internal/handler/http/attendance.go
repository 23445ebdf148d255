package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/hrsuite/hr-backend-go/internal/domain/attendance"
	"github.com/hrsuite/hr-backend-go/internal/handler/http/response"
)

type AttendanceHandler interface {
	Upsert(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Validate(w http.ResponseWriter, r *http.Request)
	SetOvertimeApproval(w http.ResponseWriter, r *http.Request)
	ListActivities(w http.ResponseWriter, r *http.Request)
	ListOvertime(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// Upsert implements AttendanceHandler.
func (h *attendanceHandlerImpl) Upsert(w http.ResponseWriter, r *http.Request) {
	var req attendance.UpsertAttendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.attendanceService.UpsertAttendance(r.Context(), &req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance saved", result)
}

// List implements AttendanceHandler.
func (h *attendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := attendanceFilterFromQuery(r)

	result, err := h.attendanceService.ListAttendances(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Attendances, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalCount,
		TotalPages: result.TotalPages,
	})
}

// Get implements AttendanceHandler.
func (h *attendanceHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.attendanceService.GetAttendance(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Validate implements AttendanceHandler.
func (h *attendanceHandlerImpl) Validate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.attendanceService.ValidateAttendance(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance validated", result)
}

// SetOvertimeApproval implements AttendanceHandler.
func (h *attendanceHandlerImpl) SetOvertimeApproval(w http.ResponseWriter, r *http.Request) {
	var req attendance.SetOvertimeApprovalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.attendanceService.SetOvertimeApproval(r.Context(), &req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Overtime approval updated", result)
}

// ListActivities implements AttendanceHandler.
func (h *attendanceHandlerImpl) ListActivities(w http.ResponseWriter, r *http.Request) {
	filter := attendance.ActivityFilter{}
	q := r.URL.Query()

	if v := q.Get("employee_id"); v != "" {
		filter.EmployeeID = &v
	}
	if v := q.Get("date"); v != "" {
		filter.Date = &v
	}
	filter.Page = queryInt(q.Get("page"))
	filter.Limit = queryInt(q.Get("limit"))

	result, err := h.attendanceService.ListActivities(r.Context(), &filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListOvertime implements AttendanceHandler.
func (h *attendanceHandlerImpl) ListOvertime(w http.ResponseWriter, r *http.Request) {
	filter := attendance.LedgerFilter{}
	q := r.URL.Query()

	if v := q.Get("employee_id"); v != "" {
		filter.EmployeeID = &v
	}
	if v := q.Get("year"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			response.BadRequest(w, "year must be a number", nil)
			return
		}
		filter.Year = &year
	}
	filter.Page = queryInt(q.Get("page"))
	filter.Limit = queryInt(q.Get("limit"))

	result, err := h.attendanceService.ListOvertime(r.Context(), &filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Ledgers, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalCount,
		TotalPages: result.TotalPages,
	})
}

func attendanceFilterFromQuery(r *http.Request) *attendance.AttendanceFilter {
	filter := attendance.AttendanceFilter{}
	q := r.URL.Query()

	if v := q.Get("employee_id"); v != "" {
		filter.EmployeeID = &v
	}
	if v := q.Get("start_date"); v != "" {
		filter.StartDate = &v
	}
	if v := q.Get("end_date"); v != "" {
		filter.EndDate = &v
	}
	if v := q.Get("validated"); v != "" {
		validated := v == "true"
		filter.Validated = &validated
	}
	filter.Page = queryInt(q.Get("page"))
	filter.Limit = queryInt(q.Get("limit"))
	filter.SortBy = q.Get("sort_by")
	filter.SortOrder = q.Get("sort_order")

	return &filter
}

func queryInt(v string) int {
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}
