package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/xtrack-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type ReportHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	GetMine(w http.ResponseWriter, r *http.Request)
	GetMineDaily(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

// Create handles POST /reports
func (h *reportHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req report.CreateReportRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CreateReport decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.reportService.Submit(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Report submitted", result)
}

// Update handles PUT /reports/{id}
func (h *reportHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req report.UpdateReportRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("UpdateReport decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.reportService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Report updated", result)
}

// GetMine handles GET /reports/mine
func (h *reportHandlerImpl) GetMine(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.GetMine(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetMineDaily handles GET /reports/mine/daily
func (h *reportHandlerImpl) GetMineDaily(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.GetMineDaily(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// List handles GET /reports
func (h *reportHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := report.ReportFilter{
		EmployeeID: optionalQuery(r, "employee_id"),
		Date:       optionalQuery(r, "date"),
		Status:     optionalQuery(r, "status"),
		Search:     optionalQuery(r, "search"),
	}

	if err := filter.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.reportService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Approve handles POST /reports/{id}/approve
func (h *reportHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.Approve(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Report approved", result)
}

// Reject handles POST /reports/{id}/reject
func (h *reportHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.Reject(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Report rejected", result)
}
