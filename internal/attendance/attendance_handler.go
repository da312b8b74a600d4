package attendance

import (
	"net/http"
	"strconv"

	"go-paie/internal/shared/apperror"
	"go-paie/internal/shared/period"
	"go-paie/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	deriver *Deriver
	logger  *zap.Logger
}

func NewHandler(service Service, deriver *Deriver, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("attendance.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.handler")
	}
	return &Handler{service: service, deriver: deriver, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("attendance request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// targetEmployeeID lets admins and HR check in on behalf of an employee
// (kiosk flow); everyone else is pinned to their own employee id.
func targetEmployeeID(c *gin.Context, requested string) string {
	role := c.GetString("role")
	if requested != "" && (role == "admin" || role == "hr") {
		return requested
	}
	return c.GetString("employee_id")
}

func (h *Handler) CheckIn(c *gin.Context) {
	var req CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.CheckIn(c.Request.Context(), targetEmployeeID(c, req.EmployeeID), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) CheckOut(c *gin.Context) {
	var req CheckOutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// Body is optional on check-out; fall through with an empty request.
		req = CheckOutRequest{}
	}

	resp, err := h.service.CheckOut(c.Request.Context(), targetEmployeeID(c, req.EmployeeID))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetAll(c *gin.Context) {
	filter := ListFilter{
		EmployeeID: c.Query("employee_id"),
		Status:     c.Query("status"),
		Date:       c.Query("date"),
		StartDate:  c.Query("start_date"),
		EndDate:    c.Query("end_date"),
	}

	resp, err := h.service.GetAll(c.Request.Context(), filter)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetMine(c *gin.Context) {
	filter := ListFilter{
		EmployeeID: c.GetString("employee_id"),
		StartDate:  c.Query("start_date"),
		EndDate:    c.Query("end_date"),
	}

	resp, err := h.service.GetAll(c.Request.Context(), filter)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

// MarkAbsences runs the deriver for an explicit date (defaults to today).
func (h *Handler) MarkAbsences(c *gin.Context) {
	dateStr := c.DefaultQuery("date", "")
	if dateStr == "" {
		results, derr := h.deriver.EnsureAbsencesUpToDate(c.Request.Context(), 1)
		if derr != nil {
			h.writeServiceError(c, derr)
			return
		}
		response.Success(c, http.StatusOK, results, nil)
		return
	}

	date, err := period.ParseDate(dateStr)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	created, err := h.deriver.MarkAbsencesForDate(c.Request.Context(), date)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, MarkAbsencesResult{Date: dateStr, Created: created}, nil)
}

// BackfillAbsences re-runs the deriver for each of the last N days.
func (h *Handler) BackfillAbsences(c *gin.Context) {
	daysBack, _ := strconv.Atoi(c.DefaultQuery("days_back", "1"))

	results, err := h.deriver.EnsureAbsencesUpToDate(c.Request.Context(), daysBack)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, results, nil)
}
