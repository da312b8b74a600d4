package payroll

import (
	"net/http"

	"go-paie/internal/middleware"
	"go-paie/internal/shared/apperror"
	"go-paie/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	rdb     *redis.Client
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	return NewHandlerWithRedis(service, nil, logger...)
}

func NewHandlerWithRedis(service Service, rdb *redis.Client, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("payroll.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payroll.handler")
	}
	return &Handler{service: service, rdb: rdb, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("payroll request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// Calculate generates one payslip for an explicit employee and month.
func (h *Handler) Calculate(c *gin.Context) {
	var req CalculatePayrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Calculate(c.Request.Context(), req.EmployeeID, req.Month)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	if h.rdb != nil {
		middleware.StoreIdempotentResult(c, h.rdb, resp)
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

// GenerateMonthly runs the whole payroll batch for a month.
func (h *Handler) GenerateMonthly(c *gin.Context) {
	var req GenerateMonthlyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.GenerateMonthly(c.Request.Context(), req.Month)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	if h.rdb != nil {
		middleware.StoreIdempotentResult(c, h.rdb, resp)
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetAll(c *gin.Context) {
	filter := ListFilter{
		EmployeeID: c.Query("employee_id"),
		Month:      c.Query("month"),
		Status:     c.Query("status"),
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
		Month:      c.Query("month"),
	}

	resp, err := h.service.GetAll(c.Request.Context(), filter)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetById(c *gin.Context) {
	resp, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) MarkPaid(c *gin.Context) {
	resp, err := h.service.MarkPaid(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) MonthlyReport(c *gin.Context) {
	resp, err := h.service.MonthlyReport(c.Request.Context(), c.Param("month"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) CNSSReport(c *gin.Context) {
	resp, err := h.service.CNSSReport(c.Request.Context(), c.Param("month"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}
