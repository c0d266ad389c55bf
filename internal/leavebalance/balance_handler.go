package leavebalance

import (
	"net/http"
	"strconv"

	balanceerrors "go-payroll/internal/leavebalance/errors"
	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) GetOrCreate(c *gin.Context) {
	year, month, ok := parsePeriod(c)
	if !ok {
		h.writeServiceError(c, balanceerrors.ErrInvalidPeriod)
		return
	}

	resp, err := h.service.GetOrCreate(
		c.Request.Context(),
		c.Query("employee_id"),
		c.Query("leave_type_id"),
		year, month,
	)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetAllForMonth(c *gin.Context) {
	year, month, ok := parsePeriod(c)
	if !ok {
		h.writeServiceError(c, balanceerrors.ErrInvalidPeriod)
		return
	}

	resp, err := h.service.GetAllForMonth(c.Request.Context(), year, month)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Adjust(c *gin.Context) {
	var req AdjustBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		mapped := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, mapped.Status, mapped.Code, mapped.Message, err.Error())
		return
	}

	resp, err := h.service.Adjust(c.Request.Context(), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) ResetMonth(c *gin.Context) {
	year, month, ok := parsePeriod(c)
	if !ok {
		h.writeServiceError(c, balanceerrors.ErrInvalidPeriod)
		return
	}

	rows, err := h.service.ResetMonth(c.Request.Context(), year, month)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"seeded": rows}, nil)
}

func parsePeriod(c *gin.Context) (int, int, bool) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		return 0, 0, false
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil {
		return 0, 0, false
	}
	return year, month, true
}
