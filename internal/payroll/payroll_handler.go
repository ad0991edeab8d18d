package payroll

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	payrollerrors "go-payroll/internal/payroll/errors"
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

func getActorID(c *gin.Context) string {
	actorID := c.GetString("employee_id")
	if actorID == "" {
		actorID = c.GetString("user_id")
	}
	return actorID
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// writeBatch answers 207 when some employees failed so callers can retry them.
func (h *Handler) writeBatch(c *gin.Context, status int, failed int, data any) {
	if failed > 0 {
		response.Partial(c, http.StatusMultiStatus, apperror.CodePartialFailure, data)
		return
	}
	response.Success(c, status, data, nil)
}

// bindOptionalJSON accepts an empty body.
func bindOptionalJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// reasonFrom prefers ?reason= and falls back to the JSON body.
func reasonFrom(c *gin.Context) (string, error) {
	if reason := strings.TrimSpace(c.Query("reason")); reason != "" {
		return reason, nil
	}
	var req LockPeriodRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		return "", err
	}
	return strings.TrimSpace(req.Reason), nil
}

func (h *Handler) CreatePeriod(c *gin.Context) {
	var req CreatePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.CreatePeriod(c.Request.Context(), c.GetString("school_id"), getActorID(c), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) ListPeriods(c *gin.Context) {
	year := 0
	if raw := c.Query("year"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			h.writeServiceError(c, payrollerrors.ErrInvalidYear)
			return
		}
		year = v
	}

	resp, err := h.service.ListPeriods(c.Request.Context(), c.GetString("school_id"), year)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetPeriod(c *gin.Context) {
	resp, err := h.service.GetPeriod(c.Request.Context(), c.GetString("school_id"), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetSummary(c *gin.Context) {
	resp, err := h.service.GetSummary(c.Request.Context(), c.GetString("school_id"), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Process(c *gin.Context) {
	resp, err := h.service.Process(c.Request.Context(), c.GetString("school_id"), c.Param("id"), getActorID(c))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	h.writeBatch(c, http.StatusOK, resp.Batch.Failed, resp)
}

func (h *Handler) Approve(c *gin.Context) {
	resp, err := h.service.Approve(c.Request.Context(), c.GetString("school_id"), c.Param("id"), getActorID(c))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Compute(c *gin.Context) {
	var req ComputeRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.ComputeItems(c.Request.Context(), c.GetString("school_id"), c.Param("id"), req.EmployeeIDs)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	h.writeBatch(c, http.StatusOK, resp.Failed, resp)
}

func (h *Handler) ComputeEmployee(c *gin.Context) {
	resp, err := h.service.ComputeItem(c.Request.Context(), c.GetString("school_id"), c.Param("id"), c.Param("employeeId"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Settle(c *gin.Context) {
	var req SettlementRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.ConfirmSettlement(c.Request.Context(), c.GetString("school_id"), c.Param("id"), getActorID(c), req.BankTransferReference)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Lock(c *gin.Context) {
	reason, err := reasonFrom(c)
	if err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Lock(c.Request.Context(), c.GetString("school_id"), c.Param("id"), getActorID(c), reason)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Unlock(c *gin.Context) {
	reason, err := reasonFrom(c)
	if err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}
	if reason == "" {
		h.writeServiceError(c, payrollerrors.ErrUnlockReasonRequired)
		return
	}

	resp, err := h.service.Unlock(c.Request.Context(), c.GetString("school_id"), c.Param("id"), getActorID(c), reason)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) ListItems(c *gin.Context) {
	resp, err := h.service.ListItems(c.Request.Context(), c.GetString("school_id"), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetItem(c *gin.Context) {
	resp, err := h.service.GetItem(c.Request.Context(), c.GetString("school_id"), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Hold(c *gin.Context) {
	var req HoldItemRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.SetItemHold(c.Request.Context(), c.GetString("school_id"), c.Param("id"), true, req.Reason)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Release(c *gin.Context) {
	resp, err := h.service.SetItemHold(c.Request.Context(), c.GetString("school_id"), c.Param("id"), false, "")
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) UpsertAdjustment(c *gin.Context) {
	var req AdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.UpsertAdjustment(c.Request.Context(), c.GetString("school_id"), c.Param("id"), getActorID(c), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) BankSlip(c *gin.Context) {
	file, err := h.service.GenerateBankSlip(c.Request.Context(), c.GetString("school_id"), c.Param("id"), c.Query("format"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+file.Filename+`"`)
	c.Data(http.StatusOK, file.ContentType, file.Content)
}

func (h *Handler) GeneratePayslip(c *gin.Context) {
	resp, err := h.service.GeneratePayslip(c.Request.Context(), c.GetString("school_id"), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) RequestPayslips(c *gin.Context) {
	resp, err := h.service.RequestPayslips(c.Request.Context(), c.GetString("school_id"), c.Param("id"), getActorID(c))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusAccepted, resp, nil)
}

func (h *Handler) DownloadPayslip(c *gin.Context) {
	content, filename, err := h.service.GetPayslipPDF(c.Request.Context(), c.GetString("school_id"), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", content)
}
