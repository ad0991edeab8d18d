package rbac

import (
	"go-payroll/internal/domain"
	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/shared/response"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Can answers whether the caller's role may perform action on resource.
func (h *Handler) Can(c *gin.Context) {
	req := domain.EnforceRequest{
		Role:     c.GetString("role"),
		SchoolID: c.GetString("school_id"),
		Resource: strings.TrimSpace(c.Query("resource")),
		Action:   strings.TrimSpace(c.Query("action")),
	}

	if req.Resource == "" || req.Action == "" {
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "resource and action are required", nil)
		return
	}

	allowed, err := h.service.Enforce(req)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, apperror.CodeInternalError, err.Error(), nil)
		return
	}

	response.Success(c, http.StatusOK, domain.EnforceResponse{Allowed: allowed}, nil)
}
