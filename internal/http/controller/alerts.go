package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"notifyd/internal/domain"
	"notifyd/internal/http/dto"
	"notifyd/internal/http/resp"
	"notifyd/internal/service/alert"
)

func (h *Handler) RaiseAlert(c *gin.Context) {
	var req alert.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, resp.CodeBadRequest, "title, body and severity (low|medium|high|critical) are required")
		return
	}

	created, err := h.alerts.Raise(c.Request.Context(), req)
	switch {
	case err == nil:
		c.JSON(http.StatusCreated, dto.AlertResponse{Created: len(created), Notifications: created})
	case errors.Is(err, domain.ErrInvalidRequest):
		badRequest(c, resp.CodeBadRequest, err.Error())
	case errors.Is(err, domain.ErrNoActiveAdmins):
		c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Code: resp.CodeUnprocessable, Message: "no active admins"})
	case len(created) > 0:
		h.log.Warn("admin alert partially delivered", zap.Int("created", len(created)), zap.Error(err))
		c.JSON(http.StatusCreated, dto.AlertResponse{Created: len(created), Notifications: created, Error: err.Error()})
	default:
		h.log.Error("admin alert failed", zap.String("severity", string(req.Severity)), zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Code: resp.CodeInternalError, Message: "failed to raise alert"})
	}
}
