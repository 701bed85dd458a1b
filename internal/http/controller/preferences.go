package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"notifyd/internal/domain"
	"notifyd/internal/http/dto"
	"notifyd/internal/http/resp"
)

func (h *Handler) GetPreferences(c *gin.Context) {
	c.JSON(http.StatusOK, h.prefs.Resolve(c.Request.Context(), c.Param("id")))
}

func (h *Handler) UpdatePreferences(c *gin.Context) {
	recipientID := c.Param("id")
	var req dto.UpdatePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, resp.CodeBadRequest, "invalid json")
		return
	}

	pref, err := h.prefs.Update(c.Request.Context(), recipientID, req.Update())
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidQuietHours):
			badRequest(c, resp.CodeBadRequest, "quiet hours must use HH:MM")
		case errors.Is(err, domain.ErrInvalidRequest):
			badRequest(c, resp.CodeBadRequest, err.Error())
		default:
			h.log.Error("update preferences failed", zap.String("recipient_id", recipientID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Code: resp.CodeInternalError, Message: "failed to update preferences"})
		}
		return
	}
	c.JSON(http.StatusOK, pref)
}
