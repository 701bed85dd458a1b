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

func (h *Handler) RegisterDevice(c *gin.Context) {
	recipientID := c.Param("id")
	var req dto.RegisterDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, resp.CodeBadRequest, "deviceToken, deviceType (mobile|web) and platform (android|ios|web) are required")
		return
	}

	added, err := h.prefs.AddDevice(c.Request.Context(), recipientID, req.Device())
	if err != nil {
		if errors.Is(err, domain.ErrInvalidDevice) {
			badRequest(c, resp.CodeBadRequest, "invalid device")
			return
		}
		h.log.Error("register device failed", zap.String("recipient_id", recipientID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Code: resp.CodeInternalError, Message: "failed to register device"})
		return
	}
	if !added {
		c.JSON(http.StatusOK, dto.StatusResponse{Code: resp.CodeAlreadyRegistered, Message: "device token already known", Status: "already registered"})
		return
	}
	c.JSON(http.StatusCreated, dto.StatusResponse{Code: resp.CodeCreated, Message: "device registered", Status: "registered"})
}

func (h *Handler) UnregisterDevice(c *gin.Context) {
	recipientID := c.Param("id")
	token := c.Param("token")
	if err := h.prefs.RemoveDevice(c.Request.Context(), recipientID, token); err != nil {
		h.log.Error("unregister device failed", zap.String("recipient_id", recipientID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Code: resp.CodeInternalError, Message: "failed to unregister device"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ListDevices(c *gin.Context) {
	pref := h.prefs.Resolve(c.Request.Context(), c.Param("id"))
	c.JSON(http.StatusOK, dto.DevicesResponse{Devices: pref.Devices})
}
