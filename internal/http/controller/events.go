package controller

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"notifyd/internal/events"
	"notifyd/internal/http/dto"
	"notifyd/internal/http/resp"
)

const maxEventBytes = 64 << 10

// PublishEvent puts a domain event on the bus under its topic. The consumer
// routes it like any other producer's event.
func (h *Handler) PublishEvent(c *gin.Context) {
	topic := events.Topic(c.Param("topic"))
	if !events.IsRouted(topic) && topic != events.TopicAdminAlert {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Code: resp.CodeNotFound, Message: "unknown topic"})
		return
	}

	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxEventBytes))
	if err != nil || !json.Valid(payload) {
		badRequest(c, resp.CodeBadRequest, "invalid json")
		return
	}

	if err := h.pub.Publish(c.Request.Context(), payload, string(topic)); err != nil {
		h.log.Error("publish event failed", zap.String("topic", string(topic)), zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Code: resp.CodeInternalError, Message: "failed to publish event"})
		return
	}
	c.JSON(http.StatusAccepted, dto.StatusResponse{Code: resp.CodeQueued, Message: "queued"})
}
