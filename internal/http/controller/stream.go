package controller

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"notifyd/internal/channel"
	"notifyd/internal/http/dto"
	"notifyd/internal/http/resp"
	"notifyd/internal/model"
	"notifyd/internal/sse"
)

const (
	clientBuffer = 16
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
)

// SSE streams the recipient's room. Recent notifications are replayed first,
// oldest first.
func (h *Handler) SSE(c *gin.Context) {
	recipientID := c.Param("recipient")
	if recipientID == "" {
		badRequest(c, resp.CodeBadRequest, "recipient required")
		return
	}

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		h.log.Error("streaming unsupported", zap.String("recipient_id", recipientID))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Code: resp.CodeInternalError, Message: "streaming unsupported"})
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	for _, n := range h.backfill(c, recipientID) {
		if err := writeEvent(c.Writer, sse.Event{ID: n.ID, Room: recipientID, Name: channel.EventNewNotification, Payload: n}); err != nil {
			h.log.Error("write history notification failed", zap.String("recipient_id", recipientID), zap.Error(err))
			return
		}
	}
	flusher.Flush()

	client := h.subscribe(recipientID)
	defer h.unsubscribe(client)

	heartbeat := time.NewTicker(h.heartbeat())
	defer heartbeat.Stop()

	for {
		select {
		case <-c.Request.Context().Done():
			return
		case <-heartbeat.C:
			if _, err := fmt.Fprint(c.Writer, ": ping\n\n"); err != nil {
				h.log.Debug("heartbeat write failed", zap.String("recipient_id", recipientID), zap.Error(err))
				return
			}
			flusher.Flush()
		case event, ok := <-client.Ch:
			if !ok {
				return
			}
			if err := writeEvent(c.Writer, event); err != nil {
				h.log.Error("write notification failed", zap.String("recipient_id", recipientID), zap.Error(err))
				return
			}
			flusher.Flush()
		}
	}
}

// WebSocket streams the same events as SSE as JSON frames.
func (h *Handler) WebSocket(c *gin.Context) {
	recipientID := c.Param("recipient")
	if recipientID == "" {
		badRequest(c, resp.CodeBadRequest, "recipient required")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.String("recipient_id", recipientID), zap.Error(err))
		return
	}
	defer func() { _ = conn.Close() }()

	for _, n := range h.backfill(c, recipientID) {
		event := sse.Event{ID: n.ID, Room: recipientID, Name: channel.EventNewNotification, Payload: n}
		if err := writeFrame(conn, event); err != nil {
			return
		}
	}

	client := h.subscribe(recipientID)
	defer h.unsubscribe(client)

	// The read loop only serves control frames and detects the close.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(wsPongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(h.heartbeat())
	defer ping.Stop()

	for {
		select {
		case <-closed:
			return
		case <-c.Request.Context().Done():
			return
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				return
			}
		case event, ok := <-client.Ch:
			if !ok {
				return
			}
			if err := writeFrame(conn, event); err != nil {
				h.log.Debug("websocket write failed", zap.String("recipient_id", recipientID), zap.Error(err))
				return
			}
		}
	}
}

func (h *Handler) subscribe(recipientID string) *sse.Client {
	client := &sse.Client{Room: recipientID, Ch: make(chan sse.Event, clientBuffer)}
	h.hub.Register(client)
	h.presence.MarkConnected(recipientID)
	return client
}

func (h *Handler) unsubscribe(client *sse.Client) {
	h.presence.MarkDisconnected(client.Room)
	h.hub.Unregister(client)
}

func (h *Handler) backfill(c *gin.Context, recipientID string) []model.Notification {
	limit := h.cfg.HistoryLimit
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			limit = n
		}
	}
	if limit == 0 {
		return nil
	}
	history, err := h.history.ListHistory(c.Request.Context(), recipientID, limit)
	if err != nil {
		h.log.Error("list history failed", zap.String("recipient_id", recipientID), zap.Int("limit", limit), zap.Error(err))
		return nil
	}
	// History comes newest first.
	out := make([]model.Notification, 0, len(history))
	for i := len(history) - 1; i >= 0; i-- {
		out = append(out, history[i])
	}
	return out
}

func (h *Handler) heartbeat() time.Duration {
	if h.cfg.SSEHeartbeat <= 0 {
		return 15 * time.Second
	}
	return h.cfg.SSEHeartbeat
}

func writeEvent(w http.ResponseWriter, event sse.Event) error {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "id: %s\nevent: %s\ndata: %s\n\n", event.ID, event.Name, payload)
	return err
}

func writeFrame(conn *websocket.Conn, event sse.Event) error {
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return conn.WriteJSON(event)
}
