package controller

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"notifyd/internal/config"
	"notifyd/internal/http/dto"
	"notifyd/internal/model"
	"notifyd/internal/presence"
	"notifyd/internal/queue"
	"notifyd/internal/service/alert"
	"notifyd/internal/sse"
)

type HistoryLister interface {
	ListHistory(ctx context.Context, recipientID string, limit int) ([]model.Notification, error)
}

type PreferenceService interface {
	Resolve(ctx context.Context, recipientID string) model.Preference
	AddDevice(ctx context.Context, recipientID string, device model.Device) (bool, error)
	RemoveDevice(ctx context.Context, recipientID, token string) error
	Update(ctx context.Context, recipientID string, patch model.PreferenceUpdate) (model.Preference, error)
}

type AlertRaiser interface {
	Raise(ctx context.Context, req alert.Request) ([]model.Notification, error)
}

type Handler struct {
	cfg      *config.Config
	history  HistoryLister
	prefs    PreferenceService
	alerts   AlertRaiser
	hub      *sse.Hub
	presence *presence.Registry
	pub      queue.Publisher
	upgrader websocket.Upgrader
	log      *zap.Logger
}

func NewHandler(
	cfg *config.Config,
	history HistoryLister,
	prefs PreferenceService,
	alerts AlertRaiser,
	hub *sse.Hub,
	registry *presence.Registry,
	publisher queue.Publisher,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		cfg:      cfg,
		history:  history,
		prefs:    prefs,
		alerts:   alerts,
		hub:      hub,
		presence: registry,
		pub:      publisher,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		log: logger,
	}
}

func badRequest(c *gin.Context, code, message string) {
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: code, Message: message})
}
