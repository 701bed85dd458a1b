package channel

import (
	"context"
	"time"

	"go.uber.org/zap"
	"notifyd/internal/domain"
	"notifyd/internal/gateway/push"
	"notifyd/internal/model"
)

type DeviceSource interface {
	Devices(ctx context.Context, recipientID string) ([]model.Device, error)
}

type PushDispatcher struct {
	devices DeviceSource
	gateway push.Gateway
	log     *zap.Logger
	now     func() time.Time
}

func NewPushDispatcher(devices DeviceSource, gateway push.Gateway, logger *zap.Logger) *PushDispatcher {
	return &PushDispatcher{devices: devices, gateway: gateway, log: logger, now: time.Now}
}

// Send makes one batched gateway call covering every registered device.
func (d *PushDispatcher) Send(ctx context.Context, n model.Notification) (result Result) {
	defer recoverResult(d.log, NamePush, n.RecipientID, &result)

	devices, err := d.devices.Devices(ctx, n.RecipientID)
	if err != nil {
		d.log.Error("load devices failed", zap.String("recipient_id", n.RecipientID), zap.Error(err))
		return Failed(err.Error())
	}
	if len(devices) == 0 {
		return Failed(domain.ReasonNoDevices)
	}
	tokens := make([]string, 0, len(devices))
	for _, dev := range devices {
		tokens = append(tokens, dev.DeviceToken)
	}

	data := map[string]any{"notification_id": n.ID, "type": string(n.Type)}
	if n.ActionURL != "" {
		data["action_url"] = n.ActionURL
	}
	for k, v := range n.ActionData {
		data[k] = v
	}

	messageID, err := d.gateway.Send(ctx, push.Message{
		Tokens:   tokens,
		Title:    n.Title,
		Body:     n.Body,
		Data:     data,
		Priority: push.Level(n.Priority),
	})
	if err != nil {
		if ctx.Err() != nil {
			return Failed(domain.ReasonTimeout)
		}
		d.log.Warn("push gateway send failed",
			zap.String("notification_id", n.ID),
			zap.String("recipient_id", n.RecipientID),
			zap.Error(err),
		)
		return Failed(err.Error())
	}
	d.log.Debug("push sent", zap.String("notification_id", n.ID), zap.String("message_id", messageID))
	return Sent(d.now().UTC())
}
