package channel

import (
	"context"

	"notifyd/internal/model"
	"notifyd/internal/presence"
	"notifyd/internal/sse"
)

const EventNewNotification = "new_notification"

type Publisher interface {
	Publish(ctx context.Context, event sse.Event) bool
}

// RealtimeDispatcher emits to the recipient's room. Delivered reflects
// presence on this process at emit time and is informational only.
type RealtimeDispatcher struct {
	hub      Publisher
	presence *presence.Registry
}

func NewRealtimeDispatcher(hub Publisher, registry *presence.Registry) *RealtimeDispatcher {
	return &RealtimeDispatcher{hub: hub, presence: registry}
}

func (d *RealtimeDispatcher) Emit(ctx context.Context, n model.Notification) (result RealtimeResult) {
	defer func() {
		if recover() != nil {
			result = RealtimeResult{}
		}
	}()
	connected := d.presence.IsConnected(n.RecipientID)
	d.hub.Publish(ctx, sse.Event{
		ID:      n.ID,
		Room:    n.RecipientID,
		Name:    EventNewNotification,
		Payload: n,
	})
	return RealtimeResult{Delivered: connected}
}
