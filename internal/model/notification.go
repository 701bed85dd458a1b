package model

import (
	"time"

	"notifyd/internal/domain"
)

// PushStatus tracks the push channel through the claim protocol used by the
// deferred sweep. Only pending records may be claimed.
type PushStatus string

const (
	PushStatusDisabled PushStatus = "disabled"
	PushStatusPending  PushStatus = "pending"
	PushStatusClaimed  PushStatus = "claimed"
	PushStatusSent     PushStatus = "sent"
	PushStatusFailed   PushStatus = "failed"
)

type DeliveryState struct {
	Enabled bool       `json:"enabled"`
	Sent    bool       `json:"sent"`
	SentAt  *time.Time `json:"sent_at,omitempty"`
	Error   string     `json:"error,omitempty"`
}

type RealtimeState struct {
	Enabled   bool `json:"enabled"`
	Delivered bool `json:"delivered"`
}

type ResourceRef struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

type Notification struct {
	ID              string                  `json:"id"`
	RecipientID     string                  `json:"recipient_id"`
	RecipientType   domain.RecipientType    `json:"recipient_type"`
	Type            domain.NotificationType `json:"type"`
	Title           string                  `json:"title"`
	Body            string                  `json:"body"`
	RelatedResource *ResourceRef            `json:"related_resource,omitempty"`
	ActionURL       string                  `json:"action_url,omitempty"`
	ActionData      map[string]any          `json:"action_data,omitempty"`
	Priority        domain.Priority         `json:"priority"`
	Push            DeliveryState           `json:"push"`
	PushStatus      PushStatus              `json:"-"`
	Email           DeliveryState           `json:"email"`
	Realtime        RealtimeState           `json:"realtime"`
	IsRead          bool                    `json:"is_read"`
	ReadAt          *time.Time              `json:"read_at,omitempty"`
	ScheduledFor    *time.Time              `json:"scheduled_for,omitempty"`
	CreatedAt       time.Time               `json:"created_at"`
}

// IsDeferred reports whether the notification must wait for the sweep.
func (n Notification) IsDeferred(now time.Time) bool {
	return n.ScheduledFor != nil && n.ScheduledFor.After(now)
}

// DeliveryUpdate carries the outcome of the dispatch attempts for one notification.
// Nil channel fields are left untouched by the store.
type DeliveryUpdate struct {
	Push     *DeliveryState
	Email    *DeliveryState
	Realtime *RealtimeState
}
