package model

import (
	"time"

	"notifyd/internal/domain"
)

// CreationRequest is the normalized input of the dispatch orchestrator.
type CreationRequest struct {
	RecipientID     string                  `json:"recipient_id" validate:"required,max=64"`
	RecipientType   domain.RecipientType    `json:"recipient_type" validate:"required"`
	Type            domain.NotificationType `json:"type" validate:"required"`
	Title           string                  `json:"title" validate:"required,max=200"`
	Body            string                  `json:"body" validate:"required,max=500"`
	Priority        domain.Priority         `json:"priority"`
	RelatedResource *ResourceRef            `json:"related_resource,omitempty"`
	ActionURL       string                  `json:"action_url,omitempty" validate:"omitempty,max=512"`
	ActionData      map[string]any          `json:"action_data,omitempty"`
	ScheduledFor    *time.Time              `json:"scheduled_for,omitempty"`
	// ForceEmail enables the email channel regardless of the recipient's bucket.
	ForceEmail bool `json:"-"`
}

// PreferenceUpdate is a partial preference change. Nil fields are kept.
type PreferenceUpdate struct {
	Buckets    map[domain.Bucket]ChannelSettings `json:"buckets,omitempty"`
	QuietHours *QuietHours                       `json:"quietHours,omitempty"`
}
