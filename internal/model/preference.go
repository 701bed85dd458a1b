package model

import (
	"time"

	"notifyd/internal/domain"
)

type ChannelSettings struct {
	Push  bool `json:"push"`
	Email bool `json:"email"`
	InApp bool `json:"inApp"`
}

type Device struct {
	DeviceToken  string    `json:"deviceToken" validate:"required,max=512"`
	DeviceType   string    `json:"deviceType" validate:"required,oneof=mobile web"`
	Platform     string    `json:"platform" validate:"required,oneof=android ios web"`
	RegisteredAt time.Time `json:"registeredAt"`
}

type QuietHours struct {
	Enabled   bool   `json:"enabled"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

type Preference struct {
	RecipientID string                            `json:"recipient_id"`
	Buckets     map[domain.Bucket]ChannelSettings `json:"buckets"`
	Devices     []Device                          `json:"devices"`
	QuietHours  QuietHours                        `json:"quietHours"`
	UpdatedAt   time.Time                         `json:"updated_at"`
}

// DefaultPreference returns the record created lazily for a recipient that has
// never stored preferences.
func DefaultPreference(recipientID string) Preference {
	buckets := make(map[domain.Bucket]ChannelSettings, len(domain.Buckets))
	for _, b := range domain.Buckets {
		buckets[b] = ChannelSettings{Push: true, Email: true, InApp: true}
	}
	buckets[domain.BucketNewMessage] = ChannelSettings{Push: true, Email: false, InApp: true}
	return Preference{
		RecipientID: recipientID,
		Buckets:     buckets,
		Devices:     []Device{},
		QuietHours: QuietHours{
			Enabled:   false,
			StartTime: "22:00",
			EndTime:   "07:00",
		},
	}
}

// HasDevice reports whether token is already registered.
func (p Preference) HasDevice(token string) bool {
	for _, d := range p.Devices {
		if d.DeviceToken == token {
			return true
		}
	}
	return false
}

// Channels is the effective channel set for one notification.
type Channels struct {
	Push  bool `json:"push"`
	Email bool `json:"email"`
	InApp bool `json:"inApp"`
}
