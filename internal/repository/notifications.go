package repository

import (
	"context"
	"time"

	"notifyd/internal/model"
)

type NotificationRepository interface {
	CreateNotification(ctx context.Context, notification model.Notification) (model.Notification, error)
	GetNotification(ctx context.Context, id string) (model.Notification, error)
	// ListNotifications returns newest first. A limit <= 0 returns every record.
	ListNotifications(ctx context.Context, recipientID string, limit int) ([]model.Notification, error)
	// UpdateDelivery writes the channel outcomes of a dispatch. The push fields are
	// only written while the record holds the claimed status.
	UpdateDelivery(ctx context.Context, id string, update model.DeliveryUpdate) error
	// ListDuePush returns pending push notifications scheduled at or before now.
	ListDuePush(ctx context.Context, now time.Time, limit int) ([]model.Notification, error)
	// ClaimPush moves a record from pending to claimed. It reports false when
	// another worker got there first.
	ClaimPush(ctx context.Context, id string, now time.Time) (bool, error)
}

type PreferenceRepository interface {
	// GetOrCreatePreference returns the single preference record of a recipient,
	// inserting defaults when none exists.
	GetOrCreatePreference(ctx context.Context, defaults model.Preference) (model.Preference, error)
	SavePreference(ctx context.Context, preference model.Preference) error
}

type Store interface {
	NotificationRepository
	PreferenceRepository
}
