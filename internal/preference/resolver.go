// Package preference owns per-recipient delivery preferences: bucket flags,
// registered devices and quiet hours.
package preference

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"notifyd/internal/domain"
	"notifyd/internal/model"
	"notifyd/internal/repository"
)

type Resolver struct {
	store repository.PreferenceRepository
	loc   *time.Location
	log   *zap.Logger
}

func NewResolver(store repository.PreferenceRepository, loc *time.Location, logger *zap.Logger) *Resolver {
	if loc == nil {
		loc = time.UTC
	}
	return &Resolver{store: store, loc: loc, log: logger}
}

// Resolve returns the stored preference of a recipient, creating the default
// record on first use. A store failure yields the defaults so dispatch can
// go on.
func (r *Resolver) Resolve(ctx context.Context, recipientID string) model.Preference {
	defaults := model.DefaultPreference(recipientID)
	pref, err := r.store.GetOrCreatePreference(ctx, defaults)
	if err != nil {
		r.log.Error("resolve preference failed, using defaults",
			zap.String("recipient_id", recipientID),
			zap.Error(err),
		)
		return defaults
	}
	return pref
}

// EffectiveChannels reads the bucket of the notification type and applies
// quiet-hours suppression to push.
func (r *Resolver) EffectiveChannels(pref model.Preference, t domain.NotificationType, now time.Time) model.Channels {
	settings, ok := pref.Buckets[domain.BucketFor(t)]
	if !ok {
		settings = model.DefaultPreference(pref.RecipientID).Buckets[domain.BucketFor(t)]
	}
	channels := model.Channels{Push: settings.Push, Email: settings.Email, InApp: settings.InApp}
	if channels.Push && pref.QuietHours.Enabled && r.suppressed(pref, now) {
		channels.Push = false
	}
	return channels
}

func (r *Resolver) suppressed(pref model.Preference, now time.Time) bool {
	start, errStart := ParseClock(pref.QuietHours.StartTime)
	end, errEnd := ParseClock(pref.QuietHours.EndTime)
	if errStart != nil || errEnd != nil {
		r.log.Warn("ignoring unparseable quiet hours",
			zap.String("recipient_id", pref.RecipientID),
			zap.String("start", pref.QuietHours.StartTime),
			zap.String("end", pref.QuietHours.EndTime),
		)
		return false
	}
	local := now.In(r.loc)
	return InQuietHours(local.Hour()*60+local.Minute(), start, end)
}

// InQuietHours reports whether minute-of-day now falls in the window
// [start, end). A window with start after end wraps midnight, an empty
// window never matches.
func InQuietHours(now, start, end int) bool {
	switch {
	case start < end:
		return start <= now && now < end
	case start > end:
		return now >= start || now < end
	default:
		return false
	}
}

// ParseClock converts "HH:MM" to minutes since midnight.
func ParseClock(value string) (int, error) {
	t, err := time.Parse("15:04", value)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidQuietHours, value)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// Devices returns the registered devices of a recipient.
func (r *Resolver) Devices(ctx context.Context, recipientID string) ([]model.Device, error) {
	pref, err := r.store.GetOrCreatePreference(ctx, model.DefaultPreference(recipientID))
	if err != nil {
		return nil, fmt.Errorf("load devices of %s: %w", recipientID, err)
	}
	return pref.Devices, nil
}

// AddDevice registers a device. A known token leaves the list untouched and
// reports added=false.
func (r *Resolver) AddDevice(ctx context.Context, recipientID string, device model.Device) (bool, error) {
	if device.DeviceToken == "" {
		return false, domain.ErrInvalidDevice
	}
	pref, err := r.store.GetOrCreatePreference(ctx, model.DefaultPreference(recipientID))
	if err != nil {
		return false, fmt.Errorf("load preference of %s: %w", recipientID, err)
	}
	if pref.HasDevice(device.DeviceToken) {
		return false, nil
	}
	if device.RegisteredAt.IsZero() {
		device.RegisteredAt = time.Now().UTC()
	}
	pref.Devices = append(pref.Devices, device)
	if err := r.store.SavePreference(ctx, pref); err != nil {
		return false, fmt.Errorf("save preference of %s: %w", recipientID, err)
	}
	return true, nil
}

// RemoveDevice unregisters a token. An unknown token is not an error.
func (r *Resolver) RemoveDevice(ctx context.Context, recipientID, token string) error {
	pref, err := r.store.GetOrCreatePreference(ctx, model.DefaultPreference(recipientID))
	if err != nil {
		return fmt.Errorf("load preference of %s: %w", recipientID, err)
	}
	kept := pref.Devices[:0]
	for _, d := range pref.Devices {
		if d.DeviceToken != token {
			kept = append(kept, d)
		}
	}
	if len(kept) == len(pref.Devices) {
		return nil
	}
	pref.Devices = kept
	if err := r.store.SavePreference(ctx, pref); err != nil {
		return fmt.Errorf("save preference of %s: %w", recipientID, err)
	}
	return nil
}

// Update applies a partial change. Concurrent updates are last-write-wins.
func (r *Resolver) Update(ctx context.Context, recipientID string, patch model.PreferenceUpdate) (model.Preference, error) {
	for bucket := range patch.Buckets {
		if !domain.IsValidBucket(bucket) {
			return model.Preference{}, fmt.Errorf("%w: unknown bucket %q", domain.ErrInvalidRequest, bucket)
		}
	}
	if qh := patch.QuietHours; qh != nil {
		if _, err := ParseClock(qh.StartTime); err != nil {
			return model.Preference{}, err
		}
		if _, err := ParseClock(qh.EndTime); err != nil {
			return model.Preference{}, err
		}
	}

	pref, err := r.store.GetOrCreatePreference(ctx, model.DefaultPreference(recipientID))
	if err != nil {
		return model.Preference{}, fmt.Errorf("load preference of %s: %w", recipientID, err)
	}
	for bucket, settings := range patch.Buckets {
		pref.Buckets[bucket] = settings
	}
	if patch.QuietHours != nil {
		pref.QuietHours = *patch.QuietHours
	}
	if err := r.store.SavePreference(ctx, pref); err != nil {
		return model.Preference{}, fmt.Errorf("save preference of %s: %w", recipientID, err)
	}
	return pref, nil
}
