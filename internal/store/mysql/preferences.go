package mysql

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
	"notifyd/internal/db"
	"notifyd/internal/domain"
	"notifyd/internal/model"
)

func (s *Store) GetOrCreatePreference(ctx context.Context, defaults model.Preference) (model.Preference, error) {
	buckets, devices, quiet, err := encodePreference(defaults)
	if err != nil {
		return model.Preference{}, err
	}
	if err := s.queries.InsertPreferenceIfAbsent(ctx, db.InsertPreferenceIfAbsentParams{
		RecipientID: defaults.RecipientID,
		Buckets:     buckets,
		Devices:     devices,
		QuietHours:  quiet,
		UpdatedAt:   time.Now().UTC(),
	}); err != nil {
		s.log.Error("sql insert preference failed", zap.String("recipient_id", defaults.RecipientID), zap.Error(err))
		return model.Preference{}, err
	}
	row, err := s.queries.GetPreference(ctx, defaults.RecipientID)
	if err != nil {
		s.log.Error("sql get preference failed", zap.String("recipient_id", defaults.RecipientID), zap.Error(err))
		return model.Preference{}, err
	}
	return decodePreference(row)
}

func (s *Store) SavePreference(ctx context.Context, preference model.Preference) error {
	buckets, devices, quiet, err := encodePreference(preference)
	if err != nil {
		return err
	}
	if err := s.queries.UpsertPreference(ctx, db.UpsertPreferenceParams{
		RecipientID: preference.RecipientID,
		Buckets:     buckets,
		Devices:     devices,
		QuietHours:  quiet,
		UpdatedAt:   time.Now().UTC(),
	}); err != nil {
		s.log.Error("sql upsert preference failed", zap.String("recipient_id", preference.RecipientID), zap.Error(err))
		return err
	}
	return nil
}

func encodePreference(p model.Preference) (buckets, devices, quiet []byte, err error) {
	if buckets, err = json.Marshal(p.Buckets); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal buckets: %w", err)
	}
	if p.Devices == nil {
		p.Devices = []model.Device{}
	}
	if devices, err = json.Marshal(p.Devices); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal devices: %w", err)
	}
	if quiet, err = json.Marshal(p.QuietHours); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal quiet hours: %w", err)
	}
	return buckets, devices, quiet, nil
}

func decodePreference(row db.NotificationPreference) (model.Preference, error) {
	p := model.Preference{RecipientID: row.RecipientID, UpdatedAt: row.UpdatedAt}
	if err := json.Unmarshal(row.Buckets, &p.Buckets); err != nil {
		return model.Preference{}, fmt.Errorf("decode buckets: %w", err)
	}
	if err := json.Unmarshal(row.Devices, &p.Devices); err != nil {
		return model.Preference{}, fmt.Errorf("decode devices: %w", err)
	}
	if err := json.Unmarshal(row.QuietHours, &p.QuietHours); err != nil {
		return model.Preference{}, fmt.Errorf("decode quiet hours: %w", err)
	}
	if p.Buckets == nil {
		p.Buckets = make(map[domain.Bucket]model.ChannelSettings)
	}
	return p, nil
}
