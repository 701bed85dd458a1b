package memory

import (
	"context"
	"fmt"
	"maps"
	"time"

	"notifyd/internal/domain"
	"notifyd/internal/model"
)

func (s *Store) CreateNotification(_ context.Context, notification model.Notification) (model.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.index[notification.ID]; exists {
		return model.Notification{}, fmt.Errorf("notification %s already exists", notification.ID)
	}
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now().UTC()
	}
	notification = cloneNotification(notification)
	s.index[notification.ID] = len(s.records)
	s.records = append(s.records, notification)
	return cloneNotification(notification), nil
}

func (s *Store) GetNotification(_ context.Context, id string) (model.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[id]
	if !ok {
		return model.Notification{}, domain.ErrNotFound
	}
	return cloneNotification(s.records[i]), nil
}

func (s *Store) ListNotifications(_ context.Context, recipientID string, limit int) ([]model.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []model.Notification
	for i := len(s.records) - 1; i >= 0; i-- {
		record := s.records[i]
		if record.RecipientID != recipientID {
			continue
		}
		result = append(result, cloneNotification(record))
		if limit > 0 && len(result) >= limit {
			break
		}
	}
	return result, nil
}

func (s *Store) UpdateDelivery(_ context.Context, id string, update model.DeliveryUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[id]
	if !ok {
		return domain.ErrNotFound
	}
	record := &s.records[i]
	if update.Push != nil && record.PushStatus == model.PushStatusClaimed {
		record.Push.Sent = update.Push.Sent
		record.Push.SentAt = update.Push.SentAt
		record.Push.Error = update.Push.Error
		if update.Push.Sent {
			record.PushStatus = model.PushStatusSent
		} else {
			record.PushStatus = model.PushStatusFailed
		}
	}
	if update.Email != nil && record.Email.Enabled && !record.Email.Sent && record.Email.Error == "" {
		record.Email.Sent = update.Email.Sent
		record.Email.SentAt = update.Email.SentAt
		record.Email.Error = update.Email.Error
	}
	if update.Realtime != nil && record.Realtime.Enabled {
		record.Realtime.Delivered = update.Realtime.Delivered
	}
	return nil
}

func (s *Store) ListDuePush(_ context.Context, now time.Time, limit int) ([]model.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []model.Notification
	for _, record := range s.records {
		if record.ScheduledFor == nil || record.ScheduledFor.After(now) {
			continue
		}
		if !record.Push.Enabled || record.Push.Sent || record.PushStatus != model.PushStatusPending {
			continue
		}
		result = append(result, cloneNotification(record))
		if limit > 0 && len(result) >= limit {
			break
		}
	}
	return result, nil
}

func (s *Store) ClaimPush(_ context.Context, id string, _ time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[id]
	if !ok {
		return false, domain.ErrNotFound
	}
	if s.records[i].PushStatus != model.PushStatusPending {
		return false, nil
	}
	s.records[i].PushStatus = model.PushStatusClaimed
	return true, nil
}

func cloneNotification(n model.Notification) model.Notification {
	if n.ActionData != nil {
		n.ActionData = maps.Clone(n.ActionData)
	}
	if n.RelatedResource != nil {
		ref := *n.RelatedResource
		n.RelatedResource = &ref
	}
	return n
}
