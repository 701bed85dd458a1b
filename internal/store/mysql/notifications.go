package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
	"notifyd/internal/db"
	"notifyd/internal/domain"
	"notifyd/internal/model"
)

func (s *Store) CreateNotification(ctx context.Context, notification model.Notification) (model.Notification, error) {
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now().UTC()
	}
	actionData, err := json.Marshal(notification.ActionData)
	if err != nil {
		return model.Notification{}, fmt.Errorf("marshal action data: %w", err)
	}
	params := db.CreateNotificationParams{
		ID:              notification.ID,
		RecipientID:     notification.RecipientID,
		RecipientType:   string(notification.RecipientType),
		Type:            string(notification.Type),
		Title:           notification.Title,
		Body:            notification.Body,
		ActionUrl:       notification.ActionURL,
		ActionData:      actionData,
		Priority:        string(notification.Priority),
		PushEnabled:     notification.Push.Enabled,
		PushStatus:      string(notification.PushStatus),
		EmailEnabled:    notification.Email.Enabled,
		RealtimeEnabled: notification.Realtime.Enabled,
		ScheduledFor:    nullTime(notification.ScheduledFor),
		CreatedAt:       notification.CreatedAt,
	}
	if ref := notification.RelatedResource; ref != nil {
		params.RelatedType = sql.NullString{String: ref.Type, Valid: true}
		params.RelatedID = sql.NullString{String: ref.ID, Valid: true}
	}
	if err := s.queries.CreateNotification(ctx, params); err != nil {
		s.log.Error("sql create notification failed",
			zap.String("notification_id", notification.ID),
			zap.String("recipient_id", notification.RecipientID),
			zap.String("type", string(notification.Type)),
			zap.Error(err),
		)
		return model.Notification{}, err
	}
	return notification, nil
}

func (s *Store) GetNotification(ctx context.Context, id string) (model.Notification, error) {
	row, err := s.queries.GetNotification(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Notification{}, domain.ErrNotFound
		}
		s.log.Error("sql get notification failed", zap.String("notification_id", id), zap.Error(err))
		return model.Notification{}, err
	}
	return toModel(row)
}

func (s *Store) ListNotifications(ctx context.Context, recipientID string, limit int) ([]model.Notification, error) {
	rows, err := s.queries.ListNotificationsByRecipient(ctx, db.ListNotificationsByRecipientParams{
		RecipientID: recipientID,
		Limit:       sqlLimit(limit),
	})
	if err != nil {
		s.log.Error("sql list notifications failed", zap.String("recipient_id", recipientID), zap.Int("limit", limit), zap.Error(err))
		return nil, err
	}
	return toModels(rows)
}

func (s *Store) UpdateDelivery(ctx context.Context, id string, update model.DeliveryUpdate) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delivery update: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	q := s.queries.WithTx(tx)

	if p := update.Push; p != nil {
		status := model.PushStatusFailed
		if p.Sent {
			status = model.PushStatusSent
		}
		res, err := q.UpdatePushResult(ctx, db.UpdatePushResultParams{
			PushSent:   p.Sent,
			PushSentAt: nullTime(p.SentAt),
			PushError:  nullString(p.Error),
			PushStatus: string(status),
			ID:         id,
		})
		if err != nil {
			return fmt.Errorf("update push result: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			s.log.Warn("push result ignored, record not claimed", zap.String("notification_id", id))
		}
	}
	if e := update.Email; e != nil {
		if _, err := q.UpdateEmailResult(ctx, db.UpdateEmailResultParams{
			EmailSent:   e.Sent,
			EmailSentAt: nullTime(e.SentAt),
			EmailError:  nullString(e.Error),
			ID:          id,
		}); err != nil {
			return fmt.Errorf("update email result: %w", err)
		}
	}
	if r := update.Realtime; r != nil {
		if err := q.UpdateRealtimeResult(ctx, db.UpdateRealtimeResultParams{
			RealtimeDelivered: r.Delivered,
			ID:                id,
		}); err != nil {
			return fmt.Errorf("update realtime result: %w", err)
		}
	}
	return tx.Commit()
}

func (s *Store) ListDuePush(ctx context.Context, now time.Time, limit int) ([]model.Notification, error) {
	rows, err := s.queries.ListDuePush(ctx, db.ListDuePushParams{
		ScheduledFor: sql.NullTime{Time: now.UTC(), Valid: true},
		Limit:        sqlLimit(limit),
	})
	if err != nil {
		s.log.Error("sql list due push failed", zap.Time("now", now), zap.Error(err))
		return nil, err
	}
	return toModels(rows)
}

func (s *Store) ClaimPush(ctx context.Context, id string, now time.Time) (bool, error) {
	res, err := s.queries.ClaimPush(ctx, db.ClaimPushParams{
		PushClaimedAt: sql.NullTime{Time: now.UTC(), Valid: true},
		ID:            id,
	})
	if err != nil {
		s.log.Error("sql claim push failed", zap.String("notification_id", id), zap.Error(err))
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func toModels(rows []db.Notification) ([]model.Notification, error) {
	result := make([]model.Notification, 0, len(rows))
	for _, row := range rows {
		n, err := toModel(row)
		if err != nil {
			return nil, err
		}
		result = append(result, n)
	}
	return result, nil
}

func toModel(row db.Notification) (model.Notification, error) {
	n := model.Notification{
		ID:            row.ID,
		RecipientID:   row.RecipientID,
		RecipientType: domain.RecipientType(row.RecipientType),
		Type:          domain.NotificationType(row.Type),
		Title:         row.Title,
		Body:          row.Body,
		ActionURL:     row.ActionUrl,
		Priority:      domain.Priority(row.Priority),
		Push: model.DeliveryState{
			Enabled: row.PushEnabled,
			Sent:    row.PushSent,
			SentAt:  timePtr(row.PushSentAt),
			Error:   row.PushError.String,
		},
		PushStatus: model.PushStatus(row.PushStatus),
		Email: model.DeliveryState{
			Enabled: row.EmailEnabled,
			Sent:    row.EmailSent,
			SentAt:  timePtr(row.EmailSentAt),
			Error:   row.EmailError.String,
		},
		Realtime: model.RealtimeState{
			Enabled:   row.RealtimeEnabled,
			Delivered: row.RealtimeDelivered,
		},
		IsRead:       row.IsRead,
		ReadAt:       timePtr(row.ReadAt),
		ScheduledFor: timePtr(row.ScheduledFor),
		CreatedAt:    row.CreatedAt,
	}
	if row.RelatedType.Valid {
		n.RelatedResource = &model.ResourceRef{Type: row.RelatedType.String, ID: row.RelatedID.String}
	}
	if len(row.ActionData) > 0 {
		if err := json.Unmarshal(row.ActionData, &n.ActionData); err != nil {
			return model.Notification{}, fmt.Errorf("decode action data of %s: %w", row.ID, err)
		}
	}
	return n, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

// sqlLimit maps a non-positive limit to "no limit", matching the memory store.
func sqlLimit(limit int) int32 {
	if limit <= 0 || limit > math.MaxInt32 {
		return math.MaxInt32
	}
	return int32(limit)
}
