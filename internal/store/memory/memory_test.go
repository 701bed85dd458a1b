package memory

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"notifyd/internal/domain"
	"notifyd/internal/model"
)

func TestStoreNotifications(t *testing.T) {
	ctx := context.Background()
	store := New(zap.NewNop())

	created, err := store.CreateNotification(ctx, model.Notification{
		ID:          "n-1",
		RecipientID: "patient-1",
		Type:        domain.NotificationTypeNewMessage,
		Title:       "title",
		Body:        "body",
		ActionData:  map[string]any{"conversation_id": "c-1"},
	})
	require.NoError(t, err)
	require.False(t, created.CreatedAt.IsZero())

	created.ActionData["conversation_id"] = "mutated"
	got, err := store.GetNotification(ctx, "n-1")
	require.NoError(t, err)
	require.Equal(t, "c-1", got.ActionData["conversation_id"])

	_, err = store.CreateNotification(ctx, model.Notification{ID: "n-1"})
	require.Error(t, err)

	_, err = store.GetNotification(ctx, "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)

	history, err := store.ListNotifications(ctx, "patient-1", 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
}

func TestStoreClaimAndUpdate(t *testing.T) {
	ctx := context.Background()
	store := New(zap.NewNop())
	now := time.Now().UTC()
	past := now.Add(-time.Minute)
	future := now.Add(time.Hour)

	for _, n := range []model.Notification{
		{ID: "due", ScheduledFor: &past, Push: model.DeliveryState{Enabled: true}, PushStatus: model.PushStatusPending},
		{ID: "future", ScheduledFor: &future, Push: model.DeliveryState{Enabled: true}, PushStatus: model.PushStatusPending},
		{ID: "disabled", ScheduledFor: &past, PushStatus: model.PushStatusDisabled},
	} {
		_, err := store.CreateNotification(ctx, n)
		require.NoError(t, err)
	}

	due, err := store.ListDuePush(ctx, now, 10)
	require.NoError(t, err)
	require.Len(t, due, 1)
	require.Equal(t, "due", due[0].ID)

	var wins atomic.Int32
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := store.ClaimPush(ctx, "due", now)
			if err == nil && ok {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()
	require.Equal(t, int32(1), wins.Load())

	sentAt := now
	require.NoError(t, store.UpdateDelivery(ctx, "due", model.DeliveryUpdate{
		Push: &model.DeliveryState{Sent: true, SentAt: &sentAt},
	}))
	got, err := store.GetNotification(ctx, "due")
	require.NoError(t, err)
	require.True(t, got.Push.Sent)
	require.Equal(t, model.PushStatusSent, got.PushStatus)

	require.NoError(t, store.UpdateDelivery(ctx, "due", model.DeliveryUpdate{
		Push: &model.DeliveryState{Sent: false, Error: "late writer"},
	}))
	got, err = store.GetNotification(ctx, "due")
	require.NoError(t, err)
	require.True(t, got.Push.Sent)
	require.Empty(t, got.Push.Error)

	due, err = store.ListDuePush(ctx, now, 10)
	require.NoError(t, err)
	require.Empty(t, due)
}

func TestStorePreferences(t *testing.T) {
	ctx := context.Background()
	store := New(zap.NewNop())

	first, err := store.GetOrCreatePreference(ctx, model.DefaultPreference("doctor-1"))
	require.NoError(t, err)
	first.Devices = append(first.Devices, model.Device{DeviceToken: "tok"})
	require.NoError(t, store.SavePreference(ctx, first))

	second, err := store.GetOrCreatePreference(ctx, model.DefaultPreference("doctor-1"))
	require.NoError(t, err)
	require.Len(t, second.Devices, 1)
	require.Equal(t, "tok", second.Devices[0].DeviceToken)
}
