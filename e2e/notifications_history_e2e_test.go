package e2e

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"notifyd/internal/config"
	"notifyd/internal/domain"
	"notifyd/internal/model"
)

func TestSSEHistoryBackfill(t *testing.T) {
	cfg := &config.Config{SSEHeartbeat: 5 * time.Second, HistoryLimit: 10}
	s := newStack(t, cfg, nil)

	for _, title := range []string{"first", "second"} {
		_, err := s.notify.Create(context.Background(), model.CreationRequest{
			RecipientID:   "p1",
			RecipientType: domain.RecipientPatient,
			Type:          domain.NotificationTypeSystemAlert,
			Title:         title,
			Body:          "before",
		})
		require.NoError(t, err)
	}

	stream := s.openSSE(t, "p1", 10)

	var titles []string
	for range 2 {
		data, err := readSSEData(stream, 2*time.Second)
		require.NoError(t, err)
		var got model.Notification
		require.NoError(t, json.Unmarshal([]byte(data), &got))
		require.Equal(t, "p1", got.RecipientID)
		titles = append(titles, got.Title)
	}
	require.Equal(t, []string{"first", "second"}, titles)
}
