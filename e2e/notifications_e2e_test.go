package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"notifyd/internal/config"
	"notifyd/internal/directory"
	"notifyd/internal/domain"
	"notifyd/internal/model"
)

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	res, err := http.Post(url, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	t.Cleanup(func() { _ = res.Body.Close() })
	return res
}

func TestEventToEveryChannel(t *testing.T) {
	cfg := &config.Config{SSEHeartbeat: 5 * time.Second, HistoryLimit: 0}
	s := newStack(t, cfg, nil)
	s.directory.Put(directory.Profile{ID: "p1", Name: "Ana Lima", Email: "ana@example.com", Role: "patient", Active: true})
	s.directory.Put(directory.Profile{ID: "d1", Name: "Dr. Souza", Email: "souza@example.com", Role: "doctor", Active: true})

	res := postJSON(t, s.server.URL+"/recipients/p1/devices", map[string]string{
		"deviceToken": "tok-1", "deviceType": "mobile", "platform": "android",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode)

	stream := s.openSSE(t, "p1", 0)

	res = postJSON(t, s.server.URL+"/events/appointment.confirmed", map[string]any{
		"appointment_id": "a1",
		"patient_id":     "p1",
		"doctor_id":      "d1",
		"scheduled_at":   time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC),
	})
	require.Equal(t, http.StatusAccepted, res.StatusCode)

	data, err := readSSEData(stream, 2*time.Second)
	require.NoError(t, err)
	var got model.Notification
	require.NoError(t, json.Unmarshal([]byte(data), &got))
	require.Equal(t, "p1", got.RecipientID)
	require.Equal(t, domain.NotificationTypeAppointmentConfirmed, got.Type)
	require.Contains(t, got.Body, "Dr. Souza")

	history, err := s.store.ListNotifications(context.Background(), "p1", 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	stored := history[0]
	require.True(t, stored.Realtime.Delivered)
	require.True(t, stored.Push.Sent)
	require.Equal(t, model.PushStatusSent, stored.PushStatus)
	require.True(t, stored.Email.Sent)

	pushes := s.push.Messages()
	require.Len(t, pushes, 1)
	require.Equal(t, []string{"tok-1"}, pushes[0].Tokens)
	require.Equal(t, stored.ID, pushes[0].Data["notification_id"])

	mails := s.relay.Sent()
	require.Len(t, mails, 1)
	require.Equal(t, "ana@example.com", mails[0].To)
	require.Contains(t, mails[0].HTML, stored.Title)
}

func TestEventRespectsPreferences(t *testing.T) {
	cfg := &config.Config{SSEHeartbeat: 5 * time.Second}
	s := newStack(t, cfg, nil)
	s.directory.Put(directory.Profile{ID: "d1", Name: "Dr. Souza", Email: "souza@example.com", Role: "doctor", Active: true})

	req, err := http.NewRequest(http.MethodPut, s.server.URL+"/recipients/d1/preferences", bytes.NewReader([]byte(
		`{"buckets":{"newMessage":{"push":false,"email":false,"inApp":true}}}`,
	)))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	_ = res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	res = postJSON(t, s.server.URL+"/events/message.created", map[string]string{
		"message_id":      "m1",
		"conversation_id": "c1",
		"sender_id":       "p1",
		"recipient_id":    "d1",
		"recipient_type":  "doctor",
		"preview":         "Hello doctor",
	})
	require.Equal(t, http.StatusAccepted, res.StatusCode)

	history, err := s.store.ListNotifications(context.Background(), "d1", 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.False(t, history[0].Push.Enabled)
	require.False(t, history[0].Email.Enabled)
	require.Equal(t, model.PushStatusDisabled, history[0].PushStatus)
	require.True(t, history[0].Realtime.Enabled)
	require.False(t, history[0].Realtime.Delivered)
	require.Empty(t, s.push.Messages())
	require.Empty(t, s.relay.Sent())
}
