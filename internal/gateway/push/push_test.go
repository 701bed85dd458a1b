package push

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"notifyd/internal/domain"
)

func TestLevel(t *testing.T) {
	require.Equal(t, 3, Level(domain.PriorityLow))
	require.Equal(t, 5, Level(domain.PriorityMedium))
	require.Equal(t, 8, Level(domain.PriorityHigh))
	require.Equal(t, 10, Level(domain.PriorityUrgent))
	require.Equal(t, 5, Level("whatever"))
}

func TestHTTPGatewaySend(t *testing.T) {
	var (
		got  Message
		auth string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message_id":"msg-1"}`))
	}))
	defer srv.Close()

	gw := NewHTTPGateway(srv.URL, "secret", time.Second)
	id, err := gw.Send(context.Background(), Message{
		Tokens:   []string{"a", "b"},
		Title:    "Hello",
		Body:     "World",
		Priority: 8,
	})
	require.NoError(t, err)
	require.Equal(t, "msg-1", id)
	require.Equal(t, "Bearer secret", auth)
	require.Equal(t, []string{"a", "b"}, got.Tokens)
	require.Equal(t, 8, got.Priority)
}

func TestHTTPGatewayRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid token"}`))
	}))
	defer srv.Close()

	gw := NewHTTPGateway(srv.URL, "", time.Second)
	_, err := gw.Send(context.Background(), Message{Tokens: []string{"a"}})
	require.ErrorIs(t, err, ErrGatewayRejected)
	require.Contains(t, err.Error(), "invalid token")
}

func TestLogGateway(t *testing.T) {
	id, err := NewLogGateway(zap.NewNop()).Send(context.Background(), Message{Tokens: []string{"a"}})
	require.NoError(t, err)
	require.NotEmpty(t, id)
}
