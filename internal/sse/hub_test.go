package sse

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"notifyd/internal/metrics"
)

func TestHubRoutesByRoom(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(nil)
	go hub.Run(ctx)

	mine := &Client{Room: "patient-1", Ch: make(chan Event, 1)}
	other := &Client{Room: "patient-2", Ch: make(chan Event, 1)}
	hub.Register(mine)
	hub.Register(other)
	defer hub.Unregister(mine)
	defer hub.Unregister(other)

	require.True(t, hub.Publish(ctx, Event{ID: "n-1", Room: "patient-1", Name: "new_notification"}))

	select {
	case got := <-mine.Ch:
		require.Equal(t, "n-1", got.ID)
		require.Equal(t, "new_notification", got.Name)
	case <-time.After(200 * time.Millisecond):
		t.Fatalf("expected event for patient-1")
	}

	select {
	case <-other.Ch:
		t.Fatalf("patient-2 must not receive patient-1 events")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubStopped(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(nil)
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	client := &Client{Room: "r", Ch: make(chan Event, 1)}
	hub.Register(client)
	hub.Unregister(client)

	for range 300 {
		if !hub.Publish(context.Background(), Event{Room: "r"}) {
			return
		}
	}
	t.Fatalf("publish should fail once the hub has stopped and the buffer is full")
}

func TestHubDropsForSlowClient(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := metrics.New()
	hub := NewHub(m)
	go hub.Run(ctx)

	slow := &Client{Room: "doctor-1", Ch: make(chan Event, 1)}
	hub.Register(slow)
	defer hub.Unregister(slow)

	require.True(t, hub.Publish(ctx, Event{ID: "n-1", Room: "doctor-1"}))
	require.True(t, hub.Publish(ctx, Event{ID: "n-2", Room: "doctor-1"}))

	require.Eventually(t, func() bool {
		return testutil.ToFloat64(m.RealtimeDropped) == 1
	}, time.Second, 10*time.Millisecond)
	got := <-slow.Ch
	require.Equal(t, "n-1", got.ID)
}
