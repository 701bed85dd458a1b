package sweep

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"notifyd/internal/channel"
	"notifyd/internal/domain"
	"notifyd/internal/gateway/push"
	"notifyd/internal/metrics"
	"notifyd/internal/model"
	"notifyd/internal/preference"
	"notifyd/internal/service/notify"
	"notifyd/internal/store/memory"
)

type countingGateway struct {
	calls atomic.Int32
}

func (g *countingGateway) Send(context.Context, push.Message) (string, error) {
	g.calls.Add(1)
	time.Sleep(10 * time.Millisecond)
	return "msg", nil
}

type noopSender struct{}

func (noopSender) Send(context.Context, model.Notification) channel.Result {
	return channel.Failed("unused")
}

type noopEmitter struct{}

func (noopEmitter) Emit(context.Context, model.Notification) channel.RealtimeResult {
	return channel.RealtimeResult{}
}

type fixture struct {
	store   *memory.Store
	svc     *notify.Service
	gateway *countingGateway
	sweeper *Sweeper
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	f := &fixture{store: memory.New(zap.NewNop()), gateway: &countingGateway{}}
	resolver := preference.NewResolver(f.store, time.UTC, zap.NewNop())
	_, err := resolver.AddDevice(ctx, "patient-1", model.Device{DeviceToken: "tok-1", DeviceType: "mobile", Platform: "android"})
	require.NoError(t, err)

	m := metrics.New()
	f.svc = notify.NewService(f.store, resolver, notify.Dispatchers{
		Realtime: noopEmitter{},
		Push:     channel.NewPushDispatcher(resolver, f.gateway, zap.NewNop()),
		Email:    noopSender{},
	}, m, time.Second, zap.NewNop())
	f.sweeper = New(f.store, f.svc, m, time.Minute, 10, zap.NewNop())
	return f
}

func (f *fixture) schedule(t *testing.T, at time.Time) model.Notification {
	t.Helper()
	n, err := f.svc.Create(context.Background(), model.CreationRequest{
		RecipientID:   "patient-1",
		RecipientType: domain.RecipientPatient,
		Type:          domain.NotificationTypeAppointmentReminder,
		Title:         "Upcoming appointment",
		Body:          "Tomorrow at 09:30",
		Priority:      domain.PriorityMedium,
		ScheduledFor:  &at,
	})
	require.NoError(t, err)
	return n
}

func TestSweepNotDueYet(t *testing.T) {
	f := newFixture(t)
	at := time.Now().Add(time.Hour).UTC()
	f.schedule(t, at)

	res, err := f.sweeper.Sweep(context.Background(), at.Add(-time.Minute))
	require.NoError(t, err)
	require.Zero(t, res.Processed)
	require.Zero(t, f.gateway.calls.Load())
}

func TestSweepDispatchesDuePush(t *testing.T) {
	f := newFixture(t)
	at := time.Now().Add(time.Hour).UTC()
	n := f.schedule(t, at)

	res, err := f.sweeper.Sweep(context.Background(), at)
	require.NoError(t, err)
	require.Equal(t, 1, res.Processed)
	require.EqualValues(t, 1, f.gateway.calls.Load())

	stored, err := f.store.GetNotification(context.Background(), n.ID)
	require.NoError(t, err)
	require.True(t, stored.Push.Sent)
	require.Equal(t, model.PushStatusSent, stored.PushStatus)
	require.False(t, stored.Email.Sent)

	res, err = f.sweeper.Sweep(context.Background(), at.Add(time.Minute))
	require.NoError(t, err)
	require.Zero(t, res.Processed)
	require.EqualValues(t, 1, f.gateway.calls.Load())
}

func TestConcurrentSweepsCallGatewayOnce(t *testing.T) {
	f := newFixture(t)
	at := time.Now().Add(time.Hour).UTC()
	f.schedule(t, at)

	other := New(f.store, f.svc, nil, time.Minute, 10, zap.NewNop())
	var (
		wg        sync.WaitGroup
		processed atomic.Int32
	)
	for _, s := range []*Sweeper{f.sweeper, other, f.sweeper, other} {
		wg.Add(1)
		go func(s *Sweeper) {
			defer wg.Done()
			res, err := s.Sweep(context.Background(), at)
			if err == nil {
				processed.Add(int32(res.Processed))
			}
		}(s)
	}
	wg.Wait()

	require.EqualValues(t, 1, f.gateway.calls.Load())
	require.EqualValues(t, 1, processed.Load())
}

func TestSweepSkipsImmediateNotifications(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Create(context.Background(), model.CreationRequest{
		RecipientID:   "patient-1",
		RecipientType: domain.RecipientPatient,
		Type:          domain.NotificationTypePrescriptionCreated,
		Title:         "New prescription",
		Body:          "Dr. Grey issued a new prescription for you.",
	})
	require.NoError(t, err)
	require.EqualValues(t, 1, f.gateway.calls.Load())

	res, err := f.sweeper.Sweep(context.Background(), time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.Zero(t, res.Processed)
	require.EqualValues(t, 1, f.gateway.calls.Load())
}

func TestRunStopsWithContext(t *testing.T) {
	f := newFixture(t)
	s := New(f.store, f.svc, nil, 5*time.Millisecond, 10, zap.NewNop())
	f.schedule(t, time.Now().Add(30*time.Millisecond).UTC())
	require.Zero(t, f.gateway.calls.Load())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return f.gateway.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}
