// Package sweep dispatches the push channel of scheduled notifications once
// they fall due.
package sweep

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"notifyd/internal/channel"
	"notifyd/internal/metrics"
	"notifyd/internal/model"
	"notifyd/internal/repository"
)

type PushDispatcher interface {
	DispatchPush(ctx context.Context, n model.Notification) channel.Result
}

type Result struct {
	Processed int
}

type Sweeper struct {
	store    repository.NotificationRepository
	push     PushDispatcher
	metrics  *metrics.Metrics
	interval time.Duration
	batch    int
	log      *zap.Logger
	mu       sync.Mutex
}

func New(store repository.NotificationRepository, push PushDispatcher, m *metrics.Metrics, interval time.Duration, batch int, logger *zap.Logger) *Sweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	if batch <= 0 {
		batch = 100
	}
	return &Sweeper{store: store, push: push, metrics: m, interval: interval, batch: batch, log: logger}
}

// Sweep claims every due pending record and sends its push. Records claimed
// by another worker are skipped. Processed counts the records this call
// claimed.
func (s *Sweeper) Sweep(ctx context.Context, now time.Time) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, span := otel.Tracer("sweep").Start(ctx, "sweep.run")
	defer span.End()

	due, err := s.store.ListDuePush(ctx, now, s.batch)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list due failed")
		s.log.Error("sweep list due failed", zap.Error(err))
		return Result{}, err
	}

	var res Result
	for _, n := range due {
		claimed, err := s.store.ClaimPush(ctx, n.ID, now)
		if err != nil {
			s.log.Error("sweep claim failed", zap.String("notification_id", n.ID), zap.Error(err))
			continue
		}
		if !claimed {
			if s.metrics != nil {
				s.metrics.SweepClaimConflicts.Inc()
			}
			continue
		}
		out := s.push.DispatchPush(ctx, n)
		res.Processed++
		if s.metrics != nil {
			s.metrics.SweepProcessed.Inc()
		}
		s.log.Debug("sweep dispatched push",
			zap.String("notification_id", n.ID),
			zap.String("recipient_id", n.RecipientID),
			zap.Bool("sent", out.Sent),
			zap.String("error", out.Error),
		)
	}
	span.SetAttributes(attribute.Int("sweep.due", len(due)), attribute.Int("sweep.processed", res.Processed))
	return res, nil
}

// Run sweeps on every tick until ctx is done.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	s.log.Info("sweeper started", zap.Duration("interval", s.interval), zap.Int("batch", s.batch))
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			res, err := s.Sweep(ctx, now.UTC())
			if err != nil {
				continue
			}
			if res.Processed > 0 {
				s.log.Info("sweep finished", zap.Int("processed", res.Processed))
			}
		}
	}
}
