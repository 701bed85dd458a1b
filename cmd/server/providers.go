package main

import (
	"context"
	"time"

	"go.uber.org/zap"
	"notifyd/internal/channel"
	"notifyd/internal/config"
	"notifyd/internal/metrics"
	"notifyd/internal/repository"
	"notifyd/internal/service/notify"
	"notifyd/internal/sweep"
	"notifyd/internal/telemetry"
)

func provideLocation(cfg *config.Config) *time.Location {
	return cfg.Location()
}

func provideDispatchers(
	realtime *channel.RealtimeDispatcher,
	push *channel.PushDispatcher,
	email *channel.EmailDispatcher,
) notify.Dispatchers {
	return notify.Dispatchers{Realtime: realtime, Push: push, Email: email}
}

func provideNotifyService(
	cfg *config.Config,
	store repository.NotificationRepository,
	resolver notify.PreferenceResolver,
	channels notify.Dispatchers,
	m *metrics.Metrics,
	logger *zap.Logger,
) *notify.Service {
	return notify.NewService(store, resolver, channels, m, cfg.ChannelTimeout, logger)
}

func provideSweeper(
	cfg *config.Config,
	store repository.NotificationRepository,
	push sweep.PushDispatcher,
	m *metrics.Metrics,
	logger *zap.Logger,
) *sweep.Sweeper {
	return sweep.New(store, push, m, cfg.SweepInterval, cfg.SweepBatch, logger)
}

func provideTracing(cfg *config.Config, logger *zap.Logger) (telemetry.Shutdown, error) {
	return telemetry.New(context.Background(), cfg, logger)
}
