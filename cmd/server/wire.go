//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"
	"notifyd/internal/app"
	"notifyd/internal/channel"
	"notifyd/internal/config"
	"notifyd/internal/directory"
	"notifyd/internal/events"
	"notifyd/internal/gateway/email"
	"notifyd/internal/gateway/push"
	"notifyd/internal/http"
	"notifyd/internal/http/controller"
	"notifyd/internal/logging"
	"notifyd/internal/metrics"
	"notifyd/internal/preference"
	"notifyd/internal/presence"
	"notifyd/internal/queue/rabbitmq"
	"notifyd/internal/service/alert"
	"notifyd/internal/service/notify"
	"notifyd/internal/sse"
	"notifyd/internal/store"
	"notifyd/internal/sweep"
)

func InitializeApp() (*app.App, error) {
	wire.Build(
		config.New,
		logging.New,
		metrics.New,
		provideTracing,
		provideLocation,
		store.NewStore,
		store.NewNotificationRepository,
		store.NewPreferenceRepository,
		directory.New,
		preference.NewResolver,
		wire.Bind(new(notify.PreferenceResolver), new(*preference.Resolver)),
		wire.Bind(new(channel.DeviceSource), new(*preference.Resolver)),
		wire.Bind(new(controller.PreferenceService), new(*preference.Resolver)),
		sse.NewHub,
		wire.Bind(new(channel.Publisher), new(*sse.Hub)),
		presence.NewRegistry,
		push.New,
		email.NewRenderer,
		email.New,
		channel.NewRealtimeDispatcher,
		channel.NewPushDispatcher,
		channel.NewEmailDispatcher,
		provideDispatchers,
		provideNotifyService,
		wire.Bind(new(events.Creator), new(*notify.Service)),
		wire.Bind(new(alert.Creator), new(*notify.Service)),
		wire.Bind(new(sweep.PushDispatcher), new(*notify.Service)),
		wire.Bind(new(controller.HistoryLister), new(*notify.Service)),
		alert.NewService,
		wire.Bind(new(rabbitmq.AlertRaiser), new(*alert.Service)),
		wire.Bind(new(controller.AlertRaiser), new(*alert.Service)),
		events.NewRouter,
		wire.Bind(new(rabbitmq.EventHandler), new(*events.Router)),
		provideSweeper,
		rabbitmq.NewConsumer,
		rabbitmq.NewPublisher,
		controller.NewHandler,
		http.NewRouter,
		app.NewApp,
	)
	return &app.App{}, nil
}
