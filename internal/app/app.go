package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"notifyd/internal/config"
	"notifyd/internal/queue"
	"notifyd/internal/sse"
	"notifyd/internal/sweep"
	"notifyd/internal/telemetry"
)

type App struct {
	cfg      *config.Config
	hub      *sse.Hub
	consumer queue.Consumer
	sweeper  *sweep.Sweeper
	server   *http.Server
	tracing  telemetry.Shutdown
	logger   *zap.Logger
	wg       sync.WaitGroup
}

func NewApp(
	cfg *config.Config,
	hub *sse.Hub,
	consumer queue.Consumer,
	sweeper *sweep.Sweeper,
	router *gin.Engine,
	tracing telemetry.Shutdown,
	logger *zap.Logger,
) *App {
	// Realtime streams hang off streamCtx so Shutdown can end them; the
	// server alone waits for open handlers until its deadline.
	streamCtx, closeStreams := context.WithCancel(context.Background())
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return streamCtx },
	}
	server.RegisterOnShutdown(closeStreams)

	return &App{
		cfg:      cfg,
		hub:      hub,
		consumer: consumer,
		sweeper:  sweeper,
		server:   server,
		tracing:  tracing,
		logger:   logger,
	}
}

func (a *App) Run(ctx context.Context) error {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.hub.Run(ctx)
	}()

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		if err := a.consumer.Start(ctx); err != nil && ctx.Err() == nil {
			a.logger.Error("consumer stopped", zap.Error(err))
		}
	}()

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.sweeper.Run(ctx)
	}()

	a.logger.Info("http server listening", zap.String("addr", a.cfg.HTTPAddr))
	if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("graceful shutdown started")
	shutdownErr := a.server.Shutdown(ctx)

	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return errors.Join(shutdownErr, ctx.Err())
	}

	if a.tracing != nil {
		if err := a.tracing(ctx); err != nil {
			shutdownErr = errors.Join(shutdownErr, err)
		}
	}
	a.logger.Info("graceful shutdown completed")
	return shutdownErr
}

func (a *App) Logger() *zap.Logger {
	return a.logger
}
