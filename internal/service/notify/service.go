package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"notifyd/internal/channel"
	"notifyd/internal/domain"
	"notifyd/internal/metrics"
	"notifyd/internal/model"
	"notifyd/internal/repository"
)

const DefaultChannelTimeout = 5 * time.Second

type PreferenceResolver interface {
	Resolve(ctx context.Context, recipientID string) model.Preference
	EffectiveChannels(pref model.Preference, t domain.NotificationType, now time.Time) model.Channels
}

type RealtimeEmitter interface {
	Emit(ctx context.Context, n model.Notification) channel.RealtimeResult
}

type Sender interface {
	Send(ctx context.Context, n model.Notification) channel.Result
}

type Dispatchers struct {
	Realtime RealtimeEmitter
	Push     Sender
	Email    Sender
}

type Service struct {
	store    repository.NotificationRepository
	resolver PreferenceResolver
	channels Dispatchers
	metrics  *metrics.Metrics
	validate *validator.Validate
	tracer   trace.Tracer
	log      *zap.Logger
	timeout  time.Duration
	now      func() time.Time
	newID    func() string
}

func NewService(
	store repository.NotificationRepository,
	resolver PreferenceResolver,
	channels Dispatchers,
	m *metrics.Metrics,
	timeout time.Duration,
	logger *zap.Logger,
) *Service {
	if timeout <= 0 {
		timeout = DefaultChannelTimeout
	}
	return &Service{
		store:    store,
		resolver: resolver,
		channels: channels,
		metrics:  m,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		tracer:   otel.Tracer("notify"),
		log:      logger,
		timeout:  timeout,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Create persists a notification and, unless it is scheduled in the future,
// attempts every enabled channel once. Only validation and the initial insert
// can fail the call; channel failures are recorded on the returned record.
func (s *Service) Create(ctx context.Context, req model.CreationRequest) (model.Notification, error) {
	ctx, span := s.tracer.Start(ctx, "notify.create")
	span.SetAttributes(
		attribute.String("notification.type", string(req.Type)),
		attribute.String("notification.recipient_id", req.RecipientID),
	)
	defer span.End()

	if err := s.validateRequest(req); err != nil {
		span.SetStatus(codes.Error, "invalid request")
		return model.Notification{}, err
	}

	now := s.now().UTC()
	pref := s.resolver.Resolve(ctx, req.RecipientID)
	channels := s.resolver.EffectiveChannels(pref, req.Type, now)
	if req.ForceEmail {
		channels.Email = true
	}

	n := s.build(req, channels, now)
	deferred := n.IsDeferred(now)
	switch {
	case !n.Push.Enabled:
		n.PushStatus = model.PushStatusDisabled
	case deferred:
		n.PushStatus = model.PushStatusPending
	default:
		// The immediate path owns push from the start so the sweep never sees it.
		n.PushStatus = model.PushStatusClaimed
	}

	created, err := s.store.CreateNotification(ctx, n)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "persist failed")
		s.log.Error("persist notification failed",
			zap.String("recipient_id", req.RecipientID),
			zap.String("type", string(req.Type)),
			zap.Error(err),
		)
		return model.Notification{}, fmt.Errorf("%w: %w", domain.ErrPersistenceFailure, err)
	}

	mode := "immediate"
	if deferred {
		mode = "scheduled"
	}
	if s.metrics != nil {
		s.metrics.NotificationsCreated.WithLabelValues(string(created.Type), mode).Inc()
	}
	span.SetAttributes(attribute.String("notification.id", created.ID), attribute.String("notification.mode", mode))
	if deferred {
		return created, nil
	}

	update := s.fanOut(ctx, created)
	applyUpdate(&created, update)
	if err := s.store.UpdateDelivery(context.WithoutCancel(ctx), created.ID, update); err != nil {
		span.RecordError(err)
		s.log.Error("persist delivery outcome failed",
			zap.String("notification_id", created.ID),
			zap.String("recipient_id", created.RecipientID),
			zap.Error(err),
		)
	}
	return created, nil
}

// DispatchPush sends only the push channel of an already claimed record and
// stores the outcome. Used by the deferred sweep.
func (s *Service) DispatchPush(ctx context.Context, n model.Notification) channel.Result {
	base := context.WithoutCancel(ctx)
	result := withTimeout(base, s.timeout, channel.Failed(domain.ReasonTimeout), func(ctx context.Context) channel.Result {
		return s.channels.Push.Send(ctx, n)
	})
	s.metrics.ObserveDispatch(channel.NamePush, result.Sent)
	state := result.State()
	if err := s.store.UpdateDelivery(base, n.ID, model.DeliveryUpdate{Push: &state}); err != nil {
		s.log.Error("persist push outcome failed",
			zap.String("notification_id", n.ID),
			zap.String("recipient_id", n.RecipientID),
			zap.Error(err),
		)
	}
	return result
}

// ListHistory returns at most limit notifications, newest first. A limit <= 0
// yields no history.
func (s *Service) ListHistory(ctx context.Context, recipientID string, limit int) ([]model.Notification, error) {
	if limit <= 0 {
		return []model.Notification{}, nil
	}
	history, err := s.store.ListNotifications(ctx, recipientID, limit)
	if err != nil {
		s.log.Error("store list notifications failed", zap.String("recipient_id", recipientID), zap.Int("limit", limit), zap.Error(err))
		return nil, err
	}
	return history, nil
}

func (s *Service) validateRequest(req model.CreationRequest) error {
	if err := s.validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
	}
	if !domain.IsValidNotificationType(req.Type) {
		return fmt.Errorf("%w: %w", domain.ErrInvalidRequest, domain.ErrInvalidNotificationType)
	}
	if !domain.IsValidRecipientType(req.RecipientType) {
		return fmt.Errorf("%w: %w", domain.ErrInvalidRequest, domain.ErrInvalidRecipientType)
	}
	if req.Priority != "" && !domain.IsValidPriority(req.Priority) {
		return fmt.Errorf("%w: %w", domain.ErrInvalidRequest, domain.ErrInvalidPriority)
	}
	return nil
}

func (s *Service) build(req model.CreationRequest, channels model.Channels, now time.Time) model.Notification {
	priority := req.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}
	return model.Notification{
		ID:              s.newID(),
		RecipientID:     req.RecipientID,
		RecipientType:   req.RecipientType,
		Type:            req.Type,
		Title:           req.Title,
		Body:            req.Body,
		RelatedResource: req.RelatedResource,
		ActionURL:       req.ActionURL,
		ActionData:      req.ActionData,
		Priority:        priority,
		Push:            model.DeliveryState{Enabled: channels.Push},
		Email:           model.DeliveryState{Enabled: channels.Email},
		Realtime:        model.RealtimeState{Enabled: channels.InApp},
		ScheduledFor:    req.ScheduledFor,
		CreatedAt:       now,
	}
}

// fanOut runs every enabled channel concurrently. Cancelling ctx does not stop
// a started fan-out; each channel is bounded by the channel timeout instead.
func (s *Service) fanOut(ctx context.Context, n model.Notification) model.DeliveryUpdate {
	base := context.WithoutCancel(ctx)
	var (
		wg     sync.WaitGroup
		update model.DeliveryUpdate
	)

	if n.Realtime.Enabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res := withTimeout(base, s.timeout, channel.RealtimeResult{}, func(ctx context.Context) channel.RealtimeResult {
				return s.channels.Realtime.Emit(ctx, n)
			})
			s.metrics.ObserveDispatch(channel.NameRealtime, res.Delivered)
			update.Realtime = &model.RealtimeState{Enabled: true, Delivered: res.Delivered}
		}()
	}
	if n.Push.Enabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res := withTimeout(base, s.timeout, channel.Failed(domain.ReasonTimeout), func(ctx context.Context) channel.Result {
				return s.channels.Push.Send(ctx, n)
			})
			s.observe(n, channel.NamePush, res)
			state := res.State()
			update.Push = &state
		}()
	}
	if n.Email.Enabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res := withTimeout(base, s.timeout, channel.Failed(domain.ReasonTimeout), func(ctx context.Context) channel.Result {
				return s.channels.Email.Send(ctx, n)
			})
			s.observe(n, channel.NameEmail, res)
			state := res.State()
			update.Email = &state
		}()
	}
	wg.Wait()
	return update
}

func (s *Service) observe(n model.Notification, name string, res channel.Result) {
	s.metrics.ObserveDispatch(name, res.Sent)
	if !res.Sent {
		s.log.Info("channel not delivered",
			zap.String("notification_id", n.ID),
			zap.String("recipient_id", n.RecipientID),
			zap.String("channel", name),
			zap.String("reason", res.Error),
		)
	}
}

// withTimeout returns fallback when fn has not answered within timeout.
// fn keeps running in the background and its late answer is dropped.
func withTimeout[T any](ctx context.Context, timeout time.Duration, fallback T, fn func(context.Context) T) T {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	done := make(chan T, 1)
	go func() {
		done <- fn(ctx)
	}()
	select {
	case res := <-done:
		return res
	case <-ctx.Done():
		return fallback
	}
}

func applyUpdate(n *model.Notification, update model.DeliveryUpdate) {
	if update.Push != nil {
		n.Push = *update.Push
		if update.Push.Sent {
			n.PushStatus = model.PushStatusSent
		} else {
			n.PushStatus = model.PushStatusFailed
		}
	}
	if update.Email != nil {
		n.Email = *update.Email
	}
	if update.Realtime != nil {
		n.Realtime = *update.Realtime
	}
}
