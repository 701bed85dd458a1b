package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"notifyd/internal/config"
	"notifyd/internal/domain"
	"notifyd/internal/events"
	"notifyd/internal/model"
	"notifyd/internal/queue"
	"notifyd/internal/service/alert"
)

const handleTimeout = 15 * time.Second

// EventHandler turns a routed domain event into a notification.
type EventHandler interface {
	Handle(ctx context.Context, topic string, payload []byte) (*model.Notification, error)
}

type AlertRaiser interface {
	Raise(ctx context.Context, req alert.Request) ([]model.Notification, error)
}

type noopConsumer struct{}

func (n *noopConsumer) Start(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

type Consumer struct {
	url         string
	events      EventHandler
	alerts      AlertRaiser
	logger      *zap.Logger
	exchange    string
	queue       string
	routingKey  string
	consumerTag string
}

func NewConsumer(cfg *config.Config, handler EventHandler, alerts AlertRaiser, logger *zap.Logger) queue.Consumer {
	if cfg.RabbitMQURL == "" {
		logger.Warn("RABBITMQ_URL not set, event consumer disabled")
		return &noopConsumer{}
	}
	return &Consumer{
		url:         cfg.RabbitMQURL,
		events:      handler,
		alerts:      alerts,
		logger:      logger,
		exchange:    cfg.RabbitExchange,
		queue:       cfg.RabbitQueue,
		routingKey:  cfg.RabbitRoutingKey,
		consumerTag: cfg.RabbitConsumerTag,
	}
}

func (r *Consumer) Start(ctx context.Context) error {
	ctx, span := otel.Tracer("rabbitmq").Start(ctx, "rabbitmq.consume_loop")
	span.SetAttributes(spanAttributes(r.exchange, r.routingKey)...)
	defer span.End()

	conn, err := amqp.Dial(r.url)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "dial failed")
		return fmt.Errorf("rabbitmq dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "channel failed")
		return fmt.Errorf("rabbitmq channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	queueName, err := declareQueue(ch, r.exchange, r.queue, r.routingKey)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "topology failed")
		return err
	}

	deliveries, err := ch.Consume(queueName, r.consumerTag, false, false, false, false, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "consume failed")
		return fmt.Errorf("rabbitmq consume: %w", err)
	}

	r.logger.Info("event consumer started",
		zap.String("exchange", r.exchange),
		zap.String("queue", queueName),
		zap.String("routing_key", r.routingKey),
	)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-deliveries:
			if !ok {
				span.SetStatus(codes.Error, "deliveries closed")
				return errors.New("rabbitmq deliveries closed")
			}
			if err := r.handleMessage(ctx, msg); err != nil {
				span.RecordError(err)
				return err
			}
		}
	}
}

func (r *Consumer) handleMessage(ctx context.Context, msg amqp.Delivery) error {
	ctx = otel.GetTextMapPropagator().Extract(ctx, amqpHeaderCarrier(msg.Headers))
	ctx, span := otel.Tracer("rabbitmq").Start(ctx, "rabbitmq.handle_message")
	span.SetAttributes(spanAttributes(r.exchange, msg.RoutingKey)...)
	if msg.MessageId != "" {
		span.SetAttributes(attribute.String("messaging.message_id", msg.MessageId))
	}
	defer span.End()

	handleCtx, cancel := context.WithTimeout(ctx, handleTimeout)
	defer cancel()

	var err error
	if events.Topic(msg.RoutingKey) == events.TopicAdminAlert {
		err = r.raiseAlert(handleCtx, msg.Body)
	} else {
		_, err = r.events.Handle(handleCtx, msg.RoutingKey, msg.Body)
	}
	if err == nil {
		return msg.Ack(false)
	}

	span.RecordError(err)
	if !retryable(err) {
		span.SetStatus(codes.Error, "message rejected")
		r.logger.Warn("rabbitmq message dropped",
			zap.String("topic", msg.RoutingKey),
			zap.Error(err),
		)
		return msg.Ack(false)
	}

	span.SetStatus(codes.Error, "create notification failed")
	r.logger.Error("rabbitmq create notification failed", zap.String("topic", msg.RoutingKey), zap.Error(err))
	if nackErr := msg.Nack(false, true); nackErr != nil {
		r.logger.Error("rabbitmq nack failed", zap.Error(nackErr))
	}
	return nil
}

// raiseAlert only reports an error worth a redelivery when no admin got the
// alert; a partial fan-out is acked so admins are not notified twice.
func (r *Consumer) raiseAlert(ctx context.Context, body []byte) error {
	var req alert.Request
	if err := json.Unmarshal(body, &req); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
	}
	created, err := r.alerts.Raise(ctx, req)
	if err != nil && len(created) > 0 {
		r.logger.Warn("admin alert partially delivered", zap.Int("created", len(created)), zap.Error(err))
		return nil
	}
	return err
}

// retryable reports whether redelivery could succeed. Malformed or unroutable
// input never will.
func retryable(err error) bool {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest),
		errors.Is(err, domain.ErrNoActiveAdmins):
		return false
	default:
		return true
	}
}
