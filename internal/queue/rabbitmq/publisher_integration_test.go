//go:build integration

package rabbitmq

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

func TestPublisherIntegration(t *testing.T) {
	ctx := context.Background()
	cfg, cleanup := startBroker(t, ctx)
	defer cleanup()
	cfg.RabbitRoutingKey = "appointment.*"

	otel.SetTextMapPropagator(propagation.TraceContext{})
	provider := sdktrace.NewTracerProvider()
	defer func() { _ = provider.Shutdown(ctx) }()
	ctx, span := provider.Tracer("test").Start(ctx, "publish-test")
	defer span.End()

	publisher := NewPublisher(cfg, zap.NewNop())

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	require.NoError(t, err)
	defer conn.Close()

	ch, err := conn.Channel()
	require.NoError(t, err)
	defer ch.Close()

	queueName, err := declareQueue(ch, cfg.RabbitExchange, cfg.RabbitQueue, cfg.RabbitRoutingKey)
	require.NoError(t, err)

	deliveries, err := ch.Consume(queueName, "publisher-test", true, false, false, false, nil)
	require.NoError(t, err)

	payload := map[string]string{
		"appointment_id": "a-1",
		"patient_id":     "patient-1",
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	require.NoError(t, publisher.Publish(ctx, body, "appointment.confirmed"))
	// Not bound to appointment.*, must not arrive.
	require.NoError(t, publisher.Publish(ctx, body, "message.created"))

	select {
	case msg := <-deliveries:
		var got map[string]string
		require.NoError(t, json.Unmarshal(msg.Body, &got))
		require.Equal(t, "appointment.confirmed", msg.RoutingKey)
		require.Equal(t, "appointment.confirmed", msg.Type)
		require.NotEmpty(t, msg.MessageId)
		require.Equal(t, payload["patient_id"], got["patient_id"])
		require.Contains(t, amqpHeaderCarrier(msg.Headers).Get("traceparent"), span.SpanContext().TraceID().String())
	case <-time.After(5 * time.Second):
		t.Fatalf("timeout waiting for published message")
	}

	select {
	case msg := <-deliveries:
		t.Fatalf("unexpected delivery %s", msg.RoutingKey)
	case <-time.After(300 * time.Millisecond):
	}
}
