//go:build integration

package rabbitmq

import (
	"context"
	"fmt"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"notifyd/internal/config"
)

const brokerImage = "rabbitmq:3.12-alpine"

// startBroker runs a throwaway broker and returns a config pointing at it.
func startBroker(t require.TestingT, ctx context.Context) (*config.Config, func()) {
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        brokerImage,
			ExposedPorts: []string{"5672/tcp"},
			WaitingFor:   wait.ForLog("Server startup complete").WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5672/tcp")
	require.NoError(t, err)

	cfg := &config.Config{
		RabbitMQURL:       fmt.Sprintf("amqp://guest:guest@%s:%s/", host, port.Port()),
		RabbitExchange:    "domain.events",
		RabbitQueue:       "notifyd.events.test",
		RabbitRoutingKey:  "#",
		RabbitConsumerTag: "notifyd-test",
	}
	return cfg, func() { _ = container.Terminate(ctx) }
}
