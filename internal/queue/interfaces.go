package queue

import "context"

// Consumer blocks until ctx ends or the broker connection fails.
type Consumer interface {
	Start(ctx context.Context) error
}

// Publisher puts a raw event on the bus. routingKey is the event topic.
type Publisher interface {
	Publish(ctx context.Context, payload []byte, routingKey string) error
}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(ctx context.Context, payload []byte, routingKey string) error

func (f PublisherFunc) Publish(ctx context.Context, payload []byte, routingKey string) error {
	return f(ctx, payload, routingKey)
}
