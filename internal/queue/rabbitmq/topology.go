package rabbitmq

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// prefetch bounds unacked deliveries per consumer; each one may hold a
// fan-out of up to three channel calls.
const prefetch = 10

func declareExchange(ch *amqp.Channel, exchange string) error {
	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		return fmt.Errorf("rabbitmq exchange declare %s: %w", exchange, err)
	}
	return nil
}

// declareQueue sets up the durable queue every domain topic is bound to and
// returns its server-side name.
func declareQueue(ch *amqp.Channel, exchange, queue, bindingKey string) (string, error) {
	if err := ch.Qos(prefetch, 0, false); err != nil {
		return "", fmt.Errorf("rabbitmq qos: %w", err)
	}
	if err := declareExchange(ch, exchange); err != nil {
		return "", err
	}
	q, err := ch.QueueDeclare(queue, true, false, false, false, nil)
	if err != nil {
		return "", fmt.Errorf("rabbitmq queue declare %s: %w", queue, err)
	}
	if err := ch.QueueBind(q.Name, bindingKey, exchange, false, nil); err != nil {
		return "", fmt.Errorf("rabbitmq queue bind %s -> %s: %w", bindingKey, exchange, err)
	}
	return q.Name, nil
}
