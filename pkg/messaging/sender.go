package messaging

import (
	"context"
	"fmt"

	"github.com/matst80/slask-storefront/pkg/common/jsoncompat"
	amqp "github.com/rabbitmq/amqp091-go"
)

func DefineTopic(ch *amqp.Channel, prefix string, topic ChangeTopic) error {
	name := getName(prefix, topic)
	if err := ch.ExchangeDeclare(
		name,    // name
		"topic", // type
		true,    // durable
		false,   // auto-delete
		false,   // internal
		false,   // noWait
		nil,     // arguments
	); err != nil {
		return fmt.Errorf("declare exchange %s: %w", name, err)
	}
	if _, err := ch.QueueDeclare(
		name,  // name of the queue
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // noWait
		nil,   // arguments
	); err != nil {
		return fmt.Errorf("declare queue %s: %w", name, err)
	}
	return nil
}

func getName(prefix string, topic ChangeTopic) string {
	return fmt.Sprintf("%s_%s", prefix, topic)
}

// SendChanges publishes every item as its own JSON message on one channel.
func SendChanges[V any](ctx context.Context, c *amqp.Connection, prefix string, topic ChangeTopic, items ...V) error {
	ch, err := c.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()
	name := getName(prefix, topic)
	for _, item := range items {
		body, err := jsoncompat.Marshal(item)
		if err != nil {
			return err
		}
		if err := ch.PublishWithContext(ctx,
			name,
			name,
			false,
			false,
			amqp.Publishing{
				ContentType: "application/json",
				Body:        body,
			},
		); err != nil {
			return fmt.Errorf("publish to %s: %w", name, err)
		}
	}
	return nil
}
