package messaging

import (
	"fmt"

	"github.com/matst80/slask-storefront/pkg/common/jsoncompat"
	"github.com/matst80/slask-storefront/pkg/logging"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

func DeclareBindAndConsume(ch *amqp.Channel, prefix string, topic ChangeTopic) (<-chan amqp.Delivery, error) {
	name := getName(prefix, topic)
	q, err := ch.QueueDeclare(
		"",    // name
		false, // durable
		false, // delete when unused
		true,  // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return nil, err
	}
	if err = ch.QueueBind(q.Name, name, name, false, nil); err != nil {
		return nil, err
	}
	return ch.Consume(
		q.Name,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
}

// ListenToTopic hands every delivery on topic to handler until the channel
// closes. Failed deliveries are rejected without requeue.
func ListenToTopic(ch *amqp.Channel, prefix string, topic ChangeTopic, logger *zap.Logger, handler func(amqp.Delivery) error) error {
	msgs, err := DeclareBindAndConsume(ch, prefix, topic)
	if err != nil {
		return err
	}
	logger = logging.OrNop(logger)
	go func() {
		defer ch.Close()
		for d := range msgs {
			if err := handler(d); err != nil {
				logger.Error("processing message", zap.String("topic", string(topic)), zap.Error(err))
				d.Nack(false, false)
				continue
			}
			d.Ack(false)
		}
		logger.Info("stopped listening", zap.String("topic", string(topic)))
	}()
	return nil
}

// ListenToChanges decodes each delivery on topic as V.
func ListenToChanges[V any](ch *amqp.Channel, prefix string, topic ChangeTopic, logger *zap.Logger, handler func(V) error) error {
	return ListenToTopic(ch, prefix, topic, logger, func(d amqp.Delivery) error {
		return decodeDelivery(d.Body, handler)
	})
}

func decodeDelivery[V any](body []byte, handler func(V) error) error {
	var change V
	if err := jsoncompat.Unmarshal(body, &change); err != nil {
		return fmt.Errorf("decode change: %w", err)
	}
	return handler(change)
}
