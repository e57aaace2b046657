package queue

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/streadway/amqp"
)

// AMQPQueue publishes and consumes delivery jobs on durable RabbitMQ queues.
// Topics map one to one onto queue names.
type AMQPQueue struct {
	conn *amqp.Connection
	ch   *amqp.Channel
	log  *logrus.Logger

	mu       sync.Mutex
	declared map[string]bool
}

func DialAMQP(url string, log *logrus.Logger) (*AMQPQueue, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	return &AMQPQueue{
		conn:     conn,
		ch:       ch,
		log:      log,
		declared: map[string]bool{},
	}, nil
}

func (q *AMQPQueue) declare(topic string) error {
	if q.declared[topic] {
		return nil
	}
	_, err := q.ch.QueueDeclare(
		topic,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("declare queue %s: %w", topic, err)
	}
	q.declared[topic] = true
	return nil
}

func (q *AMQPQueue) Publish(topic string, job DeliveryJob) error {
	body, err := encodeJob(job)
	if err != nil {
		return err
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if err := q.declare(topic); err != nil {
		return err
	}
	err = q.ch.Publish("", topic, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}
	return nil
}

// Subscribe consumes topic in the background. Handler failures are dropped, not requeued.
func (q *AMQPQueue) Subscribe(topic string, handler func(job DeliveryJob) error) error {
	q.mu.Lock()
	err := q.declare(topic)
	var msgs <-chan amqp.Delivery
	if err == nil {
		msgs, err = q.ch.Consume(topic, "", false, false, false, false, nil)
	}
	q.mu.Unlock()
	if err != nil {
		return fmt.Errorf("consume %s: %w", topic, err)
	}

	go consume(msgs, handler, q.log)
	return nil
}

// consume settles each delivery once: invalid bodies are acked and dropped,
// handler failures are nacked without requeue.
func consume(msgs <-chan amqp.Delivery, handler func(job DeliveryJob) error, log *logrus.Logger) {
	for d := range msgs {
		entry := log.WithField("message_id", d.MessageId)

		job, err := decodeJob(d.Body)
		if err != nil {
			entry.WithError(err).Warn("dropping invalid delivery job")
			_ = d.Ack(false)
			continue
		}
		if err := handler(job); err != nil {
			entry.WithError(err).Error("delivery job failed")
			_ = d.Nack(false, false)
			continue
		}
		_ = d.Ack(false)
	}
}

// NotifyClose reports when the broker connection goes away.
func (q *AMQPQueue) NotifyClose() <-chan *amqp.Error {
	return q.conn.NotifyClose(make(chan *amqp.Error, 1))
}

func (q *AMQPQueue) Close() error {
	_ = q.ch.Close()
	return q.conn.Close()
}
