package service

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/unclebandit/hey-mailer/internal/config"
	"github.com/unclebandit/hey-mailer/internal/logger"
	"github.com/unclebandit/hey-mailer/internal/queue"
)

// ErrDeliveryFailed is returned by RandomSender when the draw fails.
var ErrDeliveryFailed = errors.New("mock sending failed")

// Message is what gets handed to a delivery backend.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender attempts delivery of one message. A nil error means sent.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SenderFunc adapts a plain function to Sender.
type SenderFunc func(ctx context.Context, msg Message) error

func (f SenderFunc) Send(ctx context.Context, msg Message) error {
	return f(ctx, msg)
}

// RandomSender simulates delivery: a draw below rate counts as sent.
type RandomSender struct {
	rate float64

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewRandomSender seeds from the clock when src is nil.
func NewRandomSender(rate float64, src rand.Source) *RandomSender {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	return &RandomSender{rate: rate, rnd: rand.New(src)}
}

func (s *RandomSender) Send(_ context.Context, _ Message) error {
	s.mu.Lock()
	r := s.rnd.Float64()
	s.mu.Unlock()

	if r < s.rate {
		return nil
	}
	return ErrDeliveryFailed
}

// QueueSender hands messages to a queue; a failed publish is a failed delivery.
// Only a synchronous queue reports relay failures back through Send. With
// RabbitMQ a successful publish counts as sent and the record stays sent even
// if the worker later fails to relay the job.
type QueueSender struct {
	Queue queue.Queue
	Topic string
}

func NewQueueSender(q queue.Queue, topic string) *QueueSender {
	if topic == "" {
		topic = queue.DeliveryTopic
	}
	return &QueueSender{Queue: q, Topic: topic}
}

func (s *QueueSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.Queue.Publish(s.Topic, queue.DeliveryJob{
		To:      msg.To,
		Subject: msg.Subject,
		Body:    msg.Body,
	})
}

// NewConfiguredSender builds the delivery backend named by cfg.DeliveryBackend.
// The returned func releases the backend.
func NewConfiguredSender(cfg *config.Config, log *logrus.Logger) (Sender, func(), error) {
	switch cfg.DeliveryBackend {
	case config.BackendQueue:
		q, err := queue.DialAMQP(cfg.AMQPURL, logger.Named(log, "amqp"))
		if err != nil {
			return nil, nil, err
		}
		log.WithField("queue", cfg.AMQPQueue).Info("delivering through rabbitmq")
		return NewQueueSender(q, cfg.AMQPQueue), func() { _ = q.Close() }, nil
	default:
		log.WithField("success_rate", cfg.DeliverySuccessRate).Info("simulating delivery")
		return NewRandomSender(cfg.DeliverySuccessRate, nil), func() {}, nil
	}
}
