package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

const DeliveryTopic = "email_deliveries"

// Queue interface
type Queue interface {
	Publish(topic string, job DeliveryJob) error
	Subscribe(topic string, handler func(job DeliveryJob) error) error
}

// DeliveryJob is one email handed off for delivery.
type DeliveryJob struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

func encodeJob(job DeliveryJob) ([]byte, error) {
	return json.Marshal(job)
}

func decodeJob(body []byte) (DeliveryJob, error) {
	var job DeliveryJob
	if err := json.Unmarshal(body, &job); err != nil {
		return job, fmt.Errorf("decode delivery job: %w", err)
	}
	if job.To == "" {
		return job, errors.New("decode delivery job: missing recipient")
	}
	return job, nil
}

// InMemoryQueue delivers jobs to subscribers synchronously, without retries.
type InMemoryQueue struct {
	mu       sync.Mutex
	handlers map[string][]func(job DeliveryJob) error
}

// NewInMemoryQueue creates a new queue
func NewInMemoryQueue() *InMemoryQueue {
	return &InMemoryQueue{
		handlers: make(map[string][]func(job DeliveryJob) error),
	}
}

// Publish sends a job to all subscribers and reports their failures.
func (q *InMemoryQueue) Publish(topic string, job DeliveryJob) error {
	q.mu.Lock()
	handlers := append([]func(job DeliveryJob) error(nil), q.handlers[topic]...)
	q.mu.Unlock()

	if len(handlers) == 0 {
		return fmt.Errorf("no subscribers for topic %s", topic)
	}

	var errs []error
	for _, handler := range handlers {
		if err := handler(job); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Subscribe adds a handler for a topic
func (q *InMemoryQueue) Subscribe(topic string, handler func(job DeliveryJob) error) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.handlers[topic] = append(q.handlers[topic], handler)
	return nil
}
