package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/unclebandit/hey-mailer/internal/queue"
)

// Worker processes delivery jobs taken off the queue.
type Worker struct {
	Sender Sender
	Log    *logrus.Logger
}

// Constructor
func NewWorker(sender Sender, log *logrus.Logger) *Worker {
	return &Worker{Sender: sender, Log: log}
}

// Handler adapts Process to a queue subscription.
func (w *Worker) Handler(ctx context.Context) func(job queue.DeliveryJob) error {
	return func(job queue.DeliveryJob) error {
		return w.Process(ctx, job)
	}
}

// Process hands one job to the sender. Failures are reported, never retried.
func (w *Worker) Process(ctx context.Context, job queue.DeliveryJob) error {
	entry := w.Log.WithField("to", job.To)
	err := w.Sender.Send(ctx, Message{To: job.To, Subject: job.Subject, Body: job.Body})
	if err != nil {
		entry.WithError(err).Warn("relay failed")
		return err
	}
	entry.Info("relayed")
	return nil
}

// LogSender stands in for a real transport and only logs the message.
type LogSender struct {
	Log *logrus.Logger
}

func (s LogSender) Send(_ context.Context, msg Message) error {
	s.Log.WithFields(logrus.Fields{
		"to":      msg.To,
		"subject": msg.Subject,
	}).Debug(msg.Body)
	return nil
}
