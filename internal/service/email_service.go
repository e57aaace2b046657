package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/unclebandit/hey-mailer/internal/metrics"
	"github.com/unclebandit/hey-mailer/internal/model"
	"github.com/unclebandit/hey-mailer/internal/repository"
)

type EmailService struct {
	Repo    repository.EmailRepositoryInterface
	Sender  Sender
	Metrics *metrics.Metrics
	Log     *logrus.Logger
}

func NewEmailService(repo repository.EmailRepositoryInterface, sender Sender, m *metrics.Metrics, log *logrus.Logger) *EmailService {
	return &EmailService{
		Repo:    repo,
		Sender:  sender,
		Metrics: m,
		Log:     log,
	}
}

// SendEmail attempts delivery of the fixed "hey" email and records the outcome.
// A failed delivery is a normal result; only validation and store failures are errors.
func (s *EmailService) SendEmail(ctx context.Context, address string) (*model.SendEmailResponse, error) {
	if err := ValidateEmail(address); err != nil {
		return nil, err
	}

	entry := s.Log.WithField("email", address)

	msg := Message{To: address, Subject: model.DefaultSubject, Body: model.DefaultBody}
	status := model.StatusSent
	if err := s.Sender.Send(ctx, msg); err != nil {
		entry.WithError(err).Warn("email delivery failed")
		status = model.StatusFailed
	}

	record := &model.Email{
		Email:   address,
		Subject: msg.Subject,
		Body:    msg.Body,
		Status:  status,
	}
	if err := s.Repo.Create(ctx, record); err != nil {
		entry.WithError(err).Error("failed to record email")
		return nil, err
	}
	s.Metrics.ObserveSubmission(status)

	entry.WithFields(logrus.Fields{"email_id": record.ID, "status": status}).Info("email recorded")

	id := record.ID
	resp := &model.SendEmailResponse{EmailID: &id}
	if status == model.StatusSent {
		resp.Success = true
		resp.Message = model.MessageSent
	} else {
		resp.Message = model.MessageFailed
	}
	return resp, nil
}

// GetEmails returns every recorded email in insertion order.
func (s *EmailService) GetEmails(ctx context.Context) ([]model.Email, error) {
	emails, err := s.Repo.ListAll(ctx)
	if err != nil {
		s.Log.WithError(err).Error("failed to get emails")
		return nil, err
	}
	return emails, nil
}
