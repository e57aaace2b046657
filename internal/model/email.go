// internal/model/email.go
package model

import "time"

// Fixed content of every email this service sends.
const (
	DefaultSubject = "hey"
	DefaultBody    = "Hey there!"
)

// Status is the outcome recorded for a send attempt.
type Status string

const (
	StatusSent   Status = "sent"
	StatusFailed Status = "failed"
)

func (s Status) Valid() bool {
	return s == StatusSent || s == StatusFailed
}

// Email is one persisted send attempt. Rows are never updated or deleted.
type Email struct {
	ID      int64     `db:"id" json:"id"`
	Email   string    `db:"email" json:"email"`
	Subject string    `db:"subject" json:"subject"`
	Body    string    `db:"body" json:"body"`
	SentAt  time.Time `db:"sent_at" json:"sent_at"`
	Status  Status    `db:"status" json:"status"`
}

type SendEmailInput struct {
	Email string `json:"email"`
}

type SendEmailResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	EmailID *int64 `json:"emailId,omitempty"`
}

// Response messages returned by sendEmail.
const (
	MessageSent   = "Email sent successfully"
	MessageFailed = "Failed to send email"
)
