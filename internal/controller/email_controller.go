// internal/controller/email_controller.go
package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	apperrors "github.com/unclebandit/hey-mailer/internal/errors"
	"github.com/unclebandit/hey-mailer/internal/model"
)

// Generic messages shown when the store fails; the cause is only logged.
const (
	sendRetryMessage = "Failed to send email. Please try again."
	listRetryMessage = "Failed to get emails. Please try again."
)

// EmailService is what the controller needs from the service layer.
type EmailService interface {
	SendEmail(ctx context.Context, address string) (*model.SendEmailResponse, error)
	GetEmails(ctx context.Context) ([]model.Email, error)
}

type EmailController struct {
	EmailService EmailService
	Log          *logrus.Logger
}

// Routes mounts both procedures under their REST and RPC names.
func (c *EmailController) Routes(r chi.Router) {
	r.Post("/emails", c.SendEmail)
	r.Get("/emails", c.GetEmails)
	r.Post("/rpc/sendEmail", c.SendEmail)
	r.Get("/rpc/getEmails", c.GetEmails)
}

func (c *EmailController) SendEmail(w http.ResponseWriter, r *http.Request) {
	var body model.SendEmailInput
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	resp, err := c.EmailService.SendEmail(r.Context(), body.Email)
	if err != nil {
		var verr *apperrors.ValidationError
		if errors.As(err, &verr) {
			writeError(w, http.StatusBadRequest, verr.Error())
			return
		}
		c.Log.WithError(err).Error("send email failed")
		writeError(w, http.StatusInternalServerError, sendRetryMessage)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (c *EmailController) GetEmails(w http.ResponseWriter, r *http.Request) {
	emails, err := c.EmailService.GetEmails(r.Context())
	if err != nil {
		c.Log.WithError(err).Error("get emails failed")
		writeError(w, http.StatusInternalServerError, listRetryMessage)
		return
	}

	writeJSON(w, http.StatusOK, emails)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
