package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/unclebandit/hey-mailer/internal/logger"
)

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

func TestIndexServesForm(t *testing.T) {
	h := &PageHandler{Store: stubPinger{}, Log: logger.Discard()}
	w := httptest.NewRecorder()

	h.Index(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), `id="email"`)
	assert.Contains(t, w.Body.String(), "/rpc/sendEmail")
}

func TestHealthz(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
		body string
	}{
		{"healthy", nil, http.StatusOK, `{"status":"ok"}`},
		{"store down", errors.New("refused"), http.StatusServiceUnavailable, `{"status":"unavailable"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &PageHandler{Store: stubPinger{err: tt.err}, Log: logger.Discard()}
			w := httptest.NewRecorder()

			h.Healthz(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

			assert.Equal(t, tt.code, w.Code)
			assert.JSONEq(t, tt.body, w.Body.String())
		})
	}
}
