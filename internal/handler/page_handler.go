// internal/handler/page_handler.go
package handler

import (
	"context"
	"embed"
	"encoding/json"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

//go:embed static/index.html
var static embed.FS

// Pinger reports whether the record store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PageHandler serves the submission form and the readiness probe.
type PageHandler struct {
	Store Pinger
	Log   *logrus.Logger
}

func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	page, err := static.ReadFile("static/index.html")
	if err != nil {
		h.Log.WithError(err).Error("index page missing")
		http.Error(w, "page unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

func (h *PageHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status, code := "ok", http.StatusOK
	if err := h.Store.Ping(ctx); err != nil {
		h.Log.WithError(err).Warn("health check failed")
		status, code = "unavailable", http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": status})
}
