package handlers

import (
	"context"
	"net/http"
	"time"
)

type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

func (h *Handlers) AboutAuthor(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "about/author.html", nil)
}

func (h *Handlers) AboutTech(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "about/tech.html", nil)
}

func (h *Handlers) HealthHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.Health.HealthCheck(ctx); err != nil {
		h.Logger.Warn("проверка БД не пройдена", "error", err)
		writeJSON(w, HealthResponse{Status: "unavailable", Database: "unavailable"}, http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, HealthResponse{Status: "ok", Database: "ok"}, http.StatusOK)
}
