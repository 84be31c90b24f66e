package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"microblog/internal/logger"
)

func writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// NotFound renders the custom 404 page. It is also the router's fallback handler.
func (h *Handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusNotFound, "core/404.html", nil)
}

func (h *Handlers) serverError(w http.ResponseWriter, r *http.Request, err error) {
	logger.FromContext(r.Context(), h.Logger).Error("ошибка обработки запроса",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Any("error", err),
	)
	h.render(w, r, http.StatusInternalServerError, "core/500.html", nil)
}
