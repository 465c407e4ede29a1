package handlers

import (
	"database/sql"
	"net/http"

	"github.com/shelfmetrics/stockwatch/internal/pkg/errors"
	"github.com/shelfmetrics/stockwatch/internal/pkg/utils"
)

type HealthHandler struct {
	db *sql.DB
}

func NewHealthHandler(db *sql.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Healthz reports process liveness
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readyz reports readiness, including store connectivity
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	if err := h.db.PingContext(r.Context()); err != nil {
		utils.WriteError(w, errors.ServiceUnavailable("Database not reachable"))
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
