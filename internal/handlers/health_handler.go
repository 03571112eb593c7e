package handlers

import (
	"context"
	"net/http"
	"time"

	"mindbridge/internal/database"
	"mindbridge/internal/service"
)

// HealthHandler reports service liveness
type HealthHandler struct {
	db    *database.DB
	games *service.GameService
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db *database.DB, games *service.GameService) *HealthHandler {
	return &HealthHandler{db: db, games: games}
}

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Sessions int    `json:"sessions"`
}

// Healthz pings the database and reports the number of live sessions
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := healthResponse{Status: "ok", Database: "ok", Sessions: h.games.Count()}
	status := http.StatusOK
	if err := h.db.PingContext(ctx); err != nil {
		resp.Status = "degraded"
		resp.Database = err.Error()
		status = http.StatusServiceUnavailable
	}
	respondWithJSON(w, status, resp)
}
