package handlers

import (
	"context"
	"net/http"

	"github.com/ruangkita/reservation-service/internal/api/middleware"
	"github.com/ruangkita/reservation-service/internal/domain/entities"
)

// AlertStore is the alert history surface used by the handler
type AlertStore interface {
	ListByUser(ctx context.Context, userID string, limit int) ([]*entities.Alert, error)
}

// AlertHandler serves a user's alert history
type AlertHandler struct {
	store AlertStore
}

// NewAlertHandler creates a new alert handler
func NewAlertHandler(store AlertStore) *AlertHandler {
	return &AlertHandler{store: store}
}

// ListAlerts handles GET /api/alerts. Alerts are always scoped to the
// authenticated user; the live stream covers connected clients, this covers
// everyone else.
func (h *AlertHandler) ListAlerts(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	limit := parseIntParam(r.URL.Query().Get("limit"), 50)

	alerts, err := h.store.ListByUser(r.Context(), claims.UserID, limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to list alerts")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"alerts": alerts,
		"count":  len(alerts),
	})
}
