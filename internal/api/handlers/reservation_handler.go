package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/ruangkita/reservation-service/internal/api/middleware"
	"github.com/ruangkita/reservation-service/internal/domain/entities"
	"github.com/ruangkita/reservation-service/internal/domain/repositories"
)

// ReservationService is the reservation surface used by the handler
type ReservationService interface {
	Create(ctx context.Context, reservation *entities.Reservation) error
	GetByID(ctx context.Context, id string) (*entities.Reservation, error)
	List(ctx context.Context, filter repositories.ReservationFilter) ([]*entities.Reservation, error)
	PendingCount(ctx context.Context) (int, error)
	Approve(ctx context.Context, id string) (*entities.Reservation, error)
	Reject(ctx context.Context, id, adminNote string) (*entities.Reservation, error)
	Cancel(ctx context.Context, id, requesterID string) error
}

// ReservationHandler handles reservation-related HTTP requests
type ReservationHandler struct {
	service ReservationService
}

// NewReservationHandler creates a new reservation handler
func NewReservationHandler(service ReservationService) *ReservationHandler {
	return &ReservationHandler{service: service}
}

type createReservationRequest struct {
	FacilityID string `json:"facility_id"`
	Date       string `json:"date"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	Purpose    string `json:"purpose"`
}

type rejectReservationRequest struct {
	AdminNote string `json:"admin_note"`
}

// CreateReservation handles POST /api/reservations
func (h *ReservationHandler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req createReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	reservation := &entities.Reservation{
		UserID:     claims.UserID,
		FacilityID: req.FacilityID,
		Date:       req.Date,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		Purpose:    req.Purpose,
	}

	if err := h.service.Create(r.Context(), reservation); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, reservation)
}

// ListReservations handles GET /api/reservations. Admins see every
// reservation; everyone else only their own.
func (h *ReservationHandler) ListReservations(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	query := r.URL.Query()
	filter := repositories.ReservationFilter{
		FacilityID: query.Get("facility_id"),
		Status:     entities.ReservationStatus(query.Get("status")),
		Limit:      parseIntParam(query.Get("limit"), 50),
		Offset:     parseIntParam(query.Get("offset"), 0),
	}

	if claims.Role == string(entities.RoleAdmin) {
		filter.UserID = query.Get("user_id")
	} else {
		filter.UserID = claims.UserID
	}

	reservations, err := h.service.List(r.Context(), filter)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to list reservations")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"reservations": reservations,
		"count":        len(reservations),
	})
}

// GetReservation handles GET /api/reservations/{id}
func (h *ReservationHandler) GetReservation(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	reservation, err := h.service.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	if claims.Role != string(entities.RoleAdmin) && reservation.UserID != claims.UserID {
		respondWithError(w, http.StatusNotFound, "reservation not found")
		return
	}

	respondWithJSON(w, http.StatusOK, reservation)
}

// PendingCount handles GET /api/reservations/pending-count
func (h *ReservationHandler) PendingCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.service.PendingCount(r.Context())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to count pending reservations")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"pending_count": count,
		"has_pending":   count > 0,
	})
}

// ApproveReservation handles POST /api/reservations/{id}/approve
func (h *ReservationHandler) ApproveReservation(w http.ResponseWriter, r *http.Request) {
	reservation, err := h.service.Approve(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, reservation)
}

// RejectReservation handles POST /api/reservations/{id}/reject
func (h *ReservationHandler) RejectReservation(w http.ResponseWriter, r *http.Request) {
	var req rejectReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	reservation, err := h.service.Reject(r.Context(), r.PathValue("id"), req.AdminNote)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, reservation)
}

// CancelReservation handles DELETE /api/reservations/{id}
func (h *ReservationHandler) CancelReservation(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	if err := h.service.Cancel(r.Context(), r.PathValue("id"), claims.UserID); err != nil {
		respondWithAppError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
