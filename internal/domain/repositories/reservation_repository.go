package repositories

import (
	"context"

	"github.com/ruangkita/reservation-service/internal/domain/entities"
)

// ReservationRepository defines the interface for reservation data operations.
// Reads join the owning profile and facility names; a deleted facility or
// profile yields the fallback display name rather than an error.
type ReservationRepository interface {
	// Create creates a new reservation
	Create(ctx context.Context, reservation *entities.Reservation) error

	// GetByID retrieves a reservation by ID
	GetByID(ctx context.Context, id string) (*entities.Reservation, error)

	// UpdateStatus sets the status and admin note of a reservation
	UpdateStatus(ctx context.Context, id string, status entities.ReservationStatus, adminNote string) error

	// Delete deletes a reservation
	Delete(ctx context.Context, id string) error

	// List retrieves reservations with filters, newest first
	List(ctx context.Context, filter ReservationFilter) ([]*entities.Reservation, error)

	// ListApprovedForSlot retrieves approved reservations on a facility and
	// date, for overlap checks
	ListApprovedForSlot(ctx context.Context, facilityID, date string) ([]*entities.Reservation, error)
}

// ReservationFilter defines filters for listing reservations
type ReservationFilter struct {
	UserID     string
	FacilityID string
	Status     entities.ReservationStatus
	Limit      int
	Offset     int
}
