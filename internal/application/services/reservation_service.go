package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ruangkita/reservation-service/internal/domain/entities"
	"github.com/ruangkita/reservation-service/internal/domain/providers"
	"github.com/ruangkita/reservation-service/internal/domain/repositories"
	apperrors "github.com/ruangkita/reservation-service/pkg/errors"
)

// ReservationService handles the reservation lifecycle
type ReservationService struct {
	repo         repositories.ReservationRepository
	facilityRepo repositories.FacilityRepository
	eventBus     providers.EventBus
}

// NewReservationService creates a new reservation service
func NewReservationService(
	repo repositories.ReservationRepository,
	facilityRepo repositories.FacilityRepository,
	eventBus providers.EventBus,
) *ReservationService {
	return &ReservationService{
		repo:         repo,
		facilityRepo: facilityRepo,
		eventBus:     eventBus,
	}
}

// Create creates a new reservation in the pending state
func (s *ReservationService) Create(ctx context.Context, reservation *entities.Reservation) error {
	if err := validateReservationRequest(reservation); err != nil {
		return err
	}

	facility, err := s.facilityRepo.GetByID(ctx, reservation.FacilityID)
	if err != nil {
		return err
	}
	if facility.Status != entities.FacilityStatusAvailable {
		return apperrors.NewConflictError("facility is not available for booking")
	}

	approved, err := s.repo.ListApprovedForSlot(ctx, reservation.FacilityID, reservation.Date)
	if err != nil {
		return err
	}
	for _, other := range approved {
		if reservation.OverlapsReservation(other) {
			return apperrors.NewConflictError("the requested time overlaps an approved reservation")
		}
	}

	if reservation.ID == "" {
		reservation.ID = uuid.New().String()
	}
	reservation.Status = entities.ReservationStatusPending
	reservation.AdminNote = ""
	reservation.CreatedAt = time.Now()

	if err := s.repo.Create(ctx, reservation); err != nil {
		return err
	}

	s.publishChange(ctx, reservation, entities.ReservationEventInsert)
	return nil
}

// GetByID retrieves a reservation by ID
func (s *ReservationService) GetByID(ctx context.Context, id string) (*entities.Reservation, error) {
	return s.repo.GetByID(ctx, id)
}

// List retrieves reservations
func (s *ReservationService) List(ctx context.Context, filter repositories.ReservationFilter) ([]*entities.Reservation, error) {
	return s.repo.List(ctx, filter)
}

// PendingCount returns the number of reservations awaiting review
func (s *ReservationService) PendingCount(ctx context.Context) (int, error) {
	pending, err := s.repo.List(ctx, repositories.ReservationFilter{
		Status: entities.ReservationStatusPending,
	})
	if err != nil {
		return 0, err
	}
	return len(pending), nil
}

// Approve moves a pending reservation to approved. Approving an already
// approved reservation is a no-op; a rejected one cannot be revived. The
// slot must not overlap any other approved reservation.
func (s *ReservationService) Approve(ctx context.Context, id string) (*entities.Reservation, error) {
	reservation, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch reservation.Status {
	case entities.ReservationStatusApproved:
		return reservation, nil
	case entities.ReservationStatusRejected:
		return nil, apperrors.NewConflictError("reservation has already been rejected")
	}

	approved, err := s.repo.ListApprovedForSlot(ctx, reservation.FacilityID, reservation.Date)
	if err != nil {
		return nil, err
	}
	for _, other := range approved {
		if other.ID != reservation.ID && reservation.OverlapsReservation(other) {
			return nil, apperrors.NewConflictError("an approved reservation already occupies this time")
		}
	}

	if err := s.repo.UpdateStatus(ctx, id, entities.ReservationStatusApproved, reservation.AdminNote); err != nil {
		return nil, err
	}

	reservation.Status = entities.ReservationStatusApproved
	s.publishChange(ctx, reservation, entities.ReservationEventUpdate)
	return reservation, nil
}

// Reject moves a pending reservation to rejected. The admin note is
// mandatory and checked before any store call; rejecting an already
// rejected reservation is a no-op.
func (s *ReservationService) Reject(ctx context.Context, id, adminNote string) (*entities.Reservation, error) {
	adminNote = strings.TrimSpace(adminNote)
	if adminNote == "" {
		return nil, apperrors.NewValidationError("a reason is required to reject a reservation")
	}

	reservation, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch reservation.Status {
	case entities.ReservationStatusRejected:
		return reservation, nil
	case entities.ReservationStatusApproved:
		return nil, apperrors.NewConflictError("reservation has already been approved")
	}

	if err := s.repo.UpdateStatus(ctx, id, entities.ReservationStatusRejected, adminNote); err != nil {
		return nil, err
	}

	reservation.Status = entities.ReservationStatusRejected
	reservation.AdminNote = adminNote
	s.publishChange(ctx, reservation, entities.ReservationEventUpdate)
	return reservation, nil
}

// Cancel deletes a reservation. Only the owner may cancel, and only while
// the reservation is still pending.
func (s *ReservationService) Cancel(ctx context.Context, id, requesterID string) error {
	reservation, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if reservation.UserID != requesterID {
		return apperrors.NewUnauthorizedError("only the owner can cancel a reservation")
	}
	if reservation.Status != entities.ReservationStatusPending {
		return apperrors.NewConflictError("only pending reservations can be cancelled")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.publishChange(ctx, reservation, entities.ReservationEventDelete)
	return nil
}

func (s *ReservationService) publishChange(ctx context.Context, reservation *entities.Reservation, eventType entities.ReservationEventType) {
	if s.eventBus == nil {
		return
	}
	event := entities.NewReservationEvent(reservation, eventType)
	if err := s.eventBus.Publish(ctx, providers.EventChannelReservationChanges, event); err != nil {
		log.Printf("Warning: failed to publish %s event for reservation %s: %v", eventType, reservation.ID, err)
	}
}

func validateReservationRequest(reservation *entities.Reservation) error {
	if reservation.UserID == "" {
		return apperrors.NewValidationError("user is required")
	}
	if reservation.FacilityID == "" {
		return apperrors.NewValidationError("facility is required")
	}
	if strings.TrimSpace(reservation.Purpose) == "" {
		return apperrors.NewValidationError("purpose is required")
	}
	if reservation.Date == "" || reservation.StartTime == "" || reservation.EndTime == "" {
		return apperrors.NewValidationError("date, start time and end time are required")
	}
	if _, err := time.Parse("2006-01-02", reservation.Date); err != nil {
		return apperrors.NewValidationError("date must be in YYYY-MM-DD format")
	}
	if !entities.InBookingWindow(reservation.StartTime) || !entities.InBookingWindow(reservation.EndTime) {
		return apperrors.NewValidationError(fmt.Sprintf(
			"reservations must fall between %s and %s",
			entities.BookingWindowOpen, entities.BookingWindowClose,
		))
	}
	if reservation.StartTime >= reservation.EndTime {
		return apperrors.NewValidationError("start time must be before end time")
	}
	return nil
}
