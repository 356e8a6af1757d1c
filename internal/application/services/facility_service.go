package services

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ruangkita/reservation-service/internal/domain/entities"
	"github.com/ruangkita/reservation-service/internal/domain/providers"
	"github.com/ruangkita/reservation-service/internal/domain/repositories"
	apperrors "github.com/ruangkita/reservation-service/pkg/errors"
)

// FacilityService handles business logic for facilities
type FacilityService struct {
	repo         repositories.FacilityRepository
	storage      providers.StorageProvider
	invalidation *CacheInvalidationService
}

// NewFacilityService creates a new facility service
func NewFacilityService(repo repositories.FacilityRepository, storage providers.StorageProvider, invalidation *CacheInvalidationService) *FacilityService {
	return &FacilityService{
		repo:         repo,
		storage:      storage,
		invalidation: invalidation,
	}
}

// Create creates a new facility
func (s *FacilityService) Create(ctx context.Context, facility *entities.Facility) error {
	if facility.Status == "" {
		facility.Status = entities.FacilityStatusAvailable
	}
	if err := validateFacility(facility); err != nil {
		return err
	}

	if facility.ID == "" {
		facility.ID = uuid.New().String()
	}
	if facility.Features == nil {
		facility.Features = []string{}
	}
	facility.CreatedAt = time.Now()

	if err := s.repo.Create(ctx, facility); err != nil {
		return err
	}

	s.invalidateCaches(ctx, facility.ID)
	return nil
}

// GetByID retrieves a facility by ID
func (s *FacilityService) GetByID(ctx context.Context, id string) (*entities.Facility, error) {
	return s.repo.GetByID(ctx, id)
}

// Update updates a facility
func (s *FacilityService) Update(ctx context.Context, facility *entities.Facility) error {
	if err := validateFacility(facility); err != nil {
		return err
	}
	if facility.Features == nil {
		facility.Features = []string{}
	}

	if err := s.repo.Update(ctx, facility); err != nil {
		return err
	}

	s.invalidateCaches(ctx, facility.ID)
	return nil
}

// Delete deletes a facility. Reservations referencing it are left in place.
// The stored image is removed best-effort after the row is gone.
func (s *FacilityService) Delete(ctx context.Context, id string) error {
	facility, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if s.storage != nil && facility.ImageURL != "" {
		if err := s.storage.Remove(ctx, facility.ImageURL); err != nil {
			log.Printf("Warning: failed to remove image for facility %s: %v", id, err)
		}
	}

	s.invalidateCaches(ctx, id)
	return nil
}

// List retrieves facilities
func (s *FacilityService) List(ctx context.Context, filter repositories.FacilityFilter) ([]*entities.Facility, error) {
	return s.repo.List(ctx, filter)
}

func (s *FacilityService) invalidateCaches(ctx context.Context, facilityID string) {
	if s.invalidation == nil {
		return
	}
	if err := s.invalidation.InvalidateFacilityCaches(ctx, facilityID); err != nil {
		log.Printf("Warning: failed to invalidate facility caches for %s: %v", facilityID, err)
	}
}

func validateFacility(facility *entities.Facility) error {
	if strings.TrimSpace(facility.Name) == "" {
		return apperrors.NewValidationError("facility name is required")
	}
	if facility.Capacity <= 0 {
		return apperrors.NewValidationError("facility capacity must be positive")
	}
	if strings.TrimSpace(facility.Location) == "" {
		return apperrors.NewValidationError("facility location is required")
	}
	if !entities.ValidFacilityStatus(facility.Status) {
		return apperrors.NewValidationError("invalid facility status")
	}
	return nil
}
