package entities

import (
	"time"
)

// FacilityStatus represents the availability status of a facility
type FacilityStatus string

const (
	FacilityStatusAvailable   FacilityStatus = "available"
	FacilityStatusUnavailable FacilityStatus = "unavailable"
	FacilityStatusMaintenance FacilityStatus = "maintenance"
)

// Facility represents a bookable campus facility
type Facility struct {
	ID          string         `json:"id" db:"id"`
	Name        string         `json:"name" db:"name"`
	Capacity    int            `json:"capacity" db:"capacity"`
	Location    string         `json:"location" db:"location"`
	Status      FacilityStatus `json:"status" db:"status"`
	Description string         `json:"description" db:"description"`
	ImageURL    string         `json:"image_url" db:"image_url"`
	Features    []string       `json:"features" db:"-"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
}

// ValidFacilityStatus reports whether s is one of the known facility statuses
func ValidFacilityStatus(s FacilityStatus) bool {
	switch s {
	case FacilityStatusAvailable, FacilityStatusUnavailable, FacilityStatusMaintenance:
		return true
	}
	return false
}
