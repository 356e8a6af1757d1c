package entities

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// ReservationEventType represents the kind of change observed on the
// reservations collection
type ReservationEventType string

const (
	ReservationEventInsert ReservationEventType = "insert"
	ReservationEventUpdate ReservationEventType = "update"
	ReservationEventDelete ReservationEventType = "delete"
)

// ReservationEvent signals a row-level change in the reservations table.
// Consumers use it only as a re-fetch trigger; the payload fields are
// informational and carry no authoritative state.
type ReservationEvent struct {
	ID            string               `json:"id"`
	ReservationID string               `json:"reservation_id"`
	FacilityID    string               `json:"facility_id"`
	UserID        string               `json:"user_id"`
	EventType     ReservationEventType `json:"event_type"`
	Status        ReservationStatus    `json:"status,omitempty"`
	Timestamp     time.Time            `json:"timestamp"`
}

// NewReservationEvent creates a new reservation change event
func NewReservationEvent(r *Reservation, eventType ReservationEventType) *ReservationEvent {
	return &ReservationEvent{
		ID:            generateEventID(),
		ReservationID: r.ID,
		FacilityID:    r.FacilityID,
		UserID:        r.UserID,
		EventType:     eventType,
		Status:        r.Status,
		Timestamp:     time.Now(),
	}
}

// generateEventID generates a unique event ID
func generateEventID() string {
	return time.Now().Format("20060102150405") + "-" + randomString(8)
}

// randomString generates a random string of specified length
func randomString(length int) string {
	bytes := make([]byte, length/2+1)
	if _, err := rand.Read(bytes); err != nil {
		// Fallback to timestamp-based if crypto/rand fails
		return time.Now().Format("150405.000")
	}
	return hex.EncodeToString(bytes)[:length]
}
