package entities

import (
	"time"
)

// AlertType represents the severity of a user-facing alert
type AlertType string

const (
	AlertTypeSuccess AlertType = "success"
	AlertTypeError   AlertType = "error"
)

// Alert is a one-shot user-facing notification raised when a reservation's
// status changes. Each pending→approved or pending→rejected edge produces
// exactly one alert for the owning user.
type Alert struct {
	ID            string    `json:"id" db:"id"`
	UserID        string    `json:"user_id" db:"user_id"`
	ReservationID string    `json:"reservation_id" db:"reservation_id"`
	Type          AlertType `json:"type" db:"alert_type"`
	Message       string    `json:"message" db:"message"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// AdminUpdate is the level-triggered payload pushed to the admin stream
// after every snapshot refresh.
type AdminUpdate struct {
	HasPending   bool      `json:"has_pending"`
	PendingCount int       `json:"pending_count"`
	Timestamp    time.Time `json:"timestamp"`
}

// StatusChange captures one observed status edge for a reservation between
// two consecutive snapshots.
type StatusChange struct {
	Reservation *Reservation
	From        ReservationStatus
	To          ReservationStatus
}

// DiffStatuses compares the current reservation snapshot against the last
// observed status per reservation id and returns the edges where a pending
// reservation reached a terminal state. Reservations with no previous
// observation produce no change; their status is simply recorded by the
// caller for the next pass.
func DiffStatuses(prev map[string]ReservationStatus, curr []*Reservation) []StatusChange {
	var changes []StatusChange
	for _, r := range curr {
		last, seen := prev[r.ID]
		if !seen {
			continue
		}
		if last == ReservationStatusPending && r.Status != ReservationStatusPending {
			changes = append(changes, StatusChange{Reservation: r, From: last, To: r.Status})
		}
	}
	return changes
}

// SnapshotStatuses builds the status-by-id map for a reservation snapshot.
// Overwriting the previous map wholesale guarantees each transition fires
// exactly once across repeated refreshes.
func SnapshotStatuses(curr []*Reservation) map[string]ReservationStatus {
	snap := make(map[string]ReservationStatus, len(curr))
	for _, r := range curr {
		snap[r.ID] = r.Status
	}
	return snap
}
