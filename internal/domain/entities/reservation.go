package entities

import (
	"fmt"
	"time"
)

// ReservationStatus represents the approval state of a reservation
type ReservationStatus string

const (
	ReservationStatusPending  ReservationStatus = "pending"
	ReservationStatusApproved ReservationStatus = "approved"
	ReservationStatusRejected ReservationStatus = "rejected"
)

// Bookable window bounds, inclusive on both ends. Times are zero-padded
// 24h "HH:MM" strings, so lexicographic comparison matches numeric order.
const (
	BookingWindowOpen  = "05:00"
	BookingWindowClose = "21:00"
)

// Fallback display names used when the joined row has been deleted.
// A facility may be removed while reservations referencing it still exist.
const (
	UnknownUserName     = "Unknown User"
	UnknownFacilityName = "Unknown Facility"
)

// Reservation represents a user's request to use a facility for a
// date and time range, subject to admin approval.
type Reservation struct {
	ID           string            `json:"id" db:"id"`
	UserID       string            `json:"user_id" db:"user_id"`
	UserName     string            `json:"user_name" db:"user_name"`
	FacilityID   string            `json:"facility_id" db:"facility_id"`
	FacilityName string            `json:"facility_name" db:"facility_name"`
	Date         string            `json:"date" db:"date"` // YYYY-MM-DD, local calendar date
	StartTime    string            `json:"start_time" db:"start_time"`
	EndTime      string            `json:"end_time" db:"end_time"`
	Purpose      string            `json:"purpose" db:"purpose"`
	Status       ReservationStatus `json:"status" db:"status"`
	AdminNote    string            `json:"admin_note,omitempty" db:"admin_note"`
	CreatedAt    time.Time         `json:"created_at" db:"created_at"`
}

// IsTerminal reports whether the status can no longer change
func (s ReservationStatus) IsTerminal() bool {
	return s == ReservationStatusApproved || s == ReservationStatusRejected
}

// InBookingWindow reports whether t lies inside the bookable window,
// boundary-inclusive on both ends.
func InBookingWindow(t string) bool {
	return t >= BookingWindowOpen && t <= BookingWindowClose
}

// ValidTimeRange reports whether start/end both fall inside the bookable
// window and start is strictly before end.
func ValidTimeRange(start, end string) bool {
	return InBookingWindow(start) && InBookingWindow(end) && start < end
}

// Overlaps reports whether the half-open ranges [aStart,aEnd) and
// [bStart,bEnd) intersect. Back-to-back bookings (one ending exactly when
// the other starts) do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd string) bool {
	return aStart < bEnd && bStart < aEnd
}

// FormatLocalDate renders t's calendar date as YYYY-MM-DD using its own
// wall-clock components. Normalizing to UTC first would shift the day for
// zones behind or ahead of it, so the components are taken as-is.
func FormatLocalDate(t time.Time) string {
	year, month, day := t.Date()
	return fmt.Sprintf("%04d-%02d-%02d", year, int(month), day)
}

// OverlapsReservation reports whether other occupies the same facility and
// date with an intersecting time range.
func (r *Reservation) OverlapsReservation(other *Reservation) bool {
	if r.FacilityID != other.FacilityID || r.Date != other.Date {
		return false
	}
	return Overlaps(r.StartTime, r.EndTime, other.StartTime, other.EndTime)
}

// HasPending reports whether at least one reservation in the collection is
// still pending. It is recomputed from the full snapshot on every refresh,
// never diffed.
func HasPending(reservations []*Reservation) bool {
	for _, r := range reservations {
		if r.Status == ReservationStatusPending {
			return true
		}
	}
	return false
}
