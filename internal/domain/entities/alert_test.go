package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiffStatuses_PendingToApproved(t *testing.T) {
	prev := map[string]ReservationStatus{"r1": ReservationStatusPending}
	curr := []*Reservation{{ID: "r1", Status: ReservationStatusApproved}}

	changes := DiffStatuses(prev, curr)
	require.Len(t, changes, 1)
	assert.Equal(t, ReservationStatusPending, changes[0].From)
	assert.Equal(t, ReservationStatusApproved, changes[0].To)
}

func TestDiffStatuses_FiresExactlyOnce(t *testing.T) {
	// Status sequence pending, pending, approved across three refreshes
	// must produce exactly one change, at the edge.
	statuses := []ReservationStatus{
		ReservationStatusPending,
		ReservationStatusPending,
		ReservationStatusApproved,
	}

	prev := map[string]ReservationStatus{}
	total := 0
	for _, status := range statuses {
		curr := []*Reservation{{ID: "r1", Status: status}}
		total += len(DiffStatuses(prev, curr))
		prev = SnapshotStatuses(curr)
	}

	assert.Equal(t, 1, total, "exactly one change across the sequence")

	// A further refresh with no movement stays quiet
	curr := []*Reservation{{ID: "r1", Status: ReservationStatusApproved}}
	assert.Empty(t, DiffStatuses(prev, curr))
}

func TestDiffStatuses_UnseenReservation(t *testing.T) {
	// A reservation first observed in a terminal state produces no change;
	// only movement between snapshots counts.
	curr := []*Reservation{
		{ID: "new-1", Status: ReservationStatusApproved},
		{ID: "new-2", Status: ReservationStatusPending},
	}

	assert.Empty(t, DiffStatuses(map[string]ReservationStatus{}, curr))
}

func TestDiffStatuses_RejectionCarriesReservation(t *testing.T) {
	prev := map[string]ReservationStatus{"r1": ReservationStatusPending}
	curr := []*Reservation{{
		ID:        "r1",
		Status:    ReservationStatusRejected,
		AdminNote: "double booked",
	}}

	changes := DiffStatuses(prev, curr)
	require.Len(t, changes, 1)
	assert.Equal(t, "double booked", changes[0].Reservation.AdminNote, "change must carry the current reservation row")
}

func TestSnapshotStatuses(t *testing.T) {
	curr := []*Reservation{
		{ID: "r1", Status: ReservationStatusPending},
		{ID: "r2", Status: ReservationStatusApproved},
	}

	snap := SnapshotStatuses(curr)
	require.Len(t, snap, 2)
	assert.Equal(t, ReservationStatusPending, snap["r1"])
	assert.Equal(t, ReservationStatusApproved, snap["r2"])

	// Ids absent from the new snapshot disappear; the overwrite is wholesale
	next := SnapshotStatuses([]*Reservation{{ID: "r2", Status: ReservationStatusApproved}})
	assert.NotContains(t, next, "r1", "stale ids must not survive a snapshot overwrite")
}
