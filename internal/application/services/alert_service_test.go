package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruangkita/reservation-service/internal/domain/entities"
)

func TestAlertService_BuildAlert_Approval(t *testing.T) {
	service, _, db := setupAlertLog(t)
	defer db.Close()

	alert := service.BuildAlert(entities.StatusChange{
		Reservation: &entities.Reservation{
			ID:           "res-1",
			UserID:       "user-1",
			FacilityName: "Main Hall",
			Date:         "2026-09-15",
		},
		From: entities.ReservationStatusPending,
		To:   entities.ReservationStatusApproved,
	})

	require.NotNil(t, alert)
	assert.Equal(t, entities.AlertTypeSuccess, alert.Type)
	assert.Equal(t, "user-1", alert.UserID)
	assert.Equal(t, "Your reservation for Main Hall on 2026-09-15 was approved", alert.Message)
}

func TestAlertService_BuildAlert_RejectionWithNote(t *testing.T) {
	service, _, db := setupAlertLog(t)
	defer db.Close()

	alert := service.BuildAlert(entities.StatusChange{
		Reservation: &entities.Reservation{
			ID:           "res-1",
			UserID:       "user-1",
			FacilityName: "Main Hall",
			Date:         "2026-09-15",
			AdminNote:    "double booked",
		},
		From: entities.ReservationStatusPending,
		To:   entities.ReservationStatusRejected,
	})

	require.NotNil(t, alert)
	assert.Equal(t, entities.AlertTypeError, alert.Type)
	assert.Contains(t, alert.Message, "double booked")
}

func TestAlertService_BuildAlert_RejectionFallbackNote(t *testing.T) {
	service, _, db := setupAlertLog(t)
	defer db.Close()

	alert := service.BuildAlert(entities.StatusChange{
		Reservation: &entities.Reservation{
			ID:           "res-1",
			UserID:       "user-1",
			FacilityName: "Main Hall",
			Date:         "2026-09-15",
		},
		From: entities.ReservationStatusPending,
		To:   entities.ReservationStatusRejected,
	})

	require.NotNil(t, alert)
	assert.Contains(t, alert.Message, "No reason provided")
}

func TestAlertService_Record(t *testing.T) {
	service, mockSQL, db := setupAlertLog(t)
	defer db.Close()

	mockSQL.ExpectExec("INSERT INTO alert_log").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := service.Record(context.Background(), &entities.Alert{
		ID:            "alert-1",
		UserID:        "user-1",
		ReservationID: "res-1",
		Type:          entities.AlertTypeSuccess,
		Message:       "Your reservation for Main Hall on 2026-09-15 was approved",
		CreatedAt:     time.Now(),
	})

	assert.NoError(t, err)
	assert.NoError(t, mockSQL.ExpectationsWereMet())
}

func TestAlertService_ListByUser(t *testing.T) {
	service, mockSQL, db := setupAlertLog(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "user_id", "reservation_id", "alert_type", "message", "created_at"}).
		AddRow("alert-2", "user-1", "res-2", "error", "rejected", time.Now()).
		AddRow("alert-1", "user-1", "res-1", "success", "approved", time.Now().Add(-time.Hour))

	mockSQL.ExpectQuery("SELECT (.+) FROM alert_log").
		WithArgs("user-1", 50).
		WillReturnRows(rows)

	alerts, err := service.ListByUser(context.Background(), "user-1", 0)
	require.NoError(t, err)
	require.Len(t, alerts, 2)
	assert.Equal(t, entities.AlertTypeError, alerts[0].Type)
	assert.NoError(t, mockSQL.ExpectationsWereMet())
}
