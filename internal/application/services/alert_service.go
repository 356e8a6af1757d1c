package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ruangkita/reservation-service/internal/domain/entities"
)

// AlertService builds and persists user-facing alerts raised by reservation
// status changes. Each alert is written to the alert_log table before being
// pushed out, so a user disconnected at the time of the change can still
// read what happened.
type AlertService struct {
	db *sqlx.DB
}

// NewAlertService creates a new alert service
func NewAlertService(db *sqlx.DB) *AlertService {
	return &AlertService{db: db}
}

// BuildAlert renders the alert for one status change. Approvals produce a
// success alert naming the facility; rejections an error alert carrying the
// admin's note, with fallback text when the note is missing.
func (a *AlertService) BuildAlert(change entities.StatusChange) *entities.Alert {
	r := change.Reservation

	alert := &entities.Alert{
		ID:            uuid.New().String(),
		UserID:        r.UserID,
		ReservationID: r.ID,
		CreatedAt:     time.Now(),
	}

	switch change.To {
	case entities.ReservationStatusApproved:
		alert.Type = entities.AlertTypeSuccess
		alert.Message = fmt.Sprintf("Your reservation for %s on %s was approved", r.FacilityName, r.Date)
	case entities.ReservationStatusRejected:
		note := r.AdminNote
		if note == "" {
			note = "No reason provided"
		}
		alert.Type = entities.AlertTypeError
		alert.Message = fmt.Sprintf("Your reservation for %s on %s was rejected: %s", r.FacilityName, r.Date, note)
	default:
		return nil
	}

	return alert
}

// Record persists an alert to the alert log
func (a *AlertService) Record(ctx context.Context, alert *entities.Alert) error {
	query := `
		INSERT INTO alert_log (id, user_id, reservation_id, alert_type, message, created_at)
		VALUES (:id, :user_id, :reservation_id, :alert_type, :message, :created_at)
	`
	_, err := a.db.NamedExecContext(ctx, query, alert)
	if err != nil {
		return fmt.Errorf("failed to record alert: %w", err)
	}
	return nil
}

// ListByUser returns a user's alerts, newest first
func (a *AlertService) ListByUser(ctx context.Context, userID string, limit int) ([]*entities.Alert, error) {
	if limit <= 0 {
		limit = 50
	}

	alerts := []*entities.Alert{}
	query := `
		SELECT id, user_id, reservation_id, alert_type, message, created_at
		FROM alert_log
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	if err := a.db.SelectContext(ctx, &alerts, query, userID, limit); err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}
	return alerts, nil
}
