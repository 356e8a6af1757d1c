package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"

	"github.com/ruangkita/reservation-service/internal/domain/entities"
	"github.com/ruangkita/reservation-service/internal/domain/repositories"
	"github.com/ruangkita/reservation-service/internal/infrastructure/clients/postgres"
	apperrors "github.com/ruangkita/reservation-service/pkg/errors"
)

// ReservationAdapter implements the ReservationRepository interface
type ReservationAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewReservationAdapter creates a new reservation adapter
func NewReservationAdapter(client *postgres.Client) repositories.ReservationRepository {
	return &ReservationAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// reservationColumns are the projected columns of the joined read path.
// Profile and facility names are joined in; a row whose facility or profile
// has since been deleted still reads back with the fallback display name.
func (a *ReservationAdapter) baseSelect() *goqu.SelectDataset {
	return a.db.Select(
		goqu.I("r.id"),
		goqu.I("r.user_id"),
		goqu.COALESCE(goqu.I("p.name"), entities.UnknownUserName).As("user_name"),
		goqu.I("r.facility_id"),
		goqu.COALESCE(goqu.I("f.name"), entities.UnknownFacilityName).As("facility_name"),
		goqu.I("r.date"),
		goqu.I("r.start_time"),
		goqu.I("r.end_time"),
		goqu.I("r.purpose"),
		goqu.I("r.status"),
		goqu.I("r.admin_note"),
		goqu.I("r.created_at"),
	).From(goqu.T("reservations").As("r")).
		LeftJoin(goqu.T("profiles").As("p"), goqu.On(goqu.Ex{"p.id": goqu.I("r.user_id")})).
		LeftJoin(goqu.T("facilities").As("f"), goqu.On(goqu.Ex{"f.id": goqu.I("r.facility_id")}))
}

// Create creates a new reservation
func (a *ReservationAdapter) Create(ctx context.Context, reservation *entities.Reservation) error {
	record := goqu.Record{
		"id":          reservation.ID,
		"user_id":     reservation.UserID,
		"facility_id": reservation.FacilityID,
		"date":        reservation.Date,
		"start_time":  reservation.StartTime,
		"end_time":    reservation.EndTime,
		"purpose":     reservation.Purpose,
		"status":      reservation.Status,
		"admin_note":  reservation.AdminNote,
		"created_at":  reservation.CreatedAt,
	}

	query, args, err := a.db.Insert("reservations").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	_, err = a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to create reservation", err)
	}

	return nil
}

// GetByID retrieves a reservation by ID
func (a *ReservationAdapter) GetByID(ctx context.Context, id string) (*entities.Reservation, error) {
	query, args, err := a.baseSelect().
		Where(goqu.Ex{"r.id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	reservation, err := scanReservation(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("reservation with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get reservation", err)
	}

	return reservation, nil
}

// UpdateStatus sets the status and admin note of a reservation
func (a *ReservationAdapter) UpdateStatus(ctx context.Context, id string, status entities.ReservationStatus, adminNote string) error {
	query, args, err := a.db.Update("reservations").
		Set(goqu.Record{
			"status":     status,
			"admin_note": adminNote,
		}).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update reservation status", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("reservation with id %s not found", id))
	}

	return nil
}

// Delete deletes a reservation
func (a *ReservationAdapter) Delete(ctx context.Context, id string) error {
	query, args, err := a.db.Delete("reservations").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to delete reservation", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("reservation with id %s not found", id))
	}

	return nil
}

// List retrieves reservations with filters, newest first
func (a *ReservationAdapter) List(ctx context.Context, filter repositories.ReservationFilter) ([]*entities.Reservation, error) {
	ds := a.baseSelect()

	if filter.UserID != "" {
		ds = ds.Where(goqu.Ex{"r.user_id": filter.UserID})
	}

	if filter.FacilityID != "" {
		ds = ds.Where(goqu.Ex{"r.facility_id": filter.FacilityID})
	}

	if filter.Status != "" {
		ds = ds.Where(goqu.Ex{"r.status": filter.Status})
	}

	ds = ds.Order(goqu.I("r.created_at").Desc())

	if filter.Limit > 0 {
		ds = ds.Limit(uint(filter.Limit))
	}

	if filter.Offset > 0 {
		ds = ds.Offset(uint(filter.Offset))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	return a.queryReservations(ctx, query, args)
}

// ListApprovedForSlot retrieves approved reservations on a facility and date,
// for overlap checks
func (a *ReservationAdapter) ListApprovedForSlot(ctx context.Context, facilityID, date string) ([]*entities.Reservation, error) {
	query, args, err := a.baseSelect().
		Where(goqu.Ex{
			"r.facility_id": facilityID,
			"r.date":        date,
			"r.status":      entities.ReservationStatusApproved,
		}).
		Order(goqu.I("r.start_time").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build slot query", err)
	}

	return a.queryReservations(ctx, query, args)
}

func (a *ReservationAdapter) queryReservations(ctx context.Context, query string, args []interface{}) ([]*entities.Reservation, error) {
	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list reservations", err)
	}
	defer rows.Close()

	reservations := []*entities.Reservation{}
	for rows.Next() {
		reservation, err := scanReservation(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan reservation", err)
		}
		reservations = append(reservations, reservation)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating reservations", err)
	}

	return reservations, nil
}

func scanReservation(row rowScanner) (*entities.Reservation, error) {
	reservation := &entities.Reservation{}
	var adminNote sql.NullString

	err := row.Scan(
		&reservation.ID,
		&reservation.UserID,
		&reservation.UserName,
		&reservation.FacilityID,
		&reservation.FacilityName,
		&reservation.Date,
		&reservation.StartTime,
		&reservation.EndTime,
		&reservation.Purpose,
		&reservation.Status,
		&adminNote,
		&reservation.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	reservation.AdminNote = adminNote.String
	return reservation, nil
}
