package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/ruangkita/reservation-service/internal/domain/entities"
	"github.com/ruangkita/reservation-service/internal/domain/repositories"
	"github.com/ruangkita/reservation-service/internal/infrastructure/clients/postgres"
	apperrors "github.com/ruangkita/reservation-service/pkg/errors"
)

// FacilityAdapter implements the FacilityRepository interface
type FacilityAdapter struct {
	client *postgres.Client
}

// NewFacilityAdapter creates a new facility adapter
func NewFacilityAdapter(client *postgres.Client) repositories.FacilityRepository {
	return &FacilityAdapter{
		client: client,
	}
}

// Create creates a new facility
func (a *FacilityAdapter) Create(ctx context.Context, facility *entities.Facility) error {
	query := `
		INSERT INTO facilities (
			id, name, capacity, location, status,
			description, image_url, features, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := a.client.DB().ExecContext(ctx, query,
		facility.ID,
		facility.Name,
		facility.Capacity,
		facility.Location,
		facility.Status,
		facility.Description,
		facility.ImageURL,
		pq.Array(facility.Features),
		facility.CreatedAt,
	)

	if err != nil {
		return apperrors.NewInternalError("failed to create facility", err)
	}

	return nil
}

// GetByID retrieves a facility by ID
func (a *FacilityAdapter) GetByID(ctx context.Context, id string) (*entities.Facility, error) {
	query := `
		SELECT id, name, capacity, location, status,
			description, image_url, features, created_at
		FROM facilities
		WHERE id = $1
	`

	facility, err := scanFacility(a.client.DB().QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("facility with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get facility", err)
	}

	return facility, nil
}

// Update updates a facility
func (a *FacilityAdapter) Update(ctx context.Context, facility *entities.Facility) error {
	query := `
		UPDATE facilities SET
			name = $2, capacity = $3, location = $4, status = $5,
			description = $6, image_url = $7, features = $8
		WHERE id = $1
	`

	result, err := a.client.DB().ExecContext(ctx, query,
		facility.ID,
		facility.Name,
		facility.Capacity,
		facility.Location,
		facility.Status,
		facility.Description,
		facility.ImageURL,
		pq.Array(facility.Features),
	)

	if err != nil {
		return apperrors.NewInternalError("failed to update facility", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("facility with id %s not found", facility.ID))
	}

	return nil
}

// Delete deletes a facility. Reservations referencing it are left in place;
// their reads fall back to the unknown-facility display name.
func (a *FacilityAdapter) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM facilities WHERE id = $1`

	result, err := a.client.DB().ExecContext(ctx, query, id)
	if err != nil {
		return apperrors.NewInternalError("failed to delete facility", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("facility with id %s not found", id))
	}

	return nil
}

// List retrieves facilities with filters, newest first
func (a *FacilityAdapter) List(ctx context.Context, filter repositories.FacilityFilter) ([]*entities.Facility, error) {
	query := `
		SELECT id, name, capacity, location, status,
			description, image_url, features, created_at
		FROM facilities
		WHERE 1=1
	`

	args := []interface{}{}
	argCount := 1

	if filter.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argCount)
		args = append(args, filter.Status)
		argCount++
	}

	query += " ORDER BY created_at DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argCount)
		args = append(args, filter.Limit)
		argCount++
	}

	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argCount)
		args = append(args, filter.Offset)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list facilities", err)
	}
	defer rows.Close()

	facilities := []*entities.Facility{}
	for rows.Next() {
		facility, err := scanFacility(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan facility", err)
		}
		facilities = append(facilities, facility)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating facilities", err)
	}

	return facilities, nil
}

// rowScanner covers *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanFacility maps one row into a facility, fail-fast on any missing column
func scanFacility(row rowScanner) (*entities.Facility, error) {
	facility := &entities.Facility{}
	var features pq.StringArray

	err := row.Scan(
		&facility.ID,
		&facility.Name,
		&facility.Capacity,
		&facility.Location,
		&facility.Status,
		&facility.Description,
		&facility.ImageURL,
		&features,
		&facility.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	facility.Features = []string(features)
	if facility.Features == nil {
		facility.Features = []string{}
	}
	return facility, nil
}
