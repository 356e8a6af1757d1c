package database

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruangkita/reservation-service/internal/domain/entities"
	"github.com/ruangkita/reservation-service/internal/domain/repositories"
	"github.com/ruangkita/reservation-service/internal/infrastructure/clients/postgres"
	apperrors "github.com/ruangkita/reservation-service/pkg/errors"
)

func setupMockClient(t *testing.T) (*postgres.Client, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create mock database: %v", err)
	}
	return postgres.NewClientWithDB(mockDB), mock, mockDB
}

func facilityColumns() []string {
	return []string{
		"id", "name", "capacity", "location", "status",
		"description", "image_url", "features", "created_at",
	}
}

func TestFacilityAdapter_Create(t *testing.T) {
	client, mock, db := setupMockClient(t)
	defer db.Close()

	adapter := NewFacilityAdapter(client)

	facility := &entities.Facility{
		ID:          "fac-1",
		Name:        "Main Hall",
		Capacity:    200,
		Location:    "Building A",
		Status:      entities.FacilityStatusAvailable,
		Description: "Large event hall",
		ImageURL:    "",
		Features:    []string{"projector", "sound system"},
		CreatedAt:   time.Now(),
	}

	mock.ExpectExec("INSERT INTO facilities").
		WithArgs(
			facility.ID, facility.Name, facility.Capacity, facility.Location,
			facility.Status, facility.Description, facility.ImageURL,
			sqlmock.AnyArg(), sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := adapter.Create(context.Background(), facility)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFacilityAdapter_GetByID(t *testing.T) {
	client, mock, db := setupMockClient(t)
	defer db.Close()

	adapter := NewFacilityAdapter(client)
	createdAt := time.Now()

	rows := sqlmock.NewRows(facilityColumns()).AddRow(
		"fac-1", "Main Hall", 200, "Building A", "available",
		"Large event hall", "", pq.StringArray{"projector"}, createdAt,
	)

	mock.ExpectQuery("SELECT (.+) FROM facilities").
		WithArgs("fac-1").
		WillReturnRows(rows)

	facility, err := adapter.GetByID(context.Background(), "fac-1")
	require.NoError(t, err)
	assert.Equal(t, "fac-1", facility.ID)
	assert.Equal(t, "Main Hall", facility.Name)
	assert.Equal(t, entities.FacilityStatusAvailable, facility.Status)
	assert.Equal(t, []string{"projector"}, facility.Features)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFacilityAdapter_GetByID_NotFound(t *testing.T) {
	client, mock, db := setupMockClient(t)
	defer db.Close()

	adapter := NewFacilityAdapter(client)

	mock.ExpectQuery("SELECT (.+) FROM facilities").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	facility, err := adapter.GetByID(context.Background(), "missing")
	assert.Nil(t, facility)
	require.Error(t, err)

	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorTypeNotFound, appErr.Type)
}

func TestFacilityAdapter_Update_NotFound(t *testing.T) {
	client, mock, db := setupMockClient(t)
	defer db.Close()

	adapter := NewFacilityAdapter(client)

	mock.ExpectExec("UPDATE facilities").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := adapter.Update(context.Background(), &entities.Facility{ID: "missing"})
	require.Error(t, err)

	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorTypeNotFound, appErr.Type)
}

func TestFacilityAdapter_Delete(t *testing.T) {
	client, mock, db := setupMockClient(t)
	defer db.Close()

	adapter := NewFacilityAdapter(client)

	mock.ExpectExec("DELETE FROM facilities").
		WithArgs("fac-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := adapter.Delete(context.Background(), "fac-1")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFacilityAdapter_List(t *testing.T) {
	client, mock, db := setupMockClient(t)
	defer db.Close()

	adapter := NewFacilityAdapter(client)
	createdAt := time.Now()

	rows := sqlmock.NewRows(facilityColumns()).
		AddRow("fac-2", "Lab B", 30, "Building C", "available", "", "", pq.StringArray{}, createdAt).
		AddRow("fac-1", "Main Hall", 200, "Building A", "available", "", "", pq.StringArray(nil), createdAt.Add(-time.Hour))

	mock.ExpectQuery("SELECT (.+) FROM facilities").
		WithArgs("available").
		WillReturnRows(rows)

	facilities, err := adapter.List(context.Background(), repositories.FacilityFilter{
		Status: entities.FacilityStatusAvailable,
	})
	require.NoError(t, err)
	require.Len(t, facilities, 2)
	assert.Equal(t, "fac-2", facilities[0].ID)
	assert.NotNil(t, facilities[1].Features)
	assert.NoError(t, mock.ExpectationsWereMet())
}
