package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ruangkita/reservation-service/internal/api/handlers"
	"github.com/ruangkita/reservation-service/internal/api/middleware"
	"github.com/ruangkita/reservation-service/internal/domain/entities"
	"github.com/ruangkita/reservation-service/internal/domain/repositories"
	"github.com/ruangkita/reservation-service/pkg/auth"
	apperrors "github.com/ruangkita/reservation-service/pkg/errors"
)

type MockReservationService struct {
	mock.Mock
}

func (m *MockReservationService) Create(ctx context.Context, reservation *entities.Reservation) error {
	args := m.Called(ctx, reservation)
	return args.Error(0)
}

func (m *MockReservationService) GetByID(ctx context.Context, id string) (*entities.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Reservation), args.Error(1)
}

func (m *MockReservationService) List(ctx context.Context, filter repositories.ReservationFilter) ([]*entities.Reservation, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Reservation), args.Error(1)
}

func (m *MockReservationService) PendingCount(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockReservationService) Approve(ctx context.Context, id string) (*entities.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Reservation), args.Error(1)
}

func (m *MockReservationService) Reject(ctx context.Context, id, adminNote string) (*entities.Reservation, error) {
	args := m.Called(ctx, id, adminNote)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Reservation), args.Error(1)
}

func (m *MockReservationService) Cancel(ctx context.Context, id, requesterID string) error {
	args := m.Called(ctx, id, requesterID)
	return args.Error(0)
}

func requestWithClaims(req *http.Request, userID, role string) *http.Request {
	claims := &auth.JWTClaims{UserID: userID, Role: role}
	return req.WithContext(middleware.ContextWithClaims(req.Context(), claims))
}

func sampleReservation(id, userID string) *entities.Reservation {
	return &entities.Reservation{
		ID:         id,
		UserID:     userID,
		FacilityID: "fac-1",
		Date:       "2026-09-15",
		StartTime:  "09:00",
		EndTime:    "11:00",
		Purpose:    "Study group",
		Status:     entities.ReservationStatusPending,
	}
}

func TestReservationHandler_CreateReservation_UsesAuthenticatedUser(t *testing.T) {
	mockService := new(MockReservationService)
	handler := handlers.NewReservationHandler(mockService)

	mockService.On("Create", mock.Anything, mock.MatchedBy(func(r *entities.Reservation) bool {
		return r.UserID == "user-1" && r.FacilityID == "fac-1" && r.StartTime == "09:00"
	})).Return(nil)

	body, _ := json.Marshal(map[string]string{
		"facility_id": "fac-1",
		"date":        "2026-09-15",
		"start_time":  "09:00",
		"end_time":    "11:00",
		"purpose":     "Study group",
	})
	req := httptest.NewRequest("POST", "/api/reservations", bytes.NewReader(body))
	req = requestWithClaims(req, "user-1", string(entities.RoleUser))
	w := httptest.NewRecorder()

	handler.CreateReservation(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockService.AssertExpectations(t)
}

func TestReservationHandler_CreateReservation_NoClaims(t *testing.T) {
	mockService := new(MockReservationService)
	handler := handlers.NewReservationHandler(mockService)

	req := httptest.NewRequest("POST", "/api/reservations", bytes.NewReader([]byte("{}")))
	w := httptest.NewRecorder()

	handler.CreateReservation(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	mockService.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestReservationHandler_ListReservations_UserScopedToOwn(t *testing.T) {
	mockService := new(MockReservationService)
	handler := handlers.NewReservationHandler(mockService)

	mockService.On("List", mock.Anything, mock.MatchedBy(func(f repositories.ReservationFilter) bool {
		return f.UserID == "user-1"
	})).Return([]*entities.Reservation{sampleReservation("res-1", "user-1")}, nil)

	// A non-admin asking for someone else's reservations still gets their own
	req := httptest.NewRequest("GET", "/api/reservations?user_id=user-2", nil)
	req = requestWithClaims(req, "user-1", string(entities.RoleUser))
	w := httptest.NewRecorder()

	handler.ListReservations(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestReservationHandler_ListReservations_AdminCanFilterByUser(t *testing.T) {
	mockService := new(MockReservationService)
	handler := handlers.NewReservationHandler(mockService)

	mockService.On("List", mock.Anything, mock.MatchedBy(func(f repositories.ReservationFilter) bool {
		return f.UserID == "user-2" && f.Status == entities.ReservationStatusPending
	})).Return([]*entities.Reservation{}, nil)

	req := httptest.NewRequest("GET", "/api/reservations?user_id=user-2&status=pending", nil)
	req = requestWithClaims(req, "admin-1", string(entities.RoleAdmin))
	w := httptest.NewRecorder()

	handler.ListReservations(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	err := json.NewDecoder(w.Body).Decode(&resp)
	assert.NoError(t, err)
	assert.Equal(t, float64(0), resp["count"])
}

func TestReservationHandler_GetReservation_HidesOthersReservations(t *testing.T) {
	mockService := new(MockReservationService)
	handler := handlers.NewReservationHandler(mockService)

	mockService.On("GetByID", mock.Anything, "res-1").
		Return(sampleReservation("res-1", "user-2"), nil)

	req := httptest.NewRequest("GET", "/api/reservations/res-1", nil)
	req.SetPathValue("id", "res-1")
	req = requestWithClaims(req, "user-1", string(entities.RoleUser))
	w := httptest.NewRecorder()

	handler.GetReservation(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReservationHandler_GetReservation_AdminSeesAll(t *testing.T) {
	mockService := new(MockReservationService)
	handler := handlers.NewReservationHandler(mockService)

	mockService.On("GetByID", mock.Anything, "res-1").
		Return(sampleReservation("res-1", "user-2"), nil)

	req := httptest.NewRequest("GET", "/api/reservations/res-1", nil)
	req.SetPathValue("id", "res-1")
	req = requestWithClaims(req, "admin-1", string(entities.RoleAdmin))
	w := httptest.NewRecorder()

	handler.GetReservation(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestReservationHandler_PendingCount(t *testing.T) {
	mockService := new(MockReservationService)
	handler := handlers.NewReservationHandler(mockService)

	mockService.On("PendingCount", mock.Anything).Return(3, nil)

	req := httptest.NewRequest("GET", "/api/reservations/pending-count", nil)
	w := httptest.NewRecorder()

	handler.PendingCount(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	err := json.NewDecoder(w.Body).Decode(&resp)
	assert.NoError(t, err)
	assert.Equal(t, float64(3), resp["pending_count"])
	assert.Equal(t, true, resp["has_pending"])
}

func TestReservationHandler_ApproveReservation(t *testing.T) {
	mockService := new(MockReservationService)
	handler := handlers.NewReservationHandler(mockService)

	approved := sampleReservation("res-1", "user-1")
	approved.Status = entities.ReservationStatusApproved
	mockService.On("Approve", mock.Anything, "res-1").Return(approved, nil)

	req := httptest.NewRequest("POST", "/api/reservations/res-1/approve", nil)
	req.SetPathValue("id", "res-1")
	w := httptest.NewRecorder()

	handler.ApproveReservation(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp entities.Reservation
	err := json.NewDecoder(w.Body).Decode(&resp)
	assert.NoError(t, err)
	assert.Equal(t, entities.ReservationStatusApproved, resp.Status)
}

func TestReservationHandler_RejectReservation_ConflictMapped(t *testing.T) {
	mockService := new(MockReservationService)
	handler := handlers.NewReservationHandler(mockService)

	mockService.On("Reject", mock.Anything, "res-1", "double booked").
		Return(nil, apperrors.NewConflictError("reservation is already approved"))

	body, _ := json.Marshal(map[string]string{"admin_note": "double booked"})
	req := httptest.NewRequest("POST", "/api/reservations/res-1/reject", bytes.NewReader(body))
	req.SetPathValue("id", "res-1")
	w := httptest.NewRecorder()

	handler.RejectReservation(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestReservationHandler_CancelReservation(t *testing.T) {
	mockService := new(MockReservationService)
	handler := handlers.NewReservationHandler(mockService)

	mockService.On("Cancel", mock.Anything, "res-1", "user-1").Return(nil)

	req := httptest.NewRequest("DELETE", "/api/reservations/res-1", nil)
	req.SetPathValue("id", "res-1")
	req = requestWithClaims(req, "user-1", string(entities.RoleUser))
	w := httptest.NewRecorder()

	handler.CancelReservation(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	mockService.AssertExpectations(t)
}

func TestReservationHandler_CancelReservation_NotOwner(t *testing.T) {
	mockService := new(MockReservationService)
	handler := handlers.NewReservationHandler(mockService)

	mockService.On("Cancel", mock.Anything, "res-1", "user-2").
		Return(apperrors.NewUnauthorizedError("reservation can only be cancelled by its owner"))

	req := httptest.NewRequest("DELETE", "/api/reservations/res-1", nil)
	req.SetPathValue("id", "res-1")
	req = requestWithClaims(req, "user-2", string(entities.RoleUser))
	w := httptest.NewRecorder()

	handler.CancelReservation(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
