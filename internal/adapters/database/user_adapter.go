package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ruangkita/reservation-service/internal/domain/entities"
	"github.com/ruangkita/reservation-service/internal/domain/repositories"
	apperrors "github.com/ruangkita/reservation-service/pkg/errors"
)

// UserAdapter implements the UserRepository interface over the profiles table
type UserAdapter struct {
	db *sqlx.DB
}

// NewUserAdapter creates a new user adapter
func NewUserAdapter(db *sqlx.DB) repositories.UserRepository {
	return &UserAdapter{db: db}
}

// Create creates a new profile row
func (a *UserAdapter) Create(ctx context.Context, user *entities.User) error {
	query := `
		INSERT INTO profiles (id, name, email, role, created_at)
		VALUES (:id, :name, :email, :role, :created_at)
	`

	_, err := a.db.NamedExecContext(ctx, query, user)
	if err != nil {
		return apperrors.NewInternalError("failed to create profile", err)
	}

	return nil
}

// GetByID retrieves a profile by ID
func (a *UserAdapter) GetByID(ctx context.Context, id string) (*entities.User, error) {
	var user entities.User
	query := `SELECT id, name, email, role, created_at FROM profiles WHERE id = $1`

	err := a.db.GetContext(ctx, &user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("profile with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get profile", err)
	}

	return &user, nil
}

// Delete deletes a profile
func (a *UserAdapter) Delete(ctx context.Context, id string) error {
	result, err := a.db.ExecContext(ctx, `DELETE FROM profiles WHERE id = $1`, id)
	if err != nil {
		return apperrors.NewInternalError("failed to delete profile", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("profile with id %s not found", id))
	}

	return nil
}

// CredentialAdapter implements the CredentialRepository interface
type CredentialAdapter struct {
	db *sqlx.DB
}

// NewCredentialAdapter creates a new credential adapter
func NewCredentialAdapter(db *sqlx.DB) repositories.CredentialRepository {
	return &CredentialAdapter{db: db}
}

// Create creates a new credential
func (a *CredentialAdapter) Create(ctx context.Context, cred *entities.Credential) error {
	query := `
		INSERT INTO credentials (id, email, password_hash, created_at)
		VALUES (:id, :email, :password_hash, :created_at)
	`

	_, err := a.db.NamedExecContext(ctx, query, cred)
	if err != nil {
		return apperrors.NewInternalError("failed to create credential", err)
	}

	return nil
}

// GetByEmail retrieves a credential by email
func (a *CredentialAdapter) GetByEmail(ctx context.Context, email string) (*entities.Credential, error) {
	var cred entities.Credential
	query := `SELECT id, email, password_hash, created_at FROM credentials WHERE email = $1`

	err := a.db.GetContext(ctx, &cred, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("credential for %s not found", email))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get credential", err)
	}

	return &cred, nil
}

// Delete deletes a credential. Used as the compensating step when the
// paired profile insert fails during registration.
func (a *CredentialAdapter) Delete(ctx context.Context, id string) error {
	result, err := a.db.ExecContext(ctx, `DELETE FROM credentials WHERE id = $1`, id)
	if err != nil {
		return apperrors.NewInternalError("failed to delete credential", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("credential with id %s not found", id))
	}

	return nil
}
