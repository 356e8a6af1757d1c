package repositories

import (
	"context"

	"github.com/ruangkita/reservation-service/internal/domain/entities"
)

// UserRepository defines the interface for profile data operations
type UserRepository interface {
	// Create creates a new profile row
	Create(ctx context.Context, user *entities.User) error

	// GetByID retrieves a profile by ID
	GetByID(ctx context.Context, id string) (*entities.User, error)

	// Delete deletes a profile
	Delete(ctx context.Context, id string) error
}

// CredentialRepository defines the interface for authentication records.
// Credentials and profiles share an id; registration writes the credential
// first and compensates with Delete if the profile insert fails.
type CredentialRepository interface {
	// Create creates a new credential
	Create(ctx context.Context, cred *entities.Credential) error

	// GetByEmail retrieves a credential by email
	GetByEmail(ctx context.Context, email string) (*entities.Credential, error)

	// Delete deletes a credential
	Delete(ctx context.Context, id string) error
}
