package services

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/ruangkita/reservation-service/internal/domain/entities"
	"github.com/ruangkita/reservation-service/internal/domain/repositories"
	"github.com/ruangkita/reservation-service/pkg/auth"
	apperrors "github.com/ruangkita/reservation-service/pkg/errors"
)

// invalidCredentialsMessage is returned for every login failure. Unknown
// email and wrong password are indistinguishable to the caller.
const invalidCredentialsMessage = "invalid email or password"

// AuthService handles registration and login
type AuthService struct {
	users   repositories.UserRepository
	creds   repositories.CredentialRepository
	jwtUtil *auth.JWTUtil
}

// NewAuthService creates a new auth service
func NewAuthService(users repositories.UserRepository, creds repositories.CredentialRepository, jwtUtil *auth.JWTUtil) *AuthService {
	return &AuthService{
		users:   users,
		creds:   creds,
		jwtUtil: jwtUtil,
	}
}

// Register creates a new account. The write is two-phase: credential first,
// then profile. A failed profile insert triggers a compensating delete of
// the credential so a half-registered email can be retried.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*entities.User, string, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))

	if name == "" || email == "" {
		return nil, "", apperrors.NewValidationError("name and email are required")
	}
	if len(password) < 6 {
		return nil, "", apperrors.NewValidationError("password must be at least 6 characters")
	}

	existing, err := s.creds.GetByEmail(ctx, email)
	if err != nil {
		if appErr, ok := err.(*apperrors.AppError); !ok || appErr.Type != apperrors.ErrorTypeNotFound {
			return nil, "", err
		}
	}
	if existing != nil {
		return nil, "", apperrors.NewConflictError("an account with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", apperrors.NewInternalError("failed to hash password", err)
	}

	id := uuid.New().String()
	now := time.Now()

	cred := &entities.Credential{
		ID:           id,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
	}
	if err := s.creds.Create(ctx, cred); err != nil {
		return nil, "", err
	}

	user := &entities.User{
		ID:        id,
		Name:      name,
		Email:     email,
		Role:      entities.RoleUser,
		CreatedAt: now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if delErr := s.creds.Delete(ctx, id); delErr != nil {
			log.Printf("Warning: failed to roll back credential %s after profile insert failure: %v", id, delErr)
		}
		return nil, "", err
	}

	token, err := s.jwtUtil.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, "", apperrors.NewInternalError("failed to generate token", err)
	}

	return user, token, nil
}

// Login authenticates a user and returns the profile with a session token
func (s *AuthService) Login(ctx context.Context, email, password string) (*entities.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	cred, err := s.creds.GetByEmail(ctx, email)
	if err != nil {
		if appErr, ok := err.(*apperrors.AppError); ok && appErr.Type == apperrors.ErrorTypeNotFound {
			return nil, "", apperrors.NewUnauthorizedError(invalidCredentialsMessage)
		}
		return nil, "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)) != nil {
		return nil, "", apperrors.NewUnauthorizedError(invalidCredentialsMessage)
	}

	user, err := s.users.GetByID(ctx, cred.ID)
	if err != nil {
		return nil, "", err
	}

	token, err := s.jwtUtil.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, "", apperrors.NewInternalError("failed to generate token", err)
	}

	return user, token, nil
}
