package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/ruangkita/reservation-service/internal/adapters/database"
	"github.com/ruangkita/reservation-service/internal/domain/entities"
	"github.com/ruangkita/reservation-service/internal/infrastructure/clients/postgres"
	"github.com/ruangkita/reservation-service/pkg/config"
)

const schema = `
CREATE TABLE IF NOT EXISTS credentials (
	id            TEXT PRIMARY KEY,
	email         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS profiles (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	email      TEXT NOT NULL UNIQUE,
	role       TEXT NOT NULL DEFAULT 'user',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS facilities (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	capacity    INTEGER NOT NULL,
	location    TEXT NOT NULL,
	status      TEXT NOT NULL DEFAULT 'available',
	description TEXT NOT NULL DEFAULT '',
	image_url   TEXT NOT NULL DEFAULT '',
	features    TEXT[] NOT NULL DEFAULT '{}',
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS reservations (
	id          TEXT PRIMARY KEY,
	user_id     TEXT NOT NULL,
	facility_id TEXT NOT NULL,
	date        TEXT NOT NULL,
	start_time  TEXT NOT NULL,
	end_time    TEXT NOT NULL,
	purpose     TEXT NOT NULL,
	status      TEXT NOT NULL DEFAULT 'pending',
	admin_note  TEXT,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_reservations_slot
	ON reservations (facility_id, date, status);

CREATE TABLE IF NOT EXISTS alert_log (
	id             TEXT PRIMARY KEY,
	user_id        TEXT NOT NULL,
	reservation_id TEXT NOT NULL,
	alert_type     TEXT NOT NULL,
	message        TEXT NOT NULL,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_alert_log_user
	ON alert_log (user_id, created_at DESC);
`

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pgClient.Close()

	ctx := context.Background()

	if _, err := pgClient.DB().ExecContext(ctx, schema); err != nil {
		log.Fatalf("Failed to create schema: %v", err)
	}
	log.Println("Schema ensured")

	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, truncating tables before seeding")
		_, err := pgClient.DB().ExecContext(ctx, `
			TRUNCATE TABLE
				alert_log,
				reservations,
				facilities,
				profiles,
				credentials
			RESTART IDENTITY CASCADE
		`)
		if err != nil {
			log.Fatalf("Failed to reset tables: %v", err)
		}
	}

	sqlxDB := sqlx.NewDb(pgClient.DB(), "postgres")
	userRepo := database.NewUserAdapter(sqlxDB)
	credRepo := database.NewCredentialAdapter(sqlxDB)
	facilityRepo := database.NewFacilityAdapter(pgClient)

	// 1. Seed accounts
	accounts := []struct {
		name     string
		email    string
		password string
		role     entities.UserRole
	}{
		{"Campus Admin", "admin@campus.edu", envOr("SEED_ADMIN_PASSWORD", "admin123"), entities.RoleAdmin},
		{"Sari Wijaya", "sari@campus.edu", "student123", entities.RoleUser},
		{"Budi Santoso", "budi@campus.edu", "student123", entities.RoleUser},
	}

	for _, a := range accounts {
		hash, err := bcrypt.GenerateFromPassword([]byte(a.password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("Failed to hash password for %s: %v", a.email, err)
		}

		id := uuid.New().String()
		cred := &entities.Credential{
			ID:           id,
			Email:        a.email,
			PasswordHash: string(hash),
			CreatedAt:    time.Now(),
		}
		if err := credRepo.Create(ctx, cred); err != nil {
			log.Printf("Failed to create credential %s (may already exist): %v", a.email, err)
			continue
		}

		user := &entities.User{
			ID:        id,
			Name:      a.name,
			Email:     a.email,
			Role:      a.role,
			CreatedAt: time.Now(),
		}
		if err := userRepo.Create(ctx, user); err != nil {
			log.Printf("Failed to create profile %s: %v", a.email, err)
		}
	}

	// 2. Seed facilities
	facilities := []entities.Facility{
		{
			ID:          uuid.New().String(),
			Name:        "Multipurpose Hall",
			Capacity:    300,
			Location:    "Student Center, Ground Floor",
			Status:      entities.FacilityStatusAvailable,
			Description: "Large hall for seminars, ceremonies and student events.",
			Features:    []string{"stage", "sound system", "projector", "air conditioning"},
			CreatedAt:   time.Now(),
		},
		{
			ID:          uuid.New().String(),
			Name:        "Basketball Court",
			Capacity:    50,
			Location:    "Sports Complex, Court 1",
			Status:      entities.FacilityStatusAvailable,
			Description: "Indoor court, also marked for volleyball and badminton.",
			Features:    []string{"scoreboard", "locker rooms"},
			CreatedAt:   time.Now(),
		},
		{
			ID:          uuid.New().String(),
			Name:        "Meeting Room B204",
			Capacity:    12,
			Location:    "Building B, Floor 2",
			Status:      entities.FacilityStatusAvailable,
			Description: "Small meeting room for student organizations.",
			Features:    []string{"whiteboard", "TV screen"},
			CreatedAt:   time.Now(),
		},
		{
			ID:          uuid.New().String(),
			Name:        "Recording Studio",
			Capacity:    6,
			Location:    "Media Center, Basement",
			Status:      entities.FacilityStatusMaintenance,
			Description: "Soundproofed studio with mixing equipment.",
			Features:    []string{"microphones", "mixing desk", "soundproofing"},
			CreatedAt:   time.Now(),
		},
	}

	for _, f := range facilities {
		if err := facilityRepo.Create(ctx, &f); err != nil {
			log.Printf("Failed to create facility %s: %v", f.Name, err)
		}
	}

	log.Println("Seeding complete")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
