package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// Seed populates the database with initial development data: a default
// admin user, a few starter rubrics, and sample jokes. It is a no-op when
// users already exist.
func Seed(db *sql.DB) error {
	// Check if any users exist already.
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO users (email, password_hash, display_name)
		VALUES ($1, $2, $3)
	`, "admin@bboard.local", string(hash), "Admin")
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	rubrics := []struct {
		name  string
		order int
	}{
		{"Electronics", 0},
		{"Furniture", 1},
		{"Transport", 2},
		{"Real estate", 3},
	}
	for _, r := range rubrics {
		if _, err := db.Exec(`
			INSERT INTO rubrics (name, sort_order) VALUES ($1, $2)
		`, r.name, r.order); err != nil {
			return fmt.Errorf("seed insert rubric %q: %w", r.name, err)
		}
	}

	jokes := []struct {
		category string
		text     string
	}{
		{"knockknock", "Knock knock. Who's there? A classified ad."},
		{"army", "The sergeant said the exercise was optional. Nobody believed him."},
		{"jokes300", "I would tell you a UDP joke, but you might not get it."},
	}
	for _, j := range jokes {
		if _, err := db.Exec(`
			INSERT INTO jokes (category, text) VALUES ($1, $2)
		`, j.category, j.text); err != nil {
			return fmt.Errorf("seed insert joke: %w", err)
		}
	}

	slog.Info("database seeded with default admin user",
		"email", "admin@bboard.local",
		"password", "admin",
	)

	return nil
}
