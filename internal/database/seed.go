package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// AdminAccount holds the credentials for the identity created on first boot.
type AdminAccount struct {
	Email       string
	Password    string
	DisplayName string
}

// defaultCategories mirrors the topic sections linked from the navigation.
var defaultCategories = []struct{ name, slug string }{
	{"Engenharia", "engenharia"},
	{"Criptomoedas", "crypto"},
	{"Música", "music"},
	{"Motivacional", "motivational"},
}

// Seed populates the database with the default categories and an admin
// identity. Both steps are no-ops when the data already exists.
func Seed(db *sql.DB, admin AdminAccount) error {
	for _, c := range defaultCategories {
		if _, err := db.Exec(
			`INSERT INTO categories (name, slug) VALUES ($1, $2) ON CONFLICT (slug) DO NOTHING`,
			c.name, c.slug,
		); err != nil {
			return fmt.Errorf("seed category %s: %w", c.slug, err)
		}
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping admin")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	name := admin.DisplayName
	if name == "" {
		name = "Admin"
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed begin: %w", err)
	}
	defer tx.Rollback()

	var userID string
	if err := tx.QueryRow(
		`INSERT INTO users (email, password_hash) VALUES ($1, $2) RETURNING id`,
		admin.Email, string(hash),
	).Scan(&userID); err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	if _, err := tx.Exec(
		`INSERT INTO profiles (user_id, display_name, role) VALUES ($1, $2, 'admin')`,
		userID, name,
	); err != nil {
		return fmt.Errorf("seed insert admin profile: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	slog.Info("database seeded with admin identity", "email", admin.Email)
	return nil
}
