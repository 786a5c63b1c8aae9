// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"ivonews/internal/models"
)

// ProfileStore manages the public-facing half of an identity.
type ProfileStore struct {
	db *sql.DB
}

// NewProfileStore returns a new ProfileStore.
func NewProfileStore(db *sql.DB) *ProfileStore {
	return &ProfileStore{db: db}
}

const profileColumns = `user_id, display_name, avatar_url, role, created_at, updated_at`

func scanProfile(scanner interface{ Scan(...any) error }) (*models.Profile, error) {
	p := &models.Profile{}
	err := scanner.Scan(&p.UserID, &p.DisplayName, &p.AvatarURL, &p.Role, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// FindByUserID returns the profile for userID, or nil if none exists.
func (s *ProfileStore) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	p, err := scanProfile(s.db.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE user_id = $1`, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find profile: %w", err)
	}
	return p, nil
}

// Update persists display name and avatar URL. A nil avatar clears it.
func (s *ProfileStore) Update(ctx context.Context, userID uuid.UUID, displayName string, avatarURL *string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE profiles SET display_name = $1, avatar_url = $2, updated_at = NOW()
		WHERE user_id = $3
	`, displayName, avatarURL, userID)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return expectRow(res)
}

// SetAvatar replaces only the avatar URL. A nil avatar clears it.
func (s *ProfileStore) SetAvatar(ctx context.Context, userID uuid.UUID, avatarURL *string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE profiles SET avatar_url = $1, updated_at = NOW() WHERE user_id = $2
	`, avatarURL, userID)
	if err != nil {
		return fmt.Errorf("set avatar: %w", err)
	}
	return expectRow(res)
}

// SetRole changes the role of userID.
func (s *ProfileStore) SetRole(ctx context.Context, userID uuid.UUID, role models.Role) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE profiles SET role = $1, updated_at = NOW() WHERE user_id = $2
	`, role, userID)
	if err != nil {
		return fmt.Errorf("set role: %w", err)
	}
	return expectRow(res)
}
