// Package account implements the settings page: profile and password
// changes for the signed-in user, and category management for admins.
package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"ivonews/internal/models"
	"ivonews/internal/slug"
	"ivonews/internal/store"
	"ivonews/internal/validate"
)

// ErrForbidden is returned when a non-admin tries an admin operation.
var ErrForbidden = errors.New("acesso restrito a administradores")

// ProfileInput is the profile form.
type ProfileInput struct {
	DisplayName string `validate:"required,max=100" label:"Nome de exibição"`
	AvatarURL   string `validate:"omitempty,url" label:"URL do avatar"`
}

// Validate trims and checks the form.
func (in *ProfileInput) Validate() error {
	in.DisplayName = strings.TrimSpace(in.DisplayName)
	in.AvatarURL = strings.TrimSpace(in.AvatarURL)
	return validate.Struct(in)
}

// PasswordInput is the password form.
type PasswordInput struct {
	New     string `validate:"required,min=6,max=72" label:"Nova senha"`
	Confirm string `validate:"eqfield=New" label:"Confirmação"`
}

// Validate checks length and confirmation.
func (in *PasswordInput) Validate() error {
	return validate.Struct(in)
}

// CategoryInput is the add-category form.
type CategoryInput struct {
	Name string `validate:"required,max=100" label:"Nome da categoria"`
}

// Validate trims and checks the form.
func (in *CategoryInput) Validate() error {
	in.Name = strings.TrimSpace(in.Name)
	return validate.Struct(in)
}

// ProfileRepo reads and writes profiles.
type ProfileRepo interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	Update(ctx context.Context, userID uuid.UUID, displayName string, avatarURL *string) error
}

// PasswordRepo changes credentials.
type PasswordRepo interface {
	UpdatePassword(ctx context.Context, userID uuid.UUID, password string) error
}

// CategoryRepo manages categories.
type CategoryRepo interface {
	List(ctx context.Context) ([]models.Category, error)
	Create(ctx context.Context, name, slug string) (*models.Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Invalidator drops cached public listings.
type Invalidator interface {
	InvalidateAll(ctx context.Context)
}

// Service implements the settings operations.
type Service struct {
	profiles   ProfileRepo
	passwords  PasswordRepo
	categories CategoryRepo
	feed       Invalidator
}

// NewService creates a Service. feed may be nil.
func NewService(profiles ProfileRepo, passwords PasswordRepo, categories CategoryRepo, feed Invalidator) *Service {
	return &Service{profiles: profiles, passwords: passwords, categories: categories, feed: feed}
}

// Profile returns the profile of userID, or store.ErrNotFound.
func (s *Service) Profile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	p, err := s.profiles.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, store.ErrNotFound
	}
	return p, nil
}

// UpdateProfile validates in and saves it for userID. An empty avatar URL
// clears the avatar.
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, in ProfileInput) error {
	if err := in.Validate(); err != nil {
		return err
	}
	var avatar *string
	if in.AvatarURL != "" {
		avatar = &in.AvatarURL
	}
	if err := s.profiles.Update(ctx, userID, in.DisplayName, avatar); err != nil {
		return fmt.Errorf("updating profile: %w", err)
	}
	return nil
}

// ChangePassword validates in and stores the new password for userID.
func (s *Service) ChangePassword(ctx context.Context, userID uuid.UUID, in PasswordInput) error {
	if err := in.Validate(); err != nil {
		return err
	}
	if err := s.passwords.UpdatePassword(ctx, userID, in.New); err != nil {
		return fmt.Errorf("changing password: %w", err)
	}
	slog.Info("password changed", "user_id", userID)
	return nil
}

// Categories lists every category, by name.
func (s *Service) Categories(ctx context.Context) ([]models.Category, error) {
	return s.categories.List(ctx)
}

// AddCategory creates a category with a transliterated slug. actor must be
// an admin.
func (s *Service) AddCategory(ctx context.Context, actor uuid.UUID, in CategoryInput) (*models.Category, error) {
	if err := s.requireAdmin(ctx, actor); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	sl := slug.ForCategory(in.Name)
	if sl == "" {
		return nil, &validate.Error{Field: "Name", Message: "Nome da categoria inválido."}
	}

	c, err := s.categories.Create(ctx, in.Name, sl)
	if err != nil {
		return nil, err
	}
	slog.Info("category created", "category_id", c.ID, "slug", c.Slug, "actor", actor)
	return c, nil
}

// DeleteCategory removes a category; its content becomes uncategorized.
// actor must be an admin.
func (s *Service) DeleteCategory(ctx context.Context, actor, id uuid.UUID) error {
	if err := s.requireAdmin(ctx, actor); err != nil {
		return err
	}
	if err := s.categories.Delete(ctx, id); err != nil {
		return err
	}
	if s.feed != nil {
		s.feed.InvalidateAll(ctx)
	}
	slog.Info("category deleted", "category_id", id, "actor", actor)
	return nil
}

func (s *Service) requireAdmin(ctx context.Context, actor uuid.UUID) error {
	p, err := s.profiles.FindByUserID(ctx, actor)
	if err != nil {
		return fmt.Errorf("loading actor profile: %w", err)
	}
	if !p.IsAdmin() {
		slog.Warn("admin operation denied", "user_id", actor)
		return ErrForbidden
	}
	return nil
}
