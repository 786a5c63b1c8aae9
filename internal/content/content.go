// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package content implements the owner's side of posts and videos: the
// library on the profile page (load, publish toggle, delete) and the
// create/edit forms.
package content

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"ivonews/internal/models"
)

// ErrNotConfirmed is returned by deletes that were not explicitly confirmed.
var ErrNotConfirmed = errors.New("exclusão não confirmada")

// PostRepo is the persistence the package needs for posts.
type PostRepo interface {
	ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]models.Post, error)
	FindOwned(ctx context.Context, id, authorID uuid.UUID) (*models.Post, error)
	Create(ctx context.Context, p *models.Post) (*models.Post, error)
	Update(ctx context.Context, p *models.Post) error
	SetPublished(ctx context.Context, id, authorID uuid.UUID, published bool, at *time.Time) error
	Delete(ctx context.Context, id, authorID uuid.UUID) error
}

// VideoRepo is the persistence the package needs for videos.
type VideoRepo interface {
	ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]models.Video, error)
	FindOwned(ctx context.Context, id, authorID uuid.UUID) (*models.Video, error)
	Create(ctx context.Context, v *models.Video) (*models.Video, error)
	Update(ctx context.Context, v *models.Video) error
	SetPublished(ctx context.Context, id, authorID uuid.UUID, published bool, at *time.Time) error
	Delete(ctx context.Context, id, authorID uuid.UUID) error
}

// Invalidator drops cached public listings; *cache.FeedCache satisfies it.
type Invalidator interface {
	InvalidateAll(ctx context.Context)
}

type nopInvalidator struct{}

func (nopInvalidator) InvalidateAll(context.Context) {}

func orNop(inv Invalidator) Invalidator {
	if inv == nil {
		return nopInvalidator{}
	}
	return inv
}
