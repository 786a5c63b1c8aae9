// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"ivonews/internal/models"
)

// VideoStore handles all video-related database operations.
type VideoStore struct {
	db *sql.DB
}

// NewVideoStore creates a new VideoStore with the given database connection.
func NewVideoStore(db *sql.DB) *VideoStore {
	return &VideoStore{db: db}
}

const videoSelect = `
	SELECT v.id, v.title, v.slug, v.description, v.youtube_url, v.youtube_video_id,
	       v.thumbnail_url, v.published, v.published_at,
	       v.views_count, v.likes_count, v.comments_count,
	       v.author_id, v.category_id, v.created_at, v.updated_at, c.name
	FROM videos v
	LEFT JOIN categories c ON c.id = v.category_id`

func scanVideo(scanner interface{ Scan(...any) error }) (*models.Video, error) {
	v := &models.Video{}
	err := scanner.Scan(
		&v.ID, &v.Title, &v.Slug, &v.Description, &v.YouTubeURL, &v.YouTubeVideoID,
		&v.ThumbnailURL, &v.Published, &v.PublishedAt,
		&v.ViewsCount, &v.LikesCount, &v.CommentsCount,
		&v.AuthorID, &v.CategoryID, &v.CreatedAt, &v.UpdatedAt, &v.CategoryName,
	)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (s *VideoStore) list(ctx context.Context, query string, args ...any) ([]models.Video, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.Video
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan video: %w", err)
		}
		items = append(items, *v)
	}
	return items, rows.Err()
}

func (s *VideoStore) one(ctx context.Context, query string, args ...any) (*models.Video, error) {
	v, err := scanVideo(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return v, err
}

// ListByAuthor returns every video owned by authorID, newest first.
func (s *VideoStore) ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]models.Video, error) {
	items, err := s.list(ctx, videoSelect+` WHERE v.author_id = $1 ORDER BY v.created_at DESC`, authorID)
	if err != nil {
		return nil, fmt.Errorf("list videos by author: %w", err)
	}
	return items, nil
}

// ListPublished returns published videos, newest first, optionally limited
// to one category.
func (s *VideoStore) ListPublished(ctx context.Context, categoryID *uuid.UUID) ([]models.Video, error) {
	items, err := s.list(ctx, videoSelect+`
		WHERE v.published AND ($1::uuid IS NULL OR v.category_id = $1)
		ORDER BY v.created_at DESC`, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list published videos: %w", err)
	}
	return items, nil
}

// FindOwned returns video id if it belongs to authorID. Returns nil if not found.
func (s *VideoStore) FindOwned(ctx context.Context, id, authorID uuid.UUID) (*models.Video, error) {
	v, err := s.one(ctx, videoSelect+` WHERE v.id = $1 AND v.author_id = $2`, id, authorID)
	if err != nil {
		return nil, fmt.Errorf("find video: %w", err)
	}
	return v, nil
}

// FindPublishedBySlug returns the published video with slug, or nil.
func (s *VideoStore) FindPublishedBySlug(ctx context.Context, slug string) (*models.Video, error) {
	v, err := s.one(ctx, videoSelect+` WHERE v.slug = $1 AND v.published`, slug)
	if err != nil {
		return nil, fmt.Errorf("find video by slug: %w", err)
	}
	return v, nil
}

// Create inserts a new video and returns it with the generated ID and timestamps.
func (s *VideoStore) Create(ctx context.Context, v *models.Video) (*models.Video, error) {
	created := *v
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO videos (title, slug, description, youtube_url, youtube_video_id,
		                    thumbnail_url, published, published_at, author_id, category_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, views_count, likes_count, comments_count, created_at, updated_at
	`, v.Title, v.Slug, v.Description, v.YouTubeURL, v.YouTubeVideoID,
		v.ThumbnailURL, v.Published, v.PublishedAt, v.AuthorID, v.CategoryID,
	).Scan(
		&created.ID, &created.ViewsCount, &created.LikesCount, &created.CommentsCount,
		&created.CreatedAt, &created.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create video: %w", err)
	}
	return &created, nil
}

// Update overwrites the editable fields of a video owned by v.AuthorID.
func (s *VideoStore) Update(ctx context.Context, v *models.Video) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE videos SET
			title = $1, description = $2, youtube_url = $3, youtube_video_id = $4,
			thumbnail_url = $5, category_id = $6, published = $7, published_at = $8,
			updated_at = NOW()
		WHERE id = $9 AND author_id = $10
	`, v.Title, v.Description, v.YouTubeURL, v.YouTubeVideoID,
		v.ThumbnailURL, v.CategoryID, v.Published, v.PublishedAt, v.ID, v.AuthorID,
	)
	if err != nil {
		return fmt.Errorf("update video: %w", err)
	}
	return expectRow(res)
}

// SetPublished writes the publication gate for a video owned by authorID.
func (s *VideoStore) SetPublished(ctx context.Context, id, authorID uuid.UUID, published bool, at *time.Time) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE videos SET published = $1, published_at = $2, updated_at = NOW()
		WHERE id = $3 AND author_id = $4
	`, published, at, id, authorID)
	if err != nil {
		return fmt.Errorf("set video published: %w", err)
	}
	return expectRow(res)
}

// Delete removes a video owned by authorID.
func (s *VideoStore) Delete(ctx context.Context, id, authorID uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM videos WHERE id = $1 AND author_id = $2`, id, authorID)
	if err != nil {
		return fmt.Errorf("delete video: %w", err)
	}
	return expectRow(res)
}

// IncrementViews bumps views_count by one in a single statement.
func (s *VideoStore) IncrementViews(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `UPDATE videos SET views_count = views_count + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("increment video views: %w", err)
	}
	return nil
}
