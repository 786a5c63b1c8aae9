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

// PostStore handles all post-related database operations.
type PostStore struct {
	db *sql.DB
}

// NewPostStore creates a new PostStore with the given database connection.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

const postSelect = `
	SELECT p.id, p.title, p.slug, p.content, p.excerpt, p.cover_image_url,
	       p.published, p.published_at, p.views_count, p.likes_count, p.comments_count,
	       p.author_id, p.category_id, p.created_at, p.updated_at, c.name
	FROM posts p
	LEFT JOIN categories c ON c.id = p.category_id`

func scanPost(scanner interface{ Scan(...any) error }) (*models.Post, error) {
	p := &models.Post{}
	err := scanner.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Content, &p.Excerpt, &p.CoverImageURL,
		&p.Published, &p.PublishedAt, &p.ViewsCount, &p.LikesCount, &p.CommentsCount,
		&p.AuthorID, &p.CategoryID, &p.CreatedAt, &p.UpdatedAt, &p.CategoryName,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PostStore) list(ctx context.Context, query string, args ...any) ([]models.Post, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}

func (s *PostStore) one(ctx context.Context, query string, args ...any) (*models.Post, error) {
	p, err := scanPost(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return p, err
}

// ListByAuthor returns every post owned by authorID, newest first.
func (s *PostStore) ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]models.Post, error) {
	items, err := s.list(ctx, postSelect+` WHERE p.author_id = $1 ORDER BY p.created_at DESC`, authorID)
	if err != nil {
		return nil, fmt.Errorf("list posts by author: %w", err)
	}
	return items, nil
}

// ListPublished returns published posts, newest first, optionally limited
// to one category.
func (s *PostStore) ListPublished(ctx context.Context, categoryID *uuid.UUID) ([]models.Post, error) {
	items, err := s.list(ctx, postSelect+`
		WHERE p.published AND ($1::uuid IS NULL OR p.category_id = $1)
		ORDER BY p.created_at DESC`, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list published posts: %w", err)
	}
	return items, nil
}

// FindOwned returns post id if it belongs to authorID. Returns nil if not found.
func (s *PostStore) FindOwned(ctx context.Context, id, authorID uuid.UUID) (*models.Post, error) {
	p, err := s.one(ctx, postSelect+` WHERE p.id = $1 AND p.author_id = $2`, id, authorID)
	if err != nil {
		return nil, fmt.Errorf("find post: %w", err)
	}
	return p, nil
}

// FindPublishedBySlug returns the published post with slug, or nil.
func (s *PostStore) FindPublishedBySlug(ctx context.Context, slug string) (*models.Post, error) {
	p, err := s.one(ctx, postSelect+` WHERE p.slug = $1 AND p.published`, slug)
	if err != nil {
		return nil, fmt.Errorf("find post by slug: %w", err)
	}
	return p, nil
}

// Create inserts a new post and returns it with the generated ID and timestamps.
func (s *PostStore) Create(ctx context.Context, p *models.Post) (*models.Post, error) {
	created := *p
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO posts (title, slug, content, excerpt, cover_image_url,
		                   published, published_at, author_id, category_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, views_count, likes_count, comments_count, created_at, updated_at
	`, p.Title, p.Slug, p.Content, p.Excerpt, p.CoverImageURL,
		p.Published, p.PublishedAt, p.AuthorID, p.CategoryID,
	).Scan(
		&created.ID, &created.ViewsCount, &created.LikesCount, &created.CommentsCount,
		&created.CreatedAt, &created.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return &created, nil
}

// Update overwrites the editable fields of a post owned by p.AuthorID.
// Slug, author, and counters are never changed here.
func (s *PostStore) Update(ctx context.Context, p *models.Post) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE posts SET
			title = $1, content = $2, excerpt = $3, cover_image_url = $4,
			category_id = $5, published = $6, published_at = $7, updated_at = NOW()
		WHERE id = $8 AND author_id = $9
	`, p.Title, p.Content, p.Excerpt, p.CoverImageURL,
		p.CategoryID, p.Published, p.PublishedAt, p.ID, p.AuthorID,
	)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	return expectRow(res)
}

// SetPublished writes the publication gate for a post owned by authorID.
func (s *PostStore) SetPublished(ctx context.Context, id, authorID uuid.UUID, published bool, at *time.Time) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE posts SET published = $1, published_at = $2, updated_at = NOW()
		WHERE id = $3 AND author_id = $4
	`, published, at, id, authorID)
	if err != nil {
		return fmt.Errorf("set post published: %w", err)
	}
	return expectRow(res)
}

// Delete removes a post owned by authorID.
func (s *PostStore) Delete(ctx context.Context, id, authorID uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1 AND author_id = $2`, id, authorID)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return expectRow(res)
}

// IncrementViews bumps views_count by one in a single statement, so
// concurrent readers never lose an increment.
func (s *PostStore) IncrementViews(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `UPDATE posts SET views_count = views_count + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("increment post views: %w", err)
	}
	return nil
}
