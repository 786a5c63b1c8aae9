// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// ContentType distinguishes posts from videos wherever the two are handled
// together (feed cards, owner library, detail routes).
type ContentType string

const (
	ContentTypePost  ContentType = "post"
	ContentTypeVideo ContentType = "video"
)

// Label returns the Portuguese display name for the content type.
func (t ContentType) Label() string {
	if t == ContentTypeVideo {
		return "Vídeo"
	}
	return "Post"
}

// Post is a rich-text article.
type Post struct {
	ID            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	Slug          string     `json:"slug"`
	Content       string     `json:"content"`
	Excerpt       string     `json:"excerpt"`
	CoverImageURL *string    `json:"cover_image_url,omitempty"`
	Published     bool       `json:"published"`
	PublishedAt   *time.Time `json:"published_at,omitempty"`
	ViewsCount    int        `json:"views_count"`
	LikesCount    int        `json:"likes_count"`
	CommentsCount int        `json:"comments_count"`
	AuthorID      uuid.UUID  `json:"author_id"`
	CategoryID    *uuid.UUID `json:"category_id,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	// Virtual field populated by joins; nil when the post has no category.
	CategoryName *string `json:"category_name,omitempty"`
}

// SetPublished flips the publication gate, keeping PublishedAt in step:
// set to now when publishing, cleared when unpublishing.
func (p *Post) SetPublished(on bool, now time.Time) {
	p.Published, p.PublishedAt = publication(on, now)
}

// CategoryLabel returns the joined category name or "" when absent.
func (p *Post) CategoryLabel() string {
	return deref(p.CategoryName)
}

// Video wraps an external YouTube video.
type Video struct {
	ID             uuid.UUID  `json:"id"`
	Title          string     `json:"title"`
	Slug           string     `json:"slug"`
	Description    string     `json:"description"`
	YouTubeURL     string     `json:"youtube_url"`
	YouTubeVideoID string     `json:"youtube_video_id"`
	ThumbnailURL   *string    `json:"thumbnail_url,omitempty"`
	Published      bool       `json:"published"`
	PublishedAt    *time.Time `json:"published_at,omitempty"`
	ViewsCount     int        `json:"views_count"`
	LikesCount     int        `json:"likes_count"`
	CommentsCount  int        `json:"comments_count"`
	AuthorID       uuid.UUID  `json:"author_id"`
	CategoryID     *uuid.UUID `json:"category_id,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	CategoryName *string `json:"category_name,omitempty"`
}

// SetPublished mirrors Post.SetPublished.
func (v *Video) SetPublished(on bool, now time.Time) {
	v.Published, v.PublishedAt = publication(on, now)
}

// CategoryLabel returns the joined category name or "" when absent.
func (v *Video) CategoryLabel() string {
	return deref(v.CategoryName)
}

func publication(on bool, now time.Time) (bool, *time.Time) {
	if !on {
		return false, nil
	}
	t := now
	return true, &t
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
