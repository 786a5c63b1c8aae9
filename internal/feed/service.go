package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"ivonews/internal/cache"
	"ivonews/internal/models"
)

// EmptyState says which empty message a listing should show.
type EmptyState int

const (
	EmptyNone EmptyState = iota
	// EmptyNoResults: a search matched nothing.
	EmptyNoResults
	// EmptyCategory: nothing is published here yet.
	EmptyCategory
)

// Query selects a listing.
type Query struct {
	Category string // category slug, "" for all
	Term     string
	Type     models.ContentType // "" for both
}

// Listing is the result of a Query.
type Listing struct {
	Query    Query
	Category *models.Category // nil when unscoped or unknown
	Items    []Item
	Empty    EmptyState
}

// NoResults reports whether a search came up empty.
func (l *Listing) NoResults() bool {
	return l.Empty == EmptyNoResults
}

// PostSource lists published posts.
type PostSource interface {
	ListPublished(ctx context.Context, categoryID *uuid.UUID) ([]models.Post, error)
}

// VideoSource lists published videos.
type VideoSource interface {
	ListPublished(ctx context.Context, categoryID *uuid.UUID) ([]models.Video, error)
}

// CategorySource resolves category slugs.
type CategorySource interface {
	FindBySlug(ctx context.Context, slug string) (*models.Category, error)
}

// Cache stores merged listings; *cache.FeedCache satisfies it.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, data []byte)
}

// Service builds listings.
type Service struct {
	posts      PostSource
	videos     VideoSource
	categories CategorySource
	cache      Cache
}

// NewService creates a Service. c may be nil to disable caching.
func NewService(posts PostSource, videos VideoSource, categories CategorySource, c Cache) *Service {
	return &Service{posts: posts, videos: videos, categories: categories, cache: c}
}

// List returns the listing for q. An unknown category slug is not an error:
// it yields an empty-category listing.
func (s *Service) List(ctx context.Context, q Query) (*Listing, error) {
	l := &Listing{Query: q}

	var categoryID *uuid.UUID
	if q.Category != "" {
		cat, err := s.categories.FindBySlug(ctx, q.Category)
		if err != nil {
			return nil, fmt.Errorf("resolving category %q: %w", q.Category, err)
		}
		if cat == nil {
			l.Empty = EmptyCategory
			return l, nil
		}
		l.Category = cat
		categoryID = &cat.ID
	}

	items, err := s.merged(ctx, q.Category, categoryID)
	if err != nil {
		return nil, err
	}

	items = OfType(Filter(items, q.Term), q.Type)
	l.Items = items
	if len(items) == 0 {
		if q.Term != "" {
			l.Empty = EmptyNoResults
		} else {
			l.Empty = EmptyCategory
		}
	}
	return l, nil
}

// merged returns the unfiltered list for a category, through the cache.
func (s *Service) merged(ctx context.Context, slug string, categoryID *uuid.UUID) ([]Item, error) {
	key := cache.Key(slug)
	if s.cache != nil {
		if data, ok := s.cache.Get(ctx, key); ok {
			var items []Item
			if err := json.Unmarshal(data, &items); err == nil {
				return items, nil
			}
			slog.Warn("discarding undecodable feed cache entry", "key", key)
		}
	}

	posts, err := s.posts.ListPublished(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("listing posts: %w", err)
	}
	videos, err := s.videos.ListPublished(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("listing videos: %w", err)
	}
	items := Merge(posts, videos)

	if s.cache != nil {
		if data, err := json.Marshal(items); err == nil {
			s.cache.Set(ctx, key, data)
		}
	}
	return items, nil
}
