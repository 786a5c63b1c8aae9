package content

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"ivonews/internal/models"
	"ivonews/internal/store"
)

// Library is everything one author owns, newest first.
type Library struct {
	Posts  []models.Post
	Videos []models.Video
}

// Partition splits a library by publication state.
type Partition struct {
	DraftPosts      []models.Post
	PublishedPosts  []models.Post
	DraftVideos     []models.Video
	PublishedVideos []models.Video
}

// Partition groups the library into drafts and published items, keeping
// the original order inside each group.
func (l *Library) Partition() Partition {
	var p Partition
	for _, post := range l.Posts {
		if post.Published {
			p.PublishedPosts = append(p.PublishedPosts, post)
		} else {
			p.DraftPosts = append(p.DraftPosts, post)
		}
	}
	for _, v := range l.Videos {
		if v.Published {
			p.PublishedVideos = append(p.PublishedVideos, v)
		} else {
			p.DraftVideos = append(p.DraftVideos, v)
		}
	}
	return p
}

// Manager serves the owner's content list.
type Manager struct {
	posts  PostRepo
	videos VideoRepo
	feed   Invalidator
	now    func() time.Time
}

// NewManager creates a Manager. feed may be nil.
func NewManager(posts PostRepo, videos VideoRepo, feed Invalidator) *Manager {
	return &Manager{posts: posts, videos: videos, feed: orNop(feed), now: time.Now}
}

// Load fetches the library of owner.
func (m *Manager) Load(ctx context.Context, owner uuid.UUID) (*Library, error) {
	posts, err := m.posts.ListByAuthor(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("loading posts: %w", err)
	}
	videos, err := m.videos.ListByAuthor(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("loading videos: %w", err)
	}
	return &Library{Posts: posts, Videos: videos}, nil
}

// Post returns a post owned by owner, or store.ErrNotFound.
func (m *Manager) Post(ctx context.Context, owner, id uuid.UUID) (*models.Post, error) {
	p, err := m.posts.FindOwned(ctx, id, owner)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, store.ErrNotFound
	}
	return p, nil
}

// Video returns a video owned by owner, or store.ErrNotFound.
func (m *Manager) Video(ctx context.Context, owner, id uuid.UUID) (*models.Video, error) {
	v, err := m.videos.FindOwned(ctx, id, owner)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, store.ErrNotFound
	}
	return v, nil
}

// TogglePublishPost flips the publication state of a post owned by owner
// and returns it as persisted. Nothing changes if the write fails.
func (m *Manager) TogglePublishPost(ctx context.Context, owner, id uuid.UUID) (*models.Post, error) {
	p, err := m.posts.FindOwned(ctx, id, owner)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, store.ErrNotFound
	}

	updated := *p
	updated.SetPublished(!p.Published, m.now())
	if err := m.posts.SetPublished(ctx, id, owner, updated.Published, updated.PublishedAt); err != nil {
		return nil, err
	}
	m.feed.InvalidateAll(ctx)

	slog.Info("post publication toggled", "post_id", id, "published", updated.Published)
	return &updated, nil
}

// TogglePublishVideo is TogglePublishPost for videos.
func (m *Manager) TogglePublishVideo(ctx context.Context, owner, id uuid.UUID) (*models.Video, error) {
	v, err := m.videos.FindOwned(ctx, id, owner)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, store.ErrNotFound
	}

	updated := *v
	updated.SetPublished(!v.Published, m.now())
	if err := m.videos.SetPublished(ctx, id, owner, updated.Published, updated.PublishedAt); err != nil {
		return nil, err
	}
	m.feed.InvalidateAll(ctx)

	slog.Info("video publication toggled", "video_id", id, "published", updated.Published)
	return &updated, nil
}

// DeletePost removes a post owned by owner. confirmed must be true.
func (m *Manager) DeletePost(ctx context.Context, owner, id uuid.UUID, confirmed bool) error {
	if !confirmed {
		return ErrNotConfirmed
	}
	if err := m.posts.Delete(ctx, id, owner); err != nil {
		return err
	}
	m.feed.InvalidateAll(ctx)
	slog.Info("post deleted", "post_id", id, "author_id", owner)
	return nil
}

// DeleteVideo removes a video owned by owner. confirmed must be true.
func (m *Manager) DeleteVideo(ctx context.Context, owner, id uuid.UUID, confirmed bool) error {
	if !confirmed {
		return ErrNotConfirmed
	}
	if err := m.videos.Delete(ctx, id, owner); err != nil {
		return err
	}
	m.feed.InvalidateAll(ctx)
	slog.Info("video deleted", "video_id", id, "author_id", owner)
	return nil
}
