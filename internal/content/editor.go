package content

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"ivonews/internal/models"
	"ivonews/internal/sanitize"
	"ivonews/internal/slug"
	"ivonews/internal/store"
	"ivonews/internal/validate"
	"ivonews/internal/youtube"
)

// PostInput is the post form.
type PostInput struct {
	Title         string     `validate:"required,max=300" label:"Título"`
	Excerpt       string     `validate:"required,max=1000" label:"Resumo"`
	Content       string     `validate:"max=100000" label:"Conteúdo"`
	CoverImageURL string     `validate:"omitempty,url" label:"Imagem de capa"`
	CategoryID    *uuid.UUID `validate:"-"`
	Published     bool
}

// Validate trims the input and checks required fields.
func (in *PostInput) Validate() error {
	in.Title = strings.TrimSpace(in.Title)
	in.Excerpt = strings.TrimSpace(in.Excerpt)
	in.CoverImageURL = strings.TrimSpace(in.CoverImageURL)
	return validate.Struct(in)
}

// VideoInput is the video form.
type VideoInput struct {
	Title        string     `validate:"required,max=300" label:"Título"`
	Description  string     `validate:"required,max=5000" label:"Descrição"`
	YouTubeURL   string     `validate:"required" label:"URL do YouTube"`
	ThumbnailURL string     `validate:"omitempty,url" label:"Miniatura"`
	CategoryID   *uuid.UUID `validate:"-"`
	Published    bool

	videoID string
}

// Validate trims the input, checks required fields, and extracts the
// video id. A URL without an id fails with youtube.ErrInvalidURL.
func (in *VideoInput) Validate() error {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.YouTubeURL = strings.TrimSpace(in.YouTubeURL)
	in.ThumbnailURL = strings.TrimSpace(in.ThumbnailURL)
	if err := validate.Struct(in); err != nil {
		return err
	}
	id, err := youtube.MustExtractID(in.YouTubeURL)
	if err != nil {
		return err
	}
	in.videoID = id
	return nil
}

// thumbnail returns the explicit thumbnail or the platform default.
func (in *VideoInput) thumbnail() *string {
	if in.ThumbnailURL != "" {
		return &in.ThumbnailURL
	}
	t := youtube.ThumbnailURL(in.videoID)
	return &t
}

// Editor creates and updates content.
type Editor struct {
	posts  PostRepo
	videos VideoRepo
	feed   Invalidator
	now    func() time.Time
}

// NewEditor creates an Editor. feed may be nil.
func NewEditor(posts PostRepo, videos VideoRepo, feed Invalidator) *Editor {
	return &Editor{posts: posts, videos: videos, feed: orNop(feed), now: time.Now}
}

// CreatePost validates in and inserts a post authored by author.
func (e *Editor) CreatePost(ctx context.Context, author uuid.UUID, in PostInput) (*models.Post, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	now := e.now()
	p := &models.Post{
		Title:         in.Title,
		Slug:          slug.ForContent(in.Title, now),
		Content:       sanitize.HTML(in.Content),
		Excerpt:       in.Excerpt,
		CoverImageURL: optional(in.CoverImageURL),
		AuthorID:      author,
		CategoryID:    in.CategoryID,
	}
	p.SetPublished(in.Published, now)

	created, err := e.posts.Create(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("creating post: %w", err)
	}
	e.feed.InvalidateAll(ctx)
	slog.Info("post created", "post_id", created.ID, "slug", created.Slug, "published", created.Published)
	return created, nil
}

// UpdatePost validates in and overwrites a post owned by author. The slug
// is kept. PublishedAt only moves when the publish flag changes.
func (e *Editor) UpdatePost(ctx context.Context, author, id uuid.UUID, in PostInput) (*models.Post, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	p, err := e.posts.FindOwned(ctx, id, author)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, store.ErrNotFound
	}

	p.Title = in.Title
	p.Excerpt = in.Excerpt
	p.Content = sanitize.HTML(in.Content)
	p.CoverImageURL = optional(in.CoverImageURL)
	p.CategoryID = in.CategoryID
	if in.Published != p.Published {
		p.SetPublished(in.Published, e.now())
	}

	if err := e.posts.Update(ctx, p); err != nil {
		return nil, err
	}
	e.feed.InvalidateAll(ctx)
	return p, nil
}

// CreateVideo validates in and inserts a video authored by author. The
// thumbnail defaults to the platform's maxres image.
func (e *Editor) CreateVideo(ctx context.Context, author uuid.UUID, in VideoInput) (*models.Video, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	now := e.now()
	v := &models.Video{
		Title:          in.Title,
		Slug:           slug.ForContent(in.Title, now),
		Description:    in.Description,
		YouTubeURL:     in.YouTubeURL,
		YouTubeVideoID: in.videoID,
		ThumbnailURL:   in.thumbnail(),
		AuthorID:       author,
		CategoryID:     in.CategoryID,
	}
	v.SetPublished(in.Published, now)

	created, err := e.videos.Create(ctx, v)
	if err != nil {
		return nil, fmt.Errorf("creating video: %w", err)
	}
	e.feed.InvalidateAll(ctx)
	slog.Info("video created", "video_id", created.ID, "slug", created.Slug, "published", created.Published)
	return created, nil
}

// UpdateVideo validates in and overwrites a video owned by author.
func (e *Editor) UpdateVideo(ctx context.Context, author, id uuid.UUID, in VideoInput) (*models.Video, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	v, err := e.videos.FindOwned(ctx, id, author)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, store.ErrNotFound
	}

	v.Title = in.Title
	v.Description = in.Description
	v.YouTubeURL = in.YouTubeURL
	v.YouTubeVideoID = in.videoID
	v.ThumbnailURL = in.thumbnail()
	v.CategoryID = in.CategoryID
	if in.Published != v.Published {
		v.SetPublished(in.Published, e.now())
	}

	if err := e.videos.Update(ctx, v); err != nil {
		return nil, err
	}
	e.feed.InvalidateAll(ctx)
	return v, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
