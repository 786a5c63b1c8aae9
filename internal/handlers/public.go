// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"ivonews/internal/assistant"
	"ivonews/internal/feed"
	"ivonews/internal/functions"
	"ivonews/internal/metrics"
	"ivonews/internal/models"
	"ivonews/internal/render"
	"ivonews/internal/site"
)

// homeLatest is how many recent items the landing page shows.
const homeLatest = 6

// PublishedPosts finds published posts and counts their views.
type PublishedPosts interface {
	FindPublishedBySlug(ctx context.Context, slug string) (*models.Post, error)
	IncrementViews(ctx context.Context, id uuid.UUID) error
}

// PublishedVideos finds published videos and counts their views.
type PublishedVideos interface {
	FindPublishedBySlug(ctx context.Context, slug string) (*models.Video, error)
	IncrementViews(ctx context.Context, id uuid.UUID) error
}

// Public groups the handlers of the public site: landing page, feed, topic
// pages and detail views.
type Public struct {
	renderer  *render.Renderer
	feed      *feed.Service
	posts     PublishedPosts
	videos    PublishedVideos
	functions *functions.Service
	rec       metrics.Recorder
}

// NewPublic creates a new Public handler group. rec may be nil.
func NewPublic(renderer *render.Renderer, feedSvc *feed.Service, posts PublishedPosts, videos PublishedVideos, fns *functions.Service, rec metrics.Recorder) *Public {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &Public{
		renderer:  renderer,
		feed:      feedSvc,
		posts:     posts,
		videos:    videos,
		functions: fns,
		rec:       rec,
	}
}

// Home renders the landing page, or the feed when a category or search
// term is given.
func (p *Public) Home(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Has("category") || q.Has("q") {
		p.feedPage(w, r)
		return
	}

	data := map[string]any{
		"Categories":   site.HomeCategories(),
		"Testimonials": site.Testimonials(),
	}
	latest, err := p.feed.List(r.Context(), feed.Query{})
	if err != nil {
		slog.Error("home listing failed", "error", err)
	} else {
		if len(latest.Items) > homeLatest {
			latest.Items = latest.Items[:homeLatest]
		}
		data["Latest"] = latest
	}

	p.renderer.Page(w, r, "home", &render.PageData{
		Title:   "Início",
		Section: "/",
		Data:    data,
	})
}

// feedPage lists published content for ?category= and ?q=.
func (p *Public) feedPage(w http.ResponseWriter, r *http.Request) {
	query := feed.Query{
		Category: strings.TrimSpace(r.URL.Query().Get("category")),
		Term:     strings.TrimSpace(r.URL.Query().Get("q")),
		Type:     contentType(r.URL.Query().Get("type")),
	}
	listing, err := p.feed.List(r.Context(), query)
	if err != nil {
		slog.Error("feed listing failed", "error", err, "category", query.Category)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	heading := "Todo o conteúdo"
	switch {
	case listing.Category != nil:
		heading = listing.Category.Name
	case query.Category != "":
		heading = site.CategoryTitle(query.Category)
	case query.Term != "":
		heading = "Resultados da busca"
	}

	p.renderer.Page(w, r, "feed", &render.PageData{
		Title: heading,
		Data: map[string]any{
			"Heading": heading,
			"Listing": listing,
		},
	})
}

// Topic returns the handler for a topic landing page.
func (p *Public) Topic(topic site.Topic) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := feed.Query{Category: topic.Category}
		if topic.Searchable {
			query.Term = strings.TrimSpace(r.URL.Query().Get("q"))
			query.Type = contentType(r.URL.Query().Get("type"))
		}

		listing, err := p.feed.List(r.Context(), query)
		if err != nil {
			slog.Error("topic listing failed", "error", err, "topic", topic.Path)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		data := map[string]any{
			"Topic":   topic,
			"Listing": listing,
		}
		if topic.Function != "" && p.functions != nil {
			if def, ok := p.functions.Lookup(topic.Function); ok {
				data["Panel"] = assistant.NewPanel(def)
			}
		}

		p.renderer.Page(w, r, "topic", &render.PageData{
			Title:   topic.Title,
			Section: topic.Path,
			Data:    data,
		})
	}
}

// PostView renders a published post and counts the view.
func (p *Public) PostView(w http.ResponseWriter, r *http.Request) {
	slugParam := chi.URLParam(r, "slug")

	post, err := p.posts.FindPublishedBySlug(r.Context(), slugParam)
	if err != nil {
		slog.Error("find post by slug failed", "error", err, "slug", slugParam)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if post == nil {
		p.notFound(w, r, "Post não encontrado")
		return
	}

	if err := p.posts.IncrementViews(r.Context(), post.ID); err != nil {
		slog.Warn("post view count failed", "error", err, "post_id", post.ID)
	} else {
		post.ViewsCount++
	}
	p.rec.RecordView(string(models.ContentTypePost))

	p.renderer.Page(w, r, "post", &render.PageData{
		Title: post.Title,
		Data:  map[string]any{"Post": post},
	})
}

// VideoView renders a published video with the embedded player.
func (p *Public) VideoView(w http.ResponseWriter, r *http.Request) {
	slugParam := chi.URLParam(r, "slug")

	video, err := p.videos.FindPublishedBySlug(r.Context(), slugParam)
	if err != nil {
		slog.Error("find video by slug failed", "error", err, "slug", slugParam)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if video == nil {
		p.notFound(w, r, "Vídeo não encontrado")
		return
	}

	if err := p.videos.IncrementViews(r.Context(), video.ID); err != nil {
		slog.Warn("video view count failed", "error", err, "video_id", video.ID)
	} else {
		video.ViewsCount++
	}
	p.rec.RecordView(string(models.ContentTypeVideo))

	p.renderer.Page(w, r, "video", &render.PageData{
		Title: video.Title,
		Data:  map[string]any{"Video": video},
	})
}

// NotFound is the catch-all for unknown paths.
func (p *Public) NotFound(w http.ResponseWriter, r *http.Request) {
	p.renderer.PageStatus(w, r, http.StatusNotFound, "not_found", &render.PageData{
		Title: "Página não encontrada",
		Data:  map[string]any{"Message": "Página não encontrada", "Back": "/"},
	})
}

func (p *Public) notFound(w http.ResponseWriter, r *http.Request, message string) {
	p.renderer.PageStatus(w, r, http.StatusNotFound, "not_found", &render.PageData{
		Title: message,
		Data:  map[string]any{"Message": message, "Back": "/noticias"},
	})
}

// contentType maps the ?type= tab to a content type; anything else means
// both.
func contentType(v string) models.ContentType {
	switch models.ContentType(v) {
	case models.ContentTypePost:
		return models.ContentTypePost
	case models.ContentTypeVideo:
		return models.ContentTypeVideo
	}
	return ""
}
