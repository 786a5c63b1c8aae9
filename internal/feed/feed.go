// Package feed builds the public listing: published posts and videos
// merged into one newest-first list, optionally scoped to a category,
// filtered by a search term or a content type.
package feed

import (
	"fmt"
	"html"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/text/cases"

	"ivonews/internal/models"
	"ivonews/internal/sanitize"
)

// ExcerptLength is the card description length in runes.
const ExcerptLength = 150

// Item is one card on a listing page.
type Item struct {
	Type        models.ContentType `json:"type"`
	ID          uuid.UUID          `json:"id"`
	Title       string             `json:"title"`
	Slug        string             `json:"slug"`
	Description string             `json:"description"`
	ImageURL    string             `json:"image_url,omitempty"`
	Category    string             `json:"category"`
	Views       int                `json:"views"`
	Likes       int                `json:"likes"`
	Comments    int                `json:"comments"`
	CreatedAt   time.Time          `json:"created_at"`
}

// URL returns the detail route, /post/:slug or /video/:slug.
func (i Item) URL() string {
	return "/" + string(i.Type) + "/" + i.Slug
}

// Excerpt is the plain-text card description, unescaped so templates can
// escape it once.
func (i Item) Excerpt() string {
	return Truncate(html.UnescapeString(sanitize.Text(i.Description)), ExcerptLength)
}

// ViewsLabel is the formatted view counter.
func (i Item) ViewsLabel() string {
	return FormatViews(i.Views)
}

// Merge tags posts and videos and sorts them by creation time, newest first.
func Merge(posts []models.Post, videos []models.Video) []Item {
	items := make([]Item, 0, len(posts)+len(videos))
	for _, p := range posts {
		items = append(items, Item{
			Type:        models.ContentTypePost,
			ID:          p.ID,
			Title:       p.Title,
			Slug:        p.Slug,
			Description: p.Excerpt,
			ImageURL:    derefOr(p.CoverImageURL),
			Category:    p.CategoryLabel(),
			Views:       p.ViewsCount,
			Likes:       p.LikesCount,
			Comments:    p.CommentsCount,
			CreatedAt:   p.CreatedAt,
		})
	}
	for _, v := range videos {
		items = append(items, Item{
			Type:        models.ContentTypeVideo,
			ID:          v.ID,
			Title:       v.Title,
			Slug:        v.Slug,
			Description: v.Description,
			ImageURL:    derefOr(v.ThumbnailURL),
			Category:    v.CategoryLabel(),
			Views:       v.ViewsCount,
			Likes:       v.LikesCount,
			Comments:    v.CommentsCount,
			CreatedAt:   v.CreatedAt,
		})
	}
	sort.SliceStable(items, func(a, b int) bool {
		return items[a].CreatedAt.After(items[b].CreatedAt)
	})
	return items
}

var folder = cases.Fold()

// Filter keeps items whose title or description contains term, ignoring
// case. A blank term keeps everything.
func Filter(items []Item, term string) []Item {
	term = strings.TrimSpace(term)
	if term == "" {
		return items
	}
	needle := folder.String(term)

	out := make([]Item, 0, len(items))
	for _, it := range items {
		if strings.Contains(folder.String(it.Title), needle) ||
			strings.Contains(folder.String(it.Description), needle) {
			out = append(out, it)
		}
	}
	return out
}

// OfType keeps items of type t. An empty t keeps everything.
func OfType(items []Item, t models.ContentType) []Item {
	if t == "" {
		return items
	}
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if it.Type == t {
			out = append(out, it)
		}
	}
	return out
}

// FormatViews renders 1500 as "1.5k"; counts below 1000 are printed as is.
func FormatViews(n int) string {
	if n >= 1000 {
		return fmt.Sprintf("%.1fk", float64(n)/1000)
	}
	return fmt.Sprintf("%d", n)
}

// Truncate cuts s to max runes and appends "..." when anything was cut.
func Truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max]) + "..."
}

func derefOr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
