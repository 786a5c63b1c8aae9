// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure: in-memory stores,
// a recording session store and a chi router wired like production.
package handlers

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"ivonews/internal/account"
	"ivonews/internal/ai"
	"ivonews/internal/content"
	"ivonews/internal/feed"
	"ivonews/internal/functions"
	"ivonews/internal/middleware"
	"ivonews/internal/models"
	"ivonews/internal/render"
	"ivonews/internal/session"
	"ivonews/internal/site"
	"ivonews/internal/store"
	"ivonews/internal/upload"
)

// --------------------------------------------------------------------------
// Sessions
// --------------------------------------------------------------------------

type fakeSessions struct {
	mu        sync.Mutex
	created   []*session.Data
	updated   []*session.Data
	flashes   []session.Flash
	destroyed int
}

func (f *fakeSessions) Create(_ context.Context, w http.ResponseWriter, data *session.Data) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, data)
	http.SetCookie(w, &http.Cookie{Name: session.CookieName, Value: "test-session"})
	return "test-session", nil
}

func (f *fakeSessions) Update(_ context.Context, _ *http.Request, data *session.Data) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updated = append(f.updated, data)
	return nil
}

func (f *fakeSessions) AddFlash(_ context.Context, _ *http.Request, fl session.Flash) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.flashes = append(f.flashes, fl)
	return nil
}

func (f *fakeSessions) Destroy(context.Context, http.ResponseWriter, *http.Request) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.destroyed++
	return nil
}

func (f *fakeSessions) lastFlash() session.Flash {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.flashes) == 0 {
		return session.Flash{}
	}
	return f.flashes[len(f.flashes)-1]
}

// --------------------------------------------------------------------------
// Content
// --------------------------------------------------------------------------

type memPosts struct {
	mu    sync.Mutex
	items map[uuid.UUID]*models.Post
	views int
}

func newMemPosts() *memPosts { return &memPosts{items: map[uuid.UUID]*models.Post{}} }

func (m *memPosts) ListByAuthor(_ context.Context, author uuid.UUID) ([]models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Post
	for _, p := range m.items {
		if p.AuthorID == author {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memPosts) ListPublished(_ context.Context, categoryID *uuid.UUID) ([]models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Post
	for _, p := range m.items {
		if !p.Published {
			continue
		}
		if categoryID != nil && (p.CategoryID == nil || *p.CategoryID != *categoryID) {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (m *memPosts) FindOwned(_ context.Context, id, author uuid.UUID) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.items[id]; ok && p.AuthorID == author {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (m *memPosts) FindPublishedBySlug(_ context.Context, slug string) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.items {
		if p.Slug == slug && p.Published {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memPosts) Create(_ context.Context, p *models.Post) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	cp.ID = uuid.New()
	cp.CreatedAt = time.Now()
	m.items[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (m *memPosts) Update(_ context.Context, p *models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[p.ID]; !ok {
		return store.ErrNotFound
	}
	cp := *p
	m.items[p.ID] = &cp
	return nil
}

func (m *memPosts) SetPublished(_ context.Context, id, author uuid.UUID, published bool, at *time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.items[id]
	if !ok || p.AuthorID != author {
		return store.ErrNotFound
	}
	p.Published, p.PublishedAt = published, at
	return nil
}

func (m *memPosts) Delete(_ context.Context, id, author uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.items[id]
	if !ok || p.AuthorID != author {
		return store.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *memPosts) IncrementViews(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.items[id]; ok {
		p.ViewsCount++
		m.views++
	}
	return nil
}

func (m *memPosts) add(p models.Post) *models.Post {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	m.items[p.ID] = &p
	return &p
}

func (m *memPosts) get(id uuid.UUID) *models.Post {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.items[id]
}

func (m *memPosts) all() []models.Post {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Post
	for _, p := range m.items {
		out = append(out, *p)
	}
	return out
}

type memVideos struct {
	mu    sync.Mutex
	items map[uuid.UUID]*models.Video
}

func newMemVideos() *memVideos { return &memVideos{items: map[uuid.UUID]*models.Video{}} }

func (m *memVideos) ListByAuthor(_ context.Context, author uuid.UUID) ([]models.Video, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Video
	for _, v := range m.items {
		if v.AuthorID == author {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (m *memVideos) ListPublished(_ context.Context, categoryID *uuid.UUID) ([]models.Video, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Video
	for _, v := range m.items {
		if !v.Published {
			continue
		}
		if categoryID != nil && (v.CategoryID == nil || *v.CategoryID != *categoryID) {
			continue
		}
		out = append(out, *v)
	}
	return out, nil
}

func (m *memVideos) FindOwned(_ context.Context, id, author uuid.UUID) (*models.Video, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.items[id]; ok && v.AuthorID == author {
		cp := *v
		return &cp, nil
	}
	return nil, nil
}

func (m *memVideos) FindPublishedBySlug(_ context.Context, slug string) (*models.Video, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, v := range m.items {
		if v.Slug == slug && v.Published {
			cp := *v
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memVideos) Create(_ context.Context, v *models.Video) (*models.Video, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *v
	cp.ID = uuid.New()
	cp.CreatedAt = time.Now()
	m.items[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (m *memVideos) Update(_ context.Context, v *models.Video) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *v
	m.items[v.ID] = &cp
	return nil
}

func (m *memVideos) SetPublished(_ context.Context, id, author uuid.UUID, published bool, at *time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.items[id]
	if !ok || v.AuthorID != author {
		return store.ErrNotFound
	}
	v.Published, v.PublishedAt = published, at
	return nil
}

func (m *memVideos) Delete(_ context.Context, id, author uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.items[id]
	if !ok || v.AuthorID != author {
		return store.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *memVideos) IncrementViews(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.items[id]; ok {
		v.ViewsCount++
	}
	return nil
}

func (m *memVideos) all() []models.Video {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Video
	for _, v := range m.items {
		out = append(out, *v)
	}
	return out
}

// --------------------------------------------------------------------------
// Accounts
// --------------------------------------------------------------------------

type memCategories struct {
	mu    sync.Mutex
	items []models.Category
}

func (m *memCategories) List(context.Context) ([]models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Category(nil), m.items...), nil
}

func (m *memCategories) FindBySlug(_ context.Context, slug string) (*models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.items {
		if c.Slug == slug {
			cp := c
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memCategories) Create(_ context.Context, name, slug string) (*models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.items {
		if c.Slug == slug {
			return nil, store.ErrSlugTaken
		}
	}
	c := models.Category{ID: uuid.New(), Name: name, Slug: slug, CreatedAt: time.Now()}
	m.items = append(m.items, c)
	return &c, nil
}

func (m *memCategories) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, c := range m.items {
		if c.ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

type memProfiles struct {
	mu    sync.Mutex
	items map[uuid.UUID]*models.Profile
}

func (m *memProfiles) FindByUserID(_ context.Context, id uuid.UUID) (*models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.items[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (m *memProfiles) Update(_ context.Context, id uuid.UUID, name string, avatar *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.items[id]
	if !ok {
		return store.ErrNotFound
	}
	p.DisplayName, p.AvatarURL = name, avatar
	return nil
}

func (m *memProfiles) SetAvatar(_ context.Context, id uuid.UUID, avatar *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.items[id]
	if !ok {
		return store.ErrNotFound
	}
	p.AvatarURL = avatar
	return nil
}

type memUsers struct {
	mu        sync.Mutex
	byEmail   map[string]*models.User
	passwords map[uuid.UUID]string
	profiles  *memProfiles
}

func (m *memUsers) Authenticate(_ context.Context, email, password string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byEmail[strings.ToLower(email)]
	if !ok || m.passwords[u.ID] != password {
		return nil, nil
	}
	return u, nil
}

func (m *memUsers) Create(_ context.Context, email, password, displayName string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	email = strings.ToLower(email)
	if _, ok := m.byEmail[email]; ok {
		return nil, store.ErrEmailTaken
	}
	u := &models.User{ID: uuid.New(), Email: email}
	m.byEmail[email] = u
	m.passwords[u.ID] = password
	m.profiles.mu.Lock()
	m.profiles.items[u.ID] = &models.Profile{UserID: u.ID, DisplayName: displayName, Role: models.RoleUser}
	m.profiles.mu.Unlock()
	return u, nil
}

func (m *memUsers) UpdatePassword(_ context.Context, id uuid.UUID, password string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.passwords[id] = password
	return nil
}

// --------------------------------------------------------------------------
// AI and storage
// --------------------------------------------------------------------------

type fakeGenerator struct {
	text string
	err  error
	last ai.Request
}

func (g *fakeGenerator) Generate(_ context.Context, req ai.Request) (string, error) {
	g.last = req
	return g.text, g.err
}

type memObjects struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string
}

func (m *memObjects) Upload(_ context.Context, bucket, key, _ string, body io.Reader, _ int64) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[bucket+"/"+key] = data
	return nil
}

func (m *memObjects) Delete(_ context.Context, bucket, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, bucket+"/"+key)
	m.deleted = append(m.deleted, bucket+"/"+key)
	return nil
}

func (m *memObjects) FileURL(bucket, key string) string {
	return "https://cdn.test/" + bucket + "/" + key
}

func (m *memObjects) ExtractKey(bucket, rawURL string) (string, bool) {
	return strings.CutPrefix(rawURL, "https://cdn.test/"+bucket+"/")
}

// --------------------------------------------------------------------------
// Environment
// --------------------------------------------------------------------------

type testEnv struct {
	Posts      *memPosts
	Videos     *memVideos
	Categories *memCategories
	Profiles   *memProfiles
	Users      *memUsers
	Objects    *memObjects
	Generator  *fakeGenerator
	Sessions   *fakeSessions
	Public     *Public
	Router     chi.Router

	Author uuid.UUID
	Admin  uuid.UUID
}

// newTestEnv wires every handler group over in-memory stores. withStorage
// enables uploads.
func newTestEnv(t *testing.T, withStorage bool) *testEnv {
	t.Helper()

	renderer, err := render.New(true, nil)
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	env := &testEnv{
		Posts:      newMemPosts(),
		Videos:     newMemVideos(),
		Categories: &memCategories{},
		Profiles:   &memProfiles{items: map[uuid.UUID]*models.Profile{}},
		Objects:    &memObjects{objects: map[string][]byte{}},
		Generator:  &fakeGenerator{text: "resposta gerada"},
		Sessions:   &fakeSessions{},
		Author:     uuid.New(),
		Admin:      uuid.New(),
	}
	env.Users = &memUsers{byEmail: map[string]*models.User{}, passwords: map[uuid.UUID]string{}, profiles: env.Profiles}
	env.Profiles.items[env.Author] = &models.Profile{UserID: env.Author, DisplayName: "Autor Teste", Role: models.RoleUser}
	env.Profiles.items[env.Admin] = &models.Profile{UserID: env.Admin, DisplayName: "Admin Teste", Role: models.RoleAdmin}

	var objects upload.ObjectStore
	if withStorage {
		objects = env.Objects
	}
	uploader := upload.NewUploader(objects, env.Profiles, nil, upload.Options{AvatarBucket: "avatars", ContentBucket: "content-images"})

	fns := functions.New(env.Generator, nil)
	feedSvc := feed.NewService(env.Posts, env.Videos, env.Categories, nil)

	public := NewPublic(renderer, feedSvc, env.Posts, env.Videos, fns, nil)
	env.Public = public
	auth := NewAuth(renderer, env.Sessions, env.Users, env.Profiles)
	studio := NewStudio(renderer, env.Sessions,
		content.NewManager(env.Posts, env.Videos, nil),
		content.NewEditor(env.Posts, env.Videos, nil),
		env.Categories, env.Profiles, uploader)
	settings := NewSettings(renderer, env.Sessions, account.NewService(env.Profiles, env.Users, env.Categories, nil), uploader)
	asst := NewAssistant(renderer, fns)
	fnAPI := NewFunctions(fns)

	r := chi.NewRouter()
	r.Get("/", public.Home)
	for _, topic := range site.Topics() {
		r.Get(topic.Path, public.Topic(topic))
	}
	r.Get("/post/{slug}", public.PostView)
	r.Get("/video/{slug}", public.VideoView)
	r.Get("/auth", auth.Page)
	r.Post("/auth/signin", auth.SignIn)
	r.Post("/auth/signup", auth.SignUp)
	r.Post("/auth/signout", auth.SignOut)
	r.Post("/assistant/{name}", asst.Submit)
	r.Post("/assistant/{name}/close", asst.Close)
	r.Post("/functions/v1/{name}", fnAPI.Invoke)
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/create", studio.CreatePage)
		r.Post("/create/post", studio.CreatePost)
		r.Post("/create/video", studio.CreateVideo)
		r.Get("/profile", studio.Profile)
		r.Get("/profile/posts/{id}/edit", studio.EditPostPage)
		r.Post("/profile/posts/{id}/edit", studio.EditPost)
		r.Get("/profile/videos/{id}/edit", studio.EditVideoPage)
		r.Post("/profile/videos/{id}/edit", studio.EditVideo)
		r.Post("/profile/posts/{id}/publish", studio.TogglePost)
		r.Post("/profile/videos/{id}/publish", studio.ToggleVideo)
		r.Post("/profile/posts/{id}/delete", studio.DeletePost)
		r.Post("/profile/videos/{id}/delete", studio.DeleteVideo)
		r.Post("/media/upload", studio.MediaUpload)
		r.Get("/profile/settings", settings.Page)
		r.Post("/profile/settings/profile", settings.UpdateProfile)
		r.Post("/profile/settings/password", settings.ChangePassword)
		r.Post("/profile/settings/categories", settings.AddCategory)
		r.Post("/profile/settings/categories/{id}/delete", settings.DeleteCategory)
		r.Post("/profile/avatar", settings.UploadAvatar)
		r.Post("/profile/avatar/remove", settings.RemoveAvatar)
	})
	r.NotFound(public.NotFound)
	env.Router = r

	return env
}

// sessionFor builds the session of a seeded profile.
func (env *testEnv) sessionFor(userID uuid.UUID) *session.Data {
	p := env.Profiles.items[userID]
	return &session.Data{UserID: userID, DisplayName: p.DisplayName, Role: string(p.Role)}
}

// do serves req, optionally as the given user.
func (env *testEnv) do(req *http.Request, sess *session.Data) *httptest.ResponseRecorder {
	if sess != nil {
		req = req.WithContext(middleware.WithSession(req.Context(), sess))
	}
	w := httptest.NewRecorder()
	env.Router.ServeHTTP(w, req)
	return w
}

func (env *testEnv) get(target string, sess *session.Data) *httptest.ResponseRecorder {
	return env.do(httptest.NewRequest(http.MethodGet, target, nil), sess)
}

func (env *testEnv) postForm(target string, form url.Values, sess *session.Data) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return env.do(req, sess)
}

func (env *testEnv) postJSON(target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return env.do(req, nil)
}

// postFile sends a single-file multipart form.
func (env *testEnv) postFile(t *testing.T, target, field, filename, contentType string, data []byte, sess *session.Data) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		t.Fatalf("CreatePart: %v", err)
	}
	part.Write(data)
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return env.do(req, sess)
}
