// Package session keeps signed-in authors in Valkey. The browser only holds
// a random id; the identity, the cached profile bits shown in the header and
// the queued toasts live server-side as JSON under a sliding TTL.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// CookieName is the browser cookie carrying the session id.
	CookieName = "ivo_session"

	// DefaultTTL is the idle lifetime; every read pushes it forward.
	DefaultTTL = 24 * time.Hour

	keyPrefix = "session:"
	idBytes   = 32
)

// FlashKind selects the toast style.
type FlashKind string

const (
	FlashSuccess FlashKind = "success"
	FlashError   FlashKind = "error"
)

// Flash is a one-shot toast shown on the next rendered page.
type Flash struct {
	Kind    FlashKind `json:"kind"`
	Title   string    `json:"title"`
	Message string    `json:"message"`
}

// Data is the JSON document stored per session.
type Data struct {
	UserID      uuid.UUID `json:"user_id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	Role        string    `json:"role"`
	Flashes     []Flash   `json:"flashes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// IsAdmin reports whether the session was opened by an admin profile.
func (d *Data) IsAdmin() bool {
	return d != nil && d.Role == "admin"
}

// ErrNoSession is returned by Update when the request has no session cookie.
var ErrNoSession = errors.New("session: no session cookie")

// Store reads and writes sessions in Valkey.
type Store struct {
	client *redis.Client
	ttl    time.Duration
	secure bool
}

// NewStore wraps client. secure marks the cookie HTTPS-only.
func NewStore(client *redis.Client, secure bool) *Store {
	return &Store{client: client, ttl: DefaultTTL, secure: secure}
}

// Create opens a fresh session for data and sets the cookie.
func (s *Store) Create(ctx context.Context, w http.ResponseWriter, data *Data) (string, error) {
	raw := make([]byte, idBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("session id: %w", err)
	}
	id := hex.EncodeToString(raw)

	data.CreatedAt = time.Now().UTC()
	if err := s.save(ctx, id, data); err != nil {
		return "", err
	}
	s.setCookie(w, id, int(s.ttl.Seconds()))
	return id, nil
}

// Get loads the session named by the request cookie and extends its TTL.
// A missing cookie or an expired session yields (nil, nil).
func (s *Store) Get(ctx context.Context, r *http.Request) (*Data, error) {
	id, ok := sessionID(r)
	if !ok {
		return nil, nil
	}

	payload, err := s.client.GetEx(ctx, keyPrefix+id, s.ttl).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("session get: %w", err)
	}

	data := new(Data)
	if err := json.Unmarshal(payload, data); err != nil {
		return nil, fmt.Errorf("session decode: %w", err)
	}
	return data, nil
}

// Update overwrites the stored document, keeping the id.
func (s *Store) Update(ctx context.Context, r *http.Request, data *Data) error {
	id, ok := sessionID(r)
	if !ok {
		return ErrNoSession
	}
	return s.save(ctx, id, data)
}

// AddFlash queues a toast for the next rendered page. Anonymous requests
// drop it.
func (s *Store) AddFlash(ctx context.Context, r *http.Request, f Flash) error {
	data, err := s.Get(ctx, r)
	if err != nil || data == nil {
		return err
	}
	data.Flashes = append(data.Flashes, f)
	return s.Update(ctx, r, data)
}

// PopFlashes drains the queued toasts.
func (s *Store) PopFlashes(ctx context.Context, r *http.Request) ([]Flash, error) {
	data, err := s.Get(ctx, r)
	if err != nil || data == nil || len(data.Flashes) == 0 {
		return nil, err
	}
	queued := data.Flashes
	data.Flashes = nil
	if err := s.Update(ctx, r, data); err != nil {
		return nil, err
	}
	return queued, nil
}

// Destroy deletes the session and expires the cookie. Requests without a
// cookie are a no-op.
func (s *Store) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	id, ok := sessionID(r)
	if !ok {
		return nil
	}
	if err := s.client.Del(ctx, keyPrefix+id).Err(); err != nil {
		return fmt.Errorf("session destroy: %w", err)
	}
	s.setCookie(w, "", -1)
	return nil
}

func (s *Store) save(ctx context.Context, id string, data *Data) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("session encode: %w", err)
	}
	if err := s.client.Set(ctx, keyPrefix+id, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("session save: %w", err)
	}
	return nil
}

func (s *Store) setCookie(w http.ResponseWriter, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func sessionID(r *http.Request) (string, bool) {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return "", false
	}
	return c.Value, true
}
