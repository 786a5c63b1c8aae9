// Package upload validates image uploads and moves them into object
// storage. Validation always runs before any storage call.
package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"ivonews/internal/imaging"
	"ivonews/internal/metrics"
)

// MaxSize is the largest accepted upload, 5 MiB.
const MaxSize = 5 << 20

var (
	ErrNotImage           = errors.New("Por favor, selecione apenas arquivos de imagem.")
	ErrTooLarge           = errors.New("A imagem deve ter no máximo 5MB.")
	ErrStorageUnavailable = errors.New("armazenamento indisponível")
)

// Validate checks the declared media type and size of a file.
func Validate(contentType string, size int64) error {
	if !strings.HasPrefix(strings.ToLower(contentType), "image/") {
		return ErrNotImage
	}
	if size > MaxSize {
		return ErrTooLarge
	}
	return nil
}

var typeExtensions = map[string]string{
	"image/jpeg":    ".jpg",
	"image/png":     ".png",
	"image/gif":     ".gif",
	"image/webp":    ".webp",
	"image/svg+xml": ".svg",
	"image/avif":    ".avif",
}

// ObjectKey builds "<owner>/<unix millis>-<random>.<ext>". The extension
// comes from the original filename, falling back to the media type.
func ObjectKey(owner uuid.UUID, filename, contentType string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if len(ext) < 2 || strings.ContainsAny(ext, "/\\ ") {
		ext = typeExtensions[contentType]
	}
	if ext == "" {
		ext = ".img"
	}
	random := strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
	return fmt.Sprintf("%s/%d-%s%s", owner, now.UnixMilli(), random, ext)
}

// ObjectStore is the subset of the storage client the uploader needs.
type ObjectStore interface {
	Upload(ctx context.Context, bucket, key, contentType string, body io.Reader, size int64) error
	Delete(ctx context.Context, bucket, key string) error
	FileURL(bucket, key string) string
	ExtractKey(bucket, rawURL string) (string, bool)
}

// AvatarSetter persists a profile's avatar URL.
type AvatarSetter interface {
	SetAvatar(ctx context.Context, userID uuid.UUID, avatarURL *string) error
}

// File is an upload read into memory.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Data        []byte
}

// Options configures bucket names and cover resizing.
type Options struct {
	AvatarBucket  string
	ContentBucket string
	MaxCoverWidth int
}

// Uploader stores avatars and content images.
type Uploader struct {
	store    ObjectStore
	profiles AvatarSetter
	rec      metrics.Recorder
	opts     Options
	now      func() time.Time
}

// NewUploader creates an Uploader. A nil store disables uploads; every
// call then returns ErrStorageUnavailable after validation.
func NewUploader(store ObjectStore, profiles AvatarSetter, rec metrics.Recorder, opts Options) *Uploader {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &Uploader{store: store, profiles: profiles, rec: rec, opts: opts, now: time.Now}
}

// Enabled reports whether a storage backend is configured.
func (u *Uploader) Enabled() bool {
	return u.store != nil
}

// Read validates the header fields, then reads at most MaxSize bytes.
func Read(r io.Reader, name, contentType string, size int64) (File, error) {
	if err := Validate(contentType, size); err != nil {
		return File{}, err
	}
	data, err := io.ReadAll(io.LimitReader(r, MaxSize+1))
	if err != nil {
		return File{}, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > MaxSize {
		return File{}, ErrTooLarge
	}
	return File{Name: name, ContentType: contentType, Size: int64(len(data)), Data: data}, nil
}

// Upload stores f under owner's prefix in bucket and returns its public URL.
// Files bound for the content bucket are shrunk to MaxCoverWidth; when the
// image cannot be decoded the original bytes are stored as-is.
func (u *Uploader) Upload(ctx context.Context, bucket string, owner uuid.UUID, f File) (string, error) {
	if err := Validate(f.ContentType, f.Size); err != nil {
		u.rec.RecordUpload(bucket, "rejected")
		return "", err
	}
	if u.store == nil {
		return "", ErrStorageUnavailable
	}

	data, contentType, name := f.Data, f.ContentType, f.Name
	if bucket == u.opts.ContentBucket && u.opts.MaxCoverWidth > 0 {
		res, err := imaging.FitWidth(f.Data, f.ContentType, u.opts.MaxCoverWidth)
		switch {
		case err != nil:
			slog.Warn("cover resize skipped", "file", f.Name, "error", err)
		case res.Resized:
			data, contentType = res.Data, res.ContentType
			if contentType != f.ContentType {
				name = "" // extension follows the new media type
			}
		}
	}

	key := ObjectKey(owner, name, contentType, u.now())
	if err := u.store.Upload(ctx, bucket, key, contentType, bytes.NewReader(data), int64(len(data))); err != nil {
		u.rec.RecordUpload(bucket, "error")
		return "", err
	}
	u.rec.RecordUpload(bucket, "ok")
	return u.store.FileURL(bucket, key), nil
}

// UploadCover stores a post cover or inline content image.
func (u *Uploader) UploadCover(ctx context.Context, owner uuid.UUID, f File) (string, error) {
	return u.Upload(ctx, u.opts.ContentBucket, owner, f)
}

// Remove deletes the object behind publicURL. URLs that do not point into
// bucket (external images, YouTube thumbnails) are ignored.
func (u *Uploader) Remove(ctx context.Context, bucket, publicURL string) error {
	if u.store == nil || publicURL == "" {
		return nil
	}
	key, ok := u.store.ExtractKey(bucket, publicURL)
	if !ok {
		return nil
	}
	return u.store.Delete(ctx, bucket, key)
}

// ReplaceAvatar uploads f, points the profile at it, then deletes the old
// avatar. The old object is only removed after the profile is updated, so
// the profile never references a missing object.
func (u *Uploader) ReplaceAvatar(ctx context.Context, owner uuid.UUID, oldURL string, f File) (string, error) {
	url, err := u.Upload(ctx, u.opts.AvatarBucket, owner, f)
	if err != nil {
		return "", err
	}

	if err := u.profiles.SetAvatar(ctx, owner, &url); err != nil {
		// Orphaned new object; try to clean it up.
		if rmErr := u.Remove(ctx, u.opts.AvatarBucket, url); rmErr != nil {
			slog.Warn("orphan avatar cleanup failed", "url", url, "error", rmErr)
		}
		return "", fmt.Errorf("save avatar: %w", err)
	}

	if oldURL != "" && oldURL != url {
		if err := u.Remove(ctx, u.opts.AvatarBucket, oldURL); err != nil {
			slog.Warn("old avatar cleanup failed", "url", oldURL, "error", err)
		}
	}
	return url, nil
}

// RemoveAvatar clears the profile avatar, then deletes the stored object.
func (u *Uploader) RemoveAvatar(ctx context.Context, owner uuid.UUID, oldURL string) error {
	if err := u.profiles.SetAvatar(ctx, owner, nil); err != nil {
		return fmt.Errorf("clear avatar: %w", err)
	}
	if err := u.Remove(ctx, u.opts.AvatarBucket, oldURL); err != nil {
		slog.Warn("avatar cleanup failed", "url", oldURL, "error", err)
	}
	return nil
}
