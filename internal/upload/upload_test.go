package upload

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"io"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	mu        sync.Mutex
	objects   map[string][]byte
	types     map[string]string
	ops       []string
	failWrite bool
}

func newMemStore() *memStore {
	return &memStore{objects: map[string][]byte{}, types: map[string]string{}}
}

func (m *memStore) Upload(_ context.Context, bucket, key, contentType string, body io.Reader, _ int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrite {
		return errors.New("boom")
	}
	data, _ := io.ReadAll(body)
	m.objects[bucket+"/"+key] = data
	m.types[bucket+"/"+key] = contentType
	m.ops = append(m.ops, "upload")
	return nil
}

func (m *memStore) Delete(_ context.Context, bucket, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, bucket+"/"+key)
	m.ops = append(m.ops, "delete")
	return nil
}

func (m *memStore) FileURL(bucket, key string) string {
	return "https://files.test/" + bucket + "/" + key
}

func (m *memStore) ExtractKey(bucket, rawURL string) (string, bool) {
	prefix := "https://files.test/" + bucket + "/"
	if !strings.HasPrefix(rawURL, prefix) {
		return "", false
	}
	return rawURL[len(prefix):], true
}

type fakeProfiles struct {
	store  *memStore
	avatar *string
	fail   bool
}

func (f *fakeProfiles) SetAvatar(_ context.Context, _ uuid.UUID, url *string) error {
	if f.fail {
		return errors.New("db down")
	}
	f.avatar = url
	f.store.mu.Lock()
	f.store.ops = append(f.store.ops, "profile")
	f.store.mu.Unlock()
	return nil
}

func newTestUploader(maxWidth int) (*Uploader, *memStore, *fakeProfiles) {
	st := newMemStore()
	profiles := &fakeProfiles{store: st}
	u := NewUploader(st, profiles, nil, Options{
		AvatarBucket:  "avatars",
		ContentBucket: "content-images",
		MaxCoverWidth: maxWidth,
	})
	return u, st, profiles
}

func pngFile(t *testing.T, w, h int) File {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, w, h))))
	return File{Name: "cover.PNG", ContentType: "image/png", Size: int64(buf.Len()), Data: buf.Bytes()}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		size        int64
		want        error
	}{
		{"png ok", "image/png", 1024, nil},
		{"exactly 5MiB", "image/jpeg", 5 << 20, nil},
		{"one byte over", "image/jpeg", 5<<20 + 1, ErrTooLarge},
		{"pdf", "application/pdf", 10, ErrNotImage},
		{"empty type", "", 10, ErrNotImage},
		{"upper case", "IMAGE/WEBP", 10, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Validate(tt.contentType, tt.size))
		})
	}
}

func TestObjectKey(t *testing.T) {
	owner := uuid.MustParse("11111111-2222-3333-4444-555555555555")
	now := time.UnixMilli(1700000000123)

	key := ObjectKey(owner, "Foto.JPG", "image/jpeg", now)
	assert.Regexp(t, regexp.MustCompile(`^11111111-2222-3333-4444-555555555555/1700000000123-[0-9a-f]{10}\.jpg$`), key)

	assert.True(t, strings.HasSuffix(ObjectKey(owner, "noext", "image/webp", now), ".webp"))
	assert.True(t, strings.HasSuffix(ObjectKey(owner, "", "image/x-unknown", now), ".img"))
	assert.NotEqual(t, ObjectKey(owner, "a.png", "image/png", now), ObjectKey(owner, "a.png", "image/png", now))
}

func TestRead_LimitsSize(t *testing.T) {
	big := bytes.Repeat([]byte{0}, MaxSize+10)

	// Header lies about the size; the body is still capped.
	_, err := Read(bytes.NewReader(big), "x.png", "image/png", 100)
	assert.ErrorIs(t, err, ErrTooLarge)

	_, err = Read(bytes.NewReader([]byte("x")), "x.txt", "text/plain", 1)
	assert.ErrorIs(t, err, ErrNotImage)

	f, err := Read(bytes.NewReader([]byte("abc")), "x.png", "image/png", 3)
	require.NoError(t, err)
	assert.Equal(t, int64(3), f.Size)
}

func TestUpload_RejectsBeforeStorage(t *testing.T) {
	u, st, _ := newTestUploader(0)

	_, err := u.Upload(context.Background(), "avatars", uuid.New(), File{Name: "a.pdf", ContentType: "application/pdf", Size: 10})
	assert.ErrorIs(t, err, ErrNotImage)
	assert.Empty(t, st.ops)
}

func TestUpload_NoStorage(t *testing.T) {
	u := NewUploader(nil, nil, nil, Options{AvatarBucket: "avatars"})
	assert.False(t, u.Enabled())

	_, err := u.Upload(context.Background(), "avatars", uuid.New(), File{ContentType: "image/png", Size: 1})
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}

func TestUploadCover_Downscales(t *testing.T) {
	u, st, _ := newTestUploader(50)
	owner := uuid.New()

	url, err := u.UploadCover(context.Background(), owner, pngFile(t, 200, 100))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "https://files.test/content-images/"+owner.String()+"/"))
	assert.True(t, strings.HasSuffix(url, ".png"))

	key, _ := st.ExtractKey("content-images", url)
	cfg, err := png.DecodeConfig(bytes.NewReader(st.objects["content-images/"+key]))
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.Width)
}

func TestUploadCover_UndecodableKeepsOriginal(t *testing.T) {
	u, st, _ := newTestUploader(50)
	f := File{Name: "weird.png", ContentType: "image/png", Size: 4, Data: []byte("nope")}

	url, err := u.UploadCover(context.Background(), uuid.New(), f)
	require.NoError(t, err)

	key, _ := st.ExtractKey("content-images", url)
	assert.Equal(t, []byte("nope"), st.objects["content-images/"+key])
}

func TestReplaceAvatar_Ordering(t *testing.T) {
	u, st, profiles := newTestUploader(0)
	owner := uuid.New()
	ctx := context.Background()

	first, err := u.ReplaceAvatar(ctx, owner, "", pngFile(t, 10, 10))
	require.NoError(t, err)
	st.ops = nil

	second, err := u.ReplaceAvatar(ctx, owner, first, pngFile(t, 10, 10))
	require.NoError(t, err)

	assert.Equal(t, []string{"upload", "profile", "delete"}, st.ops)
	require.NotNil(t, profiles.avatar)
	assert.Equal(t, second, *profiles.avatar)

	oldKey, _ := st.ExtractKey("avatars", first)
	_, stillThere := st.objects["avatars/"+oldKey]
	assert.False(t, stillThere, "old avatar should be deleted")
}

func TestReplaceAvatar_ProfileFailureCleansUp(t *testing.T) {
	u, st, profiles := newTestUploader(0)
	profiles.fail = true

	_, err := u.ReplaceAvatar(context.Background(), uuid.New(), "", pngFile(t, 10, 10))
	require.Error(t, err)
	assert.Empty(t, st.objects)
}

func TestReplaceAvatar_ForeignOldURLIgnored(t *testing.T) {
	u, st, _ := newTestUploader(0)

	_, err := u.ReplaceAvatar(context.Background(), uuid.New(), "https://gravatar.test/me.png", pngFile(t, 10, 10))
	require.NoError(t, err)
	assert.Equal(t, []string{"upload", "profile"}, st.ops)
}

func TestRemoveAvatar(t *testing.T) {
	u, st, profiles := newTestUploader(0)
	owner := uuid.New()
	ctx := context.Background()

	url, err := u.ReplaceAvatar(ctx, owner, "", pngFile(t, 10, 10))
	require.NoError(t, err)
	st.ops = nil

	require.NoError(t, u.RemoveAvatar(ctx, owner, url))
	assert.Nil(t, profiles.avatar)
	assert.Equal(t, []string{"profile", "delete"}, st.ops)
	assert.Empty(t, st.objects)
}
