package handlers

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/url"
	"regexp"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ivonews/internal/models"
	"ivonews/internal/session"
)

func TestStudioRequiresSession(t *testing.T) {
	env := newTestEnv(t, false)

	w := env.get("/profile", nil)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/auth", w.Header().Get("Location"))
}

func TestCreatePostAppearsInProfile(t *testing.T) {
	env := newTestEnv(t, false)
	sess := env.sessionFor(env.Author)

	w := env.postForm("/create/post", url.Values{
		"title":     {"Hello World"},
		"excerpt":   {"Primeiro post"},
		"content":   {"<p>Olá</p><script>alert(1)</script>"},
		"published": {"on"},
	}, sess)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/profile", w.Header().Get("Location"))
	assert.Equal(t, session.Flash{Kind: session.FlashSuccess, Title: "Sucesso", Message: "Post criado com sucesso!"}, env.Sessions.lastFlash())

	posts := env.Posts.all()
	require.Len(t, posts, 1)
	p := posts[0]
	assert.Regexp(t, regexp.MustCompile(`^hello-world-\d+$`), p.Slug)
	assert.True(t, p.Published)
	assert.NotNil(t, p.PublishedAt)
	assert.Equal(t, env.Author, p.AuthorID)
	assert.NotContains(t, p.Content, "<script>")

	w = env.get("/profile", sess)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Publicados (1)")
	assert.Contains(t, w.Body.String(), "Rascunhos (0)")
	assert.Contains(t, w.Body.String(), "Hello World")
}

func TestCreatePostValidation(t *testing.T) {
	env := newTestEnv(t, false)

	w := env.postForm("/create/post", url.Values{"title": {"  "}, "excerpt": {"resumo"}}, env.sessionFor(env.Author))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `action="/create/post"`)
	assert.Empty(t, env.Posts.all())
}

func TestCreateVideoInvalidURL(t *testing.T) {
	env := newTestEnv(t, false)

	w := env.postForm("/create/video", url.Values{
		"title":       {"Aula"},
		"description": {"Descrição"},
		"youtube_url": {"https://vimeo.com/123"},
	}, env.sessionFor(env.Author))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "URL do YouTube inválida")
	assert.Contains(t, w.Body.String(), `value="https://vimeo.com/123"`)
	assert.Empty(t, env.Videos.all())
}

func TestCreateVideoDerivesThumbnail(t *testing.T) {
	env := newTestEnv(t, false)

	w := env.postForm("/create/video", url.Values{
		"title":       {"Aula"},
		"description": {"Descrição"},
		"youtube_url": {"https://www.youtube.com/watch?v=dQw4w9WgXcQ"},
	}, env.sessionFor(env.Author))
	require.Equal(t, http.StatusSeeOther, w.Code)

	videos := env.Videos.all()
	require.Len(t, videos, 1)
	assert.Equal(t, "dQw4w9WgXcQ", videos[0].YouTubeVideoID)
	require.NotNil(t, videos[0].ThumbnailURL)
	assert.Contains(t, *videos[0].ThumbnailURL, "dQw4w9WgXcQ")
	assert.False(t, videos[0].Published)
}

func TestTogglePublish(t *testing.T) {
	env := newTestEnv(t, false)
	sess := env.sessionFor(env.Author)
	p := env.Posts.add(models.Post{Title: "Rascunho", Slug: "rascunho-1", AuthorID: env.Author})

	w := env.postForm("/profile/posts/"+p.ID.String()+"/publish", nil, sess)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.True(t, env.Posts.get(p.ID).Published)
	assert.NotNil(t, env.Posts.get(p.ID).PublishedAt)
	assert.Equal(t, "Post publicado com sucesso!", env.Sessions.lastFlash().Message)

	env.postForm("/profile/posts/"+p.ID.String()+"/publish", nil, sess)
	assert.False(t, env.Posts.get(p.ID).Published)
	assert.Nil(t, env.Posts.get(p.ID).PublishedAt)
	assert.Equal(t, "Post movido para rascunhos.", env.Sessions.lastFlash().Message)
}

func TestToggleForeignPostFails(t *testing.T) {
	env := newTestEnv(t, false)
	p := env.Posts.add(models.Post{Title: "Do admin", Slug: "do-admin-1", AuthorID: env.Admin})

	w := env.postForm("/profile/posts/"+p.ID.String()+"/publish", nil, env.sessionFor(env.Author))
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.False(t, env.Posts.get(p.ID).Published)
	assert.Equal(t, session.FlashError, env.Sessions.lastFlash().Kind)
	assert.Equal(t, "Erro ao alterar status de publicação.", env.Sessions.lastFlash().Message)
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	env := newTestEnv(t, false)
	sess := env.sessionFor(env.Author)
	p := env.Posts.add(models.Post{Title: "Para apagar", Slug: "para-apagar-1", AuthorID: env.Author})
	target := "/profile/posts/" + p.ID.String() + "/delete"

	w := env.postForm(target, nil, sess)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Tem certeza que deseja excluir este post?")
	assert.Contains(t, w.Body.String(), "Para apagar")
	assert.NotNil(t, env.Posts.get(p.ID))

	w = env.postForm(target, url.Values{"confirm": {"yes"}}, sess)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Nil(t, env.Posts.get(p.ID))
	assert.Equal(t, "Post excluído com sucesso!", env.Sessions.lastFlash().Message)
}

func TestForeignContentIsNotFound(t *testing.T) {
	env := newTestEnv(t, false)
	sess := env.sessionFor(env.Author)
	p := env.Posts.add(models.Post{Title: "Do admin", Slug: "do-admin-1", AuthorID: env.Admin})

	w := env.get("/profile/posts/"+p.ID.String()+"/edit", sess)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.postForm("/profile/posts/"+p.ID.String()+"/delete", nil, sess)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.postForm("/profile/posts/"+p.ID.String()+"/delete", url.Values{"confirm": {"yes"}}, sess)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.NotNil(t, env.Posts.get(p.ID))
	assert.Equal(t, "Post não encontrado.", env.Sessions.lastFlash().Message)

	w = env.get("/profile/videos/"+uuid.NewString()+"/edit", sess)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.get("/profile/posts/not-a-uuid/edit", sess)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEditPostKeepsSlug(t *testing.T) {
	env := newTestEnv(t, false)
	sess := env.sessionFor(env.Author)
	p := env.Posts.add(models.Post{Title: "Antigo", Slug: "antigo-1", Excerpt: "x", AuthorID: env.Author})

	w := env.get("/profile/posts/"+p.ID.String()+"/edit", sess)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `value="Antigo"`)

	w = env.postForm("/profile/posts/"+p.ID.String()+"/edit", url.Values{"title": {"Novo título"}, "excerpt": {"y"}}, sess)
	require.Equal(t, http.StatusSeeOther, w.Code)
	got := env.Posts.get(p.ID)
	assert.Equal(t, "Novo título", got.Title)
	assert.Equal(t, "antigo-1", got.Slug)
	assert.Equal(t, "Post atualizado com sucesso!", env.Sessions.lastFlash().Message)
}

func TestMediaUploadDisabled(t *testing.T) {
	env := newTestEnv(t, false)

	w := env.postFile(t, "/media/upload", "file", "capa.png", "image/png", pngBytes(t), env.sessionFor(env.Author))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestMediaUploadStoresImage(t *testing.T) {
	env := newTestEnv(t, true)

	w := env.postFile(t, "/media/upload", "file", "capa.png", "image/png", pngBytes(t), env.sessionFor(env.Author))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body["url"], "https://cdn.test/content-images/"+env.Author.String()+"/")
	assert.Len(t, env.Objects.objects, 1)
}

func TestMediaUploadRejectsNonImage(t *testing.T) {
	env := newTestEnv(t, true)

	w := env.postFile(t, "/media/upload", "file", "notas.txt", "text/plain", []byte("texto"), env.sessionFor(env.Author))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, env.Objects.objects)
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		img.Set(x, x, color.RGBA{R: 255, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
