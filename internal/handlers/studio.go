// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"ivonews/internal/content"
	"ivonews/internal/models"
	"ivonews/internal/render"
	"ivonews/internal/session"
	"ivonews/internal/store"
	"ivonews/internal/upload"
)

// Studio groups the authoring handlers: the create form, the owner's
// content library and the edit, publish and delete actions.
type Studio struct {
	renderer   *render.Renderer
	sessions   SessionStore
	manager    *content.Manager
	editor     *content.Editor
	categories CategoryLister
	profiles   ProfileFinder
	uploader   *upload.Uploader
}

// NewStudio creates a new Studio handler group.
func NewStudio(renderer *render.Renderer, sessions SessionStore, manager *content.Manager, editor *content.Editor, categories CategoryLister, profiles ProfileFinder, uploader *upload.Uploader) *Studio {
	return &Studio{
		renderer:   renderer,
		sessions:   sessions,
		manager:    manager,
		editor:     editor,
		categories: categories,
		profiles:   profiles,
		uploader:   uploader,
	}
}

// CreatePage renders the creation form with the post or video tab open.
func (s *Studio) CreatePage(w http.ResponseWriter, r *http.Request) {
	tab := "post"
	if r.URL.Query().Get("tab") == "video" {
		tab = "video"
	}
	s.renderCreate(w, r, tab, &content.PostInput{}, &content.VideoInput{}, "")
}

// CreatePost inserts a post authored by the current user.
func (s *Studio) CreatePost(w http.ResponseWriter, r *http.Request) {
	sess := currentUser(r)
	in := postInput(r)

	if _, err := s.editor.CreatePost(r.Context(), sess.UserID, in); err != nil {
		if msg, ok := userError(err); ok {
			s.renderCreate(w, r, "post", &in, &content.VideoInput{}, msg)
			return
		}
		slog.Error("create post failed", "error", err)
		s.renderCreate(w, r, "post", &in, &content.VideoInput{}, "Erro ao criar post. Tente novamente.")
		return
	}

	flash(s.sessions, r, session.FlashSuccess, "Post criado com sucesso!")
	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}

// CreateVideo inserts a video authored by the current user.
func (s *Studio) CreateVideo(w http.ResponseWriter, r *http.Request) {
	sess := currentUser(r)
	in := videoInput(r)

	if _, err := s.editor.CreateVideo(r.Context(), sess.UserID, in); err != nil {
		if msg, ok := userError(err); ok {
			s.renderCreate(w, r, "video", &content.PostInput{}, &in, msg)
			return
		}
		slog.Error("create video failed", "error", err)
		s.renderCreate(w, r, "video", &content.PostInput{}, &in, "Erro ao criar vídeo. Tente novamente.")
		return
	}

	flash(s.sessions, r, session.FlashSuccess, "Vídeo criado com sucesso!")
	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}

func (s *Studio) renderCreate(w http.ResponseWriter, r *http.Request, tab string, post *content.PostInput, video *content.VideoInput, errMsg string) {
	s.renderer.Page(w, r, "create", &render.PageData{
		Title:   "Criar conteúdo",
		Section: "create",
		Data: map[string]any{
			"Tab":            tab,
			"Post":           post,
			"Video":          video,
			"Error":          errMsg,
			"Categories":     s.listCategories(r),
			"UploadsEnabled": s.uploader.Enabled(),
		},
	})
}

// Profile renders the owner's library split into drafts and published.
// A failed load still renders the page, with an error toast.
func (s *Studio) Profile(w http.ResponseWriter, r *http.Request) {
	sess := currentUser(r)
	ctx := r.Context()

	data := &render.PageData{Title: "Meu perfil", Section: "profile"}

	profile, err := s.profiles.FindByUserID(ctx, sess.UserID)
	if err != nil {
		slog.Error("load profile failed", "error", err, "user_id", sess.UserID)
	}
	if profile == nil {
		profile = &models.Profile{UserID: sess.UserID, DisplayName: sess.DisplayName, Role: models.Role(sess.Role)}
	}

	var partition content.Partition
	lib, err := s.manager.Load(ctx, sess.UserID)
	if err != nil {
		slog.Error("load library failed", "error", err, "user_id", sess.UserID)
		data.Flashes = []session.Flash{{Kind: session.FlashError, Title: titleError, Message: "Erro ao carregar seu conteúdo."}}
	} else {
		partition = lib.Partition()
	}

	data.Data = map[string]any{
		"Profile":   profile,
		"Partition": partition,
	}
	s.renderer.Page(w, r, "profile", data)
}

// EditPostPage renders the edit form of an owned post.
func (s *Studio) EditPostPage(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		s.notFound(w, r)
		return
	}
	post, err := s.manager.Post(r.Context(), currentUser(r).UserID, id)
	if err != nil {
		s.lookupFailed(w, r, err)
		return
	}
	s.renderEdit(w, r, "edit_post", "Post", post, "")
}

// EditPost saves the edit form of an owned post.
func (s *Studio) EditPost(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		s.notFound(w, r)
		return
	}
	sess := currentUser(r)
	in := postInput(r)

	if _, err := s.editor.UpdatePost(r.Context(), sess.UserID, id, in); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.notFound(w, r)
			return
		}
		msg, ok := userError(err)
		if !ok {
			slog.Error("update post failed", "error", err, "post_id", id)
			msg = "Erro ao salvar post. Tente novamente."
		}
		s.renderEdit(w, r, "edit_post", "Post", &models.Post{
			ID: id, Title: in.Title, Excerpt: in.Excerpt, Content: in.Content,
			CoverImageURL: &in.CoverImageURL, CategoryID: in.CategoryID, Published: in.Published,
		}, msg)
		return
	}

	flash(s.sessions, r, session.FlashSuccess, "Post atualizado com sucesso!")
	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}

// EditVideoPage renders the edit form of an owned video.
func (s *Studio) EditVideoPage(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		s.notFound(w, r)
		return
	}
	video, err := s.manager.Video(r.Context(), currentUser(r).UserID, id)
	if err != nil {
		s.lookupFailed(w, r, err)
		return
	}
	s.renderEdit(w, r, "edit_video", "Video", video, "")
}

// EditVideo saves the edit form of an owned video.
func (s *Studio) EditVideo(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		s.notFound(w, r)
		return
	}
	sess := currentUser(r)
	in := videoInput(r)

	if _, err := s.editor.UpdateVideo(r.Context(), sess.UserID, id, in); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.notFound(w, r)
			return
		}
		msg, ok := userError(err)
		if !ok {
			slog.Error("update video failed", "error", err, "video_id", id)
			msg = "Erro ao salvar vídeo. Tente novamente."
		}
		s.renderEdit(w, r, "edit_video", "Video", &models.Video{
			ID: id, Title: in.Title, Description: in.Description, YouTubeURL: in.YouTubeURL,
			ThumbnailURL: &in.ThumbnailURL, CategoryID: in.CategoryID, Published: in.Published,
		}, msg)
		return
	}

	flash(s.sessions, r, session.FlashSuccess, "Vídeo atualizado com sucesso!")
	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}

func (s *Studio) renderEdit(w http.ResponseWriter, r *http.Request, page, key string, item any, errMsg string) {
	title := "Editar post"
	if key == "Video" {
		title = "Editar vídeo"
	}
	s.renderer.Page(w, r, page, &render.PageData{
		Title:   title,
		Section: "profile",
		Data: map[string]any{
			key:              item,
			"Error":          errMsg,
			"Categories":     s.listCategories(r),
			"UploadsEnabled": s.uploader.Enabled(),
		},
	})
}

// TogglePost publishes or unpublishes an owned post.
func (s *Studio) TogglePost(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		s.notFound(w, r)
		return
	}
	post, err := s.manager.TogglePublishPost(r.Context(), currentUser(r).UserID, id)
	if err != nil {
		slog.Error("toggle post failed", "error", err, "post_id", id)
		flash(s.sessions, r, session.FlashError, "Erro ao alterar status de publicação.")
	} else if post.Published {
		flash(s.sessions, r, session.FlashSuccess, "Post publicado com sucesso!")
	} else {
		flash(s.sessions, r, session.FlashSuccess, "Post movido para rascunhos.")
	}
	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}

// ToggleVideo publishes or unpublishes an owned video.
func (s *Studio) ToggleVideo(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		s.notFound(w, r)
		return
	}
	video, err := s.manager.TogglePublishVideo(r.Context(), currentUser(r).UserID, id)
	if err != nil {
		slog.Error("toggle video failed", "error", err, "video_id", id)
		flash(s.sessions, r, session.FlashError, "Erro ao alterar status de publicação.")
	} else if video.Published {
		flash(s.sessions, r, session.FlashSuccess, "Vídeo publicado com sucesso!")
	} else {
		flash(s.sessions, r, session.FlashSuccess, "Vídeo movido para rascunhos.")
	}
	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}

// DeletePost asks for confirmation, then deletes an owned post.
func (s *Studio) DeletePost(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		s.notFound(w, r)
		return
	}
	owner := currentUser(r).UserID

	if r.FormValue("confirm") != "yes" {
		post, err := s.manager.Post(r.Context(), owner, id)
		if err != nil {
			s.lookupFailed(w, r, err)
			return
		}
		s.renderConfirm(w, r, "posts", post.ID.String(), post.Title)
		return
	}

	switch err := s.manager.DeletePost(r.Context(), owner, id, true); {
	case errors.Is(err, store.ErrNotFound):
		flash(s.sessions, r, session.FlashError, "Post não encontrado.")
	case err != nil:
		slog.Error("delete post failed", "error", err, "post_id", id)
		flash(s.sessions, r, session.FlashError, "Erro ao excluir post.")
	default:
		flash(s.sessions, r, session.FlashSuccess, "Post excluído com sucesso!")
	}
	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}

// DeleteVideo asks for confirmation, then deletes an owned video.
func (s *Studio) DeleteVideo(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		s.notFound(w, r)
		return
	}
	owner := currentUser(r).UserID

	if r.FormValue("confirm") != "yes" {
		video, err := s.manager.Video(r.Context(), owner, id)
		if err != nil {
			s.lookupFailed(w, r, err)
			return
		}
		s.renderConfirm(w, r, "videos", video.ID.String(), video.Title)
		return
	}

	switch err := s.manager.DeleteVideo(r.Context(), owner, id, true); {
	case errors.Is(err, store.ErrNotFound):
		flash(s.sessions, r, session.FlashError, "Vídeo não encontrado.")
	case err != nil:
		slog.Error("delete video failed", "error", err, "video_id", id)
		flash(s.sessions, r, session.FlashError, "Erro ao excluir vídeo.")
	default:
		flash(s.sessions, r, session.FlashSuccess, "Vídeo excluído com sucesso!")
	}
	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}

func (s *Studio) renderConfirm(w http.ResponseWriter, r *http.Request, kind, id, title string) {
	s.renderer.Page(w, r, "confirm_delete", &render.PageData{
		Title:   "Confirmar exclusão",
		Section: "profile",
		Data:    map[string]any{"Kind": kind, "ID": id, "Title": title},
	})
}

// MediaUpload stores a cover or inline image and answers {"url": ...}.
func (s *Studio) MediaUpload(w http.ResponseWriter, r *http.Request) {
	if !s.uploader.Enabled() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "Armazenamento de imagens não configurado."})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, upload.MaxSize+1<<20)
	if err := r.ParseMultipartForm(upload.MaxSize); err != nil {
		writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": upload.ErrTooLarge.Error()})
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Nenhum arquivo enviado."})
		return
	}
	defer file.Close()

	f, err := upload.Read(file, header.Filename, header.Header.Get("Content-Type"), header.Size)
	if err != nil {
		writeUploadError(w, err)
		return
	}
	url, err := s.uploader.UploadCover(r.Context(), currentUser(r).UserID, f)
	if err != nil {
		writeUploadError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

func writeUploadError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, upload.ErrNotImage):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, upload.ErrTooLarge):
		writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": err.Error()})
	case errors.Is(err, upload.ErrStorageUnavailable):
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "Armazenamento de imagens não configurado."})
	default:
		slog.Error("upload failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Erro ao enviar imagem."})
	}
}

func (s *Studio) listCategories(r *http.Request) []models.Category {
	cats, err := s.categories.List(r.Context())
	if err != nil {
		slog.Warn("list categories failed", "error", err)
	}
	return cats
}

func (s *Studio) lookupFailed(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, store.ErrNotFound) {
		s.notFound(w, r)
		return
	}
	slog.Error("load owned content failed", "error", err)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

func (s *Studio) notFound(w http.ResponseWriter, r *http.Request) {
	s.renderer.PageStatus(w, r, http.StatusNotFound, "not_found", &render.PageData{
		Title: "Conteúdo não encontrado",
		Data:  map[string]any{"Message": "Conteúdo não encontrado", "Back": "/profile"},
	})
}

func postInput(r *http.Request) content.PostInput {
	return content.PostInput{
		Title:         r.FormValue("title"),
		Excerpt:       r.FormValue("excerpt"),
		Content:       r.FormValue("content"),
		CoverImageURL: r.FormValue("cover_image_url"),
		CategoryID:    formUUID(r, "category_id"),
		Published:     formBool(r, "published"),
	}
}

func videoInput(r *http.Request) content.VideoInput {
	return content.VideoInput{
		Title:        r.FormValue("title"),
		Description:  r.FormValue("description"),
		YouTubeURL:   r.FormValue("youtube_url"),
		ThumbnailURL: r.FormValue("thumbnail_url"),
		CategoryID:   formUUID(r, "category_id"),
		Published:    formBool(r, "published"),
	}
}
