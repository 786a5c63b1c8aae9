package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"ivonews/internal/account"
	"ivonews/internal/models"
	"ivonews/internal/render"
	"ivonews/internal/session"
	"ivonews/internal/store"
	"ivonews/internal/upload"
)

// Settings groups the profile, password, avatar and category handlers.
type Settings struct {
	renderer *render.Renderer
	sessions SessionStore
	accounts *account.Service
	uploader *upload.Uploader
}

// NewSettings creates a new Settings handler group.
func NewSettings(renderer *render.Renderer, sessions SessionStore, accounts *account.Service, uploader *upload.Uploader) *Settings {
	return &Settings{
		renderer: renderer,
		sessions: sessions,
		accounts: accounts,
		uploader: uploader,
	}
}

// Page renders the settings page.
func (s *Settings) Page(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, nil)
}

// render draws the page; formErrors maps "ProfileError", "PasswordError"
// or "CategoryError" to an inline message.
func (s *Settings) render(w http.ResponseWriter, r *http.Request, formErrors map[string]any) {
	sess := currentUser(r)
	ctx := r.Context()

	profile, err := s.accounts.Profile(ctx, sess.UserID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			slog.Error("load profile failed", "error", err, "user_id", sess.UserID)
		}
		profile = &models.Profile{UserID: sess.UserID, DisplayName: sess.DisplayName}
	}

	data := map[string]any{
		"Profile":        profile,
		"IsAdmin":        profile.IsAdmin(),
		"UploadsEnabled": s.uploader.Enabled(),
	}
	if profile.IsAdmin() {
		cats, err := s.accounts.Categories(ctx)
		if err != nil {
			slog.Error("list categories failed", "error", err)
		}
		data["Categories"] = cats
	}
	for k, v := range formErrors {
		data[k] = v
	}

	status := http.StatusOK
	if len(formErrors) > 0 {
		status = http.StatusUnprocessableEntity
	}
	s.renderer.PageStatus(w, r, status, "settings", &render.PageData{
		Title:   "Configurações",
		Section: "profile",
		Data:    data,
	})
}

// UpdateProfile saves the display name and avatar URL.
func (s *Settings) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	sess := currentUser(r)
	in := account.ProfileInput{
		DisplayName: r.FormValue("display_name"),
		AvatarURL:   r.FormValue("avatar_url"),
	}

	if err := s.accounts.UpdateProfile(r.Context(), sess.UserID, in); err != nil {
		if msg, ok := userError(err); ok {
			s.render(w, r, map[string]any{"ProfileError": msg})
			return
		}
		slog.Error("update profile failed", "error", err, "user_id", sess.UserID)
		flash(s.sessions, r, session.FlashError, "Erro ao atualizar perfil.")
		http.Redirect(w, r, "/profile/settings", http.StatusSeeOther)
		return
	}

	updated := *sess
	updated.DisplayName = in.DisplayName
	updated.AvatarURL = in.AvatarURL
	s.refreshSession(r, &updated)

	flash(s.sessions, r, session.FlashSuccess, "Perfil atualizado com sucesso!")
	http.Redirect(w, r, "/profile/settings", http.StatusSeeOther)
}

// ChangePassword stores a new password after checking its confirmation.
func (s *Settings) ChangePassword(w http.ResponseWriter, r *http.Request) {
	sess := currentUser(r)
	in := account.PasswordInput{
		New:     r.FormValue("new_password"),
		Confirm: r.FormValue("confirm_password"),
	}

	if err := s.accounts.ChangePassword(r.Context(), sess.UserID, in); err != nil {
		if msg, ok := userError(err); ok {
			s.render(w, r, map[string]any{"PasswordError": msg})
			return
		}
		slog.Error("change password failed", "error", err, "user_id", sess.UserID)
		flash(s.sessions, r, session.FlashError, "Erro ao alterar senha.")
		http.Redirect(w, r, "/profile/settings", http.StatusSeeOther)
		return
	}

	flash(s.sessions, r, session.FlashSuccess, "Senha alterada com sucesso!")
	http.Redirect(w, r, "/profile/settings", http.StatusSeeOther)
}

// AddCategory creates a category. Admin only.
func (s *Settings) AddCategory(w http.ResponseWriter, r *http.Request) {
	sess := currentUser(r)
	in := account.CategoryInput{Name: r.FormValue("name")}

	_, err := s.accounts.AddCategory(r.Context(), sess.UserID, in)
	switch {
	case err == nil:
		flash(s.sessions, r, session.FlashSuccess, "Categoria adicionada com sucesso!")
	case errors.Is(err, account.ErrForbidden):
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	case errors.Is(err, store.ErrSlugTaken):
		s.render(w, r, map[string]any{"CategoryError": "Já existe uma categoria com este nome."})
		return
	default:
		if msg, ok := userError(err); ok {
			s.render(w, r, map[string]any{"CategoryError": msg})
			return
		}
		slog.Error("add category failed", "error", err)
		flash(s.sessions, r, session.FlashError, "Erro ao adicionar categoria.")
	}
	http.Redirect(w, r, "/profile/settings", http.StatusSeeOther)
}

// DeleteCategory removes a category. Admin only.
func (s *Settings) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	sess := currentUser(r)

	switch err := s.accounts.DeleteCategory(r.Context(), sess.UserID, id); {
	case err == nil:
		flash(s.sessions, r, session.FlashSuccess, "Categoria excluída com sucesso!")
	case errors.Is(err, account.ErrForbidden):
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	case errors.Is(err, store.ErrNotFound):
		flash(s.sessions, r, session.FlashError, "Categoria não encontrada.")
	default:
		slog.Error("delete category failed", "error", err, "category_id", id)
		flash(s.sessions, r, session.FlashError, "Erro ao excluir categoria.")
	}
	http.Redirect(w, r, "/profile/settings", http.StatusSeeOther)
}

// UploadAvatar replaces the avatar with the uploaded image.
func (s *Settings) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	sess := currentUser(r)

	r.Body = http.MaxBytesReader(w, r.Body, upload.MaxSize+1<<20)
	if err := r.ParseMultipartForm(upload.MaxSize); err != nil {
		flash(s.sessions, r, session.FlashError, upload.ErrTooLarge.Error())
		http.Redirect(w, r, "/profile/settings", http.StatusSeeOther)
		return
	}
	file, header, err := r.FormFile("avatar")
	if err != nil {
		flash(s.sessions, r, session.FlashError, "Nenhum arquivo enviado.")
		http.Redirect(w, r, "/profile/settings", http.StatusSeeOther)
		return
	}
	defer file.Close()

	f, err := upload.Read(file, header.Filename, header.Header.Get("Content-Type"), header.Size)
	if err != nil {
		s.avatarFailed(w, r, err)
		return
	}

	url, err := s.uploader.ReplaceAvatar(r.Context(), sess.UserID, s.currentAvatar(r), f)
	if err != nil {
		s.avatarFailed(w, r, err)
		return
	}

	updated := *sess
	updated.AvatarURL = url
	s.refreshSession(r, &updated)

	flash(s.sessions, r, session.FlashSuccess, "Avatar atualizado com sucesso!")
	http.Redirect(w, r, "/profile/settings", http.StatusSeeOther)
}

// RemoveAvatar clears the avatar and deletes the stored image.
func (s *Settings) RemoveAvatar(w http.ResponseWriter, r *http.Request) {
	sess := currentUser(r)

	if err := s.uploader.RemoveAvatar(r.Context(), sess.UserID, s.currentAvatar(r)); err != nil {
		slog.Error("remove avatar failed", "error", err, "user_id", sess.UserID)
		flash(s.sessions, r, session.FlashError, "Erro ao remover avatar.")
		http.Redirect(w, r, "/profile/settings", http.StatusSeeOther)
		return
	}

	updated := *sess
	updated.AvatarURL = ""
	s.refreshSession(r, &updated)

	flash(s.sessions, r, session.FlashSuccess, "Avatar removido.")
	http.Redirect(w, r, "/profile/settings", http.StatusSeeOther)
}

func (s *Settings) avatarFailed(w http.ResponseWriter, r *http.Request, err error) {
	msg := "Erro ao enviar avatar."
	switch {
	case errors.Is(err, upload.ErrNotImage), errors.Is(err, upload.ErrTooLarge):
		msg = err.Error()
	case errors.Is(err, upload.ErrStorageUnavailable):
		msg = "Armazenamento de imagens não configurado."
	default:
		slog.Error("avatar upload failed", "error", err)
	}
	flash(s.sessions, r, session.FlashError, msg)
	http.Redirect(w, r, "/profile/settings", http.StatusSeeOther)
}

// currentAvatar reads the stored avatar URL; the session copy may be stale.
func (s *Settings) currentAvatar(r *http.Request) string {
	sess := currentUser(r)
	p, err := s.accounts.Profile(r.Context(), sess.UserID)
	if err != nil {
		return sess.AvatarURL
	}
	return p.Avatar()
}

// refreshSession keeps the nav in step with the profile.
func (s *Settings) refreshSession(r *http.Request, data *session.Data) {
	if err := s.sessions.Update(r.Context(), r, data); err != nil {
		slog.Warn("session refresh failed", "error", err)
	}
}
