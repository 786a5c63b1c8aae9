package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"ivonews/internal/middleware"
	"ivonews/internal/models"
	"ivonews/internal/render"
	"ivonews/internal/session"
	"ivonews/internal/store"
	"ivonews/internal/validate"
)

// Users signs identities in and up; *store.UserStore satisfies it.
type Users interface {
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	Create(ctx context.Context, email, password, displayName string) (*models.User, error)
}

// ProfileFinder loads the profile behind a user.
type ProfileFinder interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
}

// SignUpInput is the sign-up form.
type SignUpInput struct {
	DisplayName string `validate:"required,max=100" label:"Nome"`
	Email       string `validate:"required,email" label:"E-mail"`
	Password    string `validate:"required,min=6,max=72" label:"Senha"`
}

// Auth groups the sign-in, sign-up and sign-out handlers.
type Auth struct {
	renderer *render.Renderer
	sessions SessionStore
	users    Users
	profiles ProfileFinder
}

// NewAuth creates a new Auth handler group.
func NewAuth(renderer *render.Renderer, sessions SessionStore, users Users, profiles ProfileFinder) *Auth {
	return &Auth{
		renderer: renderer,
		sessions: sessions,
		users:    users,
		profiles: profiles,
	}
}

// Page renders the sign-in / sign-up page.
func (a *Auth) Page(w http.ResponseWriter, r *http.Request) {
	if middleware.SessionFromCtx(r.Context()) != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	a.render(w, r, authTab(r.URL.Query().Get("tab")), map[string]any{})
}

// SignIn checks credentials and opens a session.
func (a *Auth) SignIn(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	user, err := a.users.Authenticate(r.Context(), email, password)
	if err != nil {
		slog.Error("sign-in lookup failed", "error", err)
		a.render(w, r, "signin", map[string]any{"Error": "Ocorreu um erro inesperado.", "Email": email})
		return
	}
	if user == nil {
		a.render(w, r, "signin", map[string]any{"Error": "E-mail ou senha inválidos.", "Email": email})
		return
	}

	if err := a.openSession(w, r, user); err != nil {
		slog.Error("session create failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	slog.Info("user signed in", "user_id", user.ID)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// SignUp creates an identity with its profile and signs it in.
func (a *Auth) SignUp(w http.ResponseWriter, r *http.Request) {
	in := SignUpInput{
		DisplayName: strings.TrimSpace(r.FormValue("display_name")),
		Email:       strings.TrimSpace(r.FormValue("email")),
		Password:    r.FormValue("password"),
	}
	form := map[string]any{"Email": in.Email, "DisplayName": in.DisplayName}

	if err := validate.Struct(&in); err != nil {
		form["Error"] = validate.Message(err)
		a.render(w, r, "signup", form)
		return
	}

	user, err := a.users.Create(r.Context(), in.Email, in.Password, in.DisplayName)
	if errors.Is(err, store.ErrEmailTaken) {
		form["Error"] = "Este e-mail já está cadastrado."
		a.render(w, r, "signup", form)
		return
	}
	if err != nil {
		slog.Error("sign-up failed", "error", err)
		form["Error"] = "Não foi possível criar a conta."
		a.render(w, r, "signup", form)
		return
	}

	if err := a.openSession(w, r, user); err != nil {
		slog.Error("session create failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	slog.Info("user signed up", "user_id", user.ID)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// SignOut destroys the session and returns to the landing page.
func (a *Auth) SignOut(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		slog.Error("session destroy failed", "error", err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// openSession resolves the profile and stores the session.
func (a *Auth) openSession(w http.ResponseWriter, r *http.Request, user *models.User) error {
	data := &session.Data{
		UserID: user.ID,
		Email:  user.Email,
		Role:   string(models.RoleUser),
	}
	profile, err := a.profiles.FindByUserID(r.Context(), user.ID)
	if err != nil {
		return err
	}
	if profile != nil {
		data.DisplayName = profile.DisplayName
		data.AvatarURL = profile.Avatar()
		data.Role = string(profile.Role)
	}
	_, err = a.sessions.Create(r.Context(), w, data)
	return err
}

func (a *Auth) render(w http.ResponseWriter, r *http.Request, tab string, data map[string]any) {
	data["Tab"] = tab
	for _, k := range []string{"Email", "DisplayName"} {
		if _, ok := data[k]; !ok {
			data[k] = ""
		}
	}
	title := "Entrar"
	if tab == "signup" {
		title = "Criar conta"
	}
	a.renderer.Page(w, r, "auth", &render.PageData{Title: title, Data: data})
}

func authTab(v string) string {
	if v == "signup" {
		return "signup"
	}
	return "signin"
}
