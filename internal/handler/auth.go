package handler

import (
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/mckaywrigley/takeoff-notes-app-complete/internal/auth"
	"github.com/mckaywrigley/takeoff-notes-app-complete/internal/middleware"
	"github.com/mckaywrigley/takeoff-notes-app-complete/internal/notes"
	"github.com/mckaywrigley/takeoff-notes-app-complete/internal/store"
)

const minPasswordLength = 8

type AuthHandler struct {
	userStore    *store.UserStore
	profileStore *store.ProfileStore
	sessionStore *store.SessionStore
	views        *notes.ViewRegistry
	templates    *template.Template
	logger       *slog.Logger
}

func NewAuthHandler(
	us *store.UserStore,
	ps *store.ProfileStore,
	ss *store.SessionStore,
	views *notes.ViewRegistry,
	logger *slog.Logger,
) *AuthHandler {
	tmpl := template.Must(template.ParseGlob("web/templates/auth_*.html"))
	return &AuthHandler{
		userStore:    us,
		profileStore: ps,
		sessionStore: ss,
		views:        views,
		templates:    tmpl,
		logger:       logger,
	}
}

func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.templates.ExecuteTemplate(w, "auth_login.html", nil)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	email := strings.ToLower(strings.TrimSpace(r.FormValue("email")))
	password := r.FormValue("password")
	if email == "" || password == "" {
		h.loginError(w, "Email and password are required")
		return
	}

	user, err := h.userStore.GetByEmail(email)
	if err != nil {
		h.logger.Error("login lookup", "error", err)
		h.loginError(w, "Something went wrong, try again")
		return
	}
	// Same response for unknown email and wrong password.
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		h.loginError(w, "Invalid email or password")
		return
	}

	h.startSession(w, r, user.ID)
}

func (h *AuthHandler) SignupPage(w http.ResponseWriter, r *http.Request) {
	h.templates.ExecuteTemplate(w, "auth_signup.html", nil)
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	email := strings.ToLower(strings.TrimSpace(r.FormValue("email")))
	password := r.FormValue("password")

	if email == "" || !strings.Contains(email, "@") {
		h.signupError(w, "A valid email is required")
		return
	}
	if len(password) < minPasswordLength {
		h.signupError(w, "Password must be at least 8 characters")
		return
	}

	existing, err := h.userStore.GetByEmail(email)
	if err != nil {
		h.logger.Error("signup lookup", "error", err)
		h.signupError(w, "Something went wrong, try again")
		return
	}
	if existing != nil {
		h.signupError(w, "An account with that email already exists")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		h.logger.Error("hash password", "error", err)
		h.signupError(w, "Something went wrong, try again")
		return
	}

	user, err := h.userStore.Create(email, string(hash))
	if err != nil {
		h.logger.Error("create user", "error", err)
		h.signupError(w, "Something went wrong, try again")
		return
	}
	if _, err := h.profileStore.Create(user.ID); err != nil {
		h.logger.Error("create profile", "error", err)
		h.signupError(w, "Something went wrong, try again")
		return
	}

	h.startSession(w, r, user.ID)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if ac, ok := auth.FromContext(r.Context()); ok {
		if err := h.sessionStore.Delete(ac.SessionID); err != nil {
			h.logger.Error("delete session", "error", err)
		}
		h.views.Drop(ac.SessionID)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *AuthHandler) startSession(w http.ResponseWriter, r *http.Request, userID string) {
	sess, err := h.sessionStore.Create(userID)
	if err != nil {
		h.logger.Error("create session", "error", err)
		h.loginError(w, "Something went wrong, try again")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    sess.Token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/notes", http.StatusSeeOther)
}

func (h *AuthHandler) loginError(w http.ResponseWriter, msg string) {
	h.templates.ExecuteTemplate(w, "auth_login.html", map[string]any{"Error": msg})
}

func (h *AuthHandler) signupError(w http.ResponseWriter, msg string) {
	h.templates.ExecuteTemplate(w, "auth_signup.html", map[string]any{"Error": msg})
}
