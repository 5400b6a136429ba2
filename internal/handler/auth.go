package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/msomdec/todo-list/internal/domain"
	"github.com/msomdec/todo-list/internal/service"
	"github.com/msomdec/todo-list/internal/view"
)

// CookieConfig controls the auth cookie attributes.
type CookieConfig struct {
	Secure bool
	MaxAge time.Duration
}

// AuthHandler handles registration, login and logout form posts.
type AuthHandler struct {
	auth    *service.AuthService
	flashes *Flashes
	cookies CookieConfig
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *service.AuthService, flashes *Flashes, cookies CookieConfig) *AuthHandler {
	return &AuthHandler{auth: auth, flashes: flashes, cookies: cookies}
}

// HandleRegisterPage renders the registration form.
func (h *AuthHandler) HandleRegisterPage(w http.ResponseWriter, r *http.Request) {
	view.RegisterPage(h.flashes.Pop(w, r)).Render(r.Context(), w)
}

// HandleRegister creates an account and sends the user to the login page.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	_, err := h.auth.Register(r.Context(), r.FormValue("email"), r.FormValue("password"))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			h.flashes.Add(w, r, view.FlashError, registerInputMessage(r.FormValue("password")))
		case errors.Is(err, domain.ErrDuplicateEmail):
			h.flashes.Add(w, r, view.FlashError, "That email is already registered.")
		default:
			slog.Error("register user", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		http.Redirect(w, r, "/register", http.StatusSeeOther)
		return
	}

	h.flashes.Add(w, r, view.FlashOK, "Account created! Please log in.")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// HandleLoginPage renders the login form.
func (h *AuthHandler) HandleLoginPage(w http.ResponseWriter, r *http.Request) {
	view.LoginPage(h.flashes.Pop(w, r)).Render(r.Context(), w)
}

// HandleLogin verifies credentials, sets the auth cookie and redirects to
// the dashboard.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	token, err := h.auth.Login(r.Context(), r.FormValue("email"), r.FormValue("password"))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			h.flashes.Add(w, r, view.FlashError, "Invalid email or password.")
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		slog.Error("login user", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(h.cookies.MaxAge.Seconds()),
	})
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// HandleLogout revokes the session, clears the auth cookie and redirects
// to the login page.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(authCookieName); err == nil {
		if err := h.auth.Logout(r.Context(), cookie.Value); err != nil {
			slog.Error("logout user", "error", err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func registerInputMessage(password string) string {
	if len(password) > domain.MaxPasswordBytes {
		return "Password is too long."
	}
	return "Please enter a valid email and password."
}
