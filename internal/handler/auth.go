package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"taskpulse/internal/domain"
	"taskpulse/internal/service"
	"taskpulse/internal/view"
)

// AuthHandler handles the login, signup, and logout pages.
type AuthHandler struct {
	auth   *service.AuthService
	secure bool
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *service.AuthService, secure bool) *AuthHandler {
	return &AuthHandler{auth: auth, secure: secure}
}

// HandleLoginPage renders the login form.
// GET /login
func (h *AuthHandler) HandleLoginPage(w http.ResponseWriter, r *http.Request) {
	if UserFromContext(r.Context()) != nil {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	view.LoginPage("", "").Render(r.Context(), w)
}

// HandleLogin processes a login form submission.
// POST /login
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	email := r.FormValue("email")
	password := r.FormValue("password")

	_, token, err := h.auth.Login(r.Context(), email, password)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			w.WriteHeader(http.StatusUnauthorized)
			view.LoginPage(email, "Invalid email or password.").Render(r.Context(), w)
			return
		}
		slog.Error("login user", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		view.LoginPage(email, "An unexpected error occurred. Please try again.").Render(r.Context(), w)
		return
	}

	setSessionCookie(w, token, h.secure)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// HandleSignupPage renders the account creation form.
// GET /signup
func (h *AuthHandler) HandleSignupPage(w http.ResponseWriter, r *http.Request) {
	if UserFromContext(r.Context()) != nil {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	view.SignupPage("", "").Render(r.Context(), w)
}

// HandleSignup processes a signup form submission. On success the new
// user is logged in immediately.
// POST /signup
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	email := r.FormValue("email")
	password := r.FormValue("password")

	user, err := h.auth.Register(r.Context(), email, password)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			view.SignupPage(email, "An account with that email already exists.").Render(r.Context(), w)
			return
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			view.SignupPage(email, err.Error()).Render(r.Context(), w)
			return
		}
		slog.Error("register user", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		view.SignupPage(email, "An unexpected error occurred. Please try again.").Render(r.Context(), w)
		return
	}

	token, err := h.auth.IssueToken(user)
	if err != nil {
		slog.Error("issue token after signup", "error", err)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	setSessionCookie(w, token, h.secure)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// HandleAnonymous signs the visitor in as a guest with a fresh profile.
// POST /auth/anonymous
func (h *AuthHandler) HandleAnonymous(w http.ResponseWriter, r *http.Request) {
	_, token, err := h.auth.LoginAnonymous(r.Context())
	if err != nil {
		slog.Error("anonymous login", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		view.LoginPage("", "An unexpected error occurred. Please try again.").Render(r.Context(), w)
		return
	}

	setSessionCookie(w, token, h.secure)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// HandleLogout clears the session cookie.
// POST /logout
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	clearSessionCookie(w, h.secure)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
