package handler

import (
	"context"
	"log/slog"
	"net/http"
	"sync/atomic"

	"taskpulse/internal/domain"
	"taskpulse/internal/service"
)

type contextKey string

const userContextKey contextKey = "user"

// UserFromContext extracts the authenticated user from the request context.
// Returns nil if no user is authenticated.
func UserFromContext(ctx context.Context) *domain.User {
	user, _ := ctx.Value(userContextKey).(*domain.User)
	return user
}

// RequireAuth is middleware that protects routes requiring authentication.
// It reads the auth_token cookie, validates the JWT, loads the user from DB,
// and injects it into the request context. Returns 401 for unauthenticated requests.
func RequireAuth(auth *service.AuthService, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := authenticateRequest(r, auth)
		if err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalAuth is middleware that attempts to authenticate but does not block
// unauthenticated requests. If a valid token is present, the user is injected
// into context; otherwise the request proceeds without a user.
func OptionalAuth(auth *service.AuthService, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := authenticateRequest(r, auth)
		if err == nil && user != nil {
			ctx := context.WithValue(r.Context(), userContextKey, user)
			r = r.WithContext(ctx)
		}
		next.ServeHTTP(w, r)
	})
}

func authenticateRequest(r *http.Request, auth *service.AuthService) (*domain.User, error) {
	cookie, err := r.Cookie("auth_token")
	if err != nil {
		return nil, err
	}

	userID, err := auth.ValidateToken(cookie.Value)
	if err != nil {
		return nil, err
	}

	user, err := auth.GetUserByID(r.Context(), userID)
	if err != nil {
		return nil, err
	}

	return user, nil
}

// SecurityHeaders sets common security headers on every response.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

// Bootstrapper signs in unauthenticated visitors on their first page load.
// When a bootstrap token is configured it is exchanged once per process;
// after that, and whenever no token is configured, visitors fall back to
// a fresh anonymous account.
type Bootstrapper struct {
	auth      *service.AuthService
	token     string
	secure    bool
	attempted atomic.Bool
}

// NewBootstrapper creates a new Bootstrapper.
func NewBootstrapper(auth *service.AuthService, token string, secure bool) *Bootstrapper {
	return &Bootstrapper{auth: auth, token: token, secure: secure}
}

// Wrap is middleware that establishes a session for unauthenticated requests.
// Requests that already carry a valid session pass through untouched.
func (b *Bootstrapper) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user, err := authenticateRequest(r, b.auth); err == nil && user != nil {
			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		user, token, err := b.signIn(r)
		if err != nil {
			slog.Error("bootstrap sign-in", "error", err)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		setSessionCookie(w, token, b.secure)
		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (b *Bootstrapper) signIn(r *http.Request) (*domain.User, string, error) {
	if b.token != "" && b.attempted.CompareAndSwap(false, true) {
		user, token, err := b.auth.LoginWithToken(r.Context(), b.token)
		if err == nil {
			return user, token, nil
		}
		slog.Warn("bootstrap token rejected, falling back to anonymous", "error", err)
	}
	return b.auth.LoginAnonymous(r.Context())
}

func setSessionCookie(w http.ResponseWriter, token string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   86400, // 24 hours
	})
}

func clearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
