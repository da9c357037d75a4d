package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"taskpulse/internal/domain"
	"taskpulse/internal/handler"
	"taskpulse/internal/live"
	"taskpulse/internal/metrics"
	"taskpulse/internal/repository/sqlite"
	"taskpulse/internal/service"

	"github.com/prometheus/client_golang/prometheus"
)

const testJWTSecret = "test-secret-for-handler-tests"

func newTestServices(t *testing.T) (*service.AuthService, *service.TaskService, *live.Broker) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("New DB: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	broker := live.NewBroker()
	collector := metrics.NewCollector(prometheus.NewRegistry())

	auth := service.NewAuthService(db.Users(), testJWTSecret, 4)
	tasks := service.NewTaskService(db.Tasks(), db.Users(), broker, collector)
	return auth, tasks, broker
}

func registerTestUser(t *testing.T, auth *service.AuthService, email string) (*domain.User, string) {
	t.Helper()
	ctx := context.Background()
	_, err := auth.Register(ctx, email, "password123")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	user, token, err := auth.Login(ctx, email, "password123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	return user, token
}

func TestRequireAuth_ValidJWT(t *testing.T) {
	auth, _, _ := newTestServices(t)
	user, token := registerTestUser(t, auth, "valid@example.com")

	var gotID int64
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if u := handler.UserFromContext(r.Context()); u != nil {
			gotID = u.ID
		}
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "auth_token", Value: token})
	w := httptest.NewRecorder()

	handler.RequireAuth(auth, inner).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if gotID != user.ID {
		t.Fatalf("expected user %d in context, got %d", user.ID, gotID)
	}
}

func TestRequireAuth_MissingCookie(t *testing.T) {
	auth, _, _ := newTestServices(t)

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("inner handler should not be called")
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	w := httptest.NewRecorder()

	handler.RequireAuth(auth, inner).ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestRequireAuth_TamperedToken(t *testing.T) {
	auth, _, _ := newTestServices(t)
	_, token := registerTestUser(t, auth, "tamper@example.com")

	tampered := token[:len(token)-1] + "X"

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("inner handler should not be called")
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "auth_token", Value: tampered})
	w := httptest.NewRecorder()

	handler.RequireAuth(auth, inner).ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestOptionalAuth_WithoutToken(t *testing.T) {
	auth, _, _ := newTestServices(t)

	called := false
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		if handler.UserFromContext(r.Context()) != nil {
			t.Fatal("expected nil user in context")
		}
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	handler.OptionalAuth(auth, inner).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !called {
		t.Fatal("expected inner handler to be called")
	}
}

func TestBootstrapper_AnonymousFallback(t *testing.T) {
	auth, _, _ := newTestServices(t)
	bootstrap := handler.NewBootstrapper(auth, "", false)

	var gotUser *domain.User
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = handler.UserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	bootstrap.Wrap(inner).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if gotUser == nil || !gotUser.IsAnonymous {
		t.Fatalf("expected anonymous user in context, got %+v", gotUser)
	}

	// A session cookie must be issued for the new profile.
	cookies := w.Result().Cookies()
	var found bool
	for _, c := range cookies {
		if c.Name == "auth_token" && c.Value != "" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected auth_token cookie to be set")
	}
}

func TestBootstrapper_TokenUsedOnce(t *testing.T) {
	auth, _, _ := newTestServices(t)

	token, err := auth.IssueToken(&domain.User{Email: "bootstrap@example.com"})
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	bootstrap := handler.NewBootstrapper(auth, token, false)

	var users []*domain.User
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		users = append(users, handler.UserFromContext(r.Context()))
		w.WriteHeader(http.StatusOK)
	})

	// First visit consumes the configured token.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	bootstrap.Wrap(inner).ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("first visit: expected 200, got %d", w.Code)
	}

	// A second cookie-less visit falls back to anonymous.
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	w = httptest.NewRecorder()
	bootstrap.Wrap(inner).ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("second visit: expected 200, got %d", w.Code)
	}

	if len(users) != 2 {
		t.Fatalf("expected 2 bootstrapped users, got %d", len(users))
	}
	if users[0].Email != "bootstrap@example.com" {
		t.Fatalf("expected token profile on first visit, got %s", users[0].Email)
	}
	if !users[1].IsAnonymous {
		t.Fatalf("expected anonymous fallback on second visit, got %s", users[1].Email)
	}
}

func TestBootstrapper_ExistingSessionPassesThrough(t *testing.T) {
	auth, _, _ := newTestServices(t)
	user, token := registerTestUser(t, auth, "session@example.com")
	bootstrap := handler.NewBootstrapper(auth, "", false)

	var gotID int64
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if u := handler.UserFromContext(r.Context()); u != nil {
			gotID = u.ID
		}
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "auth_token", Value: token})
	w := httptest.NewRecorder()

	bootstrap.Wrap(inner).ServeHTTP(w, req)

	if gotID != user.ID {
		t.Fatalf("expected existing user %d, got %d", user.ID, gotID)
	}
	if len(w.Result().Cookies()) != 0 {
		t.Fatal("expected no new cookie for an established session")
	}
}

func TestSecurityHeaders(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	handler.SecurityHeaders(inner).ServeHTTP(w, req)

	if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Fatalf("expected nosniff, got %q", got)
	}
	if got := w.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Fatalf("expected DENY, got %q", got)
	}
}
