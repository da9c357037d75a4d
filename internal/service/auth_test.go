package service_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"taskpulse/internal/domain"
	"taskpulse/internal/repository/sqlite"
	"taskpulse/internal/service"
)

const testJWTSecret = "test-secret-key-for-unit-tests"

func newTestAuthService(t *testing.T) (*service.AuthService, *sqlite.DB) {
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

	// Use cost 4 for fast tests.
	auth := service.NewAuthService(db.Users(), testJWTSecret, 4)
	return auth, db
}

func TestAuthService_Register_Success(t *testing.T) {
	auth, _ := newTestAuthService(t)
	ctx := context.Background()

	user, err := auth.Register(ctx, "new@example.com", "password123")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if user.ID == 0 {
		t.Fatal("expected user ID to be set")
	}
	if user.Email != "new@example.com" {
		t.Fatalf("expected email new@example.com, got %s", user.Email)
	}
	if user.RewardPoints != 0 {
		t.Fatalf("expected new profile to start with 0 points, got %d", user.RewardPoints)
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	auth, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := auth.Register(ctx, "dup@example.com", "password123")
	if err != nil {
		t.Fatalf("first register: %v", err)
	}

	_, err = auth.Register(ctx, "dup@example.com", "password456")
	if !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestAuthService_Register_WeakPassword(t *testing.T) {
	auth, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := auth.Register(ctx, "weak@example.com", "short")
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestAuthService_Register_EmptyFields(t *testing.T) {
	auth, _ := newTestAuthService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"empty email", "", "password123"},
		{"empty password", "a@b.com", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := auth.Register(ctx, tc.email, tc.password)
			if !errors.Is(err, domain.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	auth, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := auth.Register(ctx, "login@example.com", "password123")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	user, token, err := auth.Login(ctx, "login@example.com", "password123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}
	if user.Email != "login@example.com" {
		t.Fatalf("expected logged-in user, got %s", user.Email)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	auth, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := auth.Register(ctx, "wrongpw@example.com", "password123")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, _, err = auth.Login(ctx, "wrongpw@example.com", "wrongpassword")
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	auth, _ := newTestAuthService(t)
	ctx := context.Background()

	_, _, err := auth.Login(ctx, "nobody@example.com", "password123")
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestAuthService_LoginAnonymous(t *testing.T) {
	auth, _ := newTestAuthService(t)
	ctx := context.Background()

	user, token, err := auth.LoginAnonymous(ctx)
	if err != nil {
		t.Fatalf("LoginAnonymous: %v", err)
	}
	if !user.IsAnonymous {
		t.Fatal("expected anonymous flag to be set")
	}
	if !strings.HasPrefix(user.Email, "guest-") {
		t.Fatalf("expected generated guest email, got %s", user.Email)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	// The session token must resolve to the new profile.
	userID, err := auth.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if userID != user.ID {
		t.Fatalf("expected user ID %d, got %d", user.ID, userID)
	}
}

func TestAuthService_LoginAnonymous_DistinctProfiles(t *testing.T) {
	auth, _ := newTestAuthService(t)
	ctx := context.Background()

	user1, _, err := auth.LoginAnonymous(ctx)
	if err != nil {
		t.Fatalf("first LoginAnonymous: %v", err)
	}
	user2, _, err := auth.LoginAnonymous(ctx)
	if err != nil {
		t.Fatalf("second LoginAnonymous: %v", err)
	}
	if user1.ID == user2.ID {
		t.Fatal("expected each anonymous login to create a fresh profile")
	}
}

func TestAuthService_Login_AnonymousProfileRejected(t *testing.T) {
	auth, _ := newTestAuthService(t)
	ctx := context.Background()

	user, _, err := auth.LoginAnonymous(ctx)
	if err != nil {
		t.Fatalf("LoginAnonymous: %v", err)
	}

	_, _, err = auth.Login(ctx, user.Email, "")
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for anonymous profile, got %v", err)
	}
}

func TestAuthService_LoginWithToken_CreatesProfile(t *testing.T) {
	auth, _ := newTestAuthService(t)
	ctx := context.Background()

	// Issue a bootstrap credential for an email with no profile yet.
	bootstrap, err := auth.IssueToken(&domain.User{Email: "provisioned@example.com"})
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	user, token, err := auth.LoginWithToken(ctx, bootstrap)
	if err != nil {
		t.Fatalf("LoginWithToken: %v", err)
	}
	if user.Email != "provisioned@example.com" {
		t.Fatalf("expected provisioned email, got %s", user.Email)
	}
	if user.ID == 0 {
		t.Fatal("expected profile to be created")
	}
	if token == "" {
		t.Fatal("expected fresh session token")
	}

	// A second sign-in resolves to the same profile.
	again, _, err := auth.LoginWithToken(ctx, bootstrap)
	if err != nil {
		t.Fatalf("second LoginWithToken: %v", err)
	}
	if again.ID != user.ID {
		t.Fatalf("expected same profile on repeat sign-in, got %d and %d", user.ID, again.ID)
	}
}

func TestAuthService_LoginWithToken_Invalid(t *testing.T) {
	auth, _ := newTestAuthService(t)
	ctx := context.Background()

	_, _, err := auth.LoginWithToken(ctx, "not-a-valid-jwt")
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestAuthService_JWT_GenerateAndValidate(t *testing.T) {
	auth, _ := newTestAuthService(t)
	ctx := context.Background()

	user, err := auth.Register(ctx, "jwt@example.com", "password123")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, token, err := auth.Login(ctx, "jwt@example.com", "password123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	userID, err := auth.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}

	if userID != user.ID {
		t.Fatalf("expected user ID %d, got %d", user.ID, userID)
	}
}

func TestAuthService_JWT_InvalidToken(t *testing.T) {
	auth, _ := newTestAuthService(t)

	_, err := auth.ValidateToken("not-a-valid-jwt")
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestAuthService_JWT_TamperedToken(t *testing.T) {
	auth, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := auth.Register(ctx, "tamper@example.com", "password123")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, token, err := auth.Login(ctx, "tamper@example.com", "password123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	// Tamper with the token by flipping several characters in the signature.
	tampered := token[:len(token)-5] + "XXXXX"
	_, err = auth.ValidateToken(tampered)
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for tampered token, got %v", err)
	}
}

func TestAuthService_JWT_WrongSecret(t *testing.T) {
	auth1, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := auth1.Register(ctx, "secret@example.com", "password123")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, token, err := auth1.Login(ctx, "secret@example.com", "password123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	// Create a second auth service with a different secret.
	dbPath := filepath.Join(t.TempDir(), "test2.db")
	db2, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("New DB2: %v", err)
	}
	defer db2.Close()
	if err := db2.Migrate(ctx); err != nil {
		t.Fatalf("Migrate DB2: %v", err)
	}
	auth2 := service.NewAuthService(db2.Users(), "different-secret", 4)

	_, err = auth2.ValidateToken(token)
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for wrong secret, got %v", err)
	}
}
