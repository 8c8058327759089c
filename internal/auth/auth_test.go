package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"storefront/internal/config"
	"storefront/internal/localstore"
)

func setup(t *testing.T) (*Manager, localstore.Store) {
	t.Helper()
	store := localstore.NewMemory()
	m, err := NewManager(config.AuthConfig{
		JWTSecret:     "test-secret",
		AdminEmail:    "admin@example.com",
		AdminPassword: "admin123",
		TokenTTL:      time.Hour,
	}, store)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	return m, store
}

func TestLogin_CurrentLogout(t *testing.T) {
	m, _ := setup(t)
	ctx := context.Background()

	token, sess, err := m.Login(ctx, " Admin@Example.com ", "admin123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if !sess.IsAdmin || sess.Email != "admin@example.com" || sess.UserID == "" {
		t.Fatalf("unexpected session %+v", sess)
	}

	got, err := m.Current(ctx, token)
	if err != nil || got.Email != sess.Email {
		t.Fatalf("current: %v %+v", err, got)
	}

	if err := m.Logout(ctx, token); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := m.Current(ctx, token); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized after logout, got %v", err)
	}
}

func TestLogin_WrongCredentials(t *testing.T) {
	m, _ := setup(t)
	ctx := context.Background()
	if _, _, err := m.Login(ctx, "admin@example.com", "nope"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password: %v", err)
	}
	if _, _, err := m.Login(ctx, "other@example.com", "admin123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong email: %v", err)
	}
}

func TestCurrent_RejectsBadTokens(t *testing.T) {
	m, store := setup(t)
	ctx := context.Background()

	if _, err := m.Current(ctx, "garbage"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("garbage: %v", err)
	}

	other, err := NewManager(config.AuthConfig{
		JWTSecret: "other-secret", AdminEmail: "admin@example.com", AdminPassword: "admin123", TokenTTL: time.Hour,
	}, store)
	if err != nil {
		t.Fatal(err)
	}
	foreign, _, err := other.Login(ctx, "admin@example.com", "admin123")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.Current(ctx, foreign); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("foreign signature: %v", err)
	}
}

func TestCurrent_Expired(t *testing.T) {
	m, _ := setup(t)
	ctx := context.Background()
	start := time.Now()
	m.now = func() time.Time { return start }

	token, _, err := m.Login(ctx, "admin@example.com", "admin123")
	if err != nil {
		t.Fatal(err)
	}
	m.now = func() time.Time { return start.Add(2 * time.Hour) }
	if _, err := m.Current(ctx, token); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected expiry, got %v", err)
	}
}

func TestNewManager_UsesPresetHash(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	m, err := NewManager(config.AuthConfig{
		JWTSecret: "x", AdminEmail: "admin@example.com", AdminPassword: "ignored",
		AdminPasswordHash: string(hash), TokenTTL: time.Hour,
	}, localstore.NewMemory())
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := m.Login(context.Background(), "admin@example.com", "s3cret"); err != nil {
		t.Fatalf("login with preset hash: %v", err)
	}
}
