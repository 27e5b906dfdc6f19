package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

func newTestService(t *testing.T, now *time.Time) *Service {
	t.Helper()
	svc := NewService(NewMemoryRepository(),
		WithHashCost(bcrypt.MinCost),
		WithSessionTTL(time.Hour),
		WithClock(func() time.Time { return *now }),
	)
	err := svc.SeedUsers(context.Background(), []Seed{
		{Username: "walshadmin", PIN: "612599", Role: RoleAdmin},
		{Username: "demo", PIN: "123456", Role: RoleUser},
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	return svc
}

func adminSession(t *testing.T, svc *Service) string {
	t.Helper()
	_, sess, err := svc.Login(context.Background(), Credentials{Username: "walshadmin", PIN: "612599"})
	if err != nil {
		t.Fatalf("admin login: %v", err)
	}
	return sess.ID
}

func TestLogin(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	svc := newTestService(t, &now)
	ctx := context.Background()

	user, sess, err := svc.Login(ctx, Credentials{Username: "  WalshAdmin ", PIN: "612599"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if user.ID != "admin" || user.Role != RoleAdmin || user.LastLoginAt == nil {
		t.Fatalf("unexpected admin %+v", user)
	}
	if sess.ExpiresAt != now.Add(time.Hour) {
		t.Fatalf("unexpected expiry %v", sess.ExpiresAt)
	}

	if _, _, err := svc.Login(ctx, Credentials{Username: "demo", PIN: "000000"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	if _, _, err := svc.Login(ctx, Credentials{Username: "ghost", PIN: "123456"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	if _, _, err := svc.Login(ctx, Credentials{Username: "demo"}); !errors.Is(err, ErrCredentialsRequired) {
		t.Fatalf("expected credentials required, got %v", err)
	}
}

func TestAdminSessionRequired(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	svc := newTestService(t, &now)
	ctx := context.Background()

	_, demoSess, err := svc.Login(ctx, Credentials{Username: "demo", PIN: "123456"})
	if err != nil {
		t.Fatalf("demo login: %v", err)
	}
	for _, sess := range []string{"", "made-up", demoSess.ID} {
		if _, err := svc.Create(ctx, sess, CreateInput{Username: "alice", PIN: "111111"}); !errors.Is(err, ErrAdminRequired) {
			t.Fatalf("session %q: expected admin required, got %v", sess, err)
		}
	}

	admin := adminSession(t, svc)
	now = now.Add(2 * time.Hour)
	if err := svc.VerifyAdmin(ctx, admin); !errors.Is(err, ErrAdminRequired) {
		t.Fatalf("expired session must be rejected, got %v", err)
	}
}

func TestCreateValidation(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	svc := newTestService(t, &now)
	ctx := context.Background()
	admin := adminSession(t, svc)

	for _, tc := range []struct {
		in   CreateInput
		want error
	}{
		{CreateInput{PIN: "111111"}, ErrCredentialsRequired},
		{CreateInput{Username: "alice", PIN: "12345"}, ErrInvalidPIN},
		{CreateInput{Username: "alice", PIN: "12345a"}, ErrInvalidPIN},
		{CreateInput{Username: "test", PIN: "111111"}, ErrUsernameTaken},
		{CreateInput{Username: "alice", PIN: "111111", Role: "root"}, ErrInvalidRole},
	} {
		if _, err := svc.Create(ctx, admin, tc.in); !errors.Is(err, tc.want) {
			t.Fatalf("%+v: expected %v, got %v", tc.in, tc.want, err)
		}
	}

	user, err := svc.Create(ctx, admin, CreateInput{Username: "Alice", PIN: "111111"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if user.Username != "alice" || user.Role != RoleUser || !user.IsActive {
		t.Fatalf("unexpected user %+v", user)
	}
	if _, err := svc.Create(ctx, admin, CreateInput{Username: "alice", PIN: "222222"}); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected duplicate rejection, got %v", err)
	}
	if _, _, err := svc.Login(ctx, Credentials{Username: "alice", PIN: "111111"}); err != nil {
		t.Fatalf("new user login: %v", err)
	}
}

func TestUpdateAndDelete(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	svc := newTestService(t, &now)
	ctx := context.Background()
	admin := adminSession(t, svc)

	user, err := svc.Create(ctx, admin, CreateInput{Username: "bob", PIN: "111111"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	_, bobSess, err := svc.Login(ctx, Credentials{Username: "bob", PIN: "111111"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	inactive := false
	updated, err := svc.Update(ctx, admin, user.ID, UpdateInput{IsActive: &inactive})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.IsActive {
		t.Fatal("expected deactivated user")
	}
	for _, s := range svc.Sessions() {
		if s.ID == bobSess.ID {
			t.Fatal("deactivation must drop sessions")
		}
	}
	if _, _, err := svc.Login(ctx, Credentials{Username: "bob", PIN: "111111"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("inactive user must not log in, got %v", err)
	}

	badPIN := "12"
	if _, err := svc.Update(ctx, admin, user.ID, UpdateInput{PIN: &badPIN}); !errors.Is(err, ErrInvalidPIN) {
		t.Fatalf("expected invalid PIN, got %v", err)
	}
	if _, err := svc.Update(ctx, admin, "", UpdateInput{}); !errors.Is(err, ErrUserIDRequired) {
		t.Fatalf("expected user id required, got %v", err)
	}
	if err := svc.Delete(ctx, admin, "admin"); !errors.Is(err, ErrProtectedUser) {
		t.Fatalf("expected protected admin, got %v", err)
	}
	if err := svc.Delete(ctx, admin, user.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(ctx, admin, user.ID); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	list, err := svc.List(ctx)
	if err != nil || len(list) != 2 {
		t.Fatalf("expected the two seeded users, got %d (%v)", len(list), err)
	}
}
