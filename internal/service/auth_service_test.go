package service

import (
	"context"
	"errors"
	"testing"

	"github.com/myjantes/api/internal/domain"
	"github.com/myjantes/api/internal/storage"
	"github.com/myjantes/api/internal/storage/memory"
	"github.com/myjantes/api/pkg/auth"
)

func newAuthService() AuthService {
	return NewAuthService(memory.New().Users(), testConfig())
}

func registerReq() *domain.RegisterRequest {
	return &domain.RegisterRequest{
		Name:            "Jean Dupont",
		Email:           "jean@example.fr",
		Password:        "secret123",
		ConfirmPassword: "secret123",
	}
}

func TestRegisterThenLogin(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()

	reg, err := svc.Register(ctx, registerReq())
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if reg.Token == "" {
		t.Error("Register returned empty token")
	}
	if reg.User.PasswordHash == "secret123" {
		t.Error("password stored in plaintext")
	}

	login, err := svc.Login(ctx, &domain.LoginRequest{Email: "Jean@Example.FR", Password: "secret123"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if login.User.ID != reg.User.ID {
		t.Errorf("Login user id = %s, want %s", login.User.ID, reg.User.ID)
	}
	if login.Token == "" {
		t.Error("Login returned empty token")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, registerReq()); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	_, err := svc.Register(ctx, registerReq())
	if !errors.Is(err, storage.ErrEmailTaken) {
		t.Errorf("second Register: err = %v, want ErrEmailTaken", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*domain.RegisterRequest)
	}{
		{"short name", func(r *domain.RegisterRequest) { r.Name = "J" }},
		{"bad email", func(r *domain.RegisterRequest) { r.Email = "not-an-email" }},
		{"short password", func(r *domain.RegisterRequest) { r.Password = "abc"; r.ConfirmPassword = "abc" }},
		{"mismatched confirm", func(r *domain.RegisterRequest) { r.ConfirmPassword = "different" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := registerReq()
			tc.mutate(req)
			if _, err := svc.Register(ctx, req); err == nil {
				t.Error("Register succeeded, want validation error")
			}
		})
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, registerReq()); err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, err := svc.Login(ctx, &domain.LoginRequest{Email: "jean@example.fr", Password: "wrong-pass"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Login with wrong password: err = %v, want ErrInvalidCredentials", err)
	}

	_, err = svc.Login(ctx, &domain.LoginRequest{Email: "absent@example.fr", Password: "secret123"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Login with unknown email: err = %v, want ErrInvalidCredentials", err)
	}
}

func TestVerifyTokenRoundTrip(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()

	reg, err := svc.Register(ctx, registerReq())
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	user, err := svc.VerifyToken(ctx, reg.Token)
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	if user.ID != reg.User.ID {
		t.Errorf("VerifyToken user = %s, want %s", user.ID, reg.User.ID)
	}

	if _, err := svc.VerifyToken(ctx, "garbage"); err == nil {
		t.Error("VerifyToken accepted a malformed token")
	}
}

func TestVerifyTokenUnknownUser(t *testing.T) {
	store := memory.New()
	svc := NewAuthService(store.Users(), testConfig())
	ctx := context.Background()

	reg, err := svc.Register(ctx, registerReq())
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	// A well-signed, unexpired token for a user that is not in the
	// store is a distinct failure from a malformed token.
	other := NewAuthService(memory.New().Users(), testConfig())
	_, err = other.VerifyToken(ctx, reg.Token)
	if !errors.Is(err, ErrUnknownUser) {
		t.Errorf("VerifyToken with no backing user: err = %v, want ErrUnknownUser", err)
	}
	if errors.Is(err, auth.ErrInvalidToken) {
		t.Error("missing user must not read as a malformed token")
	}
}
