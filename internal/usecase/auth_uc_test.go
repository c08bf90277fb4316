//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"promohub/internal/domain"
	"promohub/internal/domain/model"
	"promohub/internal/usecase"
)

func TestCompanyUseCase_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("stores a bcrypt hash, never the password", func(t *testing.T) {
		repo := NewMockCompanyRepo()
		uc := usecase.NewCompanyUseCase(repo, NewMockTxManager(), newTestLogger())

		c, err := uc.Register(ctx, "Demo Coffee", "demo@coffee.example.com", "StrongPass1")
		if err != nil {
			t.Fatalf("register: %v", err)
		}
		if c.PasswordHash == "StrongPass1" {
			t.Error("password stored in clear")
		}
		if bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte("StrongPass1")) != nil {
			t.Error("stored hash does not verify the password")
		}
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		repo := NewMockCompanyRepo()
		uc := usecase.NewCompanyUseCase(repo, NewMockTxManager(), newTestLogger())

		if _, err := uc.Register(ctx, "Demo Coffee", "demo@coffee.example.com", "StrongPass1"); err != nil {
			t.Fatalf("first register: %v", err)
		}
		if _, err := uc.Register(ctx, "Other Shop", "demo@coffee.example.com", "StrongPass1"); !errors.Is(err, domain.ErrAlreadyExists) {
			t.Errorf("err = %v, want ErrAlreadyExists", err)
		}
	})

	t.Run("weak password rejected before hashing", func(t *testing.T) {
		repo := NewMockCompanyRepo()
		uc := usecase.NewCompanyUseCase(repo, NewMockTxManager(), newTestLogger())

		var ve *domain.ValidationError
		_, err := uc.Register(ctx, "Demo Coffee", "demo@coffee.example.com", "weak")
		if !errors.As(err, &ve) {
			t.Errorf("err = %v, want ValidationError", err)
		}
	})
}

func TestCompanyUseCase_Authenticate(t *testing.T) {
	ctx := context.Background()
	repo := NewMockCompanyRepo()
	uc := usecase.NewCompanyUseCase(repo, NewMockTxManager(), newTestLogger())
	if _, err := uc.Register(ctx, "Demo Coffee", "demo@coffee.example.com", "StrongPass1"); err != nil {
		t.Fatalf("register: %v", err)
	}

	t.Run("correct password", func(t *testing.T) {
		c, err := uc.Authenticate(ctx, "demo@coffee.example.com", "StrongPass1")
		if err != nil {
			t.Fatalf("authenticate: %v", err)
		}
		if c.Name != "Demo Coffee" {
			t.Errorf("name = %q", c.Name)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		if _, err := uc.Authenticate(ctx, "demo@coffee.example.com", "WrongPass1"); !errors.Is(err, domain.ErrUnauthorized) {
			t.Errorf("err = %v, want ErrUnauthorized", err)
		}
	})

	t.Run("unknown account is indistinguishable from a bad password", func(t *testing.T) {
		if _, err := uc.Authenticate(ctx, "ghost@example.com", "StrongPass1"); !errors.Is(err, domain.ErrUnauthorized) {
			t.Errorf("err = %v, want ErrUnauthorized", err)
		}
	})
}

func TestUserUseCase_RegisterAndProfile(t *testing.T) {
	ctx := context.Background()

	newUC := func() (*MockUserRepo, usecase.UserUseCase) {
		repo := NewMockUserRepo()
		return repo, usecase.NewUserUseCase(repo, NewMockTxManager(), newTestLogger())
	}

	t.Run("register validates targeting", func(t *testing.T) {
		_, uc := newUC()
		_, err := uc.Register(ctx, "Dana", "Doe", "dana@example.com", nil,
			model.UserTargeting{Age: 150, Country: "nl"}, "StrongPass1")
		if err == nil {
			t.Error("age above cap accepted")
		}
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		_, uc := newUC()
		targeting := model.UserTargeting{Age: 28, Country: "nl"}
		if _, err := uc.Register(ctx, "Dana", "Doe", "dana@example.com", nil, targeting, "StrongPass1"); err != nil {
			t.Fatalf("first register: %v", err)
		}
		if _, err := uc.Register(ctx, "Dana", "Doe", "dana@example.com", nil, targeting, "StrongPass1"); !errors.Is(err, domain.ErrAlreadyExists) {
			t.Errorf("err = %v, want ErrAlreadyExists", err)
		}
	})

	t.Run("profile patch updates only the provided fields", func(t *testing.T) {
		_, uc := newUC()
		targeting := model.UserTargeting{Age: 28, Country: "nl"}
		if _, err := uc.Register(ctx, "Dana", "Doe", "dana@example.com", nil, targeting, "StrongPass1"); err != nil {
			t.Fatalf("register: %v", err)
		}

		name := "Dana-Marie"
		u, err := uc.UpdateProfile(ctx, "dana@example.com", model.PatchUser{Name: &name})
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if u.Name != "Dana-Marie" {
			t.Errorf("name = %q", u.Name)
		}
		if u.Surname != "Doe" {
			t.Errorf("surname = %q, untouched field changed", u.Surname)
		}
	})

	t.Run("password patch is re-hashed", func(t *testing.T) {
		_, uc := newUC()
		targeting := model.UserTargeting{Age: 28, Country: "nl"}
		if _, err := uc.Register(ctx, "Dana", "Doe", "dana@example.com", nil, targeting, "StrongPass1"); err != nil {
			t.Fatalf("register: %v", err)
		}

		pw := "EvenStronger2"
		if _, err := uc.UpdateProfile(ctx, "dana@example.com", model.PatchUser{Password: &pw}); err != nil {
			t.Fatalf("update: %v", err)
		}
		if _, err := uc.Authenticate(ctx, "dana@example.com", "EvenStronger2"); err != nil {
			t.Errorf("new password rejected: %v", err)
		}
		if _, err := uc.Authenticate(ctx, "dana@example.com", "StrongPass1"); !errors.Is(err, domain.ErrUnauthorized) {
			t.Error("old password still accepted")
		}
	})
}
