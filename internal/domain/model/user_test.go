//go:build !integration

package model_test

import (
	"strings"
	"testing"

	"promohub/internal/domain/model"
)

func TestValidEmail(t *testing.T) {
	cases := []struct {
		email string
		want  bool
	}{
		{"dana@example.com", true},
		{"a+b.c_d@sub.domain.org", true},
		{"x@y.zz", true},
		{"", false},
		{"no-at-sign", false},
		{"Upper@example.com", false},
		{".leading@example.com", false},
		{"trailing.@example.com", false},
		{"dana@nodot", false},
		{strings.Repeat("a", 120) + "@example.com", false},
	}
	for _, c := range cases {
		if got := model.ValidEmail(c.email); got != c.want {
			t.Errorf("ValidEmail(%q) = %v, want %v", c.email, got, c.want)
		}
	}
}

func TestValidPassword(t *testing.T) {
	cases := []struct {
		name     string
		password string
		want     bool
	}{
		{"ok", "Passw0rd", true},
		{"too short", "Pa0s", false},
		{"too long", "Aa1" + strings.Repeat("x", 60), false},
		{"no upper", "passw0rd", false},
		{"no lower", "PASSW0RD", false},
		{"no digit", "Password", false},
		{"whitespace", "Pass w0rd", false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := model.ValidPassword(c.password); got != c.want {
				t.Errorf("ValidPassword(%q) = %v, want %v", c.password, got, c.want)
			}
		})
	}
}

func TestNewUser(t *testing.T) {
	targeting := model.UserTargeting{Age: 30, Country: "nl"}

	t.Run("assigns an id and keeps fields", func(t *testing.T) {
		u, err := model.NewUser("", "Dana", "Doe", "dana@example.com", nil, targeting, "hash")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if u.ID == "" {
			t.Error("expected a generated id")
		}
		if u.Other.Country != "nl" {
			t.Errorf("country = %q, want nl", u.Other.Country)
		}
	})

	t.Run("rejects bad inputs", func(t *testing.T) {
		cases := []struct {
			name string
			run  func() error
		}{
			{"empty name", func() error {
				_, err := model.NewUser("", "", "Doe", "dana@example.com", nil, targeting, "hash")
				return err
			}},
			{"long surname", func() error {
				_, err := model.NewUser("", "Dana", strings.Repeat("x", 121), "dana@example.com", nil, targeting, "hash")
				return err
			}},
			{"bad email", func() error {
				_, err := model.NewUser("", "Dana", "Doe", "not-an-email", nil, targeting, "hash")
				return err
			}},
			{"age out of range", func() error {
				_, err := model.NewUser("", "Dana", "Doe", "dana@example.com", nil, model.UserTargeting{Age: 101, Country: "nl"}, "hash")
				return err
			}},
			{"bad country", func() error {
				_, err := model.NewUser("", "Dana", "Doe", "dana@example.com", nil, model.UserTargeting{Age: 30, Country: "nld"}, "hash")
				return err
			}},
		}
		for _, c := range cases {
			t.Run(c.name, func(t *testing.T) {
				if c.run() == nil {
					t.Error("expected an error")
				}
			})
		}
	})
}

func TestPatchUserValidate(t *testing.T) {
	strPtr := func(s string) *string { return &s }

	if err := (model.PatchUser{Name: strPtr("Dana")}).Validate(); err != nil {
		t.Errorf("valid patch rejected: %v", err)
	}
	if err := (model.PatchUser{Name: strPtr("")}).Validate(); err == nil {
		t.Error("empty name accepted")
	}
	if err := (model.PatchUser{Password: strPtr("weak")}).Validate(); err == nil {
		t.Error("weak password accepted")
	}
	if err := (model.PatchUser{AvatarURL: strPtr(strings.Repeat("u", 351))}).Validate(); err == nil {
		t.Error("oversized avatar url accepted")
	}
}
