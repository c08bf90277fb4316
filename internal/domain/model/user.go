package model

import (
	"regexp"
	"time"
	"unicode"

	"promohub/internal/domain"

	"github.com/google/uuid"
)

var emailRe = regexp.MustCompile(`^[a-z0-9_+]([a-z0-9_+.]*[a-z0-9_+])?@[a-z0-9-]+(\.[a-z0-9-]+)+$`)

// ValidEmail checks the lowercase address shape accepted at sign-up.
func ValidEmail(s string) bool {
	return len(s) <= 120 && emailRe.MatchString(s)
}

// ValidPassword requires 8-60 characters with at least one upper, one lower
// and one digit, and no whitespace.
func ValidPassword(s string) bool {
	if len(s) < 8 || len(s) > 60 {
		return false
	}
	var hasUpper, hasLower, hasDigit bool
	for _, c := range s {
		if unicode.IsSpace(c) {
			return false
		}
		hasUpper = hasUpper || unicode.IsUpper(c)
		hasLower = hasLower || unicode.IsLower(c)
		hasDigit = hasDigit || unicode.IsDigit(c)
	}
	return hasUpper && hasLower && hasDigit
}

// UserTargeting is the demographic profile promos are matched against.
type UserTargeting struct {
	Age     int    `json:"age"`
	Country string `json:"country"`
}

func (t UserTargeting) Validate() error {
	if t.Age < 0 || t.Age > 100 {
		return domain.Invalid("other.age", "must be within [0,100]")
	}
	if len(t.Country) != 2 {
		return domain.Invalid("other.country", "must be a 2-letter code")
	}
	return nil
}

// User is an end user who browses the feed and redeems promos. Users are
// identified by email inside a promo's membership sets.
type User struct {
	ID           string
	Name         string
	Surname      string
	Email        string
	AvatarURL    *string
	Other        UserTargeting
	PasswordHash string
	CreatedAt    time.Time
}

func NewUser(id, name, surname, email string, avatarURL *string, other UserTargeting, passwordHash string) (*User, error) {
	if id == "" {
		id = uuid.NewString()
	}
	if name == "" || len(name) > 100 {
		return nil, domain.Invalid("name", "must be 1-100 characters")
	}
	if surname == "" || len(surname) > 120 {
		return nil, domain.Invalid("surname", "must be 1-120 characters")
	}
	if !ValidEmail(email) {
		return nil, domain.Invalid("email", "malformed address")
	}
	if avatarURL != nil && len(*avatarURL) > 350 {
		return nil, domain.Invalid("avatar_url", "must be at most 350 characters")
	}
	if err := other.Validate(); err != nil {
		return nil, err
	}
	if passwordHash == "" {
		return nil, domain.ErrInvalidArgument
	}
	return &User{
		ID:           id,
		Name:         name,
		Surname:      surname,
		Email:        email,
		AvatarURL:    avatarURL,
		Other:        other,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}, nil
}

// PatchUser carries optional profile updates; nil fields are left untouched.
type PatchUser struct {
	Name      *string
	Surname   *string
	AvatarURL *string
	Password  *string
}

func (p PatchUser) Validate() error {
	if p.Name != nil && (*p.Name == "" || len(*p.Name) > 100) {
		return domain.Invalid("name", "must be 1-100 characters")
	}
	if p.Surname != nil && (*p.Surname == "" || len(*p.Surname) > 120) {
		return domain.Invalid("surname", "must be 1-120 characters")
	}
	if p.AvatarURL != nil && len(*p.AvatarURL) > 350 {
		return domain.Invalid("avatar_url", "must be at most 350 characters")
	}
	if p.Password != nil && !ValidPassword(*p.Password) {
		return domain.Invalid("password", "must be 8-60 characters with upper, lower and digit")
	}
	return nil
}
