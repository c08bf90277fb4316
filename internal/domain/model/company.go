package model

import (
	"time"

	"promohub/internal/domain"

	"github.com/google/uuid"
)

// Company is the business-side account that owns promos.
type Company struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

func NewCompany(id, name, email, passwordHash string) (*Company, error) {
	if id == "" {
		id = uuid.NewString()
	}
	if name == "" || len(name) > 120 {
		return nil, domain.Invalid("name", "must be 1-120 characters")
	}
	if !ValidEmail(email) {
		return nil, domain.Invalid("email", "malformed address")
	}
	if passwordHash == "" {
		return nil, domain.ErrInvalidArgument
	}
	return &Company{
		ID:           id,
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}, nil
}
