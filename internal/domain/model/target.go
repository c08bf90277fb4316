package model

import (
	"strings"

	"promohub/internal/domain"
)

// Target is a promo's eligibility filter. Absent attributes impose no
// restriction; present ones are conjunctive.
type Target struct {
	AgeFrom    *int     `json:"age_from,omitempty"`
	AgeUntil   *int     `json:"age_until,omitempty"`
	Country    *string  `json:"country,omitempty"`
	Categories []string `json:"categories,omitempty"`
}

func (t Target) Validate() error {
	if t.AgeFrom != nil && (*t.AgeFrom < 0 || *t.AgeFrom > 100) {
		return domain.Invalid("target.age_from", "must be within [0,100]")
	}
	if t.AgeUntil != nil && (*t.AgeUntil < 0 || *t.AgeUntil > 100) {
		return domain.Invalid("target.age_until", "must be within [0,100]")
	}
	if t.AgeFrom != nil && t.AgeUntil != nil && *t.AgeFrom > *t.AgeUntil {
		return domain.Invalid("target.age_from", "must not exceed age_until")
	}
	if t.Country != nil && len(*t.Country) != 2 {
		return domain.Invalid("target.country", "must be a 2-letter code")
	}
	if len(t.Categories) > 20 {
		return domain.Invalid("target.categories", "at most 20 entries")
	}
	for _, c := range t.Categories {
		if len(c) < 2 || len(c) > 20 {
			return domain.Invalid("target.categories", "entries must be 2-20 characters")
		}
	}
	return nil
}

// Eligible decides whether the user satisfies this target. Country comparison
// is case-insensitive. Categories are declared but deliberately not consulted
// here; they remain descriptive metadata until product decides otherwise.
func (t Target) Eligible(u *User) bool {
	if t.AgeFrom != nil && u.Other.Age < *t.AgeFrom {
		return false
	}
	if t.AgeUntil != nil && u.Other.Age > *t.AgeUntil {
		return false
	}
	if t.Country != nil && !strings.EqualFold(*t.Country, u.Other.Country) {
		return false
	}
	return true
}
