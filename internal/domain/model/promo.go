package model

import (
	"sort"
	"time"

	"promohub/internal/domain"
)

// Mode selects how a promo hands out codes: one shared code for everybody,
// or a finite pool of distinct single-use codes.
type Mode string

const (
	ModeCommon Mode = "COMMON"
	ModeUnique Mode = "UNIQUE"
)

// CommentAuthor is the denormalized identity snapshot stored with a comment.
type CommentAuthor struct {
	Name      string  `json:"name"`
	Surname   string  `json:"surname"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

// Comment is one entry of a promo's comment thread. IDs are ULIDs, so the
// slice stays sorted by creation time.
type Comment struct {
	ID     string        `json:"id"`
	Text   string        `json:"text"`
	Date   time.Time     `json:"date"`
	Author CommentAuthor `json:"author"`
}

// CountryStat is the per-country redemption tally kept for the stats view.
// It is updated in the same transaction as the activation itself.
type CountryStat struct {
	Country          string `json:"country"`
	ActivationsCount int    `json:"activations_count"`
}

// Promo is the aggregate this whole service exists for. The membership sets
// are canonical: counts shown to clients are always derived from them, never
// stored alongside.
type Promo struct {
	ID          string
	CompanyID   string
	CompanyName string

	Description string
	ImageURL    *string
	Target      Target

	Mode        Mode
	CommonCode  *string
	UniqueCodes []string
	MaxCount    int

	ActiveFrom  *time.Time
	ActiveUntil *time.Time
	Active      bool

	ActivatedUsers map[string]struct{}
	Likes          map[string]struct{}
	Comments       []Comment
	Countries      []CountryStat

	CreatedAt time.Time
}

func (p *Promo) UsedCount() int    { return len(p.ActivatedUsers) }
func (p *Promo) LikeCount() int    { return len(p.Likes) }
func (p *Promo) CommentCount() int { return len(p.Comments) }

func (p *Promo) IsActivatedBy(email string) bool {
	_, ok := p.ActivatedUsers[email]
	return ok
}

func (p *Promo) IsLikedBy(email string) bool {
	_, ok := p.Likes[email]
	return ok
}

// AddLike and RemoveLike are idempotent set operations.
func (p *Promo) AddLike(email string)    { p.Likes[email] = struct{}{} }
func (p *Promo) RemoveLike(email string) { delete(p.Likes, email) }

func (p *Promo) AddComment(c Comment) { p.Comments = append(p.Comments, c) }

// WithinWindow reports whether now falls inside [ActiveFrom, ActiveUntil].
// Bounds are calendar dates: ActiveFrom counts from start of day and
// ActiveUntil through end of day.
func (p *Promo) WithinWindow(now time.Time) bool {
	if p.ActiveFrom != nil && now.Before(*p.ActiveFrom) {
		return false
	}
	if p.ActiveUntil != nil && !now.Before(p.ActiveUntil.AddDate(0, 0, 1)) {
		return false
	}
	return true
}

// Redeem consumes one activation slot for the user and returns the code text.
// The check order is fixed: switch, window, capacity, idempotency, eligibility,
// then pool consumption; AlreadyRedeemed is decided before any pool mutation.
// Callers must run this inside the store's per-promo transaction.
func (p *Promo) Redeem(u *User, requestedCode *string, now time.Time) (string, error) {
	if !p.Active {
		return "", domain.ErrPromoNotActive
	}
	if !p.WithinWindow(now) {
		return "", domain.ErrPromoOutsideWindow
	}
	if p.UsedCount() >= p.MaxCount {
		return "", domain.ErrPromoExhausted
	}
	if p.IsActivatedBy(u.Email) {
		return "", domain.ErrAlreadyRedeemed
	}
	if !p.Target.Eligible(u) {
		return "", domain.ErrNotEligible
	}

	var redeemed string
	switch p.Mode {
	case ModeUnique:
		if len(p.UniqueCodes) == 0 {
			return "", domain.ErrPromoExhausted
		}
		last := len(p.UniqueCodes) - 1
		if requestedCode != nil {
			found := false
			for _, c := range p.UniqueCodes {
				if c == *requestedCode {
					found = true
					break
				}
			}
			if !found {
				return "", domain.ErrCodeMismatch
			}
		}
		// Pop order is an implementation detail, not a contract; we take
		// from the end of the pool.
		redeemed = p.UniqueCodes[last]
		p.UniqueCodes = p.UniqueCodes[:last]
	default:
		redeemed = *p.CommonCode
	}

	p.ActivatedUsers[u.Email] = struct{}{}
	if u.Other.Country != "" {
		p.bumpCountry(u.Other.Country)
	}
	return redeemed, nil
}

func (p *Promo) bumpCountry(country string) {
	for i := range p.Countries {
		if p.Countries[i].Country == country {
			p.Countries[i].ActivationsCount++
			return
		}
	}
	p.Countries = append(p.Countries, CountryStat{Country: country, ActivationsCount: 1})
	sort.Slice(p.Countries, func(i, j int) bool {
		return p.Countries[i].Country < p.Countries[j].Country
	})
}

// Clone returns a deep copy so snapshots handed to callers cannot alias the
// stored record.
func (p *Promo) Clone() *Promo {
	cp := *p
	cp.UniqueCodes = append([]string(nil), p.UniqueCodes...)
	cp.Comments = append([]Comment(nil), p.Comments...)
	cp.Countries = append([]CountryStat(nil), p.Countries...)
	cp.ActivatedUsers = make(map[string]struct{}, len(p.ActivatedUsers))
	for k := range p.ActivatedUsers {
		cp.ActivatedUsers[k] = struct{}{}
	}
	cp.Likes = make(map[string]struct{}, len(p.Likes))
	for k := range p.Likes {
		cp.Likes[k] = struct{}{}
	}
	if p.Target.Categories != nil {
		cp.Target.Categories = append([]string(nil), p.Target.Categories...)
	}
	return &cp
}
