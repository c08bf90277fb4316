package model

import (
	"time"

	"promohub/internal/domain"

	"github.com/google/uuid"
)

const promoDateLayout = "2006-01-02"

// ParsePromoDate parses the calendar-date form used for activation windows.
func ParsePromoDate(s string) (time.Time, error) {
	return time.Parse(promoDateLayout, s)
}

// FormatPromoDate renders a window bound back to its wire form.
func FormatPromoDate(t time.Time) string {
	return t.Format(promoDateLayout)
}

// CreatePromo is the validated input for promo creation.
type CreatePromo struct {
	Description string
	ImageURL    *string
	Target      Target
	MaxCount    int
	ActiveFrom  *string
	ActiveUntil *string
	Mode        Mode
	CommonCode  *string
	UniqueCodes []string
}

// Validate applies every structural rule; nothing is persisted on failure.
func (in *CreatePromo) Validate() error {
	if len(in.Description) < 10 || len(in.Description) > 300 {
		return domain.Invalid("description", "must be 10-300 characters")
	}
	if in.ImageURL != nil && len(*in.ImageURL) > 350 {
		return domain.Invalid("image_url", "must be at most 350 characters")
	}
	if err := in.Target.Validate(); err != nil {
		return err
	}
	if in.MaxCount < 1 {
		return domain.Invalid("max_count", "must be at least 1")
	}
	switch in.Mode {
	case ModeCommon:
		if in.CommonCode == nil || len(*in.CommonCode) < 5 || len(*in.CommonCode) > 30 {
			return domain.Invalid("promo_common", "must be 5-30 characters")
		}
		if len(in.UniqueCodes) > 0 {
			return domain.Invalid("promo_unique", "not allowed for COMMON mode")
		}
	case ModeUnique:
		if in.CommonCode != nil {
			return domain.Invalid("promo_common", "not allowed for UNIQUE mode")
		}
		if len(in.UniqueCodes) < 1 || len(in.UniqueCodes) > 5000 {
			return domain.Invalid("promo_unique", "must hold 1-5000 codes")
		}
		for _, c := range in.UniqueCodes {
			if len(c) < 3 || len(c) > 30 {
				return domain.Invalid("promo_unique", "codes must be 3-30 characters")
			}
		}
		if in.MaxCount != len(in.UniqueCodes) {
			return domain.Invalid("max_count", "must equal the code pool size for UNIQUE mode")
		}
	default:
		return domain.Invalid("mode", "must be COMMON or UNIQUE")
	}
	if _, _, err := parseWindow(in.ActiveFrom, in.ActiveUntil); err != nil {
		return err
	}
	return nil
}

func parseWindow(fromStr, untilStr *string) (*time.Time, *time.Time, error) {
	var from, until *time.Time
	if fromStr != nil {
		t, err := ParsePromoDate(*fromStr)
		if err != nil {
			return nil, nil, domain.Invalid("active_from", "must be a YYYY-MM-DD date")
		}
		from = &t
	}
	if untilStr != nil {
		t, err := ParsePromoDate(*untilStr)
		if err != nil {
			return nil, nil, domain.Invalid("active_until", "must be a YYYY-MM-DD date")
		}
		until = &t
	}
	if from != nil && until != nil && from.After(*until) {
		return nil, nil, domain.Invalid("active_from", "must not be after active_until")
	}
	return from, until, nil
}

// NewPromo builds the aggregate from validated input. New promos start
// switched on; the company flips the flag off through a patch.
func NewPromo(companyID, companyName string, in *CreatePromo) (*Promo, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	from, until, err := parseWindow(in.ActiveFrom, in.ActiveUntil)
	if err != nil {
		return nil, err
	}
	return &Promo{
		ID:             uuid.NewString(),
		CompanyID:      companyID,
		CompanyName:    companyName,
		Description:    in.Description,
		ImageURL:       in.ImageURL,
		Target:         in.Target,
		Mode:           in.Mode,
		CommonCode:     in.CommonCode,
		UniqueCodes:    append([]string(nil), in.UniqueCodes...),
		MaxCount:       in.MaxCount,
		ActiveFrom:     from,
		ActiveUntil:    until,
		Active:         true,
		ActivatedUsers: make(map[string]struct{}),
		Likes:          make(map[string]struct{}),
		Comments:       []Comment{},
		Countries:      []CountryStat{},
		CreatedAt:      time.Now(),
	}, nil
}

// PatchPromo carries optional mutations; nil fields are left untouched. Mode
// and codes are carried only so an attempt to change them is detectable and
// rejected, never applied.
type PatchPromo struct {
	Description *string
	ImageURL    *string
	Target      *Target
	MaxCount    *int
	ActiveFrom  *string
	ActiveUntil *string
	Active      *bool

	Mode        *Mode
	CommonCode  *string
	UniqueCodes []string
}

// ApplyPatch validates the patch against the current record and then mutates
// it. Validation happens up front in full, so a failed patch changes nothing.
func (p *Promo) ApplyPatch(in *PatchPromo) error {
	if in.Mode != nil || in.CommonCode != nil || in.UniqueCodes != nil {
		return domain.ErrImmutableField
	}
	if in.Description != nil && (len(*in.Description) < 10 || len(*in.Description) > 300) {
		return domain.Invalid("description", "must be 10-300 characters")
	}
	if in.ImageURL != nil && len(*in.ImageURL) > 350 {
		return domain.Invalid("image_url", "must be at most 350 characters")
	}
	if in.Target != nil {
		if err := in.Target.Validate(); err != nil {
			return err
		}
	}
	if in.MaxCount != nil {
		if *in.MaxCount < 1 {
			return domain.Invalid("max_count", "must be at least 1")
		}
		if *in.MaxCount > p.MaxCount {
			return domain.Invalid("max_count", "may only shrink")
		}
		if *in.MaxCount < p.UsedCount() {
			return domain.Invalid("max_count", "must not drop below current activations")
		}
	}

	// The window may be patched one side at a time; the untouched side is
	// inherited for the ordering check.
	fromStr := in.ActiveFrom
	if fromStr == nil && p.ActiveFrom != nil {
		s := FormatPromoDate(*p.ActiveFrom)
		fromStr = &s
	}
	untilStr := in.ActiveUntil
	if untilStr == nil && p.ActiveUntil != nil {
		s := FormatPromoDate(*p.ActiveUntil)
		untilStr = &s
	}
	from, until, err := parseWindow(fromStr, untilStr)
	if err != nil {
		return err
	}

	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.ImageURL != nil {
		p.ImageURL = in.ImageURL
	}
	if in.Target != nil {
		p.Target = *in.Target
	}
	if in.MaxCount != nil {
		p.MaxCount = *in.MaxCount
	}
	if in.ActiveFrom != nil {
		p.ActiveFrom = from
	}
	if in.ActiveUntil != nil {
		p.ActiveUntil = until
	}
	if in.Active != nil {
		p.Active = *in.Active
	}
	return nil
}
