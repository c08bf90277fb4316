package usecase

import (
	"context"
	"sort"
	"strings"
	"time"

	"promohub/internal/domain"
	"promohub/internal/domain/model"
	"promohub/internal/domain/ports/repository"
	"promohub/internal/infra/logging"
	"promohub/internal/infra/metrics"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"
)

// Compile-time check
var _ PromoUseCase = (*promoUC)(nil)

// ListFilter carries the company-facing listing parameters. Offset and limit
// are clamped, never rejected; an unknown SortBy is rejected.
type ListFilter struct {
	Countries []string
	Offset    *int
	Limit     *int
	SortBy    string // "", "active_from" or "active_until"
}

// PromoStat is the per-promo statistics view.
type PromoStat struct {
	ActivationsCount int
	Countries        []model.CountryStat
}

// PromoUseCase exposes the company-facing promo lifecycle.
type PromoUseCase interface {
	Create(ctx context.Context, company *model.Company, in *model.CreatePromo) (*model.Promo, error)
	Patch(ctx context.Context, companyID, promoID string, in *model.PatchPromo) (*model.Promo, error)
	Get(ctx context.Context, companyID, promoID string) (*model.Promo, error)
	// List returns one page plus the pre-pagination total.
	List(ctx context.Context, companyID string, f ListFilter) ([]*model.Promo, int, error)
	Stat(ctx context.Context, companyID, promoID string) (*PromoStat, error)
}

type promoUC struct {
	promos repository.PromoRepository
	tm     repository.TransactionManager
	log    *zerolog.Logger
}

func NewPromoUseCase(promos repository.PromoRepository, tm repository.TransactionManager, logger *zerolog.Logger) *promoUC {
	return &promoUC{promos: promos, tm: tm, log: logger}
}

func (uc *promoUC) Create(ctx context.Context, company *model.Company, in *model.CreatePromo) (*model.Promo, error) {
	defer logging.TraceDuration(uc.log, "PromoUC.Create")()

	p, err := model.NewPromo(company.ID, company.Name, in)
	if err != nil {
		return nil, err
	}
	if err := uc.promos.Create(ctx, repository.NoTX, p); err != nil {
		return nil, err
	}
	metrics.IncPromoCreated(strings.ToLower(string(p.Mode)))
	logging.With(ctx, uc.log).Info().Str("promo_id", p.ID).Str("mode", string(p.Mode)).Msg("promo created")
	return p, nil
}

func (uc *promoUC) Patch(ctx context.Context, companyID, promoID string, in *model.PatchPromo) (*model.Promo, error) {
	defer logging.TraceDuration(uc.log, "PromoUC.Patch")()

	var patched *model.Promo
	txOpts := pgx.TxOptions{IsoLevel: pgx.ReadCommitted}
	err := uc.tm.WithTx(ctx, txOpts, func(ctx context.Context, tx repository.Tx) error {
		if err := uc.promos.Lock(ctx, tx, promoID); err != nil {
			return err
		}
		p, err := uc.promos.FindByID(ctx, tx, promoID)
		if err != nil {
			return err
		}
		if p.CompanyID != companyID {
			return domain.ErrForbidden
		}
		if err := p.ApplyPatch(in); err != nil {
			return err
		}
		if err := uc.promos.Save(ctx, tx, p); err != nil {
			return err
		}
		patched = p
		return nil
	})
	return patched, err
}

func (uc *promoUC) Get(ctx context.Context, companyID, promoID string) (*model.Promo, error) {
	defer logging.TraceDuration(uc.log, "PromoUC.Get")()

	p, err := uc.promos.FindByID(ctx, repository.NoTX, promoID)
	if err != nil {
		return nil, err
	}
	if p.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return p, nil
}

func (uc *promoUC) List(ctx context.Context, companyID string, f ListFilter) ([]*model.Promo, int, error) {
	defer logging.TraceDuration(uc.log, "PromoUC.List")()

	switch f.SortBy {
	case "", "active_from", "active_until":
	default:
		return nil, 0, domain.Invalid("sort_by", "must be active_from or active_until")
	}

	promos, err := uc.promos.ListByCompany(ctx, repository.NoTX, companyID)
	if err != nil {
		return nil, 0, err
	}

	filtered := promos[:0:0]
	for _, p := range promos {
		if matchesCountries(p, f.Countries) {
			filtered = append(filtered, p)
		}
	}

	switch f.SortBy {
	case "active_from":
		sortPromosByDate(filtered, func(p *model.Promo) *time.Time { return p.ActiveFrom })
	case "active_until":
		sortPromosByDate(filtered, func(p *model.Promo) *time.Time { return p.ActiveUntil })
	default:
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
		})
	}

	total := len(filtered)
	return paginate(filtered, f.Offset, f.Limit), total, nil
}

// sortPromosByDate sorts ascending by the given window bound; promos without
// the bound sort last.
func sortPromosByDate(ps []*model.Promo, date func(*model.Promo) *time.Time) {
	sort.SliceStable(ps, func(i, j int) bool {
		di, dj := date(ps[i]), date(ps[j])
		if di == nil {
			return false
		}
		if dj == nil {
			return true
		}
		return di.Before(*dj)
	})
}

// paginate clamps offset and limit to [0, len] and applies offset first.
func paginate(ps []*model.Promo, offset, limit *int) []*model.Promo {
	off := 0
	if offset != nil {
		off = *offset
	}
	if off < 0 {
		off = 0
	}
	if off > len(ps) {
		off = len(ps)
	}
	page := ps[off:]
	if limit != nil {
		lim := *limit
		if lim < 0 {
			lim = 0
		}
		if lim < len(page) {
			page = page[:lim]
		}
	}
	return page
}

func (uc *promoUC) Stat(ctx context.Context, companyID, promoID string) (*PromoStat, error) {
	defer logging.TraceDuration(uc.log, "PromoUC.Stat")()

	p, err := uc.Get(ctx, companyID, promoID)
	if err != nil {
		return nil, err
	}
	countries := append([]model.CountryStat(nil), p.Countries...)
	sort.Slice(countries, func(i, j int) bool { return countries[i].Country < countries[j].Country })
	return &PromoStat{ActivationsCount: p.UsedCount(), Countries: countries}, nil
}

// matchesCountries applies the OR country filter: untargeted promos always
// pass, targeted ones must match one of the requested codes.
func matchesCountries(p *model.Promo, countries []string) bool {
	if len(countries) == 0 {
		return true
	}
	if p.Target.Country == nil {
		return true
	}
	for _, c := range countries {
		if strings.EqualFold(c, *p.Target.Country) {
			return true
		}
	}
	return false
}
