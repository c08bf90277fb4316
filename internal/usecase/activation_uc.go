package usecase

import (
	"context"
	"errors"
	"time"

	"promohub/internal/domain"
	"promohub/internal/domain/ports/repository"
	"promohub/internal/infra/logging"
	"promohub/internal/infra/metrics"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"
)

// Compile-time check
var _ ActivationUseCase = (*activationUC)(nil)

// ActivationUseCase redeems promos. This is the only write path that consumes
// capacity, so every call runs as one per-promo serialized transaction.
type ActivationUseCase interface {
	// Activate consumes one slot (and one code for UNIQUE promos) for the
	// user and returns the redeemed text. requestedCode, when non-nil, must
	// match a code still in the pool.
	Activate(ctx context.Context, promoID, userEmail string, requestedCode *string) (string, error)
}

type activationUC struct {
	promos repository.PromoRepository
	users  repository.UserRepository
	tm     repository.TransactionManager
	log    *zerolog.Logger
}

func NewActivationUseCase(promos repository.PromoRepository, users repository.UserRepository, tm repository.TransactionManager, logger *zerolog.Logger) *activationUC {
	return &activationUC{promos: promos, users: users, tm: tm, log: logger}
}

func (uc *activationUC) Activate(ctx context.Context, promoID, userEmail string, requestedCode *string) (string, error) {
	defer logging.TraceDuration(uc.log, "ActivationUC.Activate")()
	start := time.Now()

	var redeemed string
	txOpts := pgx.TxOptions{IsoLevel: pgx.ReadCommitted}
	err := uc.tm.WithTx(ctx, txOpts, func(ctx context.Context, tx repository.Tx) error {
		// The lock serializes all mutating work on this promo; the snapshot
		// read after it is authoritative.
		if err := uc.promos.Lock(ctx, tx, promoID); err != nil {
			return err
		}
		p, err := uc.promos.FindByID(ctx, tx, promoID)
		if err != nil {
			return err
		}
		u, err := uc.users.FindByEmail(ctx, tx, userEmail)
		if err != nil {
			return err
		}
		text, err := p.Redeem(u, requestedCode, time.Now())
		if err != nil {
			return err
		}
		if err := uc.promos.Save(ctx, tx, p); err != nil {
			return err
		}
		redeemed = text
		return nil
	})

	metrics.ObserveActivation(activationOutcome(err), time.Since(start).Milliseconds())
	if err != nil {
		logging.With(ctx, uc.log).Debug().Err(err).Str("promo_id", promoID).Msg("activation rejected")
		return "", err
	}
	logging.With(ctx, uc.log).Info().Str("promo_id", promoID).Msg("promo activated")
	return redeemed, nil
}

func activationOutcome(err error) string {
	switch {
	case err == nil:
		return "redeemed"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrPromoNotActive):
		return "not_active"
	case errors.Is(err, domain.ErrPromoOutsideWindow):
		return "outside_window"
	case errors.Is(err, domain.ErrPromoExhausted):
		return "exhausted"
	case errors.Is(err, domain.ErrAlreadyRedeemed):
		return "already_redeemed"
	case errors.Is(err, domain.ErrNotEligible):
		return "not_eligible"
	case errors.Is(err, domain.ErrCodeMismatch):
		return "code_mismatch"
	default:
		return "error"
	}
}
