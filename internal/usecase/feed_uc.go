package usecase

import (
	"context"
	"time"

	"promohub/internal/domain"
	"promohub/internal/domain/model"
	"promohub/internal/domain/ports/repository"
	"promohub/internal/infra/logging"

	"github.com/jackc/pgx/v4"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
)

// Compile-time check
var _ FeedUseCase = (*feedUC)(nil)

// FeedUseCase covers the user-facing read surface plus the peripheral
// engagement writes (likes, comments). Engagement lives on the promo row, so
// writes reuse the same per-promo transaction shape as activation.
type FeedUseCase interface {
	Feed(ctx context.Context) ([]*model.Promo, error)
	Get(ctx context.Context, promoID string) (*model.Promo, error)
	Like(ctx context.Context, promoID, userEmail string) error
	Unlike(ctx context.Context, promoID, userEmail string) error
	Comment(ctx context.Context, promoID string, author *model.User, text string) (*model.Comment, error)
}

type feedUC struct {
	promos repository.PromoRepository
	tm     repository.TransactionManager
	log    *zerolog.Logger
}

func NewFeedUseCase(promos repository.PromoRepository, tm repository.TransactionManager, logger *zerolog.Logger) *feedUC {
	return &feedUC{promos: promos, tm: tm, log: logger}
}

func (uc *feedUC) Feed(ctx context.Context) ([]*model.Promo, error) {
	defer logging.TraceDuration(uc.log, "FeedUC.Feed")()
	return uc.promos.ListAll(ctx, repository.NoTX)
}

func (uc *feedUC) Get(ctx context.Context, promoID string) (*model.Promo, error) {
	defer logging.TraceDuration(uc.log, "FeedUC.Get")()
	return uc.promos.FindByID(ctx, repository.NoTX, promoID)
}

func (uc *feedUC) Like(ctx context.Context, promoID, userEmail string) error {
	defer logging.TraceDuration(uc.log, "FeedUC.Like")()
	return uc.mutate(ctx, promoID, func(p *model.Promo) error {
		p.AddLike(userEmail)
		return nil
	})
}

func (uc *feedUC) Unlike(ctx context.Context, promoID, userEmail string) error {
	defer logging.TraceDuration(uc.log, "FeedUC.Unlike")()
	return uc.mutate(ctx, promoID, func(p *model.Promo) error {
		p.RemoveLike(userEmail)
		return nil
	})
}

func (uc *feedUC) Comment(ctx context.Context, promoID string, author *model.User, text string) (*model.Comment, error) {
	defer logging.TraceDuration(uc.log, "FeedUC.Comment")()

	if len(text) < 10 || len(text) > 1000 {
		return nil, domain.Invalid("text", "must be 10-1000 characters")
	}
	now := time.Now()
	c := model.Comment{
		ID:   ulid.Make().String(),
		Text: text,
		Date: now,
		Author: model.CommentAuthor{
			Name:      author.Name,
			Surname:   author.Surname,
			AvatarURL: author.AvatarURL,
		},
	}
	err := uc.mutate(ctx, promoID, func(p *model.Promo) error {
		p.AddComment(c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (uc *feedUC) mutate(ctx context.Context, promoID string, fn func(*model.Promo) error) error {
	txOpts := pgx.TxOptions{IsoLevel: pgx.ReadCommitted}
	return uc.tm.WithTx(ctx, txOpts, func(ctx context.Context, tx repository.Tx) error {
		if err := uc.promos.Lock(ctx, tx, promoID); err != nil {
			return err
		}
		p, err := uc.promos.FindByID(ctx, tx, promoID)
		if err != nil {
			return err
		}
		if err := fn(p); err != nil {
			return err
		}
		return uc.promos.Save(ctx, tx, p)
	})
}
