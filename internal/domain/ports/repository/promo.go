package repository

import (
	"context"

	"promohub/internal/domain/model"
)

// PromoRepository owns the durable promo record. Mutations are expected to
// run inside a transaction that first called Lock for the promo, so no two
// writers ever act on the same pre-mutation snapshot.
type PromoRepository interface {
	// Create inserts a new promo and fails with domain.ErrAlreadyExists on a
	// duplicate id.
	Create(ctx context.Context, tx Tx, p *model.Promo) error
	// Save persists the whole mutated record in one write.
	Save(ctx context.Context, tx Tx, p *model.Promo) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Promo, error)
	ListByCompany(ctx context.Context, tx Tx, companyID string) ([]*model.Promo, error)
	// ListAll feeds the user-facing feed; a stale-tolerant snapshot is fine.
	ListAll(ctx context.Context, tx Tx) ([]*model.Promo, error)
	// Lock serializes all mutating work on one promo for the duration of the
	// surrounding transaction.
	Lock(ctx context.Context, tx Tx, id string) error
}

// UserRepository resolves and stores end-user accounts.
type UserRepository interface {
	Save(ctx context.Context, tx Tx, u *model.User) error
	FindByEmail(ctx context.Context, tx Tx, email string) (*model.User, error)
	FindByID(ctx context.Context, tx Tx, id string) (*model.User, error)
}

// CompanyRepository resolves and stores business accounts.
type CompanyRepository interface {
	Save(ctx context.Context, tx Tx, c *model.Company) error
	FindByEmail(ctx context.Context, tx Tx, email string) (*model.Company, error)
	FindByID(ctx context.Context, tx Tx, id string) (*model.Company, error)
}
