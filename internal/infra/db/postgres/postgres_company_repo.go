package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"promohub/internal/domain"
	"promohub/internal/domain/model"
	"promohub/internal/domain/ports/repository"
)

// Ensure implementation satisfies the interface.
var _ repository.CompanyRepository = (*companyRepo)(nil)

type companyRepo struct {
	pool *pgxpool.Pool
}

func NewCompanyRepo(pool *pgxpool.Pool) *companyRepo {
	return &companyRepo{pool: pool}
}

func (r *companyRepo) Save(ctx context.Context, tx repository.Tx, c *model.Company) error {
	const q = `
INSERT INTO companies (company_id, name, email, password_hash, created_at)
VALUES ($1,$2,$3,$4,$5)
ON CONFLICT (company_id) DO UPDATE SET
  name=$2, password_hash=$4;`

	_, err := execSQL(ctx, r.pool, tx, q, c.ID, c.Name, c.Email, c.PasswordHash, c.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *companyRepo) FindByEmail(ctx context.Context, tx repository.Tx, email string) (*model.Company, error) {
	const q = `SELECT company_id, name, email, password_hash, created_at FROM companies WHERE email=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, email)
	if err != nil {
		return nil, err
	}
	return scanCompany(row)
}

func (r *companyRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Company, error) {
	const q = `SELECT company_id, name, email, password_hash, created_at FROM companies WHERE company_id=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	return scanCompany(row)
}

func scanCompany(row pgx.Row) (*model.Company, error) {
	var c model.Company
	if err := row.Scan(&c.ID, &c.Name, &c.Email, &c.PasswordHash, &c.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return &c, nil
}
