package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"hash/fnv"
	"sort"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"promohub/internal/domain"
	"promohub/internal/domain/model"
	"promohub/internal/domain/ports/repository"
)

// Ensure implementation satisfies the interface.
var _ repository.PromoRepository = (*promoRepo)(nil)

type promoRepo struct {
	pool *pgxpool.Pool
}

func NewPromoRepo(pool *pgxpool.Pool) *promoRepo {
	return &promoRepo{pool: pool}
}

const promoColumns = `
promo_id, company_id, company_name, description, image_url, target,
mode, common_code, unique_codes, max_count,
active_from, active_until, active,
activated_users, likes, comments, countries, created_at`

// Lock takes the per-promo advisory lock for the life of the surrounding
// transaction. Every writer grabs it before reading its snapshot, so the
// read-modify-write below it is serialized per promo.
func (r *promoRepo) Lock(ctx context.Context, tx repository.Tx, id string) error {
	_, err := execSQL(ctx, r.pool, tx, `SELECT pg_advisory_xact_lock($1);`, hashToInt64(id))
	return err
}

// hashToInt64 maps a promo id onto the advisory lock keyspace.
func hashToInt64(s string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return int64(h.Sum64())
}

func (r *promoRepo) Create(ctx context.Context, tx repository.Tx, p *model.Promo) error {
	const q = `
INSERT INTO promos (` + promoColumns + `)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18);`

	args, err := promoArgs(p)
	if err != nil {
		return err
	}
	_, err = execSQL(ctx, r.pool, tx, q, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Save persists the whole record in one write. Activation state, codes and
// engagement all live on the promo row, so one UPDATE carries the full
// post-mutation snapshot.
func (r *promoRepo) Save(ctx context.Context, tx repository.Tx, p *model.Promo) error {
	const q = `
UPDATE promos SET
  company_id=$2, company_name=$3, description=$4, image_url=$5, target=$6,
  mode=$7, common_code=$8, unique_codes=$9, max_count=$10,
  active_from=$11, active_until=$12, active=$13,
  activated_users=$14, likes=$15, comments=$16, countries=$17, created_at=$18
WHERE promo_id=$1;`

	args, err := promoArgs(p)
	if err != nil {
		return err
	}
	tag, err := execSQL(ctx, r.pool, tx, q, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *promoRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Promo, error) {
	const q = `SELECT ` + promoColumns + ` FROM promos WHERE promo_id=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	return scanPromo(row)
}

func (r *promoRepo) ListByCompany(ctx context.Context, tx repository.Tx, companyID string) ([]*model.Promo, error) {
	const q = `SELECT ` + promoColumns + ` FROM promos WHERE company_id=$1 ORDER BY created_at DESC;`
	return r.list(ctx, tx, q, companyID)
}

func (r *promoRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.Promo, error) {
	const q = `SELECT ` + promoColumns + ` FROM promos ORDER BY created_at DESC;`
	return r.list(ctx, tx, q)
}

func (r *promoRepo) list(ctx context.Context, tx repository.Tx, q string, args ...interface{}) ([]*model.Promo, error) {
	rows, err := queryRows(ctx, r.pool, tx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.Promo
	for rows.Next() {
		p, err := scanPromo(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return out, nil
}

// promoArgs encodes the aggregate for one INSERT/UPDATE. Sets are stored as
// sorted JSONB arrays so rows diff deterministically.
func promoArgs(p *model.Promo) ([]interface{}, error) {
	target, err := json.Marshal(p.Target)
	if err != nil {
		return nil, err
	}
	uniqueCodes, err := json.Marshal(sliceOrEmpty(p.UniqueCodes))
	if err != nil {
		return nil, err
	}
	activated, err := json.Marshal(setToSorted(p.ActivatedUsers))
	if err != nil {
		return nil, err
	}
	likes, err := json.Marshal(setToSorted(p.Likes))
	if err != nil {
		return nil, err
	}
	comments, err := json.Marshal(commentsOrEmpty(p.Comments))
	if err != nil {
		return nil, err
	}
	countries, err := json.Marshal(countriesOrEmpty(p.Countries))
	if err != nil {
		return nil, err
	}
	return []interface{}{
		p.ID, p.CompanyID, p.CompanyName, p.Description, p.ImageURL, target,
		string(p.Mode), p.CommonCode, uniqueCodes, p.MaxCount,
		p.ActiveFrom, p.ActiveUntil, p.Active,
		activated, likes, comments, countries, p.CreatedAt,
	}, nil
}

func scanPromo(row pgx.Row) (*model.Promo, error) {
	var (
		p                        model.Promo
		mode                     string
		target                   []byte
		uniqueCodes              []byte
		activated, likes         []byte
		comments, countries      []byte
		activeFrom, activeUntil  *time.Time
		activatedList, likesList []string
	)
	err := row.Scan(
		&p.ID, &p.CompanyID, &p.CompanyName, &p.Description, &p.ImageURL, &target,
		&mode, &p.CommonCode, &uniqueCodes, &p.MaxCount,
		&activeFrom, &activeUntil, &p.Active,
		&activated, &likes, &comments, &countries, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	p.Mode = model.Mode(mode)
	p.ActiveFrom = activeFrom
	p.ActiveUntil = activeUntil
	if err := json.Unmarshal(target, &p.Target); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	if err := json.Unmarshal(uniqueCodes, &p.UniqueCodes); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	if err := json.Unmarshal(activated, &activatedList); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	if err := json.Unmarshal(likes, &likesList); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	if err := json.Unmarshal(comments, &p.Comments); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	if err := json.Unmarshal(countries, &p.Countries); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	p.ActivatedUsers = sortedToSet(activatedList)
	p.Likes = sortedToSet(likesList)
	return &p, nil
}

func setToSorted(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func sortedToSet(list []string) map[string]struct{} {
	set := make(map[string]struct{}, len(list))
	for _, k := range list {
		set[k] = struct{}{}
	}
	return set
}

// JSON round-trips must never turn empty collections into nulls.
func sliceOrEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func commentsOrEmpty(s []model.Comment) []model.Comment {
	if s == nil {
		return []model.Comment{}
	}
	return s
}

func countriesOrEmpty(s []model.CountryStat) []model.CountryStat {
	if s == nil {
		return []model.CountryStat{}
	}
	return s
}
