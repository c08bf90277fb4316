//go:build !integration

package usecase_test

import (
	"context"
	"io"
	"sync"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"promohub/internal/domain"
	"promohub/internal/domain/model"
	"promohub/internal/domain/ports/repository"
)

// newTestLogger creates a silent zerolog.Logger so test output stays clean.
func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}

// ---- Mock TransactionManager ----

// MockTxManager runs the callback immediately with NoTX. The mutex stands in
// for the per-promo advisory lock of the real store: every transactional
// callback runs serialized, matching production semantics for concurrent
// writers on the same promo.
type MockTxManager struct {
	mu         sync.Mutex
	WithTxFunc func(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error
}

func NewMockTxManager() *MockTxManager {
	return &MockTxManager{}
}

var _ repository.TransactionManager = (*MockTxManager)(nil)

func (m *MockTxManager) WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	if m.WithTxFunc != nil {
		return m.WithTxFunc(ctx, txOpt, fn)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(ctx, repository.NoTX)
}

// ---- In-memory PromoRepository ----

type MockPromoRepo struct {
	mu    sync.RWMutex
	store map[string]*model.Promo

	CreateFunc   func(ctx context.Context, tx repository.Tx, p *model.Promo) error
	SaveFunc     func(ctx context.Context, tx repository.Tx, p *model.Promo) error
	FindByIDFunc func(ctx context.Context, tx repository.Tx, id string) (*model.Promo, error)
}

func NewMockPromoRepo() *MockPromoRepo {
	return &MockPromoRepo{store: make(map[string]*model.Promo)}
}

var _ repository.PromoRepository = (*MockPromoRepo)(nil)

func (m *MockPromoRepo) Create(ctx context.Context, tx repository.Tx, p *model.Promo) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, p)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[p.ID]; ok {
		return domain.ErrAlreadyExists
	}
	m.store[p.ID] = p.Clone()
	return nil
}

func (m *MockPromoRepo) Save(ctx context.Context, tx repository.Tx, p *model.Promo) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, tx, p)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[p.ID]; !ok {
		return domain.ErrNotFound
	}
	m.store[p.ID] = p.Clone()
	return nil
}

func (m *MockPromoRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Promo, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, tx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p.Clone(), nil
}

func (m *MockPromoRepo) ListByCompany(ctx context.Context, tx repository.Tx, companyID string) ([]*model.Promo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Promo
	for _, p := range m.store {
		if p.CompanyID == companyID {
			out = append(out, p.Clone())
		}
	}
	return out, nil
}

func (m *MockPromoRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.Promo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Promo
	for _, p := range m.store {
		out = append(out, p.Clone())
	}
	return out, nil
}

func (m *MockPromoRepo) Lock(ctx context.Context, tx repository.Tx, id string) error {
	// Serialization is provided by MockTxManager; nothing to take here.
	return nil
}

// ---- In-memory UserRepository ----

type MockUserRepo struct {
	mu    sync.RWMutex
	store map[string]*model.User // by email

	FindByEmailFunc func(ctx context.Context, tx repository.Tx, email string) (*model.User, error)
	SaveFunc        func(ctx context.Context, tx repository.Tx, u *model.User) error
}

func NewMockUserRepo() *MockUserRepo {
	return &MockUserRepo{store: make(map[string]*model.User)}
}

var _ repository.UserRepository = (*MockUserRepo)(nil)

func (m *MockUserRepo) Save(ctx context.Context, tx repository.Tx, u *model.User) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, tx, u)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *u
	m.store[u.Email] = &cp
	return nil
}

func (m *MockUserRepo) FindByEmail(ctx context.Context, tx repository.Tx, email string) (*model.User, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, tx, email)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.store[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *MockUserRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.store {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

// ---- In-memory CompanyRepository ----

type MockCompanyRepo struct {
	mu    sync.RWMutex
	store map[string]*model.Company // by email

	SaveFunc func(ctx context.Context, tx repository.Tx, c *model.Company) error
}

func NewMockCompanyRepo() *MockCompanyRepo {
	return &MockCompanyRepo{store: make(map[string]*model.Company)}
}

var _ repository.CompanyRepository = (*MockCompanyRepo)(nil)

func (m *MockCompanyRepo) Save(ctx context.Context, tx repository.Tx, c *model.Company) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, tx, c)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	m.store[c.Email] = &cp
	return nil
}

func (m *MockCompanyRepo) FindByEmail(ctx context.Context, tx repository.Tx, email string) (*model.Company, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.store[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *MockCompanyRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Company, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.store {
		if c.ID == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

// ---- Shared fixtures ----

func seedCommonPromo(repo *MockPromoRepo, companyID string, maxCount int) *model.Promo {
	code := "WELCOME10"
	p, _ := model.NewPromo(companyID, "Demo Coffee", &model.CreatePromo{
		Description: "Ten percent off any drink",
		Target:      model.Target{},
		MaxCount:    maxCount,
		Mode:        model.ModeCommon,
		CommonCode:  &code,
	})
	_ = repo.Create(context.Background(), repository.NoTX, p)
	return p
}

func seedUniquePromo(repo *MockPromoRepo, companyID string, codes []string) *model.Promo {
	p, _ := model.NewPromo(companyID, "Demo Coffee", &model.CreatePromo{
		Description: "One free pastry per code",
		Target:      model.Target{},
		MaxCount:    len(codes),
		Mode:        model.ModeUnique,
		UniqueCodes: codes,
	})
	_ = repo.Create(context.Background(), repository.NoTX, p)
	return p
}

func seedUser(repo *MockUserRepo, email, country string, age int) *model.User {
	u, _ := model.NewUser("", "Dana", "Doe", email, nil,
		model.UserTargeting{Age: age, Country: country}, "hash")
	_ = repo.Save(context.Background(), repository.NoTX, u)
	return u
}
