//go:build !integration

package web

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"promohub/internal/domain"
	"promohub/internal/domain/model"
	"promohub/internal/domain/ports/repository"
)

func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}

// --- Mock TransactionManager ---

// mockTxManager serializes callbacks with a mutex, standing in for the
// per-promo advisory lock.
type mockTxManager struct {
	mu sync.Mutex
}

var _ repository.TransactionManager = (*mockTxManager)(nil)

func (m *mockTxManager) WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(ctx, repository.NoTX)
}

// --- Mock Repositories (Ports) ---

type mockPromoRepo struct {
	mu    sync.RWMutex
	store map[string]*model.Promo
}

var _ repository.PromoRepository = (*mockPromoRepo)(nil)

func newMockPromoRepo() *mockPromoRepo {
	return &mockPromoRepo{store: make(map[string]*model.Promo)}
}

func (m *mockPromoRepo) Create(ctx context.Context, tx repository.Tx, p *model.Promo) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[p.ID]; ok {
		return domain.ErrAlreadyExists
	}
	m.store[p.ID] = p.Clone()
	return nil
}

func (m *mockPromoRepo) Save(ctx context.Context, tx repository.Tx, p *model.Promo) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[p.ID]; !ok {
		return domain.ErrNotFound
	}
	m.store[p.ID] = p.Clone()
	return nil
}

func (m *mockPromoRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Promo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p.Clone(), nil
}

func (m *mockPromoRepo) ListByCompany(ctx context.Context, tx repository.Tx, companyID string) ([]*model.Promo, error) {
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

func (m *mockPromoRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.Promo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Promo
	for _, p := range m.store {
		out = append(out, p.Clone())
	}
	return out, nil
}

func (m *mockPromoRepo) Lock(ctx context.Context, tx repository.Tx, id string) error {
	return nil
}

type mockUserRepo struct {
	mu    sync.RWMutex
	store map[string]*model.User
}

var _ repository.UserRepository = (*mockUserRepo)(nil)

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{store: make(map[string]*model.User)}
}

func (m *mockUserRepo) Save(ctx context.Context, tx repository.Tx, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *u
	m.store[u.Email] = &cp
	return nil
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, tx repository.Tx, email string) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.store[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *mockUserRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.User, error) {
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

type mockCompanyRepo struct {
	mu    sync.RWMutex
	store map[string]*model.Company
}

var _ repository.CompanyRepository = (*mockCompanyRepo)(nil)

func newMockCompanyRepo() *mockCompanyRepo {
	return &mockCompanyRepo{store: make(map[string]*model.Company)}
}

func (m *mockCompanyRepo) Save(ctx context.Context, tx repository.Tx, c *model.Company) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	m.store[c.Email] = &cp
	return nil
}

func (m *mockCompanyRepo) FindByEmail(ctx context.Context, tx repository.Tx, email string) (*model.Company, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.store[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *mockCompanyRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Company, error) {
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

// --- In-memory TokenStore ---

type memTokenStore struct {
	mu     sync.Mutex
	tokens map[string]string
}

var _ TokenStore = (*memTokenStore)(nil)

func newMemTokenStore() *memTokenStore {
	return &memTokenStore{tokens: make(map[string]string)}
}

func (s *memTokenStore) Bind(ctx context.Context, principal, tokenID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[principal] = tokenID
	return nil
}

func (s *memTokenStore) Valid(ctx context.Context, principal, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokens[principal] == tokenID, nil
}
