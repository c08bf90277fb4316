package usecase

import (
	"context"
	"errors"

	"promohub/internal/domain"
	"promohub/internal/domain/model"
	"promohub/internal/domain/ports/repository"
	"promohub/internal/infra/logging"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// Compile-time checks
var (
	_ CompanyUseCase = (*companyUC)(nil)
	_ UserUseCase    = (*userUC)(nil)
)

// CompanyUseCase registers and authenticates business accounts.
type CompanyUseCase interface {
	Register(ctx context.Context, name, email, password string) (*model.Company, error)
	Authenticate(ctx context.Context, email, password string) (*model.Company, error)
	GetByEmail(ctx context.Context, email string) (*model.Company, error)
}

// UserUseCase registers and authenticates end users and manages their profile.
type UserUseCase interface {
	Register(ctx context.Context, name, surname, email string, avatarURL *string, other model.UserTargeting, password string) (*model.User, error)
	Authenticate(ctx context.Context, email, password string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateProfile(ctx context.Context, email string, patch model.PatchUser) (*model.User, error)
}

type companyUC struct {
	companies repository.CompanyRepository
	tm        repository.TransactionManager
	log       *zerolog.Logger
}

func NewCompanyUseCase(companies repository.CompanyRepository, tm repository.TransactionManager, logger *zerolog.Logger) *companyUC {
	return &companyUC{companies: companies, tm: tm, log: logger}
}

func (uc *companyUC) Register(ctx context.Context, name, email, password string) (*model.Company, error) {
	defer logging.TraceDuration(uc.log, "CompanyUC.Register")()

	if !model.ValidPassword(password) {
		return nil, domain.Invalid("password", "must be 8-60 characters with upper, lower and digit")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	c, err := model.NewCompany("", name, email, string(hash))
	if err != nil {
		return nil, err
	}

	// Find and insert run in one serializable transaction so two concurrent
	// sign-ups with the same email cannot both pass the uniqueness check.
	txOpts := pgx.TxOptions{IsoLevel: pgx.Serializable}
	err = uc.tm.WithTx(ctx, txOpts, func(ctx context.Context, tx repository.Tx) error {
		if _, err := uc.companies.FindByEmail(ctx, tx, email); err == nil {
			return domain.ErrAlreadyExists
		} else if !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return uc.companies.Save(ctx, tx, c)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (uc *companyUC) Authenticate(ctx context.Context, email, password string) (*model.Company, error) {
	defer logging.TraceDuration(uc.log, "CompanyUC.Authenticate")()

	c, err := uc.companies.FindByEmail(ctx, repository.NoTX, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrUnauthorized
	}
	return c, nil
}

func (uc *companyUC) GetByEmail(ctx context.Context, email string) (*model.Company, error) {
	return uc.companies.FindByEmail(ctx, repository.NoTX, email)
}

type userUC struct {
	users repository.UserRepository
	tm    repository.TransactionManager
	log   *zerolog.Logger
}

func NewUserUseCase(users repository.UserRepository, tm repository.TransactionManager, logger *zerolog.Logger) *userUC {
	return &userUC{users: users, tm: tm, log: logger}
}

func (uc *userUC) Register(ctx context.Context, name, surname, email string, avatarURL *string, other model.UserTargeting, password string) (*model.User, error) {
	defer logging.TraceDuration(uc.log, "UserUC.Register")()

	if !model.ValidPassword(password) {
		return nil, domain.Invalid("password", "must be 8-60 characters with upper, lower and digit")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u, err := model.NewUser("", name, surname, email, avatarURL, other, string(hash))
	if err != nil {
		return nil, err
	}

	txOpts := pgx.TxOptions{IsoLevel: pgx.Serializable}
	err = uc.tm.WithTx(ctx, txOpts, func(ctx context.Context, tx repository.Tx) error {
		if _, err := uc.users.FindByEmail(ctx, tx, email); err == nil {
			return domain.ErrAlreadyExists
		} else if !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return uc.users.Save(ctx, tx, u)
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (uc *userUC) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	defer logging.TraceDuration(uc.log, "UserUC.Authenticate")()

	u, err := uc.users.FindByEmail(ctx, repository.NoTX, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrUnauthorized
	}
	return u, nil
}

func (uc *userUC) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return uc.users.FindByEmail(ctx, repository.NoTX, email)
}

func (uc *userUC) UpdateProfile(ctx context.Context, email string, patch model.PatchUser) (*model.User, error) {
	defer logging.TraceDuration(uc.log, "UserUC.UpdateProfile")()

	if err := patch.Validate(); err != nil {
		return nil, err
	}
	var updated *model.User
	txOpts := pgx.TxOptions{IsoLevel: pgx.ReadCommitted}
	err := uc.tm.WithTx(ctx, txOpts, func(ctx context.Context, tx repository.Tx) error {
		u, err := uc.users.FindByEmail(ctx, tx, email)
		if err != nil {
			return err
		}
		if patch.Name != nil {
			u.Name = *patch.Name
		}
		if patch.Surname != nil {
			u.Surname = *patch.Surname
		}
		if patch.AvatarURL != nil {
			u.AvatarURL = patch.AvatarURL
		}
		if patch.Password != nil {
			hash, err := bcrypt.GenerateFromPassword([]byte(*patch.Password), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			u.PasswordHash = string(hash)
		}
		if err := uc.users.Save(ctx, tx, u); err != nil {
			return err
		}
		updated = u
		return nil
	})
	return updated, err
}
