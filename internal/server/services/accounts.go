// Package services contains server-side business logic. AccountService is
// the account factory: it normalizes and validates input, hashes passwords
// and persists accounts, and it also runs the login and refresh-token flows.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/profiles/internal/common"
	"github.com/dmitrijs2005/profiles/internal/dbx"
	"github.com/dmitrijs2005/profiles/internal/emailx"
	"github.com/dmitrijs2005/profiles/internal/logging"
	"github.com/dmitrijs2005/profiles/internal/passwords"
	"github.com/dmitrijs2005/profiles/internal/server/auth"
	"github.com/dmitrijs2005/profiles/internal/server/config"
	"github.com/dmitrijs2005/profiles/internal/server/models"
	"github.com/dmitrijs2005/profiles/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type AccountService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	passwords                    *passwords.Manager
	logger                       logging.Logger
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
	now                          func() time.Time
}

// NewAccountService wires the service to its collaborators. A nil logger
// discards log output.
func NewAccountService(db *sql.DB, m repomanager.RepositoryManager, pw *passwords.Manager, cfg *config.Config, logger logging.Logger) *AccountService {
	if logger == nil {
		logger = logging.Nop{}
	}
	return &AccountService{
		db:                           db,
		repomanager:                  m,
		passwords:                    pw,
		logger:                       logger.With("module", "account_service"),
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
		now:                          time.Now,
	}
}

// CreateUser creates an active, non-staff account. An empty password leaves
// the account with a disabled login.
func (s *AccountService) CreateUser(ctx context.Context, email, name, password string) (*models.Account, error) {
	account, err := s.createUser(ctx, s.db, email, name, password)
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "account created", "id", account.ID, "email", account.Email)
	return account, nil
}

// CreateSuperuser creates an account with staff and superuser flags set. The
// insert and the elevation are committed together.
func (s *AccountService) CreateSuperuser(ctx context.Context, email, name, password string) (*models.Account, error) {
	if password == "" {
		return nil, common.ErrPasswordRequired
	}

	var account *models.Account
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		a, err := s.createUser(ctx, tx, email, name, password)
		if err != nil {
			return err
		}

		a.IsStaff = true
		a.IsSuperuser = true
		if err := s.repomanager.Accounts(tx).Update(ctx, a); err != nil {
			return fmt.Errorf("error elevating account: %w", err)
		}

		account = a
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "superuser created", "id", account.ID, "email", account.Email)
	return account, nil
}

func (s *AccountService) createUser(ctx context.Context, db dbx.DBTX, email, name, password string) (*models.Account, error) {
	if strings.TrimSpace(email) == "" {
		return nil, common.ErrEmailRequired
	}

	hash, err := s.encodePassword(password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	account := &models.Account{
		ID:           uuid.NewString(),
		Email:        emailx.Normalize(email),
		Name:         name,
		PasswordHash: hash,
		IsActive:     true,
	}

	created, err := s.repomanager.Accounts(db).Create(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("error creating account: %w", err)
	}
	return created, nil
}

func (s *AccountService) encodePassword(password string) (string, error) {
	if password == "" {
		return s.passwords.MakeUnusable()
	}
	return s.passwords.Make([]byte(password))
}

func (s *AccountService) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	account, err := s.repomanager.Accounts(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error getting account: %w", err)
	}
	return account, nil
}

// GetAccountByEmail looks an account up by its normalized email.
func (s *AccountService) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	account, err := s.repomanager.Accounts(s.db).GetByEmail(ctx, emailx.Normalize(email))
	if err != nil {
		return nil, fmt.Errorf("error getting account: %w", err)
	}
	return account, nil
}

// Authenticate returns the account when the credentials match an active
// account. Every credential failure is reported as common.ErrorUnauthorized.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (*models.Account, error) {
	account, err := s.repomanager.Accounts(s.db).GetByEmail(ctx, emailx.Normalize(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.passwords.HarmonizeTiming([]byte(password))
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error getting account: %w", err)
	}

	if !s.passwords.Check([]byte(password), account.GetPasswordHash()) {
		return nil, common.ErrorUnauthorized
	}
	if !account.CanAuthenticate() {
		return nil, common.ErrorUnauthorized
	}
	return account, nil
}

// Login authenticates, records the login time and issues a token pair.
func (s *AccountService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	account, err := s.Authenticate(ctx, email, password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			s.logger.Warn(ctx, "login failed", "email", emailx.Normalize(email))
		}
		return nil, err
	}

	if err := s.repomanager.Accounts(s.db).TouchLastLogin(ctx, account.ID, s.now()); err != nil {
		return nil, fmt.Errorf("error recording login: %w", err)
	}

	pair, err := s.generateTokenPair(ctx, account.ID, s.db)
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "login", "id", account.ID)
	return pair, nil
}

// RefreshToken exchanges a valid refresh token for a new pair. The old token
// is deleted in the same transaction that stores the new one; only the caller
// whose delete removes the row gets a pair.
func (s *AccountService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	token, err := s.repomanager.RefreshTokens(s.db).Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, fmt.Errorf("error searching refresh token: %w", err)
	}

	if token.Expires.Before(s.now()) {
		return nil, common.ErrRefreshTokenExpired
	}

	var pair *TokenPair
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.RefreshTokens(tx).Delete(ctx, refreshToken); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				// consumed by a concurrent refresh since Find
				return common.ErrInvalidToken
			}
			return fmt.Errorf("error deleting refresh token: %w", err)
		}

		var err error
		pair, err = s.generateTokenPair(ctx, token.AccountID, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// Deactivate disables login for the account and revokes its refresh tokens.
func (s *AccountService) Deactivate(ctx context.Context, email string) error {
	normalized := emailx.Normalize(email)

	var id string
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Accounts(tx)

		account, err := repo.GetByEmail(ctx, normalized)
		if err != nil {
			return fmt.Errorf("error getting account: %w", err)
		}

		account.IsActive = false
		if err := repo.Update(ctx, account); err != nil {
			return fmt.Errorf("error updating account: %w", err)
		}

		if err := s.repomanager.RefreshTokens(tx).DeleteByAccount(ctx, account.ID); err != nil {
			return fmt.Errorf("error revoking refresh tokens: %w", err)
		}

		id = account.ID
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info(ctx, "account deactivated", "id", id, "email", normalized)
	return nil
}

// SetPassword replaces the account's password hash. An empty password
// disables login.
func (s *AccountService) SetPassword(ctx context.Context, email, password string) error {
	repo := s.repomanager.Accounts(s.db)

	account, err := repo.GetByEmail(ctx, emailx.Normalize(email))
	if err != nil {
		return fmt.Errorf("error getting account: %w", err)
	}

	hash, err := s.encodePassword(password)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}

	account.PasswordHash = hash
	if err := repo.Update(ctx, account); err != nil {
		return fmt.Errorf("error updating account: %w", err)
	}

	s.logger.Info(ctx, "password changed", "id", account.ID, "usable", passwords.IsUsable(hash))
	return nil
}

func (s *AccountService) generateTokenPair(ctx context.Context, accountID string, db dbx.DBTX) (*TokenPair, error) {
	access, err := auth.GenerateToken(accountID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}

	refresh, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, common.ErrorInternal
	}

	expires := s.now().Add(s.refreshTokenValidityDuration)
	if err := s.repomanager.RefreshTokens(db).Create(ctx, accountID, refresh, expires); err != nil {
		return nil, common.ErrorInternal
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
