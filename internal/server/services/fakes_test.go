package services

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/profiles/internal/common"
	"github.com/dmitrijs2005/profiles/internal/dbx"
	"github.com/dmitrijs2005/profiles/internal/passwords"
	"github.com/dmitrijs2005/profiles/internal/server/config"
	"github.com/dmitrijs2005/profiles/internal/server/models"
	"github.com/dmitrijs2005/profiles/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/profiles/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/profiles/internal/server/repositories/repomanager"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func newTestPasswords() *passwords.Manager {
	return passwords.NewManager(
		passwords.NewArgon2Hasher(passwords.Argon2Params{Time: 1, Memory: 64, Threads: 1, KeyLen: 32, SaltLen: 16}),
	)
}

func newTestConfig() *config.Config {
	return &config.Config{
		SecretKey:                    "k",
		AccessTokenValidityDuration:  time.Hour,
		RefreshTokenValidityDuration: 2 * time.Hour,
	}
}

func newAccountService(t *testing.T, db *sql.DB, rm repomanager.RepositoryManager) *AccountService {
	t.Helper()
	return NewAccountService(db, rm, newTestPasswords(), newTestConfig(), nil)
}

// fakeAccountsRepo keeps accounts in memory and enforces email uniqueness.
type fakeAccountsRepo struct {
	mu        sync.Mutex
	byID      map[string]models.Account
	createErr error
	updateErr error
	getErr    error
	touchErr  error
	touched   map[string]time.Time
}

func newFakeAccountsRepo() *fakeAccountsRepo {
	return &fakeAccountsRepo{byID: map[string]models.Account{}, touched: map[string]time.Time{}}
}

func (f *fakeAccountsRepo) Create(_ context.Context, a *models.Account) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	for _, existing := range f.byID {
		if existing.Email == a.Email {
			return nil, common.ErrorAlreadyExists
		}
	}
	stored := *a
	stored.CreatedAt = time.Now()
	f.byID[a.ID] = stored
	out := stored
	return &out, nil
}

func (f *fakeAccountsRepo) Update(_ context.Context, a *models.Account) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, ok := f.byID[a.ID]; !ok {
		return common.ErrorNotFound
	}
	f.byID[a.ID] = *a
	return nil
}

func (f *fakeAccountsRepo) GetByEmail(_ context.Context, email string) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, a := range f.byID {
		if a.Email == email {
			out := a
			return &out, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeAccountsRepo) GetByID(_ context.Context, id string) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	a, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &a, nil
}

func (f *fakeAccountsRepo) TouchLastLogin(_ context.Context, id string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.touchErr != nil {
		return f.touchErr
	}
	f.touched[id] = at
	return nil
}

type fakeRefreshRepo struct {
	mu        sync.Mutex
	tokens    map[string]models.RefreshToken
	findErr   error
	createErr error
	deleteErr error

	// onFind runs after a successful Find, outside the lock.
	onFind func()
}

func newFakeRefreshRepo() *fakeRefreshRepo {
	return &fakeRefreshRepo{tokens: map[string]models.RefreshToken{}}
}

func (f *fakeRefreshRepo) Create(_ context.Context, accountID string, token string, expires time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.tokens[token] = models.RefreshToken{AccountID: accountID, Token: token, Expires: expires}
	return nil
}

func (f *fakeRefreshRepo) Find(_ context.Context, token string) (*models.RefreshToken, error) {
	f.mu.Lock()
	if f.findErr != nil {
		f.mu.Unlock()
		return nil, f.findErr
	}
	t, ok := f.tokens[token]
	onFind := f.onFind
	f.mu.Unlock()

	if !ok {
		return nil, common.ErrorNotFound
	}
	if onFind != nil {
		onFind()
	}
	return &t, nil
}

func (f *fakeRefreshRepo) Delete(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.tokens[token]; !ok {
		return common.ErrorNotFound
	}
	delete(f.tokens, token)
	return nil
}

func (f *fakeRefreshRepo) DeleteByAccount(_ context.Context, accountID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for k, v := range f.tokens {
		if v.AccountID == accountID {
			delete(f.tokens, k)
		}
	}
	return nil
}

func (f *fakeRefreshRepo) count(accountID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, v := range f.tokens {
		if v.AccountID == accountID {
			n++
		}
	}
	return n
}

type fakeRepoManager struct {
	a *fakeAccountsRepo
	r *fakeRefreshRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{a: newFakeAccountsRepo(), r: newFakeRefreshRepo()}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error      { return nil }
func (m *fakeRepoManager) Accounts(dbx.DBTX) accounts.Repository           { return m.a }
func (m *fakeRepoManager) RefreshTokens(dbx.DBTX) refreshtokens.Repository { return m.r }
