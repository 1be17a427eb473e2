package grpc

import (
	"context"
	"strings"
	"time"

	"github.com/dmitrijs2005/profiles/internal/common"
	"github.com/dmitrijs2005/profiles/internal/server/models"
	"github.com/dmitrijs2005/profiles/internal/server/services"
)

// fakeAccounts implements AccountService over a map keyed by email.
type fakeAccounts struct {
	byEmail map[string]*models.Account
	tokens  map[string]string

	loginErr error
	lastName string
}

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{byEmail: map[string]*models.Account{}, tokens: map[string]string{}}
}

func (f *fakeAccounts) add(a *models.Account) *models.Account {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	}
	f.byEmail[a.Email] = a
	return a
}

func (f *fakeAccounts) CreateUser(_ context.Context, email, name, password string) (*models.Account, error) {
	f.lastName = name
	if strings.TrimSpace(email) == "" {
		return nil, common.ErrEmailRequired
	}
	if _, ok := f.byEmail[email]; ok {
		return nil, common.ErrorAlreadyExists
	}
	return f.add(&models.Account{ID: "id-" + email, Email: email, Name: name, PasswordHash: "argon2$secret", IsActive: true}), nil
}

func (f *fakeAccounts) CreateSuperuser(ctx context.Context, email, name, password string) (*models.Account, error) {
	if password == "" {
		return nil, common.ErrPasswordRequired
	}
	a, err := f.CreateUser(ctx, email, name, password)
	if err != nil {
		return nil, err
	}
	a.IsStaff, a.IsSuperuser = true, true
	return a, nil
}

func (f *fakeAccounts) GetAccount(_ context.Context, id string) (*models.Account, error) {
	for _, a := range f.byEmail {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeAccounts) Login(_ context.Context, email, password string) (*services.TokenPair, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	if _, ok := f.byEmail[email]; !ok || password != "pw" {
		return nil, common.ErrorUnauthorized
	}
	return &services.TokenPair{AccessToken: "access-" + email, RefreshToken: "refresh-" + email}, nil
}

func (f *fakeAccounts) RefreshToken(_ context.Context, refreshToken string) (*services.TokenPair, error) {
	switch refreshToken {
	case "expired":
		return nil, common.ErrRefreshTokenExpired
	case "good":
		return &services.TokenPair{AccessToken: "a2", RefreshToken: "r2"}, nil
	default:
		return nil, common.ErrInvalidToken
	}
}

func (f *fakeAccounts) Deactivate(_ context.Context, email string) error {
	a, ok := f.byEmail[email]
	if !ok {
		return common.ErrorNotFound
	}
	a.IsActive = false
	return nil
}
