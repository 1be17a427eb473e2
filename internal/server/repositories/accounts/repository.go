// Package accounts persists account records. Email uniqueness is enforced by
// the database; a violation surfaces as common.ErrorAlreadyExists.
package accounts

import (
	"context"
	"time"

	"github.com/dmitrijs2005/profiles/internal/server/models"
)

type Repository interface {
	// Create inserts a new account. The ID must already be set.
	Create(ctx context.Context, account *models.Account) (*models.Account, error)

	// Update saves name, password hash and flags of an existing account.
	Update(ctx context.Context, account *models.Account) error

	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	GetByID(ctx context.Context, id string) (*models.Account, error)

	TouchLastLogin(ctx context.Context, id string, at time.Time) error
}
