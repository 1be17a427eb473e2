// Package refreshtokens stores the opaque refresh tokens issued on login.
package refreshtokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/profiles/internal/server/models"
)

// Repository defines operations for issuing, retrieving, and revoking refresh tokens.
type Repository interface {
	// Create stores token for accountID, valid until expires.
	Create(ctx context.Context, accountID string, token string, expires time.Time) error

	// Find returns common.ErrorNotFound when the token is absent.
	Find(ctx context.Context, token string) (*models.RefreshToken, error)

	// Delete removes one token. It returns common.ErrorNotFound when no row
	// was removed, so only one caller can consume a given token.
	Delete(ctx context.Context, token string) error

	// DeleteByAccount revokes every token of an account.
	DeleteByAccount(ctx context.Context, accountID string) error
}
