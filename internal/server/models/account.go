// Package models holds the server-side domain records.
package models

import "time"

// Account is one user's identity and authorization flags. PasswordHash holds
// an encoded hash or a disabled-login placeholder, never plaintext.
type Account struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	IsActive     bool
	IsStaff      bool
	IsSuperuser  bool
	LastLogin    *time.Time
	CreatedAt    time.Time
}

// Identity is what the authentication layer needs from a record.
type Identity interface {
	GetUsername() string
	GetPasswordHash() string
	CanAuthenticate() bool
}

// PermissionHolder answers authorization questions about a record.
type PermissionHolder interface {
	HasPerm(perm string) bool
	HasModulePerms(module string) bool
	CanAccessAdmin() bool
}

var (
	_ Identity         = (*Account)(nil)
	_ PermissionHolder = (*Account)(nil)
)

// GetUsername returns the value of the identity field, the email.
func (a *Account) GetUsername() string { return a.Email }

func (a *Account) GetPasswordHash() string { return a.PasswordHash }

// CanAuthenticate is false for deactivated accounts.
func (a *Account) CanAuthenticate() bool { return a.IsActive }

// FullName returns the display name.
func (a *Account) FullName() string { return a.Name }

// ShortName returns the display name.
func (a *Account) ShortName() string { return a.Name }

func (a *Account) String() string { return a.Email }

// HasPerm reports whether the account holds perm. Only active superusers hold
// permissions; there are no per-account grants.
func (a *Account) HasPerm(perm string) bool {
	return a.IsActive && a.IsSuperuser
}

// HasModulePerms reports whether the account holds any permission in module.
func (a *Account) HasModulePerms(module string) bool {
	return a.IsActive && a.IsSuperuser
}

// CanAccessAdmin reports whether the account may use administrative tools.
func (a *Account) CanAccessAdmin() bool {
	return a.IsActive && a.IsStaff
}

// AuthFields tells the authentication tooling which record field identifies
// an account and which other fields must be supplied when creating one.
type AuthFields struct {
	IdentityField  string
	RequiredFields []string
}

// Field names understood by AuthFields.
const (
	FieldEmail = "email"
	FieldName  = "name"
)

// DefaultAuthFields identifies accounts by email and requires a name.
var DefaultAuthFields = AuthFields{
	IdentityField:  FieldEmail,
	RequiredFields: []string{FieldName},
}

// PromptFields lists the identity field followed by the required fields.
func (f AuthFields) PromptFields() []string {
	return append([]string{f.IdentityField}, f.RequiredFields...)
}
