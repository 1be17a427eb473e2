// Package common defines shared constants and sentinel errors used across
// the profiles server, its transport and its admin tooling. Callers should
// use errors.Is to match these values.
package common

import "errors"

var (
	// Validation errors raised by the account factory.
	ErrEmailRequired    = errors.New("users must have an email address")
	ErrPasswordRequired = errors.New("superusers must have a password")

	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrorInternal         = errors.New("internal error")
	ErrorUnauthorized     = errors.New("unauthorized")
	ErrorPermissionDenied = errors.New("permission denied")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)
