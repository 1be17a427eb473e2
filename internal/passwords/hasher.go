// Package passwords hashes and verifies account passwords.
//
// Encoded hashes are self-describing strings of the form
// "<algorithm>$<algorithm specific fields>", so a Manager can verify hashes
// produced by any hasher it knows about while encoding new ones with its
// preferred hasher. A hash starting with UnusablePrefix marks a disabled
// login: it never matches any input.
package passwords

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/profiles/internal/common"
)

const (
	// UnusablePrefix starts every disabled-login placeholder.
	UnusablePrefix = "!"
	// unusableSuffixLength is the number of random characters after the prefix.
	unusableSuffixLength = 40
)

// Supported algorithm names, as used in configuration and in encoded hashes.
const (
	AlgorithmArgon2 = "argon2"
	AlgorithmBcrypt = "bcrypt"
)

// ErrUnknownAlgorithm is returned when a hasher is requested by a name the
// package does not implement.
var ErrUnknownAlgorithm = errors.New("unknown password hashing algorithm")

// Hasher encodes passwords for one algorithm.
type Hasher interface {
	Algorithm() string
	Encode(password []byte) (string, error)
	Verify(password []byte, encoded string) bool
}

// Manager owns an ordered list of hashers. The first one encodes new
// passwords; all of them are consulted when verifying.
type Manager struct {
	hashers []Hasher
}

// NewManager returns a Manager preferring the first hasher given.
func NewManager(preferred Hasher, others ...Hasher) *Manager {
	return &Manager{hashers: append([]Hasher{preferred}, others...)}
}

// NewManagerFor builds the default hasher set with the named algorithm
// preferred for new hashes.
func NewManagerFor(algorithm string) (*Manager, error) {
	argon := NewArgon2Hasher(DefaultArgon2Params)
	bc := NewBcryptHasher(0)

	switch algorithm {
	case AlgorithmArgon2, "":
		return NewManager(argon, bc), nil
	case AlgorithmBcrypt:
		return NewManager(bc, argon), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, algorithm)
	}
}

// Preferred returns the hasher used for new passwords.
func (m *Manager) Preferred() Hasher {
	return m.hashers[0]
}

// Make encodes password with the preferred hasher.
func (m *Manager) Make(password []byte) (string, error) {
	return m.Preferred().Encode(password)
}

// MakeUnusable returns a disabled-login placeholder.
func (m *Manager) MakeUnusable() (string, error) {
	suffix, err := common.RandomString(unusableSuffixLength)
	if err != nil {
		return "", err
	}
	return UnusablePrefix + suffix, nil
}

// IsUsable reports whether encoded can ever match a password.
func IsUsable(encoded string) bool {
	return encoded != "" && !strings.HasPrefix(encoded, UnusablePrefix)
}

// Check reports whether password matches encoded. It is false for disabled
// placeholders, unknown algorithms and malformed hashes.
func (m *Manager) Check(password []byte, encoded string) bool {
	if !IsUsable(encoded) {
		return false
	}

	algorithm, _, ok := strings.Cut(encoded, "$")
	if !ok {
		return false
	}

	for _, h := range m.hashers {
		if h.Algorithm() == algorithm {
			return h.Verify(password, encoded)
		}
	}
	return false
}

// HarmonizeTiming spends about as much time as a real Check would. Callers
// use it when the account being authenticated does not exist.
func (m *Manager) HarmonizeTiming(password []byte) {
	_, _ = m.Make(password)
}
