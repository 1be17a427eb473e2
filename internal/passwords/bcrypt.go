package passwords

import (
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// BcryptHasher produces "bcrypt$<bcrypt hash>". bcrypt only looks at the
// first 72 bytes of a password; longer ones are rejected by Encode.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher uses bcrypt.DefaultCost when cost is zero.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Algorithm() string { return AlgorithmBcrypt }

func (h *BcryptHasher) Encode(password []byte) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(password, h.cost)
	if err != nil {
		return "", err
	}
	return AlgorithmBcrypt + "$" + string(hash), nil
}

func (h *BcryptHasher) Verify(password []byte, encoded string) bool {
	hash, ok := strings.CutPrefix(encoded, AlgorithmBcrypt+"$")
	if !ok {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), password) == nil
}
