package auth

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is the work factor used when none is configured.
const DefaultBcryptCost = 10

// unusablePrefix marks password hashes that can never verify. Accounts
// created without a password (fixtures, service accounts) get one of these
// instead of an empty string.
const unusablePrefix = "!"

// HashPassword derives a bcrypt hash from a plaintext password.
func HashPassword(password string, cost int) (string, error) {
	if cost <= 0 {
		cost = DefaultBcryptCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches hash. Unusable hashes never
// match anything: they are not valid bcrypt output, so the comparison fails
// for every input.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// UnusablePassword returns a random marker that CheckPassword rejects for all
// inputs. The random suffix keeps two passwordless accounts from sharing a
// hash value.
func UnusablePassword() string {
	return unusablePrefix + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// IsUsable reports whether hash could ever verify a password.
func IsUsable(hash string) bool {
	return hash != "" && !strings.HasPrefix(hash, unusablePrefix)
}
