package auth

import (
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// ComparePassword returns an error if the provided password does not resolve to
// the given hash.
func ComparePassword[T ~string | ~[]byte](password T, hash []byte) error {
	return bcrypt.CompareHashAndPassword(hash, []byte(password))
}

// HashPassword generates the hash for a given password. It errors if the
// password is longer than 72 bytes.
func HashPassword[T ~string | ~[]byte](password T) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
}

// decoyHash is compared against when no stored hash exists so that unknown
// accounts cost the same bcrypt work as known ones.
var decoyHash = sync.OnceValue(func() []byte {
	hash, err := HashPassword("decoy-password-never-matches")
	if err != nil {
		panic(err)
	}
	return hash
})
