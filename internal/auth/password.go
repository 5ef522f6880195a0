package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost is the work factor used for every stored password.
const bcryptCost = 10

// HashPassword returns a salted bcrypt hash of password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the bcrypt hash.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// dummyHash is compared against when a login names an unknown email, so the
// response takes as long as a wrong-password attempt.
var dummyHash, _ = HashPassword("not-a-real-password")
