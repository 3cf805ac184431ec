package util

import "golang.org/x/crypto/bcrypt"

// Cost for stored account passwords. bcrypt reads at most 72 bytes of
// input; longer passwords are rejected by GenerateFromPassword.
const passwordHashCost = 12

// HashPassword derives the bcrypt hash stored on the user row.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether a plain password matches a stored hash.
func VerifyPassword(hashedPassword, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}
