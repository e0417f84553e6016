package service

import "golang.org/x/crypto/bcrypt"

// VerifyPassword checks a plaintext password against a stored bcrypt hash.
// An empty stored hash (provider-only account) always fails.
func VerifyPassword(password, storedHash string) bool {
	if storedHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(password)) == nil
}
