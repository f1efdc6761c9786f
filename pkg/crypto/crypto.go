package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"

	"golang.org/x/crypto/pbkdf2"
)

// PasswordIterations is fixed; changing it invalidates every stored digest.
const PasswordIterations = 120_000

const saltLength = 16

// GenerateRandomString returns a URL-safe token with 32 bytes of entropy.
// Used for session tokens and OAuth states.
func GenerateRandomString() (string, error) {
	b := make([]byte, 32)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString(b), nil
}

// GenerateSalt returns a fresh per-user password salt.
func GenerateSalt() ([]byte, error) {
	b := make([]byte, saltLength)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}

	return b, nil
}

// HashPassword derives a hex digest from the password and salt with
// PBKDF2-SHA256. Deterministic for a given (password, salt) pair.
func HashPassword(password string, salt []byte) string {
	digest := pbkdf2.Key([]byte(password), salt, PasswordIterations, sha256.Size, sha256.New)
	return hex.EncodeToString(digest)
}

// VerifyPassword recomputes the digest and compares in constant time.
func VerifyPassword(password string, salt []byte, expectedDigest string) bool {
	candidate := HashPassword(password, salt)
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(expectedDigest)) == 1
}
