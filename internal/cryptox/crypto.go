// Package cryptox hashes account passwords for the development backend.
package cryptox

import (
	"crypto/rand"
	"crypto/subtle"

	"golang.org/x/crypto/argon2"
)

const (
	saltSize = 16
	keySize  = 32
)

// PasswordHash is an argon2id digest together with its salt.
type PasswordHash struct {
	Salt []byte
	Key  []byte
}

// DeriveKey stretches password with argon2id.
func DeriveKey(password, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, keySize)
}

// GenerateRandByteArray returns size bytes from crypto/rand.
func GenerateRandByteArray(size int) []byte {
	b := make([]byte, size)
	// crypto/rand.Read never returns an error on supported platforms
	_, _ = rand.Read(b)
	return b
}

// HashPassword derives a key from password under a fresh salt.
func HashPassword(password string) PasswordHash {
	salt := GenerateRandByteArray(saltSize)
	return PasswordHash{Salt: salt, Key: DeriveKey([]byte(password), salt)}
}

// Verify reports whether password produces the stored key.
func (h PasswordHash) Verify(password string) bool {
	if len(h.Key) == 0 {
		return false
	}
	got := DeriveKey([]byte(password), h.Salt)
	return subtle.ConstantTimeCompare(got, h.Key) == 1
}

// WipeByteArray zeroes b in place.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
