package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// BcryptCost matches 10 salt rounds.
const BcryptCost = 10

const resetTokenBytes = 10

// HashPassword returns a salted bcrypt hash of plain.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether plain matches the stored bcrypt hash.
func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// NewResetToken returns a random token to email to the user, the hash to
// store in its place and when it stops being valid.
func NewResetToken(ttl time.Duration) (plain, hashed string, expires time.Time, err error) {
	buf := make([]byte, resetTokenBytes)
	if _, err = rand.Read(buf); err != nil {
		return "", "", time.Time{}, err
	}
	plain = hex.EncodeToString(buf)
	return plain, HashResetToken(plain), time.Now().Add(ttl), nil
}

// HashResetToken is the one-way form of a reset token as stored.
func HashResetToken(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}

// ResetTokenMatches compares a presented token against the stored hash in
// constant time.
func ResetTokenMatches(storedHash, plain string) bool {
	return subtle.ConstantTimeCompare([]byte(storedHash), []byte(HashResetToken(plain))) == 1
}
