// Package token generates and hashes the opaque secrets handed out to invitees and drivers.
package token

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"
)

// InvitationLength is the length of an invitation token in hex characters.
const InvitationLength = 64

// Hex returns n random bytes encoded as lowercase hex.
func Hex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// Invitation returns a fresh 64 character invitation token.
func Invitation() (string, error) {
	return Hex(InvitationLength / 2)
}

// Hash returns the hex SHA-256 digest of a secret. Only digests are persisted.
func Hash(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}

// Equal compares a secret against a stored digest in constant time.
func Equal(secret, digest string) bool {
	return subtle.ConstantTimeCompare([]byte(Hash(secret)), []byte(digest)) == 1
}

// Bearer is a driver API token in its plain-text "{id}|{secret}" form.
type Bearer struct {
	ID     string
	Secret string
}

func (b Bearer) String() string {
	return b.ID + "|" + b.Secret
}

// NewBearer creates a bearer for the stored token row id.
func NewBearer(id string) (Bearer, error) {
	secret, err := Hex(20)
	if err != nil {
		return Bearer{}, err
	}
	return Bearer{ID: id, Secret: secret}, nil
}

// ParseBearer splits a "{id}|{secret}" token. Both halves must be non-empty.
func ParseBearer(raw string) (Bearer, bool) {
	id, secret, ok := strings.Cut(strings.TrimSpace(raw), "|")
	if !ok || id == "" || secret == "" {
		return Bearer{}, false
	}
	return Bearer{ID: id, Secret: secret}, true
}
