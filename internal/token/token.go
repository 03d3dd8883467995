// Package token implements the bearer credential format "<user_id>:<secret>".
//
// The secret half is random filler and is never verified against anything
// server-side; validity of a token reduces to "the prefix parses as the id of
// an existing user". This matches the deployed wire format and is a known
// weakness of the scheme, not an accident.
package token

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"github.com/pr-poehali-dev/messenger-android-launch/internal/apperrors"
)

// secretLen is the number of random bytes in the secret half, 256 bits.
const secretLen = 32

// Issue produces a fresh bearer token for the user. Nothing is persisted.
func Issue(userID int) (string, error) {
	buf := make([]byte, secretLen)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token secret: %w", err)
	}
	return strconv.Itoa(userID) + ":" + base64.RawURLEncoding.EncodeToString(buf), nil
}

// Decode extracts the user id from a token. The secret half is ignored.
func Decode(tok string) (int, error) {
	prefix, _, found := strings.Cut(tok, ":")
	if !found {
		return 0, apperrors.ErrInvalidToken
	}
	userID, err := strconv.Atoi(prefix)
	if err != nil || userID <= 0 {
		return 0, apperrors.ErrInvalidToken
	}
	return userID, nil
}
