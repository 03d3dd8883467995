package token

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueDecodeRoundTrip(t *testing.T) {
	for _, userID := range []int{1, 42, 987654321} {
		tok, err := Issue(userID)
		require.NoError(t, err)

		decoded, err := Decode(tok)
		require.NoError(t, err)
		assert.Equal(t, userID, decoded)
	}
}

func TestIssueSecretEntropy(t *testing.T) {
	first, err := Issue(7)
	require.NoError(t, err)
	second, err := Issue(7)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)

	_, secret, found := strings.Cut(first, ":")
	require.True(t, found)
	// 32 random bytes, url-safe base64 without padding
	assert.Len(t, secret, 43)
	assert.NotContains(t, secret, "+")
	assert.NotContains(t, secret, "/")
}

func TestDecodeInvalid(t *testing.T) {
	cases := []struct {
		name string
		tok  string
	}{
		{"empty", ""},
		{"no separator", "12abcdef"},
		{"non-numeric prefix", "abc:secret"},
		{"empty prefix", ":secret"},
		{"zero id", "0:secret"},
		{"negative id", "-5:secret"},
		{"float prefix", "1.5:secret"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(tc.tok)
			assert.Error(t, err)
		})
	}
}

func TestDecodeIgnoresSecret(t *testing.T) {
	// The secret half is not verified; only the prefix matters.
	userID, err := Decode("15:not-a-real-secret")
	require.NoError(t, err)
	assert.Equal(t, 15, userID)

	userID, err = Decode("15:with:extra:colons")
	require.NoError(t, err)
	assert.Equal(t, 15, userID)
}
