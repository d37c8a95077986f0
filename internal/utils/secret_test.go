package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashSecret_RoundTrip(t *testing.T) {
	hash, err := HashSecret("correct horse", DefaultMinSecretLength)

	require.NoError(t, err)
	assert.True(t, SecretMatches(hash, "correct horse"))
	assert.False(t, SecretMatches(hash, "wrong horse"))
}

// TestHashSecret_MinLength tests that the configured floor is enforced and zero falls back to the default
func TestHashSecret_MinLength(t *testing.T) {
	cases := []struct {
		name      string
		secret    string
		minLength int
		wantErr   bool
	}{
		{name: "default floor", secret: "short", minLength: 0, wantErr: true},
		{name: "default floor met", secret: "eightchr", minLength: 0},
		{name: "raised floor", secret: "correct horse", minLength: 16, wantErr: true},
		{name: "lowered floor", secret: "abcd", minLength: 4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := HashSecret(tc.secret, tc.minLength)

			if tc.wantErr {
				assert.ErrorIs(t, err, ErrSecretTooShort)
				return
			}
			assert.NoError(t, err)
		})
	}
}
