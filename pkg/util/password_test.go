package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("catalog-admin-secret")
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, "catalog-admin-secret", hash)

	// Same input must not produce the same hash (random salt)
	hash2, err := HashPassword("catalog-admin-secret")
	require.NoError(t, err)
	assert.NotEqual(t, hash, hash2)
}

func TestHashPasswordRejectsOverlongInput(t *testing.T) {
	long := make([]byte, 73)
	for i := range long {
		long[i] = 'a'
	}
	_, err := HashPassword(string(long))
	assert.ErrorIs(t, err, ErrPasswordTooLong)
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct-credential")
	require.NoError(t, err)

	tests := []struct {
		name     string
		password string
		want     bool
	}{
		{name: "Correct password", password: "correct-credential", want: true},
		{name: "Wrong password", password: "wrong-credential", want: false},
		{name: "Empty password", password: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, VerifyPassword(hash, tt.password))
		})
	}
}
