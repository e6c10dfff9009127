package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRandomString(t *testing.T) {
	s, err := GenerateRandomString(8)
	require.NoError(t, err)
	assert.Len(t, s, 8)

	for _, r := range s {
		isDigit := r >= '0' && r <= '9'
		isUpper := r >= 'A' && r <= 'Z'
		isLower := r >= 'a' && r <= 'z'
		assert.True(t, isDigit || isUpper || isLower, "unexpected character %q", r)
	}
}

func TestGenerateRandomString_ZeroLength(t *testing.T) {
	s, err := GenerateRandomString(0)
	require.NoError(t, err)
	assert.Empty(t, s)
}

func TestGenerateRandomString_NegativeLength(t *testing.T) {
	_, err := GenerateRandomString(-1)
	assert.Error(t, err)
}
