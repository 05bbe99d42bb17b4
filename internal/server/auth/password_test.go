package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	h, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", string(h))

	ok, err := CheckPassword(h, "s3cret")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = CheckPassword(h, "nope")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = CheckPassword([]byte("garbage"), "s3cret")
	assert.Error(t, err)
}
