package credentials

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	hash, salt, err := Hash("correct horse battery staple")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	require.Len(t, salt, 16)

	assert.True(t, Verify("correct horse battery staple", hash, salt))
	assert.False(t, Verify("wrong password", hash, salt))
}

func TestHashProducesFreshSalt(t *testing.T) {
	hash1, salt1, err := Hash("root")
	require.NoError(t, err)
	hash2, salt2, err := Hash("root")
	require.NoError(t, err)

	assert.NotEqual(t, salt1, salt2)
	assert.NotEqual(t, hash1, hash2)

	assert.True(t, Verify("root", hash1, salt1))
	assert.True(t, Verify("root", hash2, salt2))
}

func TestVerifyRejectsCrossSalt(t *testing.T) {
	hash1, _, err := Hash("root")
	require.NoError(t, err)
	_, salt2, err := Hash("root")
	require.NoError(t, err)

	assert.False(t, Verify("root", hash1, salt2))
}

func TestVerifyMalformedInputs(t *testing.T) {
	hash, salt, err := Hash("root")
	require.NoError(t, err)

	assert.False(t, Verify("root", "", salt))
	assert.False(t, Verify("root", hash, nil))
	assert.False(t, Verify("root", "not-base64!!!", salt))
}
