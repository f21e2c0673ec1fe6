package password_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/assetly/assetly-auth/internal/password"
)

func TestHashAndVerify(t *testing.T) {
	hasher := password.NewHasher(10)

	digest, err := hasher.Hash("s3cret!A")
	require.NoError(t, err)
	require.NotEqual(t, "s3cret!A", digest)
	require.True(t, strings.HasPrefix(digest, "$2"))

	require.True(t, hasher.Verify("s3cret!A", digest))
	require.False(t, hasher.Verify("s3cret!B", digest))
	require.False(t, hasher.Verify("s3cret!A", "not-a-digest"))
}

func TestHashesAreSalted(t *testing.T) {
	hasher := password.NewHasher(10)

	first, err := hasher.Hash("same-password")
	require.NoError(t, err)
	second, err := hasher.Hash("same-password")
	require.NoError(t, err)
	require.NotEqual(t, first, second)
}

func TestWeakCostIsRaised(t *testing.T) {
	hasher := password.NewHasher(4)

	digest, err := hasher.Hash("pw")
	require.NoError(t, err)
	require.Contains(t, digest, "$10$")
}
