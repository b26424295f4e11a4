package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalProvider(t *testing.T) {
	provider := NewLocalProvider()
	ctx := context.Background()

	hashed, err := provider.HashPassword(ctx, "Tr0ub4dor&horse!")
	require.NoError(t, err)
	assert.NotEqual(t, "Tr0ub4dor&horse!", hashed)

	t.Run("Correct password verifies", func(t *testing.T) {
		assert.NoError(t, provider.VerifyPassword(ctx, hashed, "Tr0ub4dor&horse!"))
	})

	t.Run("Wrong password is rejected", func(t *testing.T) {
		err := provider.VerifyPassword(ctx, hashed, "wrong-password")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("Garbage hash is rejected", func(t *testing.T) {
		err := provider.VerifyPassword(ctx, "not-a-bcrypt-hash", "anything")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}
