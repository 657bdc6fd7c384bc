package secrets

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCipher(t *testing.T) {
	t.Parallel()

	t.Run("from app secret", func(t *testing.T) {
		c, err := NewCipher("", "some-app-secret")
		require.NoError(t, err)
		assert.NotNil(t, c)
	})

	t.Run("from explicit 32-byte key", func(t *testing.T) {
		key := base64.RawURLEncoding.EncodeToString(make([]byte, 32))
		c, err := NewCipher(key, "")
		require.NoError(t, err)
		assert.NotNil(t, c)
	})

	t.Run("explicit key takes precedence over app secret", func(t *testing.T) {
		key := base64.RawURLEncoding.EncodeToString([]byte("0123456789abcdef0123456789abcdef"))
		keyed, err := NewCipher(key, "app-secret")
		require.NoError(t, err)
		derived, err := NewCipher("", "app-secret")
		require.NoError(t, err)

		token, err := keyed.Encrypt("value")
		require.NoError(t, err)
		_, err = derived.Decrypt(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects wrong-size key", func(t *testing.T) {
		short := base64.RawURLEncoding.EncodeToString([]byte("too-short"))
		_, err := NewCipher(short, "")
		assert.Error(t, err)
	})

	t.Run("rejects bad encoding", func(t *testing.T) {
		_, err := NewCipher("!!!not-base64!!!", "")
		assert.Error(t, err)
	})

	t.Run("rejects empty material", func(t *testing.T) {
		_, err := NewCipher("", "")
		assert.Error(t, err)
	})
}

func TestCipher_RoundTrip(t *testing.T) {
	t.Parallel()
	c, err := NewCipher("", "round-trip-secret")
	require.NoError(t, err)

	for _, plaintext := range []string{
		"secret123",
		"",
		"with spaces and punctuation!?",
		"unicode: påsswörd ☃",
		"long " + string(make([]byte, 4096)),
	} {
		token, err := c.Encrypt(plaintext)
		require.NoError(t, err)
		assert.NotEqual(t, plaintext, token)

		got, err := c.Decrypt(token)
		require.NoError(t, err)
		assert.Equal(t, plaintext, got)
	}
}

func TestCipher_Deterministic_AcrossRestarts(t *testing.T) {
	t.Parallel()

	// Two ciphers from the same secret stand in for a process restart.
	before, err := NewCipher("", "stable-secret")
	require.NoError(t, err)
	after, err := NewCipher("", "stable-secret")
	require.NoError(t, err)

	token, err := before.Encrypt("survives restarts")
	require.NoError(t, err)

	got, err := after.Decrypt(token)
	require.NoError(t, err)
	assert.Equal(t, "survives restarts", got)
}

func TestCipher_Decrypt_WrongKey(t *testing.T) {
	t.Parallel()
	a, err := NewCipher("", "key-a")
	require.NoError(t, err)
	b, err := NewCipher("", "key-b")
	require.NoError(t, err)

	token, err := a.Encrypt("secret123")
	require.NoError(t, err)

	_, err = b.Decrypt(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCipher_Decrypt_Corruption(t *testing.T) {
	t.Parallel()
	c, err := NewCipher("", "corruption-secret")
	require.NoError(t, err)

	token, err := c.Encrypt("secret123")
	require.NoError(t, err)

	t.Run("not base64", func(t *testing.T) {
		_, err := c.Decrypt("%%%")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("too short", func(t *testing.T) {
		_, err := c.Decrypt("AAAA")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("flipped bit", func(t *testing.T) {
		raw, decErr := base64.RawURLEncoding.DecodeString(token)
		require.NoError(t, decErr)
		raw[len(raw)-1] ^= 0x01
		_, err := c.Decrypt(base64.RawURLEncoding.EncodeToString(raw))
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
