// Package secrets provides authenticated encryption for confidential record
// values.
//
// A single AES-256-GCM key is derived once at startup and injected where
// needed; the same configuration always derives the same key, so stored
// tokens stay decryptable across restarts. There is no key rotation or
// versioning: changing the key invalidates every previously stored token.
package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrInvalidToken is returned when a token was produced under a different
// key, or was corrupted or tampered with.
var ErrInvalidToken = errors.New("secrets: invalid token")

// Cipher encrypts and decrypts single string values. It is immutable and
// safe for concurrent use.
type Cipher struct {
	aead cipher.AEAD
}

// NewCipher builds a Cipher from an explicit base64url-encoded 32-byte key,
// or, when encodedKey is empty, from a key derived as SHA-256(appSecret).
// The derivation is deterministic and deliberately distinct from the bcrypt
// hashing used for login passwords.
func NewCipher(encodedKey, appSecret string) (*Cipher, error) {
	var key []byte
	switch {
	case encodedKey != "":
		// Tolerate both padded and unpadded base64url key encodings.
		decoded, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(encodedKey, "="))
		if err != nil {
			return nil, fmt.Errorf("secrets: ENCRYPTION_KEY is not valid base64url: %w", err)
		}
		if len(decoded) != 32 {
			return nil, fmt.Errorf("secrets: ENCRYPTION_KEY must decode to 32 bytes, got %d", len(decoded))
		}
		key = decoded
	case appSecret != "":
		digest := sha256.Sum256([]byte(appSecret))
		key = digest[:]
	default:
		return nil, errors.New("secrets: no key material configured")
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("secrets: failed to create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("secrets: failed to create GCM: %w", err)
	}

	return &Cipher{aead: aead}, nil
}

// Encrypt seals plaintext into an opaque token. The token embeds the random
// nonce and the GCM auth tag: base64url(nonce || ciphertext || tag).
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("secrets: failed to generate nonce: %w", err)
	}

	sealed := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Decrypt opens a token produced by Encrypt. Any mismatch — wrong key,
// truncation, bit flips, bad encoding — yields ErrInvalidToken.
func (c *Cipher) Decrypt(token string) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return "", ErrInvalidToken
	}

	nonceSize := c.aead.NonceSize()
	if len(raw) < nonceSize {
		return "", ErrInvalidToken
	}

	nonce, ciphertext := raw[:nonceSize], raw[nonceSize:]
	plaintext, err := c.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", ErrInvalidToken
	}
	return string(plaintext), nil
}
