package postgres

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

const (
	// secretVersion prefixes every sealed blob so the format can change later.
	secretVersion = 0x01

	nonceSize = 12
	keySize   = 32

	keyInfo = "creator-bridge linked account tokens v1"
)

var (
	ErrInvalidKeySize     = errors.New("encryption key must be 32 bytes")
	ErrEmptySecret        = errors.New("token encryption secret is empty")
	ErrInvalidBlobSize    = errors.New("encrypted blob is too small")
	ErrUnsupportedVersion = errors.New("unsupported secret blob version")
	ErrDecryptionFailed   = errors.New("failed to decrypt secret blob")
)

// DeriveKey stretches an operator-supplied secret into an AES-256 key with
// HKDF-SHA256.
func DeriveKey(secret string) ([]byte, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	key := make([]byte, keySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(keyInfo)), key); err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	return key, nil
}

// TokenCipher seals provider tokens with AES-256-GCM.
// Blob format: version(1) || nonce(12) || ciphertext. The row identity is
// bound as associated data, so a blob copied onto another row fails to open.
type TokenCipher struct {
	gcm cipher.AEAD
}

// NewTokenCipher creates a cipher from a 32-byte key.
func NewTokenCipher(key []byte) (*TokenCipher, error) {
	if len(key) != keySize {
		return nil, fmt.Errorf("%w: got %d bytes", ErrInvalidKeySize, len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create AES cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create GCM: %w", err)
	}
	return &TokenCipher{gcm: gcm}, nil
}

// NewTokenCipherFromSecret derives the key from secret and creates a cipher.
func NewTokenCipherFromSecret(secret string) (*TokenCipher, error) {
	key, err := DeriveKey(secret)
	if err != nil {
		return nil, err
	}
	return NewTokenCipher(key)
}

// Seal JSON-encodes value and encrypts it bound to aad.
func (c *TokenCipher) Seal(value any, aad string) ([]byte, error) {
	plaintext, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("marshal value: %w", err)
	}

	blob := make([]byte, 1+nonceSize, 1+nonceSize+len(plaintext)+c.gcm.Overhead())
	blob[0] = secretVersion
	if _, err := rand.Read(blob[1 : 1+nonceSize]); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}
	return c.gcm.Seal(blob, blob[1:1+nonceSize], plaintext, []byte(aad)), nil
}

// Open decrypts a blob sealed with the same aad into value.
func (c *TokenCipher) Open(blob []byte, aad string, value any) error {
	if len(blob) < 1+nonceSize+c.gcm.Overhead() {
		return ErrInvalidBlobSize
	}
	if blob[0] != secretVersion {
		return fmt.Errorf("%w: got version %d", ErrUnsupportedVersion, blob[0])
	}

	plaintext, err := c.gcm.Open(nil, blob[1:1+nonceSize], blob[1+nonceSize:], []byte(aad))
	if err != nil {
		return ErrDecryptionFailed
	}
	if err := json.Unmarshal(plaintext, value); err != nil {
		return fmt.Errorf("unmarshal decrypted value: %w", err)
	}
	return nil
}
