package service

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"

	cryptoDomain "github.com/keygate/keygate/internal/crypto/domain"
)

// AESGCMCipher implements the AEAD interface using AES-256-GCM with a
// 16-byte IV.
//
// The IV length is fixed at 16 bytes to stay wire-compatible with payloads
// encrypted before this service existed; GCM accepts any IV length, the
// default of 12 bytes is a convention, not a requirement. The IV is random
// per encryption and stored alongside the ciphertext.
//
// The cipher instance is stateless and safe for concurrent use.
type AESGCMCipher struct {
	aead cipher.AEAD
}

// NewAESGCM creates a new AES-256-GCM cipher instance with a 16-byte IV.
// The key must be exactly 32 bytes.
func NewAESGCM(key []byte) (*AESGCMCipher, error) {
	if len(key) != cryptoDomain.KeySize {
		return nil, errors.New("key must be exactly 32 bytes")
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}

	aead, err := cipher.NewGCMWithNonceSize(block, cryptoDomain.AESGCMIVSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &AESGCMCipher{aead: aead}, nil
}

// Encrypt encrypts plaintext with optional additional authenticated data.
// A unique 16-byte IV is randomly generated per call and must be stored
// alongside the ciphertext for decryption. The returned ciphertext carries
// the 16-byte authentication tag appended at the end.
func (a *AESGCMCipher) Encrypt(plaintext, aad []byte) (ciphertext, iv []byte, err error) {
	iv = make([]byte, a.aead.NonceSize())
	if _, err := rand.Read(iv); err != nil {
		return nil, nil, fmt.Errorf("failed to generate iv: %w", err)
	}

	ciphertext = a.aead.Seal(nil, iv, plaintext, aad)
	return ciphertext, iv, nil
}

// Decrypt decrypts ciphertext with the provided IV and AAD. The
// authentication tag is verified before any plaintext is returned: a
// tampered ciphertext or wrong IV yields an error, never corrupted output.
func (a *AESGCMCipher) Decrypt(ciphertext, iv, aad []byte) ([]byte, error) {
	plaintext, err := a.aead.Open(nil, iv, ciphertext, aad)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt: %w", err)
	}
	// Empty plaintext decrypts to an empty slice, never nil.
	if plaintext == nil {
		plaintext = []byte{}
	}
	return plaintext, nil
}
