package service

import (
	"crypto/cipher"
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// XChaCha20Poly1305Cipher implements the AEAD interface using
// XChaCha20-Poly1305.
//
// The extended 24-byte nonce makes random nonce generation collision-safe at
// any encryption volume, and the construction performs well on hosts without
// AES hardware acceleration.
type XChaCha20Poly1305Cipher struct {
	aead cipher.AEAD
}

// NewXChaCha20Poly1305 creates a new XChaCha20-Poly1305 cipher instance.
// The key must be exactly 32 bytes.
func NewXChaCha20Poly1305(key []byte) (*XChaCha20Poly1305Cipher, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create XChaCha20-Poly1305 cipher: %w", err)
	}

	return &XChaCha20Poly1305Cipher{aead: aead}, nil
}

// Encrypt encrypts plaintext with optional additional authenticated data.
// A unique 24-byte nonce is randomly generated per call and returned as the IV.
func (c *XChaCha20Poly1305Cipher) Encrypt(plaintext, aad []byte) (ciphertext, iv []byte, err error) {
	iv = make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(iv); err != nil {
		return nil, nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	ciphertext = c.aead.Seal(nil, iv, plaintext, aad)
	return ciphertext, iv, nil
}

// Decrypt decrypts ciphertext with the provided nonce and AAD. The Poly1305
// tag is verified before plaintext is returned.
func (c *XChaCha20Poly1305Cipher) Decrypt(ciphertext, iv, aad []byte) ([]byte, error) {
	plaintext, err := c.aead.Open(nil, iv, ciphertext, aad)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt: %w", err)
	}
	// Empty plaintext decrypts to an empty slice, never nil.
	if plaintext == nil {
		plaintext = []byte{}
	}
	return plaintext, nil
}
