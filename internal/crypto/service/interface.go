// Package service provides cryptographic services for envelope encryption.
// Implements AEAD ciphers (AES-256-GCM with a 16-byte IV, XChaCha20-Poly1305)
// and access to the external key custody backend.
package service

import (
	cryptoDomain "github.com/keygate/keygate/internal/crypto/domain"
)

// AEAD defines the interface for Authenticated Encryption with Associated Data.
type AEAD interface {
	// Encrypt encrypts plaintext with optional AAD and returns ciphertext and IV.
	Encrypt(plaintext, aad []byte) (ciphertext, iv []byte, err error)

	// Decrypt decrypts ciphertext using the provided IV and AAD.
	Decrypt(ciphertext, iv, aad []byte) ([]byte, error)
}

// AEADManager defines the interface for creating AEAD cipher instances.
type AEADManager interface {
	// CreateCipher creates an AEAD cipher instance for the specified algorithm.
	CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error)
}
