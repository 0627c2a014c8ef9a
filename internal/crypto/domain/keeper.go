package domain

import "context"

// Keeper abstracts the external key custody backend holding the customer
// master key. *secrets.Keeper from gocloud.dev implements this interface.
// The root key never leaves the backend unencrypted.
type Keeper interface {
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
}
