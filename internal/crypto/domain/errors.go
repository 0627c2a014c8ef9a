package domain

import (
	"github.com/keygate/keygate/internal/errors"
)

// Envelope encryption error definitions.
var (
	// ErrUnsupportedAlgorithm indicates the requested encryption algorithm
	// is not supported. Supported: AESGCM, XChaCha20.
	ErrUnsupportedAlgorithm = errors.Wrap(errors.ErrInvalidInput, "unsupported algorithm")

	// ErrInvalidKeySize indicates a key of the wrong length was provided.
	// All keys must be exactly 32 bytes.
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrDataKeyNotFound indicates no data key record exists for the given ID.
	ErrDataKeyNotFound = errors.Wrap(errors.ErrNotFound, "data key not found")

	// ErrDecryptFailed indicates the custody backend rejected the unwrap of a
	// data key. Surfaced as an internal error since it means the wrapped key
	// is corrupt or the backend configuration changed underneath us.
	ErrDecryptFailed = errors.Wrap(errors.ErrInternal, "data key decrypt failed")

	// ErrAuthenticationFailed indicates an AEAD tag did not verify. A
	// tampered ciphertext or wrong IV is data corruption or an attack, never
	// a normal miss, so it maps to an internal error rather than a nil result.
	ErrAuthenticationFailed = errors.Wrap(errors.ErrInternal, "ciphertext authentication failed")
)
