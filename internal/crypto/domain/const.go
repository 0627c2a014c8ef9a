package domain

// Algorithm represents the authenticated encryption algorithm used for
// envelope-encrypted payloads.
//
// Both algorithms are AEAD constructions with 256-bit keys: tampering with a
// ciphertext or its IV fails tag verification instead of yielding corrupted
// plaintext.
type Algorithm string

const (
	// AESGCM is AES-256-GCM with a random 16-byte IV per encryption.
	//
	// The 16-byte IV (instead of GCM's default 12 bytes) matches the wire
	// format of payloads encrypted by earlier deployments; it must be kept
	// for already-persisted ciphertexts to remain decryptable.
	AESGCM Algorithm = "aes-gcm"

	// XChaCha20 is XChaCha20-Poly1305 with a random 24-byte nonce.
	//
	// The extended nonce makes random nonce generation safe at any volume
	// and performs well on hosts without AES hardware acceleration.
	XChaCha20 Algorithm = "xchacha20-poly1305"
)

// AESGCMIVSize is the IV length in bytes for AESGCM payloads.
const AESGCMIVSize = 16

// KeySize is the key length in bytes for all supported algorithms.
const KeySize = 32
