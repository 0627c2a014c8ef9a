// Package service provides signing key generation and JWK encoding.
package service

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"

	apperrors "github.com/keygate/keygate/internal/errors"
	registryDomain "github.com/keygate/keygate/internal/registry/domain"
)

const (
	// hmacKeySize is the HS256 key length in bytes.
	hmacKeySize = 32

	// rsaKeyBits is the RS256 modulus size.
	rsaKeyBits = 2048
)

// KeyPair holds freshly generated signing material in plaintext. Secret is
// the HMAC key or the PKCS#1 private key; PublicKey is the PKIX public key
// and is nil for HMAC.
type KeyPair struct {
	Secret    []byte
	PublicKey []byte
}

// KeyManager defines signing key generation operations.
type KeyManager interface {
	// GenerateKeyPair creates fresh key material for the given algorithm.
	GenerateKeyPair(algorithm registryDomain.SigningAlgorithm) (*KeyPair, error)
}

// KeyManagerService implements the KeyManager interface.
type KeyManagerService struct{}

// NewKeyManager creates a new KeyManagerService.
func NewKeyManager() *KeyManagerService {
	return &KeyManagerService{}
}

// GenerateKeyPair creates fresh key material for the given algorithm.
func (k *KeyManagerService) GenerateKeyPair(algorithm registryDomain.SigningAlgorithm) (*KeyPair, error) {
	switch algorithm {
	case registryDomain.HMACSHA256:
		secret := make([]byte, hmacKeySize)
		if _, err := rand.Read(secret); err != nil {
			return nil, apperrors.Wrap(err, "failed to generate hmac key")
		}
		return &KeyPair{Secret: secret}, nil

	case registryDomain.RSASHA256:
		privateKey, err := rsa.GenerateKey(rand.Reader, rsaKeyBits)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to generate rsa key")
		}
		publicKey, err := x509.MarshalPKIXPublicKey(&privateKey.PublicKey)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to marshal rsa public key")
		}
		return &KeyPair{
			Secret:    x509.MarshalPKCS1PrivateKey(privateKey),
			PublicKey: publicKey,
		}, nil

	default:
		return nil, registryDomain.ErrUnsupportedSigningAlgorithm
	}
}
