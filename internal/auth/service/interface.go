// Package service provides client credential hashing and JWT signing.
package service

import (
	"github.com/google/uuid"

	authDomain "github.com/keygate/keygate/internal/auth/domain"
	signingDomain "github.com/keygate/keygate/internal/signing/domain"
)

// SecretService defines client secret generation and verification operations.
type SecretService interface {
	// GenerateSecret creates a random client secret, returning the plaintext
	// once together with its Argon2id digest.
	GenerateSecret() (plainSecret string, hashedSecret string, err error)
	HashSecret(plainSecret string) (hashedSecret string, err error)
	// CompareSecret performs a constant-time comparison between a plain
	// secret and its digest.
	CompareSecret(plainSecret string, hashedSecret string) bool
}

// JWTService defines token encoding operations. Claim validation is done by
// the caller so failures can be reported in a fixed order.
type JWTService interface {
	// Sign encodes the claims with the given signing secret. The secret ID
	// goes into the kid header so external verifiers can pick the right JWK.
	Sign(claims *authDomain.TokenClaims, secretID uuid.UUID, material *signingDomain.KeyMaterial) (string, error)

	// ParseUnverified decodes the claims and kid header without checking the
	// signature or the registered claims.
	ParseUnverified(token string) (*authDomain.TokenClaims, string, error)

	// VerifySignature checks the token's signature against the given key
	// material. Registered claims are not validated here.
	VerifySignature(token string, material *signingDomain.KeyMaterial) error
}
