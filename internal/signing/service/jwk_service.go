package service

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"math/big"

	"github.com/google/uuid"

	apperrors "github.com/keygate/keygate/internal/errors"
	signingDomain "github.com/keygate/keygate/internal/signing/domain"
)

// RSAPublicKeyToJWK converts a PKIX-encoded RSA public key into a JWK with
// the secret ID as the key ID, matching the kid header of issued tokens.
func RSAPublicKeyToJWK(secretID uuid.UUID, publicKeyDER []byte) (signingDomain.JWK, error) {
	parsed, err := x509.ParsePKIXPublicKey(publicKeyDER)
	if err != nil {
		return signingDomain.JWK{}, apperrors.Wrap(err, "failed to parse rsa public key")
	}

	rsaKey, ok := parsed.(*rsa.PublicKey)
	if !ok {
		return signingDomain.JWK{}, apperrors.New("public key is not an rsa key")
	}

	return signingDomain.JWK{
		Kty: "RSA",
		Use: "sig",
		Kid: secretID.String(),
		Alg: "RS256",
		N:   base64.RawURLEncoding.EncodeToString(rsaKey.N.Bytes()),
		E:   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(rsaKey.E)).Bytes()),
	}, nil
}
