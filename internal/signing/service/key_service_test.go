package service

import (
	"crypto/x509"
	"encoding/base64"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/keygate/keygate/internal/errors"
	registryDomain "github.com/keygate/keygate/internal/registry/domain"
)

func TestGenerateKeyPairHMAC(t *testing.T) {
	manager := NewKeyManager()

	pair, err := manager.GenerateKeyPair(registryDomain.HMACSHA256)
	require.NoError(t, err)

	assert.Len(t, pair.Secret, 32)
	assert.Nil(t, pair.PublicKey)

	other, err := manager.GenerateKeyPair(registryDomain.HMACSHA256)
	require.NoError(t, err)
	assert.NotEqual(t, pair.Secret, other.Secret, "generated keys should be unique")
}

func TestGenerateKeyPairRSA(t *testing.T) {
	manager := NewKeyManager()

	pair, err := manager.GenerateKeyPair(registryDomain.RSASHA256)
	require.NoError(t, err)

	privateKey, err := x509.ParsePKCS1PrivateKey(pair.Secret)
	require.NoError(t, err)
	assert.Equal(t, 2048, privateKey.N.BitLen())

	parsed, err := x509.ParsePKIXPublicKey(pair.PublicKey)
	require.NoError(t, err)
	assert.Equal(t, &privateKey.PublicKey, parsed)
}

func TestGenerateKeyPairUnsupportedAlgorithm(t *testing.T) {
	manager := NewKeyManager()

	_, err := manager.GenerateKeyPair(registryDomain.SigningAlgorithm("ES256"))
	require.Error(t, err)
	assert.ErrorIs(t, err, registryDomain.ErrUnsupportedSigningAlgorithm)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestRSAPublicKeyToJWK(t *testing.T) {
	manager := NewKeyManager()

	pair, err := manager.GenerateKeyPair(registryDomain.RSASHA256)
	require.NoError(t, err)

	secretID := uuid.Must(uuid.NewV7())

	jwk, err := RSAPublicKeyToJWK(secretID, pair.PublicKey)
	require.NoError(t, err)

	assert.Equal(t, "RSA", jwk.Kty)
	assert.Equal(t, "sig", jwk.Use)
	assert.Equal(t, "RS256", jwk.Alg)
	assert.Equal(t, secretID.String(), jwk.Kid)

	modulus, err := base64.RawURLEncoding.DecodeString(jwk.N)
	require.NoError(t, err)
	assert.Len(t, modulus, 256)

	exponent, err := base64.RawURLEncoding.DecodeString(jwk.E)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x00, 0x01}, exponent)
}

func TestRSAPublicKeyToJWKInvalidKey(t *testing.T) {
	_, err := RSAPublicKeyToJWK(uuid.Must(uuid.NewV7()), []byte("not-a-der-key"))
	require.Error(t, err)
}
