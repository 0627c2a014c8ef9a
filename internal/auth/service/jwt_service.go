package service

import (
	"crypto/x509"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	authDomain "github.com/keygate/keygate/internal/auth/domain"
	apperrors "github.com/keygate/keygate/internal/errors"
	registryDomain "github.com/keygate/keygate/internal/registry/domain"
	signingDomain "github.com/keygate/keygate/internal/signing/domain"
)

// jwtService implements the JWTService interface.
type jwtService struct{}

// NewJWTService creates a new JWTService.
func NewJWTService() JWTService {
	return &jwtService{}
}

// Sign encodes the claims with the given signing secret.
func (j *jwtService) Sign(
	claims *authDomain.TokenClaims,
	secretID uuid.UUID,
	material *signingDomain.KeyMaterial,
) (string, error) {
	var token *jwt.Token
	var key any

	switch material.Algorithm {
	case registryDomain.HMACSHA256:
		token = jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		key = material.Secret

	case registryDomain.RSASHA256:
		privateKey, err := x509.ParsePKCS1PrivateKey(material.Secret)
		if err != nil {
			return "", apperrors.Wrap(err, "failed to parse rsa private key")
		}
		token = jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
		key = privateKey

	default:
		return "", registryDomain.ErrUnsupportedSigningAlgorithm
	}

	token.Header["kid"] = secretID.String()

	signed, err := token.SignedString(key)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to sign token")
	}
	return signed, nil
}

// ParseUnverified decodes the claims and kid header without checking the
// signature.
func (j *jwtService) ParseUnverified(token string) (*authDomain.TokenClaims, string, error) {
	claims := &authDomain.TokenClaims{}

	parsed, _, err := jwt.NewParser().ParseUnverified(token, claims)
	if err != nil {
		return nil, "", apperrors.Wrap(err, "failed to parse token")
	}

	kid, _ := parsed.Header["kid"].(string)
	return claims, kid, nil
}

// VerifySignature checks the token's signature against the given key
// material. Registered claims are deliberately not validated so the caller
// can report expiry separately from signature failures.
func (j *jwtService) VerifySignature(token string, material *signingDomain.KeyMaterial) error {
	var methods []string
	keyFunc := func(t *jwt.Token) (any, error) {
		switch material.Algorithm {
		case registryDomain.HMACSHA256:
			return material.Secret, nil
		case registryDomain.RSASHA256:
			return x509.ParsePKIXPublicKey(material.PublicKey)
		default:
			return nil, registryDomain.ErrUnsupportedSigningAlgorithm
		}
	}

	switch material.Algorithm {
	case registryDomain.HMACSHA256:
		methods = []string{jwt.SigningMethodHS256.Alg()}
	case registryDomain.RSASHA256:
		methods = []string{jwt.SigningMethodRS256.Alg()}
	default:
		return registryDomain.ErrUnsupportedSigningAlgorithm
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods(methods),
		jwt.WithoutClaimsValidation(),
	)

	if _, err := parser.ParseWithClaims(token, &authDomain.TokenClaims{}, keyFunc); err != nil {
		return apperrors.Wrap(err, "token signature verification failed")
	}
	return nil
}
