package domain

import (
	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims is the claim set embedded in issued access tokens. Subject is
// the client ID, Issuer the API ID. Scopes snapshot the client's grants at
// issuance; verification re-reads the live grants, so the snapshot is
// informational. Version pins the client version the token was issued under.
// SecretID names the client secret that authenticated issuance; revoking
// that secret kills the token.
type TokenClaims struct {
	Scopes   []string `json:"scopes"`
	Version  int      `json:"ver"`
	SecretID string   `json:"sid"`
	jwt.RegisteredClaims
}

// AccessToken is the issue operation result. The token is never persisted;
// possession plus a valid signature is the whole credential.
type AccessToken struct {
	Token     string
	TokenType string
	ExpiresIn int64
}
