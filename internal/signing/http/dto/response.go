package dto

import (
	"time"

	signingDomain "github.com/keygate/keygate/internal/signing/domain"
)

// SigningSecretResponse represents a signing secret in API responses. Key
// material is never included; RSA public keys are served via the JWKS
// endpoint instead.
type SigningSecretResponse struct {
	ID        string    `json:"id"`
	APIID     string    `json:"api_id"`
	Algorithm string    `json:"algorithm"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// MapSigningSecretToResponse converts a domain signing secret to an API response.
func MapSigningSecretToResponse(secret *signingDomain.SigningSecret) SigningSecretResponse {
	return SigningSecretResponse{
		ID:        secret.ID.String(),
		APIID:     secret.APIID.String(),
		Algorithm: string(secret.Algorithm),
		Status:    string(secret.Status),
		CreatedAt: secret.CreatedAt,
	}
}
