package dto

import (
	"time"

	authDomain "github.com/keygate/keygate/internal/auth/domain"
)

// ClientResponse represents a client in API responses.
type ClientResponse struct {
	ID             string                  `json:"id"`
	APIID          string                  `json:"api_id"`
	WorkspaceID    string                  `json:"workspace_id"`
	ForWorkspaceID *string                 `json:"for_workspace_id,omitempty"`
	Name           string                  `json:"name"`
	RateLimit      *RateLimitConfigRequest `json:"rate_limit,omitempty"`
	Metadata       map[string]string       `json:"metadata,omitempty"`
	Version        int                     `json:"version"`
	CreatedAt      time.Time               `json:"created_at"`
}

// MapClientToResponse converts a domain client to an API response.
func MapClientToResponse(client *authDomain.Client) ClientResponse {
	resp := ClientResponse{
		ID:          client.ID.String(),
		APIID:       client.APIID.String(),
		WorkspaceID: client.WorkspaceID.String(),
		Name:        client.Name,
		Metadata:    client.Metadata,
		Version:     client.Version,
		CreatedAt:   client.CreatedAt,
	}
	if client.ForWorkspaceID != nil {
		forWorkspace := client.ForWorkspaceID.String()
		resp.ForWorkspaceID = &forWorkspace
	}
	if client.RateLimit != nil {
		resp.RateLimit = &RateLimitConfigRequest{
			BucketSize:       client.RateLimit.BucketSize,
			RefillAmount:     client.RateLimit.RefillAmount,
			RefillIntervalMS: client.RateLimit.RefillInterval.Milliseconds(),
		}
	}
	return resp
}

// CreateClientResponse carries the new client together with its plaintext
// secret. The secret is shown exactly once; only its digest is stored.
type CreateClientResponse struct {
	Client       ClientResponse `json:"client"`
	ClientSecret string         `json:"client_secret"`
}

// ClientSecretResponse represents a client secret in API responses. The
// digest is never included.
type ClientSecretResponse struct {
	ID        string    `json:"id"`
	ClientID  string    `json:"client_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// MapClientSecretToResponse converts a domain client secret to an API response.
func MapClientSecretToResponse(secret *authDomain.ClientSecret) ClientSecretResponse {
	return ClientSecretResponse{
		ID:        secret.ID.String(),
		ClientID:  secret.ClientID.String(),
		Status:    string(secret.Status),
		CreatedAt: secret.CreatedAt,
	}
}

// RotateClientSecretResponse carries the staged secret together with its
// plaintext, shown exactly once.
type RotateClientSecretResponse struct {
	Secret       ClientSecretResponse `json:"secret"`
	ClientSecret string               `json:"client_secret"`
}

// AccessTokenResponse is the OAuth2 token endpoint response.
type AccessTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// MapAccessTokenToResponse converts a domain access token to the OAuth2
// response shape.
func MapAccessTokenToResponse(token *authDomain.AccessToken) AccessTokenResponse {
	return AccessTokenResponse{
		AccessToken: token.Token,
		TokenType:   token.TokenType,
		ExpiresIn:   token.ExpiresIn,
	}
}

// VerificationResponse reports a token verification outcome. Invalid tokens
// come back with 200 OK and valid=false; HTTP errors are reserved for
// malformed requests and internal failures.
type VerificationResponse struct {
	Valid    bool              `json:"valid"`
	Reason   string            `json:"reason,omitempty"`
	Message  string            `json:"message,omitempty"`
	ClientID string            `json:"client_id,omitempty"`
	Scopes   []string          `json:"scopes,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// MapVerificationToResponse converts a domain verification to an API response.
func MapVerificationToResponse(v *authDomain.Verification) VerificationResponse {
	resp := VerificationResponse{
		Valid:   v.Valid,
		Reason:  string(v.Reason),
		Message: v.Message,
	}
	if v.Valid {
		resp.ClientID = v.ClientID.String()
		resp.Scopes = v.Scopes
		resp.Metadata = v.Metadata
	}
	return resp
}
