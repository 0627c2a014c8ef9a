package dto

import (
	"time"

	registryDomain "github.com/keygate/keygate/internal/registry/domain"
)

// WorkspaceResponse represents a workspace in API responses.
type WorkspaceResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// MapWorkspaceToResponse converts a domain workspace to an API response.
func MapWorkspaceToResponse(workspace *registryDomain.Workspace) WorkspaceResponse {
	return WorkspaceResponse{
		ID:        workspace.ID.String(),
		Name:      workspace.Name,
		CreatedAt: workspace.CreatedAt,
	}
}

// APIResponse represents an API in HTTP responses.
type APIResponse struct {
	ID                     string    `json:"id"`
	WorkspaceID            string    `json:"workspace_id"`
	Name                   string    `json:"name"`
	Algorithm              string    `json:"algorithm"`
	CurrentSigningSecretID string    `json:"current_signing_secret_id"`
	NextSigningSecretID    *string   `json:"next_signing_secret_id,omitempty"`
	TokenExpirationSeconds int64     `json:"token_expiration_seconds"`
	CreatedAt              time.Time `json:"created_at"`
}

// MapAPIToResponse converts a domain API to an HTTP response.
func MapAPIToResponse(api *registryDomain.API) APIResponse {
	resp := APIResponse{
		ID:                     api.ID.String(),
		WorkspaceID:            api.WorkspaceID.String(),
		Name:                   api.Name,
		Algorithm:              string(api.Algorithm),
		CurrentSigningSecretID: api.CurrentSigningSecretID.String(),
		TokenExpirationSeconds: int64(api.TokenExpiration / time.Second),
		CreatedAt:              api.CreatedAt,
	}
	if api.NextSigningSecretID != nil {
		next := api.NextSigningSecretID.String()
		resp.NextSigningSecretID = &next
	}
	return resp
}

// ApiScopeResponse represents a scope in API responses.
type ApiScopeResponse struct {
	ID          string    `json:"id"`
	APIID       string    `json:"api_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// MapApiScopeToResponse converts a domain scope to an API response.
func MapApiScopeToResponse(scope *registryDomain.ApiScope) ApiScopeResponse {
	return ApiScopeResponse{
		ID:          scope.ID.String(),
		APIID:       scope.APIID.String(),
		Name:        scope.Name,
		Description: scope.Description,
		CreatedAt:   scope.CreatedAt,
	}
}

// MapApiScopesToResponse converts a list of domain scopes to API responses.
func MapApiScopesToResponse(scopes []*registryDomain.ApiScope) []ApiScopeResponse {
	responses := make([]ApiScopeResponse, 0, len(scopes))
	for _, scope := range scopes {
		responses = append(responses, MapApiScopeToResponse(scope))
	}
	return responses
}
