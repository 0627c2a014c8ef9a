// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/keygate/keygate/internal/validation"
)

// CreateWorkspaceRequest contains the parameters for creating a workspace.
type CreateWorkspaceRequest struct {
	Name string `json:"name"`
}

// Validate checks if the create workspace request is valid.
func (r *CreateWorkspaceRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
	)
}

// CreateAPIRequest contains the parameters for registering an API.
type CreateAPIRequest struct {
	WorkspaceID string `json:"workspace_id"`
	Name        string `json:"name"`
	Algorithm   string `json:"algorithm"`
	// TokenExpirationSeconds sets the lifetime of issued tokens. Zero means
	// the system default applies.
	TokenExpirationSeconds int64 `json:"token_expiration_seconds"`
}

// Validate checks if the create API request is valid.
func (r *CreateAPIRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.WorkspaceID,
			validation.Required,
			customValidation.UUIDString,
		),
		validation.Field(&r.Name,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
		validation.Field(&r.Algorithm,
			validation.Required,
			validation.In("HS256", "RS256"),
		),
		validation.Field(&r.TokenExpirationSeconds,
			validation.Min(int64(0)),
		),
	)
}

// CreateScopeRequest contains the parameters for defining a scope on an API.
type CreateScopeRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Validate checks if the create scope request is valid.
func (r *CreateScopeRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name,
			validation.Required,
			customValidation.ScopeName,
		),
		validation.Field(&r.Description,
			validation.Length(0, 1024),
		),
	)
}
