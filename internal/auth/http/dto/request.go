// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	"time"

	validation "github.com/jellydator/validation"

	authDomain "github.com/keygate/keygate/internal/auth/domain"
	customValidation "github.com/keygate/keygate/internal/validation"
)

// RateLimitConfigRequest overrides the system default token bucket for one
// client.
type RateLimitConfigRequest struct {
	BucketSize       int   `json:"bucket_size"`
	RefillAmount     int   `json:"refill_amount"`
	RefillIntervalMS int64 `json:"refill_interval_ms"`
}

// Validate checks if the rate limit config is valid.
func (r *RateLimitConfigRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.BucketSize, validation.Required, validation.Min(1)),
		validation.Field(&r.RefillAmount, validation.Required, validation.Min(1)),
		validation.Field(&r.RefillIntervalMS, validation.Required, validation.Min(int64(1))),
	)
}

// CreateClientRequest contains the parameters for registering a client.
type CreateClientRequest struct {
	WorkspaceID string `json:"workspace_id"`
	APIID       string `json:"api_id"`
	Name        string `json:"name"`
	// ForWorkspaceID marks a root client empowered to manage that workspace.
	ForWorkspaceID *string                 `json:"for_workspace_id,omitempty"`
	RateLimit      *RateLimitConfigRequest `json:"rate_limit,omitempty"`
	Metadata       map[string]string       `json:"metadata,omitempty"`
	Scopes         []string                `json:"scopes,omitempty"`
}

// Validate checks if the create client request is valid.
func (r *CreateClientRequest) Validate() error {
	err := validation.ValidateStruct(r,
		validation.Field(&r.WorkspaceID,
			validation.Required,
			customValidation.UUIDString,
		),
		validation.Field(&r.APIID,
			validation.Required,
			customValidation.UUIDString,
		),
		validation.Field(&r.Name,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
		validation.Field(&r.ForWorkspaceID,
			validation.When(r.ForWorkspaceID != nil, customValidation.UUIDString),
		),
		validation.Field(&r.Scopes,
			validation.Each(customValidation.ScopeName),
		),
	)
	if err != nil {
		return err
	}
	if r.RateLimit != nil {
		return r.RateLimit.Validate()
	}
	return nil
}

// RotateClientSecretRequest contains the parameters for rotating a client
// secret. A zero grace cuts over immediately.
type RotateClientSecretRequest struct {
	GraceSeconds int64 `json:"grace_seconds"`
}

// Validate checks if the rotate client secret request is valid.
func (r *RotateClientSecretRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.GraceSeconds,
			validation.Min(int64(0)),
		),
	)
}

// GrantScopeRequest contains the parameters for granting a scope to a client.
type GrantScopeRequest struct {
	Name string `json:"name"`
}

// Validate checks if the grant scope request is valid.
func (r *GrantScopeRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name,
			validation.Required,
			customValidation.ScopeName,
		),
	)
}

// IssueTokenRequest carries an OAuth2 client-credentials grant. Bound from
// form-encoded bodies per RFC 6749, with JSON accepted as well.
type IssueTokenRequest struct {
	GrantType    string `json:"grant_type" form:"grant_type"`
	ClientID     string `json:"client_id" form:"client_id"`
	ClientSecret string `json:"client_secret" form:"client_secret"`
}

// Validate checks if the issue token request is valid.
func (r *IssueTokenRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.GrantType,
			validation.Required,
			validation.In("client_credentials"),
		),
		validation.Field(&r.ClientID,
			validation.Required,
			customValidation.UUIDString,
		),
		validation.Field(&r.ClientSecret,
			validation.Required,
		),
	)
}

// VerifyTokenRequest contains a token to verify and an optional scope query.
// The query is a recursive and/or tree whose leaves are scope names.
type VerifyTokenRequest struct {
	Token          string            `json:"token"`
	RequiredScopes *authDomain.Query `json:"required_scopes,omitempty"`
}

// Validate checks if the verify token request is valid. The scope query
// validates itself during JSON unmarshaling.
func (r *VerifyTokenRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Token,
			validation.Required,
		),
	)
}

// MapRateLimitToDomain converts the request override to the domain config.
func (r *RateLimitConfigRequest) MapRateLimitToDomain() *authDomain.RateLimitConfig {
	if r == nil {
		return nil
	}
	return &authDomain.RateLimitConfig{
		BucketSize:     r.BucketSize,
		RefillAmount:   r.RefillAmount,
		RefillInterval: time.Duration(r.RefillIntervalMS) * time.Millisecond,
	}
}
