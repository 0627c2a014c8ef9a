// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"
)

// RotateSigningSecretRequest contains the parameters for rotating an API's
// signing secret. A zero grace cuts over immediately.
type RotateSigningSecretRequest struct {
	GraceSeconds int64 `json:"grace_seconds"`
}

// Validate checks if the rotate signing secret request is valid.
func (r *RotateSigningSecretRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.GraceSeconds,
			validation.Min(int64(0)),
		),
	)
}
