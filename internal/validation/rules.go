// Package validation provides custom validation rules for the application.
package validation

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	apperrors "github.com/keygate/keygate/internal/errors"
)

var (
	// scopeNameRegex limits scope names to a URL- and JWT-safe charset,
	// e.g. "read:items" or "billing.invoices:write".
	scopeNameRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9._:\-]{0,127}$`)
)

// MaxMetadataBytes is the serialized size limit for client metadata.
const MaxMetadataBytes = 1024

// WrapValidationError wraps validation errors as domain ErrInvalidInput.
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// NotBlank validates that a string is not empty or whitespace-only.
var NotBlank = validation.By(func(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_not_blank", "must be a string")
	}
	if strings.TrimSpace(s) == "" {
		return validation.NewError("validation_not_blank", "cannot be blank")
	}
	return nil
})

// UUIDString validates that a string parses as a UUID.
var UUIDString = validation.By(func(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_uuid", "must be a string")
	}
	if _, err := uuid.Parse(s); err != nil {
		return validation.NewError("validation_uuid", "must be a valid UUID")
	}
	return nil
})

// ScopeName validates a scope name: lowercase alphanumerics plus ".", "_",
// ":" and "-", at most 128 characters.
var ScopeName = validation.By(func(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_scope_name", "scope name must be a string")
	}
	if !scopeNameRegex.MatchString(s) {
		return validation.NewError(
			"validation_scope_name",
			fmt.Sprintf("invalid scope name %q: must match %s", s, scopeNameRegex.String()),
		)
	}
	return nil
})

// ValidateMetadata checks a client metadata map against the serialized size
// limit. A nil or empty map is valid.
func ValidateMetadata(metadata map[string]string) error {
	if len(metadata) == 0 {
		return nil
	}
	raw, err := json.Marshal(metadata)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInvalidInput, "metadata must be JSON-serializable")
	}
	if len(raw) > MaxMetadataBytes {
		return apperrors.Wrap(
			apperrors.ErrInvalidInput,
			fmt.Sprintf("metadata exceeds %d bytes when serialized", MaxMetadataBytes),
		)
	}
	return nil
}

// MetadataSize validates that a metadata map serializes to at most
// MaxMetadataBytes bytes of JSON.
var MetadataSize = validation.By(func(value interface{}) error {
	if value == nil {
		return nil
	}
	m, ok := value.(map[string]any)
	if !ok {
		return validation.NewError("validation_metadata", "metadata must be an object")
	}
	if len(m) == 0 {
		return nil
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return validation.NewError("validation_metadata", "metadata must be JSON-serializable")
	}
	if len(raw) > MaxMetadataBytes {
		return validation.NewError(
			"validation_metadata",
			fmt.Sprintf("metadata exceeds %d bytes when serialized", MaxMetadataBytes),
		)
	}
	return nil
})
