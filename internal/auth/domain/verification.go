package domain

import (
	"github.com/google/uuid"
)

// VerificationReason classifies why a token failed verification.
type VerificationReason string

const (
	// ReasonBadJWT marks a structurally malformed token.
	ReasonBadJWT VerificationReason = "BAD_JWT"

	// ReasonInvalidSignature marks a signature that matches neither the
	// current nor a staged signing secret.
	ReasonInvalidSignature VerificationReason = "INVALID_SIGNATURE"

	// ReasonExpired marks a token past its expiry claim.
	ReasonExpired VerificationReason = "EXPIRED"

	// ReasonSecretExpired marks a token signed with a revoked signing secret.
	ReasonSecretExpired VerificationReason = "SECRET_EXPIRED"

	// ReasonVersionMismatch marks a token issued under a client version that
	// has since been invalidated.
	ReasonVersionMismatch VerificationReason = "VERSION_MISMATCH"

	// ReasonNotFound marks a token whose client or API no longer resolves.
	ReasonNotFound VerificationReason = "NOT_FOUND"

	// ReasonForbidden marks a token whose client lacks the required scopes.
	ReasonForbidden VerificationReason = "FORBIDDEN"
)

// Verification is the non-throwing verify result. Business-rule failures
// surface as Valid=false with a reason, never as an error; errors are
// reserved for infrastructure failures.
type Verification struct {
	Valid   bool
	Reason  VerificationReason
	Message string

	// Populated when Valid.
	ClientID  uuid.UUID
	Scopes    []string
	Metadata  map[string]string
	RateLimit *RateLimitConfig
}

// Invalid builds a failed verification.
func Invalid(reason VerificationReason, message string) *Verification {
	return &Verification{Reason: reason, Message: message}
}
