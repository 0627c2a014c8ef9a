// Package http provides HTTP handlers for signing secret rotation and the
// JWKS discovery document.
package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/keygate/keygate/internal/httputil"
	"github.com/keygate/keygate/internal/signing/http/dto"
	signingUseCase "github.com/keygate/keygate/internal/signing/usecase"
	customValidation "github.com/keygate/keygate/internal/validation"
)

// SigningSecretHandler handles HTTP requests for signing secret operations.
type SigningSecretHandler struct {
	signingSecretUseCase signingUseCase.SigningSecretUseCase
	logger               *slog.Logger
}

// NewSigningSecretHandler creates a new signing secret handler.
func NewSigningSecretHandler(
	signingSecretUseCase signingUseCase.SigningSecretUseCase,
	logger *slog.Logger,
) *SigningSecretHandler {
	return &SigningSecretHandler{
		signingSecretUseCase: signingSecretUseCase,
		logger:               logger,
	}
}

// RotateHandler stages a new signing secret for the API.
// POST /v1/apis/:api_id/signing-secrets/rotate
// Returns 201 Created with the new secret's metadata, or 409 Conflict while
// a previous rotation is still in its grace window.
func (h *SigningSecretHandler) RotateHandler(c *gin.Context) {
	apiID, err := uuid.Parse(c.Param("api_id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c, fmt.Errorf("invalid api_id: %w", err), h.logger)
		return
	}

	var req dto.RotateSigningSecretRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	grace := time.Duration(req.GraceSeconds) * time.Second
	secret, err := h.signingSecretUseCase.Rotate(c.Request.Context(), apiID, grace)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapSigningSecretToResponse(secret))
}

// JWKSHandler serves the API's verification keys.
// GET /v1/apis/:api_id/.well-known/jwks.json
// Returns 200 OK with the current key and, during a grace window, the staged
// one. HMAC APIs get an empty key set.
func (h *SigningSecretHandler) JWKSHandler(c *gin.Context) {
	apiID, err := uuid.Parse(c.Param("api_id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c, fmt.Errorf("invalid api_id: %w", err), h.logger)
		return
	}

	set, err := h.signingSecretUseCase.JWKS(c.Request.Context(), apiID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, set)
}
