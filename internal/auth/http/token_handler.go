package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/keygate/keygate/internal/auth/http/dto"
	authUseCase "github.com/keygate/keygate/internal/auth/usecase"
	"github.com/keygate/keygate/internal/httputil"
	customValidation "github.com/keygate/keygate/internal/validation"
)

// TokenHandler handles OAuth2 token issuance and verification requests.
type TokenHandler struct {
	tokenUseCase authUseCase.TokenUseCase
	logger       *slog.Logger
}

// NewTokenHandler creates a new token handler.
func NewTokenHandler(tokenUseCase authUseCase.TokenUseCase, logger *slog.Logger) *TokenHandler {
	return &TokenHandler{
		tokenUseCase: tokenUseCase,
		logger:       logger,
	}
}

// IssueHandler runs the client-credentials grant.
// POST /v1/oauth/token
// Accepts form-encoded bodies per RFC 6749 and JSON. Returns 401 for bad
// credentials and 429 when the client's token bucket is exhausted.
func (h *TokenHandler) IssueHandler(c *gin.Context) {
	var req dto.IssueTokenRequest
	if err := c.ShouldBind(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		httputil.HandleValidationErrorGin(c, fmt.Errorf("invalid client_id: %w", err), h.logger)
		return
	}

	token, err := h.tokenUseCase.Issue(c.Request.Context(), clientID, req.ClientSecret)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapAccessTokenToResponse(token))
}

// VerifyHandler checks a presented token against an optional scope query.
// POST /v1/tokens/verify
// Always returns 200 OK with valid=false for rejected tokens; non-200 status
// codes are reserved for malformed requests and internal failures.
func (h *TokenHandler) VerifyHandler(c *gin.Context) {
	var req dto.VerifyTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	verification, err := h.tokenUseCase.Verify(c.Request.Context(), req.Token, req.RequiredScopes)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapVerificationToResponse(verification))
}
