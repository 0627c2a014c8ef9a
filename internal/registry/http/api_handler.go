package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/keygate/keygate/internal/httputil"
	registryDomain "github.com/keygate/keygate/internal/registry/domain"
	"github.com/keygate/keygate/internal/registry/http/dto"
	registryUseCase "github.com/keygate/keygate/internal/registry/usecase"
	customValidation "github.com/keygate/keygate/internal/validation"
)

// APIHandler handles HTTP requests for API and scope operations.
type APIHandler struct {
	apiUseCase registryUseCase.APIUseCase
	logger     *slog.Logger
}

// NewAPIHandler creates a new API handler.
func NewAPIHandler(apiUseCase registryUseCase.APIUseCase, logger *slog.Logger) *APIHandler {
	return &APIHandler{
		apiUseCase: apiUseCase,
		logger:     logger,
	}
}

// CreateHandler registers an API with its first active signing secret.
// POST /v1/apis
func (h *APIHandler) CreateHandler(c *gin.Context) {
	var req dto.CreateAPIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	workspaceID, err := uuid.Parse(req.WorkspaceID)
	if err != nil {
		httputil.HandleValidationErrorGin(c, fmt.Errorf("invalid workspace_id: %w", err), h.logger)
		return
	}

	api, err := h.apiUseCase.Create(
		c.Request.Context(),
		workspaceID,
		req.Name,
		registryDomain.SigningAlgorithm(req.Algorithm),
		time.Duration(req.TokenExpirationSeconds)*time.Second,
	)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapAPIToResponse(api))
}

// GetHandler retrieves an API by ID.
// GET /v1/apis/:api_id
func (h *APIHandler) GetHandler(c *gin.Context) {
	apiID, err := uuid.Parse(c.Param("api_id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c, fmt.Errorf("invalid api_id: %w", err), h.logger)
		return
	}

	api, err := h.apiUseCase.Get(c.Request.Context(), apiID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapAPIToResponse(api))
}

// AddScopeHandler defines a new scope on the API.
// POST /v1/apis/:api_id/scopes
// Returns 409 Conflict when the name is already taken on this API.
func (h *APIHandler) AddScopeHandler(c *gin.Context) {
	apiID, err := uuid.Parse(c.Param("api_id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c, fmt.Errorf("invalid api_id: %w", err), h.logger)
		return
	}

	var req dto.CreateScopeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	scope, err := h.apiUseCase.AddScope(c.Request.Context(), apiID, req.Name, req.Description)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapApiScopeToResponse(scope))
}

// RemoveScopeHandler deletes a scope from the API. Existing grants drop out of
// clients' effective scopes immediately.
// DELETE /v1/apis/:api_id/scopes/:name
func (h *APIHandler) RemoveScopeHandler(c *gin.Context) {
	apiID, err := uuid.Parse(c.Param("api_id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c, fmt.Errorf("invalid api_id: %w", err), h.logger)
		return
	}

	if err := h.apiUseCase.RemoveScope(c.Request.Context(), apiID, c.Param("name")); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListScopesHandler lists the API's scopes ordered by name.
// GET /v1/apis/:api_id/scopes
func (h *APIHandler) ListScopesHandler(c *gin.Context) {
	apiID, err := uuid.Parse(c.Param("api_id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c, fmt.Errorf("invalid api_id: %w", err), h.logger)
		return
	}

	scopes, err := h.apiUseCase.ListScopes(c.Request.Context(), apiID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, gin.H{"scopes": dto.MapApiScopesToResponse(scopes)})
}
