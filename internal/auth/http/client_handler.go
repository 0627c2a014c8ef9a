// Package http provides HTTP handlers for client lifecycle, token issuance
// and token verification.
package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/keygate/keygate/internal/auth/http/dto"
	authUseCase "github.com/keygate/keygate/internal/auth/usecase"
	"github.com/keygate/keygate/internal/httputil"
	customValidation "github.com/keygate/keygate/internal/validation"
)

// ClientHandler handles HTTP requests for client operations.
type ClientHandler struct {
	clientUseCase authUseCase.ClientUseCase
	logger        *slog.Logger
}

// NewClientHandler creates a new client handler.
func NewClientHandler(clientUseCase authUseCase.ClientUseCase, logger *slog.Logger) *ClientHandler {
	return &ClientHandler{
		clientUseCase: clientUseCase,
		logger:        logger,
	}
}

// CreateHandler registers a client with its first secret and scope grants.
// POST /v1/clients
// The plaintext secret appears in this response only; afterwards only its
// Argon2id digest exists.
func (h *ClientHandler) CreateHandler(c *gin.Context) {
	var req dto.CreateClientRequest
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
	apiID, err := uuid.Parse(req.APIID)
	if err != nil {
		httputil.HandleValidationErrorGin(c, fmt.Errorf("invalid api_id: %w", err), h.logger)
		return
	}

	input := authUseCase.CreateClientInput{
		WorkspaceID: workspaceID,
		APIID:       apiID,
		Name:        req.Name,
		RateLimit:   req.RateLimit.MapRateLimitToDomain(),
		Metadata:    req.Metadata,
		ScopeNames:  req.Scopes,
	}
	if req.ForWorkspaceID != nil {
		forWorkspaceID, err := uuid.Parse(*req.ForWorkspaceID)
		if err != nil {
			httputil.HandleValidationErrorGin(c, fmt.Errorf("invalid for_workspace_id: %w", err), h.logger)
			return
		}
		input.ForWorkspaceID = &forWorkspaceID
	}

	client, plainSecret, err := h.clientUseCase.Create(c.Request.Context(), input)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.CreateClientResponse{
		Client:       dto.MapClientToResponse(client),
		ClientSecret: plainSecret,
	})
}

// GetHandler retrieves a client by ID.
// GET /v1/clients/:client_id
func (h *ClientHandler) GetHandler(c *gin.Context) {
	clientID, err := uuid.Parse(c.Param("client_id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c, fmt.Errorf("invalid client_id: %w", err), h.logger)
		return
	}

	client, err := h.clientUseCase.Get(c.Request.Context(), clientID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapClientToResponse(client))
}

// DeleteHandler soft-deletes a client. Outstanding tokens fail verification
// as soon as the cached copy expires.
// DELETE /v1/clients/:client_id
func (h *ClientHandler) DeleteHandler(c *gin.Context) {
	clientID, err := uuid.Parse(c.Param("client_id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c, fmt.Errorf("invalid client_id: %w", err), h.logger)
		return
	}

	if err := h.clientUseCase.Delete(c.Request.Context(), clientID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}

// RotateSecretHandler stages a new client secret.
// POST /v1/clients/:client_id/secrets/rotate
// Returns 201 Created with the staged secret and its plaintext, or 409
// Conflict while a previous rotation is still in its grace window.
func (h *ClientHandler) RotateSecretHandler(c *gin.Context) {
	clientID, err := uuid.Parse(c.Param("client_id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c, fmt.Errorf("invalid client_id: %w", err), h.logger)
		return
	}

	var req dto.RotateClientSecretRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	grace := time.Duration(req.GraceSeconds) * time.Second
	secret, plainSecret, err := h.clientUseCase.RotateSecret(c.Request.Context(), clientID, grace)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.RotateClientSecretResponse{
		Secret:       dto.MapClientSecretToResponse(secret),
		ClientSecret: plainSecret,
	})
}

// GrantScopeHandler grants an API scope to the client.
// POST /v1/clients/:client_id/scopes
func (h *ClientHandler) GrantScopeHandler(c *gin.Context) {
	clientID, err := uuid.Parse(c.Param("client_id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c, fmt.Errorf("invalid client_id: %w", err), h.logger)
		return
	}

	var req dto.GrantScopeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	if err := h.clientUseCase.GrantScope(c.Request.Context(), clientID, req.Name); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}

// RevokeScopeHandler revokes a scope grant. Takes effect on the next
// verification, before outstanding tokens expire.
// DELETE /v1/clients/:client_id/scopes/:name
func (h *ClientHandler) RevokeScopeHandler(c *gin.Context) {
	clientID, err := uuid.Parse(c.Param("client_id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c, fmt.Errorf("invalid client_id: %w", err), h.logger)
		return
	}

	if err := h.clientUseCase.RevokeScope(c.Request.Context(), clientID, c.Param("name")); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}
