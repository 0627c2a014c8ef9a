// Package http provides HTTP handlers for workspace and API management.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/keygate/keygate/internal/httputil"
	"github.com/keygate/keygate/internal/registry/http/dto"
	registryUseCase "github.com/keygate/keygate/internal/registry/usecase"
	customValidation "github.com/keygate/keygate/internal/validation"
)

// WorkspaceHandler handles HTTP requests for workspace operations.
type WorkspaceHandler struct {
	workspaceUseCase registryUseCase.WorkspaceUseCase
	logger           *slog.Logger
}

// NewWorkspaceHandler creates a new workspace handler.
func NewWorkspaceHandler(workspaceUseCase registryUseCase.WorkspaceUseCase, logger *slog.Logger) *WorkspaceHandler {
	return &WorkspaceHandler{
		workspaceUseCase: workspaceUseCase,
		logger:           logger,
	}
}

// CreateHandler provisions a workspace together with its data encryption key.
// POST /v1/workspaces
func (h *WorkspaceHandler) CreateHandler(c *gin.Context) {
	var req dto.CreateWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	workspace, err := h.workspaceUseCase.Create(c.Request.Context(), req.Name)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapWorkspaceToResponse(workspace))
}

// GetHandler retrieves a workspace by ID.
// GET /v1/workspaces/:workspace_id
func (h *WorkspaceHandler) GetHandler(c *gin.Context) {
	workspaceID, err := uuid.Parse(c.Param("workspace_id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c, fmt.Errorf("invalid workspace_id: %w", err), h.logger)
		return
	}

	workspace, err := h.workspaceUseCase.Get(c.Request.Context(), workspaceID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapWorkspaceToResponse(workspace))
}
