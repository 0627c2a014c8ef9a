package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/keygate/keygate/internal/app"
	"github.com/keygate/keygate/internal/config"
)

// RunCreateWorkspace provisions a new workspace with its data encryption key.
// Outputs the workspace ID in either text or JSON format.
//
// Requirements: Database must be migrated and the custody backend reachable.
func RunCreateWorkspace(ctx context.Context, name, format string, io IOTuple) error {
	cfg := config.Load()
	container := app.NewContainer(cfg)
	logger := container.Logger()
	defer closeContainer(container, logger)

	workspaceUseCase, err := container.WorkspaceUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize workspace use case: %w", err)
	}

	workspace, err := workspaceUseCase.Create(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to create workspace: %w", err)
	}

	if format == "json" {
		outputJSON(map[string]any{
			"id":          workspace.ID.String(),
			"name":        workspace.Name,
			"data_key_id": workspace.DataKeyID.String(),
			"created_at":  workspace.CreatedAt,
		}, io.Writer)
	} else {
		_, _ = fmt.Fprintf(io.Writer, "Workspace created\n")
		_, _ = fmt.Fprintf(io.Writer, "  ID:   %s\n", workspace.ID)
		_, _ = fmt.Fprintf(io.Writer, "  Name: %s\n", workspace.Name)
	}

	logger.Info("workspace created",
		slog.String("workspace_id", workspace.ID.String()),
		slog.String("name", workspace.Name),
	)
	return nil
}
