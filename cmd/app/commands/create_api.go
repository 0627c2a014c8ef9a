package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/keygate/keygate/internal/app"
	"github.com/keygate/keygate/internal/config"
	registryDomain "github.com/keygate/keygate/internal/registry/domain"
)

// RunCreateAPI provisions a new API with its first active signing secret.
// A zero tokenExpirationSeconds means issued tokens use the system default
// lifetime. Outputs the API ID in either text or JSON format.
//
// Requirements: Database must be migrated and the custody backend reachable.
func RunCreateAPI(
	ctx context.Context,
	workspaceID string,
	name string,
	algorithm string,
	tokenExpirationSeconds int64,
	format string,
	io IOTuple,
) error {
	workspaceUUID, err := uuid.Parse(workspaceID)
	if err != nil {
		return fmt.Errorf("invalid workspace ID: %w", err)
	}

	var signingAlgorithm registryDomain.SigningAlgorithm
	switch algorithm {
	case "HS256":
		signingAlgorithm = registryDomain.HMACSHA256
	case "RS256":
		signingAlgorithm = registryDomain.RSASHA256
	default:
		return fmt.Errorf("invalid algorithm: %s (valid options: HS256, RS256)", algorithm)
	}

	cfg := config.Load()
	container := app.NewContainer(cfg)
	logger := container.Logger()
	defer closeContainer(container, logger)

	apiUseCase, err := container.APIUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize api use case: %w", err)
	}

	api, err := apiUseCase.Create(
		ctx,
		workspaceUUID,
		name,
		signingAlgorithm,
		time.Duration(tokenExpirationSeconds)*time.Second,
	)
	if err != nil {
		return fmt.Errorf("failed to create api: %w", err)
	}

	if format == "json" {
		outputJSON(map[string]any{
			"id":                        api.ID.String(),
			"workspace_id":              api.WorkspaceID.String(),
			"name":                      api.Name,
			"algorithm":                 string(api.Algorithm),
			"current_signing_secret_id": api.CurrentSigningSecretID.String(),
			"created_at":                api.CreatedAt,
		}, io.Writer)
	} else {
		_, _ = fmt.Fprintf(io.Writer, "API created\n")
		_, _ = fmt.Fprintf(io.Writer, "  ID:        %s\n", api.ID)
		_, _ = fmt.Fprintf(io.Writer, "  Name:      %s\n", api.Name)
		_, _ = fmt.Fprintf(io.Writer, "  Algorithm: %s\n", api.Algorithm)
	}

	logger.Info("api created",
		slog.String("api_id", api.ID.String()),
		slog.String("workspace_id", api.WorkspaceID.String()),
		slog.String("algorithm", string(api.Algorithm)),
	)
	return nil
}
