package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/keygate/keygate/internal/app"
	"github.com/keygate/keygate/internal/config"
)

// RunRotateSigningSecret rotates an API's signing secret. A zero grace makes
// the new secret the signer immediately and revokes the old one; a positive
// grace stages the new secret and keeps the old one signing until the grace
// window ends.
//
// Requirements: Database must be migrated and the custody backend reachable.
func RunRotateSigningSecret(
	ctx context.Context,
	apiID string,
	graceSeconds int64,
	format string,
	io IOTuple,
) error {
	apiUUID, err := uuid.Parse(apiID)
	if err != nil {
		return fmt.Errorf("invalid api ID: %w", err)
	}

	cfg := config.Load()
	container := app.NewContainer(cfg)
	logger := container.Logger()
	defer closeContainer(container, logger)

	signingSecretUseCase, err := container.SigningSecretUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize signing secret use case: %w", err)
	}

	grace := time.Duration(graceSeconds) * time.Second
	secret, err := signingSecretUseCase.Rotate(ctx, apiUUID, grace)
	if err != nil {
		return fmt.Errorf("failed to rotate signing secret: %w", err)
	}

	if format == "json" {
		outputJSON(map[string]any{
			"id":         secret.ID.String(),
			"api_id":     secret.APIID.String(),
			"status":     string(secret.Status),
			"created_at": secret.CreatedAt,
		}, io.Writer)
	} else {
		_, _ = fmt.Fprintf(io.Writer, "Signing secret rotated\n")
		_, _ = fmt.Fprintf(io.Writer, "  Secret ID: %s\n", secret.ID)
		_, _ = fmt.Fprintf(io.Writer, "  Status:    %s\n", secret.Status)
		if grace > 0 {
			_, _ = fmt.Fprintf(io.Writer, "  The previous secret remains usable for %s\n", grace)
		}
	}

	logger.Info("signing secret rotated",
		slog.String("api_id", apiUUID.String()),
		slog.String("secret_id", secret.ID.String()),
		slog.Duration("grace", grace),
	)
	return nil
}
