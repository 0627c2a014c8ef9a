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

// RunRotateClientSecret rotates a client's secret. A zero grace revokes the
// old secret immediately; a positive grace keeps both usable and schedules
// the old one's expiry. The new plaintext secret is shown exactly once.
//
// Requirements: Database must be migrated and accessible.
func RunRotateClientSecret(
	ctx context.Context,
	clientID string,
	graceSeconds int64,
	format string,
	io IOTuple,
) error {
	clientUUID, err := uuid.Parse(clientID)
	if err != nil {
		return fmt.Errorf("invalid client ID: %w", err)
	}

	cfg := config.Load()
	container := app.NewContainer(cfg)
	logger := container.Logger()
	defer closeContainer(container, logger)

	clientUseCase, err := container.ClientUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize client use case: %w", err)
	}

	grace := time.Duration(graceSeconds) * time.Second
	secret, plainSecret, err := clientUseCase.RotateSecret(ctx, clientUUID, grace)
	if err != nil {
		return fmt.Errorf("failed to rotate client secret: %w", err)
	}

	if format == "json" {
		outputJSON(map[string]any{
			"secret_id":     secret.ID.String(),
			"client_id":     secret.ClientID.String(),
			"client_secret": plainSecret,
			"status":        string(secret.Status),
			"created_at":    secret.CreatedAt,
		}, io.Writer)
	} else {
		_, _ = fmt.Fprintf(io.Writer, "Client secret rotated\n")
		_, _ = fmt.Fprintf(io.Writer, "  Secret ID:     %s\n", secret.ID)
		_, _ = fmt.Fprintf(io.Writer, "  Client Secret: %s\n", plainSecret)
		if grace > 0 {
			_, _ = fmt.Fprintf(io.Writer, "  The previous secret remains usable for %s\n", grace)
		}
		_, _ = fmt.Fprintln(io.Writer)
		_, _ = fmt.Fprintln(io.Writer, "Store the client secret now. It cannot be retrieved again.")
	}

	logger.Info("client secret rotated",
		slog.String("client_id", clientUUID.String()),
		slog.String("secret_id", secret.ID.String()),
		slog.Duration("grace", grace),
	)
	return nil
}
