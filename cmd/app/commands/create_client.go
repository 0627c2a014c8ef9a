package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/keygate/keygate/internal/app"
	authDomain "github.com/keygate/keygate/internal/auth/domain"
	authUsecase "github.com/keygate/keygate/internal/auth/usecase"
	"github.com/keygate/keygate/internal/config"
)

// RunCreateClient registers a new OAuth2 client against an API. Scopes is a
// comma-separated list of scope names already defined on the API; metadataJSON
// is an optional JSON object of string values. Outputs the client ID and the
// plaintext secret, which is shown exactly once and never stored.
//
// Requirements: Database must be migrated and accessible.
func RunCreateClient(
	ctx context.Context,
	workspaceID string,
	apiID string,
	name string,
	forWorkspaceID string,
	scopes string,
	metadataJSON string,
	format string,
	io IOTuple,
) error {
	workspaceUUID, err := uuid.Parse(workspaceID)
	if err != nil {
		return fmt.Errorf("invalid workspace ID: %w", err)
	}
	apiUUID, err := uuid.Parse(apiID)
	if err != nil {
		return fmt.Errorf("invalid api ID: %w", err)
	}

	var forWorkspaceUUID *uuid.UUID
	if forWorkspaceID != "" {
		parsed, err := uuid.Parse(forWorkspaceID)
		if err != nil {
			return fmt.Errorf("invalid for-workspace ID: %w", err)
		}
		forWorkspaceUUID = &parsed
	}

	var metadata map[string]string
	if metadataJSON != "" {
		if err := json.Unmarshal([]byte(metadataJSON), &metadata); err != nil {
			return fmt.Errorf("failed to parse metadata JSON: %w", err)
		}
	}

	var scopeNames []string
	for _, scope := range strings.Split(scopes, ",") {
		scope = strings.TrimSpace(scope)
		if scope != "" {
			scopeNames = append(scopeNames, scope)
		}
	}

	cfg := config.Load()
	container := app.NewContainer(cfg)
	logger := container.Logger()
	defer closeContainer(container, logger)

	clientUseCase, err := container.ClientUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize client use case: %w", err)
	}

	client, plainSecret, err := clientUseCase.Create(ctx, authUsecase.CreateClientInput{
		WorkspaceID:    workspaceUUID,
		APIID:          apiUUID,
		Name:           name,
		ForWorkspaceID: forWorkspaceUUID,
		Metadata:       metadata,
		ScopeNames:     scopeNames,
	})
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	outputClientSecret(client, plainSecret, format, io)

	logger.Info("client created",
		slog.String("client_id", client.ID.String()),
		slog.String("api_id", client.APIID.String()),
		slog.String("name", name),
	)
	return nil
}

// outputClientSecret prints a client together with its one-time plaintext
// secret in either text or JSON format.
func outputClientSecret(client *authDomain.Client, plainSecret, format string, io IOTuple) {
	if format == "json" {
		outputJSON(map[string]any{
			"id":            client.ID.String(),
			"name":          client.Name,
			"client_secret": plainSecret,
			"created_at":    client.CreatedAt,
		}, io.Writer)
		return
	}

	_, _ = fmt.Fprintf(io.Writer, "Client created\n")
	_, _ = fmt.Fprintf(io.Writer, "  Client ID:     %s\n", client.ID)
	_, _ = fmt.Fprintf(io.Writer, "  Name:          %s\n", client.Name)
	_, _ = fmt.Fprintf(io.Writer, "  Client Secret: %s\n", plainSecret)
	_, _ = fmt.Fprintln(io.Writer)
	_, _ = fmt.Fprintln(io.Writer, "Store the client secret now. It cannot be retrieved again.")
}
