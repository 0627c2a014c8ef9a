// Package main provides the entry point for the application with CLI commands.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/keygate/keygate/cmd/app/commands"
)

// newRootCommand builds the CLI command tree.
func newRootCommand() *cli.Command {
	return &cli.Command{
		Name:    "keygate",
		Usage:   "Multi-tenant OAuth2 client-credentials token service",
		Version: "1.0.0",
		Commands: []*cli.Command{
			{
				Name:  "server",
				Usage: "Start the HTTP server",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunServer(ctx)
				},
			},
			{
				Name:  "migrate",
				Usage: "Run database migrations",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunMigrations()
				},
			},
			{
				Name:  "create-workspace",
				Usage: "Create a new workspace with its data encryption key",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "name",
						Aliases:  []string{"n"},
						Required: true,
						Usage:    "Human-readable workspace name",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Value:   "text",
						Usage:   "Output format: 'text' or 'json'",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunCreateWorkspace(
						ctx,
						cmd.String("name"),
						cmd.String("format"),
						commands.DefaultIO(),
					)
				},
			},
			{
				Name:  "create-api",
				Usage: "Create a new API with its first active signing secret",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "workspace-id",
						Aliases:  []string{"w"},
						Required: true,
						Usage:    "Workspace ID (UUID)",
					},
					&cli.StringFlag{
						Name:     "name",
						Aliases:  []string{"n"},
						Required: true,
						Usage:    "Human-readable API name",
					},
					&cli.StringFlag{
						Name:    "algorithm",
						Aliases: []string{"alg"},
						Value:   "HS256",
						Usage:   "Token signing algorithm (HS256 or RS256)",
					},
					&cli.IntFlag{
						Name:    "token-expiration-seconds",
						Aliases: []string{"e"},
						Value:   0,
						Usage:   "Access token lifetime in seconds (0 uses the system default)",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Value:   "text",
						Usage:   "Output format: 'text' or 'json'",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunCreateAPI(
						ctx,
						cmd.String("workspace-id"),
						cmd.String("name"),
						cmd.String("algorithm"),
						int64(cmd.Int("token-expiration-seconds")),
						cmd.String("format"),
						commands.DefaultIO(),
					)
				},
			},
			{
				Name:  "create-client",
				Usage: "Create a new OAuth2 client with scope grants",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "workspace-id",
						Aliases:  []string{"w"},
						Required: true,
						Usage:    "Workspace ID (UUID)",
					},
					&cli.StringFlag{
						Name:     "api-id",
						Aliases:  []string{"a"},
						Required: true,
						Usage:    "API ID (UUID)",
					},
					&cli.StringFlag{
						Name:     "name",
						Aliases:  []string{"n"},
						Required: true,
						Usage:    "Human-readable client name",
					},
					&cli.StringFlag{
						Name:  "for-workspace-id",
						Usage: "Workspace this client administers (marks a root client)",
					},
					&cli.StringFlag{
						Name:    "scopes",
						Aliases: []string{"s"},
						Usage:   "Comma-separated scope names defined on the API",
					},
					&cli.StringFlag{
						Name:    "metadata",
						Aliases: []string{"m"},
						Usage:   "JSON object of string metadata (e.g., '{\"team\":\"payments\"}')",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Value:   "text",
						Usage:   "Output format: 'text' or 'json'",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunCreateClient(
						ctx,
						cmd.String("workspace-id"),
						cmd.String("api-id"),
						cmd.String("name"),
						cmd.String("for-workspace-id"),
						cmd.String("scopes"),
						cmd.String("metadata"),
						cmd.String("format"),
						commands.DefaultIO(),
					)
				},
			},
			{
				Name:  "rotate-signing-secret",
				Usage: "Rotate an API's signing secret",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "api-id",
						Aliases:  []string{"a"},
						Required: true,
						Usage:    "API ID (UUID)",
					},
					&cli.IntFlag{
						Name:    "grace-seconds",
						Aliases: []string{"g"},
						Value:   0,
						Usage:   "Seconds the previous secret remains usable (0 revokes immediately)",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Value:   "text",
						Usage:   "Output format: 'text' or 'json'",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunRotateSigningSecret(
						ctx,
						cmd.String("api-id"),
						int64(cmd.Int("grace-seconds")),
						cmd.String("format"),
						commands.DefaultIO(),
					)
				},
			},
			{
				Name:  "rotate-client-secret",
				Usage: "Rotate a client's secret",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "client-id",
						Aliases:  []string{"c"},
						Required: true,
						Usage:    "Client ID (UUID)",
					},
					&cli.IntFlag{
						Name:    "grace-seconds",
						Aliases: []string{"g"},
						Value:   0,
						Usage:   "Seconds the previous secret remains usable (0 revokes immediately)",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Value:   "text",
						Usage:   "Output format: 'text' or 'json'",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunRotateClientSecret(
						ctx,
						cmd.String("client-id"),
						int64(cmd.Int("grace-seconds")),
						cmd.String("format"),
						commands.DefaultIO(),
					)
				},
			},
		},
	}
}

func main() {
	if err := newRootCommand().Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.Any("error", err))
		os.Exit(1)
	}
}
