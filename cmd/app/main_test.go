package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

func commandNames(commands []*cli.Command) []string {
	names := make([]string, 0, len(commands))
	for _, command := range commands {
		names = append(names, command.Name)
	}
	return names
}

func findCommand(t *testing.T, root *cli.Command, name string) *cli.Command {
	t.Helper()
	for _, command := range root.Commands {
		if command.Name == name {
			return command
		}
	}
	t.Fatalf("command %q not found", name)
	return nil
}

func TestRootCommandStructure(t *testing.T) {
	root := newRootCommand()

	assert.Equal(t, "keygate", root.Name)
	assert.ElementsMatch(t, []string{
		"server",
		"migrate",
		"create-workspace",
		"create-api",
		"create-client",
		"rotate-signing-secret",
		"rotate-client-secret",
	}, commandNames(root.Commands))
}

func TestRotateCommandsCarryGraceFlag(t *testing.T) {
	root := newRootCommand()

	for _, name := range []string{"rotate-signing-secret", "rotate-client-secret"} {
		command := findCommand(t, root, name)

		var graceFlag cli.Flag
		for _, flag := range command.Flags {
			if flag.Names()[0] == "grace-seconds" {
				graceFlag = flag
			}
		}
		require.NotNil(t, graceFlag, "command %q", name)
		assert.IsType(t, &cli.IntFlag{}, graceFlag)
	}
}
