package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectUnsupportedDriver(t *testing.T) {
	_, err := Connect(Config{
		Driver:           "sqlite3",
		ConnectionString: "file::memory:",
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}
