package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnv_MissingFileOK(t *testing.T) {
	assert.NoError(t, LoadEnv(filepath.Join(t.TempDir(), "nope.env")))
	assert.NoError(t, LoadEnv(""))
}

func TestLoadEnv_LoadsVariables(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("RFMKIT_TEST_VAR=hello\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("RFMKIT_TEST_VAR") })

	require.NoError(t, LoadEnv(path))
	assert.Equal(t, "hello", os.Getenv("RFMKIT_TEST_VAR"))
}

func TestOpen_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := Open(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}
