package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/phrazzld/pairmatch/internal/platform/migrate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_SQLiteUpAndDown(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "results.db")
	var stdout, stderr bytes.Buffer

	args := []string{"-env", filepath.Join(dir, "missing.env"), "-driver", "sqlite", "-url", dbPath, migrate.CommandUp}
	require.NoError(t, run(context.Background(), args, &stdout, &stderr))
	assert.Equal(t, "sqlite: schema version 1\n", stdout.String())

	stdout.Reset()
	args[len(args)-1] = migrate.CommandDown
	require.NoError(t, run(context.Background(), args, &stdout, &stderr))
	assert.Equal(t, "sqlite: schema version 0\n", stdout.String())
}

func TestRun_EnvFileConfiguresStorage(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "env.db")
	envPath := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envPath,
		[]byte("PAIRMATCH_STORAGE_DRIVER=sqlite\nPAIRMATCH_STORAGE_URL="+dbPath+"\n"), 0o600))
	t.Cleanup(func() {
		_ = os.Unsetenv("PAIRMATCH_STORAGE_DRIVER")
		_ = os.Unsetenv("PAIRMATCH_STORAGE_URL")
	})

	var stdout, stderr bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"-env", envPath, migrate.CommandUp}, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "schema version 1")

	_, err := os.Stat(dbPath)
	assert.NoError(t, err)
}

func TestRun_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "file.db")
	configPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath,
		[]byte("log:\n  level: debug\nstorage:\n  driver: sqlite\n  url: "+dbPath+"\n"), 0o600))

	var stdout, stderr bytes.Buffer
	args := []string{"-env", filepath.Join(dir, "missing.env"), "-config", configPath, migrate.CommandUp}
	require.NoError(t, run(context.Background(), args, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "sqlite: schema version 1")
	assert.Contains(t, stderr.String(), "running migration command")
}

func TestRun_Errors(t *testing.T) {
	dir := t.TempDir()
	noEnv := filepath.Join(dir, "missing.env")

	tests := []struct {
		name    string
		args    []string
		errText string
	}{
		{
			name:    "missing command",
			args:    []string{"-env", noEnv},
			errText: "expected one command",
		},
		{
			name:    "memory driver",
			args:    []string{"-env", noEnv, "-driver", "memory", migrate.CommandUp},
			errText: "no schema to migrate",
		},
		{
			name:    "unknown command",
			args:    []string{"-env", noEnv, "-driver", "sqlite", "-url", filepath.Join(dir, "x.db"), "sideways"},
			errText: "unknown migration command",
		},
		{
			name:    "unknown driver",
			args:    []string{"-env", noEnv, "-driver", "tape", "-url", "x", migrate.CommandUp},
			errText: `unknown storage driver "tape"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			err := run(context.Background(), tt.args, &stdout, &stderr)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errText)
		})
	}
}
