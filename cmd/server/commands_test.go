package main

import (
	"context"
	"testing"

	"github.com/phrazzld/studyhall/internal/config"
	"github.com/phrazzld/studyhall/internal/platform/postgres"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandTree(t *testing.T) {
	root := newRootCommand()

	serve, _, err := root.Find([]string{"serve"})
	require.NoError(t, err)
	assert.Equal(t, "serve", serve.Name())

	for _, sub := range []string{"up", "down", "status", "reset"} {
		cmd, _, err := root.Find([]string{"migrate", sub})
		require.NoError(t, err, sub)
		assert.Equal(t, sub, cmd.Name())
	}

	assert.NotNil(t, root.PersistentFlags().Lookup("config"))
	envFile := root.PersistentFlags().Lookup("env-file")
	require.NotNil(t, envFile)
	assert.Equal(t, ".env", envFile.DefValue)
}

func TestRunMigrationRequiresPostgres(t *testing.T) {
	cfg := &config.Config{
		Server:   config.ServerConfig{Port: 8080, LogLevel: "error"},
		Database: config.DatabaseConfig{Driver: driverMemory},
	}

	err := runMigration(context.Background(), cfg, postgres.MigrateUp)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres driver")
}

func TestServeRejectsInvalidConfig(t *testing.T) {
	t.Setenv("STUDYHALL_DATABASE_DRIVER", "sqlite")

	root := newRootCommand()
	root.SetArgs([]string{"serve", "--env-file", ""})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load configuration")
}
