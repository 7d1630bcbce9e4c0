package main

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/studyhall/internal/api/middleware"
	"github.com/phrazzld/studyhall/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:            8080,
			LogLevel:        "error",
			ShutdownTimeout: time.Second,
		},
		Database:    config.DatabaseConfig{Driver: driverMemory},
		Progression: config.ProgressionConfig{PostXPReward: 10},
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewApplicationMemoryDriver(t *testing.T) {
	app, err := newApplication(context.Background(), memoryConfig(), discardLogger())
	require.NoError(t, err)
	t.Cleanup(app.cleanup)

	assert.NotNil(t, app.router)
	assert.NotNil(t, app.registry)
	assert.Empty(t, app.stores.closers, "memory store holds nothing to close")
}

func TestNewApplicationUnknownDriver(t *testing.T) {
	cfg := memoryConfig()
	cfg.Database.Driver = "sqlite"

	_, err := newApplication(context.Background(), cfg, discardLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}

func TestServeUntilCancelled(t *testing.T) {
	app, err := newApplication(context.Background(), memoryConfig(), discardLogger())
	require.NoError(t, err)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	base := "http://" + listener.Addr().String()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.serve(ctx, listener) }()

	resp, err := http.Get(base + "/health")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	req, err := http.NewRequest(http.MethodPost, base+"/api/posts", nil)
	require.NoError(t, err)
	req.Header.Set(middleware.UserIDHeader, uuid.NewString())
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
