package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")

	cfg, err := Load(noEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, "projects_db", cfg.MongoDBName)
	assert.Equal(t, "projects", cfg.ProjectsCollection)
	assert.Equal(t, "tasks", cfg.TasksCollection)
	assert.Equal(t, "users", cfg.UsersCollection)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.MongoTransactions)
	assert.False(t, cfg.ReuseParentDocument)
	assert.False(t, cfg.RequireParent)
	assert.Equal(t, 5*time.Second, cfg.UsersBreakerTimeout)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 5*time.Second, cfg.CompensationTimeout)
}

func TestLoad_MissingMongoURI(t *testing.T) {
	t.Setenv("MONGO_URI", "")

	_, err := Load(noEnvFile(t))
	assert.EqualError(t, err, "MONGO_URI is not set")
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://mongo:27017")
	t.Setenv("MONGO_TRANSACTIONS", "true")
	t.Setenv("PROJECT_REUSE_PARENT_DOCUMENT", "1")
	t.Setenv("PROJECT_REQUIRE_PARENT", "true")
	t.Setenv("USERS_BREAKER_TIMEOUT", "2s")
	t.Setenv("SERVER_PORT", "8003")

	cfg, err := Load(noEnvFile(t))
	require.NoError(t, err)

	assert.True(t, cfg.MongoTransactions)
	assert.True(t, cfg.ReuseParentDocument)
	assert.True(t, cfg.RequireParent)
	assert.Equal(t, 2*time.Second, cfg.UsersBreakerTimeout)
	assert.Equal(t, "8003", cfg.ServerPort)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"bad bool", "MONGO_TRANSACTIONS", "sometimes"},
		{"bad duration", "REQUEST_TIMEOUT", "soon"},
		{"negative duration", "COMPENSATION_TIMEOUT", "-1s"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("MONGO_URI", "mongodb://localhost:27017")
			t.Setenv(tc.key, tc.value)

			_, err := Load(noEnvFile(t))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.key)
		})
	}
}

func TestLoad_EnvFile(t *testing.T) {
	t.Setenv("MONGO_URI", "")
	os.Unsetenv("MONGO_URI")
	t.Setenv("MONGO_DB_NAME", "")
	os.Unsetenv("MONGO_DB_NAME")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("MONGO_URI=mongodb://from-file:27017\nMONGO_DB_NAME=boards\n"), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "mongodb://from-file:27017", cfg.MongoURI)
	assert.Equal(t, "boards", cfg.MongoDBName)
}
