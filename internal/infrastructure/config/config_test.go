package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sharedConfig "github.com/ibis1225/pet-ai/internal/shared/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("", "")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "Asia/Seoul", cfg.Server.Timezone)
	assert.Equal(t, sharedConfig.DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, sharedConfig.CounterBackendDatabase, cfg.Counter.Backend)
	assert.Equal(t, uint64(5), cfg.Counter.MaxRetries)
	assert.False(t, cfg.Redis.Enabled)
	assert.Same(t, cfg, Get())
}

func TestLoad_FileAndEnvironment(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9000
database:
  driver: postgres
  database: petai
notification:
  enabled: true
  recipients:
    - vet@example.com
`)
	t.Setenv("PETAI_SERVER_PORT", "9443")
	t.Setenv("PETAI_AUTH_JWT_SECRET", "an-override-secret-value")

	cfg, err := Load("production", path)
	require.NoError(t, err)

	assert.Equal(t, 9443, cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, sharedConfig.DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "an-override-secret-value", cfg.Auth.JWT.Secret)
	assert.Equal(t, []string{"vet@example.com"}, cfg.Notification.Recipients)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown driver", "database:\n  driver: oracle\n"},
		{"dynamodb without table", "counter:\n  backend: dynamodb\n"},
		{"short jwt secret", "auth:\n  jwt:\n    secret: short\n"},
		{"bad recipient", "notification:\n  recipients:\n    - not-an-email\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load("", writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load("", filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestModeForEnv(t *testing.T) {
	assert.Equal(t, "release", modeForEnv("prod"))
	assert.Equal(t, "test", modeForEnv("testing"))
	assert.Equal(t, "debug", modeForEnv("development"))
}
