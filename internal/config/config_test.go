package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestLoad_DefaultsWithEnvSecret(t *testing.T) {
	chdirTemp(t)
	t.Setenv("FOLIO_SECURITY_JWTSECRET", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, 10*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, "test-secret", cfg.Security.JWTSecret)
	assert.Equal(t, 168*time.Hour, cfg.Security.JWTTTL)
	assert.Equal(t, "minio", cfg.Storage.Driver)
	assert.Equal(t, int64(10<<20), cfg.Storage.MaxUploadBytes)
	assert.Equal(t, time.Hour, cfg.Storage.PresignTTL)
	assert.Equal(t, 24*time.Hour, cfg.Uploads.PendingTTL)
	assert.Equal(t, "folio:tasks", cfg.Worker.Stream)
	assert.True(t, cfg.Postgres.AutoMigrate)
}

func TestLoad_MissingSecret(t *testing.T) {
	chdirTemp(t)
	t.Setenv("FOLIO_SECURITY_JWTSECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwtsecret")
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := chdirTemp(t)
	content := []byte(`
environment: production
http:
  port: 9090
security:
  jwtsecret: from-file
  jwtttl: 2h
storage:
  driver: s3
  bucket: assets
allowcorsorigins:
  - https://example.com
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), content, 0o600))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, 2*time.Hour, cfg.Security.JWTTTL)
	assert.Equal(t, "s3", cfg.Storage.Driver)
	assert.Equal(t, "assets", cfg.Storage.Bucket)
	assert.Equal(t, []string{"https://example.com"}, cfg.AllowCORSOrigins)
}

func TestValidate_UnknownDriver(t *testing.T) {
	cfg := AppConfig{
		Security: SecurityConfig{JWTSecret: "x", JWTTTL: time.Hour},
		Storage:  StorageConfig{Driver: "ftp"},
	}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ftp")
}
