package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")

	configData := []byte(`
PORT=:8080
ENVIRONMENT=development
VERSION=1.0.0
POSTGRES_HOST=localhost
POSTGRES_PORT=5432
POSTGRES_USER=testuser
POSTGRES_PASSWORD=testpassword
POSTGRES_DB=testdb
COS_BUCKET_URL=https://bucket-1250000000.cos.ap-guangzhou.myqcloud.com
COS_SECRET_ID=testid
COS_SECRET_KEY=testkey
LIMITER_ENABLED=true
LIMITER_RPS=2
LIMITER_BURST=4
`)
	err := os.WriteFile(path, configData, 0o600)
	assert.NoError(t, err)

	config, err := loadConfig(path)
	assert.NoError(t, err)

	assert.Equal(t, ":8080", config.Port)
	assert.Equal(t, "development", config.Environment)
	assert.Equal(t, "1.0.0", config.Version)
	assert.Equal(t, "localhost", config.DB.Host)
	assert.Equal(t, "5432", config.DB.Port)
	assert.Equal(t, "testuser", config.DB.User)
	assert.Equal(t, "testpassword", config.DB.Password)
	assert.Equal(t, "testdb", config.DB.Name)
	assert.Equal(t, "https://bucket-1250000000.cos.ap-guangzhou.myqcloud.com", config.COS.BucketURL)
	assert.Equal(t, "testid", config.COS.SecretID)
	assert.Equal(t, "testkey", config.COS.SecretKey)
	assert.True(t, config.Limiter.Enabled)
	assert.Equal(t, float64(2), config.Limiter.RPS)
	assert.Equal(t, 4, config.Limiter.Burst)

	_, err = loadConfig(filepath.Join(dir, "missing.env"))
	assert.Error(t, err)
}
