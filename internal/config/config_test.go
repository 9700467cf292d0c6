package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `{
		"port": 9090,
		"database_url": "postgres://localhost/portals",
		"qr_size": 512,
		"render_pdf": true
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "postgres://localhost/portals", cfg.DatabaseURL)
	assert.Equal(t, 512, cfg.QRSize)
	assert.True(t, cfg.RenderPDF)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig("")
	assert.Error(t, err)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	_, err = LoadConfig(writeConfig(t, "not json"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, (&Config{Port: 8080}).Validate())
	assert.Error(t, (&Config{Port: -1}).Validate())
	assert.Error(t, (&Config{Port: 70000}).Validate())
	assert.Error(t, (&Config{QRSize: -5}).Validate())
	assert.Error(t, (&Config{DeployToken: "tok"}).Validate())
	assert.NoError(t, (&Config{DeployURL: "https://deploy", DeployToken: "tok"}).Validate())
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := Config{Port: 9090, DeployURL: "https://deploy"}
	defaults := Config{
		Port:         8080,
		DatabaseURL:  "postgres://localhost/portals",
		GeminiAPIKey: "key",
		DeployURL:    "https://other",
		QRSize:       256,
	}

	merged := cfg.MergeWithDefaults(defaults)
	assert.Equal(t, 9090, merged.Port, "explicit value wins")
	assert.Equal(t, "https://deploy", merged.DeployURL, "explicit value wins")
	assert.Equal(t, "postgres://localhost/portals", merged.DatabaseURL, "default fills the gap")
	assert.Equal(t, "key", merged.GeminiAPIKey)
	assert.Equal(t, 256, merged.QRSize)
}

func TestFromEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://env/db")
	t.Setenv("GEMINI_API_KEY", "env-key")
	t.Setenv("DEPLOY_URL", "https://env-deploy")
	t.Setenv("DEPLOY_TOKEN", "env-token")

	cfg := FromEnv()
	assert.Equal(t, "postgres://env/db", cfg.DatabaseURL)
	assert.Equal(t, "env-key", cfg.GeminiAPIKey)
	assert.Equal(t, "https://env-deploy", cfg.DeployURL)
	assert.Equal(t, "env-token", cfg.DeployToken)
}
