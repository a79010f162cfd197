package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"API_PORT", "BACKEND_API_KEY", "CORS_ALLOWED_ORIGINS", "DATABASE_URL",
		"STORAGE_PROVIDER", "STORAGE_LOCAL_ROOT", "STORAGE_URL",
		"STORAGE_SERVICE_KEY", "STORAGE_BUCKET", "FFMPEG_PATH", "FFPROBE_PATH",
		"TEMP_DIR", "MAX_CONCURRENT_JOBS", "JOB_QUEUE_CAPACITY",
		"JOB_RETENTION_MINUTES",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.APIPort)
	assert.Equal(t, "local", cfg.StorageProvider)
	assert.Equal(t, "static/videos", cfg.StorageLocalRoot)
	assert.Equal(t, "ffmpeg", cfg.FFmpegPath)
	assert.Equal(t, "ffprobe", cfg.FFprobePath)
	assert.Equal(t, 4, cfg.MaxConcurrentJobs)
	assert.Equal(t, 64, cfg.JobQueueCapacity)
	assert.Equal(t, 60, cfg.JobRetentionMinutes)
	assert.Empty(t, cfg.DatabaseURL)
}

func TestLoadObjectProviderRequiresCredentials(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORAGE_PROVIDER", "object")

	_, err := Load()
	require.Error(t, err)

	t.Setenv("STORAGE_URL", "https://store.example.com")
	t.Setenv("STORAGE_SERVICE_KEY", "secret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "object", cfg.StorageProvider)
}

func TestLoadRejectsUnknownProvider(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORAGE_PROVIDER", "tape-robot")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadParsesWorkerSettings(t *testing.T) {
	clearEnv(t)
	t.Setenv("MAX_CONCURRENT_JOBS", "8")
	t.Setenv("JOB_RETENTION_MINUTES", "15")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.MaxConcurrentJobs)
	assert.Equal(t, 15, cfg.JobRetentionMinutes)
}
