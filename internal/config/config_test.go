package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points every lookup at empty temp directories.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	for _, k := range []string{
		"BRIANQUIZ_DB", "BRIANQUIZ_STORAGE_PATH", "BRIANQUIZ_STORAGE_DRIVER", "BRIANQUIZ_LLM_PROVIDER",
		"BRIANQUIZ_GEMINI_API_KEY", "BRIANQUIZ_OPENAI_API_KEY", "BRIANQUIZ_ANTHROPIC_API_KEY", "BRIANQUIZ_OPENROUTER_API_KEY",
		"GEMINI_API_KEY", "GOOGLE_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY",
	} {
		t.Setenv(k, "")
	}
	return dir
}

func TestLoadDefaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load(Options{EnvFile: filepath.Join(dir, "missing.env")})
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, filepath.Join(dir, "data", "brianquiz", "brianquiz.db"), cfg.Storage.Path)
	assert.Equal(t, filepath.Join(dir, "data", "brianquiz", "brianquiz.log"), cfg.Log.File)
	assert.Equal(t, 3, cfg.Quiz.SlotCount)
	assert.Equal(t, 100, cfg.Quiz.MaxParticipants)
	assert.Equal(t, 45, cfg.Quiz.DefaultTimeLimit)
	assert.Equal(t, 1500*time.Millisecond, cfg.Quiz.CalculatingDelay)
	assert.Equal(t, "brianquiz:", cfg.Storage.Redis.Prefix)
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := isolate(t)
	cfgDir := filepath.Join(dir, "config", "brianquiz")
	require.NoError(t, os.MkdirAll(cfgDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cfgDir, "config.yaml"), []byte(`
storage:
  driver: redis
  redis:
    addr: cache:6379
quiz:
  slot_count: 5
  calculating_delay: 2s
log:
  level: debug
`), 0o644))

	t.Setenv("BRIANQUIZ_QUIZ_SLOT_COUNT", "4")
	t.Setenv("BRIANQUIZ_DB", "/tmp/custom.db")

	cfg, err := Load(Options{EnvFile: filepath.Join(dir, "missing.env")})
	require.NoError(t, err)

	assert.Equal(t, DriverRedis, cfg.Storage.Driver)
	assert.Equal(t, "cache:6379", cfg.Storage.Redis.Addr)
	assert.Equal(t, 4, cfg.Quiz.SlotCount, "environment overrides the file")
	assert.Equal(t, 2*time.Second, cfg.Quiz.CalculatingDelay)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "/tmp/custom.db", cfg.Storage.Path)
}

func TestLoadDotEnv(t *testing.T) {
	dir := isolate(t)
	envFile := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("BRIANQUIZ_SHARE_BASE_URL=https://example.test/q\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("BRIANQUIZ_SHARE_BASE_URL") })

	cfg, err := Load(Options{EnvFile: envFile})
	require.NoError(t, err)
	assert.Equal(t, "https://example.test/q", cfg.Share.BaseURL)
}

func TestLoadExplicitFileMissing(t *testing.T) {
	dir := isolate(t)
	_, err := Load(Options{File: filepath.Join(dir, "nope.yaml"), EnvFile: filepath.Join(dir, "missing.env")})
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	dir := isolate(t)
	cfg, err := Load(Options{EnvFile: filepath.Join(dir, "missing.env")})
	require.NoError(t, err)

	bad := *cfg
	bad.Storage.Driver = "postgres"
	assert.Error(t, bad.Validate())

	bad = *cfg
	bad.Quiz.SlotCount = 0
	assert.Error(t, bad.Validate())
}

func TestLLMConfig(t *testing.T) {
	isolate(t)

	cfg := &Config{}
	_, ok := cfg.LLMConfig()
	assert.False(t, ok, "nothing configured")

	t.Setenv("OPENAI_API_KEY", "sk-env")
	lc, ok := cfg.LLMConfig()
	require.True(t, ok)
	assert.Equal(t, "openai", lc.Provider, "falls back to vendor variables")

	cfg.LLM.Anthropic.APIKey = "sk-ant"
	cfg.LLM.Anthropic.Model = "claude-sonnet"
	lc, ok = cfg.LLMConfig()
	require.True(t, ok)
	assert.Equal(t, "anthropic", lc.Provider, "configured key beats the environment")
	assert.Equal(t, "claude-sonnet", lc.Anthropic.Model)

	cfg.LLM.Provider = "gemini"
	_, ok = cfg.LLMConfig()
	assert.False(t, ok, "explicit provider without a key is unusable")
}
