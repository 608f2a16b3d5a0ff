package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ying-Kai-Liao/hot-seat/logging"
)

func clearKeys(t *testing.T) {
	for _, k := range []string{"OPENAI_API_KEY", "ANTHROPIC_API_KEY", "ARK_API_KEY", "HOTSEAT_API_KEY"} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearKeys(t)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	v := NewViper("")
	require.NoError(t, ReadFile(v))
	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, Default().Discussion, cfg.Discussion)
	assert.Equal(t, ProviderOpenAI, cfg.Provider)
	assert.Empty(t, cfg.Model)
	assert.Empty(t, cfg.APIKey)
	assert.Equal(t, logging.LogLevelInfo, cfg.LogLevel())
}

func TestLoad_File(t *testing.T) {
	clearKeys(t)
	path := filepath.Join(t.TempDir(), "hotseat.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
provider: anthropic
model: claude-sonnet-4-20250514
discussion:
  max_rounds: 6
  interactive: true
catalog:
  dir: ./advisors
server:
  archive_dir: ./archive
logging:
  level: debug
  format: json
`), 0o644))

	v := NewViper(path)
	require.NoError(t, ReadFile(v))
	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, ProviderAnthropic, cfg.Provider)
	assert.Equal(t, 6, cfg.Discussion.MaxRounds)
	assert.Equal(t, 3, cfg.Discussion.SilenceCap)
	assert.True(t, cfg.Discussion.Interactive)
	assert.Equal(t, "./advisors", cfg.Catalog.Dir)
	assert.Equal(t, "./archive", cfg.Server.ArchiveDir)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, logging.LogLevelDebug, cfg.LogLevel())
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_MissingNamedFile(t *testing.T) {
	v := NewViper(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, ReadFile(v))
}

func TestLoad_Env(t *testing.T) {
	clearKeys(t)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOTSEAT_DISCUSSION_SILENCE_CAP", "5")
	t.Setenv("HOTSEAT_PROVIDER", "Anthropic")
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant")

	cfg, err := Load(NewViper(""))
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Discussion.SilenceCap)
	assert.Equal(t, ProviderAnthropic, cfg.Provider)
	assert.Equal(t, "sk-ant", cfg.APIKey)

	t.Setenv("HOTSEAT_API_KEY", "explicit")
	cfg, err = Load(NewViper(""))
	require.NoError(t, err)
	assert.Equal(t, "explicit", cfg.APIKey)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	assert.Empty(t, cfg.Validate())

	cfg.Provider = "cohere"
	cfg.Discussion.MaxRounds = 0
	cfg.Discussion.SilenceCap = -1
	cfg.Logging.Level = "loud"
	cfg.Logging.Format = "xml"

	errs := cfg.Validate()
	fields := make([]string, len(errs))
	for i, e := range errs {
		fields[i] = e.Field
	}
	assert.Equal(t, []string{"provider", "discussion.max_rounds", "discussion.silence_cap", "logging.level", "logging.format"}, fields)
	assert.Contains(t, ValidationErrors(errs).Error(), "5 validation errors")
	assert.Contains(t, ValidationErrors(errs[:1]).Error(), "provider: must be one of openai, anthropic, ark (got: cohere)")
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("HOTSEAT_TEST_ONLY=from-file\nHOTSEAT_TEST_KEEP=from-file\n"), 0o644))

	t.Setenv("HOTSEAT_TEST_KEEP", "from-env")
	t.Setenv("HOTSEAT_TEST_ONLY", "")
	require.NoError(t, os.Unsetenv("HOTSEAT_TEST_ONLY"))

	require.NoError(t, LoadDotEnv(path, filepath.Join(dir, "missing.env")))
	assert.Equal(t, "from-file", os.Getenv("HOTSEAT_TEST_ONLY"))
	assert.Equal(t, "from-env", os.Getenv("HOTSEAT_TEST_KEEP"))

	require.NoError(t, LoadDotEnv(filepath.Join(dir, "none.env")))
}

func TestConfigDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	assert.Equal(t, "/tmp/xdg/hot-seat", ConfigDir())
	assert.Equal(t, "/tmp/xdg/hot-seat/config.yaml", ConfigFile())
}

func TestProviderKeyEnv(t *testing.T) {
	assert.Equal(t, "OPENAI_API_KEY", ProviderKeyEnv(ProviderOpenAI))
	assert.Equal(t, "ANTHROPIC_API_KEY", ProviderKeyEnv(ProviderAnthropic))
	assert.Equal(t, "ARK_API_KEY", ProviderKeyEnv(ProviderArk))
}
