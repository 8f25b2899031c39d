package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))
	return path
}

func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("XDG_DATA_HOME", "")
	return home
}

func TestDefaultConfigIsValidWithKey(t *testing.T) {
	cfg := DefaultConfig()
	cfg.APIKey = "sk-test"

	require.NoError(t, cfg.Validate())
	assert.Equal(t, 64, cfg.DefaultCount)
	assert.Equal(t, 512, cfg.MaxCount)
	assert.Equal(t, "https://openrouter.ai/api/v1", cfg.API)
	assert.Equal(t, DefaultPrompt, cfg.Prompt)
}

func TestLoadFromFile(t *testing.T) {
	isolateHome(t)
	dataDir := t.TempDir()
	path := writeConfig(t, `
data_directory = "`+dataDir+`"
default_count = 10
max_count = 20
provider = "ollama"
api = "http://localhost:11434"
model = "qwen3:0.6b"
enabled_guilds = ["onebot:123"]
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.DefaultCount)
	assert.Equal(t, 20, cfg.MaxCount)
	assert.Equal(t, ProviderOllama, cfg.Provider)
	assert.Equal(t, []string{"onebot:123"}, cfg.EnabledGuilds)
	assert.Equal(t, StoreSQLite, cfg.Store.Driver)
	assert.Equal(t, filepath.Join(dataDir, "messages.db"), cfg.Store.DSN)
	assert.Equal(t, DefaultPrompt, cfg.Prompt)
}

func TestLoadEnvOverrides(t *testing.T) {
	isolateHome(t)
	path := writeConfig(t, `
data_directory = "`+t.TempDir()+`"
api_key = "from-file"
`)

	t.Setenv("WTLDR_API_KEY", "from-env")
	t.Setenv("WTLDR_MAX_COUNT", "100")
	t.Setenv("WTLDR_ENABLED_GUILDS", "g1,g2")
	t.Setenv("WTLDR_LOG_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.APIKey)
	assert.Equal(t, 100, cfg.MaxCount)
	assert.Equal(t, []string{"g1", "g2"}, cfg.EnabledGuilds)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadAPIKeyFromCredentialStore(t *testing.T) {
	isolateHome(t)
	dataDir := t.TempDir()

	store := NewCredentialStore(SecurityPlainText, "")
	store.Set(ProviderOpenRouter, "sk-stored")
	require.NoError(t, store.Save(dataDir))

	cfg, err := Load(writeConfig(t, `data_directory = "`+dataDir+`"`))
	require.NoError(t, err)
	assert.Equal(t, "sk-stored", cfg.APIKey)
}

func TestLoadMissingAPIKey(t *testing.T) {
	isolateHome(t)
	_, err := Load(writeConfig(t, `data_directory = "`+t.TempDir()+`"`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api_key is required")
}

func TestReadSkipsValidation(t *testing.T) {
	isolateHome(t)
	dir := t.TempDir()
	cfg, err := Read(writeConfig(t, `data_directory = "`+dir+`"`))
	require.NoError(t, err)
	assert.Empty(t, cfg.APIKey)
	assert.Equal(t, filepath.Join(dir, "messages.db"), cfg.Store.DSN)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	isolateHome(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")
}

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	home := isolateHome(t)
	t.Setenv("WTLDR_API_KEY", "sk-env")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".local", "share", "wtldr"), cfg.DataDirectory)
	assert.Equal(t, 64, cfg.DefaultCount)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"zero default", func(c *Config) { c.DefaultCount = 0 }, "default_count"},
		{"max below default", func(c *Config) { c.MaxCount = 10; c.DefaultCount = 11 }, "max_count"},
		{"unknown provider", func(c *Config) { c.Provider = "bard" }, "unknown provider"},
		{"missing key", func(c *Config) { c.APIKey = "" }, "api_key"},
		{"ollama needs no key", func(c *Config) { c.APIKey = ""; c.Provider = ProviderOllama }, ""},
		{"unknown driver", func(c *Config) { c.Store.Driver = "mysql" }, "unknown store driver"},
		{"postgres needs dsn", func(c *Config) { c.Store.Driver = StorePostgres }, "store.dsn"},
		{"max equals default", func(c *Config) { c.MaxCount = c.DefaultCount }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.APIKey = "sk-test"
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCreateDefaultConfig(t *testing.T) {
	isolateHome(t)
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	require.NoError(t, CreateDefaultConfig(path))
	assert.Error(t, CreateDefaultConfig(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	// the template decodes cleanly; only the key is missing
	_, err = Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api_key")
}

func TestExpandPath(t *testing.T) {
	home := isolateHome(t)
	assert.Equal(t, filepath.Join(home, "data"), ExpandPath("~/data"))
	assert.Equal(t, "", ExpandPath(""))
	assert.Equal(t, "/tmp/x", ExpandPath("/tmp/x/"))
	assert.Equal(t, home, ExpandPath("~"))
}

func TestXDGDirectories(t *testing.T) {
	isolateHome(t)
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(xdg, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(xdg, "data"))

	assert.Equal(t, filepath.Join(xdg, "config", "wtldr", "config.toml"), GetConfigFilePath())
	assert.Equal(t, filepath.Join(xdg, "data", "wtldr"), DefaultConfig().DataDirectory)
}

func TestInitLogger(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.TraceLevel) })

	var buf bytes.Buffer
	logger := InitLogger("warn", "json", &buf)

	logger.Info().Msg("hidden")
	logger.Warn().Str("guild", "g1").Msg("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"guild":"g1"`)
	assert.Contains(t, out, `"message":"shown"`)
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLogLevel("DEBUG"))
	assert.Equal(t, zerolog.ErrorLevel, ParseLogLevel("error"))
	assert.Equal(t, zerolog.InfoLevel, ParseLogLevel("bogus"))
}
