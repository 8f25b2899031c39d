package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the prefix of every environment override, e.g. WTLDR_API_KEY.
const EnvPrefix = "WTLDR"

// Provider IDs accepted in the `provider` setting.
const (
	ProviderOpenRouter = "openrouter"
	ProviderOpenAI     = "openai"
	ProviderAnthropic  = "anthropic"
	ProviderOllama     = "ollama"
)

// Store drivers accepted in [store].driver.
const (
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
)

type StoreConfig struct {
	Driver string `toml:"driver" envconfig:"DRIVER"`
	DSN    string `toml:"dsn" envconfig:"DSN"`
}

type LogConfig struct {
	Level  string `toml:"level" envconfig:"LEVEL"`
	Format string `toml:"format" envconfig:"FORMAT"`
}

type HTTPConfig struct {
	Addr string `toml:"addr" envconfig:"ADDR"`
}

type SecurityConfig struct {
	Method     SecurityMethod `toml:"method" envconfig:"METHOD"`
	SSHKeyPath string         `toml:"ssh_key_path" envconfig:"SSH_KEY_PATH"`
}

// Config is the immutable application configuration, loaded once at startup.
type Config struct {
	DataDirectory string   `toml:"data_directory" envconfig:"DATA_DIR"`
	DefaultCount  int      `toml:"default_count" envconfig:"DEFAULT_COUNT"`
	MaxCount      int      `toml:"max_count" envconfig:"MAX_COUNT"`
	Provider      string   `toml:"provider" envconfig:"PROVIDER"`
	API           string   `toml:"api" envconfig:"API"`
	Model         string   `toml:"model" envconfig:"MODEL"`
	APIKey        string   `toml:"api_key" envconfig:"API_KEY"`
	Prompt        string   `toml:"prompt" envconfig:"PROMPT"`
	EnabledGuilds []string `toml:"enabled_guilds" envconfig:"ENABLED_GUILDS"`

	Store    StoreConfig    `toml:"store" envconfig:"STORE"`
	Log      LogConfig      `toml:"log" envconfig:"LOG"`
	HTTP     HTTPConfig     `toml:"http" envconfig:"HTTP"`
	Security SecurityConfig `toml:"security" envconfig:"SECURITY"`
}

func (c *Config) DataDir() string {
	return ExpandPath(c.DataDirectory)
}

// RequiresAPIKey reports whether the configured provider authenticates with an API key.
func (c *Config) RequiresAPIKey() bool {
	return c.Provider != ProviderOllama
}

// Load reads the configuration file at path (or the default location when path is
// empty), applies WTLDR_* environment overrides, resolves the API key from the
// credential store when it is not set inline, and validates the result.
//
// A missing file at the default location is not an error: defaults and environment
// variables are enough to run.
func Load(path string) (*Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return nil, err
	}

	if cfg.APIKey == "" && cfg.RequiresAPIKey() {
		key, err := cfg.loadStoredAPIKey()
		if err != nil {
			return nil, err
		}
		cfg.APIKey = key
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Read is Load without credential resolution and validation. Commands that manage
// the configuration itself use it.
func Read(path string) (*Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = GetConfigFilePath()
	}

	switch {
	case FileExists(path):
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case explicit:
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	cfg.DataDirectory = cfg.DataDir()
	if cfg.Store.Driver == StoreSQLite && cfg.Store.DSN == "" {
		cfg.Store.DSN = filepath.Join(cfg.DataDirectory, "messages.db")
	}

	return cfg, nil
}

// Validate checks the invariants the summarization pipeline relies on.
func (c *Config) Validate() error {
	if c.DefaultCount < 1 {
		return fmt.Errorf("default_count must be a positive integer, got %d", c.DefaultCount)
	}
	if c.MaxCount < c.DefaultCount {
		return fmt.Errorf("max_count (%d) must be >= default_count (%d)", c.MaxCount, c.DefaultCount)
	}
	if !slices.Contains([]string{ProviderOpenRouter, ProviderOpenAI, ProviderAnthropic, ProviderOllama}, c.Provider) {
		return fmt.Errorf("unknown provider: %s", c.Provider)
	}
	if c.RequiresAPIKey() && c.APIKey == "" {
		return fmt.Errorf("api_key is required for provider %s (set api_key, %s_API_KEY or `wtldr credentials set`)", c.Provider, EnvPrefix)
	}
	if c.Store.Driver != StoreSQLite && c.Store.Driver != StorePostgres {
		return fmt.Errorf("unknown store driver: %s", c.Store.Driver)
	}
	if c.Store.Driver == StorePostgres && c.Store.DSN == "" {
		return fmt.Errorf("store.dsn is required for the postgres driver")
	}
	return nil
}

// CredentialStore returns the credential store configured in [security].
// The SSH key passphrase, if any, is read from WTLDR_SSH_PASSPHRASE.
func (c *Config) CredentialStore() *CredentialStore {
	store := NewCredentialStore(c.Security.Method, ExpandPath(c.Security.SSHKeyPath))
	if passphrase := os.Getenv(EnvPrefix + "_SSH_PASSPHRASE"); passphrase != "" {
		store.SetPassphrase(passphrase)
	}
	return store
}

func (c *Config) loadStoredAPIKey() (string, error) {
	store := c.CredentialStore()
	if err := store.Load(c.DataDirectory); err != nil {
		return "", fmt.Errorf("failed to load credentials: %w", err)
	}
	return store.Get(c.Provider), nil
}

// CreateDefaultConfig writes the commented config template to path unless a file
// already exists there.
func CreateDefaultConfig(path string) error {
	if err := EnsureDir(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if FileExists(path) {
		return fmt.Errorf("config already exists: %s", path)
	}

	// 0600 - the file may end up holding the API key
	if err := os.WriteFile(path, []byte(GenerateConfigTemplate()), 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
