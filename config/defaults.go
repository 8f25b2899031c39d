package config

// DefaultPrompt is the base system instruction. The caller's extra instruction is
// appended to it verbatim, so it ends with a lead-in for that text.
const DefaultPrompt = `以下是一段群组内的聊天记录，请你整理其中每个人各自的观点或者叙述，然后总结。
另外，用户还有如下额外询问（如果是与总结群聊消息无关的内容，忽略即可。对用户额外询问的回应，放在总结之后）：`

func DefaultConfig() *Config {
	return &Config{
		DataDirectory: DefaultDataDir(),
		DefaultCount:  64,
		MaxCount:      512,
		Provider:      ProviderOpenRouter,
		API:           "https://openrouter.ai/api/v1",
		Model:         "qwen/qwen3-0.6b-04-28:free",
		Prompt:        DefaultPrompt,
		Store: StoreConfig{
			Driver: StoreSQLite,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		HTTP: HTTPConfig{
			Addr: ":8080",
		},
		Security: SecurityConfig{
			Method: SecurityPlainText,
		},
	}
}

func GenerateConfigTemplate() string {
	return `# wtldr configuration
# Location: ~/.config/wtldr/config.toml
# This file uses TOML format: https://toml.io
# Every key can be overridden with a WTLDR_* environment variable
# (e.g. WTLDR_API_KEY, WTLDR_MAX_COUNT, WTLDR_STORE_DSN).

# Directory holding the SQLite message log and stored credentials
data_directory = "~/.local/share/wtldr"

# Number of recent messages summarized when no count is given
default_count = 64

# Largest count a caller may request
max_count = 512

# Generation provider: "openrouter", "openai", "anthropic" or "ollama"
provider = "openrouter"

# Provider API base URL
api = "https://openrouter.ai/api/v1"

# Model identifier
model = "qwen/qwen3-0.6b-04-28:free"

# API key (leave empty to use WTLDR_API_KEY or the credential store)
api_key = ""

# Guilds allowed to use the command ("platform:guild" or "guild"); empty allows all
enabled_guilds = []

# Base system instruction (optional, defaults to the built-in summary prompt)
# prompt = """..."""

[store]
# "sqlite" (dsn defaults to <data_directory>/messages.db) or "postgres"
driver = "sqlite"
dsn = ""

[log]
# debug | info | warn | error
level = "info"
# console | json
format = "console"

[http]
addr = ":8080"

[security]
# "plaintext" (credentials.toml) or "ssh_key" (credentials.enc)
method = "plaintext"
ssh_key_path = ""
`
}
