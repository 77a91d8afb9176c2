package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Storage drivers accepted by STORAGE_DRIVER.
const (
	StorageSQLite = "sqlite"
	StorageRedis  = "redis"
	StorageFile   = "file"
	StorageMemory = "memory"
)

// LLM providers accepted by LLM_PROVIDER.
const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

type Config struct {
	AppPort  int    `mapstructure:"APP_PORT"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	StorageDriver string `mapstructure:"STORAGE_DRIVER"`
	StorageKey    string `mapstructure:"STORAGE_KEY"`
	DatabasePath  string `mapstructure:"DATABASE_PATH"`
	DataDir       string `mapstructure:"DATA_DIR"`
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	LLMProvider   string  `mapstructure:"LLM_PROVIDER"`
	OpenAIAPIKey  string  `mapstructure:"OPENAI_API_KEY"`
	OpenAIBaseURL string  `mapstructure:"OPENAI_BASE_URL"`
	OllamaURL     string  `mapstructure:"OLLAMA_URL"`
	Temperature   float64 `mapstructure:"TEMPERATURE"`

	InitialSystemPrompt string `mapstructure:"INITIAL_SYSTEM_PROMPT"`
	DefaultModel        string `mapstructure:"DEFAULT_MODEL"`
	AvailableModels     string `mapstructure:"AVAILABLE_MODELS"`

	CORSAllowedOrigins string `mapstructure:"CORS_ALLOWED_ORIGINS"`
}

// Models returns the model selector catalogue as a list.
func (c *Config) Models() []string {
	return splitList(c.AvailableModels)
}

// AllowedOrigins returns the CORS origins as a list.
func (c *Config) AllowedOrigins() []string {
	return splitList(c.CORSAllowedOrigins)
}

func LoadConfig() (*Config, error) {
	viper.SetDefault("APP_PORT", 8000)
	viper.SetDefault("LOG_LEVEL", "INFO")

	viper.SetDefault("STORAGE_DRIVER", StorageSQLite)
	viper.SetDefault("STORAGE_KEY", "ai-assistant-chats")
	viper.SetDefault("DATABASE_PATH", "./data/pocketchat.db")
	viper.SetDefault("DATA_DIR", "./data/kv")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)

	viper.SetDefault("LLM_PROVIDER", ProviderOpenAI)
	viper.SetDefault("OPENAI_API_KEY", "")
	viper.SetDefault("OPENAI_BASE_URL", "https://api.openai.com/v1")
	viper.SetDefault("OLLAMA_URL", "http://localhost:11434")
	viper.SetDefault("TEMPERATURE", 0.7)

	viper.SetDefault("INITIAL_SYSTEM_PROMPT", "You are a helpful, respectful and honest AI assistant. Answer the user's questions clearly and concisely.")
	viper.SetDefault("DEFAULT_MODEL", "gpt-3.5-turbo")
	viper.SetDefault("AVAILABLE_MODELS", "gpt-3.5-turbo,gpt-4,gpt-4-turbo")

	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")

	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
