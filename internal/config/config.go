package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/brianquiz/brianquiz/internal/llm"
	"github.com/brianquiz/brianquiz/internal/store"
)

// EnvPrefix prefixes every environment variable the app reads.
const EnvPrefix = "BRIANQUIZ"

// Storage drivers.
const (
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
)

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Storage Storage `mapstructure:"storage"`
	Log     Log     `mapstructure:"log"`
	Share   Share   `mapstructure:"share"`
	Quiz    Quiz    `mapstructure:"quiz"`
	LLM     LLM     `mapstructure:"llm"`
}

// Storage selects the persistence backend.
type Storage struct {
	Driver string `mapstructure:"driver"` // sqlite or redis
	Path   string `mapstructure:"path"`   // SQLite file; empty means the data directory default
	Redis  Redis  `mapstructure:"redis"`
}

// Redis configures the Redis backend.
type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// Log configures the file logger.
type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or pretty
	File   string `mapstructure:"file"`   // "-" for stderr
}

// Share configures share links.
type Share struct {
	BaseURL string `mapstructure:"base_url"`
}

// Quiz holds gameplay tunables.
type Quiz struct {
	SlotCount        int           `mapstructure:"slot_count"`
	MaxParticipants  int           `mapstructure:"max_participants"`
	DefaultTimeLimit int           `mapstructure:"default_time_limit"` // minutes
	CalculatingDelay time.Duration `mapstructure:"calculating_delay"`
}

// LLM configures the optional AI integration.
type LLM struct {
	Provider   string   `mapstructure:"provider"`
	Anthropic  Provider `mapstructure:"anthropic"`
	OpenAI     Provider `mapstructure:"openai"`
	Gemini     Provider `mapstructure:"gemini"`
	OpenRouter Provider `mapstructure:"openrouter"`
}

// Provider holds one vendor's credentials.
type Provider struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

// Options tells Load where to look. Zero values select the defaults.
type Options struct {
	// File is an explicit config file; empty searches the config directory.
	File string

	// EnvFile is loaded into the environment before reading; empty means ".env".
	EnvFile string
}

// Load reads configuration from an optional .env file, an optional
// config.yaml and BRIANQUIZ_* environment variables, in increasing order
// of precedence over the defaults.
func Load(opts Options) (*Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	_ = godotenv.Load(envFile) // .env is optional

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Provider keys keep their short names, e.g. BRIANQUIZ_GEMINI_API_KEY.
	for _, p := range []string{"anthropic", "openai", "gemini", "openrouter"} {
		up := strings.ToUpper(p)
		_ = v.BindEnv("llm."+p+".api_key", EnvPrefix+"_"+up+"_API_KEY")
		_ = v.BindEnv("llm."+p+".model", EnvPrefix+"_"+up+"_MODEL")
		_ = v.BindEnv("llm."+p+".base_url", EnvPrefix+"_"+up+"_BASE_URL")
	}
	_ = v.BindEnv("storage.path", EnvPrefix+"_DB", EnvPrefix+"_STORAGE_PATH")

	if opts.File != "" {
		v.SetConfigFile(opts.File)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(Dir())
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || opts.File != "" {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	if cfg.Storage.Path == "" || cfg.Log.File == "" {
		dir, err := store.DataDir()
		if err != nil {
			return nil, err
		}
		if cfg.Storage.Path == "" {
			cfg.Storage.Path = filepath.Join(dir, "brianquiz.db")
		}
		if cfg.Log.File == "" {
			cfg.Log.File = filepath.Join(dir, "brianquiz.log")
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("storage.driver", DriverSQLite)
	v.SetDefault("storage.path", "")
	v.SetDefault("storage.redis.addr", "localhost:6379")
	v.SetDefault("storage.redis.password", "")
	v.SetDefault("storage.redis.db", 0)
	v.SetDefault("storage.redis.prefix", "brianquiz:")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.file", "")

	v.SetDefault("share.base_url", "https://brianquiz.app/")

	v.SetDefault("quiz.slot_count", 3)
	v.SetDefault("quiz.max_participants", 100)
	v.SetDefault("quiz.default_time_limit", 45)
	v.SetDefault("quiz.calculating_delay", "1500ms")

	v.SetDefault("llm.provider", "")
	for _, p := range []string{"anthropic", "openai", "gemini", "openrouter"} {
		v.SetDefault("llm."+p+".api_key", "")
		v.SetDefault("llm."+p+".model", "")
		v.SetDefault("llm."+p+".base_url", "")
	}
}

// Validate rejects values the app cannot run with.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverSQLite, DriverRedis:
	default:
		return fmt.Errorf("storage.driver must be %q or %q, got %q", DriverSQLite, DriverRedis, c.Storage.Driver)
	}
	if c.Quiz.SlotCount < 1 {
		return fmt.Errorf("quiz.slot_count must be at least 1, got %d", c.Quiz.SlotCount)
	}
	if c.Quiz.MaxParticipants < 1 {
		return fmt.Errorf("quiz.max_participants must be at least 1, got %d", c.Quiz.MaxParticipants)
	}
	if c.Quiz.DefaultTimeLimit < 1 {
		return fmt.Errorf("quiz.default_time_limit must be at least 1, got %d", c.Quiz.DefaultTimeLimit)
	}
	if c.Quiz.CalculatingDelay < 0 {
		return fmt.Errorf("quiz.calculating_delay must not be negative")
	}
	return nil
}

// LLMConfig resolves the AI provider configuration. Explicit settings win;
// without a provider setting, the vendors' standard key variables are
// probed. ok is false when no usable provider is configured.
func (c *Config) LLMConfig() (cfg llm.Config, ok bool) {
	cfg = llm.DefaultConfig()
	overlay(&cfg.Anthropic.APIKey, &cfg.Anthropic.Model, nil, c.LLM.Anthropic)
	overlay(&cfg.OpenAI.APIKey, &cfg.OpenAI.Model, &cfg.OpenAI.BaseURL, c.LLM.OpenAI)
	overlay(&cfg.Gemini.APIKey, &cfg.Gemini.Model, nil, c.LLM.Gemini)
	overlay(&cfg.OpenRouter.APIKey, &cfg.OpenRouter.Model, &cfg.OpenRouter.BaseURL, c.LLM.OpenRouter)

	if c.LLM.Provider != "" {
		cfg.Provider = c.LLM.Provider
		return cfg, cfg.HasKey()
	}

	// No explicit provider: first configured key wins, then the environment.
	for _, p := range []struct {
		name string
		key  string
	}{
		{"gemini", cfg.Gemini.APIKey},
		{"openai", cfg.OpenAI.APIKey},
		{"anthropic", cfg.Anthropic.APIKey},
		{"openrouter", cfg.OpenRouter.APIKey},
	} {
		if p.key != "" {
			cfg.Provider = p.name
			return cfg, true
		}
	}
	return llm.DiscoverConfig()
}

func overlay(key, model, baseURL *string, p Provider) {
	if p.APIKey != "" {
		*key = p.APIKey
	}
	if p.Model != "" {
		*model = p.Model
	}
	if baseURL != nil && p.BaseURL != "" {
		*baseURL = p.BaseURL
	}
}

// Dir returns the directory searched for config.yaml.
func Dir() string {
	if d := os.Getenv("XDG_CONFIG_HOME"); d != "" {
		return filepath.Join(d, "brianquiz")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "brianquiz")
}
