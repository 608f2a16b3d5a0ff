// Package config loads hot seat settings from defaults, an optional YAML
// file, a .env file and the environment.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/Ying-Kai-Liao/hot-seat/logging"
)

// EnvPrefix prefixes every environment override, e.g.
// HOTSEAT_DISCUSSION_MAX_ROUNDS for discussion.max_rounds.
const EnvPrefix = "HOTSEAT"

// Supported providers.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderArk       = "ark"
)

// Config is the complete configuration.
type Config struct {
	// Provider selects the inference backend: openai, anthropic or ark.
	Provider string `mapstructure:"provider"`
	// Model is the provider model identifier. OpenAI accepts "name:effort".
	// Empty selects the adapter's default.
	Model   string `mapstructure:"model"`
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`

	Ark        ArkConfig        `mapstructure:"ark"`
	Discussion DiscussionConfig `mapstructure:"discussion"`
	Catalog    CatalogConfig    `mapstructure:"catalog"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Server     ServerConfig     `mapstructure:"server"`
}

// ArkConfig holds Volcengine Ark credentials used instead of an API key.
type ArkConfig struct {
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Region    string `mapstructure:"region"`
}

// DiscussionConfig controls the round loop.
type DiscussionConfig struct {
	MaxRounds        int  `mapstructure:"max_rounds"`
	SilenceCap       int  `mapstructure:"silence_cap"`
	ModerationWindow int  `mapstructure:"moderation_window"`
	Interactive      bool `mapstructure:"interactive"`
	// StreamModeration forwards moderator reasoning to observers.
	StreamModeration bool `mapstructure:"stream_moderation"`
}

// CatalogConfig points at extra advisor definitions.
type CatalogConfig struct {
	Dir string `mapstructure:"dir"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ServerConfig controls the HTTP host.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
	// ArchiveDir keeps finished session exports on disk. Empty keeps them
	// in memory.
	ArchiveDir string `mapstructure:"archive_dir"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Provider: ProviderOpenAI,
		Ark:      ArkConfig{Region: "cn-beijing"},
		Discussion: DiscussionConfig{
			MaxRounds:        10,
			SilenceCap:       3,
			ModerationWindow: 8,
		},
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Server:  ServerConfig{Addr: ":8080"},
	}
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("provider", d.Provider)
	v.SetDefault("model", d.Model)
	v.SetDefault("api_key", d.APIKey)
	v.SetDefault("base_url", d.BaseURL)

	v.SetDefault("ark.access_key", d.Ark.AccessKey)
	v.SetDefault("ark.secret_key", d.Ark.SecretKey)
	v.SetDefault("ark.region", d.Ark.Region)

	v.SetDefault("discussion.max_rounds", d.Discussion.MaxRounds)
	v.SetDefault("discussion.silence_cap", d.Discussion.SilenceCap)
	v.SetDefault("discussion.moderation_window", d.Discussion.ModerationWindow)
	v.SetDefault("discussion.interactive", d.Discussion.Interactive)
	v.SetDefault("discussion.stream_moderation", d.Discussion.StreamModeration)

	v.SetDefault("catalog.dir", d.Catalog.Dir)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)

	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.archive_dir", d.Server.ArchiveDir)
}

// NewViper returns a viper instance with defaults, environment binding and
// the standard config file locations. configFile, when set, replaces the
// search path.
func NewViper(configFile string) *viper.Viper {
	v := viper.New()
	SetDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(ConfigDir())
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// ReadFile reads the config file if one exists. A missing file is not an
// error unless it was named explicitly.
func ReadFile(v *viper.Viper) error {
	err := v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		return nil
	}
	return err
}

// Load reads the configuration from v and validates it. A missing API key
// is filled from the provider's conventional environment variable.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.Provider = strings.ToLower(strings.TrimSpace(cfg.Provider))
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv(ProviderKeyEnv(cfg.Provider))
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}
	return &cfg, nil
}

// LoadDotEnv loads a .env file into the process environment without
// overriding variables that are already set. A missing file is ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	var existing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}

// ProviderKeyEnv is the environment variable conventionally holding the
// provider's API key.
func ProviderKeyEnv(provider string) string {
	switch provider {
	case ProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	case ProviderArk:
		return "ARK_API_KEY"
	default:
		return "OPENAI_API_KEY"
	}
}

// LogLevel returns the parsed logging level.
func (c *Config) LogLevel() logging.LogLevel {
	level, _ := logging.ParseLevel(c.Logging.Level)
	return level
}

// ConfigDir returns the path to the user's config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "hot-seat")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".hot-seat"
	}
	return filepath.Join(home, ".config", "hot-seat")
}

// ConfigFile returns the default config file path.
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}
