package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/mikey/llm-mail-triage/internal/core"
)

// Config represents the application configuration. It wraps a viper
// instance; there is no process-wide singleton, the value is constructed
// once and passed down explicitly.
type Config struct {
	v *viper.Viper
}

// New creates a new configuration instance.
func New() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/llm-mail-triage/")
	v.AddConfigPath("$HOME/.llm-mail-triage")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvPrefix("MAIL_TRIAGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, using defaults
	}

	return &Config{v: v}, nil
}

// NewFromViper creates a new configuration instance from an existing Viper
// instance.
func NewFromViper(v *viper.Viper) *Config {
	return &Config{v: v}
}

// NewEmptyViper creates a new Viper instance with defaults.
func NewEmptyViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

// setDefaults sets the default configuration values.
func setDefaults(v *viper.Viper) {
	// LLM provider defaults
	v.SetDefault("llm.provider", "openai")

	// OpenAI defaults
	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.model_name", "gpt-4o-mini")
	v.SetDefault("openai.max_tokens", 4000)
	v.SetDefault("openai.temperature", 0.1)
	v.SetDefault("openai.top_p", 0.9)
	v.SetDefault("openai.max_body_size", 4096)
	v.SetDefault("openai.timeout", "30s")
	v.SetDefault("openai.max_retries", 2)
	v.SetDefault("openai.reasoning_model_prefixes", []string{"gpt-5", "o1", "o3"})

	// Gemini defaults
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model_name", "gemini-pro")
	v.SetDefault("gemini.max_tokens", 4000)
	v.SetDefault("gemini.temperature", 0.1)
	v.SetDefault("gemini.top_p", 0.9)
	v.SetDefault("gemini.max_body_size", 4096)

	// Bedrock defaults
	v.SetDefault("bedrock.region", "us-east-1")
	v.SetDefault("bedrock.model_id", "anthropic.claude-3-haiku-20240307-v1:0")
	v.SetDefault("bedrock.max_tokens", 4000)
	v.SetDefault("bedrock.temperature", 0.1)
	v.SetDefault("bedrock.top_p", 0.9)
	v.SetDefault("bedrock.max_body_size", 4096)

	// Classification defaults
	v.SetDefault("classification.include_examples", true)
	v.SetDefault("classification.concurrency", 5)
	v.SetDefault("classification.max_emails_per_run", 100)

	// Triage defaults; a zero interval means run once and exit
	v.SetDefault("triage.interval", "0s")

	// Mailbox defaults
	v.SetDefault("mailbox.type", "mock")
	v.SetDefault("mailbox.fetch_filter", "unlabeled")
	v.SetDefault("imap.address", "")
	v.SetDefault("imap.username", "")
	v.SetDefault("imap.password", "")
	v.SetDefault("imap.folder", "INBOX")

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.capacity", 1000)
	v.SetDefault("cache.sqlite_path", "/data/triage_cache.db")
	v.SetDefault("cache.mysql_dsn", "user:password@tcp(localhost:3306)/mail_triage")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// Default taxonomy; a real deployment overrides this with its own
	// categories block. The first entry is the fallback category.
	v.SetDefault("categories", defaultCategories)
}

var defaultCategories = []map[string]interface{}{
	{
		"name":           "Personal & Social",
		"description":    "Friends, family, casual personal communication, social events",
		"keywords":       []string{"friend", "family", "invite", "party"},
		"priority_boost": 0,
	},
	{
		"name":           "Security & 2FA",
		"description":    "Verification codes, password resets, security alerts, 2FA codes",
		"keywords":       []string{"verification", "code", "password", "security", "2fa"},
		"priority_boost": 2,
	},
	{
		"name":           "Work & Projects",
		"description":    "Meetings, projects, professional communication, team discussions",
		"keywords":       []string{"meeting", "project", "deadline", "review"},
		"priority_boost": 1,
	},
	{
		"name":           "Finance & Receipts",
		"description":    "Invoices, payment confirmations, bank statements, receipts",
		"keywords":       []string{"invoice", "payment", "receipt", "statement"},
		"priority_boost": 0,
	},
	{
		"name":           "Shipping & Delivery",
		"description":    "Order confirmations, shipping notifications, tracking information",
		"keywords":       []string{"order", "shipped", "tracking", "delivery"},
		"priority_boost": 0,
	},
	{
		"name":           "Newsletters & Reading",
		"description":    "Subscriptions, weekly digests, newsletters, reading material",
		"keywords":       []string{"newsletter", "digest", "unsubscribe"},
		"priority_boost": 0,
	},
	{
		"name":           "Promotions & Junk",
		"description":    "Marketing emails, advertisements, spam, promotional content",
		"keywords":       []string{"sale", "discount", "offer", "promotion"},
		"priority_boost": 0,
	},
}

// GetTaxonomy decodes and validates the configured categories. The core
// never reads configuration itself; this is the single place a taxonomy is
// built from config.
func (c *Config) GetTaxonomy() (*core.Taxonomy, error) {
	var categories []core.CategoryDefinition
	if err := c.v.UnmarshalKey("categories", &categories); err != nil {
		return nil, fmt.Errorf("failed to decode categories: %w", err)
	}
	taxonomy, err := core.NewTaxonomy(categories)
	if err != nil {
		return nil, fmt.Errorf("invalid taxonomy: %w", err)
	}
	return taxonomy, nil
}

// GetString gets a string value from the configuration.
func (c *Config) GetString(key string) string {
	return c.v.GetString(key)
}

// GetInt gets an integer value from the configuration.
func (c *Config) GetInt(key string) int {
	return c.v.GetInt(key)
}

// GetFloat64 gets a float64 value from the configuration.
func (c *Config) GetFloat64(key string) float64 {
	return c.v.GetFloat64(key)
}

// GetBool gets a boolean value from the configuration.
func (c *Config) GetBool(key string) bool {
	return c.v.GetBool(key)
}

// GetStringSlice gets a string slice value from the configuration.
func (c *Config) GetStringSlice(key string) []string {
	return c.v.GetStringSlice(key)
}

// GetDuration gets a duration value from the configuration.
func (c *Config) GetDuration(key string) (time.Duration, error) {
	return time.ParseDuration(c.GetString(key))
}

// GetViper returns the underlying Viper instance.
func (c *Config) GetViper() *viper.Viper {
	return c.v
}
