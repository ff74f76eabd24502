package config

import (
	"strings"
	"time"
)

// ModelRequestShape selects how a classification request is shaped for the
// configured model. It is decided once at configuration-load time, never
// re-derived per call.
type ModelRequestShape int

const (
	// ShapeStandard is the chat-style structured-output request: role
	// message array, temperature, response schema binding.
	ShapeStandard ModelRequestShape = iota
	// ShapeReasoningCompact is the request shape for reasoning-family
	// models: single concatenated text input, no sampling temperature,
	// completion-status checking on the response.
	ShapeReasoningCompact
)

// String returns a human-readable shape name for logging.
func (s ModelRequestShape) String() string {
	if s == ShapeReasoningCompact {
		return "reasoning-compact"
	}
	return "standard"
}

// LLMConfig represents the configuration for the LLM provider.
type LLMConfig struct {
	Provider string
}

// OpenAIConfig represents the configuration for OpenAI.
type OpenAIConfig struct {
	APIKey       string
	ModelName    string
	MaxTokens    int
	Temperature  float32
	TopP         float32
	MaxBodySize  int
	Timeout      time.Duration
	MaxRetries   int
	RequestShape ModelRequestShape
}

// GeminiConfig represents the configuration for Google Gemini.
type GeminiConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
	MaxBodySize int
}

// BedrockConfig represents the configuration for Amazon Bedrock.
type BedrockConfig struct {
	Region      string
	ModelID     string
	MaxTokens   int
	Temperature float32
	TopP        float32
	MaxBodySize int
}

// ClassificationConfig holds the batch classification settings.
type ClassificationConfig struct {
	IncludeExamples bool
	Concurrency     int
	MaxEmailsPerRun int
}

// CacheConfig holds the result cache settings.
type CacheConfig struct {
	Type       string
	Enabled    bool
	Capacity   int
	SQLitePath string
	MySQLDSN   string
}

// MailboxConfig holds the mailbox collaborator settings.
type MailboxConfig struct {
	Type        string
	FetchFilter string
}

// IMAPConfig holds the IMAP mailbox settings.
type IMAPConfig struct {
	Address  string
	Username string
	Password string
	Folder   string
}

// GetLLM returns the LLM provider configuration.
func (c *Config) GetLLM() LLMConfig {
	return LLMConfig{
		Provider: c.GetString("llm.provider"),
	}
}

// GetOpenAI returns the OpenAI configuration. The request shape is decided
// here, once, from the configured reasoning-model prefixes.
func (c *Config) GetOpenAI() OpenAIConfig {
	timeout, err := c.GetDuration("openai.timeout")
	if err != nil {
		timeout = 30 * time.Second
	}
	return OpenAIConfig{
		APIKey:       c.GetString("openai.api_key"),
		ModelName:    c.GetString("openai.model_name"),
		MaxTokens:    c.GetInt("openai.max_tokens"),
		Temperature:  float32(c.GetFloat64("openai.temperature")),
		TopP:         float32(c.GetFloat64("openai.top_p")),
		MaxBodySize:  c.GetInt("openai.max_body_size"),
		Timeout:      timeout,
		MaxRetries:   c.GetInt("openai.max_retries"),
		RequestShape: shapeForModel(c.GetString("openai.model_name"), c.GetStringSlice("openai.reasoning_model_prefixes")),
	}
}

// shapeForModel maps a model identifier to its request shape.
func shapeForModel(model string, reasoningPrefixes []string) ModelRequestShape {
	for _, prefix := range reasoningPrefixes {
		if strings.HasPrefix(model, prefix) {
			return ShapeReasoningCompact
		}
	}
	return ShapeStandard
}

// GetGemini returns the Gemini configuration.
func (c *Config) GetGemini() GeminiConfig {
	return GeminiConfig{
		APIKey:      c.GetString("gemini.api_key"),
		ModelName:   c.GetString("gemini.model_name"),
		MaxTokens:   c.GetInt("gemini.max_tokens"),
		Temperature: float32(c.GetFloat64("gemini.temperature")),
		TopP:        float32(c.GetFloat64("gemini.top_p")),
		MaxBodySize: c.GetInt("gemini.max_body_size"),
	}
}

// GetBedrock returns the Bedrock configuration.
func (c *Config) GetBedrock() BedrockConfig {
	return BedrockConfig{
		Region:      c.GetString("bedrock.region"),
		ModelID:     c.GetString("bedrock.model_id"),
		MaxTokens:   c.GetInt("bedrock.max_tokens"),
		Temperature: float32(c.GetFloat64("bedrock.temperature")),
		TopP:        float32(c.GetFloat64("bedrock.top_p")),
		MaxBodySize: c.GetInt("bedrock.max_body_size"),
	}
}

// GetClassification returns the batch classification configuration.
func (c *Config) GetClassification() ClassificationConfig {
	return ClassificationConfig{
		IncludeExamples: c.GetBool("classification.include_examples"),
		Concurrency:     c.GetInt("classification.concurrency"),
		MaxEmailsPerRun: c.GetInt("classification.max_emails_per_run"),
	}
}

// GetCache returns the cache configuration.
func (c *Config) GetCache() CacheConfig {
	return CacheConfig{
		Type:       c.GetString("cache.type"),
		Enabled:    c.GetBool("cache.enabled"),
		Capacity:   c.GetInt("cache.capacity"),
		SQLitePath: c.GetString("cache.sqlite_path"),
		MySQLDSN:   c.GetString("cache.mysql_dsn"),
	}
}

// GetMailbox returns the mailbox collaborator configuration.
func (c *Config) GetMailbox() MailboxConfig {
	return MailboxConfig{
		Type:        c.GetString("mailbox.type"),
		FetchFilter: c.GetString("mailbox.fetch_filter"),
	}
}

// GetIMAP returns the IMAP mailbox configuration.
func (c *Config) GetIMAP() IMAPConfig {
	return IMAPConfig{
		Address:  c.GetString("imap.address"),
		Username: c.GetString("imap.username"),
		Password: c.GetString("imap.password"),
		Folder:   c.GetString("imap.folder"),
	}
}
