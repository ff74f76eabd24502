package factory

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/mikey/llm-mail-triage/internal/adapters/bedrock"
	"github.com/mikey/llm-mail-triage/internal/adapters/gemini"
	"github.com/mikey/llm-mail-triage/internal/adapters/openai"
	"github.com/mikey/llm-mail-triage/internal/config"
	"github.com/mikey/llm-mail-triage/internal/core"
	"github.com/mikey/llm-mail-triage/internal/utils"
)

// LLMFactory creates LLM clients.
type LLMFactory struct {
	cfg           *config.Config
	logger        *zap.Logger
	taxonomy      *core.Taxonomy
	textProcessor *utils.TextProcessor
}

// NewLLMFactory creates a new LLM factory.
func NewLLMFactory(cfg *config.Config, logger *zap.Logger, taxonomy *core.Taxonomy, textProcessor *utils.TextProcessor) *LLMFactory {
	return &LLMFactory{
		cfg:           cfg,
		logger:        logger,
		taxonomy:      taxonomy,
		textProcessor: textProcessor,
	}
}

// CreateLLMClient creates a new LLM client based on the configuration.
func (f *LLMFactory) CreateLLMClient() (core.LLMClient, error) {
	llmConfig := f.cfg.GetLLM()

	switch llmConfig.Provider {
	case "openai":
		factory := openai.NewFactory(f.cfg, f.logger, f.taxonomy, f.textProcessor)
		return factory.CreateLLMClient()
	case "gemini":
		factory := gemini.NewFactory(f.cfg, f.logger, f.taxonomy, f.textProcessor)
		return factory.CreateLLMClient()
	case "bedrock":
		factory := bedrock.NewFactory(f.cfg, f.logger, f.taxonomy, f.textProcessor)
		return factory.CreateLLMClient()
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", llmConfig.Provider)
	}
}
