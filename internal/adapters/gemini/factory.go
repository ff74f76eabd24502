package gemini

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/mikey/llm-mail-triage/internal/config"
	"github.com/mikey/llm-mail-triage/internal/core"
	"github.com/mikey/llm-mail-triage/internal/prompt"
	"github.com/mikey/llm-mail-triage/internal/utils"
)

// Factory creates new instances of GeminiClient.
type Factory struct {
	cfg           *config.Config
	logger        *zap.Logger
	taxonomy      *core.Taxonomy
	textProcessor *utils.TextProcessor
}

// NewFactory creates a new factory for GeminiClient instances.
func NewFactory(cfg *config.Config, logger *zap.Logger, taxonomy *core.Taxonomy, textProcessor *utils.TextProcessor) *Factory {
	return &Factory{
		cfg:           cfg,
		logger:        logger,
		taxonomy:      taxonomy,
		textProcessor: textProcessor,
	}
}

// CreateLLMClient creates a new GeminiClient.
func (f *Factory) CreateLLMClient() (core.LLMClient, error) {
	geminiCfg := f.cfg.GetGemini()

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(geminiCfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	builder := prompt.NewBuilder(f.taxonomy, f.textProcessor, geminiCfg.MaxBodySize)

	f.logger.Info("Initialized Gemini client", zap.String("model", geminiCfg.ModelName))

	return NewGeminiClient(
		client,
		geminiCfg.ModelName,
		geminiCfg.MaxTokens,
		geminiCfg.Temperature,
		geminiCfg.TopP,
		builder,
		f.cfg.GetClassification().IncludeExamples,
		f.logger,
	), nil
}
