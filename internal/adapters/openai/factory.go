package openai

import (
	"net/http"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/mikey/llm-mail-triage/internal/config"
	"github.com/mikey/llm-mail-triage/internal/core"
	"github.com/mikey/llm-mail-triage/internal/prompt"
	"github.com/mikey/llm-mail-triage/internal/utils"
)

// Factory creates new instances of OpenAIClient.
type Factory struct {
	cfg           *config.Config
	logger        *zap.Logger
	taxonomy      *core.Taxonomy
	textProcessor *utils.TextProcessor
}

// NewFactory creates a new factory for OpenAIClient instances.
func NewFactory(cfg *config.Config, logger *zap.Logger, taxonomy *core.Taxonomy, textProcessor *utils.TextProcessor) *Factory {
	return &Factory{
		cfg:           cfg,
		logger:        logger,
		taxonomy:      taxonomy,
		textProcessor: textProcessor,
	}
}

// CreateLLMClient creates a new OpenAIClient. The request timeout lives in
// the shared HTTP client so every in-flight call is bounded.
func (f *Factory) CreateLLMClient() (core.LLMClient, error) {
	openaiCfg := f.cfg.GetOpenAI()

	clientCfg := openai.DefaultConfig(openaiCfg.APIKey)
	clientCfg.HTTPClient = &http.Client{Timeout: openaiCfg.Timeout}
	client := openai.NewClientWithConfig(clientCfg)

	builder := prompt.NewBuilder(f.taxonomy, f.textProcessor, openaiCfg.MaxBodySize)

	f.logger.Info("Initialized OpenAI client",
		zap.String("model", openaiCfg.ModelName),
		zap.String("request_shape", openaiCfg.RequestShape.String()))

	return NewOpenAIClient(
		client,
		builder,
		openaiCfg,
		f.cfg.GetClassification().IncludeExamples,
		f.logger,
	), nil
}
