package di

import (
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/llm-mail-triage/internal/config"
	"github.com/mikey/llm-mail-triage/internal/core"
	"github.com/mikey/llm-mail-triage/internal/factory"
	"github.com/mikey/llm-mail-triage/internal/labels"
	"github.com/mikey/llm-mail-triage/internal/logging"
	"github.com/mikey/llm-mail-triage/internal/triage"
	"github.com/mikey/llm-mail-triage/internal/utils"
)

// BuildContainer creates and configures a dependency injection container.
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register taxonomy, validated once at load time
	if err := container.Provide(func(cfg *config.Config) (*core.Taxonomy, error) {
		return cfg.GetTaxonomy()
	}); err != nil {
		return nil, err
	}

	// Register text processor
	if err := container.Provide(utils.NewTextProcessor); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewLLMFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewCacheFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewMailboxFactory); err != nil {
		return nil, err
	}

	// Register LLM client
	if err := container.Provide(func(f *factory.LLMFactory) (core.LLMClient, error) {
		return f.CreateLLMClient()
	}); err != nil {
		return nil, err
	}

	// Register classification cache
	if err := container.Provide(func(f *factory.CacheFactory) (core.ClassificationCache, error) {
		return f.CreateCache()
	}); err != nil {
		return nil, err
	}

	// Register mailbox collaborators
	if err := container.Provide(func(f *factory.MailboxFactory) (core.MailboxFetcher, core.LabelWriter, error) {
		return f.CreateMailbox()
	}); err != nil {
		return nil, err
	}

	// Register classification service
	if err := container.Provide(func(
		llmClient core.LLMClient,
		cache core.ClassificationCache,
		taxonomy *core.Taxonomy,
		logger *zap.Logger,
		cacheFactory *factory.CacheFactory,
	) (*core.ClassificationService, error) {
		return core.NewClassificationService(llmClient, cache, taxonomy, logger, cacheFactory.IsCacheEnabled())
	}); err != nil {
		return nil, err
	}

	// Register label matcher
	if err := container.Provide(labels.NewMatcher); err != nil {
		return nil, err
	}

	// Register triage service
	if err := container.Provide(func(
		classifier *core.ClassificationService,
		fetcher core.MailboxFetcher,
		writer core.LabelWriter,
		matcher *labels.Matcher,
		logger *zap.Logger,
		cfg *config.Config,
	) *triage.Service {
		classificationCfg := cfg.GetClassification()
		mailboxCfg := cfg.GetMailbox()
		return triage.NewService(
			classifier,
			fetcher,
			writer,
			matcher,
			logger,
			classificationCfg.Concurrency,
			classificationCfg.MaxEmailsPerRun,
			mailboxCfg.FetchFilter,
		)
	}); err != nil {
		return nil, err
	}

	return container, nil
}
