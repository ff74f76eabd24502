package triage

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mikey/llm-mail-triage/internal/core"
	"github.com/mikey/llm-mail-triage/internal/labels"
)

// fetchOverscan is the factor applied to the per-run email cap when
// fetching. Already-labeled emails are dropped after fetching, so the fetch
// asks for more than the cap to still fill a batch from a partly labeled
// mailbox.
const fetchOverscan = 2

// Service coordinates one triage run: fetch recent emails, drop those that
// already carry a classification label, classify the rest as a bounded
// batch, and write the resulting labels back to the mailbox. A run fetches
// up to fetchOverscan times the configured cap and classifies at most the
// cap itself.
type Service struct {
	classifier  *core.ClassificationService
	fetcher     core.MailboxFetcher
	writer      core.LabelWriter
	matcher     *labels.Matcher
	logger      *zap.Logger
	concurrency int
	maxEmails   int
	fetchFilter string
}

// NewService creates a new triage service.
func NewService(
	classifier *core.ClassificationService,
	fetcher core.MailboxFetcher,
	writer core.LabelWriter,
	matcher *labels.Matcher,
	logger *zap.Logger,
	concurrency int,
	maxEmails int,
	fetchFilter string,
) *Service {
	return &Service{
		classifier:  classifier,
		fetcher:     fetcher,
		writer:      writer,
		matcher:     matcher,
		logger:      logger,
		concurrency: concurrency,
		maxEmails:   maxEmails,
		fetchFilter: fetchFilter,
	}
}

// Run executes a single triage pass and returns its statistics. A label
// write failure is logged against the email but does not undo its
// classification; a fetch failure aborts the run since there is nothing to
// classify.
func (s *Service) Run(ctx context.Context) (*core.BatchStats, error) {
	start := time.Now()

	fetchLimit := s.maxEmails * fetchOverscan
	fetched, err := s.fetcher.FetchRecent(ctx, fetchLimit, s.fetchFilter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch emails: %w", err)
	}

	emails := make([]*core.Email, 0, len(fetched))
	skipped := 0
	for _, email := range fetched {
		if s.matcher.AlreadyLabeled(email) {
			skipped++
			continue
		}
		if len(emails) >= s.maxEmails {
			break
		}
		emails = append(emails, email)
	}

	s.logger.Info("Starting triage run",
		zap.Int("fetched", len(fetched)),
		zap.Int("to_classify", len(emails)),
		zap.Int("already_labeled", skipped))

	if len(emails) == 0 {
		stats := core.NewBatchStats()
		for i := 0; i < skipped; i++ {
			stats.AddSkipped()
		}
		stats.Elapsed = time.Since(start)
		return stats, nil
	}

	results, stats := s.classifier.ClassifyBatch(ctx, emails, s.concurrency)
	for i := 0; i < skipped; i++ {
		stats.AddSkipped()
	}

	for _, r := range results {
		if r.Classification == nil {
			continue
		}
		labelName := labels.LabelName(r.Classification.Category)
		applied, err := s.writer.ApplyLabel(ctx, r.Email.ID, labelName)
		if err != nil {
			s.logger.Warn("Failed to apply label",
				zap.String("email_id", r.Email.ID),
				zap.String("label", labelName),
				zap.Error(err))
			continue
		}
		if !applied {
			s.logger.Warn("Label not applied, may need creation",
				zap.String("email_id", r.Email.ID),
				zap.String("label", labelName))
			continue
		}
		s.logger.Info("Classified email",
			zap.String("email_id", r.Email.ID),
			zap.String("category", r.Classification.Category),
			zap.Int("priority", r.Classification.Priority),
			zap.Float64("confidence", r.Classification.Confidence))
	}

	stats.Elapsed = time.Since(start)

	s.logger.Info("Triage run completed",
		zap.Int("total", stats.Total),
		zap.Int("successful", stats.Successful),
		zap.Int("failed", stats.Failed),
		zap.Int("skipped", stats.Skipped),
		zap.Float64("average_confidence", stats.AverageConfidence()),
		zap.Duration("elapsed", stats.Elapsed))

	return stats, nil
}
