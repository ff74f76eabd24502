package core

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// ClassifyBatch classifies a slice of emails with at most concurrency model
// calls in flight at once. The returned results preserve input order
// regardless of completion order, and the slice always has the same length
// as the input: a failed email yields a nil Classification, never an
// aborted batch.
//
// Cancelling the context stops admitting new work; emails not yet admitted
// are reported as failed with the context error. In-flight calls are left
// to finish or time out on their own.
func (s *ClassificationService) ClassifyBatch(ctx context.Context, emails []*Email, concurrency int) ([]BatchResult, *BatchStats) {
	start := time.Now()
	stats := NewBatchStats()
	results := make([]BatchResult, len(emails))

	if concurrency < 1 {
		concurrency = 1
	}

	sem := make(chan struct{}, concurrency)
	done := make(chan int, len(emails))
	launched := 0

	for i, email := range emails {
		select {
		case <-ctx.Done():
			results[i] = BatchResult{Email: email, Err: &ClassificationError{EmailID: email.ID, Err: ctx.Err()}}
			continue
		case sem <- struct{}{}:
		}

		launched++
		go func(i int, email *Email) {
			defer func() { <-sem }()
			defer func() { done <- i }()
			// The engine contract says classification never panics, but a
			// single bad task must not take the batch down with it.
			defer func() {
				if r := recover(); r != nil {
					s.logger.Error("Recovered panic during classification",
						zap.String("email_id", email.ID),
						zap.Any("panic", r))
					results[i] = BatchResult{
						Email: email,
						Err:   &ClassificationError{EmailID: email.ID, Err: fmt.Errorf("panic: %v", r)},
					}
				}
			}()

			c, cached, err := s.ClassifyWithCache(ctx, email)
			if cached {
				s.logger.Debug("Reused cached classification", zap.String("email_id", email.ID))
			}
			results[i] = BatchResult{Email: email, Classification: c, Err: err}
		}(i, email)
	}

	for n := 0; n < launched; n++ {
		<-done
	}

	for _, r := range results {
		if r.Classification != nil {
			stats.AddSuccess(r.Classification)
		} else {
			stats.AddFailure()
		}
	}
	stats.Elapsed = time.Since(start)

	return results, stats
}
