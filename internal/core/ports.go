package core

import (
	"context"
)

// LLMClient defines the interface for the model backends that produce a raw
// classification for a single email. Implementations shape the request for
// their provider and parse the structured response; priority boosting and
// category validation happen in the service on top.
type LLMClient interface {
	// ClassifyEmail classifies a single email. The returned classification
	// has not yet been post-processed against the taxonomy.
	ClassifyEmail(ctx context.Context, email *Email) (*Classification, error)
}

// ClassificationCache memoizes classifications by email id so the same
// message is never sent to the model twice. Eviction is strict FIFO on
// insertion order; a Put for an existing id overwrites the value but keeps
// the entry's original eviction position. Implementations must be safe for
// concurrent use.
type ClassificationCache interface {
	// Get retrieves a cached classification for an email id.
	Get(id string) (*Classification, bool)

	// Put stores a classification. When the cache is at capacity the
	// oldest-inserted entry is evicted first.
	Put(id string, c *Classification)

	// Has reports whether an id is cached.
	Has(id string) bool

	// Clear drops every entry.
	Clear()

	// Len returns the number of cached entries.
	Len() int
}

// MailboxFetcher supplies recent emails from the mailbox. Fetching, auth and
// retry policy live entirely in the adapter.
type MailboxFetcher interface {
	// FetchRecent returns up to limit recent emails matching the filter.
	FetchRecent(ctx context.Context, limit int, filter string) ([]*Email, error)
}

// LabelWriter applies a label (or keyword/category, depending on provider)
// to a message in the mailbox.
type LabelWriter interface {
	// ApplyLabel tags the message and reports whether the label was applied.
	ApplyLabel(ctx context.Context, emailID, labelName string) (bool, error)
}
