package labels

import (
	"strings"
	"unicode"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mikey/llm-mail-triage/internal/core"
)

// maxLabelLength bounds sanitized label names for provider compatibility.
const maxLabelLength = 50

var titleCaser = cases.Title(language.English)

// LabelName derives the mailbox label for a category name: underscores
// become spaces and each word is title-cased. This is the boundary contract
// with the label write-back collaborator.
func LabelName(category string) string {
	return titleCaser.String(strings.ReplaceAll(category, "_", " "))
}

// Sanitize normalizes model-suggested labels for mailbox compatibility:
// lowercase, spaces to hyphens, alphanumerics and hyphens only, bounded
// length. Labels that sanitize to nothing are dropped.
func Sanitize(raw []string) []string {
	sanitized := make([]string, 0, len(raw))
	for _, label := range raw {
		clean := strings.ReplaceAll(strings.ToLower(label), " ", "-")
		var sb strings.Builder
		for _, r := range clean {
			if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' {
				sb.WriteRune(r)
			}
		}
		clean = sb.String()
		if len(clean) > maxLabelLength {
			clean = clean[:maxLabelLength]
		}
		if clean != "" {
			sanitized = append(sanitized, clean)
		}
	}
	return sanitized
}

// Matcher checks whether an email already carries one of the labels this
// system applies, so it can be skipped instead of re-classified.
type Matcher struct {
	labelNames []string
	logger     *zap.Logger
}

// NewMatcher creates a matcher for the taxonomy's label names. Both the
// normalized label and the raw category name are matched, in case a
// provider stores the label differently.
func NewMatcher(taxonomy *core.Taxonomy, logger *zap.Logger) *Matcher {
	var names []string
	for _, cat := range taxonomy.Categories() {
		names = append(names, LabelName(cat.Name), cat.Name)
	}
	return &Matcher{
		labelNames: names,
		logger:     logger,
	}
}

// AlreadyLabeled reports whether the email carries a classification label,
// compared case-insensitively.
func (m *Matcher) AlreadyLabeled(email *core.Email) bool {
	for _, existing := range email.ExistingLabels {
		existing = strings.TrimSpace(existing)
		for _, name := range m.labelNames {
			if strings.EqualFold(existing, name) {
				if m.logger != nil {
					m.logger.Debug("Email already labeled",
						zap.String("email_id", email.ID),
						zap.String("label", existing))
				}
				return true
			}
		}
	}
	return false
}
