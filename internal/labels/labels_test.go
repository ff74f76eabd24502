package labels

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mikey/llm-mail-triage/internal/core"
)

func TestLabelName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"work_projects", "Work Projects"},
		{"Security & 2FA", "Security & 2FA"},
		{"newsletters & reading", "Newsletters & Reading"},
		{"junk", "Junk"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LabelName(tt.in), "LabelName(%q)", tt.in)
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "lowercase and hyphenate",
			in:   []string{"Time Sensitive", "READ-LATER"},
			want: []string{"time-sensitive", "read-later"},
		},
		{
			name: "strips punctuation",
			in:   []string{"urgent!!", "q4/planning"},
			want: []string{"urgent", "q4planning"},
		},
		{
			name: "drops empty results",
			in:   []string{"!!!", "", "ok"},
			want: []string{"ok"},
		},
		{
			name: "bounds length",
			in:   []string{strings.Repeat("a", 80)},
			want: []string{strings.Repeat("a", 50)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(tt.in))
		})
	}
}

func newTestMatcher(t *testing.T) *Matcher {
	t.Helper()
	taxonomy, err := core.NewTaxonomy([]core.CategoryDefinition{
		{Name: "work_projects"},
		{Name: "Security & 2FA"},
	})
	require.NoError(t, err)
	return NewMatcher(taxonomy, zap.NewNop())
}

func TestAlreadyLabeled(t *testing.T) {
	m := newTestMatcher(t)

	tests := []struct {
		name   string
		labels []string
		want   bool
	}{
		{"no labels", nil, false},
		{"unrelated labels", []string{"inbox", "starred"}, false},
		{"normalized label", []string{"Work Projects"}, true},
		{"raw category name", []string{"work_projects"}, true},
		{"case-insensitive match", []string{"SECURITY & 2fa"}, true},
		{"whitespace trimmed", []string{"  Work Projects  "}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			email := &core.Email{ID: "e1", ExistingLabels: tt.labels}
			assert.Equal(t, tt.want, m.AlreadyLabeled(email))
		})
	}
}
