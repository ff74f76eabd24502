package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCategories() []CategoryDefinition {
	return []CategoryDefinition{
		{Name: "Personal & Social", Description: "Friends and family", Keywords: []string{"friend"}},
		{Name: "Security & 2FA", Description: "Verification codes", Keywords: []string{"code"}, PriorityBoost: 2},
		{Name: "Work & Projects", Description: "Meetings and projects", Keywords: []string{"meeting"}, PriorityBoost: 1},
		{Name: "Promotions & Junk", Description: "Marketing emails", Keywords: []string{"sale"}},
	}
}

func TestNewTaxonomy(t *testing.T) {
	tests := []struct {
		name       string
		categories []CategoryDefinition
		wantErr    bool
	}{
		{
			name:       "valid taxonomy",
			categories: testCategories(),
			wantErr:    false,
		},
		{
			name:       "empty taxonomy",
			categories: nil,
			wantErr:    true,
		},
		{
			name: "empty category name",
			categories: []CategoryDefinition{
				{Name: "Work"},
				{Name: "   "},
			},
			wantErr: true,
		},
		{
			name: "duplicate name differing only in case",
			categories: []CategoryDefinition{
				{Name: "Work"},
				{Name: "work"},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			taxonomy, err := NewTaxonomy(tt.categories)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, taxonomy)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, len(tt.categories), taxonomy.Len())
		})
	}
}

func TestTaxonomyDefault(t *testing.T) {
	taxonomy, err := NewTaxonomy(testCategories())
	require.NoError(t, err)

	assert.Equal(t, "Personal & Social", taxonomy.Default().Name)
}

func TestTaxonomyLookup(t *testing.T) {
	taxonomy, err := NewTaxonomy(testCategories())
	require.NoError(t, err)

	cat, ok := taxonomy.Lookup("security & 2fa")
	require.True(t, ok)
	assert.Equal(t, "Security & 2FA", cat.Name)
	assert.Equal(t, 2, cat.PriorityBoost)

	_, ok = taxonomy.Lookup("phishing-alert")
	assert.False(t, ok)
}

func TestTaxonomyNames(t *testing.T) {
	taxonomy, err := NewTaxonomy(testCategories())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Personal & Social",
		"Security & 2FA",
		"Work & Projects",
		"Promotions & Junk",
	}, taxonomy.Names())
}
