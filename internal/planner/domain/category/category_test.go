package category_test

import (
	"testing"

	"github.com/felixgeelhaar/daybook/internal/planner/domain/category"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		description string
		want        string
	}{
		{"Reply to Anna's email", "communication"},
		{"Weekly sync meeting", "meeting"},
		{"Write quarterly report", "writing"},
		{"Develop the export feature", "development"},
		{"Review pull requests", "review"},
		{"Plan next sprint", "planning"},
		{"Study Go generics", "learning"},
		{"Water the plants", "general"},
		{"", "general"},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			assert.Equal(t, tt.want, category.Classify(tt.description))
		})
	}
}

func TestClassify_CaseInsensitive(t *testing.T) {
	assert.Equal(t, "writing", category.Classify("WRITE the summary"))
	assert.Equal(t, category.Classify("send EMAIL"), category.Classify("send email"))
}

func TestClassify_FirstRuleWins(t *testing.T) {
	// both "email" (communication) and "write" (writing) match; rule order
	// decides
	assert.Equal(t, "communication", category.Classify("write an email"))
}

func TestAll(t *testing.T) {
	all := category.All()
	assert.Len(t, all, 7)
	assert.Equal(t, "communication", all[0])
	assert.NotContains(t, all, category.General)
}
