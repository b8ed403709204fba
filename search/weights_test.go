package search

import (
	"testing"

	"github.com/poiesic/profiledb/core"
	"github.com/stretchr/testify/assert"
)

func TestCategoryWeight(t *testing.T) {
	assert.Equal(t, 1.5, CategoryWeight(core.CategoryWorkExperience))
	assert.Equal(t, 1.4, CategoryWeight(core.CategoryProject))
	assert.Equal(t, 0.8, CategoryWeight(core.CategoryInterests))
	assert.Equal(t, 1.0, CategoryWeight(core.Category(99)))

	for _, c := range core.Categories {
		assert.Greater(t, CategoryWeight(c), 0.0, c.String())
	}
}

func TestKeywordBonus(t *testing.T) {
	tests := []struct {
		name string
		text string
		want float64
	}{
		{"none", "Java backend API", 0},
		{"one", "Python data pipeline", 0.05},
		{"case-insensitive", "PYTHON and SQL", 0.10},
		{"phrase", "Machine Learning with PyTorch", 0.10},
		{"uncapped", "python pandas numpy scikit-learn tensorflow pytorch spark kafka", 0.40},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, KeywordBonus(tt.text), 1e-9)
		})
	}
}

func TestBonusFactor(t *testing.T) {
	assert.Equal(t, 1.0, BonusFactor(0))
	assert.InDelta(t, 1.15, BonusFactor(0.15), 1e-9)
	assert.InDelta(t, 1.3, BonusFactor(0.4), 1e-9)
}
