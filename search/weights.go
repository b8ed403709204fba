package search

import (
	"strings"

	"github.com/poiesic/profiledb/core"
)

// categoryWeights favour hands-on experience over background sections.
var categoryWeights = map[core.Category]float64{
	core.CategoryWorkExperience: 1.5,
	core.CategoryProject:        1.4,
	core.CategorySkills:         1.3,
	core.CategoryCertification:  1.2,
	core.CategoryEducation:      1.1,
	core.CategoryAward:          1.1,
	core.CategoryCareerGoals:    1.0,
	core.CategoryPersonalInfo:   0.9,
	core.CategoryInterests:      0.8,
}

// CategoryWeight returns the semantic score multiplier for c (1.0 if unknown).
func CategoryWeight(c core.Category) float64 {
	if w, ok := categoryWeights[c]; ok {
		return w
	}
	return 1.0
}

// lexicon is the data/AI vocabulary that earns a semantic score bonus.
var lexicon = []string{
	"python", "pandas", "numpy", "scikit-learn", "tensorflow", "pytorch",
	"machine learning", "deep learning", "data science", "analytics",
	"sql", "spark", "hadoop", "kafka", "airflow", "tableau", "powerbi",
	"statistics", "regression", "classification", "clustering", "nlp",
	"computer vision", "recommendation", "time series", "a/b test",
}

const (
	lexiconBonusPerHit = 0.05
	lexiconBonusCap    = 0.3
)

// KeywordBonus returns 0.05 per lexicon term found in text (substring match,
// case-insensitive). The value is uncapped; BonusFactor applies the cap.
func KeywordBonus(text string) float64 {
	lower := strings.ToLower(text)
	bonus := 0.0
	for _, term := range lexicon {
		if strings.Contains(lower, term) {
			bonus += lexiconBonusPerHit
		}
	}
	return bonus
}

// BonusFactor turns a keyword bonus into a score multiplier, at most 1.3.
func BonusFactor(bonus float64) float64 {
	return 1 + min(bonus, lexiconBonusCap)
}
