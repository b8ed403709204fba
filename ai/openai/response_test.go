package openai

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanResponse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "already valid",
			in:   `{"terms": ["spark", "airflow"]}`,
			want: `{"terms": ["spark", "airflow"]}`,
		},
		{
			name: "code fence",
			in:   "```json\n{\"terms\": []}\n```",
			want: `{"terms": []}`,
		},
		{
			name: "missing opening quote on key",
			in:   `{terms": ["etl"]}`,
			want: `{"terms": ["etl"]}`,
		},
		{
			name: "trailing comma",
			in:   `{"terms": ["etl", "spark",]}`,
			want: `{"terms": ["etl", "spark"]}`,
		},
		{
			name: "comma inside string kept",
			in:   `{"terms": ["a,]"]}`,
			want: `{"terms": ["a,]"]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanResponse(tt.in))
		})
	}
}

func TestFilterTerms(t *testing.T) {
	got := filterTerms("Spark", []string{" airflow ", "spark", "", "Airflow", "kafka", "etl"}, 2)
	assert.Equal(t, []string{"airflow", "kafka"}, got)

	got = filterTerms("q", []string{"a", "b", "c"}, 0)
	assert.Equal(t, []string{"a", "b", "c"}, got)
}

func TestBuildSystemPrompt(t *testing.T) {
	assert.Contains(t, buildSystemPrompt(7), "up to 7 additional")
	assert.Contains(t, buildSystemPrompt(0), "up to 5 additional")
}
