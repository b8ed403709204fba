package keyword

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bm25(tf, docLen, avg, n, df float64) float64 {
	idf := math.Log((n - df + 0.5) / (df + 0.5))
	return idf * (tf * (K1 + 1)) / (tf + K1*(1-B+B*docLen/avg))
}

func newIndex(t *testing.T, texts ...string) *Index {
	t.Helper()
	x := New()
	for i, text := range texts {
		require.NoError(t, x.Add(i, text))
	}
	return x
}

func TestIndexAddRequiresDenseIDs(t *testing.T) {
	x := New()
	require.NoError(t, x.Add(0, "python"))
	assert.Error(t, x.Add(2, "java"))
	assert.Equal(t, 1, x.Len())
}

func TestIndexScores(t *testing.T) {
	x := newIndex(t,
		"python python spark",
		"java backend",
		"golang services",
		"rust systems",
	)

	scores := x.Scores([]string{"python"})
	require.Len(t, scores, 4)

	// avg length = (3+2+2+2)/4
	want := bm25(2, 3, 9.0/4, 4, 1)
	assert.InDelta(t, want, scores[0], 1e-9)
	assert.Zero(t, scores[1])

	// repeated query tokens count per occurrence
	twice := x.Scores([]string{"python", "python"})
	assert.InDelta(t, 2*want, twice[0], 1e-9)
}

func TestIndexScoresGrowWithTermFrequency(t *testing.T) {
	// Every document has two tokens, so length and average stay fixed.
	x := newIndex(t,
		"python spark",
		"python python",
		"java backend",
		"golang services",
		"rust systems",
		"scala jobs",
	)

	scores := x.Scores([]string{"python"})
	require.Len(t, scores, 6)
	assert.Greater(t, scores[0], 0.0)
	assert.GreaterOrEqual(t, scores[1], scores[0])
	assert.InDelta(t, bm25(1, 2, 2, 6, 2), scores[0], 1e-9)
	assert.InDelta(t, bm25(2, 2, 2, 6, 2), scores[1], 1e-9)

	results := x.Search("python", 5, 0, nil)
	require.Len(t, results, 2)
	assert.Equal(t, 1, results[0].ID)
	assert.Equal(t, 0, results[1].ID)
}

func TestIndexIDFCanBeZero(t *testing.T) {
	x := newIndex(t, "python data", "java data")

	// df=1, N=2: ln(1.5/1.5) = 0
	scores := x.Scores([]string{"python"})
	assert.Zero(t, scores[0])
	assert.Empty(t, x.Search("python", 5, 0, nil))
}

func TestIndexDelete(t *testing.T) {
	x := newIndex(t, "python spark", "python pandas", "java backend", "golang grpc")
	assert.Equal(t, 2, x.DocFreq("python"))

	x.Delete(1)
	x.Delete(1) // no-op
	x.Delete(42)

	assert.Equal(t, 4, x.Len())
	assert.Equal(t, 3, x.LiveCount())
	assert.Equal(t, 1, x.DocFreq("python"))
	assert.Zero(t, x.DocFreq("pandas"))
	assert.InDelta(t, 2.0, x.AverageLength(), 1e-9)

	scores := x.Scores([]string{"python"})
	assert.Zero(t, scores[1])
	assert.InDelta(t, bm25(1, 2, 2, 3, 1), scores[0], 1e-9)
}

func TestIndexRebuild(t *testing.T) {
	x := newIndex(t, "python spark", "java backend")
	x.Delete(0)

	x.Rebuild([]string{"java backend", "golang grpc", "rust"})
	assert.Equal(t, 3, x.Len())
	assert.Equal(t, 3, x.LiveCount())
	assert.Zero(t, x.DocFreq("python"))
	assert.Equal(t, 1, x.DocFreq("golang"))
}

func TestIndexSearch(t *testing.T) {
	x := newIndex(t,
		"python spark airflow",
		"python",
		"java backend api",
		"golang grpc services",
		"kafka streaming",
	)

	t.Run("ranked best first", func(t *testing.T) {
		got := x.Search("python airflow", 5, 0, nil)
		require.Len(t, got, 2)
		assert.Equal(t, 0, got[0].ID)
		assert.Equal(t, 1, got[1].ID)
		assert.Greater(t, got[0].Score, got[1].Score)
	})

	t.Run("k limits results", func(t *testing.T) {
		got := x.Search("python airflow", 1, 0, nil)
		require.Len(t, got, 1)
		assert.Equal(t, 0, got[0].ID)
	})

	t.Run("min score is strict", func(t *testing.T) {
		all := x.Search("python", 5, 0, nil)
		require.NotEmpty(t, all)
		got := x.Search("python", 5, all[0].Score, nil)
		assert.Empty(t, got)
	})

	t.Run("keep filters", func(t *testing.T) {
		got := x.Search("python", 5, 0, func(id int) bool { return id != 0 })
		require.Len(t, got, 1)
		assert.Equal(t, 1, got[0].ID)
	})

	t.Run("no tokens", func(t *testing.T) {
		assert.Empty(t, x.Search("the and", 5, 0, nil))
	})

	t.Run("zero k", func(t *testing.T) {
		assert.Empty(t, x.Search("python", 0, 0, nil))
	})
}

func TestIndexEmpty(t *testing.T) {
	x := New()
	assert.Empty(t, x.Search("python", 5, 0, nil))
	assert.Empty(t, x.Scores([]string{"python"}))
	assert.Zero(t, x.AverageLength())
}
