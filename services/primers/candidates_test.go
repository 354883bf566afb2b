package primers

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"primerdesign/api/models"
)

const scenarioTemplate = "ATGCGATCGTAGCTAGCTACGATCGATCGTAGCTAGCGATCGTAGCTAGCTAGCTACGATCG"

func scenarioParameters() models.DesignParameters {
	p := models.DefaultDesignParameters()
	p.PrimerLengthRange = models.IntRange{Min: 18, Max: 20}
	p.ProductSizeRange = models.IntRange{Min: 40, Max: 50}
	return p
}

func TestGenerateCandidates(t *testing.T) {
	params := scenarioParameters()

	candidates, err := GenerateCandidates(scenarioTemplate, params)
	require.NoError(t, err)
	assert.Len(t, candidates, 1782)

	first := candidates[0]
	assert.Equal(t, models.Primer{Sequence: scenarioTemplate[0:18], Start: 0, Length: 18}, first.Forward)
	assert.Equal(t, 20, first.Reverse.Start)
	assert.Equal(t, 20, first.Reverse.Length)
	assert.Equal(t, 40, first.ProductSize)

	t.Run("candidates respect every bound", func(t *testing.T) {
		for i, c := range candidates {
			assert.Equal(t, i, c.Order)
			assert.LessOrEqual(t, c.Forward.End(), c.Reverse.Start, "windows overlap")
			assert.Less(t, c.Forward.Start, c.Reverse.Start)
			assert.True(t, params.ProductSizeRange.Contains(c.ProductSize))
			assert.Equal(t, c.Reverse.End()-c.Forward.Start, c.ProductSize)
			assert.True(t, params.PrimerLengthRange.Contains(c.Forward.Length))
			assert.True(t, params.PrimerLengthRange.Contains(c.Reverse.Length))
			assert.Equal(t, scenarioTemplate[c.Forward.Start:c.Forward.End()], c.Forward.Sequence)
			assert.Equal(t, ReverseComplement(scenarioTemplate[c.Reverse.Start:c.Reverse.End()]), c.Reverse.Sequence)
		}
	})

	t.Run("order is forward start, reverse start, forward length, reverse length", func(t *testing.T) {
		key := func(c models.PrimerCandidate) [4]int {
			return [4]int{c.Forward.Start, c.Reverse.Start, c.Forward.Length, c.Reverse.Length}
		}
		for i := 1; i < len(candidates); i++ {
			prev, cur := key(candidates[i-1]), key(candidates[i])
			less := false
			for k := 0; k < 4; k++ {
				if prev[k] != cur[k] {
					less = prev[k] < cur[k]
					break
				}
			}
			assert.True(t, less, "candidate %d out of order", i)
		}
	})

	t.Run("generation is restartable", func(t *testing.T) {
		again, err := GenerateCandidates(scenarioTemplate, params)
		require.NoError(t, err)
		assert.Empty(t, cmp.Diff(candidates, again))
	})
}

func TestGenerateCandidatesSearchWindow(t *testing.T) {
	params := scenarioParameters()
	params.SearchWindow = &models.Window{Start: 5, End: 60}

	candidates, err := GenerateCandidates(scenarioTemplate, params)
	require.NoError(t, err)
	assert.Len(t, candidates, 1089)
	assert.Equal(t, 5, candidates[0].Forward.Start)
	assert.Equal(t, 25, candidates[0].Reverse.Start)

	for _, c := range candidates {
		assert.GreaterOrEqual(t, c.Forward.Start, 5)
		assert.LessOrEqual(t, c.Reverse.End(), 60)
	}
}

func TestCandidateGeneratorCap(t *testing.T) {
	params := scenarioParameters()
	all, err := GenerateCandidates(scenarioTemplate, params)
	require.NoError(t, err)

	params.MaxCandidates = 10
	g, err := NewCandidateGenerator(scenarioTemplate, params)
	require.NoError(t, err)

	var capped []models.PrimerCandidate
	for c, ok := g.Next(); ok; c, ok = g.Next() {
		capped = append(capped, c)
	}
	assert.Len(t, capped, 10)
	assert.True(t, g.Truncated())
	assert.Equal(t, 10, g.Emitted())
	assert.Empty(t, cmp.Diff(all[:10], capped))

	params.MaxCandidates = len(all)
	g, _ = NewCandidateGenerator(scenarioTemplate, params)
	for _, ok := g.Next(); ok; _, ok = g.Next() {
	}
	assert.False(t, g.Truncated())
}

func TestGenerateCandidatesShortTemplate(t *testing.T) {
	params := models.DefaultDesignParameters()
	short := models.Sequence("ATGCGATCGTAGCTAGCTACGATCGATCG")

	_, err := GenerateCandidates(short, params)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoCandidates))

	var noCandidates *NoCandidatesError
	require.True(t, errors.As(err, &noCandidates))
	assert.Equal(t, len(short), noCandidates.Length)
	assert.Equal(t, 100, noCandidates.RequiredSpan)
}
