package sequences

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"primerdesign/api/models"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want models.Sequence
	}{
		{"plain", "ACGT", "ACGT"},
		{"lowercase and whitespace", " acg t\n\tgca\r\n", "ACGTGCA"},
		{"fasta header", ">NM_007294.4 BRCA1\nACGTAC\nGTTT\n", "ACGTACGTTT"},
		{"first record only", ">one\nAAAA\n>two\nCCCC\n", "AAAA"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize("X", tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeRejects(t *testing.T) {
	for name, raw := range map[string]string{
		"empty":         "",
		"header only":   ">header\n",
		"ambiguous N":   "ACGTNACGT",
		"protein":       "MKVLAAGIVG",
		"digits inside": "ACGT1ACGT",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Normalize("GENE", raw)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrSequenceFetch))

			var fetchErr *SequenceFetchError
			require.True(t, errors.As(err, &fetchErr))
			assert.Equal(t, "GENE", fetchErr.Identifier)
		})
	}

	_, err := Normalize("GENE", "ACGTNACGT")
	assert.Contains(t, err.Error(), "position 5")
}

func TestLooksLikeSequence(t *testing.T) {
	assert.True(t, LooksLikeSequence("ATGCGATCGTAGCTAGCTACG"))
	assert.True(t, LooksLikeSequence(">seq\nACGT"))
	assert.True(t, LooksLikeSequence("acgtacgtac gtacgt"))
	assert.False(t, LooksLikeSequence("BRCA1"))
	assert.False(t, LooksLikeSequence("ENSG00000012048"))
	assert.False(t, LooksLikeSequence("ACGT"))
}

func TestNormalizeIdentifier(t *testing.T) {
	assert.Equal(t, "BRCA1", NormalizeIdentifier("  brca1 "))
}
