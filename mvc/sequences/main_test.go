package sequences

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"primerdesign/api/models/dtos"
	"primerdesign/api/services/sequences"
	"primerdesign/api/tests/common"
)

func TestGetSequence(t *testing.T) {
	cfg := common.InitConfig()
	cache := sequences.NewCache(sequences.ProviderFunc(func(_ context.Context, identifier string) (string, error) {
		if identifier == "BRCA1" {
			return "ggccAATTggcc", nil
		}
		return "", &sequences.SequenceFetchError{Identifier: identifier, Reason: "unknown identifier"}
	}), nil, zap.NewNop())

	t.Run("should resolve and summarize a sequence", func(t *testing.T) {
		pc, rec := common.SetUpEcho(cfg, http.MethodGet, "/sequences/brca1?includeSequence=true", nil)
		pc.Cache = cache
		pc.SetParamNames("identifier")
		pc.SetParamValues("brca1")

		require.NoError(t, GetSequence(pc))
		assert.Equal(t, http.StatusOK, rec.Code)

		dto, err := common.DecodeBody[dtos.SequenceResponseDTO](rec)
		require.NoError(t, err)
		assert.Equal(t, dtos.SequenceResponseDTO{
			Identifier: "BRCA1",
			Length:     12,
			GcPercent:  200.0 / 3,
			Sequence:   "GGCCAATTGGCC",
		}, dto)
	})

	t.Run("should return 404 for unknown identifiers", func(t *testing.T) {
		pc, rec := common.SetUpEcho(cfg, http.MethodGet, "/sequences/nope", nil)
		pc.Cache = cache
		pc.SetParamNames("identifier")
		pc.SetParamValues("nope")

		require.NoError(t, GetSequence(pc))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("overview lists cached identifiers only", func(t *testing.T) {
		pc, rec := common.SetUpEcho(cfg, http.MethodGet, "/sequences/overview", nil)
		pc.Cache = cache

		require.NoError(t, GetSequencesOverview(pc))
		dto, err := common.DecodeBody[dtos.SequencesOverviewDTO](rec)
		require.NoError(t, err)
		assert.Equal(t, 1, dto.Cache.Size)
		assert.Equal(t, 12, dto.Cache.TotalBases)
		assert.Equal(t, []string{"BRCA1"}, dto.Cache.Identifiers)
	})
}
