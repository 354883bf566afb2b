package design

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"primerdesign/api/models"
	designSource "primerdesign/api/models/constants/design-source"
	designStatus "primerdesign/api/models/constants/design-status"
	responseStatus "primerdesign/api/models/constants/response-status"
	"primerdesign/api/services/primers"
	"primerdesign/api/services/sequences"
)

const scenarioTemplate = "ATGCGATCGTAGCTAGCTACGATCGATCGTAGCTAGCGATCGTAGCTAGCTAGCTACGATCG"

func scenarioParameters() models.DesignParameters {
	p := models.DefaultDesignParameters()
	p.PrimerLengthRange = models.IntRange{Min: 18, Max: 20}
	p.ProductSizeRange = models.IntRange{Min: 40, Max: 50}
	return p
}

type staticSource map[string]models.Sequence

func (s staticSource) Get(_ context.Context, identifier string) (models.Sequence, error) {
	key := sequences.NormalizeIdentifier(identifier)
	if seq, ok := s[key]; ok {
		return seq, nil
	}
	return "", &sequences.SequenceFetchError{Identifier: key, Reason: "unknown identifier"}
}

type recordingArchive struct {
	mu      sync.Mutex
	results []*models.DesignResult
}

func (a *recordingArchive) Archive(_ context.Context, result *models.DesignResult, _ models.DesignParameters) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.results = append(a.results, result)
}

func localOrchestrator() *Orchestrator {
	return NewOrchestrator(staticSource{"DEMO": scenarioTemplate}, nil, NewLocalStrategy(), nil, zap.NewNop())
}

func TestDesignScenario(t *testing.T) {
	result, err := localOrchestrator().Design(context.Background(), "demo", scenarioParameters())
	require.NoError(t, err)

	assert.Equal(t, "DEMO", result.Identifier)
	assert.Equal(t, len(scenarioTemplate), result.SequenceLength)
	assert.Equal(t, designSource.Local, result.Source)
	require.Len(t, result.Designs, 5)

	best := result.Designs[0]
	assert.Equal(t, designStatus.Check, best.Report.Status)
	assert.Equal(t, "TCGTAGCTAGCTACGATCGA", best.Candidate.Forward.Sequence)
	assert.Equal(t, "CTAGCTAGCTACGATCGCTA", best.Candidate.Reverse.Sequence)

	assert.Equal(t, 1782, result.Summary.CandidatesEvaluated)
	assert.Equal(t, 223, result.Summary.StatusCounts[designStatus.Check])
	assert.Equal(t, 1559, result.Summary.StatusCounts[designStatus.Failed])
	assert.Greater(t, result.Summary.MeanTm, 0.0)
	assert.Empty(t, result.Summary.RemoteError)
}

func TestDesignRanksValidBeforeCheck(t *testing.T) {
	params := scenarioParameters()
	params.TargetTmRange = models.FloatRange{Min: 45, Max: 55}
	params.ResultCount = 30

	result, err := localOrchestrator().Design(context.Background(), scenarioTemplate, params)
	require.NoError(t, err)
	assert.Equal(t, "sequence", result.Identifier)
	require.Len(t, result.Designs, 30)

	for i, d := range result.Designs {
		assert.Equal(t, i+1, d.Rank)
		if i < 15 {
			assert.Equal(t, designStatus.Valid, d.Report.Status)
		} else {
			assert.Equal(t, designStatus.Check, d.Report.Status)
		}
	}
}

func TestLocalTopMatchesFullRanking(t *testing.T) {
	params := scenarioParameters()
	params.ResultCount = 12

	candidates, err := primers.GenerateCandidates(scenarioTemplate, params)
	require.NoError(t, err)
	all := make([]models.RankedDesign, 0, len(candidates))
	for _, c := range candidates {
		all = append(all, primers.Evaluate(c, params))
	}
	want := primers.RankDesigns(all, params.ResultCount)

	result, err := localOrchestrator().Design(context.Background(), "DEMO", params)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(want, result.Designs))
}

func TestDesignIsDeterministic(t *testing.T) {
	o := localOrchestrator()
	first, err := o.Design(context.Background(), "DEMO", scenarioParameters())
	require.NoError(t, err)
	second, err := o.Design(context.Background(), "DEMO", scenarioParameters())
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(first, second))
}

func TestDesignShortTemplate(t *testing.T) {
	o := NewOrchestrator(staticSource{"SHORT": "ATGCGATCGTAGCTAGCTACGATCGATCG"}, nil, NewLocalStrategy(), nil, zap.NewNop())

	_, err := o.Design(context.Background(), "SHORT", models.DefaultDesignParameters())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDesignFailed))
	assert.True(t, errors.Is(err, primers.ErrNoCandidates))
	assert.False(t, errors.Is(err, ErrRemoteService))
	assert.Contains(t, err.Error(), "no viable primers found")
}

func TestDesignRejectsInvalidParameters(t *testing.T) {
	params := scenarioParameters()
	params.TargetGcRange = models.FloatRange{Min: 70, Max: 30}

	_, err := localOrchestrator().Design(context.Background(), "DEMO", params)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrInvalidParameters))

	var invalid *models.InvalidParametersError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "target_gc_range", invalid.Field)
}

func TestDesignSurfacesSequenceErrors(t *testing.T) {
	_, err := localOrchestrator().Design(context.Background(), "UNKNOWN", scenarioParameters())
	require.Error(t, err)
	assert.True(t, errors.Is(err, sequences.ErrSequenceFetch))
	assert.False(t, errors.Is(err, ErrDesignFailed))

	_, err = localOrchestrator().Design(context.Background(), "ACGTACGTNNACGTACGTAC", scenarioParameters())
	assert.True(t, errors.Is(err, sequences.ErrSequenceFetch))
}

func TestDesignFallsBackWhenRemoteTimesOut(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	}))
	defer server.Close()

	archive := &recordingArchive{}
	remote := NewRemoteStrategy(server.URL, 20*time.Millisecond)
	o := NewOrchestrator(staticSource{"DEMO": scenarioTemplate}, remote, NewLocalStrategy(), archive, zap.NewNop())

	result, err := o.Design(context.Background(), "DEMO", scenarioParameters())
	require.NoError(t, err)
	assert.Equal(t, designSource.Local, result.Source)
	assert.Contains(t, result.Summary.RemoteError, "timed out")

	local, err := localOrchestrator().Design(context.Background(), "DEMO", scenarioParameters())
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(local, result, cmpopts.IgnoreFields(models.DesignSummary{}, "RemoteError")))

	require.Len(t, archive.results, 1)
}

func TestDesignUsesRemotePairs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"pairs":[
			{"forward":"ATGCGATCGTAGCTAGCT","reverse":"ATCGCTAGCTACGATCGATC","product_size":40,"metrics":{"tm_forward":"51.2","penalty":0.4}},
			{"forward":"tcgtagctagctacgatcga","reverse":"CTAGCTAGCTACGATCGCTA","product_size":47,"metrics":{"tm_forward":55.9}}
		]}`))
	}))
	defer server.Close()

	remote := NewRemoteStrategy(server.URL, time.Second)
	o := NewOrchestrator(staticSource{"DEMO": scenarioTemplate}, remote, NewLocalStrategy(), nil, zap.NewNop())

	result, err := o.Design(context.Background(), "DEMO", scenarioParameters())
	require.NoError(t, err)
	assert.Equal(t, designSource.Remote, result.Source)
	assert.Equal(t, 2, result.Summary.CandidatesEvaluated)
	require.Len(t, result.Designs, 2)

	best := result.Designs[0]
	assert.Equal(t, "TCGTAGCTAGCTACGATCGA", best.Candidate.Forward.Sequence)
	assert.Equal(t, 6, best.Candidate.Forward.Start)
	assert.Equal(t, 33, best.Candidate.Reverse.Start)
	assert.Equal(t, 47, best.Candidate.ProductSize)
	assert.Equal(t, 1, best.Candidate.Order)
	assert.Equal(t, map[string]float64{"tm_forward": 55.9}, best.ReportedMetrics)

	other := result.Designs[1]
	assert.Equal(t, 0, other.Candidate.Forward.Start)
	assert.Equal(t, 20, other.Candidate.Reverse.Start)
	assert.InDelta(t, 51.2, other.ReportedMetrics["tm_forward"], 1e-9)

	// remote pairs are re-validated with the local rules
	assert.Empty(t, cmp.Diff(primers.Validate(best.Candidate, scenarioParameters()), best.Report))
}

func TestDesignFallsBackOnUnusableRemoteResponses(t *testing.T) {
	responses := map[string]struct {
		status int
		body   string
		reason string
	}{
		"server error":  {http.StatusBadGateway, `{}`, "status 502"},
		"malformed":     {http.StatusOK, `{"pairs":`, "malformed response"},
		"empty":         {http.StatusOK, `{"pairs":[]}`, "no primer pairs"},
		"unplaceable":   {http.StatusOK, `[{"forward":"GGGGGGGGGGGGGGGGGG","reverse":"CCCCCCCCCCCCCCCCCC"}]`, "not on the template"},
		"missing keys":  {http.StatusOK, `[{"left":"ACGT"}]`, "lacks forward/reverse"},
		"size mismatch": {http.StatusOK, `[{"forward":"ATGCGATCGTAGCTAGCT","reverse":"ATCGCTAGCTACGATCGATC","product_size":41}]`, "reports a product of 41 bp but places at 40 bp"},
	}

	for name, tt := range responses {
		t.Run(name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			o := NewOrchestrator(staticSource{"DEMO": scenarioTemplate}, NewRemoteStrategy(server.URL, time.Second), NewLocalStrategy(), nil, zap.NewNop())
			result, err := o.Design(context.Background(), "DEMO", scenarioParameters())
			require.NoError(t, err)
			assert.Equal(t, designSource.Local, result.Source)
			assert.Contains(t, result.Summary.RemoteError, tt.reason)
		})
	}
}

func TestDesignReportsBothFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	o := NewOrchestrator(staticSource{"SHORT": "ATGCGATCGTAGCTAGCTACGATCGATCG"}, NewRemoteStrategy(server.URL, time.Second), NewLocalStrategy(), nil, zap.NewNop())

	_, err := o.Design(context.Background(), "SHORT", models.DefaultDesignParameters())
	require.Error(t, err)

	var failed *DesignFailedError
	require.True(t, errors.As(err, &failed))
	assert.True(t, errors.Is(err, primers.ErrNoCandidates))
	assert.True(t, errors.Is(err, ErrRemoteService))
	assert.Contains(t, err.Error(), "status 503")
}

func TestDesignCancelledIsNotADesignFailure(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := localOrchestrator().Design(ctx, "demo", scenarioParameters())
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.False(t, errors.Is(err, ErrDesignFailed))
	assert.Equal(t, responseStatus.Error, ResponseStatusFor(err))
}
