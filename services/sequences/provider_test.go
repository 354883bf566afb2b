package sequences

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"primerdesign/api/models"
)

func testProvider(server *httptest.Server) *RemoteProvider {
	var cfg models.Config
	cfg.Provider.EnsemblUrl = server.URL + "/ensembl"
	cfg.Provider.NcbiUrl = server.URL + "/ncbi"
	cfg.Provider.Species = "homo_sapiens"
	cfg.Provider.Timeout = 2 * time.Second
	cfg.Provider.MaxRetries = 3

	p := NewRemoteProvider(&cfg, zap.NewNop())
	p.retryDelay = time.Millisecond
	return p
}

func TestRemoteProviderEnsemblSymbol(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/ensembl/lookup/symbol/homo_sapiens/BRCA1", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"ENSG00000012048","display_name":"BRCA1"}`))
	})
	mux.HandleFunc("/ensembl/sequence/id/ENSG00000012048", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "genomic", r.URL.Query().Get("type"))
		w.Write([]byte(`{"id":"ENSG00000012048","seq":"acgtacgt"}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	raw, err := testProvider(server).Fetch(context.Background(), "BRCA1")
	require.NoError(t, err)
	assert.Equal(t, "acgtacgt", raw)
}

func TestRemoteProviderStableIdSkipsLookup(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/ensembl/lookup/", func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected lookup %s", r.URL.Path)
	})
	mux.HandleFunc("/ensembl/sequence/id/ENSG00000141510", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"seq":"GGCC"}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	raw, err := testProvider(server).Fetch(context.Background(), "ENSG00000141510")
	require.NoError(t, err)
	assert.Equal(t, "GGCC", raw)
}

func TestRemoteProviderRetriesTransientErrors(t *testing.T) {
	var attempts atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/ensembl/sequence/id/ENSG1", func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"seq":"ACGT"}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	raw, err := testProvider(server).Fetch(context.Background(), "ENSG1")
	require.NoError(t, err)
	assert.Equal(t, "ACGT", raw)
	assert.Equal(t, int32(3), attempts.Load())
}

func TestRemoteProviderFallsBackToNcbi(t *testing.T) {
	var ensemblCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/ensembl/", func(w http.ResponseWriter, r *http.Request) {
		ensemblCalls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	})
	mux.HandleFunc("/ncbi/esearch.fcgi", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "nuccore", r.URL.Query().Get("db"))
		assert.Contains(t, r.URL.Query().Get("term"), "FOO1[Gene Name]")
		w.Write([]byte(`{"esearchresult":{"count":"1","idlist":["12345"]}}`))
	})
	mux.HandleFunc("/ncbi/efetch.fcgi", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "12345", r.URL.Query().Get("id"))
		w.Write([]byte(">NG_12345.1 FOO1\nACGT\nTTGG\n"))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	raw, err := testProvider(server).Fetch(context.Background(), "FOO1")
	require.NoError(t, err)
	assert.Equal(t, int32(1), ensemblCalls.Load(), "4xx responses are not retried")

	seq, err := Normalize("FOO1", raw)
	require.NoError(t, err)
	assert.Equal(t, models.Sequence("ACGTTTGG"), seq)
}

func TestRemoteProviderUnresolvable(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/ensembl/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("/ncbi/esearch.fcgi", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"esearchresult":{"count":"0","idlist":[]}}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	_, err := testProvider(server).Fetch(context.Background(), "NOPE")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ensembl")
	assert.Contains(t, err.Error(), "no NCBI record")
}
