package services

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	es7 "github.com/elastic/go-elasticsearch/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"primerdesign/api/models"
	designSource "primerdesign/api/models/constants/design-source"
	"primerdesign/api/models/indexes"
)

func TestArchiveServiceFlushesOnClose(t *testing.T) {
	var (
		mu    sync.Mutex
		lines []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/" {
			w.Write([]byte(`{"version":{"number":"7.17.7","build_flavor":"default"},"tagline":"You Know, for Search"}`))
			return
		}

		assert.True(t, strings.HasSuffix(r.URL.Path, "/_bulk"), r.URL.Path)
		scanner := bufio.NewScanner(r.Body)
		scanner.Buffer(make([]byte, 1<<20), 1<<20)
		mu.Lock()
		for scanner.Scan() {
			if l := strings.TrimSpace(scanner.Text()); l != "" {
				lines = append(lines, l)
			}
		}
		mu.Unlock()
		w.Write([]byte(`{"took":1,"errors":false,"items":[{"index":{"_index":"designs","_id":"x","status":201}}]}`))
	}))
	defer srv.Close()

	es, err := es7.NewClient(es7.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)

	archive, err := NewArchiveService(es, zap.NewNop())
	require.NoError(t, err)

	archive.Archive(context.Background(), &models.DesignResult{
		Identifier:     "BRCA1",
		SequenceLength: 120,
		Source:         designSource.Local,
	}, models.DefaultDesignParameters())
	require.NoError(t, archive.Close(context.Background()))

	stats := archive.Stats()
	assert.Equal(t, uint64(1), stats.NumAdded)
	assert.Equal(t, uint64(1), stats.NumFlushed)
	assert.Equal(t, uint64(0), stats.NumFailed)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, lines, 2)

	var meta map[string]map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &meta))
	assert.Contains(t, meta, "index")

	var doc indexes.DesignDocument
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &doc))
	assert.Equal(t, "BRCA1", doc.Identifier)
	assert.Equal(t, 120, doc.SequenceLength)
	assert.Equal(t, designSource.Local, doc.Source)
	assert.Equal(t, meta["index"]["_id"], doc.Id)
}
