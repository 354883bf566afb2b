package main

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	yaml "gopkg.in/yaml.v2"
)

func TestAnalyzeCommandYaml(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"analyze", "acgatattgcagcgaattc", "-o", "yaml"})
	require.NoError(t, rootCmd.Execute())

	var doc map[string]interface{}
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &doc))
	assert.Equal(t, "ACGATATTGCAGCGAATTC", doc["sequence"])
	assert.Equal(t, 19, doc["length"])
	assert.Equal(t, true, doc["hasSelfDimer"])

	// keys follow the JSON API, in declaration order
	assert.True(t, bytes.HasPrefix(out.Bytes(), []byte("sequence: ACGATATTGCAGCGAATTC\nlength: 19\n")), out.String())
}

func TestRenderRejectsUnknownFormat(t *testing.T) {
	var out bytes.Buffer
	err := render(&out, "xml", map[string]int{"a": 1})
	assert.Error(t, err)
	assert.Empty(t, out.String())
}

func TestRenderJson(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, render(&out, "json", map[string]int{"a": 1}))
	assert.Equal(t, "{\n  \"a\": 1\n}\n", out.String())
}

func TestJobCommandWaits(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/primers/design/jobs/abc", r.URL.Path)
		state := "Running"
		if atomic.AddInt32(&calls, 1) >= 3 {
			state = "Done"
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"id":"9b2f4c4e-2a44-4a8e-9a55-0c1f0f5d6a10","state":%q,"message":"","identifiers":["BRCA1"],"results":[]}`, state)
	}))
	defer srv.Close()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"job", "abc", "--api", srv.URL, "--wait", "--poll-interval", "1ms", "-o", "json"})
	require.NoError(t, rootCmd.Execute())

	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	assert.Contains(t, out.String(), `"state": "Done"`)
}
