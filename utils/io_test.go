package utils

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"primerdesign/api/models"
)

func TestGetJson(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.Error(w, "no such job", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"start": 3, "end": 90}`))
	}))
	defer srv.Close()

	w, err := GetJson[models.Window](context.Background(), srv.URL+"/window")
	require.NoError(t, err)
	assert.Equal(t, models.Window{Start: 3, End: 90}, w)

	_, err = GetJson[models.Window](context.Background(), srv.URL+"/missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
	assert.Contains(t, err.Error(), "no such job")
}

func TestCreateEsConnectionDisabled(t *testing.T) {
	var cfg models.Config
	es, err := CreateEsConnection(&cfg, nil)
	assert.NoError(t, err)
	assert.Nil(t, es)
}
