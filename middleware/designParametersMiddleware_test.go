package middleware

import (
	"net/http"
	"strings"
	"testing"

	"github.com/labstack/echo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"primerdesign/api/contexts"
	"primerdesign/api/tests/common"
)

func passThrough(reached *bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		*reached = true
		return c.NoContent(http.StatusOK)
	}
}

func TestValidateDesignParametersCandidateCap(t *testing.T) {
	cfg := common.InitConfig()
	require.Equal(t, 250000, cfg.Api.MaxCandidates)

	for _, tc := range []struct {
		name   string
		method string
		target string
		body   string
		status int
	}{
		{name: "lower cap accepted", method: http.MethodGet, target: "/primers/design?maxCandidates=1000", status: http.StatusOK},
		{name: "configured cap accepted", method: http.MethodGet, target: "/primers/design?maxCandidates=250000", status: http.StatusOK},
		{name: "unbounded query rejected", method: http.MethodGet, target: "/primers/design?maxCandidates=0", status: http.StatusBadRequest},
		{name: "query above cap rejected", method: http.MethodGet, target: "/primers/design?maxCandidates=250001", status: http.StatusBadRequest},
		{name: "unbounded body rejected", method: http.MethodPost, target: "/primers/design", body: `{"gene":"demo","parameters":{"max_candidates":0}}`, status: http.StatusBadRequest},
		{name: "count above ceiling rejected", method: http.MethodGet, target: "/primers/design?count=1099511627776", status: http.StatusBadRequest},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var pc *contexts.PrimerContext
			if tc.body != "" {
				pc, _ = common.SetUpEcho(cfg, tc.method, tc.target, strings.NewReader(tc.body))
			} else {
				pc, _ = common.SetUpEcho(cfg, tc.method, tc.target, nil)
			}
			reached := false
			require.NoError(t, ValidateDesignParameters(passThrough(&reached))(pc))

			assert.Equal(t, tc.status, pc.Response().Status)
			assert.Equal(t, tc.status == http.StatusOK, reached)
		})
	}
}

func TestEnforceCandidateCapWithoutConfiguredCap(t *testing.T) {
	cfg := common.InitConfig()
	cfg.Api.MaxCandidates = 0

	params := DefaultParameters(cfg)
	params.MaxCandidates = 0
	assert.NoError(t, EnforceCandidateCap(cfg, params))
	assert.NoError(t, EnforceCandidateCap(nil, params))
}
