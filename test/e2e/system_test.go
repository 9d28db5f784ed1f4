package e2e_test

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthEndpoints(t *testing.T) {
	e := newEnv(t)

	for _, path := range []string{"/livez", "/readyz"} {
		resp, err := http.Get(e.server.URL + path)
		require.NoError(t, err)

		var body struct {
			Status string `json:"status"`
			Checks struct {
				Database string `json:"database"`
			} `json:"checks"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		assert.Equal(t, "ok", body.Status, path)
	}
}

func TestMetricsExposed(t *testing.T) {
	e := newEnv(t)

	// Generate at least one labelled request first.
	resp, err := http.Get(e.server.URL + "/livez")
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = http.Get(e.server.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "learnconnect_http_requests_total")
}
