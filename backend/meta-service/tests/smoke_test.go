//go:build dev_test || staging_test

package integration

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var client = &http.Client{Timeout: 10 * time.Second}

// TestSmokeGatepass checks a deployed gatepass-service answers on its
// public and guarded surfaces.
func TestSmokeGatepass(t *testing.T) {
	appURL := strings.TrimRight(os.Getenv("APP_URL_FROM_COMPOSE_NETWORK"), "/")
	require.NotEmpty(t, appURL, "APP_URL_FROM_COMPOSE_NETWORK environment variable must be set")

	// 1) Health
	resp, err := client.Get(appURL + "/health")
	require.NoError(t, err)
	drain(resp)
	require.Equal(t, http.StatusOK, resp.StatusCode, "health check failed")

	// 2) Premise browsing is public
	resp, err = client.Get(appURL + "/api/v1/premises")
	require.NoError(t, err)
	body := drain(resp)
	require.Equal(t, http.StatusOK, resp.StatusCode, "list premises: %s", body)
	var premises []map[string]any
	require.NoError(t, json.Unmarshal(body, &premises))
	t.Logf("[INFO] %d premises listed", len(premises))

	// 3) Scanning needs a token
	payload, _ := json.Marshal(map[string]string{"code": "123456"})
	resp, err = client.Post(appURL+"/api/v1/scan", "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	drain(resp)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func drain(resp *http.Response) []byte {
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return b
}
