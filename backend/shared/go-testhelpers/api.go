package testhelpers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/stretchr/testify/require"
)

// BuildAuthRequest builds a request against BaseURL+path. An empty
// jwtString sends no Authorization header.
func (h *TestHelper) BuildAuthRequest(method, path, jwtString string, body []byte) *http.Request {
	req, err := http.NewRequestWithContext(h.Ctx, method, h.BaseURL+path, bytes.NewReader(body))
	require.NoError(h.T, err)

	if jwtString != "" {
		req.Header.Set("Authorization", "Bearer "+jwtString)
	}
	if len(body) > 0 {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

// DoRequest performs an HTTP request and asserts that no network-level error occurred.
func (h *TestHelper) DoRequest(req *http.Request) *http.Response {
	resp, err := http.DefaultClient.Do(req)
	require.NoError(h.T, err, "HTTP request failed")
	h.T.Cleanup(func() { resp.Body.Close() })
	return resp
}

// ReadBody reads the response body and returns it as a string for logging or inspection.
func (h *TestHelper) ReadBody(resp *http.Response) string {
	if resp == nil || resp.Body == nil {
		return "<nil response or body>"
	}
	bodyBytes, err := io.ReadAll(resp.Body)
	// Restore the body so it can be decoded afterwards.
	resp.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
	require.NoError(h.T, err, "Failed to read response body")
	return string(bodyBytes)
}

// DoJSON marshals payload (when non-nil), sends it, and returns the response.
func (h *TestHelper) DoJSON(method, path, jwtString string, payload any) *http.Response {
	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		require.NoError(h.T, err)
	}
	return h.DoRequest(h.BuildAuthRequest(method, path, jwtString, body))
}

// DecodeJSON requires status and decodes the body into out.
func (h *TestHelper) DecodeJSON(resp *http.Response, status int, out any) {
	body := h.ReadBody(resp)
	require.Equal(h.T, status, resp.StatusCode, "unexpected status; body: %s", body)
	if out != nil {
		require.NoError(h.T, json.Unmarshal([]byte(body), out), "body: %s", body)
	}
}

// ErrorCode extracts the "code" field of an error response.
func (h *TestHelper) ErrorCode(resp *http.Response) string {
	var e struct {
		Code string `json:"code"`
	}
	_ = json.Unmarshal([]byte(h.ReadBody(resp)), &e)
	return e.Code
}
