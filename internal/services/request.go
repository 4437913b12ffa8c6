package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// performRequest issues an authenticated request against the Spotify Web API
// and returns the raw JSON body, or nil for deliberately empty (204-style)
// success responses.
//
// The access token is refreshed first when stale. GET parameters are
// query-encoded; other methods send a JSON body. Responses are classified as:
//
//   - 2xx with JSON (or empty) body: success
//   - 2xx with a non-JSON body: [KindRemote] error carrying the status message
//   - status >= 400: [KindRemote] error carrying error.message from the body
//     when present, else the status message
//   - transport failure: [KindRemote] error carrying the transport message
//
// Resource-API 401/403 responses surface as plain remote errors on purpose.
// Only token refresh produces [KindUnauthorized]; a stray 401 here may simply
// mean the token expired mid-flight, which the next call's refresh handles.
func (c *SpotifyClient) performRequest(ctx context.Context, method, path string, params url.Values, body any) (json.RawMessage, error) {
	if err := c.ensureFreshToken(ctx); err != nil {
		return nil, err
	}

	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	var reqBody io.Reader
	if body != nil && method != http.MethodGet {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, remoteError(fmt.Sprintf("failed to encode request body: %v", err))
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, remoteError(err.Error())
	}
	req.Header.Set("Authorization", "Bearer "+c.session.Token())
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, remoteError(err.Error())
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, remoteError(err.Error())
	}

	if resp.StatusCode >= 400 {
		return nil, remoteError(statusMessage(resp, raw))
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, nil
	}
	if !json.Valid(trimmed) {
		return nil, remoteError(statusText(resp))
	}

	return json.RawMessage(trimmed), nil
}

// getJSON performs a GET and decodes the response into out when a body is present.
func (c *SpotifyClient) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	raw, err := c.performRequest(ctx, http.MethodGet, path, params, nil)
	if err != nil {
		return err
	}
	return decodeInto(raw, out)
}

// sendJSON performs a mutating request and decodes any response body into out.
// out may be nil when the caller only cares about success.
func (c *SpotifyClient) sendJSON(ctx context.Context, method, path string, params url.Values, body, out any) error {
	raw, err := c.performRequest(ctx, method, path, params, body)
	if err != nil {
		return err
	}
	return decodeInto(raw, out)
}

func decodeInto(raw json.RawMessage, out any) error {
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return remoteError(fmt.Sprintf("unexpected response shape: %v", err))
	}
	return nil
}

// statusMessage prefers the API's error.message payload, falling back to the
// transport status message.
func statusMessage(resp *http.Response, body []byte) string {
	var payload struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error.Message != "" {
		return payload.Error.Message
	}
	return statusText(resp)
}

func statusText(resp *http.Response) string {
	if text := http.StatusText(resp.StatusCode); text != "" {
		return text
	}
	return resp.Status
}
