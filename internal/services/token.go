package services

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// tokenSafetyMargin is how far before the recorded expiry a token is already
// considered stale, absorbing clock skew and request latency.
const tokenSafetyMargin = 30 * time.Second

// ensureFreshToken refreshes the session's access token when it is expired or
// about to expire. A token with no recorded expiry counts as expired.
//
// Concurrent callers on a shared session may each trigger a refresh; that race
// is harmless since every successful refresh yields a valid token, so no lock
// is taken.
func (c *SpotifyClient) ensureFreshToken(ctx context.Context) error {
	expiresAt := c.session.ExpiresAt()
	if expiresAt > 0 && time.Unix(expiresAt, 0).After(c.now().Add(tokenSafetyMargin)) {
		return nil
	}
	return c.refreshAccessToken(ctx)
}

// refreshAccessToken performs the refresh-token grant and rewrites the
// session's access token and expiry in place. The refresh token itself is
// left untouched.
//
// A 200 response whose body lacks access_token is a logical denial of the
// grant and yields a [KindUnauthorized] error; a 4xx/5xx status or transport
// failure on the token endpoint yields a [KindRemote] error like any other
// HTTP failure.
func (c *SpotifyClient) refreshAccessToken(ctx context.Context) error {
	refreshToken := c.session.RefreshToken()
	if refreshToken == "" {
		return unauthorizedError("Missing Spotify refresh token")
	}
	if c.clientID == "" || c.clientSecret == "" {
		return unauthorizedError("Missing Spotify client credentials")
	}

	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return remoteError(err.Error())
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return remoteError(err.Error())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return remoteError(err.Error())
	}

	if resp.StatusCode >= 400 {
		return remoteError(statusMessage(resp, body))
	}

	var grant struct {
		AccessToken      string `json:"access_token"`
		ExpiresIn        int64  `json:"expires_in"`
		ErrorDescription string `json:"error_description"`
	}
	if err := json.Unmarshal(body, &grant); err != nil || grant.AccessToken == "" {
		message := grant.ErrorDescription
		if message == "" {
			message = "Spotify token refresh was denied"
		}
		return unauthorizedError(message)
	}

	c.session.SetToken(grant.AccessToken)
	c.session.SetExpiresAt(c.now().Unix() + grant.ExpiresIn)
	return nil
}
