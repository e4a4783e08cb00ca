package oro

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Token is a bearer token obtained via the OAuth2 client-credentials grant.
// Expiry is the authorization server's business; a new token is fetched on
// every run.
type Token struct {
	Value      string
	ObtainedAt time.Time
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// FetchToken exchanges the configured client credentials for a bearer token
// at {base_url}/oauth2-token. A single attempt is made; any failure aborts
// the run with an *AuthError.
func (c *Client) FetchToken(ctx context.Context) (*Token, error) {
	tokenURL := c.cfg.TokenURL()

	c.logger.Debug("requesting access token",
		"url", tokenURL,
		"client_id", c.cfg.ClientID,
		"request_id", c.requestID,
	)

	if c.dryRun {
		c.printDryRun(http.MethodPost, tokenURL, []byte("grant_type=client_credentials&client_id="+c.cfg.ClientID))
		return &Token{Value: "dry-run", ObtainedAt: time.Now()}, nil
	}

	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {c.cfg.ClientID},
		"client_secret": {c.cfg.ClientSecret},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, &AuthError{Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Request-ID", c.requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &AuthError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &AuthError{Status: resp.StatusCode, Err: err}
	}

	if !is2xx(resp.StatusCode) {
		c.logger.Error("token exchange failed",
			"status", resp.StatusCode,
			"body", string(body),
		)
		return nil, &AuthError{Status: resp.StatusCode, Body: string(body)}
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return nil, &AuthError{Status: resp.StatusCode, Body: string(body), Err: err}
	}
	if tr.AccessToken == "" {
		return nil, &AuthError{Status: resp.StatusCode, Body: string(body)}
	}

	c.logger.Debug("access token obtained", "token_type", tr.TokenType, "expires_in", tr.ExpiresIn)

	return &Token{Value: tr.AccessToken, ObtainedAt: time.Now()}, nil
}
