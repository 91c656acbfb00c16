package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultClientID is the OAuth App Client ID for Statsmith. It is
// public and safe to commit. The device flow needs no client secret.
//
// To use your own OAuth App, set GITHUB_CLIENT_ID.
const DefaultClientID = "Ov23liJb9QzD4tGqXk2m"

// oauthScope covers profile reads and private repository statistics.
const oauthScope = "read:user repo"

const (
	defaultDeviceCodeURL = "https://github.com/login/device/code"
	defaultTokenURL      = "https://github.com/login/oauth/access_token"
)

// OAuthToken is the result of a completed device authorization.
type OAuthToken struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Scope       string `json:"scope"`
}

// DeviceCodeResponse contains the response from requesting a device code.
type DeviceCodeResponse struct {
	DeviceCode      string `json:"device_code"`
	UserCode        string `json:"user_code"`
	VerificationURI string `json:"verification_uri"`
	ExpiresIn       int    `json:"expires_in"`
	Interval        int    `json:"interval"`
}

// OAuthClient performs the GitHub device authorization flow.
type OAuthClient struct {
	clientID   string
	httpClient *http.Client

	deviceCodeURL string
	tokenURL      string
}

// NewOAuthClient creates an OAuth client for the given OAuth App.
func NewOAuthClient(clientID string) *OAuthClient {
	return &OAuthClient{
		clientID:      clientID,
		httpClient:    &http.Client{Timeout: 30 * time.Second},
		deviceCodeURL: defaultDeviceCodeURL,
		tokenURL:      defaultTokenURL,
	}
}

// RequestDeviceCode initiates the device authorization flow. The user
// must visit the VerificationURI and enter the UserCode.
func (c *OAuthClient) RequestDeviceCode(ctx context.Context) (*DeviceCodeResponse, error) {
	data := url.Values{
		"client_id": {c.clientID},
		"scope":     {oauthScope},
	}

	var result DeviceCodeResponse
	if err := c.postForm(ctx, c.deviceCodeURL, data, &result); err != nil {
		return nil, err
	}
	if result.DeviceCode == "" {
		return nil, fmt.Errorf("empty device code response")
	}
	return &result, nil
}

// PollForToken polls GitHub for the access token after user
// authorization. It respects the interval from the device code
// response and returns when the user approves, denies, or the code
// expires.
func (c *OAuthClient) PollForToken(ctx context.Context, deviceCode string, interval int) (*OAuthToken, error) {
	if interval < 5 {
		interval = 5 // GitHub minimum interval
	}

	ticker := time.NewTicker(time.Duration(interval) * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
			token, err := c.checkDeviceToken(ctx, deviceCode)
			if err != nil {
				if strings.Contains(err.Error(), "authorization_pending") {
					continue
				}
				if strings.Contains(err.Error(), "slow_down") {
					ticker.Reset(time.Duration(interval+5) * time.Second)
					continue
				}
				return nil, err // expired, denied, or transport failure
			}
			return token, nil
		}
	}
}

// checkDeviceToken attempts to exchange the device code for a token.
func (c *OAuthClient) checkDeviceToken(ctx context.Context, deviceCode string) (*OAuthToken, error) {
	data := url.Values{
		"client_id":   {c.clientID},
		"device_code": {deviceCode},
		"grant_type":  {"urn:ietf:params:oauth:grant-type:device_code"},
	}

	var result struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
		Scope       string `json:"scope"`
		Error       string `json:"error"`
		ErrorDesc   string `json:"error_description"`
	}
	if err := c.postForm(ctx, c.tokenURL, data, &result); err != nil {
		return nil, err
	}
	if result.Error != "" {
		return nil, fmt.Errorf("%s: %s", result.Error, result.ErrorDesc)
	}

	return &OAuthToken{
		AccessToken: result.AccessToken,
		TokenType:   result.TokenType,
		Scope:       result.Scope,
	}, nil
}

func (c *OAuthClient) postForm(ctx context.Context, endpoint string, data url.Values, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(data.Encode()))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
