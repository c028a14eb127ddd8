package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	identityToolkitURL = "https://identitytoolkit.googleapis.com/v1"
	secureTokenURL     = "https://securetoken.googleapis.com/v1"
)

// restClient talks to the Identity Toolkit and Secure Token APIs using the
// project's web API key. These endpoints back the operations the provider's
// client SDKs expose but the Admin SDK does not.
type restClient struct {
	apiKey      string
	identityURL string
	tokenURL    string
	httpClient  *http.Client
}

func newRESTClient(apiKey string) *restClient {
	return &restClient{
		apiKey:      apiKey,
		identityURL: identityToolkitURL,
		tokenURL:    secureTokenURL,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
	}
}

type apiErrorBody struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *restClient) sendOobCode(ctx context.Context, email string) error {
	body := map[string]string{
		"requestType": "PASSWORD_RESET",
		"email":       email,
	}
	return c.postJSON(ctx, c.identityURL+"/accounts:sendOobCode", body, nil)
}

func (c *restClient) resetPassword(ctx context.Context, oobCode, newPassword string) error {
	body := map[string]string{
		"oobCode":     oobCode,
		"newPassword": newPassword,
	}
	return c.postJSON(ctx, c.identityURL+"/accounts:resetPassword", body, nil)
}

func (c *restClient) refreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.tokenURL+"/token?key="+url.QueryEscape(c.apiKey),
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// The token endpoint rejects bad or revoked refresh tokens with 400.
		return nil, ErrInvalidToken
	}

	var pair TokenPair
	if err := json.NewDecoder(resp.Body).Decode(&pair); err != nil {
		return nil, fmt.Errorf("decode token response: %w", err)
	}
	return &pair, nil
}

func (c *restClient) postJSON(ctx context.Context, endpoint string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		endpoint+"?key="+url.QueryEscape(c.apiKey), bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("identity endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr apiErrorBody
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error.Message != "" {
			return fmt.Errorf("identity provider rejected request: %s", apiErr.Error.Message)
		}
		return fmt.Errorf("identity endpoint returned status %d", resp.StatusCode)
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
