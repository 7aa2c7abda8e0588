package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	yandexAuthURL     = "https://oauth.yandex.ru/authorize"
	yandexTokenURL    = "https://oauth.yandex.ru/token"
	yandexUserInfoURL = "https://login.yandex.ru/info"
)

// YandexClient exchanges a Yandex OAuth authorization code for a verified
// profile. All network calls are bounded by the client timeout.
type YandexClient struct {
	clientID     string
	clientSecret string
	redirectURI  string
	httpClient   *http.Client
}

func NewYandexClient(clientID string, clientSecret string, redirectURI string) *YandexClient {
	return &YandexClient{
		clientID:     clientID,
		clientSecret: clientSecret,
		redirectURI:  redirectURI,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *YandexClient) Name() string {
	return "yandex"
}

func (c *YandexClient) AuthURL() string {
	params := url.Values{}
	params.Set("response_type", "code")
	params.Set("client_id", c.clientID)
	params.Set("redirect_uri", c.redirectURI)

	return yandexAuthURL + "?" + params.Encode()
}

func (c *YandexClient) Exchange(ctx context.Context, code string) (ProviderProfile, error) {
	accessToken, err := c.fetchAccessToken(ctx, code)
	if err != nil {
		return ProviderProfile{}, err
	}

	return c.fetchProfile(ctx, accessToken)
}

func (c *YandexClient) fetchAccessToken(ctx context.Context, code string) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, yandexTokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token endpoint returned status %d", resp.StatusCode)
	}

	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if payload.AccessToken == "" {
		return "", fmt.Errorf("token response missing access_token")
	}

	return payload.AccessToken, nil
}

func (c *YandexClient) fetchProfile(ctx context.Context, accessToken string) (ProviderProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, yandexUserInfoURL, nil)
	if err != nil {
		return ProviderProfile{}, fmt.Errorf("build userinfo request: %w", err)
	}
	req.Header.Set("Authorization", "OAuth "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ProviderProfile{}, fmt.Errorf("userinfo request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ProviderProfile{}, fmt.Errorf("userinfo endpoint returned status %d", resp.StatusCode)
	}

	var payload struct {
		ID           string `json:"id"`
		DefaultEmail string `json:"default_email"`
		FirstName    string `json:"first_name"`
		LastName     string `json:"last_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return ProviderProfile{}, fmt.Errorf("decode userinfo response: %w", err)
	}

	return ProviderProfile{
		ExternalID: payload.ID,
		Email:      payload.DefaultEmail,
		FirstName:  payload.FirstName,
		LastName:   payload.LastName,
	}, nil
}
