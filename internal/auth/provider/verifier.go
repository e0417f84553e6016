package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Verifier resolves a provider-issued access token to the verified email of
// its holder. The core auth flow only ever sees the email.
type Verifier interface {
	Verify(ctx context.Context, accessToken string) (string, error)
}

// TokeninfoVerifier queries a tokeninfo-style endpoint: a GET with the token
// as a query parameter, answered with a JSON object carrying the email.
type TokeninfoVerifier struct {
	URL        string
	TokenParam string
	EmailField string

	client *http.Client
}

func NewTokeninfoVerifier(url, tokenParam, emailField string) *TokeninfoVerifier {
	return &TokeninfoVerifier{
		URL:        url,
		TokenParam: tokenParam,
		EmailField: emailField,
		client:     &http.Client{Timeout: 5 * time.Second},
	}
}

func (v *TokeninfoVerifier) Verify(ctx context.Context, accessToken string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.URL, nil)
	if err != nil {
		return "", err
	}

	q := req.URL.Query()
	q.Set(v.TokenParam, accessToken)
	req.URL.RawQuery = q.Encode()

	resp, err := v.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("tokeninfo request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("tokeninfo returned status %d", resp.StatusCode)
	}

	var payload map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("tokeninfo response malformed: %w", err)
	}

	email, _ := payload[v.EmailField].(string)
	if email == "" {
		return "", fmt.Errorf("tokeninfo response has no %s", v.EmailField)
	}

	return email, nil
}
