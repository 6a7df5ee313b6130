package infra

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/tnqbao/gau-wiki-gateway/config"
)

// AuthorizationService validates access tokens against the remote authorization server.
// With no server configured every token that passes local JWT verification is accepted.
type AuthorizationService struct {
	AuthorizationServiceURL string
	PrivateKey              string
	client                  *http.Client
}

func InitAuthorizationService(config *config.EnvConfig) *AuthorizationService {
	return &AuthorizationService{
		AuthorizationServiceURL: config.ExternalService.AuthorizationServiceURL,
		PrivateKey:              config.PrivateKey,
		client:                  &http.Client{Timeout: 5 * time.Second},
	}
}

func (s *AuthorizationService) CheckAccessToken(ctx context.Context, token string) error {
	if s.AuthorizationServiceURL == "" {
		return nil
	}

	endpoint := fmt.Sprintf("%s/api/v2/authorization/token/validate?token=%s", s.AuthorizationServiceURL, url.QueryEscape(token))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if s.PrivateKey != "" {
		req.Header.Set("Private-Key", s.PrivateKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("invalid token: %s", string(raw))
	}

	return nil
}
