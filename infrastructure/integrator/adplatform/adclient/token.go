package adclient

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"

	adplatformdomain "github.com/vfg2006/campaign-sync/infrastructure/integrator/adplatform/domain"
	"github.com/vfg2006/campaign-sync/pkg/log"
	"github.com/vfg2006/campaign-sync/pkg/utils"
)

// Authenticate troca email e senha por um access token. Uma única tentativa:
// falha de autenticação não é tratada como transitória.
func (c *AdPlatformClient) Authenticate(ctx context.Context, email, password string) (string, error) {
	credentials := base64.StdEncoding.EncodeToString([]byte(email + ":" + password))

	req, err := http.NewRequest(http.MethodPost, c.endpoint("/auth/token"), nil)
	if err != nil {
		return "", fmt.Errorf("erro ao criar a requisição de autenticação: %w", err)
	}
	req.Header.Set("Authorization", "Basic "+credentials)
	req.Header.Set("Accept", "application/json")

	resp, err := utils.DoWithTimeout(ctx, c.httpClient, req, c.authTimeout)
	if err != nil {
		return "", fmt.Errorf("erro ao obter access token: %w", err)
	}

	if !resp.IsSuccess() {
		log.ForContext(ctx).WithField("status_code", resp.StatusCode).Error("adplatform: authentication rejected")
		return "", newStatusError("auth token", resp.StatusCode, resp.Header, resp.Body)
	}

	var tokenResp adplatformdomain.TokenResponse
	if err := json.Unmarshal(resp.Body, &tokenResp); err != nil {
		return "", fmt.Errorf("%w: auth token: %v", ErrMalformedResponse, err)
	}

	if tokenResp.AccessToken == "" {
		return "", ErrEmptyAccessToken
	}

	return tokenResp.AccessToken, nil
}
