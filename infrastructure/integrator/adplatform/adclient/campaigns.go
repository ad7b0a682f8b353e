package adclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	adplatformdomain "github.com/vfg2006/campaign-sync/infrastructure/integrator/adplatform/domain"
	"github.com/vfg2006/campaign-sync/pkg/utils"
)

// ListCampaigns busca uma única página da listagem. A paginação e as novas
// tentativas ficam a cargo de quem chama.
func (c *AdPlatformClient) ListCampaigns(ctx context.Context, accessToken string, page, limit int) (*adplatformdomain.CampaignPage, error) {
	params := url.Values{}
	params.Add("page", strconv.Itoa(page))
	params.Add("limit", strconv.Itoa(limit))

	req, err := http.NewRequest(http.MethodGet, c.endpoint("/api/campaigns")+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("erro ao criar a requisição: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := utils.DoWithTimeout(ctx, c.httpClient, req, c.listTimeout)
	if err != nil {
		return nil, err
	}

	if !resp.IsSuccess() {
		return nil, newStatusError(fmt.Sprintf("list campaigns page %d", page), resp.StatusCode, resp.Header, resp.Body)
	}

	var campaignPage adplatformdomain.CampaignPage
	if err := json.Unmarshal(resp.Body, &campaignPage); err != nil {
		return nil, fmt.Errorf("%w: page %d: %v", ErrMalformedResponse, page, err)
	}

	return &campaignPage, nil
}
