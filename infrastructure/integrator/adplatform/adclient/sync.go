package adclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sirupsen/logrus"
	adplatformdomain "github.com/vfg2006/campaign-sync/infrastructure/integrator/adplatform/domain"
	"github.com/vfg2006/campaign-sync/pkg/log"
	"github.com/vfg2006/campaign-sync/pkg/utils"
)

// CommitSync dispara a ação remota de sync de uma campanha. O corpo da
// resposta precisa ser JSON válido, mas o conteúdo é descartado.
func (c *AdPlatformClient) CommitSync(ctx context.Context, accessToken, campaignID string) error {
	payload, err := json.Marshal(adplatformdomain.SyncRequest{CampaignID: campaignID})
	if err != nil {
		return fmt.Errorf("erro ao serializar corpo do sync: %w", err)
	}

	endpoint := c.endpoint("/api/campaigns/" + url.PathEscape(campaignID) + "/sync")
	req, err := http.NewRequest(http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("erro ao criar a requisição: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := utils.DoWithTimeout(ctx, c.httpClient, req, c.syncTimeout)
	if err != nil {
		return err
	}

	if !resp.IsSuccess() {
		return newStatusError("sync campaign "+campaignID, resp.StatusCode, resp.Header, resp.Body)
	}

	var discarded any
	if err := json.Unmarshal(resp.Body, &discarded); err != nil {
		return fmt.Errorf("%w: sync campaign %s: %v", ErrMalformedResponse, campaignID, err)
	}

	if logrus.IsLevelEnabled(logrus.DebugLevel) {
		log.ForContext(ctx).WithField("campaign_id", campaignID).Debugf("adplatform: sync response %s", utils.PrettyJson(resp.Body))
	}

	return nil
}
