package syncing

import (
	"context"
	"fmt"

	"github.com/vfg2006/campaign-sync/infrastructure/integrator/adplatform/adclient"
	adplatformdomain "github.com/vfg2006/campaign-sync/infrastructure/integrator/adplatform/domain"
	"github.com/vfg2006/campaign-sync/internal/domain"
	"github.com/vfg2006/campaign-sync/pkg/log"
)

// FetchAllCampaigns percorre as páginas a partir da 1 até has_more=false.
// Qualquer página que esgote as tentativas descarta o que já foi acumulado.
func (s *Service) FetchAllCampaigns(ctx context.Context, accessToken string) ([]domain.Campaign, error) {
	var campaigns []domain.Campaign

	for page := 1; ; page++ {
		result, err := s.fetchPage(ctx, accessToken, page)
		if err != nil {
			return nil, err
		}

		for _, campaign := range result.Data {
			campaigns = append(campaigns, campaign.ToDomain())
		}

		if !result.Pagination.HasMore {
			return campaigns, nil
		}
	}
}

func (s *Service) fetchPage(ctx context.Context, accessToken string, page int) (*adplatformdomain.CampaignPage, error) {
	logger := log.ForContext(ctx).WithField("page", page)

	retriesLeft := s.cfg.Sync.PageRetries
	throttleWaits := 0

	for {
		logger.Infof("Fetching page %d...", page)

		result, err := s.client.ListCampaigns(ctx, accessToken, page, s.cfg.Sync.PageSize)
		if err == nil {
			logger.Infof("Got %d campaigns from page %d", len(result.Data), page)
			return result, nil
		}

		if ctx.Err() != nil {
			return nil, newFetchError(page, ctx.Err())
		}

		if statusErr, ok := adclient.AsStatusError(err); ok && (statusErr.IsRateLimited() || statusErr.IsServiceUnavailable()) {
			throttleWaits++
			if s.throttleLimitReached(throttleWaits) {
				return nil, newFetchError(page, fmt.Errorf("%w: %v", ErrThrottleLimit, err))
			}

			wait := s.cfg.Sync.UnavailableDelay
			if statusErr.IsRateLimited() {
				wait = statusErr.RetryAfterDuration(s.cfg.Sync.DefaultRetryAfter)
				logger.WithField("wait", wait.String()).Warnf("Rate limited on page %d, waiting %s", page, wait)
			} else {
				logger.WithField("wait", wait.String()).Warnf("Service unavailable on page %d, waiting %s", page, wait)
			}

			if err := s.sleep(ctx, wait); err != nil {
				return nil, newFetchError(page, err)
			}
			continue
		}

		throttleWaits = 0
		retriesLeft--
		if retriesLeft <= 0 {
			logger.WithError(err).Errorf("Giving up on page %d", page)
			return nil, newFetchError(page, err)
		}

		logger.WithError(err).WithField("attempt", s.cfg.Sync.PageRetries-retriesLeft).
			Warnf("Failed to fetch page %d, retrying (%d retries left)", page, retriesLeft)

		if err := s.sleep(ctx, s.cfg.Sync.PageRetryDelay); err != nil {
			return nil, newFetchError(page, err)
		}
	}
}

// throttleLimitReached aplica o teto opcional de esperas consecutivas por 429/503
func (s *Service) throttleLimitReached(waits int) bool {
	limit := s.cfg.Sync.MaxThrottleWaits
	return limit > 0 && waits > limit
}
