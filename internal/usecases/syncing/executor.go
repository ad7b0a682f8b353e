package syncing

import (
	"context"
	"fmt"
	"time"

	"github.com/vfg2006/campaign-sync/infrastructure/integrator/adplatform/adclient"
	"github.com/vfg2006/campaign-sync/internal/domain"
	"github.com/vfg2006/campaign-sync/pkg/log"
)

// SyncOutcome resume o laço de sincronização
type SyncOutcome struct {
	Total     int
	Synced    int
	FailedIDs []string
}

// SyncAllCampaigns sincroniza e persiste as campanhas em ordem, uma de cada vez.
// Só o cancelamento do contexto interrompe o laço.
func (s *Service) SyncAllCampaigns(ctx context.Context, accessToken string, campaigns []domain.Campaign) (SyncOutcome, error) {
	outcome := SyncOutcome{Total: len(campaigns)}

	for _, campaign := range campaigns {
		logger := log.ForContext(ctx).WithField("campaign_id", campaign.ID)

		if err := s.syncCampaign(ctx, accessToken, campaign); err != nil {
			if ctx.Err() != nil {
				return outcome, ctx.Err()
			}
			logger.WithError(err).Errorf("Failed to sync campaign %s", campaign.ID)
			outcome.FailedIDs = append(outcome.FailedIDs, campaign.ID)
		} else {
			outcome.Synced++
		}

		if err := s.sleep(ctx, s.cfg.Sync.ItemDelay); err != nil {
			return outcome, err
		}
	}

	return outcome, nil
}

func (s *Service) syncCampaign(ctx context.Context, accessToken string, campaign domain.Campaign) error {
	logger := log.ForContext(ctx).WithField("campaign_id", campaign.ID)

	budget := s.cfg.Sync.ItemRetries
	retriesLeft := budget
	throttleWaits := 0
	var lastErr error

	for retriesLeft > 0 {
		attempt := budget - retriesLeft + 1
		logger.WithField("attempt", attempt).Infof("Syncing campaign %s (%s)", campaign.ID, campaign.Name)

		err := s.client.CommitSync(ctx, accessToken, campaign.ID)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}

			if statusErr, ok := adclient.AsStatusError(err); ok && statusErr.IsRateLimited() {
				throttleWaits++
				if s.throttleLimitReached(throttleWaits) {
					return newCampaignError(campaign.ID, attempt, fmt.Errorf("%w: %v", ErrThrottleLimit, err))
				}

				wait := minDuration(statusErr.RetryAfterDuration(s.cfg.Sync.DefaultRetryAfter), s.cfg.Sync.MaxItemRetryAfter)
				logger.WithField("wait", wait.String()).Warnf("Rate limited syncing %s, waiting %s", campaign.ID, wait)

				if err := s.sleep(ctx, wait); err != nil {
					return err
				}
				continue
			}

			throttleWaits = 0
			lastErr = err
			retriesLeft--
			logger.WithError(err).WithField("attempt", attempt).Warnf("Sync attempt failed for %s (%d retries left)", campaign.ID, retriesLeft)
			continue
		}

		throttleWaits = 0
		if err := s.campaigns.Persist(ctx, campaign); err != nil {
			lastErr = err
			retriesLeft--
			logger.WithError(err).WithField("attempt", attempt).Warnf("Failed to persist campaign %s (%d retries left)", campaign.ID, retriesLeft)
			continue
		}

		logger.Infof("Synced campaign %s", campaign.ID)
		return nil
	}

	return newCampaignError(campaign.ID, budget, lastErr)
}

// minDuration devolve a, limitado por b quando b é positivo
func minDuration(a, b time.Duration) time.Duration {
	if b > 0 && b < a {
		return b
	}
	return a
}
