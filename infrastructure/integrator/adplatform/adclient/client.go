package adclient

import (
	"context"
	"net/http"
	"strings"
	"time"

	adplatformdomain "github.com/vfg2006/campaign-sync/infrastructure/integrator/adplatform/domain"
	"github.com/vfg2006/campaign-sync/internal/config"
	"github.com/vfg2006/campaign-sync/pkg/utils"
)

//go:generate mockgen -source=client.go -destination=../mocks/mock_client.go -package=mocks

type Client interface {
	Authenticate(ctx context.Context, email, password string) (string, error)
	ListCampaigns(ctx context.Context, accessToken string, page, limit int) (*adplatformdomain.CampaignPage, error)
	CommitSync(ctx context.Context, accessToken, campaignID string) error
}

type AdPlatformClient struct {
	baseURL     string
	httpClient  utils.Doer
	authTimeout time.Duration
	listTimeout time.Duration
	syncTimeout time.Duration
}

func NewClient(cfg *config.Config) Client {
	return NewClientWithDoer(cfg, &http.Client{})
}

// NewClientWithDoer permite trocar o transporte HTTP (usado nos testes)
func NewClientWithDoer(cfg *config.Config, doer utils.Doer) *AdPlatformClient {
	return &AdPlatformClient{
		baseURL:     strings.TrimRight(cfg.AdPlatform.URL, "/"),
		httpClient:  doer,
		authTimeout: cfg.Sync.AuthTimeout,
		listTimeout: cfg.Sync.ListTimeout,
		syncTimeout: cfg.Sync.ItemTimeout,
	}
}

func (c *AdPlatformClient) endpoint(path string) string {
	return c.baseURL + path
}
