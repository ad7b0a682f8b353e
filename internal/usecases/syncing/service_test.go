package syncing

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/campaign-sync/infrastructure/integrator/adplatform/adclient"
	adplatformdomain "github.com/vfg2006/campaign-sync/infrastructure/integrator/adplatform/domain"
	adplatformmocks "github.com/vfg2006/campaign-sync/infrastructure/integrator/adplatform/mocks"
	"github.com/vfg2006/campaign-sync/infrastructure/repository"
	"github.com/vfg2006/campaign-sync/infrastructure/repository/mocks"
	"github.com/vfg2006/campaign-sync/internal/config"
	"github.com/vfg2006/campaign-sync/internal/domain"
	"github.com/vfg2006/campaign-sync/pkg/utils"
	"go.uber.org/mock/gomock"
)

const testToken = "tok-123"

type sleepRecorder struct {
	waits []time.Duration
}

func (r *sleepRecorder) sleep(ctx context.Context, d time.Duration) error {
	r.waits = append(r.waits, d)
	return ctx.Err()
}

func testConfig() *config.Config {
	return &config.Config{
		AdPlatform: config.AdPlatform{
			URL:      "http://localhost:3001",
			Email:    "ops@mixoads.com",
			Password: "s3cret",
		},
		Sync: config.Sync{
			PageSize:          10,
			PageRetries:       2,
			ItemRetries:       3,
			PageRetryDelay:    time.Second,
			UnavailableDelay:  time.Second,
			DefaultRetryAfter: 10 * time.Second,
			MaxItemRetryAfter: 10 * time.Second,
			ItemDelay:         300 * time.Millisecond,
		},
	}
}

func makePage(first, count int, hasMore bool) *adplatformdomain.CampaignPage {
	page := &adplatformdomain.CampaignPage{Pagination: adplatformdomain.Pagination{HasMore: hasMore}}
	for i := first; i < first+count; i++ {
		page.Data = append(page.Data, adplatformdomain.Campaign{
			ID:     fmt.Sprintf("c%d", i),
			Name:   fmt.Sprintf("Campanha %d", i),
			Status: "active",
		})
	}
	return page
}

func rateLimited(retryAfter string) error {
	return &adclient.StatusError{Operation: "test", StatusCode: http.StatusTooManyRequests, RetryAfter: retryAfter}
}

func statusErr(code int) error {
	return &adclient.StatusError{Operation: "test", StatusCode: code}
}

var errConnRefused = errors.New("dial tcp 127.0.0.1:3001: connect: connection refused")

func TestService_FetchAllCampaigns(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := adplatformmocks.NewMockClient(ctrl)

	tests := []struct {
		name      string
		cfg       func(cfg *config.Config)
		setup     func()
		wantWaits []time.Duration
		validate  func(t *testing.T, campaigns []domain.Campaign, err error)
	}{
		{
			name: "duas páginas com 10 e 3 campanhas",
			setup: func() {
				mockClient.EXPECT().ListCampaigns(gomock.Any(), testToken, 1, 10).Return(makePage(1, 10, true), nil)
				mockClient.EXPECT().ListCampaigns(gomock.Any(), testToken, 2, 10).Return(makePage(11, 3, false), nil)
			},
			validate: func(t *testing.T, campaigns []domain.Campaign, err error) {
				require.NoError(t, err)
				require.Len(t, campaigns, 13)
				assert.Equal(t, "c1", campaigns[0].ID)
				assert.Equal(t, "c13", campaigns[12].ID)
			},
		},
		{
			name: "has_more falso encerra sem nova requisição",
			setup: func() {
				mockClient.EXPECT().ListCampaigns(gomock.Any(), testToken, 1, 10).Return(makePage(1, 4, false), nil)
			},
			validate: func(t *testing.T, campaigns []domain.Campaign, err error) {
				require.NoError(t, err)
				assert.Len(t, campaigns, 4)
			},
		},
		{
			name: "429 espera o retry-after sem consumir tentativas",
			setup: func() {
				gomock.InOrder(
					mockClient.EXPECT().ListCampaigns(gomock.Any(), testToken, 1, 10).Return(nil, rateLimited("3")),
					mockClient.EXPECT().ListCampaigns(gomock.Any(), testToken, 1, 10).Return(nil, rateLimited("3")),
					mockClient.EXPECT().ListCampaigns(gomock.Any(), testToken, 1, 10).Return(nil, utils.ErrRequestTimeout),
					mockClient.EXPECT().ListCampaigns(gomock.Any(), testToken, 1, 10).Return(makePage(1, 2, false), nil),
				)
			},
			wantWaits: []time.Duration{3 * time.Second, 3 * time.Second, time.Second},
			validate: func(t *testing.T, campaigns []domain.Campaign, err error) {
				require.NoError(t, err)
				assert.Len(t, campaigns, 2)
			},
		},
		{
			name: "retry-after gigante satura em vez de virar espera negativa",
			setup: func() {
				gomock.InOrder(
					mockClient.EXPECT().ListCampaigns(gomock.Any(), testToken, 1, 10).Return(nil, rateLimited("99999999999")),
					mockClient.EXPECT().ListCampaigns(gomock.Any(), testToken, 1, 10).Return(makePage(1, 1, false), nil),
				)
			},
			wantWaits: []time.Duration{time.Duration(math.MaxInt64)},
			validate: func(t *testing.T, campaigns []domain.Campaign, err error) {
				require.NoError(t, err)
				assert.Len(t, campaigns, 1)
			},
		},
		{
			name: "retry-after inválido usa 10 segundos",
			setup: func() {
				gomock.InOrder(
					mockClient.EXPECT().ListCampaigns(gomock.Any(), testToken, 1, 10).Return(nil, rateLimited("amanhã")),
					mockClient.EXPECT().ListCampaigns(gomock.Any(), testToken, 1, 10).Return(makePage(1, 1, false), nil),
				)
			},
			wantWaits: []time.Duration{10 * time.Second},
			validate: func(t *testing.T, campaigns []domain.Campaign, err error) {
				require.NoError(t, err)
				assert.Len(t, campaigns, 1)
			},
		},
		{
			name: "503 espera 1 segundo sem consumir tentativas",
			setup: func() {
				gomock.InOrder(
					mockClient.EXPECT().ListCampaigns(gomock.Any(), testToken, 1, 10).Return(nil, statusErr(http.StatusServiceUnavailable)).Times(3),
					mockClient.EXPECT().ListCampaigns(gomock.Any(), testToken, 1, 10).Return(makePage(1, 1, false), nil),
				)
			},
			wantWaits: []time.Duration{time.Second, time.Second, time.Second},
			validate: func(t *testing.T, campaigns []domain.Campaign, err error) {
				require.NoError(t, err)
				assert.Len(t, campaigns, 1)
			},
		},
		{
			name: "duas falhas de transporte abortam a busca",
			setup: func() {
				gomock.InOrder(
					mockClient.EXPECT().ListCampaigns(gomock.Any(), testToken, 1, 10).Return(nil, utils.ErrRequestTimeout),
					mockClient.EXPECT().ListCampaigns(gomock.Any(), testToken, 1, 10).Return(nil, errConnRefused),
				)
			},
			wantWaits: []time.Duration{time.Second},
			validate: func(t *testing.T, campaigns []domain.Campaign, err error) {
				assert.Nil(t, campaigns)
				assert.ErrorIs(t, err, ErrFatalFetch)
				assert.ErrorIs(t, err, errConnRefused)
				assert.True(t, IsFatal(err))

				var syncErr *SyncError
				require.True(t, errors.As(err, &syncErr))
				assert.Equal(t, KindFetch, syncErr.Kind)
				assert.Equal(t, 1, syncErr.Page)
			},
		},
		{
			name: "falha na segunda página descarta a primeira",
			setup: func() {
				mockClient.EXPECT().ListCampaigns(gomock.Any(), testToken, 1, 10).Return(makePage(1, 10, true), nil)
				mockClient.EXPECT().ListCampaigns(gomock.Any(), testToken, 2, 10).Return(nil, utils.ErrRequestTimeout).Times(2)
			},
			wantWaits: []time.Duration{time.Second},
			validate: func(t *testing.T, campaigns []domain.Campaign, err error) {
				assert.Nil(t, campaigns)
				assert.ErrorIs(t, err, ErrFatalFetch)
				assert.ErrorIs(t, err, utils.ErrRequestTimeout)
			},
		},
		{
			name: "status 500 consome tentativas",
			setup: func() {
				mockClient.EXPECT().ListCampaigns(gomock.Any(), testToken, 1, 10).Return(nil, statusErr(http.StatusInternalServerError)).Times(2)
			},
			wantWaits: []time.Duration{time.Second},
			validate: func(t *testing.T, campaigns []domain.Campaign, err error) {
				assert.ErrorIs(t, err, ErrFatalFetch)
			},
		},
		{
			name: "corpo malformado consome tentativas",
			setup: func() {
				gomock.InOrder(
					mockClient.EXPECT().ListCampaigns(gomock.Any(), testToken, 1, 10).Return(nil, adclient.ErrMalformedResponse),
					mockClient.EXPECT().ListCampaigns(gomock.Any(), testToken, 1, 10).Return(makePage(1, 3, false), nil),
				)
			},
			wantWaits: []time.Duration{time.Second},
			validate: func(t *testing.T, campaigns []domain.Campaign, err error) {
				require.NoError(t, err)
				assert.Len(t, campaigns, 3)
			},
		},
		{
			name: "teto de esperas por throttling aborta a busca",
			cfg: func(cfg *config.Config) {
				cfg.Sync.MaxThrottleWaits = 2
			},
			setup: func() {
				mockClient.EXPECT().ListCampaigns(gomock.Any(), testToken, 1, 10).Return(nil, rateLimited("1")).Times(3)
			},
			wantWaits: []time.Duration{time.Second, time.Second},
			validate: func(t *testing.T, campaigns []domain.Campaign, err error) {
				assert.ErrorIs(t, err, ErrFatalFetch)
				assert.ErrorIs(t, err, ErrThrottleLimit)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			if tt.cfg != nil {
				tt.cfg(cfg)
			}

			recorder := &sleepRecorder{}
			service := NewService(cfg, mockClient, nil, nil).WithSleep(recorder.sleep)

			tt.setup()
			campaigns, err := service.FetchAllCampaigns(context.Background(), testToken)

			tt.validate(t, campaigns, err)
			assert.Equal(t, tt.wantWaits, recorder.waits)
		})
	}
}

func TestService_SyncAllCampaigns(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := adplatformmocks.NewMockClient(ctrl)
	mockRepo := mocks.NewMockCampaignRepository(ctrl)

	c1 := domain.Campaign{ID: "c1", Name: "Black Friday"}
	c2 := domain.Campaign{ID: "c2", Name: "Natal"}
	pacing := 300 * time.Millisecond

	tests := []struct {
		name      string
		campaigns []domain.Campaign
		setup     func()
		wantWaits []time.Duration
		validate  func(t *testing.T, outcome SyncOutcome)
	}{
		{
			name:      "429 com retry-after 2 e depois sucesso",
			campaigns: []domain.Campaign{c1},
			setup: func() {
				gomock.InOrder(
					mockClient.EXPECT().CommitSync(gomock.Any(), testToken, "c1").Return(rateLimited("2")),
					mockClient.EXPECT().CommitSync(gomock.Any(), testToken, "c1").Return(nil),
					mockRepo.EXPECT().Persist(gomock.Any(), c1).Return(nil),
				)
			},
			wantWaits: []time.Duration{2 * time.Second, pacing},
			validate: func(t *testing.T, outcome SyncOutcome) {
				assert.Equal(t, 1, outcome.Total)
				assert.Equal(t, 1, outcome.Synced)
				assert.Empty(t, outcome.FailedIDs)
			},
		},
		{
			name:      "retry-after acima de 10 segundos é limitado",
			campaigns: []domain.Campaign{c1},
			setup: func() {
				gomock.InOrder(
					mockClient.EXPECT().CommitSync(gomock.Any(), testToken, "c1").Return(rateLimited("30")),
					mockClient.EXPECT().CommitSync(gomock.Any(), testToken, "c1").Return(rateLimited("")),
					mockClient.EXPECT().CommitSync(gomock.Any(), testToken, "c1").Return(nil),
					mockRepo.EXPECT().Persist(gomock.Any(), c1).Return(nil),
				)
			},
			wantWaits: []time.Duration{10 * time.Second, 10 * time.Second, pacing},
			validate: func(t *testing.T, outcome SyncOutcome) {
				assert.Equal(t, 1, outcome.Synced)
			},
		},
		{
			name:      "sequência longa de 429 não consome tentativas",
			campaigns: []domain.Campaign{c1},
			setup: func() {
				gomock.InOrder(
					mockClient.EXPECT().CommitSync(gomock.Any(), testToken, "c1").Return(rateLimited("1")).Times(5),
					mockClient.EXPECT().CommitSync(gomock.Any(), testToken, "c1").Return(nil),
					mockRepo.EXPECT().Persist(gomock.Any(), c1).Return(nil),
				)
			},
			wantWaits: []time.Duration{
				time.Second, time.Second, time.Second, time.Second, time.Second, pacing,
			},
			validate: func(t *testing.T, outcome SyncOutcome) {
				assert.Equal(t, 1, outcome.Synced)
				assert.Empty(t, outcome.FailedIDs)
			},
		},
		{
			name:      "429 intercalados com duas falhas reais ainda sincronizam",
			campaigns: []domain.Campaign{c1},
			setup: func() {
				gomock.InOrder(
					mockClient.EXPECT().CommitSync(gomock.Any(), testToken, "c1").Return(rateLimited("1")),
					mockClient.EXPECT().CommitSync(gomock.Any(), testToken, "c1").Return(utils.ErrRequestTimeout),
					mockClient.EXPECT().CommitSync(gomock.Any(), testToken, "c1").Return(rateLimited("1")),
					mockClient.EXPECT().CommitSync(gomock.Any(), testToken, "c1").Return(rateLimited("1")),
					mockClient.EXPECT().CommitSync(gomock.Any(), testToken, "c1").Return(statusErr(http.StatusInternalServerError)),
					mockClient.EXPECT().CommitSync(gomock.Any(), testToken, "c1").Return(rateLimited("1")),
					mockClient.EXPECT().CommitSync(gomock.Any(), testToken, "c1").Return(nil),
					mockRepo.EXPECT().Persist(gomock.Any(), c1).Return(nil),
				)
			},
			wantWaits: []time.Duration{time.Second, time.Second, time.Second, time.Second, pacing},
			validate: func(t *testing.T, outcome SyncOutcome) {
				assert.Equal(t, 1, outcome.Synced)
				assert.Empty(t, outcome.FailedIDs)
			},
		},
		{
			name:      "retry-after gigante no sync ainda espera 10 segundos",
			campaigns: []domain.Campaign{c1},
			setup: func() {
				gomock.InOrder(
					mockClient.EXPECT().CommitSync(gomock.Any(), testToken, "c1").Return(rateLimited("99999999999")),
					mockClient.EXPECT().CommitSync(gomock.Any(), testToken, "c1").Return(nil),
					mockRepo.EXPECT().Persist(gomock.Any(), c1).Return(nil),
				)
			},
			wantWaits: []time.Duration{10 * time.Second, pacing},
			validate: func(t *testing.T, outcome SyncOutcome) {
				assert.Equal(t, 1, outcome.Synced)
			},
		},
		{
			name:      "três falhas pulam a campanha e o laço continua",
			campaigns: []domain.Campaign{c1, c2},
			setup: func() {
				gomock.InOrder(
					mockClient.EXPECT().CommitSync(gomock.Any(), testToken, "c1").Return(utils.ErrRequestTimeout),
					mockClient.EXPECT().CommitSync(gomock.Any(), testToken, "c1").Return(statusErr(http.StatusInternalServerError)),
					mockClient.EXPECT().CommitSync(gomock.Any(), testToken, "c1").Return(adclient.ErrMalformedResponse),
					mockClient.EXPECT().CommitSync(gomock.Any(), testToken, "c2").Return(nil),
					mockRepo.EXPECT().Persist(gomock.Any(), c2).Return(nil),
				)
			},
			wantWaits: []time.Duration{pacing, pacing},
			validate: func(t *testing.T, outcome SyncOutcome) {
				assert.Equal(t, 2, outcome.Total)
				assert.Equal(t, 1, outcome.Synced)
				assert.Equal(t, []string{"c1"}, outcome.FailedIDs)
			},
		},
		{
			name:      "503 no sync consome tentativas",
			campaigns: []domain.Campaign{c1},
			setup: func() {
				mockClient.EXPECT().CommitSync(gomock.Any(), testToken, "c1").Return(statusErr(http.StatusServiceUnavailable)).Times(3)
			},
			wantWaits: []time.Duration{pacing},
			validate: func(t *testing.T, outcome SyncOutcome) {
				assert.Equal(t, 0, outcome.Synced)
				assert.Equal(t, []string{"c1"}, outcome.FailedIDs)
			},
		},
		{
			name:      "falha de persistência consome tentativas e refaz o sync",
			campaigns: []domain.Campaign{c1},
			setup: func() {
				persistErr := &repository.PersistenceError{CampaignID: "c1", Err: errors.New("connection reset")}
				gomock.InOrder(
					mockClient.EXPECT().CommitSync(gomock.Any(), testToken, "c1").Return(nil),
					mockRepo.EXPECT().Persist(gomock.Any(), c1).Return(persistErr),
					mockClient.EXPECT().CommitSync(gomock.Any(), testToken, "c1").Return(nil),
					mockRepo.EXPECT().Persist(gomock.Any(), c1).Return(persistErr),
					mockClient.EXPECT().CommitSync(gomock.Any(), testToken, "c1").Return(nil),
					mockRepo.EXPECT().Persist(gomock.Any(), c1).Return(nil),
				)
			},
			wantWaits: []time.Duration{pacing},
			validate: func(t *testing.T, outcome SyncOutcome) {
				assert.Equal(t, 1, outcome.Synced)
				assert.Empty(t, outcome.FailedIDs)
			},
		},
		{
			name:      "lista vazia",
			campaigns: nil,
			setup:     func() {},
			validate: func(t *testing.T, outcome SyncOutcome) {
				assert.Equal(t, 0, outcome.Total)
				assert.Equal(t, 0, outcome.Synced)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := &sleepRecorder{}
			service := NewService(testConfig(), mockClient, mockRepo, nil).WithSleep(recorder.sleep)

			tt.setup()
			outcome, err := service.SyncAllCampaigns(context.Background(), testToken, tt.campaigns)

			require.NoError(t, err)
			tt.validate(t, outcome)
			assert.Equal(t, tt.wantWaits, recorder.waits)
		})
	}
}

func TestService_SyncAllCampaigns_ThrottleLimit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := adplatformmocks.NewMockClient(ctrl)
	mockRepo := mocks.NewMockCampaignRepository(ctrl)

	cfg := testConfig()
	cfg.Sync.MaxThrottleWaits = 1

	recorder := &sleepRecorder{}
	service := NewService(cfg, mockClient, mockRepo, nil).WithSleep(recorder.sleep)

	mockClient.EXPECT().CommitSync(gomock.Any(), testToken, "c1").Return(rateLimited("4")).Times(2)

	outcome, err := service.SyncAllCampaigns(context.Background(), testToken, []domain.Campaign{{ID: "c1"}})

	require.NoError(t, err)
	assert.Equal(t, []string{"c1"}, outcome.FailedIDs)
	assert.Equal(t, []time.Duration{4 * time.Second, 300 * time.Millisecond}, recorder.waits)
}

func TestService_SyncAllCampaigns_ContextCanceled(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := adplatformmocks.NewMockClient(ctrl)
	mockRepo := mocks.NewMockCampaignRepository(ctrl)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	service := NewService(testConfig(), mockClient, mockRepo, nil).WithSleep(func(ctx context.Context, d time.Duration) error {
		cancel()
		return ctx.Err()
	})

	mockClient.EXPECT().CommitSync(gomock.Any(), testToken, "c1").Return(nil)
	mockRepo.EXPECT().Persist(gomock.Any(), gomock.Any()).Return(nil)

	outcome, err := service.SyncAllCampaigns(ctx, testToken, []domain.Campaign{{ID: "c1"}, {ID: "c2"}})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, outcome.Synced)
}

func TestService_Run(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := adplatformmocks.NewMockClient(ctrl)

	tests := []struct {
		name     string
		setup    func()
		validate func(t *testing.T, report *domain.SyncReport, err error, sink map[string]domain.Campaign, latest *domain.SyncRun)
	}{
		{
			name: "execução completa em modo mock",
			setup: func() {
				mockClient.EXPECT().Authenticate(gomock.Any(), "ops@mixoads.com", "s3cret").Return(testToken, nil)
				mockClient.EXPECT().ListCampaigns(gomock.Any(), testToken, 1, 10).Return(makePage(1, 10, true), nil)
				mockClient.EXPECT().ListCampaigns(gomock.Any(), testToken, 2, 10).Return(makePage(11, 3, false), nil)
				mockClient.EXPECT().CommitSync(gomock.Any(), testToken, "c5").Return(statusErr(http.StatusInternalServerError)).Times(3)
				mockClient.EXPECT().CommitSync(gomock.Any(), testToken, gomock.Not("c5")).Return(nil).Times(12)
			},
			validate: func(t *testing.T, report *domain.SyncReport, err error, sink map[string]domain.Campaign, latest *domain.SyncRun) {
				require.NoError(t, err)
				require.NotNil(t, report)
				assert.Equal(t, 13, report.TotalCampaigns)
				assert.Equal(t, 12, report.SyncedCampaigns)
				assert.Equal(t, []string{"c5"}, report.FailedCampaignIDs)
				assert.Len(t, sink, 12)
				assert.NotContains(t, sink, "c5")

				require.NotNil(t, latest)
				assert.Equal(t, report.RunID, latest.ID)
				assert.Equal(t, domain.SyncRunStatusCompleted, latest.Status)
				assert.Equal(t, 1, latest.FailedCampaigns)
				assert.NotNil(t, latest.FinishedAt)
				assert.Nil(t, latest.Error)
			},
		},
		{
			name: "falha de autenticação é fatal",
			setup: func() {
				mockClient.EXPECT().Authenticate(gomock.Any(), gomock.Any(), gomock.Any()).Return("", statusErr(http.StatusUnauthorized))
			},
			validate: func(t *testing.T, report *domain.SyncReport, err error, sink map[string]domain.Campaign, latest *domain.SyncRun) {
				assert.Nil(t, report)
				assert.ErrorIs(t, err, ErrFatalAuth)
				assert.True(t, IsFatal(err))
				assert.Empty(t, sink)

				require.NotNil(t, latest)
				assert.Equal(t, domain.SyncRunStatusFailed, latest.Status)
				require.NotNil(t, latest.Error)
			},
		},
		{
			name: "token vazio é fatal",
			setup: func() {
				mockClient.EXPECT().Authenticate(gomock.Any(), gomock.Any(), gomock.Any()).Return("", adclient.ErrEmptyAccessToken)
			},
			validate: func(t *testing.T, report *domain.SyncReport, err error, sink map[string]domain.Campaign, latest *domain.SyncRun) {
				assert.ErrorIs(t, err, ErrFatalAuth)
				assert.ErrorIs(t, err, adclient.ErrEmptyAccessToken)
			},
		},
		{
			name: "busca abortada não persiste nada",
			setup: func() {
				mockClient.EXPECT().Authenticate(gomock.Any(), gomock.Any(), gomock.Any()).Return(testToken, nil)
				mockClient.EXPECT().ListCampaigns(gomock.Any(), testToken, 1, 10).Return(nil, utils.ErrRequestTimeout).Times(2)
			},
			validate: func(t *testing.T, report *domain.SyncReport, err error, sink map[string]domain.Campaign, latest *domain.SyncRun) {
				assert.Nil(t, report)
				assert.ErrorIs(t, err, ErrFatalFetch)
				assert.Empty(t, sink)

				require.NotNil(t, latest)
				assert.Equal(t, domain.SyncRunStatusFailed, latest.Status)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := repository.NewDryRunCampaignRepository()
			runs := repository.NewMemorySyncRunRepository()
			recorder := &sleepRecorder{}

			service := NewService(testConfig(), mockClient, sink, runs).WithSleep(recorder.sleep)

			tt.setup()
			report, err := service.Run(context.Background())

			latest, latestErr := runs.GetLatest(context.Background())
			require.NoError(t, latestErr)

			tt.validate(t, report, err, sink.Saved(), latest)
		})
	}
}

func TestService_Run_HistoryFailureDoesNotAbort(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := adplatformmocks.NewMockClient(ctrl)
	mockRuns := mocks.NewMockSyncRunRepository(ctrl)
	sink := repository.NewDryRunCampaignRepository()

	recorder := &sleepRecorder{}
	service := NewService(testConfig(), mockClient, sink, mockRuns).WithSleep(recorder.sleep)

	mockRuns.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("sync_runs indisponível"))
	mockRuns.EXPECT().Finish(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, run *domain.SyncRun) error {
		assert.Equal(t, domain.SyncRunStatusCompleted, run.Status)
		assert.Equal(t, 1, run.SyncedCampaigns)
		return errors.New("sync_runs indisponível")
	})

	mockClient.EXPECT().Authenticate(gomock.Any(), gomock.Any(), gomock.Any()).Return(testToken, nil)
	mockClient.EXPECT().ListCampaigns(gomock.Any(), testToken, 1, 10).Return(makePage(1, 1, false), nil)
	mockClient.EXPECT().CommitSync(gomock.Any(), testToken, "c1").Return(nil)

	report, err := service.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, report.SyncedCampaigns)
	assert.Len(t, sink.Saved(), 1)
}

func TestSleepContext(t *testing.T) {
	assert.NoError(t, sleepContext(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sleepContext(ctx, time.Hour), context.Canceled)
}
