package domain

import "time"

type SyncRunStatus string

const (
	SyncRunStatusRunning   SyncRunStatus = "running"
	SyncRunStatusCompleted SyncRunStatus = "completed"
	SyncRunStatusFailed    SyncRunStatus = "failed"
)

// SyncRun é o registro persistido de uma execução do pipeline
type SyncRun struct {
	ID              string        `json:"id"`
	StartedAt       time.Time     `json:"started_at"`
	FinishedAt      *time.Time    `json:"finished_at,omitempty"`
	Status          SyncRunStatus `json:"status"`
	TotalCampaigns  int           `json:"total_campaigns"`
	SyncedCampaigns int           `json:"synced_campaigns"`
	FailedCampaigns int           `json:"failed_campaigns"`
	Error           *string       `json:"error,omitempty"`
}

// SyncReport resume o resultado de uma execução
type SyncReport struct {
	RunID             string        `json:"run_id"`
	TotalCampaigns    int           `json:"total_campaigns"`
	SyncedCampaigns   int           `json:"synced_campaigns"`
	FailedCampaignIDs []string      `json:"failed_campaign_ids"`
	Duration          time.Duration `json:"duration"`
}
