package adplatformdomain

// TokenResponse representa a resposta de POST /auth/token
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
	ExpiresIn   int64  `json:"expires_in,omitempty"`
}

// SyncRequest é o corpo de POST /api/campaigns/{id}/sync
type SyncRequest struct {
	CampaignID string `json:"campaign_id"`
}
