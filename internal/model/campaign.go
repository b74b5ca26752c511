package model

import "time"

// CampaignStatus moves open → closed exactly once. There is no reopen.
type CampaignStatus string

const (
	CampaignOpen   CampaignStatus = "open"
	CampaignClosed CampaignStatus = "closed"
)

// Campaign is a posting owned by exactly one brand.
type Campaign struct {
	ID          string         `json:"id"`
	BrandID     string         `json:"brandId"`
	Title       string         `json:"title"`
	Niche       string         `json:"niche"`
	Budget      float64        `json:"budget"`
	Description string         `json:"description"`
	CreatedAt   time.Time      `json:"createdAt"`
	Status      CampaignStatus `json:"status"`
}
