package model

import "time"

// CollaborationStatus of an offer. Accepting settles the payment stub in the
// same call, so the status goes straight from proposed to paid.
type CollaborationStatus string

const (
	CollaborationProposed CollaborationStatus = "proposed"
	CollaborationPaid     CollaborationStatus = "paid"
)

// Collaboration is a monetary offer from a brand to one creator,
// optionally tied to a campaign (CampaignID is nil otherwise).
type Collaboration struct {
	ID         string              `json:"id"`
	CampaignID *string             `json:"campaignId"`
	BrandID    string              `json:"brandId"`
	CreatorID  string              `json:"creatorId"`
	Amount     float64             `json:"amount"`
	Status     CollaborationStatus `json:"status"`
	CreatedAt  time.Time           `json:"createdAt"`
}
