package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/collabhub/internal/apperror"
	"github.com/sakif/collabhub/internal/model"
	"github.com/sakif/collabhub/internal/repository"
)

var _ repository.CampaignRepository = (*CampaignDB)(nil)

// CampaignDB is the campaigns table.
type CampaignDB struct {
	conn *sql.DB
}

const campaignColumns = `id, brand_id, title, niche, budget, description, status, created_at`

func (c *CampaignDB) Create(ctx context.Context, campaign *model.Campaign) error {
	id := xid.New().String()
	now := time.Now()

	_, err := c.conn.ExecContext(ctx,
		`INSERT INTO campaigns (`+campaignColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id,
		campaign.BrandID,
		campaign.Title,
		campaign.Niche,
		campaign.Budget,
		campaign.Description,
		string(campaign.Status),
		now,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting campaign %q: %w", campaign.Title, err)
	}

	campaign.ID = id
	campaign.CreatedAt = now
	return nil
}

func (c *CampaignDB) GetByID(ctx context.Context, id string) (*model.Campaign, error) {
	row := c.conn.QueryRowContext(ctx, `SELECT `+campaignColumns+` FROM campaigns WHERE id = ?`, id)
	campaign, err := scanCampaign(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("campaign", id)
		}
		return nil, fmt.Errorf("sqlite: getting campaign %s: %w", id, err)
	}
	return campaign, nil
}

func (c *CampaignDB) List(ctx context.Context) ([]model.Campaign, error) {
	rows, err := c.conn.QueryContext(ctx, `SELECT `+campaignColumns+` FROM campaigns ORDER BY rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing campaigns: %w", err)
	}
	defer rows.Close()

	campaigns := make([]model.Campaign, 0)
	for rows.Next() {
		campaign, err := scanCampaign(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning campaign row: %w", err)
		}
		campaigns = append(campaigns, *campaign)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating campaign rows: %w", err)
	}
	return campaigns, nil
}

// Close matches on both id and brand_id. The update skips rows that are
// already closed, so zero rows affected means either "already closed" or
// "not this brand's campaign"; the follow-up read tells them apart.
func (c *CampaignDB) Close(ctx context.Context, id, brandID string) (*model.Campaign, bool, error) {
	res, err := c.conn.ExecContext(ctx,
		`UPDATE campaigns SET status = ? WHERE id = ? AND brand_id = ? AND status <> ?`,
		string(model.CampaignClosed), id, brandID, string(model.CampaignClosed),
	)
	if err != nil {
		return nil, false, fmt.Errorf("sqlite: closing campaign %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("sqlite: rows affected: %w", err)
	}

	campaign, err := c.GetByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	if campaign.BrandID != brandID {
		return nil, false, apperror.NotFound("campaign", id)
	}
	return campaign, n > 0, nil
}

func scanCampaign(s scanner) (*model.Campaign, error) {
	var (
		campaign model.Campaign
		status   string
	)
	err := s.Scan(
		&campaign.ID,
		&campaign.BrandID,
		&campaign.Title,
		&campaign.Niche,
		&campaign.Budget,
		&campaign.Description,
		&status,
		&campaign.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	campaign.Status = model.CampaignStatus(status)
	return &campaign, nil
}
