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

var _ repository.CollaborationRepository = (*CollaborationDB)(nil)

// CollaborationDB is the collaborations table. campaign_id is NULL for offers
// made outside any campaign.
type CollaborationDB struct {
	conn *sql.DB
}

const collaborationColumns = `id, campaign_id, brand_id, creator_id, amount, status, created_at`

func (c *CollaborationDB) Create(ctx context.Context, collab *model.Collaboration) error {
	id := xid.New().String()
	now := time.Now()

	var campaignID sql.NullString
	if collab.CampaignID != nil {
		campaignID = sql.NullString{String: *collab.CampaignID, Valid: true}
	}

	_, err := c.conn.ExecContext(ctx,
		`INSERT INTO collaborations (`+collaborationColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id,
		campaignID,
		collab.BrandID,
		collab.CreatorID,
		collab.Amount,
		string(collab.Status),
		now,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting collaboration: %w", err)
	}

	collab.ID = id
	collab.CreatedAt = now
	return nil
}

func (c *CollaborationDB) GetByID(ctx context.Context, id string) (*model.Collaboration, error) {
	row := c.conn.QueryRowContext(ctx, `SELECT `+collaborationColumns+` FROM collaborations WHERE id = ?`, id)
	collab, err := scanCollaboration(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("collaboration", id)
		}
		return nil, fmt.Errorf("sqlite: getting collaboration %s: %w", id, err)
	}
	return collab, nil
}

// Transition is a conditional UPDATE, so two concurrent accepts cannot both
// see the row move.
func (c *CollaborationDB) Transition(ctx context.Context, id string, from, to model.CollaborationStatus) (*model.Collaboration, bool, error) {
	res, err := c.conn.ExecContext(ctx,
		`UPDATE collaborations SET status = ? WHERE id = ? AND status = ?`,
		string(to), id, string(from),
	)
	if err != nil {
		return nil, false, fmt.Errorf("sqlite: updating collaboration %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("sqlite: rows affected: %w", err)
	}

	collab, err := c.GetByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return collab, n > 0, nil
}

func (c *CollaborationDB) ListForUser(ctx context.Context, userID string) ([]model.Collaboration, error) {
	rows, err := c.conn.QueryContext(ctx,
		`SELECT `+collaborationColumns+` FROM collaborations
		 WHERE brand_id = ? OR creator_id = ?
		 ORDER BY rowid DESC`,
		userID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing collaborations for %s: %w", userID, err)
	}
	defer rows.Close()

	collabs := make([]model.Collaboration, 0)
	for rows.Next() {
		collab, err := scanCollaboration(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning collaboration row: %w", err)
		}
		collabs = append(collabs, *collab)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating collaboration rows: %w", err)
	}
	return collabs, nil
}

func scanCollaboration(s scanner) (*model.Collaboration, error) {
	var (
		collab     model.Collaboration
		campaignID sql.NullString
		status     string
	)
	err := s.Scan(
		&collab.ID,
		&campaignID,
		&collab.BrandID,
		&collab.CreatorID,
		&collab.Amount,
		&status,
		&collab.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if campaignID.Valid {
		collab.CampaignID = &campaignID.String
	}
	collab.Status = model.CollaborationStatus(status)
	return &collab, nil
}
