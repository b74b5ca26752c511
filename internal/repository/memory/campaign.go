package memory

import (
	"context"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/collabhub/internal/apperror"
	"github.com/sakif/collabhub/internal/model"
	"github.com/sakif/collabhub/internal/repository"
)

var _ repository.CampaignRepository = (*CampaignStore)(nil)

// CampaignStore is the campaigns collection of a Store.
type CampaignStore struct {
	s *Store
}

func (r *CampaignStore) Create(_ context.Context, c *model.Campaign) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c.ID = xid.New().String()
	c.CreatedAt = time.Now()
	r.s.campaigns = prepend(r.s.campaigns, *c)
	return nil
}

func (r *CampaignStore) GetByID(_ context.Context, id string) (*model.Campaign, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for i := range r.s.campaigns {
		if r.s.campaigns[i].ID == id {
			c := r.s.campaigns[i]
			return &c, nil
		}
	}
	return nil, apperror.NotFound("campaign", id)
}

func (r *CampaignStore) List(_ context.Context) ([]model.Campaign, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return append(make([]model.Campaign, 0, len(r.s.campaigns)), r.s.campaigns...), nil
}

// Close only touches Status; an already closed campaign stays closed.
func (r *CampaignStore) Close(_ context.Context, id, brandID string) (*model.Campaign, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i := range r.s.campaigns {
		c := &r.s.campaigns[i]
		if c.ID == id && c.BrandID == brandID {
			changed := c.Status != model.CampaignClosed
			c.Status = model.CampaignClosed
			out := *c
			return &out, changed, nil
		}
	}
	return nil, false, apperror.NotFound("campaign", id)
}
