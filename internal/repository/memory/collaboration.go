package memory

import (
	"context"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/collabhub/internal/apperror"
	"github.com/sakif/collabhub/internal/model"
	"github.com/sakif/collabhub/internal/repository"
)

var _ repository.CollaborationRepository = (*CollaborationStore)(nil)

// CollaborationStore is the collaborations collection of a Store.
type CollaborationStore struct {
	s *Store
}

func (r *CollaborationStore) Create(_ context.Context, c *model.Collaboration) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c.ID = xid.New().String()
	c.CreatedAt = time.Now()
	r.s.collaborations = prepend(r.s.collaborations, cloneCollaboration(*c))
	return nil
}

func (r *CollaborationStore) GetByID(_ context.Context, id string) (*model.Collaboration, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if i := r.indexByID(id); i >= 0 {
		c := cloneCollaboration(r.s.collaborations[i])
		return &c, nil
	}
	return nil, apperror.NotFound("collaboration", id)
}

func (r *CollaborationStore) Transition(_ context.Context, id string, from, to model.CollaborationStatus) (*model.Collaboration, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	i := r.indexByID(id)
	if i < 0 {
		return nil, false, apperror.NotFound("collaboration", id)
	}
	moved := r.s.collaborations[i].Status == from
	if moved {
		r.s.collaborations[i].Status = to
	}
	c := cloneCollaboration(r.s.collaborations[i])
	return &c, moved, nil
}

func (r *CollaborationStore) ListForUser(_ context.Context, userID string) ([]model.Collaboration, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]model.Collaboration, 0)
	for _, c := range r.s.collaborations {
		if c.BrandID == userID || c.CreatorID == userID {
			out = append(out, cloneCollaboration(c))
		}
	}
	return out, nil
}

// indexByID must be called with the lock held.
func (r *CollaborationStore) indexByID(id string) int {
	for i := range r.s.collaborations {
		if r.s.collaborations[i].ID == id {
			return i
		}
	}
	return -1
}
