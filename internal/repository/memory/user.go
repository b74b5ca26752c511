package memory

import (
	"context"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/collabhub/internal/apperror"
	"github.com/sakif/collabhub/internal/model"
	"github.com/sakif/collabhub/internal/repository"
)

var _ repository.UserRepository = (*UserStore)(nil)

// UserStore is the users collection of a Store.
type UserStore struct {
	s *Store
}

// Create stores a new user. The email must be unused (exact match).
func (r *UserStore) Create(_ context.Context, user *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i := range r.s.users {
		if r.s.users[i].Email == user.Email {
			return apperror.Conflict("email", user.Email)
		}
	}

	user.ID = xid.New().String()
	user.CreatedAt = time.Now()
	r.s.users = append(r.s.users, cloneUser(*user))
	return nil
}

func (r *UserStore) GetByID(_ context.Context, id string) (*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if i := r.indexByID(id); i >= 0 {
		u := cloneUser(r.s.users[i])
		return &u, nil
	}
	return nil, apperror.NotFound("user", id)
}

func (r *UserStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for i := range r.s.users {
		if r.s.users[i].Email == email {
			u := cloneUser(r.s.users[i])
			return &u, nil
		}
	}
	return nil, apperror.NotFound("user", email)
}

func (r *UserStore) ListByRole(_ context.Context, role model.Role) ([]model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]model.User, 0, len(r.s.users))
	for i := range r.s.users {
		if r.s.users[i].Role == role {
			out = append(out, cloneUser(r.s.users[i]))
		}
	}
	return out, nil
}

// MarkFirstPaidCollab flips FirstPaidCollabDone to true. It reports false when
// the flag was already set, so callers can count the transition exactly once.
func (r *UserStore) MarkFirstPaidCollab(_ context.Context, id string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	i := r.indexByID(id)
	if i < 0 {
		return false, apperror.NotFound("user", id)
	}
	if r.s.users[i].FirstPaidCollabDone {
		return false, nil
	}
	r.s.users[i].FirstPaidCollabDone = true
	return true, nil
}

// indexByID must be called with the lock held.
func (r *UserStore) indexByID(id string) int {
	for i := range r.s.users {
		if r.s.users[i].ID == id {
			return i
		}
	}
	return -1
}
