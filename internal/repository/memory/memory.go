// Package memory implements the repository interfaces with plain Go slices
// held in process memory. Everything is lost on restart, which is exactly the
// lifecycle the marketplace wants: state lives until the process exits or
// Store.Reset is called.
//
// One RWMutex guards all four collections. net/http serves requests on many
// goroutines, so even "one push onto a list" needs a lock in Go. Sharing the
// lock also makes Reset atomic with respect to every other call.
//
// Records go in and out as copies. A caller that mutates a returned *model.User
// does not change the stored one; only repository methods do.
package memory

import (
	"context"
	"sync"

	"github.com/sakif/collabhub/internal/model"
	"github.com/sakif/collabhub/internal/repository"
)

var _ repository.Store = (*Store)(nil)

// Store is the in-memory implementation of repository.Store.
type Store struct {
	mu sync.RWMutex

	users          []model.User          // registration order
	messages       []model.Message       // newest first
	campaigns      []model.Campaign      // newest first
	collaborations []model.Collaboration // newest first

	userRepo   *UserStore
	msgRepo    *MessageStore
	campRepo   *CampaignStore
	collabRepo *CollaborationStore
}

// New returns an empty Store.
func New() *Store {
	s := &Store{}
	s.userRepo = &UserStore{s: s}
	s.msgRepo = &MessageStore{s: s}
	s.campRepo = &CampaignStore{s: s}
	s.collabRepo = &CollaborationStore{s: s}
	return s
}

func (s *Store) Users() repository.UserRepository                   { return s.userRepo }
func (s *Store) Messages() repository.MessageRepository             { return s.msgRepo }
func (s *Store) Campaigns() repository.CampaignRepository           { return s.campRepo }
func (s *Store) Collaborations() repository.CollaborationRepository { return s.collabRepo }

// Reset drops every record in all four collections.
func (s *Store) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users = nil
	s.messages = nil
	s.campaigns = nil
	s.collaborations = nil
	return nil
}

// Close is a no-op; it exists to satisfy repository.Store.
func (s *Store) Close() error { return nil }

// prepend inserts v at the front of list. Newest-first collections use it so
// that listing is a straight copy.
func prepend[T any](list []T, v T) []T {
	list = append(list, v)
	copy(list[1:], list[:len(list)-1])
	list[0] = v
	return list
}

func cloneUser(u model.User) model.User {
	if u.Profile.AgeDistribution != nil {
		u.Profile.AgeDistribution = append(model.AgeDistribution(nil), u.Profile.AgeDistribution...)
	}
	return u
}

func cloneCollaboration(c model.Collaboration) model.Collaboration {
	if c.CampaignID != nil {
		id := *c.CampaignID
		c.CampaignID = &id
	}
	return c
}
