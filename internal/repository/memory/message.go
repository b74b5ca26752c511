package memory

import (
	"context"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/collabhub/internal/model"
	"github.com/sakif/collabhub/internal/repository"
)

var _ repository.MessageRepository = (*MessageStore)(nil)

// MessageStore is the append-only message log of a Store.
type MessageStore struct {
	s *Store
}

func (r *MessageStore) Create(_ context.Context, msg *model.Message) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	msg.ID = xid.New().String()
	msg.At = time.Now()
	r.s.messages = prepend(r.s.messages, *msg)
	return nil
}

func (r *MessageStore) ListForUser(_ context.Context, userID string) ([]model.Message, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]model.Message, 0)
	for _, m := range r.s.messages {
		if m.From == userID || m.To == userID {
			out = append(out, m)
		}
	}
	return out, nil
}
