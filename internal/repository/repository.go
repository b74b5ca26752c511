package repository

import (
	"context"

	"github.com/sakif/collabhub/internal/model"
)

// UserRepository stores identities. Users are never deleted except by Store.Reset.
type UserRepository interface {
	// Create assigns ID and CreatedAt. Returns apperror.ErrConflict when the email is taken.
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// ListByRole returns users of one role in registration order.
	ListByRole(ctx context.Context, role model.Role) ([]model.User, error)
	// MarkFirstPaidCollab sets FirstPaidCollabDone and reports whether it changed.
	MarkFirstPaidCollab(ctx context.Context, id string) (bool, error)
}

// MessageRepository is an append-only message log.
type MessageRepository interface {
	Create(ctx context.Context, msg *model.Message) error
	// ListForUser returns messages sent or received by userID, newest first.
	ListForUser(ctx context.Context, userID string) ([]model.Message, error)
}

type CampaignRepository interface {
	Create(ctx context.Context, campaign *model.Campaign) error
	GetByID(ctx context.Context, id string) (*model.Campaign, error)
	// List returns every campaign, newest first.
	List(ctx context.Context) ([]model.Campaign, error)
	// Close sets status=closed on the campaign matching both id and brandID and
	// reports whether the status changed. Returns apperror.ErrNotFound when no
	// campaign matches the pair.
	Close(ctx context.Context, id, brandID string) (*model.Campaign, bool, error)
}

type CollaborationRepository interface {
	Create(ctx context.Context, collab *model.Collaboration) error
	GetByID(ctx context.Context, id string) (*model.Collaboration, error)
	// Transition moves the collaboration from one status to another only when it
	// is currently in from, and reports whether it moved. The returned record is
	// the stored one either way.
	Transition(ctx context.Context, id string, from, to model.CollaborationStatus) (*model.Collaboration, bool, error)
	// ListForUser returns collaborations where userID is the brand or the creator, newest first.
	ListForUser(ctx context.Context, userID string) ([]model.Collaboration, error)
}

// Store owns the four collections for the lifetime of the process.
type Store interface {
	Users() UserRepository
	Messages() MessageRepository
	Campaigns() CampaignRepository
	Collaborations() CollaborationRepository
	// Reset empties every collection.
	Reset(ctx context.Context) error
	Close() error
}
