package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sakif/collabhub/internal/apperror"
	"github.com/sakif/collabhub/internal/metrics"
	"github.com/sakif/collabhub/internal/model"
	"github.com/sakif/collabhub/internal/repository"
)

// CollaborationService runs the offer workflow:
//
//	propose (brand) → proposed
//	accept (named creator) → paid
//
// Accept settles the payment stub in the same call, so "accepted" is never
// stored. There is no reject or cancel.
type CollaborationService struct {
	collabs   repository.CollaborationRepository
	users     repository.UserRepository
	campaigns repository.CampaignRepository
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

func NewCollaborationService(
	collabs repository.CollaborationRepository,
	users repository.UserRepository,
	campaigns repository.CampaignRepository,
	m *metrics.Metrics,
	logger *slog.Logger,
) *CollaborationService {
	return &CollaborationService{
		collabs:   collabs,
		users:     users,
		campaigns: campaigns,
		metrics:   m,
		logger:    logger,
	}
}

// ProposeInput is the payload of Propose. CampaignID nil or "" means the
// offer is not tied to a campaign. Amount is optional.
type ProposeInput struct {
	CampaignID *string      `json:"campaignId"`
	CreatorID  string       `json:"creatorId"`
	Amount     model.Amount `json:"amount"`
}

// Propose creates an offer from caller to a creator.
//
// Errors:
//   - apperror.ErrForbidden when caller is not a brand
//   - apperror.ErrValidation when amount is not a number
//   - apperror.ErrNotFound when creatorID is not a creator, or campaignID is
//     given and unknown
func (s *CollaborationService) Propose(ctx context.Context, caller *model.User, in ProposeInput) (*model.Collaboration, error) {
	if !caller.IsBrand() {
		return nil, apperror.Forbidden("only brands can propose collaborations")
	}
	if !in.Amount.Valid() {
		return nil, apperror.ValidationFailed("amount", "amount must be a number")
	}

	creator, err := s.users.GetByID(ctx, in.CreatorID)
	if err != nil && !errors.Is(err, apperror.ErrNotFound) {
		return nil, fmt.Errorf("service/collaboration: looking up creator: %w", err)
	}
	if creator == nil || !creator.IsCreator() {
		return nil, apperror.NotFound("creator", in.CreatorID)
	}

	var campaignID *string
	if in.CampaignID != nil && *in.CampaignID != "" {
		if _, err := s.campaigns.GetByID(ctx, *in.CampaignID); err != nil {
			return nil, passThrough("service/collaboration", "looking up campaign", err)
		}
		id := *in.CampaignID
		campaignID = &id
	}

	c := &model.Collaboration{
		CampaignID: campaignID,
		BrandID:    caller.ID,
		CreatorID:  creator.ID,
		Amount:     float64(in.Amount),
		Status:     model.CollaborationProposed,
	}
	if err := s.collabs.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("service/collaboration: creating collaboration: %w", err)
	}

	s.metrics.CollaborationProposed()
	s.logger.Info("collaboration proposed",
		slog.String("collaborationID", c.ID),
		slog.String("brandID", c.BrandID),
		slog.String("creatorID", c.CreatorID),
		slog.Float64("amount", c.Amount),
	)
	return c, nil
}

// Accept moves a proposed collaboration straight to paid and, the first time
// a creator is paid, sets their FirstPaidCollabDone flag. Accepting a paid
// collaboration returns it unchanged.
//
// The status update and the flag update are two separate writes. If the
// second fails the collaboration stays paid and the error is returned.
//
// Errors:
//   - apperror.ErrNotFound when the collaboration does not exist
//   - apperror.ErrForbidden when caller is not the named creator
func (s *CollaborationService) Accept(ctx context.Context, id string, caller *model.User) (*model.Collaboration, error) {
	c, err := s.collabs.GetByID(ctx, id)
	if err != nil {
		return nil, passThrough("service/collaboration", "fetching collaboration", err)
	}
	if caller == nil || c.CreatorID != caller.ID {
		return nil, apperror.Forbidden("only the named creator can accept this collaboration")
	}

	c, moved, err := s.collabs.Transition(ctx, id, model.CollaborationProposed, model.CollaborationPaid)
	if err != nil {
		return nil, passThrough("service/collaboration", "marking collaboration paid", err)
	}
	if !moved {
		return c, nil
	}
	s.metrics.CollaborationPaid()
	s.logger.Info("collaboration paid",
		slog.String("collaborationID", c.ID),
		slog.String("creatorID", c.CreatorID),
		slog.Float64("amount", c.Amount),
	)

	first, err := s.users.MarkFirstPaidCollab(ctx, c.CreatorID)
	if err != nil {
		s.logger.Error("collaboration paid but first-paid flag not set",
			slog.String("collaborationID", c.ID),
			slog.String("creatorID", c.CreatorID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("service/collaboration: marking first paid collaboration: %w", err)
	}
	if first {
		s.metrics.CreatorFirstPaid()
		s.logger.Info("creator received first paid collaboration", slog.String("creatorID", c.CreatorID))
	}
	return c, nil
}

// ListMine returns collaborations where userID is the brand or the creator,
// newest first.
func (s *CollaborationService) ListMine(ctx context.Context, userID string) ([]model.Collaboration, error) {
	list, err := s.collabs.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service/collaboration: listing collaborations: %w", err)
	}
	return list, nil
}
