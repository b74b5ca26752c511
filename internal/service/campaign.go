package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/collabhub/internal/apperror"
	"github.com/sakif/collabhub/internal/metrics"
	"github.com/sakif/collabhub/internal/model"
	"github.com/sakif/collabhub/internal/repository"
)

// nicheAll is the client's "no filter" niche value.
const nicheAll = "All"

// CampaignService manages brand campaigns. A campaign moves open → closed
// once and only its owning brand can close it.
type CampaignService struct {
	campaigns repository.CampaignRepository
	directory *DirectoryService
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

func NewCampaignService(
	campaigns repository.CampaignRepository,
	directory *DirectoryService,
	m *metrics.Metrics,
	logger *slog.Logger,
) *CampaignService {
	return &CampaignService{campaigns: campaigns, directory: directory, metrics: m, logger: logger}
}

// CampaignInput is the payload of Create. Budget and Description are optional.
type CampaignInput struct {
	Title       string       `json:"title"`
	Niche       string       `json:"niche"`
	Budget      model.Amount `json:"budget"`
	Description string       `json:"description"`
}

// CloseResult is the body of a successful close.
type CloseResult struct {
	OK       bool            `json:"ok"`
	Campaign *model.Campaign `json:"campaign"`
}

// Create opens a new campaign owned by caller.
//
// Errors:
//   - apperror.ErrForbidden when caller is not a brand
//   - apperror.ErrValidation when title or niche is blank, or budget is
//     not a number
func (s *CampaignService) Create(ctx context.Context, caller *model.User, in CampaignInput) (*model.Campaign, error) {
	if !caller.IsBrand() {
		return nil, apperror.Forbidden("only brands can create campaigns")
	}
	if isBlank(in.Title) {
		return nil, apperror.ValidationFailed("title", "title is required")
	}
	if isBlank(in.Niche) {
		return nil, apperror.ValidationFailed("niche", "niche is required")
	}
	if !in.Budget.Valid() {
		return nil, apperror.ValidationFailed("budget", "budget must be a number")
	}

	c := &model.Campaign{
		BrandID:     caller.ID,
		Title:       in.Title,
		Niche:       in.Niche,
		Budget:      float64(in.Budget),
		Description: in.Description,
		Status:      model.CampaignOpen,
	}
	if err := s.campaigns.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("service/campaign: creating campaign: %w", err)
	}

	s.metrics.CampaignCreated()
	s.logger.Info("campaign created",
		slog.String("campaignID", c.ID),
		slog.String("brandID", c.BrandID),
		slog.String("niche", c.Niche),
	)
	return c, nil
}

// List returns every campaign, newest first.
func (s *CampaignService) List(ctx context.Context) ([]model.Campaign, error) {
	list, err := s.campaigns.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/campaign: listing campaigns: %w", err)
	}
	return list, nil
}

// Visible is the role-aware campaign list. A brand sees its own campaigns in
// any status; creators and anonymous callers (nil caller) see open campaigns.
// niche filters case-insensitively; "" and "All" mean no filter.
func (s *CampaignService) Visible(ctx context.Context, caller *model.User, niche string) ([]model.Campaign, error) {
	list, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	filterNiche := niche != "" && niche != nicheAll
	out := make([]model.Campaign, 0, len(list))
	for _, c := range list {
		if caller.IsBrand() {
			if c.BrandID != caller.ID {
				continue
			}
		} else if c.Status != model.CampaignOpen {
			continue
		}
		if filterNiche && !strings.EqualFold(c.Niche, niche) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

// Close sets the campaign's status to closed. Closing an already closed
// campaign succeeds and changes nothing.
//
// Errors:
//   - apperror.ErrForbidden when caller is not a brand
//   - apperror.ErrNotFound when no campaign has this id and belongs to caller;
//     a brand cannot tell someone else's campaign from a missing one
func (s *CampaignService) Close(ctx context.Context, id string, caller *model.User) (*CloseResult, error) {
	if !caller.IsBrand() {
		return nil, apperror.Forbidden("only brands can close campaigns")
	}

	c, changed, err := s.campaigns.Close(ctx, id, caller.ID)
	if err != nil {
		return nil, passThrough("service/campaign", "closing campaign", err)
	}
	if !changed {
		return &CloseResult{OK: true, Campaign: c}, nil
	}

	s.metrics.CampaignClosed()
	s.logger.Info("campaign closed",
		slog.String("campaignID", c.ID),
		slog.String("brandID", caller.ID),
	)
	return &CloseResult{OK: true, Campaign: c}, nil
}

// Matches returns creators whose niche equals the campaign's niche,
// case-insensitively, in registration order.
func (s *CampaignService) Matches(ctx context.Context, id string) ([]model.User, error) {
	c, err := s.campaigns.GetByID(ctx, id)
	if err != nil {
		return nil, passThrough("service/campaign", "fetching campaign", err)
	}
	return s.directory.creatorsInNiche(ctx, c.Niche)
}
