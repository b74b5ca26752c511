package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/sakif/collabhub/internal/model"
	"github.com/sakif/collabhub/internal/repository"
)

// CreatorFilter narrows ListCreators. Empty fields are ignored and the
// remaining ones must all match.
type CreatorFilter struct {
	Niche string // case-insensitive exact match on profile niche
	Query string // case-insensitive substring of "name niche"
	Age   string // dominant age bucket label, compared exactly
}

// DirectoryService is the read-only view over registered users.
type DirectoryService struct {
	users repository.UserRepository
}

func NewDirectoryService(users repository.UserRepository) *DirectoryService {
	return &DirectoryService{users: users}
}

// ListCreators returns creators in registration order.
func (s *DirectoryService) ListCreators(ctx context.Context, f CreatorFilter) ([]model.User, error) {
	creators, err := s.users.ListByRole(ctx, model.RoleCreator)
	if err != nil {
		return nil, fmt.Errorf("service/directory: listing creators: %w", err)
	}

	query := strings.ToLower(f.Query)
	out := make([]model.User, 0, len(creators))
	for _, c := range creators {
		if f.Niche != "" && !strings.EqualFold(c.Profile.Niche, f.Niche) {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(c.Name+" "+c.Profile.Niche), query) {
			continue
		}
		if f.Age != "" {
			if label, ok := c.Profile.AgeDistribution.Dominant(); !ok || label != f.Age {
				continue
			}
		}
		out = append(out, c)
	}
	return out, nil
}

func (s *DirectoryService) ListBrands(ctx context.Context) ([]model.User, error) {
	brands, err := s.users.ListByRole(ctx, model.RoleBrand)
	if err != nil {
		return nil, fmt.Errorf("service/directory: listing brands: %w", err)
	}
	return brands, nil
}

// GetUser returns apperror.ErrNotFound for unknown ids.
func (s *DirectoryService) GetUser(ctx context.Context, id string) (*model.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, passThrough("service/directory", "fetching user", err)
	}
	return user, nil
}

// creatorsInNiche backs CampaignService.Matches.
func (s *DirectoryService) creatorsInNiche(ctx context.Context, niche string) ([]model.User, error) {
	creators, err := s.users.ListByRole(ctx, model.RoleCreator)
	if err != nil {
		return nil, fmt.Errorf("service/directory: listing creators: %w", err)
	}
	out := make([]model.User, 0)
	for _, c := range creators {
		if strings.EqualFold(c.Profile.Niche, niche) {
			out = append(out, c)
		}
	}
	return out, nil
}
