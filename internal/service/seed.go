package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/collabhub/internal/auth"
	"github.com/sakif/collabhub/internal/metrics"
	"github.com/sakif/collabhub/internal/model"
	"github.com/sakif/collabhub/internal/repository"
)

// DemoPassword is the password of every seeded account.
const DemoPassword = "pass123"

// SeedService wipes the store and loads the demo data set.
type SeedService struct {
	store     repository.Store
	passwords *auth.PasswordService
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

func NewSeedService(store repository.Store, passwords *auth.PasswordService, m *metrics.Metrics, logger *slog.Logger) *SeedService {
	return &SeedService{store: store, passwords: passwords, metrics: m, logger: logger}
}

// Reset clears all four collections and inserts three creators, one brand
// and one open campaign owned by that brand. Tokens issued before a reset
// stop working because their subject no longer exists.
func (s *SeedService) Reset(ctx context.Context) error {
	if err := s.store.Reset(ctx); err != nil {
		return fmt.Errorf("service/seed: resetting store: %w", err)
	}

	hash, err := s.passwords.Hash(DemoPassword)
	if err != nil {
		return fmt.Errorf("service/seed: hashing demo password: %w", err)
	}

	users := demoUsers()
	for i := range users {
		users[i].PasswordHash = hash
		if err := s.store.Users().Create(ctx, &users[i]); err != nil {
			return fmt.Errorf("service/seed: creating %s: %w", users[i].Email, err)
		}
	}
	brand := users[len(users)-1]

	campaign := &model.Campaign{
		BrandID:     brand.ID,
		Title:       "Tech Gadget Launch",
		Niche:       "Tech",
		Budget:      50000,
		Description: "Need tech creators for 30s review",
		Status:      model.CampaignOpen,
	}
	if err := s.store.Campaigns().Create(ctx, campaign); err != nil {
		return fmt.Errorf("service/seed: creating demo campaign: %w", err)
	}

	s.metrics.StoreReset()
	s.logger.Info("store reset with demo data",
		slog.Int("users", len(users)),
		slog.Int("campaigns", 1),
	)
	return nil
}

// demoUsers lists the seeded accounts in registration order. The brand is last.
func demoUsers() []model.User {
	return []model.User{
		{
			Name:     "Riya Sharma",
			Email:    "riya@demo.com",
			Role:     model.RoleCreator,
			Verified: true,
			Profile: model.Profile{
				Niche:      "Fashion",
				Platform:   "Instagram",
				Followers:  52000,
				Engagement: 3.4,
				AgeDistribution: model.AgeDistribution{
					{Label: "13-18", Count: 12},
					{Label: "19-24", Count: 55},
					{Label: "25-34", Count: 28},
					{Label: "35+", Count: 5},
				},
				Location: "Delhi",
			},
		},
		{
			Name:     "Tech with Mohan",
			Email:    "mohan@demo.com",
			Role:     model.RoleCreator,
			Verified: true,
			Profile: model.Profile{
				Niche:      "Tech",
				Platform:   "YouTube",
				Followers:  120000,
				Engagement: 4.1,
				AgeDistribution: model.AgeDistribution{
					{Label: "13-18", Count: 6},
					{Label: "19-24", Count: 40},
					{Label: "25-34", Count: 45},
					{Label: "35+", Count: 9},
				},
				Location: "Bengaluru",
			},
		},
		{
			Name:  "Village Voice",
			Email: "village@demo.com",
			Role:  model.RoleCreator,
			Profile: model.Profile{
				Niche:      "Social Cause",
				Platform:   "Facebook",
				Followers:  8000,
				Engagement: 6.8,
				AgeDistribution: model.AgeDistribution{
					{Label: "13-18", Count: 20},
					{Label: "19-24", Count: 35},
					{Label: "25-34", Count: 30},
					{Label: "35+", Count: 15},
				},
				Location: "Rural UP",
			},
		},
		{
			Name:     "Acme Brand",
			Email:    "brand@demo.com",
			Role:     model.RoleBrand,
			Verified: true,
			Profile:  model.Profile{Company: "Acme"},
		},
	}
}
