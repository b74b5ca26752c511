package service

import (
	"context"
	"testing"

	"github.com/sakif/collabhub/internal/model"
)

func TestSeedReset(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	stale := env.brand(t, "stale@x.com")
	if err := env.seed.Reset(ctx); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}

	if _, err := env.auth.GetUserByID(ctx, stale.ID); err == nil {
		t.Error("user registered before reset still exists")
	}

	creators, _ := env.dir.ListCreators(ctx, CreatorFilter{})
	wantCreators := []string{"Riya Sharma", "Tech with Mohan", "Village Voice"}
	if !equalStrings(names(creators), wantCreators) {
		t.Errorf("creators = %v, want %v", names(creators), wantCreators)
	}
	if !creators[0].Verified || !creators[1].Verified || creators[2].Verified {
		t.Error("verified flags do not match demo data")
	}

	brands, _ := env.dir.ListBrands(ctx)
	if len(brands) != 1 || brands[0].Name != "Acme Brand" || brands[0].Profile.Company != "Acme" {
		t.Fatalf("brands = %+v, want Acme Brand", brands)
	}

	camps, _ := env.camps.List(ctx)
	if len(camps) != 1 {
		t.Fatalf("len(campaigns) = %d, want 1", len(camps))
	}
	c := camps[0]
	if c.Title != "Tech Gadget Launch" || c.Niche != "Tech" || c.Budget != 50000 ||
		c.Status != model.CampaignOpen || c.BrandID != brands[0].ID {
		t.Errorf("campaign = %+v", c)
	}

	for _, email := range []string{"riya@demo.com", "mohan@demo.com", "village@demo.com", "brand@demo.com"} {
		if _, err := env.auth.Login(ctx, email, DemoPassword); err != nil {
			t.Errorf("Login(%s) error = %v", email, err)
		}
	}
}

func TestSeedResetTwice(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := env.seed.Reset(ctx); err != nil {
			t.Fatalf("Reset() #%d error = %v", i+1, err)
		}
	}
	brands, _ := env.dir.ListBrands(ctx)
	if len(brands) != 1 {
		t.Errorf("len(brands) = %d after two resets, want 1", len(brands))
	}
}
