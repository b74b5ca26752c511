package service

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/sakif/collabhub/internal/apperror"
	"github.com/sakif/collabhub/internal/model"
)

func TestCreateCampaign(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	brand := env.brand(t, "b@x.com")
	creator := env.creator(t, "C", "c@x.com", "Tech")

	c, err := env.camps.Create(ctx, brand, CampaignInput{Title: "Launch", Niche: "Tech", Budget: 1000})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if c.Status != model.CampaignOpen || c.BrandID != brand.ID || c.Budget != 1000 {
		t.Errorf("Create() = %+v, want open campaign owned by brand with budget 1000", c)
	}

	tests := []struct {
		name   string
		caller *model.User
		in     CampaignInput
		want   error
	}{
		{"creator caller", creator, CampaignInput{Title: "x", Niche: "y"}, apperror.ErrForbidden},
		{"no caller", nil, CampaignInput{Title: "x", Niche: "y"}, apperror.ErrForbidden},
		{"missing title", brand, CampaignInput{Niche: "y"}, apperror.ErrValidation},
		{"missing niche", brand, CampaignInput{Title: "x"}, apperror.ErrValidation},
		{"unparseable budget", brand, CampaignInput{Title: "x", Niche: "y", Budget: model.Amount(math.NaN())}, apperror.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.camps.Create(ctx, tt.caller, tt.in)
			if !errors.Is(err, tt.want) {
				t.Errorf("Create() error = %v, want %v", err, tt.want)
			}
		})
	}

	all, _ := env.camps.List(ctx)
	if len(all) != 1 {
		t.Errorf("List() has %d campaigns, want 1", len(all))
	}
}

func TestCloseCampaign(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.brand(t, "owner@x.com")
	other := env.brand(t, "other@x.com")
	creator := env.creator(t, "C", "c@x.com", "Tech")

	c, err := env.camps.Create(ctx, owner, CampaignInput{Title: "Launch", Niche: "Tech", Budget: 1000, Description: "d"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if _, err := env.camps.Close(ctx, c.ID, creator); !errors.Is(err, apperror.ErrForbidden) {
		t.Errorf("Close(creator) error = %v, want ErrForbidden", err)
	}
	if _, err := env.camps.Close(ctx, c.ID, other); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Close(non-owner) error = %v, want ErrNotFound", err)
	}
	if _, err := env.camps.Close(ctx, "missing", owner); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Close(missing) error = %v, want ErrNotFound", err)
	}

	list, _ := env.camps.List(ctx)
	if list[0].Status != model.CampaignOpen {
		t.Fatalf("failed close changed status to %s", list[0].Status)
	}

	for i := 0; i < 2; i++ {
		res, err := env.camps.Close(ctx, c.ID, owner)
		if err != nil {
			t.Fatalf("Close() #%d error = %v", i+1, err)
		}
		got := res.Campaign
		if !res.OK || got.Status != model.CampaignClosed {
			t.Errorf("Close() #%d = %+v, want ok and closed", i+1, res)
		}
		if got.Title != c.Title || got.Niche != c.Niche || got.Budget != c.Budget || got.Description != c.Description {
			t.Errorf("Close() #%d changed fields: %+v", i+1, got)
		}
	}

	if n := env.eventCount(t, "collabhub_campaign_events_total", "closed"); n != 1 {
		t.Errorf("closed events = %v, want 1 (re-close is not a transition)", n)
	}
}

func TestVisibleCampaigns(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	acme := env.brand(t, "acme@x.com")
	zeta := env.brand(t, "zeta@x.com")
	creator := env.creator(t, "C", "c@x.com", "Tech")

	mustCreate := func(b *model.User, title, niche string) *model.Campaign {
		t.Helper()
		c, err := env.camps.Create(ctx, b, CampaignInput{Title: title, Niche: niche})
		if err != nil {
			t.Fatalf("Create(%s) error = %v", title, err)
		}
		return c
	}
	mustCreate(acme, "acme tech", "Tech")
	closed := mustCreate(acme, "acme food", "Food")
	mustCreate(zeta, "zeta tech", "Tech")
	if _, err := env.camps.Close(ctx, closed.ID, acme); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	titles := func(list []model.Campaign) []string {
		out := make([]string, len(list))
		for i, c := range list {
			out[i] = c.Title
		}
		return out
	}

	tests := []struct {
		name   string
		caller *model.User
		niche  string
		want   []string
	}{
		{"brand sees own in any status", acme, "", []string{"acme food", "acme tech"}},
		{"brand niche filter", acme, "food", []string{"acme food"}},
		{"brand All means no filter", acme, "All", []string{"acme food", "acme tech"}},
		{"creator sees open only", creator, "", []string{"zeta tech", "acme tech"}},
		{"anonymous sees open only", nil, "", []string{"zeta tech", "acme tech"}},
		{"anonymous niche filter", nil, "FOOD", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := env.camps.Visible(ctx, tt.caller, tt.niche)
			if err != nil {
				t.Fatalf("Visible() error = %v", err)
			}
			if !equalStrings(titles(got), tt.want) {
				t.Errorf("Visible() = %v, want %v", titles(got), tt.want)
			}
		})
	}
}

func TestMatches(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	brand := env.brand(t, "b@x.com")
	env.creator(t, "Techie", "t@x.com", "tech")
	env.creator(t, "Cook", "cook@x.com", "Food")
	env.creator(t, "Gadgets", "g@x.com", "Tech")

	c, err := env.camps.Create(ctx, brand, CampaignInput{Title: "Launch", Niche: "Tech"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := env.camps.Matches(ctx, c.ID)
	if err != nil {
		t.Fatalf("Matches() error = %v", err)
	}
	if !equalStrings(names(got), []string{"Techie", "Gadgets"}) {
		t.Errorf("Matches() = %v, want [Techie Gadgets]", names(got))
	}

	_, err = env.camps.Matches(ctx, "missing")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Matches(missing) error = %v, want ErrNotFound", err)
	}
}
