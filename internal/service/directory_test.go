package service

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/collabhub/internal/apperror"
	"github.com/sakif/collabhub/internal/model"
)

func names(users []model.User) []string {
	out := make([]string, len(users))
	for i, u := range users {
		out[i] = u.Name
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestListCreators_Filters(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	if err := env.seed.Reset(ctx); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	// A creator whose top two buckets tie; the first one listed wins.
	env.register(t, "Tie Break", "tie@x.com", model.RoleCreator, model.Profile{
		Niche: "tech",
		AgeDistribution: model.AgeDistribution{
			{Label: "25-34", Count: 40},
			{Label: "19-24", Count: 40},
		},
	})

	tests := []struct {
		name   string
		filter CreatorFilter
		want   []string
	}{
		{"no filter", CreatorFilter{}, []string{"Riya Sharma", "Tech with Mohan", "Village Voice", "Tie Break"}},
		{"niche case-insensitive", CreatorFilter{Niche: "TECH"}, []string{"Tech with Mohan", "Tie Break"}},
		{"niche is exact, not substring", CreatorFilter{Niche: "Tec"}, []string{}},
		{"query matches name", CreatorFilter{Query: "riya"}, []string{"Riya Sharma"}},
		{"query matches niche", CreatorFilter{Query: "social"}, []string{"Village Voice"}},
		{"query spans name and niche", CreatorFilter{Query: "voice social"}, []string{"Village Voice"}},
		{"age dominant bucket", CreatorFilter{Age: "19-24"}, []string{"Riya Sharma", "Village Voice"}},
		{"age tie goes to first bucket", CreatorFilter{Age: "25-34"}, []string{"Tech with Mohan", "Tie Break"}},
		{"filters are conjunctive", CreatorFilter{Niche: "tech", Age: "25-34", Query: "mohan"}, []string{"Tech with Mohan"}},
		{"no match", CreatorFilter{Age: "35+"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := env.dir.ListCreators(ctx, tt.filter)
			if err != nil {
				t.Fatalf("ListCreators() error = %v", err)
			}
			if !equalStrings(names(got), tt.want) {
				t.Errorf("ListCreators(%+v) = %v, want %v", tt.filter, names(got), tt.want)
			}
			for _, u := range got {
				if u.Role != model.RoleCreator {
					t.Errorf("%s has role %s", u.Name, u.Role)
				}
			}
		})
	}
}

func TestListCreators_AgeFilterSkipsEmptyHistogram(t *testing.T) {
	env := newTestEnv(t)
	env.creator(t, "No Audience", "na@x.com", "Tech")

	got, err := env.dir.ListCreators(context.Background(), CreatorFilter{Age: "19-24"})
	if err != nil {
		t.Fatalf("ListCreators() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %v, want none", names(got))
	}
}

func TestListBrandsAndGetUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	b1 := env.brand(t, "b1@x.com")
	env.creator(t, "Ana", "ana@x.com", "Food")
	env.brand(t, "b2@x.com")

	brands, err := env.dir.ListBrands(ctx)
	if err != nil {
		t.Fatalf("ListBrands() error = %v", err)
	}
	if len(brands) != 2 || brands[0].ID != b1.ID {
		t.Errorf("ListBrands() = %v, want two brands starting with b1", names(brands))
	}

	got, err := env.dir.GetUser(ctx, b1.ID)
	if err != nil {
		t.Fatalf("GetUser() error = %v", err)
	}
	if got.Email != "b1@x.com" {
		t.Errorf("Email = %q", got.Email)
	}

	_, err = env.dir.GetUser(ctx, "missing")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetUser(missing) error = %v, want ErrNotFound", err)
	}
}
