// Package repotest holds a behavioural test suite that every repository.Store
// implementation must pass.
package repotest

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/collabhub/internal/apperror"
	"github.com/sakif/collabhub/internal/model"
	"github.com/sakif/collabhub/internal/repository"
)

// Factory returns a fresh, empty store for one subtest.
type Factory func(t *testing.T) repository.Store

// Run executes the whole suite against stores built by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Run("Users", func(t *testing.T) { testUsers(t, newStore) })
	t.Run("Messages", func(t *testing.T) { testMessages(t, newStore) })
	t.Run("Campaigns", func(t *testing.T) { testCampaigns(t, newStore) })
	t.Run("Collaborations", func(t *testing.T) { testCollaborations(t, newStore) })
	t.Run("Reset", func(t *testing.T) { testReset(t, newStore) })
	t.Run("ConcurrentRegistration", func(t *testing.T) { testConcurrentRegistration(t, newStore) })
	t.Run("ConcurrentTransition", func(t *testing.T) { testConcurrentTransition(t, newStore) })
}

// ==================== helpers ====================

func mustCreateUser(t *testing.T, s repository.Store, name, email string, role model.Role) *model.User {
	t.Helper()
	u := &model.User{Name: name, Email: email, PasswordHash: "hash", Role: role}
	require.NoError(t, s.Users().Create(context.Background(), u))
	require.NotEmpty(t, u.ID)
	return u
}

// ==================== users ====================

func testUsers(t *testing.T, newStore Factory) {
	ctx := context.Background()

	t.Run("create assigns id and timestamp", func(t *testing.T) {
		s := newStore(t)
		u := mustCreateUser(t, s, "Ana", "ana@x.com", model.RoleCreator)
		assert.False(t, u.CreatedAt.IsZero())

		got, err := s.Users().GetByID(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, "Ana", got.Name)
		assert.Equal(t, "hash", got.PasswordHash)
		assert.Equal(t, model.RoleCreator, got.Role)
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		s := newStore(t)
		mustCreateUser(t, s, "Ana", "ana@x.com", model.RoleCreator)

		err := s.Users().Create(ctx, &model.User{Name: "Other", Email: "ana@x.com", Role: model.RoleBrand})
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperror.ErrConflict))
	})

	t.Run("email match is exact", func(t *testing.T) {
		s := newStore(t)
		mustCreateUser(t, s, "Ana", "ana@x.com", model.RoleCreator)
		mustCreateUser(t, s, "Ana2", "Ana@x.com", model.RoleCreator)

		_, err := s.Users().GetByEmail(ctx, "ANA@X.COM")
		assert.True(t, errors.Is(err, apperror.ErrNotFound))
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Users().GetByID(ctx, "nope")
		assert.True(t, errors.Is(err, apperror.ErrNotFound))
	})

	t.Run("profile round trips with age order", func(t *testing.T) {
		s := newStore(t)
		u := &model.User{
			Name:  "Riya",
			Email: "riya@x.com",
			Role:  model.RoleCreator,
			Profile: model.Profile{
				Niche:      "Fashion",
				Platform:   "Instagram",
				Followers:  52000,
				Engagement: 3.4,
				AgeDistribution: model.AgeDistribution{
					{Label: "25-34", Count: 28},
					{Label: "13-18", Count: 12},
					{Label: "19-24", Count: 55},
				},
				Location: "Delhi",
			},
			Verified: true,
		}
		require.NoError(t, s.Users().Create(ctx, u))

		got, err := s.Users().GetByEmail(ctx, "riya@x.com")
		require.NoError(t, err)
		assert.Equal(t, u.Profile, got.Profile)
		assert.True(t, got.Verified)
	})

	t.Run("returned users are copies", func(t *testing.T) {
		s := newStore(t)
		u := mustCreateUser(t, s, "Ana", "ana@x.com", model.RoleCreator)

		got, err := s.Users().GetByID(ctx, u.ID)
		require.NoError(t, err)
		got.Name = "mutated"
		got.FirstPaidCollabDone = true

		again, err := s.Users().GetByID(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, "Ana", again.Name)
		assert.False(t, again.FirstPaidCollabDone)
	})

	t.Run("list by role keeps registration order", func(t *testing.T) {
		s := newStore(t)
		mustCreateUser(t, s, "C1", "c1@x.com", model.RoleCreator)
		mustCreateUser(t, s, "B1", "b1@x.com", model.RoleBrand)
		mustCreateUser(t, s, "C2", "c2@x.com", model.RoleCreator)
		mustCreateUser(t, s, "C3", "c3@x.com", model.RoleCreator)

		creators, err := s.Users().ListByRole(ctx, model.RoleCreator)
		require.NoError(t, err)
		require.Len(t, creators, 3)
		assert.Equal(t, []string{"C1", "C2", "C3"}, []string{creators[0].Name, creators[1].Name, creators[2].Name})

		brands, err := s.Users().ListByRole(ctx, model.RoleBrand)
		require.NoError(t, err)
		require.Len(t, brands, 1)
		assert.Equal(t, "B1", brands[0].Name)
	})

	t.Run("first paid flag flips once", func(t *testing.T) {
		s := newStore(t)
		u := mustCreateUser(t, s, "Ana", "ana@x.com", model.RoleCreator)

		changed, err := s.Users().MarkFirstPaidCollab(ctx, u.ID)
		require.NoError(t, err)
		assert.True(t, changed)

		changed, err = s.Users().MarkFirstPaidCollab(ctx, u.ID)
		require.NoError(t, err)
		assert.False(t, changed)

		got, err := s.Users().GetByID(ctx, u.ID)
		require.NoError(t, err)
		assert.True(t, got.FirstPaidCollabDone)

		_, err = s.Users().MarkFirstPaidCollab(ctx, "missing")
		assert.True(t, errors.Is(err, apperror.ErrNotFound))
	})
}

// ==================== messages ====================

func testMessages(t *testing.T, newStore Factory) {
	ctx := context.Background()
	s := newStore(t)
	a := mustCreateUser(t, s, "A", "a@x.com", model.RoleBrand)
	b := mustCreateUser(t, s, "B", "b@x.com", model.RoleCreator)
	c := mustCreateUser(t, s, "C", "c@x.com", model.RoleCreator)

	for _, m := range []model.Message{
		{From: a.ID, To: b.ID, Text: "one"},
		{From: b.ID, To: a.ID, Text: "two"},
		{From: c.ID, To: b.ID, Text: "three"},
	} {
		msg := m
		require.NoError(t, s.Messages().Create(ctx, &msg))
		assert.NotEmpty(t, msg.ID)
		assert.False(t, msg.At.IsZero())
	}

	forA, err := s.Messages().ListForUser(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, forA, 2)
	assert.Equal(t, "two", forA[0].Text)
	assert.Equal(t, "one", forA[1].Text)

	forB, err := s.Messages().ListForUser(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, forB, 3)
	assert.Equal(t, "three", forB[0].Text)

	none, err := s.Messages().ListForUser(ctx, "stranger")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

// ==================== campaigns ====================

func testCampaigns(t *testing.T, newStore Factory) {
	ctx := context.Background()

	t.Run("list is newest first", func(t *testing.T) {
		s := newStore(t)
		brand := mustCreateUser(t, s, "Acme", "brand@x.com", model.RoleBrand)
		for _, title := range []string{"first", "second"} {
			c := &model.Campaign{BrandID: brand.ID, Title: title, Status: model.CampaignOpen}
			require.NoError(t, s.Campaigns().Create(ctx, c))
			assert.NotEmpty(t, c.ID)
		}

		list, err := s.Campaigns().List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "second", list[0].Title)
		assert.Equal(t, "first", list[1].Title)
	})

	t.Run("close requires owner", func(t *testing.T) {
		s := newStore(t)
		owner := mustCreateUser(t, s, "Acme", "brand@x.com", model.RoleBrand)
		other := mustCreateUser(t, s, "Other", "other@x.com", model.RoleBrand)
		c := &model.Campaign{BrandID: owner.ID, Title: "t", Niche: "Tech", Budget: 100, Status: model.CampaignOpen}
		require.NoError(t, s.Campaigns().Create(ctx, c))

		_, _, err := s.Campaigns().Close(ctx, c.ID, other.ID)
		assert.True(t, errors.Is(err, apperror.ErrNotFound))

		got, err := s.Campaigns().GetByID(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, model.CampaignOpen, got.Status)

		closed, changed, err := s.Campaigns().Close(ctx, c.ID, owner.ID)
		require.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, model.CampaignClosed, closed.Status)
		assert.Equal(t, "t", closed.Title)
		assert.Equal(t, 100.0, closed.Budget)

		again, changed, err := s.Campaigns().Close(ctx, c.ID, owner.ID)
		require.NoError(t, err)
		assert.False(t, changed, "re-closing must not report a transition")
		assert.Equal(t, model.CampaignClosed, again.Status)

		_, _, err = s.Campaigns().Close(ctx, c.ID, other.ID)
		assert.True(t, errors.Is(err, apperror.ErrNotFound), "closed campaign still hidden from other brands")
	})

	t.Run("unknown campaign", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Campaigns().GetByID(ctx, "nope")
		assert.True(t, errors.Is(err, apperror.ErrNotFound))
		_, _, err = s.Campaigns().Close(ctx, "nope", "nobody")
		assert.True(t, errors.Is(err, apperror.ErrNotFound))
	})
}

// ==================== collaborations ====================

func testCollaborations(t *testing.T, newStore Factory) {
	ctx := context.Background()
	s := newStore(t)
	brand := mustCreateUser(t, s, "Acme", "brand@x.com", model.RoleBrand)
	creator := mustCreateUser(t, s, "Riya", "riya@x.com", model.RoleCreator)
	other := mustCreateUser(t, s, "Mohan", "mohan@x.com", model.RoleCreator)

	camp := &model.Campaign{BrandID: brand.ID, Title: "t", Status: model.CampaignOpen}
	require.NoError(t, s.Campaigns().Create(ctx, camp))

	withCampaign := &model.Collaboration{CampaignID: &camp.ID, BrandID: brand.ID, CreatorID: creator.ID, Amount: 5000, Status: model.CollaborationProposed}
	require.NoError(t, s.Collaborations().Create(ctx, withCampaign))
	standalone := &model.Collaboration{BrandID: brand.ID, CreatorID: other.ID, Amount: 10, Status: model.CollaborationProposed}
	require.NoError(t, s.Collaborations().Create(ctx, standalone))

	got, err := s.Collaborations().GetByID(ctx, withCampaign.ID)
	require.NoError(t, err)
	require.NotNil(t, got.CampaignID)
	assert.Equal(t, camp.ID, *got.CampaignID)
	assert.Equal(t, 5000.0, got.Amount)

	got, err = s.Collaborations().GetByID(ctx, standalone.ID)
	require.NoError(t, err)
	assert.Nil(t, got.CampaignID)

	forBrand, err := s.Collaborations().ListForUser(ctx, brand.ID)
	require.NoError(t, err)
	require.Len(t, forBrand, 2)
	assert.Equal(t, standalone.ID, forBrand[0].ID)

	forCreator, err := s.Collaborations().ListForUser(ctx, creator.ID)
	require.NoError(t, err)
	require.Len(t, forCreator, 1)

	paid, moved, err := s.Collaborations().Transition(ctx, withCampaign.ID, model.CollaborationProposed, model.CollaborationPaid)
	require.NoError(t, err)
	assert.True(t, moved)
	assert.Equal(t, model.CollaborationPaid, paid.Status)

	got, err = s.Collaborations().GetByID(ctx, withCampaign.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CollaborationPaid, got.Status)

	again, moved, err := s.Collaborations().Transition(ctx, withCampaign.ID, model.CollaborationProposed, model.CollaborationPaid)
	require.NoError(t, err)
	assert.False(t, moved, "a paid collaboration is no longer proposed")
	assert.Equal(t, model.CollaborationPaid, again.Status)

	_, _, err = s.Collaborations().Transition(ctx, "nope", model.CollaborationProposed, model.CollaborationPaid)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}

// ==================== reset ====================

func testReset(t *testing.T, newStore Factory) {
	ctx := context.Background()
	s := newStore(t)
	brand := mustCreateUser(t, s, "Acme", "brand@x.com", model.RoleBrand)
	creator := mustCreateUser(t, s, "Riya", "riya@x.com", model.RoleCreator)
	require.NoError(t, s.Messages().Create(ctx, &model.Message{From: brand.ID, To: creator.ID, Text: "hi"}))
	require.NoError(t, s.Campaigns().Create(ctx, &model.Campaign{BrandID: brand.ID, Title: "t", Status: model.CampaignOpen}))
	require.NoError(t, s.Collaborations().Create(ctx, &model.Collaboration{BrandID: brand.ID, CreatorID: creator.ID, Status: model.CollaborationProposed}))

	require.NoError(t, s.Reset(ctx))

	users, err := s.Users().ListByRole(ctx, model.RoleBrand)
	require.NoError(t, err)
	assert.Empty(t, users)
	msgs, err := s.Messages().ListForUser(ctx, brand.ID)
	require.NoError(t, err)
	assert.Empty(t, msgs)
	camps, err := s.Campaigns().List(ctx)
	require.NoError(t, err)
	assert.Empty(t, camps)
	collabs, err := s.Collaborations().ListForUser(ctx, brand.ID)
	require.NoError(t, err)
	assert.Empty(t, collabs)

	// the same email can register again after a reset
	mustCreateUser(t, s, "Acme", "brand@x.com", model.RoleBrand)
}

// ==================== concurrency ====================

func testConcurrentRegistration(t *testing.T, newStore Factory) {
	ctx := context.Background()
	s := newStore(t)

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.Users().Create(ctx, &model.User{Name: "Dup", Email: "dup@x.com", Role: model.RoleCreator})
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
				return
			}
			assert.True(t, errors.Is(err, apperror.ErrConflict))
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	users, err := s.Users().ListByRole(ctx, model.RoleCreator)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func testConcurrentTransition(t *testing.T, newStore Factory) {
	ctx := context.Background()
	s := newStore(t)
	brand := mustCreateUser(t, s, "Acme", "brand@x.com", model.RoleBrand)
	creator := mustCreateUser(t, s, "Riya", "riya@x.com", model.RoleCreator)
	collab := &model.Collaboration{BrandID: brand.ID, CreatorID: creator.ID, Amount: 500, Status: model.CollaborationProposed}
	require.NoError(t, s.Collaborations().Create(ctx, collab))

	const workers = 8
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		moves int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c, moved, err := s.Collaborations().Transition(ctx, collab.ID, model.CollaborationProposed, model.CollaborationPaid)
			if !assert.NoError(t, err) {
				return
			}
			assert.Equal(t, model.CollaborationPaid, c.Status)
			if moved {
				mu.Lock()
				moves++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, moves)
}
