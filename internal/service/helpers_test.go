package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/sakif/collabhub/internal/auth"
	"github.com/sakif/collabhub/internal/metrics"
	"github.com/sakif/collabhub/internal/model"
	"github.com/sakif/collabhub/internal/repository"
	"github.com/sakif/collabhub/internal/repository/memory"
)

// =========================================================================
// TEST ENVIRONMENT
// =========================================================================
//
// Services are tested against the real in-memory store rather than hand
// written fakes: the store is already covered by the repository contract
// suite, and using it keeps the tests about business rules. failingUsers
// below wraps it when a test needs an infrastructure error.

type testEnv struct {
	store     *memory.Store
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	metrics   *metrics.Metrics

	auth    *AuthService
	dir     *DirectoryService
	msgs    *MessageService
	camps   *CampaignService
	collabs *CollaborationService
	seed    *SeedService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithUsers(t, nil)
}

// newTestEnvWithUsers lets a test wrap the user repository the services see.
func newTestEnvWithUsers(t *testing.T, wrap func(repository.UserRepository) repository.UserRepository) *testEnv {
	t.Helper()

	tokens, err := auth.NewTokenService("test-secret-at-least-16-chars!!")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	// bcrypt.MinCost keeps hashing fast in tests.
	passwords := auth.NewPasswordServiceWithCost(bcrypt.MinCost)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store := memory.New()
	users := store.Users()
	if wrap != nil {
		users = wrap(users)
	}

	m := metrics.New()
	dir := NewDirectoryService(users)
	return &testEnv{
		store:     store,
		tokens:    tokens,
		passwords: passwords,
		metrics:   m,
		auth:      NewAuthService(users, tokens, passwords, m, logger),
		dir:       dir,
		msgs:      NewMessageService(store.Messages(), users, m, logger),
		camps:     NewCampaignService(store.Campaigns(), dir, m, logger),
		collabs:   NewCollaborationService(store.Collaborations(), users, store.Campaigns(), m, logger),
		seed:      NewSeedService(store, passwords, m, logger),
	}
}

// eventCount reads one labelled sample of a collabhub_*_events_total counter.
func (e *testEnv) eventCount(t *testing.T, family, event string) float64 {
	t.Helper()
	mfs, err := e.metrics.Registry().Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	for _, mf := range mfs {
		if mf.GetName() != family {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() == "event" && lp.GetValue() == event {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func (e *testEnv) register(t *testing.T, name, email string, role model.Role, profile model.Profile) *model.User {
	t.Helper()
	res, err := e.auth.Register(context.Background(), RegisterInput{
		Name:     name,
		Email:    email,
		Password: "pw",
		Role:     role,
		Profile:  profile,
	})
	if err != nil {
		t.Fatalf("Register(%s) error = %v", email, err)
	}
	return res.User
}

func (e *testEnv) brand(t *testing.T, email string) *model.User {
	t.Helper()
	return e.register(t, "Brand "+email, email, model.RoleBrand, model.Profile{})
}

func (e *testEnv) creator(t *testing.T, name, email, niche string) *model.User {
	t.Helper()
	return e.register(t, name, email, model.RoleCreator, model.Profile{Niche: niche})
}

// failingUsers wraps a UserRepository and fails MarkFirstPaidCollab.
type failingUsers struct {
	repository.UserRepository
	markErr error
}

func (f *failingUsers) MarkFirstPaidCollab(ctx context.Context, id string) (bool, error) {
	if f.markErr != nil {
		return false, f.markErr
	}
	return f.UserRepository.MarkFirstPaidCollab(ctx, id)
}
