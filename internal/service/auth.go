// Package service holds the marketplace's business rules.
//
//	Handler (HTTP) → Service (rules, permissions) → Repository (storage)
//
// Services take repository interfaces, never a concrete store, so the same
// code runs against the in-memory store and the sqlite store. Errors that the
// caller should see are *apperror.AppError values; anything else is an
// infrastructure failure wrapped with the "service/<area>:" prefix.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/collabhub/internal/apperror"
	"github.com/sakif/collabhub/internal/auth"
	"github.com/sakif/collabhub/internal/metrics"
	"github.com/sakif/collabhub/internal/model"
	"github.com/sakif/collabhub/internal/repository"
)

// AuthService registers and logs in users.
//
// DEPENDENCIES (injected via NewAuthService):
//   - users      repository.UserRepository  → read/write user records
//   - tokens     *auth.TokenService         → issue JWTs
//   - passwords  *auth.PasswordService      → bcrypt hashing
//   - metrics    *metrics.Metrics           → may be nil
//   - logger     *slog.Logger               → structured logging
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	m *metrics.Metrics,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		metrics:   m,
		logger:    logger,
	}
}

// AuthResult bundles the user and a freshly issued token. It is the JSON body
// of both register and login responses.
type AuthResult struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// RegisterInput is the payload of a registration.
type RegisterInput struct {
	Name     string        `json:"name"`
	Email    string        `json:"email"`
	Password string        `json:"password"`
	Role     model.Role    `json:"role"`
	Profile  model.Profile `json:"profile"`
}

// Register creates a user with verified and firstPaidCollabDone both false.
//
// Errors:
//   - apperror.ErrValidation when name, email, password or role is missing,
//     or role is neither brand nor creator
//   - apperror.ErrConflict when the email is already registered
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	switch {
	case isBlank(in.Name):
		return nil, apperror.ValidationFailed("name", "name is required")
	case isBlank(in.Email):
		return nil, apperror.ValidationFailed("email", "email is required")
	case in.Password == "":
		return nil, apperror.ValidationFailed("password", "password is required")
	case in.Role == "":
		return nil, apperror.ValidationFailed("role", "role is required")
	case !in.Role.Valid():
		return nil, apperror.ValidationFailed("role", "role must be brand or creator")
	}

	hash, err := s.passwords.Hash(in.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return nil, apperror.ValidationFailed("password", err.Error())
		}
		return nil, fmt.Errorf("service/auth: hashing password: %w", err)
	}

	user := &model.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
		Profile:      in.Profile,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("service/auth: creating user: %w", err)
	}

	s.metrics.UserRegistered(string(user.Role))
	s.logger.Info("user registered",
		slog.String("userID", user.ID),
		slog.String("role", string(user.Role)),
	)

	return s.issue(user)
}

// Login checks the email/password pair. Unknown email and wrong password both
// yield apperror.ErrInvalidCredentials so callers cannot probe for accounts.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	if isBlank(email) || password == "" {
		s.metrics.LoginAttempt(false)
		return nil, apperror.InvalidCredentials()
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			s.metrics.LoginAttempt(false)
			return nil, apperror.InvalidCredentials()
		}
		return nil, fmt.Errorf("service/auth: looking up user: %w", err)
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		s.metrics.LoginAttempt(false)
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, apperror.InvalidCredentials()
		}
		return nil, fmt.Errorf("service/auth: verifying password: %w", err)
	}

	s.metrics.LoginAttempt(true)
	s.logger.Info("user logged in", slog.String("userID", user.ID))
	return s.issue(user)
}

// GetUserByID returns the user for the given id, or apperror.ErrNotFound.
func (s *AuthService) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, passThrough("service/auth", "fetching user", err)
	}
	return user, nil
}

// FindByEmail is a side-effect-free lookup by exact email.
func (s *AuthService) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, passThrough("service/auth", "fetching user by email", err)
	}
	return user, nil
}

func (s *AuthService) issue(user *model.User) (*AuthResult, error) {
	token, err := s.tokens.Generate(user)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %s: %w", user.ID, err)
	}
	return &AuthResult{Token: token, User: user}, nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// passThrough returns domain errors untouched and wraps everything else, so
// handlers can still map *apperror.AppError to a status code.
func passThrough(layer, action string, err error) error {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return fmt.Errorf("%s: %s: %w", layer, action, err)
}
