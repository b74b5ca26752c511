package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sakif/collabhub/internal/apperror"
	"github.com/sakif/collabhub/internal/model"
)

// =========================================================================
// Register TESTS
// =========================================================================

func TestRegister_CreatesUnverifiedUser(t *testing.T) {
	env := newTestEnv(t)

	res, err := env.auth.Register(context.Background(), RegisterInput{
		Name:     "Ana",
		Email:    "ana@x.com",
		Password: "pw",
		Role:     model.RoleCreator,
		Profile:  model.Profile{Niche: "Food"},
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if res.Token == "" {
		t.Fatal("Register() returned empty token")
	}
	if res.User.ID == "" {
		t.Error("User.ID should be set")
	}
	if res.User.Verified || res.User.FirstPaidCollabDone {
		t.Errorf("new user flags = verified:%v firstPaid:%v, want both false",
			res.User.Verified, res.User.FirstPaidCollabDone)
	}
	if res.User.Profile.Niche != "Food" {
		t.Errorf("Profile.Niche = %q, want %q", res.User.Profile.Niche, "Food")
	}
	if res.User.PasswordHash == "pw" || !strings.HasPrefix(res.User.PasswordHash, "$2") {
		t.Errorf("PasswordHash = %q, want a bcrypt hash", res.User.PasswordHash)
	}
}

func TestRegister_Validation(t *testing.T) {
	valid := RegisterInput{Name: "Ana", Email: "ana@x.com", Password: "pw", Role: model.RoleBrand}

	tests := []struct {
		name   string
		modify func(*RegisterInput)
		field  string
	}{
		{"missing name", func(in *RegisterInput) { in.Name = "" }, "name"},
		{"blank name", func(in *RegisterInput) { in.Name = "   " }, "name"},
		{"missing email", func(in *RegisterInput) { in.Email = "" }, "email"},
		{"missing password", func(in *RegisterInput) { in.Password = "" }, "password"},
		{"missing role", func(in *RegisterInput) { in.Role = "" }, "role"},
		{"unknown role", func(in *RegisterInput) { in.Role = "admin" }, "role"},
		{"password too long", func(in *RegisterInput) { in.Password = strings.Repeat("x", 73) }, "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			in := valid
			tt.modify(&in)

			_, err := env.auth.Register(context.Background(), in)
			if !errors.Is(err, apperror.ErrValidation) {
				t.Fatalf("Register() error = %v, want ErrValidation", err)
			}
			var appErr *apperror.AppError
			if errors.As(err, &appErr) && appErr.Field != tt.field {
				t.Errorf("Field = %q, want %q", appErr.Field, tt.field)
			}

			brands, _ := env.dir.ListBrands(context.Background())
			if len(brands) != 0 {
				t.Errorf("invalid registration stored %d users", len(brands))
			}
		})
	}
}

func TestRegister_DuplicateEmailConflicts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.brand(t, "dup@x.com")

	_, err := env.auth.Register(ctx, RegisterInput{
		Name: "Someone", Email: "dup@x.com", Password: "other", Role: model.RoleCreator,
	})
	if !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("Register() error = %v, want ErrConflict", err)
	}

	creators, _ := env.dir.ListCreators(ctx, CreatorFilter{})
	brands, _ := env.dir.ListBrands(ctx)
	if len(creators)+len(brands) != 1 {
		t.Errorf("user count = %d, want 1", len(creators)+len(brands))
	}
}

// =========================================================================
// Login TESTS
// =========================================================================

func TestLogin_TokenResolvesToSameUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	registered := env.brand(t, "b@x.com")

	res, err := env.auth.Login(ctx, "b@x.com", "pw")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if res.User.ID != registered.ID {
		t.Errorf("Login() user = %s, want %s", res.User.ID, registered.ID)
	}

	claims, err := env.tokens.Validate(res.Token)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if claims.UserID() != registered.ID {
		t.Errorf("token subject = %q, want %q", claims.UserID(), registered.ID)
	}
	if claims.Role != model.RoleBrand {
		t.Errorf("token role = %q, want %q", claims.Role, model.RoleBrand)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	env := newTestEnv(t)
	env.brand(t, "b@x.com")

	tests := []struct {
		name, email, password string
	}{
		{"wrong password", "b@x.com", "nope"},
		{"unknown email", "who@x.com", "pw"},
		{"email case differs", "B@X.COM", "pw"},
		{"empty email", "", "pw"},
		{"empty password", "b@x.com", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.auth.Login(context.Background(), tt.email, tt.password)
			if !errors.Is(err, apperror.ErrInvalidCredentials) {
				t.Errorf("Login() error = %v, want ErrInvalidCredentials", err)
			}
		})
	}
}

// =========================================================================
// Lookup TESTS
// =========================================================================

func TestGetUserByID(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.creator(t, "Ana", "ana@x.com", "Food")

	got, err := env.auth.GetUserByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetUserByID() error = %v", err)
	}
	if got.Email != "ana@x.com" {
		t.Errorf("Email = %q, want %q", got.Email, "ana@x.com")
	}

	_, err = env.auth.GetUserByID(ctx, "missing")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetUserByID(missing) error = %v, want ErrNotFound", err)
	}
}

func TestFindByEmail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.creator(t, "Ana", "ana@x.com", "Food")

	got, err := env.auth.FindByEmail(ctx, "ana@x.com")
	if err != nil {
		t.Fatalf("FindByEmail() error = %v", err)
	}
	if got.ID != u.ID {
		t.Errorf("ID = %q, want %q", got.ID, u.ID)
	}

	_, err = env.auth.FindByEmail(ctx, "nobody@x.com")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("FindByEmail(unknown) error = %v, want ErrNotFound", err)
	}
}
