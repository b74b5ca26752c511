package sqlite

import (
	"context"
	"testing"

	"github.com/sakif/collabhub/internal/model"
	"github.com/sakif/collabhub/internal/repository"
	"github.com/sakif/collabhub/internal/repository/repotest"
)

// newTestDB returns a fresh ":memory:" database that is closed when the test
// (or subtest) finishes.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestStore(t *testing.T) {
	repotest.Run(t, func(t *testing.T) repository.Store {
		return newTestDB(t)
	})
}

// =========================================================================
// SQLITE-SPECIFIC BEHAVIOUR
// =========================================================================

func TestMigrateIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	if err := db.migrate(); err != nil {
		t.Fatalf("second migrate() error = %v", err)
	}
}

func TestEmptyProfileStoredAsObject(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	user := &model.User{Name: "Acme", Email: "brand@x.com", PasswordHash: "h", Role: model.RoleBrand}
	if err := db.Users().Create(ctx, user); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	var raw string
	if err := db.conn.QueryRow(`SELECT profile FROM users WHERE id = ?`, user.ID).Scan(&raw); err != nil {
		t.Fatalf("reading profile column: %v", err)
	}
	if raw != "{}" {
		t.Errorf("profile column = %q, want %q", raw, "{}")
	}
}

func TestAgeDistributionColumnKeepsOrder(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	user := &model.User{
		Name:  "Mohan",
		Email: "mohan@x.com",
		Role:  model.RoleCreator,
		Profile: model.Profile{
			AgeDistribution: model.AgeDistribution{
				{Label: "35+", Count: 9},
				{Label: "13-18", Count: 6},
			},
		},
	}
	if err := db.Users().Create(ctx, user); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	var raw string
	if err := db.conn.QueryRow(`SELECT profile FROM users WHERE id = ?`, user.ID).Scan(&raw); err != nil {
		t.Fatalf("reading profile column: %v", err)
	}
	want := `{"ageDistribution":{"35+":9,"13-18":6}}`
	if raw != want {
		t.Errorf("profile column = %s, want %s", raw, want)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	db := newTestDB(t)

	_, err := db.conn.Exec(`INSERT INTO users (id, name, email, password_hash, role, created_at)
		VALUES ('a', 'A', 'dup@x.com', 'h', 'brand', CURRENT_TIMESTAMP)`)
	if err != nil {
		t.Fatalf("first insert: %v", err)
	}
	_, err = db.conn.Exec(`INSERT INTO users (id, name, email, password_hash, role, created_at)
		VALUES ('b', 'B', 'dup@x.com', 'h', 'brand', CURRENT_TIMESTAMP)`)
	if !isUniqueViolation(err) {
		t.Errorf("isUniqueViolation(%v) = false, want true", err)
	}
	if isUniqueViolation(nil) {
		t.Error("isUniqueViolation(nil) = true")
	}
}
