// Package sqlite implements the repository interfaces on top of SQLite.
//
// The driver is modernc.org/sqlite, a pure Go translation of SQLite, so the
// binary builds without CGo. The default DSN is ":memory:", which keeps the
// marketplace's lifecycle (state lives until the process exits or Reset is
// called) while exercising real SQL. A file path works as well.
//
// DATABASE/SQL AND ":memory:":
// sql.DB is a connection pool, and every new connection to ":memory:" gets its
// own private, empty database. New therefore pins the pool to one connection.
// That single connection also serializes writers, so each repository call is
// atomic without extra locking.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	msqlite "modernc.org/sqlite"
	sqlitelib "modernc.org/sqlite/lib"

	"github.com/sakif/collabhub/internal/repository"
)

var _ repository.Store = (*DB)(nil)

// DB wraps a sql.DB and hands out one repository per table.
type DB struct {
	conn *sql.DB

	users          *UserDB
	messages       *MessageDB
	campaigns      *CampaignDB
	collaborations *CollaborationDB
}

// New opens the database at dbPath and runs migrations.
//
// dbPath examples:
//   - ":memory:"            → in-process database, gone on Close
//   - "data/collabhub.db"  → file-based database
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}
	conn.SetMaxOpenConns(1)

	// Ping forces the first real connection so a bad path fails here.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}
	db.users = &UserDB{conn: conn}
	db.messages = &MessageDB{conn: conn}
	db.campaigns = &CampaignDB{conn: conn}
	db.collaborations = &CollaborationDB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

func (db *DB) Users() repository.UserRepository                   { return db.users }
func (db *DB) Messages() repository.MessageRepository             { return db.messages }
func (db *DB) Campaigns() repository.CampaignRepository           { return db.campaigns }
func (db *DB) Collaborations() repository.CollaborationRepository { return db.collaborations }

// Close closes the connection pool. With ":memory:" this discards all data.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Reset deletes every row in one transaction. Children go first so the
// foreign keys never see a dangling reference.
func (db *DB) Reset(ctx context.Context) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning reset: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"collaborations", "messages", "campaigns", "users"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("sqlite: clearing %s: %w", table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing reset: %w", err)
	}
	return nil
}

// migrate creates the schema. CREATE ... IF NOT EXISTS makes it safe to run
// against an existing file.
//
// Listing order follows insertion order, so every query sorts by rowid rather
// than by timestamp: two records created in the same clock tick still come
// back in a stable order.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id                     TEXT PRIMARY KEY,
			name                   TEXT NOT NULL,
			email                  TEXT NOT NULL UNIQUE,
			password_hash          TEXT NOT NULL,
			role                   TEXT NOT NULL,
			profile                TEXT NOT NULL DEFAULT '{}',
			verified               INTEGER NOT NULL DEFAULT 0,
			first_paid_collab_done INTEGER NOT NULL DEFAULT 0,
			created_at             DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_users_role ON users(role);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS messages (
			id        TEXT PRIMARY KEY,
			from_user TEXT NOT NULL REFERENCES users(id),
			to_user   TEXT NOT NULL REFERENCES users(id),
			text      TEXT NOT NULL,
			at        DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_messages_from ON messages(from_user);
		CREATE INDEX IF NOT EXISTS idx_messages_to ON messages(to_user);
	`)
	if err != nil {
		return fmt.Errorf("creating messages table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS campaigns (
			id          TEXT PRIMARY KEY,
			brand_id    TEXT NOT NULL REFERENCES users(id),
			title       TEXT NOT NULL,
			niche       TEXT NOT NULL,
			budget      REAL NOT NULL DEFAULT 0,
			description TEXT NOT NULL DEFAULT '',
			status      TEXT NOT NULL,
			created_at  DATETIME NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("creating campaigns table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS collaborations (
			id          TEXT PRIMARY KEY,
			campaign_id TEXT REFERENCES campaigns(id),
			brand_id    TEXT NOT NULL REFERENCES users(id),
			creator_id  TEXT NOT NULL REFERENCES users(id),
			amount      REAL NOT NULL DEFAULT 0,
			status      TEXT NOT NULL,
			created_at  DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_collaborations_brand ON collaborations(brand_id);
		CREATE INDEX IF NOT EXISTS idx_collaborations_creator ON collaborations(creator_id);
	`)
	if err != nil {
		return fmt.Errorf("creating collaborations table: %w", err)
	}

	return nil
}

// isUniqueViolation reports whether err came from a UNIQUE constraint.
func isUniqueViolation(err error) bool {
	var se *msqlite.Error
	if errors.As(err, &se) {
		return se.Code() == sqlitelib.SQLITE_CONSTRAINT_UNIQUE
	}
	return false
}

// scanner is the subset shared by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}
