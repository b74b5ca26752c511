package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/collabhub/internal/apperror"
	"github.com/sakif/collabhub/internal/model"
	"github.com/sakif/collabhub/internal/repository"
)

var _ repository.UserRepository = (*UserDB)(nil)

// UserDB is the users table.
//
// The profile is stored as one JSON text column. model.AgeDistribution
// encodes as an ordered object, so bucket order survives the round trip.
type UserDB struct {
	conn *sql.DB
}

const userColumns = `id, name, email, password_hash, role, profile, verified, first_paid_collab_done, created_at`

// Create inserts a user. The UNIQUE index on email turns a duplicate into
// apperror.ErrConflict.
func (u *UserDB) Create(ctx context.Context, user *model.User) error {
	profile, err := json.Marshal(user.Profile)
	if err != nil {
		return fmt.Errorf("sqlite: encoding profile for %s: %w", user.Email, err)
	}

	id := xid.New().String()
	now := time.Now()

	_, err = u.conn.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id,
		user.Name,
		user.Email,
		user.PasswordHash,
		string(user.Role),
		string(profile),
		user.Verified,
		user.FirstPaidCollabDone,
		now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("email", user.Email)
		}
		return fmt.Errorf("sqlite: inserting user %s: %w", user.Email, err)
	}

	user.ID = id
	user.CreatedAt = now
	return nil
}

func (u *UserDB) GetByID(ctx context.Context, id string) (*model.User, error) {
	row := u.conn.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("user", id)
		}
		return nil, fmt.Errorf("sqlite: getting user %s: %w", id, err)
	}
	return user, nil
}

func (u *UserDB) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	row := u.conn.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("user", email)
		}
		return nil, fmt.Errorf("sqlite: getting user by email: %w", err)
	}
	return user, nil
}

func (u *UserDB) ListByRole(ctx context.Context, role model.Role) ([]model.User, error) {
	rows, err := u.conn.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE role = ? ORDER BY rowid ASC`, string(role))
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing %s users: %w", role, err)
	}
	defer rows.Close()

	users := make([]model.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning user row: %w", err)
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating user rows: %w", err)
	}
	return users, nil
}

// MarkFirstPaidCollab only updates rows where the flag is still 0, so
// RowsAffected tells us whether this call made the transition.
func (u *UserDB) MarkFirstPaidCollab(ctx context.Context, id string) (bool, error) {
	res, err := u.conn.ExecContext(ctx,
		`UPDATE users SET first_paid_collab_done = 1 WHERE id = ? AND first_paid_collab_done = 0`, id)
	if err != nil {
		return false, fmt.Errorf("sqlite: marking first paid collab for %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("sqlite: rows affected: %w", err)
	}
	if n > 0 {
		return true, nil
	}

	// Nothing changed: either the flag was already set or the user is gone.
	if _, err := u.GetByID(ctx, id); err != nil {
		return false, err
	}
	return false, nil
}

func scanUser(s scanner) (*model.User, error) {
	var (
		user    model.User
		role    string
		profile string
	)
	err := s.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&role,
		&profile,
		&user.Verified,
		&user.FirstPaidCollabDone,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	user.Role = model.Role(role)
	if err := json.Unmarshal([]byte(profile), &user.Profile); err != nil {
		return nil, fmt.Errorf("decoding profile of %s: %w", user.ID, err)
	}
	return &user, nil
}
