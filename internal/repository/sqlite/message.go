package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/collabhub/internal/model"
	"github.com/sakif/collabhub/internal/repository"
)

var _ repository.MessageRepository = (*MessageDB)(nil)

// MessageDB is the messages table. Rows are never updated.
type MessageDB struct {
	conn *sql.DB
}

func (m *MessageDB) Create(ctx context.Context, msg *model.Message) error {
	id := xid.New().String()
	now := time.Now()

	_, err := m.conn.ExecContext(ctx,
		`INSERT INTO messages (id, from_user, to_user, text, at) VALUES (?, ?, ?, ?, ?)`,
		id, msg.From, msg.To, msg.Text, now,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting message: %w", err)
	}

	msg.ID = id
	msg.At = now
	return nil
}

func (m *MessageDB) ListForUser(ctx context.Context, userID string) ([]model.Message, error) {
	rows, err := m.conn.QueryContext(ctx,
		`SELECT id, from_user, to_user, text, at FROM messages
		 WHERE from_user = ? OR to_user = ?
		 ORDER BY rowid DESC`,
		userID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing messages for %s: %w", userID, err)
	}
	defer rows.Close()

	msgs := make([]model.Message, 0)
	for rows.Next() {
		var msg model.Message
		if err := rows.Scan(&msg.ID, &msg.From, &msg.To, &msg.Text, &msg.At); err != nil {
			return nil, fmt.Errorf("sqlite: scanning message row: %w", err)
		}
		msgs = append(msgs, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating message rows: %w", err)
	}
	return msgs, nil
}
