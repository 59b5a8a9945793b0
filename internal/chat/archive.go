package chat

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
)

// Archive copies chats and messages to Postgres. The in-memory store stays
// the source of truth; the archive is a best-effort transcript.
type Archive struct {
	db *sql.DB
}

func NewArchive(db *sql.DB) *Archive {
	return &Archive{db: db}
}

func (a *Archive) SaveChat(ctx context.Context, c Chat) error {
	query := `
		INSERT INTO chats (id, type, topic, name, creator_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name`
	if _, err := a.db.ExecContext(ctx, query, c.ID, c.Type, c.Topic, c.Name, c.CreatorID, c.CreatedAt); err != nil {
		return errors.Wrapf(err, "archiving chat %s", c.ID)
	}

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin participants tx")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM chat_participants WHERE chat_id = $1", c.ID); err != nil {
		return errors.Wrap(err, "clearing participants")
	}
	for _, id := range c.ParticipantIDs {
		if _, err := tx.ExecContext(ctx, "INSERT INTO chat_participants (chat_id, user_id) VALUES ($1, $2)", c.ID, id); err != nil {
			return errors.Wrapf(err, "archiving participant %s", id)
		}
	}
	return errors.Wrap(tx.Commit(), "commit participants")
}

func (a *Archive) SaveMessage(ctx context.Context, chatID string, m Message) error {
	var fileName, fileType, fileURL sql.NullString
	if m.File != nil {
		fileName = sql.NullString{String: m.File.Name, Valid: true}
		fileType = sql.NullString{String: m.File.MIMEType, Valid: true}
		fileURL = sql.NullString{String: m.File.URL, Valid: true}
	}

	query := `
		INSERT INTO messages (id, chat_id, seq, sender_id, content, file_name, file_type, file_url, sent_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO NOTHING`
	_, err := a.db.ExecContext(ctx, query, m.ID, chatID, m.Seq, m.SenderID, m.Text, fileName, fileType, fileURL, m.SentAt)
	return errors.Wrapf(err, "archiving message %s", m.ID)
}

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
)

// historyLimit defaults a missing limit and clamps a large one.
func historyLimit(limit int) int {
	switch {
	case limit <= 0:
		return defaultHistoryLimit
	case limit > maxHistoryLimit:
		return maxHistoryLimit
	}
	return limit
}

// History reads an archived chat log back in append order.
func (a *Archive) History(ctx context.Context, chatID string, limit int) ([]Message, error) {
	limit = historyLimit(limit)
	query := `
		SELECT id, seq, sender_id, content, file_name, file_type, file_url, sent_at
		FROM messages
		WHERE chat_id = $1
		ORDER BY seq DESC
		LIMIT $2`
	rows, err := a.db.QueryContext(ctx, query, chatID, limit)
	if err != nil {
		return nil, errors.Wrap(err, "querying history")
	}
	defer rows.Close()

	var msgs []Message
	for rows.Next() {
		var m Message
		var fileName, fileType, fileURL sql.NullString
		if err := rows.Scan(&m.ID, &m.Seq, &m.SenderID, &m.Text, &fileName, &fileType, &fileURL, &m.SentAt); err != nil {
			return nil, errors.Wrap(err, "scanning message")
		}
		if fileURL.Valid {
			m.File = &Attachment{Name: fileName.String, MIMEType: fileType.String, URL: fileURL.String}
		}
		m.Timestamp = m.SentAt.Format(TimestampLayout)
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterating history")
	}

	// newest-first from the query, oldest-first for the caller
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}
