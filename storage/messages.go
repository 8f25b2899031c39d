package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"wtldr/model"
)

// Supported store drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// ErrMessageNotFound is returned by GetMessage when no row has the given id.
var ErrMessageNotFound = model.ErrMessageNotFound

// MessageStore is the per-group chat message log.
// It backs window selection and is fed by the import command and the HTTP ingest endpoint.
type MessageStore struct {
	db      *sql.DB
	dialect dialect
}

// Open opens the message log with the given driver ("sqlite" or "postgres") and DSN.
// For SQLite the DSN is a file path; its parent directory is created (0700).
func Open(driver, dsn string) (*MessageStore, error) {
	var (
		sqlDriver string
		d         dialect
	)

	switch driver {
	case DriverSQLite, "":
		sqlDriver, d = "sqlite", sqliteDialect
		if dir := filepath.Dir(dsn); dir != "" && !strings.HasPrefix(dsn, "file:") {
			if err := os.MkdirAll(dir, 0700); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
	case DriverPostgres:
		sqlDriver, d = "pgx", postgresDialect
	default:
		return nil, fmt.Errorf("unknown store driver: %s", driver)
	}

	db, err := sql.Open(sqlDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &MessageStore{db: db, dialect: d}

	if err := store.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return store, nil
}

func (s *MessageStore) initialize() error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS messages (
			id TEXT PRIMARY KEY,
			platform TEXT NOT NULL,
			guild_id TEXT NOT NULL,
			user_id TEXT NOT NULL,
			username TEXT NOT NULL,
			content TEXT NOT NULL,
			timestamp BIGINT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_window ON messages(platform, guild_id, timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_user_window ON messages(platform, guild_id, user_id, timestamp)`,
	}

	for _, stmt := range schema {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the underlying database.
func (s *MessageStore) Close() error {
	return s.db.Close()
}

// QueryMessages returns the messages matching the criteria, newest first, at most
// criteria.Limit rows. Rows sharing a timestamp are ordered by id so the result is
// deterministic for fixed contents.
func (s *MessageStore) QueryMessages(ctx context.Context, criteria model.SelectionCriteria) ([]model.StoredMessage, error) {
	if criteria.Limit <= 0 {
		return nil, fmt.Errorf("invalid limit: %d", criteria.Limit)
	}

	query, args := buildWindowQuery(criteria)
	rows, err := s.db.QueryContext(ctx, s.dialect.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	messages := make([]model.StoredMessage, 0, criteria.Limit)
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read messages: %w", err)
	}

	return messages, nil
}

// GetMessage loads a single message by id.
func (s *MessageStore) GetMessage(ctx context.Context, id string) (model.StoredMessage, error) {
	row := s.db.QueryRowContext(ctx, s.dialect.rebind(
		`SELECT id, platform, guild_id, user_id, username, content, timestamp
		FROM messages WHERE id = ?`), id)

	msg, err := scanMessage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.StoredMessage{}, ErrMessageNotFound
	}
	if err != nil {
		return model.StoredMessage{}, fmt.Errorf("failed to load message: %w", err)
	}
	return msg, nil
}

// Insert records messages in the log. Messages without an id get a random UUID and
// messages without a timestamp get the current time. Re-inserting an existing id is a no-op.
// It returns the number of rows actually written.
func (s *MessageStore) Insert(ctx context.Context, messages ...model.StoredMessage) (int, error) {
	if len(messages) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, s.dialect.rebind(
		`INSERT INTO messages (id, platform, guild_id, user_id, username, content, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO NOTHING`))
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	written := 0
	for _, msg := range messages {
		if err := validateMessage(msg); err != nil {
			return 0, err
		}
		if msg.ID == "" {
			msg.ID = uuid.New().String()
		}
		if msg.Timestamp.IsZero() {
			msg.Timestamp = time.Now()
		}

		res, err := stmt.ExecContext(ctx,
			msg.ID, msg.Platform, msg.GuildID, msg.UserID, msg.Username, msg.Content,
			msg.Timestamp.UnixMilli())
		if err != nil {
			return 0, fmt.Errorf("failed to insert message %s: %w", msg.ID, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			written += int(n)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit messages: %w", err)
	}
	return written, nil
}

// Senders returns the distinct senders of a guild with their most recent display name,
// most recently active first.
func (s *MessageStore) Senders(ctx context.Context, platform, guildID string) ([]model.Sender, error) {
	rows, err := s.db.QueryContext(ctx, s.dialect.rebind(
		`SELECT m.user_id, m.username
		FROM messages m
		JOIN (
			SELECT user_id, MAX(timestamp) AS last_seen
			FROM messages
			WHERE platform = ? AND guild_id = ?
			GROUP BY user_id
		) latest ON latest.user_id = m.user_id AND latest.last_seen = m.timestamp
		WHERE m.platform = ? AND m.guild_id = ?
		ORDER BY latest.last_seen DESC, m.user_id`),
		platform, guildID, platform, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to query senders: %w", err)
	}
	defer rows.Close()

	var senders []model.Sender
	seen := make(map[string]bool)
	for rows.Next() {
		var sender model.Sender
		if err := rows.Scan(&sender.UserID, &sender.Username); err != nil {
			return nil, fmt.Errorf("failed to scan sender: %w", err)
		}
		// Two messages from one user may share the latest timestamp
		if seen[sender.UserID] {
			continue
		}
		seen[sender.UserID] = true
		senders = append(senders, sender)
	}
	return senders, rows.Err()
}

// buildWindowQuery renders the window selection query with '?' placeholders.
func buildWindowQuery(c model.SelectionCriteria) (string, []any) {
	var b strings.Builder
	args := []any{c.Platform, c.GuildID}

	b.WriteString(`SELECT id, platform, guild_id, user_id, username, content, timestamp
		FROM messages WHERE platform = ? AND guild_id = ?`)

	if c.UserID != "" {
		b.WriteString(` AND user_id = ?`)
		args = append(args, c.UserID)
	}
	if c.MinTimestamp != nil {
		b.WriteString(` AND timestamp >= ?`)
		args = append(args, c.MinTimestamp.UnixMilli())
	}

	b.WriteString(` ORDER BY timestamp DESC, id DESC LIMIT ?`)
	args = append(args, c.Limit)

	return b.String(), args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMessage(r rowScanner) (model.StoredMessage, error) {
	var (
		msg    model.StoredMessage
		millis int64
	)
	if err := r.Scan(&msg.ID, &msg.Platform, &msg.GuildID, &msg.UserID, &msg.Username, &msg.Content, &millis); err != nil {
		return model.StoredMessage{}, err
	}
	msg.Timestamp = time.UnixMilli(millis)
	return msg, nil
}

func validateMessage(msg model.StoredMessage) error {
	switch {
	case msg.Platform == "":
		return fmt.Errorf("%w: message %q: platform is required", model.ErrInvalidMessage, msg.ID)
	case msg.GuildID == "":
		return fmt.Errorf("%w: message %q: guild_id is required", model.ErrInvalidMessage, msg.ID)
	case msg.UserID == "":
		return fmt.Errorf("%w: message %q: user_id is required", model.ErrInvalidMessage, msg.ID)
	}
	return nil
}
