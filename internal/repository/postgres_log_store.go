package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Muhammed-IrfanAC/signup-bot/internal/domain"
)

// PostgresLogStore implements LogStore using PostgreSQL
type PostgresLogStore struct {
	pool *pgxpool.Pool
}

// NewPostgresLogStore creates a new PostgresLogStore
func NewPostgresLogStore(pool *pgxpool.Pool) *PostgresLogStore {
	return &PostgresLogStore{pool: pool}
}

// Append persists a new log entry
func (r *PostgresLogStore) Append(ctx context.Context, entry *domain.LogEntry) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO log_entries (id, guild_id, event_name, action, actor_name, actor_avatar_url, success, details, error_reason, payload, processed, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`,
		entry.ID,
		entry.GuildID,
		entry.EventName,
		string(entry.Action),
		entry.ActorName,
		entry.ActorAvatarURL,
		entry.Success,
		entry.Details,
		entry.ErrorReason,
		entry.Payload,
		entry.Processed,
		entry.CreatedAt,
	)
	return err
}

// ListUnprocessed returns up to limit undelivered entries, oldest first
func (r *PostgresLogStore) ListUnprocessed(ctx context.Context, limit int) ([]*domain.LogEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, guild_id, event_name, action, actor_name, actor_avatar_url, success, details, error_reason, payload, processed, created_at
		FROM log_entries WHERE NOT processed ORDER BY created_at ASC LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]*domain.LogEntry, 0)
	for rows.Next() {
		entry := &domain.LogEntry{}
		var action string
		err := rows.Scan(
			&entry.ID,
			&entry.GuildID,
			&entry.EventName,
			&action,
			&entry.ActorName,
			&entry.ActorAvatarURL,
			&entry.Success,
			&entry.Details,
			&entry.ErrorReason,
			&entry.Payload,
			&entry.Processed,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		entry.Action = domain.LogAction(action)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// MarkProcessed flags an entry as delivered
func (r *PostgresLogStore) MarkProcessed(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE log_entries SET processed = TRUE WHERE id = $1`,
		id,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrLogEntryNotFound
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrLogEntryNotFound
	}
	return nil
}
