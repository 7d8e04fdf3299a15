package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresLeaderStore implements LeaderStore using PostgreSQL
type PostgresLeaderStore struct {
	pool *pgxpool.Pool
}

// NewPostgresLeaderStore creates a new PostgresLeaderStore
func NewPostgresLeaderStore(pool *pgxpool.Pool) *PostgresLeaderStore {
	return &PostgresLeaderStore{pool: pool}
}

// Grant adds a role to the leader set; granting twice is a no-op
func (r *PostgresLeaderStore) Grant(ctx context.Context, guildID, roleID string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO leader_roles (guild_id, role_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (guild_id, role_id) DO NOTHING
	`, guildID, roleID, time.Now())
	return err
}

// Revoke removes a role from the leader set
func (r *PostgresLeaderStore) Revoke(ctx context.Context, guildID, roleID string) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM leader_roles WHERE guild_id = $1 AND role_id = $2`,
		guildID, roleID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrLeaderRoleNotFound
	}
	return nil
}

// List returns all leader role IDs for a guild
func (r *PostgresLeaderStore) List(ctx context.Context, guildID string) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT role_id FROM leader_roles WHERE guild_id = $1 ORDER BY created_at ASC`,
		guildID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	roles := make([]string, 0)
	for rows.Next() {
		var roleID string
		if err := rows.Scan(&roleID); err != nil {
			return nil, err
		}
		roles = append(roles, roleID)
	}
	return roles, rows.Err()
}

// IsLeader reports whether any of the given roles is a leader role
func (r *PostgresLeaderStore) IsLeader(ctx context.Context, guildID string, roleIDs []string) (bool, error) {
	if len(roleIDs) == 0 {
		return false, nil
	}
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM leader_roles WHERE guild_id = $1 AND role_id = ANY($2))`,
		guildID, roleIDs,
	).Scan(&exists)
	return exists, err
}
