package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Muhammed-IrfanAC/signup-bot/internal/domain"
)

const pgUniqueViolation = "23505"

// PostgresRosterStore implements RosterStore using PostgreSQL. Per-event
// serialization comes from locking the event row (SELECT ... FOR UPDATE)
// inside every mutating transaction.
type PostgresRosterStore struct {
	pool *pgxpool.Pool
}

// NewPostgresRosterStore creates a new PostgresRosterStore
func NewPostgresRosterStore(pool *pgxpool.Pool) *PostgresRosterStore {
	return &PostgresRosterStore{pool: pool}
}

const eventColumns = `id, guild_id, name, is_open, frozen, signup_count,
	COALESCE(role_id, '') as role_id, COALESCE(log_channel_id, '') as log_channel_id,
	COALESCE(message_id, '') as message_id, COALESCE(channel_id, '') as channel_id,
	summary_state, created_at`

func scanEvent(row pgx.Row) (*domain.Event, error) {
	event := &domain.Event{}
	err := row.Scan(
		&event.ID,
		&event.GuildID,
		&event.Name,
		&event.IsOpen,
		&event.Frozen,
		&event.SignupCount,
		&event.RoleID,
		&event.LogChannelID,
		&event.MessageID,
		&event.ChannelID,
		&event.SummaryState,
		&event.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return event, nil
}

// CreateEvent persists a new event
func (r *PostgresRosterStore) CreateEvent(ctx context.Context, event *domain.Event) error {
	query := `
		INSERT INTO events (id, guild_id, name, is_open, frozen, signup_count, role_id, log_channel_id, message_id, channel_id, summary_state, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.pool.Exec(ctx, query,
		event.ID,
		event.GuildID,
		event.Name,
		event.IsOpen,
		event.Frozen,
		event.SignupCount,
		nullStringOrValue(event.RoleID),
		nullStringOrValue(event.LogChannelID),
		nullStringOrValue(event.MessageID),
		nullStringOrValue(event.ChannelID),
		string(event.SummaryState),
		event.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return ErrEventExists
		}
		return err
	}
	return nil
}

// GetEvent retrieves an event by guild and name
func (r *PostgresRosterStore) GetEvent(ctx context.Context, guildID, name string) (*domain.Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM events WHERE guild_id = $1 AND name = $2`, eventColumns)
	event, err := scanEvent(r.pool.QueryRow(ctx, query, guildID, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return event, nil
}

// ListEvents retrieves all events for a guild, newest first
func (r *PostgresRosterStore) ListEvents(ctx context.Context, guildID string) ([]*domain.Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM events WHERE guild_id = $1 ORDER BY created_at DESC`, eventColumns)
	rows, err := r.pool.Query(ctx, query, guildID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]*domain.Event, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

// CloseEvent flips an open event to closed
func (r *PostgresRosterStore) CloseEvent(ctx context.Context, guildID, name string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var isOpen, frozen bool
	err = tx.QueryRow(ctx,
		`SELECT is_open, frozen FROM events WHERE guild_id = $1 AND name = $2 FOR UPDATE`,
		guildID, name,
	).Scan(&isOpen, &frozen)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrEventNotFound
		}
		return err
	}
	if frozen {
		return ErrEventFrozen
	}
	if !isOpen {
		return ErrAlreadyClosed
	}

	if _, err := tx.Exec(ctx,
		`UPDATE events SET is_open = FALSE WHERE guild_id = $1 AND name = $2`,
		guildID, name,
	); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// DeleteEvent removes the event; signups go with it via ON DELETE CASCADE,
// so readers never observe a partially deleted roster
func (r *PostgresRosterStore) DeleteEvent(ctx context.Context, guildID, name string) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM events WHERE guild_id = $1 AND name = $2`,
		guildID, name,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrEventNotFound
	}
	return nil
}

// AddSignup inserts a signup at position count+1 and bumps the denormalized
// count in the same transaction, under the event row lock
func (r *PostgresRosterStore) AddSignup(ctx context.Context, guildID, eventName string, signup *domain.Signup) (int, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	var eventID string
	var isOpen, frozen bool
	var count int
	err = tx.QueryRow(ctx,
		`SELECT id, is_open, frozen, signup_count FROM events WHERE guild_id = $1 AND name = $2 FOR UPDATE`,
		guildID, eventName,
	).Scan(&eventID, &isOpen, &frozen, &count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrEventNotFound
		}
		return 0, err
	}
	if frozen {
		return 0, ErrEventFrozen
	}
	if !isOpen {
		return 0, ErrEventClosed
	}

	position := count + 1
	_, err = tx.Exec(ctx, `
		INSERT INTO signups (id, event_id, player_tag, player_name, town_hall, discord_name, discord_user_id, position, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		signup.ID,
		eventID,
		signup.PlayerTag,
		signup.PlayerName,
		signup.TownHall,
		signup.DiscordName,
		signup.DiscordUserID,
		position,
		signup.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return 0, ErrDuplicateSignup
		}
		return 0, err
	}

	if _, err := tx.Exec(ctx,
		`UPDATE events SET signup_count = signup_count + 1 WHERE id = $1`,
		eventID,
	); err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}

	signup.EventID = eventID
	signup.Position = position
	return position, nil
}

// RemoveSignup deletes the signup and compacts the gap: every remaining
// position greater than the removed one shifts down by one, and the count
// drops, all in one transaction. Survivor order is untouched.
func (r *PostgresRosterStore) RemoveSignup(ctx context.Context, guildID, eventName, playerTag string) (*domain.Signup, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var eventID string
	var frozen bool
	var count int
	err = tx.QueryRow(ctx,
		`SELECT id, frozen, signup_count FROM events WHERE guild_id = $1 AND name = $2 FOR UPDATE`,
		guildID, eventName,
	).Scan(&eventID, &frozen, &count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	if frozen {
		return nil, ErrEventFrozen
	}

	removed := &domain.Signup{}
	err = tx.QueryRow(ctx, `
		SELECT id, event_id, player_tag, player_name, town_hall, discord_name, discord_user_id, position, created_at
		FROM signups WHERE event_id = $1 AND player_tag = $2
	`, eventID, playerTag).Scan(
		&removed.ID,
		&removed.EventID,
		&removed.PlayerTag,
		&removed.PlayerName,
		&removed.TownHall,
		&removed.DiscordName,
		&removed.DiscordUserID,
		&removed.Position,
		&removed.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSignupNotFound
		}
		return nil, err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM signups WHERE id = $1`, removed.ID); err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx,
		`UPDATE signups SET position = position - 1 WHERE event_id = $1 AND position > $2`,
		eventID, removed.Position,
	); err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx,
		`UPDATE events SET signup_count = signup_count - 1 WHERE id = $1`,
		eventID,
	); err != nil {
		return nil, err
	}

	// The batch above is atomic, but verify the invariant before committing:
	// live positions must be exactly {1..N}
	var liveCount, maxPosition int
	if err := tx.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(MAX(position), 0) FROM signups WHERE event_id = $1`,
		eventID,
	).Scan(&liveCount, &maxPosition); err != nil {
		return nil, err
	}
	if liveCount != maxPosition || liveCount != count-1 {
		// Roll back the batch whole and halt writes to this event
		_ = tx.Rollback(ctx)
		_, freezeErr := r.pool.Exec(ctx, `UPDATE events SET frozen = TRUE WHERE id = $1`, eventID)
		if freezeErr != nil {
			return nil, fmt.Errorf("%w (freeze failed: %v)", ErrInconsistent, freezeErr)
		}
		return nil, ErrInconsistent
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return removed, nil
}

// GetSignup retrieves one signup by player tag
func (r *PostgresRosterStore) GetSignup(ctx context.Context, guildID, eventName, playerTag string) (*domain.Signup, error) {
	signup := &domain.Signup{}
	err := r.pool.QueryRow(ctx, `
		SELECT s.id, s.event_id, s.player_tag, s.player_name, s.town_hall, s.discord_name, s.discord_user_id, s.position, s.created_at
		FROM signups s
		JOIN events e ON e.id = s.event_id
		WHERE e.guild_id = $1 AND e.name = $2 AND s.player_tag = $3
	`, guildID, eventName, playerTag).Scan(
		&signup.ID,
		&signup.EventID,
		&signup.PlayerTag,
		&signup.PlayerName,
		&signup.TownHall,
		&signup.DiscordName,
		&signup.DiscordUserID,
		&signup.Position,
		&signup.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSignupNotFound
		}
		return nil, err
	}
	return signup, nil
}

// ListSignups retrieves the roster ordered by position ascending
func (r *PostgresRosterStore) ListSignups(ctx context.Context, guildID, eventName string) ([]*domain.Signup, error) {
	event, err := r.GetEvent(ctx, guildID, eventName)
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, event_id, player_tag, player_name, town_hall, discord_name, discord_user_id, position, created_at
		FROM signups WHERE event_id = $1 ORDER BY position ASC
	`, event.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	signups := make([]*domain.Signup, 0, event.SignupCount)
	for rows.Next() {
		signup := &domain.Signup{}
		err := rows.Scan(
			&signup.ID,
			&signup.EventID,
			&signup.PlayerTag,
			&signup.PlayerName,
			&signup.TownHall,
			&signup.DiscordName,
			&signup.DiscordUserID,
			&signup.Position,
			&signup.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		signups = append(signups, signup)
	}
	return signups, rows.Err()
}

// UpdateMessageRef binds the summary message handle to the event
func (r *PostgresRosterStore) UpdateMessageRef(ctx context.Context, guildID, name string, ref domain.MessageRef) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE events SET message_id = $3, channel_id = $4, summary_state = $5
		WHERE guild_id = $1 AND name = $2
	`, guildID, name, ref.MessageID, ref.ChannelID, string(domain.SummaryBound))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrEventNotFound
	}
	return nil
}

// SetSummaryState persists the summary sync state
func (r *PostgresRosterStore) SetSummaryState(ctx context.Context, guildID, name string, state domain.SummaryState) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE events SET summary_state = $3 WHERE guild_id = $1 AND name = $2`,
		guildID, name, string(state),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrEventNotFound
	}
	return nil
}

// nullStringOrValue returns nil for empty strings, otherwise returns the value
func nullStringOrValue(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
