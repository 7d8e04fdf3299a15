package repository

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/Muhammed-IrfanAC/signup-bot/internal/domain"
	"github.com/Muhammed-IrfanAC/signup-bot/pkg/database"
)

// Integration tests expect a database with migrations/001_init.sql applied.
// Set INTEGRATION_TEST=true to run.

func setupPostgresStores(t *testing.T) (*database.PostgresDB, *PostgresRosterStore) {
	t.Helper()

	if os.Getenv("INTEGRATION_TEST") != "true" {
		t.Skip("Skipping integration test. Set INTEGRATION_TEST=true to run")
	}

	cfg := database.DefaultPostgresConfig()
	if host := os.Getenv("TEST_POSTGRES_HOST"); host != "" {
		cfg.Host = host
	}
	if user := os.Getenv("TEST_POSTGRES_USER"); user != "" {
		cfg.User = user
	}
	if password := os.Getenv("TEST_POSTGRES_PASSWORD"); password != "" {
		cfg.Password = password
	}
	if dbname := os.Getenv("TEST_POSTGRES_DATABASE"); dbname != "" {
		cfg.Database = dbname
	}

	ctx := context.Background()
	db, err := database.NewPostgresDB(ctx, cfg)
	if err != nil {
		t.Fatalf("Failed to connect to postgres: %v", err)
	}
	t.Cleanup(db.Close)

	if _, err := db.Pool().Exec(ctx, "TRUNCATE events, signups, leader_roles, log_entries"); err != nil {
		t.Fatalf("Failed to truncate tables: %v", err)
	}

	return db, NewPostgresRosterStore(db.Pool())
}

func TestPostgresRosterStoreRoundTrip_Integration(t *testing.T) {
	_, store := setupPostgresStores(t)
	ctx := context.Background()

	event := newTestEvent("guild-pg", "WAR1")
	if err := store.CreateEvent(ctx, event); err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}
	if err := store.CreateEvent(ctx, newTestEvent("guild-pg", "WAR1")); !errors.Is(err, ErrEventExists) {
		t.Errorf("expected ErrEventExists, got %v", err)
	}

	pos, err := store.AddSignup(ctx, "guild-pg", "WAR1", newTestSignup("#AAA", "p1", 10))
	if err != nil {
		t.Fatalf("AddSignup failed: %v", err)
	}
	if pos != 1 {
		t.Errorf("expected position 1, got %d", pos)
	}
	pos, _ = store.AddSignup(ctx, "guild-pg", "WAR1", newTestSignup("#BBB", "p2", 12))
	if pos != 2 {
		t.Errorf("expected position 2, got %d", pos)
	}

	if _, err := store.AddSignup(ctx, "guild-pg", "WAR1", newTestSignup("#AAA", "dup", 11)); !errors.Is(err, ErrDuplicateSignup) {
		t.Errorf("expected ErrDuplicateSignup, got %v", err)
	}

	removed, err := store.RemoveSignup(ctx, "guild-pg", "WAR1", "#AAA")
	if err != nil {
		t.Fatalf("RemoveSignup failed: %v", err)
	}
	if removed.PlayerTag != "#AAA" {
		t.Errorf("expected removed tag '#AAA', got '%s'", removed.PlayerTag)
	}

	p2, err := store.GetSignup(ctx, "guild-pg", "WAR1", "#BBB")
	if err != nil {
		t.Fatalf("GetSignup failed: %v", err)
	}
	if p2.Position != 1 {
		t.Errorf("expected p2 shifted to position 1, got %d", p2.Position)
	}

	stored, _ := store.GetEvent(ctx, "guild-pg", "WAR1")
	if stored.SignupCount != 1 {
		t.Errorf("expected count 1, got %d", stored.SignupCount)
	}

	if err := store.CloseEvent(ctx, "guild-pg", "WAR1"); err != nil {
		t.Fatalf("CloseEvent failed: %v", err)
	}
	if _, err := store.AddSignup(ctx, "guild-pg", "WAR1", newTestSignup("#CCC", "p3", 9)); !errors.Is(err, ErrEventClosed) {
		t.Errorf("expected ErrEventClosed, got %v", err)
	}

	if err := store.DeleteEvent(ctx, "guild-pg", "WAR1"); err != nil {
		t.Fatalf("DeleteEvent failed: %v", err)
	}
	if _, err := store.GetEvent(ctx, "guild-pg", "WAR1"); !errors.Is(err, ErrEventNotFound) {
		t.Errorf("expected ErrEventNotFound after delete, got %v", err)
	}
}

func TestPostgresRosterStoreMessageRef_Integration(t *testing.T) {
	_, store := setupPostgresStores(t)
	ctx := context.Background()

	if err := store.CreateEvent(ctx, newTestEvent("guild-pg", "WAR2")); err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}

	ref := domain.MessageRef{ChannelID: "chan-1", MessageID: "msg-1"}
	if err := store.UpdateMessageRef(ctx, "guild-pg", "WAR2", ref); err != nil {
		t.Fatalf("UpdateMessageRef failed: %v", err)
	}

	event, err := store.GetEvent(ctx, "guild-pg", "WAR2")
	if err != nil {
		t.Fatalf("GetEvent failed: %v", err)
	}
	if event.ChannelID != "chan-1" || event.MessageID != "msg-1" {
		t.Errorf("expected bound ref (chan-1, msg-1), got (%s, %s)", event.ChannelID, event.MessageID)
	}
	if event.SummaryState != domain.SummaryBound {
		t.Errorf("expected summary state 'bound', got '%s'", event.SummaryState)
	}

	if err := store.SetSummaryState(ctx, "guild-pg", "WAR2", domain.SummaryStale); err != nil {
		t.Fatalf("SetSummaryState failed: %v", err)
	}
	event, _ = store.GetEvent(ctx, "guild-pg", "WAR2")
	if event.SummaryState != domain.SummaryStale {
		t.Errorf("expected summary state 'stale', got '%s'", event.SummaryState)
	}
}
