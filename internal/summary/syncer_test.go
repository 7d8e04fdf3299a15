package summary

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Muhammed-IrfanAC/signup-bot/internal/domain"
	"github.com/Muhammed-IrfanAC/signup-bot/internal/repository"
	"github.com/Muhammed-IrfanAC/signup-bot/pkg/logger"
)

// fakeMessenger records calls and can simulate a deleted message
type fakeMessenger struct {
	updates    []*Payload
	deletes    []domain.MessageRef
	notFound   bool
	updateErr  error
	lastUpdate domain.MessageRef
}

func (m *fakeMessenger) CreateSummaryMessage(ctx context.Context, channelID string, payload *Payload) (string, error) {
	return uuid.New().String(), nil
}

func (m *fakeMessenger) UpdateSummaryMessage(ctx context.Context, ref domain.MessageRef, payload *Payload) error {
	if m.notFound {
		return ErrMessageNotFound
	}
	if m.updateErr != nil {
		return m.updateErr
	}
	m.lastUpdate = ref
	m.updates = append(m.updates, payload)
	return nil
}

func (m *fakeMessenger) DeleteSummaryMessage(ctx context.Context, ref domain.MessageRef) error {
	m.deletes = append(m.deletes, ref)
	return nil
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", ServiceName: "test"})
	require.NoError(t, err)
	return log
}

func seedEvent(t *testing.T, store *repository.MemoryRosterStore, roleID string) *domain.Event {
	t.Helper()
	event := &domain.Event{
		ID:           uuid.New().String(),
		GuildID:      "guild-1",
		Name:         "WAR1",
		IsOpen:       true,
		RoleID:       roleID,
		SummaryState: domain.SummaryNoMessage,
		CreatedAt:    time.Now(),
	}
	require.NoError(t, store.CreateEvent(context.Background(), event))
	return event
}

func seedSignup(t *testing.T, store *repository.MemoryRosterStore, tag string, townHall int) {
	t.Helper()
	_, err := store.AddSignup(context.Background(), "guild-1", "WAR1", &domain.Signup{
		ID:        uuid.New().String(),
		PlayerTag: tag,
		TownHall:  townHall,
		CreatedAt: time.Now(),
	})
	require.NoError(t, err)
}

func TestBuildPayload(t *testing.T) {
	event := &domain.Event{Name: "WAR1", IsOpen: true, RoleID: "role-9", SignupCount: 4}
	signups := []*domain.Signup{
		{PlayerTag: "#A", TownHall: 10, Position: 1},
		{PlayerTag: "#B", TownHall: 12, Position: 2},
		{PlayerTag: "#C", TownHall: 10, Position: 3},
		{PlayerTag: "#D", TownHall: 9, Position: 4},
	}

	payload := BuildPayload(event, signups)

	assert.Equal(t, "WAR1", payload.EventName)
	assert.True(t, payload.IsOpen)
	assert.Equal(t, 4, payload.Total)
	assert.Equal(t, "role-9", payload.RoleID)
	// Highest town hall first
	require.Len(t, payload.Buckets, 3)
	assert.Equal(t, Bucket{TownHall: 12, Count: 1}, payload.Buckets[0])
	assert.Equal(t, Bucket{TownHall: 10, Count: 2}, payload.Buckets[1])
	assert.Equal(t, Bucket{TownHall: 9, Count: 1}, payload.Buckets[2])
}

func TestBuildPayloadTotalFollowsEventCount(t *testing.T) {
	// The event's maintained count is authoritative, never the row slice
	event := &domain.Event{Name: "WAR1", IsOpen: true, SignupCount: 3}
	signups := []*domain.Signup{
		{PlayerTag: "#A", TownHall: 10, Position: 1},
	}

	payload := BuildPayload(event, signups)
	assert.Equal(t, 3, payload.Total)
}

func TestSyncerRefreshBound(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryRosterStore()
	messenger := &fakeMessenger{}
	syncer := NewSyncer(store, messenger, testLogger(t))

	seedEvent(t, store, "")
	seedSignup(t, store, "#AAA", 11)
	require.NoError(t, store.UpdateMessageRef(ctx, "guild-1", "WAR1", domain.MessageRef{ChannelID: "chan-1", MessageID: "msg-1"}))

	require.NoError(t, syncer.Refresh(ctx, "guild-1", "WAR1"))

	require.Len(t, messenger.updates, 1)
	assert.Equal(t, 1, messenger.updates[0].Total)
	assert.Equal(t, domain.MessageRef{ChannelID: "chan-1", MessageID: "msg-1"}, messenger.lastUpdate)
}

func TestSyncerRefreshNoMessage(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryRosterStore()
	messenger := &fakeMessenger{}
	syncer := NewSyncer(store, messenger, testLogger(t))

	seedEvent(t, store, "")

	require.NoError(t, syncer.Refresh(ctx, "guild-1", "WAR1"))
	assert.Empty(t, messenger.updates)
}

func TestSyncerRefreshMissingMessageMarksStale(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryRosterStore()
	messenger := &fakeMessenger{notFound: true}
	syncer := NewSyncer(store, messenger, testLogger(t))

	seedEvent(t, store, "")
	require.NoError(t, store.UpdateMessageRef(ctx, "guild-1", "WAR1", domain.MessageRef{ChannelID: "chan-1", MessageID: "msg-1"}))

	require.NoError(t, syncer.Refresh(ctx, "guild-1", "WAR1"))

	event, err := store.GetEvent(ctx, "guild-1", "WAR1")
	require.NoError(t, err)
	assert.Equal(t, domain.SummaryStale, event.SummaryState)

	// Subsequent refreshes are skipped, not retried
	messenger.notFound = false
	require.NoError(t, syncer.Refresh(ctx, "guild-1", "WAR1"))
	assert.Empty(t, messenger.updates)
}

func TestSyncerBindReturnsStaleToBound(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryRosterStore()
	messenger := &fakeMessenger{}
	syncer := NewSyncer(store, messenger, testLogger(t))

	seedEvent(t, store, "")
	require.NoError(t, store.UpdateMessageRef(ctx, "guild-1", "WAR1", domain.MessageRef{ChannelID: "chan-1", MessageID: "msg-1"}))
	require.NoError(t, store.SetSummaryState(ctx, "guild-1", "WAR1", domain.SummaryStale))

	require.NoError(t, syncer.Bind(ctx, "guild-1", "WAR1", domain.MessageRef{ChannelID: "chan-2", MessageID: "msg-2"}))

	event, err := store.GetEvent(ctx, "guild-1", "WAR1")
	require.NoError(t, err)
	assert.Equal(t, domain.SummaryBound, event.SummaryState)
	assert.Equal(t, "msg-2", event.MessageID)
	// Bind refreshes the new message immediately
	require.Len(t, messenger.updates, 1)
	assert.Equal(t, domain.MessageRef{ChannelID: "chan-2", MessageID: "msg-2"}, messenger.lastUpdate)
}

func TestSyncerTeardown(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryRosterStore()
	messenger := &fakeMessenger{}
	syncer := NewSyncer(store, messenger, testLogger(t))

	event := seedEvent(t, store, "")
	event.ChannelID = "chan-1"
	event.MessageID = "msg-1"
	event.SummaryState = domain.SummaryBound

	syncer.Teardown(ctx, event)
	require.Len(t, messenger.deletes, 1)
	assert.Equal(t, domain.MessageRef{ChannelID: "chan-1", MessageID: "msg-1"}, messenger.deletes[0])

	// Nothing to tear down without a bound message
	unbound := &domain.Event{GuildID: "guild-1", Name: "WAR2", SummaryState: domain.SummaryNoMessage}
	syncer.Teardown(ctx, unbound)
	assert.Len(t, messenger.deletes, 1)
}
