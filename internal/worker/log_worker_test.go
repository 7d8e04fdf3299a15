package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Muhammed-IrfanAC/signup-bot/internal/domain"
	"github.com/Muhammed-IrfanAC/signup-bot/internal/repository"
	"github.com/Muhammed-IrfanAC/signup-bot/pkg/logger"
)

// collectingSink records delivered entries; can fail selected entries
type collectingSink struct {
	mu        sync.Mutex
	delivered []*domain.LogEntry
	failIDs   map[string]bool
}

func (s *collectingSink) Deliver(ctx context.Context, entry *domain.LogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failIDs[entry.ID] {
		return errors.New("channel unavailable")
	}
	s.delivered = append(s.delivered, entry)
	return nil
}

func (s *collectingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.delivered)
}

func workerTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", ServiceName: "test"})
	require.NoError(t, err)
	return log
}

func appendEntry(t *testing.T, store *repository.MemoryLogStore, action domain.LogAction) *domain.LogEntry {
	t.Helper()
	entry := &domain.LogEntry{
		ID:        uuid.New().String(),
		GuildID:   "guild-1",
		EventName: "WAR1",
		Action:    action,
		ActorName: "leader",
		Success:   true,
		CreatedAt: time.Now(),
	}
	require.NoError(t, store.Append(context.Background(), entry))
	return entry
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

func TestLogWorkerDeliversAndMarks(t *testing.T) {
	store := repository.NewMemoryLogStore()
	sink := &collectingSink{}
	w := NewLogWorker(store, sink, Config{PollInterval: 10 * time.Millisecond, BatchSize: 10}, workerTestLogger(t))

	appendEntry(t, store, domain.LogActionCreate)
	appendEntry(t, store, domain.LogActionSignup)

	w.Start(context.Background())
	defer w.Stop()

	waitFor(t, time.Second, func() bool { return sink.count() == 2 })

	pending, err := store.ListUnprocessed(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestLogWorkerMarksFailedDeliveries(t *testing.T) {
	store := repository.NewMemoryLogStore()
	bad := appendEntry(t, store, domain.LogActionRemove)
	good := appendEntry(t, store, domain.LogActionSignup)

	sink := &collectingSink{failIDs: map[string]bool{bad.ID: true}}
	w := NewLogWorker(store, sink, Config{PollInterval: 10 * time.Millisecond, BatchSize: 10}, workerTestLogger(t))

	w.Start(context.Background())
	defer w.Stop()

	// Both entries leave the outbox even though one delivery failed
	waitFor(t, time.Second, func() bool {
		pending, err := store.ListUnprocessed(context.Background(), 10)
		return err == nil && len(pending) == 0
	})

	require.Equal(t, 1, sink.count())
	sink.mu.Lock()
	defer sink.mu.Unlock()
	assert.Equal(t, good.ID, sink.delivered[0].ID)
}

func TestLogWorkerStop(t *testing.T) {
	store := repository.NewMemoryLogStore()
	sink := &collectingSink{}
	w := NewLogWorker(store, sink, Config{PollInterval: 10 * time.Millisecond}, workerTestLogger(t))

	w.Start(context.Background())
	appendEntry(t, store, domain.LogActionCreate)
	waitFor(t, time.Second, func() bool { return sink.count() == 1 })

	w.Stop()

	// Entries appended after Stop stay in the outbox
	appendEntry(t, store, domain.LogActionClose)
	time.Sleep(50 * time.Millisecond)
	pending, err := store.ListUnprocessed(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestLogWorkerBatchLimit(t *testing.T) {
	store := repository.NewMemoryLogStore()
	sink := &collectingSink{}
	w := NewLogWorker(store, sink, Config{PollInterval: 10 * time.Millisecond, BatchSize: 2}, workerTestLogger(t))

	for i := 0; i < 5; i++ {
		appendEntry(t, store, domain.LogActionSignup)
	}

	w.Start(context.Background())
	defer w.Stop()

	// Successive batches drain the whole outbox
	waitFor(t, time.Second, func() bool { return sink.count() == 5 })
}
