package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Muhammed-IrfanAC/signup-bot/internal/domain"
	"github.com/Muhammed-IrfanAC/signup-bot/internal/repository"
	"github.com/Muhammed-IrfanAC/signup-bot/pkg/logger"
)

// Sink delivers action log entries to their destination (the guild's log
// channel, typically).
type Sink interface {
	Deliver(ctx context.Context, entry *domain.LogEntry) error
}

// LogWorker drains the action log outbox on a fixed interval. Delivery is
// at-least-once in intent but entries are marked processed even when
// delivery fails: a lost log line beats a looping one.
type LogWorker struct {
	store     repository.LogStore
	sink      Sink
	interval  time.Duration
	batchSize int
	log       *logger.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Config holds worker settings
type Config struct {
	PollInterval time.Duration
	BatchSize    int
}

// NewLogWorker creates a new log delivery worker
func NewLogWorker(store repository.LogStore, sink Sink, cfg Config, log *logger.Logger) *LogWorker {
	interval := cfg.PollInterval
	if interval <= 0 {
		interval = 5 * time.Second
	}
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 20
	}
	return &LogWorker{
		store:     store,
		sink:      sink,
		interval:  interval,
		batchSize: batchSize,
		log:       log,
	}
}

// Start launches the polling loop. Call Stop to shut it down.
func (w *LogWorker) Start(ctx context.Context) {
	ctx, w.cancel = context.WithCancel(ctx)
	w.wg.Add(1)
	go w.run(ctx)
	w.log.Info("log worker started",
		zap.Duration("interval", w.interval),
		zap.Int("batch_size", w.batchSize),
	)
}

// Stop cancels the loop and waits for the in-flight batch to finish
func (w *LogWorker) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
	w.log.Info("log worker stopped")
}

func (w *LogWorker) run(ctx context.Context) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.drain(ctx)
		}
	}
}

// drain processes one batch of unprocessed entries
func (w *LogWorker) drain(ctx context.Context) {
	entries, err := w.store.ListUnprocessed(ctx, w.batchSize)
	if err != nil {
		if ctx.Err() == nil {
			w.log.Error("failed to fetch log entries", zap.Error(err))
		}
		return
	}

	for _, entry := range entries {
		if ctx.Err() != nil {
			return
		}

		if err := w.sink.Deliver(ctx, entry); err != nil {
			w.log.Warn("log delivery failed, dropping entry",
				zap.String("entry_id", entry.ID),
				zap.String("guild_id", entry.GuildID),
				zap.String("action", string(entry.Action)),
				zap.Error(err),
			)
		}

		if err := w.store.MarkProcessed(ctx, entry.ID); err != nil {
			w.log.Error("failed to mark log entry processed",
				zap.String("entry_id", entry.ID),
				zap.Error(err),
			)
		}
	}
}
