package di

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Muhammed-IrfanAC/signup-bot/internal/directory"
	"github.com/Muhammed-IrfanAC/signup-bot/internal/discord"
	"github.com/Muhammed-IrfanAC/signup-bot/internal/handler"
	"github.com/Muhammed-IrfanAC/signup-bot/internal/repository"
	"github.com/Muhammed-IrfanAC/signup-bot/internal/service"
	"github.com/Muhammed-IrfanAC/signup-bot/internal/summary"
	"github.com/Muhammed-IrfanAC/signup-bot/internal/worker"
	"github.com/Muhammed-IrfanAC/signup-bot/pkg/config"
	"github.com/Muhammed-IrfanAC/signup-bot/pkg/database"
	"github.com/Muhammed-IrfanAC/signup-bot/pkg/logger"
	"github.com/Muhammed-IrfanAC/signup-bot/pkg/redisclient"
)

// Container wires every component of the service together
type Container struct {
	Config *config.Config
	Log    *logger.Logger

	DB    *database.PostgresDB
	Redis *redisclient.Client

	RosterStore repository.RosterStore
	LeaderStore repository.LeaderStore
	LogStore    repository.LogStore

	Directory directory.Directory
	Messenger summary.Messenger
	Syncer    *summary.Syncer

	EventService  service.EventService
	SignupService service.SignupService

	LogWorker *worker.LogWorker

	EventHandler  *handler.EventHandler
	SignupHandler *handler.SignupHandler
	HealthHandler *handler.HealthHandler
}

// New builds the container from configuration. Redis is optional: when it is
// unreachable the directory runs uncached.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Container, error) {
	c := &Container{Config: cfg, Log: log}

	db, err := database.NewPostgresDB(ctx, &database.PostgresConfig{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxConns:        int32(cfg.Database.MaxConns),
		MinConns:        int32(cfg.Database.MinConns),
		MaxConnLifetime: cfg.Database.ConnMaxLifetime,
		MaxConnIdleTime: cfg.Database.ConnMaxIdleTime,
		MaxRetries:      3,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	c.DB = db

	c.RosterStore = repository.NewPostgresRosterStore(db.Pool())
	c.LeaderStore = repository.NewPostgresLeaderStore(db.Pool())
	c.LogStore = repository.NewPostgresLogStore(db.Pool())

	clashClient := directory.NewClient(directory.ClientConfig{
		BaseURL: cfg.ClashAPI.BaseURL,
		Token:   cfg.ClashAPI.Token,
		Timeout: cfg.ClashAPI.Timeout,
	})
	c.Directory = clashClient

	rdb, err := redisclient.New(ctx, &redisclient.Config{
		Addr:         cfg.Redis.Addr(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	if err != nil {
		log.Warn("redis unavailable, player lookups run uncached", zap.Error(err))
	} else {
		c.Redis = rdb
		c.Directory = directory.NewCachedDirectory(clashClient, rdb.Client, cfg.ClashAPI.CacheTTL, log)
	}

	var sink worker.Sink
	if cfg.Discord.Enabled {
		discordClient := discord.NewClient(discord.ClientConfig{
			BotToken: cfg.Discord.BotToken,
			APIBase:  cfg.Discord.APIBase,
			Timeout:  cfg.Discord.Timeout,
		})
		c.Messenger = discord.NewMessenger(discordClient)
		sink = discord.NewLogSink(discordClient, c.RosterStore, log)
	} else {
		c.Messenger = discord.NewNoopMessenger()
		sink = discord.NewNoopSink()
	}

	c.Syncer = summary.NewSyncer(c.RosterStore, c.Messenger, log)

	c.EventService = service.NewEventService(c.RosterStore, c.LeaderStore, c.LogStore, c.Syncer, log)
	c.SignupService = service.NewSignupService(c.RosterStore, c.LeaderStore, c.LogStore, c.Directory, c.Syncer, log)

	c.LogWorker = worker.NewLogWorker(c.LogStore, sink, worker.Config{
		PollInterval: cfg.Worker.PollInterval,
		BatchSize:    cfg.Worker.BatchSize,
	}, log)

	c.EventHandler = handler.NewEventHandler(c.EventService)
	c.SignupHandler = handler.NewSignupHandler(c.SignupService)

	checks := map[string]handler.Pinger{
		"postgres": db.Ping,
	}
	if c.Redis != nil {
		checks["redis"] = func(ctx context.Context) error {
			return c.Redis.Ping(ctx).Err()
		}
	}
	c.HealthHandler = handler.NewHealthHandler(checks)

	return c, nil
}

// Close releases the container's connections
func (c *Container) Close() {
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.Log.Warn("failed to close redis client", zap.Error(err))
		}
	}
	if c.DB != nil {
		c.DB.Close()
	}
}
