package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_WithDefaults(t *testing.T) {
	// Clear any existing env vars that might interfere
	envVars := []string{
		"APP_NAME", "APP_ENVIRONMENT", "APP_DEBUG", "APP_SERVICE_TOKEN",
		"SERVER_HOST", "SERVER_PORT",
		"DATABASE_HOST", "DATABASE_PORT", "DATABASE_USER", "DATABASE_PASSWORD", "DATABASE_DBNAME",
		"REDIS_HOST", "REDIS_PORT",
		"CLASH_API_BASE_URL", "CLASH_API_TOKEN",
		"DISCORD_ENABLED", "DISCORD_BOT_TOKEN",
		"WORKER_POLL_INTERVAL", "WORKER_BATCH_SIZE",
	}
	for _, v := range envVars {
		os.Unsetenv(v)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	// Check defaults
	if cfg.App.Name != "signup-bot" {
		t.Errorf("App.Name = %q, want %q", cfg.App.Name, "signup-bot")
	}

	if cfg.App.Environment != "development" {
		t.Errorf("App.Environment = %q, want %q", cfg.App.Environment, "development")
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 8080)
	}

	if cfg.Database.Port != 5432 {
		t.Errorf("Database.Port = %d, want %d", cfg.Database.Port, 5432)
	}

	if cfg.Redis.Port != 6379 {
		t.Errorf("Redis.Port = %d, want %d", cfg.Redis.Port, 6379)
	}

	if cfg.ClashAPI.BaseURL != "https://cocproxy.royaleapi.dev" {
		t.Errorf("ClashAPI.BaseURL = %q, want %q", cfg.ClashAPI.BaseURL, "https://cocproxy.royaleapi.dev")
	}

	if cfg.Discord.Enabled {
		t.Error("Discord.Enabled = true, want false")
	}

	if cfg.Worker.BatchSize != 50 {
		t.Errorf("Worker.BatchSize = %d, want %d", cfg.Worker.BatchSize, 50)
	}
}

func TestLoad_WithEnvOverride(t *testing.T) {
	os.Setenv("APP_NAME", "test-app")
	os.Setenv("SERVER_PORT", "9090")
	os.Setenv("DATABASE_HOST", "db.example.com")
	os.Setenv("CLASH_API_TOKEN", "api-token")
	defer func() {
		os.Unsetenv("APP_NAME")
		os.Unsetenv("SERVER_PORT")
		os.Unsetenv("DATABASE_HOST")
		os.Unsetenv("CLASH_API_TOKEN")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.App.Name != "test-app" {
		t.Errorf("App.Name = %q, want %q", cfg.App.Name, "test-app")
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 9090)
	}

	if cfg.Database.Host != "db.example.com" {
		t.Errorf("Database.Host = %q, want %q", cfg.Database.Host, "db.example.com")
	}

	if cfg.ClashAPI.Token != "api-token" {
		t.Errorf("ClashAPI.Token = %q, want %q", cfg.ClashAPI.Token, "api-token")
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "testuser",
		Password: "testpass",
		DBName:   "testdb",
		SSLMode:  "disable",
	}

	expected := "host=localhost port=5432 user=testuser password=testpass dbname=testdb sslmode=disable"
	if dsn := cfg.DSN(); dsn != expected {
		t.Errorf("DSN() = %q, want %q", dsn, expected)
	}
}

func TestRedisConfig_Addr(t *testing.T) {
	cfg := RedisConfig{
		Host: "redis.example.com",
		Port: 6380,
	}

	expected := "redis.example.com:6380"
	if addr := cfg.Addr(); addr != expected {
		t.Errorf("Addr() = %q, want %q", addr, expected)
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		return Config{
			App:      AppConfig{Name: "test", Environment: "development"},
			Server:   ServerConfig{Port: 8080},
			Database: DatabaseConfig{Host: "localhost", DBName: "signup_bot"},
			Worker:   WorkerConfig{PollInterval: 15 * time.Second},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "missing app name",
			mutate:  func(c *Config) { c.App.Name = "" },
			wantErr: true,
		},
		{
			name:    "invalid port",
			mutate:  func(c *Config) { c.Server.Port = -1 },
			wantErr: true,
		},
		{
			name:    "port too high",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: true,
		},
		{
			name:    "missing database host",
			mutate:  func(c *Config) { c.Database.Host = "" },
			wantErr: true,
		},
		{
			name:    "missing database name",
			mutate:  func(c *Config) { c.Database.DBName = "" },
			wantErr: true,
		},
		{
			name:    "zero worker poll interval",
			mutate:  func(c *Config) { c.Worker.PollInterval = 0 },
			wantErr: true,
		},
		{
			name:    "discord enabled without bot token",
			mutate:  func(c *Config) { c.Discord.Enabled = true },
			wantErr: true,
		},
		{
			name: "discord enabled with bot token",
			mutate: func(c *Config) {
				c.Discord.Enabled = true
				c.Discord.BotToken = "bot-token"
			},
			wantErr: false,
		},
		{
			name:    "production without service token",
			mutate:  func(c *Config) { c.App.Environment = "production" },
			wantErr: true,
		},
		{
			name: "production with service token",
			mutate: func(c *Config) {
				c.App.Environment = "production"
				c.App.ServiceToken = "token"
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_IsProduction(t *testing.T) {
	cfg := &Config{
		App: AppConfig{Environment: "production"},
	}
	if !cfg.IsProduction() {
		t.Error("IsProduction() = false, want true")
	}

	cfg.App.Environment = "development"
	if cfg.IsProduction() {
		t.Error("IsProduction() = true, want false")
	}
}

func TestConfig_IsDevelopment(t *testing.T) {
	cfg := &Config{
		App: AppConfig{Environment: "development"},
	}
	if !cfg.IsDevelopment() {
		t.Error("IsDevelopment() = false, want true")
	}

	cfg.App.Environment = "production"
	if cfg.IsDevelopment() {
		t.Error("IsDevelopment() = true, want false")
	}
}
