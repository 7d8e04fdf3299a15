package directory

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Muhammed-IrfanAC/signup-bot/pkg/logger"
)

func newUpstream(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestClientLookup(t *testing.T) {
	var gotPath, gotAuth string
	srv := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(Player{Tag: "#ABC123", Name: "Chief", TownHall: 13})
	})

	client := NewClient(ClientConfig{BaseURL: srv.URL, Token: "secret", Timeout: time.Second})

	player, err := client.Lookup(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, "Chief", player.Name)
	assert.Equal(t, 13, player.TownHall)
	// Tag is normalized before the request and escaped in the path
	assert.Equal(t, "/v1/players/%23ABC123", gotPath)
	assert.Equal(t, "Bearer secret", gotAuth)
}

func TestClientLookupNotFound(t *testing.T) {
	srv := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	client := NewClient(ClientConfig{BaseURL: srv.URL})
	_, err := client.Lookup(context.Background(), "#MISSING")
	assert.ErrorIs(t, err, ErrPlayerNotFound)
}

func TestClientLookupUpstreamFailure(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}},
		{"malformed body", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not json"))
		}},
		{"empty record", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("{}"))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newUpstream(t, tt.handler)
			client := NewClient(ClientConfig{BaseURL: srv.URL})
			_, err := client.Lookup(context.Background(), "#ABC")
			assert.ErrorIs(t, err, ErrLookupFailed)
		})
	}
}

// fakeRedis is an in-memory cacheBackend
type fakeRedis struct {
	data    map[string]string
	getErr  error
	setErr  error
	getCnt  int
	setCnt  int
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: make(map[string]string)}
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	f.getCnt++
	if f.getErr != nil {
		return redis.NewStringResult("", f.getErr)
	}
	val, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(val, nil)
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	f.setCnt++
	if f.setErr != nil {
		return redis.NewStatusResult("", f.setErr)
	}
	f.data[key] = string(value.([]byte))
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	for _, key := range keys {
		delete(f.data, key)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}

// countingDirectory counts upstream lookups
type countingDirectory struct {
	player  *Player
	err     error
	lookups int
}

func (d *countingDirectory) Lookup(ctx context.Context, tag string) (*Player, error) {
	d.lookups++
	if d.err != nil {
		return nil, d.err
	}
	copied := *d.player
	return &copied, nil
}

func cacheTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", ServiceName: "test"})
	require.NoError(t, err)
	return log
}

func TestCachedDirectoryHit(t *testing.T) {
	ctx := context.Background()
	upstream := &countingDirectory{player: &Player{Tag: "#ABC", Name: "Chief", TownHall: 12}}
	rdb := newFakeRedis()
	dir := NewCachedDirectory(upstream, rdb, time.Minute, cacheTestLogger(t))

	first, err := dir.Lookup(ctx, "#ABC")
	require.NoError(t, err)
	assert.Equal(t, "Chief", first.Name)
	assert.Equal(t, 1, upstream.lookups)

	// Second lookup is served from cache
	second, err := dir.Lookup(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "Chief", second.Name)
	assert.Equal(t, 12, second.TownHall)
	assert.Equal(t, 1, upstream.lookups)
}

func TestCachedDirectoryDegradesOnCacheFailure(t *testing.T) {
	ctx := context.Background()
	upstream := &countingDirectory{player: &Player{Tag: "#ABC", Name: "Chief", TownHall: 12}}
	rdb := newFakeRedis()
	rdb.getErr = errors.New("connection refused")
	rdb.setErr = errors.New("connection refused")
	dir := NewCachedDirectory(upstream, rdb, time.Minute, cacheTestLogger(t))

	player, err := dir.Lookup(ctx, "#ABC")
	require.NoError(t, err)
	assert.Equal(t, "Chief", player.Name)
	assert.Equal(t, 1, upstream.lookups)
}

func TestCachedDirectoryUpstreamErrorNotCached(t *testing.T) {
	ctx := context.Background()
	upstream := &countingDirectory{err: ErrLookupFailed}
	rdb := newFakeRedis()
	dir := NewCachedDirectory(upstream, rdb, time.Minute, cacheTestLogger(t))

	_, err := dir.Lookup(ctx, "#ABC")
	assert.ErrorIs(t, err, ErrLookupFailed)
	assert.Empty(t, rdb.data)
}

func TestCachedDirectoryInvalidate(t *testing.T) {
	ctx := context.Background()
	upstream := &countingDirectory{player: &Player{Tag: "#ABC", Name: "Chief", TownHall: 12}}
	rdb := newFakeRedis()
	dir := NewCachedDirectory(upstream, rdb, time.Minute, cacheTestLogger(t))

	_, err := dir.Lookup(ctx, "#ABC")
	require.NoError(t, err)
	require.NoError(t, dir.InvalidatePlayer(ctx, "#ABC"))

	_, err = dir.Lookup(ctx, "#ABC")
	require.NoError(t, err)
	assert.Equal(t, 2, upstream.lookups)
}
