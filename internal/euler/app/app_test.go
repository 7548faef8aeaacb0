package app

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	eulererr "github.com/msto63/euler/foundation/core/error"
	"github.com/msto63/euler/internal/euler/rewriter"
	"github.com/msto63/euler/pkg/core/config"
)

func TestNew_MemoryBackend(t *testing.T) {
	cfg := config.Default()
	cfg.History.Backend = "memory"
	cfg.Calculator.AngleMode = "radians"

	a, err := New(cfg, Options{LogOutput: &bytes.Buffer{}})
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, rewriter.Radians, a.Session.AngleMode())

	res, err := a.Session.Calculate(context.Background(), "cos(0)")
	require.NoError(t, err)
	assert.Equal(t, "1", res.Result)

	entries, err := a.Session.History(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestNew_SQLiteBackend(t *testing.T) {
	cfg := config.Default()
	cfg.History.Path = filepath.Join(t.TempDir(), "history.db")

	a, err := New(cfg, Options{LogOutput: &bytes.Buffer{}})
	require.NoError(t, err)
	_, err = a.Session.Calculate(context.Background(), "2+2")
	require.NoError(t, err)
	require.NoError(t, a.Close())

	reopened, err := New(cfg, Options{LogOutput: &bytes.Buffer{}})
	require.NoError(t, err)
	defer reopened.Close()

	entries, err := reopened.Session.History(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "4", entries[0].Result)
}

func TestNew_ResultCache(t *testing.T) {
	cfg := config.Default()
	cfg.History.Backend = "memory"

	a, err := New(cfg, Options{LogOutput: &bytes.Buffer{}})
	require.NoError(t, err)
	_, ok := a.CacheStats()
	assert.False(t, ok)
	require.NoError(t, a.Close())

	cfg.Calculator.CacheSize = 8
	cfg.Calculator.CacheTTL = config.Duration{Duration: time.Minute}
	a, err = New(cfg, Options{LogOutput: &bytes.Buffer{}})
	require.NoError(t, err)
	defer a.Close()

	for i := 0; i < 3; i++ {
		res, err := a.Session.Calculate(context.Background(), "sqrt(81)")
		require.NoError(t, err)
		assert.Equal(t, "9", res.Result)
	}

	stats, ok := a.CacheStats()
	require.True(t, ok)
	assert.Equal(t, 1, stats.Size)
	assert.Equal(t, int64(2), stats.Hits)

	// cached calculations are still recorded
	entries, err := a.Session.History(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestNew_NoHistory(t *testing.T) {
	a, err := New(nil, Options{NoHistory: true, LogOutput: &bytes.Buffer{}})
	require.NoError(t, err)
	assert.Nil(t, a.History)
	assert.NoError(t, a.Close())
	assert.NoError(t, a.Session.Ping(context.Background()))
}

func TestNew_InvalidSettings(t *testing.T) {
	cfg := config.Default()
	cfg.Calculator.AngleMode = "gradians"
	_, err := New(cfg, Options{NoHistory: true, LogOutput: &bytes.Buffer{}})
	assert.True(t, eulererr.HasCode(err, eulererr.CodeInvalidConfig))

	cfg = config.Default()
	cfg.History.Backend = "redis"
	_, err = New(cfg, Options{LogOutput: &bytes.Buffer{}})
	assert.True(t, eulererr.HasCode(err, eulererr.CodeInvalidConfig))
}

func TestApp_ServerConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 9191
	cfg.Server.ReadTimeout.Duration = 3 * time.Second
	disabled := false
	cfg.Server.EnableWebSocket = &disabled

	a, err := New(cfg, Options{NoHistory: true, LogOutput: &bytes.Buffer{}})
	require.NoError(t, err)

	sc := a.ServerConfig("9.9.9")
	assert.Equal(t, "127.0.0.1", sc.Host)
	assert.Equal(t, 9191, sc.Port)
	assert.Equal(t, 3*time.Second, sc.ReadTimeout)
	assert.Equal(t, 30*time.Second, sc.WriteTimeout)
	assert.False(t, sc.EnableWebSocket)
	assert.Equal(t, "9.9.9", sc.Version)
}

func TestApp_RPCConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.GRPCPort = 9292

	a, err := New(cfg, Options{NoHistory: true, LogOutput: &bytes.Buffer{}})
	require.NoError(t, err)

	rc, ok := a.RPCConfig()
	require.True(t, ok)
	assert.Equal(t, "127.0.0.1", rc.Host)
	assert.Equal(t, 9292, rc.Port)

	disabled := false
	cfg.Server.EnableGRPC = &disabled
	_, ok = a.RPCConfig()
	assert.False(t, ok)
}
