package bootstrap

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/cosmetics/internal/config"
	"github.com/osse101/cosmetics/internal/domain"
	"github.com/osse101/cosmetics/internal/event"
	"github.com/osse101/cosmetics/internal/eventlog"
	"github.com/osse101/cosmetics/internal/unlock"
)

const testCatalog = `
version: "1.0"
avatars:
  - id: a1
    display_name: Rookie
    unlock_type: default
    is_default: true
  - id: a2
    display_name: Knight
    unlock_type: soft_currency
    unlock_value: 100
frames:
  - id: f1
    display_name: Plain
    unlock_type: free
`

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Port:                    8080,
		LogLevel:                "debug",
		LogFormat:               "json",
		ServiceName:             "cosmetics-test",
		Version:                 "test",
		Environment:             config.EnvironmentDev,
		StorageDriver:           config.StorageDriverMemory,
		StorageDir:              t.TempDir(),
		StorageKey:              config.DefaultStorageKey,
		SQLitePath:              filepath.Join(t.TempDir(), "nested", "cosmetics.db"),
		UnlockPolicy:            config.UnlockPolicyBasic,
		DevPlayerLevel:          1,
		WorkerCount:             1,
		EventLogRetentionDays:   0,
		EventLogCleanupInterval: time.Hour,
	}
}

func TestSetupLogger(t *testing.T) {
	cfg := testConfig(t)
	var buf bytes.Buffer
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	SetupLogger(cfg, &buf)

	out := buf.String()
	assert.Contains(t, out, LogMsgLoggingInitialized)
	assert.Contains(t, out, LogMsgStartingService)
	assert.Contains(t, out, LogMsgConfigurationLoaded, "debug level logs the configuration")
	assert.Contains(t, out, `"service":"cosmetics-test"`)
}

func TestLoadCatalog(t *testing.T) {
	cfg := testConfig(t)

	t.Run("valid file", func(t *testing.T) {
		cfg.CatalogPath = filepath.Join(t.TempDir(), "catalog.yaml")
		require.NoError(t, os.WriteFile(cfg.CatalogPath, []byte(testCatalog), 0o644))

		cat, err := LoadCatalog(cfg)

		require.NoError(t, err)
		assert.Len(t, cat.Items(domain.CategoryAvatar), 2)
		assert.Len(t, cat.Items(domain.CategoryFrame), 1)
	})

	t.Run("missing file", func(t *testing.T) {
		cfg.CatalogPath = filepath.Join(t.TempDir(), "missing.yaml")

		_, err := LoadCatalog(cfg)

		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgFailedLoadCatalog)
	})
}

func TestLoadCatalog_ShippedCatalog(t *testing.T) {
	cfg := testConfig(t)
	cfg.CatalogPath = filepath.Join("..", "..", "configs", "catalog.yaml")

	cat, err := LoadCatalog(cfg)

	require.NoError(t, err)
	assert.Empty(t, cat.Validate())
	_, ok := cat.DefaultFor(domain.CategoryAvatar)
	assert.True(t, ok)
	_, ok = cat.DefaultFor(domain.CategoryFrame)
	assert.True(t, ok)
}

func TestInitializeStorage(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		cfg := testConfig(t)

		st, err := InitializeStorage(ctx, cfg)

		require.NoError(t, err)
		defer st.Close()
		assert.Equal(t, config.StorageDriverMemory, st.Driver)
		assert.NotNil(t, st.Users)
		assert.IsType(t, &eventlog.MemoryRepository{}, st.EventLog)
		assert.Nil(t, st.Pinger)
	})

	t.Run("file", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.StorageDriver = config.StorageDriverFile

		st, err := InitializeStorage(ctx, cfg)

		require.NoError(t, err)
		defer st.Close()
		require.NoError(t, st.Users.For("p1").Save(ctx, domain.UserState{SelectedAvatarID: "a1"}))
		loaded, err := st.Users.For("p1").Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, domain.ItemID("a1"), loaded.SelectedAvatarID)
	})

	t.Run("sqlite creates parent directory", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.StorageDriver = config.StorageDriverSQLite

		st, err := InitializeStorage(ctx, cfg)

		require.NoError(t, err)
		defer st.Close()
		require.NotNil(t, st.Pinger)
		assert.NoError(t, st.Pinger.Ping(ctx))
		assert.FileExists(t, cfg.SQLitePath)

		player := "p1"
		require.NoError(t, st.EventLog.LogEvent(ctx, "test.event", &player, map[string]interface{}{"k": "v"}))
		events, err := st.EventLog.GetEventsByPlayer(ctx, player, 10)
		require.NoError(t, err)
		assert.Len(t, events, 1)
	})

	t.Run("unknown driver", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.StorageDriver = "redis"

		_, err := InitializeStorage(ctx, cfg)

		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgUnknownStorageDriver)
	})
}

func TestStorage_CloseWithoutResources(t *testing.T) {
	assert.NotPanics(t, func() { (&Storage{}).Close() })
}

func TestBuildUnlockPolicy(t *testing.T) {
	ctx := context.Background()
	knight := domain.Definition{ID: "a2", UnlockType: domain.UnlockSoftCurrency, UnlockValue: 100}

	t.Run("basic", func(t *testing.T) {
		policy, err := BuildUnlockPolicy(testConfig(t))

		require.NoError(t, err)
		assert.IsType(t, &unlock.BasicPolicy{}, policy)
	})

	t.Run("wallet uses dev balances", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.UnlockPolicy = config.UnlockPolicyWallet
		cfg.DevWalletCoins = 150

		policy, err := BuildUnlockPolicy(cfg)

		require.NoError(t, err)
		ok, reason := policy.CanUnlock(ctx, knight, domain.UserState{})
		assert.True(t, ok, reason)
		require.NoError(t, policy.TryUnlock(ctx, knight, domain.UserState{}))
		ok, _ = policy.CanUnlock(ctx, knight, domain.UserState{})
		assert.False(t, ok, "second purchase exceeds the remaining balance")
	})

	t.Run("unknown", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.UnlockPolicy = "iap"

		_, err := BuildUnlockPolicy(cfg)

		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgUnknownUnlockPolicy)
	})
}

func TestRegisterEventHandlers_LogsPublishedEvents(t *testing.T) {
	ctx := context.Background()
	bus := InitializeEventSystem()
	repo := eventlog.NewMemoryRepository()
	svc := eventlog.NewService(repo)

	require.NoError(t, RegisterEventHandlers(EventHandlerDependencies{
		EventBus:        bus,
		EventLogService: svc,
	}))

	require.NoError(t, bus.Publish(ctx, event.NewSelectionChangedEvent("p1", domain.CategoryAvatar, "a1")))

	events, err := svc.EventsForPlayer(ctx, "p1", 0)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, string(event.AvatarSelectionChanged), events[0].EventType)
}

func TestInitializeStream_ForwardsBusEvents(t *testing.T) {
	bus := InitializeEventSystem()
	hub := InitializeStream(bus)
	defer hub.Stop()

	client, err := hub.Register(nil, "p1")
	require.NoError(t, err)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, time.Millisecond)

	require.NoError(t, bus.Publish(context.Background(), event.NewUserNameChangedEvent("p1", "Ann")))

	select {
	case evt := <-client.EventChannel:
		assert.Equal(t, string(event.UserNameChanged), evt.Type)
	case <-time.After(time.Second):
		t.Fatal("event not forwarded to the stream")
	}
}

func TestStartBackground(t *testing.T) {
	svc := eventlog.NewService(eventlog.NewMemoryRepository())

	t.Run("retention disabled", func(t *testing.T) {
		bg := StartBackground(testConfig(t), svc)
		require.NotNil(t, bg.Pool)
		require.NotNil(t, bg.Scheduler)
		bg.Stop()
	})

	t.Run("retention enabled", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.EventLogRetentionDays = 7
		cfg.EventLogCleanupInterval = 10 * time.Millisecond

		bg := StartBackground(cfg, svc)
		time.Sleep(30 * time.Millisecond)
		bg.Stop()
	})
}

func TestGracefulShutdown(t *testing.T) {
	t.Run("nil components", func(t *testing.T) {
		assert.NotPanics(t, func() {
			GracefulShutdown(context.Background(), ShutdownComponents{})
		})
	})

	t.Run("stops background and storage", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.StorageDriver = config.StorageDriverSQLite
		st, err := InitializeStorage(context.Background(), cfg)
		require.NoError(t, err)
		bg := StartBackground(cfg, eventlog.NewService(st.EventLog))

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		hub := InitializeStream(InitializeEventSystem())
		GracefulShutdown(ctx, ShutdownComponents{Stream: hub, Background: bg, Storage: st})

		_, err = hub.Register(nil, "")
		assert.Error(t, err, "stream is stopped")

		assert.Error(t, st.Pinger.Ping(context.Background()), "storage is closed")
		assert.False(t, bg.Pool.Enqueue(eventlog.NewCleanupJob(nil, 1)), "pool is stopped")
	})
}
