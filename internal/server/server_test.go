package server

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/cosmetics/internal/catalog"
	"github.com/osse101/cosmetics/internal/database/memory"
	"github.com/osse101/cosmetics/internal/domain"
	"github.com/osse101/cosmetics/internal/event"
	"github.com/osse101/cosmetics/internal/eventlog"
	"github.com/osse101/cosmetics/internal/player"
	"github.com/osse101/cosmetics/internal/sse"
	"github.com/osse101/cosmetics/internal/unlock"
)

const testAPIKey = "test-key"

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	cat := catalog.New(
		[]domain.Definition{
			{ID: "classic", DisplayName: "Classic", UnlockType: domain.UnlockDefault, IsDefault: true},
			{ID: "cat", DisplayName: "Cat", UnlockType: domain.UnlockFree},
			{ID: "pumpkin", DisplayName: "Pumpkin", UnlockType: domain.UnlockEvent},
		},
		[]domain.Definition{
			{ID: "wood", DisplayName: "Wood", UnlockType: domain.UnlockDefault, IsDefault: true},
		},
	)
	bus := event.NewMemoryBus()
	events := eventlog.NewService(eventlog.NewMemoryRepository())
	require.NoError(t, events.Subscribe(bus))
	registry := player.NewRegistry(player.DefaultCacheConfig(), cat, memory.NewStore(), unlock.NewBasicPolicy(), bus)

	return NewRouter(Options{
		APIKey:  testAPIKey,
		Catalog: cat,
		Players: registry,
		Events:  events,
	})
}

func serve(h http.Handler, method, path, body string, authed bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set(HeaderAPIKey, testAPIKey)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_PublicEndpoints(t *testing.T) {
	h := newTestRouter(t)

	for _, path := range []string{"/healthz", "/readyz", "/version", "/metrics"} {
		rec := serve(h, "GET", path, "", false)
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.Equal(t, HeaderValueNoSniff, rec.Header().Get(HeaderContentType), path)
	}
}

func TestRouter_RequiresAPIKey(t *testing.T) {
	h := newTestRouter(t)

	rec := serve(h, "GET", "/api/v1/catalog/avatar", "", false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve(h, "GET", "/api/v1/catalog/avatar", "", true)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":"pumpkin"`)
}

func TestRouter_PlayerFlow(t *testing.T) {
	h := newTestRouter(t)

	rec := serve(h, "GET", "/api/v1/players/p1/avatar", "", true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"selected":"classic"`)

	rec = serve(h, "POST", "/api/v1/players/p1/avatar/select", `{"id":"cat"}`, true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = serve(h, "POST", "/api/v1/players/p1/avatar/unlock", `{"id":"pumpkin"}`, true)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = serve(h, "POST", "/api/v1/admin/players/p1/avatar/grant", `{"id":"pumpkin","auto_select":false}`, true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = serve(h, "POST", "/api/v1/players/p1/avatars/unlock-and-select", `{"id":"pumpkin"}`, true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"state":"selected"`)

	rec = serve(h, "PUT", "/api/v1/players/p1/name", `{"name":"Ana"}`, true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = serve(h, "GET", "/api/v1/players/p1/profile", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"user_name":"Ana"`)
	assert.Contains(t, rec.Body.String(), `"selected_avatar":{"id":"pumpkin"`)

	rec = serve(h, "GET", "/api/v1/admin/players/p1/events?limit=5", "", true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"event_type":"username.changed"`)
	assert.Contains(t, rec.Body.String(), `"source":"grant"`)

	rec = serve(h, "GET", "/api/v1/admin/cache/stats", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"size":1`)

	rec = serve(h, "DELETE", "/api/v1/admin/cache/players/p1", "", true)
	require.Equal(t, http.StatusOK, rec.Code)

	// Reloaded from storage
	rec = serve(h, "GET", "/api/v1/players/p1/profile", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"selected_avatar":{"id":"pumpkin"`)
}

func TestRouter_UnknownCategory(t *testing.T) {
	h := newTestRouter(t)

	rec := serve(h, "POST", "/api/v1/players/p1/hats/select", `{"id":"cat"}`, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_EventStreamThroughMiddleware(t *testing.T) {
	cat := catalog.New(
		[]domain.Definition{{ID: "classic", UnlockType: domain.UnlockDefault, IsDefault: true}, {ID: "cat", UnlockType: domain.UnlockFree}},
		[]domain.Definition{{ID: "wood", UnlockType: domain.UnlockDefault, IsDefault: true}},
	)
	bus := event.NewMemoryBus()
	hub := sse.NewHub()
	hub.Start()
	defer hub.Stop()
	sse.NewSubscriber(hub).Subscribe(bus)
	registry := player.NewRegistry(player.DefaultCacheConfig(), cat, memory.NewStore(), unlock.NewBasicPolicy(), bus)

	srv := httptest.NewServer(NewRouter(Options{APIKey: testAPIKey, Catalog: cat, Players: registry, Stream: hub}))
	defer srv.Close()

	rec := serve(srv.Config.Handler, "GET", "/api/v1/events/stream", "", false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/v1/events/stream?player_id=p1&types=avatar.selection_changed", nil)
	require.NoError(t, err)
	req.Header.Set(HeaderAPIKey, testAPIKey)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	reader := bufio.NewReader(resp.Body)
	nextEventType := func() string {
		var typ string
		for {
			line, err := reader.ReadString('\n')
			require.NoError(t, err)
			line = strings.TrimSpace(line)
			if line == "" {
				return typ
			}
			if v, ok := strings.CutPrefix(line, "event: "); ok {
				typ = v
			}
		}
	}
	assert.Equal(t, sse.EventTypeConnected, nextEventType())
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, time.Millisecond)

	rec = serve(srv.Config.Handler, "POST", "/api/v1/players/p1/avatar/select", `{"id":"cat"}`, true)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "avatar.selection_changed", nextEventType())
}
