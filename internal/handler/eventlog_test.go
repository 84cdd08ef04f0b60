package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/cosmetics/internal/domain"
	"github.com/osse101/cosmetics/internal/event"
	"github.com/osse101/cosmetics/internal/eventlog"
)

func newEventsRouter(t *testing.T) (http.Handler, event.Bus) {
	t.Helper()
	svc := eventlog.NewService(eventlog.NewMemoryRepository())
	bus := event.NewMemoryBus()
	require.NoError(t, svc.Subscribe(bus))

	r := chi.NewRouter()
	r.Get("/admin/players/{playerID}/events", HandleGetPlayerEvents(svc))
	return r, bus
}

func TestHandleGetPlayerEvents(t *testing.T) {
	r, bus := newEventsRouter(t)
	ctx := context.Background()
	require.NoError(t, bus.Publish(ctx, event.NewSelectionChangedEvent("p1", domain.CategoryFrame, "gold")))
	require.NoError(t, bus.Publish(ctx, event.NewUserNameChangedEvent("p1", "Ana")))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/admin/players/p1/events?limit=1", nil))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"event_type":"username.changed"`)
	assert.NotContains(t, w.Body.String(), `"frame.selection_changed"`)
}

func TestHandleGetPlayerEvents_Empty(t *testing.T) {
	r, _ := newEventsRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/admin/players/nobody/events", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"events":[]`)
}

func TestHandleGetPlayerEvents_InvalidLimit(t *testing.T) {
	r, _ := newEventsRouter(t)

	for _, q := range []string{"abc", "-1"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("GET", "/admin/players/p1/events?limit="+q, nil))
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
		assert.Contains(t, w.Body.String(), ErrMsgInvalidLimit)
	}
}
