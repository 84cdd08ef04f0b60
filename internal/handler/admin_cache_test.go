package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/cosmetics/internal/player"
)

type MockPlayerCache struct {
	mock.Mock
}

func (m *MockPlayerCache) Stats() player.CacheStats {
	args := m.Called()
	return args.Get(0).(player.CacheStats)
}

func (m *MockPlayerCache) Evict(playerID string) {
	m.Called(playerID)
}

func TestHandleGetCacheStats(t *testing.T) {
	cache := &MockPlayerCache{}
	cache.On("Stats").Return(player.CacheStats{Hits: 100, Misses: 50, Size: 7})

	req := httptest.NewRequest("GET", "/api/v1/admin/cache/stats", nil)
	w := httptest.NewRecorder()

	NewAdminCacheHandler(cache).HandleGetCacheStats(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var response player.CacheStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, int64(100), response.Hits)
	assert.Equal(t, int64(50), response.Misses)
	assert.Equal(t, 7, response.Size)
	cache.AssertExpectations(t)
}

func TestHandleEvictPlayer(t *testing.T) {
	cache := &MockPlayerCache{}
	cache.On("Evict", "p1").Return()

	r := chi.NewRouter()
	r.Delete("/cache/players/{playerID}", NewAdminCacheHandler(cache).HandleEvictPlayer)

	req := httptest.NewRequest("DELETE", "/cache/players/p1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), MsgPlayerEvicted)
	cache.AssertExpectations(t)
}
