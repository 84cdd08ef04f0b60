package handler

import (
	"net/http"

	"github.com/osse101/cosmetics/internal/logger"
	"github.com/osse101/cosmetics/internal/player"
)

// PlayerCache exposes the registry's cache controls. *player.Registry satisfies it.
type PlayerCache interface {
	Stats() player.CacheStats
	Evict(playerID string)
}

// AdminCacheHandler handles admin cache operations
type AdminCacheHandler struct {
	cache PlayerCache
}

// NewAdminCacheHandler creates a new admin cache handler
func NewAdminCacheHandler(cache PlayerCache) *AdminCacheHandler {
	return &AdminCacheHandler{cache: cache}
}

// HandleGetCacheStats returns current player cache statistics
// @Summary Get player cache stats
// @Description Returns cache hit/miss statistics for monitoring (admin only)
// @Tags admin
// @Produce json
// @Success 200 {object} player.CacheStats
// @Router /api/v1/admin/cache/stats [get]
func (h *AdminCacheHandler) HandleGetCacheStats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.cache.Stats())
}

// HandleEvictPlayer drops a player's cached service so the next request
// reloads it from storage
// @Summary Evict cached player
// @Tags admin
// @Produce json
// @Param playerID path string true "Player id"
// @Success 200 {object} SuccessResponse
// @Router /api/v1/admin/cache/players/{playerID} [delete]
func (h *AdminCacheHandler) HandleEvictPlayer(w http.ResponseWriter, r *http.Request) {
	playerID, ok := playerIDParam(w, r)
	if !ok {
		return
	}
	h.cache.Evict(playerID)
	logger.FromContext(r.Context()).Info(MsgPlayerEvicted, "player_id", playerID)
	respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgPlayerEvicted})
}
