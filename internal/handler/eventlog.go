package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/osse101/cosmetics/internal/eventlog"
)

// EventReader lists logged events. eventlog.Service satisfies it.
type EventReader interface {
	EventsForPlayer(ctx context.Context, playerID string, limit int) ([]eventlog.Event, error)
}

// EventsResponse lists a player's logged events, newest first
type EventsResponse struct {
	PlayerID string           `json:"player_id"`
	Events   []eventlog.Event `json:"events"`
}

// HandleGetPlayerEvents returns the audit trail of a player
// @Summary Get player event log
// @Tags admin
// @Produce json
// @Param playerID path string true "Player id"
// @Param limit query int false "Maximum number of events"
// @Success 200 {object} EventsResponse
// @Router /api/v1/admin/players/{playerID}/events [get]
func HandleGetPlayerEvents(events EventReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID, ok := playerIDParam(w, r)
		if !ok {
			return
		}

		limit := 0
		if raw := r.URL.Query().Get(QueryLimit); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 0 {
				respondError(w, http.StatusBadRequest, ErrMsgInvalidLimit)
				return
			}
			limit = n
		}

		list, err := events.EventsForPlayer(r.Context(), playerID, limit)
		if err != nil {
			respondServiceError(w, r, OpGetEvents, err)
			return
		}
		if list == nil {
			list = []eventlog.Event{}
		}
		respondJSON(w, http.StatusOK, EventsResponse{PlayerID: playerID, Events: list})
	}
}
