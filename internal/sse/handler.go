package sse

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/osse101/cosmetics/internal/logger"
)

// Handler streams hub events to the caller. ?types=a,b narrows event types
// and ?player_id=x narrows to one player.
func Handler(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())
		rc := http.NewResponseController(w)

		var eventTypes []string
		for _, t := range strings.Split(r.URL.Query().Get(QueryTypes), ",") {
			if t = strings.TrimSpace(t); t != "" {
				eventTypes = append(eventTypes, t)
			}
		}
		playerID := strings.TrimSpace(r.URL.Query().Get(QueryPlayerID))

		client, err := hub.Register(eventTypes, playerID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		defer func() {
			hub.Unregister(client.ID)
			log.Info(LogMsgClientDisconnected, "client_id", client.ID)
		}()

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")

		connected := Event{
			ID:        client.ID,
			Type:      EventTypeConnected,
			PlayerID:  playerID,
			Timestamp: time.Now().Unix(),
			Payload: map[string]interface{}{
				"client_id": client.ID,
				"filters":   eventTypes,
			},
		}
		if err := send(w, rc, connected); err != nil {
			if errors.Is(err, http.ErrNotSupported) {
				log.Error(ErrMsgStreamingUnsupported)
			}
			return
		}
		log.Info(LogMsgClientConnected,
			"client_id", client.ID,
			"filters", eventTypes,
			"player_id", playerID)

		ticker := time.NewTicker(KeepaliveInterval)
		defer ticker.Stop()

		for {
			select {
			case <-r.Context().Done():
				return
			case <-hub.Done():
				return
			case evt, ok := <-client.EventChannel:
				if !ok {
					return
				}
				if err := send(w, rc, evt); err != nil {
					log.Warn(LogMsgWriteError, "error", err)
					return
				}
			case <-ticker.C:
				if err := send(w, rc, Event{Type: EventTypeKeepalive, Timestamp: time.Now().Unix()}); err != nil {
					return
				}
			}
		}
	}
}

func send(w http.ResponseWriter, rc *http.ResponseController, evt Event) error {
	msg, err := FormatSSEMessage(evt)
	if err != nil {
		slog.Error(LogMsgWriteError, "error", err)
		return nil
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	return rc.Flush()
}
