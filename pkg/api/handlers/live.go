package handlers

import (
	"context"
	"net/http"
	"time"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/cbodonnell/afterglow/pkg/events/sinks"
	"github.com/cbodonnell/afterglow/pkg/log"
)

// liveWriteTimeout bounds a single write to a live feed connection. A
// consumer that cannot keep up within it is disconnected.
const liveWriteTimeout = 5 * time.Second

// HandleLiveScores upgrades the connection to a WebSocket and pushes
// accepted scores as JSON messages until the client goes away.
func HandleLiveScores(broadcaster *sinks.Broadcaster) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Subscribe before the upgrade so nothing published after the
		// handshake completes can be missed.
		sub := broadcaster.Subscribe()
		defer sub.Close()

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: []string{"*"},
		})
		if err != nil {
			log.Error("failed to accept websocket connection: %v", err)
			return
		}
		defer conn.CloseNow()

		log.Debug("live feed connection from %s", r.RemoteAddr)

		for {
			select {
			case <-r.Context().Done():
				conn.Close(websocket.StatusGoingAway, "server shutting down")
				return
			case evt, ok := <-sub.Events():
				if !ok {
					conn.Close(websocket.StatusNormalClosure, "feed closed")
					return
				}
				writeCtx, cancel := context.WithTimeout(r.Context(), liveWriteTimeout)
				err := wsjson.Write(writeCtx, conn, evt)
				cancel()
				if err != nil {
					log.Debug("live feed write to %s failed: %v", r.RemoteAddr, err)
					return
				}
			}
		}
	}
}
