package websocket

import (
	"log/slog"
	"net/http"

	ws "github.com/coder/websocket"

	"github.com/mckaywrigley/takeoff-notes-app-complete/internal/auth"
)

// HandleWebSocket returns an HTTP handler that upgrades connections to
// WebSocket and serves them as Hub clients for the authenticated user.
// Connections are only reachable behind the auth middleware, so any origin
// is accepted.
func HandleWebSocket(hub *Hub, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := auth.UserID(r.Context())
		if userID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		conn, err := ws.Accept(w, r, &ws.AcceptOptions{
			InsecureSkipVerify: true,
		})
		if err != nil {
			logger.Warn("websocket accept", "error", err)
			return
		}

		NewClient(hub, conn, userID).Serve(r.Context())
	}
}
