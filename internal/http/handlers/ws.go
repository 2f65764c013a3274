package handlers

import (
	"net/http"

	"sk8_webapp/internal/domain"
	"sk8_webapp/internal/logger"
	"sk8_webapp/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// WS upgrades a participant's connection and streams full game
// snapshots after every committed mutation. Browsers cannot set an
// Authorization header on a websocket, so the token rides in the query.
func (h *Handler) WS(hub *ws.Hub, allowedOrigin string) gin.HandlerFunc {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			if allowedOrigin == "" {
				return true
			}
			return r.Header.Get("Origin") == allowedOrigin
		},
	}

	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "token required"})
			return
		}
		uid, err := h.Tokens.Parse(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		gameID := c.Query("game_id")
		if gameID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "game_id required"})
			return
		}

		ok, err := h.Games.IsParticipant(c.Request.Context(), uid, gameID)
		if err != nil {
			respondErr(c, "watchGame", err)
			return
		}
		if !ok {
			respondErr(c, "watchGame", domain.NewError(domain.KindPermissionDenied, "you are not part of this game"))
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Warn("ws upgrade failed", "error", err)
			return
		}

		client := ws.NewClient(uid, gameID, conn, hub)
		go client.Run()
	}
}
