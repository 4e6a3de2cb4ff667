package ws

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// The tracking stream carries no commands, only public-ish
		// positions, so cross-origin watchers are allowed.
		return true
	},
}

// Handler upgrades the request and attaches the watcher to the hub.
func Handler(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			hub.log.Warn("ws upgrade failed", "err", err)
			return
		}
		client := newClient(hub, conn)
		hub.register <- client
		go client.writePump()
		go client.readPump()
	}
}
