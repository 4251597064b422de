package http

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/kardex-api/internal/infrastructure/ws"
)

// requireUpgrade rechaza peticiones que no piden websocket.
func requireUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return c.SendStatus(fiber.StatusUpgradeRequired)
}

// kardexStream registra la conexión en el hub hasta que el cliente cierre.
func kardexStream(hub *ws.Hub) fiber.Handler {
	return websocket.New(func(c *websocket.Conn) {
		if !hub.Register(c) {
			return
		}
		defer hub.Unregister(c)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	})
}
