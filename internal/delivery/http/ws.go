package http

import (
	"encoding/json"
	"log"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"

	"github.com/seawatch/backend/internal/broadcast"
	"github.com/seawatch/backend/internal/domain"
)

// maxFramesPerSecond caps outbound tick frames per connection. A client
// that cannot keep up gets frames skipped rather than queued without
// bound; the terminal done tick is never skipped.
const maxFramesPerSecond = 20

// RequireWebSocketUpgrade rejects plain HTTP requests on socket routes
func RequireWebSocketUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// LiveSocketHandler relays the telemetry topic to a WebSocket client.
// Each connection holds its own subscription; ticks published before
// the connection was established are not replayed.
func LiveSocketHandler(channel broadcast.Channel, topic string) fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		limiter := rate.NewLimiter(rate.Limit(maxFramesPerSecond), maxFramesPerSecond)
		closed := make(chan error, 1)

		report := func(err error) {
			select {
			case closed <- err:
			default:
			}
		}

		unsubscribe, err := channel.Subscribe(topic,
			func(tick *domain.Tick) {
				if !tick.Done && !limiter.Allow() {
					return
				}
				payload, err := json.Marshal(tick)
				if err != nil {
					log.Printf("ws: marshal tick failed: %v", err)
					return
				}
				if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
					report(err)
				}
			},
			func(err error) {
				// transport failure: tell the client, then drop the connection
				notice, _ := json.Marshal(fiber.Map{"error": "stream closed"})
				_ = conn.WriteMessage(websocket.TextMessage, notice)
				report(err)
			},
		)
		if err != nil {
			log.Printf("ws: subscribe failed: %v", err)
			return
		}
		defer unsubscribe()

		// reads only detect the client going away
		go func() {
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					report(err)
					return
				}
			}
		}()

		<-closed
	})
}
