package live

import (
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"roomhub/internal/pkg/logx"
)

const (
	// writeWait bounds a single write to the WebSocket connection.
	writeWait = 10 * time.Second

	// pongWait is how long the server waits for a pong before dropping the peer.
	pongWait = 60 * time.Second

	// pingPeriod is the heartbeat interval; must be shorter than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// maxInboundSize caps frames from the peer. The feed is one-way; peers
	// only ever send control traffic.
	maxInboundSize = 512
)

// Client couples one WebSocket connection to one room subscription.
type Client struct {
	conn   *websocket.Conn
	sub    *Subscription
	logger zerolog.Logger
}

// NewClient wraps conn and sub. Callers start WritePump in a goroutine and
// then run ReadPump on the request goroutine.
func NewClient(conn *websocket.Conn, sub *Subscription, roomID string) *Client {
	return &Client{
		conn: conn,
		sub:  sub,
		logger: logx.Logger().With().
			Str("component", "live").
			Str("room_id", roomID).
			Logger(),
	}
}

// ReadPump consumes inbound frames until the peer goes away, keeping the
// read deadline fresh via the pong handler. On exit the subscription is
// closed, which in turn terminates WritePump.
func (c *Client) ReadPump() {
	defer func() {
		c.sub.Close()
		if err := c.conn.Close(); err != nil {
			c.logger.Debug().Err(err).Msg("connection close after read loop")
		}
	}()

	c.conn.SetReadLimit(maxInboundSize)

	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error().Err(err).Msg("failed to set read deadline")
		return
	}

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Info().Err(err).Msg("subscriber connection closed unexpectedly")
			}
			return
		}
		// Inbound data frames are ignored; the feed is read-only.
	}
}

// WritePump forwards subscription frames to the peer and keeps the
// connection alive with periodic pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		if err := c.conn.Close(); err != nil {
			c.logger.Debug().Err(err).Msg("connection close after write loop")
		}
	}()

	for {
		select {
		case frame, ok := <-c.sub.C():
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.logger.Error().Err(err).Msg("failed to set write deadline")
				return
			}

			if !ok {
				// Subscription ended; tell the peer before hanging up.
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				c.logger.Debug().Err(err).Msg("failed to write frame")
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.logger.Error().Err(err).Msg("failed to set write deadline on ping")
				return
			}

			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
