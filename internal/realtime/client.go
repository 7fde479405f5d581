package realtime

import (
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"sawit-ops/backend/internal/model"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// Inbound frames are client pings and subscription acks only.
	maxInboundSize = 4096
)

// Client is one websocket connection. It is auto-subscribed to its role's
// channels at construction; the read and write pumps run until the peer
// disconnects or the hub closes the send channel.
type Client struct {
	UserID    string
	CompanyID string
	Role      model.Role
	DeviceID  string

	hub      *Hub
	conn     *websocket.Conn
	send     chan Event
	channels map[Channel]struct{}
	logger   *zap.Logger

	closed bool
}

// NewClient wraps an upgraded websocket connection.
func NewClient(hub *Hub, conn *websocket.Conn, userID, companyID, deviceID string, role model.Role, sendBuffer int, logger *zap.Logger) *Client {
	return &Client{
		UserID:    userID,
		CompanyID: companyID,
		Role:      role,
		DeviceID:  deviceID,
		hub:       hub,
		conn:      conn,
		send:      make(chan Event, sendBuffer),
		channels:  subscriptionSet(role),
		logger:    logger,
	}
}

// Channels returns the channels this client is subscribed to.
func (c *Client) Channels() []Channel {
	out := make([]Channel, 0, len(c.channels))
	for ch := range c.channels {
		out = append(out, ch)
	}
	return out
}

func (c *Client) closeSend() {
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// ReadPump drains inbound frames to keep the connection's pong handler
// serviced. It unregisters the client when the peer goes away.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxInboundSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Debug("websocket read error", zap.String("user_id", c.UserID), zap.Error(err))
			}
			return
		}
	}
}

// WritePump serializes events to the peer and keeps the connection alive
// with periodic pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case evt, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(evt); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
