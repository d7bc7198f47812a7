package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/kiwari-pos/cartview/internal/auth"
	"github.com/kiwari-pos/cartview/internal/enum"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // access is checked through the token
	},
}

// TokenValidator is satisfied by *auth.Issuer.
type TokenValidator interface {
	ValidateAccess(tokenStr string) (*auth.Claims, error)
}

// SnapshotFunc builds the first event a new client receives. A nil event
// sends nothing.
type SnapshotFunc func(ctx context.Context, outletID uuid.UUID) (*Event, error)

// Client is one websocket connection subscribed to an outlet.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	outletID uuid.UUID
	send     chan []byte
}

// ReadPump only watches for disconnects; displays never send messages.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.drop(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.Warn("websocket read", zap.Stringer("outlet_id", c.outletID), zap.Error(err))
			}
			return
		}
	}
}

// WritePump delivers queued events and keeps the connection alive with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
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

// ServeKitchen upgrades GET /ws/outlets/{oid}/kitchen?token=JWT and streams
// the outlet's cart and kitchen events. Owners may watch any outlet.
func ServeKitchen(hub *Hub, tokens TokenValidator, snapshot SnapshotFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tokenStr := r.URL.Query().Get("token")
		if tokenStr == "" {
			http.Error(w, "missing token", http.StatusUnauthorized)
			return
		}

		claims, err := tokens.ValidateAccess(tokenStr)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		outletID, err := uuid.Parse(chi.URLParam(r, "oid"))
		if err != nil {
			http.Error(w, "invalid outlet id", http.StatusBadRequest)
			return
		}

		if claims.Role != enum.UserRoleOwner && claims.OutletID != outletID {
			http.Error(w, "outlet access denied", http.StatusForbidden)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			hub.log.Warn("websocket upgrade", zap.Error(err))
			return
		}

		client := &Client{
			hub:      hub,
			conn:     conn,
			outletID: outletID,
			send:     make(chan []byte, sendBuffer),
		}

		if snapshot != nil {
			if err := queueSnapshot(r.Context(), client, snapshot); err != nil {
				hub.log.Error("websocket snapshot", zap.Stringer("outlet_id", outletID), zap.Error(err))
			}
		}

		if !hub.add(client) {
			conn.Close()
			return
		}

		go client.WritePump()
		go client.ReadPump()
	}
}

func queueSnapshot(ctx context.Context, client *Client, snapshot SnapshotFunc) error {
	event, err := snapshot(ctx, client.outletID)
	if err != nil || event == nil {
		return err
	}
	message, err := json.Marshal(event)
	if err != nil {
		return err
	}
	client.send <- message
	return nil
}
