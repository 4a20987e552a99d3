package ws

import (
	"context"
	"encoding/json"
	"time"

	"github.com/DanielSzakacs/OE-school-competition/internal/game"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type Client struct {
	hub    *Hub
	connID string
	conn   *websocket.Conn
	send   chan []byte

	// role and seat are only touched by the read pump.
	role game.Role
	seat int
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.hub.engine.HandleDisconnect(c.connID)
		_ = c.conn.Close()

		c.hub.log.Info("ws connection closed",
			zap.String("conn_id", c.connID),
			zap.String("role", string(c.role)),
		)
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	ctx := context.Background()

	for {
		var msg clientMsg
		if err := c.conn.ReadJSON(&msg); err != nil {
			c.hub.log.Warn("ws read failed",
				zap.String("conn_id", c.connID),
				zap.Error(err),
			)
			break
		}
		c.dispatch(ctx, msg)
	}
}

// dispatch routes one inbound event into the engine. Malformed payloads and
// unknown types are dropped without a reply; the engine itself drops events
// that fail its preconditions. The sender only ever learns anything from the
// next state broadcast.
func (c *Client) dispatch(ctx context.Context, msg clientMsg) {
	badPayload := func(err error) {
		c.hub.log.Warn("ws bad payload dropped",
			zap.String("conn_id", c.connID),
			zap.String("type", msg.Type),
			zap.Error(err),
		)
	}

	switch msg.Type {
	case "room:join":
		var p JoinPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			badPayload(err)
			return
		}
		role := game.Role(p.Role)
		if !role.Valid() {
			badPayload(nil)
			return
		}
		c.role = role
		c.seat = p.Seat
		c.hub.engine.Join(ctx, c.connID, role, p.Seat)

	case "question:select":
		var p SelectQuestionPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			badPayload(err)
			return
		}
		c.hub.engine.SelectQuestion(ctx, c.role, p.QuestionID)

	case "question:reveal":
		var p RevealPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			badPayload(err)
			return
		}
		c.hub.engine.ConfirmReveal(ctx, c.role, p.QuestionID)

	case "buzz:hit":
		var p BuzzPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			badPayload(err)
			return
		}
		c.hub.engine.Buzz(ctx, c.role, p.Seat)

	case "answer:resolve":
		var p ResolveAnswerPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			badPayload(err)
			return
		}
		c.hub.engine.ResolveAnswer(ctx, c.role, p.IsCorrect)

	case "game:reset":
		c.hub.engine.ResetGame(ctx, c.role)

	case "game:seed":
		c.hub.engine.ReseedGame(ctx, c.role)

	case "sfx:toggle":
		var p TogglePayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			badPayload(err)
			return
		}
		c.hub.engine.ToggleSfx(ctx, c.role, p.Enabled)

	case "screen:cover":
		var p TogglePayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			badPayload(err)
			return
		}
		c.hub.engine.ToggleScreenCover(ctx, c.role, p.Enabled)

	default:
		c.hub.log.Warn("unknown ws message type",
			zap.String("conn_id", c.connID),
			zap.String("type", msg.Type),
		)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.hub.log.Warn("ws write failed",
					zap.String("conn_id", c.connID),
					zap.Error(err),
				)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.hub.log.Warn("ws ping failed",
					zap.String("conn_id", c.connID),
					zap.Error(err),
				)
				return
			}
		}
	}
}
