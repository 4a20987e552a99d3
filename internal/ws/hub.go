package ws

import (
	"context"
	"encoding/json"

	"github.com/DanielSzakacs/OE-school-competition/internal/game"
	"go.uber.org/zap"
)

// Engine is the game state machine the hub feeds inbound events into. It is
// the service.Engine in production; tests substitute a recorder.
type Engine interface {
	Join(ctx context.Context, connID string, role game.Role, seat int)
	SelectQuestion(ctx context.Context, role game.Role, questionID int64)
	ConfirmReveal(ctx context.Context, role game.Role, questionID int64)
	Buzz(ctx context.Context, role game.Role, seat int)
	ResolveAnswer(ctx context.Context, role game.Role, isCorrect bool)
	ResetGame(ctx context.Context, role game.Role)
	ReseedGame(ctx context.Context, role game.Role)
	ToggleSfx(ctx context.Context, role game.Role, enabled bool)
	ToggleScreenCover(ctx context.Context, role game.Role, enabled bool)
	HandleDisconnect(connID string)
}

// Hub owns the single room: connection registry, group broadcast and
// per-connection sends. The run loop is the only goroutine touching the
// client map, so no lock is needed. Sends to clients never block; a client
// whose buffer is full is dropped.
type Hub struct {
	engine Engine
	log    *zap.Logger

	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	direct     chan directMessage
}

type directMessage struct {
	connID string
	data   []byte
}

func NewHub(engine Engine, log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	h := &Hub{
		engine:     engine,
		log:        log,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, broadcastBufferSize),
		direct:     make(chan directMessage, broadcastBufferSize),
	}
	go h.run()
	return h
}

// Publish sends an event to every connected client. Fire-and-forget.
func (h *Hub) Publish(event string, payload any) {
	b, err := json.Marshal(Envelope{Type: event, Payload: payload})
	if err != nil {
		h.log.Error("ws broadcast marshal failed", zap.String("event", event), zap.Error(err))
		return
	}
	h.broadcast <- b
}

// Notify sends an event to one connection, if it is still around.
func (h *Hub) Notify(connID string, event string, payload any) {
	b, err := json.Marshal(Envelope{Type: event, Payload: payload})
	if err != nil {
		h.log.Error("ws notify marshal failed", zap.String("event", event), zap.Error(err))
		return
	}
	h.direct <- directMessage{connID: connID, data: b}
}

func (h *Hub) run() {
	clients := make(map[string]*Client)

	drop := func(c *Client) {
		if _, ok := clients[c.connID]; !ok {
			return
		}
		delete(clients, c.connID)
		close(c.send)
		h.log.Info("ws client unregistered", zap.String("conn_id", c.connID))
	}

	for {
		select {
		case c := <-h.register:
			clients[c.connID] = c
			h.log.Info("ws client registered", zap.String("conn_id", c.connID))

		case c := <-h.unregister:
			drop(c)

		case msg := <-h.broadcast:
			for _, c := range clients {
				select {
				case c.send <- msg:
				default:
					drop(c)
				}
			}

		case msg := <-h.direct:
			c, ok := clients[msg.connID]
			if !ok {
				continue
			}
			select {
			case c.send <- msg.data:
			default:
				drop(c)
			}
		}
	}
}
