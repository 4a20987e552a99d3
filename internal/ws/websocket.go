package ws

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWS upgrades the connection and waits for the client to declare its
// role with a room:join message before admitting it to the room. Once
// joined, the engine pushes a fresh full state to everyone, which is how the
// new client catches up.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	_ = conn.SetReadDeadline(time.Now().Add(joinWait))
	var msg clientMsg
	if err := conn.ReadJSON(&msg); err != nil || msg.Type != "room:join" {
		h.log.Warn("ws connection without join, closing", zap.String("remote", r.RemoteAddr))
		_ = conn.Close()
		return
	}
	_ = conn.SetReadDeadline(time.Time{})

	client := &Client{
		hub:    h,
		connID: uuid.NewString(),
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
	}

	h.register <- client
	go client.writePump()

	client.dispatch(context.Background(), msg)
	client.readPump()
}
