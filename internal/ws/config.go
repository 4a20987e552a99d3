package ws

import "time"

const (
	joinWait       = 15 * time.Second
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8 * 1024

	sendBufferSize      = 64
	broadcastBufferSize = 256
)
