package ws

import (
	"net/http"
	"sync/atomic"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

var clientCount int64

func addClient() int64 {
	return atomic.AddInt64(&clientCount, 1)
}

func removeClient() int64 {
	return atomic.AddInt64(&clientCount, -1)
}

// ClientCount returns the number of currently connected websocket clients.
func ClientCount() int64 {
	return atomic.LoadInt64(&clientCount)
}
