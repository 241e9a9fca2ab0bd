package ws

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"echoGameServer/config"
	"echoGameServer/market"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

/* =========================
   LIVE PRICE FEED
========================= */

var (
	feedMu      sync.RWMutex
	feedClients = make(map[string]*websocket.Conn)
)

// PriceTickMessage is one broadcast price update.
type PriceTickMessage struct {
	Type      string  `json:"type"`
	Price     float64 `json:"price"`
	Source    string  `json:"source"`
	Timestamp string  `json:"timestamp"`
}

// HandlePriceFeedWS handles GET /ws/price
// Subscribes the connection to periodic BTC price broadcasts.
func HandlePriceFeedWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("❌ Price feed upgrade failed:", err)
		return
	}

	clientID := uuid.NewString()

	feedMu.Lock()
	feedClients[clientID] = conn
	feedMu.Unlock()

	count := addClient()
	log.Printf("✅ Price feed client connected: %s (total: %d)", clientID, count)

	// The read loop exists only to notice the client going away
	go func() {
		defer func() {
			feedMu.Lock()
			delete(feedClients, clientID)
			feedMu.Unlock()
			conn.Close()
			log.Printf("👋 Price feed client disconnected: %s (total: %d)", clientID, removeClient())
		}()

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// StartPriceFeed launches the broadcast loop pushing the current price to
// every subscribed client. Call once from main.
func StartPriceFeed() {
	go func() {
		ticker := time.NewTicker(config.PriceFeedInterval)
		defer ticker.Stop()

		for range ticker.C {
			feedMu.RLock()
			idle := len(feedClients) == 0
			feedMu.RUnlock()
			if idle {
				continue
			}

			ctx, cancel := context.WithTimeout(context.Background(), config.UpstreamTimeout)
			quote := market.FetchCurrentPrice(ctx)
			cancel()

			broadcastPrice(PriceTickMessage{
				Type:      "price",
				Price:     quote.Price,
				Source:    quote.Source,
				Timestamp: quote.Timestamp,
			})
		}
	}()

	log.Println("📡 Price feed broadcaster started")
}

func broadcastPrice(msg PriceTickMessage) {
	feedMu.RLock()
	defer feedMu.RUnlock()

	for clientID, conn := range feedClients {
		conn.SetWriteDeadline(time.Now().Add(config.WSWriteDeadline))
		if err := conn.WriteJSON(msg); err != nil {
			log.Printf("⚠️  Price broadcast to %s failed: %v", clientID, err)
		}
	}
}
