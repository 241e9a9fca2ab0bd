package main

import (
	"log"
	"net/http"

	"echoGameServer/api"
	"echoGameServer/config"
	"echoGameServer/db"
	"echoGameServer/ws"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  Warning: .env file not found, using environment variables")
	} else {
		log.Println("✅ Loaded environment variables from .env")
	}

	// Assemble and validate configuration once
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}

	// Initialize database connections
	if err := db.InitPostgres(); err != nil {
		log.Printf("⚠️  Warning: PostgreSQL initialization failed: %v", err)
		log.Println("   Prediction rounds will report an empty store")
	}
	defer db.ClosePostgres()

	if err := db.InitRedis(); err != nil {
		log.Printf("⚠️  Warning: Redis initialization failed: %v", err)
		log.Println("   Kline responses will not be cached")
	}
	defer db.CloseRedis()

	// Start live price broadcasts
	ws.StartPriceFeed()

	// WebSocket endpoints
	http.HandleFunc("/ws/price", ws.HandlePriceFeedWS)
	http.HandleFunc("/ws/game", ws.HandleGameWS)

	// API endpoints
	http.HandleFunc("/api/game/price", corsMiddleware(api.HandleGetPrice))
	http.HandleFunc("/api/game/chart-data", corsMiddleware(api.HandleGetChartData))
	http.HandleFunc("/api/game/actual-movement", corsMiddleware(api.HandleGetActualMovement))
	http.HandleFunc("/api/game/prediction", corsMiddleware(api.HandleGetPrediction))
	http.HandleFunc("/api/health", corsMiddleware(api.HandleHealthCheck))
	http.HandleFunc("/.well-known/farcaster.json", corsMiddleware(api.HandleManifest(cfg)))

	addr := "0.0.0.0:" + cfg.Port
	log.Printf("🚀 Server starting on %s", addr)
	log.Println("")
	log.Println("📡 WebSocket Endpoints:")
	log.Println("   /ws/price - Live BTC price broadcasts")
	log.Println("   /ws/game  - Interactive 5-round prediction game")
	log.Println("")
	log.Println("🔌 API Endpoints:")
	log.Println("   GET /api/game/price           - Current BTC price")
	log.Println("   GET /api/game/chart-data      - Candle window (partial reveal supported)")
	log.Println("   GET /api/game/actual-movement - Aggregated realized movement")
	log.Println("   GET /api/game/prediction      - Random stored echo prediction")
	log.Println("   GET /api/health               - Health check (Redis + PostgreSQL)")
	log.Println("   GET /.well-known/farcaster.json - Mini-app manifest")
	log.Println("")

	if err := http.ListenAndServe(addr, nil); err != nil {
		log.Fatal("❌ Server error:", err)
	}
}

// corsMiddleware adds CORS headers to allow frontend requests
func corsMiddleware(handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		// Handle preflight OPTIONS request
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		handler(w, r)
	}
}
