package config

import "time"

/* =========================
   MARKET DATA CONFIGURATION
========================= */

const (
	// Binance spot REST API
	BinanceBaseURL = "https://api.binance.com"

	// The game is BTC-only
	Symbol = "BTCUSDT"

	// User agent sent on upstream requests (some providers block empty UAs)
	UpstreamUserAgent = "echo-miniapp/1.0 (+https://vercel.com)"

	// Upstream request timeout
	UpstreamTimeout = 10 * time.Second
)

/* =========================
   GAME MECHANICS
========================= */

const (
	// Rounds per game
	TotalRounds = 5

	// Fixed artificial delay standing in for real-time market settlement
	SettlementDelay = 2 * time.Second

	// Plausible BTC price range for validating echo guesses
	MinBTCPrice = 1000.0
	MaxBTCPrice = 1000000.0

	// Reference price applied to raw_prediction percent-change fallbacks
	RawPredictionBasePrice = 65000.0

	// Reference price for synthetic market data
	MockBasePrice = 45000.0

	// Synthetic movement bound: ±2%
	MockMaxChangePct = 2.0
)

/* =========================
   CHART CONFIGURATION
========================= */

const (
	// Default candle window served to the chart
	DefaultChartLimit = 60

	// Default number of trailing candles hidden during partial reveal
	DefaultHideCount = 3

	// Default aggregation count for actual-movement requests
	DefaultMovementCount = 3
)

/* =========================
   REDIS TTL CONFIGURATION
========================= */

const (
	// Cached upstream kline responses
	// Key: klines:{interval}:{start}:{end}:{limit}
	KlineCacheTTL = 30 * time.Second
)

/* =========================
   REDIS KEY PATTERNS
========================= */

const (
	RedisKlineCacheKey = "klines:%s:%d:%d:%d" // klines:{interval}:{start}:{end}:{limit}
)

/* =========================
   POSTGRESQL CONFIGURATION
========================= */

const (
	// Connection pool settings
	MaxOpenConns    = 25
	MaxIdleConns    = 5
	ConnMaxLifetime = 5 * time.Minute
)

/* =========================
   WEBSOCKET CONFIGURATION
========================= */

const (
	// Live price broadcast cadence
	PriceFeedInterval = 5 * time.Second

	WSWriteDeadline = 10 * time.Second
)
