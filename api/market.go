package api

import (
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"echoGameServer/config"
	"echoGameServer/market"
)

/* =========================
   CURRENT PRICE
========================= */

// HandleGetPrice handles GET /api/game/price
// Returns the most recent BTC trade price; degrades to a mock quote with a
// source marker when the exchange is unreachable.
func HandleGetPrice(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		sendError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	quote := market.FetchCurrentPrice(r.Context())
	writeJSON(w, http.StatusOK, quote)

	log.Printf("💰 Served price %.2f (%s)", quote.Price, quote.Source)
}

/* =========================
   CHART DATA
========================= */

// HandleGetChartData handles GET /api/game/chart-data
// Query params: endTime (ms or RFC3339, default now), interval (15m|1h),
// limit, hideLastCandles, hideCount. The trailing candles are withheld
// server-side so a partial chart never leaks the answer to the client.
func HandleGetChartData(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		sendError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	query := r.URL.Query()

	endTime, ok := parseTimeParam(query.Get("endTime"))
	if !ok {
		endTime = time.Now().UnixMilli()
	}

	interval := strings.ToLower(query.Get("interval"))

	limit := config.DefaultChartLimit
	if v, err := strconv.Atoi(query.Get("limit")); err == nil && v > 0 {
		limit = v
	}

	hideLast := query.Get("hideLastCandles") == "true"

	hideCount := config.DefaultHideCount
	if v, err := strconv.Atoi(query.Get("hideCount")); err == nil {
		hideCount = v
	}

	chart := market.FetchChartData(r.Context(), endTime, interval, limit, hideLast, hideCount)
	writeJSON(w, http.StatusOK, chart)

	log.Printf("📊 Served chart: %d candles, partial=%v", len(chart.Data), chart.IsPartial)
}

/* =========================
   ACTUAL MOVEMENT
========================= */

// HandleGetActualMovement handles GET /api/game/actual-movement
// Query params: startTime (required), interval (15m|1h), mode
// (backward|forward), count. Responds 400 only for a missing startTime;
// upstream trouble degrades to a mock-tagged 200 per the aggregator policy.
func HandleGetActualMovement(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		sendError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	query := r.URL.Query()

	anchor, ok := parseTimeParam(query.Get("startTime"))
	if !ok {
		sendError(w, http.StatusBadRequest, "startTime parameter is required")
		return
	}

	interval := strings.ToLower(query.Get("interval"))
	mode := strings.ToLower(query.Get("mode"))

	count := config.DefaultMovementCount
	if v, err := strconv.Atoi(query.Get("count")); err == nil {
		count = v
	}
	if count < 1 {
		count = 1
	}

	summary := market.FetchActualMovement(r.Context(), anchor, interval, mode, count)
	writeJSON(w, http.StatusOK, summary)

	log.Printf("📈 Served movement: %s %.4f%% (mock=%v)",
		summary.ActualDirection, summary.PriceChange, summary.IsMock())
}
