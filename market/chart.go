package market

import (
	"context"
	"log"
	"math"
	"math/rand"
	"time"

	"echoGameServer/config"
)

// ChartCandle is one candle in the format the chart component consumes.
type ChartCandle struct {
	Timestamp int64   `json:"timestamp"`
	Time      string  `json:"time"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}

// ChartData is an aggregated candle window, optionally with the trailing
// candles withheld so the player cannot see the movement they are guessing.
type ChartData struct {
	Data           []ChartCandle `json:"data"`
	CurrentPrice   float64       `json:"currentPrice"`
	NextCandleTime string        `json:"nextCandleTime"`
	IsPartial      bool          `json:"isPartial"`
	Interval       string        `json:"interval"`
	HideCount      int           `json:"hideCount"`
	Source         string        `json:"source,omitempty"`
}

// FetchChartData retrieves the candle window ending at endTimeMs. When
// hideLast is set the trailing hideCount candles are dropped server-side;
// the full window is still fetched so the cut happens here, not upstream.
// Upstream failure degrades to a synthetic series, never an error.
func FetchChartData(ctx context.Context, endTimeMs int64, interval string, limit int, hideLast bool, hideCount int) *ChartData {
	binanceInterval, intervalMs := intervalInfo(interval)
	if limit <= 0 {
		limit = config.DefaultChartLimit
	}
	if hideCount < 0 {
		hideCount = 0
	}

	klines, err := FetchKlines(ctx, binanceInterval, 0, endTimeMs, limit)
	if err != nil {
		log.Printf("❌ Chart data fetch failed: %v", err)
		return mockChartData(binanceInterval, intervalMs, limit, hideLast, hideCount)
	}

	candles := make([]ChartCandle, 0, len(klines))
	for _, k := range klines {
		candles = append(candles, ChartCandle{
			Timestamp: k.OpenTime,
			Time:      formatMillis(k.OpenTime),
			Open:      k.Open,
			High:      k.High,
			Low:       k.Low,
			Close:     k.Close,
			Volume:    k.Volume,
		})
	}

	return buildChartData(candles, binanceInterval, intervalMs, hideLast, hideCount, "")
}

func buildChartData(candles []ChartCandle, interval string, intervalMs int64, hideLast bool, hideCount int, source string) *ChartData {
	visible := candles
	if hideLast {
		cut := len(candles) - hideCount
		if cut < 0 {
			cut = 0
		}
		visible = candles[:cut]
	}

	currentPrice := 0.0
	nextCandleTime := formatMillis(time.Now().UnixMilli() + intervalMs)
	if len(visible) > 0 {
		last := visible[len(visible)-1]
		currentPrice = last.Close
		nextCandleTime = formatMillis(last.Timestamp + intervalMs)
	}

	shownHideCount := 0
	if hideLast {
		shownHideCount = hideCount
	}

	return &ChartData{
		Data:           visible,
		CurrentPrice:   currentPrice,
		NextCandleTime: nextCandleTime,
		IsPartial:      hideLast,
		Interval:       interval,
		HideCount:      shownHideCount,
		Source:         source,
	}
}

// mockChartData generates a smooth synthetic candle series around the mock
// base price so the chart still renders something during outages.
func mockChartData(interval string, intervalMs int64, limit int, hideLast bool, hideCount int) *ChartData {
	now := time.Now().UnixMilli()

	candles := make([]ChartCandle, limit)
	for i := 0; i < limit; i++ {
		timestamp := now - int64(limit-1-i)*intervalMs
		price := config.MockBasePrice + math.Sin(float64(i)/10)*2000 + (rand.Float64()-0.5)*1000

		candles[i] = ChartCandle{
			Timestamp: timestamp,
			Time:      formatMillis(timestamp),
			Open:      price,
			High:      price + rand.Float64()*500,
			Low:       price - rand.Float64()*500,
			Close:     price + (rand.Float64()-0.5)*200,
			Volume:    rand.Float64() * 1000000,
		}
	}

	return buildChartData(candles, interval, intervalMs, hideLast, hideCount, "Mock Data")
}

/* =========================
   CURRENT PRICE
========================= */

// PriceQuote is the most recent trade price for the game symbol.
type PriceQuote struct {
	Price     float64 `json:"price"`
	Source    string  `json:"source"`
	Timestamp string  `json:"timestamp"`
}

// FetchCurrentPrice returns the latest BTC price using the close of the most
// recent 1m candle. Failure degrades to a rounded mock quote.
func FetchCurrentPrice(ctx context.Context) *PriceQuote {
	klines, err := FetchKlines(ctx, "1m", 0, 0, 1)
	if err != nil || len(klines) == 0 {
		if err != nil {
			log.Printf("❌ Current price fetch failed: %v", err)
		}
		mockPrice := config.MockBasePrice + (rand.Float64()-0.5)*2000
		return &PriceQuote{
			Price:     math.Round(mockPrice),
			Source:    "Mock Data",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		}
	}

	return &PriceQuote{
		Price:     klines[len(klines)-1].Close,
		Source:    "Binance",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}
