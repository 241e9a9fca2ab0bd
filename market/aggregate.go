package market

import (
	"context"
	"log"
	"math"
	"math/rand"
	"time"

	"echoGameServer/config"
)

// MovementSummary is one aggregated price movement window: what actually
// happened to BTC between startTime and endTime.
type MovementSummary struct {
	StartTime       string  `json:"startTime"`
	EndTime         string  `json:"endTime"`
	OpenPrice       float64 `json:"openPrice"`
	ClosePrice      float64 `json:"closePrice"`
	PriceChange     float64 `json:"priceChange"` // percent, 4 decimals
	ActualDirection string  `json:"actualDirection"`
	High            float64 `json:"high"`
	Low             float64 `json:"low"`
	Interval        string  `json:"interval"`
	Count           int     `json:"count"`
	Mode            string  `json:"mode"`
	Source          string  `json:"source,omitempty"` // set on synthetic data
}

// IsMock reports whether the summary was synthesized rather than fetched.
func (m *MovementSummary) IsMock() bool {
	return m.Source != ""
}

// FetchActualMovement aggregates `count` candles around the anchor into a
// movement summary. mode "backward" ends the window at the anchor; "forward"
// starts it there. Empty results trigger two bounded retries: once with the
// anchor aligned down to the interval boundary, then forward-only with no
// end bound. Any upstream failure, or three empty attempts, yields a
// synthetic summary tagged with a source marker - this call never fails.
func FetchActualMovement(ctx context.Context, anchorMs int64, interval, mode string, count int) *MovementSummary {
	if count < 1 {
		count = 1
	}

	binanceInterval, intervalMs := intervalInfo(interval)

	var start, end int64
	if mode == "forward" {
		start = anchorMs
		end = anchorMs + int64(count)*intervalMs
	} else {
		mode = "backward"
		start = anchorMs - int64(count)*intervalMs
		end = anchorMs
	}

	klines, err := FetchKlines(ctx, binanceInterval, start, end, count)
	if err != nil {
		log.Printf("❌ Actual movement fetch failed: %v", err)
		return mockMovement(anchorMs, binanceInterval, intervalMs, count, mode)
	}

	// Retry with the anchor aligned down to the interval boundary
	if len(klines) == 0 {
		alignedStart := (anchorMs / intervalMs) * intervalMs
		klines, err = FetchKlines(ctx, binanceInterval, alignedStart, alignedStart+intervalMs, count)
		if err != nil {
			log.Printf("❌ Aligned movement retry failed: %v", err)
			return mockMovement(anchorMs, binanceInterval, intervalMs, count, mode)
		}
	}

	// Final attempt: forward-only from the anchor with no end bound
	if len(klines) == 0 {
		klines, err = FetchKlines(ctx, binanceInterval, anchorMs, 0, count)
		if err != nil {
			log.Printf("❌ Forward movement retry failed: %v", err)
			return mockMovement(anchorMs, binanceInterval, intervalMs, count, mode)
		}
	}

	if len(klines) == 0 {
		log.Printf("⚠️  No klines found around anchor %d, falling back to mock data", anchorMs)
		return mockMovement(anchorMs, binanceInterval, intervalMs, count, mode)
	}

	summary := aggregateKlines(klines, binanceInterval, count, mode)
	return &summary
}

// aggregateKlines folds an ordered candle run into a single window summary:
// open of the first, close of the last, extremes across the run.
func aggregateKlines(klines []Kline, interval string, count int, mode string) MovementSummary {
	first := klines[0]
	last := klines[len(klines)-1]

	high := first.High
	low := first.Low
	for _, k := range klines[1:] {
		high = math.Max(high, k.High)
		low = math.Min(low, k.Low)
	}

	priceChange := ((last.Close - first.Open) / first.Open) * 100

	return MovementSummary{
		StartTime:       formatMillis(first.OpenTime),
		EndTime:         formatMillis(last.CloseTime),
		OpenPrice:       first.Open,
		ClosePrice:      last.Close,
		PriceChange:     roundTo4(priceChange),
		ActualDirection: directionOf(priceChange),
		High:            high,
		Low:             low,
		Interval:        interval,
		Count:           count,
		Mode:            mode,
	}
}

// mockMovement fabricates a plausible movement so the game can keep running
// when the exchange is unreachable. Callers can tell it apart via Source.
func mockMovement(anchorMs int64, interval string, intervalMs int64, count int, mode string) *MovementSummary {
	mockChange := (rand.Float64() - 0.5) * 2 * config.MockMaxChangePct

	open := config.MockBasePrice
	closePrice := open * (1 + mockChange/100)

	return &MovementSummary{
		StartTime:       formatMillis(anchorMs),
		EndTime:         formatMillis(anchorMs + intervalMs),
		OpenPrice:       open,
		ClosePrice:      closePrice,
		PriceChange:     roundTo4(mockChange),
		ActualDirection: directionOf(mockChange),
		High:            open * (1 + math.Abs(mockChange)/100),
		Low:             open * (1 - math.Abs(mockChange)/100),
		Interval:        interval,
		Count:           count,
		Mode:            mode,
		Source:          "Mock Data",
	}
}

// directionOf maps a percent change to UP/DOWN. Zero counts as DOWN.
func directionOf(priceChange float64) string {
	if priceChange > 0 {
		return "UP"
	}
	return "DOWN"
}

func roundTo4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

func formatMillis(ms int64) string {
	return time.UnixMilli(ms).UTC().Format(time.RFC3339)
}
