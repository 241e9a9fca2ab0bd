package market

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"echoGameServer/config"
	"echoGameServer/db"
)

// Kline is one OHLCV candle from the exchange feed.
type Kline struct {
	OpenTime  int64   `json:"openTime"`  // ms
	CloseTime int64   `json:"closeTime"` // ms
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}

var (
	// baseURL is a variable so tests can point the client at a stub server
	baseURL = config.BinanceBaseURL

	httpClient = &http.Client{Timeout: config.UpstreamTimeout}
)

// FetchKlines retrieves candles for the configured symbol. startTime and
// endTime are epoch ms; pass 0 to leave a bound open. Responses are cached
// briefly in Redis so a game session does not hammer the exchange.
func FetchKlines(ctx context.Context, interval string, startTime, endTime int64, limit int) ([]Kline, error) {
	cacheKey := fmt.Sprintf(config.RedisKlineCacheKey, interval, startTime, endTime, limit)
	if cached, err := db.GetCachedKlines(ctx, cacheKey); err == nil && cached != nil {
		var klines []Kline
		if err := json.Unmarshal(cached, &klines); err == nil {
			return klines, nil
		}
	}

	params := url.Values{}
	params.Set("symbol", config.Symbol)
	params.Set("interval", interval)
	params.Set("limit", strconv.Itoa(limit))
	if startTime > 0 {
		params.Set("startTime", strconv.FormatInt(startTime, 10))
	}
	if endTime > 0 {
		params.Set("endTime", strconv.FormatInt(endTime, 10))
	}

	reqURL := fmt.Sprintf("%s/api/v3/klines?%s", baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build klines request: %w", err)
	}
	req.Header.Set("User-Agent", config.UpstreamUserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("klines request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("klines request failed: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read klines response: %w", err)
	}

	klines, err := parseKlines(body)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(klines); err == nil {
		db.CacheKlines(ctx, cacheKey, data)
	}

	return klines, nil
}

// parseKlines decodes the Binance tuple format:
// [openTime, open, high, low, close, volume, closeTime, ...]
// Numeric prices arrive as strings; openTime/closeTime as numbers.
func parseKlines(body []byte) ([]Kline, error) {
	var rawData [][]interface{}
	if err := json.Unmarshal(body, &rawData); err != nil {
		return nil, fmt.Errorf("failed to decode klines payload: %w", err)
	}

	klines := make([]Kline, 0, len(rawData))
	for _, item := range rawData {
		if len(item) < 7 {
			continue
		}

		openTime, ok := tupleMillis(item[0])
		if !ok {
			continue
		}
		closeTime, ok := tupleMillis(item[6])
		if !ok {
			continue
		}

		open, err1 := tupleFloat(item[1])
		high, err2 := tupleFloat(item[2])
		low, err3 := tupleFloat(item[3])
		closePrice, err4 := tupleFloat(item[4])
		volume, err5 := tupleFloat(item[5])
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil || err5 != nil {
			continue
		}

		klines = append(klines, Kline{
			OpenTime:  openTime,
			CloseTime: closeTime,
			Open:      open,
			High:      high,
			Low:       low,
			Close:     closePrice,
			Volume:    volume,
		})
	}

	return klines, nil
}

func tupleMillis(v interface{}) (int64, bool) {
	f, ok := v.(float64)
	if !ok {
		return 0, false
	}
	return int64(f), true
}

func tupleFloat(v interface{}) (float64, error) {
	switch n := v.(type) {
	case string:
		return strconv.ParseFloat(n, 64)
	case float64:
		return n, nil
	}
	return 0, fmt.Errorf("unexpected kline field type %T", v)
}

// intervalInfo maps a requested interval onto the Binance interval name and
// its duration. Anything unrecognized falls back to 1h.
func intervalInfo(interval string) (string, int64) {
	if interval == "15m" {
		return "15m", 15 * time.Minute.Milliseconds()
	}
	return "1h", time.Hour.Milliseconds()
}
