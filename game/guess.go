package game

import (
	"time"

	"echoGameServer/config"
)

/* =========================
   ECHO GUESS TYPES
========================= */

// EchoGuess is a normalized numeric prediction extracted from a stored
// prediction record: either a single point value or a [min,max] band.
type EchoGuess struct {
	PointGuess *float64 `json:"pointGuess,omitempty"`
	BandMin    *float64 `json:"bandMin,omitempty"`
	BandMax    *float64 `json:"bandMax,omitempty"`
}

// IsBand reports whether the guess is a band rather than a point value.
func (g *EchoGuess) IsBand() bool {
	return g != nil && g.BandMin != nil && g.BandMax != nil
}

func pointGuess(v float64) *EchoGuess {
	return &EchoGuess{PointGuess: &v}
}

func bandGuess(min, max float64) *EchoGuess {
	return &EchoGuess{BandMin: &min, BandMax: &max}
}

/* =========================
   EXTRACTION
========================= */

// guessParser is one attempt at reading a guess out of additional_info.
// A nil result means "this shape is not present"; parsers never error.
type guessParser func(info map[string]interface{}) *EchoGuess

// Ordered by priority: the first parser to produce a guess wins, so a
// payload carrying both a direct prediction and a band yields the point.
var guessParsers = []guessParser{
	parseNextClosePred,
	parseNestedPrediction,
	parseCloseBand,
	parseClosePrediction,
	parseRawPrediction,
}

// ExtractEchoGuess pulls a numeric prediction out of a loosely-shaped
// additional_info payload. Partially malformed or unknown shapes degrade to
// nil ("no guess"), never to an error.
func ExtractEchoGuess(info map[string]interface{}) *EchoGuess {
	if info == nil {
		return nil
	}
	for _, parse := range guessParsers {
		if guess := parse(info); guess != nil {
			return guess
		}
	}
	return nil
}

// parseNextClosePred reads { next_close_pred: <price> }.
func parseNextClosePred(info map[string]interface{}) *EchoGuess {
	if v, ok := asNumber(info["next_close_pred"]); ok && v > 0 {
		return pointGuess(v)
	}
	return nil
}

// parseNestedPrediction reads { prediction: { close: <price> } }.
func parseNestedPrediction(info map[string]interface{}) *EchoGuess {
	nested, ok := info["prediction"].(map[string]interface{})
	if !ok {
		return nil
	}
	if v, ok := asNumber(nested["close"]); ok && v > 0 {
		return pointGuess(v)
	}
	return nil
}

// parseCloseBand reads { next_close_band: { min: <price>, max: <price> } }.
func parseCloseBand(info map[string]interface{}) *EchoGuess {
	band, ok := info["next_close_band"].(map[string]interface{})
	if !ok {
		return nil
	}
	min, okMin := asNumber(band["min"])
	max, okMax := asNumber(band["max"])
	if okMin && okMax && min > 0 && max > min {
		return bandGuess(min, max)
	}
	return nil
}

// parseClosePrediction reads the alternate { close_prediction: <price> }.
func parseClosePrediction(info map[string]interface{}) *EchoGuess {
	if v, ok := asNumber(info["close_prediction"]); ok && v > 0 {
		return pointGuess(v)
	}
	return nil
}

// parseRawPrediction reads { raw_prediction: [<pct change>, ...] } and turns
// the leading percent change into an estimated close against a fixed BTC
// reference price. Estimates outside the plausible range are discarded.
func parseRawPrediction(info map[string]interface{}) *EchoGuess {
	raw, ok := info["raw_prediction"].([]interface{})
	if !ok || len(raw) < 1 {
		return nil
	}
	change, ok := asNumber(raw[0])
	if !ok {
		return nil
	}

	estimated := config.RawPredictionBasePrice * (1 + change/100)
	if estimated > config.MinBTCPrice && estimated < config.MaxBTCPrice {
		return pointGuess(estimated)
	}
	return nil
}

// asNumber accepts the numeric shapes a decoded JSON payload can carry.
func asNumber(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

/* =========================
   VALIDATION / REDUCTION
========================= */

// ValidateEchoGuess reports whether a guess is plausible for BTC. Invalid
// guesses are rejected outright, never clamped into range.
func ValidateEchoGuess(guess *EchoGuess) bool {
	if guess == nil {
		return false
	}

	if guess.PointGuess != nil {
		return *guess.PointGuess >= config.MinBTCPrice && *guess.PointGuess <= config.MaxBTCPrice
	}

	if guess.BandMin != nil && guess.BandMax != nil {
		return *guess.BandMin >= config.MinBTCPrice &&
			*guess.BandMax <= config.MaxBTCPrice &&
			*guess.BandMin < *guess.BandMax
	}

	return false
}

// NumericEchoGuess reduces a guess to a single comparable value: points are
// returned as-is, bands as their midpoint. Nil means no value; the caller
// decides what abstention means, it is never scored as zero.
func NumericEchoGuess(guess *EchoGuess) *float64 {
	if guess == nil {
		return nil
	}

	if guess.PointGuess != nil {
		return guess.PointGuess
	}

	if guess.BandMin != nil && guess.BandMax != nil {
		mid := (*guess.BandMin + *guess.BandMax) / 2
		return &mid
	}

	return nil
}

// ResolveEchoGuess reduces a prediction to the single close estimate shown
// to the player: the extracted guess when one validates, otherwise the
// deterministic fallback against currentClose. Nil means no estimate.
func ResolveEchoGuess(p *Prediction, currentClose float64) *float64 {
	guess := ExtractEchoGuess(p.AdditionalInfo)
	if !ValidateEchoGuess(guess) {
		guess = nil
	}
	if v := NumericEchoGuess(guess); v != nil {
		return v
	}
	return ComputeFallbackEchoGuess(p.PredictionTime, p.NextOpenPriceChange, p.TotalStrength, currentClose)
}

/* =========================
   FALLBACK ESTIMATE
========================= */

// ComputeFallbackEchoGuess derives a deterministic close estimate when no
// direct guess is extractable: the predicted percent change damped by
// confidence (total_strength, capped at 100%), plus ±0.5% of jitter keyed
// off the prediction timestamp. The jitter is modulo math for variety only,
// not randomness. Returns nil when the reference close is not positive.
func ComputeFallbackEchoGuess(predictionTime time.Time, priceChangePct, totalStrength, currentClose float64) *float64 {
	if currentClose <= 0 {
		return nil
	}

	changePct := priceChangePct / 100
	strengthMultiplier := totalStrength / 100
	if strengthMultiplier > 1 {
		strengthMultiplier = 1
	}

	estimatedClose := currentClose * (1 + changePct*strengthMultiplier)

	timeHash := predictionTime.UnixMilli() % 1000
	noiseFactor := (float64(timeHash)/1000 - 0.5) * 0.01

	result := estimatedClose * (1 + noiseFactor)
	return &result
}
