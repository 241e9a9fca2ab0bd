package game

import "strings"

// Direction is a canonical price movement: UP or DOWN.
type Direction string

const (
	DirectionUp   Direction = "UP"
	DirectionDown Direction = "DOWN"
)

// NormalizeDirection maps a free-text direction label to UP or DOWN.
// Unrecognized labels fall back to the sign of fallbackChange when one is
// given (>= 0 means UP). With neither a recognizable label nor a fallback
// the result is DOWN; the bias is intentional and load-bearing for echo
// scoring, so do not change it without telling product.
func NormalizeDirection(label string, fallbackChange *float64) Direction {
	switch strings.ToUpper(strings.TrimSpace(label)) {
	case "UP", "RISE", "RISING", "BULL", "BULLISH", "INCREASE":
		return DirectionUp
	case "DOWN", "FALL", "FALLING", "BEAR", "BEARISH", "DECREASE":
		return DirectionDown
	}

	if fallbackChange != nil {
		if *fallbackChange >= 0 {
			return DirectionUp
		}
		return DirectionDown
	}

	return DirectionDown
}

// ParseDirection validates a client-provided choice string.
func ParseDirection(s string) (Direction, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "UP":
		return DirectionUp, true
	case "DOWN":
		return DirectionDown, true
	}
	return "", false
}
