package game

import "time"

// Prediction is one stored machine-generated prediction ("echo") row.
// Created by an upstream pipeline; read-only to the game.
type Prediction struct {
	PredictionTime      time.Time              `json:"prediction_time"`
	TimeWindow          string                 `json:"time_window,omitempty"`
	NextTimeWindow      string                 `json:"next_time_window,omitempty"`
	NextOpenPriceChange float64                `json:"next_open_price_change"`
	Direction           string                 `json:"direction"`
	DirectionStrength   float64                `json:"direction_strength"`
	TotalStrength       float64                `json:"total_strength"`
	AdditionalInfo      map[string]interface{} `json:"additional_info,omitempty"`
}

// EchoChoice resolves the prediction into a canonical direction, using the
// predicted percent change as the fallback for free-form labels.
func (p *Prediction) EchoChoice() Direction {
	change := p.NextOpenPriceChange
	return NormalizeDirection(p.Direction, &change)
}
