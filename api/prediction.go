package api

import (
	"log"
	"net/http"
	"time"

	"echoGameServer/db"
	"echoGameServer/game"
	"echoGameServer/market"
)

// PredictionResponse is a stored prediction with its direction normalized
// for the client.
type PredictionResponse struct {
	PredictionTime      string                 `json:"prediction_time"`
	NextOpenPriceChange float64                `json:"next_open_price_change"`
	Direction           game.Direction         `json:"direction"`
	DirectionStrength   float64                `json:"direction_strength"`
	TotalStrength       float64                `json:"total_strength"`
	EchoGuess           *float64               `json:"echo_guess,omitempty"`
	AdditionalInfo      map[string]interface{} `json:"additional_info,omitempty"`
}

// HandleGetPrediction handles GET /api/game/prediction
// Returns one prediction sampled at a random offset. An empty store is a
// 404, a store failure a 500 - this endpoint never serves mock data.
func HandleGetPrediction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		sendError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	ctx := r.Context()

	prediction, err := db.GetRandomPrediction(ctx)
	if err != nil {
		log.Printf("❌ Failed to fetch prediction: %v", err)
		sendError(w, http.StatusInternalServerError, "Failed to fetch prediction")
		return
	}
	if prediction == nil {
		sendError(w, http.StatusNotFound, "No predictions found")
		return
	}

	// Echo's numeric close target; the fallback estimate needs the live
	// close as its reference
	quote := market.FetchCurrentPrice(ctx)

	response := PredictionResponse{
		PredictionTime:      prediction.PredictionTime.UTC().Format(time.RFC3339),
		NextOpenPriceChange: prediction.NextOpenPriceChange,
		Direction:           prediction.EchoChoice(),
		DirectionStrength:   prediction.DirectionStrength,
		TotalStrength:       prediction.TotalStrength,
		EchoGuess:           game.ResolveEchoGuess(prediction, quote.Price),
		AdditionalInfo:      prediction.AdditionalInfo,
	}

	writeJSON(w, http.StatusOK, response)

	log.Printf("🔮 Served prediction from %s (%s)", response.PredictionTime, response.Direction)
}
