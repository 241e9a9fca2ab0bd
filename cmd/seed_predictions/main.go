package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"echoGameServer/db"

	"github.com/joho/godotenv"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env not found")
	}

	if os.Getenv("DATABASE_URL") == "" {
		log.Fatal("DATABASE_URL not set")
	}

	// Init postgres
	if err := db.InitPostgres(); err != nil {
		log.Fatalf("Failed to init postgres: %v", err)
	}
	defer db.ClosePostgres()

	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Hour)

	// Synthetic predictions covering every payload shape the extractor knows
	testPredictions := []struct {
		hoursAgo       int
		change         float64
		direction      string
		dirStrength    float64
		totalStrength  float64
		additionalInfo string
	}{
		{48, 1.25, "BULLISH", 62.0, 71.5, `{"next_close_pred": 66100.5}`},
		{47, -0.80, "bearish", 55.0, 64.0, `{"prediction": {"close": 64200.0}}`},
		{46, 0.40, "RISE", 48.5, 52.0, `{"next_close_band": {"min": 64800, "max": 66400}}`},
		{45, -1.60, "FALL", 70.0, 88.0, `{"close_prediction": 63950.25}`},
		{44, 0.95, "increase", 44.0, 49.5, `{"raw_prediction": [0.95, 0.4, -0.1]}`},
		{43, -0.35, "sideways-ish", 30.0, 35.0, `{}`},
		{42, 2.10, "UP", 80.0, 95.0, ""},
		{41, -2.45, "DECREASE", 77.0, 90.0, `{"next_close_pred": -12}`},
	}

	fmt.Println("Seeding predictions with test data...")

	for _, p := range testPredictions {
		predTime := now.Add(-time.Duration(p.hoursAgo) * time.Hour)

		var info interface{}
		if p.additionalInfo != "" {
			info = p.additionalInfo
		}

		_, err := db.PostgresPool.Exec(ctx, `
			INSERT INTO predictions
			(prediction_time, time_window, next_time_window, next_open_price_change,
			 direction, direction_strength, total_strength, additional_info)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			predTime,
			predTime.Format("2006-01-02 15:04"),
			predTime.Add(time.Hour).Format("2006-01-02 15:04"),
			p.change,
			p.direction,
			p.dirStrength,
			p.totalStrength,
			info,
		)
		if err != nil {
			log.Printf("Failed to insert prediction at %s: %v", predTime, err)
		} else {
			fmt.Printf("  %s  %-12s %+.2f%%\n", predTime.Format(time.RFC3339), p.direction, p.change)
		}
	}

	fmt.Println("\nDone! Verifying random sampling...")

	count, err := db.CountPredictions(ctx)
	if err != nil {
		log.Fatalf("Failed to count predictions: %v", err)
	}
	fmt.Printf("\nTotal predictions: %d\n", count)

	pred, err := db.GetRandomPrediction(ctx)
	if err != nil {
		log.Fatalf("Failed to sample prediction: %v", err)
	}
	if pred != nil {
		fmt.Printf("Sampled: %s -> %s (%+.2f%%)\n",
			pred.PredictionTime.Format(time.RFC3339), pred.EchoChoice(), pred.NextOpenPriceChange)
	}
}
