package db

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/joho/godotenv"
)

func TestNilPoolDegradation(t *testing.T) {
	if PostgresPool != nil {
		t.Skip("pool initialized by another test, nil-pool behavior not observable")
	}

	ctx := context.Background()

	t.Run("count", func(t *testing.T) {
		count, err := CountPredictions(ctx)
		if err != nil || count != 0 {
			t.Errorf("CountPredictions = %d, %v; expected 0, nil", count, err)
		}
	})

	t.Run("random prediction", func(t *testing.T) {
		pred, err := GetRandomPrediction(ctx)
		if err != nil || pred != nil {
			t.Errorf("GetRandomPrediction = %v, %v; expected nil, nil", pred, err)
		}
	})

	t.Run("store session", func(t *testing.T) {
		err := StoreSessionResult(ctx, &SessionResultRecord{
			SessionID:    "test-session",
			UserScore:    3,
			EchoScore:    2,
			RoundsPlayed: 5,
			FinishedAt:   time.Now(),
		})
		if err != nil {
			t.Errorf("StoreSessionResult without a pool must be a no-op, got %v", err)
		}
	})

	t.Run("health", func(t *testing.T) {
		if err := HealthCheckPostgres(ctx); err == nil {
			t.Error("expected a health error without a pool")
		}
	})
}

func TestNilRedisDegradation(t *testing.T) {
	if RedisClient != nil {
		t.Skip("redis initialized, nil-client behavior not observable")
	}

	ctx := context.Background()

	CacheKlines(ctx, "klines:test", []byte(`[]`)) // must not panic

	data, err := GetCachedKlines(ctx, "klines:test")
	if err != nil || data != nil {
		t.Errorf("GetCachedKlines = %v, %v; expected nil, nil", data, err)
	}

	if err := HealthCheck(ctx); err == nil {
		t.Error("expected a health error without a client")
	}
}

func TestPredictionStore(t *testing.T) {
	// Load environment variables from .env file
	if err := godotenv.Load("../.env"); err != nil {
		t.Log("No .env file found, using existing environment")
	}

	if os.Getenv("DATABASE_URL") == "" {
		t.Skip("DATABASE_URL not set, skipping database tests")
	}

	if err := InitPostgres(); err != nil {
		t.Fatalf("Failed to initialize PostgreSQL: %v", err)
	}
	defer ClosePostgres()

	ctx := context.Background()

	t.Run("Count", func(t *testing.T) {
		count, err := CountPredictions(ctx)
		if err != nil {
			t.Fatalf("CountPredictions failed: %v", err)
		}
		t.Logf("Predictions in store: %d", count)
	})

	t.Run("RandomSample", func(t *testing.T) {
		count, err := CountPredictions(ctx)
		if err != nil {
			t.Fatalf("CountPredictions failed: %v", err)
		}
		if count == 0 {
			t.Skip("No predictions seeded, skipping sample test")
		}

		pred, err := GetRandomPrediction(ctx)
		if err != nil {
			t.Fatalf("GetRandomPrediction failed: %v", err)
		}
		if pred == nil {
			t.Fatal("Expected a prediction from a non-empty store")
		}
		if pred.PredictionTime.IsZero() {
			t.Error("Sampled prediction has a zero timestamp")
		}
	})

	t.Run("SessionRoundTrip", func(t *testing.T) {
		record := &SessionResultRecord{
			SessionID:    "test-" + time.Now().Format("20060102150405.000"),
			UserScore:    4,
			EchoScore:    1,
			RoundsPlayed: 5,
			FinishedAt:   time.Now(),
		}

		if err := StoreSessionResult(ctx, record); err != nil {
			t.Fatalf("StoreSessionResult failed: %v", err)
		}

		// Idempotent on conflict
		if err := StoreSessionResult(ctx, record); err != nil {
			t.Fatalf("Duplicate StoreSessionResult failed: %v", err)
		}

		if _, err := PostgresPool.Exec(ctx,
			`DELETE FROM game_sessions WHERE session_id = $1`, record.SessionID); err != nil {
			t.Logf("Cleanup failed: %v", err)
		}
	})
}
