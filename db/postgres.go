package db

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"echoGameServer/config"
	"echoGameServer/game"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// PostgresPool is the global PostgreSQL connection pool
	PostgresPool *pgxpool.Pool
)

// InitPostgres initializes the PostgreSQL connection pool
func InitPostgres() error {
	log.Println("🔌 Connecting to PostgreSQL...")

	// Get DATABASE_URL from environment
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return fmt.Errorf("failed to parse database URL: %w", err)
	}

	// Configure pool settings
	poolConfig.MaxConns = config.MaxOpenConns
	poolConfig.MinConns = config.MaxIdleConns
	poolConfig.MaxConnLifetime = config.ConnMaxLifetime

	PostgresPool, err = pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Test connection
	if err := PostgresPool.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("✅ PostgreSQL connected successfully")

	// Initialize schema
	if err := InitSchema(context.Background()); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	return nil
}

// ClosePostgres closes the PostgreSQL connection pool
func ClosePostgres() {
	if PostgresPool != nil {
		log.Println("🔌 Closing PostgreSQL connection...")
		PostgresPool.Close()
	}
}

// InitSchema creates the database tables if they don't exist
func InitSchema(ctx context.Context) error {
	log.Println("📋 Initializing database schema...")

	// Predictions are written by the upstream model pipeline; the game only
	// reads them, but the table is created here so local setups work.
	predictionsSchema := `
	CREATE TABLE IF NOT EXISTS predictions (
		id SERIAL PRIMARY KEY,
		prediction_time TIMESTAMPTZ NOT NULL,
		time_window TEXT,
		next_time_window TEXT,
		next_open_price_change DOUBLE PRECISION NOT NULL,
		direction TEXT,
		direction_strength DOUBLE PRECISION NOT NULL DEFAULT 0,
		total_strength DOUBLE PRECISION NOT NULL DEFAULT 0,
		additional_info JSONB
	);

	CREATE INDEX IF NOT EXISTS idx_predictions_time ON predictions(prediction_time DESC);
	`

	if _, err := PostgresPool.Exec(ctx, predictionsSchema); err != nil {
		return fmt.Errorf("failed to create predictions table: %w", err)
	}

	// Create game_sessions table
	sessionsSchema := `
	CREATE TABLE IF NOT EXISTS game_sessions (
		session_id TEXT PRIMARY KEY,
		user_score INT NOT NULL,
		echo_score INT NOT NULL,
		rounds_played INT NOT NULL,
		finished_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_game_sessions_finished_at ON game_sessions(finished_at DESC);
	`

	if _, err := PostgresPool.Exec(ctx, sessionsSchema); err != nil {
		return fmt.Errorf("failed to create game_sessions table: %w", err)
	}

	log.Println("✅ Database schema initialized")
	return nil
}

/* =========================
   PREDICTIONS
========================= */

// CountPredictions returns the number of stored predictions.
func CountPredictions(ctx context.Context) (int64, error) {
	if PostgresPool == nil {
		return 0, nil
	}

	var count int64
	if err := PostgresPool.QueryRow(ctx, `SELECT COUNT(*) FROM predictions`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count predictions: %w", err)
	}

	return count, nil
}

// GetRandomPrediction samples one prediction row at a random offset.
// Returns nil when the table is empty.
func GetRandomPrediction(ctx context.Context) (*game.Prediction, error) {
	if PostgresPool == nil {
		return nil, nil
	}

	count, err := CountPredictions(ctx)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, nil
	}

	offset := rand.Int63n(count)

	query := `
		SELECT prediction_time, time_window, next_time_window,
		       next_open_price_change, direction, direction_strength,
		       total_strength, additional_info
		FROM predictions
		ORDER BY id
		OFFSET $1 LIMIT 1
	`

	var (
		pred           game.Prediction
		timeWindow     *string
		nextTimeWindow *string
		direction      *string
		additionalInfo []byte
	)

	err = PostgresPool.QueryRow(ctx, query, offset).Scan(
		&pred.PredictionTime,
		&timeWindow,
		&nextTimeWindow,
		&pred.NextOpenPriceChange,
		&direction,
		&pred.DirectionStrength,
		&pred.TotalStrength,
		&additionalInfo,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get random prediction: %w", err)
	}

	if timeWindow != nil {
		pred.TimeWindow = *timeWindow
	}
	if nextTimeWindow != nil {
		pred.NextTimeWindow = *nextTimeWindow
	}
	if direction != nil {
		pred.Direction = *direction
	}
	if len(additionalInfo) > 0 {
		if err := json.Unmarshal(additionalInfo, &pred.AdditionalInfo); err != nil {
			// A malformed payload degrades to "no additional info" rather
			// than failing the round
			log.Printf("⚠️  Failed to unmarshal additional_info: %v", err)
			pred.AdditionalInfo = nil
		}
	}

	return &pred, nil
}

/* =========================
   GAME SESSIONS
========================= */

// SessionResultRecord captures the final score of a completed game session
type SessionResultRecord struct {
	SessionID    string    `json:"sessionId"`
	UserScore    int       `json:"userScore"`
	EchoScore    int       `json:"echoScore"`
	RoundsPlayed int       `json:"roundsPlayed"`
	FinishedAt   time.Time `json:"finishedAt"`
}

// StoreSessionResult persists a finished game's scores
func StoreSessionResult(ctx context.Context, record *SessionResultRecord) error {
	if PostgresPool == nil {
		log.Println("⚠️  PostgreSQL not initialized, skipping session result storage")
		return nil
	}

	query := `
		INSERT INTO game_sessions
		(session_id, user_score, echo_score, rounds_played, finished_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (session_id) DO NOTHING
	`

	_, err := PostgresPool.Exec(
		ctx,
		query,
		record.SessionID,
		record.UserScore,
		record.EchoScore,
		record.RoundsPlayed,
		record.FinishedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to store session result: %w", err)
	}

	log.Printf("✅ Stored session result - Session: %s, User: %d, Echo: %d",
		record.SessionID, record.UserScore, record.EchoScore)
	return nil
}

/* =========================
   HEALTH CHECK
========================= */

// HealthCheckPostgres performs a PostgreSQL health check
func HealthCheckPostgres(ctx context.Context) error {
	if PostgresPool == nil {
		return fmt.Errorf("PostgreSQL connection pool not initialized")
	}
	return PostgresPool.Ping(ctx)
}
