package ws

import (
	"context"
	"log"
	"net/http"
	"time"

	"echoGameServer/config"
	"echoGameServer/db"
	"echoGameServer/game"
	"echoGameServer/market"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

/* =========================
   MESSAGE TYPES
========================= */

// ClientMessage is what the mini-app sends over the game socket.
type ClientMessage struct {
	Type   string `json:"type"`   // start | guess | next | reset
	Choice string `json:"choice"` // UP | DOWN, for guess
}

// StateMessage pushes the full game state after a transition.
type StateMessage struct {
	Type  string     `json:"type"` // "state"
	State game.State `json:"state"`
}

// ErrorMessage reports a recoverable session error; the client keeps the
// connection and may retry.
type ErrorMessage struct {
	Type  string `json:"type"` // "error"
	Error string `json:"error"`
}

/* =========================
   GAME SESSION
========================= */

// HandleGameWS handles GET /ws/game
// Runs one game session per connection. The session state is a value owned
// by this goroutine and advanced only through game.Reduce; the read loop is
// the single suspension point, so the settlement delay blocks it and any
// messages arriving meanwhile are handled afterwards, where the reducer
// drops the ones that no longer fit the phase.
func HandleGameWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("❌ Game session upgrade failed:", err)
		return
	}
	defer conn.Close()

	sessionID := uuid.NewString()
	count := addClient()
	log.Printf("🎮 Game session started: %s (total clients: %d)", sessionID, count)
	defer func() {
		log.Printf("👋 Game session ended: %s (total clients: %d)", sessionID, removeClient())
	}()

	state := game.NewState()
	sendState(conn, state)

	for {
		var msg ClientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}

		switch msg.Type {
		case "start":
			state = loadRound(conn, state)

		case "guess":
			choice, ok := game.ParseDirection(msg.Choice)
			if !ok {
				sendSessionError(conn, "choice must be UP or DOWN")
				continue
			}
			state = submitGuess(conn, state, choice)

		case "next":
			state = game.Reduce(state, game.ContinueGame{})
			if state.Phase == game.PhaseFinal {
				persistSession(sessionID, state)
				sendState(conn, state)
				continue
			}
			// Advancing lands back in loading; fetch the next round
			state = loadRound(conn, state)

		case "reset":
			state = game.Reduce(state, game.ResetGame{})
			state = loadRound(conn, state)

		default:
			sendSessionError(conn, "unknown message type: "+msg.Type)
		}
	}
}

// loadRound fetches a prediction for the current round. An empty or failing
// store keeps the session in the loading phase so the client can retry.
func loadRound(conn *websocket.Conn, state game.State) game.State {
	if state.Phase != game.PhaseLoading {
		return state
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.UpstreamTimeout)
	defer cancel()

	prediction, err := db.GetRandomPrediction(ctx)
	if err != nil {
		log.Printf("❌ Failed to fetch prediction for session: %v", err)
		sendSessionError(conn, "Failed to fetch prediction")
		return state
	}
	if prediction == nil {
		sendSessionError(conn, "No predictions found")
		return state
	}

	state = game.Reduce(state, game.PredictionLoaded{Prediction: prediction})
	sendState(conn, state)
	return state
}

// submitGuess locks in the player's choice, waits out the artificial
// settlement delay, then resolves the round against the realized movement.
func submitGuess(conn *websocket.Conn, state game.State, choice game.Direction) game.State {
	next := game.Reduce(state, game.GuessSubmitted{Choice: choice})
	if next.Phase != game.PhaseWaiting {
		// Not in the prediction phase; the guess is ignored, not queued
		return state
	}
	state = next
	sendState(conn, state)

	time.Sleep(config.SettlementDelay)

	ctx, cancel := context.WithTimeout(context.Background(), config.UpstreamTimeout)
	defer cancel()

	anchor := state.Prediction.PredictionTime.UnixMilli()
	summary := market.FetchActualMovement(ctx, anchor, "1h", "forward", 1)

	state = game.Reduce(state, game.MovementArrived{
		ActualDirection: game.Direction(summary.ActualDirection),
		ActualChange:    summary.PriceChange,
	})
	sendState(conn, state)
	return state
}

// persistSession records the final score. Storage trouble is logged and
// swallowed; finishing the game matters more than the analytics row.
func persistSession(sessionID string, state game.State) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	record := &db.SessionResultRecord{
		SessionID:    sessionID,
		UserScore:    state.UserScore,
		EchoScore:    state.EchoScore,
		RoundsPlayed: state.Round,
		FinishedAt:   time.Now(),
	}

	if err := db.StoreSessionResult(ctx, record); err != nil {
		log.Printf("⚠️  Failed to persist session %s: %v", sessionID, err)
	}
}

func sendState(conn *websocket.Conn, state game.State) {
	conn.SetWriteDeadline(time.Now().Add(config.WSWriteDeadline))
	if err := conn.WriteJSON(StateMessage{Type: "state", State: state}); err != nil {
		log.Printf("⚠️  Failed to send game state: %v", err)
	}
}

func sendSessionError(conn *websocket.Conn, message string) {
	conn.SetWriteDeadline(time.Now().Add(config.WSWriteDeadline))
	if err := conn.WriteJSON(ErrorMessage{Type: "error", Error: message}); err != nil {
		log.Printf("⚠️  Failed to send session error: %v", err)
	}
}
