package game

import "echoGameServer/config"

/* =========================
   PHASES
========================= */

// Phase is one stage of a game round.
type Phase string

const (
	PhaseLoading    Phase = "loading"
	PhasePrediction Phase = "prediction"
	PhaseWaiting    Phase = "waiting"
	PhaseResult     Phase = "result"
	PhaseFinal      Phase = "final"
)

/* =========================
   STATE
========================= */

// RoundResult captures how one round resolved for both players.
type RoundResult struct {
	UserChoice      Direction `json:"userChoice"`
	EchoChoice      Direction `json:"echoChoice"`
	ActualDirection Direction `json:"actualDirection"`
	ActualChange    float64   `json:"actualChange"`
	UserWins        bool      `json:"userWins"`
	EchoWins        bool      `json:"echoWins"`
}

// State is the complete game state. It is a value: every transition goes
// through Reduce, which returns a new State and never mutates its input.
type State struct {
	Phase      Phase        `json:"phase"`
	Round      int          `json:"round"` // 1..TotalRounds
	UserScore  int          `json:"userScore"`
	EchoScore  int          `json:"echoScore"`
	Prediction *Prediction  `json:"prediction,omitempty"`
	UserChoice Direction    `json:"userChoice,omitempty"`
	Result     *RoundResult `json:"result,omitempty"`
}

// NewState returns the initial state of a fresh game.
func NewState() State {
	return State{
		Phase: PhaseLoading,
		Round: 1,
	}
}

/* =========================
   EVENTS
========================= */

// Event is something that happened to the game: a fetch completing, the
// player acting, or an explicit reset.
type Event interface {
	isEvent()
}

// PredictionLoaded carries a freshly fetched prediction record.
type PredictionLoaded struct {
	Prediction *Prediction
}

// GuessSubmitted carries the player's directional choice.
type GuessSubmitted struct {
	Choice Direction
}

// MovementArrived carries the realized market movement after settlement.
type MovementArrived struct {
	ActualDirection Direction
	ActualChange    float64
}

// ContinueGame advances past a shown result.
type ContinueGame struct{}

// ResetGame starts the game over.
type ResetGame struct{}

func (PredictionLoaded) isEvent() {}
func (GuessSubmitted) isEvent()   {}
func (MovementArrived) isEvent()  {}
func (ContinueGame) isEvent()     {}
func (ResetGame) isEvent()        {}

/* =========================
   REDUCER
========================= */

// Reduce applies an event to a state and returns the next state. Events that
// do not fit the current phase leave the state unchanged: a second guess
// while settling is ignored rather than queued, and a movement result
// arriving after a reset is discarded.
func Reduce(s State, ev Event) State {
	switch e := ev.(type) {
	case PredictionLoaded:
		if s.Phase != PhaseLoading {
			return s
		}
		s.Phase = PhasePrediction
		s.Prediction = e.Prediction
		s.UserChoice = ""
		s.Result = nil
		return s

	case GuessSubmitted:
		if s.Phase != PhasePrediction {
			return s
		}
		s.Phase = PhaseWaiting
		s.UserChoice = e.Choice
		return s

	case MovementArrived:
		if s.Phase != PhaseWaiting || s.Prediction == nil {
			return s
		}
		result := ScoreRound(s.UserChoice, s.Prediction.EchoChoice(), e.ActualDirection, e.ActualChange)
		s.Phase = PhaseResult
		s.Result = &result
		if result.UserWins {
			s.UserScore++
		}
		if result.EchoWins {
			s.EchoScore++
		}
		return s

	case ContinueGame:
		if s.Phase != PhaseResult {
			return s
		}
		if s.Round >= config.TotalRounds {
			s.Phase = PhaseFinal
			return s
		}
		s.Phase = PhaseLoading
		s.Round++
		s.Prediction = nil
		s.UserChoice = ""
		s.Result = nil
		return s

	case ResetGame:
		return NewState()
	}

	return s
}

/* =========================
   SCORING
========================= */

// ScoreRound compares both players' choices against the realized movement.
// The win flags are independent: both, either, or neither can be true.
func ScoreRound(userChoice, echoChoice, actual Direction, actualChange float64) RoundResult {
	return RoundResult{
		UserChoice:      userChoice,
		EchoChoice:      echoChoice,
		ActualDirection: actual,
		ActualChange:    actualChange,
		UserWins:        userChoice == actual,
		EchoWins:        echoChoice == actual,
	}
}
