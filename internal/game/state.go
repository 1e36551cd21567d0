package game

// State is the session state of a game.
type State int

const (
	StateStart State = iota
	StatePlaying
	StateLevelWin
	StateGameOver
	StateGameWin
)

func (s State) String() string {
	switch s {
	case StateStart:
		return "start"
	case StatePlaying:
		return "playing"
	case StateLevelWin:
		return "level win"
	case StateGameOver:
		return "game over"
	case StateGameWin:
		return "game win"
	default:
		return "unknown"
	}
}

// Finished reports whether the state ends a level.
func (s State) Finished() bool {
	return s == StateLevelWin || s == StateGameOver || s == StateGameWin
}

// Turn tells whose action is authoritative within a level.
type Turn int

const (
	TurnPlayer Turn = iota
	TurnAI
	TurnAnimating // an arrow is in flight
)

func (t Turn) String() string {
	switch t {
	case TurnPlayer:
		return "player"
	case TurnAI:
		return "ai"
	case TurnAnimating:
		return "animating"
	default:
		return "unknown"
	}
}
