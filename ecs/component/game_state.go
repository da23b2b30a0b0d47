package component

// GameState is the per-session aggregate owned by the session state machine.
type GameState struct {
	Score      int
	GameOver   bool
	Generation uint64
}

var GameStateComponent = NewComponent[GameState]()
