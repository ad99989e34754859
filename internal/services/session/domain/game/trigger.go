package game

// Action is the AI trigger's decision after a state transition.
type Action int

const (
	// ActionNone - the AI has nothing to do.
	ActionNone Action = iota
	// ActionMove - the game is running and the AI holds the turn.
	ActionMove
	// ActionPlacement - the AI side still has to place its fleet.
	ActionPlacement
)

// NextAIAction decides whether the non-human side must act on the given
// snapshot. Pure; the caller performs the actual publish.
func NextAIAction(s *State) Action {
	if s.Finished || !s.OpponentAI {
		return ActionNone
	}
	if s.Started() {
		if s.AITurn() {
			return ActionMove
		}
		return ActionNone
	}
	if s.OpponentShips == ShipsUnplaced {
		return ActionPlacement
	}
	return ActionNone
}
