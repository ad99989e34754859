package game

// State is the live session for one game id. It is owned by the session
// store entry for that id and mutated only through the coordinator's
// verdict-application paths.
//
// Board strings hold each side's own fleet as seen by the opponent:
// UserBoard is the first player's fleet under fire from the second,
// OpponentBoard the reverse. Ship lists are engine wire JSON with
// ShipsUnplaced meaning "not submitted yet".
type State struct {
	ID string

	Username1  string
	Username2  string // empty when the opponent is AI
	OpponentAI bool
	AIType     AIType
	Ruleset    Ruleset

	UserBoard     string
	OpponentBoard string
	UserShips     string
	OpponentShips string

	FirstPlayerStarts bool
	FirstPlayerTurn   bool

	// Blocked gates the move path: set when an intent is forwarded to the
	// rules engine, cleared when its verdict is applied or rejected.
	Blocked bool

	Finished bool
	Won      bool
	Lost     bool
	Drawn    bool
}

// PlayerInGame reports whether username controls one of the two sides.
// The AI side cannot be claimed by a client.
func (s *State) PlayerInGame(username string) bool {
	if username == s.Username1 {
		return true
	}
	return !s.OpponentAI && username == s.Username2
}

// Started reports whether both sides have placed their fleets.
func (s *State) Started() bool {
	return s.UserShips != ShipsUnplaced && s.OpponentShips != ShipsUnplaced
}

// SecondPlayerTurn reports whether the second side holds the turn.
func (s *State) SecondPlayerTurn() bool {
	return !s.FirstPlayerTurn
}

// PlayerTurn reports whether it is username's turn to move.
func (s *State) PlayerTurn(username string) bool {
	if username == s.Username1 {
		return s.FirstPlayerTurn
	}
	return username == s.Username2 && s.SecondPlayerTurn()
}

// NextPlayer hands the turn to the other side.
func (s *State) NextPlayer() {
	s.FirstPlayerTurn = !s.FirstPlayerTurn
}

// CurrentPlayer is the username of the turn-holder; empty for the AI side.
func (s *State) CurrentPlayer() string {
	if s.FirstPlayerTurn {
		return s.Username1
	}
	return s.Username2
}

// TargetBoard is the board the current turn-holder is shooting at: the
// fleet of the side not on turn.
func (s *State) TargetBoard() string {
	if s.FirstPlayerTurn {
		return s.OpponentBoard
	}
	return s.UserBoard
}

// TargetShips is the ship list the current move is scored against.
func (s *State) TargetShips() string {
	if s.FirstPlayerTurn {
		return s.OpponentShips
	}
	return s.UserShips
}

// ApplyVerdictBoard overwrites the board the accepted move was scored
// against - always the side not holding the turn.
func (s *State) ApplyVerdictBoard(newState string) {
	if s.FirstPlayerTurn {
		s.OpponentBoard = newState
	} else {
		s.UserBoard = newState
	}
}

// AITurn reports whether the AI side holds the turn.
func (s *State) AITurn() bool {
	return s.OpponentAI && s.SecondPlayerTurn()
}

// Finish marks the game over, crediting the side that held the turn when
// the winning verdict arrived. Exactly one of Won/Lost is set.
func (s *State) Finish() {
	s.Finished = true
	if s.FirstPlayerTurn {
		s.Won = true
	} else {
		s.Lost = true
	}
}

// Winner returns the winning player's name once the first player has won.
// The AI side is reported as "AI".
func (s *State) Winner() (string, bool) {
	if !s.Won {
		return "", false
	}
	winner := s.CurrentPlayer()
	if winner == "" {
		winner = "AI"
	}
	return winner, true
}
