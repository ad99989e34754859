package messages

// MoveMessage is the live per-game view of one move's outcome.
type MoveMessage struct {
	Player string `json:"player"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Legal  bool   `json:"legal"`
	Result string `json:"result,omitempty"`

	// Message carries the human-readable rejection reason.
	Message string `json:"message,omitempty"`

	Finished bool   `json:"finished"`
	Won      bool   `json:"won"`
	Winner   string `json:"winner,omitempty"`
}

// AcceptedMove builds the optimistic pending view returned when a move
// passes local validation and is forwarded to the rules engine.
func AcceptedMove(x, y int, player string) MoveMessage {
	return MoveMessage{Player: player, X: x, Y: y, Legal: true}
}

// RejectedMove builds a rejection view with a reason. Rejections never
// escalate; they are the expected answer to an ineligible intent.
func RejectedMove(x, y int, player, reason string) MoveMessage {
	return MoveMessage{Player: player, X: x, Y: y, Message: reason}
}

// GameMessage is the live board view published when a session
// materializes or a subscriber asks for the current state.
type GameMessage struct {
	Username1 string `json:"username1"`
	Username2 string `json:"username2,omitempty"`
	AI        bool   `json:"ai"`

	// Board cells as symbolic values: Empty, Hit, Sunk, Miss.
	State1 [][]string `json:"state1,omitempty"`
	State2 [][]string `json:"state2,omitempty"`

	CurrentPlayer string `json:"currentPlayer,omitempty"`
	GameStarted   bool   `json:"gameStarted"`

	Error string `json:"error,omitempty"`
}

// PlacementMessage is the live per-game view of one placement's outcome.
type PlacementMessage struct {
	Player string `json:"player"`
	Legal  bool   `json:"legal"`
}

// AcceptedPlacement builds the accepted placement view.
func AcceptedPlacement(player string) PlacementMessage {
	return PlacementMessage{Player: player, Legal: true}
}

// RejectedPlacement builds the rejected placement view.
func RejectedPlacement(player string) PlacementMessage {
	return PlacementMessage{Player: player}
}
