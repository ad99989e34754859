package messages

import (
	"time"

	"github.com/louisbranch/broadside/internal/services/session/domain/game"
)

// StateEvent is a full-state snapshot (re)materializing a game's live
// session. The upstream authority publishes one whenever a game is
// created, resumed, or explicitly requested via GameEvent.
type StateEvent struct {
	ID        string       `json:"id"`
	Username1 string       `json:"username1"`
	Username2 string       `json:"username2,omitempty"`
	AI        bool         `json:"isOpponentAI"`
	Ruleset   game.Ruleset `json:"ruleset"`
	AIType    game.AIType  `json:"aiType"`

	FirstPlayerStarts bool `json:"firstPlayerStarts"`
	FirstPlayerTurn   bool `json:"firstPlayerTurn"`

	UserBoardState     string `json:"userBoardState"`
	OpponentBoardState string `json:"opponentBoardState"`
	UserShips          string `json:"userShips"`
	OpponentShips      string `json:"opponentShips"`

	Finished     bool   `json:"finished"`
	Error        bool   `json:"error"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}

// MoveEvent asks the rules engine to score one shot against the target
// side's fleet.
type MoveEvent struct {
	GameID      string       `json:"gameId"`
	Row         int          `json:"row"`
	Column      int          `json:"column"`
	BoardState  string       `json:"boardState"`
	TargetShips string       `json:"targetShips"`
	Ruleset     game.Ruleset `json:"ruleset"`
}

// EngineMoveEvent is the engine's verdict for a previously submitted move.
type EngineMoveEvent struct {
	GameID   string          `json:"gameId"`
	Row      int             `json:"row"`
	Column   int             `json:"column"`
	Legal    bool            `json:"legal"`
	Finished bool            `json:"finished"`
	Result   game.MoveResult `json:"result"`
	NewState string          `json:"newState"`
	// Malformed marks a verdict the engine could not derive from the
	// request payload; such verdicts carry no usable state.
	Malformed bool `json:"malformed,omitempty"`
}

// PlacementEvent asks the rules engine to validate a submitted fleet.
type PlacementEvent struct {
	GameID               string       `json:"gameId"`
	FirstPlayerSubmitted bool         `json:"firstPlayerSubmitted"`
	ShipsJSON            string       `json:"shipsJson"`
	Ruleset              game.Ruleset `json:"ruleset"`
}

// EnginePlacementEvent is the engine's verdict for a submitted fleet.
type EnginePlacementEvent struct {
	GameID      string `json:"gameId"`
	FirstPlayer bool   `json:"firstPlayer"`
	ShipsJSON   string `json:"shipsJson"`
	Legal       bool   `json:"legal"`
}

// AIEvent asks the AI engine to act for the non-human side.
type AIEvent struct {
	GameID     string       `json:"gameId"`
	BoardState string       `json:"boardState"`
	Ruleset    game.Ruleset `json:"ruleset"`
	AIType     game.AIType  `json:"aiType"`
	Phase      game.Phase   `json:"phase"`
	// RemainingShipSizes lists target fleet segments still afloat; only
	// meaningful for move requests in a started game.
	RemainingShipSizes []int `json:"remainingShipSizes,omitempty"`
}

// EngineAIMoveEvent is the AI's chosen shot, forwarded to the rules
// engine like any player move.
type EngineAIMoveEvent struct {
	GameID string `json:"gameId"`
	Row    int    `json:"row"`
	Column int    `json:"column"`
}

// EngineAIPlacementEvent is the AI's fleet layout, forwarded as a
// placement intent for the AI side.
type EngineAIPlacementEvent struct {
	GameID    string `json:"gameId"`
	ShipsJSON string `json:"shipsJson"`
}

// UpdateEvent is the durable state delta consumed by the persistence
// collaborator after every accepted verdict.
type UpdateEvent struct {
	GameID string `json:"gameId"`

	Finished bool `json:"finished"`
	Won      bool `json:"won"`
	Lost     bool `json:"lost"`
	Drawn    bool `json:"drawn"`

	UserBoardState     string `json:"userBoardState"`
	OpponentBoardState string `json:"opponentBoardState"`
	UserShips          string `json:"userShips"`
	OpponentShips      string `json:"opponentShips"`

	UserTurn  bool      `json:"userTurn"`
	Timestamp time.Time `json:"timestamp"`

	LastMoveX *int `json:"lastMoveX,omitempty"`
	LastMoveY *int `json:"lastMoveY,omitempty"`
}

// GameEvent asks the upstream authority to republish a game's snapshot.
type GameEvent struct {
	GameID string `json:"gameId"`
}
