// Package game holds the live session state machine for one battleships
// game and the rules that gate client intents against it.
package game

// Ruleset selects the board geometry and fleet the rules engine validates
// against. The session service never interprets it beyond routing.
type Ruleset string

const (
	// RulesetClassic is the standard 10x10 fleet.
	RulesetClassic Ruleset = "CLASSIC"
	// RulesetPolish forbids adjacent ships.
	RulesetPolish Ruleset = "POLISH"
)

// IsValid reports whether the ruleset is one the engine understands.
func (r Ruleset) IsValid() bool {
	switch r {
	case RulesetClassic, RulesetPolish:
		return true
	}
	return false
}

// AIType selects the engine strategy for the non-human side.
type AIType string

const (
	// AINone marks a two-human game.
	AINone AIType = "NONE"
	// AIRandom shoots uniformly at untouched cells.
	AIRandom AIType = "RANDOM"
	// AIGreedy hunts around confirmed hits.
	AIGreedy AIType = "GREEDY"
)

// Phase distinguishes the two requests the session can make of the AI.
type Phase string

const (
	// PhaseMove asks the AI for its next shot.
	PhaseMove Phase = "Move"
	// PhasePlacement asks the AI for a fleet layout.
	PhasePlacement Phase = "Placement"
)

// MoveResult is the engine's scoring of an accepted shot.
type MoveResult string

const (
	// ResultMiss hit open water.
	ResultMiss MoveResult = "Miss"
	// ResultHit struck a ship that is still afloat.
	ResultHit MoveResult = "Hit"
	// ResultSunk finished off a ship.
	ResultSunk MoveResult = "Sunk"
)
