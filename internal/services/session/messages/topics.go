// Package messages defines the wire contracts between the session service
// and its collaborators: the upstream game authority, the rules engine,
// the AI engine, live subscribers, and the persistence consumer.
package messages

import "github.com/louisbranch/broadside/internal/bus"

// Exchanges this service publishes to or consumes from.
const (
	// TopicState carries snapshots from the upstream game authority.
	TopicState bus.Topic = "battleships.state.topic"
	// TopicMoves carries intents from this service to the rules/AI engine.
	TopicMoves bus.Topic = "battleships.moves.topic"
	// TopicEngine carries engine verdicts and AI decisions back.
	TopicEngine bus.Topic = "battleships.engine.topic"
	// TopicUpdates carries durable state deltas to the persistence consumer.
	TopicUpdates bus.Topic = "battleships.updates.topic"
	// TopicGames carries session reload requests to the upstream authority.
	TopicGames bus.Topic = "battleships.games.topic"
	// TopicLive carries per-game views for connected subscribers.
	TopicLive bus.Topic = "battleships.live"
)

// Routing keys.
const (
	KeyState = "state"

	KeyMove      = "move"
	KeyPlacement = "placement"
	KeyAI        = "ai"

	KeyMoveVerdict      = "validation.move"
	KeyPlacementVerdict = "validation.placement"
	KeyAIMove           = "ai.move"
	KeyAIPlacement      = "ai.placement"

	KeyUpdate = "update"
	KeyGet    = "get"
)

// LiveGameKey routes move results for one game.
func LiveGameKey(gameID string) string { return "game." + gameID }

// LiveBoardKey routes board views for one game.
func LiveBoardKey(gameID string) string { return "board." + gameID }

// LivePlacementKey routes placement results for one game.
func LivePlacementKey(gameID string) string { return "placement." + gameID }
