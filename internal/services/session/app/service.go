// Package app implements the session coordinator: it gates client
// intents against the live session, reconciles rules-engine verdicts,
// relays AI decisions, and fans resulting state out to live subscribers
// and the durable update log.
package app

import (
	"context"

	"github.com/louisbranch/broadside/internal/bus"
	"github.com/louisbranch/broadside/internal/services/session/domain/board"
	"github.com/louisbranch/broadside/internal/services/session/domain/game"
	"github.com/louisbranch/broadside/internal/services/session/fanout"
	"github.com/louisbranch/broadside/internal/services/session/messages"
	"github.com/louisbranch/broadside/internal/services/session/storage"
)

// Rejection reasons sent to the live channel. The strings are part of
// the client contract and must not change.
const (
	reasonNotLoaded  = "Game not loaded, please wait!"
	reasonNotInGame  = "Cannot move!"
	reasonNotStarted = "Game not started, both players must place their ships!"
	reasonFinished   = "Game is finished!"
	reasonNotNow     = "Cannot move now!"
	reasonIllegal    = "Move is illegal!"

	reasonLoading         = "Loading game, please wait..."
	reasonAlreadyFinished = "Game is already finished!"
)

// casRetries bounds in-process retries of a read-modify-write that lost
// a version race before the conflict is surfaced for redelivery.
const casRetries = 3

// Service coordinates one game session per id across the store, the bus,
// and the live fanout.
type Service struct {
	store storage.SessionStore
	bus   bus.Publisher
	views *fanout.Publisher
}

// New creates a session coordinator over the given store and bus.
func New(store storage.SessionStore, b bus.Publisher) *Service {
	return &Service{
		store: store,
		bus:   b,
		views: fanout.NewPublisher(b),
	}
}

// requestReload asks the upstream authority to republish a game snapshot.
func (s *Service) requestReload(ctx context.Context, gameID string) error {
	return s.bus.Publish(ctx, messages.TopicGames, messages.KeyGet, messages.GameEvent{GameID: gameID})
}

// requestAIAction asks the AI engine to act for the non-human side.
// RemainingShipSizes only accompanies move requests for a started game;
// an unparsable ship list degrades to a request without the hint.
func (s *Service) requestAIAction(ctx context.Context, state *game.State, phase game.Phase) error {
	event := messages.AIEvent{
		GameID:     state.ID,
		BoardState: state.TargetBoard(),
		Ruleset:    state.Ruleset,
		AIType:     state.AIType,
		Phase:      phase,
	}
	if phase == game.PhaseMove && state.Started() {
		if ships, err := game.DecodeShips(state.UserShips); err == nil {
			event.RemainingShipSizes = game.RemainingSizes(board.Decode(state.UserBoard), ships)
		}
	}
	return s.bus.Publish(ctx, messages.TopicMoves, messages.KeyAI, event)
}
