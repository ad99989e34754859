// Package fanout projects internal session state into the two outward
// shapes collaborators consume: live per-game views and durable state
// deltas. No business rules are evaluated here.
package fanout

import (
	"context"
	"time"

	"github.com/louisbranch/broadside/internal/bus"
	"github.com/louisbranch/broadside/internal/services/session/domain/board"
	"github.com/louisbranch/broadside/internal/services/session/domain/game"
	"github.com/louisbranch/broadside/internal/services/session/messages"
)

// BoardView projects a session into the live board view, translating
// both grids from the character encoding into symbolic cells.
func BoardView(s *game.State) messages.GameMessage {
	return messages.GameMessage{
		Username1:     s.Username1,
		Username2:     s.Username2,
		AI:            s.OpponentAI,
		State1:        board.Decode(s.UserBoard).Symbols(),
		State2:        board.Decode(s.OpponentBoard).Symbols(),
		CurrentPlayer: s.CurrentPlayer(),
		GameStarted:   s.Started(),
	}
}

// ErrorView builds a live view carrying only an error message.
func ErrorView(message string) messages.GameMessage {
	return messages.GameMessage{Error: message}
}

// Move is an optional last-move coordinate attached to durable deltas.
type Move struct {
	X int
	Y int
}

// Publisher fans session state out to the live topic and the durable
// update topic. Timestamps on durable deltas are assigned at publish time.
type Publisher struct {
	bus bus.Publisher
	now func() time.Time
}

// NewPublisher creates a fanout publisher over the given bus.
func NewPublisher(b bus.Publisher) *Publisher {
	return &Publisher{bus: b, now: time.Now}
}

// PublishBoardView sends a board view to a game's live channel.
func (p *Publisher) PublishBoardView(ctx context.Context, gameID string, view messages.GameMessage) error {
	return p.bus.Publish(ctx, messages.TopicLive, messages.LiveBoardKey(gameID), view)
}

// PublishMoveResult sends a move outcome to a game's live channel.
func (p *Publisher) PublishMoveResult(ctx context.Context, gameID string, result messages.MoveMessage) error {
	return p.bus.Publish(ctx, messages.TopicLive, messages.LiveGameKey(gameID), result)
}

// PublishPlacementResult sends a placement outcome to a game's live channel.
func (p *Publisher) PublishPlacementResult(ctx context.Context, gameID string, result messages.PlacementMessage) error {
	return p.bus.Publish(ctx, messages.TopicLive, messages.LivePlacementKey(gameID), result)
}

// PublishUpdate sends the durable state delta consumed by the
// persistence collaborator.
func (p *Publisher) PublishUpdate(ctx context.Context, s *game.State, lastMove *Move) error {
	event := messages.UpdateEvent{
		GameID:             s.ID,
		Finished:           s.Finished,
		Won:                s.Won,
		Lost:               s.Lost,
		Drawn:              s.Drawn,
		UserBoardState:     s.UserBoard,
		OpponentBoardState: s.OpponentBoard,
		UserShips:          s.UserShips,
		OpponentShips:      s.OpponentShips,
		UserTurn:           s.FirstPlayerTurn,
		Timestamp:          p.now().UTC(),
	}
	if lastMove != nil {
		x, y := lastMove.X, lastMove.Y
		event.LastMoveX = &x
		event.LastMoveY = &y
	}
	return p.bus.Publish(ctx, messages.TopicUpdates, messages.KeyUpdate, event)
}
