package app

import (
	"context"
	"errors"
	"log"

	"github.com/louisbranch/broadside/internal/services/session/domain/game"
	"github.com/louisbranch/broadside/internal/services/session/fanout"
	"github.com/louisbranch/broadside/internal/services/session/messages"
	"github.com/louisbranch/broadside/internal/services/session/storage"
)

// LoadState materializes a snapshot from the upstream authority into the
// session store and announces the board view. Snapshots marked as errors
// or already finished only answer on the live channel; nothing is
// stored. Re-applying the same snapshot is a deterministic overwrite.
func (s *Service) LoadState(ctx context.Context, event messages.StateEvent) error {
	if event.Error {
		log.Printf("state event for game %s carries error: %s", event.ID, event.ErrorMessage)
		return s.views.PublishBoardView(ctx, event.ID, fanout.ErrorView(event.ErrorMessage))
	}
	if event.Finished {
		return s.views.PublishBoardView(ctx, event.ID, fanout.ErrorView(reasonAlreadyFinished))
	}

	state := game.State{
		ID:         event.ID,
		Username1:  event.Username1,
		Username2:  event.Username2,
		OpponentAI: event.AI,
		AIType:     event.AIType,
		Ruleset:    event.Ruleset,

		UserBoard:     event.UserBoardState,
		OpponentBoard: event.OpponentBoardState,
		UserShips:     event.UserShips,
		OpponentShips: event.OpponentShips,

		FirstPlayerStarts: event.FirstPlayerStarts,
		FirstPlayerTurn:   event.FirstPlayerTurn,
	}
	if _, err := s.store.Put(ctx, state); err != nil {
		return err
	}

	if err := s.views.PublishBoardView(ctx, state.ID, fanout.BoardView(&state)); err != nil {
		return err
	}
	switch game.NextAIAction(&state) {
	case game.ActionMove:
		return s.requestAIAction(ctx, &state, game.PhaseMove)
	case game.ActionPlacement:
		return s.requestAIAction(ctx, &state, game.PhasePlacement)
	}
	return nil
}

// Subscribe answers a live subscription with the current board view.
// A missing session asks the upstream authority to republish the game
// and answers with a loading view instead.
func (s *Service) Subscribe(ctx context.Context, gameID string) (messages.GameMessage, error) {
	sess, err := s.store.Get(ctx, gameID)
	if errors.Is(err, storage.ErrNotFound) {
		if err := s.requestReload(ctx, gameID); err != nil {
			return messages.GameMessage{}, err
		}
		view := fanout.ErrorView(reasonLoading)
		if err := s.views.PublishBoardView(ctx, gameID, view); err != nil {
			return messages.GameMessage{}, err
		}
		return view, nil
	}
	if err != nil {
		return messages.GameMessage{}, err
	}

	view := fanout.BoardView(&sess.State)
	if err := s.views.PublishBoardView(ctx, gameID, view); err != nil {
		return messages.GameMessage{}, err
	}
	return view, nil
}
