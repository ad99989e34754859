package app

import (
	"context"
	"errors"

	apperrors "github.com/louisbranch/broadside/internal/platform/errors"
	"github.com/louisbranch/broadside/internal/services/session/domain/game"
	"github.com/louisbranch/broadside/internal/services/session/fanout"
	"github.com/louisbranch/broadside/internal/services/session/messages"
	"github.com/louisbranch/broadside/internal/services/session/storage"
)

// SubmitMove gates one shot intent against the live session and, when it
// passes, blocks the session and forwards the shot to the rules engine.
// The precondition checks run in a fixed order and each failure answers
// with its own reason on the live channel; rejections are not errors.
func (s *Service) SubmitMove(ctx context.Context, gameID, username string, x, y int) (messages.MoveMessage, error) {
	for attempt := 0; ; attempt++ {
		sess, err := s.store.Get(ctx, gameID)
		if errors.Is(err, storage.ErrNotFound) {
			if err := s.requestReload(ctx, gameID); err != nil {
				return messages.MoveMessage{}, err
			}
			return s.rejectMove(ctx, gameID, x, y, username, reasonNotLoaded)
		}
		if err != nil {
			return messages.MoveMessage{}, err
		}

		state := sess.State
		if !state.PlayerInGame(username) {
			return s.rejectMove(ctx, gameID, x, y, username, reasonNotInGame)
		}
		if !state.Started() {
			return s.rejectMove(ctx, gameID, x, y, username, reasonNotStarted)
		}
		if state.Finished {
			return s.rejectMove(ctx, gameID, x, y, username, reasonFinished)
		}
		if state.Blocked || !state.PlayerTurn(username) {
			return s.rejectMove(ctx, gameID, x, y, username, reasonNotNow)
		}

		state.Blocked = true
		if _, err := s.store.Update(ctx, state, sess.Version); err != nil {
			if errors.Is(err, storage.ErrVersionConflict) && attempt < casRetries {
				continue
			}
			return messages.MoveMessage{}, err
		}

		move := messages.MoveEvent{
			GameID:      gameID,
			Row:         x,
			Column:      y,
			BoardState:  state.TargetBoard(),
			TargetShips: state.TargetShips(),
			Ruleset:     state.Ruleset,
		}
		if err := s.bus.Publish(ctx, messages.TopicMoves, messages.KeyMove, move); err != nil {
			return messages.MoveMessage{}, err
		}
		return messages.AcceptedMove(x, y, username), nil
	}
}

func (s *Service) rejectMove(ctx context.Context, gameID string, x, y int, username, reason string) (messages.MoveMessage, error) {
	msg := messages.RejectedMove(x, y, username, reason)
	if err := s.views.PublishMoveResult(ctx, gameID, msg); err != nil {
		return messages.MoveMessage{}, err
	}
	return msg, nil
}

// ApplyMoveVerdict reconciles a rules-engine verdict with the session.
// An illegal or malformed verdict unblocks the session and rejects the
// move; a legal verdict overwrites the target board, flips the turn or
// finishes the game, and fans the new state out. Verdicts for finished
// sessions are duplicates and ack as no-ops; verdicts for unknown games
// are permanently rejected.
func (s *Service) ApplyMoveVerdict(ctx context.Context, verdict messages.EngineMoveEvent) error {
	sess, err := s.store.Get(ctx, verdict.GameID)
	if errors.Is(err, storage.ErrNotFound) {
		return apperrors.Wrap(apperrors.CodeSessionNotFound, "move verdict for unknown game "+verdict.GameID, err)
	}
	if err != nil {
		return err
	}

	state := sess.State
	if state.Finished {
		return nil
	}

	if verdict.Malformed || !verdict.Legal {
		state.Blocked = false
		if _, err := s.store.Update(ctx, state, sess.Version); err != nil {
			return err
		}
		rejected := messages.RejectedMove(verdict.Row, verdict.Column, state.CurrentPlayer(), reasonIllegal)
		return s.views.PublishMoveResult(ctx, verdict.GameID, rejected)
	}

	mover := state.CurrentPlayer()
	state.ApplyVerdictBoard(verdict.NewState)
	if verdict.Finished {
		state.Finish()
	}

	msg := messages.AcceptedMove(verdict.Row, verdict.Column, mover)
	msg.Result = string(verdict.Result)
	if state.Finished {
		msg.Finished = true
		msg.Won = state.Won
		if winner, ok := state.Winner(); ok {
			msg.Winner = winner
		}
		if err := s.store.Delete(ctx, verdict.GameID); err != nil {
			return err
		}
	} else {
		state.NextPlayer()
		state.Blocked = false
		if _, err := s.store.Update(ctx, state, sess.Version); err != nil {
			return err
		}
	}

	if err := s.views.PublishUpdate(ctx, &state, &fanout.Move{X: verdict.Row, Y: verdict.Column}); err != nil {
		return err
	}
	if err := s.views.PublishMoveResult(ctx, verdict.GameID, msg); err != nil {
		return err
	}
	if game.NextAIAction(&state) == game.ActionMove {
		return s.requestAIAction(ctx, &state, game.PhaseMove)
	}
	return nil
}

// RelayAIMove forwards an AI-chosen shot to the rules engine the same
// way a player move is forwarded. The AI engine is trusted; the turn
// checks already ran when the AI was asked to move.
func (s *Service) RelayAIMove(ctx context.Context, event messages.EngineAIMoveEvent) error {
	sess, err := s.store.Get(ctx, event.GameID)
	if errors.Is(err, storage.ErrNotFound) {
		return apperrors.Wrap(apperrors.CodeSessionNotFound, "AI move for unknown game "+event.GameID, err)
	}
	if err != nil {
		return err
	}

	state := sess.State
	if state.Finished {
		return nil
	}
	move := messages.MoveEvent{
		GameID:      event.GameID,
		Row:         event.Row,
		Column:      event.Column,
		BoardState:  state.TargetBoard(),
		TargetShips: state.TargetShips(),
		Ruleset:     state.Ruleset,
	}
	return s.bus.Publish(ctx, messages.TopicMoves, messages.KeyMove, move)
}
