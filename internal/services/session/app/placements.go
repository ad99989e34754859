package app

import (
	"context"
	"errors"

	apperrors "github.com/louisbranch/broadside/internal/platform/errors"
	"github.com/louisbranch/broadside/internal/services/session/domain/game"
	"github.com/louisbranch/broadside/internal/services/session/messages"
	"github.com/louisbranch/broadside/internal/services/session/storage"
)

// SubmitPlacement gates one fleet submission and forwards it to the
// rules engine for validation. Nothing is written locally until the
// verdict arrives; an ineligible submission answers with a rejection on
// the live channel. Placement rejections carry no reason strings.
func (s *Service) SubmitPlacement(ctx context.Context, gameID, username string, ships []game.Ship) (messages.PlacementMessage, error) {
	sess, err := s.store.Get(ctx, gameID)
	if errors.Is(err, storage.ErrNotFound) {
		return s.rejectPlacement(ctx, gameID, username)
	}
	if err != nil {
		return messages.PlacementMessage{}, err
	}

	state := sess.State
	if state.Started() || state.Finished {
		return s.rejectPlacement(ctx, gameID, username)
	}
	if !state.PlayerInGame(username) {
		return s.rejectPlacement(ctx, gameID, username)
	}
	if username == state.Username1 && state.UserShips != game.ShipsUnplaced {
		return s.rejectPlacement(ctx, gameID, username)
	}
	if username == state.Username2 && state.OpponentShips != game.ShipsUnplaced {
		return s.rejectPlacement(ctx, gameID, username)
	}

	encoded, err := game.EncodeShips(ships)
	if err != nil {
		return s.rejectPlacement(ctx, gameID, username)
	}
	event := messages.PlacementEvent{
		GameID:               gameID,
		FirstPlayerSubmitted: username == state.Username1,
		ShipsJSON:            encoded,
		Ruleset:              state.Ruleset,
	}
	if err := s.bus.Publish(ctx, messages.TopicMoves, messages.KeyPlacement, event); err != nil {
		return messages.PlacementMessage{}, err
	}
	return messages.AcceptedPlacement(username), nil
}

func (s *Service) rejectPlacement(ctx context.Context, gameID, username string) (messages.PlacementMessage, error) {
	msg := messages.RejectedPlacement(username)
	if err := s.views.PublishPlacementResult(ctx, gameID, msg); err != nil {
		return messages.PlacementMessage{}, err
	}
	return msg, nil
}

// ApplyPlacementVerdict reconciles a placement verdict: a legal fleet is
// written to the submitting side's ship list and the new state fanned
// out; an illegal fleet only answers with a rejection. A verdict that
// starts the game on the AI's turn asks the AI for its first move.
func (s *Service) ApplyPlacementVerdict(ctx context.Context, verdict messages.EnginePlacementEvent) error {
	sess, err := s.store.Get(ctx, verdict.GameID)
	if errors.Is(err, storage.ErrNotFound) {
		return apperrors.Wrap(apperrors.CodeSessionNotFound, "placement verdict for unknown game "+verdict.GameID, err)
	}
	if err != nil {
		return err
	}

	state := sess.State
	player := s.seatName(&state, verdict.FirstPlayer)
	if !verdict.Legal {
		_, err := s.rejectPlacement(ctx, verdict.GameID, player)
		return err
	}

	if verdict.FirstPlayer {
		state.UserShips = verdict.ShipsJSON
	} else {
		state.OpponentShips = verdict.ShipsJSON
	}
	if _, err := s.store.Update(ctx, state, sess.Version); err != nil {
		return err
	}

	if err := s.views.PublishUpdate(ctx, &state, nil); err != nil {
		return err
	}
	if err := s.views.PublishPlacementResult(ctx, verdict.GameID, messages.AcceptedPlacement(player)); err != nil {
		return err
	}
	if state.Started() && state.AITurn() {
		return s.requestAIAction(ctx, &state, game.PhaseMove)
	}
	return nil
}

// RelayAIPlacement forwards an AI fleet layout as a placement intent for
// the second seat.
func (s *Service) RelayAIPlacement(ctx context.Context, event messages.EngineAIPlacementEvent) error {
	sess, err := s.store.Get(ctx, event.GameID)
	if errors.Is(err, storage.ErrNotFound) {
		return apperrors.Wrap(apperrors.CodeSessionNotFound, "AI placement for unknown game "+event.GameID, err)
	}
	if err != nil {
		return err
	}

	placement := messages.PlacementEvent{
		GameID:               event.GameID,
		FirstPlayerSubmitted: false,
		ShipsJSON:            event.ShipsJSON,
		Ruleset:              sess.State.Ruleset,
	}
	return s.bus.Publish(ctx, messages.TopicMoves, messages.KeyPlacement, placement)
}

// seatName names the side a verdict applies to; the AI seat has no
// username and is reported as "AI".
func (s *Service) seatName(state *game.State, first bool) string {
	if first {
		return state.Username1
	}
	if state.OpponentAI && state.Username2 == "" {
		return "AI"
	}
	return state.Username2
}
