package app

import (
	"context"
	"errors"
	"testing"

	apperrors "github.com/louisbranch/broadside/internal/platform/errors"
	"github.com/louisbranch/broadside/internal/services/session/domain/game"
	"github.com/louisbranch/broadside/internal/services/session/messages"
	"github.com/louisbranch/broadside/internal/services/session/storage"
)

func TestSubmitMoveUnknownGameRequestsReload(t *testing.T) {
	svc, _, capture := newTestService(t)

	msg, err := svc.SubmitMove(context.Background(), "5", "alice", 0, 0)
	if err != nil {
		t.Fatalf("submit move: %v", err)
	}
	if msg.Legal || msg.Message != "Game not loaded, please wait!" {
		t.Fatalf("unexpected rejection: %+v", msg)
	}

	reloads := capture.byKey(messages.KeyGet)
	if len(reloads) != 1 {
		t.Fatalf("expected one reload request, got %d", len(reloads))
	}
	if got := reloads[0].payload.(messages.GameEvent); got.GameID != "5" {
		t.Fatalf("unexpected reload payload: %+v", got)
	}
}

func TestSubmitMoveRejectionOrder(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*game.State)
		username string
		reason   string
	}{
		{
			name:     "stranger",
			mutate:   func(*game.State) {},
			username: "mallory",
			reason:   "Cannot move!",
		},
		{
			name: "not started",
			mutate: func(s *game.State) {
				s.OpponentShips = game.ShipsUnplaced
			},
			username: "alice",
			reason:   "Game not started, both players must place their ships!",
		},
		{
			name: "finished",
			mutate: func(s *game.State) {
				s.Finished = true
				s.Won = true
			},
			username: "alice",
			reason:   "Game is finished!",
		},
		{
			name: "blocked",
			mutate: func(s *game.State) {
				s.Blocked = true
			},
			username: "alice",
			reason:   "Cannot move now!",
		},
		{
			name:     "not their turn",
			mutate:   func(*game.State) {},
			username: "bob",
			reason:   "Cannot move now!",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store, capture := newTestService(t)
			state := startedGame()
			tt.mutate(&state)
			seedSession(t, store, state)

			msg, err := svc.SubmitMove(context.Background(), "5", tt.username, 1, 1)
			if err != nil {
				t.Fatalf("submit move: %v", err)
			}
			if msg.Legal {
				t.Fatal("expected rejection")
			}
			if msg.Message != tt.reason {
				t.Fatalf("expected reason %q, got %q", tt.reason, msg.Message)
			}
			if len(capture.byKey(messages.KeyMove)) != 0 {
				t.Fatal("rejected move must not reach the engine")
			}
			live := capture.byKey(messages.LiveGameKey("5"))
			if len(live) != 1 {
				t.Fatalf("expected one live rejection, got %d", len(live))
			}
		})
	}
}

func TestSubmitMoveBlocksSessionAndForwards(t *testing.T) {
	svc, store, capture := newTestService(t)
	seedSession(t, store, startedGame())
	ctx := context.Background()

	msg, err := svc.SubmitMove(ctx, "5", "alice", 0, 0)
	if err != nil {
		t.Fatalf("submit move: %v", err)
	}
	if !msg.Legal || msg.Message != "" {
		t.Fatalf("expected accepted move, got %+v", msg)
	}

	sess, err := store.Get(ctx, "5")
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if !sess.State.Blocked {
		t.Fatal("accepted move must block the session")
	}

	forwarded := capture.byKey(messages.KeyMove)
	if len(forwarded) != 1 {
		t.Fatalf("expected one engine request, got %d", len(forwarded))
	}
	event := forwarded[0].payload.(messages.MoveEvent)
	if event.GameID != "5" || event.Row != 0 || event.Column != 0 {
		t.Fatalf("unexpected move event: %+v", event)
	}
	if event.BoardState != sess.State.OpponentBoard {
		t.Fatalf("move must target the opponent board, got %q", event.BoardState)
	}
	if event.TargetShips != sess.State.OpponentShips {
		t.Fatalf("move must target the opponent ships, got %q", event.TargetShips)
	}

	// A second intent while the verdict is pending bounces off the block.
	second, err := svc.SubmitMove(ctx, "5", "alice", 1, 1)
	if err != nil {
		t.Fatalf("second submit: %v", err)
	}
	if second.Legal || second.Message != "Cannot move now!" {
		t.Fatalf("expected single-flight rejection, got %+v", second)
	}
	if len(capture.byKey(messages.KeyMove)) != 1 {
		t.Fatal("blocked session must not forward another move")
	}
}

func TestApplyMoveVerdictLegal(t *testing.T) {
	svc, store, capture := newTestService(t)
	state := startedGame()
	state.Blocked = true
	seedSession(t, store, state)
	ctx := context.Background()

	verdict := messages.EngineMoveEvent{
		GameID:   "5",
		Row:      0,
		Column:   0,
		Legal:    true,
		Result:   game.ResultHit,
		NewState: "X??|???|???",
	}
	if err := svc.ApplyMoveVerdict(ctx, verdict); err != nil {
		t.Fatalf("apply verdict: %v", err)
	}

	sess, err := store.Get(ctx, "5")
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if sess.State.OpponentBoard != "X??|???|???" {
		t.Fatalf("verdict must overwrite the opponent board, got %q", sess.State.OpponentBoard)
	}
	if sess.State.UserBoard != "???|???|???" {
		t.Fatalf("mover's own board must be untouched, got %q", sess.State.UserBoard)
	}
	if sess.State.FirstPlayerTurn {
		t.Fatal("turn must flip to the second player")
	}
	if sess.State.Blocked {
		t.Fatal("verdict application must unblock the session")
	}

	live := capture.byKey(messages.LiveGameKey("5"))
	if len(live) != 1 {
		t.Fatalf("expected one live move result, got %d", len(live))
	}
	msg := live[0].payload.(messages.MoveMessage)
	if !msg.Legal || msg.Player != "alice" || msg.Result != "Hit" {
		t.Fatalf("unexpected live result: %+v", msg)
	}

	updates := capture.byKey(messages.KeyUpdate)
	if len(updates) != 1 {
		t.Fatalf("expected one durable delta, got %d", len(updates))
	}
	delta := updates[0].payload.(messages.UpdateEvent)
	if delta.OpponentBoardState != "X??|???|???" || delta.UserTurn {
		t.Fatalf("unexpected delta: %+v", delta)
	}
	if delta.LastMoveX == nil || *delta.LastMoveX != 0 || delta.LastMoveY == nil || *delta.LastMoveY != 0 {
		t.Fatalf("delta must carry the last move, got %+v", delta)
	}
}

func TestApplyMoveVerdictIllegalUnblocks(t *testing.T) {
	svc, store, capture := newTestService(t)
	state := startedGame()
	state.Blocked = true
	seedSession(t, store, state)
	ctx := context.Background()

	verdict := messages.EngineMoveEvent{GameID: "5", Row: 9, Column: 9}
	if err := svc.ApplyMoveVerdict(ctx, verdict); err != nil {
		t.Fatalf("apply verdict: %v", err)
	}

	sess, err := store.Get(ctx, "5")
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if sess.State.Blocked {
		t.Fatal("illegal verdict must unblock the session")
	}
	if !sess.State.FirstPlayerTurn {
		t.Fatal("illegal verdict must not flip the turn")
	}
	if sess.State.OpponentBoard != "???|???|???" {
		t.Fatal("illegal verdict must not touch the board")
	}

	live := capture.byKey(messages.LiveGameKey("5"))
	if len(live) != 1 {
		t.Fatalf("expected one live rejection, got %d", len(live))
	}
	msg := live[0].payload.(messages.MoveMessage)
	if msg.Legal || msg.Message != "Move is illegal!" {
		t.Fatalf("unexpected rejection: %+v", msg)
	}
	if len(capture.byKey(messages.KeyUpdate)) != 0 {
		t.Fatal("illegal verdict must not publish a durable delta")
	}
}

func TestApplyMoveVerdictFinishesAndEvicts(t *testing.T) {
	svc, store, capture := newTestService(t)
	state := startedGame()
	state.Blocked = true
	seedSession(t, store, state)
	ctx := context.Background()

	verdict := messages.EngineMoveEvent{
		GameID:   "5",
		Row:      2,
		Column:   1,
		Legal:    true,
		Finished: true,
		Result:   game.ResultSunk,
		NewState: "X??|???|?X?",
	}
	if err := svc.ApplyMoveVerdict(ctx, verdict); err != nil {
		t.Fatalf("apply verdict: %v", err)
	}

	if _, err := store.Get(ctx, "5"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("finished session must be evicted, got %v", err)
	}

	live := capture.byKey(messages.LiveGameKey("5"))
	if len(live) != 1 {
		t.Fatalf("expected one live result, got %d", len(live))
	}
	msg := live[0].payload.(messages.MoveMessage)
	if !msg.Finished || !msg.Won || msg.Winner != "alice" {
		t.Fatalf("unexpected final result: %+v", msg)
	}

	delta := capture.byKey(messages.KeyUpdate)[0].payload.(messages.UpdateEvent)
	if !delta.Finished || !delta.Won || delta.Lost {
		t.Fatalf("delta must carry exactly the winning outcome: %+v", delta)
	}
}

func TestApplyMoveVerdictDuplicates(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	// A verdict for an evicted game is permanently rejected.
	err := svc.ApplyMoveVerdict(ctx, messages.EngineMoveEvent{GameID: "gone", Legal: true})
	if apperrors.CodeOf(err) != apperrors.CodeSessionNotFound {
		t.Fatalf("expected CodeSessionNotFound, got %v", err)
	}
	if apperrors.DispositionOf(err) != apperrors.DispositionReject {
		t.Fatal("unknown-game verdict must dead-letter, not requeue")
	}

	// A verdict for a finished session still in the store acks as a no-op.
	state := startedGame()
	state.Finished = true
	state.Won = true
	seedSession(t, store, state)
	if err := svc.ApplyMoveVerdict(ctx, messages.EngineMoveEvent{GameID: "5", Legal: true, NewState: "ooo|ooo|ooo"}); err != nil {
		t.Fatalf("duplicate verdict must ack, got %v", err)
	}
	sess, err := store.Get(ctx, "5")
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if sess.State.OpponentBoard != "???|???|???" {
		t.Fatal("finished session must be immutable")
	}
}

func TestRelayAIMoveForwardsAgainstUserBoard(t *testing.T) {
	svc, store, capture := newTestService(t)
	state := aiGame()
	state.UserShips = `[{"headX":0,"headY":0,"size":2,"orientation":"Horizontal"}]`
	state.OpponentShips = `[{"headX":2,"headY":0,"size":2,"orientation":"Horizontal"}]`
	state.UserBoard = "?o?|???|???"
	seedSession(t, store, state)

	err := svc.RelayAIMove(context.Background(), messages.EngineAIMoveEvent{GameID: "7", Row: 1, Column: 2})
	if err != nil {
		t.Fatalf("relay AI move: %v", err)
	}

	forwarded := capture.byKey(messages.KeyMove)
	if len(forwarded) != 1 {
		t.Fatalf("expected one engine request, got %d", len(forwarded))
	}
	event := forwarded[0].payload.(messages.MoveEvent)
	if event.BoardState != "?o?|???|???" {
		t.Fatalf("AI move must target the first player's board, got %q", event.BoardState)
	}
	if event.TargetShips != state.UserShips {
		t.Fatalf("AI move must target the first player's ships, got %q", event.TargetShips)
	}
}

func TestRelayAIMoveUnknownGame(t *testing.T) {
	svc, _, _ := newTestService(t)
	err := svc.RelayAIMove(context.Background(), messages.EngineAIMoveEvent{GameID: "gone"})
	if apperrors.CodeOf(err) != apperrors.CodeSessionNotFound {
		t.Fatalf("expected CodeSessionNotFound, got %v", err)
	}
}
