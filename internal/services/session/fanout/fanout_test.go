package fanout

import (
	"context"
	"testing"
	"time"

	"github.com/louisbranch/broadside/internal/bus"
	"github.com/louisbranch/broadside/internal/services/session/domain/game"
	"github.com/louisbranch/broadside/internal/services/session/messages"
)

type recordedPublish struct {
	topic   bus.Topic
	key     string
	payload any
}

type recordingBus struct {
	published []recordedPublish
}

func (r *recordingBus) Publish(_ context.Context, topic bus.Topic, key string, payload any) error {
	r.published = append(r.published, recordedPublish{topic: topic, key: key, payload: payload})
	return nil
}

func TestBoardViewProjectsBothGrids(t *testing.T) {
	state := &game.State{
		ID:              "5",
		Username1:       "alice",
		Username2:       "bob",
		UserBoard:       "X?|?o",
		OpponentBoard:   "?.|?x",
		UserShips:       `[{"headX":0,"headY":0,"size":2,"orientation":"Horizontal"}]`,
		OpponentShips:   `[{"headX":1,"headY":0,"size":2,"orientation":"Vertical"}]`,
		FirstPlayerTurn: true,
	}

	view := BoardView(state)
	if view.Username1 != "alice" || view.Username2 != "bob" {
		t.Fatalf("unexpected players: %+v", view)
	}
	if !view.GameStarted {
		t.Fatal("expected started game")
	}
	if view.CurrentPlayer != "alice" {
		t.Fatalf("expected alice to hold the turn, got %q", view.CurrentPlayer)
	}
	if got := view.State1[0][0]; got != "Sunk" {
		t.Fatalf("expected Sunk at (0,0), got %q", got)
	}
	if got := view.State2[0][1]; got != "Hit" {
		t.Fatalf("expected Hit at (0,1), got %q", got)
	}
	if got := view.State2[1][1]; got != "Sunk" {
		t.Fatalf("expected Sunk at (1,1), got %q", got)
	}
}

func TestErrorViewCarriesOnlyMessage(t *testing.T) {
	view := ErrorView("Game not found")
	if view.Error != "Game not found" {
		t.Fatalf("unexpected error message %q", view.Error)
	}
	if view.Username1 != "" || view.GameStarted {
		t.Fatalf("expected an empty view around the error, got %+v", view)
	}
}

func TestPublishRoutesToLiveChannels(t *testing.T) {
	rec := &recordingBus{}
	pub := NewPublisher(rec)
	ctx := context.Background()

	if err := pub.PublishBoardView(ctx, "5", ErrorView("nope")); err != nil {
		t.Fatalf("publish board view: %v", err)
	}
	if err := pub.PublishMoveResult(ctx, "5", messages.AcceptedMove(1, 2, "alice")); err != nil {
		t.Fatalf("publish move result: %v", err)
	}
	if err := pub.PublishPlacementResult(ctx, "5", messages.AcceptedPlacement("alice")); err != nil {
		t.Fatalf("publish placement result: %v", err)
	}

	wantKeys := []string{"board.5", "game.5", "placement.5"}
	if len(rec.published) != len(wantKeys) {
		t.Fatalf("expected %d publishes, got %d", len(wantKeys), len(rec.published))
	}
	for i, want := range wantKeys {
		if rec.published[i].topic != messages.TopicLive {
			t.Fatalf("publish %d: expected live topic, got %q", i, rec.published[i].topic)
		}
		if rec.published[i].key != want {
			t.Fatalf("publish %d: expected key %q, got %q", i, want, rec.published[i].key)
		}
	}
}

func TestPublishUpdateCarriesDelta(t *testing.T) {
	rec := &recordingBus{}
	pub := NewPublisher(rec)
	stamp := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	pub.now = func() time.Time { return stamp }

	state := &game.State{
		ID:              "5",
		UserBoard:       "X??|???|???",
		OpponentBoard:   "???|???|???",
		UserShips:       game.ShipsUnplaced,
		OpponentShips:   game.ShipsUnplaced,
		FirstPlayerTurn: true,
		Finished:        true,
		Won:             true,
	}

	if err := pub.PublishUpdate(context.Background(), state, &Move{X: 1, Y: 2}); err != nil {
		t.Fatalf("publish update: %v", err)
	}
	if len(rec.published) != 1 {
		t.Fatalf("expected one publish, got %d", len(rec.published))
	}
	if rec.published[0].topic != messages.TopicUpdates || rec.published[0].key != messages.KeyUpdate {
		t.Fatalf("unexpected routing %q/%q", rec.published[0].topic, rec.published[0].key)
	}

	event, ok := rec.published[0].payload.(messages.UpdateEvent)
	if !ok {
		t.Fatalf("unexpected payload type %T", rec.published[0].payload)
	}
	if event.GameID != "5" || !event.Finished || !event.Won || event.Lost {
		t.Fatalf("unexpected outcome flags: %+v", event)
	}
	if event.UserBoardState != "X??|???|???" {
		t.Fatalf("unexpected board %q", event.UserBoardState)
	}
	if !event.Timestamp.Equal(stamp) {
		t.Fatalf("expected timestamp %v, got %v", stamp, event.Timestamp)
	}
	if event.LastMoveX == nil || *event.LastMoveX != 1 || event.LastMoveY == nil || *event.LastMoveY != 2 {
		t.Fatalf("unexpected last move: %+v", event)
	}
}

func TestPublishUpdateWithoutMoveOmitsCoordinates(t *testing.T) {
	rec := &recordingBus{}
	pub := NewPublisher(rec)

	state := &game.State{ID: "5", UserShips: game.ShipsUnplaced, OpponentShips: game.ShipsUnplaced}
	if err := pub.PublishUpdate(context.Background(), state, nil); err != nil {
		t.Fatalf("publish update: %v", err)
	}
	event := rec.published[0].payload.(messages.UpdateEvent)
	if event.LastMoveX != nil || event.LastMoveY != nil {
		t.Fatalf("expected no last move, got %+v", event)
	}
}
