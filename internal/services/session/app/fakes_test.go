package app

import (
	"context"
	"testing"

	"github.com/louisbranch/broadside/internal/bus"
	"github.com/louisbranch/broadside/internal/services/session/domain/game"
	"github.com/louisbranch/broadside/internal/services/session/storage"
	"github.com/louisbranch/broadside/internal/services/session/storage/memory"
)

type publish struct {
	topic   bus.Topic
	key     string
	payload any
}

// capturingBus records every publish so tests can assert on outbound
// traffic across all topics, live views included.
type capturingBus struct {
	published []publish
}

func (c *capturingBus) Publish(_ context.Context, topic bus.Topic, key string, payload any) error {
	c.published = append(c.published, publish{topic: topic, key: key, payload: payload})
	return nil
}

func (c *capturingBus) byKey(key string) []publish {
	var out []publish
	for _, p := range c.published {
		if p.key == key {
			out = append(out, p)
		}
	}
	return out
}

func newTestService(t *testing.T) (*Service, *memory.Store, *capturingBus) {
	t.Helper()
	store := memory.New()
	capture := &capturingBus{}
	return New(store, capture), store, capture
}

// seedSession writes a state into the store and returns its session.
func seedSession(t *testing.T, store *memory.Store, state game.State) storage.Session {
	t.Helper()
	sess, err := store.Put(context.Background(), state)
	if err != nil {
		t.Fatalf("seed session: %v", err)
	}
	return sess
}

// startedGame is the running two-player game used across move tests:
// 3x3 boards, alice against bob, alice on turn.
func startedGame() game.State {
	return game.State{
		ID:              "5",
		Username1:       "alice",
		Username2:       "bob",
		Ruleset:         game.RulesetClassic,
		AIType:          game.AINone,
		UserBoard:       "???|???|???",
		OpponentBoard:   "???|???|???",
		UserShips:       `[{"headX":0,"headY":0,"size":2,"orientation":"Horizontal"}]`,
		OpponentShips:   `[{"headX":2,"headY":0,"size":2,"orientation":"Horizontal"}]`,
		FirstPlayerTurn: true,
	}
}

// aiGame is a player-vs-AI game with neither fleet placed yet.
func aiGame() game.State {
	return game.State{
		ID:            "7",
		Username1:     "alice",
		OpponentAI:    true,
		AIType:        game.AIRandom,
		Ruleset:       game.RulesetClassic,
		UserBoard:     "???|???|???",
		OpponentBoard: "???|???|???",
		UserShips:     game.ShipsUnplaced,
		OpponentShips: game.ShipsUnplaced,
	}
}
