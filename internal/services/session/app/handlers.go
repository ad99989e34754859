package app

import (
	"context"
	"encoding/json"
	"log"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/louisbranch/broadside/internal/bus"
	apperrors "github.com/louisbranch/broadside/internal/platform/errors"
	"github.com/louisbranch/broadside/internal/services/session/messages"
)

// Subscriber binds handlers to bus subscriptions before dispatch starts.
type Subscriber interface {
	Subscribe(topic bus.Topic, key string, h bus.Handler) error
}

// RegisterHandlers binds the coordinator's inbound message handlers:
// snapshots from the upstream authority, verdicts from the rules engine,
// and decisions from the AI engine.
func (s *Service) RegisterHandlers(sub Subscriber) error {
	bindings := []struct {
		topic   bus.Topic
		key     string
		handler bus.Handler
	}{
		{messages.TopicState, messages.KeyState, handle("session.load_state", s.LoadState)},
		{messages.TopicEngine, messages.KeyMoveVerdict, handle("session.apply_move_verdict", s.ApplyMoveVerdict)},
		{messages.TopicEngine, messages.KeyPlacementVerdict, handle("session.apply_placement_verdict", s.ApplyPlacementVerdict)},
		{messages.TopicEngine, messages.KeyAIMove, handle("session.relay_ai_move", s.RelayAIMove)},
		{messages.TopicEngine, messages.KeyAIPlacement, handle("session.relay_ai_placement", s.RelayAIPlacement)},
	}
	for _, b := range bindings {
		if err := sub.Subscribe(b.topic, b.key, b.handler); err != nil {
			return err
		}
	}
	return nil
}

// handle adapts a typed operation into a bus handler: decode the JSON
// payload, run the operation inside a span, and surface coded errors to
// the bus for its redrive policy.
func handle[E any](name string, fn func(context.Context, E) error) bus.Handler {
	tracer := otel.Tracer("session")
	return func(ctx context.Context, d bus.Delivery) error {
		var event E
		if err := json.Unmarshal(d.Payload, &event); err != nil {
			return apperrors.Wrap(apperrors.CodeMalformedPayload, "decode "+name+" payload", err)
		}

		ctx, span := tracer.Start(ctx, name, trace.WithAttributes(
			attribute.String("messaging.message.id", d.MessageID),
			attribute.String("messaging.destination.name", string(d.Topic)),
			attribute.Bool("messaging.redelivered", d.Redelivered),
		))
		defer span.End()

		if err := fn(ctx, event); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			log.Printf("handle %s: %v", name, err)
			return err
		}
		return nil
	}
}
