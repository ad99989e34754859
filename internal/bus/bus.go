// Package bus provides topic-based publish/subscribe messaging between the
// session service and its collaborators.
//
// Delivery is at-least-once: a payload may arrive more than once and
// independent publishers are not ordered relative to each other. Handlers
// signal what to do with a failed delivery through the error they return;
// coded domain errors map to a permanent reject (dead-letter) or a
// transient requeue, so the transport can apply the right redrive policy.
package bus

import "context"

// Topic names an exchange that payloads are published to.
type Topic string

// Delivery is one received message.
type Delivery struct {
	// Topic the message was published to.
	Topic Topic
	// Key is the routing key the publisher attached.
	Key string
	// MessageID uniquely identifies the publish; redeliveries share it.
	MessageID string
	// Payload is the JSON-encoded message body.
	Payload []byte
	// Redelivered reports whether this delivery is a retry.
	Redelivered bool
}

// Handler consumes one delivery. A nil return acks the delivery; a coded
// domain error selects between dead-lettering and redelivery.
type Handler func(ctx context.Context, d Delivery) error

// Publisher sends payloads to a topic under a routing key. Payloads are
// JSON-encoded before transport.
type Publisher interface {
	Publish(ctx context.Context, topic Topic, key string, payload any) error
}

// MatchAllKeys subscribes a handler to every routing key on a topic.
const MatchAllKeys = "#"
