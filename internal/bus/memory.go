package bus

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"

	apperrors "github.com/louisbranch/broadside/internal/platform/errors"
)

const (
	defaultQueueDepth  = 64
	defaultMaxAttempts = 5
)

// DeadLetterFunc receives deliveries that were rejected or exhausted their
// redelivery budget, together with the final handler error.
type DeadLetterFunc func(d Delivery, err error)

// Memory is an in-process Bus with per-subscription queues and concurrent
// dispatch. Handlers for the same game id may race, matching the delivery
// model of an external broker.
type Memory struct {
	mu          sync.Mutex
	queues      []*queue
	running     bool
	maxAttempts int
	queueDepth  int
	deadLetter  DeadLetterFunc
}

type queue struct {
	topic   Topic
	key     string
	handler Handler
	ch      chan Delivery
}

// Option configures a Memory bus.
type Option func(*Memory)

// WithMaxAttempts caps handler attempts per delivery, including the first.
func WithMaxAttempts(n int) Option {
	return func(m *Memory) {
		if n > 0 {
			m.maxAttempts = n
		}
	}
}

// WithDeadLetter installs a sink for permanently failed deliveries.
func WithDeadLetter(fn DeadLetterFunc) Option {
	return func(m *Memory) {
		if fn != nil {
			m.deadLetter = fn
		}
	}
}

// WithQueueDepth sets the per-subscription buffer size.
func WithQueueDepth(n int) Option {
	return func(m *Memory) {
		if n > 0 {
			m.queueDepth = n
		}
	}
}

// NewMemory creates an in-process bus.
func NewMemory(opts ...Option) *Memory {
	m := &Memory{
		maxAttempts: defaultMaxAttempts,
		queueDepth:  defaultQueueDepth,
		deadLetter: func(d Delivery, err error) {
			log.Printf("dead-letter %s/%s message %s: %v", d.Topic, d.Key, d.MessageID, err)
		},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	return m
}

// Subscribe binds a handler to a topic and routing key. The key
// MatchAllKeys receives every key on the topic. Subscriptions must be
// registered before Run starts dispatching.
func (m *Memory) Subscribe(topic Topic, key string, h Handler) error {
	if h == nil {
		return fmt.Errorf("handler is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return fmt.Errorf("subscribe after bus start")
	}
	m.queues = append(m.queues, &queue{
		topic:   topic,
		key:     key,
		handler: h,
		ch:      make(chan Delivery, m.queueDepth),
	})
	return nil
}

// Publish JSON-encodes payload and enqueues it for every matching
// subscription. Topics without subscribers are collaborator boundaries;
// their payloads leave this process and are dropped here.
func (m *Memory) Publish(ctx context.Context, topic Topic, key string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeMalformedPayload, "encode publish payload", err)
	}
	d := Delivery{
		Topic:     topic,
		Key:       key,
		MessageID: uuid.NewString(),
		Payload:   body,
	}
	m.mu.Lock()
	queues := m.queues
	m.mu.Unlock()
	for _, q := range queues {
		if q.topic != topic {
			continue
		}
		if q.key != key && q.key != MatchAllKeys {
			continue
		}
		select {
		case q.ch <- d:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Run dispatches deliveries until the context ends. Each subscription is
// drained by its own goroutine, so handlers for the same game id can race
// exactly as they would behind a broker.
func (m *Memory) Run(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return fmt.Errorf("bus already running")
	}
	m.running = true
	queues := m.queues
	m.mu.Unlock()

	var wg sync.WaitGroup
	for _, q := range queues {
		wg.Add(1)
		go func(q *queue) {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case d := <-q.ch:
					m.dispatch(ctx, q, d)
				}
			}
		}(q)
	}
	<-ctx.Done()
	wg.Wait()
	return nil
}

// dispatch runs the handler with redelivery on transient failures.
func (m *Memory) dispatch(ctx context.Context, q *queue, d Delivery) {
	delay := backoff.NewExponentialBackOff()
	delay.InitialInterval = 10 * time.Millisecond

	var err error
	for attempt := 1; attempt <= m.maxAttempts; attempt++ {
		d.Redelivered = attempt > 1
		err = q.handler(ctx, d)
		switch apperrors.DispositionOf(err) {
		case apperrors.DispositionAck:
			return
		case apperrors.DispositionReject:
			m.deadLetter(d, err)
			return
		case apperrors.DispositionRequeue:
			select {
			case <-ctx.Done():
				return
			case <-time.After(delay.NextBackOff()):
			}
		}
	}
	m.deadLetter(d, err)
}
