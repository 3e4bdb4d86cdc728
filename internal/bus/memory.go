package bus

import (
	"context"
	"maps"
	"sync"
	"sync/atomic"

	"github.com/MKhiriev/go-case-sync/internal/logger"
	"golang.org/x/sync/errgroup"
)

const defaultQueueSize = 64

// Options configures a [MemoryBus].
type Options struct {
	// MaxAttempts is the number of deliveries per handler and message.
	// Values below 1 mean a single attempt.
	MaxAttempts int
	// QueueSize is the capacity of each topic queue.
	QueueSize int
}

// Stats are the delivery counters of a [MemoryBus].
type Stats struct {
	Published   int64
	Delivered   int64
	Redelivered int64
	Failed      int64
	Dropped     int64
}

type message struct {
	ctx     context.Context
	payload map[string]any
}

type topicQueue struct {
	name     string
	messages chan message
}

// MemoryBus is the in-process [Bus] implementation.
type MemoryBus struct {
	maxAttempts int
	queueSize   int

	mu     sync.RWMutex
	closed bool
	queues map[string]*topicQueue

	handlersMu sync.RWMutex
	handlers   map[string][]HandlerFunc

	group errgroup.Group

	published   atomic.Int64
	delivered   atomic.Int64
	redelivered atomic.Int64
	failed      atomic.Int64
	dropped     atomic.Int64

	logger *logger.Logger
}

// NewMemoryBus constructs an empty [MemoryBus]. Topic goroutines are started
// lazily on first publish.
func NewMemoryBus(opts Options, logger *logger.Logger) *MemoryBus {
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 1
	}
	if opts.QueueSize < 1 {
		opts.QueueSize = defaultQueueSize
	}

	return &MemoryBus{
		maxAttempts: opts.MaxAttempts,
		queueSize:   opts.QueueSize,
		queues:      make(map[string]*topicQueue),
		handlers:    make(map[string][]HandlerFunc),
		logger:      logger,
	}
}

// Subscribe implements [Bus].
func (b *MemoryBus) Subscribe(topic string, handler HandlerFunc) {
	b.handlersMu.Lock()
	defer b.handlersMu.Unlock()

	b.handlers[topic] = append(b.handlers[topic], handler)
}

// Publish implements [Bus]. The payload is shallow-copied, so the caller may
// reuse its map after Publish returns.
func (b *MemoryBus) Publish(ctx context.Context, topic string, payload map[string]any) error {
	if topic == "" {
		return ErrEmptyTopic
	}

	// The read lock is held while sending so Close cannot close the queue
	// under a pending send.
	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return ErrBusClosed
	}
	q, ok := b.queues[topic]
	b.mu.RUnlock()

	if !ok {
		q = b.startQueue(topic)
		if q == nil {
			return ErrBusClosed
		}
	}

	msg := message{ctx: context.WithoutCancel(ctx), payload: maps.Clone(payload)}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrBusClosed
	}

	select {
	case q.messages <- msg:
		b.published.Add(1)
		logger.FromContext(ctx).Debug().
			Str("func", "MemoryBus.Publish").
			Str("topic", topic).
			Msg("message published")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// startQueue returns the queue of topic, creating it and its goroutine when
// absent. It returns nil once the bus is closed.
func (b *MemoryBus) startQueue(topic string) *topicQueue {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	if q, ok := b.queues[topic]; ok {
		return q
	}

	q := &topicQueue{name: topic, messages: make(chan message, b.queueSize)}
	b.queues[topic] = q
	b.group.Go(func() error {
		b.drain(q)
		return nil
	})

	return q
}

func (b *MemoryBus) drain(q *topicQueue) {
	for msg := range q.messages {
		b.handlersMu.RLock()
		handlers := append([]HandlerFunc(nil), b.handlers[q.name]...)
		b.handlersMu.RUnlock()

		if len(handlers) == 0 {
			b.dropped.Add(1)
			b.logger.Warn().
				Str("func", "MemoryBus.drain").
				Str("topic", q.name).
				Msg("no subscribers, message dropped")
			continue
		}

		for _, h := range handlers {
			b.deliver(q.name, msg, h)
		}
	}
}

func (b *MemoryBus) deliver(topic string, msg message, handler HandlerFunc) {
	log := logger.FromContext(msg.ctx)

	for attempt := 1; attempt <= b.maxAttempts; attempt++ {
		err := handler(msg.ctx, topic, msg.payload)
		if err == nil {
			b.delivered.Add(1)
			return
		}

		if attempt < b.maxAttempts {
			b.redelivered.Add(1)
			log.Warn().Err(err).
				Str("func", "MemoryBus.deliver").
				Str("topic", topic).
				Int("attempt", attempt).
				Msg("handler failed, redelivering")
			continue
		}

		b.failed.Add(1)
		log.Err(err).
			Str("func", "MemoryBus.deliver").
			Str("topic", topic).
			Int("attempts", attempt).
			Msg("handler failed, giving up")
	}
}

// Close implements [Bus].
func (b *MemoryBus) Close(ctx context.Context) error {
	b.mu.Lock()
	if !b.closed {
		b.closed = true
		for _, q := range b.queues {
			close(q.messages)
		}
	}
	b.mu.Unlock()

	done := make(chan struct{})
	go func() {
		_ = b.group.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stats returns a snapshot of the delivery counters.
func (b *MemoryBus) Stats() Stats {
	return Stats{
		Published:   b.published.Load(),
		Delivered:   b.delivered.Load(),
		Redelivered: b.redelivered.Load(),
		Failed:      b.failed.Load(),
		Dropped:     b.dropped.Load(),
	}
}
