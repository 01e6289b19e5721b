// Package publisher fans audit events into a Store, either synchronously or
// through a bounded in-process buffer drained by a single goroutine.
package publisher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	audit "swissshield/pkg/platform/audit"
	"swissshield/pkg/requestcontext"
)

// ErrBufferFull is returned by Emit in async mode when the buffer is full.
var ErrBufferFull = errors.New("audit buffer full")

// ErrCircuitOpen is returned in sync mode while the sink is considered down.
var ErrCircuitOpen = errors.New("audit circuit open")

// ErrClosed is returned by Emit once Close has been called.
var ErrClosed = errors.New("audit publisher closed")

type envelope struct {
	ctx   context.Context
	event audit.Event
}

// Publisher persists audit events.
type Publisher struct {
	store   audit.Store
	logger  *slog.Logger
	metrics *Metrics
	breaker *sinkBreaker

	bufferSize int
	inbox      chan envelope
	wg         sync.WaitGroup
	closeOnce  sync.Once

	// mu guards closed and the send on inbox against Close.
	mu     sync.RWMutex
	closed bool
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithAsyncBuffer makes Emit non-blocking with a buffer of size n.
func WithAsyncBuffer(n int) Option {
	return func(p *Publisher) {
		p.bufferSize = n
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func WithMetrics(m *Metrics) Option {
	return func(p *Publisher) {
		p.metrics = m
	}
}

// WithCircuitBreaker overrides the default breaker (5 failures, 1 minute).
func WithCircuitBreaker(threshold int, cooldown time.Duration) Option {
	return func(p *Publisher) {
		p.breaker = newSinkBreaker(threshold, cooldown, time.Now)
	}
}

func NewPublisher(store audit.Store, opts ...Option) *Publisher {
	p := &Publisher{
		store:   store,
		logger:  slog.New(slog.DiscardHandler),
		breaker: newSinkBreaker(5, time.Minute, time.Now),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.bufferSize > 0 {
		p.inbox = make(chan envelope, p.bufferSize)
		p.wg.Add(1)
		go p.drain()
	}
	return p
}

// Emit enriches the event from the request context and persists it.
// In async mode it returns ErrBufferFull instead of blocking. After Close it
// returns ErrClosed.
func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}
	if event.DeviceClass == "" {
		event.DeviceClass = requestcontext.DeviceClass(ctx)
	}
	event.Category = audit.AuditEvent(event.Action).Category()

	if p.inbox == nil {
		if p.isClosed() {
			return ErrClosed
		}
		return p.persist(ctx, event)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		p.metrics.incDropped("closed")
		return ErrClosed
	}
	select {
	case p.inbox <- envelope{ctx: context.WithoutCancel(ctx), event: event}:
		return nil
	default:
		p.metrics.incDropped("buffer_full")
		p.logger.WarnContext(ctx, "audit buffer full, event dropped",
			"request_id", event.RequestID,
			"action", event.Action,
		)
		return ErrBufferFull
	}
}

// List returns the events of a session when the store can be read back.
func (p *Publisher) List(ctx context.Context, sessionID string) ([]audit.Event, error) {
	lister, ok := p.store.(audit.Lister)
	if !ok {
		return nil, fmt.Errorf("audit store %T is write-only", p.store)
	}
	return lister.ListBySession(ctx, sessionID)
}

// Close stops accepting events and waits until the buffer is drained.
func (p *Publisher) Close() {
	p.closeOnce.Do(func() {
		p.mu.Lock()
		p.closed = true
		if p.inbox != nil {
			close(p.inbox)
		}
		p.mu.Unlock()
		p.wg.Wait()
	})
}

func (p *Publisher) isClosed() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.closed
}

func (p *Publisher) drain() {
	defer p.wg.Done()
	for env := range p.inbox {
		if err := p.persist(env.ctx, env.event); err != nil {
			p.logger.ErrorContext(env.ctx, "failed to persist audit event",
				"request_id", env.event.RequestID,
				"action", env.event.Action,
				"error", err,
			)
		}
	}
}

func (p *Publisher) persist(ctx context.Context, event audit.Event) error {
	if !p.breaker.allow() {
		p.metrics.incDropped("circuit_open")
		return ErrCircuitOpen
	}
	err := p.store.Append(ctx, event)
	p.metrics.setCircuitBreakerState(p.breaker.record(err))
	if err != nil {
		p.metrics.incPersistFailures()
		return fmt.Errorf("append audit event: %w", err)
	}
	p.metrics.incPublished(event.Action)
	return nil
}

// sinkBreaker stops calling a store that keeps failing. After threshold
// consecutive failures it rejects appends for cooldown, then lets the next
// one through. A failure at that point reopens it straight away.
type sinkBreaker struct {
	mu        sync.Mutex
	threshold int
	cooldown  time.Duration
	now       func() time.Time

	failures  int
	openUntil time.Time
}

func newSinkBreaker(threshold int, cooldown time.Duration, now func() time.Time) *sinkBreaker {
	if threshold <= 0 {
		threshold = 5
	}
	if cooldown <= 0 {
		cooldown = time.Minute
	}
	return &sinkBreaker{threshold: threshold, cooldown: cooldown, now: now}
}

func (b *sinkBreaker) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.failures < b.threshold || !b.now().Before(b.openUntil)
}

// record takes the outcome of an append and reports whether the breaker is open.
func (b *sinkBreaker) record(err error) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err == nil {
		b.failures = 0
		return false
	}
	b.failures++
	if b.failures < b.threshold {
		return false
	}
	b.openUntil = b.now().Add(b.cooldown)
	return true
}
