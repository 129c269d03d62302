package guard

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// AuditEventType enumerates supported audit categories.
type AuditEventType string

const (
	AuditEventAccessDenied   AuditEventType = "authz.access.denied"
	AuditEventTokenMalformed AuditEventType = "auth.token.malformed"
)

// AuditEvent captures one access control decision worth recording. Denied
// requests produce exactly one event; allowed requests produce none.
type AuditEvent struct {
	EventType     AuditEventType
	Subject       string
	Role          Role
	RequiredRoles []Role
	Resource      string
	Method        string
	Reason        string
	Metadata      map[string]any
	OccurredAt    time.Time
}

// AuditSink consumes audit events. Sink failures never change a verdict.
type AuditSink interface {
	Record(ctx context.Context, event AuditEvent) error
}

// AuditSinkFunc adapts a function to the AuditSink interface.
type AuditSinkFunc func(ctx context.Context, event AuditEvent) error

// Record implements AuditSink.
func (f AuditSinkFunc) Record(ctx context.Context, event AuditEvent) error {
	if f == nil {
		return nil
	}
	return f(ctx, event)
}

type noopAuditSink struct{}

func (noopAuditSink) Record(context.Context, AuditEvent) error {
	return nil
}

func normalizeAuditSink(s AuditSink) AuditSink {
	if s == nil {
		return noopAuditSink{}
	}
	return s
}

// AuditDispatcher decouples verdict latency from the backing sink. Events
// are queued on a bounded channel and drained by a single worker; when the
// queue is full the event is dropped and counted rather than blocking the
// request path.
type AuditDispatcher struct {
	sink    AuditSink
	logger  Logger
	events  chan AuditEvent
	dropped atomic.Uint64

	mu      sync.RWMutex
	closed  bool
	wg      sync.WaitGroup
	closing chan struct{}
}

// DefaultAuditBufferSize bounds the dispatcher queue when the caller does
// not size it.
const DefaultAuditBufferSize = 256

// NewAuditDispatcher starts a dispatcher draining into sink. bufferSize <= 0
// uses DefaultAuditBufferSize.
func NewAuditDispatcher(sink AuditSink, bufferSize int, logger Logger) *AuditDispatcher {
	if bufferSize <= 0 {
		bufferSize = DefaultAuditBufferSize
	}
	if logger == nil {
		logger = defLogger{}
	}

	d := &AuditDispatcher{
		sink:    normalizeAuditSink(sink),
		logger:  logger,
		events:  make(chan AuditEvent, bufferSize),
		closing: make(chan struct{}),
	}

	d.wg.Add(1)
	go d.run()

	return d
}

// Record implements AuditSink. It never blocks; a full queue drops the
// event and increments the drop counter. The read lock spans the enqueue
// so Close cannot finish draining between the closed check and the send.
func (d *AuditDispatcher) Record(ctx context.Context, event AuditEvent) error {
	d.mu.RLock()
	if d.closed {
		d.mu.RUnlock()
		return d.sink.Record(ctx, event)
	}
	defer d.mu.RUnlock()

	select {
	case d.events <- event:
		return nil
	default:
		d.dropped.Add(1)
		d.logger.Warn("audit dispatcher queue full, dropped %s event for %s", event.EventType, event.Subject)
		return nil
	}
}

// Dropped returns how many events were discarded due to a full queue.
func (d *AuditDispatcher) Dropped() uint64 {
	return d.dropped.Load()
}

// Close drains queued events and stops the worker. Events recorded after
// Close are written synchronously to the sink.
func (d *AuditDispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	d.mu.Unlock()

	close(d.closing)
	d.wg.Wait()
}

func (d *AuditDispatcher) run() {
	defer d.wg.Done()
	for {
		select {
		case event := <-d.events:
			d.record(event)
		case <-d.closing:
			for {
				select {
				case event := <-d.events:
					d.record(event)
				default:
					return
				}
			}
		}
	}
}

func (d *AuditDispatcher) record(event AuditEvent) {
	if err := d.sink.Record(context.Background(), event); err != nil {
		d.logger.Error("audit sink record failed: %v", err)
	}
}
