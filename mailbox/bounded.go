package mailbox

import (
	"context"
	"sync"
	"time"

	"github.com/lguibr/actority/envelope"
)

// Bounded is a fixed-capacity Mailbox with a configurable backpressure
// Strategy applied when Send is called at capacity.
type Bounded[M envelope.Message] struct {
	ch       chan *envelope.Envelope[M]
	strategy Strategy
	recorder MetricsRecorder
	clock    func() time.Time

	mu     sync.Mutex
	closed bool
	done   chan struct{}
}

// NewBounded creates a Bounded mailbox with the given capacity (must be >
// 0) and backpressure strategy, recording metrics via recorder. If
// recorder is nil, a fresh AtomicRecorder is used. If clock is nil,
// time.Now is used.
func NewBounded[M envelope.Message](capacity int, strategy Strategy, recorder MetricsRecorder, clock func() time.Time) *Bounded[M] {
	if capacity <= 0 {
		panic("mailbox: bounded capacity must be > 0")
	}
	if recorder == nil {
		recorder = NewAtomicRecorder()
	}
	if clock == nil {
		clock = time.Now
	}
	return &Bounded[M]{
		ch:       make(chan *envelope.Envelope[M], capacity),
		strategy: strategy,
		recorder: recorder,
		clock:    clock,
		done:     make(chan struct{}),
	}
}

func (b *Bounded[M]) Send(ctx context.Context, env *envelope.Envelope[M]) error {
	b.mu.Lock()
	closed := b.closed
	b.mu.Unlock()
	if closed {
		return ErrClosed
	}

	switch b.strategy {
	case Drop:
		b.recorder.RecordEnqueue()
		select {
		case b.ch <- env:
			return nil
		default:
			b.recorder.RecordDrop()
			return nil
		}
	case Error:
		select {
		case b.ch <- env:
			b.recorder.RecordEnqueue()
			return nil
		default:
			return ErrFull
		}
	default: // Block
		select {
		case b.ch <- env:
			b.recorder.RecordEnqueue()
			return nil
		default:
			b.recorder.RecordBackpressure()
			select {
			case b.ch <- env:
				b.recorder.RecordEnqueue()
				return nil
			case <-b.done:
				return ErrClosed
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

func (b *Bounded[M]) Receive(ctx context.Context) (*envelope.Envelope[M], error) {
	for {
		select {
		case env, ok := <-b.ch:
			if !ok {
				return nil, ErrClosed
			}
			if env.Expired(b.clock()) {
				b.recorder.RecordExpire()
				continue
			}
			b.recorder.RecordDequeue()
			return env, nil
		case <-b.done:
			return nil, ErrClosed
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

func (b *Bounded[M]) TryReceive() (*envelope.Envelope[M], bool) {
	for {
		select {
		case env, ok := <-b.ch:
			if !ok {
				return nil, false
			}
			if env.Expired(b.clock()) {
				b.recorder.RecordExpire()
				continue
			}
			b.recorder.RecordDequeue()
			return env, true
		default:
			return nil, false
		}
	}
}

func (b *Bounded[M]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	close(b.done)
}

func (b *Bounded[M]) Metrics() Metrics { return b.recorder.Snapshot() }
