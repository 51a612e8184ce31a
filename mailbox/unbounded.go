package mailbox

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/lguibr/actority/envelope"
)

// Unbounded is a Mailbox with no capacity limit: Send always accepts.
// Envelopes may still expire and be discarded on Receive/TryReceive.
type Unbounded[M envelope.Message] struct {
	mu       sync.Mutex
	queue    *list.List
	closed   bool
	signal   chan struct{} // closed and replaced whenever state changes
	recorder MetricsRecorder
	clock    func() time.Time
}

// NewUnbounded creates an Unbounded mailbox recording metrics via
// recorder (a fresh AtomicRecorder if nil), using clock for TTL checks
// (time.Now if nil).
func NewUnbounded[M envelope.Message](recorder MetricsRecorder, clock func() time.Time) *Unbounded[M] {
	if recorder == nil {
		recorder = NewAtomicRecorder()
	}
	if clock == nil {
		clock = time.Now
	}
	return &Unbounded[M]{
		queue:    list.New(),
		signal:   make(chan struct{}),
		recorder: recorder,
		clock:    clock,
	}
}

// wake closes the current signal channel (waking every blocked waiter)
// and installs a fresh one. Callers must hold u.mu.
func (u *Unbounded[M]) wake() {
	close(u.signal)
	u.signal = make(chan struct{})
}

func (u *Unbounded[M]) Send(ctx context.Context, env *envelope.Envelope[M]) error {
	u.mu.Lock()
	if u.closed {
		u.mu.Unlock()
		return ErrClosed
	}
	u.queue.PushBack(env)
	u.recorder.RecordEnqueue()
	u.wake()
	u.mu.Unlock()
	return nil
}

func (u *Unbounded[M]) Receive(ctx context.Context) (*envelope.Envelope[M], error) {
	for {
		u.mu.Lock()
		for u.queue.Len() > 0 {
			front := u.queue.Front()
			u.queue.Remove(front)
			u.mu.Unlock()

			env := front.Value.(*envelope.Envelope[M])
			if env.Expired(u.clock()) {
				u.recorder.RecordExpire()
				u.mu.Lock()
				continue
			}
			u.recorder.RecordDequeue()
			return env, nil
		}
		if u.closed {
			u.mu.Unlock()
			return nil, ErrClosed
		}
		wait := u.signal
		u.mu.Unlock()

		select {
		case <-wait:
			// state changed; loop to re-check queue/closed.
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

func (u *Unbounded[M]) TryReceive() (*envelope.Envelope[M], bool) {
	u.mu.Lock()
	for u.queue.Len() > 0 {
		front := u.queue.Front()
		u.queue.Remove(front)
		u.mu.Unlock()

		env := front.Value.(*envelope.Envelope[M])
		if env.Expired(u.clock()) {
			u.recorder.RecordExpire()
			u.mu.Lock()
			continue
		}
		u.recorder.RecordDequeue()
		return env, true
	}
	u.mu.Unlock()
	return nil, false
}

func (u *Unbounded[M]) Close() {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.closed {
		return
	}
	u.closed = true
	u.wake()
}

func (u *Unbounded[M]) Metrics() Metrics { return u.recorder.Snapshot() }
