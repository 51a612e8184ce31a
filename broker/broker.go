// Package broker implements the pub/sub fabric that actors and the actor
// system use to route envelopes, plus a race-free request/reply protocol
// layered on top via correlation ids.
package broker

import (
	"context"
	"sync"
	"time"

	"github.com/lguibr/actority/envelope"
	"github.com/lguibr/actority/id"
	"github.com/lguibr/actority/logging"
)

// subscriberBufferSize bounds how many envelopes can be queued for a
// subscriber before Publish blocks on delivering to it. Backpressure is
// the subscriber's own responsibility: the broker does not retry or
// drop, it simply blocks the publishing send until the subscriber (or
// its router task) drains the channel, or the caller's context expires.
const subscriberBufferSize = 64

type subscription[M envelope.Message] struct {
	ch   chan *envelope.Envelope[M]
	once sync.Once
}

func (s *subscription[M]) close() {
	s.once.Do(func() { close(s.ch) })
}

type pendingRequest[M envelope.Message] struct {
	reply chan *envelope.Envelope[M]
}

type brokerCore[M envelope.Message] struct {
	mu            sync.Mutex
	subscribers   map[string][]*subscription[M]
	pending       map[id.RequestId]*pendingRequest[M]
	strictRouting bool
}

// Broker is a pub/sub + request/reply fabric for envelopes carrying
// payload type M. Broker is a thin handle over shared state: copying a
// Broker by value shares the same underlying subscriber registry and
// pending-request table, the same way the teacher's Engine is shared by
// pointer — Broker just makes that sharing explicit and generic.
type Broker[M envelope.Message] struct {
	core *brokerCore[M]
}

// New constructs an empty Broker with no subscribers and no pending
// requests.
func New[M envelope.Message](opts ...Opt[M]) Broker[M] {
	core := &brokerCore[M]{
		subscribers: make(map[string][]*subscription[M]),
		pending:     make(map[id.RequestId]*pendingRequest[M]),
	}
	for _, o := range opts {
		o(core)
	}
	return Broker[M]{core: core}
}

// Opt configures a Broker[M] at construction time.
type Opt[M envelope.Message] func(*brokerCore[M])

// WithStrictRouting makes Publish return ErrNoRecipient when the target
// address has no subscribers, instead of the default no-op success. This
// answers the §9 open question on strict-routing mode.
func WithStrictRouting[M envelope.Message]() Opt[M] {
	return func(c *brokerCore[M]) { c.strictRouting = true }
}

// Subscribe registers interest in envelopes published to addr. The
// returned channel yields envelopes in the order the broker accepted
// them for addr; calling the returned cancel function deregisters the
// subscription and closes the channel, after which no further envelopes
// are delivered to it.
func (b Broker[M]) Subscribe(addr id.ActorAddress) (<-chan *envelope.Envelope[M], func()) {
	sub := &subscription[M]{ch: make(chan *envelope.Envelope[M], subscriberBufferSize)}

	key := addr.Key()
	b.core.mu.Lock()
	b.core.subscribers[key] = append(b.core.subscribers[key], sub)
	b.core.mu.Unlock()

	cancel := func() {
		b.core.mu.Lock()
		subs := b.core.subscribers[key]
		for i, s := range subs {
			if s == sub {
				b.core.subscribers[key] = append(subs[:i], subs[i+1:]...)
				break
			}
		}
		if len(b.core.subscribers[key]) == 0 {
			delete(b.core.subscribers, key)
		}
		b.core.mu.Unlock()
		sub.close()
	}
	return sub.ch, cancel
}

// Publish fans env out to every current subscriber of addr. Publishing
// to an address with no subscribers is a successful no-op unless the
// broker was constructed WithStrictRouting, in which case it returns
// ErrNoRecipient. If env carries a CorrelationID matching an outstanding
// pending request, that request's reply slot is fulfilled in addition to
// the normal subscriber fan-out.
func (b Broker[M]) Publish(ctx context.Context, env *envelope.Envelope[M], addr id.ActorAddress) error {
	if env.CorrelationID != nil {
		b.fulfillPending(*env.CorrelationID, env)
	}
	return b.fanOut(ctx, env, addr)
}

// fanOut delivers env to addr's current subscribers without consulting
// the pending-request table. PublishRequest uses this directly for the
// outbound request itself: that envelope already carries the
// CorrelationID it just registered a pending slot under, so running it
// through the fulfillPending check in Publish would have the request
// satisfy its own future the instant it is sent, racing ahead of
// whatever the real responder publishes back.
func (b Broker[M]) fanOut(ctx context.Context, env *envelope.Envelope[M], addr id.ActorAddress) error {
	b.core.mu.Lock()
	subs := append([]*subscription[M](nil), b.core.subscribers[addr.Key()]...)
	strict := b.core.strictRouting
	b.core.mu.Unlock()

	if len(subs) == 0 {
		if strict {
			logging.Printf("actority: broker rejecting publish to %s: no subscribers", addr)
			return ErrNoRecipient
		}
		return nil
	}

	for _, sub := range subs {
		select {
		case sub.ch <- env:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// fulfillPending atomically removes and delivers to a pending request
// slot, if one is registered for rid. At most one envelope is ever
// delivered to a given slot.
func (b Broker[M]) fulfillPending(rid id.RequestId, env *envelope.Envelope[M]) {
	b.core.mu.Lock()
	p, ok := b.core.pending[rid]
	if ok {
		delete(b.core.pending, rid)
	}
	b.core.mu.Unlock()
	if ok {
		p.reply <- env
	}
}

// PublishRequest allocates a RequestId (reusing env.CorrelationID if
// already set), registers a pending reply slot for it BEFORE publishing
// — never after — publishes env to addr, and awaits the first envelope
// correlated with that id, the timeout, or ctx cancellation, whichever
// happens first. The pending slot is removed exactly once, regardless of
// which of those three outcomes occurs.
func (b Broker[M]) PublishRequest(ctx context.Context, env *envelope.Envelope[M], addr id.ActorAddress, timeout time.Duration) (*envelope.Envelope[M], error) {
	var rid id.RequestId
	if env.CorrelationID != nil {
		rid = *env.CorrelationID
	} else {
		rid = id.NewRequestId()
		env = env.WithCorrelationID(rid)
	}

	slot := &pendingRequest[M]{reply: make(chan *envelope.Envelope[M], 1)}

	b.core.mu.Lock()
	if _, exists := b.core.pending[rid]; exists {
		b.core.mu.Unlock()
		return nil, ErrAlreadyRegistered
	}
	b.core.pending[rid] = slot
	b.core.mu.Unlock()

	removeSlot := func() {
		b.core.mu.Lock()
		if cur, ok := b.core.pending[rid]; ok && cur == slot {
			delete(b.core.pending, rid)
		}
		b.core.mu.Unlock()
	}

	if err := b.fanOut(ctx, env, addr); err != nil {
		removeSlot()
		return nil, err
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case reply := <-slot.reply:
		return reply, nil
	case <-timer.C:
		removeSlot()
		logging.Printf("actority: request %s to %s timed out after %s", rid, addr, timeout)
		return nil, ErrTimeout
	case <-ctx.Done():
		removeSlot()
		return nil, ctx.Err()
	}
}
