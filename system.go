package actority

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lguibr/actority/broker"
	"github.com/lguibr/actority/envelope"
	"github.com/lguibr/actority/id"
	"github.com/lguibr/actority/logging"
	"github.com/lguibr/actority/mailbox"
	"github.com/lguibr/actority/monitor"
	"golang.org/x/sync/errgroup"
)

// drainPollInterval is how often a draining actor's mailbox depth is
// polled during a graceful Shutdown, to close it as soon as it empties
// rather than waiting out the full deadline.
const drainPollInterval = 2 * time.Millisecond

// systemState is System's own lifecycle, distinct from an individual
// actor's Lifecycle.
type systemState int32

const (
	sysRunning systemState = iota
	sysShuttingDown
	sysStopped
)

// SpawnOptions configures a single actor spawned into a System.
type SpawnOptions[M envelope.Message] struct {
	// Actor is the behavior to run. Required.
	Actor Actor[M]
	// Address is the address the actor subscribes under. Required;
	// Spawn returns ErrAddressInUse if it collides with a live actor.
	Address id.ActorAddress
	// MailboxCapacity, if > 0, spawns a Bounded mailbox of that capacity
	// using Strategy. If <= 0, spawns an Unbounded mailbox and Strategy
	// is ignored.
	MailboxCapacity int
	// Strategy is the backpressure strategy for a bounded mailbox.
	Strategy mailbox.Strategy
	// MailboxMetrics overrides the mailbox's metrics recorder. Nil uses
	// a fresh mailbox.AtomicRecorder.
	MailboxMetrics mailbox.MetricsRecorder
	// Clock overrides the mailbox's TTL clock. Nil uses time.Now.
	Clock func() time.Time
}

// System owns a broker handle and every actor spawned onto it, bridging
// broker deliveries into each actor's mailbox and driving its message
// loop. A System is safe for concurrent use.
type System[M envelope.Message] struct {
	b        broker.Broker[M]
	mon      monitor.Monitor[monitor.SystemEvent]
	actorMon monitor.Monitor[monitor.ActorEvent]

	state atomic.Int32

	mu     sync.Mutex
	actors map[string]*actorHandle[M]
	byID   map[id.ActorId]*actorHandle[M]
	eg     *errgroup.Group
	egCtx  context.Context
	egStop context.CancelFunc
}

// NewSystem constructs a System running on top of b. mon, if non-nil, is
// recorded to at start and at both ends of Shutdown; pass
// monitor.Noop[monitor.SystemEvent]{} to disable it explicitly. actorMon
// records per-actor lifecycle events (spawn, restart, panic); nil
// installs monitor.Noop[monitor.ActorEvent]{}.
func NewSystem[M envelope.Message](b broker.Broker[M], mon monitor.Monitor[monitor.SystemEvent], actorMon monitor.Monitor[monitor.ActorEvent]) *System[M] {
	if mon == nil {
		mon = monitor.Noop[monitor.SystemEvent]{}
	}
	if actorMon == nil {
		actorMon = monitor.Noop[monitor.ActorEvent]{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	eg, egCtx := errgroup.WithContext(ctx)
	s := &System[M]{
		b:        b,
		mon:      mon,
		actorMon: actorMon,
		actors:   make(map[string]*actorHandle[M]),
		byID:     make(map[id.ActorId]*actorHandle[M]),
		eg:       eg,
		egCtx:    egCtx,
		egStop:   cancel,
	}
	s.state.Store(int32(sysRunning))
	s.mon.Record(monitor.SystemEvent{Kind: monitor.SystemStarted, At: time.Now()})
	return s
}

func (s *System[M]) state_() systemState { return systemState(s.state.Load()) }

// actorHandle is the system's bookkeeping for one spawned actor: its
// mailbox, its broker subscription, and the two goroutines (router,
// loop) that drive it.
type actorHandle[M envelope.Message] struct {
	id     id.ActorId
	addr   id.ActorAddress
	actor  Actor[M]
	mb     mailbox.Mailbox[M]
	sub    <-chan *envelope.Envelope[M]
	cancel func()

	lifecycle *Lifecycle

	routerDone atomic.Bool

	errMu   sync.Mutex
	lastErr error
}

func (h *actorHandle[M]) recordErr(err error) {
	h.errMu.Lock()
	h.lastErr = err
	h.errMu.Unlock()
}

// LastError returns the most recent error surfaced from HandleMessage,
// PreStart, or a recovered panic, or nil if none has occurred.
func (h *actorHandle[M]) LastError() error {
	h.errMu.Lock()
	defer h.errMu.Unlock()
	return h.lastErr
}

// Spawn starts a new actor under opts, returning its assigned id.
// Returns ErrShuttingDown once Shutdown has begun, ErrAddressInUse if
// opts.Address collides with a live actor, or ErrSpawnFailed (wrapped
// with the specific reason) if opts.Actor is nil or opts.Address is a
// Named address with an empty name.
func (s *System[M]) Spawn(opts SpawnOptions[M]) (id.ActorId, error) {
	if s.state_() != sysRunning {
		return id.ActorId{}, ErrShuttingDown
	}
	if opts.Actor == nil {
		return id.ActorId{}, fmt.Errorf("%w: nil Actor", ErrSpawnFailed)
	}
	if name, ok := opts.Address.Name(); ok && name == "" {
		return id.ActorId{}, fmt.Errorf("%w: empty Named address", ErrSpawnFailed)
	}

	key := opts.Address.Key()

	s.mu.Lock()
	if _, exists := s.actors[key]; exists {
		s.mu.Unlock()
		return id.ActorId{}, ErrAddressInUse
	}

	var mb mailbox.Mailbox[M]
	if opts.MailboxCapacity > 0 {
		mb = mailbox.NewBounded[M](opts.MailboxCapacity, opts.Strategy, opts.MailboxMetrics, opts.Clock)
	} else {
		mb = mailbox.NewUnbounded[M](opts.MailboxMetrics, opts.Clock)
	}

	sub, cancel := s.b.Subscribe(opts.Address)

	h := &actorHandle[M]{
		id:        id.NewActorId(),
		addr:      opts.Address,
		actor:     opts.Actor,
		mb:        mb,
		sub:       sub,
		cancel:    cancel,
		lifecycle: NewLifecycle(),
	}
	s.actors[key] = h
	s.byID[h.id] = h
	s.mu.Unlock()

	s.eg.Go(func() error { return s.router(h) })
	s.eg.Go(func() error { return s.loop(h) })

	s.actorMon.Record(monitor.ActorEvent{
		Kind: monitor.ActorSpawned, ActorID: h.id, Detail: opts.Address.String(), At: time.Now(),
	})

	return h.id, nil
}

// router drains the broker subscription into the actor's mailbox,
// applying the mailbox's own backpressure strategy. An envelope the
// mailbox rejects with ErrFull is logged and dropped, and routing goes
// on. It exits when the subscription channel is closed (Subscribe's
// cancel was called), the system's shutdown context fires, or the
// mailbox rejects an envelope with any other error.
func (s *System[M]) router(h *actorHandle[M]) error {
	defer h.routerDone.Store(true)
	for {
		select {
		case env, ok := <-h.sub:
			if !ok {
				return nil
			}
			if err := h.mb.Send(s.egCtx, env); err != nil {
				logging.Printf("actority: dropping envelope for %s: %v", h.addr, err)
				if err != mailbox.ErrFull {
					return nil
				}
			}
		case <-s.egCtx.Done():
			return nil
		}
	}
}

// loop is the single consumer of the actor's mailbox: it calls
// PreStart once, then HandleMessage for every non-expired envelope in
// order, one at a time, until the mailbox closes or the shutdown
// context fires, then calls PostStop.
func (s *System[M]) loop(h *actorHandle[M]) error {
	newCtx := func(env *envelope.Envelope[M]) *actorContext[M] {
		return newActorContext[M](s.egCtx, h.addr, s.b, env, h.lifecycle)
	}

	if ps, ok := h.actor.(PreStarter[M]); ok {
		if err := ps.PreStart(newCtx(nil)); err != nil {
			h.recordErr(err)
			_ = h.lifecycle.Transition(Failed)
		}
	}
	if h.lifecycle.State() != Failed {
		_ = h.lifecycle.Transition(Running)
	}

runLoop:
	for h.lifecycle.State() == Running {
		env, err := h.mb.Receive(s.egCtx)
		if err != nil {
			break runLoop
		}
		h.lifecycle.RecordMessage()

		handleErr := h.invoke(newCtx, env)
		if handleErr == nil {
			continue
		}

		action := Restart
		if eh, ok := h.actor.(ErrorHandler[M]); ok {
			action = eh.OnError(handleErr, newCtx(env))
		}
		h.recordErr(handleErr)
		s.actorMon.Record(monitor.ActorEvent{
			Kind: monitor.ActorPanicked, ActorID: h.id, Detail: handleErr.Error(), At: time.Now(),
		})

		switch action {
		case Resume:
			continue
		case Restart:
			_ = h.lifecycle.Transition(Failed)
			_ = h.lifecycle.Transition(Starting)
			s.actorMon.Record(monitor.ActorEvent{
				Kind: monitor.ActorStateChanged, ActorID: h.id, Detail: "restarting", At: time.Now(),
			})
			if ps, ok := h.actor.(PreStarter[M]); ok {
				if err := ps.PreStart(newCtx(nil)); err != nil {
					h.recordErr(err)
					_ = h.lifecycle.Transition(Failed)
					break runLoop
				}
			}
			_ = h.lifecycle.Transition(Running)
		case Stop, Escalate:
			_ = h.lifecycle.Transition(Failed)
			if action == Escalate {
				h.recordErr(&SupervisorError{Source: handleErr})
			}
			break runLoop
		}
	}

	switch h.lifecycle.State() {
	case Running:
		_ = h.lifecycle.Transition(Stopping)
		_ = h.lifecycle.Transition(Stopped)
	case Failed:
		_ = h.lifecycle.Transition(Stopped)
	}

	if pp, ok := h.actor.(PostStopper[M]); ok {
		pp.PostStop(newCtx(nil))
	}

	// Stop the router too: cancelling the subscription closes its input
	// and closing the mailbox releases a router blocked in Send.
	h.cancel()
	h.mb.Close()

	s.mu.Lock()
	delete(s.actors, h.addr.Key())
	// byID intentionally keeps the handle after it stops so LastError and
	// Lifecycle stay queryable post-mortem (an Escalate action needs a
	// window for a host to observe it); the address is freed immediately
	// so a new actor can be spawned there.
	s.mu.Unlock()

	return nil
}

// invoke calls HandleMessage, recovering any panic and converting it to
// an error so a single misbehaving actor can never take down its
// router/loop goroutines uncleanly.
func (h *actorHandle[M]) invoke(newCtx func(*envelope.Envelope[M]) *actorContext[M], env *envelope.Envelope[M]) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("actority: panic in HandleMessage: %v", r)
		}
	}()
	return h.actor.HandleMessage(newCtx(env), env.Payload)
}

// ActorCount returns the number of currently live actors.
func (s *System[M]) ActorCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.actors)
}

// Lifecycle returns a snapshot of actorID's lifecycle, or false if
// actorID was never spawned on this System. The snapshot remains
// available after the actor stops.
func (s *System[M]) Lifecycle(actorID id.ActorId) (LifecycleSnapshot, bool) {
	s.mu.Lock()
	h, ok := s.byID[actorID]
	s.mu.Unlock()
	if !ok {
		return LifecycleSnapshot{}, false
	}
	return h.lifecycle.Snapshot(), true
}

// LastError returns the most recent error surfaced from actorID's
// HandleMessage, PreStart, or a recovered panic, or false if actorID was
// never spawned on this System or it has not yet errored. An Escalate
// action wraps the error in *SupervisorError before it is recorded
// here, so a host embedding a System as a supervisor.Child can
// distinguish an escalated failure from an ordinary recorded error with
// errors.As.
func (s *System[M]) LastError(actorID id.ActorId) (error, bool) {
	s.mu.Lock()
	h, ok := s.byID[actorID]
	s.mu.Unlock()
	if !ok {
		return nil, false
	}
	err := h.LastError()
	return err, err != nil
}

// Shutdown stops every live actor. If graceful, each actor's broker
// subscription is cancelled immediately (no further inbound envelopes)
// but its mailbox is left open until it drains or ctx is done,
// whichever comes first; already-enqueued envelopes are still handled.
// If not graceful, every mailbox is closed immediately, abandoning
// whatever is still queued. Shutdown is idempotent: calling it again
// after shutdown has begun is a no-op.
func (s *System[M]) Shutdown(ctx context.Context, graceful bool) error {
	if !s.state.CompareAndSwap(int32(sysRunning), int32(sysShuttingDown)) {
		return nil
	}
	s.mon.Record(monitor.SystemEvent{Kind: monitor.SystemShutdownBegin, At: time.Now()})

	s.mu.Lock()
	handles := make([]*actorHandle[M], 0, len(s.actors))
	for _, h := range s.actors {
		handles = append(handles, h)
	}
	s.mu.Unlock()

	for _, h := range handles {
		h := h
		h.cancel()
		if graceful {
			s.eg.Go(func() error {
				s.awaitDrainThenClose(ctx, h)
				return nil
			})
		} else {
			h.mb.Close()
		}
	}

	_ = s.eg.Wait()
	s.egStop()

	s.mon.Record(monitor.SystemEvent{Kind: monitor.SystemShutdownEnd, At: time.Now()})
	s.state.Store(int32(sysStopped))
	return nil
}

// awaitDrainThenClose closes h's mailbox as soon as its router has
// exited and its queue is empty, or when ctx is done, whichever comes
// first — giving a graceful shutdown a fast path instead of always
// waiting out the full deadline.
func (s *System[M]) awaitDrainThenClose(ctx context.Context, h *actorHandle[M]) {
	ticker := time.NewTicker(drainPollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			h.mb.Close()
			return
		case <-ticker.C:
			if h.routerDone.Load() && h.mb.Metrics().CurrentDepth == 0 {
				h.mb.Close()
				return
			}
		}
	}
}
