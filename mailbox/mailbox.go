// Package mailbox implements the per-actor FIFO envelope queue: bounded
// and unbounded variants, pluggable backpressure strategies, and a
// pluggable metrics recorder. Producers are multi-producer; the consumer
// of a given mailbox is always single (one actor loop task).
package mailbox

import (
	"context"

	"github.com/lguibr/actority/envelope"
)

// Strategy selects what a Bounded mailbox does when Send is called while
// the mailbox is at capacity. DropOldest/DropNewest are deliberately not
// offered: a single-consumer FIFO built on a Go channel cannot atomically
// evict its head while the consumer is concurrently receiving from it
// without a custom ring buffer and head lock, and that substrate swap is
// out of scope for this core (see design notes).
type Strategy int

const (
	// Block awaits until capacity frees up, or returns ErrClosed if the
	// mailbox is closed while waiting.
	Block Strategy = iota
	// Drop returns success but discards the envelope and increments the
	// dropped counter.
	Drop
	// Error returns ErrFull immediately without enqueuing.
	Error
)

func (s Strategy) String() string {
	switch s {
	case Block:
		return "Block"
	case Drop:
		return "Drop"
	case Error:
		return "Error"
	default:
		return "Unknown"
	}
}

// Mailbox is a FIFO queue of envelopes carrying payload type M.
type Mailbox[M envelope.Message] interface {
	// Send enqueues an envelope according to the mailbox's backpressure
	// strategy (bounded) or unconditionally (unbounded).
	Send(ctx context.Context, env *envelope.Envelope[M]) error
	// Receive dequeues the next non-expired envelope, blocking until one
	// is available, the context is cancelled, or the mailbox is closed.
	// Expired envelopes are discarded (incrementing the expired counter)
	// and the call continues to the next envelope transparently.
	Receive(ctx context.Context) (*envelope.Envelope[M], error)
	// TryReceive dequeues without blocking; ok is false if the mailbox is
	// currently empty.
	TryReceive() (env *envelope.Envelope[M], ok bool)
	// Close marks the mailbox closed: pending Sends/Receives unblock with
	// ErrClosed, and all subsequent calls fail the same way.
	Close()
	// Metrics returns a point-in-time snapshot of the mailbox's counters.
	Metrics() Metrics
}
