// Package actority is an Erlang/OTP-inspired, single-process, cooperative
// actor runtime: typed mailboxes with backpressure, a pub/sub + request
// /reply broker, supervisor trees with BEAM-style restart strategies, and
// a generic monitoring layer.
package actority

import (
	"github.com/lguibr/actority/envelope"
)

// ErrorAction is returned by an actor's ErrorHandler hook (or assumed to
// be Restart if the actor does not implement one) to tell the actor
// system how to respond to an error from HandleMessage.
type ErrorAction int

const (
	// Resume leaves the actor running and discards the error.
	Resume ErrorAction = iota
	// Restart stops and restarts the actor (the default).
	Restart
	// Stop stops the actor permanently.
	Stop
	// Escalate surfaces the error to the actor's supervisor.
	Escalate
)

func (a ErrorAction) String() string {
	switch a {
	case Resume:
		return "Resume"
	case Restart:
		return "Restart"
	case Stop:
		return "Stop"
	case Escalate:
		return "Escalate"
	default:
		return "Unknown"
	}
}

// Actor is the behavior every spawned actor implements. HandleMessage
// runs sequentially: the actor system guarantees that no two invocations
// for the same actor instance overlap in time.
type Actor[M envelope.Message] interface {
	HandleMessage(ctx Context[M], msg M) error
}

// PreStarter is an optional hook run once before an actor's message loop
// begins processing, and again each time the actor is restarted.
type PreStarter[M envelope.Message] interface {
	PreStart(ctx Context[M]) error
}

// PostStopper is an optional hook run once after an actor's message loop
// has fully stopped, best-effort even on forced shutdown.
type PostStopper[M envelope.Message] interface {
	PostStop(ctx Context[M])
}

// ErrorHandler is an optional hook consulted whenever HandleMessage (or a
// panic recovered from it) returns a non-nil error. If an actor does not
// implement ErrorHandler, the runtime behaves as though it returned
// Restart for every error.
type ErrorHandler[M envelope.Message] interface {
	OnError(err error, ctx Context[M]) ErrorAction
}
