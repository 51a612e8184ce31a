// Package wrapper gives actors that front a non-cloneable resource (a
// file handle, a DB connection, anything that cannot be safely copied
// into an envelope payload) a uniform request/response shape: the
// resource itself never leaves the owning actor, only Operation values
// and their Result go through the broker.
package wrapper

import "github.com/lguibr/actority/id"

// Request carries an Op (the caller's own operation enum/struct) through
// the broker to the actor that owns the resource Op describes an action
// against.
type Request[Op any] struct {
	RequestID id.RequestId
	Operation Op
}

// MessageType satisfies envelope.Message. Every Request[Op], regardless
// of Op, reports the same wire type; callers that need to distinguish
// operations do so on Operation itself, not on envelope routing.
func (Request[Op]) MessageType() string { return "wrapper.Request" }

// Response carries the Result of executing a Request[Op]'s Operation
// back to the original requester, correlated by RequestID.
type Response[R any] struct {
	RequestID id.RequestId
	Result    R
	Err       string
}

// MessageType satisfies envelope.Message.
func (Response[R]) MessageType() string { return "wrapper.Response" }
