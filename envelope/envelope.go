// Package envelope carries message payloads plus the metadata the rest of
// actority needs to route, correlate and expire them.
package envelope

import (
	"time"

	"github.com/lguibr/actority/id"
)

// Priority orders delivery hints for a message. The runtime never reorders
// on priority by itself; strategies built on top of a mailbox may.
type Priority int

const (
	Low Priority = iota
	Normal
	High
	Urgent
)

func (p Priority) String() string {
	switch p {
	case Low:
		return "Low"
	case Normal:
		return "Normal"
	case High:
		return "High"
	case Urgent:
		return "Urgent"
	default:
		return "Unknown"
	}
}

// Message is the minimal contract a payload type must satisfy: a
// compile-time type tag used for recording and diagnostics. The runtime
// never inspects payload fields beyond this.
type Message interface {
	MessageType() string
}

// Envelope wraps a payload of type M with routing and lifecycle metadata.
// Envelopes are built with a fluent, order-independent builder; the
// builder never observes the payload's internal fields, only stamps
// metadata alongside it.
type Envelope[M Message] struct {
	ID            id.MessageId
	Payload       M
	Priority      Priority
	CreatedAt     time.Time
	Sender        *id.ActorAddress
	ReplyTo       *id.ActorAddress
	CorrelationID *id.RequestId
	TTL           *time.Duration
}

// New starts a builder for an envelope carrying payload, stamping a fresh
// MessageId and the current time as CreatedAt.
func New[M Message](payload M) *Envelope[M] {
	return &Envelope[M]{
		ID:        id.NewMessageId(),
		Payload:   payload,
		Priority:  Normal,
		CreatedAt: time.Now(),
	}
}

// WithSender stamps the sending actor's address.
func (e *Envelope[M]) WithSender(addr id.ActorAddress) *Envelope[M] {
	e.Sender = &addr
	return e
}

// WithReplyTo stamps the address a reply should be published to.
func (e *Envelope[M]) WithReplyTo(addr id.ActorAddress) *Envelope[M] {
	e.ReplyTo = &addr
	return e
}

// WithCorrelationID stamps the request id this envelope answers or
// originates.
func (e *Envelope[M]) WithCorrelationID(rid id.RequestId) *Envelope[M] {
	e.CorrelationID = &rid
	return e
}

// WithTTL stamps a time-to-live relative to CreatedAt.
func (e *Envelope[M]) WithTTL(ttl time.Duration) *Envelope[M] {
	e.TTL = &ttl
	return e
}

// WithPriority overrides the default Normal priority.
func (e *Envelope[M]) WithPriority(p Priority) *Envelope[M] {
	e.Priority = p
	return e
}

// Expired reports whether the envelope's TTL (if any) has elapsed as of
// now. Callers must pass a single, consistently-sourced clock for a given
// mailbox to avoid time-travel expirations (spec invariant: a mailbox uses
// one clock source throughout its lifetime).
func (e *Envelope[M]) Expired(now time.Time) bool {
	if e.TTL == nil {
		return false
	}
	return now.Sub(e.CreatedAt) >= *e.TTL
}
