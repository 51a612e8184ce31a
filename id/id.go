// Package id provides the globally-unique identifiers used throughout
// actority: actors, messages, requests, children and supervisors are all
// identified by a 128-bit random id with a canonical 36-character textual
// form.
package id

import "github.com/google/uuid"

// ActorId uniquely identifies a spawned actor for the lifetime of the
// system that spawned it.
type ActorId struct{ v uuid.UUID }

// NewActorId generates a fresh, random ActorId.
func NewActorId() ActorId { return ActorId{v: uuid.New()} }

// String returns the canonical 36-character textual form.
func (a ActorId) String() string { return a.v.String() }

// IsZero reports whether the id is the unset zero value.
func (a ActorId) IsZero() bool { return a.v == uuid.Nil }

// MessageId uniquely identifies a single envelope.
type MessageId struct{ v uuid.UUID }

// NewMessageId generates a fresh, random MessageId.
func NewMessageId() MessageId { return MessageId{v: uuid.New()} }

func (m MessageId) String() string { return m.v.String() }
func (m MessageId) IsZero() bool   { return m.v == uuid.Nil }

// RequestId correlates a request envelope with its reply, and doubles as
// the broker's pending-request key.
type RequestId struct{ v uuid.UUID }

// NewRequestId generates a fresh, random RequestId.
func NewRequestId() RequestId { return RequestId{v: uuid.New()} }

func (r RequestId) String() string      { return r.v.String() }
func (r RequestId) IsZero() bool        { return r.v == uuid.Nil }
func (r RequestId) Equal(o RequestId) bool { return r.v == o.v }

// ChildId identifies a child (actor or nested supervisor) within a
// supervisor's spec list.
type ChildId struct{ v uuid.UUID }

// NewChildId generates a fresh, random ChildId.
func NewChildId() ChildId { return ChildId{v: uuid.New()} }

func (c ChildId) String() string    { return c.v.String() }
func (c ChildId) IsZero() bool      { return c.v == uuid.Nil }
func (c ChildId) Equal(o ChildId) bool { return c.v == o.v }

// SupervisorId identifies a supervisor node within a supervision tree
// registry.
type SupervisorId struct{ v uuid.UUID }

// NewSupervisorId generates a fresh, random SupervisorId.
func NewSupervisorId() SupervisorId { return SupervisorId{v: uuid.New()} }

func (s SupervisorId) String() string { return s.v.String() }
func (s SupervisorId) IsZero() bool   { return s.v == uuid.Nil }
func (s SupervisorId) Equal(o SupervisorId) bool { return s.v == o.v }
