package monitor

import (
	"time"

	"github.com/lguibr/actority/id"
)

// SupervisionKind enumerates the supervision lifecycle points the spec
// requires emission at (§4.7).
type SupervisionKind int

const (
	ChildStarted SupervisionKind = iota
	ChildStopped
	ChildFailed
	ChildRestarted
	RestartLimitReached
	HealthCheckPassed
	HealthCheckFailed
)

func (k SupervisionKind) String() string {
	switch k {
	case ChildStarted:
		return "ChildStarted"
	case ChildStopped:
		return "ChildStopped"
	case ChildFailed:
		return "ChildFailed"
	case ChildRestarted:
		return "ChildRestarted"
	case RestartLimitReached:
		return "RestartLimitReached"
	case HealthCheckPassed:
		return "HealthCheckPassed"
	case HealthCheckFailed:
		return "HealthCheckFailed"
	default:
		return "Unknown"
	}
}

// SupervisionEvent is emitted by a supervisor at child lifecycle points.
type SupervisionEvent struct {
	Kind         SupervisionKind
	SupervisorID id.SupervisorId
	ChildID      id.ChildId
	Reason       string
	At           time.Time
}

func (e SupervisionEvent) EventType() string   { return "supervision." + e.Kind.String() }
func (e SupervisionEvent) Timestamp() time.Time { return e.At }
func (e SupervisionEvent) Severity() Severity {
	switch e.Kind {
	case ChildFailed, RestartLimitReached, HealthCheckFailed:
		return ErrorSeverity
	case ChildRestarted:
		return Warn
	default:
		return Info
	}
}

// ActorKind enumerates actor lifecycle points worth recording.
type ActorKind int

const (
	ActorSpawned ActorKind = iota
	ActorStateChanged
	ActorMessageHandled
	ActorPanicked
)

func (k ActorKind) String() string {
	switch k {
	case ActorSpawned:
		return "ActorSpawned"
	case ActorStateChanged:
		return "ActorStateChanged"
	case ActorMessageHandled:
		return "ActorMessageHandled"
	case ActorPanicked:
		return "ActorPanicked"
	default:
		return "Unknown"
	}
}

// ActorEvent is emitted by the actor system at per-actor lifecycle points.
type ActorEvent struct {
	Kind    ActorKind
	ActorID id.ActorId
	Detail  string
	At      time.Time
}

func (e ActorEvent) EventType() string    { return "actor." + e.Kind.String() }
func (e ActorEvent) Timestamp() time.Time { return e.At }
func (e ActorEvent) Severity() Severity {
	if e.Kind == ActorPanicked {
		return ErrorSeverity
	}
	return Info
}

// SystemKind enumerates actor-system-wide lifecycle points.
type SystemKind int

const (
	SystemStarted SystemKind = iota
	SystemShutdownBegin
	SystemShutdownEnd
)

func (k SystemKind) String() string {
	switch k {
	case SystemStarted:
		return "SystemStarted"
	case SystemShutdownBegin:
		return "SystemShutdownBegin"
	case SystemShutdownEnd:
		return "SystemShutdownEnd"
	default:
		return "Unknown"
	}
}

// SystemEvent is emitted by the actor system at start/shutdown.
type SystemEvent struct {
	Kind SystemKind
	At   time.Time
}

func (e SystemEvent) EventType() string    { return "system." + e.Kind.String() }
func (e SystemEvent) Timestamp() time.Time { return e.At }
func (e SystemEvent) Severity() Severity   { return Info }

// BrokerKind enumerates broker-level points a host may wish to observe.
type BrokerKind int

const (
	BrokerPublished BrokerKind = iota
	BrokerSubscribed
	BrokerUnsubscribed
)

func (k BrokerKind) String() string {
	switch k {
	case BrokerPublished:
		return "BrokerPublished"
	case BrokerSubscribed:
		return "BrokerSubscribed"
	case BrokerUnsubscribed:
		return "BrokerUnsubscribed"
	default:
		return "Unknown"
	}
}

// BrokerEvent is an optional broker-level observation.
type BrokerEvent struct {
	Kind    BrokerKind
	Address string
	At      time.Time
}

func (e BrokerEvent) EventType() string    { return "broker." + e.Kind.String() }
func (e BrokerEvent) Timestamp() time.Time { return e.At }
func (e BrokerEvent) Severity() Severity   { return Info }

// MailboxKind enumerates mailbox-level points a host may wish to observe.
type MailboxKind int

const (
	MailboxDropped MailboxKind = iota
	MailboxExpired
	MailboxBackpressure
)

func (k MailboxKind) String() string {
	switch k {
	case MailboxDropped:
		return "MailboxDropped"
	case MailboxExpired:
		return "MailboxExpired"
	case MailboxBackpressure:
		return "MailboxBackpressure"
	default:
		return "Unknown"
	}
}

// MailboxEvent is an optional mailbox-level observation.
type MailboxEvent struct {
	Kind MailboxKind
	At   time.Time
}

func (e MailboxEvent) EventType() string    { return "mailbox." + e.Kind.String() }
func (e MailboxEvent) Timestamp() time.Time { return e.At }
func (e MailboxEvent) Severity() Severity   { return Warn }
