// Package supervisor is a BEAM-style supervision tree: a Supervisor owns
// a set of Children, restarts them according to a Strategy
// (OneForOne/OneForAll/RestForOne) and a backoff + restart-intensity
// limit, and polls their health on an optional timer. It generalizes
// FergusInLondon-go-supervise's "restart a bare Supervisable goroutine
// forever" into "restart a Child according to its own RestartPolicy,
// bounded by a restart intensity window".
package supervisor

import (
	"context"
	"time"

	"github.com/lguibr/actority/id"
)

// RestartPolicy controls whether a Child is restarted after Start
// returns, and under what circumstances.
type RestartPolicy int

const (
	// Permanent restarts the child whenever Start returns, whether it
	// returned an error or nil.
	Permanent RestartPolicy = iota
	// Transient restarts the child only if Start returned a non-nil
	// error; a clean (nil) return is treated as intentional and final.
	Transient
	// Temporary never restarts the child, regardless of how Start
	// returns.
	Temporary
)

func (p RestartPolicy) String() string {
	switch p {
	case Permanent:
		return "Permanent"
	case Transient:
		return "Transient"
	case Temporary:
		return "Temporary"
	default:
		return "Unknown"
	}
}

// ShutdownPolicy controls how long Stop is given before the supervisor
// gives up waiting on a child during a coordinated stop.
type ShutdownPolicy struct {
	Timeout            time.Duration
	ForceKillOnTimeout bool
}

// HealthStatus is the result of a Child's HealthCheck. Degraded and Failed
// carry their reason in the error HealthCheck returns alongside the
// status, rather than as a payload on the status value itself — Go has
// no enum-with-payload, and an accompanying error is the idiomatic
// stand-in (matches how the rest of the package reports reasons via
// SupervisionEvent.Reason).
type HealthStatus int

const (
	Healthy HealthStatus = iota
	Degraded
	Failed
)

func (h HealthStatus) String() string {
	switch h {
	case Healthy:
		return "Healthy"
	case Degraded:
		return "Degraded"
	case Failed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// HealthConfig drives a supervisor's background health-check loop. A
// zero CheckInterval disables the loop entirely.
type HealthConfig struct {
	CheckInterval    time.Duration
	CheckTimeout     time.Duration
	FailureThreshold int
}

// ChildSpec declares one child's identity and restart/shutdown policy.
// Significant marks a child whose termination without a restart (its
// RestartPolicy declines one) makes the supervisor terminate itself with
// an *EscalatedError, mirroring OTP's "significant child" semantics for
// supervisor trees.
type ChildSpec struct {
	ID            id.ChildId
	RestartPolicy RestartPolicy
	Shutdown      ShutdownPolicy
	Significant   bool
}

// Child is a unit of supervised work. Start must block for the
// lifetime of the child, returning nil on a clean stop (requested via
// Stop, or the context given to Start being cancelled by the
// supervisor) or a non-nil error on failure. Start must return
// promptly once its context is cancelled.
type Child interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context, timeout time.Duration) error
	HealthCheck(ctx context.Context) (HealthStatus, error)
}
