package supervisor

import (
	"errors"

	"github.com/lguibr/actority/id"
)

// Sentinel errors a Supervisor can surface.
var (
	ErrAlreadyStarted      = errors.New("supervisor: already started")
	ErrUnknownChild        = errors.New("supervisor: unknown child id")
	ErrDuplicateChild      = errors.New("supervisor: duplicate child id")
	ErrChildStartFailed    = errors.New("supervisor: child start failed")
	ErrRestartLimitReached = errors.New("supervisor: restart limit reached")
	ErrStrategyFailure     = errors.New("supervisor: strategy decision referenced an unknown child")
)

// EscalatedError wraps the cause of a supervisor's self-termination
// (restart limit reached, or a significant child terminating without
// being restarted) so a parent supervisor's own failure handling — or a
// caller awaiting Start directly — can inspect the original error via
// errors.Is/errors.As while still reporting which supervisor escalated.
type EscalatedError struct {
	SupervisorID id.SupervisorId
	Source       error
}

func (e *EscalatedError) Error() string {
	return "supervisor: " + e.SupervisorID.String() + " escalated: " + e.Source.Error()
}

func (e *EscalatedError) Unwrap() error { return e.Source }
