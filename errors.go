package actority

import "errors"

// System-level error taxonomy. Mailbox and broker errors live in their
// own packages (mailbox.ErrFull/ErrClosed,
// broker.ErrTimeout/ErrNoRecipient/...); these are the errors a System
// or Actor can surface directly. ErrSpawnFailed is a wrapping sentinel:
// Spawn returns fmt.Errorf("%w: ...", ErrSpawnFailed) with the specific
// reason, so callers can errors.Is against it without string-matching.
var (
	ErrShuttingDown = errors.New("actority: system is shutting down")
	ErrSpawnFailed  = errors.New("actority: spawn failed")
	ErrAddressInUse = errors.New("actority: address already registered")
	ErrNoReplyTo    = errors.New("actority: current envelope has no reply-to address")
)

// SupervisorError wraps an error escalated from a child or from a
// supervisor's own internal failure, preserving the original cause for
// errors.Is/errors.As.
type SupervisorError struct {
	Source error
}

func (e *SupervisorError) Error() string { return "actority: supervisor error: " + e.Source.Error() }
func (e *SupervisorError) Unwrap() error { return e.Source }
