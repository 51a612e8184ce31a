package supervisor

import "github.com/lguibr/actority/id"

// DecisionKind identifies why Strategy.Decide is being consulted.
type DecisionKind int

const (
	// SingleFailure means ChildID's Start returned (with or without an
	// error) and the strategy must decide what to stop/restart.
	SingleFailure DecisionKind = iota
	// ManualRestart means a caller explicitly requested ChildID be
	// restarted, independent of any failure.
	ManualRestart
	// Shutdown means the supervisor itself is stopping; strategies
	// return an empty RestartDecision for this kind.
	Shutdown
)

// DecisionContext is passed to Strategy.Decide describing the event
// that triggered it.
type DecisionContext struct {
	Kind    DecisionKind
	ChildID id.ChildId
	Err     error
}

// RestartDecision enumerates which children to stop (in the order to
// stop them) and which to start (in the order to start them).
// OneForAll/RestForOne stop in reverse registration order and start in
// forward registration order, so siblings never observe a restart
// ordering inconsistent with how they were declared.
type RestartDecision struct {
	StopOrder  []id.ChildId
	StartOrder []id.ChildId
}

// Strategy decides which children a supervisor must stop and restart in
// response to a DecisionContext. order is the supervisor's full child
// list in spec (registration) order.
type Strategy interface {
	Decide(order []id.ChildId, ctx DecisionContext) RestartDecision
}

type oneForOne struct{}

// OneForOne restarts only the child named in the DecisionContext.
func OneForOne() Strategy { return oneForOne{} }

func (oneForOne) Decide(order []id.ChildId, ctx DecisionContext) RestartDecision {
	if ctx.Kind == Shutdown {
		return RestartDecision{}
	}
	return RestartDecision{
		StopOrder:  []id.ChildId{ctx.ChildID},
		StartOrder: []id.ChildId{ctx.ChildID},
	}
}

type oneForAll struct{}

// OneForAll stops every child (reverse spec order) and restarts all of
// them (forward spec order) whenever any one of them fails.
func OneForAll() Strategy { return oneForAll{} }

func (oneForAll) Decide(order []id.ChildId, ctx DecisionContext) RestartDecision {
	if ctx.Kind == Shutdown || len(order) == 0 {
		return RestartDecision{}
	}
	return RestartDecision{
		StopOrder:  reversed(order),
		StartOrder: append([]id.ChildId(nil), order...),
	}
}

type restForOne struct{}

// RestForOne stops and restarts the failed child and every child
// registered after it, leaving earlier children untouched.
func RestForOne() Strategy { return restForOne{} }

func (restForOne) Decide(order []id.ChildId, ctx DecisionContext) RestartDecision {
	if ctx.Kind == Shutdown {
		return RestartDecision{}
	}
	idx := indexOf(order, ctx.ChildID)
	if idx < 0 {
		return RestartDecision{}
	}
	tail := order[idx:]
	return RestartDecision{
		StopOrder:  reversed(tail),
		StartOrder: append([]id.ChildId(nil), tail...),
	}
}

func indexOf(order []id.ChildId, target id.ChildId) int {
	for i, cid := range order {
		if cid.Equal(target) {
			return i
		}
	}
	return -1
}

func reversed(in []id.ChildId) []id.ChildId {
	out := make([]id.ChildId, len(in))
	for i, cid := range in {
		out[len(in)-1-i] = cid
	}
	return out
}
