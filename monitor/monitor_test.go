package monitor_test

import (
	"testing"
	"time"

	"github.com/lguibr/actority/id"
	"github.com/lguibr/actority/monitor"
	"github.com/stretchr/testify/require"
)

func event(kind monitor.SupervisionKind) monitor.SupervisionEvent {
	return monitor.SupervisionEvent{
		Kind:         kind,
		SupervisorID: id.NewSupervisorId(),
		ChildID:      id.NewChildId(),
		At:           time.Now(),
	}
}

func TestInMemorySnapshotAndHistory(t *testing.T) {
	// ring buffer size 4, emit six events: history should keep only the
	// last four, in emission order.
	m := monitor.NewInMemory[monitor.SupervisionEvent](4)
	kinds := []monitor.SupervisionKind{
		monitor.ChildStarted, monitor.ChildStarted, monitor.ChildFailed,
		monitor.ChildRestarted, monitor.ChildStopped, monitor.ChildStarted,
	}
	var emitted []monitor.SupervisionEvent
	for _, k := range kinds {
		e := event(k)
		emitted = append(emitted, e)
		m.Record(e)
	}

	snap := m.Snapshot()
	require.GreaterOrEqual(t, snap.Total, int64(6))

	hist := m.History(4)
	require.Len(t, hist, 4)
	require.Equal(t, emitted[2:], hist)
}

func TestInMemoryDisableFreezesCounters(t *testing.T) {
	m := monitor.NewInMemory[monitor.SupervisionEvent](10)
	m.Record(event(monitor.ChildStarted))
	before := m.Snapshot()

	m.SetEnabled(false)
	m.Record(event(monitor.ChildFailed))
	m.Record(event(monitor.ChildFailed))
	after := m.Snapshot()

	require.Equal(t, before.Total, after.Total)
	require.False(t, after.Enabled)

	m.SetEnabled(true)
	m.Record(event(monitor.ChildFailed))
	require.Equal(t, before.Total+1, m.Snapshot().Total)
}

func TestInMemoryClear(t *testing.T) {
	m := monitor.NewInMemory[monitor.SupervisionEvent](10)
	m.Record(event(monitor.ChildStarted))
	m.Clear()

	snap := m.Snapshot()
	require.Equal(t, int64(0), snap.Total)
	require.Empty(t, m.History(10))
}

func TestNoopMonitor(t *testing.T) {
	var m monitor.Noop[monitor.SupervisionEvent]
	m.Record(event(monitor.ChildStarted))
	require.Equal(t, monitor.Snapshot{}, m.Snapshot())
	require.Nil(t, m.History(10))
}

func TestSnapshotRender(t *testing.T) {
	m := monitor.NewInMemory[monitor.SupervisionEvent](4)
	m.Record(event(monitor.ChildStarted))
	out := m.Snapshot().Render()
	require.Contains(t, out, "total")
	require.Contains(t, out, "type:supervision.ChildStarted")
}
