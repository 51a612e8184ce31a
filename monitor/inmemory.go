package monitor

import (
	"sync"
	"sync/atomic"
)

// InMemory is the default Monitor: per-event-type and per-severity
// counters are lock-free atomics, and a bounded ring buffer of recent
// events is guarded by a short-held mutex. The enabled flag can be
// flipped at runtime without re-wiring a different Monitor.
type InMemory[E MonitoringEvent] struct {
	enabled atomic.Bool

	countersMu sync.Mutex
	byType     map[string]*atomic.Int64
	bySeverity map[Severity]*atomic.Int64
	total      atomic.Int64

	ringMu   sync.RWMutex
	ring     []E
	ringNext int
	ringLen  int
	ringCap  int
}

// NewInMemory constructs an enabled InMemory recorder with a ring buffer
// holding at most ringCap recent events (a ringCap <= 0 disables history
// retention while still counting).
func NewInMemory[E MonitoringEvent](ringCap int) *InMemory[E] {
	m := &InMemory[E]{
		byType:     make(map[string]*atomic.Int64),
		bySeverity: make(map[Severity]*atomic.Int64),
		ringCap:    ringCap,
	}
	if ringCap > 0 {
		m.ring = make([]E, ringCap)
	}
	m.enabled.Store(true)
	return m
}

// SetEnabled toggles recording at runtime. While disabled, Record is a
// no-op and Snapshot/History continue to reflect the state as of the
// last enabled Record (spec invariant: monitor idempotence on disable).
func (m *InMemory[E]) SetEnabled(enabled bool) { m.enabled.Store(enabled) }

func (m *InMemory[E]) counterFor(byType map[string]*atomic.Int64, key string) *atomic.Int64 {
	m.countersMu.Lock()
	defer m.countersMu.Unlock()
	c, ok := byType[key]
	if !ok {
		c = &atomic.Int64{}
		byType[key] = c
	}
	return c
}

func (m *InMemory[E]) Record(e E) {
	if !m.enabled.Load() {
		return
	}
	m.total.Add(1)
	m.counterFor(m.byType, e.EventType()).Add(1)

	sevCounter := func() *atomic.Int64 {
		m.countersMu.Lock()
		defer m.countersMu.Unlock()
		c, ok := m.bySeverity[e.Severity()]
		if !ok {
			c = &atomic.Int64{}
			m.bySeverity[e.Severity()] = c
		}
		return c
	}()
	sevCounter.Add(1)

	if m.ringCap > 0 {
		m.ringMu.Lock()
		m.ring[m.ringNext] = e
		m.ringNext = (m.ringNext + 1) % m.ringCap
		if m.ringLen < m.ringCap {
			m.ringLen++
		}
		m.ringMu.Unlock()
	}
}

func (m *InMemory[E]) Snapshot() Snapshot {
	m.countersMu.Lock()
	byType := make(map[string]int64, len(m.byType))
	for k, v := range m.byType {
		byType[k] = v.Load()
	}
	bySeverity := make(map[Severity]int64, len(m.bySeverity))
	for k, v := range m.bySeverity {
		bySeverity[k] = v.Load()
	}
	m.countersMu.Unlock()

	m.ringMu.RLock()
	depth := m.ringLen
	m.ringMu.RUnlock()

	return Snapshot{
		Total:        m.total.Load(),
		ByType:       byType,
		BySeverity:   bySeverity,
		Enabled:      m.enabled.Load(),
		HistoryDepth: depth,
	}
}

// History returns up to limit of the most recently recorded events, in
// emission order (oldest of the returned window first). A limit <= 0
// returns the entire retained ring.
func (m *InMemory[E]) History(limit int) []E {
	m.ringMu.RLock()
	defer m.ringMu.RUnlock()

	if m.ringCap == 0 || m.ringLen == 0 {
		return nil
	}
	if limit <= 0 || limit > m.ringLen {
		limit = m.ringLen
	}

	out := make([]E, limit)
	// The ring holds ringLen valid entries ending just before ringNext
	// (mod ringCap). Walk backwards from the most recent entry to
	// collect the last `limit` of them, then reverse into emission
	// order.
	idx := (m.ringNext - 1 + m.ringCap) % m.ringCap
	for i := limit - 1; i >= 0; i-- {
		out[i] = m.ring[idx]
		idx = (idx - 1 + m.ringCap) % m.ringCap
	}
	return out
}

func (m *InMemory[E]) Clear() {
	m.countersMu.Lock()
	m.byType = make(map[string]*atomic.Int64)
	m.bySeverity = make(map[Severity]*atomic.Int64)
	m.countersMu.Unlock()
	m.total.Store(0)

	m.ringMu.Lock()
	m.ringNext = 0
	m.ringLen = 0
	if m.ringCap > 0 {
		m.ring = make([]E, m.ringCap)
	}
	m.ringMu.Unlock()
}
