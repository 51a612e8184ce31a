package mailbox

import "sync/atomic"

// MetricsRecorder observes mailbox traffic. Implementations must be safe
// for concurrent use by multiple producers and one consumer.
type MetricsRecorder interface {
	RecordEnqueue()
	RecordDequeue()
	RecordDrop()
	RecordExpire()
	RecordBackpressure()
	Snapshot() Metrics
}

// Metrics is a point-in-time read of a mailbox's counters. CurrentDepth
// is the only field that can move in either direction; the rest,
// PeakDepth included, are monotonically non-decreasing for the lifetime
// of the mailbox.
type Metrics struct {
	Enqueued           int64
	Dequeued           int64
	Dropped            int64
	Expired            int64
	BackpressureEvents int64
	CurrentDepth       int64
	PeakDepth          int64
}

// AtomicRecorder is the default MetricsRecorder: every counter is a
// lock-free atomic int64.
type AtomicRecorder struct {
	enqueued, dequeued, dropped, expired, backpressure int64
	peak                                               int64
}

// NewAtomicRecorder returns a ready-to-use AtomicRecorder.
func NewAtomicRecorder() *AtomicRecorder { return &AtomicRecorder{} }

func (r *AtomicRecorder) RecordEnqueue() {
	atomic.AddInt64(&r.enqueued, 1)
	r.bumpPeak()
}

func (r *AtomicRecorder) RecordDequeue() { atomic.AddInt64(&r.dequeued, 1) }
func (r *AtomicRecorder) RecordDrop()     { atomic.AddInt64(&r.dropped, 1) }
func (r *AtomicRecorder) RecordExpire()   { atomic.AddInt64(&r.expired, 1) }
func (r *AtomicRecorder) RecordBackpressure() {
	atomic.AddInt64(&r.backpressure, 1)
}

func (r *AtomicRecorder) bumpPeak() {
	depth := r.depth()
	for {
		peak := atomic.LoadInt64(&r.peak)
		if depth <= peak {
			return
		}
		if atomic.CompareAndSwapInt64(&r.peak, peak, depth) {
			return
		}
	}
}

func (r *AtomicRecorder) depth() int64 {
	return atomic.LoadInt64(&r.enqueued) -
		atomic.LoadInt64(&r.dequeued) -
		atomic.LoadInt64(&r.dropped) -
		atomic.LoadInt64(&r.expired)
}

// Snapshot returns a consistent-enough read of all counters. Individual
// fields may be read at slightly different instants under concurrent
// load; CurrentDepth is always recomputed from the other counters so the
// spec invariant (current_depth = enqueued - dequeued - dropped - expired)
// holds by construction.
func (r *AtomicRecorder) Snapshot() Metrics {
	m := Metrics{
		Enqueued:           atomic.LoadInt64(&r.enqueued),
		Dequeued:           atomic.LoadInt64(&r.dequeued),
		Dropped:            atomic.LoadInt64(&r.dropped),
		Expired:            atomic.LoadInt64(&r.expired),
		BackpressureEvents: atomic.LoadInt64(&r.backpressure),
		PeakDepth:          atomic.LoadInt64(&r.peak),
	}
	m.CurrentDepth = m.Enqueued - m.Dequeued - m.Dropped - m.Expired
	return m
}

// NoopRecorder discards every observation. Every method is a candidate
// for inlining away entirely, leaving zero overhead for callers that do
// not need metrics.
type NoopRecorder struct{}

func (NoopRecorder) RecordEnqueue()     {}
func (NoopRecorder) RecordDequeue()     {}
func (NoopRecorder) RecordDrop()        {}
func (NoopRecorder) RecordExpire()      {}
func (NoopRecorder) RecordBackpressure() {}
func (NoopRecorder) Snapshot() Metrics  { return Metrics{} }
