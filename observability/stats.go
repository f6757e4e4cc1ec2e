// Package observability aggregates delivery counters for the telemetry
// worker. Counters are atomics so the hot broadcast path never takes a
// lock to record an outcome.
package observability

import "sync/atomic"

// DeliveryStats tracks broadcast outcomes and registry occupancy.
type DeliveryStats struct {
	delivered uint64
	missed    uint64
	dropped   uint64
	sessions  int64
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	Delivered uint64 `json:"delivered"`
	Missed    uint64 `json:"missed"`
	Dropped   uint64 `json:"dropped"`
	Sessions  int64  `json:"sessions"`
}

func NewDeliveryStats() *DeliveryStats {
	return &DeliveryStats{}
}

// IncrDelivered records a payload handed to a live session.
func (s *DeliveryStats) IncrDelivered() {
	atomic.AddUint64(&s.delivered, 1)
}

// IncrMissed records a recipient with no live session.
func (s *DeliveryStats) IncrMissed() {
	atomic.AddUint64(&s.missed, 1)
}

// IncrDropped records a payload lost to a full outbound queue.
func (s *DeliveryStats) IncrDropped() {
	atomic.AddUint64(&s.dropped, 1)
}

func (s *DeliveryStats) SessionOpened() {
	atomic.AddInt64(&s.sessions, 1)
}

func (s *DeliveryStats) SessionClosed() {
	atomic.AddInt64(&s.sessions, -1)
}

func (s *DeliveryStats) GetLatest() Snapshot {
	return Snapshot{
		Delivered: atomic.LoadUint64(&s.delivered),
		Missed:    atomic.LoadUint64(&s.missed),
		Dropped:   atomic.LoadUint64(&s.dropped),
		Sessions:  atomic.LoadInt64(&s.sessions),
	}
}
