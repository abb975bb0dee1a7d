package event

import "sync/atomic"

// counters holds the dispatcher's internal atomic counters.
type counters struct {
	dispatched       atomic.Uint64
	delivered        atomic.Uint64
	rejected         atomic.Uint64
	throttled        atomic.Uint64
	debounced        atomic.Uint64
	listenerErrors   atomic.Uint64
	retriesScheduled atomic.Uint64
	retriesExhausted atomic.Uint64
}

// Stats is a point-in-time snapshot of dispatcher activity.
type Stats struct {
	// Dispatched is the number of accepted Dispatch calls.
	Dispatched uint64

	// Delivered is the number of delivery passes run.
	Delivered uint64

	// Rejected counts dispatches refused before delivery (closed
	// dispatcher, unknown kind, schema violation).
	Rejected uint64

	// Throttled counts dispatches absorbed by a throttle window.
	Throttled uint64

	// Debounced counts dispatches deferred behind a debounce timer.
	Debounced uint64

	// ListenerErrors counts listener errors and panics.
	ListenerErrors uint64

	// RetriesScheduled counts booked redeliveries.
	RetriesScheduled uint64

	// RetriesExhausted counts events discarded after their final attempt.
	RetriesExhausted uint64

	// QueueDepth is the current number of deferred events.
	QueueDepth int

	// PendingDebounce is the number of kinds with a pending debounce
	// timer.
	PendingDebounce int

	// PendingRetries is the number of events awaiting redelivery.
	PendingRetries int
}

// Stats returns a snapshot of dispatcher activity.
func (d *Dispatcher) Stats() Stats {
	d.mu.Lock()
	queueDepth := len(d.priorityQueue) + len(d.normalQueue)
	pendingDebounce := len(d.debounce)
	pendingRetries := len(d.retryTimers)
	d.mu.Unlock()

	return Stats{
		Dispatched:       d.stats.dispatched.Load(),
		Delivered:        d.stats.delivered.Load(),
		Rejected:         d.stats.rejected.Load(),
		Throttled:        d.stats.throttled.Load(),
		Debounced:        d.stats.debounced.Load(),
		ListenerErrors:   d.stats.listenerErrors.Load(),
		RetriesScheduled: d.stats.retriesScheduled.Load(),
		RetriesExhausted: d.stats.retriesExhausted.Load(),
		QueueDepth:       queueDepth,
		PendingDebounce:  pendingDebounce,
		PendingRetries:   pendingRetries,
	}
}
