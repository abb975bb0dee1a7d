package event

import (
	"runtime/debug"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Listener receives delivered events. A non-nil error (or a panic) is
// isolated by the dispatcher: siblings still run, observers are notified
// and the event becomes eligible for retry when the dispatch allowed it.
type Listener func(Event) error

// Observer receives failure reports: listener errors, listener panics and
// terminal retry exhaustion.
type Observer func(ErrorReport)

// dispatchState tracks whether a delivery pass is in progress.
type dispatchState int

const (
	stateIdle dispatchState = iota
	stateDispatching
)

// subscription is a single registered listener.
type subscription struct {
	id    uint64
	kind  Kind
	fn    Listener
	once  bool
	fired sync.Once
	spent bool
}

// debounceEntry tracks a pending debounced dispatch for a kind.
type debounceEntry struct {
	timer *time.Timer
	ev    Event
}

// Dispatcher is the pub/sub engine. Listeners for a kind run synchronously
// in registration order; dispatches issued while a pass is running are
// deferred onto priority-ordered queues and drained afterwards, so no two
// delivery passes ever overlap.
//
// All methods are safe for concurrent use.
type Dispatcher struct {
	mu  sync.Mutex
	log zerolog.Logger
	cfg config

	schemas *Schemas
	kinds   map[Kind]struct{}

	subs      map[Kind][]*subscription
	nextSubID uint64

	observers  map[uint64]Observer
	nextObsID  uint64

	state         dispatchState
	priorityQueue []Event
	normalQueue   []Event

	debounce      map[Kind]*debounceEntry
	throttle      map[Kind]time.Time
	retryAttempts map[string]int
	retryTimers   map[string]*time.Timer

	history *historyRing
	closed  bool

	stats counters
}

// NewDispatcher creates a dispatcher with the given options. The error
// kind is pre-registered; all other kinds must be registered before they
// can be dispatched.
func NewDispatcher(opts ...Option) *Dispatcher {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	d := &Dispatcher{
		log:           cfg.logger,
		cfg:           cfg,
		schemas:       NewSchemas(),
		kinds:         make(map[Kind]struct{}),
		subs:          make(map[Kind][]*subscription),
		observers:     make(map[uint64]Observer),
		debounce:      make(map[Kind]*debounceEntry),
		throttle:      make(map[Kind]time.Time),
		retryAttempts: make(map[string]int),
		retryTimers:   make(map[string]*time.Timer),
		history:       newHistoryRing(cfg.historySize),
	}
	d.kinds[KindError] = struct{}{}
	return d
}

// RegisterKind declares kinds as dispatchable.
func (d *Dispatcher) RegisterKind(kinds ...Kind) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, k := range kinds {
		if k != "" {
			d.kinds[k] = struct{}{}
		}
	}
}

// RegisterSchema declares a kind together with its required payload
// fields. The kind becomes dispatchable if it was not already.
func (d *Dispatcher) RegisterSchema(kind Kind, required ...string) {
	d.mu.Lock()
	d.kinds[kind] = struct{}{}
	d.mu.Unlock()

	d.schemas.Register(kind, required...)
}

// KnownKind reports whether the kind has been registered.
func (d *Dispatcher) KnownKind(kind Kind) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	_, ok := d.kinds[kind]
	return ok
}

// Subscribe registers a listener for a kind and returns its unsubscribe
// function. Registering the same function twice yields two independent
// deliveries. Unsubscribing during a delivery pass does not affect the
// listener snapshot that pass already captured.
func (d *Dispatcher) Subscribe(kind Kind, fn Listener) func() {
	return d.subscribe(kind, fn, false)
}

// SubscribeOnce registers a listener that automatically unsubscribes after
// its first delivery. The returned function cancels it early.
func (d *Dispatcher) SubscribeOnce(kind Kind, fn Listener) func() {
	return d.subscribe(kind, fn, true)
}

func (d *Dispatcher) subscribe(kind Kind, fn Listener, once bool) func() {
	if fn == nil {
		d.log.Warn().Str("kind", string(kind)).Msg("ignoring nil listener")
		return func() {}
	}

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return func() {}
	}
	d.nextSubID++
	sub := &subscription{
		id:   d.nextSubID,
		kind: kind,
		fn:   fn,
		once: once,
	}
	d.subs[kind] = append(d.subs[kind], sub)
	d.mu.Unlock()

	var unsub sync.Once
	return func() {
		unsub.Do(func() {
			d.mu.Lock()
			d.removeLocked(sub)
			d.mu.Unlock()
		})
	}
}

// removeLocked unlinks a subscription from its kind's listener list.
func (d *Dispatcher) removeLocked(sub *subscription) {
	subs := d.subs[sub.kind]
	for i, s := range subs {
		if s.id == sub.id {
			d.subs[sub.kind] = append(subs[:i], subs[i+1:]...)
			break
		}
	}
	if len(d.subs[sub.kind]) == 0 {
		delete(d.subs, sub.kind)
	}
}

// ListenerCount returns the number of registered listeners for a kind.
func (d *Dispatcher) ListenerCount(kind Kind) int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return len(d.subs[kind])
}

// OnError registers an observer for failure reports and returns its
// removal function.
func (d *Dispatcher) OnError(fn Observer) func() {
	if fn == nil {
		return func() {}
	}

	d.mu.Lock()
	d.nextObsID++
	id := d.nextObsID
	d.observers[id] = fn
	d.mu.Unlock()

	var remove sync.Once
	return func() {
		remove.Do(func() {
			d.mu.Lock()
			delete(d.observers, id)
			d.mu.Unlock()
		})
	}
}

// Dispatch validates and delivers an event. It returns false when the
// dispatcher is closed, the kind is unknown, the payload fails its schema
// or the call was absorbed by an active throttle window. Debounced calls
// return true optimistically; the actual delivery happens when the quiet
// period elapses.
//
// Dispatch never panics and never blocks on timers; only listener
// execution time is spent synchronously.
func (d *Dispatcher) Dispatch(kind Kind, payload Payload, opts ...DispatchOption) bool {
	o := defaultDispatchOptions()
	for _, opt := range opts {
		opt(&o)
	}

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		d.stats.rejected.Add(1)
		if !o.silent {
			d.log.Warn().Str("kind", string(kind)).Msg("dispatch rejected: dispatcher closed")
		}
		return false
	}
	if _, known := d.kinds[kind]; !known {
		d.mu.Unlock()
		d.stats.rejected.Add(1)
		if !o.silent {
			d.log.Warn().Str("kind", string(kind)).Msg("dispatch rejected: unknown kind")
		}
		return false
	}
	if !d.schemas.Validate(kind, payload) {
		d.mu.Unlock()
		d.stats.rejected.Add(1)
		if !o.silent {
			d.log.Warn().
				Str("kind", string(kind)).
				Strs("missing", d.schemas.MissingFields(kind, payload)).
				Msg("dispatch rejected: schema validation failed")
		}
		return false
	}

	now := time.Now()
	if o.throttle > 0 {
		if last, ok := d.throttle[kind]; ok && now.Sub(last) < o.throttle {
			d.mu.Unlock()
			d.stats.throttled.Add(1)
			if !o.silent {
				d.log.Debug().Str("kind", string(kind)).Msg("dispatch throttled")
			}
			return false
		}
		d.throttle[kind] = now
	}

	d.stats.dispatched.Add(1)
	ev := newEvent(kind, payload, o.priority, o.allowRetry)

	if o.debounce > 0 {
		if prev, ok := d.debounce[kind]; ok {
			prev.timer.Stop()
		}
		entry := &debounceEntry{ev: ev}
		entry.timer = time.AfterFunc(o.debounce, func() {
			d.fireDebounced(kind, entry)
		})
		d.debounce[kind] = entry
		d.mu.Unlock()
		d.stats.debounced.Add(1)
		return true
	}

	d.begin(ev)
	return true
}

// fireDebounced delivers a debounced event once its quiet period elapsed.
// A stale timer whose entry was already replaced is a no-op.
func (d *Dispatcher) fireDebounced(kind Kind, entry *debounceEntry) {
	d.mu.Lock()
	cur, ok := d.debounce[kind]
	if !ok || cur != entry {
		d.mu.Unlock()
		return
	}
	delete(d.debounce, kind)
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.begin(entry.ev)
}

// begin starts or defers delivery. The caller holds d.mu; begin releases
// it before returning.
func (d *Dispatcher) begin(ev Event) {
	if d.state == stateDispatching {
		d.enqueueLocked(ev)
		d.mu.Unlock()
		return
	}
	d.state = stateDispatching
	d.runPass(ev)
	d.mu.Unlock()
}

// enqueueLocked defers an event raised while a pass is in progress.
func (d *Dispatcher) enqueueLocked(ev Event) {
	if ev.Priority <= PriorityHigh {
		d.priorityQueue = append(d.priorityQueue, ev)
	} else {
		d.normalQueue = append(d.normalQueue, ev)
	}
}

// dequeueLocked pops the next deferred event, priority queue first.
func (d *Dispatcher) dequeueLocked() (Event, bool) {
	if len(d.priorityQueue) > 0 {
		ev := d.priorityQueue[0]
		d.priorityQueue = d.priorityQueue[1:]
		return ev, true
	}
	if len(d.normalQueue) > 0 {
		ev := d.normalQueue[0]
		d.normalQueue = d.normalQueue[1:]
		return ev, true
	}
	return Event{}, false
}

// runPass delivers an event and drains deferred dispatches. The caller
// holds d.mu with state already set to dispatching; runPass returns with
// d.mu still held. If the drain bound is hit, the remainder is handed to a
// fresh goroutine and state stays dispatching until it finishes.
func (d *Dispatcher) runPass(first Event) {
	d.deliver(first)

	drained := 0
	for {
		if len(d.priorityQueue) == 0 && len(d.normalQueue) == 0 {
			d.state = stateIdle
			return
		}
		if drained >= d.cfg.drainLimit {
			go d.resumeDrain()
			return
		}
		ev, _ := d.dequeueLocked()
		drained++
		d.deliver(ev)
	}
}

// resumeDrain continues draining deferred events after the per-pass bound
// was exceeded.
func (d *Dispatcher) resumeDrain() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		d.priorityQueue, d.normalQueue = nil, nil
		d.state = stateIdle
		return
	}

	drained := 0
	for {
		if len(d.priorityQueue) == 0 && len(d.normalQueue) == 0 {
			d.state = stateIdle
			return
		}
		if drained >= d.cfg.drainLimit {
			go d.resumeDrain()
			return
		}
		ev, _ := d.dequeueLocked()
		drained++
		d.deliver(ev)
	}
}

// deliver runs one event's listener loop. The caller holds d.mu; deliver
// releases it around listener execution and reacquires it before
// returning. Listeners are invoked from a snapshot, so subscription
// changes made mid-pass take effect on the next delivery.
func (d *Dispatcher) deliver(ev Event) {
	d.history.add(ev)
	snap := make([]*subscription, len(d.subs[ev.Kind]))
	copy(snap, d.subs[ev.Kind])
	observers := d.observerListLocked()
	d.mu.Unlock()

	d.stats.delivered.Add(1)

	var failed bool
	for _, sub := range snap {
		if sub.once {
			ran := false
			sub.fired.Do(func() {
				ran = true
				sub.spent = true
			})
			if !ran {
				continue
			}
		}
		if err := d.invoke(sub, ev); err != nil {
			failed = true
			d.stats.listenerErrors.Add(1)
			d.log.Warn().
				Str("kind", string(ev.Kind)).
				Str("event_id", ev.ID).
				Err(err).
				Msg("listener failed")
			for _, obs := range observers {
				obs(ErrorReport{Event: ev, Err: err})
			}
			if ev.Kind != KindError {
				d.emitError(ev, err)
			}
		}
	}

	if ev.AllowRetry && ev.Kind != KindError {
		if failed {
			d.scheduleRetry(ev, observers)
		} else {
			d.clearRetry(ev)
		}
	}

	d.mu.Lock()
	for _, sub := range snap {
		if sub.spent {
			d.removeLocked(sub)
		}
	}
}

// invoke runs a single listener with panic isolation.
func (d *Dispatcher) invoke(sub *subscription, ev Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{
				Kind:    ev.Kind,
				EventID: ev.ID,
				Value:   r,
				Stack:   debug.Stack(),
			}
		}
	}()

	if lerr := sub.fn(ev); lerr != nil {
		return &ListenerError{Kind: ev.Kind, EventID: ev.ID, Err: lerr}
	}
	return nil
}

// emitError dispatches the internal error kind describing a listener
// failure. Error events are queued like any re-entrant dispatch and are
// never retried, which breaks the recursion a failing error listener
// would otherwise cause.
func (d *Dispatcher) emitError(src Event, cause error) {
	ev := newEvent(KindError, Payload{
		"kind":    string(src.Kind),
		"eventId": src.ID,
		"error":   cause.Error(),
	}, PriorityLow, false)

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.begin(ev)
}

// retryKey composes the retry table key for an event.
func retryKey(ev Event) string {
	return string(ev.Kind) + "/" + ev.ID
}

// scheduleRetry books a redelivery with exponential backoff, or reports
// terminal exhaustion once the attempt budget is spent.
func (d *Dispatcher) scheduleRetry(ev Event, observers []Observer) {
	key := retryKey(ev)

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	attempt := d.retryAttempts[key]
	if attempt >= d.cfg.retry.MaxAttempts {
		delete(d.retryAttempts, key)
		d.mu.Unlock()
		d.stats.retriesExhausted.Add(1)
		d.log.Warn().
			Str("kind", string(ev.Kind)).
			Str("event_id", ev.ID).
			Int("attempts", attempt).
			Msg("event discarded: retry attempts exhausted")
		for _, obs := range observers {
			obs(ErrorReport{Event: ev, Err: ErrRetryExhausted})
		}
		return
	}
	d.retryAttempts[key] = attempt + 1
	delay := d.cfg.retry.Delay(attempt)
	d.retryTimers[key] = time.AfterFunc(delay, func() {
		d.redeliver(key, ev)
	})
	d.stats.retriesScheduled.Add(1)
	d.mu.Unlock()

	d.log.Debug().
		Str("kind", string(ev.Kind)).
		Str("event_id", ev.ID).
		Int("attempt", attempt+1).
		Dur("delay", delay).
		Msg("retry scheduled")
}

// redeliver replays a failed event after its backoff delay.
func (d *Dispatcher) redeliver(key string, ev Event) {
	d.mu.Lock()
	delete(d.retryTimers, key)
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.begin(ev)
}

// clearRetry drops retry bookkeeping after a successful redelivery.
func (d *Dispatcher) clearRetry(ev Event) {
	key := retryKey(ev)

	d.mu.Lock()
	delete(d.retryAttempts, key)
	if t, ok := d.retryTimers[key]; ok {
		t.Stop()
		delete(d.retryTimers, key)
	}
	d.mu.Unlock()
}

// observerListLocked snapshots the registered observers.
func (d *Dispatcher) observerListLocked() []Observer {
	if len(d.observers) == 0 {
		return nil
	}
	out := make([]Observer, 0, len(d.observers))
	for _, obs := range d.observers {
		out = append(out, obs)
	}
	return out
}

// History returns recorded events, oldest first, optionally filtered by
// kind.
func (d *Dispatcher) History(kinds ...Kind) []Event {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.history.byKind(kinds...)
}

// ClearHistory discards all recorded events.
func (d *Dispatcher) ClearHistory() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.history.clear()
}

// Closed reports whether Close has been called.
func (d *Dispatcher) Closed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.closed
}

// Close shuts the dispatcher down: every pending debounce and retry timer
// is cancelled, deferred queues are dropped and all further dispatches are
// rejected. Close is idempotent. Subscriptions are left in place so a
// consumer tearing down in arbitrary order never observes a nil registry.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true

	for kind, entry := range d.debounce {
		entry.timer.Stop()
		delete(d.debounce, kind)
	}
	for key, t := range d.retryTimers {
		t.Stop()
		delete(d.retryTimers, key)
	}
	d.retryAttempts = make(map[string]int)
	d.priorityQueue, d.normalQueue = nil, nil
	d.mu.Unlock()

	d.log.Debug().Msg("dispatcher closed")
}
