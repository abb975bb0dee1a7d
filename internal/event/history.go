package event

// historyRing is a bounded ring buffer of dispatched events. The oldest
// entry is evicted first. It is an introspection aid, not a delivery
// mechanism; callers synchronize access.
type historyRing struct {
	entries []Event
	head    int
	count   int
}

// newHistoryRing creates a ring with the given capacity.
func newHistoryRing(capacity int) *historyRing {
	return &historyRing{
		entries: make([]Event, capacity),
	}
}

// add records an event, evicting the oldest when full.
func (r *historyRing) add(ev Event) {
	if len(r.entries) == 0 {
		return
	}
	r.entries[(r.head+r.count)%len(r.entries)] = ev
	if r.count < len(r.entries) {
		r.count++
	} else {
		r.head = (r.head + 1) % len(r.entries)
	}
}

// all returns the recorded events, oldest first.
func (r *historyRing) all() []Event {
	if r.count == 0 {
		return nil
	}
	out := make([]Event, 0, r.count)
	for i := 0; i < r.count; i++ {
		out = append(out, r.entries[(r.head+i)%len(r.entries)])
	}
	return out
}

// byKind returns the recorded events matching any of the given kinds,
// oldest first.
func (r *historyRing) byKind(kinds ...Kind) []Event {
	if len(kinds) == 0 {
		return r.all()
	}
	var out []Event
	for i := 0; i < r.count; i++ {
		ev := r.entries[(r.head+i)%len(r.entries)]
		for _, k := range kinds {
			if ev.Kind == k {
				out = append(out, ev)
				break
			}
		}
	}
	return out
}

// clear discards all recorded events.
func (r *historyRing) clear() {
	r.head = 0
	r.count = 0
}
