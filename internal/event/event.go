package event

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Payload carries event-specific data as a loose key/value shape. The
// dispatcher only ever checks key presence against a registered schema;
// values are opaque to it.
type Payload map[string]any

// Clone returns a shallow copy of the payload.
func (p Payload) Clone() Payload {
	if p == nil {
		return nil
	}
	out := make(Payload, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Event is a single dispatched occurrence. Events are immutable once
// constructed; retries and history entries reference the same Event value.
type Event struct {
	// Kind is the event's semantic type.
	Kind Kind

	// Payload contains the event-specific data.
	Payload Payload

	// Timestamp is when the event was constructed.
	Timestamp time.Time

	// ID uniquely identifies this dispatch. Retries of the same
	// originating dispatch share the ID.
	ID string

	// Priority controls the drain order when the event is deferred.
	Priority Priority

	// AllowRetry marks the event eligible for retry-with-backoff when a
	// listener fails.
	AllowRetry bool
}

// newEvent constructs an event with a fresh unique ID.
func newEvent(kind Kind, payload Payload, priority Priority, allowRetry bool) Event {
	now := time.Now()
	return Event{
		Kind:       kind,
		Payload:    payload,
		Timestamp:  now,
		ID:         generateID(kind, now),
		Priority:   priority,
		AllowRetry: allowRetry,
	}
}

// generateID builds a dispatch ID from the kind, the construction time and
// a random suffix, so IDs stay unique even for same-kind events created in
// the same nanosecond.
func generateID(kind Kind, ts time.Time) string {
	var b strings.Builder
	b.WriteString(string(kind))
	b.WriteByte('-')
	b.WriteString(strconv.FormatInt(ts.UnixNano(), 10))
	b.WriteByte('-')
	b.WriteString(uuid.NewString()[:8])
	return b.String()
}
