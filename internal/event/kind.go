package event

import "strings"

// Kind identifies an event's semantic type using colon notation.
// Examples: "load:success", "selection:change", "node:highlight".
type Kind string

// Separator is the character used to separate kind segments.
const Separator = ":"

// KindError is the internal error kind emitted when a listener fails.
// It is always registered and is never eligible for retry.
const KindError Kind = "error"

// String returns the kind as a string.
func (k Kind) String() string {
	return string(k)
}

// Category returns the segment before the first separator.
//
// Example: "selection:change" -> "selection"
func (k Kind) Category() string {
	s := string(k)
	idx := strings.Index(s, Separator)
	if idx < 0 {
		return s
	}
	return s[:idx]
}

// Action returns the segment after the first separator.
//
// Example: "selection:change" -> "change"
func (k Kind) Action() string {
	s := string(k)
	idx := strings.Index(s, Separator)
	if idx < 0 {
		return ""
	}
	return s[idx+1:]
}

// Priority determines the drain order of queued (deferred) events.
// Lower values drain first. Priority never reorders listeners within a
// single event's delivery.
type Priority int

const (
	// PriorityHigh is for discrete user actions (clicks, focus requests)
	// that must drain ahead of everything else.
	PriorityHigh Priority = 0

	// PriorityNormal is the default priority.
	PriorityNormal Priority = 100

	// PriorityLow is for high-frequency, low-value traffic such as hover
	// highlight updates.
	PriorityLow Priority = 200
)

// String returns a human-readable priority name.
func (p Priority) String() string {
	switch {
	case p <= PriorityHigh:
		return "high"
	case p <= PriorityNormal:
		return "normal"
	default:
		return "low"
	}
}
