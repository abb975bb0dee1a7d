package viewsync

import (
	"time"

	"github.com/meshlens/meshlens/internal/event"
	"github.com/meshlens/meshlens/internal/event/events"
)

// IsEcho reports whether a canonical event originated from the given
// surface. A surface applies a canonical event only when IsEcho is false;
// reacting to its own origin is what would close the feedback loop.
func IsEcho(p event.Payload, self events.Origin) bool {
	return events.OriginOf(p) == self
}

// DispatchPick sends a selection request. Clicks are discrete, so they go
// out at high priority and unthrottled.
func DispatchPick(d *event.Dispatcher, req events.PickRequest) bool {
	return d.Dispatch(events.KindPickRequest, req.Payload(),
		event.WithPriority(event.PriorityHigh))
}

// DispatchHover sends a hover highlight request. Pointer movement is high
// frequency and low value, so hover requests are throttled or debounced
// at dispatch time and queued behind everything else. A zero window
// disables the corresponding treatment.
func DispatchHover(d *event.Dispatcher, req events.HoverRequest, throttle, debounce time.Duration) bool {
	opts := []event.DispatchOption{
		event.WithPriority(event.PriorityLow),
		event.Silent(),
	}
	if throttle > 0 {
		opts = append(opts, event.WithThrottle(throttle))
	}
	if debounce > 0 {
		opts = append(opts, event.WithDebounce(debounce))
	}
	return d.Dispatch(events.KindHoverRequest, req.Payload(), opts...)
}

// DispatchFocus sends a focus request.
func DispatchFocus(d *event.Dispatcher, req events.FocusRequest) bool {
	return d.Dispatch(events.KindFocusRequest, req.Payload(),
		event.WithPriority(event.PriorityHigh))
}

// DispatchIsolate sends an isolation request.
func DispatchIsolate(d *event.Dispatcher, req events.IsolateRequest) bool {
	return d.Dispatch(events.KindIsolateRequest, req.Payload())
}
