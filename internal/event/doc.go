// Package event provides the dispatch core for meshlens.
//
// The dispatcher is the application's central communication backbone: every
// interaction surface (part hierarchy tree, 3D viewport, properties panel,
// model loaders) talks to the rest of the system exclusively by dispatching
// and subscribing to events. Surfaces never call each other directly.
//
// # Event Kinds
//
// Events are identified by a Kind, a colon-separated discriminator:
//
//	load:success       - a model finished loading
//	selection:change   - the canonical selection changed
//	pick:request       - a surface asked for a node to be selected
//	node:highlight     - a node gained hover highlight
//
// Kinds must be registered with the dispatcher before they can be
// dispatched. A kind may also carry a schema: an ordered list of payload
// fields that must be present for a dispatch to be accepted.
//
// # Delivery Semantics
//
// Listeners for a kind run synchronously, in registration order, inside the
// dispatching goroutine. A dispatch issued from within a listener is never
// interleaved into the running pass; it is queued (high priority events
// ahead of normal ones) and drained after the current pass completes. The
// drain loop is bounded per pass; a remainder is handed to a fresh
// goroutine so a re-dispatch storm cannot recurse unboundedly.
//
// # Scheduling
//
// Dispatch options provide per-call scheduling:
//
//   - Debounce: rapid same-kind dispatches collapse into one delayed
//     delivery carrying the last payload.
//   - Throttle: the first dispatch in a window is accepted, the rest are
//     dropped outright.
//   - Retry: if a listener fails, the event is redelivered with
//     exponential backoff up to a bounded attempt count.
//
// # Failure Isolation
//
// A panicking listener never prevents its siblings from running and never
// propagates across the Dispatch boundary. Failures are reported to
// registered error observers and re-emitted as "error" kind events, which
// are themselves never retried.
package event
