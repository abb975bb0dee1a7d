// Package viewsync keeps the consumer surfaces (part hierarchy tree, 3D
// viewport, properties panel) consistent with each other without letting
// them form feedback loops.
//
// The Coordinator is the only component that both listens to dispatcher
// events and mutates the selection store, and the only component that
// dispatches the canonical state events surfaces render from. The
// protocol:
//
//  1. A surface dispatches a raw interaction request (pick:request,
//     hover:request, focus:request, isolate:request) tagged with its
//     origin.
//  2. The Coordinator resolves the node against the active model, applies
//     the store mutation, then dispatches the canonical event carrying
//     the same origin tag.
//  3. Each surface updates its presentation on the canonical event unless
//     the origin tag names itself: a tree-origin selection must move the
//     viewport highlight and the properties panel, but must not re-trigger
//     the tree's own scroll-into-view logic.
//
// Hover, selection and focus are three independent state machines composed
// over the same node id space: Idle -> Hovered -> Idle on pointer
// enter/leave, Idle -> Selected -> Idle on click and deselect, and a
// transient Focused overlay moved by explicit focus requests.
//
// Models loaded during the session stay registered in a catalog until
// their unload; the most recently loaded one is the active model that
// interaction requests resolve against.
package viewsync
