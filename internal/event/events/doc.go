// Package events declares the event kinds exchanged between the dispatch
// core and its consumer surfaces (hierarchy tree, 3D viewport, properties
// panel, model loaders), together with typed payload contracts for each
// kind.
//
// Each payload type builds the loose event.Payload map the dispatcher
// carries and parses it back, so the schema registered for a kind and the
// Go type producing its payloads can never drift apart: RegisterAll
// derives the required-field lists from the same definitions.
//
// Kinds split into two groups:
//
//   - Raw interaction requests (pick:request, hover:request,
//     focus:request, isolate:request) dispatched by a surface, tagged with
//     the surface's origin.
//   - Canonical state events (selection:change, node:highlight,
//     focus:node, ...) dispatched only by the sync coordinator after the
//     selection store has been mutated, carrying the originating surface's
//     tag so that surface can skip its own echo.
package events
