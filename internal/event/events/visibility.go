package events

import (
	"github.com/meshlens/meshlens/internal/event"
	"github.com/meshlens/meshlens/internal/scene"
)

// Visibility kinds. node:show and node:hide are plain per-node visibility
// toggles between surfaces; isolation additionally restricts the eligible
// display set and is tracked in the selection store.
const (
	// KindIsolateRequest is the raw interaction dispatched when a surface
	// asks to isolate a set of nodes. An empty list clears isolation.
	KindIsolateRequest event.Kind = "isolate:request"

	// KindNodeIsolate is the canonical event dispatched after isolation
	// changed.
	KindNodeIsolate event.Kind = "node:isolate"

	// KindShowAll is the canonical event dispatched after isolation was
	// cleared.
	KindShowAll event.Kind = "show:all"

	// KindNodeShow is dispatched when a node should become visible.
	KindNodeShow event.Kind = "node:show"

	// KindNodeHide is dispatched when a node should become hidden.
	KindNodeHide event.Kind = "node:hide"
)

// IsolateRequest asks the coordinator to isolate nodes or clear isolation.
type IsolateRequest struct {
	NodeIDs []scene.NodeID
	Origin  Origin
}

// Payload builds the dispatch payload.
func (e IsolateRequest) Payload() event.Payload {
	return event.Payload{
		FieldNodes:  e.NodeIDs,
		FieldOrigin: e.Origin,
	}
}

// IsolateRequestFrom parses an isolate:request payload.
func IsolateRequestFrom(p event.Payload) IsolateRequest {
	return IsolateRequest{
		NodeIDs: nodesOf(p, FieldNodes),
		Origin:  OriginOf(p),
	}
}

// IsolationChanged is the canonical outcome of an isolation mutation.
type IsolationChanged struct {
	NodeIDs []scene.NodeID
	Origin  Origin
}

// Payload builds the dispatch payload.
func (e IsolationChanged) Payload() event.Payload {
	return event.Payload{
		FieldNodes:  e.NodeIDs,
		FieldOrigin: e.Origin,
	}
}

// IsolationChangedFrom parses a node:isolate payload.
func IsolationChangedFrom(p event.Payload) IsolationChanged {
	return IsolationChanged{
		NodeIDs: nodesOf(p, FieldNodes),
		Origin:  OriginOf(p),
	}
}

// NodeVisibility is the payload for node:show and node:hide.
type NodeVisibility struct {
	NodeID scene.NodeID
	Origin Origin
}

// Payload builds the dispatch payload.
func (e NodeVisibility) Payload() event.Payload {
	return event.Payload{
		FieldNode:   e.NodeID,
		FieldOrigin: e.Origin,
	}
}

// NodeVisibilityFrom parses a node:show or node:hide payload.
func NodeVisibilityFrom(p event.Payload) NodeVisibility {
	return NodeVisibility{
		NodeID: nodeOf(p, FieldNode),
		Origin: OriginOf(p),
	}
}
