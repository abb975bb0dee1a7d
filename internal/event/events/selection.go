package events

import (
	"github.com/meshlens/meshlens/internal/event"
	"github.com/meshlens/meshlens/internal/scene"
)

// Selection kinds.
const (
	// KindPickRequest is the raw interaction dispatched when a surface
	// asks for a node to be selected. An empty node id means the pick hit
	// the background and the selection should clear.
	KindPickRequest event.Kind = "pick:request"

	// KindSelectionChange is the canonical event dispatched after the
	// selection set changed.
	KindSelectionChange event.Kind = "selection:change"

	// KindSelectionClear is the canonical event dispatched after the
	// selection set was emptied.
	KindSelectionClear event.Kind = "selection:clear"
)

// FieldMulti marks a pick as additive (multi-select union).
const FieldMulti = "multi"

// PickRequest asks the coordinator to select a node.
type PickRequest struct {
	NodeID scene.NodeID
	Origin Origin
	Multi  bool
}

// Payload builds the dispatch payload.
func (e PickRequest) Payload() event.Payload {
	return event.Payload{
		FieldNode:   e.NodeID,
		FieldOrigin: e.Origin,
		FieldMulti:  e.Multi,
	}
}

// PickRequestFrom parses a pick:request payload.
func PickRequestFrom(p event.Payload) PickRequest {
	return PickRequest{
		NodeID: nodeOf(p, FieldNode),
		Origin: OriginOf(p),
		Multi:  boolOf(p, FieldMulti),
	}
}

// SelectionChanged is the canonical outcome of a selection mutation. It
// carries the full post-mutation selection set and the origin of the
// request that caused it.
type SelectionChanged struct {
	NodeIDs []scene.NodeID
	Origin  Origin
}

// Payload builds the dispatch payload.
func (e SelectionChanged) Payload() event.Payload {
	return event.Payload{
		FieldNodes:  e.NodeIDs,
		FieldOrigin: e.Origin,
	}
}

// SelectionChangedFrom parses a selection:change payload.
func SelectionChangedFrom(p event.Payload) SelectionChanged {
	return SelectionChanged{
		NodeIDs: nodesOf(p, FieldNodes),
		Origin:  OriginOf(p),
	}
}

// SelectionCleared is the canonical outcome of emptying the selection.
type SelectionCleared struct {
	Origin Origin
}

// Payload builds the dispatch payload.
func (e SelectionCleared) Payload() event.Payload {
	return event.Payload{FieldOrigin: e.Origin}
}

// SelectionClearedFrom parses a selection:clear payload.
func SelectionClearedFrom(p event.Payload) SelectionCleared {
	return SelectionCleared{Origin: OriginOf(p)}
}
