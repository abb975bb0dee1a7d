package events

import (
	"github.com/meshlens/meshlens/internal/event"
	"github.com/meshlens/meshlens/internal/scene"
)

// Highlight kinds. Hover traffic is high frequency; surfaces dispatch
// hover:request throttled and at low priority so it never crowds out
// discrete clicks.
const (
	// KindHoverRequest is the raw interaction dispatched when the pointer
	// enters or leaves a node on some surface.
	KindHoverRequest event.Kind = "hover:request"

	// KindNodeHighlight is the canonical event dispatched after a node
	// gained hover highlight.
	KindNodeHighlight event.Kind = "node:highlight"

	// KindNodeUnhighlight is the canonical event dispatched after a node
	// lost hover highlight.
	KindNodeUnhighlight event.Kind = "node:unhighlight"
)

// FieldHovered distinguishes pointer-enter from pointer-leave.
const FieldHovered = "hovered"

// HoverRequest asks the coordinator to toggle a node's hover highlight.
type HoverRequest struct {
	NodeID  scene.NodeID
	Origin  Origin
	Hovered bool
}

// Payload builds the dispatch payload.
func (e HoverRequest) Payload() event.Payload {
	return event.Payload{
		FieldNode:    e.NodeID,
		FieldOrigin:  e.Origin,
		FieldHovered: e.Hovered,
	}
}

// HoverRequestFrom parses a hover:request payload.
func HoverRequestFrom(p event.Payload) HoverRequest {
	return HoverRequest{
		NodeID:  nodeOf(p, FieldNode),
		Origin:  OriginOf(p),
		Hovered: boolOf(p, FieldHovered),
	}
}

// HighlightChanged is the canonical outcome of a highlight mutation, used
// for both node:highlight and node:unhighlight.
type HighlightChanged struct {
	NodeID scene.NodeID
	Origin Origin
}

// Payload builds the dispatch payload.
func (e HighlightChanged) Payload() event.Payload {
	return event.Payload{
		FieldNode:   e.NodeID,
		FieldOrigin: e.Origin,
	}
}

// HighlightChangedFrom parses a node:highlight or node:unhighlight
// payload.
func HighlightChangedFrom(p event.Payload) HighlightChanged {
	return HighlightChanged{
		NodeID: nodeOf(p, FieldNode),
		Origin: OriginOf(p),
	}
}
