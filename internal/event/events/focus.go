package events

import (
	"github.com/meshlens/meshlens/internal/event"
	"github.com/meshlens/meshlens/internal/scene"
)

// Focus kinds.
const (
	// KindFocusRequest is the raw interaction dispatched when a surface
	// asks for a node to take focus. An empty node id clears focus.
	KindFocusRequest event.Kind = "focus:request"

	// KindFocusNode is the canonical event dispatched after a node took
	// focus.
	KindFocusNode event.Kind = "focus:node"

	// KindFocusClear is the canonical event dispatched after focus was
	// cleared.
	KindFocusClear event.Kind = "focus:clear"
)

// FocusRequest asks the coordinator to move or clear focus.
type FocusRequest struct {
	NodeID scene.NodeID
	Origin Origin
}

// Payload builds the dispatch payload.
func (e FocusRequest) Payload() event.Payload {
	return event.Payload{
		FieldNode:   e.NodeID,
		FieldOrigin: e.Origin,
	}
}

// FocusRequestFrom parses a focus:request payload.
func FocusRequestFrom(p event.Payload) FocusRequest {
	return FocusRequest{
		NodeID: nodeOf(p, FieldNode),
		Origin: OriginOf(p),
	}
}

// FocusChanged is the canonical outcome of a focus mutation.
type FocusChanged struct {
	NodeID scene.NodeID
	Origin Origin
}

// Payload builds the dispatch payload.
func (e FocusChanged) Payload() event.Payload {
	return event.Payload{
		FieldNode:   e.NodeID,
		FieldOrigin: e.Origin,
	}
}

// FocusChangedFrom parses a focus:node payload.
func FocusChangedFrom(p event.Payload) FocusChanged {
	return FocusChanged{
		NodeID: nodeOf(p, FieldNode),
		Origin: OriginOf(p),
	}
}

// FocusCleared is the canonical outcome of clearing focus.
type FocusCleared struct {
	Origin Origin
}

// Payload builds the dispatch payload.
func (e FocusCleared) Payload() event.Payload {
	return event.Payload{FieldOrigin: e.Origin}
}

// FocusClearedFrom parses a focus:clear payload.
func FocusClearedFrom(p event.Payload) FocusCleared {
	return FocusCleared{Origin: OriginOf(p)}
}
