package events

import "github.com/meshlens/meshlens/internal/event"

// RegisterAll declares every kind and its schema with the dispatcher. The
// required-field lists mirror the payload types in this package; a
// dispatch built through those types always validates.
func RegisterAll(d *event.Dispatcher) {
	// Model lifecycle.
	d.RegisterSchema(KindLoadStart, FieldModel)
	d.RegisterSchema(KindLoadSuccess, FieldModel, FieldRoot)
	d.RegisterSchema(KindLoadError, FieldModel, FieldError)
	d.RegisterSchema(KindUnload, FieldModel)

	// Raw interaction requests.
	d.RegisterSchema(KindPickRequest, FieldNode, FieldOrigin)
	d.RegisterSchema(KindHoverRequest, FieldNode, FieldOrigin, FieldHovered)
	d.RegisterSchema(KindFocusRequest, FieldNode, FieldOrigin)
	d.RegisterSchema(KindIsolateRequest, FieldNodes, FieldOrigin)

	// Canonical state events.
	d.RegisterSchema(KindSelectionChange, FieldNodes, FieldOrigin)
	d.RegisterSchema(KindSelectionClear, FieldOrigin)
	d.RegisterSchema(KindFocusNode, FieldNode, FieldOrigin)
	d.RegisterSchema(KindFocusClear, FieldOrigin)
	d.RegisterSchema(KindNodeHighlight, FieldNode, FieldOrigin)
	d.RegisterSchema(KindNodeUnhighlight, FieldNode, FieldOrigin)
	d.RegisterSchema(KindNodeIsolate, FieldNodes, FieldOrigin)
	d.RegisterSchema(KindShowAll, FieldOrigin)
	d.RegisterSchema(KindNodeShow, FieldNode)
	d.RegisterSchema(KindNodeHide, FieldNode)

	// Camera and ambient kinds.
	d.RegisterKind(KindCameraReset)
	d.RegisterSchema(KindCameraFit, FieldNodes)
	d.RegisterSchema(KindConfigChanged, FieldPath)
}
