package events

import (
	"github.com/meshlens/meshlens/internal/event"
	"github.com/meshlens/meshlens/internal/scene"
)

// Model lifecycle kinds.
const (
	// KindLoadStart is dispatched when a loader begins parsing a model.
	KindLoadStart event.Kind = "load:start"

	// KindLoadSuccess is dispatched when a loader finished parsing. The
	// sync coordinator resets the selection store for the new model.
	KindLoadSuccess event.Kind = "load:success"

	// KindLoadError is dispatched when a loader failed.
	KindLoadError event.Kind = "load:error"

	// KindUnload is dispatched when the current model is discarded.
	KindUnload event.Kind = "unload"
)

// FieldRoot carries a model's root node on load:success.
const FieldRoot = "root"

// FieldError carries a failure description on load:error.
const FieldError = "error"

// LoadStart announces that a loader began work on a model.
type LoadStart struct {
	ModelID string
}

// Payload builds the dispatch payload.
func (e LoadStart) Payload() event.Payload {
	return event.Payload{FieldModel: e.ModelID}
}

// LoadStartFrom parses a load:start payload.
func LoadStartFrom(p event.Payload) LoadStart {
	return LoadStart{ModelID: stringOf(p, FieldModel)}
}

// LoadSuccess announces a parsed model. Root carries the part hierarchy
// the consumer surfaces render from.
type LoadSuccess struct {
	ModelID string
	Root    *scene.Node
}

// Payload builds the dispatch payload.
func (e LoadSuccess) Payload() event.Payload {
	return event.Payload{
		FieldModel: e.ModelID,
		FieldRoot:  e.Root,
	}
}

// LoadSuccessFrom parses a load:success payload.
func LoadSuccessFrom(p event.Payload) LoadSuccess {
	root, _ := p[FieldRoot].(*scene.Node)
	return LoadSuccess{
		ModelID: stringOf(p, FieldModel),
		Root:    root,
	}
}

// LoadError announces a failed load.
type LoadError struct {
	ModelID string
	Reason  string
}

// Payload builds the dispatch payload.
func (e LoadError) Payload() event.Payload {
	return event.Payload{
		FieldModel: e.ModelID,
		FieldError: e.Reason,
	}
}

// LoadErrorFrom parses a load:error payload.
func LoadErrorFrom(p event.Payload) LoadError {
	return LoadError{
		ModelID: stringOf(p, FieldModel),
		Reason:  stringOf(p, FieldError),
	}
}

// Unload announces that the current model was discarded.
type Unload struct {
	ModelID string
}

// Payload builds the dispatch payload.
func (e Unload) Payload() event.Payload {
	return event.Payload{FieldModel: e.ModelID}
}

// UnloadFrom parses an unload payload.
func UnloadFrom(p event.Payload) Unload {
	return Unload{ModelID: stringOf(p, FieldModel)}
}
