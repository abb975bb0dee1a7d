package viewsync

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/meshlens/meshlens/internal/event"
	"github.com/meshlens/meshlens/internal/event/events"
	"github.com/meshlens/meshlens/internal/scene"
	"github.com/meshlens/meshlens/internal/selection"
)

// Coordinator translates raw interaction requests into selection store
// mutations and canonical state events. Construct one per application
// session and Attach it once the dispatcher's kinds are registered.
type Coordinator struct {
	dispatcher *event.Dispatcher
	store      *selection.Store
	catalog    *scene.Catalog
	log        zerolog.Logger

	mu       sync.Mutex
	active   string
	unsubs   []func()
	attached bool
}

// NewCoordinator creates a coordinator over the given dispatcher and
// store. Dependencies are injected explicitly so tests can build isolated
// instances.
func NewCoordinator(d *event.Dispatcher, store *selection.Store, log zerolog.Logger) *Coordinator {
	return &Coordinator{
		dispatcher: d,
		store:      store,
		catalog:    scene.NewCatalog(),
		log:        log.With().Str("component", "viewsync").Logger(),
	}
}

// Attach subscribes the coordinator to the model lifecycle and raw
// interaction kinds. Attach is idempotent.
func (c *Coordinator) Attach() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.attached {
		return
	}
	c.attached = true

	subs := []struct {
		kind event.Kind
		fn   event.Listener
	}{
		{events.KindLoadSuccess, c.onLoadSuccess},
		{events.KindLoadError, c.onLoadError},
		{events.KindUnload, c.onUnload},
		{events.KindPickRequest, c.onPick},
		{events.KindHoverRequest, c.onHover},
		{events.KindFocusRequest, c.onFocus},
		{events.KindIsolateRequest, c.onIsolate},
	}
	for _, s := range subs {
		c.unsubs = append(c.unsubs, c.dispatcher.Subscribe(s.kind, s.fn))
	}
}

// Detach removes every subscription. Detach is idempotent.
func (c *Coordinator) Detach() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, unsub := range c.unsubs {
		unsub()
	}
	c.unsubs = nil
	c.attached = false
}

// Model returns the active model, or nil when none is loaded.
func (c *Coordinator) Model() *scene.Model {
	c.mu.Lock()
	active := c.active
	c.mu.Unlock()

	if active == "" {
		return nil
	}
	return c.catalog.Get(active)
}

// Catalog returns the session model catalog. Every load:success model
// stays cataloged until its unload, so surfaces can list and switch
// between loaded models.
func (c *Coordinator) Catalog() *scene.Catalog {
	return c.catalog
}

// onLoadSuccess catalogs the model, makes it active, resets interaction
// state and asks the viewport to frame it.
func (c *Coordinator) onLoadSuccess(ev event.Event) error {
	load := events.LoadSuccessFrom(ev.Payload)
	if load.ModelID == "" || load.Root == nil {
		return fmt.Errorf("load:success payload missing model %q or root", load.ModelID)
	}

	c.catalog.Add(&scene.Model{ID: load.ModelID, Root: load.Root})
	c.mu.Lock()
	c.active = load.ModelID
	c.mu.Unlock()

	c.store.Reset()
	c.log.Info().
		Str("model", load.ModelID).
		Int("nodes", load.Root.Count()).
		Int("cataloged", c.catalog.Len()).
		Msg("model loaded")

	c.dispatcher.Dispatch(events.KindCameraFit, events.CameraFit{}.Payload())
	return nil
}

// onLoadError only records the failure; the UI decides what to render.
func (c *Coordinator) onLoadError(ev event.Event) error {
	fail := events.LoadErrorFrom(ev.Payload)
	c.log.Warn().
		Str("model", fail.ModelID).
		Str("reason", fail.Reason).
		Msg("model load failed")
	return nil
}

// onUnload drops a model from the catalog. An empty model id means the
// active model. Interaction state resets only when the active model was
// the one unloaded; removing a background catalog entry leaves the
// current selection alone.
func (c *Coordinator) onUnload(ev event.Event) error {
	req := events.UnloadFrom(ev.Payload)

	c.mu.Lock()
	id := req.ModelID
	if id == "" {
		id = c.active
	}
	wasActive := id != "" && id == c.active
	if wasActive {
		c.active = ""
	}
	c.mu.Unlock()

	if id == "" {
		return nil
	}
	c.catalog.Remove(id)
	if wasActive {
		c.store.Reset()
	}
	c.log.Info().Str("model", id).Bool("was_active", wasActive).Msg("model unloaded")
	return nil
}

// resolve checks a node id against the loaded model. An unresolvable id
// is dropped rather than propagated; a stale pick from a surface that has
// not caught up with a model swap must not corrupt the store.
func (c *Coordinator) resolve(id scene.NodeID) bool {
	if id == "" {
		return false
	}
	model := c.Model()
	if model != nil && !model.Contains(id) {
		c.log.Debug().Str("node", id.String()).Msg("dropping request for unknown node")
		return false
	}
	return true
}

// onPick applies a selection request. An empty node id is a background
// pick and clears the selection.
func (c *Coordinator) onPick(ev event.Event) error {
	req := events.PickRequestFrom(ev.Payload)

	if req.NodeID == "" {
		c.store.ClearSelection()
		c.dispatcher.Dispatch(events.KindSelectionClear,
			events.SelectionCleared{Origin: req.Origin}.Payload(),
			event.WithPriority(event.PriorityHigh))
		return nil
	}
	if !c.resolve(req.NodeID) {
		return nil
	}

	c.store.Select(req.NodeID, req.Multi)
	c.dispatcher.Dispatch(events.KindSelectionChange,
		events.SelectionChanged{
			NodeIDs: c.store.SelectedIDs(),
			Origin:  req.Origin,
		}.Payload(),
		event.WithPriority(event.PriorityHigh))
	return nil
}

// onHover applies a hover highlight toggle.
func (c *Coordinator) onHover(ev event.Event) error {
	req := events.HoverRequestFrom(ev.Payload)
	if !c.resolve(req.NodeID) {
		return nil
	}

	changed := events.HighlightChanged{NodeID: req.NodeID, Origin: req.Origin}
	if req.Hovered {
		c.store.Highlight(req.NodeID)
		c.dispatcher.Dispatch(events.KindNodeHighlight, changed.Payload(),
			event.WithPriority(event.PriorityLow))
	} else {
		c.store.Dehighlight(req.NodeID)
		c.dispatcher.Dispatch(events.KindNodeUnhighlight, changed.Payload(),
			event.WithPriority(event.PriorityLow))
	}
	return nil
}

// onFocus moves or clears focus. A new focus request elsewhere replaces
// the previous one.
func (c *Coordinator) onFocus(ev event.Event) error {
	req := events.FocusRequestFrom(ev.Payload)

	if req.NodeID == "" {
		c.store.ClearFocus()
		c.dispatcher.Dispatch(events.KindFocusClear,
			events.FocusCleared{Origin: req.Origin}.Payload(),
			event.WithPriority(event.PriorityHigh))
		return nil
	}
	if !c.resolve(req.NodeID) {
		return nil
	}

	c.store.Focus(req.NodeID)
	c.dispatcher.Dispatch(events.KindFocusNode,
		events.FocusChanged{NodeID: req.NodeID, Origin: req.Origin}.Payload(),
		event.WithPriority(event.PriorityHigh))
	return nil
}

// onIsolate restricts the display set, or restores it on an empty list.
func (c *Coordinator) onIsolate(ev event.Event) error {
	req := events.IsolateRequestFrom(ev.Payload)

	if len(req.NodeIDs) == 0 {
		c.store.ClearIsolation()
		c.dispatcher.Dispatch(events.KindShowAll,
			events.IsolationChanged{Origin: req.Origin}.Payload())
		return nil
	}

	kept := make([]scene.NodeID, 0, len(req.NodeIDs))
	for _, id := range req.NodeIDs {
		if c.resolve(id) {
			kept = append(kept, id)
		}
	}
	if len(kept) == 0 {
		return nil
	}

	c.store.Isolate(kept)
	c.dispatcher.Dispatch(events.KindNodeIsolate,
		events.IsolationChanged{NodeIDs: c.store.IsolatedIDs(), Origin: req.Origin}.Payload())
	return nil
}
