package viewsync

import (
	"reflect"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/meshlens/meshlens/internal/event"
	"github.com/meshlens/meshlens/internal/event/events"
	"github.com/meshlens/meshlens/internal/scene"
	"github.com/meshlens/meshlens/internal/selection"
)

// harness wires a dispatcher, store and attached coordinator the way
// app.New does, minus config and logging.
type harness struct {
	dispatcher *event.Dispatcher
	store      *selection.Store
	coord      *Coordinator
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	d := event.NewDispatcher(event.WithLogger(zerolog.Nop()))
	events.RegisterAll(d)

	store := selection.NewStore()
	coord := NewCoordinator(d, store, zerolog.Nop())
	coord.Attach()

	t.Cleanup(func() {
		coord.Detach()
		d.Close()
	})
	return &harness{dispatcher: d, store: store, coord: coord}
}

// loadModel pushes a model through the load:success lifecycle.
func (h *harness) loadModel(t *testing.T, id string, root *scene.Node) {
	t.Helper()
	ok := h.dispatcher.Dispatch(events.KindLoadSuccess,
		events.LoadSuccess{ModelID: id, Root: root}.Payload())
	if !ok {
		t.Fatal("load:success dispatch rejected")
	}
}

func bracketModel() *scene.Node {
	return &scene.Node{
		ID: "root", Name: "Assembly",
		Children: []*scene.Node{
			{ID: "n42", Name: "Bracket"},
			{ID: "n43", Name: "Plate"},
		},
	}
}

func TestCoordinator_LoadSuccessResetsState(t *testing.T) {
	h := newHarness(t)

	h.store.Select("stale", false)
	h.store.Focus("stale")

	var fits int
	h.dispatcher.Subscribe(events.KindCameraFit, func(event.Event) error {
		fits++
		return nil
	})

	h.loadModel(t, "m1", bracketModel())

	if !h.store.Empty() {
		t.Error("load:success must reset the selection store")
	}
	m := h.coord.Model()
	if m == nil || m.ID != "m1" {
		t.Fatalf("coordinator model = %+v, want m1", m)
	}
	if !m.Contains("n42") {
		t.Error("expected loaded model to contain n42")
	}
	if fits != 1 {
		t.Errorf("expected 1 camera:fit, got %d", fits)
	}
}

func TestCoordinator_PickSelectsAndEmitsCanonical(t *testing.T) {
	h := newHarness(t)
	h.loadModel(t, "m1", bracketModel())

	var changes []events.SelectionChanged
	h.dispatcher.Subscribe(events.KindSelectionChange, func(ev event.Event) error {
		changes = append(changes, events.SelectionChangedFrom(ev.Payload))
		return nil
	})

	DispatchPick(h.dispatcher, events.PickRequest{NodeID: "n42", Origin: events.OriginViewport})

	if !h.store.IsSelected("n42") {
		t.Error("expected n42 selected")
	}
	if len(changes) != 1 {
		t.Fatalf("expected 1 selection:change, got %d", len(changes))
	}
	if !reflect.DeepEqual(changes[0].NodeIDs, []scene.NodeID{"n42"}) {
		t.Errorf("canonical event carries %v, want [n42]", changes[0].NodeIDs)
	}
	if changes[0].Origin != events.OriginViewport {
		t.Errorf("canonical origin = %q, want viewport", changes[0].Origin)
	}
}

// Consumer surfaces suppress canonical events tagged with their own
// origin. A pick from the tree must re-render the viewport and the panel
// but never the tree itself; that skipped self-delivery is what breaks
// the feedback loop.
func TestCoordinator_OriginSuppressionBreaksFeedbackLoop(t *testing.T) {
	h := newHarness(t)
	h.loadModel(t, "m1", bracketModel())

	applied := map[events.Origin]int{}
	received := map[events.Origin]int{}
	surface := func(self events.Origin) event.Listener {
		return func(ev event.Event) error {
			received[self]++
			if IsEcho(ev.Payload, self) {
				return nil
			}
			applied[self]++
			return nil
		}
	}
	h.dispatcher.Subscribe(events.KindSelectionChange, surface(events.OriginTree))
	h.dispatcher.Subscribe(events.KindSelectionChange, surface(events.OriginViewport))
	h.dispatcher.Subscribe(events.KindSelectionChange, surface(events.OriginPanel))

	DispatchPick(h.dispatcher, events.PickRequest{NodeID: "n42", Origin: events.OriginTree})

	// Every surface receives the canonical event once; only the
	// originator skips applying it.
	for _, o := range []events.Origin{events.OriginTree, events.OriginViewport, events.OriginPanel} {
		if received[o] != 1 {
			t.Errorf("surface %q received %d events, want 1", o, received[o])
		}
	}
	if applied[events.OriginTree] != 0 {
		t.Errorf("tree applied its own pick %d times, want 0", applied[events.OriginTree])
	}
	if applied[events.OriginViewport] != 1 || applied[events.OriginPanel] != 1 {
		t.Errorf("viewport/panel applied = %d/%d, want 1/1",
			applied[events.OriginViewport], applied[events.OriginPanel])
	}

	// A second pick from the viewport flips the suppressed surface.
	DispatchPick(h.dispatcher, events.PickRequest{NodeID: "n43", Origin: events.OriginViewport})
	if applied[events.OriginTree] != 1 {
		t.Errorf("tree applied %d viewport picks, want 1", applied[events.OriginTree])
	}
	if applied[events.OriginViewport] != 1 {
		t.Errorf("viewport applied its own pick")
	}
}

func TestCoordinator_SingleModePickReplaces(t *testing.T) {
	h := newHarness(t)
	h.loadModel(t, "m1", bracketModel())

	DispatchPick(h.dispatcher, events.PickRequest{NodeID: "n42", Origin: events.OriginTree})
	DispatchPick(h.dispatcher, events.PickRequest{NodeID: "n43", Origin: events.OriginTree})

	if h.store.IsSelected("n42") {
		t.Error("single-mode pick must replace the previous selection")
	}
	if !h.store.IsSelected("n43") {
		t.Error("expected n43 selected")
	}
}

func TestCoordinator_MultiPickUnions(t *testing.T) {
	h := newHarness(t)
	h.loadModel(t, "m1", bracketModel())

	var last events.SelectionChanged
	h.dispatcher.Subscribe(events.KindSelectionChange, func(ev event.Event) error {
		last = events.SelectionChangedFrom(ev.Payload)
		return nil
	})

	DispatchPick(h.dispatcher, events.PickRequest{NodeID: "n42", Origin: events.OriginTree})
	DispatchPick(h.dispatcher, events.PickRequest{NodeID: "n43", Origin: events.OriginTree, Multi: true})

	if h.store.SelectionCount() != 2 {
		t.Fatalf("expected 2 selected nodes, got %d", h.store.SelectionCount())
	}
	if !reflect.DeepEqual(last.NodeIDs, []scene.NodeID{"n42", "n43"}) {
		t.Errorf("canonical event carries %v, want full set", last.NodeIDs)
	}
}

func TestCoordinator_BackgroundPickClears(t *testing.T) {
	h := newHarness(t)
	h.loadModel(t, "m1", bracketModel())

	var clears int
	h.dispatcher.Subscribe(events.KindSelectionClear, func(event.Event) error {
		clears++
		return nil
	})

	DispatchPick(h.dispatcher, events.PickRequest{NodeID: "n42", Origin: events.OriginViewport})
	DispatchPick(h.dispatcher, events.PickRequest{Origin: events.OriginViewport})

	if h.store.SelectionCount() != 0 {
		t.Error("a background pick must clear the selection")
	}
	if clears != 1 {
		t.Errorf("expected 1 selection:clear, got %d", clears)
	}
}

func TestCoordinator_UnknownNodeDropped(t *testing.T) {
	h := newHarness(t)
	h.loadModel(t, "m1", bracketModel())

	var changes int
	h.dispatcher.Subscribe(events.KindSelectionChange, func(event.Event) error {
		changes++
		return nil
	})

	DispatchPick(h.dispatcher, events.PickRequest{NodeID: "ghost", Origin: events.OriginTree})

	if h.store.SelectionCount() != 0 {
		t.Error("a pick for an unknown node must not mutate the store")
	}
	if changes != 0 {
		t.Errorf("expected no selection:change, got %d", changes)
	}
}

func TestCoordinator_HoverHighlight(t *testing.T) {
	h := newHarness(t)
	h.loadModel(t, "m1", bracketModel())

	var on, off int
	h.dispatcher.Subscribe(events.KindNodeHighlight, func(event.Event) error {
		on++
		return nil
	})
	h.dispatcher.Subscribe(events.KindNodeUnhighlight, func(event.Event) error {
		off++
		return nil
	})

	DispatchHover(h.dispatcher, events.HoverRequest{NodeID: "n42", Origin: events.OriginViewport, Hovered: true}, 0, 0)
	if !h.store.IsHighlighted("n42") {
		t.Error("expected n42 highlighted")
	}

	DispatchHover(h.dispatcher, events.HoverRequest{NodeID: "n42", Origin: events.OriginViewport}, 0, 0)
	if h.store.IsHighlighted("n42") {
		t.Error("expected n42 dehighlighted")
	}
	if on != 1 || off != 1 {
		t.Errorf("highlight/unhighlight = %d/%d, want 1/1", on, off)
	}
}

func TestCoordinator_HoverThrottled(t *testing.T) {
	h := newHarness(t)
	h.loadModel(t, "m1", bracketModel())

	var seen int
	h.dispatcher.Subscribe(events.KindHoverRequest, func(event.Event) error {
		seen++
		return nil
	})

	throttle := 50 * time.Millisecond
	req := events.HoverRequest{NodeID: "n42", Origin: events.OriginViewport, Hovered: true}
	if !DispatchHover(h.dispatcher, req, throttle, 0) {
		t.Fatal("first hover must pass the throttle")
	}
	if DispatchHover(h.dispatcher, req, throttle, 0) {
		t.Error("second hover inside the window must be absorbed")
	}
	if seen != 1 {
		t.Errorf("expected 1 hover delivery, got %d", seen)
	}
}

func TestCoordinator_HoverDebounced(t *testing.T) {
	h := newHarness(t)
	h.loadModel(t, "m1", bracketModel())

	delivered := make(chan events.HoverRequest, 8)
	h.dispatcher.Subscribe(events.KindHoverRequest, func(ev event.Event) error {
		delivered <- events.HoverRequestFrom(ev.Payload)
		return nil
	})

	debounce := 30 * time.Millisecond
	// A burst of pointer movement collapses to one delivery carrying the
	// last request.
	DispatchHover(h.dispatcher, events.HoverRequest{NodeID: "n42", Origin: events.OriginViewport, Hovered: true}, 0, debounce)
	DispatchHover(h.dispatcher, events.HoverRequest{NodeID: "n43", Origin: events.OriginViewport, Hovered: true}, 0, debounce)

	select {
	case req := <-delivered:
		if req.NodeID != "n43" {
			t.Errorf("debounced hover delivered %q, want the last request n43", req.NodeID)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for debounced hover")
	}

	select {
	case req := <-delivered:
		t.Fatalf("unexpected second delivery %+v", req)
	case <-time.After(3 * debounce):
	}

	if h.store.IsHighlighted("n42") {
		t.Error("superseded hover must not reach the store")
	}
	if !h.store.IsHighlighted("n43") {
		t.Error("expected n43 highlighted after the quiet period")
	}
}

func TestCoordinator_FocusMovesAndClears(t *testing.T) {
	h := newHarness(t)
	h.loadModel(t, "m1", bracketModel())

	var focused []events.FocusChanged
	h.dispatcher.Subscribe(events.KindFocusNode, func(ev event.Event) error {
		focused = append(focused, events.FocusChangedFrom(ev.Payload))
		return nil
	})
	var clears int
	h.dispatcher.Subscribe(events.KindFocusClear, func(event.Event) error {
		clears++
		return nil
	})

	DispatchFocus(h.dispatcher, events.FocusRequest{NodeID: "n42", Origin: events.OriginTree})
	DispatchFocus(h.dispatcher, events.FocusRequest{NodeID: "n43", Origin: events.OriginPanel})

	if h.store.IsFocused("n42") {
		t.Error("a new focus request must replace the previous one")
	}
	if !h.store.IsFocused("n43") {
		t.Error("expected n43 focused")
	}
	if len(focused) != 2 || focused[1].Origin != events.OriginPanel {
		t.Errorf("focus events = %+v", focused)
	}

	DispatchFocus(h.dispatcher, events.FocusRequest{Origin: events.OriginTree})
	if _, ok := h.store.FocusedID(); ok {
		t.Error("an empty focus request must clear focus")
	}
	if clears != 1 {
		t.Errorf("expected 1 focus:clear, got %d", clears)
	}
}

func TestCoordinator_IsolateAndShowAll(t *testing.T) {
	h := newHarness(t)
	h.loadModel(t, "m1", bracketModel())

	var isolated []events.IsolationChanged
	h.dispatcher.Subscribe(events.KindNodeIsolate, func(ev event.Event) error {
		isolated = append(isolated, events.IsolationChangedFrom(ev.Payload))
		return nil
	})
	var showAll int
	h.dispatcher.Subscribe(events.KindShowAll, func(event.Event) error {
		showAll++
		return nil
	})

	DispatchIsolate(h.dispatcher, events.IsolateRequest{
		NodeIDs: []scene.NodeID{"n42", "ghost"},
		Origin:  events.OriginTree,
	})

	// Unknown ids are filtered, known ids survive.
	if !h.store.IsIsolated("n42") || h.store.IsIsolated("n43") {
		t.Error("expected isolation restricted to n42")
	}
	if len(isolated) != 1 || !reflect.DeepEqual(isolated[0].NodeIDs, []scene.NodeID{"n42"}) {
		t.Errorf("isolation events = %+v", isolated)
	}

	DispatchIsolate(h.dispatcher, events.IsolateRequest{Origin: events.OriginTree})
	if h.store.HasIsolation() {
		t.Error("an empty isolate request must restore the full display set")
	}
	if showAll != 1 {
		t.Errorf("expected 1 show:all, got %d", showAll)
	}
}

func TestCoordinator_CatalogTracksLoadedModels(t *testing.T) {
	h := newHarness(t)

	h.loadModel(t, "m1", bracketModel())
	h.loadModel(t, "m2", &scene.Node{ID: "root", Children: []*scene.Node{{ID: "x1"}}})

	if got := h.coord.Catalog().IDs(); !reflect.DeepEqual(got, []string{"m1", "m2"}) {
		t.Fatalf("catalog ids = %v, want [m1 m2]", got)
	}

	// The latest load is the active model; requests resolve against it.
	if m := h.coord.Model(); m == nil || m.ID != "m2" {
		t.Fatalf("active model = %+v, want m2", m)
	}
	DispatchPick(h.dispatcher, events.PickRequest{NodeID: "n42", Origin: events.OriginTree})
	if h.store.SelectionCount() != 0 {
		t.Error("a node of a background model must not resolve against the active one")
	}
	DispatchPick(h.dispatcher, events.PickRequest{NodeID: "x1", Origin: events.OriginTree})
	if !h.store.IsSelected("x1") {
		t.Error("expected x1 selected in the active model")
	}

	// Unloading a background entry leaves the active session alone.
	h.dispatcher.Dispatch(events.KindUnload, events.Unload{ModelID: "m1"}.Payload())
	if got := h.coord.Catalog().IDs(); !reflect.DeepEqual(got, []string{"m2"}) {
		t.Errorf("catalog ids = %v, want [m2]", got)
	}
	if !h.store.IsSelected("x1") {
		t.Error("unloading a background model must not reset the selection")
	}

	// An unload without a model id unloads the active model.
	h.dispatcher.Dispatch(events.KindUnload, events.Unload{}.Payload())
	if h.coord.Model() != nil {
		t.Error("expected no active model after unloading it")
	}
	if h.coord.Catalog().Len() != 0 {
		t.Errorf("catalog len = %d, want 0", h.coord.Catalog().Len())
	}
	if !h.store.Empty() {
		t.Error("unloading the active model must reset the store")
	}
}

func TestCoordinator_ReloadReplacesCatalogEntry(t *testing.T) {
	h := newHarness(t)

	h.loadModel(t, "m1", bracketModel())
	h.loadModel(t, "m1", &scene.Node{ID: "root", Children: []*scene.Node{{ID: "fresh"}}})

	if h.coord.Catalog().Len() != 1 {
		t.Fatalf("catalog len = %d, want 1", h.coord.Catalog().Len())
	}
	m := h.coord.Model()
	if m == nil || !m.Contains("fresh") || m.Contains("n42") {
		t.Error("reloading a model id must replace its hierarchy")
	}
}

func TestCoordinator_UnloadDropsModelAndState(t *testing.T) {
	h := newHarness(t)
	h.loadModel(t, "m1", bracketModel())
	DispatchPick(h.dispatcher, events.PickRequest{NodeID: "n42", Origin: events.OriginTree})

	h.dispatcher.Dispatch(events.KindUnload, events.Unload{ModelID: "m1"}.Payload())

	if h.coord.Model() != nil {
		t.Error("unload must drop the model")
	}
	if !h.store.Empty() {
		t.Error("unload must reset the selection store")
	}
}

func TestCoordinator_DetachStopsHandling(t *testing.T) {
	h := newHarness(t)
	h.loadModel(t, "m1", bracketModel())

	h.coord.Detach()
	DispatchPick(h.dispatcher, events.PickRequest{NodeID: "n42", Origin: events.OriginTree})

	if h.store.SelectionCount() != 0 {
		t.Error("a detached coordinator must not mutate the store")
	}

	// Detach and Attach are idempotent.
	h.coord.Detach()
	h.coord.Attach()
	h.coord.Attach()
	DispatchPick(h.dispatcher, events.PickRequest{NodeID: "n42", Origin: events.OriginTree})
	if !h.store.IsSelected("n42") {
		t.Error("expected handling restored after re-attach")
	}
	if h.store.SelectionCount() != 1 {
		t.Errorf("double Attach must not double-handle, got %d selected", h.store.SelectionCount())
	}
}

func TestCoordinator_PickBeforeLoadStillSelects(t *testing.T) {
	// With no model loaded there is nothing to resolve against; requests
	// are taken at face value.
	h := newHarness(t)

	DispatchPick(h.dispatcher, events.PickRequest{NodeID: "n42", Origin: events.OriginTree})
	if !h.store.IsSelected("n42") {
		t.Error("expected pick applied when no model is loaded")
	}
}

func TestIsEcho(t *testing.T) {
	p := events.SelectionChanged{Origin: events.OriginTree}.Payload()

	if !IsEcho(p, events.OriginTree) {
		t.Error("expected echo for the originating surface")
	}
	if IsEcho(p, events.OriginViewport) {
		t.Error("expected no echo for a different surface")
	}
	if IsEcho(event.Payload{}, events.OriginTree) {
		t.Error("an untagged payload is never an echo for a surface")
	}
}
