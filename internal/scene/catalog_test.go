package scene

import (
	"reflect"
	"testing"
)

func TestCatalog_AddGetRemove(t *testing.T) {
	c := NewCatalog()

	m1 := &Model{ID: "m1", Root: &Node{ID: "root"}}
	m2 := &Model{ID: "m2", Root: &Node{ID: "root"}}
	c.Add(m1)
	c.Add(m2)

	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}
	if got := c.Get("m1"); got != m1 {
		t.Errorf("Get(m1) = %v, want the added model", got)
	}
	if c.Get("missing") != nil {
		t.Error("expected nil for an uncataloged id")
	}

	if !c.Remove("m1") {
		t.Error("Remove(m1) = false, want true")
	}
	if c.Remove("m1") {
		t.Error("second Remove(m1) = true, want false")
	}
	if c.Get("m1") != nil {
		t.Error("expected m1 gone after Remove")
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestCatalog_AddReplacesSameID(t *testing.T) {
	c := NewCatalog()

	old := &Model{ID: "m1", Root: &Node{ID: "a"}}
	fresh := &Model{ID: "m1", Root: &Node{ID: "b"}}
	c.Add(old)
	c.Add(fresh)

	if c.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", c.Len())
	}
	if got := c.Get("m1"); got != fresh {
		t.Error("reloading an id must replace the earlier entry")
	}
}

func TestCatalog_IgnoresInvalidModels(t *testing.T) {
	c := NewCatalog()

	c.Add(nil)
	c.Add(&Model{Root: &Node{ID: "root"}})

	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0", c.Len())
	}
}

func TestCatalog_IDsSorted(t *testing.T) {
	c := NewCatalog()
	for _, id := range []string{"m3", "m1", "m2"} {
		c.Add(&Model{ID: id, Root: &Node{ID: "root"}})
	}

	if got := c.IDs(); !reflect.DeepEqual(got, []string{"m1", "m2", "m3"}) {
		t.Errorf("IDs() = %v, want lexical order", got)
	}

	c.Clear()
	if c.IDs() != nil || c.Len() != 0 {
		t.Error("expected empty catalog after Clear")
	}
}
