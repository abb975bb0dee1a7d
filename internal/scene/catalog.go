package scene

import (
	"sort"
	"sync"
)

// Catalog tracks every model loaded during a session by id. Loading a
// model with an id already present replaces the earlier entry; which
// catalog entry is the active one is the sync coordinator's concern, not
// the catalog's.
type Catalog struct {
	mu     sync.RWMutex
	models map[string]*Model
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{models: make(map[string]*Model)}
}

// Add registers a model, replacing any entry with the same id. Models
// without an id are ignored.
func (c *Catalog) Add(m *Model) {
	if m == nil || m.ID == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.models[m.ID] = m
}

// Get returns the model with the given id, or nil.
func (c *Catalog) Get(id string) *Model {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.models[id]
}

// Remove drops a model from the catalog and reports whether it was
// present.
func (c *Catalog) Remove(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.models[id]; !ok {
		return false
	}
	delete(c.models, id)
	return true
}

// IDs returns the catalog's model ids in lexical order.
func (c *Catalog) IDs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if len(c.models) == 0 {
		return nil
	}
	out := make([]string, 0, len(c.models))
	for id := range c.models {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of cataloged models.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.models)
}

// Clear empties the catalog.
func (c *Catalog) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.models = make(map[string]*Model)
}
