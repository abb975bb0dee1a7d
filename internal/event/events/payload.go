package events

import (
	"github.com/meshlens/meshlens/internal/scene"
)

// Shared payload field names.
const (
	// FieldNode carries a single node id.
	FieldNode = "node"

	// FieldNodes carries a list of node ids.
	FieldNodes = "nodes"

	// FieldModel carries a model id.
	FieldModel = "model"
)

// nodeOf extracts a node id field, tolerating both the typed and the
// plain-string representation.
func nodeOf(p map[string]any, field string) scene.NodeID {
	switch v := p[field].(type) {
	case scene.NodeID:
		return v
	case string:
		return scene.NodeID(v)
	default:
		return ""
	}
}

// nodesOf extracts a node id list field.
func nodesOf(p map[string]any, field string) []scene.NodeID {
	switch v := p[field].(type) {
	case []scene.NodeID:
		return v
	case []string:
		out := make([]scene.NodeID, len(v))
		for i, s := range v {
			out[i] = scene.NodeID(s)
		}
		return out
	default:
		return nil
	}
}

// boolOf extracts a boolean field, defaulting to false.
func boolOf(p map[string]any, field string) bool {
	v, _ := p[field].(bool)
	return v
}

// stringOf extracts a string field, defaulting to "".
func stringOf(p map[string]any, field string) string {
	v, _ := p[field].(string)
	return v
}
