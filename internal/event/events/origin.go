package events

// Origin identifies the consumer surface that triggered an interaction.
// Canonical state events carry the origin of the request that caused them;
// a surface receiving a canonical event tagged with its own origin skips
// its re-render, which is what keeps the tree, viewport and panel from
// feeding updates back to each other in a loop.
type Origin string

const (
	// OriginNone marks events with no originating surface (programmatic
	// mutations, model lifecycle).
	OriginNone Origin = ""

	// OriginTree marks interactions from the part hierarchy tree.
	OriginTree Origin = "tree"

	// OriginViewport marks interactions from the 3D viewport picker.
	OriginViewport Origin = "viewport"

	// OriginPanel marks interactions from the properties panel.
	OriginPanel Origin = "panel"
)

// String returns the origin as a string.
func (o Origin) String() string {
	return string(o)
}

// FieldOrigin is the payload field carrying the origin tag.
const FieldOrigin = "origin"

// OriginOf extracts the origin tag from a payload, defaulting to
// OriginNone when absent or of an unexpected type.
func OriginOf(p map[string]any) Origin {
	switch v := p[FieldOrigin].(type) {
	case Origin:
		return v
	case string:
		return Origin(v)
	default:
		return OriginNone
	}
}
