package scene

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// manifestNode is the YAML shape of a part-hierarchy entry.
type manifestNode struct {
	ID       string         `yaml:"id"`
	Name     string         `yaml:"name,omitempty"`
	Children []manifestNode `yaml:"children,omitempty"`
}

// manifest is the YAML shape of a model manifest. Headless runs and tests
// use manifests in place of a real mesh loader; the loader contract is the
// same either way (dispatch load:success with the model and its root).
type manifest struct {
	Model string       `yaml:"model"`
	Root  manifestNode `yaml:"root"`
}

// LoadManifest parses a part-hierarchy manifest.
func LoadManifest(r io.Reader) (*Model, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	if m.Model == "" {
		return nil, fmt.Errorf("manifest missing model id")
	}
	if m.Root.ID == "" {
		return nil, fmt.Errorf("manifest missing root node")
	}

	root, err := buildNode(m.Root, make(map[NodeID]bool))
	if err != nil {
		return nil, err
	}
	return &Model{ID: m.Model, Root: root}, nil
}

// LoadManifestFile parses a part-hierarchy manifest from disk.
func LoadManifestFile(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening manifest: %w", err)
	}
	defer f.Close()

	return LoadManifest(f)
}

// buildNode converts a manifest entry, rejecting duplicate ids.
func buildNode(mn manifestNode, seen map[NodeID]bool) (*Node, error) {
	id := NodeID(mn.ID)
	if id == "" {
		return nil, fmt.Errorf("manifest node missing id")
	}
	if seen[id] {
		return nil, fmt.Errorf("duplicate node id %q", id)
	}
	seen[id] = true

	name := mn.Name
	if name == "" {
		name = mn.ID
	}
	node := &Node{ID: id, Name: name}
	for _, child := range mn.Children {
		c, err := buildNode(child, seen)
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, c)
	}
	return node, nil
}
