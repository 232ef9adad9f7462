package tagview

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest lists components registered from configuration rather than
// code:
//
//	components:
//	  - name: alert
//	    class: github.com/acme/site/ui.Alert
//	    render: runtime
//	    tags: ["alert:{type}"]
//	  - name: logo
//	    class: github.com/acme/site/ui.Logo
//	    render: static
//	    priority: 10
//	    tags: ["logo"]
type Manifest struct {
	Components []ManifestComponent `yaml:"components"`
}

// ManifestComponent is one manifest entry. The fields mirror Descriptor.
type ManifestComponent struct {
	Name     string     `yaml:"name"`
	Class    string     `yaml:"class"`
	Render   RenderMode `yaml:"render"`
	Priority int        `yaml:"priority"`
	Tags     []string   `yaml:"tags"`
}

// LoadManifest decodes a manifest. Unknown keys are an error.
func LoadManifest(r io.Reader) (*Manifest, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var m Manifest
	if err := dec.Decode(&m); err != nil {
		if err == io.EOF {
			return &m, nil
		}
		return nil, fmt.Errorf("tagview: decode manifest: %w", err)
	}
	return &m, nil
}

// LoadManifestFile decodes the manifest at path.
func LoadManifestFile(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("tagview: open manifest: %w", err)
	}
	defer f.Close()
	return LoadManifest(f)
}

// Constructors is a Container backed by a map of class identities to
// constructors.
type Constructors map[string]func() Component

// New constructs the component of class.
func (c Constructors) New(class string) (Component, bool) {
	ctor, ok := c[class]
	if !ok {
		return nil, false
	}
	comp := ctor()
	return comp, comp != nil
}

// ApplyManifest registers every manifest entry. Components are constructed
// by ctors; an entry whose class ctors cannot construct is registered
// without a constructor and must be provided by the factory's container.
func (reg *Registry) ApplyManifest(m *Manifest, ctors Container) error {
	for _, entry := range m.Components {
		d := Descriptor{
			Name:     entry.Name,
			Class:    entry.Class,
			Render:   entry.Render,
			Priority: entry.Priority,
			Tags:     entry.Tags,
		}
		if ctors != nil {
			if _, ok := ctors.New(entry.Class); ok {
				class := entry.Class
				d.New = func() Component {
					c, _ := ctors.New(class)
					return c
				}
			}
		}
		if d.Name == "" && d.New == nil {
			return fmt.Errorf("tagview: manifest entry %q needs a name", entry.Class)
		}
		if err := reg.Register(d); err != nil {
			return fmt.Errorf("tagview: manifest: %w", err)
		}
	}
	return nil
}
