// Package catalog holds the static table of back-office resources: their
// endpoint paths, list envelopes, searchable fields and edit-form fields.
package catalog

import (
	"fmt"
	"sort"

	"github.com/mesh-intelligence/backdesk/pkg/types"
)

// Catalog maps resource names to their definitions.
type Catalog struct {
	resources map[string]types.Resource
}

// Standard returns the catalog of the standard back-office resources.
func Standard() *Catalog {
	c := &Catalog{resources: make(map[string]types.Resource)}
	for _, r := range standardResources() {
		c.resources[r.Name] = r
	}
	return c
}

// Apply returns a copy of the catalog with path and envelope overrides from
// config. Overrides for unknown resources are rejected.
func (c *Catalog) Apply(overrides map[string]types.ResourceOverride) (*Catalog, error) {
	out := &Catalog{resources: make(map[string]types.Resource, len(c.resources))}
	for name, r := range c.resources {
		out.resources[name] = r
	}
	for name, o := range overrides {
		r, ok := out.resources[name]
		if !ok {
			return nil, fmt.Errorf("override %q: %w", name, types.ErrUnknownResource)
		}
		if o.Path != "" {
			r.Path = o.Path
		}
		if o.Envelope != "" {
			r.Envelope = types.Envelope(o.Envelope)
		}
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("override %q: %w", name, err)
		}
		out.resources[name] = r
	}
	return out, nil
}

// Lookup returns the named resource.
func (c *Catalog) Lookup(name string) (types.Resource, error) {
	r, ok := c.resources[name]
	if !ok {
		return types.Resource{}, fmt.Errorf("%w %q", types.ErrUnknownResource, name)
	}
	return r, nil
}

// Names returns the resource names in sorted order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.resources))
	for name := range c.resources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns every resource in name order.
func (c *Catalog) All() []types.Resource {
	out := make([]types.Resource, 0, len(c.resources))
	for _, name := range c.Names() {
		out = append(out, c.resources[name])
	}
	return out
}
