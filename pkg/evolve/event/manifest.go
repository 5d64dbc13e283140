package event

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest is a declarative catalog of a closed event set, typically kept in
// a YAML file alongside the code that registers the same set. Cross-checking
// the manifest against the registry catches drift between the declared
// catalog and the types actually compiled in.
//
// Example manifest:
//
//	events:
//	  - name: email.added
//	    revisions: [1, 2, 3]
//	  - name: email.confirmed
//	    revisions: [3]
type Manifest struct {
	Events []ManifestEntry `yaml:"events"`
}

// ManifestEntry declares the known revisions of one event name.
type ManifestEntry struct {
	Name      string     `yaml:"name"`
	Revisions []Revision `yaml:"revisions"`
}

// LoadManifest reads and parses a YAML manifest file.
func LoadManifest(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("read manifest: %w", err)
	}
	return ParseManifest(data)
}

// ParseManifest parses YAML manifest data.
func ParseManifest(data []byte) (Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("parse manifest: %w", err)
	}
	if err := m.Validate(); err != nil {
		return Manifest{}, err
	}
	return m, nil
}

// Validate checks the manifest for empty names, zero revisions, and
// duplicate (name, revision) pairs.
func (m Manifest) Validate() error {
	var errs []error
	seen := make(map[Identity]bool)

	for _, e := range m.Events {
		if e.Name == "" {
			errs = append(errs, fmt.Errorf("manifest entry with empty name"))
			continue
		}
		if len(e.Revisions) == 0 {
			errs = append(errs, fmt.Errorf("event %q: no revisions declared", e.Name))
		}
		for _, rev := range e.Revisions {
			if rev == 0 {
				errs = append(errs, fmt.Errorf("event %q: revision must be positive", e.Name))
				continue
			}
			id := Identity{Name: e.Name, Revision: rev}
			if seen[id] {
				errs = append(errs, fmt.Errorf("duplicate event identity: %s", id))
			}
			seen[id] = true
		}
	}
	return errors.Join(errs...)
}

// Identities returns every identity declared by the manifest.
func (m Manifest) Identities() []Identity {
	var ids []Identity
	for _, e := range m.Events {
		for _, rev := range e.Revisions {
			ids = append(ids, Identity{Name: e.Name, Revision: rev})
		}
	}
	return ids
}

// CheckManifest verifies that the registry and the manifest declare the same
// event set: every registered identity appears in the manifest and every
// manifest identity is registered.
func (r *Registry) CheckManifest(m Manifest) error {
	declared := make(map[Identity]bool)
	for _, id := range m.Identities() {
		declared[id] = true
	}

	var errs []error
	for _, id := range r.Identities() {
		if !declared[id] {
			errs = append(errs, fmt.Errorf("registered event %s missing from manifest", id))
		}
		delete(declared, id)
	}
	for id := range declared {
		errs = append(errs, fmt.Errorf("manifest event %s is not registered", id))
	}
	return errors.Join(errs...)
}
