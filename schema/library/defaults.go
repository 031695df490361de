package library

import (
	"bytes"
	_ "embed"
	"fmt"
)

// DefaultSubset is the subset activated when no subsets are requested
const DefaultSubset = "lsl"

//go:embed data/default_library.yaml
var defaultLibrary []byte

// DefaultLibraryData returns the embedded library document in YAML form
func DefaultLibraryData() []byte {
	return defaultLibrary
}

// NewDefaultRegistry builds a registry preloaded with the embedded library data.
// With no active subsets the registry activates DefaultSubset.
func NewDefaultRegistry(mode Mode, activeSubsets ...string) (*Registry, error) {
	if len(activeSubsets) == 0 {
		activeSubsets = []string{DefaultSubset}
	}
	registry := NewRegistry(mode, activeSubsets...)
	if err := LoadYAML(bytes.NewReader(defaultLibrary), registry); err != nil {
		return nil, fmt.Errorf("loading default library: %w", err)
	}
	return registry, nil
}
