package librarysources

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
)

// Payload is one library data document fetched from a source. Name carries the
// file name so the loader can pick YAML or JSON decoding.
type Payload struct {
	Name   string
	Data   []byte
	Origin string
}

// SourceConfig describes one library source entry of a sources file.
type SourceConfig struct {
	Name    string                 `json:"name" yaml:"name"`
	Type    string                 `json:"type" yaml:"type"`
	Config  map[string]interface{} `json:"config" yaml:"config"`
	BaseDir string                 `json:"-" yaml:"-"`
}

// Label names the source in progress output
func (c SourceConfig) Label() string {
	if c.Name != "" {
		return c.Name
	}
	return c.Type
}

// Source fetches library documents from an external system.
type Source interface {
	Fetch(ctx context.Context) ([]Payload, error)
	Close() error
}

// Factory constructs sources of one type.
type Factory interface {
	Create(config SourceConfig) (Source, error)
	ValidateConfig(config SourceConfig) error
}

// FactoryRegistry maps source types to factories.
type FactoryRegistry struct {
	factories map[string]Factory
	mu        sync.RWMutex
}

// NewFactoryRegistry creates an empty registry.
func NewFactoryRegistry() *FactoryRegistry {
	return &FactoryRegistry{
		factories: make(map[string]Factory),
	}
}

func (r *FactoryRegistry) Register(sourceType string, factory Factory) error {
	if sourceType == "" {
		return fmt.Errorf("library source type cannot be empty")
	}
	if factory == nil {
		return fmt.Errorf("library source factory cannot be nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[sourceType] = factory
	return nil
}

func (r *FactoryRegistry) Create(config SourceConfig) (Source, error) {
	r.mu.RLock()
	factory := r.factories[config.Type]
	r.mu.RUnlock()
	if factory == nil {
		return nil, fmt.Errorf("unknown library source type: %s", config.Type)
	}
	if err := factory.ValidateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid config for %s: %w", config.Type, err)
	}
	return factory.Create(config)
}

func (r *FactoryRegistry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]string, 0, len(r.factories))
	for t := range r.factories {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

var defaultFactories = NewFactoryRegistry()

// Register registers a source type globally.
func Register(sourceType string, factory Factory) error {
	return defaultFactories.Register(sourceType, factory)
}

// Create creates a source from configuration using the global registry.
func Create(config SourceConfig) (Source, error) {
	return defaultFactories.Create(config)
}

// Types returns the registered source types in sorted order.
func Types() []string {
	return defaultFactories.Types()
}

// ResolvePath resolves a path relative to the config's base directory.
func ResolvePath(config SourceConfig, path string) string {
	if path == "" {
		return ""
	}
	if filepath.IsAbs(path) || config.BaseDir == "" {
		return path
	}
	return filepath.Join(config.BaseDir, path)
}

// decodeConfig maps the free-form config block onto a typed settings struct
func decodeConfig(config SourceConfig, target interface{}) error {
	raw, err := json.Marshal(config.Config)
	if err != nil {
		return fmt.Errorf("encoding %s source config: %w", config.Type, err)
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decoding %s source config: %w", config.Type, err)
	}
	return nil
}

func init() {
	_ = Register("file", &fileFactory{})
	_ = Register("dir", &dirFactory{})
	_ = Register("s3", &s3Factory{})
	_ = Register("git", &gitFactory{})
	_ = Register("oci", &ociFactory{})
}
