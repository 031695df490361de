package librarysources

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lslkit/lslkit-go/schema/library"
	"gopkg.in/yaml.v3"
)

// LoadFromFile reads library source configurations from a YAML/JSON file.
func LoadFromFile(path string) ([]SourceConfig, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading library sources: %w", err)
	}
	sources, err := decodeSources(path, data)
	if err != nil {
		return nil, err
	}
	baseDir := filepath.Dir(path)
	for i := range sources {
		if sources[i].BaseDir == "" {
			sources[i].BaseDir = baseDir
		}
	}
	return sources, nil
}

// Apply fetches every source in order and loads its documents into registry.
func Apply(ctx context.Context, registry *library.Registry, sources []SourceConfig, verbose bool) error {
	if registry == nil || len(sources) == 0 {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	for idx, source := range sources {
		if strings.TrimSpace(source.Type) == "" {
			return fmt.Errorf("library source %d has empty type", idx)
		}
		if verbose {
			fmt.Printf("Loading library source %s\n", source.Label())
		}

		provider, err := Create(source)
		if err != nil {
			return fmt.Errorf("creating library source %s: %w", source.Type, err)
		}

		payloads, fetchErr := provider.Fetch(ctx)
		closeErr := provider.Close()
		if fetchErr != nil {
			return fmt.Errorf("fetching library source %s: %w", source.Label(), fetchErr)
		}
		if closeErr != nil {
			return fmt.Errorf("closing library source %s: %w", source.Label(), closeErr)
		}

		for _, payload := range payloads {
			if len(payload.Data) == 0 {
				return fmt.Errorf("library source %s returned empty document %s", source.Label(), payload.Name)
			}
			if verbose {
				fmt.Printf("  -> %s\n", payload.Origin)
			}
			if err := library.LoadBytes(payload.Name, payload.Data, registry); err != nil {
				return fmt.Errorf("applying library document %s: %w", payload.Origin, err)
			}
		}
	}
	return nil
}

func decodeSources(path string, data []byte) ([]SourceConfig, error) {
	wrapper := struct {
		LibrarySources []SourceConfig `json:"library_sources" yaml:"library_sources"`
	}{}

	ext := strings.ToLower(filepath.Ext(path))
	var err error
	if ext == ".json" {
		err = json.Unmarshal(data, &wrapper)
	} else {
		err = yaml.Unmarshal(data, &wrapper)
	}
	if err == nil && len(wrapper.LibrarySources) > 0 {
		return wrapper.LibrarySources, nil
	}

	trimmed := strings.TrimSpace(string(data))
	isList := strings.HasPrefix(trimmed, "[") || strings.HasPrefix(trimmed, "-")
	if err == nil && !isList {
		return wrapper.LibrarySources, nil
	}

	var sources []SourceConfig
	if ext == ".json" {
		if err := json.Unmarshal(data, &sources); err != nil {
			return nil, fmt.Errorf("parsing library sources: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &sources); err != nil {
			return nil, fmt.Errorf("parsing library sources: %w", err)
		}
	}
	return sources, nil
}
