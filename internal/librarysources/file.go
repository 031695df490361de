package librarysources

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/lslkit/lslkit-go/schema/library"
)

type fileSettings struct {
	Path  string   `json:"path"`
	Paths []string `json:"paths"`
}

type fileFactory struct{}

func (f *fileFactory) ValidateConfig(config SourceConfig) error {
	var settings fileSettings
	if err := decodeConfig(config, &settings); err != nil {
		return err
	}
	if settings.Path == "" && len(settings.Paths) == 0 {
		return fmt.Errorf("path is required")
	}
	return nil
}

func (f *fileFactory) Create(config SourceConfig) (Source, error) {
	var settings fileSettings
	if err := decodeConfig(config, &settings); err != nil {
		return nil, err
	}
	paths := settings.Paths
	if settings.Path != "" {
		paths = append([]string{settings.Path}, paths...)
	}
	resolved := make([]string, 0, len(paths))
	for _, path := range paths {
		resolved = append(resolved, ResolvePath(config, path))
	}
	return &fileSource{paths: resolved}, nil
}

// fileSource reads an explicit list of data files
type fileSource struct {
	paths []string
}

func (s *fileSource) Fetch(ctx context.Context) ([]Payload, error) {
	payloads := make([]Payload, 0, len(s.paths))
	for _, path := range s.paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading library file: %w", err)
		}
		payloads = append(payloads, Payload{Name: filepath.Base(path), Data: data, Origin: path})
	}
	return payloads, nil
}

func (s *fileSource) Close() error { return nil }

type dirSettings struct {
	Path      string `json:"path"`
	Pattern   string `json:"pattern"`
	Recursive bool   `json:"recursive"`
}

type dirFactory struct{}

func (f *dirFactory) ValidateConfig(config SourceConfig) error {
	var settings dirSettings
	if err := decodeConfig(config, &settings); err != nil {
		return err
	}
	if settings.Path == "" {
		return fmt.Errorf("path is required")
	}
	if settings.Pattern != "" {
		if _, err := filepath.Match(settings.Pattern, ""); err != nil {
			return fmt.Errorf("invalid pattern %q: %w", settings.Pattern, err)
		}
	}
	return nil
}

func (f *dirFactory) Create(config SourceConfig) (Source, error) {
	var settings dirSettings
	if err := decodeConfig(config, &settings); err != nil {
		return nil, err
	}
	settings.Path = ResolvePath(config, settings.Path)
	return &dirSource{settings: settings}, nil
}

// dirSource reads every data file of a directory
type dirSource struct {
	settings dirSettings
}

func (s *dirSource) Fetch(ctx context.Context) ([]Payload, error) {
	files, err := collectFiles(s.settings.Path, s.settings.Pattern, s.settings.Recursive)
	if err != nil {
		return nil, err
	}
	payloads := make([]Payload, 0, len(files))
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading library file: %w", err)
		}
		payloads = append(payloads, Payload{Name: filepath.Base(path), Data: data, Origin: path})
	}
	return payloads, nil
}

func (s *dirSource) Close() error { return nil }

// collectFiles lists the data files below root in lexical order. An empty pattern
// accepts every YAML or JSON file.
func collectFiles(root, pattern string, recursive bool) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && (!recursive || d.Name() == ".git") {
				return filepath.SkipDir
			}
			return nil
		}
		if matchesData(d.Name(), pattern) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning library directory %s: %w", root, err)
	}
	sort.Strings(files)
	return files, nil
}

func matchesData(name, pattern string) bool {
	if pattern == "" {
		return library.IsDataFile(name)
	}
	ok, err := filepath.Match(pattern, name)
	return err == nil && ok
}
