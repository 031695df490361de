package librarysources

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

type gitSettings struct {
	URL     string `json:"url"`
	Branch  string `json:"branch"`
	Tag     string `json:"tag"`
	Path    string `json:"path"`
	Pattern string `json:"pattern"`
}

type gitFactory struct{}

func (f *gitFactory) ValidateConfig(config SourceConfig) error {
	var settings gitSettings
	if err := decodeConfig(config, &settings); err != nil {
		return err
	}
	if settings.URL == "" {
		return fmt.Errorf("url is required")
	}
	if settings.Branch != "" && settings.Tag != "" {
		return fmt.Errorf("branch and tag are mutually exclusive")
	}
	if strings.Contains(filepath.ToSlash(settings.Path), "..") {
		return fmt.Errorf("path %q escapes the repository", settings.Path)
	}
	return nil
}

func (f *gitFactory) Create(config SourceConfig) (Source, error) {
	var settings gitSettings
	if err := decodeConfig(config, &settings); err != nil {
		return nil, err
	}
	return &gitSource{settings: settings}, nil
}

// gitSource shallow-clones a repository and reads the data files found below
// the configured path.
type gitSource struct {
	settings gitSettings
	workDir  string
}

func (s *gitSource) reference() plumbing.ReferenceName {
	switch {
	case s.settings.Tag != "":
		return plumbing.NewTagReferenceName(s.settings.Tag)
	case s.settings.Branch != "":
		return plumbing.NewBranchReferenceName(s.settings.Branch)
	}
	return ""
}

func (s *gitSource) Fetch(ctx context.Context) ([]Payload, error) {
	if s.workDir == "" {
		dir, err := os.MkdirTemp("", "lsl-library-git-*")
		if err != nil {
			return nil, fmt.Errorf("failed to create checkout directory: %w", err)
		}
		s.workDir = dir

		options := &git.CloneOptions{
			URL:           s.settings.URL,
			ReferenceName: s.reference(),
			SingleBranch:  true,
		}
		// local repositories are copied whole, as git itself does
		if !isLocalURL(s.settings.URL) {
			options.Depth = 1
		}
		if _, err = git.PlainCloneContext(ctx, dir, false, options); err != nil {
			return nil, fmt.Errorf("failed to clone repository: %w", err)
		}
	}

	root := filepath.Join(s.workDir, filepath.FromSlash(s.settings.Path))
	files, err := collectFiles(root, s.settings.Pattern, true)
	if err != nil {
		return nil, err
	}
	payloads := make([]Payload, 0, len(files))
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("reading library file: %w", err)
		}
		rel, _ := filepath.Rel(s.workDir, file)
		payloads = append(payloads, Payload{
			Name:   filepath.Base(file),
			Data:   data,
			Origin: s.settings.URL + "#" + filepath.ToSlash(rel),
		})
	}
	return payloads, nil
}

func isLocalURL(url string) bool {
	return strings.HasPrefix(url, "file://") || filepath.IsAbs(url)
}

func (s *gitSource) Close() error {
	if s.workDir == "" {
		return nil
	}
	err := os.RemoveAll(s.workDir)
	s.workDir = ""
	return err
}
