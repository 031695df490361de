package librarysources

import (
	"archive/tar"
	"context"
	"fmt"
	"io"
	"path"

	"github.com/google/go-containerregistry/pkg/authn"
	"github.com/google/go-containerregistry/pkg/name"
	v1 "github.com/google/go-containerregistry/pkg/v1"
	"github.com/google/go-containerregistry/pkg/v1/remote"
)

type ociSettings struct {
	Reference string `json:"reference"`
	Pattern   string `json:"pattern"`
	Insecure  bool   `json:"insecure"`
}

type ociFactory struct{}

func (f *ociFactory) ValidateConfig(config SourceConfig) error {
	var settings ociSettings
	if err := decodeConfig(config, &settings); err != nil {
		return err
	}
	if settings.Reference == "" {
		return fmt.Errorf("reference is required")
	}
	if _, err := name.ParseReference(settings.Reference); err != nil {
		return fmt.Errorf("parsing reference: %w", err)
	}
	return nil
}

func (f *ociFactory) Create(config SourceConfig) (Source, error) {
	var settings ociSettings
	if err := decodeConfig(config, &settings); err != nil {
		return nil, err
	}
	return &ociSource{settings: settings}, nil
}

// ociSource pulls an image whose layers are tar archives of library data files.
type ociSource struct {
	settings ociSettings
}

func (s *ociSource) Fetch(ctx context.Context) ([]Payload, error) {
	var opts []name.Option
	if s.settings.Insecure {
		opts = append(opts, name.Insecure)
	}
	ref, err := name.ParseReference(s.settings.Reference, opts...)
	if err != nil {
		return nil, fmt.Errorf("parsing reference: %w", err)
	}

	img, err := remote.Image(ref, remote.WithAuthFromKeychain(authn.DefaultKeychain), remote.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("pulling image: %w", err)
	}
	return imagePayloads(img, s.settings.Reference, s.settings.Pattern)
}

func (s *ociSource) Close() error { return nil }

// imagePayloads extracts the data files of every layer in order
func imagePayloads(img v1.Image, origin, pattern string) ([]Payload, error) {
	layers, err := img.Layers()
	if err != nil {
		return nil, fmt.Errorf("getting layers: %w", err)
	}
	if len(layers) == 0 {
		return nil, fmt.Errorf("image has no layers")
	}

	var payloads []Payload
	for i, layer := range layers {
		rc, err := layer.Uncompressed()
		if err != nil {
			return nil, fmt.Errorf("getting layer %d: %w", i, err)
		}
		extracted, err := tarPayloads(rc, origin, pattern)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("extracting layer %d: %w", i, err)
		}
		payloads = append(payloads, extracted...)
	}
	return payloads, nil
}

func tarPayloads(r io.Reader, origin, pattern string) ([]Payload, error) {
	var payloads []Payload
	tr := tar.NewReader(r)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if header.Typeflag != tar.TypeReg {
			continue
		}
		base := path.Base(header.Name)
		if !matchesData(base, pattern) {
			continue
		}
		data, err := io.ReadAll(tr)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", header.Name, err)
		}
		payloads = append(payloads, Payload{Name: base, Data: data, Origin: origin + "!" + header.Name})
	}
	return payloads, nil
}
