package librarysources

import (
	"archive/tar"
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/google/go-containerregistry/pkg/v1/empty"
	"github.com/google/go-containerregistry/pkg/v1/mutate"
	"github.com/google/go-containerregistry/pkg/v1/tarball"
	"github.com/lslkit/lslkit-go/schema/library"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const extensionYAML = `
subsets:
  - name: ext
    friendly_name: Extension
functions:
  - name: extPing
    subsets: [ext]
    return: integer
    params: [{type: string, name: target}]
`

const extensionJSON = `{
  "constants": [{"name": "EXT_LIMIT", "subsets": ["ext"], "type": "integer", "value": "5"}]
}`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()

	wrapped := filepath.Join(dir, "sources.yaml")
	writeFile(t, wrapped, `
library_sources:
  - name: local
    type: dir
    config:
      path: ./library
`)
	sources, err := LoadFromFile(wrapped)
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.Equal(t, "local", sources[0].Name)
	assert.Equal(t, "dir", sources[0].Type)
	assert.Equal(t, dir, sources[0].BaseDir)
	assert.Equal(t, "./library", sources[0].Config["path"])

	list := filepath.Join(dir, "sources.json")
	writeFile(t, list, `[{"type": "file", "config": {"path": "a.yaml"}}, {"name": "remote", "type": "s3", "config": {"bucket": "b", "key": "k.yaml"}}]`)
	sources, err = LoadFromFile(list)
	require.NoError(t, err)
	require.Len(t, sources, 2)
	assert.Equal(t, "file", sources[0].Label())
	assert.Equal(t, "remote", sources[1].Label())

	sources, err = LoadFromFile("  ")
	assert.NoError(t, err)
	assert.Nil(t, sources)

	_, err = LoadFromFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestApplyDirectorySource(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "library", "a.yaml"), extensionYAML)
	writeFile(t, filepath.Join(dir, "library", "b.json"), extensionJSON)
	writeFile(t, filepath.Join(dir, "library", "notes.txt"), "not a library")
	writeFile(t, filepath.Join(dir, "library", "nested", "c.yaml"), "this: [is not loaded")

	registry := library.NewRegistry(library.EagerFiltered, "ext")
	sources := []SourceConfig{{
		Type:    "dir",
		Config:  map[string]interface{}{"path": "library"},
		BaseDir: dir,
	}}
	require.NoError(t, Apply(context.Background(), registry, sources, false))

	assert.True(t, registry.LibraryFunctionExists("extPing"))
	limit, err := registry.LibraryConstantSignature("EXT_LIMIT")
	require.NoError(t, err)
	require.NotNil(t, limit)
	assert.Equal(t, "5", limit.ValueString)

	sources[0].Config["recursive"] = true
	err = Apply(context.Background(), library.NewRegistry(library.EagerFiltered, "ext"), sources, false)
	assert.Error(t, err, "nested documents are read when recursive")
}

func TestApplyFileSource(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "ext.yaml"), extensionYAML)
	writeFile(t, filepath.Join(dir, "limits.json"), extensionJSON)

	registry := library.NewRegistry(library.LiveFiltered, library.DefaultSubset)
	sources := []SourceConfig{{
		Name:    "extension",
		Type:    "file",
		Config:  map[string]interface{}{"paths": []interface{}{"ext.yaml", filepath.Join(dir, "limits.json")}},
		BaseDir: dir,
	}}
	require.NoError(t, Apply(context.Background(), registry, sources, false))

	assert.False(t, registry.LibraryFunctionExists("extPing"))
	require.NoError(t, registry.AddActiveSubset("ext"))
	assert.True(t, registry.LibraryFunctionExists("extPing"))
	assert.True(t, registry.LibraryConstantExists("EXT_LIMIT"))
}

func TestApplyGitSource(t *testing.T) {
	repoDir := t.TempDir()
	repo, err := git.PlainInit(repoDir, false)
	require.NoError(t, err)
	writeFile(t, filepath.Join(repoDir, "library", "ext.yaml"), extensionYAML)
	writeFile(t, filepath.Join(repoDir, "README.md"), "extension library")

	tree, err := repo.Worktree()
	require.NoError(t, err)
	_, err = tree.Add("library/ext.yaml")
	require.NoError(t, err)
	_, err = tree.Add("README.md")
	require.NoError(t, err)
	_, err = tree.Commit("add extension library", &git.CommitOptions{
		Author: &object.Signature{Name: "lslkit", Email: "lslkit@example.com", When: time.Now()},
	})
	require.NoError(t, err)

	config := SourceConfig{
		Name: "ext-repo",
		Type: "git",
		Config: map[string]interface{}{
			"url":  "file://" + filepath.ToSlash(repoDir),
			"path": "library",
		},
	}
	ctx := context.Background()

	source, err := Create(config)
	require.NoError(t, err)
	payloads, err := source.Fetch(ctx)
	require.NoError(t, err)
	require.Len(t, payloads, 1)
	assert.Equal(t, "ext.yaml", payloads[0].Name)
	assert.True(t, strings.HasSuffix(payloads[0].Origin, "#library/ext.yaml"), payloads[0].Origin)
	assert.Equal(t, extensionYAML, string(payloads[0].Data))

	checkout := source.(*gitSource).workDir
	require.NoError(t, source.Close())
	assert.NoDirExists(t, checkout)

	registry := library.NewRegistry(library.EagerFiltered, "ext")
	require.NoError(t, Apply(ctx, registry, []SourceConfig{config}, false))
	assert.True(t, registry.LibraryFunctionExists("extPing"))
}

func TestApplyRejectsBadSources(t *testing.T) {
	registry := library.NewRegistry(library.EagerFiltered, "ext")
	ctx := context.Background()

	err := Apply(ctx, registry, []SourceConfig{{Name: "blank"}}, false)
	assert.ErrorContains(t, err, "empty type")

	err = Apply(ctx, registry, []SourceConfig{{Type: "ftp"}}, false)
	assert.ErrorContains(t, err, "unknown library source type")

	err = Apply(ctx, registry, []SourceConfig{{Type: "file", Config: map[string]interface{}{"path": filepath.Join(t.TempDir(), "gone.yaml")}}}, false)
	assert.Error(t, err)

	blank := filepath.Join(t.TempDir(), "blank.yaml")
	writeFile(t, blank, "")
	err = Apply(ctx, registry, []SourceConfig{{Type: "file", Config: map[string]interface{}{"path": blank}}}, false)
	assert.ErrorContains(t, err, "empty document")

	assert.NoError(t, Apply(ctx, nil, []SourceConfig{{Type: "ftp"}}, false))
}

func TestValidateConfig(t *testing.T) {
	cases := []struct {
		name   string
		config SourceConfig
		valid  bool
	}{
		{"file without path", SourceConfig{Type: "file"}, false},
		{"dir with bad pattern", SourceConfig{Type: "dir", Config: map[string]interface{}{"path": ".", "pattern": "[a"}}, false},
		{"dir", SourceConfig{Type: "dir", Config: map[string]interface{}{"path": ".", "pattern": "*.yaml"}}, true},
		{"s3 without bucket", SourceConfig{Type: "s3", Config: map[string]interface{}{"key": "lib.yaml"}}, false},
		{"s3 without key", SourceConfig{Type: "s3", Config: map[string]interface{}{"bucket": "libs"}}, false},
		{"s3 with bad timeout", SourceConfig{Type: "s3", Config: map[string]interface{}{"bucket": "libs", "prefix": "lsl/", "timeout": "soon"}}, false},
		{"s3", SourceConfig{Type: "s3", Config: map[string]interface{}{"bucket": "libs", "prefix": "lsl/", "timeout": "5s"}}, true},
		{"git without url", SourceConfig{Type: "git", Config: map[string]interface{}{"branch": "main"}}, false},
		{"git with branch and tag", SourceConfig{Type: "git", Config: map[string]interface{}{"url": "https://example.com/lib.git", "branch": "main", "tag": "v1"}}, false},
		{"git escaping path", SourceConfig{Type: "git", Config: map[string]interface{}{"url": "https://example.com/lib.git", "path": "../etc"}}, false},
		{"git", SourceConfig{Type: "git", Config: map[string]interface{}{"url": "https://example.com/lib.git", "path": "data"}}, true},
		{"oci without reference", SourceConfig{Type: "oci"}, false},
		{"oci with bad reference", SourceConfig{Type: "oci", Config: map[string]interface{}{"reference": "UPPER:case:ref"}}, false},
		{"oci", SourceConfig{Type: "oci", Config: map[string]interface{}{"reference": "ghcr.io/lslkit/library:1.0"}}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			source, err := Create(tc.config)
			if tc.valid {
				require.NoError(t, err)
				assert.NotNil(t, source)
				assert.NoError(t, source.Close())
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestTypes(t *testing.T) {
	assert.Equal(t, []string{"dir", "file", "git", "oci", "s3"}, Types())
}

func tarLayer(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	for _, name := range []string{"library/a.yaml", "library/b.json", "README.md"} {
		content, ok := files[name]
		if !ok {
			continue
		}
		require.NoError(t, tw.WriteHeader(&tar.Header{
			Name:     name,
			Mode:     0o644,
			Size:     int64(len(content)),
			Typeflag: tar.TypeReg,
		}))
		_, err := tw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	return buf.Bytes()
}

func TestImagePayloads(t *testing.T) {
	first := tarLayer(t, map[string]string{"library/a.yaml": extensionYAML, "README.md": "docs"})
	second := tarLayer(t, map[string]string{"library/b.json": extensionJSON})

	img := empty.Image
	for _, data := range [][]byte{first, second} {
		data := data
		layer, err := tarball.LayerFromOpener(func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		})
		require.NoError(t, err)
		img, err = mutate.AppendLayers(img, layer)
		require.NoError(t, err)
	}

	payloads, err := imagePayloads(img, "ghcr.io/lslkit/library:1.0", "")
	require.NoError(t, err)
	require.Len(t, payloads, 2)
	assert.Equal(t, "a.yaml", payloads[0].Name)
	assert.Equal(t, "ghcr.io/lslkit/library:1.0!library/a.yaml", payloads[0].Origin)
	assert.Equal(t, "b.json", payloads[1].Name)

	registry := library.NewRegistry(library.EagerFiltered, "ext")
	for _, payload := range payloads {
		require.NoError(t, library.LoadBytes(payload.Name, payload.Data, registry))
	}
	assert.True(t, registry.LibraryFunctionExists("extPing"))
	assert.True(t, registry.LibraryConstantExists("EXT_LIMIT"))

	payloads, err = imagePayloads(img, "ref", "*.json")
	require.NoError(t, err)
	require.Len(t, payloads, 1)

	_, err = imagePayloads(empty.Image, "ref", "")
	assert.ErrorContains(t, err, "no layers")
}
