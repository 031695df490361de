package library

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lslkit/lslkit-go/schema/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
subsets:
  - name: lsl
    friendly_name: LSL
constants:
  - {name: MAX_CHANNELS, subsets: [lsl], type: integer, value: "65"}
events:
  - name: touch_start
    subsets: [lsl]
    params: [{type: integer, name: num_detected}]
functions:
  - name: llSetText
    subsets: [lsl]
    return: void
    deprecated: true
    properties: {since: "1.0"}
    params:
      - {type: string, name: text}
      - {type: vector, name: color}
      - {type: float, name: alpha}
`

const sampleJSON = `{
  "subsets": [{"name": "lsl", "friendly_name": "LSL"}],
  "constants": [{"name": "MAX_CHANNELS", "subsets": ["lsl"], "type": "integer", "value": "65"}],
  "events": [{"name": "touch_start", "subsets": ["lsl"], "params": [{"type": "integer", "name": "num_detected"}]}],
  "functions": [{
    "name": "llSetText", "subsets": ["lsl"], "return": "void", "deprecated": true,
    "properties": {"since": "1.0"},
    "params": [
      {"type": "string", "name": "text"},
      {"type": "vector", "name": "color"},
      {"type": "float", "name": "alpha"}
    ]
  }]
}`

func assertSampleLoaded(t *testing.T, r *Registry) {
	t.Helper()

	c, err := r.LibraryConstantSignature("MAX_CHANNELS")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, types.Integer, c.Type)
	assert.Equal(t, "65", c.ValueString)

	e, err := r.EventHandlerSignature("touch_start")
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, "touch_start(integer num_detected)", e.SignatureString())

	fns, err := r.LibraryFunctionSignatures("llSetText")
	require.NoError(t, err)
	require.Len(t, fns, 1)
	assert.True(t, fns[0].Deprecated)
	assert.Equal(t, "llSetText(string text, vector color, float alpha)", fns[0].SignatureString())
	since, ok := fns[0].Property("since")
	assert.True(t, ok)
	assert.Equal(t, "1.0", since)
}

func TestLoadYAML(t *testing.T) {
	r := NewRegistry(EagerFiltered, "lsl")
	require.NoError(t, LoadYAML(strings.NewReader(sampleYAML), r))
	assertSampleLoaded(t, r)
}

func TestLoadJSON(t *testing.T) {
	r := NewRegistry(EagerFiltered, "lsl")
	require.NoError(t, LoadJSON([]byte(sampleJSON), r))
	assertSampleLoaded(t, r)
}

func TestLoadRejectsBadDocuments(t *testing.T) {
	r := NewRegistry(EagerFiltered, "lsl")
	assert.Error(t, LoadJSON([]byte(`{"subsets": [`), r))
	assert.Error(t, LoadJSON([]byte(`{"constants": [{"name": "X", "subsets": ["lsl"], "type": "bool"}]}`), r))
	assert.Error(t, LoadYAML(strings.NewReader("functions:\n  - name: f\n    unknown: 1\n"), r))

	err := LoadYAML(strings.NewReader("functions:\n  - {name: f, subsets: [other], return: void}\n"), NewRegistry(LiveFiltered))
	assert.True(t, errors.Is(err, ErrMissingSubsetDescription))

	assert.NoError(t, LoadYAML(strings.NewReader(""), r))
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "lib.yaml")
	jsonPath := filepath.Join(dir, "lib.json")
	require.NoError(t, os.WriteFile(yamlPath, []byte(sampleYAML), 0o644))
	require.NoError(t, os.WriteFile(jsonPath, []byte(sampleJSON), 0o644))

	r := NewRegistry(LiveFiltered, "lsl")
	require.NoError(t, LoadFile(yamlPath, r))
	assertSampleLoaded(t, r)

	r = NewRegistry(LiveFiltered, "lsl")
	require.NoError(t, LoadFile(jsonPath, r))
	assertSampleLoaded(t, r)

	err := LoadFile(filepath.Join(dir, "missing.yaml"), r)
	assert.Error(t, err)

	assert.True(t, IsDataFile(yamlPath))
	assert.True(t, IsDataFile("LIB.YML"))
	assert.False(t, IsDataFile("script.lsl"))
}

func TestSignatureModel(t *testing.T) {
	a := function("llAbs", types.Integer, []string{"lsl"}, types.Integer)
	b := function("llAbs", types.Float, []string{"ossl"}, types.Integer)
	c := function("llAbs", types.Integer, []string{"lsl"}, types.Float)

	assert.True(t, SameOverload(a, b))
	assert.False(t, SameOverload(a, c))
	assert.False(t, SameOverload(a, nil))
	assert.True(t, a.InSubset("lsl"))
	assert.False(t, a.InSubset("ossl"))

	variadic := &FunctionSignature{
		Signature:  Signature{Name: "modInvokeS"},
		ReturnType: types.String,
		Parameters: []Parameter{
			{Type: types.String, Name: "fname"},
			{Type: types.Void, Name: "parms", Variadic: true},
		},
	}
	assert.Equal(t, "string modInvokeS(string fname, params any[] parms)", variadic.SignatureString())

	constant := &ConstantSignature{Signature: Signature{Name: "PI"}, Type: types.Float, ValueString: "3.14159265"}
	assert.Equal(t, "float PI = 3.14159265", constant.SignatureString())

	sig := Signature{Subsets: []string{" b", "a", "b", ""}}
	sig.normalizeSubsets()
	assert.Equal(t, []string{"a", "b"}, sig.Subsets)
}
