package library

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/lslkit/lslkit-go/schema/types"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

// Document is the on-disk layout of a library data file
type Document struct {
	Subsets   []SubsetDescription  `json:"subsets" yaml:"subsets"`
	Constants []*ConstantSignature `json:"constants" yaml:"constants"`
	Events    []*EventSignature    `json:"events" yaml:"events"`
	Functions []*FunctionSignature `json:"functions" yaml:"functions"`
}

// Apply defines every entry of the document in the registry. Subset descriptions
// go first so signatures can reference them.
func (d *Document) Apply(registry *Registry) error {
	for _, desc := range d.Subsets {
		if err := registry.AddSubsetDescription(desc); err != nil {
			return err
		}
	}
	for _, sig := range d.Constants {
		if err := registry.DefineConstant(sig); err != nil {
			return err
		}
	}
	for _, sig := range d.Events {
		if err := registry.DefineEvent(sig); err != nil {
			return err
		}
	}
	for _, sig := range d.Functions {
		if err := registry.DefineFunction(sig); err != nil {
			return err
		}
	}
	return nil
}

// LoadYAML decodes a YAML library document from r into registry
func LoadYAML(r io.Reader, registry *Registry) error {
	var doc Document
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil
		}
		return fmt.Errorf("parsing library yaml: %w", err)
	}
	return doc.Apply(registry)
}

// LoadJSON decodes a JSON library document into registry
func LoadJSON(data []byte, registry *Registry) error {
	doc, err := ParseJSON(data)
	if err != nil {
		return err
	}
	return doc.Apply(registry)
}

// ParseJSON decodes a JSON library document without applying it
func ParseJSON(data []byte) (*Document, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("parsing library json: invalid document")
	}
	root := gjson.ParseBytes(data)
	doc := &Document{}

	for _, item := range root.Get("subsets").Array() {
		doc.Subsets = append(doc.Subsets, SubsetDescription{
			Subset:       item.Get("name").String(),
			FriendlyName: item.Get("friendly_name").String(),
			Description:  item.Get("description").String(),
		})
	}

	for idx, item := range root.Get("constants").Array() {
		base := jsonSignature(item)
		typ, err := types.ParseValueType(item.Get("type").String())
		if err != nil {
			return nil, fmt.Errorf("constant %d (%s): %w", idx, base.Name, err)
		}
		doc.Constants = append(doc.Constants, &ConstantSignature{
			Signature:   base,
			Type:        typ,
			ValueString: item.Get("value").String(),
		})
	}

	for idx, item := range root.Get("events").Array() {
		base := jsonSignature(item)
		params, err := jsonParameters(item.Get("params"))
		if err != nil {
			return nil, fmt.Errorf("event %d (%s): %w", idx, base.Name, err)
		}
		doc.Events = append(doc.Events, &EventSignature{Signature: base, Parameters: params})
	}

	for idx, item := range root.Get("functions").Array() {
		base := jsonSignature(item)
		ret, err := types.ParseValueType(item.Get("return").String())
		if err != nil {
			return nil, fmt.Errorf("function %d (%s): %w", idx, base.Name, err)
		}
		params, err := jsonParameters(item.Get("params"))
		if err != nil {
			return nil, fmt.Errorf("function %d (%s): %w", idx, base.Name, err)
		}
		doc.Functions = append(doc.Functions, &FunctionSignature{
			Signature:  base,
			ReturnType: ret,
			Parameters: params,
		})
	}

	return doc, nil
}

func jsonSignature(item gjson.Result) Signature {
	sig := Signature{
		Name:                item.Get("name").String(),
		Deprecated:          item.Get("deprecated").Bool(),
		DocumentationString: item.Get("doc").String(),
	}
	for _, subset := range item.Get("subsets").Array() {
		sig.Subsets = append(sig.Subsets, subset.String())
	}
	props := item.Get("properties")
	if props.IsObject() {
		sig.Properties = make(map[string]string)
		props.ForEach(func(key, value gjson.Result) bool {
			sig.Properties[key.String()] = value.String()
			return true
		})
	}
	return sig
}

func jsonParameters(list gjson.Result) ([]Parameter, error) {
	var params []Parameter
	for idx, item := range list.Array() {
		typ, err := types.ParseValueType(item.Get("type").String())
		if err != nil {
			return nil, fmt.Errorf("parameter %d: %w", idx, err)
		}
		params = append(params, Parameter{
			Type:     typ,
			Name:     item.Get("name").String(),
			Variadic: item.Get("variadic").Bool(),
		})
	}
	return params, nil
}

// LoadBytes loads a document, choosing the format from the file name extension.
// Names without a .json extension are read as YAML.
func LoadBytes(name string, data []byte, registry *Registry) error {
	if strings.EqualFold(filepath.Ext(name), ".json") {
		return LoadJSON(data, registry)
	}
	return LoadYAML(bytes.NewReader(data), registry)
}

// LoadFile reads a library data file into registry
func LoadFile(path string, registry *Registry) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading library file: %w", err)
	}
	if err := LoadBytes(path, data, registry); err != nil {
		return fmt.Errorf("loading library file %s: %w", path, err)
	}
	return nil
}

// IsDataFile reports whether path looks like a library data file
func IsDataFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return true
	default:
		return false
	}
}
