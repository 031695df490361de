// Package library provides the library symbol model: signatures of built-in functions,
// event handlers and constants, partitioned into named subsets.
package library

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lslkit/lslkit-go/schema/types"
)

// Signature holds the fields shared by functions, events and constants
type Signature struct {
	// Name is the identifier the symbol is referenced by
	Name string `json:"name" yaml:"name"`

	// Subsets lists the subsets this signature belongs to (set semantics)
	Subsets []string `json:"subsets" yaml:"subsets"`

	// Deprecated marks symbols that still work but should not be used
	Deprecated bool `json:"deprecated,omitempty" yaml:"deprecated,omitempty"`

	// DocumentationString is free-form documentation used by tooling
	DocumentationString string `json:"doc,omitempty" yaml:"doc,omitempty"`

	// Properties is an open extension bag
	Properties map[string]string `json:"properties,omitempty" yaml:"properties,omitempty"`
}

// InSubset reports whether the signature belongs to subset.
func (s *Signature) InSubset(subset string) bool {
	for _, name := range s.Subsets {
		if name == subset {
			return true
		}
	}
	return false
}

// Overlaps reports whether the signature belongs to any of the given subsets.
func (s *Signature) Overlaps(subsets map[string]struct{}) bool {
	for _, name := range s.Subsets {
		if _, ok := subsets[name]; ok {
			return true
		}
	}
	return false
}

// Property returns a property value and whether it is set.
func (s *Signature) Property(name string) (string, bool) {
	if s.Properties == nil {
		return "", false
	}
	value, ok := s.Properties[name]
	return value, ok
}

func (s *Signature) normalizeSubsets() {
	seen := make(map[string]struct{}, len(s.Subsets))
	out := s.Subsets[:0]
	for _, name := range s.Subsets {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	sort.Strings(out)
	s.Subsets = out
}

// Parameter describes one parameter of a function or event handler
type Parameter struct {
	Type types.ValueType `json:"type" yaml:"type"`
	Name string          `json:"name" yaml:"name"`

	// Variadic parameters are last and accept zero or more arguments.
	// A void variadic parameter accepts arguments of any type.
	Variadic bool `json:"variadic,omitempty" yaml:"variadic,omitempty"`
}

func (p Parameter) String() string {
	var b strings.Builder
	if p.Variadic {
		b.WriteString("params ")
		if p.Type == types.Void {
			b.WriteString("any")
		} else {
			b.WriteString(p.Type.String())
		}
		b.WriteString("[]")
	} else {
		b.WriteString(p.Type.String())
	}
	if p.Name != "" {
		b.WriteString(" ")
		b.WriteString(p.Name)
	}
	return b.String()
}

// FunctionSignature describes a library function
type FunctionSignature struct {
	Signature  `yaml:",inline"`
	ReturnType types.ValueType `json:"return" yaml:"return"`
	Parameters []Parameter     `json:"params" yaml:"params"`
}

// IsVariadic reports whether the last parameter is variadic.
func (f *FunctionSignature) IsVariadic() bool {
	return len(f.Parameters) > 0 && f.Parameters[len(f.Parameters)-1].Variadic
}

// ConcreteParameterCount is the number of non-variadic parameters.
func (f *FunctionSignature) ConcreteParameterCount() int {
	if f.IsVariadic() {
		return len(f.Parameters) - 1
	}
	return len(f.Parameters)
}

// SignatureString renders the prototype, e.g. "integer llAbs(integer value)".
func (f *FunctionSignature) SignatureString() string {
	return prototype(f.ReturnType, f.Name, f.Parameters)
}

// EventSignature describes an event handler. Event handlers never return a value.
type EventSignature struct {
	Signature  `yaml:",inline"`
	Parameters []Parameter `json:"params" yaml:"params"`
}

// SignatureString renders the prototype, e.g. "touch_start(integer num_detected)".
func (e *EventSignature) SignatureString() string {
	return prototype(types.Void, e.Name, e.Parameters)
}

// ConstantSignature describes a library constant
type ConstantSignature struct {
	Signature `yaml:",inline"`
	Type types.ValueType `json:"type" yaml:"type"`

	// ValueString is the literal value in source form, if known
	ValueString string `json:"value,omitempty" yaml:"value,omitempty"`
}

// SignatureString renders the declaration, e.g. "float PI = 3.14159265".
func (c *ConstantSignature) SignatureString() string {
	if c.ValueString == "" {
		return c.Type.String() + " " + c.Name
	}
	return c.Type.String() + " " + c.Name + " = " + c.ValueString
}

// SubsetDescription carries display metadata for a subset
type SubsetDescription struct {
	Subset       string `json:"name" yaml:"name"`
	FriendlyName string `json:"friendly_name,omitempty" yaml:"friendly_name,omitempty"`
	Description  string `json:"description,omitempty" yaml:"description,omitempty"`
}

// SameParameters reports structural equality of two parameter lists. Names are ignored.
func SameParameters(a, b []Parameter) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Type != b[i].Type || a[i].Variadic != b[i].Variadic {
			return false
		}
	}
	return true
}

// SameOverload reports whether two functions are indistinguishable at a call site:
// same name and same parameter shape. This is structural equality, not identity.
func SameOverload(a, b *FunctionSignature) bool {
	if a == nil || b == nil {
		return false
	}
	return a.Name == b.Name && SameParameters(a.Parameters, b.Parameters)
}

func checkParameters(kind SymbolKind, name string, params []Parameter) error {
	for idx, param := range params {
		if param.Variadic && idx != len(params)-1 {
			return fmt.Errorf("%w: %s %q: only the last parameter may be variadic", ErrInvalidSignature, kind, name)
		}
		if param.Type == types.Void && !param.Variadic {
			return fmt.Errorf("%w: %s %q: parameter %d is void", ErrInvalidSignature, kind, name, idx)
		}
	}
	return nil
}

func prototype(ret types.ValueType, name string, params []Parameter) string {
	var b strings.Builder
	if ret != types.Void {
		b.WriteString(ret.String())
		b.WriteString(" ")
	}
	b.WriteString(name)
	b.WriteString("(")
	for i, param := range params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(param.String())
	}
	b.WriteString(")")
	return b.String()
}
