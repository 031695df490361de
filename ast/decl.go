package ast

import (
	"github.com/lslkit/lslkit-go/schema/library"
	"github.com/lslkit/lslkit-go/schema/types"
	"github.com/lslkit/lslkit-go/syntax"
)

// Parameter is a parameter of a user function or event handler
type Parameter struct {
	Base
	Name       string
	NameRange  syntax.Range
	DeclType   types.ValueType
	References int
}

// GlobalVariable is a global variable declaration
type GlobalVariable struct {
	Base
	Name       string
	NameRange  syntax.Range
	DeclType   types.ValueType
	Init       Expr
	References int
	Errors     bool
}

// FunctionDecl is a user-defined function
type FunctionDecl struct {
	Base
	Name       string
	NameRange  syntax.Range
	ReturnType types.ValueType
	Params     []*Parameter
	Body       *CodeScope
	References int
	Errors     bool
}

// EventHandler is an event handler inside a state. Signature is the library event
// it implements, nil when unknown.
type EventHandler struct {
	Base
	Name      string
	NameRange syntax.Range
	Params    []*Parameter
	Body      *CodeScope
	Signature *library.EventSignature
	Errors    bool
}

// StateDecl is the default state or a named state
type StateDecl struct {
	Base
	Name       string
	NameRange  syntax.Range
	IsDefault  bool
	Handlers   []*EventHandler
	References int
}

// CompilationUnit is the root of a validated script. Decls holds globals and
// functions in source order.
type CompilationUnit struct {
	Base
	Filename  string
	Tree      *Tree
	Decls     []Node
	Globals   []*GlobalVariable
	Functions []*FunctionDecl
	Default   *StateDecl
	States    []*StateDecl
	Errors    bool
}

// HasErrors reports whether validation reported any error
func (c *CompilationUnit) HasErrors() bool {
	return c.Errors
}

// Function finds a user function by name
func (c *CompilationUnit) Function(name string) *FunctionDecl {
	for _, fn := range c.Functions {
		if fn.Name == name {
			return fn
		}
	}
	return nil
}

// Global finds a global variable by name
func (c *CompilationUnit) Global(name string) *GlobalVariable {
	for _, g := range c.Globals {
		if g.Name == name {
			return g
		}
	}
	return nil
}

// State finds a state by name; "default" returns the default state
func (c *CompilationUnit) State(name string) *StateDecl {
	if name == "default" {
		return c.Default
	}
	for _, s := range c.States {
		if s.Name == name {
			return s
		}
	}
	return nil
}
