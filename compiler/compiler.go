// Package compiler wires the parser, the library registry and the validator into
// a single entry point for checking LSL scripts.
package compiler

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/lslkit/lslkit-go/ast"
	"github.com/lslkit/lslkit-go/lint"
	"github.com/lslkit/lslkit-go/parser"
	"github.com/lslkit/lslkit-go/schema/library"
	"github.com/lslkit/lslkit-go/syntax"
	"github.com/lslkit/lslkit-go/validator"
)

// ScriptExtension is the file extension of LSL scripts
const ScriptExtension = ".lsl"

// Option configures a Compiler
type Option func(*Compiler)

// WithLintOptions sets the options used to collect and filter issues
func WithLintOptions(options lint.Options) Option {
	return func(c *Compiler) {
		c.lintOptions = options
	}
}

// WithValidatorOptions appends options passed to every validator run
func WithValidatorOptions(opts ...validator.Option) Option {
	return func(c *Compiler) {
		c.validatorOpts = append(c.validatorOpts, opts...)
	}
}

// Compiler handles parsing and validation of LSL scripts
type Compiler struct {
	parser        *parser.Parser
	provider      library.Provider
	lintOptions   lint.Options
	validatorOpts []validator.Option
}

// NewCompiler creates a compiler resolving library symbols through provider
func NewCompiler(provider library.Provider, opts ...Option) *Compiler {
	c := &Compiler{
		parser:      parser.New(),
		provider:    provider,
		lintOptions: lint.DefaultOptions(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewDefaultCompiler creates a compiler backed by the embedded library with the
// given subsets active
func NewDefaultCompiler(subsets []string, opts ...Option) (*Compiler, error) {
	registry, err := library.NewDefaultRegistry(library.EagerFiltered, subsets...)
	if err != nil {
		return nil, err
	}
	return NewCompiler(registry, opts...), nil
}

// Provider returns the library the compiler validates against
func (c *Compiler) Provider() library.Provider {
	return c.provider
}

// ParseFile parses a script file into a syntax tree
func (c *Compiler) ParseFile(filename string) (*syntax.File, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return c.parser.ParseBytes(filename, data)
}

// ParseSource parses source held in memory
func (c *Compiler) ParseSource(filename, source string) (*syntax.File, error) {
	return c.parser.ParseString(filename, source)
}

// Validate builds the validated AST for file and returns it with every issue
// found by the validator and the tree checks. The error is only set when
// validation could not run at all.
func (c *Compiler) Validate(file *syntax.File) (*ast.CompilationUnit, []lint.Issue, error) {
	if file == nil {
		return nil, nil, validator.ErrNilFile
	}
	collector := lint.NewCollector(file.Filename, c.lintOptions)
	unit, err := validator.New(c.provider, collector, collector, c.validatorOpts...).Validate(file)
	if err != nil {
		return nil, nil, fmt.Errorf("validating %s: %w", file.Filename, err)
	}
	collector.Check(unit)
	return unit, collector.Issues(), nil
}

// Check parses and validates a script file
func (c *Compiler) Check(filename string) (*ast.CompilationUnit, []lint.Issue, error) {
	file, err := c.ParseFile(filename)
	if err != nil {
		return nil, nil, err
	}
	return c.Validate(file)
}

// CheckSource parses and validates source held in memory
func (c *Compiler) CheckSource(filename, source string) (*ast.CompilationUnit, []lint.Issue, error) {
	file, err := c.ParseSource(filename, source)
	if err != nil {
		return nil, nil, err
	}
	return c.Validate(file)
}

// Result is the outcome of checking one file
type Result struct {
	Path   string
	Unit   *ast.CompilationUnit
	Issues []lint.Issue
	Err    error
}

// CheckFiles checks every script in order. A file that fails to parse records its
// error in its Result; only an unsupported extension aborts the run.
func (c *Compiler) CheckFiles(filenames []string) ([]Result, error) {
	for _, path := range filenames {
		ext := filepath.Ext(path)
		if !strings.EqualFold(ext, ScriptExtension) {
			return nil, fmt.Errorf("unsupported file extension for %s: %s (must be %s)", path, ext, ScriptExtension)
		}
	}

	results := make([]Result, 0, len(filenames))
	for _, path := range filenames {
		unit, issues, err := c.Check(path)
		results = append(results, Result{Path: path, Unit: unit, Issues: issues, Err: err})
	}
	return results, nil
}
