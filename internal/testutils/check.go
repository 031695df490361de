// Package testutils holds helpers shared by package tests.
package testutils

import (
	"testing"

	"github.com/lslkit/lslkit-go/ast"
	"github.com/lslkit/lslkit-go/lint"
	"github.com/lslkit/lslkit-go/parser"
	"github.com/lslkit/lslkit-go/schema/library"
	"github.com/lslkit/lslkit-go/validator"
	"github.com/stretchr/testify/require"
)

// Filename is the file name used for sources checked by the helpers
const Filename = "test.lsl"

// DefaultRegistry loads the embedded library with the given subsets active
func DefaultRegistry(t testing.TB, subsets ...string) *library.Registry {
	t.Helper()
	registry, err := library.NewDefaultRegistry(library.EagerFiltered, subsets...)
	require.NoError(t, err)
	return registry
}

// Check parses and validates source against the default "lsl" library. The
// returned collector holds every diagnostic the validator reported.
func Check(t testing.TB, source string, opts ...validator.Option) (*ast.CompilationUnit, *lint.Collector) {
	t.Helper()
	return CheckWith(t, DefaultRegistry(t), source, opts...)
}

// CheckWith is Check against a caller supplied library
func CheckWith(t testing.TB, provider library.Provider, source string, opts ...validator.Option) (*ast.CompilationUnit, *lint.Collector) {
	t.Helper()
	file, err := parser.New().ParseString(Filename, source)
	require.NoError(t, err)

	collector := lint.NewCollector(Filename, lint.Options{})
	unit, err := validator.New(provider, collector, collector, opts...).Validate(file)
	require.NoError(t, err)
	require.NotNil(t, unit)
	return unit, collector
}

// Codes lists the issue codes in report order
func Codes(issues []lint.Issue) []string {
	codes := make([]string, 0, len(issues))
	for _, issue := range issues {
		codes = append(codes, issue.Code)
	}
	return codes
}

// Handler wraps body in a default state_entry handler
func Handler(body string) string {
	return "default\n{\n    state_entry()\n    {\n" + body + "\n    }\n}\n"
}
