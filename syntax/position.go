// Package syntax defines the raw syntax tree handed to the validator by a front-end.
// It carries shape, token text and source ranges only; no semantic information.
package syntax

import "fmt"

// Position is a location in a source file. Line and Column are 1-based.
type Position struct {
	Filename string
	Offset   int
	Line     int
	Column   int
}

func (p Position) String() string {
	if p.Filename == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
}

// IsValid reports whether the position was set by a front-end
func (p Position) IsValid() bool {
	return p.Line > 0
}

// Range spans from Start up to End
type Range struct {
	Start Position
	End   Position
}

func (r Range) String() string {
	return r.Start.String()
}

// Join returns the smallest range covering both r and other.
func (r Range) Join(other Range) Range {
	out := r
	if !out.Start.IsValid() || (other.Start.IsValid() && other.Start.Offset < out.Start.Offset) {
		out.Start = other.Start
	}
	if !out.End.IsValid() || (other.End.IsValid() && other.End.Offset > out.End.Offset) {
		out.End = other.End
	}
	return out
}

// Span is embedded by every node to provide its Range.
type Span struct {
	Src Range
}

// Range returns the source range of the node
func (s Span) Range() Range {
	return s.Src
}
