package testutils

import (
	"sync"

	"github.com/lslkit/lslkit-go/ast"
	"github.com/lslkit/lslkit-go/syntax"
	"github.com/lslkit/lslkit-go/validator"
)

// Event is one diagnostic captured by a Recorder
type Event struct {
	Method string
	Range  syntax.Range
	Name   string
	Dead   ast.DeadCodeKind
}

// Recorder is a listener that records a handful of diagnostics verbatim and
// ignores the rest. It satisfies both listener interfaces.
type Recorder struct {
	validator.BaseErrorListener
	validator.BaseWarningListener

	mu     sync.Mutex
	events []Event
}

var (
	_ validator.ErrorListener   = (*Recorder)(nil)
	_ validator.WarningListener = (*Recorder)(nil)
)

func (r *Recorder) record(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns a copy of the recorded events in report order
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

func (r *Recorder) UndefinedVariableReference(rng syntax.Range, name string) {
	r.record(Event{Method: "UndefinedVariableReference", Range: rng, Name: name})
}

func (r *Recorder) DeadCode(rng syntax.Range, first, last ast.Stmt, kind ast.DeadCodeKind) {
	r.record(Event{Method: "DeadCode", Range: rng, Dead: kind})
}

func (r *Recorder) UnusedParameter(rng syntax.Range, param *ast.Parameter, owner ast.Node) {
	r.record(Event{Method: "UnusedParameter", Range: rng, Name: param.Name})
}

func (r *Recorder) UnusedLocalVariable(rng syntax.Range, local *ast.VarDeclStmt) {
	r.record(Event{Method: "UnusedLocalVariable", Range: rng, Name: local.Name})
}
