package validator

import (
	"github.com/lslkit/lslkit-go/ast"
	"github.com/lslkit/lslkit-go/schema/library"
	"github.com/lslkit/lslkit-go/syntax"
)

// body is the state of the function or event handler being built
type body struct {
	fn      *ast.FunctionDecl
	handler *ast.EventHandler
	state   *ast.StateDecl

	params map[string]*ast.Parameter
	scopes []*scope

	labels     map[string]*ast.LabelStmt
	labelOrder []*ast.LabelStmt
	labelNodes map[*syntax.Label]*ast.LabelStmt

	// liveJumps counts jumps per label that flow analysis found reachable
	liveJumps map[*ast.LabelStmt]int
}

func newBody() *body {
	return &body{
		params:     make(map[string]*ast.Parameter),
		labels:     make(map[string]*ast.LabelStmt),
		labelNodes: make(map[*syntax.Label]*ast.LabelStmt),
		liveJumps:  make(map[*ast.LabelStmt]int),
	}
}

// scope is one lexical code scope. Labels are visible in their whole scope,
// variables from their declaration onward.
type scope struct {
	id     int
	vars   map[string]*ast.VarDeclStmt
	order  []*ast.VarDeclStmt
	labels map[string]*ast.LabelStmt
}

func (b *builder) scope() *scope {
	return b.body.scopes[len(b.body.scopes)-1]
}

// pushScope opens a scope for stmts and declares their labels up front so forward
// jumps resolve.
func (b *builder) pushScope(stmts []syntax.Stmt) *scope {
	b.scopeIDs++
	sc := &scope{
		id:     b.scopeIDs,
		vars:   make(map[string]*ast.VarDeclStmt),
		labels: make(map[string]*ast.LabelStmt),
	}
	b.body.scopes = append(b.body.scopes, sc)
	for _, s := range stmts {
		if label, ok := s.(*syntax.Label); ok {
			b.declareLabel(sc, label)
		}
	}
	return sc
}

func (b *builder) popScope() {
	sc := b.scope()
	b.body.scopes = b.body.scopes[:len(b.body.scopes)-1]
	for _, v := range sc.order {
		if v.References == 0 {
			b.warns.UnusedLocalVariable(v.NameRange, v)
		}
	}
}

func (b *builder) declareLabel(sc *scope, src *syntax.Label) {
	label := &ast.LabelStmt{Name: src.Name, NameRange: src.NameRange}
	label.Src = src.Range()
	b.tree.Add(label)
	b.body.labelNodes[src] = label

	if previous, dup := b.body.labels[src.Name]; dup {
		b.fail(func(l ErrorListener) { l.RedefinedLabel(src.NameRange, src.Name, previous) })
		label.Errors = true
		return
	}
	b.body.labels[src.Name] = label
	b.body.labelOrder = append(b.body.labelOrder, label)
	sc.labels[src.Name] = label
}

// lookupLabel finds a label in the current scope or an enclosing one
func (b *builder) lookupLabel(name string) *ast.LabelStmt {
	for i := len(b.body.scopes) - 1; i >= 0; i-- {
		if label, ok := b.body.scopes[i].labels[name]; ok {
			return label
		}
	}
	return nil
}

func (b *builder) declareLocal(decl *ast.VarDeclStmt) {
	for i := len(b.body.scopes) - 1; i >= 0; i-- {
		if previous, ok := b.body.scopes[i].vars[decl.Name]; ok {
			b.fail(func(l ErrorListener) { l.RedefinedLocalVariable(decl.NameRange, decl.Name, previous) })
			decl.Errors = true
			return
		}
	}

	if constant, _ := b.libraryConstant(decl.Name); constant != nil {
		b.fail(func(l ErrorListener) { l.RedefinedLibraryConstant(decl.NameRange, decl.Name, constant) })
		decl.Errors = true
	} else {
		if param, ok := b.body.params[decl.Name]; ok {
			b.warns.LocalVariableHidesParameter(decl.NameRange, decl, param)
		}
		if global, ok := b.globals[decl.Name]; ok {
			b.warns.LocalVariableHidesGlobalVariable(decl.NameRange, decl, global)
		}
	}

	sc := b.scope()
	sc.vars[decl.Name] = decl
	sc.order = append(sc.order, decl)
}

// binding is the result of resolving an identifier. At most one field is set;
// failed marks a library lookup that errored.
type binding struct {
	local    *ast.VarDeclStmt
	param    *ast.Parameter
	global   *ast.GlobalVariable
	constant *library.ConstantSignature
	failed   bool
}

// resolve looks a name up as local, then parameter, then global, then library constant
func (b *builder) resolve(name string) binding {
	if b.body != nil {
		for i := len(b.body.scopes) - 1; i >= 0; i-- {
			if v, ok := b.body.scopes[i].vars[name]; ok {
				return binding{local: v}
			}
		}
		if p, ok := b.body.params[name]; ok {
			return binding{param: p}
		}
	}
	if g, ok := b.globals[name]; ok {
		return binding{global: g}
	}
	if c, exists := b.libraryConstant(name); exists {
		return binding{constant: c, failed: c == nil}
	}
	return binding{}
}
