// Package validator turns a raw syntax tree into a validated, typed AST.
//
// Every semantic problem is reported through an ErrorListener or WarningListener;
// validation never stops at the first error. Nodes that contain errors are still
// built and flagged so callers can keep inspecting the tree.
package validator

import (
	"errors"
	"fmt"

	"github.com/lslkit/lslkit-go/ast"
	"github.com/lslkit/lslkit-go/schema/library"
	"github.com/lslkit/lslkit-go/schema/types"
	"github.com/lslkit/lslkit-go/syntax"
)

// ErrNilFile is returned when Validate is called without a syntax tree
var ErrNilFile = errors.New("validator: nil syntax file")

// Option configures a Validator
type Option func(*options)

type options struct {
	eventParameterWarnings bool
	constantConditions     bool
}

// WithEventParameterWarnings enables unused parameter warnings for event handlers.
// Off by default: handlers must declare every parameter of their event.
func WithEventParameterWarnings(enabled bool) Option {
	return func(o *options) {
		o.eventParameterWarnings = enabled
	}
}

// WithConstantConditionWarnings toggles the constant if-condition warning
func WithConstantConditionWarnings(enabled bool) Option {
	return func(o *options) {
		o.constantConditions = enabled
	}
}

// Validator checks scripts against a library. It holds no per-script state, so one
// Validator may check many files; it is as concurrency safe as its listeners.
type Validator struct {
	provider library.Provider
	errs     ErrorListener
	warns    WarningListener
	opts     options
}

// New creates a validator. Nil listeners discard their diagnostics.
func New(provider library.Provider, errs ErrorListener, warns WarningListener, opts ...Option) *Validator {
	if errs == nil {
		errs = BaseErrorListener{}
	}
	if warns == nil {
		warns = BaseWarningListener{}
	}
	v := &Validator{
		provider: provider,
		errs:     errs,
		warns:    warns,
		opts:     options{constantConditions: true},
	}
	for _, opt := range opts {
		opt(&v.opts)
	}
	return v
}

// Validate builds the validated AST for file. Semantic problems go to the listeners
// and are summarized by CompilationUnit.HasErrors; the returned error is reserved
// for library lookups that fail because the library itself is misconfigured.
func (v *Validator) Validate(file *syntax.File) (*ast.CompilationUnit, error) {
	if file == nil {
		return nil, ErrNilFile
	}
	if v.provider == nil {
		return nil, errors.New("validator: no library provider")
	}
	b := newBuilder(v, file.Filename)
	b.build(file)
	return b.unit, b.libErr
}

type builder struct {
	*Validator

	tree   *ast.Tree
	unit   *ast.CompilationUnit
	libErr error

	errorCount int
	scopeIDs   int

	globals   map[string]*ast.GlobalVariable
	functions map[string]*ast.FunctionDecl
	states    map[string]*ast.StateDecl
	fnNodes   map[*syntax.Function]*ast.FunctionDecl

	body *body

	// negating is set while building the operand of a unary minus
	negating bool
}

func newBuilder(v *Validator, filename string) *builder {
	tree := ast.NewTree()
	return &builder{
		Validator: v,
		tree:      tree,
		unit:      &ast.CompilationUnit{Filename: filename, Tree: tree},
		globals:   make(map[string]*ast.GlobalVariable),
		functions: make(map[string]*ast.FunctionDecl),
		states:    make(map[string]*ast.StateDecl),
		fnNodes:   make(map[*syntax.Function]*ast.FunctionDecl),
	}
}

// fail reports an error and marks the unit as failed
func (b *builder) fail(report func(ErrorListener)) {
	b.errorCount++
	b.unit.Errors = true
	report(b.errs)
}

func (b *builder) libraryFailure(err error) {
	b.unit.Errors = true
	if b.libErr == nil {
		b.libErr = fmt.Errorf("library lookup failed: %w", err)
	}
}

func (b *builder) libraryConstant(name string) (*library.ConstantSignature, bool) {
	if !b.provider.LibraryConstantExists(name) {
		return nil, false
	}
	sig, err := b.provider.LibraryConstantSignature(name)
	if err != nil {
		b.libraryFailure(err)
		return nil, true
	}
	return sig, sig != nil
}

func (b *builder) libraryFunctions(name string) ([]*library.FunctionSignature, bool) {
	if !b.provider.LibraryFunctionExists(name) {
		return nil, false
	}
	overloads, err := b.provider.LibraryFunctionSignatures(name)
	if err != nil {
		b.libraryFailure(err)
		return nil, true
	}
	return overloads, len(overloads) > 0
}

func (b *builder) libraryEvent(name string) (*library.EventSignature, bool) {
	if !b.provider.EventHandlerExists(name) {
		return nil, false
	}
	sig, err := b.provider.EventHandlerSignature(name)
	if err != nil {
		b.libraryFailure(err)
		return nil, true
	}
	return sig, sig != nil
}

func (b *builder) build(file *syntax.File) {
	unit := b.unit
	unit.Src = file.Range()
	b.tree.Add(unit)

	b.declareFunctions(file.Decls)
	b.declareStates(file)

	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *syntax.GlobalVar:
			g := b.buildGlobal(d)
			unit.Globals = append(unit.Globals, g)
			unit.Decls = append(unit.Decls, g)
		case *syntax.Function:
			fn := b.fnNodes[d]
			b.buildFunction(fn, d)
			unit.Functions = append(unit.Functions, fn)
			unit.Decls = append(unit.Decls, fn)
		}
	}

	if file.Default == nil {
		b.fail(func(l ErrorListener) { l.MissingDefaultState(file.Range()) })
	} else {
		b.buildState(unit.Default, file.Default)
	}
	for i, src := range file.States {
		b.buildState(unit.States[i], src)
	}

	for _, g := range unit.Globals {
		if g.References == 0 {
			b.warns.UnusedGlobalVariable(g.NameRange, g)
		}
	}
	for _, fn := range unit.Functions {
		if fn.References == 0 {
			b.warns.UnusedFunction(fn.NameRange, fn)
		}
	}

	children := append([]ast.Node{}, unit.Decls...)
	if unit.Default != nil {
		children = append(children, unit.Default)
	}
	for _, s := range unit.States {
		children = append(children, s)
	}
	b.tree.Adopt(unit, children...)
}

// declareFunctions registers every function before any body is built so calls may
// precede the definition.
func (b *builder) declareFunctions(decls []syntax.Decl) {
	for _, decl := range decls {
		src, ok := decl.(*syntax.Function)
		if !ok {
			continue
		}
		fn := &ast.FunctionDecl{
			Name:       src.Name,
			NameRange:  src.NameRange,
			ReturnType: src.ReturnType,
			Params:     b.parameters(src.Params),
		}
		fn.Src = src.Range()
		b.tree.Add(fn)
		b.fnNodes[src] = fn

		if previous, dup := b.functions[src.Name]; dup {
			b.fail(func(l ErrorListener) { l.RedefinedFunction(src.NameRange, src.Name, previous) })
			fn.Errors = true
			continue
		}
		if overloads, _ := b.libraryFunctions(src.Name); len(overloads) > 0 {
			b.fail(func(l ErrorListener) { l.RedefinedLibraryFunction(src.NameRange, src.Name, overloads) })
			fn.Errors = true
		}
		b.functions[src.Name] = fn
	}
}

func (b *builder) declareStates(file *syntax.File) {
	if file.Default != nil {
		st := &ast.StateDecl{Name: "default", NameRange: file.Default.NameRange, IsDefault: true}
		st.Src = file.Default.Range()
		b.tree.Add(st)
		b.unit.Default = st
		b.states["default"] = st
	}
	for _, src := range file.States {
		st := &ast.StateDecl{Name: src.Name, NameRange: src.NameRange}
		st.Src = src.Range()
		b.tree.Add(st)
		b.unit.States = append(b.unit.States, st)

		if previous, dup := b.states[src.Name]; dup {
			b.fail(func(l ErrorListener) { l.RedefinedState(src.NameRange, src.Name, previous) })
			continue
		}
		b.states[src.Name] = st
	}
}

func (b *builder) parameters(src []*syntax.Param) []*ast.Parameter {
	params := make([]*ast.Parameter, 0, len(src))
	for _, p := range src {
		param := &ast.Parameter{Name: p.Name, NameRange: p.NameRange, DeclType: p.Type}
		param.Src = p.Range()
		b.tree.Add(param)
		params = append(params, param)
	}
	return params
}

func (b *builder) buildGlobal(src *syntax.GlobalVar) *ast.GlobalVariable {
	before := b.errorCount
	g := &ast.GlobalVariable{Name: src.Name, NameRange: src.NameRange, DeclType: src.Type}
	g.Src = src.Range()

	if src.Init != nil {
		g.Init = b.expr(src.Init)
		if !g.Init.HasErrors() {
			switch {
			case !validGlobalInitializer(g.Init):
				b.fail(func(l ErrorListener) { l.InvalidGlobalInitializer(g.Init.Range(), g, g.Init) })
			case !types.IsAssignable(g.DeclType, g.Init.Type()):
				b.fail(func(l ErrorListener) { l.TypeMismatchInVariableDeclaration(g.Init.Range(), g.DeclType, g.Init) })
			}
		}
	}
	b.tree.Adopt(g, g.Init)

	if previous, dup := b.globals[src.Name]; dup {
		b.fail(func(l ErrorListener) { l.RedefinedGlobalVariable(src.NameRange, src.Name, previous) })
	} else {
		if constant, _ := b.libraryConstant(src.Name); constant != nil {
			b.fail(func(l ErrorListener) { l.RedefinedLibraryConstant(src.NameRange, src.Name, constant) })
		}
		b.globals[src.Name] = g
	}
	g.Errors = b.errorCount > before
	return g
}

// validGlobalInitializer accepts the constant forms allowed at global scope
func validGlobalInitializer(e ast.Expr) bool {
	switch v := e.(type) {
	case *ast.IntegerLiteral, *ast.FloatLiteral, *ast.StringLiteral:
		return true
	case *ast.VariableRef:
		return v.VarKind == ast.KindGlobalVariable || v.VarKind == ast.KindLibraryConstant
	case *ast.PrefixExpr:
		if v.Op != types.OpNegate {
			return false
		}
		switch v.Operand.(type) {
		case *ast.IntegerLiteral, *ast.FloatLiteral:
			return true
		}
		return false
	case *ast.VectorLiteral:
		return validGlobalInitializer(v.X) && validGlobalInitializer(v.Y) && validGlobalInitializer(v.Z)
	case *ast.RotationLiteral:
		return validGlobalInitializer(v.X) && validGlobalInitializer(v.Y) &&
			validGlobalInitializer(v.Z) && validGlobalInitializer(v.S)
	case *ast.ListLiteral:
		for _, el := range v.Elements {
			if !validGlobalInitializer(el) {
				return false
			}
		}
		return true
	}
	return false
}

func (b *builder) buildFunction(fn *ast.FunctionDecl, src *syntax.Function) {
	before := b.errorCount
	b.body = newBody()
	b.body.fn = fn
	defer func() { b.body = nil }()

	b.declareParameters(fn.Params)
	fn.Body = b.block(src.Body, ast.ScopeFunctionBody)
	b.finishBody(fn.Body)

	if fn.ReturnType != types.Void && !fn.Body.HasReturnPath() {
		b.fail(func(l ErrorListener) { l.NotAllCodePathsReturn(fn.NameRange, fn) })
	}
	for _, p := range fn.Params {
		if p.References == 0 {
			b.warns.UnusedParameter(p.NameRange, p, fn)
		}
	}

	children := make([]ast.Node, 0, len(fn.Params)+1)
	for _, p := range fn.Params {
		children = append(children, p)
	}
	b.tree.Adopt(fn, append(children, fn.Body)...)
	if b.errorCount > before {
		fn.Errors = true
	}
}

func (b *builder) buildState(st *ast.StateDecl, src *syntax.State) {
	if len(src.Handlers) == 0 {
		b.fail(func(l ErrorListener) { l.StateWithoutEventHandlers(src.NameRange, st) })
	}
	seen := make(map[string]bool, len(src.Handlers))
	children := make([]ast.Node, 0, len(src.Handlers))
	for _, h := range src.Handlers {
		if seen[h.Name] {
			b.fail(func(l ErrorListener) { l.RedefinedEventHandler(h.NameRange, h.Name, st) })
		}
		seen[h.Name] = true
		handler := b.buildHandler(st, h)
		st.Handlers = append(st.Handlers, handler)
		children = append(children, handler)
	}
	b.tree.Adopt(st, children...)
}

func (b *builder) buildHandler(st *ast.StateDecl, src *syntax.EventHandler) *ast.EventHandler {
	before := b.errorCount
	h := &ast.EventHandler{Name: src.Name, NameRange: src.NameRange, Params: b.parameters(src.Params)}
	h.Src = src.Range()
	b.tree.Add(h)

	sig, exists := b.libraryEvent(src.Name)
	switch {
	case !exists:
		b.fail(func(l ErrorListener) { l.UnknownEventHandler(src.NameRange, src.Name) })
	case sig != nil:
		h.Signature = sig
		if !sameParameters(h.Params, sig.Parameters) {
			b.fail(func(l ErrorListener) { l.IncorrectEventHandlerSignature(src.NameRange, h, sig) })
		}
		if sig.Deprecated {
			b.warns.DeprecatedEventHandler(src.NameRange, h, sig)
		}
	}

	b.body = newBody()
	b.body.handler = h
	b.body.state = st
	defer func() { b.body = nil }()

	b.declareParameters(h.Params)
	h.Body = b.block(src.Body, ast.ScopeEventHandlerBody)
	b.finishBody(h.Body)

	if b.opts.eventParameterWarnings {
		for _, p := range h.Params {
			if p.References == 0 {
				b.warns.UnusedParameter(p.NameRange, p, h)
			}
		}
	}

	children := make([]ast.Node, 0, len(h.Params)+1)
	for _, p := range h.Params {
		children = append(children, p)
	}
	b.tree.Adopt(h, append(children, h.Body)...)
	h.Errors = b.errorCount > before
	return h
}

func sameParameters(params []*ast.Parameter, expected []library.Parameter) bool {
	if len(params) != len(expected) {
		return false
	}
	for i, p := range params {
		if p.DeclType != expected[i].Type {
			return false
		}
	}
	return true
}

func (b *builder) declareParameters(params []*ast.Parameter) {
	for _, p := range params {
		if previous, dup := b.body.params[p.Name]; dup {
			b.fail(func(l ErrorListener) { l.RedefinedParameter(p.NameRange, p.Name, previous) })
			continue
		}
		if constant, _ := b.libraryConstant(p.Name); constant != nil {
			b.fail(func(l ErrorListener) { l.RedefinedLibraryConstant(p.NameRange, p.Name, constant) })
		} else if global, ok := b.globals[p.Name]; ok {
			b.warns.ParameterHidesGlobalVariable(p.NameRange, p, global)
		}
		b.body.params[p.Name] = p
	}
}

func exprNodes(list []ast.Expr) []ast.Node {
	out := make([]ast.Node, 0, len(list))
	for _, e := range list {
		out = append(out, e)
	}
	return out
}

func stmtNodes(list []ast.Stmt) []ast.Node {
	out := make([]ast.Node, 0, len(list))
	for _, s := range list {
		out = append(out, s)
	}
	return out
}
