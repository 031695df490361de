package validator

import (
	"strconv"
	"strings"

	"github.com/lslkit/lslkit-go/ast"
	"github.com/lslkit/lslkit-go/schema/library"
	"github.com/lslkit/lslkit-go/schema/types"
	"github.com/lslkit/lslkit-go/syntax"
)

const (
	maxInt32      = 2147483647
	maxUint32     = 0xFFFFFFFF
	overflowValue = -1
)

// expr builds a validated expression. It never returns nil: unresolvable input
// produces a node flagged with errors.
func (b *builder) expr(e syntax.Expr) ast.Expr {
	switch e := e.(type) {
	case *syntax.Literal:
		return b.literal(e)
	case *syntax.Ident:
		return b.ident(e)
	case *syntax.VectorLit:
		return b.vector(e)
	case *syntax.RotationLit:
		return b.rotation(e)
	case *syntax.ListLit:
		return b.list(e)
	case *syntax.Binary:
		return b.binary(e)
	case *syntax.Prefix:
		return b.prefix(e)
	case *syntax.Postfix:
		return b.postfix(e)
	case *syntax.Cast:
		return b.cast(e)
	case *syntax.Call:
		return b.call(e)
	case *syntax.Paren:
		return b.paren(e)
	case *syntax.Member:
		return b.member(e)
	}

	bad := &ast.VariableRef{VarKind: ast.KindUnresolved}
	if e != nil {
		bad.Src = e.Range()
	}
	bad.Errors = true
	b.tree.Add(bad)
	return bad
}

func (b *builder) literal(lit *syntax.Literal) ast.Expr {
	switch lit.Kind {
	case syntax.IntegerLiteral:
		n := &ast.IntegerLiteral{Text: lit.Text}
		n.Src = lit.Range()
		n.ValueType = types.Integer
		n.Constant = true
		n.Value, n.Overflow = parseInteger(lit.Text, b.negating)
		b.tree.Add(n)
		if n.Overflow {
			b.warns.IntegerLiteralOverflow(n.Src, n)
		}
		return n

	case syntax.FloatLiteral:
		n := &ast.FloatLiteral{Text: lit.Text}
		n.Src = lit.Range()
		n.ValueType = types.Float
		n.Constant = true
		n.Value, _ = strconv.ParseFloat(strings.TrimRight(lit.Text, "fF"), 64)
		b.tree.Add(n)
		return n

	default:
		n := &ast.StringLiteral{Text: lit.Text, Value: unquote(lit.Text)}
		n.Src = lit.Range()
		n.ValueType = types.String
		n.Constant = true
		b.tree.Add(n)
		return n
	}
}

// parseInteger reads a decimal or hex literal. Decimal values past the 32 bit range
// overflow to -1; 2147483648 is allowed directly under a unary minus. Hex literals
// wrap into the signed range.
func parseInteger(text string, negated bool) (int64, bool) {
	if len(text) > 2 && (text[:2] == "0x" || text[:2] == "0X") {
		u, err := strconv.ParseUint(text[2:], 16, 64)
		if err != nil || u > maxUint32 {
			return overflowValue, true
		}
		return int64(int32(uint32(u))), false
	}

	v, err := strconv.ParseInt(text, 10, 64)
	limit := int64(maxInt32)
	if negated {
		limit++
	}
	if err != nil || v > limit {
		return overflowValue, true
	}
	return v, false
}

// unquote resolves the escapes of a quoted string literal. \t becomes four spaces
// and unknown escapes yield the escaped character.
func unquote(text string) string {
	if len(text) >= 2 && text[0] == '"' && text[len(text)-1] == '"' {
		text = text[1 : len(text)-1]
	}
	if !strings.Contains(text, `\`) {
		return text
	}

	var sb strings.Builder
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c != '\\' || i+1 == len(text) {
			sb.WriteByte(c)
			continue
		}
		i++
		switch text[i] {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteString("    ")
		default:
			sb.WriteByte(text[i])
		}
	}
	return sb.String()
}

func (b *builder) ident(id *syntax.Ident) ast.Expr {
	ref := &ast.VariableRef{Name: id.Name, VarKind: ast.KindUnresolved}
	ref.Src = id.Range()
	b.tree.Add(ref)

	found := b.resolve(id.Name)
	switch {
	case found.local != nil:
		ref.VarKind = ast.KindLocalVariable
		ref.Declaration = found.local.ID()
		ref.ValueType = found.local.DeclType
		found.local.References++
	case found.param != nil:
		ref.VarKind = ast.KindParameter
		ref.Declaration = found.param.ID()
		ref.ValueType = found.param.DeclType
		found.param.References++
	case found.global != nil:
		ref.VarKind = ast.KindGlobalVariable
		ref.Declaration = found.global.ID()
		ref.ValueType = found.global.DeclType
		found.global.References++
	case found.constant != nil:
		ref.VarKind = ast.KindLibraryConstant
		ref.LibraryConstant = found.constant
		ref.ValueType = found.constant.Type
		ref.Constant = true
		if found.constant.Deprecated {
			b.warns.DeprecatedLibraryConstant(ref.Src, ref, found.constant)
		}
	case found.failed:
		ref.Errors = true
	default:
		ref.Errors = true
		b.fail(func(l ErrorListener) { l.UndefinedVariableReference(id.Range(), id.Name) })
	}
	return ref
}

// components checks the members of a vector, rotation or list literal. It returns
// whether any member has errors and whether all members are constant.
func (b *builder) components(list []ast.Expr, valid func(types.Operand) bool, report func(ErrorListener, int, ast.Expr)) (bool, bool) {
	hasErrors, constant := false, true
	for i, c := range list {
		if !c.IsConstant() {
			constant = false
		}
		if c.HasErrors() {
			hasErrors = true
			continue
		}
		if !valid(c) {
			hasErrors = true
			b.fail(func(l ErrorListener) { report(l, i, c) })
		}
	}
	return hasErrors, constant
}

func (b *builder) vector(e *syntax.VectorLit) ast.Expr {
	n := &ast.VectorLiteral{X: b.expr(e.X), Y: b.expr(e.Y), Z: b.expr(e.Z)}
	n.Src = e.Range()
	n.ValueType = types.Vector
	b.tree.Adopt(n, n.X, n.Y, n.Z)
	n.Errors, n.Constant = b.components([]ast.Expr{n.X, n.Y, n.Z}, types.ValidVectorComponent,
		func(l ErrorListener, i int, c ast.Expr) { l.InvalidVectorContent(c.Range(), i, c) })
	return n
}

func (b *builder) rotation(e *syntax.RotationLit) ast.Expr {
	n := &ast.RotationLiteral{X: b.expr(e.X), Y: b.expr(e.Y), Z: b.expr(e.Z), S: b.expr(e.S)}
	n.Src = e.Range()
	n.ValueType = types.Rotation
	b.tree.Adopt(n, n.X, n.Y, n.Z, n.S)
	n.Errors, n.Constant = b.components([]ast.Expr{n.X, n.Y, n.Z, n.S}, types.ValidRotationComponent,
		func(l ErrorListener, i int, c ast.Expr) { l.InvalidRotationContent(c.Range(), i, c) })
	return n
}

func (b *builder) list(e *syntax.ListLit) ast.Expr {
	n := &ast.ListLiteral{}
	n.Src = e.Range()
	n.ValueType = types.List
	for _, el := range e.Elements {
		n.Elements = append(n.Elements, b.expr(el))
	}
	b.tree.Adopt(n, exprNodes(n.Elements)...)
	n.Errors, n.Constant = b.components(n.Elements, types.ValidListElement,
		func(l ErrorListener, i int, c ast.Expr) { l.InvalidListContent(c.Range(), i, c) })
	return n
}

// modifiable checks that target may be written by op, reporting when it may not
func (b *builder) modifiable(target ast.Expr, op types.Operator) bool {
	if target.HasErrors() {
		return false
	}
	switch t := target.(type) {
	case *ast.VariableRef:
		if t.VarKind == ast.KindLibraryConstant {
			b.fail(func(l ErrorListener) { l.ModifyingLibraryConstant(t.Src, t, op) })
			return false
		}
		if t.VarKind.IsVariable() {
			return true
		}
	case *ast.ComponentAccess:
		return true
	}
	b.fail(func(l ErrorListener) { l.AssignmentToNonVariable(target.Range(), target, op) })
	return false
}

func (b *builder) binary(e *syntax.Binary) ast.Expr {
	n := &ast.BinaryExpr{Op: e.Op, OpRange: e.OpRange}
	n.Src = e.Range()
	n.Left = b.expr(e.Left)
	n.Right = b.expr(e.Right)
	b.tree.Adopt(n, n.Left, n.Right)

	if e.Op.IsAssignment() && !b.modifiable(n.Left, e.Op) {
		n.ValueType = n.Left.Type()
		n.Errors = true
		return n
	}

	result, ok := types.ValidateBinary(n.Left, n.Op, n.Right)
	switch {
	case ok:
		n.ValueType = result
		n.Constant = !n.Op.IsAssignment() && n.Left.IsConstant() && n.Right.IsConstant()
	case n.Left.HasErrors() || n.Right.HasErrors():
		n.Errors = true
	default:
		n.Errors = true
		b.fail(func(l ErrorListener) { l.InvalidBinaryOperation(n.Src, n.Left, n.Op, n.Right) })
	}
	return n
}

func (b *builder) prefix(e *syntax.Prefix) ast.Expr {
	n := &ast.PrefixExpr{Op: e.Op, OpRange: e.OpRange}
	n.Src = e.Range()
	if lit, ok := e.Operand.(*syntax.Literal); ok && e.Op == types.OpNegate && lit.Kind == syntax.IntegerLiteral {
		b.negating = true
	}
	n.Operand = b.expr(e.Operand)
	b.negating = false
	b.tree.Adopt(n, n.Operand)

	if e.Op.IsModifying() && !b.modifiable(n.Operand, e.Op) {
		n.ValueType = n.Operand.Type()
		n.Errors = true
		return n
	}

	result, ok := types.ValidatePrefix(n.Op, n.Operand)
	switch {
	case ok:
		n.ValueType = result
		n.Constant = !n.Op.IsModifying() && n.Operand.IsConstant()
	case n.Operand.HasErrors():
		n.Errors = true
	default:
		n.Errors = true
		b.fail(func(l ErrorListener) { l.InvalidPrefixOperation(n.Src, n.Op, n.Operand) })
	}
	return n
}

func (b *builder) postfix(e *syntax.Postfix) ast.Expr {
	n := &ast.PostfixExpr{Op: e.Op, OpRange: e.OpRange}
	n.Src = e.Range()
	n.Operand = b.expr(e.Operand)
	b.tree.Adopt(n, n.Operand)

	if !b.modifiable(n.Operand, e.Op) {
		n.ValueType = n.Operand.Type()
		n.Errors = true
		return n
	}

	result, ok := types.ValidatePostfix(n.Operand, n.Op)
	if !ok {
		n.Errors = true
		b.fail(func(l ErrorListener) { l.InvalidPostfixOperation(n.Src, n.Operand, n.Op) })
		return n
	}
	n.ValueType = result
	return n
}

func (b *builder) cast(e *syntax.Cast) ast.Expr {
	n := &ast.CastExpr{Target: e.Type}
	n.Src = e.Range()
	n.ValueType = e.Type
	n.Operand = b.expr(e.Operand)
	b.tree.Adopt(n, n.Operand)

	if _, ok := types.ValidateCast(n.Target, n.Operand); !ok {
		n.Errors = true
		if !n.Operand.HasErrors() {
			b.fail(func(l ErrorListener) { l.InvalidCast(n.Src, n.Target, n.Operand) })
		}
		return n
	}
	n.Constant = n.Operand.IsConstant()
	if n.Operand.Type() == n.Target {
		b.warns.RedundantCast(n.Src, n)
	}
	return n
}

func (b *builder) paren(e *syntax.Paren) ast.Expr {
	n := &ast.ParenExpr{Inner: b.expr(e.Inner)}
	n.Src = e.Range()
	n.ValueType = n.Inner.Type()
	n.Errors = n.Inner.HasErrors()
	n.Constant = n.Inner.IsConstant()
	b.tree.Adopt(n, n.Inner)
	return n
}

// member builds component access. Only variables of vector or rotation type have
// components; s exists on rotations only.
func (b *builder) member(e *syntax.Member) ast.Expr {
	n := &ast.ComponentAccess{Component: e.Member, ComponentRange: e.MemberRange}
	n.Src = e.Range()
	n.ValueType = types.Float
	n.Operand = b.expr(e.Operand)
	b.tree.Adopt(n, n.Operand)

	if n.Operand.HasErrors() {
		n.Errors = true
		return n
	}
	if !validComponent(n.Operand, e.Member) {
		n.Errors = true
		b.fail(func(l ErrorListener) { l.InvalidComponentAccess(n.Src, n.Operand, e.Member) })
	}
	return n
}

func validComponent(operand ast.Expr, component string) bool {
	if !operand.Kind().IsVariable() {
		return false
	}
	switch operand.Type() {
	case types.Vector:
		return component == "x" || component == "y" || component == "z"
	case types.Rotation:
		return component == "x" || component == "y" || component == "z" || component == "s"
	}
	return false
}

func (b *builder) call(e *syntax.Call) ast.Expr {
	n := &ast.CallExpr{Name: e.Name, NameRange: e.NameRange}
	n.Src = e.Range()
	argErrors := false
	for _, arg := range e.Args {
		built := b.expr(arg)
		argErrors = argErrors || built.HasErrors()
		n.Args = append(n.Args, built)
	}
	b.tree.Adopt(n, exprNodes(n.Args)...)

	if fn, ok := b.functions[e.Name]; ok {
		n.Function = fn.ID()
		n.ValueType = fn.ReturnType
		fn.References++
		n.Errors = argErrors || !b.userArguments(n, fn)
		return n
	}

	overloads, exists := b.libraryFunctions(e.Name)
	if !exists {
		n.Errors = true
		if event, isEvent := b.libraryEvent(e.Name); event != nil {
			b.fail(func(l ErrorListener) { l.CallToEventHandler(n.NameRange, e.Name, event) })
		} else if !isEvent {
			b.fail(func(l ErrorListener) { l.UndefinedFunctionReference(n.NameRange, e.Name) })
		}
		return n
	}
	if len(overloads) == 0 {
		n.Errors = true
		return n
	}
	if len(overloads) == 1 {
		n.ValueType = overloads[0].ReturnType
	}
	if argErrors {
		n.Errors = true
		return n
	}

	sig := b.resolveOverload(n, overloads)
	if sig == nil {
		n.Errors = true
		return n
	}
	n.Library = sig
	n.ValueType = sig.ReturnType
	if sig.Deprecated {
		b.warns.DeprecatedLibraryFunction(n.Src, n, sig)
	}
	return n
}

func (b *builder) userArguments(n *ast.CallExpr, fn *ast.FunctionDecl) bool {
	switch {
	case len(n.Args) > len(fn.Params):
		b.fail(func(l ErrorListener) { l.TooManyArguments(n.Src, n.Name, len(fn.Params), n.Args) })
		return false
	case len(n.Args) < len(fn.Params):
		b.fail(func(l ErrorListener) { l.TooFewArguments(n.Src, n.Name, len(fn.Params), n.Args) })
		return false
	}
	ok := true
	for i, arg := range n.Args {
		expected := fn.Params[i].DeclType
		if !types.IsAssignable(expected, arg.Type()) {
			ok = false
			b.fail(func(l ErrorListener) { l.ArgumentTypeMismatch(arg.Range(), n.Name, i, expected, arg) })
		}
	}
	return ok
}

// resolveOverload picks the library overload for a call. Exact matches win over
// matches that need an implicit conversion; more than one candidate at the winning
// level is ambiguous. A lone overload reports argument errors directly.
func (b *builder) resolveOverload(n *ast.CallExpr, overloads []*library.FunctionSignature) *library.FunctionSignature {
	var matches, exact []*library.FunctionSignature
	for _, sig := range overloads {
		match, isExact := matchOverload(sig, n.Args)
		if !match {
			continue
		}
		matches = append(matches, sig)
		if isExact {
			exact = append(exact, sig)
		}
	}

	switch {
	case len(exact) == 1:
		return exact[0]
	case len(exact) > 1:
		b.fail(func(l ErrorListener) { l.AmbiguousOverload(n.Src, n.Name, exact, n.Args) })
	case len(matches) == 1:
		return matches[0]
	case len(matches) > 1:
		b.fail(func(l ErrorListener) { l.AmbiguousOverload(n.Src, n.Name, matches, n.Args) })
	case len(overloads) == 1:
		b.libraryArguments(n, overloads[0])
	default:
		b.fail(func(l ErrorListener) { l.NoSuitableOverload(n.Src, n.Name, overloads, n.Args) })
	}
	return nil
}

func parameterFor(sig *library.FunctionSignature, i int) library.Parameter {
	if concrete := sig.ConcreteParameterCount(); i >= concrete {
		return sig.Parameters[concrete]
	}
	return sig.Parameters[i]
}

func accepts(p library.Parameter, t types.ValueType) (match, exact bool) {
	if t == types.Void {
		return false, false
	}
	if p.Variadic && p.Type == types.Void {
		return true, true
	}
	if p.Type == t {
		return true, true
	}
	return types.IsAssignable(p.Type, t), false
}

func matchOverload(sig *library.FunctionSignature, args []ast.Expr) (bool, bool) {
	concrete := sig.ConcreteParameterCount()
	if len(args) < concrete || (!sig.IsVariadic() && len(args) > concrete) {
		return false, false
	}
	exact := true
	for i, arg := range args {
		match, isExact := accepts(parameterFor(sig, i), arg.Type())
		if !match {
			return false, false
		}
		exact = exact && isExact
	}
	return true, exact
}

func (b *builder) libraryArguments(n *ast.CallExpr, sig *library.FunctionSignature) {
	concrete := sig.ConcreteParameterCount()
	switch {
	case len(n.Args) < concrete:
		b.fail(func(l ErrorListener) { l.TooFewArguments(n.Src, n.Name, concrete, n.Args) })
		return
	case !sig.IsVariadic() && len(n.Args) > concrete:
		b.fail(func(l ErrorListener) { l.TooManyArguments(n.Src, n.Name, concrete, n.Args) })
		return
	}
	for i, arg := range n.Args {
		p := parameterFor(sig, i)
		if match, _ := accepts(p, arg.Type()); !match {
			b.fail(func(l ErrorListener) { l.ArgumentTypeMismatch(arg.Range(), n.Name, i, p.Type, arg) })
		}
	}
}
