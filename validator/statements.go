package validator

import (
	"github.com/lslkit/lslkit-go/ast"
	"github.com/lslkit/lslkit-go/schema/types"
	"github.com/lslkit/lslkit-go/syntax"
)

// block builds a braced block as a new code scope
func (b *builder) block(src *syntax.Block, kind ast.CodeScopeKind) *ast.CodeScope {
	cs := &ast.CodeScope{ScopeKind: kind}
	cs.Src = src.Range()
	sc := b.pushScope(src.Stmts)
	cs.Scope = sc.id
	for i, s := range src.Stmts {
		stmt := b.stmt(s, false)
		stmt.Info().Index = i
		cs.Statements = append(cs.Statements, stmt)
	}
	b.popScope()
	b.tree.Adopt(cs, stmtNodes(cs.Statements)...)
	return cs
}

// branch builds the body of an if, else or loop. A lone statement gets an implicit
// scope of its own.
func (b *builder) branch(src syntax.Stmt, kind ast.CodeScopeKind) ast.Stmt {
	if blk, ok := src.(*syntax.Block); ok {
		return b.block(blk, kind)
	}
	b.pushScope([]syntax.Stmt{src})
	stmt := b.stmt(src, true)
	b.popScope()
	return stmt
}

// stmt builds one statement. bare is set for a statement used directly as a branch
// or loop body.
func (b *builder) stmt(src syntax.Stmt, bare bool) ast.Stmt {
	var out ast.Stmt
	switch s := src.(type) {
	case *syntax.VarDecl:
		out = b.varDecl(s, bare)
	case *syntax.ExprStmt:
		out = b.exprStmt(s)
	case *syntax.Return:
		out = b.returnStmt(s)
	case *syntax.If:
		out = b.ifStmt(s)
	case *syntax.While:
		out = b.whileStmt(s)
	case *syntax.DoWhile:
		out = b.doWhileStmt(s)
	case *syntax.For:
		out = b.forStmt(s)
	case *syntax.Jump:
		out = b.jump(s)
	case *syntax.Label:
		out = b.label(s)
	case *syntax.StateChange:
		out = b.stateChange(s)
	case *syntax.Block:
		return b.block(s, ast.ScopeBlock)
	default:
		empty := &ast.EmptyStmt{}
		if src != nil {
			empty.Src = src.Range()
		}
		b.tree.Add(empty)
		out = empty
	}
	out.Info().Scope = b.scope().id
	return out
}

func (b *builder) varDecl(s *syntax.VarDecl, bare bool) ast.Stmt {
	d := &ast.VarDeclStmt{Name: s.Name, NameRange: s.NameRange, DeclType: s.Type}
	d.Src = s.Range()
	if s.Init != nil {
		d.Init = b.expr(s.Init)
	}
	b.tree.Adopt(d, d.Init)

	if d.Init != nil {
		if d.Init.HasErrors() {
			d.Errors = true
		} else if !types.IsAssignable(d.DeclType, d.Init.Type()) {
			d.Errors = true
			b.fail(func(l ErrorListener) { l.TypeMismatchInVariableDeclaration(d.Init.Range(), d.DeclType, d.Init) })
		}
	}

	if bare {
		d.Errors = true
		b.fail(func(l ErrorListener) { l.DeclarationRequiresScope(d.Src, d) })
		return d
	}
	b.declareLocal(d)
	return d
}

// hasEffect reports whether evaluating e can change program state
func hasEffect(e ast.Expr) bool {
	switch v := ast.Unwrap(e).(type) {
	case *ast.BinaryExpr:
		return v.Op.IsAssignment()
	case *ast.PrefixExpr:
		return v.Op.IsModifying()
	case *ast.PostfixExpr:
		return true
	case *ast.CallExpr:
		return true
	}
	return false
}

func (b *builder) exprStmt(s *syntax.ExprStmt) ast.Stmt {
	n := &ast.ExprStmt{X: b.expr(s.X)}
	n.Src = s.Range()
	b.tree.Adopt(n, n.X)
	n.Errors = n.X.HasErrors()
	if !n.Errors && !hasEffect(n.X) {
		b.warns.UselessExpressionStatement(n.X.Range(), n.X)
	}
	return n
}

func (b *builder) returnStmt(s *syntax.Return) ast.Stmt {
	n := &ast.ReturnStmt{}
	n.Src = s.Range()
	if s.Value != nil {
		n.Value = b.expr(s.Value)
	}
	b.tree.Adopt(n, n.Value)
	n.ReturnPathID = n.ID()
	if n.Value != nil && n.Value.HasErrors() {
		n.Errors = true
	}

	if h := b.body.handler; h != nil {
		if n.Value != nil {
			n.Errors = true
			b.fail(func(l ErrorListener) { l.ReturnedValueFromEventHandler(n.Value.Range(), h, n.Value) })
		}
		return n
	}

	fn := b.body.fn
	switch {
	case fn.ReturnType == types.Void:
		if n.Value != nil {
			n.Errors = true
			b.fail(func(l ErrorListener) { l.ReturnedValueFromVoidFunction(n.Value.Range(), fn, n.Value) })
		}
	case n.Value == nil:
		n.Errors = true
		b.fail(func(l ErrorListener) { l.MissingReturnValue(n.Src, fn) })
	case !n.Errors && !types.IsAssignable(fn.ReturnType, n.Value.Type()):
		n.Errors = true
		b.fail(func(l ErrorListener) { l.TypeMismatchInReturn(n.Value.Range(), fn.ReturnType, n.Value) })
	}
	return n
}

// condition builds the condition of a branch or loop. It returns false when the
// condition is unusable.
func (b *builder) condition(src syntax.Expr, warnConstant bool) (ast.Expr, bool) {
	cond := b.expr(src)
	if cond.HasErrors() {
		return cond, false
	}
	if !types.ValidConditionalOperand(cond) {
		b.fail(func(l ErrorListener) { l.InvalidConditional(cond.Range(), cond) })
		return cond, false
	}
	if warnConstant && b.opts.constantConditions && cond.IsConstant() {
		b.warns.ConstantCondition(cond.Range(), cond)
	}
	if bin, ok := ast.Unwrap(cond).(*ast.BinaryExpr); ok && bin.Op == types.OpAssign {
		b.warns.AssignmentInCondition(cond.Range(), cond)
	}
	return cond, true
}

func (b *builder) ifStmt(s *syntax.If) ast.Stmt {
	n := &ast.IfStmt{}
	n.Src = s.Range()
	cond, ok := b.condition(s.Cond, true)
	n.Cond = cond
	n.Errors = !ok
	n.Then = b.branch(s.Then, ast.ScopeBranch)
	if s.Else != nil {
		n.Else = b.branch(s.Else, ast.ScopeBranch)
	}
	b.tree.Adopt(n, n.Cond, n.Then, n.Else)
	return n
}

func (b *builder) whileStmt(s *syntax.While) ast.Stmt {
	n := &ast.WhileStmt{}
	n.Src = s.Range()
	cond, ok := b.condition(s.Cond, false)
	n.Cond = cond
	n.Errors = !ok
	n.Body = b.branch(s.Body, ast.ScopeLoopBody)
	b.tree.Adopt(n, n.Cond, n.Body)
	return n
}

func (b *builder) doWhileStmt(s *syntax.DoWhile) ast.Stmt {
	n := &ast.DoWhileStmt{}
	n.Src = s.Range()
	n.Body = b.branch(s.Body, ast.ScopeLoopBody)
	cond, ok := b.condition(s.Cond, false)
	n.Cond = cond
	n.Errors = !ok
	b.tree.Adopt(n, n.Body, n.Cond)
	return n
}

func (b *builder) forStmt(s *syntax.For) ast.Stmt {
	n := &ast.ForStmt{}
	n.Src = s.Range()
	for _, e := range s.Init {
		init := b.expr(e)
		n.Errors = n.Errors || init.HasErrors()
		n.Init = append(n.Init, init)
	}
	if s.Cond != nil {
		cond, ok := b.condition(s.Cond, false)
		n.Cond = cond
		n.Errors = n.Errors || !ok
	}
	for _, e := range s.Post {
		post := b.expr(e)
		n.Errors = n.Errors || post.HasErrors()
		n.Post = append(n.Post, post)
	}
	n.Body = b.branch(s.Body, ast.ScopeLoopBody)

	children := exprNodes(n.Init)
	children = append(children, n.Cond)
	children = append(children, exprNodes(n.Post)...)
	b.tree.Adopt(n, append(children, n.Body)...)
	return n
}

func (b *builder) jump(s *syntax.Jump) ast.Stmt {
	n := &ast.JumpStmt{Label: s.Label, LabelRange: s.LabelRange}
	n.Src = s.Range()
	b.tree.Add(n)
	if label := b.lookupLabel(s.Label); label != nil {
		n.Target = label.ID()
		label.References++
	} else {
		n.Errors = true
		b.fail(func(l ErrorListener) { l.UndefinedLabelReference(s.LabelRange, s.Label) })
	}
	return n
}

func (b *builder) label(s *syntax.Label) ast.Stmt {
	if n, ok := b.body.labelNodes[s]; ok {
		return n
	}
	n := &ast.LabelStmt{Name: s.Name, NameRange: s.NameRange}
	n.Src = s.Range()
	b.tree.Add(n)
	return n
}

func (b *builder) stateChange(s *syntax.StateChange) ast.Stmt {
	n := &ast.StateChangeStmt{State: s.State, StateRange: s.StateRange}
	n.Src = s.Range()
	b.tree.Add(n)

	target, ok := b.states[s.State]
	if ok {
		n.Target = target.ID()
		target.References++
	} else {
		n.Errors = true
		b.fail(func(l ErrorListener) { l.UndefinedStateReference(s.StateRange, s.State) })
	}

	if fn := b.body.fn; fn != nil {
		n.Errors = true
		b.fail(func(l ErrorListener) { l.StateChangeInFunction(n.Src, fn, s.State) })
	} else if ok && target == b.body.state {
		b.warns.StateChangeToCurrentState(n.Src, n)
	}
	return n
}
