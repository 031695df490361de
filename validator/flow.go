package validator

import "github.com/lslkit/lslkit-go/ast"

// finishBody runs once a function or handler body is built: it marks dead code,
// computes return paths and reports labels nothing jumps to.
func (b *builder) finishBody(cs *ast.CodeScope) {
	b.flow(cs)
	for _, label := range b.body.labelOrder {
		if label.References == 0 {
			b.warns.UnusedLabel(label.NameRange, label)
		}
	}
}

func (b *builder) flow(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.CodeScope:
		b.flowBlock(n)
	case *ast.IfStmt:
		b.flow(n.Then)
		if n.Else != nil {
			b.flow(n.Else)
			if n.Then.HasReturnPath() && n.Else.HasReturnPath() {
				n.ReturnPathID = n.ID()
			}
		}
	case *ast.WhileStmt:
		b.flow(n.Body)
	case *ast.ForStmt:
		b.flow(n.Body)
	case *ast.DoWhileStmt:
		b.flow(n.Body)
		if n.Body.HasReturnPath() {
			n.ReturnPathID = n.ID()
		}
	case *ast.JumpStmt:
		if target, ok := b.tree.Node(n.Target).(*ast.LabelStmt); ok {
			b.body.liveJumps[target]++
		}
	}
}

// flowBlock walks a statement list forward. Once a statement ends control flow the
// following statements are dead until a label that a reachable jump targets. Such a
// label also drops any return path found before it, since the jump skipped it.
func (b *builder) flowBlock(cs *ast.CodeScope) {
	var (
		kind        = ast.NotDead
		first, last ast.Stmt
	)
	flush := func() {
		if first != nil {
			b.warns.DeadCode(first.Range().Join(last.Range()), first, last, kind)
		}
		first, last = nil, nil
	}

	for i, s := range cs.Statements {
		if label, ok := s.(*ast.LabelStmt); ok && b.body.liveJumps[label] > 0 {
			flush()
			kind = ast.NotDead
			cs.ReturnPathID = ast.NoNode
		}
		if kind != ast.NotDead {
			markDead(s, kind)
			if first == nil {
				first = s
			}
			last = s
			continue
		}

		b.flow(s)
		if !cs.HasReturnPath() && s.HasReturnPath() {
			cs.ReturnPathID = s.ID()
		}
		kind = b.deadAfter(cs, i, s)
	}
	flush()
}

// deadAfter classifies the code following statement i of cs
func (b *builder) deadAfter(cs *ast.CodeScope, i int, s ast.Stmt) ast.DeadCodeKind {
	switch n := s.(type) {
	case *ast.StateChangeStmt:
		return ast.AfterStateChange
	case *ast.JumpStmt:
		target, ok := b.tree.Node(n.Target).(*ast.LabelStmt)
		switch {
		case !ok:
			return ast.NotDead
		case target.Parent() != cs.ID():
			return ast.AfterJumpOutOfScope
		case target.StatementIndex() > i:
			return ast.JumpOverCode
		default:
			return ast.AfterJumpLoopForever
		}
	}
	if s.HasReturnPath() {
		return ast.AfterReturn
	}
	return ast.NotDead
}

func markDead(s ast.Stmt, kind ast.DeadCodeKind) {
	ast.Inspect(s, func(n ast.Node) bool {
		if stmt, ok := n.(ast.Stmt); ok {
			stmt.Info().MarkDead(kind)
		}
		return true
	})
}
