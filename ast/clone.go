package ast

// Clone deep-copies the tree rooted at n into a fresh arena. The copy shares no
// nodes with the original. Links to nodes inside the copied subtree are remapped;
// links that point outside it are cleared. Error flags are preserved.
func Clone(n Node) (Node, *Tree) {
	c := &cloner{copies: make(map[Node]Node)}
	root := c.node(n)
	tree := NewTree()
	if root == nil {
		return nil, tree
	}

	root.base().ParentID = NoNode
	Inspect(root, func(node Node) bool {
		tree.Add(node)
		return true
	})
	Walk(root, func(node Node) {
		for _, child := range Children(node) {
			child.base().ParentID = node.ID()
		}
	})

	remap := func(old NodeID) NodeID {
		if target, ok := c.byOldID[old]; ok {
			return target.ID()
		}
		return NoNode
	}
	Walk(root, func(node Node) {
		switch v := node.(type) {
		case *VariableRef:
			v.Declaration = remap(v.Declaration)
		case *CallExpr:
			v.Function = remap(v.Function)
		case *JumpStmt:
			v.Target = remap(v.Target)
		case *StateChangeStmt:
			v.Target = remap(v.Target)
		case *CompilationUnit:
			v.Tree = tree
		}
		if s, ok := node.(Stmt); ok {
			info := s.Info()
			info.ReturnPathID = remap(info.ReturnPathID)
		}
	})
	return root, tree
}

// CloneExpr clones an expression subtree
func CloneExpr(e Expr) (Expr, *Tree) {
	n, tree := Clone(e)
	if n == nil {
		return nil, tree
	}
	return n.(Expr), tree
}

// CloneUnit clones a whole compilation unit; the copy's Tree field is its new arena
func CloneUnit(u *CompilationUnit) *CompilationUnit {
	n, _ := Clone(u)
	if n == nil {
		return nil
	}
	return n.(*CompilationUnit)
}

type cloner struct {
	copies  map[Node]Node
	byOldID map[NodeID]Node
}

func (c *cloner) record(old, copied Node) Node {
	c.copies[old] = copied
	if id := old.ID(); id != NoNode {
		if c.byOldID == nil {
			c.byOldID = make(map[NodeID]Node)
		}
		c.byOldID[id] = copied
	}
	copied.base().NodeID = NoNode
	return copied
}

func (c *cloner) expr(e Expr) Expr {
	if isNil(e) {
		return nil
	}
	return c.node(e).(Expr)
}

func (c *cloner) stmt(s Stmt) Stmt {
	if isNil(s) {
		return nil
	}
	return c.node(s).(Stmt)
}

func (c *cloner) exprs(list []Expr) []Expr {
	if list == nil {
		return nil
	}
	out := make([]Expr, len(list))
	for i, e := range list {
		out[i] = c.expr(e)
	}
	return out
}

func (c *cloner) params(list []*Parameter) []*Parameter {
	if list == nil {
		return nil
	}
	out := make([]*Parameter, len(list))
	for i, p := range list {
		out[i] = c.node(p).(*Parameter)
	}
	return out
}

func (c *cloner) scope(s *CodeScope) *CodeScope {
	if s == nil {
		return nil
	}
	return c.node(s).(*CodeScope)
}

func (c *cloner) node(n Node) Node {
	if isNil(n) {
		return nil
	}
	if done, ok := c.copies[n]; ok {
		return done
	}

	switch v := n.(type) {
	case *IntegerLiteral:
		cp := *v
		return c.record(n, &cp)
	case *FloatLiteral:
		cp := *v
		return c.record(n, &cp)
	case *StringLiteral:
		cp := *v
		return c.record(n, &cp)
	case *VariableRef:
		cp := *v
		return c.record(n, &cp)
	case *VectorLiteral:
		cp := *v
		cp.X, cp.Y, cp.Z = c.expr(v.X), c.expr(v.Y), c.expr(v.Z)
		return c.record(n, &cp)
	case *RotationLiteral:
		cp := *v
		cp.X, cp.Y, cp.Z, cp.S = c.expr(v.X), c.expr(v.Y), c.expr(v.Z), c.expr(v.S)
		return c.record(n, &cp)
	case *ListLiteral:
		cp := *v
		cp.Elements = c.exprs(v.Elements)
		return c.record(n, &cp)
	case *ComponentAccess:
		cp := *v
		cp.Operand = c.expr(v.Operand)
		return c.record(n, &cp)
	case *BinaryExpr:
		cp := *v
		cp.Left, cp.Right = c.expr(v.Left), c.expr(v.Right)
		return c.record(n, &cp)
	case *PrefixExpr:
		cp := *v
		cp.Operand = c.expr(v.Operand)
		return c.record(n, &cp)
	case *PostfixExpr:
		cp := *v
		cp.Operand = c.expr(v.Operand)
		return c.record(n, &cp)
	case *CastExpr:
		cp := *v
		cp.Operand = c.expr(v.Operand)
		return c.record(n, &cp)
	case *CallExpr:
		cp := *v
		cp.Args = c.exprs(v.Args)
		return c.record(n, &cp)
	case *ParenExpr:
		cp := *v
		cp.Inner = c.expr(v.Inner)
		return c.record(n, &cp)

	case *VarDeclStmt:
		cp := *v
		cp.Init = c.expr(v.Init)
		return c.record(n, &cp)
	case *ExprStmt:
		cp := *v
		cp.X = c.expr(v.X)
		return c.record(n, &cp)
	case *ReturnStmt:
		cp := *v
		cp.Value = c.expr(v.Value)
		return c.record(n, &cp)
	case *IfStmt:
		cp := *v
		cp.Cond, cp.Then, cp.Else = c.expr(v.Cond), c.stmt(v.Then), c.stmt(v.Else)
		return c.record(n, &cp)
	case *WhileStmt:
		cp := *v
		cp.Cond, cp.Body = c.expr(v.Cond), c.stmt(v.Body)
		return c.record(n, &cp)
	case *DoWhileStmt:
		cp := *v
		cp.Body, cp.Cond = c.stmt(v.Body), c.expr(v.Cond)
		return c.record(n, &cp)
	case *ForStmt:
		cp := *v
		cp.Init, cp.Cond, cp.Post, cp.Body = c.exprs(v.Init), c.expr(v.Cond), c.exprs(v.Post), c.stmt(v.Body)
		return c.record(n, &cp)
	case *JumpStmt:
		cp := *v
		return c.record(n, &cp)
	case *LabelStmt:
		cp := *v
		return c.record(n, &cp)
	case *StateChangeStmt:
		cp := *v
		return c.record(n, &cp)
	case *EmptyStmt:
		cp := *v
		return c.record(n, &cp)
	case *CodeScope:
		cp := *v
		cp.Statements = make([]Stmt, len(v.Statements))
		for i, s := range v.Statements {
			cp.Statements[i] = c.stmt(s)
		}
		return c.record(n, &cp)

	case *Parameter:
		cp := *v
		return c.record(n, &cp)
	case *GlobalVariable:
		cp := *v
		cp.Init = c.expr(v.Init)
		return c.record(n, &cp)
	case *FunctionDecl:
		cp := *v
		cp.Params = c.params(v.Params)
		cp.Body = c.scope(v.Body)
		return c.record(n, &cp)
	case *EventHandler:
		cp := *v
		cp.Params = c.params(v.Params)
		cp.Body = c.scope(v.Body)
		return c.record(n, &cp)
	case *StateDecl:
		cp := *v
		cp.Handlers = make([]*EventHandler, len(v.Handlers))
		for i, h := range v.Handlers {
			cp.Handlers[i] = c.node(h).(*EventHandler)
		}
		return c.record(n, &cp)
	case *CompilationUnit:
		cp := *v
		cp.Decls = make([]Node, len(v.Decls))
		for i, d := range v.Decls {
			cp.Decls[i] = c.node(d)
		}
		cp.Globals = make([]*GlobalVariable, len(v.Globals))
		for i, g := range v.Globals {
			cp.Globals[i] = c.node(g).(*GlobalVariable)
		}
		cp.Functions = make([]*FunctionDecl, len(v.Functions))
		for i, fn := range v.Functions {
			cp.Functions[i] = c.node(fn).(*FunctionDecl)
		}
		if v.Default != nil {
			cp.Default = c.node(v.Default).(*StateDecl)
		}
		cp.States = make([]*StateDecl, len(v.States))
		for i, s := range v.States {
			cp.States[i] = c.node(s).(*StateDecl)
		}
		return c.record(n, &cp)
	}
	return nil
}
