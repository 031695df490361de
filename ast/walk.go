package ast

// Children returns the direct children of n in source order
func Children(n Node) []Node {
	var out []Node
	add := func(nodes ...Node) {
		for _, child := range nodes {
			if !isNil(child) {
				out = append(out, child)
			}
		}
	}
	addExprs := func(list []Expr) {
		for _, e := range list {
			add(e)
		}
	}

	switch v := n.(type) {
	case *IntegerLiteral, *FloatLiteral, *StringLiteral, *VariableRef:
	case *VectorLiteral:
		add(v.X, v.Y, v.Z)
	case *RotationLiteral:
		add(v.X, v.Y, v.Z, v.S)
	case *ListLiteral:
		addExprs(v.Elements)
	case *ComponentAccess:
		add(v.Operand)
	case *BinaryExpr:
		add(v.Left, v.Right)
	case *PrefixExpr:
		add(v.Operand)
	case *PostfixExpr:
		add(v.Operand)
	case *CastExpr:
		add(v.Operand)
	case *CallExpr:
		addExprs(v.Args)
	case *ParenExpr:
		add(v.Inner)

	case *VarDeclStmt:
		add(v.Init)
	case *ExprStmt:
		add(v.X)
	case *ReturnStmt:
		add(v.Value)
	case *IfStmt:
		add(v.Cond, v.Then, v.Else)
	case *WhileStmt:
		add(v.Cond, v.Body)
	case *DoWhileStmt:
		add(v.Body, v.Cond)
	case *ForStmt:
		addExprs(v.Init)
		add(v.Cond)
		addExprs(v.Post)
		add(v.Body)
	case *JumpStmt, *LabelStmt, *StateChangeStmt, *EmptyStmt:
	case *CodeScope:
		for _, s := range v.Statements {
			add(s)
		}

	case *Parameter:
	case *GlobalVariable:
		add(v.Init)
	case *FunctionDecl:
		for _, p := range v.Params {
			add(p)
		}
		add(v.Body)
	case *EventHandler:
		for _, p := range v.Params {
			add(p)
		}
		add(v.Body)
	case *StateDecl:
		for _, h := range v.Handlers {
			add(h)
		}
	case *CompilationUnit:
		add(v.Decls...)
		add(v.Default)
		for _, s := range v.States {
			add(s)
		}
	}
	return out
}

// Inspect traverses the tree rooted at n depth first. If f returns false the
// children of that node are skipped.
func Inspect(n Node, f func(Node) bool) {
	if isNil(n) || !f(n) {
		return
	}
	for _, child := range Children(n) {
		Inspect(child, f)
	}
}

// Walk calls f for every node of the tree rooted at n
func Walk(n Node, f func(Node)) {
	Inspect(n, func(node Node) bool {
		f(node)
		return true
	})
}

// Find returns the first node of type T in the tree rooted at n, depth first
func Find[T Node](n Node) (T, bool) {
	var found T
	ok := false
	Inspect(n, func(node Node) bool {
		if ok {
			return false
		}
		if match, is := node.(T); is {
			found, ok = match, true
			return false
		}
		return true
	})
	return found, ok
}

// Collect returns every node of type T in the tree rooted at n, depth first
func Collect[T Node](n Node) []T {
	var out []T
	Walk(n, func(node Node) {
		if match, is := node.(T); is {
			out = append(out, match)
		}
	})
	return out
}
