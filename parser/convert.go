package parser

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/lslkit/lslkit-go/schema/types"
	"github.com/lslkit/lslkit-go/syntax"
)

// precedence of binary operators; higher binds tighter. && and || share a level.
var precedence = map[string]int{
	"||": 1, "&&": 1,
	"|":  2,
	"^":  3,
	"&":  4,
	"==": 5, "!=": 5,
	"<": 6, "<=": 6, ">": 6, ">=": 6,
	"<<": 7, ">>": 7,
	"+": 8, "-": 8,
	"*": 9, "/": 9, "%": 9,
}

type converter struct {
	filename string
}

func position(p lexer.Position) syntax.Position {
	return syntax.Position{Filename: p.Filename, Offset: p.Offset, Line: p.Line, Column: p.Column}
}

func span(start, end lexer.Position) syntax.Span {
	return syntax.Span{Src: syntax.Range{Start: position(start), End: position(end)}}
}

func identRange(id *ident) syntax.Range {
	return syntax.Range{Start: position(id.Pos), End: position(id.EndPos)}
}

func typeRange(t *typeName) syntax.Range {
	return syntax.Range{Start: position(t.Pos), End: position(t.EndPos)}
}

func parseType(t *typeName) (types.ValueType, error) {
	if t == nil {
		return types.Void, nil
	}
	typ, err := types.ParseValueType(t.Name)
	if err != nil {
		return types.Void, participle.Errorf(t.Pos, "%s", err)
	}
	return typ, nil
}

func (c *converter) file(f *scriptFile) (*syntax.File, error) {
	out := &syntax.File{Span: span(f.Pos, f.EndPos), Filename: c.filename}

	for _, decl := range f.Decls {
		switch {
		case decl.Function != nil:
			fn, err := c.function(decl.Function)
			if err != nil {
				return nil, err
			}
			out.Decls = append(out.Decls, fn)
		case decl.Global != nil:
			global, err := c.global(decl.Global)
			if err != nil {
				return nil, err
			}
			out.Decls = append(out.Decls, global)
		}
	}

	for _, st := range f.States {
		state, err := c.state(st)
		if err != nil {
			return nil, err
		}
		if state.IsDefault {
			if out.Default != nil {
				return nil, participle.Errorf(st.Pos, "default state declared twice")
			}
			if len(out.States) > 0 {
				return nil, participle.Errorf(st.Pos, "default state must precede named states")
			}
			out.Default = state
			continue
		}
		out.States = append(out.States, state)
	}
	return out, nil
}

func (c *converter) global(g *globalDecl) (*syntax.GlobalVar, error) {
	typ, err := parseType(g.Type)
	if err != nil {
		return nil, err
	}
	out := &syntax.GlobalVar{
		Span:      span(g.Pos, g.EndPos),
		Type:      typ,
		TypeRange: typeRange(g.Type),
		Name:      g.Name.Name,
		NameRange: identRange(g.Name),
	}
	if g.Init != nil {
		if out.Init, err = c.expression(g.Init); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (c *converter) params(list []*paramDecl) ([]*syntax.Param, error) {
	out := make([]*syntax.Param, 0, len(list))
	for _, p := range list {
		typ, err := parseType(p.Type)
		if err != nil {
			return nil, err
		}
		out = append(out, &syntax.Param{
			Span:      span(p.Pos, p.EndPos),
			Type:      typ,
			TypeRange: typeRange(p.Type),
			Name:      p.Name.Name,
			NameRange: identRange(p.Name),
		})
	}
	return out, nil
}

func (c *converter) function(f *functionDecl) (*syntax.Function, error) {
	ret, err := parseType(f.ReturnType)
	if err != nil {
		return nil, err
	}
	params, err := c.params(f.Params)
	if err != nil {
		return nil, err
	}
	body, err := c.block(f.Body)
	if err != nil {
		return nil, err
	}
	return &syntax.Function{
		Span:       span(f.Pos, f.EndPos),
		ReturnType: ret,
		Name:       f.Name.Name,
		NameRange:  identRange(f.Name),
		Params:     params,
		Body:       body,
	}, nil
}

func (c *converter) state(s *stateBlock) (*syntax.State, error) {
	out := &syntax.State{Span: span(s.Pos, s.EndPos), IsDefault: s.Default}
	if s.Default {
		out.Name = "default"
		out.NameRange = out.Src
	} else {
		out.Name = s.Name.Name
		out.NameRange = identRange(s.Name)
	}
	for _, h := range s.Handlers {
		params, err := c.params(h.Params)
		if err != nil {
			return nil, err
		}
		body, err := c.block(h.Body)
		if err != nil {
			return nil, err
		}
		out.Handlers = append(out.Handlers, &syntax.EventHandler{
			Span:      span(h.Pos, h.EndPos),
			Name:      h.Name.Name,
			NameRange: identRange(h.Name),
			Params:    params,
			Body:      body,
		})
	}
	return out, nil
}

func (c *converter) block(b *block) (*syntax.Block, error) {
	out := &syntax.Block{Span: span(b.Pos, b.EndPos)}
	for _, st := range b.Stmts {
		stmt, err := c.statement(st)
		if err != nil {
			return nil, err
		}
		out.Stmts = append(out.Stmts, stmt)
	}
	return out, nil
}

func (c *converter) expressions(list []*expression) ([]syntax.Expr, error) {
	out := make([]syntax.Expr, 0, len(list))
	for _, e := range list {
		expr, err := c.expression(e)
		if err != nil {
			return nil, err
		}
		out = append(out, expr)
	}
	return out, nil
}

func (c *converter) optional(e *expression) (syntax.Expr, error) {
	if e == nil {
		return nil, nil
	}
	return c.expression(e)
}

func (c *converter) statement(s *statement) (syntax.Stmt, error) {
	sp := span(s.Pos, s.EndPos)
	switch {
	case s.Empty:
		return &syntax.Empty{Span: sp}, nil

	case s.Block != nil:
		return c.block(s.Block)

	case s.If != nil:
		cond, err := c.expression(s.If.Cond)
		if err != nil {
			return nil, err
		}
		then, err := c.statement(s.If.Then)
		if err != nil {
			return nil, err
		}
		out := &syntax.If{Span: sp, Cond: cond, Then: then}
		if s.If.Else != nil {
			if out.Else, err = c.statement(s.If.Else); err != nil {
				return nil, err
			}
		}
		return out, nil

	case s.While != nil:
		cond, err := c.expression(s.While.Cond)
		if err != nil {
			return nil, err
		}
		body, err := c.statement(s.While.Body)
		if err != nil {
			return nil, err
		}
		return &syntax.While{Span: sp, Cond: cond, Body: body}, nil

	case s.Do != nil:
		body, err := c.statement(s.Do.Body)
		if err != nil {
			return nil, err
		}
		cond, err := c.expression(s.Do.Cond)
		if err != nil {
			return nil, err
		}
		return &syntax.DoWhile{Span: sp, Body: body, Cond: cond}, nil

	case s.For != nil:
		init, err := c.expressions(s.For.Init)
		if err != nil {
			return nil, err
		}
		cond, err := c.optional(s.For.Cond)
		if err != nil {
			return nil, err
		}
		post, err := c.expressions(s.For.Post)
		if err != nil {
			return nil, err
		}
		body, err := c.statement(s.For.Body)
		if err != nil {
			return nil, err
		}
		return &syntax.For{Span: sp, Init: init, Cond: cond, Post: post, Body: body}, nil

	case s.Jump != nil:
		return &syntax.Jump{Span: sp, Label: s.Jump.Label.Name, LabelRange: identRange(s.Jump.Label)}, nil

	case s.Label != nil:
		return &syntax.Label{Span: sp, Name: s.Label.Name.Name, NameRange: identRange(s.Label.Name)}, nil

	case s.State != nil:
		if s.State.Default {
			return &syntax.StateChange{Span: sp, State: "default", StateRange: sp.Src}, nil
		}
		return &syntax.StateChange{Span: sp, State: s.State.Name.Name, StateRange: identRange(s.State.Name)}, nil

	case s.Return != nil:
		value, err := c.optional(s.Return.Value)
		if err != nil {
			return nil, err
		}
		return &syntax.Return{Span: sp, Value: value}, nil

	case s.Decl != nil:
		typ, err := parseType(s.Decl.Type)
		if err != nil {
			return nil, err
		}
		init, err := c.optional(s.Decl.Init)
		if err != nil {
			return nil, err
		}
		return &syntax.VarDecl{
			Span:      sp,
			Type:      typ,
			TypeRange: typeRange(s.Decl.Type),
			Name:      s.Decl.Name.Name,
			NameRange: identRange(s.Decl.Name),
			Init:      init,
		}, nil

	case s.Expr != nil:
		x, err := c.expression(s.Expr)
		if err != nil {
			return nil, err
		}
		return &syntax.ExprStmt{Span: sp, X: x}, nil
	}
	return nil, participle.Errorf(s.Pos, "empty statement node")
}

func (c *converter) expression(e *expression) (syntax.Expr, error) {
	left, err := c.chain(e.Left.Head, chainTails(e.Left.Tail))
	if err != nil {
		return nil, err
	}
	if e.Op == nil {
		return left, nil
	}
	op, err := types.ParseBinaryOperator(e.Op.Op)
	if err != nil {
		return nil, participle.Errorf(e.Op.Pos, "%s", err)
	}
	right, err := c.expression(e.Right)
	if err != nil {
		return nil, err
	}
	return &syntax.Binary{
		Span:    span(e.Pos, e.EndPos),
		Left:    left,
		Op:      op,
		OpRange: syntax.Range{Start: position(e.Op.Pos), End: position(e.Op.Pos)},
		Right:   right,
	}, nil
}

type tail struct {
	pos   lexer.Position
	op    string
	right *unary
}

func chainTails(list []*binaryTail) []tail {
	out := make([]tail, len(list))
	for i, t := range list {
		out[i] = tail{pos: t.Pos, op: t.Op, right: t.Right}
	}
	return out
}

func componentTails(list []*componentTail) []tail {
	out := make([]tail, len(list))
	for i, t := range list {
		out[i] = tail{pos: t.Pos, op: t.Op, right: t.Right}
	}
	return out
}

// chain folds a flat operator chain into a tree by precedence climbing.
func (c *converter) chain(head *unary, tails []tail) (syntax.Expr, error) {
	first, err := c.unary(head)
	if err != nil {
		return nil, err
	}
	operands := []syntax.Expr{first}
	for _, t := range tails {
		operand, err := c.unary(t.right)
		if err != nil {
			return nil, err
		}
		operands = append(operands, operand)
	}

	next := 0
	var climb func(lhs syntax.Expr, minPrec int) (syntax.Expr, error)
	climb = func(lhs syntax.Expr, minPrec int) (syntax.Expr, error) {
		for next < len(tails) && precedence[tails[next].op] >= minPrec {
			t := tails[next]
			prec := precedence[t.op]
			next++
			rhs := operands[next]
			for next < len(tails) && precedence[tails[next].op] > prec {
				var err error
				if rhs, err = climb(rhs, prec+1); err != nil {
					return nil, err
				}
			}
			op, err := types.ParseBinaryOperator(t.op)
			if err != nil {
				return nil, participle.Errorf(t.pos, "%s", err)
			}
			lhs = &syntax.Binary{
				Span:    syntax.Span{Src: lhs.Range().Join(rhs.Range())},
				Left:    lhs,
				Op:      op,
				OpRange: syntax.Range{Start: position(t.pos), End: position(t.pos)},
				Right:   rhs,
			}
		}
		return lhs, nil
	}
	return climb(operands[0], 0)
}

func (c *converter) unary(u *unary) (syntax.Expr, error) {
	sp := span(u.Pos, u.EndPos)
	switch {
	case u.Prefix != nil:
		operand, err := c.unary(u.Prefix.Operand)
		if err != nil {
			return nil, err
		}
		op, err := types.ParsePrefixOperator(u.Prefix.Op)
		if err != nil {
			return nil, participle.Errorf(u.Pos, "%s", err)
		}
		return &syntax.Prefix{
			Span:    sp,
			Op:      op,
			OpRange: syntax.Range{Start: position(u.Pos), End: position(u.Pos)},
			Operand: operand,
		}, nil

	case u.Cast != nil:
		typ, err := parseType(u.Cast.Type)
		if err != nil {
			return nil, err
		}
		operand, err := c.unary(u.Cast.Operand)
		if err != nil {
			return nil, err
		}
		return &syntax.Cast{Span: sp, Type: typ, TypeRange: typeRange(u.Cast.Type), Operand: operand}, nil

	case u.Postfix != nil:
		return c.postfix(u.Postfix)
	}
	return nil, participle.Errorf(u.Pos, "empty expression node")
}

func (c *converter) postfix(p *postfixExp) (syntax.Expr, error) {
	expr, err := c.primary(p.Primary)
	if err != nil {
		return nil, err
	}
	if p.Member != nil {
		expr = &syntax.Member{
			Span:        syntax.Span{Src: expr.Range().Join(identRange(p.Member.Name))},
			Operand:     expr,
			Member:      p.Member.Name.Name,
			MemberRange: identRange(p.Member.Name),
		}
	}
	if p.Op != nil {
		op, err := types.ParsePostfixOperator(p.Op.Op)
		if err != nil {
			return nil, participle.Errorf(p.Op.Pos, "%s", err)
		}
		expr = &syntax.Postfix{
			Span:    span(p.Pos, p.EndPos),
			Operand: expr,
			Op:      op,
			OpRange: syntax.Range{Start: position(p.Op.Pos), End: position(p.Op.Pos)},
		}
	}
	return expr, nil
}

func (c *converter) primary(p *primary) (syntax.Expr, error) {
	sp := span(p.Pos, p.EndPos)
	switch {
	case p.Float != nil:
		return &syntax.Literal{Span: sp, Kind: syntax.FloatLiteral, Text: *p.Float}, nil
	case p.Hex != nil:
		return &syntax.Literal{Span: sp, Kind: syntax.IntegerLiteral, Text: *p.Hex}, nil
	case p.Int != nil:
		return &syntax.Literal{Span: sp, Kind: syntax.IntegerLiteral, Text: *p.Int}, nil
	case p.String != nil:
		return &syntax.Literal{Span: sp, Kind: syntax.StringLiteral, Text: *p.String}, nil

	case p.Call != nil:
		args, err := c.expressions(p.Call.Args)
		if err != nil {
			return nil, err
		}
		return &syntax.Call{Span: sp, Name: p.Call.Name.Name, NameRange: identRange(p.Call.Name), Args: args}, nil

	case p.Ident != nil:
		return &syntax.Ident{Span: sp, Name: p.Ident.Name}, nil

	case p.Paren != nil:
		inner, err := c.expression(p.Paren)
		if err != nil {
			return nil, err
		}
		return &syntax.Paren{Span: sp, Inner: inner}, nil

	case p.Vector != nil:
		components := make([]syntax.Expr, 0, len(p.Vector))
		for _, comp := range p.Vector {
			expr, err := c.chain(comp.Head, componentTails(comp.Tail))
			if err != nil {
				return nil, err
			}
			components = append(components, expr)
		}
		switch len(components) {
		case 3:
			return &syntax.VectorLit{Span: sp, X: components[0], Y: components[1], Z: components[2]}, nil
		case 4:
			return &syntax.RotationLit{Span: sp, X: components[0], Y: components[1], Z: components[2], S: components[3]}, nil
		default:
			return nil, participle.Errorf(p.Pos, "vector literals have 3 components and rotation literals 4, got %d", len(components))
		}

	case p.List != nil:
		elements, err := c.expressions(p.List.Elements)
		if err != nil {
			return nil, err
		}
		return &syntax.ListLit{Span: sp, Elements: elements}, nil
	}
	return nil, participle.Errorf(p.Pos, "empty expression node")
}
