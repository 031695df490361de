package ast

import (
	"github.com/lslkit/lslkit-go/schema/library"
	"github.com/lslkit/lslkit-go/schema/types"
	"github.com/lslkit/lslkit-go/syntax"
)

// IntegerLiteral is a decimal or hexadecimal integer constant
type IntegerLiteral struct {
	ExprBase
	Text  string
	Value int64

	// Overflow is set when Text does not fit in a 32 bit integer
	Overflow bool
}

// FloatLiteral is a floating point constant
type FloatLiteral struct {
	ExprBase
	Text  string
	Value float64
}

// StringLiteral is a quoted string constant. Value has escapes resolved.
type StringLiteral struct {
	ExprBase
	Text  string
	Value string
}

// VectorLiteral is <x, y, z>
type VectorLiteral struct {
	ExprBase
	X, Y, Z Expr
}

// RotationLiteral is <x, y, z, s>
type RotationLiteral struct {
	ExprBase
	X, Y, Z, S Expr
}

// ListLiteral is [elements]
type ListLiteral struct {
	ExprBase
	Elements []Expr
}

// VariableRef is a reference to a local, parameter, global or library constant.
// Declaration is the declaring node for user variables; LibraryConstant is set for
// library constants. Unresolved references have neither.
type VariableRef struct {
	ExprBase
	Name            string
	VarKind         ExpressionKind
	Declaration     NodeID
	LibraryConstant *library.ConstantSignature
}

// ComponentAccess is operand.x, .y, .z or .s
type ComponentAccess struct {
	ExprBase
	Operand        Expr
	Component      string
	ComponentRange syntax.Range
}

// BinaryExpr is left op right, assignments included
type BinaryExpr struct {
	ExprBase
	Left    Expr
	Op      types.Operator
	OpRange syntax.Range
	Right   Expr
}

// PrefixExpr is op operand
type PrefixExpr struct {
	ExprBase
	Op      types.Operator
	OpRange syntax.Range
	Operand Expr
}

// PostfixExpr is operand op
type PostfixExpr struct {
	ExprBase
	Operand Expr
	Op      types.Operator
	OpRange syntax.Range
}

// CastExpr is (target) operand
type CastExpr struct {
	ExprBase
	Target  types.ValueType
	Operand Expr
}

// CallExpr is a call to a user function or a library function.
// Function is the declaring FunctionDecl for user calls; Library is the chosen
// overload for library calls.
type CallExpr struct {
	ExprBase
	Name      string
	NameRange syntax.Range
	Args      []Expr
	Function  NodeID
	Library   *library.FunctionSignature
}

// ParenExpr is (inner)
type ParenExpr struct {
	ExprBase
	Inner Expr
}

func (*IntegerLiteral) Kind() ExpressionKind  { return KindLiteral }
func (*FloatLiteral) Kind() ExpressionKind    { return KindLiteral }
func (*StringLiteral) Kind() ExpressionKind   { return KindLiteral }
func (*VectorLiteral) Kind() ExpressionKind   { return KindVectorLiteral }
func (*RotationLiteral) Kind() ExpressionKind { return KindRotationLiteral }
func (*ListLiteral) Kind() ExpressionKind     { return KindListLiteral }
func (v *VariableRef) Kind() ExpressionKind   { return v.VarKind }
func (*ComponentAccess) Kind() ExpressionKind { return KindComponentAccess }
func (*BinaryExpr) Kind() ExpressionKind      { return KindBinary }
func (*PrefixExpr) Kind() ExpressionKind      { return KindPrefix }
func (*PostfixExpr) Kind() ExpressionKind     { return KindPostfix }
func (*CastExpr) Kind() ExpressionKind        { return KindCast }
func (*ParenExpr) Kind() ExpressionKind       { return KindParenthesized }

func (c *CallExpr) Kind() ExpressionKind {
	if c.Library != nil {
		return KindLibraryFunctionCall
	}
	return KindUserFunctionCall
}

func (*IntegerLiteral) exprNode()  {}
func (*FloatLiteral) exprNode()    {}
func (*StringLiteral) exprNode()   {}
func (*VectorLiteral) exprNode()   {}
func (*RotationLiteral) exprNode() {}
func (*ListLiteral) exprNode()     {}
func (*VariableRef) exprNode()     {}
func (*ComponentAccess) exprNode() {}
func (*BinaryExpr) exprNode()      {}
func (*PrefixExpr) exprNode()      {}
func (*PostfixExpr) exprNode()     {}
func (*CastExpr) exprNode()        {}
func (*CallExpr) exprNode()        {}
func (*ParenExpr) exprNode()       {}

// Unwrap strips any number of enclosing parentheses
func Unwrap(e Expr) Expr {
	for {
		paren, ok := e.(*ParenExpr)
		if !ok || paren.Inner == nil {
			return e
		}
		e = paren.Inner
	}
}
