package syntax

import "github.com/lslkit/lslkit-go/schema/types"

// Node is implemented by every raw tree node
type Node interface {
	Range() Range
}

// Expr is a raw expression
type Expr interface {
	Node
	exprNode()
}

// Stmt is a raw statement
type Stmt interface {
	Node
	stmtNode()
}

// Decl is a top-level declaration: *GlobalVar or *Function
type Decl interface {
	Node
	declNode()
}

// LiteralKind tags the lexical class of a literal
type LiteralKind int

const (
	IntegerLiteral LiteralKind = iota
	FloatLiteral
	StringLiteral
)

func (k LiteralKind) String() string {
	switch k {
	case IntegerLiteral:
		return "integer"
	case FloatLiteral:
		return "float"
	case StringLiteral:
		return "string"
	default:
		return "unknown"
	}
}

// Literal is an integer, float or string literal. Text is the exact source token,
// quotes included for strings.
type Literal struct {
	Span
	Kind LiteralKind
	Text string
}

// Ident is a bare identifier reference
type Ident struct {
	Span
	Name string
}

// VectorLit is <x, y, z>
type VectorLit struct {
	Span
	X, Y, Z Expr
}

// RotationLit is <x, y, z, s>
type RotationLit struct {
	Span
	X, Y, Z, S Expr
}

// ListLit is [a, b, ...]
type ListLit struct {
	Span
	Elements []Expr
}

// Binary is left op right, assignments included
type Binary struct {
	Span
	Left    Expr
	Op      types.Operator
	OpRange Range
	Right   Expr
}

// Prefix is op operand
type Prefix struct {
	Span
	Op      types.Operator
	OpRange Range
	Operand Expr
}

// Postfix is operand op
type Postfix struct {
	Span
	Operand Expr
	Op      types.Operator
	OpRange Range
}

// Cast is (type) operand
type Cast struct {
	Span
	Type      types.ValueType
	TypeRange Range
	Operand   Expr
}

// Call is name(args...)
type Call struct {
	Span
	Name      string
	NameRange Range
	Args      []Expr
}

// Paren is (inner)
type Paren struct {
	Span
	Inner Expr
}

// Member is operand.member, used for vector and rotation component access
type Member struct {
	Span
	Operand     Expr
	Member      string
	MemberRange Range
}

func (*Literal) exprNode()     {}
func (*Ident) exprNode()       {}
func (*VectorLit) exprNode()   {}
func (*RotationLit) exprNode() {}
func (*ListLit) exprNode()     {}
func (*Binary) exprNode()      {}
func (*Prefix) exprNode()      {}
func (*Postfix) exprNode()     {}
func (*Cast) exprNode()        {}
func (*Call) exprNode()        {}
func (*Paren) exprNode()       {}
func (*Member) exprNode()      {}

// VarDecl declares a local variable, optionally initialized
type VarDecl struct {
	Span
	Type      types.ValueType
	TypeRange Range
	Name      string
	NameRange Range
	Init      Expr
}

// ExprStmt is an expression evaluated for its effect
type ExprStmt struct {
	Span
	X Expr
}

// Return is return [value]
type Return struct {
	Span
	Value Expr
}

// If is if (cond) then [else else]
type If struct {
	Span
	Cond Expr
	Then Stmt
	Else Stmt
}

// While is while (cond) body
type While struct {
	Span
	Cond Expr
	Body Stmt
}

// DoWhile is do body while (cond);
type DoWhile struct {
	Span
	Body Stmt
	Cond Expr
}

// For is for (init; cond; post) body. Every clause may be empty.
type For struct {
	Span
	Init []Expr
	Cond Expr
	Post []Expr
	Body Stmt
}

// Jump is jump label;
type Jump struct {
	Span
	Label      string
	LabelRange Range
}

// Label is @name;
type Label struct {
	Span
	Name      string
	NameRange Range
}

// StateChange is state name; where name may be "default"
type StateChange struct {
	Span
	State      string
	StateRange Range
}

// Block is { statements }
type Block struct {
	Span
	Stmts []Stmt
}

// Empty is the lone semicolon
type Empty struct {
	Span
}

func (*VarDecl) stmtNode()     {}
func (*ExprStmt) stmtNode()    {}
func (*Return) stmtNode()      {}
func (*If) stmtNode()          {}
func (*While) stmtNode()       {}
func (*DoWhile) stmtNode()     {}
func (*For) stmtNode()         {}
func (*Jump) stmtNode()        {}
func (*Label) stmtNode()       {}
func (*StateChange) stmtNode() {}
func (*Block) stmtNode()       {}
func (*Empty) stmtNode()       {}

// Param is one parameter of a function or event handler
type Param struct {
	Span
	Type      types.ValueType
	TypeRange Range
	Name      string
	NameRange Range
}

// GlobalVar is a global variable declaration
type GlobalVar struct {
	Span
	Type      types.ValueType
	TypeRange Range
	Name      string
	NameRange Range
	Init      Expr
}

// Function is a user-defined global function. ReturnType is Void when omitted.
type Function struct {
	Span
	ReturnType types.ValueType
	Name       string
	NameRange  Range
	Params     []*Param
	Body       *Block
}

func (*GlobalVar) declNode() {}
func (*Function) declNode()  {}

// EventHandler is an event handler inside a state
type EventHandler struct {
	Span
	Name      string
	NameRange Range
	Params    []*Param
	Body      *Block
}

// State is the default state or a named state
type State struct {
	Span
	Name      string
	NameRange Range
	IsDefault bool
	Handlers  []*EventHandler
}

// File is one compilation unit. Decls keeps globals and functions in source order.
// Default is nil when the source has no default state.
type File struct {
	Span
	Filename string
	Decls    []Decl
	Default  *State
	States   []*State
}
