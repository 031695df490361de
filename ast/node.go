// Package ast defines the validated syntax tree: typed expressions and statements
// annotated with errors, constant-ness, scopes, dead code and return paths.
//
// Nodes are owned by a Tree arena. Parent and cross links are NodeID handles resolved
// through the arena, so a tree has no pointer cycles and Clone is a plain deep copy.
package ast

import (
	"github.com/lslkit/lslkit-go/schema/types"
	"github.com/lslkit/lslkit-go/syntax"
)

// NodeID is a handle into a Tree. The zero value refers to no node.
type NodeID int32

// NoNode is the zero handle
const NoNode NodeID = 0

// Node is implemented by every validated node. The set of node types is closed.
type Node interface {
	ID() NodeID
	Parent() NodeID
	Range() syntax.Range
	base() *Base
}

// Expr is a typed expression node
type Expr interface {
	Node
	Type() types.ValueType
	Kind() ExpressionKind
	HasErrors() bool
	IsConstant() bool
	Info() *ExprBase
	exprNode()
}

// Stmt is a statement node
type Stmt interface {
	Node
	ScopeID() int
	IsDeadCode() bool
	DeadCodeKind() DeadCodeKind
	ReturnPath() NodeID
	HasReturnPath() bool
	StatementIndex() int
	HasErrors() bool
	Info() *StmtBase
	stmtNode()
}

// Base holds the fields every node carries
type Base struct {
	NodeID   NodeID
	ParentID NodeID
	Src      syntax.Range
}

func (b *Base) ID() NodeID          { return b.NodeID }
func (b *Base) Parent() NodeID      { return b.ParentID }
func (b *Base) Range() syntax.Range { return b.Src }
func (b *Base) base() *Base         { return b }

// ExprBase holds the fields every expression carries
type ExprBase struct {
	Base
	ValueType types.ValueType
	Errors    bool
	Constant  bool
}

func (e *ExprBase) Type() types.ValueType { return e.ValueType }
func (e *ExprBase) HasErrors() bool       { return e.Errors }
func (e *ExprBase) IsConstant() bool      { return e.Constant }

// Info exposes the mutable annotations of an expression to the builder
func (e *ExprBase) Info() *ExprBase { return e }

// StmtBase holds the fields every statement carries
type StmtBase struct {
	Base
	Scope        int
	Dead         bool
	DeadKind     DeadCodeKind
	ReturnPathID NodeID
	Index        int
	Errors       bool
}

func (s *StmtBase) ScopeID() int               { return s.Scope }
func (s *StmtBase) IsDeadCode() bool           { return s.Dead }
func (s *StmtBase) DeadCodeKind() DeadCodeKind { return s.DeadKind }
func (s *StmtBase) ReturnPath() NodeID         { return s.ReturnPathID }
func (s *StmtBase) HasReturnPath() bool        { return s.ReturnPathID != NoNode }
func (s *StmtBase) StatementIndex() int        { return s.Index }
func (s *StmtBase) HasErrors() bool            { return s.Errors }

// Info exposes the mutable annotations of a statement to the builder
func (s *StmtBase) Info() *StmtBase { return s }

// MarkDead classifies the statement as unreachable
func (s *StmtBase) MarkDead(kind DeadCodeKind) {
	s.Dead = true
	s.DeadKind = kind
}

// ExpressionKind tags what an expression is
type ExpressionKind int

const (
	KindLiteral ExpressionKind = iota
	KindVectorLiteral
	KindRotationLiteral
	KindListLiteral
	KindGlobalVariable
	KindLocalVariable
	KindParameter
	KindLibraryConstant
	KindComponentAccess
	KindBinary
	KindPrefix
	KindPostfix
	KindCast
	KindUserFunctionCall
	KindLibraryFunctionCall
	KindParenthesized
	KindUnresolved
)

var expressionKindNames = map[ExpressionKind]string{
	KindLiteral:             "literal",
	KindVectorLiteral:       "vector literal",
	KindRotationLiteral:     "rotation literal",
	KindListLiteral:         "list literal",
	KindGlobalVariable:      "global variable",
	KindLocalVariable:       "local variable",
	KindParameter:           "parameter",
	KindLibraryConstant:     "library constant",
	KindComponentAccess:     "component access",
	KindBinary:              "binary operation",
	KindPrefix:              "prefix operation",
	KindPostfix:             "postfix operation",
	KindCast:                "cast",
	KindUserFunctionCall:    "function call",
	KindLibraryFunctionCall: "library function call",
	KindParenthesized:       "parenthesized expression",
	KindUnresolved:          "unresolved reference",
}

func (k ExpressionKind) String() string {
	if name, ok := expressionKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// IsVariable is true for kinds that name a storage location
func (k ExpressionKind) IsVariable() bool {
	return k == KindGlobalVariable || k == KindLocalVariable || k == KindParameter
}

// DeadCodeKind classifies why a statement is unreachable
type DeadCodeKind int

const (
	NotDead DeadCodeKind = iota
	AfterReturn
	AfterStateChange
	AfterJumpOutOfScope
	AfterJumpLoopForever
	JumpOverCode
)

func (k DeadCodeKind) String() string {
	switch k {
	case NotDead:
		return "not dead"
	case AfterReturn:
		return "after return"
	case AfterStateChange:
		return "after state change"
	case AfterJumpOutOfScope:
		return "after jump out of scope"
	case AfterJumpLoopForever:
		return "after jump that loops forever"
	case JumpOverCode:
		return "jumped over"
	default:
		return "unknown"
	}
}
