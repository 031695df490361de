package ast

import (
	"github.com/lslkit/lslkit-go/schema/types"
	"github.com/lslkit/lslkit-go/syntax"
)

// VarDeclStmt declares a local variable
type VarDeclStmt struct {
	StmtBase
	Name       string
	NameRange  syntax.Range
	DeclType   types.ValueType
	Init       Expr
	References int
}

// ExprStmt evaluates an expression for its effect
type ExprStmt struct {
	StmtBase
	X Expr
}

// ReturnStmt is return [value]
type ReturnStmt struct {
	StmtBase
	Value Expr
}

// IfStmt is if (cond) then [else else]
type IfStmt struct {
	StmtBase
	Cond Expr
	Then Stmt
	Else Stmt
}

// WhileStmt is while (cond) body
type WhileStmt struct {
	StmtBase
	Cond Expr
	Body Stmt
}

// DoWhileStmt is do body while (cond)
type DoWhileStmt struct {
	StmtBase
	Body Stmt
	Cond Expr
}

// ForStmt is for (init; cond; post) body
type ForStmt struct {
	StmtBase
	Init []Expr
	Cond Expr
	Post []Expr
	Body Stmt
}

// JumpStmt is jump label; Target is the LabelStmt it jumps to.
type JumpStmt struct {
	StmtBase
	Label      string
	LabelRange syntax.Range
	Target     NodeID
}

// LabelStmt is @name;
type LabelStmt struct {
	StmtBase
	Name       string
	NameRange  syntax.Range
	References int
}

// StateChangeStmt is state name; Target is the StateDecl.
type StateChangeStmt struct {
	StmtBase
	State      string
	StateRange syntax.Range
	Target     NodeID
}

// CodeScopeKind records what introduced a code scope
type CodeScopeKind int

const (
	ScopeBlock CodeScopeKind = iota
	ScopeFunctionBody
	ScopeEventHandlerBody
	ScopeBranch
	ScopeLoopBody
)

// CodeScope is a braced block or the implicit scope of a branch or loop body.
// Its ScopeID identifies the lexical scope its statements belong to.
type CodeScope struct {
	StmtBase
	ScopeKind  CodeScopeKind
	Statements []Stmt
}

// EmptyStmt is the lone semicolon
type EmptyStmt struct {
	StmtBase
}

func (*VarDeclStmt) stmtNode()     {}
func (*ExprStmt) stmtNode()        {}
func (*ReturnStmt) stmtNode()      {}
func (*IfStmt) stmtNode()          {}
func (*WhileStmt) stmtNode()       {}
func (*DoWhileStmt) stmtNode()     {}
func (*ForStmt) stmtNode()         {}
func (*JumpStmt) stmtNode()        {}
func (*LabelStmt) stmtNode()       {}
func (*StateChangeStmt) stmtNode() {}
func (*CodeScope) stmtNode()       {}
func (*EmptyStmt) stmtNode()       {}
