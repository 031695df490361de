package parser

import "github.com/alecthomas/participle/v2/lexer"

// The grammar below is a concrete syntax tree; convert.go lowers it into package syntax.
// Binary operators are parsed as a flat chain and folded by precedence during lowering.

type scriptFile struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Decls  []*topDecl    `parser:"@@*"`
	States []*stateBlock `parser:"@@*"`
}

type ident struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Name   string `parser:"@Ident"`
}

type typeName struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Name   string `parser:"@Type"`
}

type topDecl struct {
	Function *functionDecl `parser:"  @@"`
	Global   *globalDecl   `parser:"| @@"`
}

type globalDecl struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Type   *typeName   `parser:"@@"`
	Name   *ident      `parser:"@@"`
	Init   *expression `parser:"('=' @@)? ';'"`
}

type functionDecl struct {
	Pos        lexer.Position
	EndPos     lexer.Position
	ReturnType *typeName    `parser:"@@?"`
	Name       *ident       `parser:"@@"`
	Params     []*paramDecl `parser:"'(' (@@ (',' @@)*)? ')'"`
	Body       *block       `parser:"@@"`
}

type paramDecl struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Type   *typeName `parser:"@@"`
	Name   *ident    `parser:"@@"`
}

type stateBlock struct {
	Pos      lexer.Position
	EndPos   lexer.Position
	Default  bool            `parser:"(  @'default'"`
	Name     *ident          `parser:"  | 'state' @@ )"`
	Handlers []*eventHandler `parser:"'{' @@* '}'"`
}

type eventHandler struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Name   *ident       `parser:"@@"`
	Params []*paramDecl `parser:"'(' (@@ (',' @@)*)? ')'"`
	Body   *block       `parser:"@@"`
}

type block struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Open   bool         `parser:"@'{'"`
	Stmts  []*statement `parser:"@@* '}'"`
}

type statement struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Empty  bool         `parser:"  @';'"`
	Block  *block       `parser:"| @@"`
	If     *ifStmt      `parser:"| @@"`
	While  *whileStmt   `parser:"| @@"`
	Do     *doStmt      `parser:"| @@"`
	For    *forStmt     `parser:"| @@"`
	Jump   *jumpStmt    `parser:"| @@"`
	Label  *labelStmt   `parser:"| @@"`
	State  *stateStmt   `parser:"| @@"`
	Return *returnStmt  `parser:"| @@"`
	Decl   *localDecl   `parser:"| @@"`
	Expr   *expression  `parser:"| @@ ';'"`
}

type ifStmt struct {
	Cond *expression `parser:"'if' '(' @@ ')'"`
	Then *statement  `parser:"@@"`
	Else *statement  `parser:"('else' @@)?"`
}

type whileStmt struct {
	Cond *expression `parser:"'while' '(' @@ ')'"`
	Body *statement  `parser:"@@"`
}

type doStmt struct {
	Body *statement  `parser:"'do' @@"`
	Cond *expression `parser:"'while' '(' @@ ')' ';'"`
}

type forStmt struct {
	Init []*expression `parser:"'for' '(' (@@ (',' @@)*)? ';'"`
	Cond *expression   `parser:"@@? ';'"`
	Post []*expression `parser:"(@@ (',' @@)*)? ')'"`
	Body *statement    `parser:"@@"`
}

type jumpStmt struct {
	Label *ident `parser:"'jump' @@ ';'"`
}

type labelStmt struct {
	Name *ident `parser:"'@' @@ ';'"`
}

type stateStmt struct {
	Pos     lexer.Position
	EndPos  lexer.Position
	Default bool   `parser:"'state' ( @'default'"`
	Name    *ident `parser:"| @@ ) ';'"`
}

type returnStmt struct {
	Keyword bool        `parser:"@'return'"`
	Value   *expression `parser:"@@? ';'"`
}

type localDecl struct {
	Type *typeName   `parser:"@@"`
	Name *ident      `parser:"@@"`
	Init *expression `parser:"('=' @@)? ';'"`
}

// expression is an optional assignment over a binary chain. Assignment is right associative.
type expression struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Left   *binaryChain `parser:"@@"`
	Op     *assignOp    `parser:"(@@"`
	Right  *expression  `parser:"@@)?"`
}

type assignOp struct {
	Pos lexer.Position
	Op  string `parser:"@('=' | '+=' | '-=' | '*=' | '/=' | '%=')"`
}

type binaryChain struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Head   *unary        `parser:"@@"`
	Tail   []*binaryTail `parser:"@@*"`
}

type binaryTail struct {
	Pos   lexer.Position
	Op    string `parser:"@('||' | '&&' | '|' | '^' | '&' | '==' | '!=' | '<=' | '>=' | '<' | '>' | '<<' | '>>' | '+' | '-' | '*' | '/' | '%')"`
	Right *unary `parser:"@@"`
}

// componentChain is a binary chain inside a vector or rotation literal. It cannot
// contain a bare < or > since > closes the literal.
type componentChain struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Head   *unary           `parser:"@@"`
	Tail   []*componentTail `parser:"@@*"`
}

type componentTail struct {
	Pos   lexer.Position
	Op    string `parser:"@('||' | '&&' | '|' | '^' | '&' | '==' | '!=' | '<=' | '>=' | '<<' | '>>' | '+' | '-' | '*' | '/' | '%')"`
	Right *unary `parser:"@@"`
}

type unary struct {
	Pos     lexer.Position
	EndPos  lexer.Position
	Prefix  *prefixOp   `parser:"  @@"`
	Cast    *castExpr   `parser:"| @@"`
	Postfix *postfixExp `parser:"| @@"`
}

type prefixOp struct {
	Op      string `parser:"@('-' | '!' | '~' | '++' | '--')"`
	Operand *unary `parser:"@@"`
}

type castExpr struct {
	Type    *typeName `parser:"'(' @@ ')'"`
	Operand *unary    `parser:"@@"`
}

type postfixExp struct {
	Pos     lexer.Position
	EndPos  lexer.Position
	Primary *primary   `parser:"@@"`
	Member  *member    `parser:"@@?"`
	Op      *postfixOp `parser:"@@?"`
}

type member struct {
	Pos  lexer.Position
	Name *ident `parser:"'.' @@"`
}

type postfixOp struct {
	Pos lexer.Position
	Op  string `parser:"@('++' | '--')"`
}

type primary struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Float  *string           `parser:"  @Float"`
	Hex    *string           `parser:"| @Hex"`
	Int    *string           `parser:"| @Int"`
	String *string           `parser:"| @String"`
	Call   *callExpr         `parser:"| @@"`
	Ident  *ident            `parser:"| @@"`
	Paren  *expression       `parser:"| '(' @@ ')'"`
	Vector []*componentChain `parser:"| '<' @@ (',' @@)* '>'"`
	List   *listExpr         `parser:"| @@"`
}

type callExpr struct {
	Name *ident        `parser:"@@"`
	Args []*expression `parser:"'(' (@@ (',' @@)*)? ')'"`
}

type listExpr struct {
	Open     bool          `parser:"@'['"`
	Elements []*expression `parser:"(@@ (',' @@)*)? ']'"`
}
