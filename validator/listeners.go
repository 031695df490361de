package validator

import (
	"github.com/lslkit/lslkit-go/ast"
	"github.com/lslkit/lslkit-go/schema/library"
	"github.com/lslkit/lslkit-go/schema/types"
	"github.com/lslkit/lslkit-go/syntax"
)

// ErrorListener receives every semantic error found while validating a script.
// Each method gets the source range of the offending construct plus the nodes,
// types or signatures involved; formatting is left to the implementation.
type ErrorListener interface {
	UndefinedVariableReference(r syntax.Range, name string)
	UndefinedFunctionReference(r syntax.Range, name string)
	UndefinedLabelReference(r syntax.Range, label string)
	UndefinedStateReference(r syntax.Range, state string)
	CallToEventHandler(r syntax.Range, name string, event *library.EventSignature)

	RedefinedGlobalVariable(r syntax.Range, name string, previous *ast.GlobalVariable)
	RedefinedLocalVariable(r syntax.Range, name string, previous *ast.VarDeclStmt)
	RedefinedParameter(r syntax.Range, name string, previous *ast.Parameter)
	RedefinedFunction(r syntax.Range, name string, previous *ast.FunctionDecl)
	RedefinedState(r syntax.Range, name string, previous *ast.StateDecl)
	RedefinedEventHandler(r syntax.Range, name string, state *ast.StateDecl)
	RedefinedLabel(r syntax.Range, name string, previous *ast.LabelStmt)
	RedefinedLibraryFunction(r syntax.Range, name string, overloads []*library.FunctionSignature)
	RedefinedLibraryConstant(r syntax.Range, name string, constant *library.ConstantSignature)

	UnknownEventHandler(r syntax.Range, name string)
	IncorrectEventHandlerSignature(r syntax.Range, handler *ast.EventHandler, expected *library.EventSignature)

	TypeMismatchInVariableDeclaration(r syntax.Range, declared types.ValueType, init ast.Expr)
	TypeMismatchInReturn(r syntax.Range, expected types.ValueType, value ast.Expr)
	ReturnedValueFromVoidFunction(r syntax.Range, fn *ast.FunctionDecl, value ast.Expr)
	ReturnedValueFromEventHandler(r syntax.Range, handler *ast.EventHandler, value ast.Expr)
	MissingReturnValue(r syntax.Range, fn *ast.FunctionDecl)
	NotAllCodePathsReturn(r syntax.Range, fn *ast.FunctionDecl)

	TooManyArguments(r syntax.Range, name string, expected int, args []ast.Expr)
	TooFewArguments(r syntax.Range, name string, expected int, args []ast.Expr)
	ArgumentTypeMismatch(r syntax.Range, name string, index int, expected types.ValueType, arg ast.Expr)
	NoSuitableOverload(r syntax.Range, name string, overloads []*library.FunctionSignature, args []ast.Expr)
	AmbiguousOverload(r syntax.Range, name string, matches []*library.FunctionSignature, args []ast.Expr)

	InvalidBinaryOperation(r syntax.Range, left ast.Expr, op types.Operator, right ast.Expr)
	InvalidPrefixOperation(r syntax.Range, op types.Operator, operand ast.Expr)
	InvalidPostfixOperation(r syntax.Range, operand ast.Expr, op types.Operator)
	InvalidCast(r syntax.Range, target types.ValueType, operand ast.Expr)
	InvalidVectorContent(r syntax.Range, index int, component ast.Expr)
	InvalidRotationContent(r syntax.Range, index int, component ast.Expr)
	InvalidListContent(r syntax.Range, index int, element ast.Expr)
	InvalidConditional(r syntax.Range, cond ast.Expr)

	AssignmentToNonVariable(r syntax.Range, target ast.Expr, op types.Operator)
	ModifyingLibraryConstant(r syntax.Range, ref *ast.VariableRef, op types.Operator)
	InvalidComponentAccess(r syntax.Range, operand ast.Expr, component string)
	InvalidGlobalInitializer(r syntax.Range, global *ast.GlobalVariable, init ast.Expr)
	DeclarationRequiresScope(r syntax.Range, decl *ast.VarDeclStmt)
	StateChangeInFunction(r syntax.Range, fn *ast.FunctionDecl, state string)

	MissingDefaultState(r syntax.Range)
	StateWithoutEventHandlers(r syntax.Range, state *ast.StateDecl)
}

// WarningListener receives every warning found while validating a script
type WarningListener interface {
	LocalVariableHidesParameter(r syntax.Range, local *ast.VarDeclStmt, param *ast.Parameter)
	LocalVariableHidesGlobalVariable(r syntax.Range, local *ast.VarDeclStmt, global *ast.GlobalVariable)
	ParameterHidesGlobalVariable(r syntax.Range, param *ast.Parameter, global *ast.GlobalVariable)

	DeadCode(r syntax.Range, first, last ast.Stmt, kind ast.DeadCodeKind)

	UnusedLocalVariable(r syntax.Range, local *ast.VarDeclStmt)
	UnusedParameter(r syntax.Range, param *ast.Parameter, owner ast.Node)
	UnusedGlobalVariable(r syntax.Range, global *ast.GlobalVariable)
	UnusedFunction(r syntax.Range, fn *ast.FunctionDecl)
	UnusedLabel(r syntax.Range, label *ast.LabelStmt)

	UselessExpressionStatement(r syntax.Range, expr ast.Expr)
	RedundantCast(r syntax.Range, cast *ast.CastExpr)
	ConstantCondition(r syntax.Range, cond ast.Expr)
	AssignmentInCondition(r syntax.Range, cond ast.Expr)
	IntegerLiteralOverflow(r syntax.Range, literal *ast.IntegerLiteral)

	DeprecatedLibraryFunction(r syntax.Range, call *ast.CallExpr, sig *library.FunctionSignature)
	DeprecatedLibraryConstant(r syntax.Range, ref *ast.VariableRef, sig *library.ConstantSignature)
	DeprecatedEventHandler(r syntax.Range, handler *ast.EventHandler, sig *library.EventSignature)

	StateChangeToCurrentState(r syntax.Range, stmt *ast.StateChangeStmt)
}

// BaseErrorListener ignores every error. Embed it to implement only some methods.
type BaseErrorListener struct{}

var _ ErrorListener = BaseErrorListener{}

func (BaseErrorListener) UndefinedVariableReference(syntax.Range, string)                     {}
func (BaseErrorListener) UndefinedFunctionReference(syntax.Range, string)                     {}
func (BaseErrorListener) UndefinedLabelReference(syntax.Range, string)                        {}
func (BaseErrorListener) UndefinedStateReference(syntax.Range, string)                        {}
func (BaseErrorListener) CallToEventHandler(syntax.Range, string, *library.EventSignature)    {}
func (BaseErrorListener) RedefinedGlobalVariable(syntax.Range, string, *ast.GlobalVariable)   {}
func (BaseErrorListener) RedefinedLocalVariable(syntax.Range, string, *ast.VarDeclStmt)       {}
func (BaseErrorListener) RedefinedParameter(syntax.Range, string, *ast.Parameter)             {}
func (BaseErrorListener) RedefinedFunction(syntax.Range, string, *ast.FunctionDecl)           {}
func (BaseErrorListener) RedefinedState(syntax.Range, string, *ast.StateDecl)                 {}
func (BaseErrorListener) RedefinedEventHandler(syntax.Range, string, *ast.StateDecl)          {}
func (BaseErrorListener) RedefinedLabel(syntax.Range, string, *ast.LabelStmt)                 {}
func (BaseErrorListener) UnknownEventHandler(syntax.Range, string)                            {}
func (BaseErrorListener) MissingReturnValue(syntax.Range, *ast.FunctionDecl)                  {}
func (BaseErrorListener) NotAllCodePathsReturn(syntax.Range, *ast.FunctionDecl)               {}
func (BaseErrorListener) InvalidCast(syntax.Range, types.ValueType, ast.Expr)                 {}
func (BaseErrorListener) InvalidVectorContent(syntax.Range, int, ast.Expr)                    {}
func (BaseErrorListener) InvalidRotationContent(syntax.Range, int, ast.Expr)                  {}
func (BaseErrorListener) InvalidListContent(syntax.Range, int, ast.Expr)                      {}
func (BaseErrorListener) InvalidConditional(syntax.Range, ast.Expr)                           {}
func (BaseErrorListener) InvalidComponentAccess(syntax.Range, ast.Expr, string)               {}
func (BaseErrorListener) DeclarationRequiresScope(syntax.Range, *ast.VarDeclStmt)             {}
func (BaseErrorListener) StateChangeInFunction(syntax.Range, *ast.FunctionDecl, string)       {}
func (BaseErrorListener) MissingDefaultState(syntax.Range)                                    {}
func (BaseErrorListener) StateWithoutEventHandlers(syntax.Range, *ast.StateDecl)              {}
func (BaseErrorListener) TooManyArguments(syntax.Range, string, int, []ast.Expr)              {}
func (BaseErrorListener) TooFewArguments(syntax.Range, string, int, []ast.Expr)               {}
func (BaseErrorListener) InvalidPrefixOperation(syntax.Range, types.Operator, ast.Expr)       {}
func (BaseErrorListener) InvalidPostfixOperation(syntax.Range, ast.Expr, types.Operator)      {}
func (BaseErrorListener) AssignmentToNonVariable(syntax.Range, ast.Expr, types.Operator)      {}
func (BaseErrorListener) ModifyingLibraryConstant(syntax.Range, *ast.VariableRef, types.Operator) {
}
func (BaseErrorListener) RedefinedLibraryFunction(syntax.Range, string, []*library.FunctionSignature) {
}
func (BaseErrorListener) RedefinedLibraryConstant(syntax.Range, string, *library.ConstantSignature) {
}
func (BaseErrorListener) IncorrectEventHandlerSignature(syntax.Range, *ast.EventHandler, *library.EventSignature) {
}
func (BaseErrorListener) TypeMismatchInVariableDeclaration(syntax.Range, types.ValueType, ast.Expr) {
}
func (BaseErrorListener) TypeMismatchInReturn(syntax.Range, types.ValueType, ast.Expr) {}
func (BaseErrorListener) ReturnedValueFromVoidFunction(syntax.Range, *ast.FunctionDecl, ast.Expr) {
}
func (BaseErrorListener) ReturnedValueFromEventHandler(syntax.Range, *ast.EventHandler, ast.Expr) {
}
func (BaseErrorListener) ArgumentTypeMismatch(syntax.Range, string, int, types.ValueType, ast.Expr) {
}
func (BaseErrorListener) NoSuitableOverload(syntax.Range, string, []*library.FunctionSignature, []ast.Expr) {
}
func (BaseErrorListener) AmbiguousOverload(syntax.Range, string, []*library.FunctionSignature, []ast.Expr) {
}
func (BaseErrorListener) InvalidBinaryOperation(syntax.Range, ast.Expr, types.Operator, ast.Expr) {
}
func (BaseErrorListener) InvalidGlobalInitializer(syntax.Range, *ast.GlobalVariable, ast.Expr) {}

// BaseWarningListener ignores every warning. Embed it to implement only some methods.
type BaseWarningListener struct{}

var _ WarningListener = BaseWarningListener{}

func (BaseWarningListener) LocalVariableHidesParameter(syntax.Range, *ast.VarDeclStmt, *ast.Parameter) {
}
func (BaseWarningListener) LocalVariableHidesGlobalVariable(syntax.Range, *ast.VarDeclStmt, *ast.GlobalVariable) {
}
func (BaseWarningListener) ParameterHidesGlobalVariable(syntax.Range, *ast.Parameter, *ast.GlobalVariable) {
}
func (BaseWarningListener) DeadCode(syntax.Range, ast.Stmt, ast.Stmt, ast.DeadCodeKind)    {}
func (BaseWarningListener) UnusedLocalVariable(syntax.Range, *ast.VarDeclStmt)             {}
func (BaseWarningListener) UnusedParameter(syntax.Range, *ast.Parameter, ast.Node)         {}
func (BaseWarningListener) UnusedGlobalVariable(syntax.Range, *ast.GlobalVariable)         {}
func (BaseWarningListener) UnusedFunction(syntax.Range, *ast.FunctionDecl)                 {}
func (BaseWarningListener) UnusedLabel(syntax.Range, *ast.LabelStmt)                       {}
func (BaseWarningListener) UselessExpressionStatement(syntax.Range, ast.Expr)              {}
func (BaseWarningListener) RedundantCast(syntax.Range, *ast.CastExpr)                      {}
func (BaseWarningListener) ConstantCondition(syntax.Range, ast.Expr)                       {}
func (BaseWarningListener) AssignmentInCondition(syntax.Range, ast.Expr)                   {}
func (BaseWarningListener) IntegerLiteralOverflow(syntax.Range, *ast.IntegerLiteral)       {}
func (BaseWarningListener) StateChangeToCurrentState(syntax.Range, *ast.StateChangeStmt)   {}
func (BaseWarningListener) DeprecatedLibraryFunction(syntax.Range, *ast.CallExpr, *library.FunctionSignature) {
}
func (BaseWarningListener) DeprecatedLibraryConstant(syntax.Range, *ast.VariableRef, *library.ConstantSignature) {
}
func (BaseWarningListener) DeprecatedEventHandler(syntax.Range, *ast.EventHandler, *library.EventSignature) {
}
