package lint

import (
	"fmt"
	"strings"

	"github.com/lslkit/lslkit-go/ast"
	"github.com/lslkit/lslkit-go/schema/library"
	"github.com/lslkit/lslkit-go/schema/types"
	"github.com/lslkit/lslkit-go/syntax"
	"github.com/lslkit/lslkit-go/validator"
)

// Collector turns validator diagnostics into issues. It implements both
// validator.ErrorListener and validator.WarningListener.
type Collector struct {
	file     string
	options  Options
	disabled map[string]struct{}
	issues   []Issue
}

var (
	_ validator.ErrorListener   = (*Collector)(nil)
	_ validator.WarningListener = (*Collector)(nil)
)

// NewCollector creates a collector for one file
func NewCollector(file string, options Options) *Collector {
	disabled := make(map[string]struct{}, len(options.Disabled))
	for _, code := range options.Disabled {
		disabled[strings.TrimSpace(code)] = struct{}{}
	}
	options.ConstantChecks = normalizeCheckMode(options.ConstantChecks)
	return &Collector{file: file, options: options, disabled: disabled}
}

// Issues returns the collected issues sorted by position
func (c *Collector) Issues() []Issue {
	out := append([]Issue(nil), c.issues...)
	Sort(out)
	return out
}

// HasErrors reports whether any collected issue is an error
func (c *Collector) HasErrors() bool {
	return HasErrors(c.issues)
}

// Count returns how many issues carry code
func (c *Collector) Count(code string) int {
	n := 0
	for _, issue := range c.issues {
		if issue.Code == code {
			n++
		}
	}
	return n
}

// Reset drops every collected issue
func (c *Collector) Reset() {
	c.issues = nil
}

// Add records issues produced outside the validator, applying the same filters
func (c *Collector) Add(issues ...Issue) {
	for _, issue := range issues {
		if _, off := c.disabled[issue.Code]; off {
			continue
		}
		if issue.File == "" {
			issue.File = c.file
		}
		if c.options.WarningsAsErrors && issue.Severity == SeverityWarning {
			issue.Severity = SeverityError
		}
		c.issues = append(c.issues, issue)
	}
}

// Check runs the tree checks on a validated unit and records their issues
func (c *Collector) Check(unit *ast.CompilationUnit) {
	c.Add(CheckUnit(unit, c.file, c.options)...)
}

func (c *Collector) report(r syntax.Range, severity, code, format string, args ...interface{}) {
	file := c.file
	if file == "" {
		file = r.Start.Filename
	}
	c.Add(Issue{
		File:     file,
		Pos:      position(r.Start),
		Severity: severity,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
	})
}

func (c *Collector) errorf(r syntax.Range, code, format string, args ...interface{}) {
	c.report(r, SeverityError, code, format, args...)
}

func (c *Collector) warnf(r syntax.Range, code, format string, args ...interface{}) {
	c.report(r, SeverityWarning, code, format, args...)
}

// describe names an expression for a message
func describe(e ast.Expr) string {
	switch v := ast.Unwrap(e).(type) {
	case *ast.VariableRef:
		return fmt.Sprintf("%s %q of type %s", v.Kind(), v.Name, v.Type())
	case *ast.IntegerLiteral:
		return fmt.Sprintf("integer literal %s", v.Text)
	case *ast.FloatLiteral:
		return fmt.Sprintf("float literal %s", v.Text)
	case *ast.StringLiteral:
		return fmt.Sprintf("string literal %s", v.Text)
	case *ast.CallExpr:
		return fmt.Sprintf("call to %q returning %s", v.Name, v.Type())
	}
	return fmt.Sprintf("%s of type %s", e.Kind(), e.Type())
}

func argumentTypes(args []ast.Expr) string {
	names := make([]string, len(args))
	for i, arg := range args {
		names[i] = arg.Type().String()
	}
	return "(" + strings.Join(names, ", ") + ")"
}

func prototypes(overloads []*library.FunctionSignature) string {
	names := make([]string, len(overloads))
	for i, sig := range overloads {
		names[i] = sig.SignatureString()
	}
	return strings.Join(names, "; ")
}

func ordinal(i int) string {
	n := i + 1
	suffix := "th"
	switch {
	case n%100 >= 11 && n%100 <= 13:
	case n%10 == 1:
		suffix = "st"
	case n%10 == 2:
		suffix = "nd"
	case n%10 == 3:
		suffix = "rd"
	}
	return fmt.Sprintf("%d%s", n, suffix)
}

func (c *Collector) UndefinedVariableReference(r syntax.Range, name string) {
	c.errorf(r, CodeUndefinedVariable, "variable %q is not defined", name)
}

func (c *Collector) UndefinedFunctionReference(r syntax.Range, name string) {
	c.errorf(r, CodeUndefinedFunction, "function %q is not defined", name)
}

func (c *Collector) UndefinedLabelReference(r syntax.Range, label string) {
	c.errorf(r, CodeUndefinedLabel, "label %q is not defined in an enclosing scope", label)
}

func (c *Collector) UndefinedStateReference(r syntax.Range, state string) {
	c.errorf(r, CodeUndefinedState, "state %q is not defined", state)
}

func (c *Collector) CallToEventHandler(r syntax.Range, name string, _ *library.EventSignature) {
	c.errorf(r, CodeCallToEventHandler, "%q is an event handler and cannot be called", name)
}

func (c *Collector) RedefinedGlobalVariable(r syntax.Range, name string, previous *ast.GlobalVariable) {
	c.errorf(r, CodeRedefinedGlobal, "global variable %q is already defined at %s", name, previous.NameRange)
}

func (c *Collector) RedefinedLocalVariable(r syntax.Range, name string, previous *ast.VarDeclStmt) {
	c.errorf(r, CodeRedefinedLocal, "local variable %q is already defined at %s", name, previous.NameRange)
}

func (c *Collector) RedefinedParameter(r syntax.Range, name string, previous *ast.Parameter) {
	c.errorf(r, CodeRedefinedParameter, "parameter %q is already defined at %s", name, previous.NameRange)
}

func (c *Collector) RedefinedFunction(r syntax.Range, name string, previous *ast.FunctionDecl) {
	c.errorf(r, CodeRedefinedFunction, "function %q is already defined at %s", name, previous.NameRange)
}

func (c *Collector) RedefinedState(r syntax.Range, name string, previous *ast.StateDecl) {
	c.errorf(r, CodeRedefinedState, "state %q is already defined at %s", name, previous.NameRange)
}

func (c *Collector) RedefinedEventHandler(r syntax.Range, name string, state *ast.StateDecl) {
	c.errorf(r, CodeRedefinedEventHandler, "event handler %q is already defined in state %q", name, state.Name)
}

func (c *Collector) RedefinedLabel(r syntax.Range, name string, previous *ast.LabelStmt) {
	c.errorf(r, CodeRedefinedLabel, "label %q is already defined at %s", name, previous.NameRange)
}

func (c *Collector) RedefinedLibraryFunction(r syntax.Range, name string, overloads []*library.FunctionSignature) {
	c.errorf(r, CodeRedefinedLibraryFunction, "function %q conflicts with library function %s", name, prototypes(overloads))
}

func (c *Collector) RedefinedLibraryConstant(r syntax.Range, name string, constant *library.ConstantSignature) {
	c.errorf(r, CodeRedefinedLibraryConstant, "%q conflicts with library constant %s", name, constant.SignatureString())
}

func (c *Collector) UnknownEventHandler(r syntax.Range, name string) {
	c.errorf(r, CodeUnknownEventHandler, "%q is not a known event handler", name)
}

func (c *Collector) IncorrectEventHandlerSignature(r syntax.Range, handler *ast.EventHandler, expected *library.EventSignature) {
	c.errorf(r, CodeIncorrectEventSignature, "event handler %q has the wrong parameters, expected %s", handler.Name, expected.SignatureString())
}

func (c *Collector) TypeMismatchInVariableDeclaration(r syntax.Range, declared types.ValueType, init ast.Expr) {
	c.errorf(r, CodeDeclarationTypeMismatch, "cannot initialize %s variable with %s", declared, describe(init))
}

func (c *Collector) TypeMismatchInReturn(r syntax.Range, expected types.ValueType, value ast.Expr) {
	c.errorf(r, CodeReturnTypeMismatch, "cannot return %s from a function returning %s", describe(value), expected)
}

func (c *Collector) ReturnedValueFromVoidFunction(r syntax.Range, fn *ast.FunctionDecl, _ ast.Expr) {
	c.errorf(r, CodeReturnFromVoidFunction, "function %q has no return type and cannot return a value", fn.Name)
}

func (c *Collector) ReturnedValueFromEventHandler(r syntax.Range, handler *ast.EventHandler, _ ast.Expr) {
	c.errorf(r, CodeReturnFromEventHandler, "event handler %q cannot return a value", handler.Name)
}

func (c *Collector) MissingReturnValue(r syntax.Range, fn *ast.FunctionDecl) {
	c.errorf(r, CodeMissingReturnValue, "function %q must return a %s value", fn.Name, fn.ReturnType)
}

func (c *Collector) NotAllCodePathsReturn(r syntax.Range, fn *ast.FunctionDecl) {
	c.errorf(r, CodeNotAllPathsReturn, "not all code paths of function %q return a value", fn.Name)
}

func (c *Collector) TooManyArguments(r syntax.Range, name string, expected int, args []ast.Expr) {
	c.errorf(r, CodeTooManyArguments, "too many arguments in call to %q: expected %d, got %d", name, expected, len(args))
}

func (c *Collector) TooFewArguments(r syntax.Range, name string, expected int, args []ast.Expr) {
	c.errorf(r, CodeTooFewArguments, "not enough arguments in call to %q: expected %d, got %d", name, expected, len(args))
}

func (c *Collector) ArgumentTypeMismatch(r syntax.Range, name string, index int, expected types.ValueType, arg ast.Expr) {
	c.errorf(r, CodeArgumentTypeMismatch, "%s argument of %q must be %s, got %s", ordinal(index), name, expected, describe(arg))
}

func (c *Collector) NoSuitableOverload(r syntax.Range, name string, overloads []*library.FunctionSignature, args []ast.Expr) {
	c.errorf(r, CodeNoSuitableOverload, "no overload of %q accepts %s; candidates: %s", name, argumentTypes(args), prototypes(overloads))
}

func (c *Collector) AmbiguousOverload(r syntax.Range, name string, matches []*library.FunctionSignature, args []ast.Expr) {
	c.errorf(r, CodeAmbiguousOverload, "call to %q with %s is ambiguous between %s", name, argumentTypes(args), prototypes(matches))
}

func (c *Collector) InvalidBinaryOperation(r syntax.Range, left ast.Expr, op types.Operator, right ast.Expr) {
	c.errorf(r, CodeInvalidBinaryOperation, "operator %s is not defined for %s and %s", op, left.Type(), right.Type())
}

func (c *Collector) InvalidPrefixOperation(r syntax.Range, op types.Operator, operand ast.Expr) {
	c.errorf(r, CodeInvalidPrefixOperation, "prefix operator %s is not defined for %s", op, operand.Type())
}

func (c *Collector) InvalidPostfixOperation(r syntax.Range, operand ast.Expr, op types.Operator) {
	c.errorf(r, CodeInvalidPostfixOperation, "postfix operator %s is not defined for %s", op, operand.Type())
}

func (c *Collector) InvalidCast(r syntax.Range, target types.ValueType, operand ast.Expr) {
	c.errorf(r, CodeInvalidCast, "cannot cast %s to %s", operand.Type(), target)
}

func (c *Collector) InvalidVectorContent(r syntax.Range, index int, component ast.Expr) {
	c.errorf(r, CodeInvalidVectorContent, "%s vector component must be integer or float, got %s", ordinal(index), component.Type())
}

func (c *Collector) InvalidRotationContent(r syntax.Range, index int, component ast.Expr) {
	c.errorf(r, CodeInvalidRotationContent, "%s rotation component must be integer or float, got %s", ordinal(index), component.Type())
}

func (c *Collector) InvalidListContent(r syntax.Range, index int, element ast.Expr) {
	c.errorf(r, CodeInvalidListContent, "%s list element cannot be %s", ordinal(index), element.Type())
}

func (c *Collector) InvalidConditional(r syntax.Range, cond ast.Expr) {
	c.errorf(r, CodeInvalidConditional, "%s cannot be used as a condition", describe(cond))
}

func (c *Collector) AssignmentToNonVariable(r syntax.Range, target ast.Expr, op types.Operator) {
	c.errorf(r, CodeAssignmentToNonVariable, "operator %s needs a variable, got %s", op, target.Kind())
}

func (c *Collector) ModifyingLibraryConstant(r syntax.Range, ref *ast.VariableRef, op types.Operator) {
	c.errorf(r, CodeModifyingConstant, "library constant %q cannot be modified with %s", ref.Name, op)
}

func (c *Collector) InvalidComponentAccess(r syntax.Range, operand ast.Expr, component string) {
	c.errorf(r, CodeInvalidComponentAccess, "%s has no component %q", describe(operand), component)
}

func (c *Collector) InvalidGlobalInitializer(r syntax.Range, global *ast.GlobalVariable, _ ast.Expr) {
	c.errorf(r, CodeInvalidGlobalInitializer, "global variable %q must be initialized with a constant value", global.Name)
}

func (c *Collector) DeclarationRequiresScope(r syntax.Range, decl *ast.VarDeclStmt) {
	c.errorf(r, CodeDeclarationNeedsScope, "declaration of %q must be inside a braced block", decl.Name)
}

func (c *Collector) StateChangeInFunction(r syntax.Range, fn *ast.FunctionDecl, state string) {
	c.errorf(r, CodeStateChangeInFunction, "function %q cannot change state to %q", fn.Name, state)
}

func (c *Collector) MissingDefaultState(r syntax.Range) {
	c.errorf(r, CodeMissingDefaultState, "script has no default state")
}

func (c *Collector) StateWithoutEventHandlers(r syntax.Range, state *ast.StateDecl) {
	c.errorf(r, CodeStateWithoutHandlers, "state %q has no event handlers", state.Name)
}

func (c *Collector) LocalVariableHidesParameter(r syntax.Range, local *ast.VarDeclStmt, _ *ast.Parameter) {
	c.warnf(r, CodeLocalHidesParameter, "local variable %q hides a parameter", local.Name)
}

func (c *Collector) LocalVariableHidesGlobalVariable(r syntax.Range, local *ast.VarDeclStmt, _ *ast.GlobalVariable) {
	c.warnf(r, CodeLocalHidesGlobal, "local variable %q hides a global variable", local.Name)
}

func (c *Collector) ParameterHidesGlobalVariable(r syntax.Range, param *ast.Parameter, _ *ast.GlobalVariable) {
	c.warnf(r, CodeParameterHidesGlobal, "parameter %q hides a global variable", param.Name)
}

func (c *Collector) DeadCode(r syntax.Range, _, _ ast.Stmt, kind ast.DeadCodeKind) {
	c.warnf(r, CodeDeadCode, "unreachable code (%s)", kind)
}

func (c *Collector) UnusedLocalVariable(r syntax.Range, local *ast.VarDeclStmt) {
	c.warnf(r, CodeUnusedLocal, "local variable %q is never used", local.Name)
}

func (c *Collector) UnusedParameter(r syntax.Range, param *ast.Parameter, _ ast.Node) {
	c.warnf(r, CodeUnusedParameter, "parameter %q is never used", param.Name)
}

func (c *Collector) UnusedGlobalVariable(r syntax.Range, global *ast.GlobalVariable) {
	c.warnf(r, CodeUnusedGlobal, "global variable %q is never used", global.Name)
}

func (c *Collector) UnusedFunction(r syntax.Range, fn *ast.FunctionDecl) {
	c.warnf(r, CodeUnusedFunction, "function %q is never called", fn.Name)
}

func (c *Collector) UnusedLabel(r syntax.Range, label *ast.LabelStmt) {
	c.warnf(r, CodeUnusedLabel, "label %q is never jumped to", label.Name)
}

func (c *Collector) UselessExpressionStatement(r syntax.Range, _ ast.Expr) {
	c.warnf(r, CodeUselessExpression, "expression result is unused")
}

func (c *Collector) RedundantCast(r syntax.Range, cast *ast.CastExpr) {
	c.warnf(r, CodeRedundantCast, "cast to %s is redundant", cast.Target)
}

func (c *Collector) ConstantCondition(r syntax.Range, _ ast.Expr) {
	c.warnf(r, CodeConstantCondition, "condition is constant")
}

func (c *Collector) AssignmentInCondition(r syntax.Range, _ ast.Expr) {
	c.warnf(r, CodeAssignmentInCondition, "assignment used as condition")
}

func (c *Collector) IntegerLiteralOverflow(r syntax.Range, literal *ast.IntegerLiteral) {
	c.warnf(r, CodeIntegerOverflow, "integer literal %s overflows and evaluates to %d", literal.Text, literal.Value)
}

func (c *Collector) DeprecatedLibraryFunction(r syntax.Range, _ *ast.CallExpr, sig *library.FunctionSignature) {
	c.warnf(r, CodeDeprecatedFunction, "library function %q is deprecated", sig.Name)
}

func (c *Collector) DeprecatedLibraryConstant(r syntax.Range, _ *ast.VariableRef, sig *library.ConstantSignature) {
	c.warnf(r, CodeDeprecatedConstant, "library constant %q is deprecated", sig.Name)
}

func (c *Collector) DeprecatedEventHandler(r syntax.Range, _ *ast.EventHandler, sig *library.EventSignature) {
	c.warnf(r, CodeDeprecatedEvent, "event handler %q is deprecated", sig.Name)
}

func (c *Collector) StateChangeToCurrentState(r syntax.Range, stmt *ast.StateChangeStmt) {
	c.warnf(r, CodeStateChangeToCurrent, "state change to %q re-enters the current state", stmt.State)
}
