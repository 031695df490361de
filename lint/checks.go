package lint

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"
	exprast "github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/parser"
	"github.com/google/uuid"
	"github.com/lslkit/lslkit-go/ast"
	"github.com/lslkit/lslkit-go/schema/types"
	"github.com/lslkit/lslkit-go/syntax"
)

// CheckUnit runs the source checks that need a finished tree: loops and branches
// whose condition is constantly false, constant division by zero and string
// literals used as keys that are not UUIDs.
func CheckUnit(unit *ast.CompilationUnit, path string, options Options) []Issue {
	if unit == nil {
		return nil
	}
	if path == "" {
		path = unit.Filename
	}

	issues := make([]Issue, 0)
	mode := normalizeCheckMode(options.ConstantChecks)
	add := func(r syntax.Range, severity, code, message string) {
		issues = append(issues, Issue{
			File:     path,
			Pos:      position(r.Start),
			Severity: severity,
			Code:     code,
			Message:  message,
		})
	}
	constantSeverity := SeverityWarning
	if mode == CheckError {
		constantSeverity = SeverityError
	}

	ast.Walk(unit, func(n ast.Node) {
		switch v := n.(type) {
		case *ast.WhileStmt:
			if mode != CheckIgnore && alwaysFalse(v.Cond) {
				add(v.Cond.Range(), constantSeverity, CodeDeadLoop, "while loop body never runs because the condition is always false")
			}
		case *ast.ForStmt:
			if mode != CheckIgnore && v.Cond != nil && alwaysFalse(v.Cond) {
				add(v.Cond.Range(), constantSeverity, CodeDeadLoop, "for loop body never runs because the condition is always false")
			}
		case *ast.IfStmt:
			if mode != CheckIgnore && alwaysFalse(v.Cond) {
				add(v.Cond.Range(), constantSeverity, CodeDeadBranch, "if branch is never taken because the condition is always false")
			}
		case *ast.BinaryExpr:
			if mode != CheckIgnore && isDivision(v.Op) {
				if value, ok := evaluate(v.Right); ok && value == 0 {
					add(v.OpRange, constantSeverity, CodeDivisionByZero, fmt.Sprintf("operator %s divides by a constant zero", v.Op))
				}
			}
			if v.Op == types.OpAssign && v.Left.Type() == types.Key {
				checkKey(v.Right, add)
			}
		case *ast.VarDeclStmt:
			if v.DeclType == types.Key {
				checkKey(v.Init, add)
			}
		case *ast.GlobalVariable:
			if v.DeclType == types.Key {
				checkKey(v.Init, add)
			}
		case *ast.CastExpr:
			if v.Target == types.Key {
				checkKey(v.Operand, add)
			}
		case *ast.CallExpr:
			checkCallKeys(unit, v, add)
		}
	})
	return issues
}

func isDivision(op types.Operator) bool {
	switch op {
	case types.OpDivide, types.OpModulus, types.OpDivideAssign, types.OpModulusAssign:
		return true
	}
	return false
}

func checkCallKeys(unit *ast.CompilationUnit, call *ast.CallExpr, add func(syntax.Range, string, string, string)) {
	var params []types.ValueType
	switch {
	case call.Library != nil:
		for _, p := range call.Library.Parameters {
			params = append(params, p.Type)
		}
	case call.Function != ast.NoNode && unit.Tree != nil:
		fn, ok := unit.Tree.Node(call.Function).(*ast.FunctionDecl)
		if !ok {
			return
		}
		for _, p := range fn.Params {
			params = append(params, p.DeclType)
		}
	}
	for i, arg := range call.Args {
		if i < len(params) && params[i] == types.Key {
			checkKey(arg, add)
		}
	}
}

// checkKey flags a string literal that is neither empty nor a hyphenated UUID
func checkKey(e ast.Expr, add func(syntax.Range, string, string, string)) {
	if e == nil {
		return
	}
	lit, ok := ast.Unwrap(e).(*ast.StringLiteral)
	if !ok || lit.Value == "" {
		return
	}
	if len(lit.Value) == 36 {
		if _, err := uuid.Parse(lit.Value); err == nil {
			return
		}
	}
	add(lit.Range(), SeverityWarning, CodeInvalidKeyLiteral, fmt.Sprintf("string %s is used as a key but is not a UUID", lit.Text))
}

func alwaysFalse(cond ast.Expr) bool {
	value, ok := evaluate(cond)
	return ok && value == 0
}

// evaluate computes a constant numeric expression with expr. Only literals, library
// constants with a known value and arithmetic, comparison and logical operators are
// supported; anything else reports false.
func evaluate(e ast.Expr) (float64, bool) {
	source, ok := render(e)
	if !ok {
		return 0, false
	}

	tree, err := parser.Parse(source)
	if err != nil {
		return 0, false
	}
	visitor := &variableVisitor{callees: make(map[string]bool)}
	node := tree.Node
	exprast.Walk(&node, visitor)
	if visitor.variables() {
		return 0, false
	}

	result, err := expr.Eval(source, map[string]interface{}{})
	if err != nil {
		return 0, false
	}
	switch v := result.(type) {
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case float64:
		if math.IsNaN(v) {
			return 0, false
		}
		return v, true
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

// variableVisitor detects references to the environment. Identifiers that only
// name a called builtin such as int or float do not count.
type variableVisitor struct {
	identifiers  []string
	callees      map[string]bool
	hasVariables bool
}

func (v *variableVisitor) Visit(node *exprast.Node) {
	switch n := (*node).(type) {
	case *exprast.CallNode:
		if ident, ok := n.Callee.(*exprast.IdentifierNode); ok {
			v.callees[ident.Value] = true
		}
	case *exprast.IdentifierNode:
		v.identifiers = append(v.identifiers, n.Value)
	case *exprast.MemberNode, *exprast.PointerNode, *exprast.VariableDeclaratorNode:
		v.hasVariables = true
	}
}

func (v *variableVisitor) variables() bool {
	for _, name := range v.identifiers {
		if !v.callees[name] {
			return true
		}
	}
	return v.hasVariables
}

func formatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// render translates a constant expression into expr source. Comparisons and logical
// operators yield 1 or 0 as they do at run time.
func render(e ast.Expr) (string, bool) {
	if e == nil || e.HasErrors() || !e.IsConstant() {
		return "", false
	}

	switch v := e.(type) {
	case *ast.IntegerLiteral:
		return strconv.FormatInt(v.Value, 10), true
	case *ast.FloatLiteral:
		return formatFloat(v.Value), true
	case *ast.StringLiteral:
		return strconv.Quote(v.Value), true
	case *ast.VariableRef:
		return renderConstant(v)
	case *ast.ParenExpr:
		inner, ok := render(v.Inner)
		return "(" + inner + ")", ok
	case *ast.CastExpr:
		operand, ok := render(v.Operand)
		if !ok {
			return "", false
		}
		switch {
		case v.Target == v.Operand.Type():
			return operand, true
		case v.Target == types.Integer && v.Operand.Type() == types.Float:
			return "int(" + operand + ")", true
		case v.Target == types.Float && v.Operand.Type() == types.Integer:
			return "float(" + operand + ")", true
		}
		return "", false
	case *ast.PrefixExpr:
		operand, ok := render(v.Operand)
		if !ok || !v.Operand.Type().IsNumeric() {
			return "", false
		}
		switch v.Op {
		case types.OpNegate:
			return wrapInteger(v, "-("+operand+")")
		case types.OpLogicalNot:
			return "((" + operand + ") == 0 ? 1 : 0)", true
		}
		return "", false
	case *ast.BinaryExpr:
		source, ok := renderBinary(v)
		if !ok {
			return "", false
		}
		return wrapInteger(v, source)
	}
	return "", false
}

// wrapInteger folds an integer expression to a literal truncated to 32 bits, the
// way integers overflow at run time. Other expressions pass through.
func wrapInteger(e ast.Expr, source string) (string, bool) {
	if e.Type() != types.Integer {
		return source, true
	}
	result, err := expr.Eval(source, map[string]interface{}{})
	if err != nil {
		return "", false
	}
	var n int64
	switch v := result.(type) {
	case int:
		n = int64(v)
	case int64:
		n = v
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) > math.MaxInt64/2 {
			return "", false
		}
		n = int64(v)
	default:
		return "", false
	}
	return strconv.FormatInt(int64(int32(n)), 10), true
}

func renderBinary(v *ast.BinaryExpr) (string, bool) {
	left, ok := render(v.Left)
	if !ok {
		return "", false
	}
	right, ok := render(v.Right)
	if !ok {
		return "", false
	}
	numeric := v.Left.Type().IsNumeric() && v.Right.Type().IsNumeric()
	text := v.Left.Type() == types.String && v.Right.Type() == types.String
	l, r := "("+left+")", "("+right+")"

	switch v.Op {
	case types.OpAdd:
		if numeric || text {
			return "(" + l + " + " + r + ")", true
		}
	case types.OpSubtract, types.OpMultiply:
		if numeric {
			return "(" + l + " " + v.Op.String() + " " + r + ")", true
		}
	case types.OpDivide:
		if !numeric {
			return "", false
		}
		if zero, err := strconv.ParseFloat(right, 64); err == nil && zero == 0 {
			return "", false
		}
		if v.Type() == types.Integer {
			return "int(" + l + " / " + r + ")", true
		}
		return "(" + l + " / " + r + ")", true
	case types.OpModulus:
		if v.Left.Type() == types.Integer && v.Right.Type() == types.Integer {
			return "(" + l + " % " + r + ")", true
		}
	case types.OpLessThan, types.OpGreaterThan, types.OpLessEquals, types.OpGreaterEquals:
		if numeric {
			return "(" + l + " " + v.Op.String() + " " + r + " ? 1 : 0)", true
		}
	case types.OpEquals, types.OpNotEquals:
		if numeric || text {
			return "(" + l + " " + v.Op.String() + " " + r + " ? 1 : 0)", true
		}
	case types.OpLogicalAnd:
		if numeric {
			return "(" + l + " != 0 && " + r + " != 0 ? 1 : 0)", true
		}
	case types.OpLogicalOr:
		if numeric {
			return "(" + l + " != 0 || " + r + " != 0 ? 1 : 0)", true
		}
	}
	return "", false
}

func renderConstant(v *ast.VariableRef) (string, bool) {
	c := v.LibraryConstant
	if c == nil || c.ValueString == "" {
		return "", false
	}
	text := strings.TrimSpace(c.ValueString)
	switch c.Type {
	case types.Integer:
		n, err := strconv.ParseInt(text, 0, 64)
		if err != nil {
			return "", false
		}
		return strconv.FormatInt(n, 10), true
	case types.Float:
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return "", false
		}
		return formatFloat(f), true
	}
	return "", false
}
