package types

type binaryKey struct {
	left  ValueType
	op    Operator
	right ValueType
}

type unaryKey struct {
	op      Operator
	operand ValueType
}

var (
	binaryIndex  = make(map[binaryKey]ValueType, len(binaryRules))
	prefixIndex  = make(map[unaryKey]ValueType, len(prefixRules))
	postfixIndex = make(map[unaryKey]ValueType, len(postfixRules))
	castIndex    = make(map[castRule]struct{}, len(castRules))
)

func init() {
	for _, rule := range binaryRules {
		binaryIndex[binaryKey{rule.Left, rule.Op, rule.Right}] = rule.Result
	}
	for _, rule := range prefixRules {
		prefixIndex[unaryKey{rule.Op, rule.Operand}] = rule.Result
	}
	for _, rule := range postfixRules {
		postfixIndex[unaryKey{rule.Op, rule.Operand}] = rule.Result
	}
	for _, rule := range castRules {
		castIndex[rule] = struct{}{}
	}
}

// Operand is anything the checker can inspect: a type plus an error flag.
// Validated AST expressions satisfy it.
type Operand interface {
	Type() ValueType
	HasErrors() bool
}

// Binary returns the result type of left op right and whether the combination is valid.
func Binary(left ValueType, op Operator, right ValueType) (ValueType, bool) {
	if left == List || right == List {
		switch {
		case left == List && op == OpAddAssign:
			return List, true
		case op == OpAdd && left != Void && right != Void:
			return List, true
		case left == List && right == List && (op == OpEquals || op == OpNotEquals):
			return Integer, true
		case left == List && right == List && op == OpAssign:
			return List, true
		}
	}

	result, ok := binaryIndex[binaryKey{left, op, right}]
	if !ok {
		return Void, false
	}
	return result, true
}

// Prefix returns the result type of a prefix operation.
func Prefix(op Operator, operand ValueType) (ValueType, bool) {
	result, ok := prefixIndex[unaryKey{op, operand}]
	if !ok {
		return Void, false
	}
	return result, true
}

// Postfix returns the result type of a postfix operation.
func Postfix(operand ValueType, op Operator) (ValueType, bool) {
	result, ok := postfixIndex[unaryKey{op, operand}]
	if !ok {
		return Void, false
	}
	return result, true
}

// Cast returns target when source may be explicitly cast to it.
func Cast(target, source ValueType) (ValueType, bool) {
	if _, ok := castIndex[castRule{target, source}]; !ok {
		return Void, false
	}
	return target, true
}

// ValidateBinary is Binary over operands; an operand with errors is always invalid.
func ValidateBinary(left Operand, op Operator, right Operand) (ValueType, bool) {
	if left.HasErrors() || right.HasErrors() {
		return Void, false
	}
	return Binary(left.Type(), op, right.Type())
}

// ValidatePrefix is Prefix over an operand.
func ValidatePrefix(op Operator, operand Operand) (ValueType, bool) {
	if operand.HasErrors() {
		return Void, false
	}
	return Prefix(op, operand.Type())
}

// ValidatePostfix is Postfix over an operand.
func ValidatePostfix(operand Operand, op Operator) (ValueType, bool) {
	if operand.HasErrors() {
		return Void, false
	}
	return Postfix(operand.Type(), op)
}

// ValidateCast is Cast over an operand.
func ValidateCast(target ValueType, operand Operand) (ValueType, bool) {
	if operand.HasErrors() {
		return Void, false
	}
	return Cast(target, operand.Type())
}

// ValidConditionalContext reports whether t can be the condition of if/while/do/for.
// Truthiness of each type is defined by the code generator.
func ValidConditionalContext(t ValueType) bool {
	return t != Void
}

// ValidConditionalOperand is ValidConditionalContext over an operand.
func ValidConditionalOperand(operand Operand) bool {
	return !operand.HasErrors() && ValidConditionalContext(operand.Type())
}

// ValidVectorComponent reports whether operand may appear inside a vector literal.
func ValidVectorComponent(operand Operand) bool {
	return !operand.HasErrors() && operand.Type().IsNumeric()
}

// ValidRotationComponent reports whether operand may appear inside a rotation literal.
func ValidRotationComponent(operand Operand) bool {
	return !operand.HasErrors() && operand.Type().IsNumeric()
}

// ValidListElement reports whether operand may appear inside a list literal.
func ValidListElement(operand Operand) bool {
	if operand.HasErrors() {
		return false
	}
	t := operand.Type()
	return t != List && t != Void
}
