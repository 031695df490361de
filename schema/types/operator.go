package types

import "fmt"

// Operator identifies a unary, binary or assignment operator
type Operator int

const (
	OpInvalid Operator = iota

	OpAdd
	OpSubtract
	OpMultiply
	OpDivide
	OpModulus

	OpBitAnd
	OpBitOr
	OpBitXor
	OpShiftLeft
	OpShiftRight

	OpLogicalAnd
	OpLogicalOr

	OpEquals
	OpNotEquals
	OpLessThan
	OpGreaterThan
	OpLessEquals
	OpGreaterEquals

	OpAssign
	OpAddAssign
	OpSubtractAssign
	OpMultiplyAssign
	OpDivideAssign
	OpModulusAssign

	OpNegate
	OpLogicalNot
	OpBitNot
	OpIncrement
	OpDecrement
)

var operatorText = map[Operator]string{
	OpAdd:            "+",
	OpSubtract:       "-",
	OpMultiply:       "*",
	OpDivide:         "/",
	OpModulus:        "%",
	OpBitAnd:         "&",
	OpBitOr:          "|",
	OpBitXor:         "^",
	OpShiftLeft:      "<<",
	OpShiftRight:     ">>",
	OpLogicalAnd:     "&&",
	OpLogicalOr:      "||",
	OpEquals:         "==",
	OpNotEquals:      "!=",
	OpLessThan:       "<",
	OpGreaterThan:    ">",
	OpLessEquals:     "<=",
	OpGreaterEquals:  ">=",
	OpAssign:         "=",
	OpAddAssign:      "+=",
	OpSubtractAssign: "-=",
	OpMultiplyAssign: "*=",
	OpDivideAssign:   "/=",
	OpModulusAssign:  "%=",
	OpNegate:         "-",
	OpLogicalNot:     "!",
	OpBitNot:         "~",
	OpIncrement:      "++",
	OpDecrement:      "--",
}

// BinaryOperators lists every operator accepted by Binary.
var BinaryOperators = []Operator{
	OpAdd, OpSubtract, OpMultiply, OpDivide, OpModulus,
	OpBitAnd, OpBitOr, OpBitXor, OpShiftLeft, OpShiftRight,
	OpLogicalAnd, OpLogicalOr,
	OpEquals, OpNotEquals, OpLessThan, OpGreaterThan, OpLessEquals, OpGreaterEquals,
	OpAssign, OpAddAssign, OpSubtractAssign, OpMultiplyAssign, OpDivideAssign, OpModulusAssign,
}

// PrefixOperators lists every operator accepted by Prefix.
var PrefixOperators = []Operator{OpNegate, OpLogicalNot, OpBitNot, OpIncrement, OpDecrement}

// PostfixOperators lists every operator accepted by Postfix.
var PostfixOperators = []Operator{OpIncrement, OpDecrement}

// String returns the source spelling of the operator
func (op Operator) String() string {
	if text, ok := operatorText[op]; ok {
		return text
	}
	return "invalid"
}

// IsAssignment is true for = and the compound assignment operators
func (op Operator) IsAssignment() bool {
	return op >= OpAssign && op <= OpModulusAssign
}

// IsCompoundAssignment is true for += -= *= /= %=
func (op Operator) IsCompoundAssignment() bool {
	return op >= OpAddAssign && op <= OpModulusAssign
}

// IsModifying is true for every operator that writes to its operand
func (op Operator) IsModifying() bool {
	return op.IsAssignment() || op == OpIncrement || op == OpDecrement
}

// IsComparison is true for equality and relational operators
func (op Operator) IsComparison() bool {
	return op >= OpEquals && op <= OpGreaterEquals
}

// ParseBinaryOperator maps source text to a binary or assignment operator.
func ParseBinaryOperator(text string) (Operator, error) {
	for _, op := range BinaryOperators {
		if operatorText[op] == text {
			return op, nil
		}
	}
	return OpInvalid, fmt.Errorf("unknown binary operator: %q", text)
}

// ParsePrefixOperator maps source text to a prefix operator. "-" is negation.
func ParsePrefixOperator(text string) (Operator, error) {
	for _, op := range PrefixOperators {
		if operatorText[op] == text {
			return op, nil
		}
	}
	return OpInvalid, fmt.Errorf("unknown prefix operator: %q", text)
}

// ParsePostfixOperator maps source text to a postfix operator.
func ParsePostfixOperator(text string) (Operator, error) {
	for _, op := range PostfixOperators {
		if operatorText[op] == text {
			return op, nil
		}
	}
	return OpInvalid, fmt.Errorf("unknown postfix operator: %q", text)
}
