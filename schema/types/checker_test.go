package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOperand struct {
	typ    ValueType
	broken bool
}

func (f fakeOperand) Type() ValueType { return f.typ }
func (f fakeOperand) HasErrors() bool { return f.broken }

func listSpecialCase(left ValueType, op Operator, right ValueType) (ValueType, bool) {
	if left != List && right != List {
		return Void, false
	}
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
	return Void, false
}

func TestBinaryTableHasNoDuplicateRows(t *testing.T) {
	seen := make(map[binaryKey]bool)
	for _, rule := range binaryRules {
		key := binaryKey{rule.Left, rule.Op, rule.Right}
		assert.False(t, seen[key], "duplicate row %s %s %s", rule.Left, rule.Op, rule.Right)
		seen[key] = true
		assert.NotEqual(t, List, rule.Left, "list rows belong to the special cases")
		assert.NotEqual(t, List, rule.Right, "list rows belong to the special cases")
	}
}

func TestBinaryCoversEveryCombination(t *testing.T) {
	for _, left := range AllValueTypes {
		for _, op := range BinaryOperators {
			for _, right := range AllValueTypes {
				result, ok := Binary(left, op, right)

				if special, specialOK := listSpecialCase(left, op, right); specialOK {
					assert.True(t, ok, "%s %s %s", left, op, right)
					assert.Equal(t, special, result, "%s %s %s", left, op, right)
					continue
				}

				expected, inTable := binaryIndex[binaryKey{left, op, right}]
				assert.Equal(t, inTable, ok, "%s %s %s", left, op, right)
				if inTable {
					assert.Equal(t, expected, result, "%s %s %s", left, op, right)
				} else {
					assert.Equal(t, Void, result, "%s %s %s", left, op, right)
				}
			}
		}
	}
}

func TestBinaryNeverAcceptsVoidOperands(t *testing.T) {
	for _, op := range BinaryOperators {
		for _, other := range AllValueTypes {
			if other == List && op == OpAddAssign {
				continue
			}
			_, ok := Binary(Void, op, other)
			assert.False(t, ok, "void %s %s", op, other)
		}
	}
}

func TestBinaryKnownResults(t *testing.T) {
	tests := []struct {
		left   ValueType
		op     Operator
		right  ValueType
		result ValueType
		valid  bool
	}{
		{Integer, OpAdd, Float, Float, true},
		{Integer, OpAdd, Integer, Integer, true},
		{Vector, OpMultiply, Integer, Vector, true},
		{Vector, OpMultiply, Float, Vector, true},
		{Vector, OpMultiply, Vector, Float, true},
		{Rotation, OpMultiply, Rotation, Rotation, true},
		{String, OpEquals, String, Integer, true},
		{String, OpEquals, Key, Integer, true},
		{Key, OpEquals, String, Integer, true},
		{Rotation, OpAdd, Integer, Void, false},
		{String, OpSubtract, String, Void, false},
		{Key, OpAdd, Key, Void, false},
		{Integer, OpMultiplyAssign, Float, Integer, true},
		{Integer, OpAddAssign, Float, Void, false},
		{Float, OpAssign, Integer, Float, true},
		{Integer, OpAssign, Float, Void, false},
		{Key, OpAssign, String, Key, true},
		{Vector, OpModulus, Vector, Vector, true},
		{Integer, OpShiftLeft, Integer, Integer, true},
		{Float, OpBitAnd, Float, Void, false},
	}

	for _, tt := range tests {
		result, ok := Binary(tt.left, tt.op, tt.right)
		assert.Equal(t, tt.valid, ok, "%s %s %s", tt.left, tt.op, tt.right)
		assert.Equal(t, tt.result, result, "%s %s %s", tt.left, tt.op, tt.right)
	}
}

func TestBinaryListAbsorption(t *testing.T) {
	result, ok := Binary(List, OpAdd, Integer)
	assert.True(t, ok)
	assert.Equal(t, List, result)

	result, ok = Binary(Integer, OpAdd, List)
	assert.True(t, ok)
	assert.Equal(t, List, result)

	result, ok = Binary(List, OpAddAssign, List)
	assert.True(t, ok)
	assert.Equal(t, List, result)

	result, ok = Binary(List, OpEquals, List)
	assert.True(t, ok)
	assert.Equal(t, Integer, result)

	result, ok = Binary(List, OpNotEquals, List)
	assert.True(t, ok)
	assert.Equal(t, Integer, result)

	result, ok = Binary(List, OpAssign, List)
	assert.True(t, ok)
	assert.Equal(t, List, result)

	_, ok = Binary(List, OpSubtract, Integer)
	assert.False(t, ok)

	_, ok = Binary(List, OpAssign, Integer)
	assert.False(t, ok)

	_, ok = Binary(Integer, OpAddAssign, List)
	assert.False(t, ok)
}

func TestPrefixAndPostfix(t *testing.T) {
	for _, typ := range []ValueType{Integer, Float, Vector, Rotation} {
		result, ok := Prefix(OpNegate, typ)
		assert.True(t, ok, "-%s", typ)
		assert.Equal(t, typ, result)
	}

	_, ok := Prefix(OpNegate, String)
	assert.False(t, ok)

	_, ok = Prefix(OpLogicalNot, Float)
	assert.False(t, ok)

	result, ok := Prefix(OpBitNot, Integer)
	assert.True(t, ok)
	assert.Equal(t, Integer, result)

	result, ok = Postfix(Float, OpIncrement)
	assert.True(t, ok)
	assert.Equal(t, Float, result)

	_, ok = Postfix(Vector, OpDecrement)
	assert.False(t, ok)

	_, ok = Postfix(Integer, OpNegate)
	assert.False(t, ok)
}

func TestCast(t *testing.T) {
	result, ok := Cast(List, Integer)
	assert.True(t, ok)
	assert.Equal(t, List, result)

	result, ok = Cast(List, List)
	assert.True(t, ok)
	assert.Equal(t, List, result)

	for _, target := range AllValueTypes {
		_, ok := Cast(target, List)
		expected := target == List || target == String
		assert.Equal(t, expected, ok, "(%s) list", target)
	}

	for _, source := range AllValueTypes {
		_, ok := Cast(source, Void)
		assert.False(t, ok)
		_, ok = Cast(Void, source)
		assert.False(t, ok)
	}

	_, ok = Cast(Key, Integer)
	assert.False(t, ok)

	_, ok = Cast(Vector, Rotation)
	assert.False(t, ok)
}

func TestErrorOperandsShortCircuit(t *testing.T) {
	good := fakeOperand{typ: Integer}
	bad := fakeOperand{typ: Integer, broken: true}

	_, ok := ValidateBinary(bad, OpAdd, good)
	assert.False(t, ok)
	_, ok = ValidateBinary(good, OpAdd, bad)
	assert.False(t, ok)
	_, ok = ValidateBinary(fakeOperand{typ: List, broken: true}, OpAddAssign, good)
	assert.False(t, ok)
	_, ok = ValidatePrefix(OpNegate, bad)
	assert.False(t, ok)
	_, ok = ValidatePostfix(bad, OpIncrement)
	assert.False(t, ok)
	_, ok = ValidateCast(String, bad)
	assert.False(t, ok)

	assert.False(t, ValidConditionalOperand(bad))
	assert.False(t, ValidVectorComponent(bad))
	assert.False(t, ValidRotationComponent(bad))
	assert.False(t, ValidListElement(bad))

	result, ok := ValidateBinary(good, OpAdd, good)
	require.True(t, ok)
	assert.Equal(t, Integer, result)
}

func TestContainerElements(t *testing.T) {
	assert.True(t, ValidVectorComponent(fakeOperand{typ: Integer}))
	assert.True(t, ValidVectorComponent(fakeOperand{typ: Float}))
	assert.False(t, ValidVectorComponent(fakeOperand{typ: String}))
	assert.False(t, ValidRotationComponent(fakeOperand{typ: Vector}))

	assert.True(t, ValidListElement(fakeOperand{typ: Key}))
	assert.True(t, ValidListElement(fakeOperand{typ: Rotation}))
	assert.False(t, ValidListElement(fakeOperand{typ: List}))
	assert.False(t, ValidListElement(fakeOperand{typ: Void}))
}

func TestConditionalContext(t *testing.T) {
	for _, typ := range AllValueTypes {
		assert.Equal(t, typ != Void, ValidConditionalContext(typ), typ.String())
	}
}
