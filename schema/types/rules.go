package types

// binaryRule is one row of the binary operator table: Left Op Right yields Result.
type binaryRule struct {
	Left   ValueType
	Op     Operator
	Right  ValueType
	Result ValueType
}

// unaryRule is one row of the prefix or postfix operator table.
type unaryRule struct {
	Op      Operator
	Operand ValueType
	Result  ValueType
}

// castRule allows an explicit cast from Source to Target.
type castRule struct {
	Target ValueType
	Source ValueType
}

// binaryRules covers every valid binary and assignment combination except the list
// special cases handled in Binary.
var binaryRules = []binaryRule{
	// arithmetic
	{Integer, OpAdd, Integer, Integer},
	{Integer, OpAdd, Float, Float},
	{Float, OpAdd, Integer, Float},
	{Float, OpAdd, Float, Float},
	{String, OpAdd, String, String},
	{Vector, OpAdd, Vector, Vector},
	{Rotation, OpAdd, Rotation, Rotation},

	{Integer, OpSubtract, Integer, Integer},
	{Integer, OpSubtract, Float, Float},
	{Float, OpSubtract, Integer, Float},
	{Float, OpSubtract, Float, Float},
	{Vector, OpSubtract, Vector, Vector},
	{Rotation, OpSubtract, Rotation, Rotation},

	{Integer, OpMultiply, Integer, Integer},
	{Integer, OpMultiply, Float, Float},
	{Float, OpMultiply, Integer, Float},
	{Float, OpMultiply, Float, Float},
	{Vector, OpMultiply, Vector, Float},
	{Vector, OpMultiply, Integer, Vector},
	{Vector, OpMultiply, Float, Vector},
	{Integer, OpMultiply, Vector, Vector},
	{Float, OpMultiply, Vector, Vector},
	{Vector, OpMultiply, Rotation, Vector},
	{Rotation, OpMultiply, Rotation, Rotation},

	{Integer, OpDivide, Integer, Integer},
	{Integer, OpDivide, Float, Float},
	{Float, OpDivide, Integer, Float},
	{Float, OpDivide, Float, Float},
	{Vector, OpDivide, Integer, Vector},
	{Vector, OpDivide, Float, Vector},
	{Vector, OpDivide, Rotation, Vector},
	{Rotation, OpDivide, Rotation, Rotation},

	{Integer, OpModulus, Integer, Integer},
	{Vector, OpModulus, Vector, Vector},

	// bitwise and shifts
	{Integer, OpBitAnd, Integer, Integer},
	{Integer, OpBitOr, Integer, Integer},
	{Integer, OpBitXor, Integer, Integer},
	{Integer, OpShiftLeft, Integer, Integer},
	{Integer, OpShiftRight, Integer, Integer},

	// logical
	{Integer, OpLogicalAnd, Integer, Integer},
	{Integer, OpLogicalOr, Integer, Integer},

	// equality
	{Integer, OpEquals, Integer, Integer},
	{Integer, OpEquals, Float, Integer},
	{Float, OpEquals, Integer, Integer},
	{Float, OpEquals, Float, Integer},
	{String, OpEquals, String, Integer},
	{Key, OpEquals, Key, Integer},
	{String, OpEquals, Key, Integer},
	{Key, OpEquals, String, Integer},
	{Vector, OpEquals, Vector, Integer},
	{Rotation, OpEquals, Rotation, Integer},

	{Integer, OpNotEquals, Integer, Integer},
	{Integer, OpNotEquals, Float, Integer},
	{Float, OpNotEquals, Integer, Integer},
	{Float, OpNotEquals, Float, Integer},
	{String, OpNotEquals, String, Integer},
	{Key, OpNotEquals, Key, Integer},
	{String, OpNotEquals, Key, Integer},
	{Key, OpNotEquals, String, Integer},
	{Vector, OpNotEquals, Vector, Integer},
	{Rotation, OpNotEquals, Rotation, Integer},

	// relational
	{Integer, OpLessThan, Integer, Integer},
	{Integer, OpLessThan, Float, Integer},
	{Float, OpLessThan, Integer, Integer},
	{Float, OpLessThan, Float, Integer},
	{Integer, OpGreaterThan, Integer, Integer},
	{Integer, OpGreaterThan, Float, Integer},
	{Float, OpGreaterThan, Integer, Integer},
	{Float, OpGreaterThan, Float, Integer},
	{Integer, OpLessEquals, Integer, Integer},
	{Integer, OpLessEquals, Float, Integer},
	{Float, OpLessEquals, Integer, Integer},
	{Float, OpLessEquals, Float, Integer},
	{Integer, OpGreaterEquals, Integer, Integer},
	{Integer, OpGreaterEquals, Float, Integer},
	{Float, OpGreaterEquals, Integer, Integer},
	{Float, OpGreaterEquals, Float, Integer},

	// plain assignment
	{Integer, OpAssign, Integer, Integer},
	{Float, OpAssign, Float, Float},
	{Float, OpAssign, Integer, Float},
	{String, OpAssign, String, String},
	{String, OpAssign, Key, String},
	{Key, OpAssign, Key, Key},
	{Key, OpAssign, String, Key},
	{Vector, OpAssign, Vector, Vector},
	{Rotation, OpAssign, Rotation, Rotation},

	// compound assignment
	{Integer, OpAddAssign, Integer, Integer},
	{Float, OpAddAssign, Float, Float},
	{Float, OpAddAssign, Integer, Float},
	{String, OpAddAssign, String, String},
	{Vector, OpAddAssign, Vector, Vector},
	{Rotation, OpAddAssign, Rotation, Rotation},

	{Integer, OpSubtractAssign, Integer, Integer},
	{Float, OpSubtractAssign, Float, Float},
	{Float, OpSubtractAssign, Integer, Float},
	{Vector, OpSubtractAssign, Vector, Vector},
	{Rotation, OpSubtractAssign, Rotation, Rotation},

	{Integer, OpMultiplyAssign, Integer, Integer},
	{Integer, OpMultiplyAssign, Float, Integer},
	{Float, OpMultiplyAssign, Float, Float},
	{Float, OpMultiplyAssign, Integer, Float},
	{Vector, OpMultiplyAssign, Integer, Vector},
	{Vector, OpMultiplyAssign, Float, Vector},
	{Vector, OpMultiplyAssign, Rotation, Vector},
	{Rotation, OpMultiplyAssign, Rotation, Rotation},

	{Integer, OpDivideAssign, Integer, Integer},
	{Float, OpDivideAssign, Float, Float},
	{Float, OpDivideAssign, Integer, Float},
	{Vector, OpDivideAssign, Integer, Vector},
	{Vector, OpDivideAssign, Float, Vector},
	{Vector, OpDivideAssign, Rotation, Vector},
	{Rotation, OpDivideAssign, Rotation, Rotation},

	{Integer, OpModulusAssign, Integer, Integer},
	{Vector, OpModulusAssign, Vector, Vector},
}

// prefixRules: negation is defined component-wise for vectors and rotations.
var prefixRules = []unaryRule{
	{OpNegate, Integer, Integer},
	{OpNegate, Float, Float},
	{OpNegate, Vector, Vector},
	{OpNegate, Rotation, Rotation},
	{OpLogicalNot, Integer, Integer},
	{OpBitNot, Integer, Integer},
	{OpIncrement, Integer, Integer},
	{OpIncrement, Float, Float},
	{OpDecrement, Integer, Integer},
	{OpDecrement, Float, Float},
}

var postfixRules = []unaryRule{
	{OpIncrement, Integer, Integer},
	{OpIncrement, Float, Float},
	{OpDecrement, Integer, Integer},
	{OpDecrement, Float, Float},
}

// castRules: casting to list wraps the value, it does not convert it.
var castRules = []castRule{
	{Integer, Integer},
	{Integer, Float},
	{Integer, String},

	{Float, Integer},
	{Float, Float},
	{Float, String},

	{String, Integer},
	{String, Float},
	{String, String},
	{String, Key},
	{String, Vector},
	{String, Rotation},
	{String, List},

	{Key, String},
	{Key, Key},

	{Vector, String},
	{Vector, Vector},

	{Rotation, String},
	{Rotation, Rotation},

	{List, Integer},
	{List, Float},
	{List, String},
	{List, Key},
	{List, Vector},
	{List, Rotation},
	{List, List},
}
