// Package types provides the value type domain and the expression type checker for LSL
package types

// ValueType represents one of the primitive value types of the language
type ValueType int

const (
	// Void is the absence of a value (function returns only)
	Void ValueType = iota

	// Integer is a signed 32 bit integer
	Integer

	// Float is a single precision float
	Float

	// String is a text string
	String

	// Key is a UUID-shaped string
	Key

	// Vector is a 3 component float vector
	Vector

	// Rotation is a 4 component float quaternion
	Rotation

	// List is a heterogeneous list of non-list values
	List
)

// AllValueTypes lists every value type, Void included, in declaration order.
var AllValueTypes = []ValueType{Void, Integer, Float, String, Key, Vector, Rotation, List}

// String returns the keyword spelling of the type
func (t ValueType) String() string {
	switch t {
	case Void:
		return "void"
	case Integer:
		return "integer"
	case Float:
		return "float"
	case String:
		return "string"
	case Key:
		return "key"
	case Vector:
		return "vector"
	case Rotation:
		return "rotation"
	case List:
		return "list"
	default:
		return "unknown"
	}
}

// IsNumeric returns true for integer and float
func (t ValueType) IsNumeric() bool {
	return t == Integer || t == Float
}

// IsStringLike returns true for string and key, which convert into each other implicitly
func (t ValueType) IsStringLike() bool {
	return t == String || t == Key
}

// IsValid reports whether t is one of the declared value types
func (t ValueType) IsValid() bool {
	return t >= Void && t <= List
}

// MarshalText implements encoding.TextMarshaler
func (t ValueType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (t *ValueType) UnmarshalText(text []byte) error {
	parsed, err := ParseValueType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// IsAssignable reports whether a value of type src may be stored in a slot of type dst
// without an explicit cast. This covers declarations, returns and call arguments.
func IsAssignable(dst, src ValueType) bool {
	if dst == Void || src == Void {
		return false
	}
	if dst == src {
		return true
	}
	if dst == Float && src == Integer {
		return true
	}
	return dst.IsStringLike() && src.IsStringLike()
}
