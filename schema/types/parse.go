package types

import (
	"fmt"
	"strings"
)

// ParseValueType converts a keyword spelling into a ValueType. An empty name is Void.
func ParseValueType(name string) (ValueType, error) {
	trimmed := strings.TrimSpace(name)
	switch strings.ToLower(trimmed) {
	case "", "void":
		return Void, nil
	case "integer", "int":
		return Integer, nil
	case "float":
		return Float, nil
	case "string":
		return String, nil
	case "key":
		return Key, nil
	case "vector":
		return Vector, nil
	case "rotation", "quaternion":
		return Rotation, nil
	case "list":
		return List, nil
	}
	return Void, fmt.Errorf("unknown value type: %q", trimmed)
}

// MustParseValueType is like ParseValueType but panics on unknown names.
// It is intended for tables built at init time.
func MustParseValueType(name string) ValueType {
	t, err := ParseValueType(name)
	if err != nil {
		panic(err)
	}
	return t
}
