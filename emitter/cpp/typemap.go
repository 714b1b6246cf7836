package cpp

import (
	"fmt"

	"github.com/teranos/clad/clad/ast"
	"github.com/teranos/clad/errors"
)

const (
	byteType = "uint8_t"
	sizeType = "uint32_t"
)

// TypeMapping defines how CLAD primitives map to C++ types
var TypeMapping = map[string]string{
	"bool":     "bool",
	"int_8":    "int8_t",
	"int_16":   "int16_t",
	"int_32":   "int32_t",
	"int_64":   "int64_t",
	"uint_8":   "uint8_t",
	"uint_16":  "uint16_t",
	"uint_32":  "uint32_t",
	"uint_64":  "uint64_t",
	"float_32": "float",
	"float_64": "double",
}

// JSONAccessors maps CLAD primitives to the jsoncpp Json::Value accessor that reads them
var JSONAccessors = map[string]string{
	"bool":     "asBool()",
	"int_8":    "asInt()",
	"int_16":   "asInt()",
	"int_32":   "asInt()",
	"int_64":   "asInt64()",
	"uint_8":   "asUInt()",
	"uint_16":  "asUInt()",
	"uint_32":  "asUInt()",
	"uint_64":  "asUInt64()",
	"float_32": "asFloat()",
	"float_64": "asDouble()",
}

// unknownPrimitive aborts generation. A builtin outside the tables means the
// parser and the emitter disagree about the primitive set; Generate recovers it.
func unknownPrimitive(t *ast.BuiltinType) {
	fail(errors.Mark(
		errors.AssertionFailedf("%s was expected to be a primitive type, but is not", t.Name()),
		errors.ErrUnknownPrimitive))
}

func primitive(t *ast.BuiltinType) string {
	name, ok := TypeMapping[t.Name()]
	if !ok {
		unknownPrimitive(t)
	}
	return name
}

// ValueType returns the owning C++ representation of t
func ValueType(t ast.Type) string {
	switch t := t.(type) {
	case *ast.BuiltinType:
		return primitive(t)
	case *ast.PascalStringType:
		return "std::string"
	case *ast.VariableArrayType:
		return fmt.Sprintf("std::vector<%s>", ValueType(t.MemberType))
	case *ast.FixedArrayType:
		return fmt.Sprintf("std::array<%s, %s>", ValueType(t.MemberType), arrayLength(t))
	default:
		return t.FullyQualifiedName()
	}
}

// arrayLength renders a fixed array's length. Symbolic lengths are left for
// the C++ compiler to resolve.
func arrayLength(t *ast.FixedArrayType) string {
	if t.Symbolic {
		return fmt.Sprintf("static_cast<size_t>(%s)", t.Length)
	}
	return t.Length
}

// DestructorType returns the name used in an explicit destructor call on a
// union storage slot, e.g. _name.~basic_string()
func DestructorType(t ast.Type) string {
	switch t := t.(type) {
	case *ast.BuiltinType:
		return primitive(t)
	case *ast.PascalStringType:
		return "basic_string"
	case *ast.VariableArrayType:
		return fmt.Sprintf("vector<%s>", ValueType(t.MemberType))
	case *ast.FixedArrayType:
		return fmt.Sprintf("array<%s, %s>", ValueType(t.MemberType), arrayLength(t))
	default:
		return t.Name()
	}
}

// IsTrivial reports whether t is copied by value: primitives and enums
func IsTrivial(t ast.Type) bool {
	switch t.(type) {
	case *ast.BuiltinType, *ast.DefinedType:
		return true
	}
	return false
}

// ParameterType returns how t is passed to generated functions
func ParameterType(t ast.Type) string {
	if IsTrivial(t) {
		return ValueType(t)
	}
	return "const " + ValueType(t) + "&"
}

// LengthMemberName names the length prefix of a variable-length member
func LengthMemberName(member string) string {
	return member + "_length"
}

// JSONAccessor returns the Json::Value accessor for t, or false for types
// that need per-kind dispatch (enums, compounds, arrays)
func JSONAccessor(t ast.Type) (string, bool) {
	switch t := t.(type) {
	case *ast.BuiltinType:
		method, ok := JSONAccessors[t.Name()]
		if !ok {
			unknownPrimitive(t)
		}
		return method, true
	case *ast.PascalStringType:
		return "asString()", true
	}
	return "", false
}

// isStructure reports whether t references a message declared with the structure keyword
func isStructure(t ast.Type) bool {
	c, ok := t.(*ast.CompoundType)
	if !ok {
		return false
	}
	m, ok := c.Decl.(*ast.MessageDecl)
	return ok && m.ObjectType == "structure"
}
