package ast

import (
	"fmt"
	"math"
)

// Type is a member type. Sizes are serialized byte counts.
type Type interface {
	Node
	Name() string
	FullyQualifiedName() string
	MinMessageSize() int
	MaxMessageSize() int
	IsMessageSizeFixed() bool
	Alignment() int
	AreAllRepresentationsValid() bool
}

// BuiltinKind classifies primitives
type BuiltinKind int

const (
	KindBool BuiltinKind = iota
	KindSigned
	KindUnsigned
	KindFloat
)

// BuiltinType is a fixed-width primitive such as uint_16 or float_32
type BuiltinType struct {
	Coord Coord
	name  string
	Kind  BuiltinKind
	Size  int    // Bytes on the wire
	Min   int64  // Smallest representable value (integers)
	Max   uint64 // Largest representable value (integers)
}

var builtins = map[string]BuiltinType{
	"bool":     {name: "bool", Kind: KindBool, Size: 1, Min: 0, Max: 1},
	"int_8":    {name: "int_8", Kind: KindSigned, Size: 1, Min: math.MinInt8, Max: math.MaxInt8},
	"int_16":   {name: "int_16", Kind: KindSigned, Size: 2, Min: math.MinInt16, Max: math.MaxInt16},
	"int_32":   {name: "int_32", Kind: KindSigned, Size: 4, Min: math.MinInt32, Max: math.MaxInt32},
	"int_64":   {name: "int_64", Kind: KindSigned, Size: 8, Min: math.MinInt64, Max: math.MaxInt64},
	"uint_8":   {name: "uint_8", Kind: KindUnsigned, Size: 1, Max: math.MaxUint8},
	"uint_16":  {name: "uint_16", Kind: KindUnsigned, Size: 2, Max: math.MaxUint16},
	"uint_32":  {name: "uint_32", Kind: KindUnsigned, Size: 4, Max: math.MaxUint32},
	"uint_64":  {name: "uint_64", Kind: KindUnsigned, Size: 8, Max: math.MaxUint64},
	"float_32": {name: "float_32", Kind: KindFloat, Size: 4},
	"float_64": {name: "float_64", Kind: KindFloat, Size: 8},
}

// IsBuiltin reports whether name is a primitive type name
func IsBuiltin(name string) bool {
	_, ok := builtins[name]
	return ok
}

// NewBuiltin returns the primitive called name positioned at coord.
// The second result is false for names outside the primitive table.
func NewBuiltin(name string, coord Coord) (*BuiltinType, bool) {
	b, ok := builtins[name]
	if !ok {
		return nil, false
	}
	b.Coord = coord
	return &b, true
}

// MustBuiltin is NewBuiltin for names known at compile time
func MustBuiltin(name string) *BuiltinType {
	b, ok := NewBuiltin(name, Coord{})
	if !ok {
		panic(fmt.Sprintf("ast: %q is not a builtin type", name))
	}
	return b
}

func (t *BuiltinType) Pos() Coord                       { return t.Coord }
func (t *BuiltinType) Name() string                     { return t.name }
func (t *BuiltinType) FullyQualifiedName() string       { return t.name }
func (t *BuiltinType) MinMessageSize() int              { return t.Size }
func (t *BuiltinType) MaxMessageSize() int              { return t.Size }
func (t *BuiltinType) IsMessageSizeFixed() bool         { return true }
func (t *BuiltinType) Alignment() int                   { return t.Size }
func (t *BuiltinType) AreAllRepresentationsValid() bool { return true }

// MaxLength is the largest count this type can carry as a length prefix
func (t *BuiltinType) MaxLength() int {
	if t.Max > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(t.Max)
}

// DefinedType references an enum; it is laid out as the enum's storage type
type DefinedType struct {
	Coord Coord
	Decl  *EnumDecl
}

func (t *DefinedType) Pos() Coord                       { return t.Coord }
func (t *DefinedType) Name() string                     { return t.Decl.Name }
func (t *DefinedType) FullyQualifiedName() string       { return t.Decl.FullyQualifiedName() }
func (t *DefinedType) MinMessageSize() int              { return t.Decl.StorageType.Size }
func (t *DefinedType) MaxMessageSize() int              { return t.Decl.StorageType.Size }
func (t *DefinedType) IsMessageSizeFixed() bool         { return true }
func (t *DefinedType) Alignment() int                   { return t.Decl.StorageType.Alignment() }
func (t *DefinedType) AreAllRepresentationsValid() bool { return true }

// Compound is a message or union usable as a member type
type Compound interface {
	Scoped
	MinMessageSize() int
	MaxMessageSize() int
	IsMessageSizeFixed() bool
	Alignment() int
	AreAllRepresentationsValid() bool
}

// CompoundType references a message or union
type CompoundType struct {
	Coord Coord
	Decl  Compound
}

func (t *CompoundType) Pos() Coord                       { return t.Coord }
func (t *CompoundType) Name() string                     { return t.Decl.DeclName() }
func (t *CompoundType) FullyQualifiedName() string       { return t.Decl.FullyQualifiedName() }
func (t *CompoundType) MinMessageSize() int              { return t.Decl.MinMessageSize() }
func (t *CompoundType) MaxMessageSize() int              { return t.Decl.MaxMessageSize() }
func (t *CompoundType) IsMessageSizeFixed() bool         { return t.Decl.IsMessageSizeFixed() }
func (t *CompoundType) Alignment() int                   { return t.Decl.Alignment() }
func (t *CompoundType) AreAllRepresentationsValid() bool { return t.Decl.AreAllRepresentationsValid() }

// IsUnion reports whether the referenced declaration is a union
func (t *CompoundType) IsUnion() bool {
	_, ok := t.Decl.(*UnionDecl)
	return ok
}

// IsMessage reports whether the referenced declaration is a message or structure
func (t *CompoundType) IsMessage() bool {
	_, ok := t.Decl.(*MessageDecl)
	return ok
}

// PascalStringType is a length-prefixed byte string
type PascalStringType struct {
	Coord      Coord
	LengthType *BuiltinType
	MaxLength  int
}

func (t *PascalStringType) Pos() Coord   { return t.Coord }
func (t *PascalStringType) Name() string { return "string" }
func (t *PascalStringType) FullyQualifiedName() string {
	return fmt.Sprintf("string[%s:%d]", t.LengthType.Name(), t.MaxLength)
}
func (t *PascalStringType) MinMessageSize() int      { return t.LengthType.Size }
func (t *PascalStringType) MaxMessageSize() int      { return t.LengthType.Size + t.MaxLength }
func (t *PascalStringType) IsMessageSizeFixed() bool { return false }
func (t *PascalStringType) Alignment() int           { return t.LengthType.Alignment() }
func (t *PascalStringType) AreAllRepresentationsValid() bool {
	return lengthAlwaysValid(t.LengthType, t.MaxLength)
}

// FixedArrayType is N consecutive elements without a length prefix
type FixedArrayType struct {
	Coord      Coord
	MemberType Type
	Length     string // Verbatim, either an integer literal or a symbolic expression
	Count      int    // Evaluated element count
	Symbolic   bool   // Length is an expression the C++ compiler resolves
}

func (t *FixedArrayType) Pos() Coord   { return t.Coord }
func (t *FixedArrayType) Name() string { return fmt.Sprintf("%s[%s]", t.MemberType.Name(), t.Length) }
func (t *FixedArrayType) FullyQualifiedName() string {
	return fmt.Sprintf("%s[%s]", t.MemberType.FullyQualifiedName(), t.Length)
}
func (t *FixedArrayType) MinMessageSize() int { return t.Count * t.MemberType.MinMessageSize() }
func (t *FixedArrayType) MaxMessageSize() int { return t.Count * t.MemberType.MaxMessageSize() }
func (t *FixedArrayType) IsMessageSizeFixed() bool {
	return t.MemberType.IsMessageSizeFixed()
}
func (t *FixedArrayType) Alignment() int { return t.MemberType.Alignment() }
func (t *FixedArrayType) AreAllRepresentationsValid() bool {
	return t.MemberType.AreAllRepresentationsValid()
}

// VariableArrayType is a length prefix followed by that many elements
type VariableArrayType struct {
	Coord                Coord
	MemberType           Type
	LengthType           *BuiltinType
	MaxLength            int
	MaxLengthIsSpecified bool
}

func (t *VariableArrayType) Pos() Coord { return t.Coord }
func (t *VariableArrayType) Name() string {
	return fmt.Sprintf("%s[%s]", t.MemberType.Name(), t.LengthType.Name())
}
func (t *VariableArrayType) FullyQualifiedName() string {
	return fmt.Sprintf("%s[%s:%d]", t.MemberType.FullyQualifiedName(), t.LengthType.Name(), t.MaxLength)
}
func (t *VariableArrayType) MinMessageSize() int { return t.LengthType.Size }
func (t *VariableArrayType) MaxMessageSize() int {
	return t.LengthType.Size + t.MaxLength*t.MemberType.MaxMessageSize()
}
func (t *VariableArrayType) IsMessageSizeFixed() bool { return false }
func (t *VariableArrayType) Alignment() int {
	return max(t.LengthType.Alignment(), t.MemberType.Alignment())
}
func (t *VariableArrayType) AreAllRepresentationsValid() bool {
	return t.MemberType.AreAllRepresentationsValid() && lengthAlwaysValid(t.LengthType, t.MaxLength)
}

// lengthAlwaysValid reports whether every value of a length prefix is within [0, maxLength]
func lengthAlwaysValid(lengthType *BuiltinType, maxLength int) bool {
	return lengthType.Min >= 0 && lengthType.Max <= uint64(maxLength)
}

// LengthNeedsLowerBound reports whether a signed length prefix must be checked against 0
func LengthNeedsLowerBound(lengthType *BuiltinType) bool {
	return lengthType.Min < 0
}

// LengthNeedsUpperBound reports whether a length prefix can exceed maxLength
func LengthNeedsUpperBound(lengthType *BuiltinType, maxLength int) bool {
	return lengthType.Max > uint64(maxLength)
}

// Message sizes

func (d *MessageDecl) MinMessageSize() int {
	total := 0
	for _, m := range d.Members {
		total += m.Type.MinMessageSize()
	}
	return total
}

func (d *MessageDecl) MaxMessageSize() int {
	total := 0
	for _, m := range d.Members {
		total += m.Type.MaxMessageSize()
	}
	return total
}

func (d *MessageDecl) IsMessageSizeFixed() bool {
	for _, m := range d.Members {
		if !m.Type.IsMessageSizeFixed() {
			return false
		}
	}
	return true
}

func (d *MessageDecl) Alignment() int {
	alignment := 1
	for _, m := range d.Members {
		alignment = max(alignment, m.Type.Alignment())
	}
	return alignment
}

func (d *MessageDecl) AreAllRepresentationsValid() bool {
	for _, m := range d.Members {
		if !m.Type.AreAllRepresentationsValid() {
			return false
		}
	}
	return true
}

// Union sizes include the leading tag byte

func (d *UnionDecl) tagSize() int {
	if d.TagStorageType == nil {
		return 1
	}
	return d.TagStorageType.Size
}

func (d *UnionDecl) MinMessageSize() int {
	if len(d.Members) == 0 {
		return d.tagSize()
	}
	smallest := d.Members[0].Type.MinMessageSize()
	for _, m := range d.Members[1:] {
		smallest = min(smallest, m.Type.MinMessageSize())
	}
	return d.tagSize() + smallest
}

func (d *UnionDecl) MaxMessageSize() int {
	largest := 0
	for _, m := range d.Members {
		largest = max(largest, m.Type.MaxMessageSize())
	}
	return d.tagSize() + largest
}

func (d *UnionDecl) IsMessageSizeFixed() bool {
	return d.MinMessageSize() == d.MaxMessageSize()
}

func (d *UnionDecl) Alignment() int { return 1 }

// AreAllRepresentationsValid is false for unions: an out-of-range tag is always representable
func (d *UnionDecl) AreAllRepresentationsValid() bool { return false }
