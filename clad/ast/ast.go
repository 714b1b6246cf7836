// Package ast defines the CLAD syntax tree consumed by the emitters.
//
// Declarations are produced by the parser with every type reference already
// resolved, so emitters never look names up. Size, alignment and validity
// queries live on the types themselves (see types.go).
package ast

import (
	"strconv"
	"strings"

	"github.com/teranos/clad/errors"
)

// Coord locates a node in its schema file
type Coord = errors.Coord

// Node is any element of the tree
type Node interface {
	Pos() Coord
}

// Decl is a declaration that may appear at file or namespace level
type Decl interface {
	Node
	DeclName() string
	decl()
}

// Scoped is a declaration that lives inside a (possibly empty) namespace chain
type Scoped interface {
	Decl
	FullyQualifiedName() string
}

// DeclList is the ordered content of one schema file
type DeclList struct {
	Coord Coord
	Path  string
	Decls []Decl
}

func (d *DeclList) Pos() Coord { return d.Coord }

// IncludeDecl pulls another schema file into scope
type IncludeDecl struct {
	Coord Coord
	Name  string    // As written, e.g. "shared/color.clad"
	File  *DeclList // Parsed content of the included file
}

func (d *IncludeDecl) Pos() Coord       { return d.Coord }
func (d *IncludeDecl) DeclName() string { return d.Name }
func (*IncludeDecl) decl()              {}

// NamespaceDecl groups declarations under a C++ namespace
type NamespaceDecl struct {
	Coord  Coord
	Name   string
	Parent *NamespaceDecl
	Decls  []Decl
}

func (d *NamespaceDecl) Pos() Coord       { return d.Coord }
func (d *NamespaceDecl) DeclName() string { return d.Name }
func (*NamespaceDecl) decl()              {}

// Path returns the namespace chain from the outermost namespace down to d
func (d *NamespaceDecl) Path() []string {
	if d == nil {
		return nil
	}
	return append(d.Parent.Path(), d.Name)
}

func qualify(ns *NamespaceDecl, name string) string {
	return strings.Join(append(ns.Path(), name), "::")
}

// LiteralKind records how a literal was spelled in the schema
type LiteralKind string

const (
	LiteralDec   LiteralKind = "dec"
	LiteralHex   LiteralKind = "hex"
	LiteralFloat LiteralKind = "float"
	LiteralBool  LiteralKind = "bool"
	LiteralExpr  LiteralKind = "expr" // Symbolic expression, e.g. Color::Blue + 1
)

// Literal is an initializer or enum-concept value
type Literal struct {
	Kind  LiteralKind
	Text  string  // Verbatim source text
	Int   int64   // Evaluated value for dec, hex, bool and expr literals
	Float float64 // Evaluated value for float literals
}

// EnumDecl is an enumeration with a builtin storage type
type EnumDecl struct {
	Coord        Coord
	Name         string
	Namespace    *NamespaceDecl
	StorageType  *BuiltinType
	Members      []*EnumMember
	CppClass     bool // Emitted as "enum class" unless no_cpp_class was given
	DupesAllowed bool
	HashStr      string
}

func (d *EnumDecl) Pos() Coord                 { return d.Coord }
func (d *EnumDecl) DeclName() string           { return d.Name }
func (*EnumDecl) decl()                        {}
func (d *EnumDecl) FullyQualifiedName() string { return qualify(d.Namespace, d.Name) }

// Member returns the member called name, or nil
func (d *EnumDecl) Member(name string) *EnumMember {
	for _, m := range d.Members {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// EnumMember is one enumerator
type EnumMember struct {
	Coord       Coord
	Name        string
	Value       int64
	Initializer *Literal // nil when the value was implied by position
	IsDuplicate bool     // Value repeats an earlier member
}

func (m *EnumMember) Pos() Coord { return m.Coord }

// MessageDecl is a structure or message
type MessageDecl struct {
	Coord              Coord
	Name               string
	Namespace          *NamespaceDecl
	Members            []*MessageMemberDecl
	ObjectType         string // "structure" or "message"
	DefaultConstructor bool
	HashStr            string
}

func (d *MessageDecl) Pos() Coord                 { return d.Coord }
func (d *MessageDecl) DeclName() string           { return d.Name }
func (*MessageDecl) decl()                        {}
func (d *MessageDecl) FullyQualifiedName() string { return qualify(d.Namespace, d.Name) }

// MessageMemberDecl is one field of a message
type MessageMemberDecl struct {
	Coord Coord
	Name  string
	Type  Type
	Init  *Literal
}

func (m *MessageMemberDecl) Pos() Coord { return m.Coord }

const (
	// Union tags are one byte and 255 marks the INVALID state
	UnionTagStorage = "uint_8"
	UnionInvalidTag = 255
)

// UnionDecl is a tagged union
type UnionDecl struct {
	Coord          Coord
	Name           string
	Namespace      *NamespaceDecl
	Members        []*UnionMember
	TagStorageType *BuiltinType
	InvalidTag     int
	DupesAllowed   bool
	HashStr        string
}

func (d *UnionDecl) Pos() Coord                 { return d.Coord }
func (d *UnionDecl) DeclName() string           { return d.Name }
func (*UnionDecl) decl()                        {}
func (d *UnionDecl) FullyQualifiedName() string { return qualify(d.Namespace, d.Name) }

// UnionMember is one alternative of a union
type UnionMember struct {
	Coord         Coord
	Name          string
	Type          Type
	Tag           int
	Init          *Literal // Explicit tag literal, nil when implied
	HasDuplicates bool     // Another member shares this member's value type
}

func (m *UnionMember) Pos() Coord { return m.Coord }

// EnumConceptDecl maps every member of an enum to a value of ReturnType
type EnumConceptDecl struct {
	Coord      Coord
	Name       string
	Namespace  *NamespaceDecl
	Enum       *EnumDecl
	ReturnType Type
	Members    []*EnumConceptMember
	HashStr    string
}

func (d *EnumConceptDecl) Pos() Coord                 { return d.Coord }
func (d *EnumConceptDecl) DeclName() string           { return d.Name }
func (*EnumConceptDecl) decl()                        {}
func (d *EnumConceptDecl) FullyQualifiedName() string { return qualify(d.Namespace, d.Name) }

// EnumName returns the referenced enum as written relative to the concept's namespace
func (d *EnumConceptDecl) EnumName() string {
	if d.Enum.Namespace == d.Namespace {
		return d.Enum.Name
	}
	return d.Enum.FullyQualifiedName()
}

// EnumConceptMember binds one enumerator to a value
type EnumConceptMember struct {
	Coord Coord
	Name  string
	Value *Literal
}

func (m *EnumConceptMember) Pos() Coord { return m.Coord }

// Member is the common view of message and union members used by the checks
type Member interface {
	Node
	MemberName() string
	MemberType() Type
}

func (m *MessageMemberDecl) MemberName() string { return m.Name }
func (m *MessageMemberDecl) MemberType() Type   { return m.Type }
func (m *UnionMember) MemberName() string       { return m.Name }
func (m *UnionMember) MemberType() Type         { return m.Type }

// MembersOf returns the members of a message or union in declaration order
func MembersOf(d Decl) []Member {
	var out []Member
	switch d := d.(type) {
	case *MessageDecl:
		for _, m := range d.Members {
			out = append(out, m)
		}
	case *UnionDecl:
		for _, m := range d.Members {
			out = append(out, m)
		}
	}
	return out
}

func formatInt(v int64) string {
	return strconv.FormatInt(v, 10)
}
