package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func member(name string, t Type) *MessageMemberDecl {
	return &MessageMemberDecl{Name: name, Type: t}
}

func TestBuiltinTable(t *testing.T) {
	tests := []struct {
		name string
		size int
		kind BuiltinKind
	}{
		{"bool", 1, KindBool},
		{"int_8", 1, KindSigned},
		{"int_64", 8, KindSigned},
		{"uint_16", 2, KindUnsigned},
		{"uint_32", 4, KindUnsigned},
		{"float_32", 4, KindFloat},
		{"float_64", 8, KindFloat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, ok := NewBuiltin(tt.name, Coord{Line: 3})
			require.True(t, ok)
			assert.Equal(t, tt.size, b.MaxMessageSize())
			assert.Equal(t, tt.size, b.Alignment())
			assert.Equal(t, tt.kind, b.Kind)
			assert.True(t, b.IsMessageSizeFixed())
			assert.Equal(t, 3, b.Pos().Line)
		})
	}

	_, ok := NewBuiltin("uint_128", Coord{})
	assert.False(t, ok)
	assert.Panics(t, func() { MustBuiltin("char") })
	assert.Equal(t, 255, MustBuiltin("uint_8").MaxLength())
}

func TestMessageSizes(t *testing.T) {
	// structure P { uint_16 x, uint_16 y }
	p := &MessageDecl{Name: "P", Members: []*MessageMemberDecl{
		member("x", MustBuiltin("uint_16")),
		member("y", MustBuiltin("uint_16")),
	}}
	assert.Equal(t, 4, p.MinMessageSize())
	assert.Equal(t, 4, p.MaxMessageSize())
	assert.True(t, p.IsMessageSizeFixed())
	assert.Equal(t, 2, p.Alignment())
	assert.True(t, p.AreAllRepresentationsValid())

	// structure S { uint_8 tag, string[uint_8] name }
	s := &MessageDecl{Name: "S", Members: []*MessageMemberDecl{
		member("tag", MustBuiltin("uint_8")),
		member("name", &PascalStringType{LengthType: MustBuiltin("uint_8"), MaxLength: 255}),
	}}
	assert.Equal(t, 2, s.MinMessageSize())
	assert.Equal(t, 2+255, s.MaxMessageSize())
	assert.False(t, s.IsMessageSizeFixed())
	assert.True(t, s.AreAllRepresentationsValid())

	empty := &MessageDecl{Name: "Empty"}
	assert.Zero(t, empty.MaxMessageSize())
	assert.Equal(t, 1, empty.Alignment())
}

func TestVariableArrayValidity(t *testing.T) {
	bounded := &VariableArrayType{
		MemberType:           MustBuiltin("uint_16"),
		LengthType:           MustBuiltin("uint_8"),
		MaxLength:            3,
		MaxLengthIsSpecified: true,
	}
	assert.Equal(t, 1, bounded.MinMessageSize())
	assert.Equal(t, 1+3*2, bounded.MaxMessageSize())
	assert.Equal(t, 2, bounded.Alignment())
	assert.False(t, bounded.AreAllRepresentationsValid())
	assert.True(t, LengthNeedsUpperBound(bounded.LengthType, bounded.MaxLength))
	assert.False(t, LengthNeedsLowerBound(bounded.LengthType))

	full := &VariableArrayType{MemberType: MustBuiltin("uint_8"), LengthType: MustBuiltin("uint_8"), MaxLength: 255}
	assert.True(t, full.AreAllRepresentationsValid())
}

func TestUnionSizes(t *testing.T) {
	a := &MessageDecl{Name: "A", Members: []*MessageMemberDecl{member("v", MustBuiltin("uint_32"))}}
	u := &UnionDecl{
		Name:           "U",
		TagStorageType: MustBuiltin("uint_8"),
		InvalidTag:     255,
		Members: []*UnionMember{
			{Name: "a", Type: &CompoundType{Decl: a}, Tag: 0},
			{Name: "b", Type: MustBuiltin("uint_8"), Tag: 1},
		},
	}
	assert.Equal(t, 2, u.MinMessageSize())
	assert.Equal(t, 5, u.MaxMessageSize())
	assert.False(t, u.IsMessageSizeFixed())
	assert.Equal(t, 1, u.Alignment())
	assert.False(t, u.AreAllRepresentationsValid())

	ct := &CompoundType{Decl: u}
	assert.True(t, ct.IsUnion())
	assert.False(t, ct.IsMessage())

	empty := &UnionDecl{Name: "E", TagStorageType: MustBuiltin("uint_8")}
	assert.Equal(t, 1, empty.MinMessageSize())
	assert.Equal(t, 1, empty.MaxMessageSize())
}

func TestFullyQualifiedNames(t *testing.T) {
	anki := &NamespaceDecl{Name: "Anki"}
	vector := &NamespaceDecl{Name: "Vector", Parent: anki}
	color := &EnumDecl{Name: "Color", Namespace: vector, StorageType: MustBuiltin("uint_8")}
	robot := &MessageDecl{Name: "Robot", Namespace: vector}
	top := &MessageDecl{Name: "Top"}

	assert.Equal(t, []string{"Anki", "Vector"}, vector.Path())
	assert.Equal(t, "Anki::Vector::Color", color.FullyQualifiedName())
	assert.Equal(t, "Anki::Vector::Robot", (&CompoundType{Decl: robot}).FullyQualifiedName())
	assert.Equal(t, "Top", top.FullyQualifiedName())

	defined := &DefinedType{Decl: color}
	assert.Equal(t, "Color", defined.Name())
	assert.Equal(t, 1, defined.MaxMessageSize())

	farray := &FixedArrayType{MemberType: defined, Length: "4", Count: 4}
	assert.Equal(t, "Anki::Vector::Color[4]", farray.FullyQualifiedName())
	assert.Equal(t, 4, farray.MaxMessageSize())
}

func TestWalk(t *testing.T) {
	included := &DeclList{Decls: []Decl{&UnionDecl{Name: "Shared"}}}
	ns := &NamespaceDecl{Name: "N"}
	ns.Decls = []Decl{
		&EnumDecl{Name: "E", Namespace: ns, StorageType: MustBuiltin("uint_8")},
		&UnionDecl{Name: "U", Namespace: ns},
		&MessageDecl{Name: "M", Namespace: ns, ObjectType: "structure"},
	}
	decls := []Decl{&IncludeDecl{Name: "shared.clad", File: included}, ns}

	unions := Unions(decls)
	require.Len(t, unions, 1)
	assert.Equal(t, "N::U", unions[0].FullyQualifiedName())

	assert.Len(t, Objects(decls, false), 2)
	assert.Len(t, Objects(decls, true), 3)

	counts := Count(decls)
	assert.Equal(t, 1, counts["structure"])
	assert.Equal(t, 1, counts["namespace"])
	assert.Equal(t, 1, counts["include"])

	summaries := Summarize(decls)
	require.Len(t, summaries, 2)
	assert.Equal(t, "include", summaries[0].Kind)
	assert.Equal(t, "Shared", summaries[0].Children[0].Name)
	assert.Equal(t, "N::E", summaries[1].Children[0].Name)
}
