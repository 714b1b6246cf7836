package cpp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/clad/clad/ast"
	"github.com/teranos/clad/errors"
)

func TestTypeMappings(t *testing.T) {
	list := parseSchema(t, `
namespace Anki {
enum uint_8 Color { Red, Green }
structure Point { float_32 x, float_32 y }
structure Sample {
	bool on,
	uint_16 id,
	float_64 weight,
	Color color,
	Point where,
	string name,
	uint_8 bytes[uint_16:100],
	Point corners[4],
	uint_8 slots[ColorNumEntries],
}
}`)
	sample := message(t, list, "Sample")
	member := func(name string) ast.Type {
		for _, m := range sample.Members {
			if m.Name == name {
				return m.Type
			}
		}
		t.Fatalf("member %s not found", name)
		return nil
	}

	tests := []struct {
		member     string
		value      string
		parameter  string
		destructor string
		trivial    bool
	}{
		{"on", "bool", "bool", "bool", true},
		{"id", "uint16_t", "uint16_t", "uint16_t", true},
		{"weight", "double", "double", "double", true},
		{"color", "Anki::Color", "Anki::Color", "Color", true},
		{"where", "Anki::Point", "const Anki::Point&", "Point", false},
		{"name", "std::string", "const std::string&", "basic_string", false},
		{"bytes", "std::vector<uint8_t>", "const std::vector<uint8_t>&", "vector<uint8_t>", false},
		{"corners", "std::array<Anki::Point, 4>", "const std::array<Anki::Point, 4>&", "array<Anki::Point, 4>", false},
		{"slots", "std::array<uint8_t, static_cast<size_t>(ColorNumEntries)>",
			"const std::array<uint8_t, static_cast<size_t>(ColorNumEntries)>&",
			"array<uint8_t, static_cast<size_t>(ColorNumEntries)>", false},
	}
	for _, tt := range tests {
		t.Run(tt.member, func(t *testing.T) {
			typ := member(tt.member)
			assert.Equal(t, tt.value, ValueType(typ))
			assert.Equal(t, tt.parameter, ParameterType(typ))
			assert.Equal(t, tt.destructor, DestructorType(typ))
			assert.Equal(t, tt.trivial, IsTrivial(typ))
		})
	}
}

func TestTypeMappingCoversEveryBuiltin(t *testing.T) {
	for name := range TypeMapping {
		assert.True(t, ast.IsBuiltin(name), name)
		_, ok := JSONAccessors[name]
		assert.True(t, ok, "%s has no JSON accessor", name)
	}
}

func TestJSONAccessor(t *testing.T) {
	method, ok := JSONAccessor(ast.MustBuiltin("int_64"))
	assert.True(t, ok)
	assert.Equal(t, "asInt64()", method)

	method, ok = JSONAccessor(&ast.PascalStringType{LengthType: ast.MustBuiltin("uint_8"), MaxLength: 255})
	assert.True(t, ok)
	assert.Equal(t, "asString()", method)

	_, ok = JSONAccessor(&ast.FixedArrayType{MemberType: ast.MustBuiltin("uint_8"), Length: "2", Count: 2})
	assert.False(t, ok)
}

func TestUnknownPrimitiveAborts(t *testing.T) {
	var err error
	func() {
		defer recoverAbort(&err)
		ValueType(&ast.BuiltinType{})
	}()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUnknownPrimitive))
	assert.True(t, errors.HasAssertionFailure(err))
	assert.Contains(t, err.Error(), "was expected to be a primitive type, but is not")
}

func TestRecoverAbortRepanicsOtherPanics(t *testing.T) {
	assert.PanicsWithValue(t, "boom", func() {
		var err error
		defer recoverAbort(&err)
		panic("boom")
	})
}

func TestLiteralText(t *testing.T) {
	u8 := ast.MustBuiltin("uint_8")
	f32 := ast.MustBuiltin("float_32")
	tests := []struct {
		name string
		typ  ast.Type
		lit  *ast.Literal
		want string
	}{
		{"decimal", u8, &ast.Literal{Kind: ast.LiteralDec, Text: "7", Int: 7}, "7"},
		{"hex", u8, &ast.Literal{Kind: ast.LiteralHex, Text: "0x1F", Int: 31}, "0x1f"},
		{"negative hex", u8, &ast.Literal{Kind: ast.LiteralHex, Text: "-0x10", Int: -16}, "-0x10"},
		{"bool", ast.MustBuiltin("bool"), &ast.Literal{Kind: ast.LiteralBool, Text: "true"}, "true"},
		{"float", f32, &ast.Literal{Kind: ast.LiteralFloat, Text: "1.50", Float: 1.5}, "1.5"},
		{"integer expression", u8, &ast.Literal{Kind: ast.LiteralExpr, Text: "A + 1", Int: 3}, "3"},
		{"float expression", f32, &ast.Literal{Kind: ast.LiteralExpr, Text: "1 / 4", Float: 0.25}, "0.25"},
		{"string", &ast.PascalStringType{LengthType: u8, MaxLength: 255},
			&ast.Literal{Kind: ast.LiteralExpr, Text: `"red"`}, `"red"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, literalText(tt.typ, tt.lit))
		})
	}
}
