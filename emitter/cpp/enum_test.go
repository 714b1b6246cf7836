package cpp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/clad/clad/ast"
)

func enumDecl(t *testing.T, source string) *ast.EnumDecl {
	t.Helper()
	list := parseSchema(t, source)
	require.NotEmpty(t, list.Decls)
	d, ok := list.Decls[0].(*ast.EnumDecl)
	require.True(t, ok)
	return d
}

func TestDeclareEnum(t *testing.T) {
	d := enumDecl(t, `enum uint_8 Color { Red, Green = 0x10, Blue }`)
	out := render(Options{}, func(e *emitter) { e.declareEnum(d) })

	assert.Contains(t, out, "#define CLAD_CPP_WARN_UNUSED_RESULT __attribute__((warn_unused_result))")
	assert.Contains(t, out, lines(
		"// ENUM Color",
		"enum class Color : uint8_t {",
		"\tRed   = 0,",
		"\tGreen = 0x10,",
		"\tBlue  = 17,",
		"};",
	))
	assert.Contains(t, out, "inline const char* ColorToString(const Color m) { return EnumToString(m); }")
	assert.Contains(t, out, "CLAD_CPP_WARN_UNUSED_RESULT bool ColorFromString(const std::string& str, Color& enumOutput);")
	assert.Contains(t, out, "Color ColorFromString(const std::string&);")
	assert.Contains(t, out, "extern const char* ColorVersionHashStr;\nextern const uint8_t ColorVersionHash[16];")
	assert.Contains(t, out, "constexpr uint8_t ColorNumEntries = 3;")
	assert.Contains(t, out, lines(
		"constexpr uint8_t EnumToUnderlyingType(Color e)",
		"{",
		"  return static_cast<uint8_t>(e);",
		"}",
	))
}

func TestDeclarePlainEnum(t *testing.T) {
	d := enumDecl(t, `enum no_cpp_class int_16 Mode { Off = -1, On }`)
	out := render(Options{}, func(e *emitter) { e.declareEnum(d) })

	assert.Contains(t, out, "enum Mode : int16_t {\n\tOff = -1,\n\tOn  = 0,\n};")
	assert.NotContains(t, out, "enum class")
}

func TestEnumUnderlyingTypeIgnoresIndentation(t *testing.T) {
	d := enumDecl(t, `enum uint_8 Color { Red }`)
	out := render(Options{}, func(e *emitter) {
		defer e.s.Indent(1)()
		e.declareEnum(d)
	})

	assert.Contains(t, out, "\t// ENUM Color\n")
	assert.Contains(t, out, "\nconstexpr uint8_t EnumToUnderlyingType(Color e)\n{\n  return")
}

func TestDefineEnum(t *testing.T) {
	d := enumDecl(t, `enum dupes_allowed uint_8 Color { Red, Green, Verde = 1 }`)
	out := render(Options{}, func(e *emitter) { e.defineEnum(d) })

	assert.Contains(t, out, lines(
		"const char* EnumToString(const Color m)",
		"{",
		"\tswitch(m) {",
		"\t\tcase Color::Red:",
		"\t\t\treturn \"Red\";",
		"\t\tcase Color::Green:",
		"\t\t\treturn \"Green\";",
		"\t\tdefault: return nullptr;",
		"\t}",
		"\treturn nullptr;",
		"}",
	))
	// Duplicates can still be parsed from strings
	assert.Contains(t, out, "\t\t{\"Verde\", Color::Verde},\n")
	assert.Contains(t, out, "const char* ColorVersionHashStr = \""+d.HashStr+"\";")
	assert.Contains(t, out, "const uint8_t ColorVersionHash[16] = {\n\t0x")
	assert.Contains(t, out, "\t\tassert(false && \"string must be a valid Color value\");\n\t\treturn Color::Red;\n")
}

func TestEnumConcept(t *testing.T) {
	list := parseSchema(t, `
enum uint_8 Color { Red, Green }
enum_concept float_32 ColorBrightness[Color] { Red = 0.5, Green = 1 }`)
	var concept *ast.EnumConceptDecl
	for _, d := range list.Decls {
		if c, ok := d.(*ast.EnumConceptDecl); ok {
			concept = c
		}
	}
	require.NotNil(t, concept)

	header := render(Options{}, func(e *emitter) { e.declareEnumConcept(concept) })
	assert.Equal(t, "float ColorBrightness(const Color& color, const float& defaultValue);\n\n", header)

	source := render(Options{}, func(e *emitter) { e.defineEnumConcept(concept) })
	assert.Equal(t, lines(
		"float ColorBrightness(const Color& color, const float& defaultValue)",
		"{",
		"\tswitch(color) {",
		"\t\tcase Color::Red:",
		"\t\t\treturn 0.5;",
		"\t\tcase Color::Green:",
		"\t\t\treturn 1;",
		"\t\tdefault:",
		"\t\t\treturn defaultValue;",
		"\t}",
		"}",
	)+"\n", source)
}
