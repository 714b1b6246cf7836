package cpp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/clad/clad/ast"
	"github.com/teranos/clad/errors"
)

const unionSchema = `
namespace Anki {
structure Point { float_32 x, float_32 y }
union Event {
	uint_8 id,
	Point at = 0x10,
	string name,
}
}`

func TestDeclareUnion(t *testing.T) {
	list := parseSchema(t, unionSchema)
	out := render(Options{}, func(e *emitter) { e.declareUnion(union(t, list, "Event")) })

	assert.Contains(t, out, lines(
		"template<EventTag tag>",
		"struct Event_TagToType;",
		"",
		"template<>",
		"struct Event_TagToType<EventTag::id> {",
		"\tusing type = uint8_t;",
		"};",
		"template<>",
		"struct Event_TagToType<EventTag::at> {",
		"\tusing type = Anki::Point;",
		"};",
	))
	assert.Contains(t, out, lines(
		"// UNION Event",
		"class Event",
		"{",
		"public:",
		"\tusing Tag = EventTag;",
		"\t/**** Constructors ****/",
		"\tEvent() :_tag(Tag::INVALID) { }",
	))
	assert.Contains(t, out, "\t~Event() { ClearCurrent(); }\n\tTag GetTag() const { return _tag; }\n")
	assert.Contains(t, out, lines(
		"\t/** id **/",
		"\tstatic Event Createid(uint8_t&& new_id);",
		"\tuint8_t Get_id() const;",
		"\tvoid Set_id(uint8_t new_id);",
	))
	assert.Contains(t, out, lines(
		"\t/** name **/",
		"\tstatic Event Createname(std::string&& new_name);",
		"\tconst std::string& Get_name() const;",
		"\tvoid Set_name(const std::string& new_name);",
		"\tvoid Set_name(std::string&& new_name);",
	))
	assert.NotContains(t, out, "\tEvent(uint8_t&& new_id);")
	assert.Contains(t, out, "reinterpret_cast<uint8_t*>(&this->_tag)")
	assert.Contains(t, out, "\tbool IsValid() const;\n")
	assert.Contains(t, out, "\tstatic const uint32_t MAX_SIZE = 257;\n\tstatic const uint32_t MIN_SIZE = 2;\n\tuint32_t Size() const;\n")
	assert.Contains(t, out, lines(
		"private:",
		"\tvoid ClearCurrent();",
		"\tTag _tag;",
		"",
		"\tunion {",
		"\t\tuint8_t _id;",
		"\t\tAnki::Point _at;",
		"\t\tstd::string _name;",
		"\t};",
		"};",
		"",
		"extern const char* EventVersionHashStr;",
	))
	assert.NotContains(t, out, "GetJSON")
}

func TestDefineUnion(t *testing.T) {
	list := parseSchema(t, unionSchema)
	out := render(Options{}, func(e *emitter) { e.defineUnion(union(t, list, "Event")) })

	assert.Contains(t, out, lines(
		"Event::Event(const CLAD::SafeMessageBuffer& buff)",
		": _tag(Tag::INVALID)",
		"{",
		"\tUnpack(buff);",
		"}",
	))
	assert.Contains(t, out, lines(
		"Event::Event(const Event& other)",
		": _tag(other._tag)",
		"{",
		"\tswitch(GetTag()) {",
		"\tcase Tag::id:",
		"\t\tthis->_id = other._id;",
		"\t\tbreak;",
		"\tcase Tag::at:",
		"\t\tnew(&(this->_at)) Anki::Point(other._at);",
		"\t\tbreak;",
		"\tcase Tag::name:",
		"\t\tnew(&(this->_name)) std::string(other._name);",
		"\t\tbreak;",
		"\tdefault:",
		"\t\t_tag = Tag::INVALID;",
		"\t\tbreak;",
		"\t}",
		"}",
	))
	assert.Contains(t, out, "\t\tnew(&(this->_name)) std::string(std::move(other._name));\n")
	assert.Contains(t, out, "\t}\n\tother.ClearCurrent();\n\treturn *this;\n}\n")

	// Accessors
	assert.Contains(t, out, lines(
		"Event Event::Createid(uint8_t&& new_id)",
		"{",
		"\tEvent m;",
		"\tm.Set_id(new_id);",
		"\treturn m;",
		"}",
	))
	assert.Contains(t, out, lines(
		"void Event::Set_name(const std::string& new_name)",
		"{",
		"\tif(this->_tag == Tag::name) {",
		"\t\tthis->_name = new_name;",
		"\t}",
		"\telse {",
		"\t\tClearCurrent();",
		"\t\tnew(&this->_name) std::string(new_name);",
		"\t\t_tag = Tag::name;",
		"\t}",
		"}",
	))
	assert.Contains(t, out, "template<>\nconst Anki::Point& Event::Get_<Event::Tag::at>() const\n")
	assert.Contains(t, out, "template<>\nEvent Event::Create_<Event::Tag::at>(Anki::Point member)\n{\n\treturn Createat(std::move(member));\n}\n")
	assert.NotContains(t, out, "void Event::Set_id(uint8_t&& new_id)")

	// Unpack
	assert.Contains(t, out, lines(
		"\tTag newTag {Tag::INVALID};",
		"\tconst Tag oldTag {GetTag()};",
		"\tbuffer.Read(newTag);",
		"\tif (newTag != oldTag) {",
		"\t\tClearCurrent();",
		"\t}",
		"\tswitch(newTag) {",
		"\tcase Tag::id:",
		"\t\tbuffer.Read(this->_id);",
		"\t\tbreak;",
		"\tcase Tag::at:",
		"\t\tif (newTag != oldTag) {",
		"\t\t\tnew(&(this->_at)) Anki::Point(buffer);",
		"\t\t}",
		"\t\telse {",
		"\t\t\tthis->_at.Unpack(buffer);",
		"\t\t}",
		"\t\tbreak;",
		"\tcase Tag::name:",
		"\t\tif (newTag == oldTag) {",
		"\t\t\tClearCurrent();",
		"\t\t}",
		"\t\tnew(&(this->_name)) std::string();",
		"\t\tbuffer.ReadPString<uint8_t>(this->_name);",
		"\t\tbreak;",
		"\tdefault:",
		"\t\tbreak;",
		"\t}",
		"\t_tag = newTag;",
		"\treturn buffer.GetBytesRead();",
	))

	// Pack
	assert.Contains(t, out, lines(
		"\tbuffer.Write(_tag);",
		"\tswitch(GetTag()) {",
		"\tcase Tag::id:",
		"\t\tbuffer.Write(this->_id);",
		"\t\tbreak;",
		"\tcase Tag::at:",
		"\t\tthis->_at.Pack(buffer);",
		"\t\tbreak;",
	))

	// IsValid
	assert.Contains(t, out, lines(
		"bool Event::IsValid() const",
		"{",
		"\tswitch(GetTag()) {",
		"\tcase Tag::id:",
		"\t\treturn true;",
		"\tcase Tag::at:",
		"\t\treturn this->_at.IsValid();",
		"\tcase Tag::name:",
		"\t\treturn true;",
		"\tdefault:",
		"\t\treturn false;",
		"\t}",
		"}",
	))

	// Size
	assert.Contains(t, out, lines(
		"uint32_t Event::Size() const",
		"{",
		"\tuint32_t result = 1; // tag",
		"\tswitch(GetTag()) {",
		"\tcase Tag::id:",
		"\t\tresult += 1; // uint_8",
		"\t\tbreak;",
	))
	assert.Contains(t, out, "\t\tresult += 1; // uint_8 (_name_length)\n\t\tresult += this->_name.size(); // char\n\t\tbreak;\n")

	// Equality
	assert.Contains(t, out, lines(
		"\tif (this->_tag != other._tag) {",
		"\t\treturn false;",
		"\t}",
		"\tswitch(GetTag()) {",
		"\tcase Tag::id:",
		"\t\treturn this->_id == other._id;",
	))

	// ClearCurrent
	assert.Contains(t, out, lines(
		"void Event::ClearCurrent()",
		"{",
		"\tswitch(GetTag()) {",
		"\tcase Tag::id:",
		"\t\tbreak;",
		"\tcase Tag::at:",
		"\t\t_at.~Point();",
		"\t\tbreak;",
		"\tcase Tag::name:",
		"\t\t_name.~basic_string();",
		"\t\tbreak;",
		"\tdefault:",
		"\t\tbreak;",
		"\t}",
		"\t_tag = Tag::INVALID;",
		"}",
	))

	// Tag names
	assert.Contains(t, out, lines(
		"const char* EventTagToString(const EventTag tag) {",
		"\tswitch(tag) {",
		"\tcase EventTag::id:",
		"\t\treturn \"id\";",
		"\tcase EventTag::at:",
		"\t\treturn \"at\";",
		"\tcase EventTag::name:",
		"\t\treturn \"name\";",
		"\tdefault:",
		"\t\treturn \"INVALID\";",
		"\t}",
		"}",
	))
	assert.Contains(t, out, "const char* EventVersionHashStr = \"")
}

func TestUnionHelperConstructors(t *testing.T) {
	list := parseSchema(t, unionSchema)
	event := union(t, list, "Event")
	opts := Options{UnionHelperConstructors: true}

	require.NoError(t, CheckHelperConstructors(list, opts))

	header := render(opts, func(e *emitter) { e.declareUnion(event) })
	assert.Contains(t, header, "\tEvent(uint8_t&& new_id);\n")
	assert.Contains(t, header, "\tEvent(Anki::Point&& new_at);\n")

	source := render(opts, func(e *emitter) { e.defineUnion(event) })
	assert.Contains(t, source, lines(
		"Event::Event(std::string&& new_name)",
		"{",
		"\tnew(&this->_name) std::string(std::move(new_name));",
		"\t_tag = Tag::name;",
		"}",
	))
}

func TestAmbiguousHelperConstructors(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		opts    Options
		wantErr bool
	}{
		{"shared value type", `union U { uint_8 a, uint_8 b }`, Options{UnionHelperConstructors: true}, true},
		{"helpers disabled", `union U { uint_8 a, uint_8 b }`, Options{}, false},
		{"dupes allowed", `union dupes_allowed U { uint_8 a, uint_8 b, string c }`, Options{UnionHelperConstructors: true}, false},
		{"distinct types", `union U { uint_8 a, uint_16 b }`, Options{UnionHelperConstructors: true}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckHelperConstructors(parseSchema(t, tt.source), tt.opts)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrAmbiguousConstructor))
			assert.Contains(t, err.Error(),
				"Type-based helper constructors are being generated, but there are two objects of type uint8_t: a and b.")
			assert.NotEmpty(t, errors.GetAllHints(err))
		})
	}
}

func TestDupesAllowedSkipsSharedHelpers(t *testing.T) {
	list := parseSchema(t, `union dupes_allowed U { uint_8 a, uint_8 b, string c }`)
	out := render(Options{UnionHelperConstructors: true}, func(e *emitter) { e.declareUnion(union(t, list, "U")) })

	assert.NotContains(t, out, "\tU(uint8_t&& new_a);")
	assert.NotContains(t, out, "\tU(uint8_t&& new_b);")
	assert.Contains(t, out, "\tU(std::string&& new_c);\n")
}

func TestUnionJSON(t *testing.T) {
	list := parseSchema(t, unionSchema)
	event := union(t, list, "Event")
	opts := Options{JSON: true}

	header := render(opts, func(e *emitter) { e.declareUnion(event) })
	assert.Contains(t, header, "\tJson::Value GetJSON() const;\n")

	out := render(opts, func(e *emitter) { e.defineUnion(event) })
	assert.Contains(t, out, lines(
		"\tcase Tag::id:",
		"\t\troot[\"value\"] = this->_id;",
		"\t\troot[\"type\"] = \"id\";",
		"\t\tbreak;",
		"\tcase Tag::at:",
		"\t\troot = this->_at.GetJSON();",
		"\t\troot[\"type\"] = \"at\";",
		"\t\tbreak;",
	))
	assert.Contains(t, out, lines(
		"\t\t\telse if(tagStr == \"name\") {",
		"\t\t\t\tnew(&(this->_name)) std::string;",
		"\t\t\t\tthis->_name = json[\"value\"].asString();",
		"\t\t\t\tresult = true;",
		"\t\t\t\t_tag = Tag::name;",
		"\t\t\t}",
	))
	assert.Contains(t, out, "\t\t\t\tresult = this->_at.SetFromJSON(json);\n")
}

func TestUnionJSONUnserializableMember(t *testing.T) {
	list := parseSchema(t, `union U { uint_8 xs[uint_8:4], uint_8 a }`)
	out := render(Options{JSON: true}, func(e *emitter) { e.defineUnion(union(t, list, "U")) })

	assert.Contains(t, out, "\t\t// xs is not serializable.\n\t\troot[\"type\"] = \"xs\";\n")
	assert.Contains(t, out, "\t\t\t\t// xs is not a structure, is not serializable.\n\t\t\t\tresult = false;\n")
}

func TestFixedSizeUnionHasInlineSize(t *testing.T) {
	list := parseSchema(t, `union U { uint_16 a, int_16 b }`)
	u := union(t, list, "U")

	header := render(Options{}, func(e *emitter) { e.declareUnion(u) })
	assert.Contains(t, header, "\tinline uint32_t Size() const { return 3; }\n")

	source := render(Options{}, func(e *emitter) { e.defineUnion(u) })
	assert.NotContains(t, source, "U::Size() const")
}

func TestHelperConstructorCheckReportsUnknownPrimitive(t *testing.T) {
	u := &ast.UnionDecl{
		Name:       "Broken",
		InvalidTag: 255,
		Members: []*ast.UnionMember{
			{Name: "a", Type: &ast.BuiltinType{}},
		},
	}
	list := &ast.DeclList{Decls: []ast.Decl{u}}

	var err error
	assert.NotPanics(t, func() { err = CheckHelperConstructors(list, Options{UnionHelperConstructors: true}) })
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUnknownPrimitive))
}
