package cpp

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/teranos/clad/clad/ast"
	"github.com/teranos/clad/emitter/output"
)

const statementSchema = `
enum uint_8 Color { Red, Green }
union U { uint_8 a }
structure Point { float_32 x, float_32 y }
structure Blob { string s }
message Sample {
	uint_16 id,
	Color color,
	Point at,
	string name,
	string[uint_16:300] label,
	uint_8 fixed[4],
	Point corners[2],
	string tags[2],
	U us[2],
	uint_16 xs[uint_8:10],
	Point path[uint_8],
	Blob blobs[uint_8:3],
	string words[uint_8:4],
}`

func TestMemberStatements(t *testing.T) {
	sample := message(t, parseSchema(t, statementSchema), "Sample")
	types := map[string]ast.Type{}
	for _, m := range sample.Members {
		types[m.Name] = m.Type
	}

	tests := []struct {
		member   string
		pack     string
		unpack   string
		size     string
		validity string
	}{
		{
			member:   "id",
			pack:     "buffer.Write(this->id);\n",
			unpack:   "buffer.Read(this->id);\n",
			size:     "result += 2; // uint_16\n",
			validity: "true",
		},
		{
			member:   "color",
			pack:     "buffer.Write(this->color);\n",
			unpack:   "buffer.Read(this->color);\n",
			size:     "result += 1; // Color\n",
			validity: "true",
		},
		{
			member:   "at",
			pack:     "this->at.Pack(buffer);\n",
			unpack:   "this->at.Unpack(buffer);\n",
			size:     "result += this->at.Size(); // Point\n",
			validity: "this->at.IsValid()",
		},
		{
			member:   "name",
			pack:     "buffer.WritePString<uint8_t>(this->name);\n",
			unpack:   "buffer.ReadPString<uint8_t>(this->name);\n",
			size:     lines("result += 1; // uint_8 (name_length)", "result += this->name.size(); // char"),
			validity: "true",
		},
		{
			member:   "label",
			pack:     "buffer.WritePString<uint16_t>(this->label);\n",
			unpack:   "buffer.ReadPString<uint16_t>(this->label);\n",
			size:     lines("result += 2; // uint_16 (label_length)", "result += this->label.size(); // char"),
			validity: "this->label.size() <= 300",
		},
		{
			member:   "fixed",
			pack:     "buffer.WriteFArray<uint8_t, 4>(this->fixed);\n",
			unpack:   "buffer.ReadFArray<uint8_t, 4>(this->fixed);\n",
			size:     "result += 1 * 4; // uint_8 * 4\n",
			validity: "true",
		},
		{
			member:   "corners",
			pack:     lines("for (const Point& m : this->corners) {", "\tm.Pack(buffer);", "}"),
			unpack:   "buffer.ReadCompoundTypeFArray<Point, 2>(this->corners);\n",
			size:     "result += 8 * 2; // Point * 2\n",
			validity: "true",
		},
		{
			member:   "tags",
			pack:     "buffer.WritePStringFArray<2, uint8_t>(this->tags);\n",
			unpack:   "buffer.ReadPStringFArray<2, uint8_t>(this->tags);\n",
			validity: "true",
		},
		{
			member:   "us",
			pack:     lines("for (const U& m : this->us) {", "\tm.Pack(buffer);", "}"),
			unpack:   "buffer.ReadCompoundTypeFArray<U, 2>(this->us);\n",
			size:     "result += 2 * 2; // U * 2\n",
			validity: "std::all_of(this->us.begin(), this->us.end(), [](const U& m) { return m.IsValid(); })",
		},
		{
			member:   "xs",
			pack:     "buffer.WriteVArray<uint16_t, uint8_t>(this->xs);\n",
			unpack:   "buffer.ReadVArray<uint16_t, uint8_t>(this->xs);\n",
			size:     lines("result += 1; // uint_8 (xs_length)", "result += 2 * this->xs.size(); // uint_16"),
			validity: "this->xs.size() <= 10",
		},
		{
			member: "path",
			pack: lines(
				"buffer.Write(static_cast<uint8_t>(this->path.size()));",
				"for (const Point& m : this->path) {",
				"\tm.Pack(buffer);",
				"}"),
			unpack:   "buffer.ReadCompoundTypeVArray<Point, uint8_t>(this->path);\n",
			size:     lines("result += 1; // uint_8 (path_length)", "result += 8 * this->path.size(); // Point"),
			validity: "true",
		},
		{
			member: "blobs",
			unpack: "buffer.ReadCompoundTypeVArray<Blob, uint8_t>(this->blobs);\n",
			size: lines(
				"result += 1; // uint_8 (blobs_length)",
				"for (const Blob& m : this->blobs) {",
				"\tresult += m.Size();",
				"}"),
			validity: "this->blobs.size() <= 3",
		},
		{
			member:   "words",
			pack:     "buffer.WritePStringVArray<uint8_t, uint8_t>(this->words);\n",
			unpack:   "buffer.ReadPStringVArray<uint8_t, uint8_t>(this->words);\n",
			validity: "this->words.size() <= 4",
		},
	}
	for _, tt := range tests {
		t.Run(tt.member, func(t *testing.T) {
			typ := types[tt.member]
			emit := func(write func(*output.Sink, ast.Type, string)) string {
				s := output.NewSink()
				write(s, typ, tt.member)
				return s.String()
			}
			if tt.pack != "" {
				assert.Equal(t, tt.pack, emit(writePack))
			}
			if tt.unpack != "" {
				assert.Equal(t, tt.unpack, emit(writeUnpack))
			}
			if tt.size != "" {
				assert.Equal(t, tt.size, emit(writeSize))
			}
			assert.Equal(t, tt.validity, validity(typ, tt.member))
		})
	}
}

func TestStatementsFollowIndentation(t *testing.T) {
	sample := message(t, parseSchema(t, statementSchema), "Sample")
	s := output.NewSink()
	restore := s.Indent(1)
	writePack(s, sample.Members[6].Type, "corners")
	restore()
	assert.Equal(t, lines("\tfor (const Point& m : this->corners) {", "\t\tm.Pack(buffer);", "\t}"), s.String())
}

func TestZeroValues(t *testing.T) {
	list := parseSchema(t, `
namespace Anki {
enum uint_8 Color { Red }
structure Point { float_32 x, float_32 y }
structure Pose no_default_constructor { Point at, Color c, string name, uint_8 xs[2] }
structure Target { Pose pose, uint_8 id }
}`)
	target := message(t, list, "Target")

	assert.False(t, allMembersHaveDefaultConstructor(target))
	assert.Equal(t, ": pose(Anki::Point(0, 0), {}, \"\", {})", explicitInitializers(target))
	assert.Equal(t, "Anki::Pose(Anki::Point(0, 0), {}, \"\", {}), 0", zeroArguments(target))

	point := message(t, list, "Point")
	assert.True(t, allMembersHaveDefaultConstructor(point))
	assert.Equal(t, "", explicitInitializers(point))
}
