package cpp

import (
	"strings"

	"github.com/teranos/clad/clad/ast"
	"github.com/teranos/clad/emitter/output"
	"github.com/teranos/clad/internal/util"
)

func objectType(d *ast.MessageDecl) string {
	if d.ObjectType == "" {
		return "MESSAGE"
	}
	return strings.ToUpper(d.ObjectType)
}

// emitsJSON reports whether JSON round-trip code is generated for a message
func (e *emitter) emitsJSON(d *ast.MessageDecl) bool {
	return e.opts.JSON && d.ObjectType == "structure" && d.DefaultConstructor && allMembersHaveDefaultConstructor(d)
}

func (e *emitter) declareStructure(d *ast.MessageDecl) {
	s := e.s
	name := d.Name

	s.Linef("// %s %s", objectType(d), name)
	s.Linef("struct %s", name)
	s.Line("{")
	restore := s.Indent(1)

	// Members
	if len(d.Members) == 0 {
		s.Line("// To conform to C99 standard (6.7.2.1)")
		s.Line("char _empty;")
	}
	rows := make([][]string, len(d.Members))
	for i, m := range d.Members {
		decl := m.Name + ";"
		if m.Init != nil {
			decl = m.Name + " = " + literalText(m.Type, m.Init) + ";"
		}
		rows[i] = []string{ValueType(m.Type) + " ", decl}
	}
	s.WriteWithAlignedWhitespace(rows)
	s.Write("\n")

	// Constructors
	s.Line("/**** Constructors ****/")
	if d.DefaultConstructor && allMembersHaveDefaultConstructor(d) {
		s.Linef("%s() = default;", name)
	}
	s.Linef("%[1]s(const %[1]s& other) = default;", name)
	s.Linef("%[1]s(%[1]s& other) = default;", name)
	s.Linef("%[1]s(%[1]s&& other) noexcept = default;", name)
	s.Linef("%[1]s& operator=(const %[1]s& other) = default;", name)
	s.Linef("%[1]s& operator=(%[1]s&& other) = default;", name)
	s.Write("\n")

	if len(d.Members) > 0 {
		params := make([]string, len(d.Members))
		for i, m := range d.Members {
			params[i] = "\t" + ParameterType(m.Type) + " " + m.Name
		}
		s.Linef("explicit %s(", name)
		s.Write(strings.Join(params, ",\n"))
		s.Write(")\n")
		for i, m := range d.Members {
			sep := ","
			if i == 0 {
				sep = ":"
			}
			s.Linef("%s %s(%s)", sep, m.Name, m.Name)
		}
		s.Line("{}")
		s.Write("\n")
	}

	s.Linef("explicit %s(const uint8_t* buff, size_t len);", name)
	s.Linef("explicit %s(const CLAD::SafeMessageBuffer& buffer);", name)
	s.Write("\n")

	s.Write(`/**** Pack ****/
size_t Pack(uint8_t* buff, size_t len) const;
size_t Pack(CLAD::SafeMessageBuffer& buffer) const;

/**** Unpack ****/
size_t Unpack(const uint8_t* buff, const size_t len);
size_t Unpack(const CLAD::SafeMessageBuffer& buffer);

`)

	s.Line("/**** Cast to/from buffer, adjusting any padding. ****/")
	s.Linef("inline %[1]s* GetBuffer() { return reinterpret_cast<%[1]s*>(this); }", byteType)
	s.Linef("inline const %[1]s* GetBuffer() const { return reinterpret_cast<const %[1]s*>(this); }", byteType)
	s.Write("\n")

	s.Line("/**** Check if current message is parsable. ****/")
	if d.AreAllRepresentationsValid() {
		s.Line("bool IsValid() const { return true; }")
	} else {
		s.Line("bool IsValid() const;")
	}
	s.Write("\n")

	e.declareSize(d)

	s.Linef("bool operator==(const %s& other) const;", name)
	s.Linef("bool operator!=(const %s& other) const;", name)

	names := make([]string, len(d.Members))
	for i, m := range d.Members {
		names[i] = m.Name
	}
	s.Write("\n")
	s.Line("template <typename Callable>")
	s.Line("void Invoke(Callable&& func) const {")
	s.Linef("\tfunc(%s);", strings.Join(names, ", "))
	s.Line("}")

	if d.ObjectType == "structure" && e.opts.Properties {
		e.declareProperties(d)
	}
	if e.emitsJSON(d) {
		s.Write("\n")
		e.declareJSON()
	}

	restore()
	s.Write("};\n\n")
	e.declareVersionHash(name)
}

// declareSize writes the size bounds and the Size() accessor, inline when fixed
func (e *emitter) declareSize(d ast.Compound) {
	s := e.s
	s.Line("/**** Serialized size, starting from GetBuffer(). ****/")
	s.Linef("static const %s MAX_SIZE = %d;", sizeType, d.MaxMessageSize())
	s.Linef("static const %s MIN_SIZE = %d;", sizeType, d.MinMessageSize())
	if d.IsMessageSizeFixed() {
		// A fixed-size union reports MAX_SIZE even while its tag is INVALID
		s.Linef("inline %s Size() const { return %d; }", sizeType, d.MaxMessageSize())
	} else {
		s.Linef("%s Size() const;", sizeType)
	}
	s.Write("\n")
}

func (e *emitter) declareProperties(d *ast.MessageDecl) {
	s := e.s
	s.Write("\n")
	s.Line("/**** Properties ****/")
	for _, m := range d.Members {
		typ := "const " + ValueType(m.Type) + "&"
		if _, ok := m.Type.(*ast.BuiltinType); ok {
			typ = ValueType(m.Type)
		}
		pretty := util.PrettifyName(m.Name)
		s.Linef("%s Get%s() const { return %s; };", typ, pretty, m.Name)
		s.Linef("void Set%s(%s __value) { %s = __value; };", pretty, typ, m.Name)
		s.Write("\n")
	}
}

func (e *emitter) declareJSON() {
	e.s.Write(`/**** JSON ****/
Json::Value GetJSON() const;
bool SetFromJSON(const Json::Value& json);

`)
}

func (e *emitter) defineStructure(d *ast.MessageDecl) {
	s := e.s
	name := d.Name

	s.Linef("// %s %s", objectType(d), name)
	s.Write("\n")

	// Buffer constructors
	s.Linef("%[1]s::%[1]s(const CLAD::SafeMessageBuffer& buffer)", name)
	if !allMembersHaveDefaultConstructor(d) {
		if inits := explicitInitializers(d); inits != "" {
			s.Line(inits)
		}
	}
	s.Line("{")
	s.Line("\tUnpack(buffer);")
	s.Line("}")
	s.Write("\n")
	s.Linef("%[1]s::%[1]s(const uint8_t* buff, size_t len)", name)
	s.Linef(": %[1]s::%[1]s({const_cast<uint8_t*>(buff), len, false})", name)
	s.Line("{")
	s.Line("}")
	s.Write("\n")

	// Pack
	s.Linef("size_t %s::Pack(uint8_t* buff, size_t len) const", name)
	s.Line("{")
	s.Line("\tCLAD::SafeMessageBuffer buffer(buff, len, false);")
	s.Line("\treturn Pack(buffer);")
	s.Line("}")
	s.Write("\n")
	s.Linef("size_t %s::Pack(CLAD::SafeMessageBuffer& buffer) const", name)
	s.Line("{")
	restore := s.Indent(1)
	for _, m := range d.Members {
		writePack(s, m.Type, m.Name)
	}
	restore()
	s.Line("\tconst size_t bytesWritten {buffer.GetBytesWritten()};")
	s.Line("\treturn bytesWritten;")
	s.Line("}")
	s.Write("\n")

	// Unpack
	s.Linef("size_t %s::Unpack(const uint8_t* buff, const size_t len)", name)
	s.Line("{")
	s.Line("\tconst CLAD::SafeMessageBuffer buffer(const_cast<uint8_t*>(buff), len, false);")
	s.Line("\treturn Unpack(buffer);")
	s.Line("}")
	s.Write("\n")
	s.Linef("size_t %s::Unpack(const CLAD::SafeMessageBuffer& buffer)", name)
	s.Line("{")
	restore = s.Indent(1)
	for _, m := range d.Members {
		writeUnpack(s, m.Type, m.Name)
	}
	restore()
	s.Line("\treturn buffer.GetBytesRead();")
	s.Line("}")
	s.Write("\n")

	if !d.AreAllRepresentationsValid() {
		var checks []string
		for _, m := range d.Members {
			if !m.Type.AreAllRepresentationsValid() {
				checks = append(checks, validity(m.Type, m.Name))
			}
		}
		s.Linef("bool %s::IsValid() const", name)
		s.Line("{")
		s.Line("\treturn (")
		restore = s.Indent(2)
		s.Write(strings.Join(checks, " &&\n"))
		restore()
		s.Write(");\n")
		s.Line("}")
		s.Write("\n")
	}

	if !d.IsMessageSizeFixed() {
		s.Linef("%s %s::Size() const", sizeType, name)
		s.Line("{")
		s.Linef("\t%s result = 0;", sizeType)
		restore = s.Indent(1)
		for _, m := range d.Members {
			s.Linef("// %s", m.Name)
			writeSize(s, m.Type, m.Name)
		}
		restore()
		s.Line("\treturn result;")
		s.Line("}")
		s.Write("\n")
	}

	// Equality
	s.Linef("bool %[1]s::operator==(const %[1]s& other) const", name)
	s.Line("{")
	if len(d.Members) == 0 {
		s.Line("\treturn true;")
	} else {
		comparisons := make([]string, len(d.Members))
		for i, m := range d.Members {
			comparisons[i] = "this->" + m.Name + " == other." + m.Name
		}
		s.Write("\treturn (")
		restore = s.Indent(2)
		s.Write(strings.Join(comparisons, " &&\n"))
		restore()
		s.Write(");\n")
	}
	s.Line("}")
	s.Write("\n")
	s.Linef("bool %[1]s::operator!=(const %[1]s& other) const", name)
	s.Line("{")
	s.Line("\treturn !(operator==(other));")
	s.Line("}")
	s.Write("\n")

	if e.emitsJSON(d) {
		e.defineStructureJSON(d)
	}

	e.defineVersionHash(d, name, d.HashStr)
}

// jsonValue renders the expression stored into a Json::Value for one value of t
func jsonValue(t ast.Type, expr string) string {
	switch t.(type) {
	case *ast.DefinedType:
		return "EnumToString(" + expr + ")"
	case *ast.CompoundType:
		return expr + ".GetJSON()"
	}
	return expr
}

func (e *emitter) defineStructureJSON(d *ast.MessageDecl) {
	s := e.s

	s.Linef("Json::Value %s::GetJSON() const", d.Name)
	s.Line("{")
	s.Line("\tJson::Value root;")
	s.Write("\n")
	restore := s.Indent(1)
	for _, m := range d.Members {
		key := util.JSONName(m.Name)
		element, isArray := arrayElement(m.Type)
		if !isArray {
			s.Linef("root[\"%s\"] = %s;", key, jsonValue(m.Type, m.Name))
			continue
		}
		// std::vector<bool> elements are proxies and cannot bind to const auto&
		rangeType, cast := "const auto&", ""
		if b, ok := element.(*ast.BuiltinType); ok && b.Kind == ast.KindBool {
			rangeType, cast = "auto", "(bool)"
		}
		s.Linef("for(%s value : %s) {", rangeType, m.Name)
		s.Linef("\troot[\"%s\"].append(%s%s);", key, cast, jsonValue(element, "value"))
		s.Line("}")
	}
	restore()
	s.Write("\n")
	s.Line("\treturn root;")
	s.Line("}")
	s.Write("\n")

	s.Linef("bool %s::SetFromJSON(const Json::Value& root)", d.Name)
	s.Line("{")
	s.Line("\ttry {")
	restore = s.Indent(2)
	for _, m := range d.Members {
		key := util.JSONName(m.Name)
		s.Linef("if (root.isMember(\"%s\")) {", key)
		inner := s.Indent(1)
		e.readJSONMember(m, key)
		inner()
		s.Line("}")
	}
	restore()
	s.Line("\t}")
	s.Line("\tcatch(Json::LogicError) {")
	s.Line("\t\treturn false;")
	s.Line("\t}")
	s.Write("\n")
	s.Line("\treturn true;")
	s.Line("}")
	s.Write("\n")
}

// readJSONMember writes the statements that assign one member from root[key]
func (e *emitter) readJSONMember(m *ast.MessageMemberDecl, key string) {
	s := e.s
	if method, ok := JSONAccessor(m.Type); ok {
		s.Linef("%s = root[\"%s\"].%s;", m.Name, key, method)
		return
	}
	if element, ok := arrayElement(m.Type); ok {
		s.Linef("auto& json_array = root[\"%s\"];", key)
		if _, variable := m.Type.(*ast.VariableArrayType); variable {
			s.Linef("%s.resize(json_array.size());", m.Name)
		}
		s.Line("for(Json::ArrayIndex i = 0; i < json_array.size(); i++) {")
		restore := s.Indent(1)
		target := m.Name + "[i]"
		if method, ok := JSONAccessor(element); ok {
			s.Linef("%s = json_array[i].%s;", target, method)
		} else if enum, ok := element.(*ast.DefinedType); ok {
			writeFailOn(s, enum.FullyQualifiedName()+"FromString(json_array[i].asString(), "+target+")")
		} else {
			writeFailOn(s, target+".SetFromJSON(json_array[i])")
		}
		restore()
		s.Line("}")
		return
	}
	if enum, ok := m.Type.(*ast.DefinedType); ok {
		writeFailOn(s, enum.FullyQualifiedName()+"FromString(root[\""+key+"\"].asString(), "+m.Name+")")
		return
	}
	writeFailOn(s, m.Name+".SetFromJSON(root[\""+key+"\"])")
}

func writeFailOn(s *output.Sink, call string) {
	s.Line("if (!" + call + ") {")
	s.Line("\treturn false;")
	s.Line("}")
}

// arrayElement returns the element type of fixed and variable arrays
func arrayElement(t ast.Type) (ast.Type, bool) {
	switch t := t.(type) {
	case *ast.FixedArrayType:
		return t.MemberType, true
	case *ast.VariableArrayType:
		return t.MemberType, true
	}
	return nil, false
}
