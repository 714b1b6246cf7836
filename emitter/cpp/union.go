package cpp

import (
	"github.com/teranos/clad/clad/ast"
	"github.com/teranos/clad/errors"
	"github.com/teranos/clad/logger"
)

func tagName(u *ast.UnionDecl) string { return u.Name + "Tag" }

func slot(m *ast.UnionMember) string { return "_" + m.Name }

// emitsHelperConstructor reports whether a union member gets a constructor
// taking its value type. Members sharing a value type under dupes_allowed are
// skipped since the overload would be ambiguous.
func (e *emitter) emitsHelperConstructor(u *ast.UnionDecl, m *ast.UnionMember) bool {
	return e.opts.UnionHelperConstructors && (!u.DupesAllowed || !m.HasDuplicates)
}

// CheckHelperConstructors rejects unions where two members would get helper
// constructors with the same parameter type. It only applies when helper
// constructors are enabled.
func CheckHelperConstructors(list *ast.DeclList, opts Options) (err error) {
	if !opts.UnionHelperConstructors {
		return nil
	}
	defer recoverAbort(&err)
	e := &emitter{opts: opts}
	var errs []error
	for _, u := range ast.Unions(list.Decls) {
		seen := map[string]*ast.UnionMember{}
		for _, m := range u.Members {
			if !e.emitsHelperConstructor(u, m) {
				continue
			}
			valueType := ValueType(m.Type)
			if first, ok := seen[valueType]; ok {
				errs = append(errs, errors.WithHint(
					errors.NewDiagnosticf(errors.ErrAmbiguousConstructor, m.Coord,
						"Type-based helper constructors are being generated, but there are two objects of type %s: %s and %s.",
						valueType, first.Name, m.Name),
					"mark the union dupes_allowed or disable union helper constructors"))
				continue
			}
			seen[valueType] = m
		}
	}
	return errors.Combine(errs)
}

func (e *emitter) declareUnion(u *ast.UnionDecl) {
	s := e.s
	name, tag := u.Name, tagName(u)

	s.Line("// \"Lookup Tables\" for getting type by tag using template specializations")
	s.Linef("template<%s tag>", tag)
	s.Linef("struct %s_TagToType;", name)
	s.Write("\n")
	for _, m := range u.Members {
		s.Line("template<>")
		s.Linef("struct %s_TagToType<%s::%s> {", name, tag, m.Name)
		s.Linef("\tusing type = %s;", ValueType(m.Type))
		s.Line("};")
	}

	s.Write("\n")
	s.Linef("// UNION %s", name)
	s.Linef("class %s", name)
	s.Line("{")
	s.Line("public:")
	restore := s.Indent(1)

	s.Linef("using Tag = %s;", tag)
	s.Line("/**** Constructors ****/")
	s.Linef("%s() :_tag(Tag::INVALID) { }", name)
	s.Linef("explicit %s(const CLAD::SafeMessageBuffer& buff);", name)
	s.Linef("explicit %s(const uint8_t* buffer, size_t length);", name)
	s.Linef("%[1]s(const %[1]s& other);", name)
	s.Linef("%[1]s(%[1]s&& other) noexcept;", name)
	s.Linef("%[1]s& operator=(const %[1]s& other);", name)
	s.Linef("%[1]s& operator=(%[1]s&& other) noexcept;", name)
	s.Write("\n")
	s.Linef("~%s() { ClearCurrent(); }", name)
	s.Line("Tag GetTag() const { return _tag; }")
	s.Write("\n")

	s.Line("// Templated getter for union members by type")
	s.Line("// NOTE: Always returns a reference, even for trivial types, unlike untemplated version")
	s.Line("template<Tag tag>")
	s.Linef("const typename %s_TagToType<tag>::type & Get_() const;", name)
	s.Write("\n")
	s.Line("// Templated creator for making a union object out of one if its members")
	s.Line("template <Tag tag>")
	s.Linef("static %[1]s Create_(typename %[1]s_TagToType<tag>::type member);", name)
	s.Write("\n")

	for _, m := range u.Members {
		valueType, paramType := ValueType(m.Type), ParameterType(m.Type)
		s.Linef("/** %s **/", m.Name)
		s.Linef("static %s Create%s(%s&& new_%s);", name, m.Name, valueType, m.Name)
		if e.emitsHelperConstructor(u, m) {
			s.Linef("%s(%s&& new_%s);", name, valueType, m.Name)
		}
		s.Linef("%s Get_%s() const;", paramType, m.Name)
		s.Linef("void Set_%s(%s new_%s);", m.Name, paramType, m.Name)
		if !IsTrivial(m.Type) {
			s.Linef("void Set_%s(%s&& new_%s);", m.Name, valueType, m.Name)
		}
		s.Write("\n")
	}

	s.Write(`size_t Unpack(const uint8_t* buff, const size_t len);
size_t Unpack(const CLAD::SafeMessageBuffer& buffer);

size_t Pack(uint8_t* buff, size_t len) const;
size_t Pack(CLAD::SafeMessageBuffer& buffer) const;

`)
	s.Line("/**** Cast to byte buffer, adjusting any padding. ****/")
	s.Linef("inline %[1]s* GetBuffer() { return reinterpret_cast<%[1]s*>(&this->_tag); }", byteType)
	s.Linef("inline const %[1]s* GetBuffer() const { return reinterpret_cast<const %[1]s*>(&this->_tag); }", byteType)
	s.Write("\n")
	s.Line("/**** Check if current message is parsable. ****/")
	s.Line("bool IsValid() const;")
	s.Write("\n")
	e.declareSize(u)
	s.Linef("bool operator==(const %s& other) const;", name)
	s.Linef("bool operator!=(const %s& other) const;", name)
	if e.emitsUnionJSON(u) {
		s.Write("\n")
		e.declareJSON()
	}
	restore()

	s.Line("private:")
	restore = s.Indent(1)
	s.Line("void ClearCurrent();")
	s.Line("Tag _tag;")
	s.Write("\n")
	s.Line("union {")
	for _, m := range u.Members {
		s.Linef("\t%s %s;", ValueType(m.Type), slot(m))
	}
	s.Line("};")
	restore()
	s.Write("};\n\n")
	e.declareVersionHash(name)
}

func (e *emitter) emitsUnionJSON(u *ast.UnionDecl) bool {
	return e.opts.JSON && allMembersHaveDefaultConstructor(u)
}

// unionSwitch writes a switch over the union's tags with one case per member
func (e *emitter) unionSwitch(u *ast.UnionDecl, tagType, argument string, body func(m *ast.UnionMember), defaultCase string) {
	s := e.s
	s.Linef("switch(%s) {", argument)
	for _, m := range u.Members {
		s.Linef("case %s::%s:", tagType, m.Name)
		restore := s.Indent(1)
		body(m)
		restore()
	}
	s.Line("default:")
	restore := s.Indent(1)
	s.Write(defaultCase)
	restore()
	s.Line("}")
}

func (e *emitter) switchOnTag(u *ast.UnionDecl, body func(m *ast.UnionMember), defaultCase string) {
	e.unionSwitch(u, "Tag", "GetTag()", body, defaultCase)
}

func (e *emitter) defineUnion(u *ast.UnionDecl) {
	e.s.Linef("// UNION %s", u.Name)
	e.s.Write("\n")

	e.defineUnionConstructors(u)
	e.defineUnionAccessors(u)
	e.defineUnionUnpack(u)
	e.defineUnionPack(u)
	e.defineUnionIsValid(u)
	e.defineUnionSize(u)
	e.defineUnionEquality(u)
	if e.emitsUnionJSON(u) {
		e.defineUnionJSON(u)
	}
	e.defineClearCurrent(u)
	e.defineTagToString(u)

	e.s.Write("\n")
	e.defineVersionHash(u, u.Name, u.HashStr)
}

func (e *emitter) defineUnionConstructors(u *ast.UnionDecl) {
	s := e.s
	name := u.Name

	s.Linef("%[1]s::%[1]s(const CLAD::SafeMessageBuffer& buff)", name)
	s.Line(": _tag(Tag::INVALID)")
	s.Line("{")
	s.Line("\tUnpack(buff);")
	s.Line("}")
	s.Write("\n")
	s.Linef("%[1]s::%[1]s(const uint8_t* buffer, size_t length)", name)
	s.Line(": _tag(Tag::INVALID)")
	s.Line("{")
	s.Line("\tCLAD::SafeMessageBuffer buff(const_cast<uint8_t*>(buffer), length);")
	s.Line("\tUnpack(buff);")
	s.Line("}")
	s.Write("\n")

	// Union storage is raw bytes: non-trivial members are placement-constructed
	copyBody := func(m *ast.UnionMember) {
		if IsTrivial(m.Type) {
			s.Linef("this->%[1]s = other.%[1]s;", slot(m))
		} else {
			s.Linef("new(&(this->%[1]s)) %[2]s(other.%[1]s);", slot(m), ValueType(m.Type))
		}
		s.Line("break;")
	}
	moveBody := func(m *ast.UnionMember) {
		if IsTrivial(m.Type) {
			s.Linef("this->%[1]s = other.%[1]s;", slot(m))
		} else {
			s.Linef("new(&(this->%[1]s)) %[2]s(std::move(other.%[1]s));", slot(m), ValueType(m.Type))
		}
		s.Line("break;")
	}
	const invalidate = "_tag = Tag::INVALID;\nbreak;\n"

	s.Linef("%[1]s::%[1]s(const %[1]s& other)", name)
	s.Line(": _tag(other._tag)")
	s.Line("{")
	restore := s.Indent(1)
	e.switchOnTag(u, copyBody, invalidate)
	restore()
	s.Line("}")
	s.Write("\n")

	s.Linef("%[1]s::%[1]s(%[1]s&& other) noexcept", name)
	s.Line(": _tag(other._tag)")
	s.Line("{")
	restore = s.Indent(1)
	e.switchOnTag(u, moveBody, invalidate)
	restore()
	s.Line("\tother.ClearCurrent();")
	s.Line("}")
	s.Write("\n")

	s.Linef("%[1]s& %[1]s::operator=(const %[1]s& other)", name)
	s.Line("{")
	s.Line("\tif(this == &other) { return *this; }")
	s.Line("\tClearCurrent();")
	s.Line("\t_tag = other._tag;")
	restore = s.Indent(1)
	e.switchOnTag(u, copyBody, invalidate)
	restore()
	s.Line("\treturn *this;")
	s.Line("}")
	s.Write("\n")

	s.Linef("%[1]s& %[1]s::operator=(%[1]s&& other) noexcept", name)
	s.Line("{")
	s.Line("\tif(this == &other) { return *this; }")
	s.Line("\tClearCurrent();")
	s.Line("\t_tag = other._tag;")
	restore = s.Indent(1)
	e.switchOnTag(u, moveBody, invalidate)
	restore()
	s.Line("\tother.ClearCurrent();")
	s.Line("\treturn *this;")
	s.Line("}")
	s.Write("\n")
}

func (e *emitter) defineUnionAccessors(u *ast.UnionDecl) {
	s := e.s
	name := u.Name
	for _, m := range u.Members {
		valueType, paramType, private := ValueType(m.Type), ParameterType(m.Type), slot(m)

		s.Linef("%[1]s %[1]s::Create%[2]s(%[3]s&& new_%[2]s)", name, m.Name, valueType)
		s.Line("{")
		s.Linef("\t%s m;", name)
		s.Linef("\tm.Set_%[1]s(new_%[1]s);", m.Name)
		s.Line("\treturn m;")
		s.Line("}")
		s.Write("\n")

		if e.emitsHelperConstructor(u, m) {
			s.Linef("%[1]s::%[1]s(%[2]s&& new_%[3]s)", name, valueType, m.Name)
			s.Line("{")
			s.Linef("\tnew(&this->%s) %s(std::move(new_%s));", private, valueType, m.Name)
			s.Linef("\t_tag = Tag::%s;", m.Name)
			s.Line("}")
			s.Write("\n")
		}

		s.Linef("%s %s::Get_%s() const", paramType, name, m.Name)
		s.Line("{")
		s.Linef("\tassert(_tag == Tag::%s);", m.Name)
		s.Linef("\treturn this->%s;", private)
		s.Line("}")
		s.Write("\n")

		s.Linef("void %[1]s::Set_%[2]s(%[3]s new_%[2]s)", name, m.Name, paramType)
		s.Line("{")
		s.Linef("\tif(this->_tag == Tag::%s) {", m.Name)
		s.Linef("\t\tthis->%s = new_%s;", private, m.Name)
		s.Line("\t}")
		s.Line("\telse {")
		s.Line("\t\tClearCurrent();")
		if IsTrivial(m.Type) {
			s.Linef("\t\tthis->%s = new_%s;", private, m.Name)
		} else {
			s.Linef("\t\tnew(&this->%s) %s(new_%s);", private, valueType, m.Name)
		}
		s.Linef("\t\t_tag = Tag::%s;", m.Name)
		s.Line("\t}")
		s.Line("}")
		s.Write("\n")

		s.Line("template<>")
		s.Linef("const %[1]s& %[2]s::Get_<%[2]s::Tag::%[3]s>() const", valueType, name, m.Name)
		s.Line("{")
		s.Linef("\tassert(_tag == Tag::%s);", m.Name)
		s.Linef("\treturn this->%s;", private)
		s.Line("}")
		s.Write("\n")

		s.Line("template<>")
		s.Linef("%[1]s %[1]s::Create_<%[1]s::Tag::%[2]s>(%[3]s member)", name, m.Name, valueType)
		s.Line("{")
		s.Linef("\treturn Create%s(std::move(member));", m.Name)
		s.Line("}")
		s.Write("\n")

		if !IsTrivial(m.Type) {
			s.Linef("void %[1]s::Set_%[2]s(%[3]s&& new_%[2]s)", name, m.Name, valueType)
			s.Line("{")
			s.Linef("\tif (this->_tag == Tag::%s) {", m.Name)
			s.Linef("\t\tthis->%s = std::move(new_%s);", private, m.Name)
			s.Line("\t}")
			s.Line("\telse {")
			s.Line("\t\tClearCurrent();")
			s.Linef("\t\tnew(&this->%s) %s(std::move(new_%s));", private, valueType, m.Name)
			s.Linef("\t\t_tag = Tag::%s;", m.Name)
			s.Line("\t}")
			s.Line("}")
			s.Write("\n")
		}
	}
}

func (e *emitter) defineUnionUnpack(u *ast.UnionDecl) {
	s := e.s
	s.Linef("size_t %s::Unpack(const uint8_t* buff, const size_t len)", u.Name)
	s.Line("{")
	s.Line("\tconst CLAD::SafeMessageBuffer buffer(const_cast<uint8_t*>(buff), len, false);")
	s.Line("\treturn Unpack(buffer);")
	s.Line("}")
	s.Write("\n")

	s.Linef("size_t %s::Unpack(const CLAD::SafeMessageBuffer& buffer)", u.Name)
	s.Line("{")
	s.Line("\tTag newTag {Tag::INVALID};")
	s.Line("\tconst Tag oldTag {GetTag()};")
	s.Line("\tbuffer.Read(newTag);")
	s.Line("\tif (newTag != oldTag) {")
	s.Line("\t\tClearCurrent();")
	s.Line("\t}")
	restore := s.Indent(1)
	e.unionSwitch(u, "Tag", "newTag", func(m *ast.UnionMember) {
		private := slot(m)
		switch {
		case IsTrivial(m.Type):
			writeUnpack(s, m.Type, private)
		case isCompound(m.Type):
			// A fresh slot is constructed straight from the buffer
			s.Line("if (newTag != oldTag) {")
			s.Linef("\tnew(&(this->%s)) %s(buffer);", private, ValueType(m.Type))
			s.Line("}")
			s.Line("else {")
			inner := s.Indent(1)
			writeUnpack(s, m.Type, private)
			inner()
			s.Line("}")
		default:
			s.Line("if (newTag == oldTag) {")
			s.Line("\tClearCurrent();")
			s.Line("}")
			s.Linef("new(&(this->%s)) %s();", private, ValueType(m.Type))
			writeUnpack(s, m.Type, private)
		}
		s.Line("break;")
	}, "break;\n")
	restore()
	s.Line("\t_tag = newTag;")
	s.Line("\treturn buffer.GetBytesRead();")
	s.Line("}")
	s.Write("\n")
}

func isCompound(t ast.Type) bool {
	_, ok := t.(*ast.CompoundType)
	return ok
}

func (e *emitter) defineUnionPack(u *ast.UnionDecl) {
	s := e.s
	s.Linef("size_t %s::Pack(uint8_t* buff, size_t len) const", u.Name)
	s.Line("{")
	s.Line("\tCLAD::SafeMessageBuffer buffer(buff, len, false);")
	s.Line("\treturn Pack(buffer);")
	s.Line("}")
	s.Write("\n")

	s.Linef("size_t %s::Pack(CLAD::SafeMessageBuffer& buffer) const", u.Name)
	s.Line("{")
	s.Line("\tbuffer.Write(_tag);")
	restore := s.Indent(1)
	e.switchOnTag(u, func(m *ast.UnionMember) {
		writePack(s, m.Type, slot(m))
		s.Line("break;")
	}, "break;\n")
	restore()
	s.Line("\treturn buffer.GetBytesWritten();")
	s.Line("}")
	s.Write("\n")
}

func (e *emitter) defineUnionIsValid(u *ast.UnionDecl) {
	s := e.s
	s.Linef("bool %s::IsValid() const", u.Name)
	s.Line("{")
	restore := s.Indent(1)
	e.switchOnTag(u, func(m *ast.UnionMember) {
		s.Linef("return %s;", validity(m.Type, slot(m)))
	}, "return false;\n")
	restore()
	s.Line("}")
	s.Write("\n")
}

func (e *emitter) defineUnionSize(u *ast.UnionDecl) {
	if u.IsMessageSizeFixed() {
		return
	}
	s := e.s
	s.Linef("%s %s::Size() const", sizeType, u.Name)
	s.Line("{")
	s.Linef("\t%s result = %d; // tag", sizeType, u.TagStorageType.Size)
	restore := s.Indent(1)
	e.switchOnTag(u, func(m *ast.UnionMember) {
		writeSize(s, m.Type, slot(m))
		s.Line("break;")
	}, "break;\n")
	restore()
	s.Line("\treturn result;")
	s.Line("}")
	s.Write("\n")
}

func (e *emitter) defineUnionEquality(u *ast.UnionDecl) {
	s := e.s
	s.Linef("bool %[1]s::operator==(const %[1]s& other) const", u.Name)
	s.Line("{")
	s.Line("\tif (this->_tag != other._tag) {")
	s.Line("\t\treturn false;")
	s.Line("\t}")
	restore := s.Indent(1)
	e.switchOnTag(u, func(m *ast.UnionMember) {
		s.Linef("return this->%[1]s == other.%[1]s;", slot(m))
	}, "return true;\n")
	restore()
	s.Line("}")
	s.Write("\n")
	s.Linef("bool %[1]s::operator!=(const %[1]s& other) const", u.Name)
	s.Line("{")
	s.Line("\treturn !(operator==(other));")
	s.Line("}")
	s.Write("\n")
}

func (e *emitter) defineUnionJSON(u *ast.UnionDecl) {
	s := e.s
	s.Linef("Json::Value %s::GetJSON() const", u.Name)
	s.Line("{")
	s.Line("\tJson::Value root;")
	restore := s.Indent(1)
	e.switchOnTag(u, func(m *ast.UnionMember) {
		if _, ok := JSONAccessor(m.Type); ok {
			s.Linef("root[\"value\"] = this->%s;", slot(m))
		} else if isStructure(m.Type) {
			s.Linef("root = this->%s.GetJSON();", slot(m))
		} else {
			e.log.Warnw("union member is not serializable to JSON; only its tag is written",
				logger.FieldDecl, u.FullyQualifiedName(), logger.FieldMember, m.Name)
			s.Linef("// %s is not serializable.", m.Name)
		}
		s.Linef("root[\"type\"] = \"%s\";", m.Name)
		s.Line("break;")
	}, "break;\n")
	restore()
	s.Line("\treturn root;")
	s.Line("}")
	s.Write("\n")

	s.Linef("bool %s::SetFromJSON(const Json::Value& json)", u.Name)
	s.Line("{")
	s.Line("\tClearCurrent();")
	s.Write("\n")
	s.Line("\tbool result = false;")
	s.Write("\n")
	s.Line("\tif(json.isMember(\"type\")) {")
	s.Line("\t\tstd::string tagStr = json[\"type\"].asString();")
	s.Write("\n")
	s.Line("\t\ttry {")
	restore = s.Indent(3)
	s.Line("if(tagStr == \"INVALID\") {")
	s.Line("\t// Already cleared, do nothing.")
	s.Line("\tresult = true;")
	s.Line("}")
	for _, m := range u.Members {
		s.Linef("else if(tagStr == \"%s\") {", m.Name)
		inner := s.Indent(1)
		s.Linef("new(&(this->%s)) %s;", slot(m), ValueType(m.Type))
		if method, ok := JSONAccessor(m.Type); ok {
			s.Linef("this->%s = json[\"value\"].%s;", slot(m), method)
			s.Line("result = true;")
		} else if isStructure(m.Type) {
			s.Linef("result = this->%s.SetFromJSON(json);", slot(m))
		} else {
			s.Linef("// %s is not a structure, is not serializable.", m.Name)
			s.Line("result = false;")
		}
		s.Linef("_tag = Tag::%s;", m.Name)
		inner()
		s.Line("}")
	}
	restore()
	s.Line("\t\t}")
	s.Line("\t\tcatch(Json::LogicError) {")
	s.Line("\t\t\tresult = false;")
	s.Line("\t\t}")
	s.Line("\t}")
	s.Write("\n")
	s.Line("\treturn result;")
	s.Line("}")
	s.Write("\n")
}

func (e *emitter) defineClearCurrent(u *ast.UnionDecl) {
	s := e.s
	s.Linef("void %s::ClearCurrent()", u.Name)
	s.Line("{")
	restore := s.Indent(1)
	e.switchOnTag(u, func(m *ast.UnionMember) {
		if !IsTrivial(m.Type) {
			s.Linef("%s.~%s();", slot(m), DestructorType(m.Type))
		}
		s.Line("break;")
	}, "break;\n")
	restore()
	s.Line("\t_tag = Tag::INVALID;")
	s.Line("}")
	s.Write("\n")
}

func (e *emitter) defineTagToString(u *ast.UnionDecl) {
	s := e.s
	tag := tagName(u)
	s.Linef("const char* %[1]sToString(const %[1]s tag) {", tag)
	restore := s.Indent(1)
	e.unionSwitch(u, tag, "tag", func(m *ast.UnionMember) {
		s.Linef("return \"%s\";", m.Name)
	}, "return \"INVALID\";\n")
	restore()
	s.Line("}")
}
