package cpp

import (
	"strconv"

	"github.com/teranos/clad/clad/ast"
)

const warnUnusedResultMacro = `#ifndef CLAD_CPP_WARN_UNUSED_RESULT
#define CLAD_CPP_WARN_UNUSED_RESULT __attribute__((warn_unused_result))
#endif

`

// enumValue renders a member's value, in hex when it was written in hex
func enumValue(m *ast.EnumMember) string {
	if m.Initializer != nil && m.Initializer.Kind == ast.LiteralHex {
		return hexInt(m.Value)
	}
	return strconv.FormatInt(m.Value, 10)
}

func (e *emitter) declareEnum(d *ast.EnumDecl) {
	storage := ValueType(d.StorageType)
	s := e.s

	s.Write(warnUnusedResultMacro)
	s.Linef("// ENUM %s", d.Name)
	if d.CppClass {
		s.Linef("enum class %s : %s {", d.Name, storage)
	} else {
		s.Linef("enum %s : %s {", d.Name, storage)
	}
	rows := make([][]string, 0, len(d.Members))
	for _, m := range d.Members {
		rows = append(rows, []string{m.Name, " = " + enumValue(m) + ",", ""})
	}
	restore := s.Indent(1)
	s.WriteWithAlignedWhitespace(rows)
	restore()
	s.Write("};\n\n")

	s.Linef("const char* EnumToString(const %s m);", d.Name)
	s.Linef("inline const char* %[1]sToString(const %[1]s m) { return EnumToString(m); }", d.Name)
	s.Write("\n")

	s.Write("template<typename T>\nCLAD_CPP_WARN_UNUSED_RESULT bool EnumFromString(const std::string& str, T& enumOutput);\n")
	s.Linef("CLAD_CPP_WARN_UNUSED_RESULT bool %[1]sFromString(const std::string& str, %[1]s& enumOutput);", d.Name)
	s.Write("\n")
	s.Linef("%[1]s %[1]sFromString(const std::string&);", d.Name)
	s.Write("\n")

	e.declareVersionHash(d.Name)
	s.Linef("constexpr %s %sNumEntries = %d;", storage, d.Name, len(d.Members))
	s.Write("\n")

	defer s.ResetIndent()()
	s.Linef("constexpr %s EnumToUnderlyingType(%s e)", storage, d.Name)
	s.Line("{")
	s.Linef("  return static_cast<%s>(e);", storage)
	s.Line("}")
	s.Write("\n")
}

func (e *emitter) defineEnum(d *ast.EnumDecl) {
	s := e.s

	s.Linef("const char* EnumToString(const %s m)", d.Name)
	s.Line("{")
	s.Line("\tswitch(m) {")
	for _, m := range d.Members {
		if m.IsDuplicate {
			continue
		}
		s.Linef("\t\tcase %s::%s:", d.Name, m.Name)
		s.Linef("\t\t\treturn \"%s\";", m.Name)
	}
	s.Line("\t\tdefault: return nullptr;")
	s.Line("\t}")
	s.Line("\treturn nullptr;")
	s.Line("}")
	s.Write("\n")

	e.defineVersionHash(d, d.Name, d.HashStr)

	s.Line("template<>")
	s.Linef("bool EnumFromString(const std::string& str, %s& enumOutput)", d.Name)
	s.Line("{")
	s.Linef("\tstatic const std::unordered_map<std::string, %s> stringToEnumMap = {", d.Name)
	for _, m := range d.Members {
		s.Linef("\t\t{\"%[2]s\", %[1]s::%[2]s},", d.Name, m.Name)
	}
	s.Line("\t};")
	s.Write("\n")
	s.Write(`	auto it = stringToEnumMap.find(str);
	if(it == stringToEnumMap.end()) {
		return false;
	}

	enumOutput = it->second;
	return true;
}

`)

	s.Linef("bool %[1]sFromString(const std::string& str, %[1]s& enumOutput)", d.Name)
	s.Line("{")
	s.Line("\treturn EnumFromString(str, enumOutput);")
	s.Line("}")
	s.Write("\n")

	s.Linef("%[1]s %[1]sFromString(const std::string& str)", d.Name)
	s.Line("{")
	s.Linef("\t%s returnVal;", d.Name)
	s.Line("\tif( !EnumFromString(str, returnVal) ) {")
	s.Line("\t\t#ifndef NDEBUG")
	s.Linef("\t\tstd::cerr << \"error: string '\" << str << \"' is not a valid %s value\" << std::endl;", d.Name)
	s.Line("\t\t#endif // NDEBUG")
	s.Linef("\t\tassert(false && \"string must be a valid %s value\");", d.Name)
	s.Linef("\t\treturn %s::%s;", d.Name, d.Members[0].Name)
	s.Line("\t}")
	s.Line("\telse {")
	s.Line("\t\treturn returnVal;")
	s.Line("\t}")
	s.Line("}")
	s.Write("\n")
}
