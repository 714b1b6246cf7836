package cpp

import (
	"strconv"

	"github.com/teranos/clad/clad/ast"
)

// tagHeaderBody renders the tag enums inside their namespaces, then the
// std::hash specializations at file scope
func (e *emitter) tagHeaderBody(list *ast.DeclList) string {
	e.tagDecls(list.Decls)
	for _, u := range ast.Unions(list.Decls) {
		e.tagHash(u)
	}
	return e.s.String()
}

func (e *emitter) tagDecls(decls []ast.Decl) {
	for _, d := range decls {
		switch d := d.(type) {
		case *ast.NamespaceDecl:
			// Namespaces without unions produce nothing here
			if len(ast.Unions(d.Decls)) == 0 {
				continue
			}
			e.s.Linef("namespace %s {", d.Name)
			e.s.Write("\n")
			e.tagDecls(d.Decls)
			e.s.Linef("} // namespace %s", d.Name)
			e.s.Write("\n")
		case *ast.UnionDecl:
			e.tagEnum(d)
		}
	}
}

func (e *emitter) tagEnum(u *ast.UnionDecl) {
	s := e.s
	tag := tagName(u)
	// Tags are one byte wide
	s.Linef("enum class %s : uint8_t {", tag)
	rows := make([][]string, 0, len(u.Members)+1)
	for _, m := range u.Members {
		comment := " // " + strconv.Itoa(m.Tag)
		if m.Init != nil {
			value := strconv.Itoa(m.Tag)
			if m.Init.Kind == ast.LiteralHex {
				value = hexInt(int64(m.Tag))
			}
			rows = append(rows, []string{m.Name, " = " + value + ",", comment})
		} else {
			rows = append(rows, []string{m.Name + ",", "", comment})
		}
	}
	rows = append(rows, []string{"INVALID", " = " + strconv.Itoa(u.InvalidTag)})
	restore := s.Indent(1)
	s.WriteWithAlignedWhitespace(rows)
	restore()
	s.Write("};\n\n")
	s.Linef("const char* %[1]sToString(const %[1]s tag);", tag)
	s.Write("\n")
}

func (e *emitter) tagHash(u *ast.UnionDecl) {
	qualified := u.FullyQualifiedName() + "Tag"
	s := e.s
	s.Line("template<>")
	s.Linef("struct std::hash<%s>", qualified)
	s.Line("{")
	s.Linef("\tsize_t operator()(%s t) const", qualified)
	s.Line("\t{")
	s.Linef("\t\treturn static_cast<std::underlying_type<%s>::type>(t);", qualified)
	s.Line("\t}")
	s.Line("};")
	s.Write("\n")
}
