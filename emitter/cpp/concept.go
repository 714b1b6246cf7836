package cpp

import (
	"fmt"

	"github.com/teranos/clad/clad/ast"
	"github.com/teranos/clad/internal/util"
)

func conceptSignature(d *ast.EnumConceptDecl) (string, string) {
	returnType := ValueType(d.ReturnType)
	argument := util.LowerFirst(d.EnumName())
	return fmt.Sprintf("%[1]s %[2]s(const %[3]s& %[4]s, const %[1]s& defaultValue)",
		returnType, d.Name, d.EnumName(), argument), argument
}

func (e *emitter) declareEnumConcept(d *ast.EnumConceptDecl) {
	signature, _ := conceptSignature(d)
	e.s.Linef("%s;", signature)
	e.s.Write("\n")
}

func (e *emitter) defineEnumConcept(d *ast.EnumConceptDecl) {
	s := e.s
	signature, argument := conceptSignature(d)
	s.Line(signature)
	s.Line("{")
	s.Linef("\tswitch(%s) {", argument)
	for _, m := range d.Members {
		s.Linef("\t\tcase %s::%s:", d.EnumName(), m.Name)
		s.Linef("\t\t\treturn %s;", literalText(d.ReturnType, m.Value))
	}
	s.Line("\t\tdefault:")
	s.Line("\t\t\treturn defaultValue;")
	s.Line("\t}")
	s.Line("}")
	s.Write("\n")
}
