package cpp

import (
	"github.com/teranos/clad/clad/ast"
	"github.com/teranos/clad/emitter/output"
)

// headerBody renders the declaration file's namespace tree. Includes become
// #include directives for the headers generated from the included schemas.
func (e *emitter) headerBody(list *ast.DeclList) string {
	e.walkHeader(list.Decls, true)
	return e.s.String()
}

func (e *emitter) walkHeader(decls []ast.Decl, topLevel bool) {
	lastWasInclude := false
	for _, d := range decls {
		_, isInclude := d.(*ast.IncludeDecl)
		if lastWasInclude && !isInclude {
			e.s.Write("\n")
		}
		switch d := d.(type) {
		case *ast.IncludeDecl:
			// Includes are only meaningful at file scope
			if topLevel {
				e.s.Linef("#include \"%s\"", output.IncludedHeader(d.Name, e.opts.headerExtension()))
			}
		case *ast.NamespaceDecl:
			e.openNamespace(d)
			e.walkHeader(d.Decls, false)
			e.closeNamespace(d)
		case *ast.EnumDecl:
			e.declareEnum(d)
		case *ast.MessageDecl:
			e.declareStructure(d)
		case *ast.UnionDecl:
			e.declareUnion(d)
		case *ast.EnumConceptDecl:
			e.declareEnumConcept(d)
		}
		lastWasInclude = isInclude && topLevel
	}
	if lastWasInclude {
		e.s.Write("\n")
	}
}

// sourceBody renders the definition file's namespace tree
func (e *emitter) sourceBody(list *ast.DeclList) string {
	e.walkSource(list.Decls)
	return e.s.String()
}

func (e *emitter) walkSource(decls []ast.Decl) {
	for _, d := range decls {
		switch d := d.(type) {
		case *ast.NamespaceDecl:
			e.openNamespace(d)
			e.walkSource(d.Decls)
			e.closeNamespace(d)
		case *ast.EnumDecl:
			e.defineEnum(d)
		case *ast.MessageDecl:
			e.defineStructure(d)
		case *ast.UnionDecl:
			e.defineUnion(d)
		case *ast.EnumConceptDecl:
			e.defineEnumConcept(d)
		}
	}
}

func (e *emitter) openNamespace(d *ast.NamespaceDecl) {
	e.s.Linef("namespace %s {", d.Name)
	e.s.Write("\n")
}

func (e *emitter) closeNamespace(d *ast.NamespaceDecl) {
	e.s.Linef("} // namespace %s", d.Name)
	e.s.Write("\n")
}
