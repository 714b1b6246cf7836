package ast

// Visitor is called for each declaration. Returning false skips the
// declaration's children (namespace content or included file).
type Visitor func(d Decl) bool

// Walk visits decls depth-first in source order. Included files are
// entered only when followIncludes is set.
func Walk(decls []Decl, followIncludes bool, visit Visitor) {
	for _, d := range decls {
		if !visit(d) {
			continue
		}
		switch d := d.(type) {
		case *NamespaceDecl:
			Walk(d.Decls, followIncludes, visit)
		case *IncludeDecl:
			if followIncludes && d.File != nil {
				Walk(d.File.Decls, followIncludes, visit)
			}
		}
	}
}

// Unions returns every union declared in decls, excluding included files
func Unions(decls []Decl) []*UnionDecl {
	var out []*UnionDecl
	Walk(decls, false, func(d Decl) bool {
		if u, ok := d.(*UnionDecl); ok {
			out = append(out, u)
		}
		return true
	})
	return out
}

// Objects returns every message and union, optionally including included files
func Objects(decls []Decl, followIncludes bool) []Compound {
	var out []Compound
	Walk(decls, followIncludes, func(d Decl) bool {
		switch d := d.(type) {
		case *MessageDecl:
			out = append(out, d)
		case *UnionDecl:
			out = append(out, d)
		}
		return true
	})
	return out
}

// Count tallies declarations by kind, excluding included files
func Count(decls []Decl) map[string]int {
	counts := map[string]int{}
	Walk(decls, false, func(d Decl) bool {
		counts[KindOf(d)]++
		return true
	})
	return counts
}

// KindOf names a declaration's kind as used in logs and dumps
func KindOf(d Decl) string {
	switch d := d.(type) {
	case *IncludeDecl:
		return "include"
	case *NamespaceDecl:
		return "namespace"
	case *EnumDecl:
		return "enum"
	case *MessageDecl:
		if d.ObjectType != "" {
			return d.ObjectType
		}
		return "message"
	case *UnionDecl:
		return "union"
	case *EnumConceptDecl:
		return "enum_concept"
	}
	return "unknown"
}
