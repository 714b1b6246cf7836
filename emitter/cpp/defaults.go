package cpp

import (
	"strings"

	"github.com/teranos/clad/clad/ast"
)

// hasDefaultConstructor reports whether values of t can be default-constructed.
// Unions always can; messages declared no_default_constructor cannot, and
// neither can anything that contains one.
func hasDefaultConstructor(t ast.Type) bool {
	switch t := t.(type) {
	case *ast.CompoundType:
		if m, ok := t.Decl.(*ast.MessageDecl); ok {
			return m.DefaultConstructor && allMembersHaveDefaultConstructor(m)
		}
	case *ast.FixedArrayType:
		return hasDefaultConstructor(t.MemberType)
	case *ast.VariableArrayType:
		return hasDefaultConstructor(t.MemberType)
	}
	return true
}

// allMembersHaveDefaultConstructor reports whether every member of a message
// or union can be default-constructed
func allMembersHaveDefaultConstructor(d ast.Decl) bool {
	for _, m := range ast.MembersOf(d) {
		if !hasDefaultConstructor(m.MemberType()) {
			return false
		}
	}
	return true
}

// explicitInitializers builds the member-initializer list used when a
// message's members cannot all be default-constructed. Every message-typed
// member is constructed through its positional constructor with zero values:
//
//	: pose(0, 0, "", {}), target(Anki::Point(0, 0))
func explicitInitializers(m *ast.MessageDecl) string {
	var inits []string
	for _, member := range m.Members {
		c, ok := member.Type.(*ast.CompoundType)
		if !ok {
			continue
		}
		nested, ok := c.Decl.(*ast.MessageDecl)
		if !ok {
			continue
		}
		inits = append(inits, member.Name+"("+zeroArguments(nested)+")")
	}
	if len(inits) == 0 {
		return ""
	}
	return ": " + strings.Join(inits, ", ")
}

// zeroArguments renders one zero value per member of m, in declaration order
func zeroArguments(m *ast.MessageDecl) string {
	args := make([]string, 0, len(m.Members))
	for _, member := range m.Members {
		args = append(args, zeroValue(member.Type))
	}
	return strings.Join(args, ", ")
}

func zeroValue(t ast.Type) string {
	switch t := t.(type) {
	case *ast.PascalStringType:
		return `""`
	case *ast.FixedArrayType, *ast.VariableArrayType, *ast.DefinedType:
		return "{}"
	case *ast.CompoundType:
		if nested, ok := t.Decl.(*ast.MessageDecl); ok {
			return t.FullyQualifiedName() + "(" + zeroArguments(nested) + ")"
		}
		return t.FullyQualifiedName() + "()"
	}
	return "0"
}
