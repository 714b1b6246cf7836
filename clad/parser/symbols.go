package parser

import (
	"strings"

	"github.com/teranos/clad/clad/ast"
)

// symbols maps fully qualified names to declarations visible in one file
type symbols struct {
	local    map[string]ast.Decl
	imported map[string]ast.Decl
}

func newSymbols() *symbols {
	return &symbols{
		local:    make(map[string]ast.Decl),
		imported: make(map[string]ast.Decl),
	}
}

// declare records d under fqn, returning the earlier declaration on a clash
func (s *symbols) declare(fqn string, d ast.Decl) (ast.Decl, bool) {
	if prev, ok := s.local[fqn]; ok {
		return prev, false
	}
	if prev, ok := s.imported[fqn]; ok {
		return prev, false
	}
	s.local[fqn] = d
	return nil, true
}

// include makes everything visible in other visible here
func (s *symbols) include(other *symbols) {
	for name, d := range other.imported {
		s.imported[name] = d
	}
	for name, d := range other.local {
		s.imported[name] = d
	}
}

// lookup resolves name from inside ns: innermost namespace first, then
// outward, then the same search through included files.
func (s *symbols) lookup(ns *ast.NamespaceDecl, name string) ast.Decl {
	candidates := candidates(ns, name)
	for _, c := range candidates {
		if d, ok := s.local[c]; ok {
			return d
		}
	}
	for _, c := range candidates {
		if d, ok := s.imported[c]; ok {
			return d
		}
	}
	return nil
}

func candidates(ns *ast.NamespaceDecl, name string) []string {
	path := ns.Path()
	out := make([]string, 0, len(path)+1)
	for i := len(path); i >= 0; i-- {
		out = append(out, strings.Join(append(path[:i:i], name), "::"))
	}
	return out
}
