package cpp

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/teranos/clad/clad/ast"
	"github.com/teranos/clad/clad/parser"
	"github.com/teranos/clad/emitter/output"
)

func parseSchema(t *testing.T, source string) *ast.DeclList {
	t.Helper()
	list, err := parser.New(parser.Options{}).ParseSource(filepath.Join(t.TempDir(), "robot.clad"), source)
	require.NoError(t, err)
	return list
}

func testPaths() output.Paths {
	return output.Paths{
		Base:          "robot",
		Header:        "robot.h",
		Source:        "robot.cpp",
		TagHeader:     "robotTag.h",
		HeaderName:    "robot.h",
		TagHeaderName: "robotTag.h",
	}
}

func generate(t *testing.T, source string, opts Options) *Unit {
	t.Helper()
	unit, err := Generate(parseSchema(t, source), testPaths(), []string{"// test"}, opts)
	require.NoError(t, err)
	return unit
}

// render runs one emitter step into a fresh sink and returns the text
func render(opts Options, step func(e *emitter)) string {
	e := newEmitter(opts)
	step(e)
	return e.s.String()
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

// lines joins its arguments with newlines, for multi-line expectations
func lines(parts ...string) string {
	return strings.Join(parts, "\n") + "\n"
}

func message(t *testing.T, list *ast.DeclList, name string) *ast.MessageDecl {
	t.Helper()
	var found *ast.MessageDecl
	ast.Walk(list.Decls, false, func(d ast.Decl) bool {
		if m, ok := d.(*ast.MessageDecl); ok && m.Name == name {
			found = m
		}
		return true
	})
	require.NotNil(t, found, "message %s", name)
	return found
}

func union(t *testing.T, list *ast.DeclList, name string) *ast.UnionDecl {
	t.Helper()
	for _, u := range ast.Unions(list.Decls) {
		if u.Name == name {
			return u
		}
	}
	t.Fatalf("union %s not found", name)
	return nil
}
