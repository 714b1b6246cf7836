package parser

import (
	"fmt"

	"github.com/teranos/clad/clad/ast"
	"github.com/teranos/clad/clad/scanner"
	"github.com/teranos/clad/errors"
)

// fileParser is a recursive-descent parser over the tokens of one file
type fileParser struct {
	p       *Parser
	path    string
	dir     string
	source  string
	toks    []scanner.Token
	pos     int
	ns      *ast.NamespaceDecl
	symbols *symbols

	// pending holds inline declarations (a structure declared as a member type)
	// that are emitted just before the declaration using them
	pending []ast.Decl
}

func (f *fileParser) peek() scanner.Token {
	return f.toks[f.pos]
}

func (f *fileParser) peekAt(offset int) scanner.Token {
	if f.pos+offset >= len(f.toks) {
		return f.toks[len(f.toks)-1]
	}
	return f.toks[f.pos+offset]
}

func (f *fileParser) next() scanner.Token {
	tok := f.toks[f.pos]
	if tok.Type != scanner.EOF {
		f.pos++
	}
	return tok
}

func (f *fileParser) accept(tokenType scanner.TokenType) bool {
	if f.peek().Type == tokenType {
		f.next()
		return true
	}
	return false
}

func (f *fileParser) acceptKeyword(keyword string) bool {
	if f.peek().Is(keyword) {
		f.next()
		return true
	}
	return false
}

func (f *fileParser) expect(tokenType scanner.TokenType, what string) (scanner.Token, error) {
	tok := f.next()
	if tok.Type != tokenType {
		return tok, f.errorf(tok, "Expected %s, found %s", what, describe(tok))
	}
	return tok, nil
}

func (f *fileParser) expectIdent(what string) (scanner.Token, error) {
	tok, err := f.expect(scanner.SYMBOL, what)
	if err != nil {
		return tok, err
	}
	if reserved[tok.Text] {
		return tok, f.errorf(tok, "%q is a reserved word and cannot be used as %s", tok.Text, what)
	}
	return tok, nil
}

func (f *fileParser) coord(tok scanner.Token) ast.Coord {
	return ast.Coord{File: f.path, Line: tok.Line, Column: tok.Column}
}

func (f *fileParser) diagnostic(category error, tok scanner.Token, format string, args ...interface{}) error {
	err := errors.NewDiagnosticf(category, f.coord(tok), format, args...)
	if excerpt := scanner.ExcerptToken(f.source, tok, 1); excerpt != "" {
		err = errors.WithDetail(err, excerpt)
	}
	return err
}

func (f *fileParser) errorf(tok scanner.Token, format string, args ...interface{}) error {
	return f.diagnostic(errors.ErrSyntax, tok, format, args...)
}

func (f *fileParser) unresolvedf(tok scanner.Token, format string, args ...interface{}) error {
	return f.diagnostic(errors.ErrUnresolvedSymbol, tok, format, args...)
}

// declare registers a named declaration in the current namespace
func (f *fileParser) declare(tok scanner.Token, d ast.Scoped) error {
	if prev, ok := f.symbols.declare(d.FullyQualifiedName(), d); !ok {
		return f.errorf(tok, "%s is already declared at %s", d.FullyQualifiedName(), prev.Pos())
	}
	return nil
}

func describe(tok scanner.Token) string {
	switch tok.Type {
	case scanner.EOF:
		return "end of file"
	case scanner.STRING:
		return fmt.Sprintf("string %q", tok.Text)
	}
	return fmt.Sprintf("%q", tok.Text)
}

var reserved = map[string]bool{
	"namespace":              true,
	"enum":                   true,
	"message":                true,
	"structure":              true,
	"union":                  true,
	"enum_concept":           true,
	"string":                 true,
	"no_cpp_class":           true,
	"dupes_allowed":          true,
	"no_default_constructor": true,
}
