// Package parser reads CLAD schema files into a resolved ast.DeclList.
//
// Includes are parsed once per file and shared; every type and enum
// reference is resolved while parsing, so declarations must precede their use.
package parser

import (
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/teranos/clad/clad/ast"
	"github.com/teranos/clad/clad/scanner"
	"github.com/teranos/clad/errors"
	"github.com/teranos/clad/logger"
)

// Options configures include lookup
type Options struct {
	// IncludeDirectories are searched, in order, after the including file's directory
	IncludeDirectories []string
}

// Parser parses a root schema and its includes. A Parser caches parsed files
// and is not safe for concurrent use.
type Parser struct {
	opts   Options
	files  map[string]*unit // by absolute path
	order  []string         // absolute paths in the order they were read
	active []string         // include stack, for cycle detection
	log    *zap.SugaredLogger
}

// unit is one parsed schema file with its symbol table
type unit struct {
	list    *ast.DeclList
	symbols *symbols
}

// New creates a parser
func New(opts Options) *Parser {
	return &Parser{
		opts:  opts,
		files: make(map[string]*unit),
		log:   logger.Named("parser"),
	}
}

// ParseFile parses the schema at path and everything it includes
func ParseFile(path string, opts Options) (*ast.DeclList, error) {
	return New(opts).ParseFile(path)
}

// ParseFile parses the schema at path and everything it includes
func (p *Parser) ParseFile(path string) (*ast.DeclList, error) {
	u, err := p.parseFile(path, ast.Coord{})
	if err != nil {
		return nil, err
	}
	return u.list, nil
}

// ParseSource parses schema text held in memory. Includes are resolved
// relative to the directory of name.
func (p *Parser) ParseSource(name, source string) (*ast.DeclList, error) {
	abs, err := filepath.Abs(name)
	if err != nil {
		return nil, errors.Wrapf(err, "resolve %s", name)
	}
	u, err := p.parse(name, abs, source)
	if err != nil {
		return nil, err
	}
	return u.list, nil
}

// Files returns the absolute path of every schema read so far, sorted
func (p *Parser) Files() []string {
	files := slices.Clone(p.order)
	sort.Strings(files)
	return files
}

func (p *Parser) parseFile(path string, from ast.Coord) (*unit, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrapf(err, "resolve %s", path)
	}
	if u, ok := p.files[abs]; ok {
		return u, nil
	}
	if slices.Contains(p.active, abs) {
		return nil, errors.NewDiagnosticf(errors.ErrIncludeCycle, from,
			"%s includes itself through %s", filepath.Base(path), strings.Join(p.chain(abs), " -> "))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WithHint(
				errors.Mark(errors.Wrapf(err, "schema %s", path), errors.ErrNotFound),
				"check the path and the include directories (-I)")
		}
		return nil, errors.Wrapf(err, "read schema %s", path)
	}
	return p.parse(path, abs, string(data))
}

// chain renders the include stack from the first inclusion of abs
func (p *Parser) chain(abs string) []string {
	var names []string
	start := slices.Index(p.active, abs)
	for _, path := range p.active[start:] {
		names = append(names, filepath.Base(path))
	}
	return append(names, filepath.Base(abs))
}

func (p *Parser) parse(display, abs, source string) (*unit, error) {
	p.active = append(p.active, abs)
	defer func() { p.active = p.active[:len(p.active)-1] }()

	f := &fileParser{
		p:       p,
		path:    display,
		dir:     filepath.Dir(display),
		source:  source,
		symbols: newSymbols(),
	}

	toks, bad := scanner.New(strings.NewReader(source)).All()
	if bad != nil {
		return nil, f.errorf(*bad, "%s", bad.Text)
	}
	f.toks = toks
	if logger.ShouldOutput(logger.Verbosity, logger.OutputTokens) {
		p.log.Debugw("Scanned schema",
			logger.FieldCategory, logger.CategoryName(logger.OutputTokens),
			logger.FieldFile, display,
			logger.FieldCount, len(toks))
	}

	decls, err := f.parseDecls(scanner.EOF)
	if err != nil {
		return nil, err
	}

	u := &unit{
		list:    &ast.DeclList{Coord: ast.Coord{File: display, Line: 1, Column: 1}, Path: display, Decls: decls},
		symbols: f.symbols,
	}
	p.files[abs] = u
	p.order = append(p.order, abs)

	if logger.ShouldLogTrace(logger.Verbosity) {
		ast.Walk(decls, false, func(d ast.Decl) bool {
			pos := d.Pos()
			p.log.Debugw("Parsed declaration",
				logger.FieldDeclKind, ast.KindOf(d),
				logger.FieldDecl, d.DeclName(),
				logger.FieldLine, pos.Line,
				logger.FieldColumn, pos.Column)
			return true
		})
	}
	p.log.Debugw("Parsed schema",
		logger.FieldFile, display,
		logger.FieldCount, len(decls),
		"kinds", ast.Count(decls))
	return u, nil
}

// resolveInclude finds an included file relative to the including file, then in the include directories
func (p *Parser) resolveInclude(name, fromDir string) (string, bool) {
	candidates := []string{filepath.Join(fromDir, name)}
	for _, dir := range p.opts.IncludeDirectories {
		candidates = append(candidates, filepath.Join(dir, name))
	}
	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
	}
	return "", false
}
