package cpp

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/zeebo/blake3"

	"github.com/teranos/clad/clad/ast"
	"github.com/teranos/clad/clad/parser"
	"github.com/teranos/clad/config"
	"github.com/teranos/clad/emitter/output"
	"github.com/teranos/clad/errors"
	"github.com/teranos/clad/logger"
)

// Unit holds the rendered files for one schema. TagHeader is empty when the
// schema declares no unions.
type Unit struct {
	Paths  output.Paths
	Inputs []string // Absolute paths of every schema read, sorted

	Header    string
	Source    string
	TagHeader string
}

// HasTagHeader reports whether a tag header was generated
func (u *Unit) HasTagHeader() bool {
	return u.TagHeader != ""
}

var mainSystemHeaders = []string{
	"algorithm", "array", "cassert", "cstdint", "string", "vector", "CLAD/SafeMessageBuffer.h",
}

var sourceSystemHeaders = []string{"unordered_map", "limits", "iostream"}

var tagSystemHeaders = []string{"cstdint", "functional"}

// formatRevision is bumped whenever generated code changes shape for the
// same schema
const formatRevision = 1

// FormatHash identifies the layout of generated code: its revision, include
// sets and union tag encoding. Outputs from emitters with equal hashes are
// interchangeable.
func FormatHash() string {
	var b strings.Builder
	fmt.Fprintf(&b, "revision %d\n", formatRevision)
	fmt.Fprintf(&b, "header %s\n", strings.Join(mainSystemHeaders, " "))
	fmt.Fprintf(&b, "source %s\n", strings.Join(sourceSystemHeaders, " "))
	fmt.Fprintf(&b, "tag %s\n", strings.Join(tagSystemHeaders, " "))
	fmt.Fprintf(&b, "tag storage %s invalid %d\n", ast.UnionTagStorage, ast.UnionInvalidTag)
	sum := blake3.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:8])
}

// Generate checks list and renders its files in memory. Constraint
// violations are all reported together and nothing is rendered.
func Generate(list *ast.DeclList, paths output.Paths, comments []string, opts Options) (unit *Unit, err error) {
	if err := Check(list, opts); err != nil {
		return nil, err
	}
	if err := CheckHelperConstructors(list, opts); err != nil {
		return nil, err
	}
	defer recoverAbort(&err)

	if logger.ShouldLogTrace(logger.Verbosity) {
		traceSizes(list)
	}

	unit = &Unit{Paths: paths}
	var headerLocals []string

	if len(ast.Unions(list.Decls)) > 0 {
		unit.TagHeader = output.CFile{
			Comments:      comments,
			Guard:         output.InclusionGuard(paths.TagHeaderName),
			SystemHeaders: tagSystemHeaders,
		}.Render(newEmitter(opts).tagHeaderBody(list))
		headerLocals = append(headerLocals, paths.TagHeaderName)
	}
	if opts.JSON {
		headerLocals = append(headerLocals, "json/json.h")
	}

	unit.Header = output.CFile{
		Comments:      comments,
		Guard:         output.InclusionGuard(paths.HeaderName),
		SystemHeaders: mainSystemHeaders,
		LocalHeaders:  headerLocals,
	}.Render(newEmitter(opts).headerBody(list))

	unit.Source = output.CFile{
		Comments:      comments,
		SystemHeaders: sourceSystemHeaders,
		LocalHeaders:  []string{paths.HeaderName},
	}.Render(newEmitter(opts).sourceBody(list))

	return unit, nil
}

// traceSizes logs the serialized size bounds of every message and union
func traceSizes(list *ast.DeclList) {
	log := logger.Named("emitter.cpp")
	ast.Walk(list.Decls, false, func(d ast.Decl) bool {
		if c, ok := d.(ast.Compound); ok {
			log.Debugw("Declaration size",
				logger.FieldCategory, logger.CategoryName(logger.OutputSizes),
				logger.FieldDecl, c.FullyQualifiedName(),
				logger.FieldMinSize, c.MinMessageSize(),
				logger.FieldMaxSize, c.MaxMessageSize())
		}
		return true
	})
}

// Write stores the unit's files, tag header first. When stdout is non-nil
// the files are concatenated to it instead.
func (u *Unit) Write(stdout io.Writer) error {
	log := logger.Named("emitter.cpp")
	files := []struct{ path, content string }{
		{u.Paths.TagHeader, u.TagHeader},
		{u.Paths.Header, u.Header},
		{u.Paths.Source, u.Source},
	}
	if logger.ShouldOutput(logger.Verbosity, logger.OutputSizes) {
		for _, f := range files {
			if f.content != "" {
				log.Debugw("Output size",
					logger.FieldCategory, logger.CategoryName(logger.OutputSizes),
					logger.FieldOutput, f.path,
					logger.FieldBytes, len(f.content))
			}
		}
	}

	if stdout != nil {
		contents := []string{u.Header, u.Source}
		if u.HasTagHeader() {
			contents = append([]string{u.TagHeader}, contents...)
		}
		return output.WriteStdout(stdout, contents...)
	}

	for _, f := range files {
		if f.content == "" {
			continue
		}
		if output.Unchanged(f.path, []byte(f.content)) {
			log.Debugw("Output unchanged", logger.FieldOutput, f.path)
			continue
		}
		if err := output.WriteFileAtomic(f.path, []byte(f.content)); err != nil {
			return err
		}
	}
	return nil
}

// Compile parses schemaPath, generates its C++ files and writes them
// according to cfg. args is recorded in the generated comment header.
func Compile(cfg *config.Config, schemaPath string, args []string, stdout io.Writer) (*Unit, error) {
	start := time.Now()
	log := logger.Named("emitter.cpp")

	paths, err := output.ResolvePaths(cfg, schemaPath)
	if err != nil {
		return nil, err
	}

	p := parser.New(parser.Options{IncludeDirectories: cfg.Input.IncludeDirectories})
	list, err := p.ParseFile(schemaPath)
	if err != nil {
		return nil, err
	}

	unit, err := Generate(list, paths, output.CommentHeader(schemaPath, args), OptionsFromConfig(cfg))
	if err != nil {
		return nil, errors.Wrapf(err, "generate C++ for %s", schemaPath)
	}
	unit.Inputs = p.Files()

	if !cfg.ToStdout() {
		stdout = nil
	} else if stdout == nil {
		return nil, errors.AssertionFailedf("output directory is %q but no writer was given", config.Stdout)
	}
	if err := unit.Write(stdout); err != nil {
		return nil, err
	}

	counts := ast.Count(list.Decls)
	log.Infow("Generated C++",
		logger.FieldFile, schemaPath,
		logger.FieldCount, counts["message"]+counts["structure"]+counts["union"]+counts["enum"]+counts["enum_concept"],
		logger.FieldDurationMS, time.Since(start).Milliseconds())
	return unit, nil
}
