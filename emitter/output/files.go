package output

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/teranos/clad/config"
	"github.com/teranos/clad/errors"
	"github.com/teranos/clad/logger"
)

// Paths locates the files generated for one schema
type Paths struct {
	Base string // Schema path relative to the input directory, extension stripped

	Header    string // Declaration file, under the header directory
	Source    string // Definition file, under the output directory
	TagHeader string // Union tag header, under the header directory

	// Relative forms, as written in #include directives and inclusion guards
	HeaderName    string
	TagHeaderName string
}

// ResolvePaths computes output locations for schemaPath. The schema must live
// under cfg.Input.Directory.
func ResolvePaths(cfg *config.Config, schemaPath string) (Paths, error) {
	inputDir := cfg.Input.Directory
	if inputDir == "" {
		inputDir = "."
	}
	absInput, err := filepath.Abs(inputDir)
	if err != nil {
		return Paths{}, errors.Wrapf(err, "resolve input directory %s", inputDir)
	}
	absSchema, err := filepath.Abs(schemaPath)
	if err != nil {
		return Paths{}, errors.Wrapf(err, "resolve schema %s", schemaPath)
	}
	rel, err := filepath.Rel(absInput, absSchema)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return Paths{}, errors.WithHintf(
			errors.Newf("schema %s is outside the input directory %s", schemaPath, inputDir),
			"pass -C with a directory that contains the schema")
	}

	base := filepath.ToSlash(strings.TrimSuffix(rel, filepath.Ext(rel)))
	p := Paths{
		Base:          base,
		HeaderName:    base + cfg.Output.HeaderExtension,
		TagHeaderName: base + "Tag" + cfg.Output.HeaderExtension,
	}
	p.Header = filepath.Join(cfg.GetHeaderDirectory(), filepath.FromSlash(p.HeaderName))
	p.TagHeader = filepath.Join(cfg.GetHeaderDirectory(), filepath.FromSlash(p.TagHeaderName))
	p.Source = filepath.Join(cfg.Output.Directory, filepath.FromSlash(base+cfg.Output.SourceExtension))
	return p, nil
}

// CommentHeader returns the banner placed at the top of every generated file
func CommentHeader(source string, args []string) []string {
	return []string{
		"// Autogenerated C++ message buffer code.",
		"// Source: " + filepath.ToSlash(source),
		"// Full command line: " + strings.Join(args, " "),
	}
}

// InclusionGuard derives the guard macro for a header at relPath
func InclusionGuard(relPath string) string {
	var b strings.Builder
	b.WriteString("__")
	for _, c := range []byte(strings.ToUpper(filepath.ToSlash(relPath))) {
		if (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			b.WriteByte(c)
		} else {
			b.WriteByte('_')
		}
	}
	b.WriteString("__")
	return b.String()
}

// IncludedHeader rewrites an included schema name to the header generated for it
func IncludedHeader(schemaName, headerExtension string) string {
	return strings.TrimSuffix(schemaName, filepath.Ext(schemaName)) + headerExtension
}

// CFile describes the framing around emitted C or C++ content
type CFile struct {
	Comments      []string
	Guard         string // Empty for files without an inclusion guard
	SystemHeaders []string
	LocalHeaders  []string
}

// Render frames body with the comment header, guard and includes
func (f CFile) Render(body string) string {
	s := NewSink()
	for _, line := range f.Comments {
		s.Line(line)
	}
	s.Write("\n")

	if f.Guard != "" {
		s.Linef("#ifndef %s", f.Guard)
		s.Linef("#define %s", f.Guard)
		s.Write("\n")
	}
	if len(f.SystemHeaders) > 0 {
		for _, h := range f.SystemHeaders {
			s.Linef("#include <%s>", h)
		}
		s.Write("\n")
	}
	if len(f.LocalHeaders) > 0 {
		for _, h := range f.LocalHeaders {
			s.Linef("#include \"%s\"", h)
		}
		s.Write("\n")
	}

	s.Write(body)
	if f.Guard != "" {
		s.Linef("#endif // %s", f.Guard)
	}
	return s.String()
}

// WriteFileAtomic writes content to a temporary sibling of path and renames it
// into place, creating parent directories as needed. On failure the temporary
// file is removed and any previous file at path is left untouched.
func WriteFileAtomic(path string, content []byte) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, config.DefaultDirPermissions); err != nil {
		return errors.Wrapf(err, "create output directory %s", dir)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Wrapf(err, "create temporary file for %s", path)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(content); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	if err = tmp.Chmod(config.DefaultFilePermissions); err != nil {
		return errors.Wrapf(err, "chmod %s", path)
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrapf(err, "close %s", path)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrapf(err, "rename into %s", path)
	}

	logger.Named("output").Infow("Wrote file", logger.FieldOutput, path, logger.FieldBytes, len(content))
	return nil
}

// Unchanged reports whether path already holds exactly content
func Unchanged(path string, content []byte) bool {
	existing, err := os.ReadFile(path)
	return err == nil && bytes.Equal(existing, content)
}

// WriteStdout copies generated files to w in order, one after another
func WriteStdout(w io.Writer, contents ...string) error {
	for _, c := range contents {
		if _, err := io.WriteString(w, c); err != nil {
			return errors.Wrap(err, "write generated code to stdout")
		}
	}
	return nil
}
