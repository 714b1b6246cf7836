package errors

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Coord is a position in a schema file. Line and Column are 1-based.
type Coord struct {
	File   string `yaml:"file"`
	Line   int    `yaml:"line"`
	Column int    `yaml:"column"`
}

// String renders the coordinate as file:line:col.
func (c Coord) String() string {
	if c.File == "" {
		return fmt.Sprintf("%d:%d", c.Line, c.Column)
	}
	return fmt.Sprintf("%s:%d:%d", c.File, c.Line, c.Column)
}

// IsZero reports whether the coordinate carries no position.
func (c Coord) IsZero() bool {
	return c.File == "" && c.Line == 0 && c.Column == 0
}

// Diagnostic is an error anchored to a schema coordinate.
// It renders as "file:line:col: message" and unwraps to its category sentinel.
type Diagnostic struct {
	Coord    Coord
	Message  string
	Category error
}

func (d *Diagnostic) Error() string {
	if d.Coord.IsZero() {
		return d.Message
	}
	return d.Coord.String() + ": " + d.Message
}

func (d *Diagnostic) Unwrap() error {
	return d.Category
}

// NewDiagnostic creates a diagnostic in the given category.
func NewDiagnostic(category error, coord Coord, msg string) error {
	return WithStack(&Diagnostic{Coord: coord, Message: msg, Category: category})
}

// NewDiagnosticf creates a diagnostic with a formatted message.
func NewDiagnosticf(category error, coord Coord, format string, args ...interface{}) error {
	return NewDiagnostic(category, coord, fmt.Sprintf(format, args...))
}

// AsDiagnostic extracts the first Diagnostic in the chain, if any.
func AsDiagnostic(err error) (*Diagnostic, bool) {
	var d *Diagnostic
	if As(err, &d) {
		return d, true
	}
	return nil, false
}

// ShortFile strips directories from a coordinate's file, for compact messages.
func (c Coord) ShortFile() Coord {
	if c.File != "" {
		c.File = filepath.Base(c.File)
	}
	return c
}

// Diagnostics reports several errors at once, one per line. It unwraps to the
// first error so errors.Is sees that error's category.
type Diagnostics []error

func (d Diagnostics) Error() string {
	lines := make([]string, 0, len(d))
	for _, err := range d {
		lines = append(lines, err.Error())
	}
	return strings.Join(lines, "\n")
}

func (d Diagnostics) Unwrap() error {
	if len(d) == 0 {
		return nil
	}
	return d[0]
}

// Combine returns nil for no errors, the error itself for one, and
// Diagnostics otherwise
func Combine(errs []error) error {
	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	}
	return Diagnostics(errs)
}
