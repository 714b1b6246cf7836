// Package output holds the text sink the C++ emitters write into and the
// file-level helpers around it: comment headers, inclusion guards, include
// rewriting, output paths and atomic writes.
package output

import (
	"fmt"
	"strings"
)

// Sink accumulates generated source text. Indentation is one tab per level and
// is inserted at the start of every non-empty line written while it is active.
// A Sink is owned by a single compile and is not safe for concurrent use.
type Sink struct {
	buf         strings.Builder
	indent      int
	atLineStart bool
}

// NewSink creates an empty sink at indentation zero
func NewSink() *Sink {
	return &Sink{atLineStart: true}
}

// Write appends text, indenting each line that starts inside it
func (s *Sink) Write(text string) {
	for len(text) > 0 {
		line, rest, found := strings.Cut(text, "\n")
		if line != "" {
			if s.atLineStart && s.indent > 0 {
				s.buf.WriteString(strings.Repeat("\t", s.indent))
			}
			s.buf.WriteString(line)
			s.atLineStart = false
		}
		if !found {
			return
		}
		s.buf.WriteByte('\n')
		s.atLineStart = true
		text = rest
	}
}

// Line writes text followed by a newline
func (s *Sink) Line(text string) {
	s.Write(text)
	s.Write("\n")
}

// Linef is Line with fmt formatting
func (s *Sink) Linef(format string, args ...interface{}) {
	s.Line(fmt.Sprintf(format, args...))
}

// Indent raises the indentation by n levels until the returned func is called:
//
//	defer sink.Indent(1)()
func (s *Sink) Indent(n int) func() {
	previous := s.indent
	s.indent += n
	return func() { s.indent = previous }
}

// ResetIndent drops the indentation to zero until the returned func is called
func (s *Sink) ResetIndent() func() {
	previous := s.indent
	s.indent = 0
	return func() { s.indent = previous }
}

// WriteWithAlignedWhitespace writes each row as one line, padding every
// column but the last with spaces so the columns line up across rows.
// Trailing spaces are trimmed.
func (s *Sink) WriteWithAlignedWhitespace(rows [][]string) {
	var widths []int
	for _, row := range rows {
		for i, cell := range row {
			if i == len(row)-1 {
				break
			}
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			widths[i] = max(widths[i], len(cell))
		}
	}

	for _, row := range rows {
		var line strings.Builder
		for i, cell := range row {
			line.WriteString(cell)
			if i < len(row)-1 {
				line.WriteString(strings.Repeat(" ", widths[i]-len(cell)))
			}
		}
		s.Line(strings.TrimRight(line.String(), " "))
	}
}

// String returns everything written so far
func (s *Sink) String() string {
	return s.buf.String()
}
